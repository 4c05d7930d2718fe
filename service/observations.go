package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"chapterquiz-server/models"
	"chapterquiz-server/stats"
	"chapterquiz-server/utils"
)

// UpdateObservation upserts the observation of chapter. Both arguments must
// be present and truthy.
func (s *Service) UpdateObservation(ctx context.Context, chapter string, data json.RawMessage) error {
	if chapter == "" || !utils.IsTruthyJSON(data) {
		return badRequest("Missing 'chapter' or 'data'")
	}
	ts := s.timestamp()
	updated, err := s.store.Observations.UpdateFirst(ctx,
		func(o models.ChapterObservation) bool { return o.Chapter == chapter },
		func(o *models.ChapterObservation) {
			o.Data = data
			o.UpdatedAt = ts
		})
	if err != nil {
		return fmt.Errorf("update observation: %w", err)
	}
	if !updated {
		entry := models.ChapterObservation{Chapter: chapter, Data: data, UpdatedAt: ts}
		if err := s.store.Observations.Append(ctx, entry); err != nil {
			return fmt.Errorf("update observation: %w", err)
		}
	}
	log.Printf("Updated observation for chapter: %s", chapter)
	s.sync.Trigger(ctx, SyncObservation)
	return nil
}

// ChapterData resolves userID to its chapter and aggregates it. The result is
// models.ChapterData, or models.AllChapterData for the ALL_Chapter sentinel.
func (s *Service) ChapterData(ctx context.Context, userID string) (interface{}, error) {
	if userID == "" {
		return nil, badRequest("Missing 'user_id'")
	}
	user, found, err := s.store.Users.FindFirst(ctx, func(u models.User) bool { return u.UserID == userID })
	if err != nil {
		return nil, fmt.Errorf("chapter data: %w", err)
	}
	if !found {
		return nil, notFound("User not found")
	}
	submissions, observations, err := s.loadAggregationInput(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("Retrieved combined data for chapter: %s", user.Chapter)
	return stats.Aggregate(user.Chapter, submissions, observations), nil
}

// AllChapterData aggregates every chapter regardless of caller.
func (s *Service) AllChapterData(ctx context.Context) (models.AllChapterData, error) {
	submissions, observations, err := s.loadAggregationInput(ctx)
	if err != nil {
		return models.AllChapterData{}, err
	}
	return stats.AllChapters(submissions, observations), nil
}

// Overview summarises the record sets for the admin dashboard.
func (s *Service) Overview(ctx context.Context) (models.Overview, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return models.Overview{}, fmt.Errorf("overview: %w", err)
	}
	pdfs, err := s.store.PdfFiles.List(ctx)
	if err != nil {
		return models.Overview{}, fmt.Errorf("overview: %w", err)
	}
	submissions, observations, err := s.loadAggregationInput(ctx)
	if err != nil {
		return models.Overview{}, err
	}

	events, err := s.RecentAdminEvents(ctx, recentEventLimit)
	if err != nil {
		return models.Overview{}, fmt.Errorf("overview: %w", err)
	}

	registered := make(map[string]bool, len(users))
	for _, u := range users {
		registered[u.Chapter] = true
	}
	all := stats.AllChapters(submissions, observations)
	overview := models.Overview{
		Users:        len(users),
		Submissions:  len(submissions),
		Observations: len(observations),
		PdfFiles:     len(pdfs),
		RecentEvents: events,
	}
	for _, name := range stats.ChapterNames(submissions, observations) {
		entry := all.Chapters[name]
		overview.Chapters = append(overview.Chapters, models.ChapterSummary{
			Chapter:          name,
			TotalSubmissions: entry.TotalSubmissions,
			HasObservation:   entry.Observation != nil,
			Registered:       registered[name],
		})
	}
	return overview, nil
}

func (s *Service) loadAggregationInput(ctx context.Context) ([]models.QuizSubmission, []models.ChapterObservation, error) {
	submissions, err := s.store.Submissions.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load submissions: %w", err)
	}
	observations, err := s.store.Observations.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load observations: %w", err)
	}
	return submissions, observations, nil
}
