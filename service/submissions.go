package service

import (
	"context"
	"fmt"
	"log"

	"chapterquiz-server/metrics"
	"chapterquiz-server/models"
	"chapterquiz-server/utils"
)

// UploadQuiz stores req as the submission of its email, replacing any
// earlier one in place.
func (s *Service) UploadQuiz(ctx context.Context, req models.UploadRequest) error {
	class, _ := req.ClassName()
	quiz := models.QuizSubmission{
		Email:     req.Email,
		Chapter:   req.Chapter,
		Name:      req.Name,
		School:    req.School,
		Class:     class,
		CreatedAt: s.timestamp(),
	}
	quiz.SetAnswers(req.Answers)

	updated, err := s.store.Submissions.UpdateFirst(ctx,
		func(q models.QuizSubmission) bool { return q.Email == quiz.Email },
		func(q *models.QuizSubmission) { *q = quiz })
	if err != nil {
		return fmt.Errorf("upload quiz: %w", err)
	}
	if updated {
		log.Printf("Quiz updated for: %s", quiz.Email)
	} else {
		if err := s.store.Submissions.Append(ctx, quiz); err != nil {
			return fmt.Errorf("upload quiz: %w", err)
		}
		log.Printf("Quiz submitted for: %s", quiz.Email)
	}
	metrics.SubmissionsStored.WithLabelValues("upload").Inc()
	s.sync.Trigger(ctx, SyncUpload)
	return nil
}

// BulkUpload appends one anonymous submission per item and returns how many
// were stored.
func (s *Service) BulkUpload(ctx context.Context, chapter, school string, items []models.Answers) (int, error) {
	n, err := s.appendBulk(ctx, chapter, school, items, "bulk")
	if err != nil {
		return 0, err
	}
	s.sync.Trigger(ctx, SyncBulkUpload)
	return n, nil
}

// ImportSubmissions is BulkUpload for file-based ingestion.
func (s *Service) ImportSubmissions(ctx context.Context, chapter, school string, items []models.Answers) (int, error) {
	n, err := s.appendBulk(ctx, chapter, school, items, "ingestion")
	if err != nil {
		return 0, err
	}
	s.sync.Trigger(ctx, SyncIngestion)
	return n, nil
}

func (s *Service) appendBulk(ctx context.Context, chapter, school string, items []models.Answers, source string) (int, error) {
	submissions, err := s.store.Submissions.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("bulk upload: %w", err)
	}
	for _, item := range items {
		now := s.now()
		quiz := models.QuizSubmission{
			Email:     utils.BulkEmail(now, len(submissions)),
			Chapter:   chapter,
			Name:      utils.BulkName(len(submissions)),
			School:    school,
			Class:     "Bulk",
			CreatedAt: utils.Timestamp(now),
		}
		quiz.SetAnswers(item)
		submissions = append(submissions, quiz)
	}
	if err := s.store.Submissions.ReplaceAll(ctx, submissions); err != nil {
		return 0, fmt.Errorf("bulk upload: %w", err)
	}
	metrics.SubmissionsStored.WithLabelValues(source).Add(float64(len(items)))
	log.Printf("Bulk uploaded %d submissions for chapter %s", len(items), chapter)
	return len(items), nil
}

// CheckMail reports whether any quiz submission carries email.
func (s *Service) CheckMail(ctx context.Context, email string) (bool, error) {
	_, found, err := s.store.Submissions.FindFirst(ctx, func(q models.QuizSubmission) bool { return q.Email == email })
	if err != nil {
		return false, fmt.Errorf("check mail: %w", err)
	}
	log.Printf("Checked email existence in quiz submissions: %s, exists: %t", email, found)
	return found, nil
}

// EmailData returns every submission carrying email, never nil.
func (s *Service) EmailData(ctx context.Context, email string) ([]models.QuizSubmission, error) {
	submissions, err := s.store.Submissions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("email data: %w", err)
	}
	data := []models.QuizSubmission{}
	for _, q := range submissions {
		if q.Email == email {
			data = append(data, q)
		}
	}
	return data, nil
}
