// Package stats turns quiz submissions and chapter observations into the
// per-chapter ride tallies served by /chapter-data.
package stats

import (
	"fmt"
	"sort"

	"chapterquiz-server/models"
)

// QuestionKey is the question_stats key of question n ("q1".."q13").
func QuestionKey(n int) string { return fmt.Sprintf("q%d", n) }

// RideKey is the rides key of zero-based ride r ("ride_0".."ride_6").
func RideKey(r int) string { return fmt.Sprintf("ride_%d", r) }

// TallyRides counts, for each of the seven ride positions, how many sequences
// hold a 1 and how many hold a 0 there. Sequences too short for a position, or
// holding any other value, count toward neither.
func TallyRides(sequences [][]int) map[string]models.RideStats {
	rides := make(map[string]models.RideStats, models.RideCount)
	for r := 0; r < models.RideCount; r++ {
		var rs models.RideStats
		for _, seq := range sequences {
			if len(seq) <= r {
				continue
			}
			switch seq[r] {
			case 1:
				rs.Ones++
			case 0:
				rs.Zeros++
			}
		}
		rs.Total = rs.Ones + rs.Zeros
		rides[RideKey(r)] = rs
	}
	return rides
}

// ChapterStats builds the report of one chapter. Submissions and observations
// of other chapters are ignored. A chapter with neither submissions nor an
// observation yields an empty question_stats map and a null observation.
func ChapterStats(chapter string, submissions []models.QuizSubmission, observations []models.ChapterObservation) models.ChapterData {
	var chapterSubs []models.QuizSubmission
	for _, s := range submissions {
		if s.Chapter == chapter {
			chapterSubs = append(chapterSubs, s)
		}
	}
	observation := findObservation(chapter, observations)

	data := models.ChapterData{
		Chapter:          chapter,
		TotalSubmissions: len(chapterSubs),
		QuestionStats:    map[string]models.QuestionStats{},
	}
	if len(chapterSubs) == 0 && observation == nil {
		return data
	}

	for q := 1; q <= models.QuestionCount; q++ {
		sequences := make([][]int, 0, len(chapterSubs))
		for _, s := range chapterSubs {
			sequences = append(sequences, s.Question(q))
		}
		data.QuestionStats[QuestionKey(q)] = models.QuestionStats{
			TotalSubmissions: len(chapterSubs),
			Rides:            TallyRides(sequences),
		}
	}
	if observation != nil {
		data.Observation = observation.Data
	}
	return data
}

// ChapterNames returns the sorted union of chapters that appear in
// submissions or observations.
func ChapterNames(submissions []models.QuizSubmission, observations []models.ChapterObservation) []string {
	seen := make(map[string]struct{})
	for _, s := range submissions {
		seen[s.Chapter] = struct{}{}
	}
	for _, o := range observations {
		seen[o.Chapter] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllChapters renders ChapterStats for every known chapter under the
// ALL_Chapter sentinel.
func AllChapters(submissions []models.QuizSubmission, observations []models.ChapterObservation) models.AllChapterData {
	result := models.AllChapterData{
		Chapter:  models.AllChapters,
		Chapters: make(map[string]models.ChapterData),
	}
	for _, name := range ChapterNames(submissions, observations) {
		result.Chapters[name] = ChapterStats(name, submissions, observations)
	}
	return result
}

// Aggregate dispatches on the sentinel: ALL_Chapter returns
// models.AllChapterData, anything else models.ChapterData.
func Aggregate(chapter string, submissions []models.QuizSubmission, observations []models.ChapterObservation) interface{} {
	if chapter == models.AllChapters {
		return AllChapters(submissions, observations)
	}
	return ChapterStats(chapter, submissions, observations)
}

func findObservation(chapter string, observations []models.ChapterObservation) *models.ChapterObservation {
	for i := range observations {
		if observations[i].Chapter == chapter {
			return &observations[i]
		}
	}
	return nil
}
