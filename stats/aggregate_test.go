package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chapterquiz-server/models"
)

func submission(chapter string, q1 []int) models.QuizSubmission {
	return models.QuizSubmission{
		Chapter: chapter,
		Q1:      q1,
		Q2:      []int{1, 1, 1, 1, 1, 1, 1},
	}
}

func TestTallyRides(t *testing.T) {
	rides := TallyRides([][]int{
		{1, 0, 1},
		{0, 0},
		{1, 2, 1, 1, 1, 1, 1, 1},
		nil,
	})
	require.Len(t, rides, models.RideCount)
	assert.Equal(t, models.RideStats{Ones: 2, Zeros: 1, Total: 3}, rides["ride_0"])
	assert.Equal(t, models.RideStats{Ones: 0, Zeros: 2, Total: 2}, rides["ride_1"], "values other than 0/1 are ignored")
	assert.Equal(t, models.RideStats{Ones: 2, Zeros: 0, Total: 2}, rides["ride_2"])
	assert.Equal(t, models.RideStats{Ones: 1, Zeros: 0, Total: 1}, rides["ride_6"], "positions past seven are not tallied")
}

func TestChapterStatsEmptyChapter(t *testing.T) {
	data := ChapterStats("Nowhere", []models.QuizSubmission{submission("Pune", []int{1})}, nil)
	assert.Equal(t, "Nowhere", data.Chapter)
	assert.Zero(t, data.TotalSubmissions)
	assert.NotNil(t, data.QuestionStats)
	assert.Empty(t, data.QuestionStats)
	assert.Nil(t, data.Observation)

	raw, err := json.Marshal(data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"chapter":"Nowhere","total_submissions":0,"question_stats":{},"observation":null}`, string(raw))
}

func TestChapterStatsCountsOnlyOwnChapter(t *testing.T) {
	subs := []models.QuizSubmission{
		submission("Pune", []int{1, 0, 1, 1, 0, 0, 1}),
		submission("Pune", []int{0, 0, 1}),
		submission("Delhi", []int{1, 1, 1, 1, 1, 1, 1}),
	}
	data := ChapterStats("Pune", subs, nil)

	assert.Equal(t, 2, data.TotalSubmissions)
	require.Len(t, data.QuestionStats, models.QuestionCount)
	q1 := data.QuestionStats["q1"]
	assert.Equal(t, 2, q1.TotalSubmissions)
	assert.Equal(t, models.RideStats{Ones: 1, Zeros: 1, Total: 2}, q1.Rides["ride_0"])
	assert.Equal(t, models.RideStats{Ones: 0, Zeros: 2, Total: 2}, q1.Rides["ride_1"])
	assert.Equal(t, models.RideStats{Ones: 2, Zeros: 0, Total: 2}, q1.Rides["ride_2"])
	assert.Equal(t, models.RideStats{Ones: 1, Zeros: 0, Total: 1}, q1.Rides["ride_6"])

	q2 := data.QuestionStats["q2"]
	assert.Equal(t, models.RideStats{Ones: 2, Zeros: 0, Total: 2}, q2.Rides["ride_3"])

	q13 := data.QuestionStats["q13"]
	assert.Equal(t, 2, q13.TotalSubmissions)
	assert.Equal(t, models.RideStats{}, q13.Rides["ride_0"])
	assert.Nil(t, data.Observation)
}

func TestChapterStatsObservationOnly(t *testing.T) {
	obs := []models.ChapterObservation{{Chapter: "Pune", Data: json.RawMessage(`{"note":"great"}`)}}
	data := ChapterStats("Pune", nil, obs)

	assert.Zero(t, data.TotalSubmissions)
	require.Len(t, data.QuestionStats, models.QuestionCount, "an observation alone still renders every question")
	for q := 1; q <= models.QuestionCount; q++ {
		stats := data.QuestionStats[QuestionKey(q)]
		assert.Zero(t, stats.TotalSubmissions)
		require.Len(t, stats.Rides, models.RideCount)
		for r := 0; r < models.RideCount; r++ {
			assert.Equal(t, models.RideStats{}, stats.Rides[RideKey(r)])
		}
	}
	assert.JSONEq(t, `{"note":"great"}`, string(data.Observation))
}

func TestTotalEqualsOnesPlusZeros(t *testing.T) {
	subs := []models.QuizSubmission{
		submission("A", []int{1, 0, 1, 0, 1, 0, 1}),
		submission("A", []int{1, 1}),
		submission("A", []int{0, 5, 0}),
		submission("A", nil),
	}
	data := ChapterStats("A", subs, nil)
	for _, qs := range data.QuestionStats {
		assert.Equal(t, 4, qs.TotalSubmissions)
		for _, rs := range qs.Rides {
			assert.Equal(t, rs.Ones+rs.Zeros, rs.Total)
			assert.LessOrEqual(t, rs.Total, qs.TotalSubmissions)
		}
	}
}

func TestAllChapters(t *testing.T) {
	subs := []models.QuizSubmission{
		submission("Pune", []int{1}),
		submission("Delhi", []int{0}),
		submission("Pune", []int{1}),
	}
	obs := []models.ChapterObservation{
		{Chapter: "Agra", Data: json.RawMessage(`"ok"`)},
		{Chapter: "Pune", Data: json.RawMessage(`[1,2]`)},
	}

	assert.Equal(t, []string{"Agra", "Delhi", "Pune"}, ChapterNames(subs, obs))

	all := AllChapters(subs, obs)
	assert.Equal(t, models.AllChapters, all.Chapter)
	require.Len(t, all.Chapters, 3)
	for name, entry := range all.Chapters {
		assert.Equal(t, ChapterStats(name, subs, obs), entry)
	}
	assert.Equal(t, 2, all.Chapters["Pune"].TotalSubmissions)
	assert.Zero(t, all.Chapters["Agra"].TotalSubmissions)
	assert.JSONEq(t, `"ok"`, string(all.Chapters["Agra"].Observation))
}

func TestAllChaptersEmpty(t *testing.T) {
	raw, err := json.Marshal(Aggregate(models.AllChapters, nil, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"chapter":"ALL_Chapter","chapters":{}}`, string(raw))
}

func TestAggregateDispatch(t *testing.T) {
	subs := []models.QuizSubmission{submission("Pune", []int{1})}
	assert.IsType(t, models.AllChapterData{}, Aggregate(models.AllChapters, subs, nil))
	assert.IsType(t, models.ChapterData{}, Aggregate("Pune", subs, nil))
}
