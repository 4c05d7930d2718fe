package db

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chapterquiz-server/models"
)

var (
	_ Backend = (*MemoryBackend)(nil)
	_ Backend = (*FileBackend)(nil)
	_ Backend = (*SQLiteBackend)(nil)
	_ Backend = (*PostgresBackend)(nil)
	_ Backend = (*RedisBackend)(nil)
	_ Backend = (*S3Backend)(nil)
)

func byEmail(email string) func(models.User) bool {
	return func(u models.User) bool { return u.Email == email }
}

func TestCollectionListEmptySet(t *testing.T) {
	store := NewStore(NewMemoryBackend())
	users, err := store.Users.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestCollectionAppendFindUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend())

	require.NoError(t, store.Users.Append(ctx, models.User{Email: "a@x.io", UserID: "1", Chapter: "Pune"}))
	require.NoError(t, store.Users.Append(ctx, models.User{Email: "b@x.io", UserID: "2", Chapter: "Delhi"}))

	u, found, err := store.Users.FindFirst(ctx, byEmail("b@x.io"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Delhi", u.Chapter)

	_, found, err = store.Users.FindFirst(ctx, byEmail("c@x.io"))
	require.NoError(t, err)
	assert.False(t, found)

	updated, err := store.Users.UpdateFirst(ctx, byEmail("a@x.io"), func(u *models.User) { u.Chapter = "Mumbai" })
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = store.Users.UpdateFirst(ctx, byEmail("zz@x.io"), func(u *models.User) { u.Chapter = "never" })
	require.NoError(t, err)
	assert.False(t, updated)

	users, err := store.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Mumbai", users[0].Chapter)
	assert.Equal(t, "Delhi", users[1].Chapter)
}

func TestCollectionUpdateFirstTouchesOnlyFirstMatch(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend())
	require.NoError(t, store.Submissions.ReplaceAll(ctx, []models.QuizSubmission{
		{Email: "dup@x.io", Name: "first"},
		{Email: "dup@x.io", Name: "second"},
	}))

	_, err := store.Submissions.UpdateFirst(ctx,
		func(s models.QuizSubmission) bool { return s.Email == "dup@x.io" },
		func(s *models.QuizSubmission) { s.Name = "changed" })
	require.NoError(t, err)

	subs, err := store.Submissions.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "changed", subs[0].Name)
	assert.Equal(t, "second", subs[1].Name)
}

func TestCollectionReplaceAllNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewStore(backend)
	require.NoError(t, store.PdfFiles.ReplaceAll(ctx, nil))

	raw, err := backend.Load(ctx, SetPdfFiles)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestCollectionDecodeError(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, SetUsers, []byte(`{not json`)))

	_, err := NewStore(backend).Users.List(ctx)
	assert.ErrorContains(t, err, "decode users")
}

func TestObservationDataKeptVerbatim(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend())
	data := json.RawMessage(`{"notes":["a","b"],"score":3}`)
	require.NoError(t, store.Observations.Append(ctx, models.ChapterObservation{Chapter: "Pune", Data: data}))

	obs, found, err := store.Observations.FindFirst(ctx, func(o models.ChapterObservation) bool { return o.Chapter == "Pune" })
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, string(data), string(obs.Data))
}

func TestIndexOf(t *testing.T) {
	nums := []int{4, 8, 15}
	assert.Equal(t, 1, IndexOf(nums, func(n int) bool { return n > 5 }))
	assert.Equal(t, -1, IndexOf(nums, func(n int) bool { return n > 50 }))
}
