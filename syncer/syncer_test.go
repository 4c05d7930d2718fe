package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chapterquiz-server/config"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (r *recordingNotifier) Notify(_ context.Context, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return r.err
}

func (r *recordingNotifier) Name() string { return "recording" }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestThrottle(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	th := NewThrottle(10 * time.Second)
	th.now = clock.now

	assert.True(t, th.Allow(), "first call always passes")
	clock.t = clock.t.Add(3 * time.Second)
	assert.False(t, th.Allow())
	clock.t = clock.t.Add(6 * time.Second)
	assert.False(t, th.Allow(), "skipped calls do not move the window")
	clock.t = clock.t.Add(time.Second)
	assert.True(t, th.Allow())
	assert.False(t, th.Allow())
}

func TestSyncerTriggerThrottles(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	rec := &recordingNotifier{}
	s := NewSyncer(rec, 10*time.Second)
	s.throttle.now = clock.now

	s.Trigger(context.Background(), "Auto sync from /signup")
	s.Trigger(context.Background(), "Auto sync from /upload")
	clock.t = clock.t.Add(11 * time.Second)
	s.Trigger(context.Background(), "Auto sync from /bulk-upload")

	assert.Equal(t, []string{"Auto sync from /signup", "Auto sync from /bulk-upload"}, rec.messages)
}

func TestSyncerSwallowsNotifierErrors(t *testing.T) {
	rec := &recordingNotifier{err: errors.New("remote rejected")}
	s := NewSyncer(rec, time.Millisecond)
	assert.NotPanics(t, func() { s.Trigger(context.Background(), "Auto sync from /upload") })
	assert.Len(t, rec.messages, 1)
}

func TestGitNotifierRunsStepsInOrder(t *testing.T) {
	var calls []string
	g := NewGitNotifier("/srv/data", "", "")
	g.run = func(_ context.Context, dir, name string, args ...string) ([]byte, error) {
		assert.Equal(t, "/srv/data", dir)
		calls = append(calls, name+" "+strings.Join(args, " "))
		return nil, nil
	}

	require.NoError(t, g.Notify(context.Background(), "Auto sync from /signup"))
	assert.Equal(t, []string{
		"git add .",
		"git commit --allow-empty -m Auto sync from /signup",
		"git push origin main",
	}, calls)
}

func TestGitNotifierStopsOnFailure(t *testing.T) {
	var calls int
	g := NewGitNotifier(".", "upstream", "trunk")
	g.run = func(_ context.Context, _, _ string, args ...string) ([]byte, error) {
		calls++
		if args[0] == "commit" {
			return []byte("nothing to commit\n"), errors.New("exit status 1")
		}
		return nil, nil
	}

	err := g.Notify(context.Background(), "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git commit")
	assert.Contains(t, err.Error(), "nothing to commit")
	assert.Equal(t, 2, calls)
}

func TestWebhookNotifier(t *testing.T) {
	var got webhookPayload
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, "hook-secret", "quiz-test")
	require.NoError(t, n.Notify(context.Background(), "Auto sync from /update-observation"))

	assert.Equal(t, "Auto sync from /update-observation", got.Message)
	assert.NotEmpty(t, got.TriggeredAt)

	require.True(t, strings.HasPrefix(authHeader, "Bearer "))
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(authHeader, "Bearer "), claims, func(*jwt.Token) (interface{}, error) {
		return []byte("hook-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "quiz-test", claims.Issuer)
}

func TestWebhookNotifierReportsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(srv.URL, "", "").Notify(context.Background(), "msg")
	assert.ErrorContains(t, err, "status 502")
}

func TestNewSelectsDriver(t *testing.T) {
	s, err := New(config.SyncConfig{Driver: "none"})
	require.NoError(t, err)
	assert.Equal(t, "none", s.notifier.Name())
	assert.Equal(t, DefaultCooldown, s.throttle.cooldown)

	s, err = New(config.SyncConfig{Driver: "git", Cooldown: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, "git", s.notifier.Name())
	assert.Equal(t, time.Minute, s.throttle.cooldown)

	_, err = New(config.SyncConfig{Driver: "webhook"})
	assert.Error(t, err)

	_, err = New(config.SyncConfig{Driver: "ftp"})
	assert.ErrorContains(t, err, `unknown sync driver "ftp"`)
}
