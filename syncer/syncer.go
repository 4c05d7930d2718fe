// Package syncer pushes a notification to an external system after writes,
// at most once per cooldown window.
package syncer

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"chapterquiz-server/config"
	"chapterquiz-server/metrics"
)

// DefaultCooldown is the minimum gap between two notifications.
const DefaultCooldown = 10 * time.Second

// Notifier performs the actual external sync.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	Name() string
}

// Throttle admits one call per cooldown window. The zero value is not usable;
// construct with NewThrottle.
type Throttle struct {
	mu       sync.Mutex
	cooldown time.Duration
	last     time.Time
	now      func() time.Time
}

// NewThrottle returns a throttle that has never fired.
func NewThrottle(cooldown time.Duration) *Throttle {
	return &Throttle{cooldown: cooldown, now: time.Now}
}

// Allow reports whether a call may proceed now and, if so, records it.
func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.cooldown {
		return false
	}
	t.last = now
	return true
}

// Syncer combines a throttle with a notifier.
type Syncer struct {
	throttle *Throttle
	notifier Notifier
}

// NewSyncer wires notifier behind a throttle of the given cooldown.
func NewSyncer(notifier Notifier, cooldown time.Duration) *Syncer {
	return &Syncer{throttle: NewThrottle(cooldown), notifier: notifier}
}

// Trigger notifies unless a notification already went out within the
// cooldown. Failures are logged and swallowed.
func (s *Syncer) Trigger(ctx context.Context, message string) {
	if !s.throttle.Allow() {
		metrics.SyncTriggers.WithLabelValues("throttled").Inc()
		return
	}
	err := s.notifier.Notify(ctx, message)
	metrics.SyncTriggers.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		log.Printf("Sync via %s failed: %v", s.notifier.Name(), err)
		return
	}
	log.Printf("Sync via %s: %s", s.notifier.Name(), message)
}

// New builds the syncer selected by cfg.Driver.
func New(cfg config.SyncConfig) (*Syncer, error) {
	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	var notifier Notifier
	switch cfg.Driver {
	case "", "none":
		notifier = LogNotifier{}
	case "git":
		notifier = NewGitNotifier(cfg.RepoDir, cfg.Remote, cfg.Branch)
	case "webhook":
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("sync webhook driver needs a webhook url")
		}
		notifier = NewWebhookNotifier(cfg.WebhookURL, cfg.WebhookSigningKey, cfg.WebhookIssuer)
	default:
		return nil, fmt.Errorf("unknown sync driver %q", cfg.Driver)
	}
	return NewSyncer(notifier, cooldown), nil
}

// LogNotifier only records that a sync would have happened.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, message string) error {
	log.Printf("Sync requested (no driver configured): %s", message)
	return nil
}

func (LogNotifier) Name() string { return "none" }
