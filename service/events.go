package service

import (
	"context"
	"log"

	"chapterquiz-server/models"
)

// Admin event actions.
const (
	EventIngestionSuccess = "ingestion_success"
	EventIngestionFailed  = "ingestion_failed"
)

const recentEventLimit = 10

// LogAdminEvent appends an entry to the admin activity log. A failed write is
// logged and otherwise ignored.
func (s *Service) LogAdminEvent(ctx context.Context, actor, action, target, notes string) {
	event := models.AdminEvent{
		Action:    action,
		Actor:     actor,
		Target:    target,
		Notes:     notes,
		CreatedAt: s.timestamp(),
	}
	if err := s.store.AdminEvents.Append(ctx, event); err != nil {
		log.Printf("ERROR: Failed to log admin event: %v. Event: %s by %s on %s", err, action, actor, target)
	}
}

// RecentAdminEvents returns up to limit events, newest first.
func (s *Service) RecentAdminEvents(ctx context.Context, limit int) ([]models.AdminEvent, error) {
	events, err := s.store.AdminEvents.List(ctx)
	if err != nil {
		return nil, err
	}
	recent := make([]models.AdminEvent, 0, limit)
	for i := len(events) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, events[i])
	}
	return recent, nil
}
