package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"chapterquiz-server/models"
)

// Record set names. They double as file names, table keys and object keys.
const (
	SetUsers        = "users"
	SetSubmissions  = "quiz_submissions"
	SetPdfFiles     = "pdf_files"
	SetObservations = "chapter_observations"
	SetAdminEvents  = "admin_events"
)

// RecordSets lists every set the server persists.
var RecordSets = []string{SetUsers, SetSubmissions, SetPdfFiles, SetObservations, SetAdminEvents}

// Backend moves the serialized JSON array of one record set in and out of
// storage. Load returns nil bytes and no error for a set that was never saved.
type Backend interface {
	Load(ctx context.Context, set string) ([]byte, error)
	Save(ctx context.Context, set string, payload []byte) error
	Close() error
}

// Collection is a typed view over one record set. Every operation reads the
// whole set, and every mutation writes the whole set back.
type Collection[T any] struct {
	backend Backend
	name    string
}

// NewCollection binds a record set name to a backend.
func NewCollection[T any](backend Backend, name string) *Collection[T] {
	return &Collection[T]{backend: backend, name: name}
}

// List returns every record in the set, never nil.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	raw, err := c.backend.Load(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.name, err)
	}
	records := []T{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// ReplaceAll overwrites the set with records.
func (c *Collection[T]) ReplaceAll(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := c.backend.Save(ctx, c.name, payload); err != nil {
		return fmt.Errorf("save %s: %w", c.name, err)
	}
	return nil
}

// FindFirst returns the first record match accepts.
func (c *Collection[T]) FindFirst(ctx context.Context, match func(T) bool) (T, bool, error) {
	var zero T
	records, err := c.List(ctx)
	if err != nil {
		return zero, false, err
	}
	if i := IndexOf(records, match); i >= 0 {
		return records[i], true, nil
	}
	return zero, false, nil
}

// UpdateFirst applies mutate to the first record match accepts and writes the
// set back. It reports false, without writing, when nothing matched.
func (c *Collection[T]) UpdateFirst(ctx context.Context, match func(T) bool, mutate func(*T)) (bool, error) {
	records, err := c.List(ctx)
	if err != nil {
		return false, err
	}
	i := IndexOf(records, match)
	if i < 0 {
		return false, nil
	}
	mutate(&records[i])
	return true, c.ReplaceAll(ctx, records)
}

// Append adds record to the end of the set.
func (c *Collection[T]) Append(ctx context.Context, record T) error {
	records, err := c.List(ctx)
	if err != nil {
		return err
	}
	return c.ReplaceAll(ctx, append(records, record))
}

// IndexOf returns the index of the first record match accepts, or -1.
func IndexOf[T any](records []T, match func(T) bool) int {
	for i, r := range records {
		if match(r) {
			return i
		}
	}
	return -1
}

// Store groups the record sets over one backend.
type Store struct {
	Users        *Collection[models.User]
	Submissions  *Collection[models.QuizSubmission]
	PdfFiles     *Collection[models.PdfRecord]
	Observations *Collection[models.ChapterObservation]
	AdminEvents  *Collection[models.AdminEvent]

	backend Backend
}

// NewStore wraps backend with typed collections.
func NewStore(backend Backend) *Store {
	return &Store{
		Users:        NewCollection[models.User](backend, SetUsers),
		Submissions:  NewCollection[models.QuizSubmission](backend, SetSubmissions),
		PdfFiles:     NewCollection[models.PdfRecord](backend, SetPdfFiles),
		Observations: NewCollection[models.ChapterObservation](backend, SetObservations),
		AdminEvents:  NewCollection[models.AdminEvent](backend, SetAdminEvents),
		backend:      backend,
	}
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
