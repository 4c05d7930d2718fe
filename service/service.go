// Package service implements the quiz server operations on top of the record
// store, the mail gateway and the sync hook. Each operation reads the whole
// record set it needs, mutates it in memory and writes it back.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"chapterquiz-server/db"
	"chapterquiz-server/mailer"
	"chapterquiz-server/utils"
)

// Sync messages passed to the sync hook after each write.
const (
	SyncSignup      = "Auto sync from /signup"
	SyncUpload      = "Auto sync from /upload"
	SyncBulkUpload  = "Auto sync from /bulk-upload"
	SyncObservation = "Auto sync from /update-observation"
	SyncIngestion   = "Auto sync from ingestion"
)

// SyncHook is notified after successful writes.
type SyncHook interface {
	Trigger(ctx context.Context, message string)
}

// Options carries the mail signatures.
type Options struct {
	OTPSignature string
	PDFSignature string
}

// Service wires the operations to their collaborators.
type Service struct {
	store *db.Store
	mail  mailer.Gateway
	sync  SyncHook
	opts  Options

	now   func() time.Time
	newID func() string
}

// New builds a Service.
func New(store *db.Store, mail mailer.Gateway, sync SyncHook, opts Options) *Service {
	if opts.OTPSignature == "" {
		opts.OTPSignature = "ChotaCop Team"
	}
	if opts.PDFSignature == "" {
		opts.PDFSignature = "Crivo"
	}
	return &Service{
		store: store,
		mail:  mail,
		sync:  sync,
		opts:  opts,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

func (s *Service) timestamp() string {
	return utils.Timestamp(s.now())
}
