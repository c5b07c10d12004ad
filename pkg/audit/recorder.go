package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Recorder assigns identity to audit records and writes them to storage.
// A write failure is logged but never fails the pipeline step being
// recorded; the audit trail is best-effort.
type Recorder struct {
	storage Storage
	logger  *slog.Logger
}

// NewRecorder creates a recorder on top of a storage backend.
func NewRecorder(storage Storage, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		storage: storage,
		logger:  logger.With("component", "audit"),
	}
}

// Record fills in the record's ID and RecordedAt and persists it.
func (r *Recorder) Record(ctx context.Context, rec Record) {
	rec.ID = uuid.NewString()
	rec.RecordedAt = time.Now().UTC()
	if rec.StartedAt.IsZero() {
		rec.StartedAt = rec.RecordedAt
	}

	if err := r.storage.Store(ctx, &rec); err != nil {
		r.logger.Error("failed to store audit record",
			"identity", rec.Identity,
			"step", rec.Step,
			"error", err,
		)
	}
}
