package storage

import (
	"context"
	"log/slog"

	"github.com/mkamau/chamapool/internal/models"
)

// Journal adapts a Store into the engine's event Recorder. Journal failures
// are logged, never propagated: an indexing hiccup must not fail the group
// operation that produced the event.
type Journal struct {
	store Store
}

// NewJournal wraps a store as an event recorder.
func NewJournal(store Store) *Journal {
	return &Journal{store: store}
}

// Record appends the event to the journal.
func (j *Journal) Record(ctx context.Context, event models.Event) {
	if err := j.store.AppendEvent(ctx, &event); err != nil {
		slog.Error("event journal append failed",
			"group_id", event.GroupID,
			"type", event.Type,
			"error", err,
		)
	}
}
