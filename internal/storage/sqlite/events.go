package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkamau/chamapool/internal/models"
)

// AppendEvent journals one group event, assigning an ID if missing.
func (s *SQLiteStore) AppendEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	query := `
		INSERT INTO events (id, group_id, type, subject, amount, period, was_skipped, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.GroupID,
		string(event.Type),
		event.Subject,
		event.Amount,
		event.Period,
		event.WasSkipped,
		event.Timestamp,
	)

	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

// ListEvents returns a group's journal, oldest first.
func (s *SQLiteStore) ListEvents(ctx context.Context, groupID string, limit int) ([]models.Event, error) {
	query := `
		SELECT id, group_id, type, subject, amount, period, was_skipped, timestamp
		FROM events
		WHERE group_id = ?
		ORDER BY timestamp, id
	`
	args := []any{groupID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		var typ string
		if err := rows.Scan(&ev.ID, &ev.GroupID, &typ, &ev.Subject, &ev.Amount, &ev.Period, &ev.WasSkipped, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Type = models.EventType(typ)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}
