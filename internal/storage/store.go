// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mkamau/chamapool/internal/models"
)

// Store defines the persistence operations the application needs. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no
	// such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// AppendEvent journals one observable group event. The event's ID is
	// assigned by the store when empty.
	AppendEvent(ctx context.Context, event *models.Event) error

	// ListEvents returns a group's journal, oldest first, capped at limit
	// (0 means no cap).
	ListEvents(ctx context.Context, groupID string, limit int) ([]models.Event, error)

	// Transfer atomically moves amount of asset between ledger accounts,
	// failing without effect if the payer lacks the balance.
	Transfer(ctx context.Context, from, to, asset string, amount int64) error

	// Credit mints amount of asset into an account.
	Credit(ctx context.Context, account, asset string, amount int64) error

	// Balance returns an account's balance in the given asset.
	Balance(ctx context.Context, account, asset string) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
