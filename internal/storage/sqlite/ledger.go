package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkamau/chamapool/internal/treasury"
)

// Transfer atomically moves amount between ledger accounts. The debit and
// credit share one transaction; an overdraw rolls the whole thing back.
func (s *SQLiteStore) Transfer(ctx context.Context, from, to, asset string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("negative transfer amount %d", amount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowContext(ctx,
		"SELECT balance FROM balances WHERE account = ? AND asset = ?",
		from, asset,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		balance = 0
	} else if err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}

	if balance < amount {
		return fmt.Errorf("%w: account %s has %d, needs %d", treasury.ErrInsufficientFunds, from, balance, amount)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE balances SET balance = balance - ? WHERE account = ? AND asset = ?",
		amount, from, asset,
	); err != nil {
		return fmt.Errorf("failed to debit: %w", err)
	}

	if err := upsertBalance(ctx, tx, to, asset, amount); err != nil {
		return fmt.Errorf("failed to credit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Credit mints amount of asset into an account.
func (s *SQLiteStore) Credit(ctx context.Context, account, asset string, amount int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertBalance(ctx, tx, account, asset, amount); err != nil {
		return fmt.Errorf("failed to credit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Balance returns an account's balance in the given asset.
func (s *SQLiteStore) Balance(ctx context.Context, account, asset string) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx,
		"SELECT balance FROM balances WHERE account = ? AND asset = ?",
		account, asset,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

func upsertBalance(ctx context.Context, tx *sql.Tx, account, asset string, delta int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO balances (account, asset, balance) VALUES (?, ?, ?)
		ON CONFLICT(account, asset) DO UPDATE SET balance = balance + excluded.balance
	`, account, asset, delta)
	return err
}
