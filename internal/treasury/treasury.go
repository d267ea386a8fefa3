// Package treasury implements the value-transfer primitive the group engine
// delegates custody changes to.
//
// Each group's custody is an ordinary ledger account derived from the group
// id, so deposits and payouts are plain account-to-account transfers. Two
// implementations exist: an in-memory Ledger (tests, single-process default)
// and a store-backed ledger persisted with the rest of the application data.
package treasury

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrInsufficientFunds is returned when a transfer would overdraw the payer.
var ErrInsufficientFunds = errors.New("insufficient funds")

// CustodyAccount derives the ledger account holding a group's pool.
func CustodyAccount(groupID string) string {
	return "group:" + groupID
}

// Ledger is an in-memory double-entry ledger keyed by asset then account.
// The empty asset is the native one.
type Ledger struct {
	mu       sync.Mutex
	balances map[string]map[string]int64
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]map[string]int64)}
}

// Credit mints amount of asset into an account. Used to fund member wallets.
func (l *Ledger) Credit(account, asset string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.account(asset)[account] += amount
}

// Balance returns the account's balance in the given asset.
func (l *Ledger) Balance(account, asset string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.account(asset)[account]
}

// Deposit moves amount from the payer into group custody.
func (l *Ledger) Deposit(ctx context.Context, groupID, from, asset string, amount int64) error {
	return l.transfer(from, CustodyAccount(groupID), asset, amount)
}

// Withdraw moves amount from group custody to the recipient.
func (l *Ledger) Withdraw(ctx context.Context, groupID, to, asset string, amount int64) error {
	return l.transfer(CustodyAccount(groupID), to, asset, amount)
}

func (l *Ledger) transfer(from, to, asset string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("negative transfer amount %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	accounts := l.account(asset)
	if accounts[from] < amount {
		return fmt.Errorf("%w: account %s has %d, needs %d", ErrInsufficientFunds, from, accounts[from], amount)
	}
	accounts[from] -= amount
	accounts[to] += amount
	return nil
}

func (l *Ledger) account(asset string) map[string]int64 {
	if l.balances[asset] == nil {
		l.balances[asset] = make(map[string]int64)
	}
	return l.balances[asset]
}
