package treasury

import "context"

// BalanceStore is the persistence surface a store-backed treasury needs.
// Transfer must be atomic: it either moves the full amount or fails having
// moved nothing.
type BalanceStore interface {
	Transfer(ctx context.Context, from, to, asset string, amount int64) error
	Credit(ctx context.Context, account, asset string, amount int64) error
	Balance(ctx context.Context, account, asset string) (int64, error)
}

// StoreLedger is a treasury persisted through a BalanceStore.
type StoreLedger struct {
	store BalanceStore
}

// NewStoreLedger wraps a BalanceStore as a treasury.
func NewStoreLedger(store BalanceStore) *StoreLedger {
	return &StoreLedger{store: store}
}

// Deposit moves amount from the payer into group custody.
func (s *StoreLedger) Deposit(ctx context.Context, groupID, from, asset string, amount int64) error {
	return s.store.Transfer(ctx, from, CustodyAccount(groupID), asset, amount)
}

// Withdraw moves amount from group custody to the recipient.
func (s *StoreLedger) Withdraw(ctx context.Context, groupID, to, asset string, amount int64) error {
	return s.store.Transfer(ctx, CustodyAccount(groupID), to, asset, amount)
}
