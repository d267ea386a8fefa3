package treasury

import (
	"context"
	"testing"
)

type transferCall struct {
	from, to, asset string
	amount          int64
}

type fakeBalanceStore struct {
	calls []transferCall
}

func (f *fakeBalanceStore) Transfer(_ context.Context, from, to, asset string, amount int64) error {
	f.calls = append(f.calls, transferCall{from, to, asset, amount})
	return nil
}

func (f *fakeBalanceStore) Credit(context.Context, string, string, int64) error { return nil }

func (f *fakeBalanceStore) Balance(context.Context, string, string) (int64, error) { return 0, nil }

func TestStoreLedgerRouting(t *testing.T) {
	ctx := context.Background()
	store := &fakeBalanceStore{}
	ledger := NewStoreLedger(store)

	if err := ledger.Deposit(ctx, "g1", "alice", "tok-1", 250); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if err := ledger.Withdraw(ctx, "g1", "bob", "", 100); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}

	want := []transferCall{
		{"alice", "group:g1", "tok-1", 250},
		{"group:g1", "bob", "", 100},
	}
	if len(store.calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(store.calls), len(want))
	}
	for i, call := range store.calls {
		if call != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, call, want[i])
		}
	}
}
