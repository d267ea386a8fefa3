package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/mkamau/chamapool/internal/models"
	"github.com/mkamau/chamapool/internal/treasury"
)

func TestSetPayoutQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("creator fixes the order once", func(t *testing.T) {
		f := newTestGroup(t, nil)
		f.addMembers(t, "alice", "bob")

		if err := f.group.SetPayoutQueue(ctx, "creator", []string{"bob", "alice"}); err != nil {
			t.Fatalf("SetPayoutQueue failed: %v", err)
		}
		got := f.group.PayoutQueue()
		if len(got) != 2 || got[0] != "bob" || got[1] != "alice" {
			t.Errorf("queue = %v, want [bob alice]", got)
		}

		err := f.group.SetPayoutQueue(ctx, "creator", []string{"alice", "bob"})
		if !errors.Is(err, ErrQueueAlreadySet) {
			t.Errorf("err = %v, want ErrQueueAlreadySet", err)
		}
	})

	t.Run("rejects bad queues", func(t *testing.T) {
		f := newTestGroup(t, nil)
		f.addMembers(t, "alice", "bob")

		cases := []struct {
			name  string
			by    string
			queue []string
			want  error
		}{
			{"non-creator", "alice", []string{"alice", "bob"}, ErrNotCreator},
			{"empty", "creator", nil, ErrQueueSize},
			{"short", "creator", []string{"alice"}, ErrQueueSize},
			{"duplicate", "creator", []string{"alice", "alice"}, ErrInvalidTarget},
			{"stranger", "creator", []string{"alice", "ghost"}, ErrUnknownMember},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if err := f.group.SetPayoutQueue(ctx, tc.by, tc.queue); !errors.Is(err, tc.want) {
					t.Errorf("err = %v, want %v", err, tc.want)
				}
			})
		}
	})
}

func TestProcessRotationPayout(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *testFixture {
		t.Helper()
		f := newTestGroup(t, nil)
		f.addMembers(t, "alice", "bob", "carol", "dave")
		if err := f.group.SetPayoutQueue(ctx, "creator", []string{"alice", "bob", "carol", "dave"}); err != nil {
			t.Fatalf("SetPayoutQueue failed: %v", err)
		}
		return f
	}

	t.Run("pays the head of the queue", func(t *testing.T) {
		f := setup(t)
		f.contributeAll(t, "alice", "bob", "carol", "dave")

		if got := f.group.NextUnpaidPeriod(); got != 0 {
			t.Errorf("NextUnpaidPeriod = %d, want 0", got)
		}
		if err := f.group.ProcessRotationPayout(ctx, "creator"); err != nil {
			t.Fatalf("payout failed: %v", err)
		}

		rec, ok := f.group.PayoutInfo(0)
		if !ok {
			t.Fatal("no payout record for period 0")
		}
		if rec.Recipient != "alice" || rec.WasSkipped {
			t.Errorf("record = %+v, want alice, not skipped", rec)
		}
		if rec.Amount != 4*testContribution {
			t.Errorf("Amount = %d, want %d", rec.Amount, 4*testContribution)
		}
		if got := f.group.PoolBalance(); got != 0 {
			t.Errorf("PoolBalance = %d, want 0", got)
		}
		if got := f.ledger.Balance("alice", ""); got != initialBalance-testContribution+4*testContribution {
			t.Errorf("alice balance = %d", got)
		}
	})

	t.Run("one payout per period", func(t *testing.T) {
		f := setup(t)
		f.contributeAll(t, "alice", "bob", "carol", "dave")

		if err := f.group.ProcessRotationPayout(ctx, "creator"); err != nil {
			t.Fatalf("payout failed: %v", err)
		}
		if err := f.group.ProcessRotationPayout(ctx, "creator"); !errors.Is(err, ErrPeriodAlreadyPaid) {
			t.Errorf("err = %v, want ErrPeriodAlreadyPaid", err)
		}
	})

	t.Run("blocked until everyone eligible has paid", func(t *testing.T) {
		f := setup(t)
		f.contributeAll(t, "alice", "bob", "carol")

		if err := f.group.ProcessRotationPayout(ctx, "creator"); !errors.Is(err, ErrMemberNotContributed) {
			t.Errorf("err = %v, want ErrMemberNotContributed", err)
		}
	})

	t.Run("banned members do not block the gate", func(t *testing.T) {
		f := setup(t)
		if err := f.group.PunishMember(ctx, "creator", "dave", models.PunishmentBan, "fraud"); err != nil {
			t.Fatalf("PunishMember failed: %v", err)
		}
		f.contributeAll(t, "alice", "bob", "carol")

		if err := f.group.ProcessRotationPayout(ctx, "creator"); err != nil {
			t.Fatalf("payout failed: %v", err)
		}
	})

	t.Run("skips an ineligible recipient and shifts the rotation", func(t *testing.T) {
		f := setup(t)
		if err := f.group.PunishMember(ctx, "creator", "alice", models.PunishmentBan, "fraud"); err != nil {
			t.Fatalf("PunishMember failed: %v", err)
		}

		// Period 0: alice's nominal turn is skipped, bob receives.
		f.contributeAll(t, "bob", "carol", "dave")
		if err := f.group.ProcessRotationPayout(ctx, "creator"); err != nil {
			t.Fatalf("period 0 payout failed: %v", err)
		}

		rec, _ := f.group.PayoutInfo(0)
		if rec.Recipient != "bob" || !rec.WasSkipped {
			t.Errorf("period 0 record = %+v, want bob, skipped", rec)
		}
		if rec.Amount != 3*testContribution {
			t.Errorf("Amount = %d, want %d", rec.Amount, 3*testContribution)
		}
		if got := f.group.SkippedPayouts(); got != 1 {
			t.Errorf("SkippedPayouts = %d, want 1", got)
		}
		// The clock is still inside period 0, but the period is paid.
		if got := f.group.NextUnpaidPeriod(); got != 1 {
			t.Errorf("NextUnpaidPeriod = %d, want 1", got)
		}

		// Period 1: the shifted rotation lands on alice again, so bob
		// receives a second time. Repeat recipients are legal.
		f.clock.advance(PeriodDuration)
		f.contributeAll(t, "bob", "carol", "dave")
		if err := f.group.ProcessRotationPayout(ctx, "creator"); err != nil {
			t.Fatalf("period 1 payout failed: %v", err)
		}

		rec, _ = f.group.PayoutInfo(1)
		if rec.Recipient != "bob" || !rec.WasSkipped {
			t.Errorf("period 1 record = %+v, want bob, skipped", rec)
		}
		if got := f.group.SkippedPayouts(); got != 2 {
			t.Errorf("SkippedPayouts = %d, want 2", got)
		}
		if got := len(f.group.PayoutHistory("bob")); got != 2 {
			t.Errorf("bob has %d payouts, want 2", got)
		}

		paid := f.events.ofType(models.EventPayoutProcessed)
		if len(paid) != 2 {
			t.Fatalf("payout events = %d, want 2", len(paid))
		}
		for i, ev := range paid {
			if !ev.WasSkipped {
				t.Errorf("payout event %d should carry the skip flag", i)
			}
		}
	})

	t.Run("rotation advances when the ban lifts", func(t *testing.T) {
		f := setup(t)
		if err := f.group.PunishMember(ctx, "creator", "alice", models.PunishmentBan, "fraud"); err != nil {
			t.Fatalf("PunishMember failed: %v", err)
		}
		f.contributeAll(t, "bob", "carol", "dave")
		if err := f.group.ProcessRotationPayout(ctx, "creator"); err != nil {
			t.Fatalf("period 0 payout failed: %v", err)
		}
		if err := f.group.CancelPunishment(ctx, "creator", "alice"); err != nil {
			t.Fatalf("CancelPunishment failed: %v", err)
		}

		// Period 1 with the skip counter at 1: alice's turn comes around
		// again and she is eligible now.
		f.clock.advance(PeriodDuration)
		f.contributeAll(t, "alice", "bob", "carol", "dave")
		if err := f.group.ProcessRotationPayout(ctx, "creator"); err != nil {
			t.Fatalf("period 1 payout failed: %v", err)
		}

		rec, _ := f.group.PayoutInfo(1)
		if rec.Recipient != "alice" || rec.WasSkipped {
			t.Errorf("period 1 record = %+v, want alice, not skipped", rec)
		}
		if got := f.group.SkippedPayouts(); got != 1 {
			t.Errorf("SkippedPayouts = %d, want 1", got)
		}
	})

	t.Run("no eligible recipient aborts cleanly", func(t *testing.T) {
		f := setup(t)
		for _, u := range []string{"alice", "bob", "carol", "dave"} {
			if err := f.group.PunishMember(ctx, "creator", u, models.PunishmentBan, "fraud"); err != nil {
				t.Fatalf("PunishMember(%s) failed: %v", u, err)
			}
		}

		if err := f.group.ProcessRotationPayout(ctx, "creator"); !errors.Is(err, ErrNoEligibleRecipient) {
			t.Errorf("err = %v, want ErrNoEligibleRecipient", err)
		}
		if got := f.group.SkippedPayouts(); got != 0 {
			t.Errorf("SkippedPayouts = %d, want 0", got)
		}
	})

	t.Run("failed transfer leaves no trace", func(t *testing.T) {
		f := setup(t)
		f.contributeAll(t, "alice", "bob", "carol", "dave")

		// Drain the custody account behind the group's back so the
		// outbound transfer fails.
		f.ledger.Credit(treasury.CustodyAccount("test-group"), "", -4*testContribution)

		err := f.group.ProcessRotationPayout(ctx, "creator")
		if !errors.Is(err, treasury.ErrInsufficientFunds) {
			t.Fatalf("err = %v, want ErrInsufficientFunds", err)
		}
		if _, ok := f.group.PayoutInfo(0); ok {
			t.Error("no payout record should survive a failed transfer")
		}
		if got := f.group.PoolBalance(); got != 4*testContribution {
			t.Errorf("PoolBalance = %d, want %d", got, 4*testContribution)
		}
		if got := len(f.group.PayoutHistory("alice")); got != 0 {
			t.Errorf("alice has %d payouts, want 0", got)
		}
	})

	t.Run("requires an admin and a queue", func(t *testing.T) {
		f := newTestGroup(t, nil)
		f.addMembers(t, "alice", "bob")
		f.contributeAll(t, "alice", "bob")

		if err := f.group.ProcessRotationPayout(ctx, "alice"); !errors.Is(err, ErrNotAdmin) {
			t.Errorf("err = %v, want ErrNotAdmin", err)
		}
		if err := f.group.ProcessRotationPayout(ctx, "creator"); !errors.Is(err, ErrQueueNotSet) {
			t.Errorf("err = %v, want ErrQueueNotSet", err)
		}
	})
}

func TestEmergencyWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("drains the pool and retires the group", func(t *testing.T) {
		f := newTestGroup(t, nil)
		f.addMembers(t, "alice", "bob")
		f.contributeAll(t, "alice", "bob")

		if err := f.group.EmergencyWithdraw(ctx, "creator"); err != nil {
			t.Fatalf("EmergencyWithdraw failed: %v", err)
		}
		if got := f.group.PoolBalance(); got != 0 {
			t.Errorf("PoolBalance = %d, want 0", got)
		}
		if got := f.ledger.Balance("creator", ""); got != 2*testContribution {
			t.Errorf("creator balance = %d, want %d", got, 2*testContribution)
		}

		// The group is done; nothing mutates afterwards.
		if err := f.group.Contribute(ctx, "alice", testContribution); !errors.Is(err, ErrGroupNotActive) {
			t.Errorf("err = %v, want ErrGroupNotActive", err)
		}
	})

	t.Run("honors the group rules", func(t *testing.T) {
		f := newTestGroup(t, func(r *models.GroupRules) { r.EmergencyWithdrawAllowed = false })
		f.addMembers(t, "alice")

		if err := f.group.EmergencyWithdraw(ctx, "creator"); !errors.Is(err, ErrEmergencyDisabled) {
			t.Errorf("err = %v, want ErrEmergencyDisabled", err)
		}
	})

	t.Run("reverts when the transfer fails", func(t *testing.T) {
		f := newTestGroup(t, nil)
		f.addMembers(t, "alice", "bob")
		f.contributeAll(t, "alice", "bob")
		f.ledger.Credit(treasury.CustodyAccount("test-group"), "", -2*testContribution)

		err := f.group.EmergencyWithdraw(ctx, "creator")
		if !errors.Is(err, treasury.ErrInsufficientFunds) {
			t.Fatalf("err = %v, want ErrInsufficientFunds", err)
		}
		if got := f.group.PoolBalance(); got != 2*testContribution {
			t.Errorf("PoolBalance = %d, want %d", got, 2*testContribution)
		}
		if f.group.IsPaused() {
			t.Error("a failed withdrawal must not leave the group stopped")
		}
	})
}
