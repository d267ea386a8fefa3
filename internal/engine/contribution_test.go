package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkamau/chamapool/internal/models"
)

func TestContribute(t *testing.T) {
	ctx := context.Background()

	t.Run("records contribution", func(t *testing.T) {
		f := newTestGroup(t, nil)
		f.addMembers(t, "alice")

		if err := f.group.Contribute(ctx, "alice", testContribution); err != nil {
			t.Fatalf("Contribute failed: %v", err)
		}

		if ts := f.group.ContributionAt("alice", 0); ts == 0 {
			t.Error("expected contribution timestamp for period 0")
		}
		m, _ := f.group.MemberDetails("alice")
		if m.TotalContributed != testContribution {
			t.Errorf("TotalContributed = %d, want %d", m.TotalContributed, testContribution)
		}
		if got := f.group.PoolBalance(); got != testContribution {
			t.Errorf("PoolBalance = %d, want %d", got, testContribution)
		}
		if got := f.ledger.Balance("alice", ""); got != initialBalance-testContribution {
			t.Errorf("wallet = %d, want %d", got, initialBalance-testContribution)
		}
	})

	t.Run("second contribution same period fails", func(t *testing.T) {
		f := newTestGroup(t, nil)
		f.addMembers(t, "alice")
		f.contributeAll(t, "alice")

		if err := f.group.Contribute(ctx, "alice", testContribution); !errors.Is(err, ErrAlreadyContributed) {
			t.Errorf("err = %v, want ErrAlreadyContributed", err)
		}
	})

	t.Run("exact amount required", func(t *testing.T) {
		f := newTestGroup(t, nil)
		f.addMembers(t, "alice")

		for _, amount := range []int64{testContribution - 1, testContribution + 1, 0} {
			if err := f.group.Contribute(ctx, "alice", amount); !errors.Is(err, ErrWrongAmount) {
				t.Errorf("Contribute(%d): err = %v, want ErrWrongAmount", amount, err)
			}
		}
	})

	t.Run("rejects non-members", func(t *testing.T) {
		f := newTestGroup(t, nil)

		if err := f.group.Contribute(ctx, "stranger", testContribution); !errors.Is(err, ErrNotMember) {
			t.Errorf("err = %v, want ErrNotMember", err)
		}
	})

	t.Run("rejects after window and grace", func(t *testing.T) {
		f := newTestGroup(t, nil)
		f.addMembers(t, "alice")

		f.clock.advance(4*24*time.Hour + time.Hour)
		if err := f.group.Contribute(ctx, "alice", testContribution); !errors.Is(err, ErrWindowClosed) {
			t.Errorf("err = %v, want ErrWindowClosed", err)
		}
	})

	t.Run("accepts inside grace period", func(t *testing.T) {
		f := newTestGroup(t, nil)
		f.addMembers(t, "alice")

		// Past the 3-day window, inside the 1-day grace.
		f.clock.advance(3*24*time.Hour + 12*time.Hour)
		if err := f.group.Contribute(ctx, "alice", testContribution); err != nil {
			t.Errorf("Contribute inside grace failed: %v", err)
		}
	})

	t.Run("rejects insufficient wallet", func(t *testing.T) {
		f := newTestGroup(t, nil)
		f.addMembers(t, "alice")
		f.ledger.Credit("alice", "", -initialBalance) // empty the wallet

		if err := f.group.Contribute(ctx, "alice", testContribution); err == nil {
			t.Error("expected deposit failure")
		}
		if ts := f.group.ContributionAt("alice", 0); ts != 0 {
			t.Error("failed deposit must not record a contribution")
		}
	})
}

func TestTokenDenominatedGroup(t *testing.T) {
	ctx := context.Background()
	f := newTestGroup(t, func(r *models.GroupRules) { r.Asset = "tok-1" })
	f.ledger.Credit("alice", "tok-1", initialBalance)
	if err := f.group.Join(ctx, "alice"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	if err := f.group.Contribute(ctx, "alice", testContribution); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if got := f.ledger.Balance("alice", "tok-1"); got != initialBalance-testContribution {
		t.Errorf("token wallet = %d, want %d", got, initialBalance-testContribution)
	}
	// The native balance is untouched.
	if got := f.ledger.Balance("alice", ""); got != 0 {
		t.Errorf("native wallet = %d, want 0", got)
	}
}

func TestMissedContributionDetection(t *testing.T) {
	ctx := context.Background()

	t.Run("detects several skipped periods at once", func(t *testing.T) {
		f := newTestGroup(t, func(r *models.GroupRules) { r.PunishmentMode = models.PunishmentModeNone })
		f.addMembers(t, "alice")
		f.contributeAll(t, "alice")

		// Sleep through periods 1 and 2, wake up in period 3.
		f.clock.advance(3 * PeriodDuration)
		f.contributeAll(t, "alice")

		m, _ := f.group.MemberDetails("alice")
		if m.MissedContributions != 2 {
			t.Errorf("MissedContributions = %d, want 2", m.MissedContributions)
		}

		missed := f.events.ofType(models.EventMissedContribution)
		if len(missed) != 2 {
			t.Fatalf("missed events = %d, want 2", len(missed))
		}
		if missed[0].Period != 1 || missed[1].Period != 2 {
			t.Errorf("missed periods = %d,%d, want 1,2", missed[0].Period, missed[1].Period)
		}
	})

	t.Run("periods before joining are not owed", func(t *testing.T) {
		f := newTestGroup(t, nil)
		f.clock.advance(5 * PeriodDuration)
		f.addMembers(t, "late")
		f.contributeAll(t, "late")

		m, _ := f.group.MemberDetails("late")
		if m.MissedContributions != 0 {
			t.Errorf("MissedContributions = %d, want 0", m.MissedContributions)
		}
	})

	t.Run("admin check settles without a payment", func(t *testing.T) {
		f := newTestGroup(t, func(r *models.GroupRules) { r.PunishmentMode = models.PunishmentModeNone })
		f.addMembers(t, "alice")

		f.clock.advance(2 * PeriodDuration)
		if err := f.group.CheckMissedContributions(ctx, "alice", "alice"); !errors.Is(err, ErrNotAdmin) {
			t.Errorf("err = %v, want ErrNotAdmin", err)
		}
		if err := f.group.CheckMissedContributions(ctx, "creator", "alice"); err != nil {
			t.Fatalf("CheckMissedContributions failed: %v", err)
		}

		m, _ := f.group.MemberDetails("alice")
		if m.MissedContributions != 2 {
			t.Errorf("MissedContributions = %d, want 2", m.MissedContributions)
		}
	})

	t.Run("periods are not double counted", func(t *testing.T) {
		f := newTestGroup(t, func(r *models.GroupRules) { r.PunishmentMode = models.PunishmentModeNone })
		f.addMembers(t, "alice")

		f.clock.advance(2 * PeriodDuration)
		if err := f.group.CheckMissedContributions(ctx, "creator", "alice"); err != nil {
			t.Fatalf("first check failed: %v", err)
		}
		if err := f.group.CheckMissedContributions(ctx, "creator", "alice"); err != nil {
			t.Fatalf("second check failed: %v", err)
		}

		m, _ := f.group.MemberDetails("alice")
		if m.MissedContributions != 2 {
			t.Errorf("MissedContributions = %d, want 2", m.MissedContributions)
		}
	})

	t.Run("current period is never counted missed", func(t *testing.T) {
		f := newTestGroup(t, func(r *models.GroupRules) { r.PunishmentMode = models.PunishmentModeNone })
		f.addMembers(t, "alice")

		// Window for period 0 still open.
		if err := f.group.CheckMissedContributions(ctx, "creator", "alice"); err != nil {
			t.Fatalf("CheckMissedContributions failed: %v", err)
		}
		m, _ := f.group.MemberDetails("alice")
		if m.MissedContributions != 0 {
			t.Errorf("MissedContributions = %d, want 0", m.MissedContributions)
		}
	})
}
