package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mkamau/chamapool/internal/metrics"
	"github.com/mkamau/chamapool/internal/models"
	"github.com/mkamau/chamapool/internal/registry"
	"github.com/mkamau/chamapool/internal/treasury"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// fakeStore records appended events in memory.
type fakeStore struct {
	events []models.Event
}

func (f *fakeStore) CreateUser(context.Context, *models.User) error { return nil }

func (f *fakeStore) GetUserByEmail(context.Context, string) (*models.User, error) { return nil, nil }

func (f *fakeStore) GetUserByID(context.Context, string) (*models.User, error) { return nil, nil }

func (f *fakeStore) AppendEvent(_ context.Context, event *models.Event) error {
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeStore) ListEvents(_ context.Context, groupID string, limit int) ([]models.Event, error) {
	var out []models.Event
	for _, ev := range f.events {
		if ev.GroupID == groupID {
			out = append(out, ev)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) Transfer(context.Context, string, string, string, int64) error { return nil }

func (f *fakeStore) Credit(context.Context, string, string, int64) error { return nil }

func (f *fakeStore) Balance(context.Context, string, string) (int64, error) { return 0, nil }

func (f *fakeStore) Close() error { return nil }

var serviceNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*ChamaService, *fakeStore) {
	store := &fakeStore{}
	reg := registry.New("owner", fixedClock{now: serviceNow}, treasury.NewLedger(), nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewChamaService(reg, store, metrics.New(), logger), store
}

func serviceRules() models.GroupRules {
	return models.GroupRules{
		Name:                  "sunrise savings",
		ContributionAmount:    1000,
		ContributionFrequency: "weekly",
		MaxMembers:            10,
		StartDate:             serviceNow.Add(24 * time.Hour),
		EndDate:               serviceNow.Add(90 * 24 * time.Hour),
		PunishmentMode:        models.PunishmentModeFine,
	}
}

func TestChamaServiceSummary(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, "alice", serviceRules())
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	summary, err := svc.Summary(g.ID())
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.ID != g.ID() || summary.Name != "sunrise savings" || summary.Creator != "alice" {
		t.Errorf("summary = %+v", summary)
	}
	if summary.MemberCount != 0 || summary.PoolBalance != 0 {
		t.Errorf("fresh group summary = %+v, want empty", summary)
	}

	if _, err := svc.Summary("nope"); !errors.Is(err, registry.ErrUnknownGroup) {
		t.Errorf("err = %v, want ErrUnknownGroup", err)
	}
}

func TestChamaServiceRejectsInvalidRules(t *testing.T) {
	svc, _ := newTestService()

	rules := serviceRules()
	rules.ContributionAmount = 1
	if _, err := svc.CreateGroup(context.Background(), "alice", rules); !errors.Is(err, registry.ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestChamaServiceEvents(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	if _, err := svc.Events(ctx, "nope", 0); !errors.Is(err, registry.ErrUnknownGroup) {
		t.Errorf("err = %v, want ErrUnknownGroup", err)
	}

	g, err := svc.CreateGroup(ctx, "alice", serviceRules())
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	store.events = append(store.events,
		models.Event{GroupID: g.ID(), Type: models.EventMemberJoined, Subject: "bob"},
		models.Event{GroupID: "other", Type: models.EventMemberJoined, Subject: "eve"},
	)

	events, err := svc.Events(ctx, g.ID(), 0)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 1 || events[0].Subject != "bob" {
		t.Errorf("events = %v, want bob's join only", events)
	}
}
