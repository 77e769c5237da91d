package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"academycore/pkg/domain"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sequentialIDs hands out "<prefix>_<n>" identifiers.
type sequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (g *sequentialIDs) next(prefix domain.IDPrefix) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s_t%d", prefix, g.n)
}

type recordingMetrics struct {
	mu  sync.Mutex
	ops map[string][]bool
}

func (r *recordingMetrics) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ops == nil {
		r.ops = map[string][]bool{}
	}
	r.ops[op] = append(r.ops[op], success)
}

// fixtureState is a small consistent academy: one category, a coach with an
// account, two students of which the first has a parent, and one payment.
func fixtureState() State {
	return State{
		Users: []domain.User{
			{ID: "u_admin", Email: "admin@academy.com", Password: "admin123", Role: domain.RoleAdmin, FirstName: "Ada", Active: true},
			{ID: "u_coach", Email: "coach@academy.com", Password: "coach123", Role: domain.RoleCoach, FirstName: "Carl", Active: true},
			{ID: "u_parent", Email: "parent@academy.com", Password: "parent123", Role: domain.RoleParent, FirstName: "Pam", Active: true, StudentID: "s1"},
			{ID: "u_off", Email: "off@academy.com", Password: "off123", Role: domain.RoleCoach, Active: false},
		},
		Categories: []domain.Category{{ID: "cat_u15", Name: "U15", MinAge: 13, MaxAge: 15}},
		Students: []domain.Student{
			{ID: "s1", FirstName: "Lia", LastName: "Ruiz", CategoryID: "cat_u15", ParentID: "u_parent", Active: true},
			{ID: "s2", FirstName: "Tom", LastName: "Vega", CategoryID: "cat_u15", Active: true},
		},
		Coaches: []domain.Coach{
			{ID: "c1", UserID: "u_coach", FirstName: "Carl", Email: "coach@academy.com", Active: true},
		},
		Payments: []domain.Payment{
			{ID: "p1", StudentID: "s1", Amount: 150, Status: domain.PaymentPending, Approval: domain.ApprovalNone},
		},
	}
}

type harness struct {
	store   *Store
	svc     *Service
	ids     *sequentialIDs
	metrics *recordingMetrics
}

func newHarness(t *testing.T, initial State) *harness {
	t.Helper()
	ids := &sequentialIDs{}
	metrics := &recordingMetrics{}
	logger := quietLogger()
	store := NewStore(initial, WithStoreLogger(logger))
	bus := NewEventBus(logger)
	emitter := NewNotificationEmitter(store, EmitterConfig{
		Now:    func() time.Time { return fixedNow },
		NewID:  ids.next,
		Logger: logger,
	})
	if err := emitter.Register(bus); err != nil {
		t.Fatalf("register emitter: %v", err)
	}
	svc := NewService(store,
		WithClock(ClockFunc(func() time.Time { return fixedNow })),
		WithLogger(logger),
		WithIDGenerator(ids.next),
		WithMetricsRecorder(metrics),
		WithEventBus(bus),
	)
	return &harness{store: store, svc: svc, ids: ids, metrics: metrics}
}
