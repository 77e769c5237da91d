package core

import (
	"testing"

	"academycore/pkg/domain"
)

// unheld is an entity type the store has no collection for.
type unheld struct{ ID string }

func (u unheld) EntityID() string { return u.ID }

type dispatchCounter struct{ calls map[string]int }

func (d *dispatchCounter) Dispatched(collection, op string) {
	if d.calls == nil {
		d.calls = map[string]int{}
	}
	d.calls[collection+"/"+op]++
}

func TestDispatchUnknownEntityTypeIsNoOp(t *testing.T) {
	store := NewStore(fixtureState(), WithStoreLogger(quietLogger()))
	var notified int
	store.Subscribe(func(Transition) { notified++ })

	before := store.State()
	after := store.Dispatch(Add[unheld]{Item: unheld{ID: "x"}}, Delete[unheld]{ID: "x"})
	if notified != 0 {
		t.Fatalf("observers should not run for a no-op dispatch")
	}
	if len(after.Students) != len(before.Students) || len(after.Users) != len(before.Users) {
		t.Fatalf("state changed by unknown action")
	}
	if tag := (Add[unheld]{}).Tag(); tag.Collection == CollectionUsers {
		t.Fatalf("unexpected collection for unheld type: %s", tag)
	}
}

func TestDispatchMissingIDIsNoOp(t *testing.T) {
	store := NewStore(fixtureState())
	var notified int
	store.Subscribe(func(Transition) { notified++ })
	store.Dispatch(
		Update[domain.Student]{ID: "nope", Apply: func(s domain.Student) domain.Student { return s }},
		Delete[domain.Payment]{ID: "nope"},
		Add[domain.Student]{Item: domain.Student{ID: "s1"}},
	)
	if notified != 0 {
		t.Fatalf("expected no transition, got %d", notified)
	}
	if got := len(store.State().Students); got != 2 {
		t.Fatalf("duplicate add should be ignored, have %d students", got)
	}
}

func TestUpdateCannotChangeID(t *testing.T) {
	store := NewStore(fixtureState())
	store.Dispatch(Update[domain.Student]{ID: "s1", Apply: func(s domain.Student) domain.Student {
		s.ID = "s99"
		return s
	}})
	if _, ok := Find[domain.Student](store.State(), "s1"); !ok {
		t.Fatalf("student s1 should be untouched")
	}
	if _, ok := Find[domain.Student](store.State(), "s99"); ok {
		t.Fatalf("ID rewrite must be discarded")
	}
}

func TestSnapshotsAreImmutable(t *testing.T) {
	store := NewStore(fixtureState())
	snap := store.State()

	store.Dispatch(
		Update[domain.Student]{ID: "s1", Apply: func(s domain.Student) domain.Student {
			s.FirstName = "Changed"
			return s
		}},
		Delete[domain.Student]{ID: "s2"},
		Prepend[domain.Notification]{Item: domain.Notification{ID: "n1"}},
	)
	if snap.Students[0].FirstName != "Lia" || len(snap.Students) != 2 {
		t.Fatalf("earlier snapshot was modified: %+v", snap.Students)
	}
	if len(snap.Notifications) != 0 {
		t.Fatalf("earlier snapshot gained notifications")
	}
	next := store.State()
	if next.Students[0].FirstName != "Changed" || len(next.Students) != 1 {
		t.Fatalf("dispatch not applied: %+v", next.Students)
	}
}

func TestFindReturnsDeepCopy(t *testing.T) {
	store := NewStore(State{ClassPlans: []domain.ClassPlan{{ID: "cp", Objectives: []string{"serve"}}}})
	plan, _ := Find[domain.ClassPlan](store.State(), "cp")
	plan.Objectives[0] = "mutated"
	again, _ := Find[domain.ClassPlan](store.State(), "cp")
	if again.Objectives[0] != "serve" {
		t.Fatalf("store leaked a shared slice")
	}
}

func TestPrependAndReplace(t *testing.T) {
	store := NewStore(State{})
	store.Dispatch(
		Add[domain.Notification]{Item: domain.Notification{ID: "a"}},
		Prepend[domain.Notification]{Item: domain.Notification{ID: "b"}},
	)
	got := store.State().Notifications
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("unexpected order %+v", got)
	}
	store.Dispatch(Replace[domain.Notification]{Items: []domain.Notification{{ID: "c"}}})
	if got := store.State().Notifications; len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("replace failed: %+v", got)
	}
}

func TestObserversSeeSingleTransitionPerDispatch(t *testing.T) {
	rec := &dispatchCounter{}
	store := NewStore(fixtureState(), WithDispatchRecorder(rec))
	var transitions []Transition
	unsubscribe := store.Subscribe(func(tr Transition) { transitions = append(transitions, tr) })

	store.Dispatch(
		Delete[domain.Student]{ID: "s2"},
		Add[domain.Payment]{Item: domain.Payment{ID: "p2", StudentID: "s1"}},
	)
	if len(transitions) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(transitions))
	}
	tr := transitions[0]
	if len(tr.Prev.Students) != 2 || len(tr.Next.Students) != 1 {
		t.Fatalf("transition does not carry both states")
	}
	if len(tr.Tags) != 2 || !tr.Touches() {
		t.Fatalf("unexpected tags %+v", tr.Tags)
	}
	if rec.calls["students/delete"] != 1 || rec.calls["payments/add"] != 1 {
		t.Fatalf("recorder missed actions: %v", rec.calls)
	}

	unsubscribe()
	store.Dispatch(Delete[domain.Payment]{ID: "p2"})
	if len(transitions) != 1 {
		t.Fatalf("unsubscribed observer still notified")
	}
}

func TestSessionActionsDoNotTouchCollections(t *testing.T) {
	store := NewStore(fixtureState())
	var last Transition
	store.Subscribe(func(tr Transition) { last = tr })

	store.Dispatch(SetCurrentUser{User: &domain.User{ID: "u_admin"}})
	if last.Touches() {
		t.Fatalf("setting the current user is not an entity change")
	}
	store.Dispatch(ToggleDarkMode{})
	if last.Touches() || !last.Next.DarkMode {
		t.Fatalf("dark mode toggle mis-tagged")
	}
	store.Dispatch(Initialize{State: State{Students: []domain.Student{{ID: "x"}}}})
	if !last.Touches() {
		t.Fatalf("initialize replaces collections")
	}
	st := store.State()
	if st.CurrentUser == nil || st.CurrentUser.ID != "u_admin" || !st.DarkMode {
		t.Fatalf("initialize must keep session and flags: %+v", st)
	}
}

func TestSetCurrentUserCopiesUser(t *testing.T) {
	store := NewStore(State{})
	u := domain.User{ID: "u1"}
	store.Dispatch(SetCurrentUser{User: &u})
	u.ID = "mutated"
	if store.State().CurrentUser.ID != "u1" {
		t.Fatalf("store aliases caller's user")
	}
	store.Dispatch(SetCurrentUser{})
	if store.State().CurrentUser != nil {
		t.Fatalf("expected logout")
	}
}

func TestCount(t *testing.T) {
	st := fixtureState()
	for _, c := range Collections() {
		want := 0
		switch c {
		case CollectionUsers:
			want = 4
		case CollectionStudents:
			want = 2
		case CollectionCategories, CollectionCoaches, CollectionPayments:
			want = 1
		}
		if got := st.Count(c); got != want {
			t.Fatalf("count %s: want %d got %d", c, want, got)
		}
	}
}
