package core

import (
	"fmt"

	"academycore/pkg/domain"
)

// Op is the kind of change an action applies.
type Op string

// Action kinds.
const (
	OpSet        Op = "set"
	OpAdd        Op = "add"
	OpPrepend    Op = "prepend"
	OpUpdate     Op = "update"
	OpDelete     Op = "delete"
	OpToggle     Op = "toggle"
	OpInitialize Op = "initialize"
)

// CollectionSession tags actions that touch the session and UI flags rather
// than an entity collection.
const CollectionSession Collection = "session"

// Tag identifies the collection and kind of change an action applies.
type Tag struct {
	Collection Collection
	Op         Op
}

func (t Tag) String() string { return fmt.Sprintf("%s/%s", t.Collection, t.Op) }

// Action is a state transition. The set of actions is closed: every
// implementation lives in this file and reduces through a pure function.
type Action interface {
	Tag() Tag
	reduce(State) (State, bool)
}

// lens gives reducers typed access to one collection of the state.
type lens[T domain.Entity] struct {
	collection Collection
	get        func(*State) []T
	set        func(*State, []T)
	clone      func(T) T
}

func identity[T any](v T) T { return v }

var (
	usersLens = lens[domain.User]{CollectionUsers,
		func(s *State) []domain.User { return s.Users },
		func(s *State, v []domain.User) { s.Users = v }, identity[domain.User]}
	categoriesLens = lens[domain.Category]{CollectionCategories,
		func(s *State) []domain.Category { return s.Categories },
		func(s *State, v []domain.Category) { s.Categories = v }, identity[domain.Category]}
	studentsLens = lens[domain.Student]{CollectionStudents,
		func(s *State) []domain.Student { return s.Students },
		func(s *State, v []domain.Student) { s.Students = v }, identity[domain.Student]}
	coachesLens = lens[domain.Coach]{CollectionCoaches,
		func(s *State) []domain.Coach { return s.Coaches },
		func(s *State, v []domain.Coach) { s.Coaches = v }, domain.CloneCoach}
	paymentsLens = lens[domain.Payment]{CollectionPayments,
		func(s *State) []domain.Payment { return s.Payments },
		func(s *State, v []domain.Payment) { s.Payments = v }, identity[domain.Payment]}
	attendanceLens = lens[domain.AttendanceRecord]{CollectionAttendance,
		func(s *State) []domain.AttendanceRecord { return s.Attendance },
		func(s *State, v []domain.AttendanceRecord) { s.Attendance = v }, identity[domain.AttendanceRecord]}
	classPlansLens = lens[domain.ClassPlan]{CollectionClassPlans,
		func(s *State) []domain.ClassPlan { return s.ClassPlans },
		func(s *State, v []domain.ClassPlan) { s.ClassPlans = v }, domain.CloneClassPlan}
	trainingPlansLens = lens[domain.TrainingPlan]{CollectionTrainingPlans,
		func(s *State) []domain.TrainingPlan { return s.TrainingPlans },
		func(s *State, v []domain.TrainingPlan) { s.TrainingPlans = v }, domain.CloneTrainingPlan}
	notificationsLens = lens[domain.Notification]{CollectionNotifications,
		func(s *State) []domain.Notification { return s.Notifications },
		func(s *State, v []domain.Notification) { s.Notifications = v }, identity[domain.Notification]}
	studentLogsLens = lens[domain.StudentLogEntry]{CollectionStudentLogs,
		func(s *State) []domain.StudentLogEntry { return s.StudentLogs },
		func(s *State, v []domain.StudentLogEntry) { s.StudentLogs = v }, identity[domain.StudentLogEntry]}
	evaluationsLens = lens[domain.Evaluation]{CollectionEvaluations,
		func(s *State) []domain.Evaluation { return s.Evaluations },
		func(s *State, v []domain.Evaluation) { s.Evaluations = v }, domain.CloneEvaluation}
	eventsLens = lens[domain.Event]{CollectionEvents,
		func(s *State) []domain.Event { return s.Events },
		func(s *State, v []domain.Event) { s.Events = v }, domain.CloneEvent}
)

// lensOf resolves the collection for T. Entity types the store does not hold
// have no lens, and actions over them reduce to the unchanged state.
func lensOf[T domain.Entity]() (lens[T], bool) {
	var zero T
	var l any
	switch any(zero).(type) {
	case domain.User:
		l = usersLens
	case domain.Category:
		l = categoriesLens
	case domain.Student:
		l = studentsLens
	case domain.Coach:
		l = coachesLens
	case domain.Payment:
		l = paymentsLens
	case domain.AttendanceRecord:
		l = attendanceLens
	case domain.ClassPlan:
		l = classPlansLens
	case domain.TrainingPlan:
		l = trainingPlansLens
	case domain.Notification:
		l = notificationsLens
	case domain.StudentLogEntry:
		l = studentLogsLens
	case domain.Evaluation:
		l = evaluationsLens
	case domain.Event:
		l = eventsLens
	default:
		return lens[T]{}, false
	}
	return l.(lens[T]), true
}

func collectionOf[T domain.Entity]() Collection {
	if l, ok := lensOf[T](); ok {
		return l.collection
	}
	return Collection(fmt.Sprintf("%T", *new(T)))
}

// Replace sets a whole collection.
type Replace[T domain.Entity] struct{ Items []T }

// Add appends an entity.
type Add[T domain.Entity] struct{ Item T }

// Prepend inserts an entity at the front of its collection.
type Prepend[T domain.Entity] struct{ Item T }

// Update replaces the entity with the given ID by Apply's result. Apply
// receives a private copy. A result carrying a different ID is discarded.
type Update[T domain.Entity] struct {
	ID    string
	Apply func(T) T
}

// Delete removes the entity with the given ID.
type Delete[T domain.Entity] struct{ ID string }

func (a Replace[T]) Tag() Tag { return Tag{collectionOf[T](), OpSet} }
func (a Add[T]) Tag() Tag     { return Tag{collectionOf[T](), OpAdd} }
func (a Prepend[T]) Tag() Tag { return Tag{collectionOf[T](), OpPrepend} }
func (a Update[T]) Tag() Tag  { return Tag{collectionOf[T](), OpUpdate} }
func (a Delete[T]) Tag() Tag  { return Tag{collectionOf[T](), OpDelete} }

func (a Replace[T]) reduce(st State) (State, bool) {
	l, ok := lensOf[T]()
	if !ok {
		return st, false
	}
	items := make([]T, len(a.Items))
	for i, item := range a.Items {
		items[i] = l.clone(item)
	}
	l.set(&st, items)
	return st, true
}

func (a Add[T]) reduce(st State) (State, bool) {
	l, ok := lensOf[T]()
	if !ok {
		return st, false
	}
	current := l.get(&st)
	if indexOf(current, a.Item.EntityID()) >= 0 {
		return st, false
	}
	items := make([]T, 0, len(current)+1)
	items = append(items, current...)
	items = append(items, l.clone(a.Item))
	l.set(&st, items)
	return st, true
}

func (a Prepend[T]) reduce(st State) (State, bool) {
	l, ok := lensOf[T]()
	if !ok {
		return st, false
	}
	current := l.get(&st)
	if indexOf(current, a.Item.EntityID()) >= 0 {
		return st, false
	}
	items := make([]T, 0, len(current)+1)
	items = append(items, l.clone(a.Item))
	items = append(items, current...)
	l.set(&st, items)
	return st, true
}

func (a Update[T]) reduce(st State) (State, bool) {
	l, ok := lensOf[T]()
	if !ok || a.Apply == nil {
		return st, false
	}
	current := l.get(&st)
	i := indexOf(current, a.ID)
	if i < 0 {
		return st, false
	}
	next := a.Apply(l.clone(current[i]))
	if next.EntityID() != a.ID {
		return st, false
	}
	items := make([]T, len(current))
	copy(items, current)
	items[i] = l.clone(next)
	l.set(&st, items)
	return st, true
}

func (a Delete[T]) reduce(st State) (State, bool) {
	l, ok := lensOf[T]()
	if !ok {
		return st, false
	}
	current := l.get(&st)
	i := indexOf(current, a.ID)
	if i < 0 {
		return st, false
	}
	items := make([]T, 0, len(current)-1)
	items = append(items, current[:i]...)
	items = append(items, current[i+1:]...)
	l.set(&st, items)
	return st, true
}

// Initialize replaces every entity collection at once, keeping the session
// and UI flags of the current state.
type Initialize struct{ State State }

func (Initialize) Tag() Tag { return Tag{CollectionSession, OpInitialize} }

func (a Initialize) reduce(st State) (State, bool) {
	next := a.State
	next.CurrentUser = st.CurrentUser
	next.DarkMode = st.DarkMode
	next.Loading = false
	return next, true
}

// SetCurrentUser sets or, with a nil User, clears the active user.
type SetCurrentUser struct{ User *domain.User }

func (SetCurrentUser) Tag() Tag { return Tag{CollectionSession, OpSet} }

func (a SetCurrentUser) reduce(st State) (State, bool) {
	if a.User == nil {
		if st.CurrentUser == nil {
			return st, false
		}
		st.CurrentUser = nil
		return st, true
	}
	u := *a.User
	st.CurrentUser = &u
	return st, true
}

// SetLoading flags whether the store is still being hydrated.
type SetLoading struct{ Loading bool }

func (SetLoading) Tag() Tag { return Tag{CollectionSession, OpSet} }

func (a SetLoading) reduce(st State) (State, bool) {
	if st.Loading == a.Loading {
		return st, false
	}
	st.Loading = a.Loading
	return st, true
}

// SetDarkMode sets the theme preference.
type SetDarkMode struct{ Enabled bool }

func (SetDarkMode) Tag() Tag { return Tag{CollectionSession, OpSet} }

func (a SetDarkMode) reduce(st State) (State, bool) {
	if st.DarkMode == a.Enabled {
		return st, false
	}
	st.DarkMode = a.Enabled
	return st, true
}

// ToggleDarkMode flips the theme preference.
type ToggleDarkMode struct{}

func (ToggleDarkMode) Tag() Tag { return Tag{CollectionSession, OpToggle} }

func (ToggleDarkMode) reduce(st State) (State, bool) {
	st.DarkMode = !st.DarkMode
	return st, true
}
