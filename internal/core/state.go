// Package core holds the academy store: the aggregate state, the closed set
// of actions that transform it, the mutation API built on top of dispatch,
// and the derived behaviour (class/training plan mirroring, payment
// notifications, sessions) composed around it.
package core

import "academycore/pkg/domain"

// Collection names an entity collection of the aggregate state. The names
// double as the keys of the persisted snapshot.
type Collection string

// Entity collections held by the store.
const (
	CollectionUsers         Collection = "users"
	CollectionCategories    Collection = "categories"
	CollectionStudents      Collection = "students"
	CollectionCoaches       Collection = "coaches"
	CollectionPayments      Collection = "payments"
	CollectionAttendance    Collection = "attendance"
	CollectionClassPlans    Collection = "classPlans"
	CollectionTrainingPlans Collection = "trainingPlans"
	CollectionNotifications Collection = "notifications"
	CollectionStudentLogs   Collection = "studentLogs"
	CollectionEvaluations   Collection = "evaluations"
	CollectionEvents        Collection = "events"
)

// Collections lists every entity collection in snapshot order.
func Collections() []Collection {
	return []Collection{
		CollectionUsers,
		CollectionCategories,
		CollectionStudents,
		CollectionCoaches,
		CollectionPayments,
		CollectionAttendance,
		CollectionClassPlans,
		CollectionTrainingPlans,
		CollectionNotifications,
		CollectionStudentLogs,
		CollectionEvaluations,
		CollectionEvents,
	}
}

// State is the aggregate held by the store. A State obtained from the store
// is a snapshot: reducers never modify a slice in place, they build a new one,
// so a snapshot stays valid after later dispatches.
type State struct {
	Users         []domain.User
	Categories    []domain.Category
	Students      []domain.Student
	Coaches       []domain.Coach
	Payments      []domain.Payment
	Attendance    []domain.AttendanceRecord
	ClassPlans    []domain.ClassPlan
	TrainingPlans []domain.TrainingPlan
	Notifications []domain.Notification
	StudentLogs   []domain.StudentLogEntry
	Evaluations   []domain.Evaluation
	Events        []domain.Event

	CurrentUser *domain.User
	DarkMode    bool
	Loading     bool
}

// Find returns the entity of type T with the given ID.
func Find[T domain.Entity](st State, id string) (T, bool) {
	var zero T
	l, ok := lensOf[T]()
	if !ok {
		return zero, false
	}
	items := l.get(&st)
	if i := indexOf(items, id); i >= 0 {
		return l.clone(items[i]), true
	}
	return zero, false
}

// List returns a copy of the collection holding entities of type T.
func List[T domain.Entity](st State) []T {
	l, ok := lensOf[T]()
	if !ok {
		return nil
	}
	items := l.get(&st)
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = l.clone(item)
	}
	return out
}

// Count returns the number of entities in a collection.
func (s State) Count(c Collection) int {
	switch c {
	case CollectionUsers:
		return len(s.Users)
	case CollectionCategories:
		return len(s.Categories)
	case CollectionStudents:
		return len(s.Students)
	case CollectionCoaches:
		return len(s.Coaches)
	case CollectionPayments:
		return len(s.Payments)
	case CollectionAttendance:
		return len(s.Attendance)
	case CollectionClassPlans:
		return len(s.ClassPlans)
	case CollectionTrainingPlans:
		return len(s.TrainingPlans)
	case CollectionNotifications:
		return len(s.Notifications)
	case CollectionStudentLogs:
		return len(s.StudentLogs)
	case CollectionEvaluations:
		return len(s.Evaluations)
	case CollectionEvents:
		return len(s.Events)
	}
	return 0
}

func indexOf[T domain.Entity](items []T, id string) int {
	for i, item := range items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}
