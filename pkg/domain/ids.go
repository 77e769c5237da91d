package domain

import (
	"strings"

	"github.com/google/uuid"
)

// IDPrefix namespaces generated identifiers per entity type.
type IDPrefix string

// Identifier prefixes. Each entity type owns exactly one prefix.
const (
	PrefixUser         IDPrefix = "user"
	PrefixStudent      IDPrefix = "student"
	PrefixCoach        IDPrefix = "coach"
	PrefixCategory     IDPrefix = "category"
	PrefixPayment      IDPrefix = "payment"
	PrefixAttendance   IDPrefix = "attendance"
	PrefixClassPlan    IDPrefix = "class"
	PrefixTrainingPlan IDPrefix = "training"
	PrefixExercise     IDPrefix = "exercise"
	PrefixNotification IDPrefix = "notification"
	PrefixStudentLog   IDPrefix = "log"
	PrefixEvaluation   IDPrefix = "evaluation"
	PrefixEvent        IDPrefix = "event"
)

// IDGenerator produces a fresh identifier for the given prefix.
type IDGenerator func(prefix IDPrefix) string

// NewID returns "<prefix>_<token>" where the token is a time-ordered UUIDv7,
// so identifiers are unique and never reused.
func NewID(prefix IDPrefix) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return string(prefix) + "_" + strings.ReplaceAll(id.String(), "-", "")
}

// HasPrefix reports whether id was generated for the given prefix.
func HasPrefix(id string, prefix IDPrefix) bool {
	return strings.HasPrefix(id, string(prefix)+"_")
}
