package persistence

import (
	"encoding/json"
	"fmt"
	"slices"

	"academycore/internal/core"
	"academycore/pkg/domain"
)

// field binds one collection of the state to its key in the snapshot blob.
type field struct {
	collection core.Collection
	encode     func(core.State) any
	decode     func(json.RawMessage, *core.State) error
	// merge combines the decoded collection in dst with the seed copy.
	merge func(dst *core.State, seed core.State, policy MergePolicy)
	// fallback copies the seed collection into dst.
	fallback func(dst *core.State, seed core.State)
}

func bind[T domain.Entity](c core.Collection, slot func(*core.State) *[]T) field {
	return field{
		collection: c,
		encode: func(st core.State) any {
			items := *slot(&st)
			if items == nil {
				return []T{}
			}
			return items
		},
		decode: func(raw json.RawMessage, dst *core.State) error {
			var items []T
			if err := json.Unmarshal(raw, &items); err != nil {
				return fmt.Errorf("decode %s: %w", c, err)
			}
			if items == nil {
				items = []T{}
			}
			*slot(dst) = items
			return nil
		},
		merge: func(dst *core.State, seed core.State, policy MergePolicy) {
			if policy != UnionByID {
				return
			}
			*slot(dst) = unionByID(*slot(dst), *slot(&seed))
		},
		fallback: func(dst *core.State, seed core.State) {
			*slot(dst) = *slot(&seed)
		},
	}
}

// unionByID returns persisted followed by every seed item whose ID persisted
// lacks, each appended once.
func unionByID[T domain.Entity](persisted, seed []T) []T {
	seen := make(map[string]bool, len(persisted))
	out := make([]T, 0, len(persisted)+len(seed))
	for _, item := range persisted {
		seen[item.EntityID()] = true
		out = append(out, item)
	}
	for _, item := range seed {
		if seen[item.EntityID()] {
			continue
		}
		seen[item.EntityID()] = true
		out = append(out, item)
	}
	return out
}

var fields = []field{
	bind(core.CollectionUsers, func(s *core.State) *[]domain.User { return &s.Users }),
	bind(core.CollectionCategories, func(s *core.State) *[]domain.Category { return &s.Categories }),
	bind(core.CollectionStudents, func(s *core.State) *[]domain.Student { return &s.Students }),
	bind(core.CollectionCoaches, func(s *core.State) *[]domain.Coach { return &s.Coaches }),
	bind(core.CollectionPayments, func(s *core.State) *[]domain.Payment { return &s.Payments }),
	bind(core.CollectionAttendance, func(s *core.State) *[]domain.AttendanceRecord { return &s.Attendance }),
	bind(core.CollectionClassPlans, func(s *core.State) *[]domain.ClassPlan { return &s.ClassPlans }),
	bind(core.CollectionTrainingPlans, func(s *core.State) *[]domain.TrainingPlan { return &s.TrainingPlans }),
	bind(core.CollectionNotifications, func(s *core.State) *[]domain.Notification { return &s.Notifications }),
	bind(core.CollectionStudentLogs, func(s *core.State) *[]domain.StudentLogEntry { return &s.StudentLogs }),
	bind(core.CollectionEvaluations, func(s *core.State) *[]domain.Evaluation { return &s.Evaluations }),
	bind(core.CollectionEvents, func(s *core.State) *[]domain.Event { return &s.Events }),
}

// Encode serializes every entity collection of st. The active user and UI
// flags are not part of the blob.
func Encode(st core.State) ([]byte, error) {
	doc := make(map[core.Collection]any, len(fields))
	for _, f := range fields {
		doc[f.collection] = f.encode(st)
	}
	return json.Marshal(doc)
}

// snapshot is a decoded blob: the collections it carried and their values.
type snapshot struct {
	state   core.State
	present map[core.Collection]bool
}

func decode(data []byte) (snapshot, error) {
	var doc map[core.Collection]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return snapshot{}, err
	}
	if doc == nil {
		return snapshot{}, fmt.Errorf("snapshot is not an object")
	}
	snap := snapshot{present: make(map[core.Collection]bool, len(doc))}
	for _, f := range fields {
		raw, ok := doc[f.collection]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := f.decode(raw, &snap.state); err != nil {
			return snapshot{}, err
		}
		snap.present[f.collection] = true
	}
	return snap, nil
}

// merge resolves a decoded snapshot against seed under policies.
func merge(snap snapshot, seed core.State, policies Policies) core.State {
	out := snap.state
	for _, f := range fields {
		if !snap.present[f.collection] {
			f.fallback(&out, seed)
			continue
		}
		f.merge(&out, seed, policies.For(f.collection))
	}
	restorePairs(&out, seed)
	return out
}

// restorePairs completes class/training plan pairs that merging left with
// one side only, taking the missing side from seed when seed links the two.
// Pairs whose companion seed lacks are left as they are.
func restorePairs(st *core.State, seed core.State) {
	training := make(map[string]bool, len(st.TrainingPlans))
	for _, t := range st.TrainingPlans {
		training[t.ID] = true
	}
	for _, c := range st.ClassPlans {
		if c.TrainingPlanID == "" || training[c.TrainingPlanID] {
			continue
		}
		if t, ok := core.Find[domain.TrainingPlan](seed, c.TrainingPlanID); ok && t.Mirrored() && t.ClassID == c.ID {
			st.TrainingPlans = append(slices.Clip(st.TrainingPlans), t)
			training[t.ID] = true
		}
	}

	classes := make(map[string]bool, len(st.ClassPlans))
	for _, c := range st.ClassPlans {
		classes[c.ID] = true
	}
	for _, t := range st.TrainingPlans {
		if !t.Mirrored() || t.ClassID == "" || classes[t.ClassID] {
			continue
		}
		if c, ok := core.Find[domain.ClassPlan](seed, t.ClassID); ok && c.TrainingPlanID == t.ID {
			st.ClassPlans = append(slices.Clip(st.ClassPlans), c)
			classes[c.ID] = true
		}
	}
}
