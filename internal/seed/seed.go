// Package seed provides the built-in demo academy used on first run and as
// the backfill source when loading a persisted snapshot.
package seed

import (
	"academycore/internal/core"
	"academycore/pkg/domain"
)

// SeedStudent is a student as stored in the seed set: links only, with the
// display fields filled in from the linked user by Transform.
type SeedStudent struct {
	ID             string
	UserID         string
	CategoryID     string
	ParentID       string
	CoachID        string
	BirthDate      domain.Instant
	Position       string
	EnrollmentDate domain.Instant
	MedicalNotes   string
}

// Dataset is the complete seed set.
type Dataset struct {
	Categories    []domain.Category
	Users         []domain.User
	Coaches       []domain.Coach
	Students      []SeedStudent
	Payments      []domain.Payment
	Attendance    []domain.AttendanceRecord
	ClassPlans    []domain.ClassPlan
	TrainingPlans []domain.TrainingPlan
	Notifications []domain.Notification
	StudentLogs   []domain.StudentLogEntry
	Evaluations   []domain.Evaluation
	Events        []domain.Event
}

// PlaceholderStats are the stats of a student with no recorded activity.
func PlaceholderStats() domain.StudentStats {
	return domain.StudentStats{}
}

// Transform turns the seed set into the runtime state, resolving each seed
// student's name and email from its user account and its parent's display
// name from the parent account.
func Transform(d Dataset) core.State {
	users := make(map[string]domain.User, len(d.Users))
	for _, u := range d.Users {
		users[u.ID] = u
	}
	students := make([]domain.Student, 0, len(d.Students))
	for _, s := range d.Students {
		student := domain.Student{
			ID:             s.ID,
			UserID:         s.UserID,
			CategoryID:     s.CategoryID,
			ParentID:       s.ParentID,
			CoachID:        s.CoachID,
			BirthDate:      s.BirthDate,
			Position:       s.Position,
			Active:         true,
			EnrollmentDate: s.EnrollmentDate,
			MedicalNotes:   s.MedicalNotes,
			Stats:          PlaceholderStats(),
		}
		if u, ok := users[s.UserID]; ok {
			student.FirstName = u.FirstName
			student.LastName = u.LastName
			student.Email = u.Email
			student.Active = u.Active
		}
		if p, ok := users[s.ParentID]; ok {
			student.ParentName = p.FullName()
		}
		students = append(students, student)
	}

	st := core.State{
		Users:         append([]domain.User(nil), d.Users...),
		Categories:    append([]domain.Category(nil), d.Categories...),
		Students:      students,
		Payments:      append([]domain.Payment(nil), d.Payments...),
		Attendance:    append([]domain.AttendanceRecord(nil), d.Attendance...),
		Notifications: append([]domain.Notification(nil), d.Notifications...),
		StudentLogs:   append([]domain.StudentLogEntry(nil), d.StudentLogs...),
	}
	for _, c := range d.Coaches {
		st.Coaches = append(st.Coaches, domain.CloneCoach(c))
	}
	for _, c := range d.ClassPlans {
		st.ClassPlans = append(st.ClassPlans, domain.CloneClassPlan(c))
	}
	for _, t := range d.TrainingPlans {
		st.TrainingPlans = append(st.TrainingPlans, domain.CloneTrainingPlan(t))
	}
	for _, e := range d.Evaluations {
		st.Evaluations = append(st.Evaluations, domain.CloneEvaluation(e))
	}
	for _, e := range d.Events {
		st.Events = append(st.Events, domain.CloneEvent(e))
	}
	return st
}

// State returns the transformed default dataset.
func State() core.State { return Transform(Default()) }
