package seed

import (
	"time"

	"academycore/pkg/domain"
)

// Default returns a fresh copy of the built-in dataset. Callers may modify
// the result freely.
func Default() Dataset {
	return Dataset{
		Categories:    categories(),
		Users:         users(),
		Coaches:       coaches(),
		Students:      students(),
		Payments:      payments(),
		Attendance:    attendance(),
		ClassPlans:    classPlans(),
		TrainingPlans: trainingPlans(),
		Notifications: notifications(),
		StudentLogs:   studentLogs(),
		Evaluations:   evaluations(),
		Events:        events(),
	}
}

func day(m time.Month, d int) domain.Instant { return domain.Date(2024, m, d) }

func categories() []domain.Category {
	return []domain.Category{
		{ID: "category_u12", Name: "Sub-12", Description: "Mini volleyball", MinAge: 9, MaxAge: 12, Color: "#22c55e"},
		{ID: "category_u15", Name: "Sub-15", Description: "Youth development", MinAge: 13, MaxAge: 15, Color: "#3b82f6"},
		{ID: "category_u18", Name: "Sub-18", Description: "Competitive squad", MinAge: 16, MaxAge: 18, Color: "#f97316"},
	}
}

func users() []domain.User {
	created := day(time.January, 8)
	return []domain.User{
		{ID: "user_admin", Email: "admin@academy.com", Password: "admin123", Role: domain.RoleAdmin,
			FirstName: "Marta", LastName: "Ibáñez", Active: true, CreatedAt: created},
		{ID: "user_coach_1", Email: "coach@academy.com", Password: "coach123", Role: domain.RoleCoach,
			FirstName: "Carlos", LastName: "Méndez", Phone: "+34 600 111 222", Active: true, CreatedAt: created},
		{ID: "user_coach_2", Email: "laura.gomez@academy.com", Password: "coach456", Role: domain.RoleCoach,
			FirstName: "Laura", LastName: "Gómez", Phone: "+34 600 333 444", Active: true, CreatedAt: created},
		{ID: "user_parent_1", Email: "parent@academy.com", Password: "parent123", Role: domain.RoleParent,
			FirstName: "Ana", LastName: "Torres", Phone: "+34 611 000 001", Active: true, StudentID: "student_1", CreatedAt: created},
		{ID: "user_parent_2", Email: "roberto.diaz@academy.com", Password: "parent456", Role: domain.RoleParent,
			FirstName: "Roberto", LastName: "Díaz", Phone: "+34 611 000 002", Active: true, StudentID: "student_2", CreatedAt: created},
		{ID: "user_student_1", Email: "student@academy.com", Password: "student123", Role: domain.RoleStudent,
			FirstName: "Lucía", LastName: "Torres", Active: true, StudentID: "student_1", CreatedAt: created},
		{ID: "user_student_2", Email: "mateo.diaz@academy.com", Password: "student456", Role: domain.RoleStudent,
			FirstName: "Mateo", LastName: "Díaz", Active: true, StudentID: "student_2", CreatedAt: created},
		{ID: "user_student_3", Email: "valentina.ruiz@academy.com", Password: "student789", Role: domain.RoleStudent,
			FirstName: "Valentina", LastName: "Ruiz", Active: true, StudentID: "student_3", CreatedAt: created},
	}
}

func coaches() []domain.Coach {
	return []domain.Coach{
		{ID: "coach_1", UserID: "user_coach_1", FirstName: "Carlos", LastName: "Méndez", Email: "coach@academy.com",
			Phone: "+34 600 111 222", Specialization: "Setting and serve reception",
			CategoryIDs: []string{"category_u15", "category_u18"}, HireDate: domain.Date(2022, time.September, 1), Active: true},
		{ID: "coach_2", UserID: "user_coach_2", FirstName: "Laura", LastName: "Gómez", Email: "laura.gomez@academy.com",
			Phone: "+34 600 333 444", Specialization: "Fundamentals",
			CategoryIDs: []string{"category_u12"}, HireDate: domain.Date(2023, time.February, 15), Active: true},
	}
}

func students() []SeedStudent {
	return []SeedStudent{
		{ID: "student_1", UserID: "user_student_1", CategoryID: "category_u15", ParentID: "user_parent_1", CoachID: "coach_1",
			BirthDate: domain.Date(2010, time.March, 14), Position: "setter", EnrollmentDate: day(time.January, 10)},
		{ID: "student_2", UserID: "user_student_2", CategoryID: "category_u12", ParentID: "user_parent_2", CoachID: "coach_2",
			BirthDate: domain.Date(2013, time.July, 2), Position: "libero", EnrollmentDate: day(time.January, 12)},
		{ID: "student_3", UserID: "user_student_3", CategoryID: "category_u18", CoachID: "coach_1",
			BirthDate: domain.Date(2007, time.November, 23), Position: "outside hitter", EnrollmentDate: day(time.February, 1),
			MedicalNotes: "Mild asthma; inhaler in bag"},
	}
}

func payments() []domain.Payment {
	return []domain.Payment{
		{ID: "payment_1", StudentID: "student_1", Amount: 150, Concept: "Monthly fee - March", Method: "transfer",
			Status: domain.PaymentPaid, DueDate: day(time.March, 5), PaidDate: day(time.March, 3),
			Approval: domain.ApprovalApproved, CreatedAt: day(time.March, 1)},
		{ID: "payment_2", StudentID: "student_2", Amount: 120, Concept: "Monthly fee - March", Method: "transfer",
			Status: domain.PaymentPending, DueDate: day(time.March, 5),
			Approval: domain.ApprovalAwaiting, ReceiptURL: "receipts/payment_2.pdf", CreatedAt: day(time.March, 2)},
		{ID: "payment_3", StudentID: "student_3", Amount: 180, Concept: "Monthly fee - February",
			Status: domain.PaymentOverdue, DueDate: day(time.February, 5),
			Approval: domain.ApprovalNone, CreatedAt: day(time.February, 1)},
	}
}

func attendance() []domain.AttendanceRecord {
	return []domain.AttendanceRecord{
		{ID: "attendance_1", StudentID: "student_1", CoachID: "coach_1", Date: day(time.March, 4), Status: domain.AttendancePresent},
		{ID: "attendance_2", StudentID: "student_3", CoachID: "coach_1", Date: day(time.March, 4), Status: domain.AttendanceLate, Notes: "Arrived 10 min late"},
		{ID: "attendance_3", StudentID: "student_2", CoachID: "coach_2", Date: day(time.March, 5), Status: domain.AttendanceAbsent},
	}
}

func classPlans() []domain.ClassPlan {
	return []domain.ClassPlan{
		{
			ID:         "class_1",
			Title:      "Serve reception basics",
			Date:       day(time.March, 11),
			CategoryID: "category_u15",
			CoachID:    "coach_1",
			Duration:   90,
			Objectives: []string{"Platform angle", "Footwork to the ball"},
			WarmUpPlan: domain.PhasePlan{TotalDuration: 15, Exercises: []domain.PlannedExercise{
				{Name: "Dynamic stretching", Duration: 10, Description: "Full body mobility"},
				{Name: "Ball handling", Duration: 5, Description: "Pairs, free passing"},
			}},
			MainActivityPlan: domain.PhasePlan{TotalDuration: 60, Exercises: []domain.PlannedExercise{
				{Name: "Float serve reception", Duration: 30, Description: "Receive in three lanes"},
				{Name: "Reception to setter", Duration: 30, Description: "Target the setter zone"},
			}},
			CoolDownPlan: domain.PhasePlan{TotalDuration: 15, Exercises: []domain.PlannedExercise{
				{Name: "Static stretching", Duration: 15},
			}},
			Materials:      []string{"Balls", "Cones"},
			TrainingPlanID: "training_1",
			CreatedAt:      day(time.March, 1),
		},
	}
}

func trainingPlans() []domain.TrainingPlan {
	return []domain.TrainingPlan{
		{
			ID:         "training_1",
			Title:      "Serve reception basics",
			CategoryID: "category_u15",
			CoachID:    "coach_1",
			Duration:   90,
			Objectives: []string{"Platform angle", "Footwork to the ball"},
			WarmUp: []domain.Exercise{
				{ID: "exercise_1", Name: "Dynamic stretching", Description: "Full body mobility", Duration: 10,
					Difficulty: domain.DifficultyBeginner, Category: domain.ExerciseWarmUp},
				{ID: "exercise_2", Name: "Ball handling", Description: "Pairs, free passing", Duration: 5,
					Difficulty: domain.DifficultyBeginner, Category: domain.ExerciseWarmUp},
			},
			Exercises: []domain.Exercise{
				{ID: "exercise_3", Name: "Float serve reception", Description: "Receive in three lanes", Duration: 30,
					Difficulty: domain.DifficultyIntermediate, Category: domain.ExerciseTechnique},
				{ID: "exercise_4", Name: "Reception to setter", Description: "Target the setter zone", Duration: 30,
					Difficulty: domain.DifficultyIntermediate, Category: domain.ExerciseTechnique},
			},
			CoolDown: []domain.Exercise{
				{ID: "exercise_5", Name: "Static stretching", Duration: 15,
					Difficulty: domain.DifficultyBeginner, Category: domain.ExerciseCoolDown},
			},
			SourceType: domain.SourceClass,
			ClassID:    "class_1",
			CreatedAt:  day(time.March, 1),
		},
		{
			ID:          "training_2",
			Title:       "Jump conditioning",
			Description: "Plyometric block for the competitive squad",
			CategoryID:  "category_u18",
			CoachID:     "coach_1",
			Duration:    45,
			Objectives:  []string{"Vertical jump", "Landing mechanics"},
			Exercises: []domain.Exercise{
				{ID: "exercise_6", Name: "Box jumps", Duration: 15, Difficulty: domain.DifficultyAdvanced, Category: domain.ExercisePhysical},
				{ID: "exercise_7", Name: "Approach jumps", Duration: 20, Difficulty: domain.DifficultyIntermediate, Category: domain.ExercisePhysical},
			},
			SourceType: domain.SourceManual,
			CreatedAt:  day(time.February, 20),
		},
	}
}

func notifications() []domain.Notification {
	return []domain.Notification{
		{ID: "notification_1", From: "system", To: domain.RecipientAdmin, Title: "Payment pending approval",
			Message: "A payment of $120 for Mateo Díaz requires approval.", Type: "payment_approval",
			Priority: domain.PriorityHigh, CreatedAt: day(time.March, 2), PaymentID: "payment_2"},
	}
}

func studentLogs() []domain.StudentLogEntry {
	return []domain.StudentLogEntry{
		{ID: "log_1", StudentID: "student_1", AuthorID: "coach_1", Date: day(time.March, 4), Type: "progress",
			Content: "Consistent hand position on sets; work on tempo."},
		{ID: "log_2", StudentID: "student_3", AuthorID: "coach_1", Date: day(time.March, 4), Type: "health",
			Content: "Needed a break after conditioning."},
	}
}

func evaluations() []domain.Evaluation {
	return []domain.Evaluation{
		{ID: "evaluation_1", StudentID: "student_1", CoachID: "coach_1", Date: day(time.February, 28),
			Scores: map[string]float64{"technique": 8, "attitude": 9, "physical": 7},
			OverallScore: 8, Comments: "Good progress this term"},
	}
}

func events() []domain.Event {
	return []domain.Event{
		{ID: "event_1", Title: "Regional tournament", Description: "Sub-15 and Sub-18 squads",
			Date: day(time.April, 20), Location: "Municipal sports hall", Type: "tournament",
			CategoryIDs: []string{"category_u15", "category_u18"}},
	}
}
