// Package domain defines the academy entities held by the store, their
// enumerations, and the partial patches accepted by the mutation API.
package domain

// Entity is implemented by every record kept in a store collection.
type Entity interface {
	EntityID() string
}

// Role identifies the kind of account a user holds.
type Role string

// Account roles.
const (
	RoleAdmin   Role = "admin"
	RoleCoach   Role = "coach"
	RoleParent  Role = "parent"
	RoleStudent Role = "student"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

// Payment settlement states.
const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCompleted PaymentStatus = "completed"
)

// Approval is the state of a payment's approval workflow. A payment is in
// exactly one approval state at a time.
type Approval string

// Approval workflow states.
const (
	ApprovalNone     Approval = "none"
	ApprovalAwaiting Approval = "awaiting"
	ApprovalApproved Approval = "approved"
	ApprovalRejected Approval = "rejected"
)

// AttendanceStatus records how a student attended a session.
type AttendanceStatus string

// Attendance outcomes.
const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// SourceType tells whether a training plan was written by hand or generated
// from a class plan.
type SourceType string

// Training plan origins.
const (
	SourceManual SourceType = "manual"
	SourceClass  SourceType = "class"
)

// Difficulty grades an exercise.
type Difficulty string

// Exercise difficulty grades.
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ExerciseCategory tags the session slot an exercise belongs to.
type ExerciseCategory string

// Exercise categories.
const (
	ExerciseWarmUp    ExerciseCategory = "warmup"
	ExerciseTechnique ExerciseCategory = "technique"
	ExerciseCoolDown  ExerciseCategory = "cooldown"
	ExerciseTactical  ExerciseCategory = "tactical"
	ExercisePhysical  ExerciseCategory = "physical"
)

// Priority ranks a notification.
type Priority string

// Notification priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// RecipientAdmin addresses a notification to the administrators' inbox.
const RecipientAdmin = "admin"

// User is an account able to log in.
type User struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Role      Role    `json:"role"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     string  `json:"phone,omitempty"`
	Active    bool    `json:"active"`
	StudentID string  `json:"studentId,omitempty"`
	CreatedAt Instant `json:"createdAt"`
	LastLogin Instant `json:"lastLogin"`
}

// FullName joins the first and last name.
func (u User) FullName() string { return joinName(u.FirstName, u.LastName) }

// Category groups students by age band.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MinAge      int    `json:"minAge"`
	MaxAge      int    `json:"maxAge"`
	Color       string `json:"color,omitempty"`
}

// StudentStats holds activity counters for a student.
type StudentStats struct {
	TotalClasses    int     `json:"totalClasses"`
	AttendedClasses int     `json:"attendedClasses"`
	AttendanceRate  float64 `json:"attendanceRate"`
	AverageScore    float64 `json:"averageScore"`
	LastEvaluation  Instant `json:"lastEvaluation"`
}

// Student is an enrolled player. CategoryID is the only link to the
// student's category; the category is joined at read time.
type Student struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId,omitempty"`
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	Email          string       `json:"email,omitempty"`
	BirthDate      Instant      `json:"birthDate"`
	CategoryID     string       `json:"categoryId"`
	ParentID       string       `json:"parentId,omitempty"`
	ParentName     string       `json:"parentName,omitempty"`
	CoachID        string       `json:"coachId,omitempty"`
	Position       string       `json:"position,omitempty"`
	Active         bool         `json:"active"`
	EnrollmentDate Instant      `json:"enrollmentDate"`
	MedicalNotes   string       `json:"medicalNotes,omitempty"`
	Stats          StudentStats `json:"stats"`
}

// FullName joins the first and last name.
func (s Student) FullName() string { return joinName(s.FirstName, s.LastName) }

// Coach is a staff member; UserID links the coach's login account.
type Coach struct {
	ID             string   `json:"id"`
	UserID         string   `json:"userId,omitempty"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone,omitempty"`
	Specialization string   `json:"specialization,omitempty"`
	CategoryIDs    []string `json:"categoryIds,omitempty"`
	HireDate       Instant  `json:"hireDate"`
	Active         bool     `json:"active"`
}

// FullName joins the first and last name.
func (c Coach) FullName() string { return joinName(c.FirstName, c.LastName) }

// Payment is a fee owed or paid for a student.
type Payment struct {
	ID              string        `json:"id"`
	StudentID       string        `json:"studentId"`
	Amount          float64       `json:"amount"`
	Concept         string        `json:"concept,omitempty"`
	Method          string        `json:"method,omitempty"`
	Status          PaymentStatus `json:"status"`
	DueDate         Instant       `json:"dueDate"`
	PaidDate        Instant       `json:"paidDate"`
	Approval        Approval      `json:"approval"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
	ReceiptURL      string        `json:"receiptUrl,omitempty"`
	CreatedAt       Instant       `json:"createdAt"`
}

// AttendanceRecord marks a student's presence on a given day.
type AttendanceRecord struct {
	ID        string           `json:"id"`
	StudentID string           `json:"studentId"`
	CoachID   string           `json:"coachId,omitempty"`
	Date      Instant          `json:"date"`
	Status    AttendanceStatus `json:"status"`
	Notes     string           `json:"notes,omitempty"`
}

// PlannedExercise is one entry of a class plan phase.
type PlannedExercise struct {
	Name        string `json:"name"`
	Duration    int    `json:"duration"`
	Description string `json:"description,omitempty"`
}

// PhasePlan is a timed block of a class (warm-up, main activity, cool-down).
type PhasePlan struct {
	Exercises     []PlannedExercise `json:"exercises"`
	TotalDuration int               `json:"totalDuration"`
}

// ClassPlan is a coach's plan for a single session. TrainingPlanID names the
// generated companion training plan, if any.
type ClassPlan struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Date             Instant   `json:"date"`
	CategoryID       string    `json:"categoryId,omitempty"`
	CoachID          string    `json:"coachId,omitempty"`
	Duration         int       `json:"duration"`
	Objectives       []string  `json:"objectives"`
	WarmUpPlan       PhasePlan `json:"warmUpPlan"`
	MainActivityPlan PhasePlan `json:"mainActivityPlan"`
	CoolDownPlan     PhasePlan `json:"coolDownPlan"`
	Materials        []string  `json:"materials,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	TrainingPlanID   string    `json:"trainingPlanId,omitempty"`
	CreatedAt        Instant   `json:"createdAt"`
}

// Exercise is a concrete drill inside a training plan.
type Exercise struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Duration    int              `json:"duration"`
	Difficulty  Difficulty       `json:"difficulty"`
	Category    ExerciseCategory `json:"category"`
}

// TrainingPlan is a reusable sequence of exercises. Plans with SourceType
// class are owned by the class plan named in ClassID.
type TrainingPlan struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CategoryID  string     `json:"categoryId,omitempty"`
	CoachID     string     `json:"coachId,omitempty"`
	Duration    int        `json:"duration"`
	Objectives  []string   `json:"objectives"`
	WarmUp      []Exercise `json:"warmUp"`
	Exercises   []Exercise `json:"exercises"`
	CoolDown    []Exercise `json:"coolDown"`
	SourceType  SourceType `json:"sourceType"`
	ClassID     string     `json:"classId,omitempty"`
	CreatedAt   Instant    `json:"createdAt"`
}

// Mirrored reports whether the plan belongs to a class plan.
func (t TrainingPlan) Mirrored() bool { return t.SourceType == SourceClass }

// Notification is a point-in-time message for a user or the admin inbox.
type Notification struct {
	ID        string   `json:"id"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	Type      string   `json:"type"`
	Priority  Priority `json:"priority"`
	Read      bool     `json:"read"`
	CreatedAt Instant  `json:"createdAt"`
	PaymentID string   `json:"paymentId,omitempty"`
}

// StudentLogEntry is a coach's note about a student.
type StudentLogEntry struct {
	ID        string  `json:"id"`
	StudentID string  `json:"studentId"`
	AuthorID  string  `json:"authorId,omitempty"`
	Date      Instant `json:"date"`
	Type      string  `json:"type"`
	Content   string  `json:"content"`
}

// Evaluation scores a student against named criteria. OverallScore is the
// mean of Scores and is maintained by the mutation API.
type Evaluation struct {
	ID           string             `json:"id"`
	StudentID    string             `json:"studentId"`
	CoachID      string             `json:"coachId,omitempty"`
	Date         Instant            `json:"date"`
	Scores       map[string]float64 `json:"scores"`
	OverallScore float64            `json:"overallScore"`
	Comments     string             `json:"comments,omitempty"`
}

// Event is an entry in the academy calendar.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Date        Instant  `json:"date"`
	Location    string   `json:"location,omitempty"`
	Type        string   `json:"type,omitempty"`
	CategoryIDs []string `json:"categoryIds,omitempty"`
}

func (u User) EntityID() string             { return u.ID }
func (c Category) EntityID() string         { return c.ID }
func (s Student) EntityID() string          { return s.ID }
func (c Coach) EntityID() string            { return c.ID }
func (p Payment) EntityID() string          { return p.ID }
func (a AttendanceRecord) EntityID() string { return a.ID }
func (c ClassPlan) EntityID() string        { return c.ID }
func (t TrainingPlan) EntityID() string     { return t.ID }
func (n Notification) EntityID() string     { return n.ID }
func (l StudentLogEntry) EntityID() string  { return l.ID }
func (e Evaluation) EntityID() string       { return e.ID }
func (e Event) EntityID() string            { return e.ID }

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
