package domain

// Patches are partial updates: a nil pointer or nil slice leaves the field
// untouched, and an empty non-nil slice clears it. Identity and link fields
// (ID, StudentID, TrainingPlanID, SourceType, ClassID) are not patchable.

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T { return &v }

// PaymentPatch is a partial update to a Payment.
type PaymentPatch struct {
	Amount          *float64
	Concept         *string
	Method          *string
	Status          *PaymentStatus
	DueDate         *Instant
	PaidDate        *Instant
	Approval        *Approval
	RejectionReason *string
	ReceiptURL      *string
}

// Apply returns p with the patched fields replaced.
func (pp PaymentPatch) Apply(p Payment) Payment {
	if pp.Amount != nil {
		p.Amount = *pp.Amount
	}
	if pp.Concept != nil {
		p.Concept = *pp.Concept
	}
	if pp.Method != nil {
		p.Method = *pp.Method
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	if pp.DueDate != nil {
		p.DueDate = *pp.DueDate
	}
	if pp.PaidDate != nil {
		p.PaidDate = *pp.PaidDate
	}
	if pp.Approval != nil {
		p.Approval = *pp.Approval
	}
	if pp.RejectionReason != nil {
		p.RejectionReason = *pp.RejectionReason
	}
	if pp.ReceiptURL != nil {
		p.ReceiptURL = *pp.ReceiptURL
	}
	return p
}

// ClassPlanPatch is a partial update to a ClassPlan.
type ClassPlanPatch struct {
	Title            *string
	Date             *Instant
	CategoryID       *string
	CoachID          *string
	Duration         *int
	Objectives       []string
	WarmUpPlan       *PhasePlan
	MainActivityPlan *PhasePlan
	CoolDownPlan     *PhasePlan
	Materials        []string
	Notes            *string
}

// Apply returns a copy of c with the patched fields replaced.
func (cp ClassPlanPatch) Apply(c ClassPlan) ClassPlan {
	c = CloneClassPlan(c)
	if cp.Title != nil {
		c.Title = *cp.Title
	}
	if cp.Date != nil {
		c.Date = *cp.Date
	}
	if cp.CategoryID != nil {
		c.CategoryID = *cp.CategoryID
	}
	if cp.CoachID != nil {
		c.CoachID = *cp.CoachID
	}
	if cp.Duration != nil {
		c.Duration = *cp.Duration
	}
	if cp.Objectives != nil {
		c.Objectives = cloneStrings(cp.Objectives)
	}
	if cp.WarmUpPlan != nil {
		c.WarmUpPlan = ClonePhasePlan(*cp.WarmUpPlan)
	}
	if cp.MainActivityPlan != nil {
		c.MainActivityPlan = ClonePhasePlan(*cp.MainActivityPlan)
	}
	if cp.CoolDownPlan != nil {
		c.CoolDownPlan = ClonePhasePlan(*cp.CoolDownPlan)
	}
	if cp.Materials != nil {
		c.Materials = cloneStrings(cp.Materials)
	}
	if cp.Notes != nil {
		c.Notes = *cp.Notes
	}
	return c
}

// TrainingPlanPatch is a partial update to a TrainingPlan.
type TrainingPlanPatch struct {
	Title       *string
	Description *string
	CategoryID  *string
	CoachID     *string
	Duration    *int
	Objectives  []string
	WarmUp      []Exercise
	Exercises   []Exercise
	CoolDown    []Exercise
}

// Empty reports whether the patch changes nothing.
func (tp TrainingPlanPatch) Empty() bool {
	return tp.Title == nil && tp.Description == nil && tp.CategoryID == nil &&
		tp.CoachID == nil && tp.Duration == nil && tp.Objectives == nil &&
		tp.WarmUp == nil && tp.Exercises == nil && tp.CoolDown == nil
}

// Apply returns a copy of t with the patched fields replaced.
func (tp TrainingPlanPatch) Apply(t TrainingPlan) TrainingPlan {
	t = CloneTrainingPlan(t)
	if tp.Title != nil {
		t.Title = *tp.Title
	}
	if tp.Description != nil {
		t.Description = *tp.Description
	}
	if tp.CategoryID != nil {
		t.CategoryID = *tp.CategoryID
	}
	if tp.CoachID != nil {
		t.CoachID = *tp.CoachID
	}
	if tp.Duration != nil {
		t.Duration = *tp.Duration
	}
	if tp.Objectives != nil {
		t.Objectives = cloneStrings(tp.Objectives)
	}
	if tp.WarmUp != nil {
		t.WarmUp = cloneExercises(tp.WarmUp)
	}
	if tp.Exercises != nil {
		t.Exercises = cloneExercises(tp.Exercises)
	}
	if tp.CoolDown != nil {
		t.CoolDown = cloneExercises(tp.CoolDown)
	}
	return t
}
