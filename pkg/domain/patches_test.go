package domain

import "testing"

func TestPaymentPatchApply(t *testing.T) {
	p := Payment{ID: "p", Amount: 100, Status: PaymentPending, Concept: "March"}
	got := PaymentPatch{Amount: Ptr(120.0), Status: Ptr(PaymentPaid)}.Apply(p)
	if got.Amount != 120 || got.Status != PaymentPaid || got.Concept != "March" || got.ID != "p" {
		t.Fatalf("unexpected %+v", got)
	}
	if p.Amount != 100 {
		t.Fatalf("original mutated")
	}
}

func TestClassPlanPatchCopiesSlices(t *testing.T) {
	objectives := []string{"serve"}
	c := ClassPlan{ID: "c", Objectives: []string{"old"}, Materials: []string{"balls"}}
	got := ClassPlanPatch{Objectives: objectives, Materials: []string{}}.Apply(c)
	objectives[0] = "mutated"
	if got.Objectives[0] != "serve" {
		t.Fatalf("patch slice aliased")
	}
	if len(got.Materials) != 0 {
		t.Fatalf("empty slice should clear materials")
	}
	if c.Objectives[0] != "old" {
		t.Fatalf("original mutated")
	}
	if same := (ClassPlanPatch{}).Apply(c); same.Objectives[0] != "old" || len(same.Materials) != 1 {
		t.Fatalf("empty patch changed plan: %+v", same)
	}
}

func TestTrainingPlanPatchEmpty(t *testing.T) {
	if !(TrainingPlanPatch{}).Empty() {
		t.Fatalf("zero patch should be empty")
	}
	if (TrainingPlanPatch{WarmUp: []Exercise{}}).Empty() {
		t.Fatalf("clearing a phase is a change")
	}
	plan := TrainingPlan{ID: "t", Title: "A", Exercises: []Exercise{{ID: "e", Name: "x"}}}
	got := TrainingPlanPatch{Title: Ptr("B"), Exercises: []Exercise{}}.Apply(plan)
	if got.Title != "B" || len(got.Exercises) != 0 || len(plan.Exercises) != 1 {
		t.Fatalf("unexpected %+v", got)
	}
}
