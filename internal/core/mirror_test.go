package core

import (
	"context"
	"testing"

	"academycore/pkg/domain"
)

func serveDrill() domain.ClassPlan {
	return domain.ClassPlan{
		Title:      "Serve Drill",
		CategoryID: "cat_u15",
		CoachID:    "c1",
		Duration:   60,
		Objectives: []string{"consistent float serve"},
		WarmUpPlan: domain.PhasePlan{
			Exercises:     []domain.PlannedExercise{{Name: "Jog", Duration: 5}, {Name: "Arm circles", Duration: 5}},
			TotalDuration: 10,
		},
		MainActivityPlan: domain.PhasePlan{
			Exercises:     []domain.PlannedExercise{{Name: "Float serve", Duration: 20, Description: "Target zones 1 and 5"}},
			TotalDuration: 20,
		},
		CoolDownPlan: domain.PhasePlan{
			Exercises:     []domain.PlannedExercise{{Name: "Stretch", Duration: 10}},
			TotalDuration: 10,
		},
		Notes: "Bring extra balls",
	}
}

func assertMirrored(t *testing.T, st State, classID string) domain.TrainingPlan {
	t.Helper()
	plan, ok := Find[domain.ClassPlan](st, classID)
	if !ok {
		t.Fatalf("class plan %s missing", classID)
	}
	training, ok := Find[domain.TrainingPlan](st, plan.TrainingPlanID)
	if !ok {
		t.Fatalf("training plan %s missing", plan.TrainingPlanID)
	}
	if training.SourceType != domain.SourceClass || training.ClassID != plan.ID {
		t.Fatalf("back-reference broken: %+v", training)
	}
	if !Linked(st, plan) {
		t.Fatalf("Linked disagrees")
	}
	return training
}

func TestAddClassPlanCreatesLinkedTrainingPlan(t *testing.T) {
	h := newHarness(t, fixtureState())
	var transitions int
	h.store.Subscribe(func(Transition) { transitions++ })

	plan, err := h.svc.AddClassPlan(context.Background(), serveDrill())
	if err != nil {
		t.Fatalf("add class plan: %v", err)
	}
	if transitions != 1 {
		t.Fatalf("class and training plan should land in one transition, got %d", transitions)
	}
	training := assertMirrored(t, h.svc.State(), plan.ID)

	if training.Title != "Serve Drill" || training.Duration != 60 || training.Description != "Bring extra balls" {
		t.Fatalf("fields not carried over: %+v", training)
	}
	if len(training.Exercises) != 1 {
		t.Fatalf("expected 1 main exercise, got %d", len(training.Exercises))
	}
	ex := training.Exercises[0]
	if ex.Name != "Float serve" || ex.Category != domain.ExerciseTechnique || ex.Difficulty != domain.DifficultyIntermediate {
		t.Fatalf("main exercise mis-tagged: %+v", ex)
	}
	for _, w := range training.WarmUp {
		if w.Category != domain.ExerciseWarmUp || w.Difficulty != domain.DifficultyBeginner {
			t.Fatalf("warm-up exercise mis-tagged: %+v", w)
		}
	}
	if len(training.CoolDown) != 1 || training.CoolDown[0].Category != domain.ExerciseCoolDown {
		t.Fatalf("cool-down mis-tagged: %+v", training.CoolDown)
	}
	seen := map[string]bool{}
	for _, group := range [][]domain.Exercise{training.WarmUp, training.Exercises, training.CoolDown} {
		for _, e := range group {
			if e.ID == "" || seen[e.ID] {
				t.Fatalf("exercise ids must be fresh and unique: %q", e.ID)
			}
			seen[e.ID] = true
		}
	}
}

func TestUpdateClassPlanPropagates(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()
	plan, _ := h.svc.AddClassPlan(ctx, serveDrill())

	main := domain.PhasePlan{Exercises: []domain.PlannedExercise{
		{Name: "Jump serve", Duration: 15},
		{Name: "Serve receive", Duration: 25},
	}}
	updated, err := h.svc.UpdateClassPlan(ctx, plan.ID, domain.ClassPlanPatch{
		Title:            domain.Ptr("Serve & Receive"),
		Duration:         domain.Ptr(75),
		MainActivityPlan: &main,
		Materials:        []string{"cones"},
	})
	if err != nil {
		t.Fatalf("update class plan: %v", err)
	}
	if updated.Title != "Serve & Receive" || updated.TrainingPlanID != plan.TrainingPlanID {
		t.Fatalf("unexpected class plan %+v", updated)
	}
	training := assertMirrored(t, h.svc.State(), plan.ID)
	if training.Title != "Serve & Receive" || training.Duration != 75 {
		t.Fatalf("pass-through fields not mirrored: %+v", training)
	}
	if len(training.Exercises) != 2 || training.Exercises[1].Name != "Serve receive" || training.Exercises[1].Category != domain.ExerciseTechnique {
		t.Fatalf("main phase not re-derived: %+v", training.Exercises)
	}
	if len(training.WarmUp) != 2 {
		t.Fatalf("unpatched phase changed: %+v", training.WarmUp)
	}
}

func TestUpdateClassPlanMirrorsNotesCategoryAndCoach(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()
	plan, _ := h.svc.AddClassPlan(ctx, serveDrill())

	_, err := h.svc.UpdateClassPlan(ctx, plan.ID, domain.ClassPlanPatch{
		Notes:      domain.Ptr("indoor"),
		CategoryID: domain.Ptr("cat_u12"),
		CoachID:    domain.Ptr("c2"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	training := assertMirrored(t, h.svc.State(), plan.ID)
	if training.Description != "indoor" || training.CategoryID != "cat_u12" || training.CoachID != "c2" {
		t.Fatalf("training plan drifted from class plan: %+v", training)
	}
}

func TestUpdateClassPlanUnmirroredFieldsLeaveTrainingPlan(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()
	plan, _ := h.svc.AddClassPlan(ctx, serveDrill())
	before, _ := Find[domain.TrainingPlan](h.svc.State(), plan.TrainingPlanID)

	if _, err := h.svc.UpdateClassPlan(ctx, plan.ID, domain.ClassPlanPatch{Materials: []string{"cones"}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	after, _ := Find[domain.TrainingPlan](h.svc.State(), plan.TrainingPlanID)
	if after.Description != before.Description || after.Title != before.Title || len(after.Exercises) != len(before.Exercises) {
		t.Fatalf("materials patch touched the training plan: %+v", after)
	}
}

func TestUpdateTrainingPlanMirrorsDescriptionBack(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()
	plan, _ := h.svc.AddClassPlan(ctx, serveDrill())

	_, err := h.svc.UpdateTrainingPlan(ctx, plan.TrainingPlanID, domain.TrainingPlanPatch{
		Description: domain.Ptr("outdoor court"),
		CoachID:     domain.Ptr("c2"),
	})
	if err != nil {
		t.Fatalf("update training plan: %v", err)
	}
	class, _ := Find[domain.ClassPlan](h.svc.State(), plan.ID)
	if class.Notes != "outdoor court" || class.CoachID != "c2" || class.CategoryID != "cat_u15" {
		t.Fatalf("class plan drifted from training plan: %+v", class)
	}
}

func TestUpdateTrainingPlanPropagatesBack(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()
	plan, _ := h.svc.AddClassPlan(ctx, serveDrill())

	_, err := h.svc.UpdateTrainingPlan(ctx, plan.TrainingPlanID, domain.TrainingPlanPatch{
		Objectives: []string{"serve", "receive"},
		CoolDown: []domain.Exercise{
			{ID: "x1", Name: "Stretch", Duration: 6},
			{ID: "x2", Name: "Breathing", Duration: 4},
		},
	})
	if err != nil {
		t.Fatalf("update training plan: %v", err)
	}
	st := h.svc.State()
	assertMirrored(t, st, plan.ID)
	class, _ := Find[domain.ClassPlan](st, plan.ID)
	if len(class.Objectives) != 2 {
		t.Fatalf("objectives not mirrored back: %v", class.Objectives)
	}
	if class.CoolDownPlan.TotalDuration != 10 || len(class.CoolDownPlan.Exercises) != 2 || class.CoolDownPlan.Exercises[1].Name != "Breathing" {
		t.Fatalf("cool-down not rebuilt: %+v", class.CoolDownPlan)
	}
	if class.MainActivityPlan.TotalDuration != 20 {
		t.Fatalf("unpatched phase changed: %+v", class.MainActivityPlan)
	}
}

func TestManualTrainingPlanIsExempt(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()
	manual, err := h.svc.AddTrainingPlan(ctx, domain.TrainingPlan{
		Title:      "Conditioning",
		SourceType: domain.SourceClass,
		ClassID:    "forged",
		Exercises:  []domain.Exercise{{Name: "Sprints", Duration: 10}},
	})
	if err != nil {
		t.Fatalf("add training plan: %v", err)
	}
	if manual.SourceType != domain.SourceManual || manual.ClassID != "" {
		t.Fatalf("manual plan must not claim a class: %+v", manual)
	}
	if manual.Exercises[0].ID == "" {
		t.Fatalf("exercise id not assigned")
	}
	var transitions []Transition
	h.store.Subscribe(func(tr Transition) { transitions = append(transitions, tr) })
	if _, err := h.svc.UpdateTrainingPlan(ctx, manual.ID, domain.TrainingPlanPatch{Title: domain.Ptr("Conditioning II")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(transitions) != 1 || len(transitions[0].Tags) != 1 {
		t.Fatalf("manual plan update should touch only itself: %+v", transitions)
	}
	if err := h.svc.DeleteTrainingPlan(ctx, manual.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(h.svc.State().TrainingPlans) != 0 {
		t.Fatalf("manual plan not deleted")
	}
}

func TestDeleteEitherSideRemovesBoth(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()

	first, _ := h.svc.AddClassPlan(ctx, serveDrill())
	if err := h.svc.DeleteClassPlan(ctx, first.ID); err != nil {
		t.Fatalf("delete class plan: %v", err)
	}
	st := h.svc.State()
	if _, ok := Find[domain.ClassPlan](st, first.ID); ok {
		t.Fatalf("class plan survived")
	}
	if _, ok := Find[domain.TrainingPlan](st, first.TrainingPlanID); ok {
		t.Fatalf("training plan survived class deletion")
	}

	second, _ := h.svc.AddClassPlan(ctx, serveDrill())
	if err := h.svc.DeleteTrainingPlan(ctx, second.TrainingPlanID); err != nil {
		t.Fatalf("delete training plan: %v", err)
	}
	st = h.svc.State()
	if len(st.ClassPlans) != 0 || len(st.TrainingPlans) != 0 {
		t.Fatalf("pair survived training deletion: %d class, %d training", len(st.ClassPlans), len(st.TrainingPlans))
	}
}

func TestDeleteClassPlanWithoutCompanion(t *testing.T) {
	initial := fixtureState()
	initial.ClassPlans = []domain.ClassPlan{{ID: "cp_orphan", TrainingPlanID: "missing"}}
	h := newHarness(t, initial)
	if err := h.svc.DeleteClassPlan(context.Background(), "cp_orphan"); err != nil {
		t.Fatalf("delete orphan: %v", err)
	}
	if len(h.svc.State().ClassPlans) != 0 {
		t.Fatalf("orphan not deleted")
	}
}

func TestPhaseRoundTrip(t *testing.T) {
	ids := &sequentialIDs{}
	phase := serveDrill().WarmUpPlan
	back := phaseFromExercises(exercisesFromPhase(phase, warmUpSlot, ids.next))
	if back.TotalDuration != phase.TotalDuration || len(back.Exercises) != len(phase.Exercises) {
		t.Fatalf("phase round trip lost data: %+v", back)
	}
	for i := range phase.Exercises {
		if back.Exercises[i] != phase.Exercises[i] {
			t.Fatalf("exercise %d changed: %+v != %+v", i, back.Exercises[i], phase.Exercises[i])
		}
	}
}
