package core

import "academycore/pkg/domain"

// phaseSlot is the fixed difficulty and category given to exercises derived
// from one phase of a class plan.
type phaseSlot struct {
	difficulty domain.Difficulty
	category   domain.ExerciseCategory
}

var (
	warmUpSlot   = phaseSlot{domain.DifficultyBeginner, domain.ExerciseWarmUp}
	mainSlot     = phaseSlot{domain.DifficultyIntermediate, domain.ExerciseTechnique}
	coolDownSlot = phaseSlot{domain.DifficultyBeginner, domain.ExerciseCoolDown}
)

// exercisesFromPhase derives training exercises from a class plan phase,
// each with a fresh ID.
func exercisesFromPhase(phase domain.PhasePlan, slot phaseSlot, newID domain.IDGenerator) []domain.Exercise {
	out := make([]domain.Exercise, 0, len(phase.Exercises))
	for _, ex := range phase.Exercises {
		out = append(out, domain.Exercise{
			ID:          newID(domain.PrefixExercise),
			Name:        ex.Name,
			Description: ex.Description,
			Duration:    ex.Duration,
			Difficulty:  slot.difficulty,
			Category:    slot.category,
		})
	}
	return out
}

// phaseFromExercises is the inverse of exercisesFromPhase. TotalDuration is
// recomputed from the exercises.
func phaseFromExercises(exercises []domain.Exercise) domain.PhasePlan {
	phase := domain.PhasePlan{Exercises: make([]domain.PlannedExercise, 0, len(exercises))}
	for _, ex := range exercises {
		phase.Exercises = append(phase.Exercises, domain.PlannedExercise{
			Name:        ex.Name,
			Duration:    ex.Duration,
			Description: ex.Description,
		})
		phase.TotalDuration += ex.Duration
	}
	return phase
}

// trainingPlanForClass builds the companion training plan of a class plan.
func trainingPlanForClass(c domain.ClassPlan, id string, newID domain.IDGenerator) domain.TrainingPlan {
	objectives := append([]string(nil), c.Objectives...)
	return domain.TrainingPlan{
		ID:          id,
		Title:       c.Title,
		Description: c.Notes,
		CategoryID:  c.CategoryID,
		CoachID:     c.CoachID,
		Duration:    c.Duration,
		Objectives:  objectives,
		WarmUp:      exercisesFromPhase(c.WarmUpPlan, warmUpSlot, newID),
		Exercises:   exercisesFromPhase(c.MainActivityPlan, mainSlot, newID),
		CoolDown:    exercisesFromPhase(c.CoolDownPlan, coolDownSlot, newID),
		SourceType:  domain.SourceClass,
		ClassID:     c.ID,
		CreatedAt:   c.CreatedAt,
	}
}

// trainingPatchForClassPatch translates a class plan patch into the patch of
// its training plan, copying the same fields trainingPlanForClass does.
// Patched phases are re-derived.
func trainingPatchForClassPatch(p domain.ClassPlanPatch, newID domain.IDGenerator) domain.TrainingPlanPatch {
	var tp domain.TrainingPlanPatch
	tp.Title = p.Title
	tp.Description = p.Notes
	tp.CategoryID = p.CategoryID
	tp.CoachID = p.CoachID
	tp.Duration = p.Duration
	if p.Objectives != nil {
		tp.Objectives = append([]string{}, p.Objectives...)
	}
	if p.WarmUpPlan != nil {
		tp.WarmUp = exercisesFromPhase(*p.WarmUpPlan, warmUpSlot, newID)
	}
	if p.MainActivityPlan != nil {
		tp.Exercises = exercisesFromPhase(*p.MainActivityPlan, mainSlot, newID)
	}
	if p.CoolDownPlan != nil {
		tp.CoolDown = exercisesFromPhase(*p.CoolDownPlan, coolDownSlot, newID)
	}
	return tp
}

// classPatchForTrainingPatch translates a training plan patch back onto its
// owning class plan.
func classPatchForTrainingPatch(p domain.TrainingPlanPatch) domain.ClassPlanPatch {
	var cp domain.ClassPlanPatch
	cp.Title = p.Title
	cp.Notes = p.Description
	cp.CategoryID = p.CategoryID
	cp.CoachID = p.CoachID
	cp.Duration = p.Duration
	if p.Objectives != nil {
		cp.Objectives = append([]string{}, p.Objectives...)
	}
	if p.WarmUp != nil {
		phase := phaseFromExercises(p.WarmUp)
		cp.WarmUpPlan = &phase
	}
	if p.Exercises != nil {
		phase := phaseFromExercises(p.Exercises)
		cp.MainActivityPlan = &phase
	}
	if p.CoolDown != nil {
		phase := phaseFromExercises(p.CoolDown)
		cp.CoolDownPlan = &phase
	}
	return cp
}

// linkedTrainingPlan returns the mirrored training plan of a class plan.
func linkedTrainingPlan(st State, c domain.ClassPlan) (domain.TrainingPlan, bool) {
	if c.TrainingPlanID == "" {
		return domain.TrainingPlan{}, false
	}
	plan, ok := Find[domain.TrainingPlan](st, c.TrainingPlanID)
	if !ok || !plan.Mirrored() || plan.ClassID != c.ID {
		return domain.TrainingPlan{}, false
	}
	return plan, true
}

// owningClassPlan returns the class plan a mirrored training plan belongs to.
func owningClassPlan(st State, t domain.TrainingPlan) (domain.ClassPlan, bool) {
	if !t.Mirrored() || t.ClassID == "" {
		return domain.ClassPlan{}, false
	}
	return Find[domain.ClassPlan](st, t.ClassID)
}

// Linked reports whether the mirror invariant holds for class plan c: its
// training plan exists, is class-sourced, and points back at c.
func Linked(st State, c domain.ClassPlan) bool {
	_, ok := linkedTrainingPlan(st, c)
	return ok
}
