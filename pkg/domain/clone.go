package domain

// Clone helpers copy the slices and maps of a record so a stored value never
// shares backing arrays with a caller's copy.

func CloneCoach(c Coach) Coach {
	cp := c
	cp.CategoryIDs = cloneStrings(c.CategoryIDs)
	return cp
}

func ClonePhasePlan(p PhasePlan) PhasePlan {
	cp := p
	if p.Exercises != nil {
		cp.Exercises = append([]PlannedExercise(nil), p.Exercises...)
	}
	return cp
}

func CloneClassPlan(c ClassPlan) ClassPlan {
	cp := c
	cp.Objectives = cloneStrings(c.Objectives)
	cp.Materials = cloneStrings(c.Materials)
	cp.WarmUpPlan = ClonePhasePlan(c.WarmUpPlan)
	cp.MainActivityPlan = ClonePhasePlan(c.MainActivityPlan)
	cp.CoolDownPlan = ClonePhasePlan(c.CoolDownPlan)
	return cp
}

func CloneTrainingPlan(t TrainingPlan) TrainingPlan {
	cp := t
	cp.Objectives = cloneStrings(t.Objectives)
	cp.WarmUp = cloneExercises(t.WarmUp)
	cp.Exercises = cloneExercises(t.Exercises)
	cp.CoolDown = cloneExercises(t.CoolDown)
	return cp
}

func CloneEvaluation(e Evaluation) Evaluation {
	cp := e
	if e.Scores != nil {
		cp.Scores = make(map[string]float64, len(e.Scores))
		for k, v := range e.Scores {
			cp.Scores[k] = v
		}
	}
	return cp
}

func CloneEvent(e Event) Event {
	cp := e
	cp.CategoryIDs = cloneStrings(e.CategoryIDs)
	return cp
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

func cloneExercises(values []Exercise) []Exercise {
	if values == nil {
		return nil
	}
	return append([]Exercise(nil), values...)
}
