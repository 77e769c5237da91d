package core

import (
	"context"

	"academycore/pkg/domain"
)

// AddClassPlan appends a class plan together with its generated training
// plan. Both records are dispatched as one transition and reference each
// other.
func (s *Service) AddClassPlan(ctx context.Context, plan domain.ClassPlan) (domain.ClassPlan, error) {
	plan = domain.CloneClassPlan(plan)
	plan.ID = s.newID(domain.PrefixClassPlan)
	plan.TrainingPlanID = s.newID(domain.PrefixTrainingPlan)
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = s.now()
	}
	training := trainingPlanForClass(plan, plan.TrainingPlanID, s.newID)
	err := s.run(ctx, "add_class_plan", func(State) error {
		s.store.Dispatch(
			Add[domain.TrainingPlan]{Item: training},
			Add[domain.ClassPlan]{Item: plan},
		)
		s.logger.Debug("class plan mirrored", "class_plan_id", plan.ID, "training_plan_id", training.ID)
		return nil
	})
	return plan, err
}

// UpdateClassPlan patches a class plan and carries the patch over to its
// linked training plan, if it has one.
func (s *Service) UpdateClassPlan(ctx context.Context, id string, patch domain.ClassPlanPatch) (domain.ClassPlan, error) {
	var updated domain.ClassPlan
	err := s.run(ctx, "update_class_plan", func(st State) error {
		current, ok := Find[domain.ClassPlan](st, id)
		if !ok {
			return ErrNotFound{Collection: CollectionClassPlans, ID: id}
		}
		updated = patch.Apply(current)
		actions := []Action{Update[domain.ClassPlan]{ID: id, Apply: patch.Apply}}
		if training, ok := linkedTrainingPlan(st, current); ok {
			tp := trainingPatchForClassPatch(patch, s.newID)
			if !tp.Empty() {
				actions = append(actions, Update[domain.TrainingPlan]{ID: training.ID, Apply: tp.Apply})
			}
		}
		s.store.Dispatch(actions...)
		return nil
	})
	return updated, err
}

// DeleteClassPlan removes a class plan and its linked training plan.
func (s *Service) DeleteClassPlan(ctx context.Context, id string) error {
	return s.run(ctx, "delete_class_plan", func(st State) error {
		plan, ok := Find[domain.ClassPlan](st, id)
		if !ok {
			return ErrNotFound{Collection: CollectionClassPlans, ID: id}
		}
		var actions []Action
		if training, ok := linkedTrainingPlan(st, plan); ok {
			actions = append(actions, Delete[domain.TrainingPlan]{ID: training.ID})
		}
		actions = append(actions, Delete[domain.ClassPlan]{ID: id})
		s.store.Dispatch(actions...)
		return nil
	})
}

// AddTrainingPlan appends a hand-written training plan. Plans created here
// are never mirrored.
func (s *Service) AddTrainingPlan(ctx context.Context, plan domain.TrainingPlan) (domain.TrainingPlan, error) {
	plan = domain.CloneTrainingPlan(plan)
	plan.ID = s.newID(domain.PrefixTrainingPlan)
	plan.SourceType = domain.SourceManual
	plan.ClassID = ""
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = s.now()
	}
	for _, group := range [][]domain.Exercise{plan.WarmUp, plan.Exercises, plan.CoolDown} {
		for i := range group {
			if group[i].ID == "" {
				group[i].ID = s.newID(domain.PrefixExercise)
			}
		}
	}
	return addEntity(s, ctx, "add_training_plan", plan)
}

// UpdateTrainingPlan patches a training plan. A plan generated from a class
// plan carries the patch back onto the class plan's phases.
func (s *Service) UpdateTrainingPlan(ctx context.Context, id string, patch domain.TrainingPlanPatch) (domain.TrainingPlan, error) {
	var updated domain.TrainingPlan
	err := s.run(ctx, "update_training_plan", func(st State) error {
		current, ok := Find[domain.TrainingPlan](st, id)
		if !ok {
			return ErrNotFound{Collection: CollectionTrainingPlans, ID: id}
		}
		updated = patch.Apply(current)
		actions := []Action{Update[domain.TrainingPlan]{ID: id, Apply: patch.Apply}}
		if owner, ok := owningClassPlan(st, current); ok && owner.TrainingPlanID == id {
			cp := classPatchForTrainingPatch(patch)
			actions = append(actions, Update[domain.ClassPlan]{ID: owner.ID, Apply: cp.Apply})
		}
		s.store.Dispatch(actions...)
		return nil
	})
	return updated, err
}

// DeleteTrainingPlan removes a training plan and, for a generated plan, the
// class plan owning it.
func (s *Service) DeleteTrainingPlan(ctx context.Context, id string) error {
	return s.run(ctx, "delete_training_plan", func(st State) error {
		plan, ok := Find[domain.TrainingPlan](st, id)
		if !ok {
			return ErrNotFound{Collection: CollectionTrainingPlans, ID: id}
		}
		var actions []Action
		if owner, ok := owningClassPlan(st, plan); ok && owner.TrainingPlanID == id {
			actions = append(actions, Delete[domain.ClassPlan]{ID: owner.ID})
		}
		actions = append(actions, Delete[domain.TrainingPlan]{ID: id})
		s.store.Dispatch(actions...)
		return nil
	})
}
