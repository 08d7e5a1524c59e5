package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type sagaStep struct {
	name       string
	execute    func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// saga runs steps in order. When a step fails, the steps already executed
// are compensated in reverse order and the step's error is returned.
type saga struct {
	id    string
	steps []sagaStep
	log   *zap.Logger
}

func newSaga(id string, log *zap.Logger) *saga {
	return &saga{id: id, log: log}
}

func (s *saga) addStep(name string, execute, compensate func(ctx context.Context) error) *saga {
	s.steps = append(s.steps, sagaStep{name: name, execute: execute, compensate: compensate})
	return s
}

func (s *saga) run(ctx context.Context) error {
	executed := make([]sagaStep, 0, len(s.steps))
	for _, step := range s.steps {
		if err := step.execute(ctx); err != nil {
			s.log.Warn("saga step failed",
				zap.String("saga", s.id), zap.String("step", step.name), zap.Error(err))
			s.compensate(ctx, executed)
			return fmt.Errorf("saga %s failed at step %s: %w", s.id, step.name, err)
		}
		executed = append(executed, step)
	}
	return nil
}

func (s *saga) compensate(ctx context.Context, executed []sagaStep) {
	for i := len(executed) - 1; i >= 0; i-- {
		step := executed[i]
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(ctx); err != nil {
			// the graph is left asymmetric
			s.log.Error("saga compensation failed",
				zap.String("saga", s.id), zap.String("step", step.name), zap.Error(err))
			continue
		}
		s.log.Info("saga step compensated", zap.String("saga", s.id), zap.String("step", step.name))
	}
}
