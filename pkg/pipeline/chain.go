// Package pipeline runs the pipeline stages one after another.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Stage is one step of a pipeline run.
type Stage interface {
	Name() string
	Run(ctx context.Context) error
}

type stageFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (s stageFunc) Name() string                  { return s.name }
func (s stageFunc) Run(ctx context.Context) error { return s.fn(ctx) }

// StageFunc adapts a function to a Stage.
func StageFunc(name string, fn func(ctx context.Context) error) Stage {
	return stageFunc{name: name, fn: fn}
}

// Chain runs stages sequentially. There is no rollback: stages completed
// before a failure keep their effects.
type Chain struct {
	stages []Stage
	logger *logrus.Entry
}

// BuildChain chains stages in the given order.
func BuildChain(stages ...Stage) *Chain {
	c := &Chain{stages: stages, logger: logrus.WithField("component", "pipeline")}
	for i := 1; i < len(stages); i++ {
		c.logger.Debugf("Chained stage %s -> %s", stages[i-1].Name(), stages[i].Name())
	}
	return c
}

// Names returns the stage names in execution order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.Name()
	}
	return names
}

// Run executes every stage and stops at the first failure.
func (c *Chain) Run(ctx context.Context) error {
	for _, s := range c.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		logger := c.logger.WithField("stage", s.Name())
		logger.Info("Stage started")
		if err := s.Run(ctx); err != nil {
			logger.WithError(err).Error("Stage failed")
			return fmt.Errorf("stage %s: %w", s.Name(), err)
		}
		logger.WithField("duration", time.Since(start).Round(time.Millisecond)).Info("Stage finished")
	}
	return nil
}
