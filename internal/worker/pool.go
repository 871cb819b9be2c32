package worker

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Task represents a unit of work processed by the pool.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc is the function signature for processing a single task.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool is a generic worker pool with configurable concurrency.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a new worker pool.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// Execute runs every input through the pool and returns one task per input
// in input order. A failing task does not stop the others. Inputs not yet
// started when ctx is cancelled get ctx.Err().
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	var g errgroup.Group
	g.SetLimit(p.workers)

	for i, input := range inputs {
		results[i].Input = input
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			result, err := p.process(ctx, input)
			results[i].Result = result
			results[i].Err = err
			if err != nil {
				log.Debug().Err(err).Int("index", i).Msg("Task failed")
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
