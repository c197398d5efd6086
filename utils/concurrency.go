package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// CxGroup wraps an errgroup with its derived context so callers can both
// schedule work and observe group failure.
type CxGroup struct {
	group *errgroup.Group
	ctx   context.Context
}

func NewCGroup(ctx context.Context) *CxGroup {
	group, ctx := errgroup.WithContext(ctx)
	return &CxGroup{group: group, ctx: ctx}
}

func NewCGroupWithLimit(ctx context.Context, limit int) *CxGroup {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(limit)
	return &CxGroup{group: group, ctx: ctx}
}

func (c *CxGroup) Add(f func(ctx context.Context) error) {
	c.group.Go(func() error {
		if err := c.ctx.Err(); err != nil {
			return err
		}
		return f(c.ctx)
	})
}

func (c *CxGroup) Ctx() context.Context {
	return c.ctx
}

// Block waits for all scheduled work to finish.
func (c *CxGroup) Block() error {
	return c.group.Wait()
}

// Concurrent processes a slice with bounded parallelism, failing fast on the
// first error.
func Concurrent[T any](ctx context.Context, array []T, concurrency int, execute func(ctx context.Context, one T, executionNumber int) error) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for idx, one := range array {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return execute(ctx, one, idx)
		})
	}

	return group.Wait()
}

// ConcurrentInGroup schedules slice items onto an already bounded group.
func ConcurrentInGroup[T any](group *CxGroup, array []T, execute func(ctx context.Context, one T) error) {
	for _, one := range array {
		group.Add(func(ctx context.Context) error {
			return execute(ctx, one)
		})
	}
}
