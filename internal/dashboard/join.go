package dashboard

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of work handed to Join.
type Task func(ctx context.Context) error

// PanicError is returned by Join when a task panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Join runs every task concurrently and waits for all of them to settle.
// Siblings are not cancelled when one task fails. It returns the first task
// error (a recovered panic becomes a *PanicError), or ctx.Err() if the
// context ended before the batch settled.
func Join(ctx context.Context, tasks ...Task) error {
	var g errgroup.Group
	for _, task := range tasks {
		task := task
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &PanicError{Value: r, Stack: debug.Stack()}
				}
			}()
			return task(ctx)
		})
	}

	err := g.Wait()
	if err != nil {
		return err
	}
	return ctx.Err()
}
