package dashboard

import (
	"context"
	"sync/atomic"

	"github.com/rileyhilliard/actop/internal/actuator"
)

// reachability tallies the actuator requests made during one refresh and
// how many of them never got a response.
type reachability struct {
	attempts    atomic.Int32
	unreachable atomic.Int32
}

type reachKey struct{}

func withReachability(ctx context.Context) (context.Context, *reachability) {
	r := &reachability{}
	return context.WithValue(ctx, reachKey{}, r), r
}

// noteFetch records the outcome of one request against the refresh in ctx,
// if any.
func noteFetch(ctx context.Context, err error) {
	r, _ := ctx.Value(reachKey{}).(*reachability)
	if r == nil {
		return
	}
	r.attempts.Add(1)
	if err != nil && actuator.IsUnreachable(err) {
		r.unreachable.Add(1)
	}
}

// lost reports whether requests were made and none of them got a response.
func (r *reachability) lost() bool {
	n := r.attempts.Load()
	return n > 0 && r.unreachable.Load() == n
}

// trackedSource reports every request to the current refresh's tally.
type trackedSource struct {
	src Source
}

func (t trackedSource) Health(ctx context.Context) (*actuator.Health, error) {
	h, err := t.src.Health(ctx)
	noteFetch(ctx, err)
	return h, err
}

func (t trackedSource) Metric(ctx context.Context, name string, tags ...actuator.Tag) (*actuator.Metric, error) {
	m, err := t.src.Metric(ctx, name, tags...)
	noteFetch(ctx, err)
	return m, err
}

func (t trackedSource) Catalog(ctx context.Context) (*actuator.Catalog, error) {
	cat, err := t.src.Catalog(ctx)
	noteFetch(ctx, err)
	return cat, err
}
