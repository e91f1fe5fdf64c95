package dashboard

import (
	"context"
	"testing"

	"github.com/rileyhilliard/actop/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestReachability(t *testing.T) {
	reached := errors.New(errors.ErrHTTP, "GET health returned status 503", "")
	lostErr := refused("health")

	tests := []struct {
		name string
		errs []error
		lost bool
	}{
		{"no requests", nil, false},
		{"all succeeded", []error{nil, nil}, false},
		{"error statuses", []error{reached, reached}, false},
		{"every request refused", []error{lostErr, lostErr, lostErr}, true},
		{"one got through", []error{lostErr, nil, lostErr}, false},
		{"one error status", []error{lostErr, reached}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, r := withReachability(context.Background())
			for _, err := range tt.errs {
				noteFetch(ctx, err)
			}
			assert.Equal(t, tt.lost, r.lost())
			assert.Equal(t, int32(len(tt.errs)), r.attempts.Load())
		})
	}
}

func TestNoteFetch_WithoutTally(t *testing.T) {
	assert.NotPanics(t, func() { noteFetch(context.Background(), refused("health")) })
}

func TestTrackedSource_CountsEveryCall(t *testing.T) {
	src := trackedSource{src: newFakeSource()}
	ctx, r := withReachability(context.Background())

	_, _ = src.Health(ctx)
	_, _ = src.Metric(ctx, "jvm.threads.live")
	_, _ = src.Catalog(ctx)

	assert.Equal(t, int32(3), r.attempts.Load())
	assert.Zero(t, r.unreachable.Load())
	assert.False(t, r.lost())
}
