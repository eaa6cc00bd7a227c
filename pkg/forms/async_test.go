package forms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncValidatorPendingThenInvalid(t *testing.T) {
	field := NewField("taken-name")

	statusCh := make(chan Status, 4)
	field.OnStatusChange(func(status Status) { statusCh <- status })

	release := make(chan Errors, 1)
	field.SetAsyncValidators(func(ctx context.Context, control Control) (Errors, error) {
		return <-release, nil
	})
	field.UpdateValueAndValidity()

	assert.Equal(t, StatusPending, field.Status())
	assert.True(t, field.Pending())
	assert.Equal(t, StatusPending, <-statusCh)

	release <- Errors{"unique": "name already taken"}

	assert.Equal(t, StatusInvalid, <-statusCh)
	assert.Equal(t, "name already taken", field.GetError("unique"))
}

func TestAsyncValidatorPendingThenValid(t *testing.T) {
	field := NewField("fresh-name")

	statusCh := make(chan Status, 4)
	field.OnStatusChange(func(status Status) { statusCh <- status })

	release := make(chan Errors, 1)
	field.SetAsyncValidators(func(ctx context.Context, control Control) (Errors, error) {
		return <-release, nil
	})
	field.UpdateValueAndValidity()

	assert.Equal(t, StatusPending, <-statusCh)
	release <- nil
	assert.Equal(t, StatusValid, <-statusCh)
	assert.Nil(t, field.Errors())
}

func TestAsyncValidatorSkippedWhenSyncFails(t *testing.T) {
	ran := false
	field := NewField("",
		WithValidators(requiredValidator),
		WithAsyncValidators(func(ctx context.Context, control Control) (Errors, error) {
			ran = true
			return nil, nil
		}),
	)

	assert.Equal(t, StatusInvalid, field.Status())
	assert.False(t, ran, "async validation waits for the sync pass to succeed")
}

func TestAsyncValidatorErrorSurfacesAsCode(t *testing.T) {
	field := NewField("x")

	statusCh := make(chan Status, 4)
	field.OnStatusChange(func(status Status) { statusCh <- status })

	field.SetAsyncValidators(func(ctx context.Context, control Control) (Errors, error) {
		return nil, errors.New("registry unreachable")
	})
	field.UpdateValueAndValidity()

	assert.Equal(t, StatusPending, <-statusCh)
	assert.Equal(t, StatusInvalid, <-statusCh)
	assert.Equal(t, "registry unreachable", field.GetError("asyncValidation"))
}

func TestAsyncValidatorSupersededRunIsDiscarded(t *testing.T) {
	field := NewField("v")

	statusCh := make(chan Status, 8)
	field.OnStatusChange(func(status Status) { statusCh <- status })

	stale := make(chan Errors, 1)
	field.SetAsyncValidators(func(ctx context.Context, control Control) (Errors, error) {
		return <-stale, nil
	})
	field.UpdateValueAndValidity()
	require.Equal(t, StatusPending, <-statusCh)

	fresh := make(chan Errors, 1)
	field.SetAsyncValidators(func(ctx context.Context, control Control) (Errors, error) {
		return <-fresh, nil
	})
	field.UpdateValueAndValidity()
	require.Equal(t, StatusPending, <-statusCh)

	fresh <- nil
	require.Equal(t, StatusValid, <-statusCh)

	// The first run settles after the second already did; its result must
	// not overwrite the newer outcome.
	stale <- Errors{"stale": true}

	assert.Never(t, func() bool {
		select {
		case <-statusCh:
			return true
		default:
			return false
		}
	}, 100*time.Millisecond, 10*time.Millisecond, "stale async result must not emit")
	assert.Equal(t, StatusValid, field.Status())
	assert.False(t, field.HasError("stale"))
}

func TestAsyncValidatorPendingPropagatesToParent(t *testing.T) {
	field := NewField("x")
	group := NewGroup(map[string]Control{"name": field})

	groupStatus := make(chan Status, 4)
	group.OnStatusChange(func(status Status) { groupStatus <- status })

	release := make(chan Errors, 1)
	field.SetAsyncValidators(func(ctx context.Context, control Control) (Errors, error) {
		return <-release, nil
	})
	field.UpdateValueAndValidity()

	assert.Equal(t, StatusPending, group.Status())
	assert.Equal(t, StatusPending, <-groupStatus)

	release <- nil
	assert.Equal(t, StatusValid, <-groupStatus)
	assert.Equal(t, StatusValid, group.Status())
}

func TestAsyncValidatorCompletionDoesNotRaceCaller(t *testing.T) {
	field := NewField("seed")
	field.SetAsyncValidators(func(ctx context.Context, control Control) (Errors, error) {
		return nil, nil
	})

	// Re-trigger validation while completion goroutines from earlier runs
	// are still settling, and read state from a second goroutine; run with
	// -race to verify the async apply is synchronized.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = field.Errors()
			_ = field.Status()
			_ = field.Pending()
		}
	}()

	for i := 0; i < 200; i++ {
		field.UpdateValueAndValidity()
	}
	<-done

	require.Eventually(t, func() bool {
		return field.Status() == StatusValid
	}, time.Second, 5*time.Millisecond, "last async run must settle valid")
	assert.Nil(t, field.Errors())
}

func TestMarkAsPendingPropagates(t *testing.T) {
	field := NewField("x")
	group := NewGroup(map[string]Control{"name": field})

	field.MarkAsPending()

	assert.Equal(t, StatusPending, field.Status())
	assert.Equal(t, StatusPending, group.Status())
}
