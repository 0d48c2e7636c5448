package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testExecutor records sleeps instead of waiting.
func testExecutor(delays *[]time.Duration) *Executor {
	e := New()
	e.Sleep = func(d time.Duration) { *delays = append(*delays, d) }
	return e
}

func TestDoRetriesTransientUntilExhausted(t *testing.T) {
	var delays []time.Duration
	exec := testExecutor(&delays)

	attempts := 0
	failure := &StatusError{Status: 503, Body: "backend unavailable"}
	err := exec.Do(context.Background(), func() error {
		attempts++
		return failure
	})

	assert.Equal(t, 5, attempts)
	assert.Equal(t, []time.Duration{
		1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
	}, delays)
	var se *StatusError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, 503, se.Status)
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var delays []time.Duration
	exec := testExecutor(&delays)

	attempts := 0
	err := exec.Do(context.Background(), func() error {
		attempts++
		return &StatusError{Status: 404}
	})

	assert.Equal(t, 1, attempts)
	assert.Empty(t, delays)
	assert.Error(t, err)
}

func TestDoDoesNotRetryPlainErrors(t *testing.T) {
	var delays []time.Duration
	exec := testExecutor(&delays)

	attempts := 0
	err := exec.Do(context.Background(), func() error {
		attempts++
		return errors.New("boom")
	})

	assert.Equal(t, 1, attempts)
	assert.Empty(t, delays)
	assert.EqualError(t, err, "boom")
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	var delays []time.Duration
	exec := testExecutor(&delays)

	attempts := 0
	err := exec.Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return &StatusError{Status: 500}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, delays)
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	var delays []time.Duration
	exec := testExecutor(&delays)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := exec.Do(ctx, func() error {
		attempts++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, attempts)
}

func TestTransientClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "500", err: &StatusError{Status: 500}, want: true},
		{name: "503", err: &StatusError{Status: 503}, want: true},
		{name: "599", err: &StatusError{Status: 599}, want: true},
		{name: "400", err: &StatusError{Status: 400}, want: false},
		{name: "401", err: &StatusError{Status: 401}, want: false},
		{name: "wrapped 502", err: errors.Join(errors.New("call failed"), &StatusError{Status: 502}), want: true},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transient(tt.err); got != tt.want {
				t.Errorf("Transient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
