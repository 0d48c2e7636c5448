// Package retry provides bounded exponential backoff for transient
// remote failures.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Defaults matching the tabular store's rate-limit behavior: five total
// attempts with waits of 1, 2, 4, 8 seconds between them.
const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 1 * time.Second
	DefaultMaxDelay    = 8 * time.Second
)

// StatusError is a remote call failure carrying the HTTP status
// returned by the service.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote returned status %d", e.Status)
	}
	return fmt.Sprintf("remote returned status %d: %s", e.Status, e.Body)
}

// Transient reports whether err is a server-side failure worth
// retrying. Client errors (4xx, auth, malformed requests) are not.
func Transient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status >= 500 && se.Status < 600
	}
	return false
}

// Executor retries an operation with doubling, capped delays. The
// Sleep field exists so tests can observe waits without waiting.
type Executor struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Sleep       func(time.Duration)
}

// New returns an Executor with the default policy.
func New() *Executor {
	return &Executor{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
		Sleep:       time.Sleep,
	}
}

// Do invokes fn, retrying transient failures up to MaxAttempts total
// attempts. Non-transient errors propagate immediately; once attempts
// are exhausted the last observed error is returned.
func (e *Executor) Do(ctx context.Context, fn func() error) error {
	attempts := e.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	delay := e.BaseDelay
	if delay <= 0 {
		delay = DefaultBaseDelay
	}
	maxDelay := e.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}
	sleep := e.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var last error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn()
		if err == nil {
			return nil
		}
		if !Transient(err) {
			return err
		}
		last = err
		if attempt < attempts-1 {
			sleep(delay)
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}
		}
	}
	return last
}
