// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// BreakerState is the state of a Breaker.
type BreakerState int

const (
	StateClosed   BreakerState = iota // calls pass through
	StateOpen                         // calls are rejected until the cooldown ends
	StateHalfOpen                     // one trial call is in flight
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return fmt.Sprintf("BreakerState(%d)", int(s))
	}
}

// ErrOpen is matched by every error a Breaker returns instead of calling through.
var ErrOpen = errors.New("circuit breaker open")

// OpenError reports a rejected call.
type OpenError struct {
	Name    string
	RetryIn time.Duration // zero while a trial call is in flight
}

func (e *OpenError) Error() string {
	if e.RetryIn <= 0 {
		return fmt.Sprintf("%s: %v, trial call in progress", e.Name, ErrOpen)
	}
	return fmt.Sprintf("%s: %v, next trial in %s", e.Name, ErrOpen, e.RetryIn.Round(time.Millisecond))
}

func (e *OpenError) Is(target error) bool {
	return target == ErrOpen
}

// BreakerConfig configures a Breaker.
type BreakerConfig struct {
	Name             string
	FailureThreshold int           // consecutive failures that open the breaker
	Cooldown         time.Duration // time spent open before a trial call
	IsFailure        func(error) bool
	OnStateChange    func(name string, from, to BreakerState)
}

// DefaultBreakerConfig counts only retryable errors as failures: a rejected
// request says nothing about the health of the service behind it.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		IsFailure:        IsRetryable,
	}
}

// BreakerStats is a snapshot of a Breaker.
type BreakerStats struct {
	Name                string       `json:"name"`
	State               BreakerState `json:"-"`
	StateName           string       `json:"state"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
	Rejected            int          `json:"rejected"`
	OpenedAt            time.Time    `json:"opened_at"`
}

// Breaker stops calling a failing service for a cooldown period, then lets a
// single trial call decide whether to close again. It is safe for concurrent use.
type Breaker struct {
	cfg BreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    BreakerState
	failures int
	rejected int
	openedAt time.Time
}

// NewBreaker creates a closed breaker. Unset fields take the defaults.
func NewBreaker(cfg BreakerConfig) *Breaker {
	defaults := DefaultBreakerConfig(cfg.Name)
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaults.Cooldown
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = defaults.IsFailure
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// Execute calls fn unless the breaker is open. A rejected call returns an
// *OpenError without invoking fn.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := b.admit(); err != nil {
		return err
	}
	err := fn(ctx)
	b.record(err)
	return err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if wait := b.cfg.Cooldown - b.now().Sub(b.openedAt); wait > 0 {
			b.rejected++
			return &OpenError{Name: b.cfg.Name, RetryIn: wait}
		}
		b.transition(StateHalfOpen)
	case StateHalfOpen:
		b.rejected++
		return &OpenError{Name: b.cfg.Name}
	}
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil || !b.cfg.IsFailure(err) {
		b.failures = 0
		if b.state != StateClosed {
			b.transition(StateClosed)
		}
		return
	}

	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.cfg.FailureThreshold {
		b.openedAt = b.now()
		b.transition(StateOpen)
	}
}

// transition must be called with mu held.
func (b *Breaker) transition(to BreakerState) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Name, from, to)
	}
}

// State returns the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Stats returns a snapshot for diagnostics.
func (b *Breaker) Stats() BreakerStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BreakerStats{
		Name:                b.cfg.Name,
		State:               b.state,
		StateName:           b.state.String(),
		ConsecutiveFailures: b.failures,
		Rejected:            b.rejected,
		OpenedAt:            b.openedAt,
	}
}
