package clients

import (
	"sync"
	"time"

	"github.com/jsamuelsen/questboard/internal/platform/config"
)

// State is the circuit breaker's position.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota

	// StateOpen rejects requests until the cool-down elapses.
	StateOpen

	// StateHalfOpen lets a limited number of probes through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker stops calling the backend after repeated failures.
//
//   - Closed -> Open after MaxFailures consecutive failures
//   - Open -> HalfOpen once Timeout has passed since the last failure
//   - HalfOpen -> Closed after HalfOpenLimit consecutive successes
//   - HalfOpen -> Open on any failure
//
// Only no-response failures and 5xx answers count as failures; a 404 means
// the backend is healthy.
type CircuitBreaker struct {
	mu        sync.Mutex
	cfg       config.CircuitBreakerConfig
	state     State
	failures  int
	successes int
	probes    int
	openedAt  time.Time

	onChange func(from, to State)
	now      func() time.Time
}

// NewCircuitBreaker returns a closed breaker.
func NewCircuitBreaker(cfg config.CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures < 1 {
		cfg.MaxFailures = 1
	}

	if cfg.HalfOpenLimit < 1 {
		cfg.HalfOpenLimit = 1
	}

	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn to run after each transition. fn runs outside
// the breaker's lock, on the goroutine that caused the transition.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.onChange = fn
}

// Allow reports whether a request may proceed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	var (
		allowed bool
		changed func()
	)

	switch cb.state {
	case StateClosed:
		allowed = true
	case StateOpen:
		if cb.now().Sub(cb.openedAt) >= cb.cfg.Timeout {
			changed = cb.transition(StateHalfOpen)
			cb.probes = 1
			allowed = true
		}
	case StateHalfOpen:
		if cb.probes < cb.cfg.HalfOpenLimit {
			cb.probes++
			allowed = true
		}
	}

	cb.mu.Unlock()
	notify(changed)

	return allowed
}

// RecordSuccess notes a healthy response.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	var changed func()

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.probes = max(cb.probes-1, 0)
		cb.successes++
		if cb.successes >= cb.cfg.HalfOpenLimit {
			changed = cb.transition(StateClosed)
		}
	}

	cb.mu.Unlock()
	notify(changed)
}

// RecordFailure notes a failed call.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	var changed func()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			changed = cb.transition(StateOpen)
		}
	case StateHalfOpen:
		changed = cb.transition(StateOpen)
	case StateOpen:
		cb.openedAt = cb.now()
	}

	cb.mu.Unlock()
	notify(changed)
}

// State returns the current position.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// transition must be called with the lock held. It returns the pending
// callback invocation, if any.
func (cb *CircuitBreaker) transition(to State) func() {
	from := cb.state
	if from == to {
		return nil
	}

	cb.state = to
	cb.failures = 0
	cb.successes = 0

	switch to {
	case StateOpen:
		cb.openedAt = cb.now()
		cb.probes = 0
	case StateClosed:
		cb.probes = 0
	}

	if cb.onChange == nil {
		return nil
	}

	fn := cb.onChange

	return func() { fn(from, to) }
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
