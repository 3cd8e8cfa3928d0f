package clients

import (
	"sync"
	"time"
)

// State is the position of the breaker guarding the LMS.
type State int

// Breaker states.
const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// String returns a human-readable name for the state.
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

// Breaker fails calls fast after the LMS has produced MaxFailures consecutive
// retry-exhausted failures (transport errors or 5xx). After Cooldown it lets
// probe calls through one at a time; ProbeSuccesses consecutive successes
// close it again and any probe failure reopens it.
type Breaker struct {
	mu       sync.Mutex
	state    State
	failures int
	probes   int
	probing  bool
	openedAt time.Time

	maxFailures    int
	cooldown       time.Duration
	probeSuccesses int

	onChange func(from, to State)
	now      func() time.Time
}

// newBreaker returns nil when maxFailures is not positive, which disables the breaker.
func newBreaker(maxFailures int, cooldown time.Duration, probeSuccesses int, onChange func(from, to State)) *Breaker {
	if maxFailures <= 0 {
		return nil
	}

	if probeSuccesses <= 0 {
		probeSuccesses = 1
	}

	return &Breaker{
		maxFailures:    maxFailures,
		cooldown:       cooldown,
		probeSuccesses: probeSuccesses,
		onChange:       onChange,
		now:            time.Now,
	}
}

// Allow returns ErrCircuitOpen when the call must not reach the network.
func (b *Breaker) Allow() error {
	b.mu.Lock()

	var from State
	changed := false

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			b.mu.Unlock()
			return ErrCircuitOpen
		}

		from, changed = b.state, true
		b.state = StateHalfOpen
		b.probes = 0
		b.probing = true
	case StateHalfOpen:
		if b.probing {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		b.probing = true
	}

	b.mu.Unlock()

	if changed {
		b.notify(from, StateHalfOpen)
	}

	return nil
}

// Record feeds the outcome of an allowed call back into the breaker.
func (b *Breaker) Record(failed bool) {
	b.mu.Lock()

	from := b.state
	to := from

	switch b.state {
	case StateClosed:
		if !failed {
			b.failures = 0
			break
		}

		b.failures++
		if b.failures >= b.maxFailures {
			to = StateOpen
		}
	case StateHalfOpen:
		b.probing = false
		if failed {
			to = StateOpen
			break
		}

		b.probes++
		if b.probes >= b.probeSuccesses {
			to = StateClosed
		}
	}

	if to != from {
		b.state = to
		b.failures = 0
		b.probes = 0
		if to == StateOpen {
			b.openedAt = b.now()
		}
	}

	b.mu.Unlock()

	if to != from {
		b.notify(from, to)
	}
}

// Release frees a half-open probe slot without counting an outcome. Do calls
// it when the caller's context ended the call.
func (b *Breaker) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.probing = false
	}
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

func (b *Breaker) notify(from, to State) {
	if b.onChange != nil {
		b.onChange(from, to)
	}
}
