package booking

import (
	"fmt"
	"sync"
)

// State is the client-visible stage of one booking session.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateBooking    State = "booking"
	StateConfirmed  State = "confirmed"
	StateFailed     State = "failed"
	StateRetrying   State = "retrying"
)

// StateMachine tracks one booking session:
// idle → validating → booking → confirmed | failed, with
// failed → retrying → booking allowed until the attempt cap.
// confirmed and the cap are terminal.
type StateMachine struct {
	mu          sync.Mutex
	state       State
	attempts    int
	maxAttempts int
	failReason  string
}

func NewStateMachine(maxAttempts int) *StateMachine {
	return &StateMachine{state: StateIdle, maxAttempts: maxAttempts}
}

// RestoreStateMachine rebuilds a session's machine from a persisted
// attempt count. Zero prior attempts start idle; anything else resumes
// from failed, so the caller must Retry before validating again — which
// is where the cap binds across requests.
func RestoreStateMachine(maxAttempts, attempts int) *StateMachine {
	m := &StateMachine{state: StateIdle, maxAttempts: maxAttempts, attempts: attempts}
	if attempts > 0 {
		m.state = StateFailed
	}
	return m
}

func (m *StateMachine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *StateMachine) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

func (m *StateMachine) FailReason() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failReason
}

// BeginValidation moves idle (or retrying) into validating.
func (m *StateMachine) BeginValidation() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateIdle, StateRetrying:
		m.state = StateValidating
		return nil
	case StateBooking:
		return &BookingInProgressError{}
	case StateConfirmed:
		return fmt.Errorf("booking already confirmed")
	default:
		return fmt.Errorf("cannot validate from state %s", m.state)
	}
}

// BeginBooking moves validating into booking and counts the attempt.
// Entering booking while already booking is the duplicate-submit case.
func (m *StateMachine) BeginBooking() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateBooking {
		return &BookingInProgressError{}
	}
	if m.state != StateValidating {
		return fmt.Errorf("cannot book from state %s", m.state)
	}
	if m.attempts >= m.maxAttempts {
		m.state = StateFailed
		m.failReason = "attempt limit reached"
		return &MaxBookingsError{Limit: m.maxAttempts}
	}
	m.attempts++
	m.state = StateBooking
	return nil
}

// Confirm moves booking into the terminal confirmed state.
func (m *StateMachine) Confirm() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateBooking {
		return fmt.Errorf("cannot confirm from state %s", m.state)
	}
	m.state = StateConfirmed
	return nil
}

// Fail records the failure reason from validating or booking.
func (m *StateMachine) Fail(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateConfirmed {
		return
	}
	m.state = StateFailed
	m.failReason = reason
}

// Retry moves failed into retrying, unless the cap is reached.
func (m *StateMachine) Retry() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateFailed {
		return fmt.Errorf("cannot retry from state %s", m.state)
	}
	if m.attempts >= m.maxAttempts {
		return &MaxBookingsError{Limit: m.maxAttempts}
	}
	m.state = StateRetrying
	return nil
}
