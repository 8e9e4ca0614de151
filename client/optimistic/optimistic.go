// Package optimistic applies a state change before the server confirms it
// and reconciles afterwards: the server's answer replaces the guess, and a
// failed or unrecognised answer restores the snapshot taken before the change.
package optimistic

import (
	"context"
	"errors"
	"sync"
)

// Phase is where a Machine is in its last transition.
type Phase int

const (
	Idle Phase = iota
	Pending
	Confirmed
	RolledBack
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled-back"
	}
	return "unknown"
}

var (
	// ErrInFlight is returned by Run while another transition is pending,
	// and by Patch while a Run is pending.
	ErrInFlight = errors.New("optimistic: update already in flight")
	// ErrRejected is returned when Confirm does not recognise the response.
	ErrRejected = errors.New("optimistic: server response not recognised")
)

// Op describes one optimistic transition over state S with server response R.
type Op[S, R any] struct {
	// Apply returns the optimistic guess.
	Apply func(S) S
	// Send performs the request.
	Send func(context.Context) (R, error)
	// Confirm derives the authoritative state from the pre-change snapshot
	// and the response. ok=false rolls back.
	Confirm func(snapshot S, resp R) (next S, ok bool)
}

// Patch is an optimistic transition that does not own the whole state.
// Confirm and Revert are applied to the state as it is when the response
// arrives, so several patches can be pending at once.
type Patch[S, R any] struct {
	Apply   func(S) S
	Send    func(context.Context) (R, error)
	Confirm func(current S, resp R) (next S, ok bool)
	Revert  func(current S) S
}

// Machine holds state S and serialises optimistic transitions on it.
type Machine[S any] struct {
	mu        sync.Mutex
	state     S
	phase     Phase
	inflight  int
	exclusive bool
	observers []func(S, Phase)
}

func New[S any](initial S) *Machine[S] {
	return &Machine[S]{state: initial}
}

// State returns the current state and phase.
func (m *Machine[S]) State() (S, Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.phase
}

// Set replaces the state outside of a transition, e.g. when fresh server
// data arrives. It fails with ErrInFlight while a transition is pending.
func (m *Machine[S]) Set(s S) error {
	m.mu.Lock()
	if m.inflight > 0 {
		m.mu.Unlock()
		return ErrInFlight
	}
	m.state = s
	m.phase = Idle
	m.mu.Unlock()
	m.notify(s, Idle)
	return nil
}

// OnChange registers fn to be called after every state change.
func (m *Machine[S]) OnChange(fn func(S, Phase)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *Machine[S]) notify(s S, p Phase) {
	m.mu.Lock()
	obs := append([]func(S, Phase){}, m.observers...)
	m.mu.Unlock()
	for _, fn := range obs {
		fn(s, p)
	}
}

func (m *Machine[S]) settle(s S, p Phase) {
	m.mu.Lock()
	m.state = s
	m.phase = p
	m.inflight = 0
	m.exclusive = false
	m.mu.Unlock()
	m.notify(s, p)
}

// Run performs op on m. It returns the settled state. A send error or an
// unrecognised response restores the snapshot and returns an error.
func Run[S, R any](ctx context.Context, m *Machine[S], op Op[S, R]) (S, error) {
	m.mu.Lock()
	if m.inflight > 0 {
		s := m.state
		m.mu.Unlock()
		return s, ErrInFlight
	}
	snapshot := m.state
	guess := op.Apply(snapshot)
	m.state = guess
	m.phase = Pending
	m.inflight = 1
	m.exclusive = true
	m.mu.Unlock()
	m.notify(guess, Pending)

	resp, err := op.Send(ctx)
	if err != nil {
		m.settle(snapshot, RolledBack)
		return snapshot, err
	}
	next, ok := op.Confirm(snapshot, resp)
	if !ok {
		m.settle(snapshot, RolledBack)
		return snapshot, ErrRejected
	}
	m.settle(next, Confirmed)
	return next, nil
}

// RunPatch performs p on m. Unlike Run it may overlap other patches; it
// only fails with ErrInFlight while a Run is pending. The phase stays
// Pending until the last patch settles.
func RunPatch[S, R any](ctx context.Context, m *Machine[S], p Patch[S, R]) (S, error) {
	m.mu.Lock()
	if m.exclusive {
		s := m.state
		m.mu.Unlock()
		return s, ErrInFlight
	}
	guess := p.Apply(m.state)
	m.state = guess
	m.phase = Pending
	m.inflight++
	m.mu.Unlock()
	m.notify(guess, Pending)

	resp, err := p.Send(ctx)

	m.mu.Lock()
	var ok bool
	if err == nil {
		var next S
		if next, ok = p.Confirm(m.state, resp); ok {
			m.state = next
		} else {
			err = ErrRejected
		}
	}
	if err != nil {
		m.state = p.Revert(m.state)
	}
	m.inflight--
	switch {
	case m.inflight > 0:
		m.phase = Pending
	case ok:
		m.phase = Confirmed
	default:
		m.phase = RolledBack
	}
	s, phase := m.state, m.phase
	m.mu.Unlock()
	m.notify(s, phase)
	return s, err
}
