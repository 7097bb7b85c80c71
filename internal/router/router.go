// Package router picks the top-level screen from the session state.
package router

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lcconsultores/ticketera/pkg/domain"
)

// State is the router's authentication state.
type State int

const (
	Loading State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Event drives state transitions.
type Event int

const (
	// Hydrated fires once the session store has finished loading.
	Hydrated Event = iota
	LoginSucceeded
	LoggedOut
)

func (e Event) String() string {
	switch e {
	case Hydrated:
		return "hydrated"
	case LoginSucceeded:
		return "login-succeeded"
	case LoggedOut:
		return "logged-out"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// ErrInvalidTransition is returned for an event the current state does not accept.
var ErrInvalidTransition = errors.New("router: invalid transition")

// transition resolves the next state. Hydrated depends on whether the
// hydrated session carries a token.
type transition func(s domain.Session) State

var table = map[State]map[Event]transition{
	Loading: {
		Hydrated: func(s domain.Session) State {
			if s.Authenticated() {
				return Authenticated
			}
			return Unauthenticated
		},
	},
	Unauthenticated: {
		LoginSucceeded: func(domain.Session) State { return Authenticated },
	},
	Authenticated: {
		LoggedOut: func(domain.Session) State { return Unauthenticated },
	},
}

// Next returns the state after ev given the current session. An event the
// state does not accept returns ErrInvalidTransition and the unchanged state.
func Next(cur State, ev Event, s domain.Session) (State, error) {
	t, ok := table[cur][ev]
	if !ok {
		return cur, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, cur)
	}
	return t(s), nil
}

// Screen is a top-level view.
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenLogin
	ScreenUser
	ScreenAdmin
)

func (s Screen) String() string {
	switch s {
	case ScreenLoading:
		return "loading"
	case ScreenLogin:
		return "login"
	case ScreenUser:
		return "user"
	case ScreenAdmin:
		return "admin"
	}
	return fmt.Sprintf("Screen(%d)", int(s))
}

// ScreenFor maps a state and the current user to a screen. Staff see the
// administrative screen, everyone else the standard one.
func ScreenFor(st State, user *domain.UserProfile) Screen {
	switch st {
	case Unauthenticated:
		return ScreenLogin
	case Authenticated:
		if user.IsStaff() {
			return ScreenAdmin
		}
		return ScreenUser
	}
	return ScreenLoading
}

// Router tracks the current state. It is safe for concurrent use.
type Router struct {
	mu    sync.Mutex
	state State
}

// New returns a router in the Loading state.
func New() *Router {
	return &Router{state: Loading}
}

// State returns the current state.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Fire applies ev and returns the new state.
func (r *Router) Fire(ev Event, s domain.Session) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := Next(r.state, ev, s)
	if err != nil {
		return r.state, err
	}
	r.state = next
	return next, nil
}

// Screen evaluates the screen for the current state and user.
func (r *Router) Screen(user *domain.UserProfile) Screen {
	return ScreenFor(r.State(), user)
}
