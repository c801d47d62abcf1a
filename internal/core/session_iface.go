package core

import "github.com/dkeye/Parley/internal/domain"

// SessionID is the per-transport-connection identifier. It is never reused.
type SessionID string

type SessionState int32

const (
	StateConnecting SessionState = iota
	StateOpen
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// MemberSession binds one transport connection to the identity it registered.
// This is what the registry stores and rooms fan out to.
type MemberSession interface {
	ID() SessionID
	Signal() SignalConnection
	State() SessionState

	// Identity reports the registered identity, if any.
	Identity() (domain.Identity, bool)
	// Bind sets the identity exactly once; later calls report false.
	Bind(domain.Identity) bool

	// Open moves Connecting -> Open.
	Open() bool
	// Close moves any state to Closed and reports whether this call did it.
	Close() bool
}
