package core

import (
	"sync"
	"sync/atomic"

	"github.com/dkeye/Parley/internal/domain"
)

// memberSession implements MemberSession by pairing identity + transport.
type memberSession struct {
	id     SessionID
	signal SignalConnection
	state  atomic.Int32 // Zero by default (StateConnecting)

	mu       sync.RWMutex
	identity *domain.Identity
}

func NewMemberSession(id SessionID, signal SignalConnection) MemberSession {
	return &memberSession{id: id, signal: signal}
}

func (m *memberSession) ID() SessionID            { return m.id }
func (m *memberSession) Signal() SignalConnection { return m.signal }
func (m *memberSession) State() SessionState      { return SessionState(m.state.Load()) }

func (m *memberSession) Identity() (domain.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return domain.Identity{}, false
	}
	return *m.identity, true
}

func (m *memberSession) Bind(ident domain.Identity) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity != nil {
		return false
	}
	m.identity = &ident
	return true
}

func (m *memberSession) Open() bool {
	return m.state.CompareAndSwap(int32(StateConnecting), int32(StateOpen))
}

func (m *memberSession) Close() bool {
	return SessionState(m.state.Swap(int32(StateClosed))) != StateClosed
}
