package app

import (
	"sync"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry tracks every open connection and the identity each one registered.
// Presence is per connection: a user with two tabs appears twice.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]core.MemberSession
	presence map[core.SessionID]domain.Identity
	order    []core.SessionID // registration order of presence
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]core.MemberSession),
		presence: make(map[core.SessionID]domain.Identity),
	}
}

// BindSession makes sess reachable for presence broadcasts.
func (r *Registry) BindSession(sess core.MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID()] = sess
	log.Debug().Str("module", "app.registry").Str("sid", string(sess.ID())).Msg("bound session")
}

func (r *Registry) GetSession(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sid]
	return s, ok
}

// Sessions is a snapshot of every bound session.
func (r *Registry) Sessions() []core.MemberSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.MemberSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Register records ident for sid and returns the resulting snapshot.
// An identity with empty fields is ignored and reported with ok=false.
func (r *Registry) Register(sid core.SessionID, ident domain.Identity) (snapshot []domain.Identity, ok bool) {
	if !ident.Valid() {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.presence[sid]; !exists {
		r.order = append(r.order, sid)
	}
	r.presence[sid] = ident
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).
		Str("user", string(ident.UserID)).Str("name", ident.DisplayName).Msg("registered")
	return r.snapshotLocked(), true
}

// Unregister drops both the presence entry and the session binding of sid.
// Unknown sids are a no-op. Returns the resulting snapshot.
func (r *Registry) Unregister(sid core.SessionID) []domain.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	if _, ok := r.presence[sid]; ok {
		delete(r.presence, sid)
		for i, s := range r.order {
			if s == sid {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unregistered")
	}
	return r.snapshotLocked()
}

func (r *Registry) Snapshot() []domain.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Entries is the snapshot with connection ids attached.
func (r *Registry) Entries() []domain.PresenceEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.PresenceEntry, 0, len(r.order))
	for _, sid := range r.order {
		out = append(out, domain.PresenceEntry{ConnectionID: string(sid), Identity: r.presence[sid]})
	}
	return out
}

func (r *Registry) IdentityOf(sid core.SessionID) (domain.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ident, ok := r.presence[sid]
	return ident, ok
}

func (r *Registry) snapshotLocked() []domain.Identity {
	out := make([]domain.Identity, 0, len(r.order))
	for _, sid := range r.order {
		out = append(out, r.presence[sid])
	}
	return out
}
