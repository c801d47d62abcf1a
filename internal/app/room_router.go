package app

import (
	"sort"
	"sync"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomRouter is a threadsafe in-memory room -> subscribers index.
// It never closes adapter-owned resources.
type RoomRouter struct {
	mu    sync.RWMutex
	rooms map[domain.RoomKey]map[core.SessionID]struct{}
	bySID map[core.SessionID]map[domain.RoomKey]struct{}
}

func NewRoomRouter() *RoomRouter {
	return &RoomRouter{
		rooms: make(map[domain.RoomKey]map[core.SessionID]struct{}),
		bySID: make(map[core.SessionID]map[domain.RoomKey]struct{}),
	}
}

var _ core.RoomRouter = (*RoomRouter)(nil)

// Join is idempotent and reports whether sid was newly added.
func (r *RoomRouter) Join(sid core.SessionID, room domain.RoomKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[core.SessionID]struct{})
		r.rooms[room] = members
	}
	if _, ok := members[sid]; ok {
		return false
	}
	members[sid] = struct{}{}

	joined, ok := r.bySID[sid]
	if !ok {
		joined = make(map[domain.RoomKey]struct{})
		r.bySID[sid] = joined
	}
	joined[room] = struct{}{}
	log.Info().Str("module", "app.rooms").Str("sid", string(sid)).Str("room", string(room)).Msg("member added")
	return true
}

func (r *RoomRouter) Leave(sid core.SessionID, room domain.RoomKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.removeLocked(sid, room) {
		return false
	}
	if joined := r.bySID[sid]; len(joined) == 0 {
		delete(r.bySID, sid)
	}
	log.Info().Str("module", "app.rooms").Str("sid", string(sid)).Str("room", string(room)).Msg("member removed")
	return true
}

// LeaveAll drops every membership of sid and returns the rooms it left.
func (r *RoomRouter) LeaveAll(sid core.SessionID) []domain.RoomKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	joined := r.bySID[sid]
	left := make([]domain.RoomKey, 0, len(joined))
	for room := range joined {
		r.removeLocked(sid, room)
		left = append(left, room)
	}
	delete(r.bySID, sid)
	if len(left) > 0 {
		log.Info().Str("module", "app.rooms").Str("sid", string(sid)).Int("rooms", len(left)).Msg("member removed from all rooms")
	}
	return left
}

func (r *RoomRouter) Subscribers(room domain.RoomKey) []core.SessionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.rooms[room]
	out := make([]core.SessionID, 0, len(members))
	for sid := range members {
		out = append(out, sid)
	}
	return out
}

// RoomsOf lists the rooms of sid in key order.
func (r *RoomRouter) RoomsOf(sid core.SessionID) []domain.RoomKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	joined := r.bySID[sid]
	out := make([]domain.RoomKey, 0, len(joined))
	for room := range joined {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *RoomRouter) List() []domain.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RoomInfo, 0, len(r.rooms))
	for key, members := range r.rooms {
		out = append(out, domain.RoomInfo{Key: key, MemberCount: len(members)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// removeLocked drops an empty room entirely; rooms carry no state of their own.
func (r *RoomRouter) removeLocked(sid core.SessionID, room domain.RoomKey) bool {
	members, ok := r.rooms[room]
	if !ok {
		return false
	}
	if _, ok := members[sid]; !ok {
		return false
	}
	delete(members, sid)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
	delete(r.bySID[sid], room)
	return true
}
