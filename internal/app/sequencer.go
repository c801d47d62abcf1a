package app

import (
	"sync"

	"github.com/dkeye/Parley/internal/domain"
)

// RoomSequencer hands out one mutex per room key so that mutating events
// addressed to the same room run to completion one at a time.
// Entries are reference counted and dropped when nobody holds or waits on them.
type RoomSequencer struct {
	mu    sync.Mutex
	rooms map[domain.RoomKey]*roomSlot
}

type roomSlot struct {
	mu   sync.Mutex
	refs int
}

func NewRoomSequencer() *RoomSequencer {
	return &RoomSequencer{rooms: make(map[domain.RoomKey]*roomSlot)}
}

// Lock blocks until room is free and returns its unlock func.
func (s *RoomSequencer) Lock(room domain.RoomKey) (unlock func()) {
	s.mu.Lock()
	slot, ok := s.rooms[room]
	if !ok {
		slot = &roomSlot{}
		s.rooms[room] = slot
	}
	slot.refs++
	s.mu.Unlock()

	slot.mu.Lock()
	return func() {
		slot.mu.Unlock()
		s.mu.Lock()
		slot.refs--
		if slot.refs == 0 {
			delete(s.rooms, room)
		}
		s.mu.Unlock()
	}
}

func (s *RoomSequencer) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
