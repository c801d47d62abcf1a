package core

import "github.com/dkeye/Parley/internal/domain"

// RoomRouter owns the transient room -> subscribers mapping.
// Every method is atomic on its own; none of them touches transport resources.
type RoomRouter interface {
	Join(sid SessionID, room domain.RoomKey) bool
	Leave(sid SessionID, room domain.RoomKey) bool
	LeaveAll(sid SessionID) []domain.RoomKey

	// Subscribers is the fan-out target set as of the call. Unknown rooms are empty.
	Subscribers(room domain.RoomKey) []SessionID
	RoomsOf(sid SessionID) []domain.RoomKey
	List() []domain.RoomInfo
}
