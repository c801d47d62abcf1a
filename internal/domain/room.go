package domain

import (
	"sort"
	"strings"
)

type RoomKey string

// GlobalRoom is open to every registered connection.
const GlobalRoom RoomKey = "global"

const peerSeparator = "_"

// PeerRoom derives the canonical key of the pairwise room of a and b.
// Both participants compute the same key regardless of who initiates.
func PeerRoom(a, b UserID) RoomKey {
	pair := []string{string(a), string(b)}
	sort.Strings(pair)
	return RoomKey(strings.Join(pair, peerSeparator))
}

type RoomInfo struct {
	Key         RoomKey `json:"room"`
	MemberCount int     `json:"client_count"`
}
