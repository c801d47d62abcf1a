package domain

// PresenceEntry is one live connection's claim to be online.
// A user with two tabs owns two entries.
type PresenceEntry struct {
	ConnectionID string `json:"connectionId"`
	Identity
}
