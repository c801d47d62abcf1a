package orch

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
	"github.com/rs/zerolog/log"
)

var errIncompleteIdentity = fmt.Errorf("%w: userId and displayName are required", domain.ErrValidation)

// Register binds ident to sess and broadcasts the new online set to every
// open session. A connection registers once; a repeat with the same identity
// is a no-op and a different identity is refused.
func (o *Orchestrator) Register(sess core.MemberSession, ident domain.Identity) error {
	if !ident.Valid() {
		return errIncompleteIdentity
	}

	o.presenceMu.Lock()
	defer o.presenceMu.Unlock()

	if sess.State() != core.StateOpen {
		return ErrSessionClosed
	}
	if !sess.Bind(ident) {
		if cur, _ := sess.Identity(); cur == ident {
			return nil
		}
		return ErrAlreadyRegistered
	}
	snapshot, ok := o.Registry.Register(sess.ID(), ident)
	if !ok {
		return errIncompleteIdentity
	}
	o.broadcastPresence(snapshot)
	return nil
}

// Disconnect tears sess down. Only the first call does anything.
func (o *Orchestrator) Disconnect(sess core.MemberSession) bool {
	if !sess.Close() {
		return false
	}
	left := o.Rooms.LeaveAll(sess.ID())

	o.presenceMu.Lock()
	defer o.presenceMu.Unlock()
	snapshot := o.Registry.Unregister(sess.ID())
	o.broadcastPresence(snapshot)

	log.Info().Str("module", "orch").Str("sid", string(sess.ID())).Int("rooms_left", len(left)).Msg("session closed")
	return true
}

// OnlineUsers is the current presence snapshot for fresh joiners.
func (o *Orchestrator) OnlineUsers() []domain.Identity {
	return o.Registry.Snapshot()
}

// broadcastPresence must run under presenceMu so snapshots go out in the
// order they were taken.
func (o *Orchestrator) broadcastPresence(snapshot []domain.Identity) {
	frame, err := json.Marshal(core.NewOnlineUsers(snapshot))
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal presence")
		return
	}
	sent := 0
	for _, sess := range o.Registry.Sessions() {
		if o.deliver("", sess, frame) {
			sent++
		}
	}
	log.Debug().Str("module", "orch").Int("online", len(snapshot)).Int("sent_to", sent).Msg("presence broadcast")
}
