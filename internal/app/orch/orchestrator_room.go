package orch

import (
	"context"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
)

// Join subscribes sess to room. History is not part of joining; Dispatch
// follows a join with History for the joiner only.
func (o *Orchestrator) Join(sess core.MemberSession, room domain.RoomKey) {
	o.Rooms.Join(sess.ID(), room)
	// Lost the race with Disconnect: undo so no ghost membership survives.
	if sess.State() == core.StateClosed {
		o.Rooms.Leave(sess.ID(), room)
	}
}

func (o *Orchestrator) Leave(sess core.MemberSession, room domain.RoomKey) {
	o.Rooms.Leave(sess.ID(), room)
	o.send(sess, core.RoomFrame{Type: core.EventLeft, Room: room})
}

// History sends the stored messages of room to sess alone.
func (o *Orchestrator) History(ctx context.Context, sess core.MemberSession, room domain.RoomKey) error {
	msgs, err := o.Store.ListByRoom(ctx, room)
	if err != nil {
		return err
	}
	o.send(sess, core.NewHistory(room, msgs))
	return nil
}

func (o *Orchestrator) WhoAmI(sess core.MemberSession) {
	resp := core.WhoAmIFrame{
		Type:  core.EventWhoAmI,
		SID:   sess.ID(),
		Rooms: o.Rooms.RoomsOf(sess.ID()),
	}
	if ident, ok := sess.Identity(); ok {
		resp.UserID = ident.UserID
		resp.DisplayName = ident.DisplayName
	}
	o.send(sess, resp)
}
