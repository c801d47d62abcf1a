package orch

import (
	"context"
	"encoding/json"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
	"github.com/rs/zerolog/log"
)

// Every mutating path persists first and fans out only on success. The room
// is held for the whole persist+fan-out so subscribers observe commits in
// store order; the store's own locks are never held across the fan-out.

func (o *Orchestrator) Send(ctx context.Context, text, sender string, room domain.RoomKey) (*domain.Message, error) {
	unlock := o.Seq.Lock(room)
	defer unlock()

	msg, err := o.Store.Append(ctx, text, sender, room)
	if err != nil {
		return nil, err
	}
	o.fanOut(msg.Room, core.MessageFrame{Type: core.EventReceiveMessage, Message: msg})
	return msg, nil
}

// Edit fans out to the stored message's room; roomHint is what the client
// believed and is only logged when it disagrees.
func (o *Orchestrator) Edit(ctx context.Context, id domain.MessageID, text string, roomHint domain.RoomKey) (*domain.Message, error) {
	cur, err := o.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if roomHint != "" && roomHint != cur.Room {
		log.Debug().Str("module", "orch").Str("msg_id", string(id)).
			Str("room", string(cur.Room)).Str("hint", string(roomHint)).Msg("edit room mismatch")
	}

	unlock := o.Seq.Lock(cur.Room)
	defer unlock()

	updated, err := o.Store.Update(ctx, id, text)
	if err != nil {
		return nil, err
	}
	o.fanOut(updated.Room, core.MessageFrame{Type: core.EventMessageUpdated, Message: updated})
	return updated, nil
}

// Delete routes the notice by the removed message's own room.
func (o *Orchestrator) Delete(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	cur, err := o.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := o.Seq.Lock(cur.Room)
	defer unlock()

	removed, err := o.Store.Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	o.fanOut(removed.Room, core.MessageDeletedFrame{Type: core.EventMessageDeleted, ID: removed.ID, Room: removed.Room})
	return removed, nil
}

// fanOut delivers v to the subscribers of room as read right now.
func (o *Orchestrator) fanOut(room domain.RoomKey, v any) int {
	frame, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(room)).Msg("marshal fan-out")
		return 0
	}
	subs := o.Rooms.Subscribers(room)
	sent := 0
	for _, sid := range subs {
		sess, ok := o.Registry.GetSession(sid)
		if !ok {
			continue
		}
		if o.deliver(room, sess, frame) {
			sent++
		}
	}
	log.Debug().Str("module", "orch").Str("room", string(room)).
		Int("subscribers", len(subs)).Int("sent_to", sent).Msg("fan-out")
	return sent
}
