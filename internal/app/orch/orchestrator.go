package orch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dkeye/Parley/internal/app"
	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrSessionClosed     = errors.New("session closed")
	ErrAlreadyRegistered = fmt.Errorf("%w: connection already registered", domain.ErrProtocol)
)

// Orchestrator sits between transport sessions and the shared presence,
// room and message state. Every shared structure is locked per operation;
// the orchestrator itself only serializes presence broadcasts and, through
// Seq, mutating events addressed to the same room.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomRouter
	Store    core.MessageStore
	Policy   app.Policy
	Seq      *app.RoomSequencer

	presenceMu sync.Mutex
}

func New(reg *app.Registry, rooms core.RoomRouter, store core.MessageStore, policy app.Policy) *Orchestrator {
	if policy == nil {
		policy = app.SimplePolicy{Action: app.DropFrame}
	}
	return &Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Store:    store,
		Policy:   policy,
		Seq:      app.NewRoomSequencer(),
	}
}

// Connect wraps a freshly accepted transport connection in an open session.
func (o *Orchestrator) Connect(sid core.SessionID, signal core.SignalConnection) core.MemberSession {
	sess := core.NewMemberSession(sid, signal)
	o.Registry.BindSession(sess)
	sess.Open()
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("session open")
	return sess
}

// Dispatch runs one inbound event of sess to completion. Failures are logged
// here and, for persistence failures only, reported back to sess; the
// returned error is informational.
func (o *Orchestrator) Dispatch(ctx context.Context, sess core.MemberSession, ev core.Inbound) error {
	if sess.State() != core.StateOpen {
		return ErrSessionClosed
	}

	var err error
	switch e := ev.(type) {
	case *core.Register:
		err = o.Register(sess, domain.Identity{UserID: e.UserID, DisplayName: e.DisplayName})
	case *core.Join:
		o.Join(sess, e.Room)
		err = o.History(ctx, sess, e.Room)
	case *core.Leave:
		o.Leave(sess, e.Room)
	case *core.History:
		err = o.History(ctx, sess, e.Room)
	case *core.SendMessage:
		_, err = o.Send(ctx, e.Text, e.Sender, e.Room)
	case *core.EditMessage:
		_, err = o.Edit(ctx, e.ID, e.Text, e.Room)
	case *core.DeleteMessage:
		_, err = o.Delete(ctx, e.ID)
	case *core.WhoAmI:
		o.WhoAmI(sess)
	case *core.Ping:
		o.send(sess, core.RoomFrame{Type: core.EventPong})
	default:
		err = fmt.Errorf("%w: unhandled event %s", domain.ErrProtocol, ev.Type())
	}

	o.report(sess, ev.Type(), err)
	return err
}

func (o *Orchestrator) report(sess core.MemberSession, typ core.EventType, err error) {
	if err == nil {
		return
	}
	logger := log.With().Str("module", "orch").Str("sid", string(sess.ID())).Str("event", string(typ)).Logger()
	switch {
	case errors.Is(err, domain.ErrPersistence):
		logger.Error().Err(err).Msg("persistence failed")
		o.send(sess, core.NewError(fmt.Sprintf("%s failed: storage unavailable", typ)))
	case errors.Is(err, domain.ErrNotFound):
		logger.Info().Err(err).Msg("ignored")
	case errors.Is(err, ErrSessionClosed):
		logger.Debug().Msg("event after close")
	default:
		logger.Warn().Err(err).Msg("dropped event")
	}
}

// send delivers v to a single session.
func (o *Orchestrator) send(sess core.MemberSession, v any) bool {
	frame, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal frame")
		return false
	}
	return o.deliver("", sess, frame)
}

// deliver never blocks: a full queue is handed to the backpressure policy.
func (o *Orchestrator) deliver(room domain.RoomKey, sess core.MemberSession, frame core.Frame) bool {
	signal := sess.Signal()
	if signal == nil || sess.State() != core.StateOpen {
		return false
	}
	if err := signal.TrySend(frame); err != nil {
		action := o.Policy.OnBackPressure(room, sess)
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sess.ID())).
			Str("room", string(room)).Stringer("action", action).Msg("delivery failed")
		if action == app.KickMember {
			signal.Close()
		}
		return false
	}
	return true
}
