package core

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Parley/internal/domain"
	"github.com/go-playground/validator/v10"
)

type EventType string

// Inbound (client -> server).
const (
	EventRegister      EventType = "register"
	EventJoin          EventType = "join"
	EventLeave         EventType = "leave"
	EventHistory       EventType = "history"
	EventSendMessage   EventType = "sendMessage"
	EventEditMessage   EventType = "editMessage"
	EventDeleteMessage EventType = "deleteMessage"
	EventPing          EventType = "ping"
	EventWhoAmI        EventType = "whoami"
)

// Outbound (server -> client).
const (
	EventOnlineUsers    EventType = "onlineUsers"
	EventReceiveMessage EventType = "receiveMessage"
	EventMessageUpdated EventType = "messageUpdated"
	EventMessageDeleted EventType = "messageDeleted"
	EventPong           EventType = "pong"
	EventLeft           EventType = "left"
	EventError          EventType = "error"
)

// Inbound is the tagged variant of every event a client may send.
type Inbound interface {
	Type() EventType
}

type Register struct {
	UserID      domain.UserID `json:"userId" validate:"required"`
	DisplayName string        `json:"displayName" validate:"required"`
}

type Join struct {
	Room domain.RoomKey `json:"room" validate:"required"`
}

type Leave struct {
	Room domain.RoomKey `json:"room" validate:"required"`
}

type History struct {
	Room domain.RoomKey `json:"room" validate:"required"`
}

type SendMessage struct {
	Text   string         `json:"text" validate:"required"`
	Sender string         `json:"sender" validate:"required"`
	Room   domain.RoomKey `json:"room" validate:"required"`
}

// EditMessage carries the client's idea of the room; fan-out ignores it
// and uses the stored message's room.
type EditMessage struct {
	ID   domain.MessageID `json:"id" validate:"required"`
	Text string           `json:"text" validate:"required"`
	Room domain.RoomKey   `json:"room"`
}

type DeleteMessage struct {
	ID domain.MessageID `json:"id" validate:"required"`
}

type Ping struct{}

type WhoAmI struct{}

func (Register) Type() EventType      { return EventRegister }
func (Join) Type() EventType          { return EventJoin }
func (Leave) Type() EventType         { return EventLeave }
func (History) Type() EventType       { return EventHistory }
func (SendMessage) Type() EventType   { return EventSendMessage }
func (EditMessage) Type() EventType   { return EventEditMessage }
func (DeleteMessage) Type() EventType { return EventDeleteMessage }
func (Ping) Type() EventType          { return EventPing }
func (WhoAmI) Type() EventType        { return EventWhoAmI }

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeInbound parses one flat {"type": ..., fields...} frame.
// Unparseable or unknown frames wrap domain.ErrProtocol; frames missing
// required fields wrap domain.ErrValidation.
func DecodeInbound(data []byte) (Inbound, error) {
	var env struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProtocol, err)
	}

	var ev Inbound
	switch env.Type {
	case EventRegister:
		ev = &Register{}
	case EventJoin:
		ev = &Join{}
	case EventLeave:
		ev = &Leave{}
	case EventHistory:
		ev = &History{}
	case EventSendMessage:
		ev = &SendMessage{}
	case EventEditMessage:
		ev = &EditMessage{}
	case EventDeleteMessage:
		ev = &DeleteMessage{}
	case EventPing:
		return &Ping{}, nil
	case EventWhoAmI:
		return &WhoAmI{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown event %q", domain.ErrProtocol, env.Type)
	}

	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrProtocol, env.Type, err)
	}
	if err := validate.Struct(ev); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrValidation, env.Type, err)
	}
	return ev, nil
}
