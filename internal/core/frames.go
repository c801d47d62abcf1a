package core

import "github.com/dkeye/Parley/internal/domain"

type OnlineUsersFrame struct {
	Type  EventType         `json:"type"`
	Users []domain.Identity `json:"users"`
}

type MessageFrame struct {
	Type    EventType       `json:"type"`
	Message *domain.Message `json:"message"`
}

type MessageDeletedFrame struct {
	Type EventType        `json:"type"`
	ID   domain.MessageID `json:"id"`
	Room domain.RoomKey   `json:"room"`
}

type HistoryFrame struct {
	Type     EventType         `json:"type"`
	Room     domain.RoomKey    `json:"room"`
	Messages []*domain.Message `json:"messages"`
}

type WhoAmIFrame struct {
	Type        EventType        `json:"type"`
	SID         SessionID        `json:"sid"`
	UserID      domain.UserID    `json:"userId,omitempty"`
	DisplayName string           `json:"displayName,omitempty"`
	Rooms       []domain.RoomKey `json:"rooms"`
}

type RoomFrame struct {
	Type EventType      `json:"type"`
	Room domain.RoomKey `json:"room"`
}

type ErrorFrame struct {
	Type  EventType `json:"type"`
	Error string    `json:"error"`
}

func NewOnlineUsers(users []domain.Identity) OnlineUsersFrame {
	if users == nil {
		users = []domain.Identity{}
	}
	return OnlineUsersFrame{Type: EventOnlineUsers, Users: users}
}

func NewHistory(room domain.RoomKey, msgs []*domain.Message) HistoryFrame {
	if msgs == nil {
		msgs = []*domain.Message{}
	}
	return HistoryFrame{Type: EventHistory, Room: room, Messages: msgs}
}

func NewError(msg string) ErrorFrame {
	return ErrorFrame{Type: EventError, Error: msg}
}
