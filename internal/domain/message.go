package domain

import "time"

type MessageID string

// Message is owned by the message store; copies held elsewhere are not authoritative.
type Message struct {
	ID        MessageID `gorm:"primaryKey;size:36" json:"id"`
	Text      string    `gorm:"not null" json:"text"`
	Sender    string    `gorm:"size:64;not null" json:"sender"`
	Room      RoomKey   `gorm:"size:128;not null;index:idx_messages_room_created,priority:1" json:"room"`
	CreatedAt time.Time `gorm:"index:idx_messages_room_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Message) TableName() string {
	return "messages"
}
