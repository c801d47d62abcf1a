package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkeye/Parley/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRepository implements core.MessageStore.
// Each method runs as one statement or one transaction, so it is atomic
// with respect to concurrent callers.
type MessageRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the timestamp source. Used by tests.
func (r *MessageRepository) WithClock(now func() time.Time) *MessageRepository {
	r.now = now
	return r
}

func (r *MessageRepository) Append(ctx context.Context, text, sender string, room domain.RoomKey) (*domain.Message, error) {
	switch {
	case strings.TrimSpace(text) == "":
		return nil, domain.ErrEmptyText
	case strings.TrimSpace(sender) == "":
		return nil, domain.ErrEmptySender
	case room == "":
		return nil, domain.ErrEmptyRoom
	}

	now := r.now()
	msg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		Text:      text,
		Sender:    sender,
		Room:      room,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to create message: %v", domain.ErrPersistence, err)
	}
	return msg, nil
}

func (r *MessageRepository) Get(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	var msg domain.Message
	if err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find message")
	}
	return &msg, nil
}

// Update replaces the text only; id, room, sender and createdAt stay put.
func (r *MessageRepository) Update(ctx context.Context, id domain.MessageID, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyText
	}

	var msg domain.Message
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Message{}).
			Where("id = ?", id).
			Updates(map[string]any{"text": text, "updated_at": r.now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&msg, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err, "update message")
	}
	return &msg, nil
}

// Remove deletes the message and hands it back so callers can route the notice.
func (r *MessageRepository) Remove(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&msg, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Message{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err, "delete message")
	}
	return &msg, nil
}

func (r *MessageRepository) ListByRoom(ctx context.Context, room domain.RoomKey) ([]*domain.Message, error) {
	var msgs []*domain.Message
	err := r.db.WithContext(ctx).
		Where("room = ?", room).
		Order("created_at ASC").
		Order("rowid ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list messages: %v", domain.ErrPersistence, err)
	}
	return msgs, nil
}

func translate(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrMessageNotFound
	}
	return fmt.Errorf("%w: failed to %s: %v", domain.ErrPersistence, op, err)
}
