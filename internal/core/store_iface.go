package core

import (
	"context"

	"github.com/dkeye/Parley/internal/domain"
)

// MessageStore is the sole owner of durable message state.
// Errors wrap domain.ErrValidation, domain.ErrNotFound or domain.ErrPersistence.
type MessageStore interface {
	Append(ctx context.Context, text, sender string, room domain.RoomKey) (*domain.Message, error)
	Get(ctx context.Context, id domain.MessageID) (*domain.Message, error)
	Update(ctx context.Context, id domain.MessageID, text string) (*domain.Message, error)
	Remove(ctx context.Context, id domain.MessageID) (*domain.Message, error)
	// ListByRoom is ascending by creation time, ties in insertion order.
	ListByRoom(ctx context.Context, room domain.RoomKey) ([]*domain.Message, error)
}
