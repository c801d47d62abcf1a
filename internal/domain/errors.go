package domain

import (
	"errors"
	"fmt"
)

// Top-level categories; every error below wraps exactly one of them.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
	ErrProtocol    = errors.New("protocol violation")
)

var (
	ErrEmptyText      = fmt.Errorf("%w: text is empty", ErrValidation)
	ErrEmptySender    = fmt.Errorf("%w: sender is empty", ErrValidation)
	ErrEmptyRoom      = fmt.Errorf("%w: room is empty", ErrValidation)
	ErrEmptyMessageID = fmt.Errorf("%w: message id is empty", ErrValidation)

	ErrUsernameTooLong  = fmt.Errorf("%w: username too long", ErrValidation)
	ErrUsernameEmpty    = fmt.Errorf("%w: username empty", ErrValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password too short", ErrValidation)
	ErrPasswordTooLong  = fmt.Errorf("%w: password too long", ErrValidation)

	ErrMessageNotFound = fmt.Errorf("message %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
)
