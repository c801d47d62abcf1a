// Package domain contains entity without logic, just meta-data
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxUserIDLen   = 36
	MaxUsernameLen = 36
	MinPasswordLen = 6
	MaxPasswordLen = 72
)

type UserID string

// Identity is what a connection claims about itself at registration.
type Identity struct {
	UserID      UserID `json:"userId"`
	DisplayName string `json:"displayName"`
}

func (i Identity) Valid() bool {
	return i.UserID != "" && i.DisplayName != ""
}

// User is a persisted account. Contacts is a self-referencing many2many.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:36;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Contacts     []*User   `gorm:"many2many:user_contacts" json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(username, passwordHash string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	return &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}, nil
}

func ValidateUsername(username string) error {
	if len(username) == 0 {
		return ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLen {
		return ErrPasswordTooLong
	}
	return nil
}

// Identity projects the account onto the identity a connection registers with.
func (u *User) Identity() Identity {
	return Identity{UserID: UserID(u.ID), DisplayName: u.Username}
}
