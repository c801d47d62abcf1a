// Package auth owns accounts and contacts. It sits beside the realtime core:
// nothing in the messaging path depends on it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dkeye/Parley/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", domain.ErrValidation)
	ErrContactRequired    = fmt.Errorf("%w: contactId is required", domain.ErrValidation)
	ErrSelfContact        = fmt.Errorf("%w: cannot add yourself as a contact", domain.ErrValidation)
	ErrAlreadyContact     = fmt.Errorf("%w: already a contact", domain.ErrValidation)
)

// UserStore is the persistence the service needs.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Contacts(ctx context.Context, id string) ([]*domain.User, error)
	AddContact(ctx context.Context, id, contactID string) error
	RemoveContact(ctx context.Context, id, contactID string) error
	Others(ctx context.Context, id string) ([]*domain.User, error)
}

type Service struct {
	users  UserStore
	hasher *PasswordHasher
	tokens *TokenManager
}

func NewService(users UserStore, hasher *PasswordHasher, tokens *TokenManager) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

func (s *Service) Signup(ctx context.Context, username, password string) (*domain.User, error) {
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := domain.NewUser(username, hash)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("module", "auth").Str("user_id", user.ID).Msg("signup")
	return user, nil
}

// Login returns the account and a fresh session token.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (s *Service) Authenticate(token string) (*Claims, error) {
	return s.tokens.Verify(token)
}

func (s *Service) Me(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *Service) Contacts(ctx context.Context, id string) ([]*domain.User, error) {
	return s.users.Contacts(ctx, id)
}

func (s *Service) Others(ctx context.Context, id string) ([]*domain.User, error) {
	return s.users.Others(ctx, id)
}

func (s *Service) AddContact(ctx context.Context, id, contactID string) error {
	switch {
	case contactID == "":
		return ErrContactRequired
	case contactID == id:
		return ErrSelfContact
	}
	current, err := s.users.Contacts(ctx, id)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(current, func(u *domain.User) bool { return u.ID == contactID }) {
		return ErrAlreadyContact
	}
	return s.users.AddContact(ctx, id, contactID)
}

func (s *Service) RemoveContact(ctx context.Context, id, contactID string) error {
	return s.users.RemoveContact(ctx, id, contactID)
}
