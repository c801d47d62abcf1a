package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/Parley/internal/domain"
	"gorm.io/gorm"
)

// ErrUserExists is returned when the username is already taken.
var ErrUserExists = fmt.Errorf("%w: username taken", domain.ErrValidation)

// UserRepository handles user and contact persistence using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserExists
		}
		return tx.Create(user).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUserExists), errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUserExists
	}
	return fmt.Errorf("%w: failed to create user: %v", domain.ErrPersistence, err)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, userErr(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, userErr(err)
	}
	return &user, nil
}

// Contacts lists the user's contacts ordered by username.
func (r *UserRepository) Contacts(ctx context.Context, id string) ([]*domain.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var contacts []*domain.User
	if err := r.db.WithContext(ctx).Model(user).Order("username ASC").Association("Contacts").Find(&contacts); err != nil {
		return nil, fmt.Errorf("%w: failed to list contacts: %v", domain.ErrPersistence, err)
	}
	return contacts, nil
}

func (r *UserRepository) AddContact(ctx context.Context, id, contactID string) error {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	contact, err := r.FindByID(ctx, contactID)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(user).Association("Contacts").Append(contact); err != nil {
		return fmt.Errorf("%w: failed to add contact: %v", domain.ErrPersistence, err)
	}
	return nil
}

// RemoveContact is a no-op when contactID is not a contact.
func (r *UserRepository) RemoveContact(ctx context.Context, id, contactID string) error {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(user).Association("Contacts").Delete(&domain.User{ID: contactID}); err != nil {
		return fmt.Errorf("%w: failed to remove contact: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Others lists every user except id.
func (r *UserRepository) Others(ctx context.Context, id string) ([]*domain.User, error) {
	var users []*domain.User
	if err := r.db.WithContext(ctx).Where("id <> ?", id).Order("username ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list users: %v", domain.ErrPersistence, err)
	}
	return users, nil
}

func userErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}
