// Package auth implements account registration and login: bcrypt password
// hashing plus JWT session tokens. It is the boundary the ledger trusts for
// caller identity; everything past it works with a resolved user ID.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tmodak/settleup/internal/models"
	"github.com/tmodak/settleup/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid handle or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrHandleExists       = errors.New("handle already registered")
	ErrEmptyHandle        = errors.New("handle can't be empty")
)

// UserStorage is the slice of storage.Store the authenticator needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByHandle(ctx context.Context, handle string) (*models.User, error)
}

// PasswordAuthenticator implements password-based authentication using
// bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{storage: storage}
}

// Register creates a new account with the given handle and password.
func (a *PasswordAuthenticator) Register(ctx context.Context, handle, displayName, password string) (*models.User, error) {
	if handle == "" {
		return nil, ErrEmptyHandle
	}
	if err := a.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         displayName,
		Handle:       handle,
		Role:         models.RoleMember,
		PasswordHash: string(hash),
	}
	if err := a.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrHandleTaken) {
			return nil, ErrHandleExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the handle/password pair and returns the user.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, handle, password string) (*models.User, error) {
	user, err := a.storage.GetUserByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ValidatePassword checks the password against the minimum requirements.
func (a *PasswordAuthenticator) ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}
