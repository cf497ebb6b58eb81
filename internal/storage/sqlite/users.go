package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tmodak/settleup/internal/models"
	"github.com/tmodak/settleup/internal/storage"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	if user.Role == "" {
		user.Role = models.RoleMember
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, handle, role, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Handle, user.Role, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		// modernc.org/sqlite reports constraint violations as plain
		// errors; the handle column carries the only UNIQUE constraint
		// we insert into.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrHandleTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

// GetUserByHandle retrieves a user by their login handle.
func (s *SQLiteStore) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	return s.getUser(ctx, "handle", handle)
}

func (s *SQLiteStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, handle, role, password_hash, created_at
		 FROM users WHERE `+column+` = ?`,
		value,
	).Scan(&user.ID, &user.Name, &user.Handle, &user.Role, &user.PasswordHash, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	return user, nil
}
