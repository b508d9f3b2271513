package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/n190166/BiryaniJunction/internal/models"
)

const userColumns = `id, name, email, password_hash, phone, address, role, created_at, updated_at`

// CreateUser inserts a user; a taken email yields ErrConflict
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, phone, address, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := s.db.QueryRowxContext(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, u.Address, u.Role,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("email %s: %w", u.Email, ErrConflict)
	}
	return err
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

func (s *Store) getUser(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT "+userColumns+" FROM users WHERE "+column+" = $1", value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", value, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserProfile updates contact details of a user
func (s *Store) UpdateUserProfile(ctx context.Context, u *models.User) error {
	err := s.db.QueryRowxContext(ctx, `
		UPDATE users SET name = $2, phone = $3, address = $4, updated_at = NOW()
		WHERE id = $1 RETURNING updated_at`,
		u.ID, u.Name, u.Phone, u.Address,
	).Scan(&u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
	}
	return err
}
