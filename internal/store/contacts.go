package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/n190166/BiryaniJunction/internal/models"
)

const contactColumns = `id, name, email, subject, message, status, created_at, updated_at`

// CreateContact stores a contact form submission
func (s *Store) CreateContact(ctx context.Context, m *models.ContactMessage) error {
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO contact_messages (id, name, email, subject, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.Status,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// ListContacts lists messages newest first, optionally by status
func (s *Store) ListContacts(ctx context.Context, status string) ([]models.ContactMessage, error) {
	msgs := []models.ContactMessage{}
	if status == "" {
		err := s.db.SelectContext(ctx, &msgs,
			"SELECT "+contactColumns+" FROM contact_messages ORDER BY created_at DESC")
		return msgs, err
	}
	err := s.db.SelectContext(ctx, &msgs,
		"SELECT "+contactColumns+" FROM contact_messages WHERE status = $1 ORDER BY created_at DESC", status)
	return msgs, err
}

// UpdateContactStatus moves a message through the inbox workflow
func (s *Store) UpdateContactStatus(ctx context.Context, id, status string) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	err := s.db.GetContext(ctx, &msg,
		"UPDATE contact_messages SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING "+contactColumns,
		status, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contact %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeleteContact removes a message
func (s *Store) DeleteContact(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM contact_messages WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("contact %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountContacts counts messages with the given status
func (s *Store) CountContacts(ctx context.Context, status string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM contact_messages WHERE status = $1", status)
	return n, err
}
