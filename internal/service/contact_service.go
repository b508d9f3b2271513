package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/util"
	"go.uber.org/zap"
)

// ContactService handles the public contact form and the admin inbox
type ContactService struct {
	contacts ContactRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewContactService creates a new contact service
func NewContactService(contacts ContactRepository) *ContactService {
	return &ContactService{
		contacts: contacts,
		validate: validator.New(),
		logger:   util.GetLogger(),
	}
}

func validContactStatus(status string) bool {
	switch status {
	case models.ContactStatusOpen, models.ContactStatusInProgress, models.ContactStatusClosed:
		return true
	}
	return false
}

// Submit stores a new open message
func (s *ContactService) Submit(ctx context.Context, msg *models.ContactMessage) error {
	ctx, span := util.StartSpan(ctx, "ContactService.Submit")
	defer span.End()

	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)
	if err := s.validate.Struct(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidContact, err)
	}

	msg.ID = uuid.New().String()
	msg.Status = models.ContactStatusOpen
	if err := s.contacts.CreateContact(ctx, msg); err != nil {
		return fmt.Errorf("failed to save contact message: %w", err)
	}

	s.logger.Info("Contact message received", zap.String("contact_id", msg.ID))
	return nil
}

// List returns messages newest first; an empty status lists all
func (s *ContactService) List(ctx context.Context, status string) ([]models.ContactMessage, error) {
	if status != "" && !validContactStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.contacts.ListContacts(ctx, status)
}

// UpdateStatus moves a message through open, in_progress and closed
func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) (*models.ContactMessage, error) {
	if !validContactStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	msg, err := s.contacts.UpdateContactStatus(ctx, id, status)
	if err != nil {
		return nil, translate(err)
	}
	return msg, nil
}

// Delete removes a message
func (s *ContactService) Delete(ctx context.Context, id string) error {
	return translate(s.contacts.DeleteContact(ctx, id))
}

// CountOpen returns the number of unanswered messages
func (s *ContactService) CountOpen(ctx context.Context) (int, error) {
	return s.contacts.CountContacts(ctx, models.ContactStatusOpen)
}
