package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/util"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	// bcrypt only hashes the first 72 bytes and rejects longer input
	maxPasswordBytes = 72
)

// TokenIssuer signs access tokens
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

// RegisterInput is a new account request
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone"`
}

// ProfileInput carries editable profile fields
type ProfileInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// AuthService handles registration, login and profile management
type AuthService struct {
	users    UserRepository
	tokens   TokenIssuer
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
		logger:   util.GetLogger(),
	}
}

// Register creates a customer account and returns it with a signed token
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, "", fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxPasswordBytes)
	}

	user := &models.User{
		ID:    uuid.New().String(),
		Name:  in.Name,
		Email: in.Email,
		Role:  models.RoleUser,
	}
	if in.Phone != "" {
		phone, ok := NormalizePhone(in.Phone)
		if !ok {
			return nil, "", ErrInvalidPhone
		}
		user.Phone = phone
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", translate(err)
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me returns the account of the authenticated user
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

// UpdateProfile changes name, phone and default address. Empty fields are left as they are.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.UpdateProfile")
	defer span.End()

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if in.Phone != "" {
		phone, ok := NormalizePhone(in.Phone)
		if !ok {
			return nil, ErrInvalidPhone
		}
		user.Phone = phone
	}
	if address := strings.TrimSpace(in.Address); address != "" {
		user.Address = address
	}

	if err := s.users.UpdateUserProfile(ctx, user); err != nil {
		return nil, translate(err)
	}
	return user, nil
}
