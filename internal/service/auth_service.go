package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mkamau/chamapool/internal/auth"
	"github.com/mkamau/chamapool/internal/models"
)

// ErrInvalidInput is returned when a request is missing required fields.
var ErrInvalidInput = errors.New("invalid input")

// AuthService handles account registration and login.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Register creates a new user account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*models.User, string, error) {
	s.logger.Info("register request", "email", email)

	if email == "" || displayName == "" {
		return nil, "", ErrInvalidInput
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		s.logger.Error("registration failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns them with a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	s.logger.Info("login request", "email", email)

	if email == "" || password == "" {
		return nil, "", auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", "email", email, "error", err)
		return nil, "", auth.ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}
