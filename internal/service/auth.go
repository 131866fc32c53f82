package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/auth"
	"github.com/sakif/studio-site/internal/repository"
)

// msgBadCredentials is the same for an unknown username and a wrong password.
const msgBadCredentials = "Invalid credentials"

// AuthService logs admins in.
//
//	AuthHandler → AuthService → AdminRepository (DB)
//	                          ↘ TokenService (JWT), PasswordService (bcrypt)
type AuthService struct {
	admins    repository.AdminRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	admins repository.AdminRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		admins:    admins,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// SeedAdmin makes sure the configured admin exists with the configured
// bcrypt hash. It runs once at startup.
func (s *AuthService) SeedAdmin(ctx context.Context, username, passwordHash string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apperror.ValidationFailed("admin_user", "admin username is required")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return apperror.ValidationFailed("admin_password_hash", "admin password hash is not a bcrypt hash")
	}

	a, err := s.admins.EnsureAdmin(ctx, username, passwordHash)
	if err != nil {
		return fmt.Errorf("service/auth: seeding admin %q: %w", username, err)
	}
	s.logger.Info("admin account ready", slog.String("username", a.Username))
	return nil
}

// Login checks the credentials and returns a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", apperror.ValidationFailed("credentials", "Username and password are required")
	}

	a, err := s.admins.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Warn("login for unknown admin", slog.String("username", username))
			return "", apperror.Unauthorized(msgBadCredentials)
		}
		return "", fmt.Errorf("service/auth: looking up admin: %w", err)
	}

	if err := s.passwords.Verify(a.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			s.logger.Warn("login with wrong password", slog.String("username", username))
			return "", apperror.Unauthorized(msgBadCredentials)
		}
		return "", fmt.Errorf("service/auth: %w", err)
	}

	token, err := s.tokens.Generate(a.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for %s: %w", a.ID, err)
	}
	s.logger.Info("admin logged in", slog.String("admin_id", a.ID))
	return token, nil
}

// ValidateToken returns the admin ID a session token was issued to.
func (s *AuthService) ValidateToken(token string) (string, error) {
	id, err := s.tokens.Validate(token)
	if err != nil {
		return "", apperror.Unauthorized("session expired, please log in again")
	}
	return id, nil
}
