package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nivkatz/toystore/internal/auth"
	"github.com/nivkatz/toystore/internal/models"
	pkgauth "github.com/nivkatz/toystore/pkg/auth"
)

// CredentialStore is the slice of the user repository the auth gateway
// needs. Password verification stays behind this boundary.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User, passwordHash string) (*models.User, error)
	VerifyCredentials(ctx context.Context, username, password string) (*models.User, error)
}

// AuthService is the gateway for logins, signups and session tokens.
type AuthService struct {
	store  CredentialStore
	codec  *auth.TokenCodec
	logger *slog.Logger
}

func NewAuthService(store CredentialStore, codec *auth.TokenCodec, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		codec:  codec,
		logger: logger,
	}
}

// Login verifies a username/password pair. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.VerifyCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			s.logger.Info("login failed: invalid credentials")
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to verify credentials", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	return user, nil
}

// Signup registers a new non-admin account and returns the stripped record.
func (s *AuthService) Signup(ctx context.Context, username, password, fullname string) (*models.User, error) {
	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, models.ErrBadRequest
	}

	_, err := s.store.GetByUsername(ctx, username)
	if err == nil {
		s.logger.Info("signup rejected: username taken")
		return nil, models.ErrConflict
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check username", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	passwordHash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := &models.User{
		Username: username,
		Fullname: fullname,
		IsAdmin:  false,
	}

	created, err := s.store.Create(ctx, user, passwordHash)
	if err != nil {
		// The unique constraint can still fire under a concurrent signup.
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user signed up", slog.String("user_id", created.ID))
	return created, nil
}

// IssueSessionToken builds the claims for a user and encrypts them.
func (s *AuthService) IssueSessionToken(user *models.User) (string, error) {
	token, err := s.codec.Issue(models.ClaimsFromUser(user))
	if err != nil {
		s.logger.Error("failed to issue session token", slog.String("user_id", user.ID), slog.Any("error", err))
		return "", models.ErrInternalServer
	}
	return token, nil
}

// ValidateSessionToken resolves a raw token into claims. An absent token
// and a failed parse both map to nil: parse failures are an authorization
// outcome, never an error surfaced to the user.
func (s *AuthService) ValidateSessionToken(token string) *models.TokenClaims {
	if token == "" {
		return nil
	}

	claims, err := s.codec.Parse(token)
	if err != nil {
		s.logger.Warn("invalid session token")
		return nil
	}

	return claims
}
