package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flixhub/apiserver/internal/auth"
	"github.com/flixhub/apiserver/internal/store"
	"github.com/flixhub/apiserver/types"
)

// AccountRepository defines the persistence operations the auth core needs.
// RecordLoginFailure must apply its increment-and-lock as one atomic update so
// concurrent failed logins against the same account never under-count.
type AccountRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	RecordLoginFailure(ctx context.Context, id, threshold int, lockUntil time.Time) (int, *time.Time, error)
	ResetLoginFailures(ctx context.Context, id int) error
}

// AuthResult is what a successful registration or login returns.
type AuthResult struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

// AuthService orchestrates registration and login over the credential
// validator, hasher, lockout policy, token codec, and account repository.
type AuthService struct {
	repo    AccountRepository
	hasher  *auth.PasswordHasher
	lockout *auth.LockoutPolicy
	tokens  *auth.TokenCodec
	logger  *slog.Logger
}

func NewAuthService(
	repo AccountRepository,
	hasher *auth.PasswordHasher,
	lockout *auth.LockoutPolicy,
	tokens *auth.TokenCodec,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		repo:    repo,
		hasher:  hasher,
		lockout: lockout,
		tokens:  tokens,
		logger:  logger,
	}
}

// Register creates an account and signs it in. Password-policy violations
// surface as *auth.ValidationError; a taken email surfaces as
// auth.ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, email, password, name string, role types.Role) (AuthResult, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return AuthResult{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("hashing password failed", "error", err)
		return AuthResult{}, err
	}

	if role == "" {
		role = types.RoleUser
	}
	user, err := s.repo.Create(ctx, types.User{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return AuthResult{}, auth.ErrDuplicateEmail
		}
		s.logger.Error("creating account failed", "error", err)
		return AuthResult{}, err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		s.logger.Error("issuing token failed", "error", err)
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and applies the lockout policy.
//
// An unknown email and a wrong password both return auth.ErrInvalidCredentials
// so responses carry no existence signal. A locked account returns
// auth.ErrAccountLocked before any hash comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AuthResult{}, auth.ErrInvalidCredentials
		}
		s.logger.Error("looking up account failed", "error", err)
		return AuthResult{}, err
	}

	now := time.Now()
	if s.lockout.Locked(user, now) {
		return AuthResult{}, auth.ErrAccountLocked
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		lockUntil := now.Add(s.lockout.Duration())
		if _, _, err := s.repo.RecordLoginFailure(ctx, user.ID, s.lockout.Threshold(), lockUntil); err != nil {
			// An uncounted failure would let a degraded store bypass the
			// lockout, so this surfaces as an internal error, not a 401.
			s.logger.Error("recording login failure failed", "error", err, "user_id", user.ID)
			return AuthResult{}, fmt.Errorf("recording login failure: %w", err)
		}
		return AuthResult{}, auth.ErrInvalidCredentials
	}

	// The credentials are already verified here; a failed reset never blocks
	// the login, and the counter clears on the next successful reset.
	if err := s.repo.ResetLoginFailures(ctx, user.ID); err != nil {
		s.logger.Error("resetting login failures failed", "error", err, "user_id", user.ID)
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		s.logger.Error("issuing token failed", "error", err)
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: user}, nil
}
