package auth

import (
	"context"
	"errors"
	"time"

	"github.com/InkwellLabs/Inkwell-Backend/internal/apierr"
	"github.com/InkwellLabs/Inkwell-Backend/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrRecordNotFound is returned by fetchers when no row matches. Store
// implementations map their driver's not-found onto this so the service can
// tell "absent" apart from "store broken".
var ErrRecordNotFound = errors.New("auth: record not found")

// UserFetcher is the user-store surface the service needs.
type UserFetcher interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, userID, hashedPassword string) error
}

// TokenStore persists the one active token per user.
type TokenStore interface {
	// UpsertToken atomically replaces any existing row for the token's user.
	UpsertToken(ctx context.Context, t AuthToken) error
	FindTokenByUserID(ctx context.Context, userID string) (AuthToken, error)
	DeleteToken(ctx context.Context, userID string) error
}

// Service owns the session lifecycle: issue, validate, refresh, revoke.
// Validation is always the full conjunction of signature check, embedded
// expiry, store lookup, and user-active check; there is no bypass path.
type Service struct {
	users            UserFetcher
	tokens           TokenStore
	secret           []byte
	ttl              time.Duration
	refreshThreshold time.Duration
}

func NewService(users UserFetcher, tokens TokenStore, secret []byte, ttl, refreshThreshold time.Duration) *Service {
	return &Service{
		users:            users,
		tokens:           tokens,
		secret:           secret,
		ttl:              ttl,
		refreshThreshold: refreshThreshold,
	}
}

// Login verifies credentials and issues a fresh token, superseding any prior
// session for the user. The returned error never reveals which of
// email/password was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, "", apierr.ErrAuthFailed
		}
		return nil, "", err
	}
	if !user.Active {
		return nil, "", apierr.ErrAuthFailed
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, "", apierr.ErrAuthFailed
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, "", err
	}

	user.Password = ""
	user.HashedPassword = ""
	return user, token, nil
}

// Validate resolves a bearer token to an identity. The stored row must exist,
// match the presented token, and be unexpired; a second login elsewhere
// replaces the row and revokes this token even before its embedded exp.
func (s *Service) Validate(ctx context.Context, token string) (utils.Identity, error) {
	claims, err := ParseToken(token, s.secret)
	if err != nil {
		return utils.Identity{}, err
	}

	stored, err := s.tokens.FindTokenByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return utils.Identity{}, apierr.ErrTokenRevoked
		}
		return utils.Identity{}, err
	}
	if stored.Token != token || time.Now().After(stored.ExpiresAt) {
		return utils.Identity{}, apierr.ErrTokenRevoked
	}

	user, err := s.users.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return utils.Identity{}, apierr.ErrTokenRevoked
		}
		return utils.Identity{}, err
	}
	if !user.Active {
		return utils.Identity{}, apierr.ErrUserInactive
	}

	return utils.Identity{UserID: user.ID, Role: user.Role}, nil
}

// Refresh returns the stored token unchanged while it still has more than
// the refresh threshold of life left, unless force is set. Otherwise it
// mints a fresh token, invalidating the previous one.
func (s *Service) Refresh(ctx context.Context, userID string, force bool) (string, error) {
	stored, err := s.tokens.FindTokenByUserID(ctx, userID)
	if err == nil && !force && time.Until(stored.ExpiresAt) > s.refreshThreshold {
		return stored.Token, nil
	}
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return "", err
	}

	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return "", apierr.ErrTokenRevoked
		}
		return "", err
	}
	if !user.Active {
		return "", apierr.ErrUserInactive
	}

	return s.issue(ctx, user)
}

// Logout deletes the user's token row. Idempotent.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.tokens.DeleteToken(ctx, userID); err != nil && !errors.Is(err, ErrRecordNotFound) {
		return err
	}
	return nil
}

// Me re-fetches the authenticated user with the password hash stripped.
func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// ProvisionUser creates a user with a hashed password. Admin-only at the
// route level.
func (s *Service) ProvisionUser(ctx context.Context, name, email, password, role string) (*User, error) {
	if email == "" || password == "" {
		return nil, apierr.ErrValidationFailed.WithMessage("Email and password are required")
	}
	if role == "" {
		role = "editor"
	}

	if _, err := s.users.FindUserByEmail(ctx, email); err == nil {
		return nil, apierr.ErrConflict.WithMessage("Email already in use")
	} else if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		HashedPassword: string(hashed),
		Role:           role,
		Active:         true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" || next == "" {
		return apierr.ErrValidationFailed.WithMessage("Current and new password are required")
	}

	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return apierr.ErrNotFound
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(current)) != nil {
		return apierr.ErrAuthFailed.WithMessage("Invalid current password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hashed))
}

// issue signs a token and atomically upserts it as the user's single active
// session.
func (s *Service) issue(ctx context.Context, user *User) (string, error) {
	token, exp, err := SignToken(user.ID, user.Role, s.ttl, s.secret)
	if err != nil {
		return "", err
	}
	if err := s.tokens.UpsertToken(ctx, AuthToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: exp,
	}); err != nil {
		return "", err
	}
	return token, nil
}
