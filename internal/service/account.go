// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coinboard/coinboard/internal/auth"
	"github.com/coinboard/coinboard/internal/model"
	"github.com/coinboard/coinboard/internal/repository"
)

// Service errors. All four are expected, user-facing conditions; anything
// else coming out of the service is a store failure and is surfaced to the
// operator, never disguised as one of these.
var (
	ErrMissingFields      = errors.New("username, email and password are required")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnknownUser        = errors.New("unknown user")
)

// UserStore is the persistence surface the account service needs.
// *repository.Repository satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// AccountService handles registration and credential verification.
type AccountService struct {
	store UserStore
}

// NewAccountService creates a new AccountService.
func NewAccountService(store UserStore) *AccountService {
	return &AccountService{store: store}
}

// Register creates a new user from the given credentials.
// All three fields must be non-empty after trimming. The password is
// hashed before anything is persisted, so a user row never exists without
// a usable credential. Uniqueness is decided atomically by the store's
// unique indexes; a losing concurrent registration observes
// ErrUsernameTaken or ErrEmailTaken, with the username conflict reported
// when both collide.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingFields
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailTaken
		default:
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	return user, nil
}

// Authenticate verifies a username/password pair.
// Unknown username and wrong password both return ErrInvalidCredentials so
// the response cannot be used to enumerate accounts; the unknown-username
// path still performs a dummy hash computation so the two failures take
// comparable time. No side effects.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			auth.DummyVerify(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser fetches a user by ID, for rendering protected views.
// A missing user surfaces as ErrUnknownUser; the caller treats it the
// same as an unauthenticated request.
func (s *AccountService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
