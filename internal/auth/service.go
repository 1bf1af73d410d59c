// Package auth covers account management: bcrypt passwords, in-memory login
// sessions, and Google sign-in.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/core"
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, u core.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (core.User, error)
	SetGoogleID(ctx context.Context, userID int64, googleID string) error
}

var (
	// ErrInvalidCredentials covers both unknown emails and wrong passwords
	// so login failures do not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmailTaken       = errors.New("email already registered")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

type Service struct {
	users UserStore
}

func NewService(users UserStore) *Service {
	return &Service{users: users}
}

// Register creates a local account and returns its id.
func (s *Service) Register(ctx context.Context, name, email, password string) (int64, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || !strings.Contains(email, "@") {
		return 0, errors.New("name and a valid email are required")
	}
	if len(password) < 8 {
		return 0, ErrPasswordTooShort
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return 0, ErrEmailTaken
	} else if !errors.Is(err, core.ErrNotFound) {
		return 0, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return 0, err
	}

	id, err := s.users.CreateUser(ctx, core.User{
		Name:     name,
		Email:    email,
		Password: hash,
	})
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", id, "email", email)
	return id, nil
}

// Login verifies a local account's credentials and returns the user.
func (s *Service) Login(ctx context.Context, email, password string) (core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, fmt.Errorf("look up user: %w", err)
	}

	if !CheckPassword(u.Password, password) {
		return core.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// LoginWithGoogle resolves a verified Google profile to a local user,
// linking by email when the account already exists and creating one when it
// does not.
func (s *Service) LoginWithGoogle(ctx context.Context, p GoogleProfile) (core.User, error) {
	if u, err := s.users.GetUserByGoogleID(ctx, p.GoogleID); err == nil {
		return u, nil
	} else if !errors.Is(err, core.ErrNotFound) {
		return core.User{}, fmt.Errorf("look up google user: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(p.Email))

	u, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.users.SetGoogleID(ctx, u.ID, p.GoogleID); err != nil {
			return core.User{}, fmt.Errorf("link google account: %w", err)
		}
		u.GoogleID = p.GoogleID
		slog.InfoContext(ctx, "Google account linked", "user_id", u.ID, "email", email)
		return u, nil
	case errors.Is(err, core.ErrNotFound):
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = email
		}
		id, err := s.users.CreateUser(ctx, core.User{
			Name:     name,
			Email:    email,
			GoogleID: p.GoogleID,
		})
		if err != nil {
			return core.User{}, fmt.Errorf("create google user: %w", err)
		}
		slog.InfoContext(ctx, "User registered via Google", "user_id", id, "email", email)
		return core.User{ID: id, Name: name, Email: email, GoogleID: p.GoogleID}, nil
	default:
		return core.User{}, fmt.Errorf("look up user by email: %w", err)
	}
}
