package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/webstore/internal/auth"
	"github.com/example/webstore/internal/domain/domainerr"
	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/model"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound       = domainerr.New(domainerr.ErrNotFound, "user not found")
	ErrInvalidUsername    = domainerr.New(domainerr.ErrValidation, "username is required")
	ErrInvalidPassword    = domainerr.New(domainerr.ErrValidation, "password must be at least 8 characters")
	ErrInvalidRole        = domainerr.New(domainerr.ErrValidation, "role must be admin, advanced or simple")
	ErrClientRole         = domainerr.New(domainerr.ErrValidation, "client accounts must have the simple role")
	ErrUsernameTaken      = domainerr.New(domainerr.ErrConflict, "username already exists")
	ErrInvalidCredentials = domainerr.New(domainerr.ErrUnauthorized, "invalid username or password")
)

// TokenIssuer signs access tokens. auth.JWTService satisfies it.
type TokenIssuer interface {
	GenerateAccessToken(userID int, username, role string, clientID *int) (string, time.Time, error)
}

// Session is the result of a successful login
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

// Service handles accounts and authentication
type Service struct {
	users     store.UserStore
	clients   store.ClientStore
	tx        store.Transactor
	passwords *auth.Passwords
	tokens    TokenIssuer
	log       *zap.Logger
}

// NewService creates a new user service
func NewService(users store.UserStore, clients store.ClientStore, tx store.Transactor, passwords *auth.Passwords, tokens TokenIssuer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, clients: clients, tx: tx, passwords: passwords, tokens: tokens, log: log}
}

// Register creates a client record for the username and a simple user
// linked to it.
func (s *Service) Register(ctx context.Context, username, password string) (*model.User, error) {
	return s.Create(ctx, username, password, model.RoleSimple, true)
}

// Create adds a user with the given role. When isClient is set a client
// record is created too and the role must be simple.
func (s *Service) Create(ctx context.Context, username, password, role string, isClient bool) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if !validRole(role) {
		return nil, ErrInvalidRole
	}
	if isClient && role != model.RoleSimple {
		return nil, ErrClientRole
	}
	hash, err := s.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{Username: username, PasswordHash: hash, Role: role}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if isClient {
			c := &model.Client{FullName: username, Email: username + "@example.com"}
			if err := s.clients.Create(ctx, c); err != nil {
				return fmt.Errorf("create client: %w", err)
			}
			u.ClientID = &c.ID
		}
		return s.users.Create(ctx, u)
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.log.Info("user created", zap.Int("user_id", u.ID), zap.String("username", username), zap.String("role", role))
	return u, nil
}

// Login verifies the credentials and issues an access token. Unknown users
// and wrong passwords yield the same error.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.passwords.Check(password, u.PasswordHash) {
		s.log.Info("login rejected", zap.String("username", u.Username))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(u.ID, u.Username, u.Role, u.ClientID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

func (s *Service) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*model.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateRole changes the role. Promoting to admin or advanced unlinks the
// client record; staying simple keeps the link.
func (s *Service) UpdateRole(ctx context.Context, id int, role string) error {
	if !validRole(role) {
		return ErrInvalidRole
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	clientID := u.ClientID
	if role != model.RoleSimple {
		clientID = nil
	}
	if err := s.users.UpdateRole(ctx, id, role, clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// EnsureAdmin creates the admin account when no user holds the admin role.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	n, err := s.users.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, username, password, model.RoleAdmin, false); err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	return true, nil
}

func validRole(role string) bool {
	switch role {
	case model.RoleAdmin, model.RoleAdvanced, model.RoleSimple:
		return true
	}
	return false
}
