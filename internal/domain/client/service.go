package client

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/example/webstore/internal/domain/domainerr"
	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/model"
)

var (
	ErrClientNotFound = domainerr.New(domainerr.ErrNotFound, "client not found")
	ErrInvalidName    = domainerr.New(domainerr.ErrValidation, "full name is required")
	ErrInvalidEmail   = domainerr.New(domainerr.ErrValidation, "invalid email address")
	ErrIDMismatch     = domainerr.New(domainerr.ErrValidation, "client id does not match the request path")
	ErrClientHasOrder = domainerr.New(domainerr.ErrConflict, "client is referenced by orders")
)

type Service struct {
	clients store.ClientStore
}

func NewService(clients store.ClientStore) *Service {
	return &Service{clients: clients}
}

func (s *Service) List(ctx context.Context) ([]model.Client, error) {
	return s.clients.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*model.Client, error) {
	c, err := s.clients.Get(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, c *model.Client) (*model.Client, error) {
	if err := validate(c); err != nil {
		return nil, err
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int, c *model.Client) error {
	if c.ID != id {
		return ErrIDMismatch
	}
	if err := validate(c); err != nil {
		return err
	}
	return mapErr(s.clients.Update(ctx, c))
}

// Delete removes the client. Orders still pointing at it make the delete
// fail with a conflict.
func (s *Service) Delete(ctx context.Context, id int) error {
	return mapErr(s.clients.Delete(ctx, id))
}

func validate(c *model.Client) error {
	c.FullName = strings.TrimSpace(c.FullName)
	c.Email = strings.TrimSpace(c.Email)
	if c.FullName == "" {
		return ErrInvalidName
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrClientNotFound
	case errors.Is(err, store.ErrConflict):
		return ErrClientHasOrder
	}
	return err
}
