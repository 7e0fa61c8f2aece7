// Package catalog manages the lookup dimensions products are classified by:
// categories, brands, sizes, colors and genders.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/webstore/internal/domain/domainerr"
	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/model"
)

var (
	ErrEntryNotFound = domainerr.New(domainerr.ErrNotFound, "catalog entry not found")
	ErrInvalidName   = domainerr.New(domainerr.ErrValidation, "name is required")
	ErrUnknownKind   = domainerr.New(domainerr.ErrValidation, "unknown catalog kind")
	ErrEntryInUse    = domainerr.New(domainerr.ErrConflict, "catalog entry is in use or already exists")
)

// Service handles lookup operations for every kind
type Service struct {
	lookups store.LookupStore
}

// NewService creates a new catalog service
func NewService(lookups store.LookupStore) *Service {
	return &Service{lookups: lookups}
}

func (s *Service) List(ctx context.Context, kind store.LookupKind) ([]model.Lookup, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	return s.lookups.List(ctx, kind)
}

func (s *Service) Get(ctx context.Context, kind store.LookupKind, id int) (*model.Lookup, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	l, err := s.lookups.Get(ctx, kind, id)
	if err != nil {
		return nil, mapErr(kind, id, err)
	}
	return l, nil
}

// Create adds an entry. The name is trimmed and must not be empty.
func (s *Service) Create(ctx context.Context, kind store.LookupKind, name string) (*model.Lookup, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	l, err := s.lookups.Create(ctx, kind, name)
	if err != nil {
		return nil, mapErr(kind, 0, err)
	}
	return l, nil
}

func (s *Service) Update(ctx context.Context, kind store.LookupKind, id int, name string) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	return mapErr(kind, id, s.lookups.Update(ctx, kind, id, name))
}

func (s *Service) Delete(ctx context.Context, kind store.LookupKind, id int) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	return mapErr(kind, id, s.lookups.Delete(ctx, kind, id))
}

func mapErr(kind store.LookupKind, id int, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %s %d", ErrEntryNotFound, kind, id)
	case errors.Is(err, store.ErrConflict):
		return fmt.Errorf("%w: %s", ErrEntryInUse, kind)
	}
	return err
}
