package catalog

import (
	"context"
	"testing"

	"github.com/example/webstore/internal/domain/domainerr"
	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalogService() (*Service, *mocks.Database) {
	db := mocks.NewDatabase()
	return NewService(mocks.NewMockLookupStore(db)), db
}

// ============================================
// Create Tests
// ============================================

func TestService_Create_EveryKind(t *testing.T) {
	for _, kind := range store.LookupKinds {
		t.Run(string(kind), func(t *testing.T) {
			service, _ := newTestCatalogService()

			l, err := service.Create(context.Background(), kind, "  Outdoor ")

			require.NoError(t, err)
			assert.NotZero(t, l.ID)
			assert.Equal(t, "Outdoor", l.Name)

			list, err := service.List(context.Background(), kind)
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}
}

func TestService_Create_EmptyName(t *testing.T) {
	service, _ := newTestCatalogService()

	l, err := service.Create(context.Background(), store.LookupBrand, "   ")

	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, err, domainerr.ErrValidation)
	assert.Nil(t, l)
}

func TestService_UnknownKind(t *testing.T) {
	service, _ := newTestCatalogService()
	ctx := context.Background()
	kind := store.LookupKind("materials")

	_, err := service.List(ctx, kind)
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = service.Create(ctx, kind, "Cotton")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.ErrorIs(t, service.Delete(ctx, kind, 1), ErrUnknownKind)
}

// ============================================
// Get / Update / Delete Tests
// ============================================

func TestService_Get(t *testing.T) {
	service, db := newTestCatalogService()
	red := db.AddLookup(store.LookupColor, "Red")

	got, err := service.Get(context.Background(), store.LookupColor, red.ID)
	require.NoError(t, err)
	assert.Equal(t, "Red", got.Name)

	_, err = service.Get(context.Background(), store.LookupSize, red.ID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.ErrorIs(t, err, domainerr.ErrNotFound)
}

func TestService_Update(t *testing.T) {
	service, db := newTestCatalogService()
	m := db.AddLookup(store.LookupSize, "M")

	require.NoError(t, service.Update(context.Background(), store.LookupSize, m.ID, "Medium"))

	got, err := service.Get(context.Background(), store.LookupSize, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Medium", got.Name)
}

func TestService_Update_Invalid(t *testing.T) {
	service, db := newTestCatalogService()
	m := db.AddLookup(store.LookupSize, "M")

	assert.ErrorIs(t, service.Update(context.Background(), store.LookupSize, m.ID, ""), ErrInvalidName)
	assert.ErrorIs(t, service.Update(context.Background(), store.LookupSize, 999, "XL"), ErrEntryNotFound)
}

func TestService_Delete(t *testing.T) {
	service, db := newTestCatalogService()
	g := db.AddLookup(store.LookupGender, "Unisex")

	require.NoError(t, service.Delete(context.Background(), store.LookupGender, g.ID))
	assert.ErrorIs(t, service.Delete(context.Background(), store.LookupGender, g.ID), ErrEntryNotFound)
}
