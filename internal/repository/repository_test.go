package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"floradmin/internal/db"
	"floradmin/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.NewSQLite("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gormDB
}

func TestStoreRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository(newTestDB(t))

	store := &model.Store{Name: "Flores del Paraíso", Description: "Arreglos", URL: "https://example.com"}
	require.NoError(t, repo.Create(ctx, store))
	assert.NotEmpty(t, store.ID)

	found, err := repo.FindByID(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flores del Paraíso", found.Name)

	found.Description = "Ramos y coronas"
	require.NoError(t, repo.Update(ctx, found))

	stores, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "Ramos y coronas", stores[0].Description)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStoreRepository_DeleteCascadesToProducts(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	stores := NewStoreRepository(gormDB)
	products := NewProductRepository(gormDB)
	users := NewUserRepository(gormDB)

	store := &model.Store{Name: "Lirios"}
	require.NoError(t, stores.Create(ctx, store))
	other := &model.Store{Name: "Tulipanes"}
	require.NoError(t, stores.Create(ctx, other))

	require.NoError(t, products.Create(ctx, &model.Product{Name: "A", Price: decimal.NewFromInt(10), StoreID: model.Ref(store.ID)}))
	require.NoError(t, products.Create(ctx, &model.Product{Name: "B", Price: decimal.NewFromInt(12), StoreID: model.Ref(other.ID)}))
	require.NoError(t, users.Create(ctx, &model.User{Username: "ana", PasswordHash: "x", Role: model.RoleStoreUser, StoreID: model.Ref(store.ID)}))

	require.NoError(t, stores.Delete(ctx, store.ID))
	assert.ErrorIs(t, stores.Delete(ctx, store.ID), gorm.ErrRecordNotFound)

	all, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "B", all[0].Name)

	ana, err := users.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Empty(t, ana.StoreID)
}

func TestProductRepository_ListByStoreKeepsCategories(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))

	p := &model.Product{
		Name:        "Ramo",
		Price:       decimal.RequireFromString("19.90"),
		Stock:       2,
		StoreID:     "s1",
		CategoryIDs: model.Refs{"c1", "c2"},
	}
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Create(ctx, &model.Product{Name: "Otro", StoreID: "s2"}))

	got, err := repo.ListByStore(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.Refs{"c1", "c2"}, got[0].CategoryIDs)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("19.90")))

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), gorm.ErrRecordNotFound)
}

func TestCategoryRepository_ListByStore(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &model.Category{Name: "Rosas"}))
	require.NoError(t, repo.Create(ctx, &model.Category{Name: "Bodas", StoreID: "s1"}))
	require.NoError(t, repo.Create(ctx, &model.Category{Name: "Funerales", StoreID: "s2"}))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	s1, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	var names []string
	for _, c := range s1 {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Rosas", "Bodas"}, names)

	n, err := repo.CountExisting(ctx, []string{all[0].ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUserRepository_UniqueUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &model.User{Username: "admin", PasswordHash: "x", Role: model.RoleAdmin}))
	assert.Error(t, repo.Create(ctx, &model.User{Username: "admin", PasswordHash: "y", Role: model.RoleAdmin}))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
