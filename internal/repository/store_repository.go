package repository

import (
	"context"

	"gorm.io/gorm"

	"floradmin/internal/model"
)

// StoreRepository defines store persistence operations.
type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	Update(ctx context.Context, store *model.Store) error
	FindByID(ctx context.Context, id string) (*model.Store, error)
	List(ctx context.Context) ([]model.Store, error)
	// Delete removes the store together with its products and users'
	// assignment in one transaction.
	Delete(ctx context.Context, id string) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo StoreRepository) error) error
}

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a new store repository.
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

// Create creates a new store.
func (r *storeRepository) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

// Update saves every column of an existing store.
func (r *storeRepository) Update(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

// FindByID finds a store by ID.
func (r *storeRepository) FindByID(ctx context.Context, id string) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// List lists every store in creation order.
func (r *storeRepository) List(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	if err := r.db.WithContext(ctx).Order("created_at").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) Delete(ctx context.Context, id string) error {
	return r.WithTransaction(ctx, func(ctx context.Context, repo StoreRepository) error {
		tx := repo.(*storeRepository).db.WithContext(ctx)
		res := tx.Where("id = ?", id).Delete(&model.Store{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("store_id = ?", id).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("store_id = ?", id).Update("store_id", "").Error
	})
}

// WithTransaction executes a function within a database transaction.
func (r *storeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo StoreRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &storeRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
