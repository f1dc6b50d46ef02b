package repository

import (
	"context"

	"gorm.io/gorm"

	"floradmin/internal/model"
)

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	// List returns every category when storeID is empty, otherwise the
	// categories of that store plus the shared ones.
	List(ctx context.Context, storeID string) ([]model.Category, error)
	CountExisting(ctx context.Context, ids []string) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, storeID string) ([]model.Category, error) {
	q := r.db.WithContext(ctx).Order("name")
	if storeID != "" {
		q = q.Where("store_id = ? OR store_id = ? OR store_id IS NULL", storeID, "")
	}
	var categories []model.Category
	if err := q.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CountExisting counts how many of ids exist.
func (r *categoryRepository) CountExisting(ctx context.Context, ids []string) (int64, error) {
	var n int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).Model(&model.Category{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}
