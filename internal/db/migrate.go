package db

import (
	"fmt"

	"gorm.io/gorm"

	"floradmin/internal/model"
)

// Migrate creates or updates the backend double schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Store{},
		&model.Category{},
		&model.Product{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table of the backend double.
func Reset(db *gorm.DB) error {
	for _, table := range []interface{}{&model.Product{}, &model.Category{}, &model.User{}, &model.Store{}} {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
