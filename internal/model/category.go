package model

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products; many-to-many with Product.
type Category struct {
	ID          string    `json:"_id" gorm:"primaryKey;size:36"`
	Name        string    `json:"nombre" gorm:"size:255;not null"`
	Description string    `json:"descripcion,omitempty" gorm:"type:text"`
	Icon        string    `json:"icono,omitempty" gorm:"size:32"`
	StoreID     Ref       `json:"floristeria,omitempty" gorm:"size:36;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EntityID returns the category id.
func (c Category) EntityID() string { return c.ID }

// BeforeCreate sets the id before creating the record.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CategoryInput is the create payload for a category.
type CategoryInput struct {
	Name        string `json:"nombre" validate:"required"`
	Description string `json:"descripcion,omitempty"`
	Icon        string `json:"icono,omitempty"`
	StoreID     string `json:"floristeria,omitempty"`
}

// FormFields returns the fields as form values.
func (in CategoryInput) FormFields() url.Values {
	return url.Values{
		"nombre":      {in.Name},
		"descripcion": {in.Description},
		"icono":       {in.Icon},
		"floristeria": {in.StoreID},
	}
}

// Attachment always returns nil; categories carry no file.
func (in CategoryInput) Attachment() (string, *Upload) { return "", nil }
