package model

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is a florist shop (floristería) listed on the marketplace.
type Store struct {
	ID          string    `json:"_id" gorm:"primaryKey;size:36"`
	Name        string    `json:"nombre" gorm:"size:255;not null;index"`
	Description string    `json:"descripcion" gorm:"type:text"`
	URL         string    `json:"url" gorm:"size:512"`
	Logo        string    `json:"logo,omitempty" gorm:"size:512"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EntityID returns the store id.
func (s Store) EntityID() string { return s.ID }

// BeforeCreate sets the id before creating the record.
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// StoreInput is the create/update payload for a store.
type StoreInput struct {
	Name        string  `json:"nombre" validate:"required"`
	Description string  `json:"descripcion"`
	URL         string  `json:"url" validate:"omitempty,url"`
	Logo        *Upload `json:"-"`
}

// FormFields returns the text fields of a multipart submission.
func (in StoreInput) FormFields() url.Values {
	return url.Values{
		"nombre":      {in.Name},
		"descripcion": {in.Description},
		"url":         {in.URL},
	}
}

// Attachment returns the logo, if any.
func (in StoreInput) Attachment() (string, *Upload) {
	return "logo", in.Logo
}

// StoreInputFrom pre-populates an edit form.
func StoreInputFrom(s Store) StoreInput {
	return StoreInput{Name: s.Name, Description: s.Description, URL: s.URL}
}
