package model

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a console account.
type User struct {
	ID           string    `json:"_id" gorm:"primaryKey;size:36"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"size:20;not null;index"`
	StoreID      Ref       `json:"floristeria,omitempty" gorm:"size:36;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EntityID returns the user id.
func (u User) EntityID() string { return u.ID }

// BeforeCreate sets the id before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Identity returns the identity the user logs in as.
func (u User) Identity() Identity {
	return Identity{
		UserID:      u.ID,
		DisplayName: u.Username,
		Role:        u.Role,
		StoreID:     u.StoreID.String(),
	}
}

// UserInput is the create payload for a user. Store users must be assigned
// to a store.
type UserInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=admin usuario"`
	StoreID  string `json:"floristeria,omitempty" validate:"required_if=Role usuario"`
}

// FormFields returns the fields as form values.
func (in UserInput) FormFields() url.Values {
	return url.Values{
		"username":    {in.Username},
		"password":    {in.Password},
		"role":        {string(in.Role)},
		"floristeria": {in.StoreID},
	}
}

// Attachment always returns nil; users carry no file.
func (in UserInput) Attachment() (string, *Upload) { return "", nil }
