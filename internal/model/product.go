package model

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a floral arrangement sold by one store.
type Product struct {
	ID          string          `json:"_id" gorm:"primaryKey;size:36"`
	Name        string          `json:"nombre" gorm:"size:255;not null;index"`
	Description string          `json:"descripcion" gorm:"type:text"`
	Price       decimal.Decimal `json:"precio" gorm:"type:decimal(12,2);not null"`
	Stock       int             `json:"stock" gorm:"not null"`
	StoreID     Ref             `json:"floristeria" gorm:"size:36;index;not null"`
	CategoryIDs Refs            `json:"categorias" gorm:"serializer:json"`
	Image       string          `json:"imagen,omitempty" gorm:"size:512"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// EntityID returns the product id.
func (p Product) EntityID() string { return p.ID }

// BeforeCreate sets the id before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// UnmarshalJSON migrates the legacy single-valued "categoria" field into
// CategoryIDs when "categorias" is absent or empty.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var raw struct {
		plain
		Categoria Ref `json:"categoria"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Product(raw.plain)
	if len(p.CategoryIDs) == 0 && raw.Categoria != "" {
		p.CategoryIDs = Refs{raw.Categoria}
	}
	return nil
}

// ProductInput is the create/update payload for a product.
type ProductInput struct {
	Name        string           `json:"nombre" validate:"required"`
	Description string           `json:"descripcion" validate:"required"`
	Price       *decimal.Decimal `json:"precio" validate:"required,gte=0"`
	Stock       *int             `json:"stock" validate:"required,gte=0"`
	StoreID     string           `json:"floristeria" validate:"required"`
	CategoryIDs []string         `json:"categorias" validate:"min=1,dive,required"`
	Image       *Upload          `json:"-"`
}

// FormFields returns the text fields of a multipart submission; categories
// repeat once per id.
func (in ProductInput) FormFields() url.Values {
	v := url.Values{
		"nombre":      {in.Name},
		"descripcion": {in.Description},
		"floristeria": {in.StoreID},
	}
	if in.Price != nil {
		v.Set("precio", in.Price.String())
	}
	if in.Stock != nil {
		v.Set("stock", strconv.Itoa(*in.Stock))
	}
	for _, id := range in.CategoryIDs {
		v.Add("categorias", id)
	}
	return v
}

// Attachment returns the product image, if any.
func (in ProductInput) Attachment() (string, *Upload) {
	return "imagen", in.Image
}

// ProductInputFrom pre-populates an edit form.
func ProductInputFrom(p Product) ProductInput {
	price := p.Price
	stock := p.Stock
	return ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       &price,
		Stock:       &stock,
		StoreID:     p.StoreID.String(),
		CategoryIDs: p.CategoryIDs.Strings(),
	}
}
