package mockapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"floradmin/internal/model"
)

// Seed usernames.
const (
	SeedAdmin     = "admin"
	SeedStoreUser = "tienda"
)

// SeedData lists the records created by Seed.
type SeedData struct {
	AdminID     string
	StoreUserID string
	StoreID     string
	CategoryIDs []string
	ProductIDs  []string
}

// Seed creates an admin, a store with a store user, two categories and two
// products. Both users log in with password. Seeding a database that already
// has the admin account is a no-op and returns nil data.
func (s *Server) Seed(ctx context.Context, password string) (*SeedData, error) {
	if _, err := s.users.FindByUsername(ctx, SeedAdmin); err == nil {
		return nil, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	data := &SeedData{}

	admin := &model.User{Username: SeedAdmin, PasswordHash: string(hash), Role: model.RoleAdmin}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	data.AdminID = admin.ID

	store := &model.Store{
		Name:        "Flores del Paraíso",
		Description: "Arreglos florales para toda ocasión",
		URL:         "https://example.com",
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	data.StoreID = store.ID

	storeUser := &model.User{Username: SeedStoreUser, PasswordHash: string(hash), Role: model.RoleStoreUser, StoreID: model.Ref(store.ID)}
	if err := s.users.Create(ctx, storeUser); err != nil {
		return nil, fmt.Errorf("create store user: %w", err)
	}
	data.StoreUserID = storeUser.ID

	for _, c := range []*model.Category{
		{Name: "Rosas", Icon: "🌹"},
		{Name: "Bodas", Icon: "💐", StoreID: model.Ref(store.ID)},
	} {
		if err := s.categories.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		data.CategoryIDs = append(data.CategoryIDs, c.ID)
	}

	for _, p := range []*model.Product{
		{Name: "Ramo de rosas rojas", Description: "Doce rosas rojas", Price: decimal.RequireFromString("35.00"), Stock: 10},
		{Name: "Centro de mesa nupcial", Description: "Rosas blancas y lisianthus", Price: decimal.RequireFromString("80.50"), Stock: 3},
	} {
		p.StoreID = model.Ref(store.ID)
		p.CategoryIDs = model.Refs{model.Ref(data.CategoryIDs[len(data.ProductIDs)])}
		if err := s.products.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("create product: %w", err)
		}
		data.ProductIDs = append(data.ProductIDs, p.ID)
	}

	s.log.Infow("seeded backend double", "store", store.ID, "products", len(data.ProductIDs))
	return data, nil
}
