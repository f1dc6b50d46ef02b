package resource

import (
	"net/url"

	"floradmin/internal/model"
)

// Resource names, used in cache keys and metrics.
const (
	StoresName     = "floristerias"
	ProductsName   = "flores"
	CategoriesName = "categorias"
	UsersName      = "users"
)

type (
	Stores     = Controller[model.Store, model.StoreInput]
	Products   = Controller[model.Product, model.ProductInput]
	Categories = Controller[model.Category, model.CategoryInput]
	Users      = Controller[model.User, model.UserInput]
)

// Set holds one controller per backend resource.
type Set struct {
	Stores     *Stores
	Products   *Products
	Categories *Categories
	Users      *Users
	Validator  *Validator
}

// NewSet builds the controllers for every resource over shared deps.
func NewSet(deps Deps) *Set {
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}
	return &Set{
		Stores: New[model.Store, model.StoreInput](Spec{
			Name: StoresName,
			Path: "/floristerias",
		}, deps),
		// Products filtered by store use the store sub-collection.
		Products: New[model.Product, model.ProductInput](Spec{
			Name: ProductsName,
			Path: "/flores",
			ListPath: func(storeID string) string {
				return "/flores/floristeria/" + url.PathEscape(storeID)
			},
		}, deps),
		Categories: New[model.Category, model.CategoryInput](Spec{
			Name: CategoriesName,
			Path: "/categorias",
			ListPath: func(storeID string) string {
				return "/categorias?floristeria=" + url.QueryEscape(storeID)
			},
		}, deps),
		Users: New[model.User, model.UserInput](Spec{
			Name: UsersName,
			Path: "/users",
		}, deps),
		Validator: deps.Validator,
	}
}
