package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"floradmin/internal/model"
	"floradmin/internal/resource"
)

const (
	adminProductsPath     = "/admin/productos"
	storeUserProductsPath = "/usuario/productos"
)

// ProductHandler manages products. Administrators see every store; store
// users only see and write the products of their own store.
type ProductHandler struct {
	base
}

// NewProductHandler creates a new product handler.
func NewProductHandler(d Deps) *ProductHandler {
	return &ProductHandler{base: newBase(d)}
}

// scope is the part of the catalog the current user works on.
type scope struct {
	path    string
	storeID string
}

func scopeOf(c echo.Context) scope {
	id := sessionOf(c).Identity
	if id.Role == model.RoleStoreUser {
		return scope{path: storeUserProductsPath, storeID: id.StoreID}
	}
	return scope{path: adminProductsPath}
}

func (s scope) restricted() bool { return s.storeID != "" }

// owns reports whether the scope may see p.
func (s scope) owns(p model.Product) bool {
	return !s.restricted() || p.StoreID.String() == s.storeID
}

type productList struct {
	Base          string
	Filter        string
	Items         []model.Product
	Stores        []model.Store
	CategoryNames map[string]string
}

type productFormData struct {
	Action     string
	Base       string
	Input      model.ProductInput
	RawPrice   string
	RawStock   string
	Image      string
	Stores     []model.Store
	Categories []model.Category
}

// options loads the stores and categories offered by the product pages.
// The first failure is returned; whatever loaded is still returned.
func (h *ProductHandler) options(ctx context.Context, c echo.Context, sc scope) ([]model.Store, []model.Category, error) {
	api := h.api(c)
	var firstErr error
	var stores []model.Store
	if !sc.restricted() {
		var err error
		stores, err = h.Resources.Stores.List(ctx, api, "")
		firstErr = err
	}
	categories, err := h.Resources.Categories.List(ctx, api, sc.storeID)
	if firstErr == nil {
		firstErr = err
	}
	return stores, categories, firstErr
}

// List renders the products of the scope, optionally filtered by store.
func (h *ProductHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	sc := scopeOf(c)
	filter := sc.storeID
	if !sc.restricted() {
		filter = c.QueryParam("floristeria")
	}

	items, err := h.Resources.Products.List(ctx, h.api(c), filter)
	stores, categories, optErr := h.options(ctx, c, sc)
	if err == nil {
		err = optErr
	}

	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	p := page(c, "Arreglos", productList{
		Base:          sc.path,
		Filter:        filter,
		Items:         items,
		Stores:        stores,
		CategoryNames: names,
	})
	if err != nil {
		herr, handled, rerr := h.failure(c, err)
		if handled {
			return rerr
		}
		p.Error = herr.Message
	}
	return h.render(c, http.StatusOK, "products.html", p)
}

// New renders an empty product form.
func (h *ProductHandler) New(c echo.Context) error {
	sc := scopeOf(c)
	data := productFormData{Action: sc.path + "/nuevo", Base: sc.path}
	data.Input.StoreID = c.QueryParam("floristeria")
	return h.showForm(c, sc, "Nuevo arreglo", data)
}

func (h *ProductHandler) showForm(c echo.Context, sc scope, title string, data productFormData) error {
	stores, categories, err := h.options(c.Request().Context(), c, sc)
	data.Stores, data.Categories = stores, categories
	p := page(c, title, data)
	if err != nil {
		herr, handled, rerr := h.failure(c, err)
		if handled {
			return rerr
		}
		p.Error = herr.Message
	}
	return h.render(c, http.StatusOK, "product_form.html", p)
}

// Create submits a new product. Store users always create in their store.
func (h *ProductHandler) Create(c echo.Context) error {
	sc := scopeOf(c)
	data := productFormData{Action: sc.path + "/nuevo", Base: sc.path}
	err := h.submit(c, sc, &data, func(ctx context.Context, in model.ProductInput) error {
		_, err := h.Resources.Products.Create(ctx, h.api(c), in)
		return err
	})
	if err != nil {
		return h.formFailed(c, sc, err, "Nuevo arreglo", data)
	}
	return redirect(c, sc.path, "Arreglo creado")
}

// Edit renders the form of an existing product.
func (h *ProductHandler) Edit(c echo.Context) error {
	sc := scopeOf(c)
	product, err := h.owned(c, sc, c.Param("id"))
	if err != nil {
		return h.errorPage(c, err, sc.path)
	}
	in := model.ProductInputFrom(product)
	return h.showForm(c, sc, "Editar arreglo", productFormData{
		Action:   sc.path + "/" + product.ID,
		Base:     sc.path,
		Input:    in,
		RawPrice: product.Price.String(),
		RawStock: strconv.Itoa(product.Stock),
		Image:    product.Image,
	})
}

// Update submits changes to a product.
func (h *ProductHandler) Update(c echo.Context) error {
	sc := scopeOf(c)
	id := c.Param("id")
	if _, err := h.owned(c, sc, id); err != nil {
		return h.errorPage(c, err, sc.path)
	}
	data := productFormData{Action: sc.path + "/" + id, Base: sc.path, Image: c.FormValue("imagen_actual")}
	err := h.submit(c, sc, &data, func(ctx context.Context, in model.ProductInput) error {
		_, err := h.Resources.Products.Update(ctx, h.api(c), id, in)
		return err
	})
	if err != nil {
		return h.formFailed(c, sc, err, "Editar arreglo", data)
	}
	return redirect(c, sc.path, "Arreglo actualizado")
}

func (h *ProductHandler) submit(c echo.Context, sc scope, data *productFormData, send func(context.Context, model.ProductInput) error) error {
	pf, err := parseProductForm(c)
	if sc.restricted() {
		pf.Input.StoreID = sc.storeID
	}
	data.Input, data.RawPrice, data.RawStock = pf.Input, pf.RawPrice, pf.RawStock
	if err != nil {
		return err
	}
	if err := pf.check(h.Resources.Validator); err != nil {
		return err
	}
	return send(c.Request().Context(), pf.Input)
}

func (h *ProductHandler) formFailed(c echo.Context, sc scope, err error, title string, data productFormData) error {
	stores, categories, _ := h.options(c.Request().Context(), c, sc)
	data.Stores, data.Categories = stores, categories
	return h.form(c, err, "product_form.html", title, data)
}

// owned fetches id and hides products outside the scope as not found.
func (h *ProductHandler) owned(c echo.Context, sc scope, id string) (model.Product, error) {
	product, err := h.Resources.Products.GetOne(c.Request().Context(), h.api(c), id)
	if err != nil {
		return model.Product{}, err
	}
	if !sc.owns(product) {
		return model.Product{}, resource.ErrNotFound
	}
	return product, nil
}

// ConfirmDelete asks before deleting a product.
func (h *ProductHandler) ConfirmDelete(c echo.Context) error {
	sc := scopeOf(c)
	product, err := h.owned(c, sc, c.Param("id"))
	if err != nil {
		return h.errorPage(c, err, sc.path)
	}
	return h.render(c, http.StatusOK, "confirm_delete.html", page(c, "Eliminar arreglo", confirmData{
		Name:   product.Name,
		Action: sc.path + "/" + product.ID + "/eliminar",
		Cancel: sc.path,
	}))
}

// Delete removes a product after confirmation.
func (h *ProductHandler) Delete(c echo.Context) error {
	sc := scopeOf(c)
	id := c.Param("id")
	if _, err := h.owned(c, sc, id); err != nil {
		return h.deleteFailed(c, err, sc.path)
	}
	if err := h.Resources.Products.Remove(c.Request().Context(), h.api(c), id, confirmed(c)); err != nil {
		return h.deleteFailed(c, err, sc.path)
	}
	return redirect(c, sc.path, "Arreglo eliminado")
}

// BulkDelete removes every selected product.
func (h *ProductHandler) BulkDelete(c echo.Context) error {
	back := adminProductsPath
	if f := c.FormValue("floristeria"); f != "" {
		back += "?floristeria=" + url.QueryEscape(f)
	}
	ids := selectedIDs(c)
	if len(ids) == 0 {
		return redirectError(c, back, nothingSelected)
	}
	res, err := h.Resources.Products.BulkRemove(c.Request().Context(), h.api(c), ids, confirmed(c))
	if err != nil {
		return h.deleteFailed(c, err, back)
	}
	return h.bulkDone(c, back, len(res.Deleted), res.Total(), res.Failed)
}
