package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"floradmin/internal/model"
)

const categoriesPath = "/admin/categorias"

// CategoryHandler lists and creates product categories.
type CategoryHandler struct {
	base
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(d Deps) *CategoryHandler {
	return &CategoryHandler{base: newBase(d)}
}

type categoryPage struct {
	Items      []model.Category
	Stores     []model.Store
	StoreNames map[string]string
	Input      model.CategoryInput
}

func (h *CategoryHandler) load(c echo.Context, in model.CategoryInput) (categoryPage, error) {
	ctx := c.Request().Context()
	api := h.api(c)
	items, err := h.Resources.Categories.List(ctx, api, "")
	stores, serr := h.Resources.Stores.List(ctx, api, "")
	if err == nil {
		err = serr
	}
	return categoryPage{Items: items, Stores: stores, StoreNames: storeNames(stores), Input: in}, err
}

// List renders the categories and the creation form.
func (h *CategoryHandler) List(c echo.Context) error {
	data, err := h.load(c, model.CategoryInput{})
	p := page(c, "Categorías", data)
	if err != nil {
		herr, handled, rerr := h.failure(c, err)
		if handled {
			return rerr
		}
		p.Error = herr.Message
	}
	return h.render(c, http.StatusOK, "categories.html", p)
}

// Create adds a category. When the form carries "volver" the browser goes
// back there, which is how the product form adds categories inline.
func (h *CategoryHandler) Create(c echo.Context) error {
	in := parseCategoryForm(c)
	back := c.FormValue("volver")
	if !localPath(back) {
		back = ""
	}

	_, err := h.Resources.Categories.Create(c.Request().Context(), h.api(c), in)
	if err == nil {
		if back != "" {
			return redirect(c, back, "Categoría creada")
		}
		return redirect(c, categoriesPath, "Categoría creada")
	}

	if back != "" {
		herr, handled, rerr := h.failure(c, err)
		if handled {
			return rerr
		}
		msg := herr.Message
		if f := herr.Fields["nombre"]; f != "" {
			msg = "Nombre de la categoría: " + f
		}
		return redirectError(c, back, msg)
	}
	data, _ := h.load(c, in)
	return h.form(c, err, "categories.html", "Categorías", data)
}
