package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"floradmin/internal/model"
)

const storesPath = "/admin/floristerias"

// StoreHandler manages florist stores.
type StoreHandler struct {
	base
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(d Deps) *StoreHandler {
	return &StoreHandler{base: newBase(d)}
}

type storeList struct {
	Items []model.Store
}

type storeFormData struct {
	Action string
	Input  model.StoreInput
	Logo   string
}

// List renders every store. A failed refresh keeps showing the last list.
func (h *StoreHandler) List(c echo.Context) error {
	items, err := h.Resources.Stores.List(c.Request().Context(), h.api(c), "")
	p := page(c, "Floristerías", storeList{Items: items})
	if err != nil {
		herr, handled, rerr := h.failure(c, err)
		if handled {
			return rerr
		}
		p.Error = herr.Message
	}
	return h.render(c, http.StatusOK, "stores.html", p)
}

// New renders an empty store form.
func (h *StoreHandler) New(c echo.Context) error {
	return h.render(c, http.StatusOK, "store_form.html",
		page(c, "Nueva floristería", storeFormData{Action: storesPath + "/nuevo"}))
}

// Create submits a new store.
func (h *StoreHandler) Create(c echo.Context) error {
	data := storeFormData{Action: storesPath + "/nuevo"}
	in, err := parseStoreForm(c)
	data.Input = in
	if err == nil {
		_, err = h.Resources.Stores.Create(c.Request().Context(), h.api(c), in)
	}
	if err != nil {
		return h.form(c, err, "store_form.html", "Nueva floristería", data)
	}
	return redirect(c, storesPath, "Floristería creada")
}

// Edit renders the form of an existing store.
func (h *StoreHandler) Edit(c echo.Context) error {
	store, err := h.Resources.Stores.GetOne(c.Request().Context(), h.api(c), c.Param("id"))
	if err != nil {
		return h.errorPage(c, err, storesPath)
	}
	return h.render(c, http.StatusOK, "store_form.html", page(c, "Editar floristería", storeFormData{
		Action: storesPath + "/" + store.ID,
		Input:  model.StoreInputFrom(store),
		Logo:   store.Logo,
	}))
}

// Update submits changes to a store.
func (h *StoreHandler) Update(c echo.Context) error {
	id := c.Param("id")
	data := storeFormData{Action: storesPath + "/" + id, Logo: c.FormValue("logo_actual")}
	in, err := parseStoreForm(c)
	data.Input = in
	if err == nil {
		_, err = h.Resources.Stores.Update(c.Request().Context(), h.api(c), id, in)
	}
	if err != nil {
		return h.form(c, err, "store_form.html", "Editar floristería", data)
	}
	return redirect(c, storesPath, "Floristería actualizada")
}

// ConfirmDelete asks before deleting a store.
func (h *StoreHandler) ConfirmDelete(c echo.Context) error {
	store, err := h.Resources.Stores.GetOne(c.Request().Context(), h.api(c), c.Param("id"))
	if err != nil {
		return h.errorPage(c, err, storesPath)
	}
	return h.render(c, http.StatusOK, "confirm_delete.html", page(c, "Eliminar floristería", confirmData{
		Name:   store.Name,
		Action: storesPath + "/" + store.ID + "/eliminar",
		Cancel: storesPath,
	}))
}

// Delete removes a store after confirmation.
func (h *StoreHandler) Delete(c echo.Context) error {
	err := h.Resources.Stores.Remove(c.Request().Context(), h.api(c), c.Param("id"), confirmed(c))
	if err != nil {
		return h.deleteFailed(c, err, storesPath)
	}
	return redirect(c, storesPath, "Floristería eliminada")
}

// BulkDelete removes every selected store.
func (h *StoreHandler) BulkDelete(c echo.Context) error {
	ids := selectedIDs(c)
	if len(ids) == 0 {
		return redirectError(c, storesPath, nothingSelected)
	}
	res, err := h.Resources.Stores.BulkRemove(c.Request().Context(), h.api(c), ids, confirmed(c))
	if err != nil {
		return h.deleteFailed(c, err, storesPath)
	}
	return h.bulkDone(c, storesPath, len(res.Deleted), res.Total(), res.Failed)
}

type confirmData struct {
	Name   string
	Action string
	Cancel string
}

// deleteFailed returns to back with the failure as a banner.
func (b base) deleteFailed(c echo.Context, err error, back string) error {
	herr, handled, rerr := b.failure(c, err)
	if handled {
		return rerr
	}
	return redirectError(c, back, herr.Message)
}

func (b base) bulkDone(c echo.Context, back string, deleted, total int, failed map[string]error) error {
	for _, err := range failed {
		if _, handled, rerr := b.failure(c, err); handled {
			return rerr
		}
	}
	msg := fmt.Sprintf("%d de %d eliminados", deleted, total)
	if len(failed) > 0 {
		return redirectError(c, back, msg)
	}
	return redirect(c, back, msg)
}

const nothingSelected = "Selecciona al menos un elemento"

func selectedIDs(c echo.Context) []string {
	form, err := c.FormParams()
	if err != nil {
		return nil
	}
	return form["ids"]
}
