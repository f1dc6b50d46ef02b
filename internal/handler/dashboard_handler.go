package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"floradmin/internal/model"
)

// DashboardHandler serves the home page of each role.
type DashboardHandler struct {
	base
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(d Deps) *DashboardHandler {
	return &DashboardHandler{base: newBase(d)}
}

// Admin renders the administrator home.
func (h *DashboardHandler) Admin(c echo.Context) error {
	return h.render(c, http.StatusOK, "dashboard_admin.html", page(c, "Panel Admin", nil))
}

type storeUserHome struct {
	Store model.Store
}

// StoreUser renders the store user home with the assigned store.
func (h *DashboardHandler) StoreUser(c echo.Context) error {
	p := page(c, "Panel Usuario", nil)
	store, err := h.Resources.Stores.GetOne(c.Request().Context(), h.api(c), sessionOf(c).Identity.StoreID)
	if err != nil {
		herr, handled, rerr := h.failure(c, err)
		if handled {
			return rerr
		}
		p.Error = herr.Message
	}
	p.Data = storeUserHome{Store: store}
	return h.render(c, http.StatusOK, "dashboard_usuario.html", p)
}
