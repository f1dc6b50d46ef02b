package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "floradmin/internal/errors"
	"floradmin/internal/resource"
)

// OperationsHandler exposes the state of in-flight resource operations.
type OperationsHandler struct {
	base
}

// NewOperationsHandler creates a new operations handler.
func NewOperationsHandler(d Deps) *OperationsHandler {
	return &OperationsHandler{base: newBase(d)}
}

// Snapshot returns the tracked operations of one resource as JSON. Finished
// operations are reported once and then return to idle.
func (h *OperationsHandler) Snapshot(c echo.Context) error {
	name := c.Param("recurso")
	var tracker *resource.Tracker
	switch name {
	case h.Resources.Stores.Name():
		tracker = h.Resources.Stores.Tracker()
	case h.Resources.Products.Name():
		tracker = h.Resources.Products.Tracker()
	case h.Resources.Categories.Name():
		tracker = h.Resources.Categories.Tracker()
	case h.Resources.Users.Name():
		tracker = h.Resources.Users.Tracker()
	default:
		herr := apperrors.NewHTTPError(http.StatusNotFound, "Recurso desconocido", "NOT_FOUND")
		return c.JSON(herr.StatusCode, herr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"resource":   name,
		"operations": tracker.Drain(),
	})
}
