package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"floradmin/internal/model"
)

const usersPath = "/admin/usuarios"

// UserHandler manages console accounts.
type UserHandler struct {
	base
}

// NewUserHandler creates a new user handler.
func NewUserHandler(d Deps) *UserHandler {
	return &UserHandler{base: newBase(d)}
}

type userList struct {
	Items      []model.User
	StoreNames map[string]string
}

type userFormData struct {
	Input  model.UserInput
	Stores []model.Store
}

func storeNames(stores []model.Store) map[string]string {
	names := make(map[string]string, len(stores))
	for _, s := range stores {
		names[s.ID] = s.Name
	}
	return names
}

// List renders every user with the name of their store.
func (h *UserHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	api := h.api(c)
	items, err := h.Resources.Users.List(ctx, api, "")
	stores, serr := h.Resources.Stores.List(ctx, api, "")
	if err == nil {
		err = serr
	}
	p := page(c, "Usuarios", userList{Items: items, StoreNames: storeNames(stores)})
	if err != nil {
		herr, handled, rerr := h.failure(c, err)
		if handled {
			return rerr
		}
		p.Error = herr.Message
	}
	return h.render(c, http.StatusOK, "users.html", p)
}

// New renders the user form.
func (h *UserHandler) New(c echo.Context) error {
	stores, err := h.Resources.Stores.List(c.Request().Context(), h.api(c), "")
	p := page(c, "Crear usuario", userFormData{Input: model.UserInput{Role: model.RoleStoreUser}, Stores: stores})
	if err != nil {
		herr, handled, rerr := h.failure(c, err)
		if handled {
			return rerr
		}
		p.Error = herr.Message
	}
	return h.render(c, http.StatusOK, "user_form.html", p)
}

// Create submits a new user.
func (h *UserHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	in := parseUserForm(c)
	if _, err := h.Resources.Users.Create(ctx, h.api(c), in); err != nil {
		stores, _ := h.Resources.Stores.List(ctx, h.api(c), "")
		in.Password = ""
		return h.form(c, err, "user_form.html", "Crear usuario", userFormData{Input: in, Stores: stores})
	}
	return redirect(c, usersPath, "Usuario creado")
}

// ConfirmDelete asks before deleting a user.
func (h *UserHandler) ConfirmDelete(c echo.Context) error {
	user, err := h.Resources.Users.GetOne(c.Request().Context(), h.api(c), c.Param("id"))
	if err != nil {
		return h.errorPage(c, err, usersPath)
	}
	return h.render(c, http.StatusOK, "confirm_delete.html", page(c, "Eliminar usuario", confirmData{
		Name:   user.Username,
		Action: usersPath + "/" + user.ID + "/eliminar",
		Cancel: usersPath,
	}))
}

// Delete removes a user after confirmation.
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.Resources.Users.Remove(c.Request().Context(), h.api(c), c.Param("id"), confirmed(c)); err != nil {
		return h.deleteFailed(c, err, usersPath)
	}
	return redirect(c, usersPath, "Usuario eliminado")
}

// BulkDelete removes every selected user.
func (h *UserHandler) BulkDelete(c echo.Context) error {
	ids := selectedIDs(c)
	if len(ids) == 0 {
		return redirectError(c, usersPath, nothingSelected)
	}
	res, err := h.Resources.Users.BulkRemove(c.Request().Context(), h.api(c), ids, confirmed(c))
	if err != nil {
		return h.deleteFailed(c, err, usersPath)
	}
	return h.bulkDone(c, usersPath, len(res.Deleted), res.Total(), res.Failed)
}
