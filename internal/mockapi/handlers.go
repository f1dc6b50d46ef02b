package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"floradmin/internal/auth"
	"floradmin/internal/model"
	"floradmin/internal/resource"
)

const bcryptCost = 10

type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func claimsFrom(c echo.Context) *auth.Claims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, _ := token.Claims.(*auth.Claims)
	return claims
}

func adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := claimsFrom(c)
		if claims == nil || claims.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, errorBody{Message: "Acceso restringido a administradores"})
		}
		return next(c)
	}
}

func (s *Server) fail(c echo.Context, err error, notFound string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, errorBody{Message: notFound})
	}
	var verr *resource.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "Datos inválidos", Errors: verr.Fields})
	}
	s.log.Errorw("backend double failure", "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, errorBody{Message: "Error interno"})
}

func invalid(c echo.Context, field, msg string) error {
	return c.JSON(http.StatusBadRequest, errorBody{Message: msg, Errors: map[string]string{field: msg}})
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

func decodeJSON(c echo.Context, v interface{}) error {
	if err := json.NewDecoder(c.Request().Body).Decode(v); err != nil {
		return &resource.ValidationError{Fields: map[string]string{"": "JSON inválido"}}
	}
	return nil
}

// uploadPath returns where the file under field would be served from. The
// file itself is not kept.
func uploadPath(c echo.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if fh.Size > model.MaxImageSize {
		return "", &resource.ValidationError{Fields: map[string]string{field: "La imagen supera el máximo de 5 MB"}}
	}
	return "/uploads/" + uuid.NewString() + path.Ext(fh.Filename), nil
}

// login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errorBody
// @Failure 401 {object} errorBody
// @Router /auth/login [post]
func (s *Server) login(c echo.Context) error {
	var req LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return s.fail(c, err, "")
	}
	if err := c.Validate(&req); err != nil {
		return s.fail(c, err, "")
	}

	user, err := s.users.FindByUsername(c.Request().Context(), req.Username)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorBody{Message: "Credenciales inválidas"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, errorBody{Message: "Credenciales inválidas"})
	}

	token, err := s.jwt.GenerateAccessToken(*user)
	if err != nil {
		return s.fail(c, err, "")
	}
	return c.JSON(http.StatusOK, LoginResponse{Token: token, User: *user})
}

// listStores godoc
// @Summary List stores
// @Tags floristerias
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Store
// @Router /floristerias [get]
func (s *Server) listStores(c echo.Context) error {
	stores, err := s.stores.List(c.Request().Context())
	if err != nil {
		return s.fail(c, err, "Floristería no encontrada")
	}
	return c.JSON(http.StatusOK, stores)
}

// getStore godoc
// @Summary Get store
// @Tags floristerias
// @Produce json
// @Security BearerAuth
// @Param id path string true "Store ID"
// @Success 200 {object} model.Store
// @Failure 404 {object} errorBody
// @Router /floristerias/{id} [get]
func (s *Server) getStore(c echo.Context) error {
	store, err := s.stores.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Floristería no encontrada")
	}
	return c.JSON(http.StatusOK, store)
}

func (s *Server) storeInput(c echo.Context) (model.StoreInput, string, error) {
	var in model.StoreInput
	var logo string
	if isMultipart(c) {
		in.Name = c.FormValue("nombre")
		in.Description = c.FormValue("descripcion")
		in.URL = c.FormValue("url")
		p, err := uploadPath(c, "logo")
		if err != nil {
			return in, "", err
		}
		logo = p
	} else if err := decodeJSON(c, &in); err != nil {
		return in, "", err
	}
	if err := c.Validate(&in); err != nil {
		return in, "", err
	}
	return in, logo, nil
}

// createStore godoc
// @Summary Create store
// @Tags floristerias
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body model.StoreInput true "Store"
// @Success 201 {object} model.Store
// @Failure 400 {object} errorBody
// @Failure 403 {object} errorBody
// @Router /floristerias [post]
func (s *Server) createStore(c echo.Context) error {
	in, logo, err := s.storeInput(c)
	if err != nil {
		return s.fail(c, err, "Floristería no encontrada")
	}
	store := &model.Store{Name: in.Name, Description: in.Description, URL: in.URL, Logo: logo}
	if err := s.stores.Create(c.Request().Context(), store); err != nil {
		return s.fail(c, err, "Floristería no encontrada")
	}
	return c.JSON(http.StatusCreated, store)
}

// updateStore godoc
// @Summary Update store
// @Tags floristerias
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Store ID"
// @Param request body model.StoreInput true "Store"
// @Success 200 {object} model.Store
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /floristerias/{id} [put]
func (s *Server) updateStore(c echo.Context) error {
	ctx := c.Request().Context()
	store, err := s.stores.FindByID(ctx, c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Floristería no encontrada")
	}
	in, logo, err := s.storeInput(c)
	if err != nil {
		return s.fail(c, err, "Floristería no encontrada")
	}
	store.Name, store.Description, store.URL = in.Name, in.Description, in.URL
	if logo != "" {
		store.Logo = logo
	}
	if err := s.stores.Update(ctx, store); err != nil {
		return s.fail(c, err, "Floristería no encontrada")
	}
	return c.JSON(http.StatusOK, store)
}

// deleteStore godoc
// @Summary Delete store and its products
// @Tags floristerias
// @Security BearerAuth
// @Param id path string true "Store ID"
// @Success 204
// @Failure 404 {object} errorBody
// @Router /floristerias/{id} [delete]
func (s *Server) deleteStore(c echo.Context) error {
	if err := s.stores.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return s.fail(c, err, "Floristería no encontrada")
	}
	return c.NoContent(http.StatusNoContent)
}

// listProducts godoc
// @Summary List products; store users only see their store
// @Tags flores
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Product
// @Router /flores [get]
func (s *Server) listProducts(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		products []model.Product
		err      error
	)
	if claims := claimsFrom(c); claims != nil && claims.Role == model.RoleStoreUser {
		products, err = s.products.ListByStore(ctx, claims.StoreID)
	} else {
		products, err = s.products.List(ctx)
	}
	if err != nil {
		return s.fail(c, err, "Producto no encontrado")
	}
	return c.JSON(http.StatusOK, products)
}

// listStoreProducts godoc
// @Summary List the products of one store
// @Tags flores
// @Produce json
// @Security BearerAuth
// @Param id path string true "Store ID"
// @Success 200 {array} model.Product
// @Failure 403 {object} errorBody
// @Router /flores/floristeria/{id} [get]
func (s *Server) listStoreProducts(c echo.Context) error {
	storeID := c.Param("id")
	if !canManageStore(claimsFrom(c), storeID) {
		return c.JSON(http.StatusForbidden, errorBody{Message: "No puedes ver productos de otra floristería"})
	}
	products, err := s.products.ListByStore(c.Request().Context(), storeID)
	if err != nil {
		return s.fail(c, err, "Producto no encontrado")
	}
	return c.JSON(http.StatusOK, products)
}

// getProduct godoc
// @Summary Get product
// @Tags flores
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errorBody
// @Router /flores/{id} [get]
func (s *Server) getProduct(c echo.Context) error {
	product, err := s.products.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Producto no encontrado")
	}
	return c.JSON(http.StatusOK, product)
}

func canManageStore(claims *auth.Claims, storeID string) bool {
	if claims == nil {
		return false
	}
	return claims.Role == model.RoleAdmin || claims.StoreID == storeID
}

func (s *Server) productInput(c echo.Context) (model.ProductInput, string, error) {
	var in model.ProductInput
	var image string
	if isMultipart(c) {
		form, err := c.FormParams()
		if err != nil {
			return in, "", err
		}
		in.Name = form.Get("nombre")
		in.Description = form.Get("descripcion")
		in.StoreID = form.Get("floristeria")
		in.CategoryIDs = form["categorias"]
		if v := form.Get("precio"); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return in, "", &resource.ValidationError{Fields: map[string]string{"precio": "Debe ser un número"}}
			}
			in.Price = &d
		}
		if v := form.Get("stock"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return in, "", &resource.ValidationError{Fields: map[string]string{"stock": "Debe ser un número entero"}}
			}
			in.Stock = &n
		}
		if image, err = uploadPath(c, "imagen"); err != nil {
			return in, "", err
		}
	} else if err := decodeJSON(c, &in); err != nil {
		return in, "", err
	}

	if claims := claimsFrom(c); claims != nil && claims.Role == model.RoleStoreUser {
		in.StoreID = claims.StoreID
	}
	if err := c.Validate(&in); err != nil {
		return in, "", err
	}
	return in, image, nil
}

func (s *Server) checkProductRefs(c echo.Context, in model.ProductInput) error {
	ctx := c.Request().Context()
	if _, err := s.stores.FindByID(ctx, in.StoreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &resource.ValidationError{Fields: map[string]string{"floristeria": "Floristería inexistente"}}
		}
		return err
	}
	unique := make(map[string]bool, len(in.CategoryIDs))
	ids := make([]string, 0, len(in.CategoryIDs))
	for _, id := range in.CategoryIDs {
		if !unique[id] {
			unique[id] = true
			ids = append(ids, id)
		}
	}
	n, err := s.categories.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if int(n) != len(ids) {
		return &resource.ValidationError{Fields: map[string]string{"categorias": "Categoría inexistente"}}
	}
	return nil
}

func refs(ids []string) model.Refs {
	out := make(model.Refs, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Ref(id))
	}
	return out
}

// createProduct godoc
// @Summary Create product
// @Tags flores
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body model.ProductInput true "Product"
// @Success 201 {object} model.Product
// @Failure 400 {object} errorBody
// @Router /flores [post]
func (s *Server) createProduct(c echo.Context) error {
	in, image, err := s.productInput(c)
	if err != nil {
		return s.fail(c, err, "Producto no encontrado")
	}
	if err := s.checkProductRefs(c, in); err != nil {
		return s.fail(c, err, "Producto no encontrado")
	}
	product := &model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       *in.Price,
		Stock:       *in.Stock,
		StoreID:     model.Ref(in.StoreID),
		CategoryIDs: refs(in.CategoryIDs),
		Image:       image,
	}
	if err := s.products.Create(c.Request().Context(), product); err != nil {
		return s.fail(c, err, "Producto no encontrado")
	}
	return c.JSON(http.StatusCreated, product)
}

// updateProduct godoc
// @Summary Update product
// @Tags flores
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body model.ProductInput true "Product"
// @Success 200 {object} model.Product
// @Failure 400 {object} errorBody
// @Failure 403 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /flores/{id} [put]
func (s *Server) updateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	product, err := s.products.FindByID(ctx, c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Producto no encontrado")
	}
	if !canManageStore(claimsFrom(c), product.StoreID.String()) {
		return c.JSON(http.StatusForbidden, errorBody{Message: "El producto pertenece a otra floristería"})
	}
	in, image, err := s.productInput(c)
	if err != nil {
		return s.fail(c, err, "Producto no encontrado")
	}
	if err := s.checkProductRefs(c, in); err != nil {
		return s.fail(c, err, "Producto no encontrado")
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = *in.Price
	product.Stock = *in.Stock
	product.StoreID = model.Ref(in.StoreID)
	product.CategoryIDs = refs(in.CategoryIDs)
	if image != "" {
		product.Image = image
	}
	if err := s.products.Update(ctx, product); err != nil {
		return s.fail(c, err, "Producto no encontrado")
	}
	return c.JSON(http.StatusOK, product)
}

// deleteProduct godoc
// @Summary Delete product
// @Tags flores
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Failure 403 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /flores/{id} [delete]
func (s *Server) deleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	product, err := s.products.FindByID(ctx, c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Producto no encontrado")
	}
	if !canManageStore(claimsFrom(c), product.StoreID.String()) {
		return c.JSON(http.StatusForbidden, errorBody{Message: "El producto pertenece a otra floristería"})
	}
	if err := s.products.Delete(ctx, product.ID); err != nil {
		return s.fail(c, err, "Producto no encontrado")
	}
	return c.NoContent(http.StatusNoContent)
}

// listCategories godoc
// @Summary List categories
// @Tags categorias
// @Produce json
// @Security BearerAuth
// @Param floristeria query string false "Store ID; includes shared categories"
// @Success 200 {array} model.Category
// @Router /categorias [get]
func (s *Server) listCategories(c echo.Context) error {
	categories, err := s.categories.List(c.Request().Context(), c.QueryParam("floristeria"))
	if err != nil {
		return s.fail(c, err, "Categoría no encontrada")
	}
	return c.JSON(http.StatusOK, categories)
}

// createCategory godoc
// @Summary Create category
// @Tags categorias
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CategoryInput true "Category"
// @Success 201 {object} model.Category
// @Failure 400 {object} errorBody
// @Router /categorias [post]
func (s *Server) createCategory(c echo.Context) error {
	var in model.CategoryInput
	if err := decodeJSON(c, &in); err != nil {
		return s.fail(c, err, "Categoría no encontrada")
	}
	if err := c.Validate(&in); err != nil {
		return s.fail(c, err, "Categoría no encontrada")
	}
	if claims := claimsFrom(c); claims != nil && claims.Role == model.RoleStoreUser {
		in.StoreID = claims.StoreID
	}
	category := &model.Category{
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		StoreID:     model.Ref(in.StoreID),
	}
	if err := s.categories.Create(c.Request().Context(), category); err != nil {
		return s.fail(c, err, "Categoría no encontrada")
	}
	return c.JSON(http.StatusCreated, category)
}

// listUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errorBody
// @Router /users [get]
func (s *Server) listUsers(c echo.Context) error {
	users, err := s.users.List(c.Request().Context())
	if err != nil {
		return s.fail(c, err, "Usuario no encontrado")
	}
	return c.JSON(http.StatusOK, users)
}

// getUser godoc
// @Summary Get user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errorBody
// @Router /users/{id} [get]
func (s *Server) getUser(c echo.Context) error {
	user, err := s.users.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Usuario no encontrado")
	}
	return c.JSON(http.StatusOK, user)
}

// createUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UserInput true "User"
// @Success 201 {object} model.User
// @Failure 400 {object} errorBody
// @Failure 409 {object} errorBody
// @Router /users [post]
func (s *Server) createUser(c echo.Context) error {
	ctx := c.Request().Context()
	var in model.UserInput
	if err := decodeJSON(c, &in); err != nil {
		return s.fail(c, err, "Usuario no encontrado")
	}
	if err := c.Validate(&in); err != nil {
		return s.fail(c, err, "Usuario no encontrado")
	}
	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return c.JSON(http.StatusConflict, errorBody{Message: "El nombre de usuario ya existe"})
	}
	if in.Role == model.RoleStoreUser {
		if _, err := s.stores.FindByID(ctx, in.StoreID); err != nil {
			return invalid(c, "floristeria", "Floristería inexistente")
		}
	} else {
		in.StoreID = ""
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return s.fail(c, err, "Usuario no encontrado")
	}
	user := &model.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         in.Role,
		StoreID:      model.Ref(in.StoreID),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return s.fail(c, err, "Usuario no encontrado")
	}
	return c.JSON(http.StatusCreated, user)
}

// deleteUser godoc
// @Summary Delete user
// @Tags users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /users/{id} [delete]
func (s *Server) deleteUser(c echo.Context) error {
	id := c.Param("id")
	if claims := claimsFrom(c); claims != nil && claims.UserID == id {
		return invalid(c, "", "No puedes eliminar tu propia cuenta")
	}
	if err := s.users.Delete(c.Request().Context(), id); err != nil {
		return s.fail(c, err, "Usuario no encontrado")
	}
	return c.NoContent(http.StatusNoContent)
}
