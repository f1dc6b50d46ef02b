package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floradmin/internal/apiclient"
	"floradmin/internal/cache"
	"floradmin/internal/config"
	"floradmin/internal/guard"
	"floradmin/internal/handler"
	"floradmin/internal/logger"
	"floradmin/internal/metrics"
	"floradmin/internal/mockapi"
	"floradmin/internal/model"
	"floradmin/internal/resource"
	"floradmin/internal/service"
	"floradmin/internal/session"
	"floradmin/internal/view"
)

type console struct {
	t        *testing.T
	url      string
	backend  *mockapi.Server
	api      string
	seed     *mockapi.SeedData
	sessions *session.Store
	http     *http.Client
}

func newConsole(t *testing.T, loginRate float64) *console {
	t.Helper()
	return newConsoleReconciling(t, loginRate, 0)
}

func newConsoleReconciling(t *testing.T, loginRate float64, reconcileDelay time.Duration) *console {
	t.Helper()

	backend, apiURL, seed := mockapi.RunT(t)
	mr := miniredis.RunT(t)
	cacheClient := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { cacheClient.Close() })

	log := logger.Nop()
	collector := metrics.New()
	sessions := session.NewStore(session.NewRedisBackend(cacheClient), time.Hour, log)
	clients := apiclient.NewFactory(apiURL, 5*time.Second, collector)
	resources := resource.NewSet(resource.Deps{
		Cache:          cacheClient,
		Log:            log,
		Metrics:        collector,
		CacheTTL:       30 * time.Second,
		ReconcileDelay: reconcileDelay,
	})
	renderer, err := view.New()
	require.NoError(t, err)

	cfg := &config.Config{LoginRateLimit: loginRate}
	e := echo.New()
	Register(e, cfg, log, renderer, sessions, collector, NewHandlers(handler.Deps{
		Clients:    clients,
		Auth:       service.NewAuthService(clients.Client(""), sessions, collector, log),
		Sessions:   sessions,
		Resources:  resources,
		Log:        log,
		SessionTTL: time.Hour,
	}))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	c := &console{
		t:        t,
		url:      srv.URL,
		backend:  backend,
		api:      apiURL,
		seed:     seed,
		sessions: sessions,
	}
	c.http = newBrowser(t)
	return c
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// browser returns a second user agent against the same console.
func (c *console) browser() *console {
	other := *c
	other.http = newBrowser(c.t)
	return &other
}

func (c *console) get(path string) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.Get(c.url + path)
	require.NoError(c.t, err)
	return resp, readBody(c.t, resp)
}

func (c *console) post(path string, form url.Values) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.PostForm(c.url+path, form)
	require.NoError(c.t, err)
	return resp, readBody(c.t, resp)
}

func (c *console) login(username string) *http.Response {
	c.t.Helper()
	resp, _ := c.post("/login", url.Values{"username": {username}, "password": {mockapi.TestPassword}})
	require.Equal(c.t, http.StatusSeeOther, resp.StatusCode)
	return resp
}

func (c *console) sessionID() string {
	u, _ := url.Parse(c.url)
	for _, ck := range c.http.Jar.Cookies(u) {
		if ck.Name == guard.CookieName {
			return ck.Value
		}
	}
	return ""
}

// backendAs returns a direct backend client logged in as username.
func (c *console) backendAs(username string) *apiclient.Client {
	c.t.Helper()
	f := apiclient.NewFactory(c.api, 5*time.Second, nil)
	res, err := f.Client("").Login(context.Background(), username, mockapi.TestPassword)
	require.NoError(c.t, err)
	return f.Client(res.Token)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func location(t *testing.T, resp *http.Response) string {
	t.Helper()
	loc, err := url.QueryUnescape(resp.Header.Get(echo.HeaderLocation))
	require.NoError(t, err)
	return loc
}

func TestGuard_LoginLandsOnRoleHome(t *testing.T) {
	c := newConsole(t, 0)

	resp, _ := c.get("/admin/floristerias")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?from=/admin/floristerias", location(t, resp))

	resp = c.login(mockapi.SeedStoreUser)
	assert.Equal(t, "/usuario", resp.Header.Get(echo.HeaderLocation))

	resp, _ = c.get("/admin/floristerias")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/usuario", resp.Header.Get(echo.HeaderLocation))

	resp, body := c.get("/usuario")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Flores del Paraíso")

	resp, _ = c.get("/login")
	assert.Equal(t, "/usuario", resp.Header.Get(echo.HeaderLocation))
}

func TestLogin_Failures(t *testing.T) {
	c := newConsole(t, 0)

	resp, body := c.post("/login", url.Values{"username": {"admin"}, "password": {"mala"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Usuario o contraseña incorrectos")
	assert.Contains(t, body, `value="admin"`)

	before := c.backend.Requests(http.MethodPost, mockapi.BasePath+"/auth/login")
	resp, _ = c.post("/login", url.Values{"username": {"  "}, "password": {""}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, before, c.backend.Requests(http.MethodPost, mockapi.BasePath+"/auth/login"))
	assert.Empty(t, c.sessionID())
}

func TestLogin_RotatesSessionAndLogout(t *testing.T) {
	c := newConsole(t, 0)

	c.login(mockapi.SeedAdmin)
	first := c.sessionID()
	require.NotEmpty(t, first)

	c.login(mockapi.SeedAdmin)
	second := c.sessionID()
	assert.NotEqual(t, first, second)
	_, ok := c.sessions.Current(context.Background(), first)
	assert.False(t, ok)

	resp, _ := c.post("/logout", nil)
	assert.Equal(t, guard.LoginPath, resp.Header.Get(echo.HeaderLocation))
	_, ok = c.sessions.Current(context.Background(), second)
	assert.False(t, ok)

	resp, _ = c.get("/admin")
	assert.Equal(t, "/login?from=/admin", location(t, resp))
}

func TestLogin_RateLimited(t *testing.T) {
	c := newConsole(t, 1)

	form := url.Values{"username": {"admin"}, "password": {"mala"}}
	resp, _ := c.post("/login", form)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := c.post("/login", form)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body, "Demasiados intentos")
}

func TestStores_CreateValidatesBeforeCallingBackend(t *testing.T) {
	c := newConsole(t, 0)
	c.login(mockapi.SeedAdmin)

	resp, body := c.post("/admin/floristerias/nuevo", url.Values{"descripcion": {"Sin nombre"}, "url": {"no es url"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Este campo es obligatorio")
	assert.Contains(t, body, "Debe ser una URL válida")
	assert.Contains(t, body, "Sin nombre")
	assert.Zero(t, c.backend.Requests(http.MethodPost, mockapi.BasePath+"/floristerias"))

	resp, _ = c.post("/admin/floristerias/nuevo", url.Values{"nombre": {"Lirios del Valle"}, "url": {"https://lirios.example"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/floristerias?aviso=Floristería creada", location(t, resp))

	_, body = c.get("/admin/floristerias")
	assert.Contains(t, body, "Lirios del Valle")
	assert.Contains(t, body, "Flores del Paraíso")
}

func TestStores_ListServedFromCacheUntilMutation(t *testing.T) {
	c := newConsole(t, 0)
	c.login(mockapi.SeedAdmin)

	c.get("/admin/floristerias")
	c.get("/admin/floristerias")
	assert.Equal(t, 1, c.backend.Requests(http.MethodGet, mockapi.BasePath+"/floristerias"))

	c.post("/admin/floristerias/nuevo", url.Values{"nombre": {"Nueva"}})
	_, body := c.get("/admin/floristerias")
	assert.Contains(t, body, "Nueva")
	assert.Equal(t, 2, c.backend.Requests(http.MethodGet, mockapi.BasePath+"/floristerias"))
}

func TestStores_DeleteRequiresConfirmation(t *testing.T) {
	c := newConsole(t, 0)
	c.login(mockapi.SeedAdmin)
	path := "/admin/floristerias/" + c.seed.StoreID + "/eliminar"

	resp, body := c.get(path)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Flores del Paraíso")

	resp, _ = c.post(path, nil)
	assert.Contains(t, location(t, resp), "Confirma la eliminación")
	assert.Zero(t, c.backend.RequestsWithPrefix("DELETE "))

	resp, _ = c.post(path, url.Values{"confirmar": {"1"}})
	assert.Equal(t, "/admin/floristerias?aviso=Floristería eliminada", location(t, resp))

	resp, _ = c.get("/admin/floristerias/" + c.seed.StoreID)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_BulkDeleteReportsPartialFailure(t *testing.T) {
	c := newConsole(t, 0)
	admin := c.backendAs(mockapi.SeedAdmin)

	ids := append([]string(nil), c.seed.ProductIDs...)
	for _, name := range []string{"Lirios", "Tulipanes", "Orquídea"} {
		var p model.Product
		require.NoError(t, admin.Do(context.Background(), http.MethodPost, "/flores", apiclient.Multipart(url.Values{
			"nombre": {name}, "descripcion": {"x"}, "precio": {"10"}, "stock": {"1"},
			"floristeria": {c.seed.StoreID}, "categorias": {c.seed.CategoryIDs[0]},
		}, nil), &p))
		ids = append(ids, p.ID)
	}
	c.backend.Fail(http.MethodDelete, mockapi.BasePath+"/flores/"+ids[0], http.StatusInternalServerError)
	c.backend.Fail(http.MethodDelete, mockapi.BasePath+"/flores/"+ids[2], http.StatusInternalServerError)

	c.login(mockapi.SeedAdmin)
	resp, _ := c.post("/admin/productos/eliminar", url.Values{"ids": ids, "confirmar": {"1"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/productos?error=3 de 5 eliminados", location(t, resp))
	assert.Equal(t, 5, c.backend.RequestsWithPrefix("DELETE "+mockapi.BasePath+"/flores/"))

	_, body := c.get("/admin/productos")
	assert.Contains(t, body, "Ramo de rosas rojas")
	assert.Contains(t, body, "Lirios")
	assert.NotContains(t, body, "Tulipanes")
	assert.NotContains(t, body, "Orquídea")
}

func TestProducts_CreateKeepsValuesOnValidationError(t *testing.T) {
	c := newConsole(t, 0)
	c.login(mockapi.SeedAdmin)

	resp, body := c.post("/admin/productos/nuevo", url.Values{
		"nombre": {"Ramo"}, "descripcion": {"Rosas"}, "precio": {"caro"}, "stock": {"2"},
		"floristeria": {c.seed.StoreID},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Debe ser un número")
	assert.Contains(t, body, "Selecciona al menos 1")
	assert.Contains(t, body, `value="caro"`)
	assert.Zero(t, c.backend.Requests(http.MethodPost, mockapi.BasePath+"/flores"))

	resp, _ = c.post("/admin/productos/nuevo", url.Values{
		"nombre": {"Ramo"}, "descripcion": {"Rosas"}, "precio": {"0"}, "stock": {"0"},
		"floristeria": {c.seed.StoreID}, "categorias": {c.seed.CategoryIDs[0], c.seed.CategoryIDs[1]},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 1, c.backend.Requests(http.MethodPost, mockapi.BasePath+"/flores"))
}

func TestStoreUser_IsScopedToOwnStore(t *testing.T) {
	c := newConsole(t, 0)
	admin := c.backendAs(mockapi.SeedAdmin)
	ctx := context.Background()

	var other model.Store
	require.NoError(t, admin.Do(ctx, http.MethodPost, "/floristerias", apiclient.JSON(model.StoreInput{Name: "Ajena"}), &other))
	var foreign model.Product
	require.NoError(t, admin.Do(ctx, http.MethodPost, "/flores", apiclient.Multipart(url.Values{
		"nombre": {"Producto ajeno"}, "descripcion": {"x"}, "precio": {"5"}, "stock": {"1"},
		"floristeria": {other.ID}, "categorias": {c.seed.CategoryIDs[0]},
	}, nil), &foreign))

	c.login(mockapi.SeedStoreUser)

	_, body := c.get("/usuario/productos")
	assert.Contains(t, body, "Ramo de rosas rojas")
	assert.NotContains(t, body, "Producto ajeno")

	resp, _ := c.get("/usuario/productos/" + foreign.ID)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = c.post("/usuario/productos/"+foreign.ID+"/eliminar", url.Values{"confirmar": {"1"}})
	assert.Contains(t, location(t, resp), "No se encontró")
	assert.Zero(t, c.backend.RequestsWithPrefix("DELETE "))

	resp, _ = c.post("/usuario/productos/nuevo", url.Values{
		"nombre": {"Girasoles"}, "descripcion": {"Amarillos"}, "precio": {"9.90"}, "stock": {"4"},
		"floristeria": {other.ID}, "categorias": {c.seed.CategoryIDs[1]},
	})
	assert.Equal(t, "/usuario/productos?aviso=Arreglo creado", location(t, resp))

	var mine []model.Product
	require.NoError(t, admin.Do(ctx, http.MethodGet, "/flores/floristeria/"+c.seed.StoreID, nil, &mine))
	names := make([]string, 0, len(mine))
	for _, p := range mine {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "Girasoles")
}

func TestStoreUserDeleteKeepsAdminListComplete(t *testing.T) {
	c := newConsoleReconciling(t, 0, 20*time.Millisecond)
	ctx := context.Background()
	api := c.backendAs(mockapi.SeedAdmin)

	var other model.Store
	require.NoError(t, api.Do(ctx, http.MethodPost, "/floristerias", apiclient.JSON(model.StoreInput{Name: "Ajena"}), &other))
	require.NoError(t, api.Do(ctx, http.MethodPost, "/flores", apiclient.Multipart(url.Values{
		"nombre": {"Producto ajeno"}, "descripcion": {"x"}, "precio": {"5"}, "stock": {"1"},
		"floristeria": {other.ID}, "categorias": {c.seed.CategoryIDs[0]},
	}, nil), nil))

	admin := c.browser()
	admin.login(mockapi.SeedAdmin)
	_, body := admin.get("/admin/productos")
	require.Contains(t, body, "Producto ajeno")
	require.Contains(t, body, "Ramo de rosas rojas")

	c.login(mockapi.SeedStoreUser)
	c.get("/usuario/productos")
	resp, _ := c.post("/usuario/productos/"+c.seed.ProductIDs[0]+"/eliminar", url.Values{"confirmar": {"1"}})
	require.Equal(t, "/usuario/productos?aviso=Arreglo eliminado", location(t, resp))

	storeList := mockapi.BasePath + "/flores/floristeria/" + c.seed.StoreID
	require.Eventually(t, func() bool {
		return c.backend.Requests(http.MethodGet, storeList) >= 2
	}, time.Second, 5*time.Millisecond, "reconcile refreshes the store user's list")
	time.Sleep(50 * time.Millisecond)

	_, body = admin.get("/admin/productos")
	assert.Contains(t, body, "Producto ajeno")
	assert.Contains(t, body, "Centro de mesa nupcial")
	assert.NotContains(t, body, "Ramo de rosas rojas")
}

func TestBackendUnauthorizedLogsOut(t *testing.T) {
	c := newConsole(t, 0)
	c.login(mockapi.SeedAdmin)
	sid := c.sessionID()

	c.backend.Fail(http.MethodGet, mockapi.BasePath+"/users", http.StatusUnauthorized)
	resp, _ := c.get("/admin/usuarios")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, guard.LoginPath, resp.Header.Get(echo.HeaderLocation))

	_, ok := c.sessions.Current(context.Background(), sid)
	assert.False(t, ok)
	resp, _ = c.get("/admin")
	assert.Equal(t, "/login?from=/admin", location(t, resp))
}

func TestBackendFailureKeepsPreviousList(t *testing.T) {
	c := newConsole(t, 0)
	c.login(mockapi.SeedAdmin)

	_, body := c.get("/admin/usuarios")
	assert.Contains(t, body, mockapi.SeedStoreUser)

	// A new user invalidates the cached list so the next read hits the backend.
	c.post("/admin/usuarios/nuevo", url.Values{"username": {"maria"}, "password": {"secreto"}, "role": {"admin"}})
	c.backend.Fail(http.MethodGet, mockapi.BasePath+"/users", http.StatusInternalServerError)

	resp, body := c.get("/admin/usuarios")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Error simulado")
	assert.Contains(t, body, mockapi.SeedStoreUser)
}

func TestCategories_InlineCreateReturnsToForm(t *testing.T) {
	c := newConsole(t, 0)
	c.login(mockapi.SeedAdmin)

	resp, _ := c.post("/admin/categorias", url.Values{"nombre": {"Tulipanes"}, "volver": {"/admin/productos/nuevo"}})
	assert.Equal(t, "/admin/productos/nuevo?aviso=Categoría creada", location(t, resp))

	_, body := c.get("/admin/productos/nuevo")
	assert.Contains(t, body, "Tulipanes")

	resp, _ = c.post("/admin/categorias", url.Values{"nombre": {"X"}, "volver": {"https://evil.example"}})
	assert.Equal(t, "/admin/categorias?aviso=Categoría creada", location(t, resp))
}

func operations(t *testing.T, c *console, res string) map[string]resource.Status {
	t.Helper()
	resp, body := c.get("/admin/operaciones/" + res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Resource   string                     `json:"resource"`
		Operations map[string]resource.Status `json:"operations"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, res, out.Resource)
	return out.Operations
}

func TestOperationsSnapshot(t *testing.T) {
	c := newConsole(t, 0)
	c.login(mockapi.SeedAdmin)
	c.get("/admin/productos")
	c.get("/admin/productos")

	ops := operations(t, c, "flores")
	var lists int
	for key, st := range ops {
		if strings.HasPrefix(key, resource.ListKey+"#") {
			lists++
			assert.Equal(t, resource.StateSuccess, st.State)
		}
	}
	assert.Equal(t, 2, lists, "each list call is tracked on its own key")

	assert.Empty(t, operations(t, c, "flores"), "reported results return to idle")

	productID := c.seed.ProductIDs[0]
	c.post("/admin/productos/"+productID+"/eliminar", url.Values{"confirmar": {"1"}})
	ops = operations(t, c, "flores")
	assert.Equal(t, resource.StateSuccess, ops[productID].State)
	assert.NotContains(t, operations(t, c, "flores"), productID)

	resp, _ := c.get("/admin/operaciones/pedidos")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	c := newConsole(t, 0)
	c.login(mockapi.SeedAdmin)

	resp, body := c.get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	_, body = c.get("/metrics")
	assert.True(t, strings.Contains(body, `floradmin_logins_total{outcome="success"} 1`), body)
}
