// Package mockapi is an in-process implementation of the marketplace REST
// backend. It backs the console's integration tests and cmd/devbackend.
package mockapi

import (
	"net/http"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"floradmin/internal/auth"
	"floradmin/internal/repository"
	"floradmin/internal/resource"
)

// BasePath prefixes every backend route.
const BasePath = "/api"

type failure struct {
	method string
	path   string
	status int
}

// Server is the backend double.
type Server struct {
	e          *echo.Echo
	jwt        *auth.JWTService
	stores     repository.StoreRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	log        *zap.SugaredLogger

	mu       sync.Mutex
	requests map[string]int
	failures []failure
}

// New builds the double over gormDB. The schema must already be migrated.
func New(gormDB *gorm.DB, jwtSecret string, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		e:          echo.New(),
		jwt:        auth.NewJWTService(jwtSecret),
		stores:     repository.NewStoreRepository(gormDB),
		products:   repository.NewProductRepository(gormDB),
		categories: repository.NewCategoryRepository(gormDB),
		users:      repository.NewUserRepository(gormDB),
		log:        log,
		requests:   make(map[string]int),
	}
	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.Validator = resource.NewValidator()
	s.routes()
	return s
}

// ServeHTTP lets the double be mounted on httptest.NewServer.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// Start listens on addr until the server fails.
func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) routes() {
	s.e.Use(middleware.Recover())
	s.e.Use(s.record)

	s.e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	s.e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := s.e.Group(BasePath)
	api.POST("/auth/login", s.login)

	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:    s.jwt.Secret(),
		NewClaimsFunc: func(echo.Context) jwt.Claims { return new(auth.Claims) },
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, errorBody{Message: "Token inválido o expirado"})
		},
	}))

	secured.GET("/floristerias", s.listStores)
	secured.GET("/floristerias/:id", s.getStore)
	secured.POST("/floristerias", s.createStore, adminOnly)
	secured.PUT("/floristerias/:id", s.updateStore, adminOnly)
	secured.DELETE("/floristerias/:id", s.deleteStore, adminOnly)

	secured.GET("/flores", s.listProducts)
	secured.GET("/flores/floristeria/:id", s.listStoreProducts)
	secured.GET("/flores/:id", s.getProduct)
	secured.POST("/flores", s.createProduct)
	secured.PUT("/flores/:id", s.updateProduct)
	secured.DELETE("/flores/:id", s.deleteProduct)

	secured.GET("/categorias", s.listCategories)
	secured.POST("/categorias", s.createCategory)

	secured.GET("/users", s.listUsers, adminOnly)
	secured.GET("/users/:id", s.getUser, adminOnly)
	secured.POST("/users", s.createUser, adminOnly)
	secured.DELETE("/users/:id", s.deleteUser, adminOnly)
}

// record counts requests and applies injected failures.
func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		s.mu.Lock()
		s.requests[req.Method+" "+req.URL.Path]++
		status := 0
		for _, f := range s.failures {
			if f.method == req.Method && f.path == req.URL.Path {
				status = f.status
				break
			}
		}
		s.mu.Unlock()

		if status != 0 {
			return c.JSON(status, errorBody{Message: "Error simulado"})
		}
		return next(c)
	}
}

// Fail makes method on path (including BasePath) answer with status until
// ClearFailures is called.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	s.failures = append(s.failures, failure{method: method, path: path, status: status})
	s.mu.Unlock()
}

// ClearFailures removes every injected failure.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	s.failures = nil
	s.mu.Unlock()
}

// Requests returns how many requests hit method and path.
func (s *Server) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+path]
}

// RequestsWithPrefix counts requests whose method and path start with
// prefix, e.g. "DELETE /api/flores/".
func (s *Server) RequestsWithPrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, v := range s.requests {
		if strings.HasPrefix(k, prefix) {
			n += v
		}
	}
	return n
}

// TotalRequests counts every request received.
func (s *Server) TotalRequests() int {
	return s.RequestsWithPrefix("")
}
