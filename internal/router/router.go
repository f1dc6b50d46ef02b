package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"floradmin/internal/config"
	"floradmin/internal/guard"
	"floradmin/internal/handler"
	"floradmin/internal/metrics"
	"floradmin/internal/model"
	"floradmin/internal/view"
)

// Handlers groups the console handlers.
type Handlers struct {
	Auth       *handler.AuthHandler
	Dashboard  *handler.DashboardHandler
	Stores     *handler.StoreHandler
	Products   *handler.ProductHandler
	Users      *handler.UserHandler
	Categories *handler.CategoryHandler
	Operations *handler.OperationsHandler
}

// NewHandlers builds every handler over shared deps.
func NewHandlers(d handler.Deps) Handlers {
	return Handlers{
		Auth:       handler.NewAuthHandler(d),
		Dashboard:  handler.NewDashboardHandler(d),
		Stores:     handler.NewStoreHandler(d),
		Products:   handler.NewProductHandler(d),
		Users:      handler.NewUserHandler(d),
		Categories: handler.NewCategoryHandler(d),
		Operations: handler.NewOperationsHandler(d),
	}
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.SugaredLogger,
	renderer *view.Renderer,
	sessions guard.SessionReader,
	collector *metrics.Collector,
	h Handlers,
) {
	e.Renderer = renderer
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				log.Errorw("request failed", append(fields, "error", v.Error)...)
				return nil
			}
			log.Infow("request", fields...)
			return nil
		},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(collector.Handler()))

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, guard.LoginPath)
	})
	e.GET(guard.LoginPath, h.Auth.ShowLogin)
	e.POST(guard.LoginPath, h.Auth.Login, loginLimiter(cfg.LoginRateLimit))
	e.POST("/logout", h.Auth.Logout)

	admin := e.Group(guard.AdminHome, guard.Require(sessions, model.RoleAdmin))
	admin.GET("", h.Dashboard.Admin)

	admin.GET("/floristerias", h.Stores.List)
	admin.GET("/floristerias/nuevo", h.Stores.New)
	admin.POST("/floristerias/nuevo", h.Stores.Create)
	admin.POST("/floristerias/eliminar", h.Stores.BulkDelete)
	admin.GET("/floristerias/:id", h.Stores.Edit)
	admin.POST("/floristerias/:id", h.Stores.Update)
	admin.GET("/floristerias/:id/eliminar", h.Stores.ConfirmDelete)
	admin.POST("/floristerias/:id/eliminar", h.Stores.Delete)

	admin.GET("/productos", h.Products.List)
	admin.GET("/productos/nuevo", h.Products.New)
	admin.POST("/productos/nuevo", h.Products.Create)
	admin.POST("/productos/eliminar", h.Products.BulkDelete)
	admin.GET("/productos/:id", h.Products.Edit)
	admin.POST("/productos/:id", h.Products.Update)
	admin.GET("/productos/:id/eliminar", h.Products.ConfirmDelete)
	admin.POST("/productos/:id/eliminar", h.Products.Delete)

	admin.GET("/usuarios", h.Users.List)
	admin.GET("/usuarios/nuevo", h.Users.New)
	admin.POST("/usuarios/nuevo", h.Users.Create)
	admin.POST("/usuarios/eliminar", h.Users.BulkDelete)
	admin.GET("/usuarios/:id/eliminar", h.Users.ConfirmDelete)
	admin.POST("/usuarios/:id/eliminar", h.Users.Delete)

	admin.GET("/categorias", h.Categories.List)
	admin.POST("/categorias", h.Categories.Create)

	admin.GET("/operaciones/:recurso", h.Operations.Snapshot)

	storeUser := e.Group(guard.StoreUserHome, guard.Require(sessions, model.RoleStoreUser))
	storeUser.GET("", h.Dashboard.StoreUser)
	storeUser.GET("/productos", h.Products.List)
	storeUser.GET("/productos/nuevo", h.Products.New)
	storeUser.POST("/productos/nuevo", h.Products.Create)
	storeUser.GET("/productos/:id", h.Products.Edit)
	storeUser.POST("/productos/:id", h.Products.Update)
	storeUser.GET("/productos/:id/eliminar", h.Products.ConfirmDelete)
	storeUser.POST("/productos/:id/eliminar", h.Products.Delete)
}

// loginLimiter throttles login attempts per client IP.
func loginLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.Render(http.StatusTooManyRequests, "login.html", view.Page{
				Title: "Iniciar sesión",
				Error: "Demasiados intentos, espera un momento e inténtalo de nuevo",
				Data:  struct{ Username string }{},
			})
		},
	})
}
