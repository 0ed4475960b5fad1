package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"planora/internal/auth"
	"planora/internal/config"
	"planora/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	eventHandler *handler.EventHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	// The SPA frontend runs on its own origin.
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/users/register", authHandler.Register)
	api.POST("/users/login", authHandler.Login)

	// Secured routes: the middleware verifies signature and expiry and
	// attaches the parsed claims before any resource handler runs.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/users/me", authHandler.Me)

	secured.GET("/tasks", taskHandler.List)
	secured.POST("/tasks", taskHandler.Create)
	secured.PUT("/tasks/:id", taskHandler.Update)
	secured.DELETE("/tasks/:id", taskHandler.Delete)

	secured.GET("/events", eventHandler.List)
	secured.POST("/events", eventHandler.Create)
	secured.PUT("/events/:id", eventHandler.Update)
	secured.DELETE("/events/:id", eventHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
