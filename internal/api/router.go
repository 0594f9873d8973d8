package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/ims-console/docs"
	"github.com/99minutos/ims-console/internal/api/handler"
	"github.com/99minutos/ims-console/internal/api/middleware"
	"github.com/99minutos/ims-console/internal/core/service"
)

// Deps are the long-lived console components served over HTTP.
type Deps struct {
	Views      *service.Views
	Session    *service.SessionStore
	Navigation *service.Navigation
	// Checks are pinged by the readiness probe, keyed by dependency name.
	Checks map[string]handler.Pinger
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestContext())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddleware("ims_console_http"))

	// --- Handlers ---
	nav := deps.Navigation
	sessionHandler := handler.NewSessionHandler(deps.Session, deps.Views, nav)
	productHandler := handler.NewProductHandler(deps.Views.Products, nav)
	orderHandler := handler.NewOrderHandler(deps.Views.Orders, nav)
	supplierHandler := handler.NewSupplierHandler(deps.Views.Suppliers, nav)
	reportHandler := handler.NewReportHandler(deps.Views.Reports, nav)
	navHandler := handler.NewNavigationHandler(nav)
	notificationHandler := handler.NewNotificationHandler(deps.Views, nav)
	requireSession := middleware.RequireSession(deps.Session)

	api := e.Group("/api")

	// --- Session routes ---
	api.GET("/session", sessionHandler.Session)
	api.POST("/login", sessionHandler.Login)
	api.POST("/signup", sessionHandler.SignUp)
	api.POST("/logout", sessionHandler.Logout)
	api.GET("/profile", sessionHandler.Profile)
	api.PUT("/profile", sessionHandler.UpdateProfile)
	api.GET("/profile/edit", sessionHandler.EditForm)

	api.GET("/navigation", navHandler.Current)
	api.GET("/navigation/next", navHandler.Wait)
	api.DELETE("/notifications/:view", notificationHandler.Dismiss)

	// --- Resource screens ---
	api.GET("/products", productHandler.List)
	api.POST("/products", productHandler.Create)
	api.PUT("/products/:id", productHandler.Update)
	api.DELETE("/products/:id", productHandler.Delete)
	api.POST("/products/form", productHandler.OpenForm, requireSession)
	api.DELETE("/products/form", productHandler.CloseForm)
	api.GET("/products/:id/description", productHandler.Describe, requireSession)
	api.DELETE("/products/description", productHandler.HideDescription)

	api.GET("/orders", orderHandler.List)
	api.POST("/orders", orderHandler.Create)
	api.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	api.POST("/orders/:id/advance", orderHandler.Advance)
	api.DELETE("/orders/:id", orderHandler.Cancel)
	api.POST("/orders/form", orderHandler.OpenForm, requireSession)
	api.DELETE("/orders/form", orderHandler.CloseForm)

	api.GET("/suppliers", supplierHandler.List)
	api.POST("/suppliers", supplierHandler.Create)
	api.PUT("/suppliers/:id", supplierHandler.Update)
	api.DELETE("/suppliers/:id", supplierHandler.Delete)
	api.POST("/suppliers/form", supplierHandler.OpenForm, requireSession)
	api.DELETE("/suppliers/form", supplierHandler.CloseForm)

	api.GET("/reports", reportHandler.Show)
	api.POST("/reports", reportHandler.Generate)
	api.PUT("/reports/form", reportHandler.UpdateForm, requireSession)
	api.GET("/reports/export", reportHandler.Export, requireSession)

	// --- Health probes, metrics and docs (no session required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
