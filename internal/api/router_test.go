package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/service"
	"github.com/99minutos/ims-console/internal/infrastructure/db/memory"
	"github.com/99minutos/ims-console/internal/infrastructure/gateway"
)

func TestResolveError(t *testing.T) {
	e := echo.New()
	cases := []struct {
		name     string
		err      error
		code     int
		msg      string
		redirect string
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required", domain.RouteLogin},
		{"expired", fmt.Errorf("token: %w", domain.ErrSessionExpired), http.StatusUnauthorized, "session expired", domain.RouteLogin},
		{"validation", domain.Invalid("Please select a report type."), http.StatusUnprocessableEntity, "Please select a report type.", ""},
		{"busy", domain.ErrBusy, http.StatusConflict, domain.ErrBusy.Error(), ""},
		{"not found", domain.ErrNotFound, http.StatusNotFound, domain.ErrNotFound.Error(), ""},
		{"closed", domain.ErrViewClosed, http.StatusGone, domain.ErrViewClosed.Error(), ""},
		{"gateway", &gateway.Error{Op: "product.list", Status: 500, Message: "Stock service down"}, http.StatusBadGateway, "Stock service down", ""},
		{"gateway 401", &gateway.Error{Op: "auth.me", Status: 401, Message: "Unauthorized"}, http.StatusUnauthorized, "Unauthorized", domain.RouteLogin},
		{"echo", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload", ""},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			code, resp := resolveError(tc.err, zerolog.Nop(), c)
			if code != tc.code || resp.Error != tc.msg || resp.Redirect != tc.redirect {
				t.Fatalf("got %d %+v, want %d %q %q", code, resp, tc.code, tc.msg, tc.redirect)
			}
		})
	}
}

// The prometheus middleware registers its collectors globally, so the
// router is built once per test binary.
var (
	routerOnce sync.Once
	testRouter *echo.Echo
)

func router(t *testing.T) *echo.Echo {
	t.Helper()
	routerOnce.Do(func() {
		log := zerolog.Nop()
		sess := service.NewSessionStore(memory.NewStore(), log)
		nav := service.NewNavigation(domain.RouteLogin, log)
		views := service.NewViews(service.Gateways{}, service.ViewDeps{
			Session:   sess,
			Navigator: nav,
			Notify:    service.NotifierOptions{Display: time.Minute, Fade: time.Minute},
			Logger:    log,
		})
		testRouter = NewRouter(Deps{Views: views, Session: sess, Navigation: nav, Logger: log})
	})
	return testRouter
}

func TestRouter_UnauthenticatedRedirect(t *testing.T) {
	e := router(t)

	for _, target := range []string{"/api/products", "/api/orders", "/api/suppliers", "/api/reports", "/api/profile"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", target, rec.Code)
		}
		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: invalid json: %v", target, err)
		}
		if resp.Redirect != domain.RouteLogin {
			t.Fatalf("%s: expected redirect to login, got %+v", target, resp)
		}
	}
}

func TestRouter_RequireSessionGuard(t *testing.T) {
	e := router(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/products/form", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_ProbesAndDocs(t *testing.T) {
	e := router(t)

	for _, target := range []string{"/health", "/health/ready", "/metrics", "/swagger/doc.json"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, rec.Code)
		}
	}
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	e := router(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderXRequestID); got != "req-123" {
		t.Fatalf("request id = %q", got)
	}
}
