package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/infrastructure/gateway"
)

type stubTokener struct{ err error }

func (s stubTokener) Token(context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "tok", nil
}

func TestRequireSession_Allows(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	called := false
	h := RequireSession(stubTokener{})(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestRequireSession_Rejects(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	h := RequireSession(stubTokener{err: domain.ErrSessionExpired})(func(c echo.Context) error {
		t.Fatalf("next must not run")
		return nil
	})
	if err := h(c); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestRequestContext_ForwardsID(t *testing.T) {
	var seen string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(gateway.RequestIDHeader)
		_, _ = w.Write([]byte("[]"))
	}))
	defer backend.Close()

	e := echo.New()
	e.Use(echomiddleware.RequestID())
	e.Use(RequestContext())
	e.GET("/", func(c echo.Context) error {
		products := gateway.NewProductGateway(gateway.NewClient("product", backend.URL))
		if _, err := products.List(c.Request().Context(), "tok"); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen != "abc" {
		t.Fatalf("backend saw request id %q", seen)
	}
}
