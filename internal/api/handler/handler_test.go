package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
	"github.com/99minutos/ims-console/internal/core/service"
	"github.com/99minutos/ims-console/internal/infrastructure/db/memory"
)

// --- Stubs ---

type stubAuth struct {
	login   func(username, password string) (*ports.LoginResult, error)
	updated *ports.ProfileUpdateInput
	image   []byte
}

func (s *stubAuth) Login(_ context.Context, u, p string) (*ports.LoginResult, error) {
	return s.login(u, p)
}

func (s *stubAuth) Register(context.Context, ports.RegisterInput) (string, error) {
	return "Registered!", nil
}

func (s *stubAuth) UpdateProfile(_ context.Context, _ string, in ports.ProfileUpdateInput) (*ports.Profile, error) {
	s.updated = &in
	if in.Image != nil {
		s.image, _ = io.ReadAll(in.Image.Content)
	}
	return &ports.Profile{}, nil
}

func (s *stubAuth) Me(context.Context, string) (*ports.Profile, error) {
	return &ports.Profile{Username: "ana", Email: "ana@x.io"}, nil
}

type stubProducts struct {
	list    []domain.Product
	updated int64
}

func (s *stubProducts) List(context.Context, string) ([]domain.Product, error) {
	return s.list, nil
}

func (s *stubProducts) Create(context.Context, string, domain.ProductInput) error { return nil }

func (s *stubProducts) Update(_ context.Context, _ string, id int64, _ domain.ProductInput) error {
	s.updated = id
	return nil
}

func (s *stubProducts) Delete(context.Context, string, int64) error { return nil }

type stubOrders struct {
	list     []domain.Order
	statuses map[int64]domain.OrderStatus
}

func (s *stubOrders) List(context.Context, string) ([]domain.Order, error) { return s.list, nil }

func (s *stubOrders) Create(context.Context, string, domain.OrderInput) error { return nil }

func (s *stubOrders) UpdateStatus(_ context.Context, _ string, id int64, st domain.OrderStatus) error {
	s.statuses[id] = st
	return nil
}

func (s *stubOrders) Delete(context.Context, string, int64) error { return nil }

func (s *stubOrders) PriceOf(context.Context, string, int64) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubOrders) TotalOf(context.Context, string, int64) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubSuppliers struct{}

func (stubSuppliers) List(context.Context, string) ([]domain.Supplier, error) { return nil, nil }

func (stubSuppliers) Create(context.Context, string, domain.SupplierInput) error { return nil }

func (stubSuppliers) Update(context.Context, string, int64, domain.SupplierInput) error { return nil }

func (stubSuppliers) Delete(context.Context, string, int64) error { return nil }

type stubReports struct{}

func (stubReports) Generate(_ context.Context, _ string, q domain.ReportQuery) (*domain.Report, error) {
	return &domain.Report{Type: q.Type, Suppliers: []domain.SupplierRow{{SupplierID: 1, Name: "Acme"}}}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// --- Helpers ---

type fixture struct {
	e        *echo.Echo
	session  *service.SessionStore
	nav      *service.Navigation
	views    *service.Views
	auth     *stubAuth
	products *stubProducts
	orders   *stubOrders
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zerolog.Nop()
	sess := service.NewSessionStore(memory.NewStore(), log)
	nav := service.NewNavigation(domain.RouteLogin, log)
	auth := &stubAuth{login: func(u, _ string) (*ports.LoginResult, error) {
		return &ports.LoginResult{Token: "tok", Username: u, Email: u + "@x.io"}, nil
	}}
	products := &stubProducts{list: []domain.Product{{ID: 3, Name: "Widget", Price: decimal.NewFromInt(5), ImageURL: "/w.png"}}}
	orders := &stubOrders{
		list:     []domain.Order{{OrderID: 9, ProductName: "Widget", Status: "Pending"}},
		statuses: map[int64]domain.OrderStatus{},
	}
	views := service.NewViews(service.Gateways{
		Auth:      auth,
		Products:  products,
		Orders:    orders,
		Suppliers: stubSuppliers{},
		Reports:   stubReports{},
	}, service.ViewDeps{
		Session:   sess,
		Navigator: nav,
		Notify:    service.NotifierOptions{Display: time.Minute, Fade: time.Minute},
		Logger:    log,
		Now:       func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(views.Close)

	e := echo.New()
	e.Validator = NewValidator()
	return &fixture{e: e, session: sess, nav: nav, views: views, auth: auth, products: products, orders: orders}
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	if err := f.session.Set(context.Background(), domain.Session{Username: "ana", Token: "tok"}); err != nil {
		t.Fatalf("sign in: %v", err)
	}
}

func (f *fixture) call(method, target, body string, h echo.HandlerFunc, params ...string) (*httptest.ResponseRecorder, error) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	return rec, h(c)
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func notificationOf(t *testing.T, resp map[string]any) string {
	t.Helper()
	n, ok := resp["notification"].(map[string]any)
	if !ok {
		t.Fatalf("expected notification in %v", resp)
	}
	return n["message"].(string)
}

// --- Session ---

func TestSessionHandler_Login_StaysUntilDismissed(t *testing.T) {
	f := newFixture(t)
	h := NewSessionHandler(f.session, f.views, f.nav)

	rec, err := f.call(http.MethodPost, "/api/login", `{"username":"ana","password":"password1"}`, h.Login)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeView(t, rec)
	if got := notificationOf(t, resp); got != "Login successful!" {
		t.Fatalf("notification = %q", got)
	}
	if resp["route"] != domain.RouteLogin {
		t.Fatalf("route changed before dismissal: %v", resp["route"])
	}
	sess, ok := f.session.Current()
	if !ok || sess.Username != "ana" || sess.ProfileImage != domain.DefaultProfileImage {
		t.Fatalf("session not stored: %+v", sess)
	}
}

func TestSessionHandler_Login_ShortPassword(t *testing.T) {
	f := newFixture(t)
	h := NewSessionHandler(f.session, f.views, f.nav)

	_, err := f.call(http.MethodPost, "/api/login", `{"username":"ana","password":"short"}`, h.Login)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := domain.MessageOf(err, ""); got != "Password must be at least 8 characters long." {
		t.Fatalf("message = %q", got)
	}
}

func TestSessionHandler_Login_InvalidPayload(t *testing.T) {
	f := newFixture(t)
	h := NewSessionHandler(f.session, f.views, f.nav)

	_, err := f.call(http.MethodPost, "/api/login", `{"username":`, h.Login)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestSessionHandler_Session(t *testing.T) {
	f := newFixture(t)
	h := NewSessionHandler(f.session, f.views, f.nav)

	rec, err := f.call(http.MethodGet, "/api/session", "", h.Session)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeView(t, rec)
	if resp["state"] != "unauthenticated" || resp["session"] != nil {
		t.Fatalf("unexpected anonymous session: %v", resp)
	}

	f.signIn(t)
	rec, _ = f.call(http.MethodGet, "/api/session", "", h.Session)
	resp = decodeView(t, rec)
	if resp["state"] != "authenticated" {
		t.Fatalf("expected authenticated, got %v", resp["state"])
	}
}

func TestSessionHandler_Profile_RequiresLogin(t *testing.T) {
	f := newFixture(t)
	h := NewSessionHandler(f.session, f.views, f.nav)

	_, err := f.call(http.MethodGet, "/api/profile", "", h.Profile)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSessionHandler_UpdateProfile_Multipart(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	h := NewSessionHandler(f.session, f.views, f.nav)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("username", "ana2")
	_ = mw.WriteField("email", "ana2@x.io")
	fw, _ := mw.CreateFormFile("profileImage", "me.png")
	_, _ = fw.Write([]byte("png-bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/profile", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()

	if err := h.UpdateProfile(f.e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeView(t, rec)
	if got := notificationOf(t, resp); got != "Profile updated successfully!" {
		t.Fatalf("notification = %q", got)
	}
	if f.auth.updated == nil || f.auth.updated.Username != "ana2" || f.auth.updated.Image == nil {
		t.Fatalf("update not forwarded: %+v", f.auth.updated)
	}
	if f.auth.updated.Image.Filename != "me.png" || string(f.auth.image) != "png-bytes" {
		t.Fatalf("image not forwarded: %q %q", f.auth.updated.Image.Filename, f.auth.image)
	}
	if sess, _ := f.session.Current(); sess.Username != "ana2" {
		t.Fatalf("session not merged: %+v", sess)
	}
}

// --- Products ---

func TestProductHandler_List(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	h := NewProductHandler(f.views.Products, f.nav)

	rec, err := f.call(http.MethodGet, "/api/products?search=widg", "", h.List)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	state := decodeView(t, rec)["state"].(map[string]any)
	if state["total"].(float64) != 1 || len(state["products"].([]any)) != 1 {
		t.Fatalf("unexpected state: %v", state)
	}
	if state["search"] != "widg" {
		t.Fatalf("search not applied: %v", state["search"])
	}
}

func TestProductHandler_Update_LoadsListingFirst(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	h := NewProductHandler(f.views.Products, f.nav)

	body := `{"name":"Widget","price":"7.5","imageUrl":"/w.png"}`
	rec, err := f.call(http.MethodPut, "/api/products/3", body, h.Update, "id", "3")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := notificationOf(t, decodeView(t, rec)); got != "Product updated successfully!" {
		t.Fatalf("notification = %q", got)
	}
	if f.products.updated != 3 {
		t.Fatalf("expected update of 3, got %d", f.products.updated)
	}
}

func TestProductHandler_Update_UnknownID(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	h := NewProductHandler(f.views.Products, f.nav)

	_, err := f.call(http.MethodPut, "/api/products/42", `{"name":"x"}`, h.Update, "id", "42")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProductHandler_InvalidID(t *testing.T) {
	f := newFixture(t)
	h := NewProductHandler(f.views.Products, f.nav)

	_, err := f.call(http.MethodDelete, "/api/products/abc", "", h.Delete, "id", "abc")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

// --- Orders ---

func TestOrderHandler_Advance(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	h := NewOrderHandler(f.views.Orders, f.nav)

	rec, err := f.call(http.MethodPost, "/api/orders/9/advance", "", h.Advance, "id", "9")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := notificationOf(t, decodeView(t, rec)); got != `Order status updated to "Shipped"` {
		t.Fatalf("notification = %q", got)
	}
	if f.orders.statuses[9] != domain.OrderShipped {
		t.Fatalf("expected Shipped, got %q", f.orders.statuses[9])
	}
}

func TestOrderHandler_UpdateStatus_Validation(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	h := NewOrderHandler(f.views.Orders, f.nav)

	_, err := f.call(http.MethodPut, "/api/orders/9/status", `{}`, h.UpdateStatus, "id", "9")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = f.call(http.MethodPut, "/api/orders/9/status", `{"status":"Lost"}`, h.UpdateStatus, "id", "9")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

// --- Reports ---

func TestReportHandler_Generate(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	h := NewReportHandler(f.views.Reports, f.nav)

	body := `{"reportType":"supplier","startDate":"2024-03-01","endDate":"2024-03-10","parameters":{"minProductsSupplied":"2"}}`
	rec, err := f.call(http.MethodPost, "/api/reports", body, h.Generate)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeView(t, rec)
	if got := notificationOf(t, resp); got != "Report generated successfully for supplier!" {
		t.Fatalf("notification = %q", got)
	}

	rec, err = f.call(http.MethodGet, "/api/reports/export", "", h.Export)
	if err != nil {
		t.Fatalf("export error: %v", err)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "supplier-report.json") {
		t.Fatalf("unexpected disposition %q", cd)
	}
}

func TestReportHandler_UpdateForm_BadDate(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	h := NewReportHandler(f.views.Reports, f.nav)

	_, err := f.call(http.MethodPut, "/api/reports/form", `{"startDate":"15/03/2024"}`, h.UpdateForm)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReportHandler_Export_NothingYet(t *testing.T) {
	f := newFixture(t)
	h := NewReportHandler(f.views.Reports, f.nav)

	_, err := f.call(http.MethodGet, "/api/reports/export", "", h.Export)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

// --- Navigation ---

func TestNavigationHandler_Wait(t *testing.T) {
	f := newFixture(t)
	h := NewNavigationHandler(f.nav)

	go func() {
		time.Sleep(20 * time.Millisecond)
		f.nav.Navigate(domain.RouteHome)
	}()
	rec, err := f.call(http.MethodGet, "/api/navigation/next?timeout=2s", "", h.Wait)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeView(t, rec)
	if resp["route"] != domain.RouteHome || resp["changed"] != true {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestNavigationHandler_WaitTimeout(t *testing.T) {
	f := newFixture(t)
	h := NewNavigationHandler(f.nav)

	rec, err := f.call(http.MethodGet, "/api/navigation/next?timeout=10ms", "", h.Wait)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeView(t, rec)
	if resp["route"] != domain.RouteLogin || resp["changed"] != false {
		t.Fatalf("unexpected response: %v", resp)
	}

	if _, err := f.call(http.MethodGet, "/api/navigation/next?timeout=soon", "", h.Wait); err == nil {
		t.Fatalf("expected error for bad timeout")
	}
}

func TestNotificationHandler_DismissNavigatesNow(t *testing.T) {
	f := newFixture(t)
	sh := NewSessionHandler(f.session, f.views, f.nav)
	h := NewNotificationHandler(f.views, f.nav)

	if _, err := f.call(http.MethodPost, "/api/login", `{"username":"ana","password":"password1"}`, sh.Login); err != nil {
		t.Fatalf("login: %v", err)
	}
	if f.nav.Route() != domain.RouteLogin {
		t.Fatalf("route changed before dismissal: %q", f.nav.Route())
	}

	rec, err := f.call(http.MethodDelete, "/api/notifications/login", "", h.Dismiss, "view", "login")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeView(t, rec)
	if resp["dismissed"] != true || resp["route"] != domain.RouteHome {
		t.Fatalf("unexpected response: %v", resp)
	}
	if _, ok := f.views.Login.Notification(); ok {
		t.Fatalf("notification still shown")
	}

	rec, err = f.call(http.MethodDelete, "/api/notifications/login", "", h.Dismiss, "view", "login")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decodeView(t, rec); resp["dismissed"] != false {
		t.Fatalf("second dismissal must report nothing removed: %v", resp)
	}
}

func TestNotificationHandler_UnknownView(t *testing.T) {
	f := newFixture(t)
	h := NewNotificationHandler(f.views, f.nav)

	_, err := f.call(http.MethodDelete, "/api/notifications/nope", "", h.Dismiss, "view", "nope")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

// --- Health ---

func TestHealthHandler_Liveness(t *testing.T) {
	f := newFixture(t)
	rec, err := f.call(http.MethodGet, "/health", "", NewHealthHandler().Liveness)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	f := newFixture(t)

	h := NewHealthDependenciesHandler(map[string]Pinger{"storage": stubPinger{}, "auth": stubPinger{}})
	rec, _ := f.call(http.MethodGet, "/health/ready", "", h.Readiness)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	h = NewHealthDependenciesHandler(map[string]Pinger{"storage": stubPinger{}, "auth": stubPinger{err: errors.New("down")}})
	rec, _ = f.call(http.MethodGet, "/health/ready", "", h.Readiness)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "degraded" || resp.Dependencies["auth"].Error != "down" || resp.Dependencies["storage"].Status != "ok" {
		t.Fatalf("unexpected readiness: %+v", resp)
	}
}
