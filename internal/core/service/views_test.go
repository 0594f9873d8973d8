package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
)

// --- Stubs ---

type stubAuth struct {
	loginFn    func(username, password string) (*ports.LoginResult, error)
	registerFn func(in ports.RegisterInput) (string, error)
	updateFn   func(token string, in ports.ProfileUpdateInput) (*ports.Profile, error)
	meFn       func(token string) (*ports.Profile, error)
	calls      int
}

func (s *stubAuth) Login(_ context.Context, u, p string) (*ports.LoginResult, error) {
	s.calls++
	return s.loginFn(u, p)
}

func (s *stubAuth) Register(_ context.Context, in ports.RegisterInput) (string, error) {
	s.calls++
	return s.registerFn(in)
}

func (s *stubAuth) UpdateProfile(_ context.Context, token string, in ports.ProfileUpdateInput) (*ports.Profile, error) {
	s.calls++
	return s.updateFn(token, in)
}

func (s *stubAuth) Me(_ context.Context, token string) (*ports.Profile, error) {
	s.calls++
	return s.meFn(token)
}

// userError mimics a gateway error carrying a backend message.
type userError struct{ msg string }

func (e userError) Error() string       { return "backend: " + e.msg }
func (e userError) UserMessage() string { return e.msg }

// --- Helpers ---

func testDeps(t *testing.T) (ViewDeps, *SessionStore, *Navigation) {
	t.Helper()
	sess := NewSessionStore(newStubStore(), zerolog.Nop())
	nav := NewNavigation(domain.RouteLogin, zerolog.Nop())
	return ViewDeps{
		Session:   sess,
		Navigator: nav,
		Notify:    NotifierOptions{Display: 10 * time.Millisecond, Fade: 5 * time.Millisecond},
		Logger:    zerolog.Nop(),
		Now:       func() time.Time { return reportToday },
	}, sess, nav
}

func signIn(t *testing.T, sess *SessionStore) {
	t.Helper()
	if err := sess.Set(context.Background(), domain.Session{Username: "ana", Email: "ana@x.io", Token: "tok"}); err != nil {
		t.Fatalf("sign in: %v", err)
	}
}

func expectRoute(t *testing.T, next <-chan string, want string) {
	t.Helper()
	select {
	case got := <-next:
		if got != want {
			t.Fatalf("navigated to %q, want %q", got, want)
		}
	case <-time.After(time.Second):
		t.Fatalf("no navigation to %q", want)
	}
}

type notifier interface {
	Notification() (domain.Notification, bool)
}

func expectNotice(t *testing.T, v notifier, kind domain.Kind, msg string) {
	t.Helper()
	n, ok := v.Notification()
	if !ok {
		t.Fatalf("expected notification %q", msg)
	}
	if n.Kind != kind || n.Message != msg {
		t.Fatalf("notification = %s %q, want %s %q", n.Kind, n.Message, kind, msg)
	}
}

// --- Login ---

func TestLoginView_SuccessNavigatesAfterDismissal(t *testing.T) {
	deps, sess, nav := testDeps(t)
	auth := &stubAuth{loginFn: func(u, p string) (*ports.LoginResult, error) {
		return &ports.LoginResult{Token: "tok", Username: u, Email: "ana@x.io"}, nil
	}}
	v := NewLoginView(auth, deps)
	next := nav.Next()

	if err := v.Submit(context.Background(), "ana", "password1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectNotice(t, v, domain.KindSuccess, "Login successful!")
	if nav.Route() != domain.RouteLogin {
		t.Fatal("navigation must wait for the notification to be dismissed")
	}
	expectRoute(t, next, domain.RouteHome)

	got, ok := sess.Current()
	if !ok || got.Username != "ana" || got.ProfileImage != domain.DefaultProfileImage {
		t.Errorf("unexpected session: %+v", got)
	}
}

func TestLoginView_ShortPasswordSkipsBackend(t *testing.T) {
	deps, _, _ := testDeps(t)
	auth := &stubAuth{}
	v := NewLoginView(auth, deps)

	err := v.Submit(context.Background(), "ana", "short")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	expectNotice(t, v, domain.KindError, "Password must be at least 8 characters long.")
	if auth.calls != 0 {
		t.Error("backend must not be called")
	}
}

func TestLoginView_FailureMessages(t *testing.T) {
	deps, sess, _ := testDeps(t)
	backendErr := userError{msg: "Invalid username or password"}
	auth := &stubAuth{loginFn: func(string, string) (*ports.LoginResult, error) { return nil, backendErr }}
	v := NewLoginView(auth, deps)

	_ = v.Submit(context.Background(), "ana", "password1")
	expectNotice(t, v, domain.KindError, "Invalid username or password")

	auth.loginFn = func(string, string) (*ports.LoginResult, error) { return nil, errors.New("boom") }
	_ = v.Submit(context.Background(), "ana", "password1")
	expectNotice(t, v, domain.KindError, "Login failed. Check your credentials.")

	if sess.State() != domain.Unauthenticated {
		t.Error("failed login must not start a session")
	}
}

// --- Sign up ---

func TestSignUpView_Validation(t *testing.T) {
	deps, _, _ := testDeps(t)
	auth := &stubAuth{}
	v := NewSignUpView(auth, deps)

	_ = v.Submit(context.Background(), SignUpForm{Username: "ana", Email: "ana@x.io", Password: "weakpass", ConfirmPassword: "weakpass"})
	expectNotice(t, v, domain.KindError, "Password must be at least 8 characters, contain a number, uppercase letter, and symbol.")

	_ = v.Submit(context.Background(), SignUpForm{Username: "ana", Email: "ana@x.io", Password: "Secret1!", ConfirmPassword: "Secret1?"})
	expectNotice(t, v, domain.KindError, "Passwords do not match! Please try again.")

	if auth.calls != 0 {
		t.Error("backend must not be called on invalid input")
	}
}

func TestSignUpView_SuccessGoesToLogin(t *testing.T) {
	deps, _, nav := testDeps(t)
	auth := &stubAuth{registerFn: func(in ports.RegisterInput) (string, error) {
		if in.Username != "ana" || in.Password != "Secret1!" {
			t.Errorf("unexpected input %+v", in)
		}
		return "User registered successfully", nil
	}}
	v := NewSignUpView(auth, deps)
	next := nav.Next()

	err := v.Submit(context.Background(), SignUpForm{Username: " ana ", Email: "ana@x.io", Password: "Secret1!", ConfirmPassword: "Secret1!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectNotice(t, v, domain.KindSuccess, "User registered successfully")
	expectRoute(t, next, domain.RouteLogin)
	if v.Submitting() {
		t.Error("busy flag must be released")
	}
}

// --- Profile ---

func TestProfileView_MountRequiresSession(t *testing.T) {
	deps, _, nav := testDeps(t)
	v := NewProfileView(&stubAuth{}, deps)
	next := nav.Next()

	if err := v.Mount(context.Background()); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	expectNotice(t, v, domain.KindError, "Please log in to view your profile.")
	expectRoute(t, next, domain.RouteLogin)
}

func TestProfileView_Logout(t *testing.T) {
	deps, sess, nav := testDeps(t)
	signIn(t, sess)
	v := NewProfileView(&stubAuth{}, deps)
	next := nav.Next()

	if err := v.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.State() != domain.Unauthenticated {
		t.Error("session must be cleared")
	}
	expectNotice(t, v, domain.KindSuccess, "Logout successful!")
	expectRoute(t, next, domain.RouteLogin)
}

func TestProfileView_RefreshMergesIdentity(t *testing.T) {
	deps, sess, _ := testDeps(t)
	signIn(t, sess)
	auth := &stubAuth{meFn: func(token string) (*ports.Profile, error) {
		return &ports.Profile{Username: "ana", Email: "new@x.io", ProfileImage: "/uploads/ana.png"}, nil
	}}
	v := NewProfileView(auth, deps)

	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := v.Profile()
	if p.Email != "new@x.io" || p.ProfileImage != "/uploads/ana.png" || p.Token != "tok" {
		t.Errorf("unexpected profile %+v", p)
	}
}

func TestProfileView_ProfileUsesPlaceholder(t *testing.T) {
	deps, sess, _ := testDeps(t)
	signIn(t, sess)
	v := NewProfileView(&stubAuth{}, deps)

	p, ok := v.Profile()
	if !ok || p.ProfileImage != domain.DefaultProfileImage {
		t.Errorf("expected placeholder image, got %+v", p)
	}
}

// --- Edit profile ---

func TestEditProfileView_PasswordRules(t *testing.T) {
	deps, sess, _ := testDeps(t)
	signIn(t, sess)
	auth := &stubAuth{}
	v := NewEditProfileView(auth, deps)
	base := ProfileForm{Username: "ana", Email: "ana@x.io"}

	cases := []struct {
		cur, next, confirm, want string
	}{
		{"", "Secret1!", "Secret2!", "New passwords do not match! Please try again."},
		{"", "weak", "weak", "New password must be at least 8 characters, contain a number, uppercase letter, and symbol."},
		{"", "Secret1!", "Secret1!", "Current password is required to change your password."},
	}
	for _, tc := range cases {
		f := base
		f.CurrentPassword, f.NewPassword, f.ConfirmNewPassword = tc.cur, tc.next, tc.confirm
		if err := v.Submit(context.Background(), f); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected validation error for %+v, got %v", tc, err)
		}
		expectNotice(t, v, domain.KindError, tc.want)
	}
	if auth.calls != 0 {
		t.Error("backend must not be called")
	}
}

func TestEditProfileView_SuccessKeepsImageAndNavigates(t *testing.T) {
	deps, sess, nav := testDeps(t)
	_ = sess.Set(context.Background(), domain.Session{Username: "ana", Email: "ana@x.io", ProfileImage: "/old.png", Token: "tok"})
	var sent ports.ProfileUpdateInput
	auth := &stubAuth{updateFn: func(token string, in ports.ProfileUpdateInput) (*ports.Profile, error) {
		sent = in
		return &ports.Profile{Username: in.Username, Email: in.Email}, nil
	}}
	v := NewEditProfileView(auth, deps)
	if err := v.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if f := v.Form(); f.Username != "ana" || f.Email != "ana@x.io" {
		t.Fatalf("form not pre-filled: %+v", f)
	}
	next := nav.Next()

	err := v.Submit(context.Background(), ProfileForm{Username: "ana2", Email: "ana2@x.io"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent.ChangePassword || sent.NewPassword != "" {
		t.Errorf("password fields must not be sent: %+v", sent)
	}
	got, _ := sess.Current()
	if got.Username != "ana2" || got.ProfileImage != "/old.png" || got.Token != "tok" {
		t.Errorf("unexpected session %+v", got)
	}
	expectNotice(t, v, domain.KindSuccess, "Profile updated successfully!")
	expectRoute(t, next, domain.RouteProfile)
}

// --- Notifier lifecycle through a view ---

func TestView_CloseCancelsPendingNavigation(t *testing.T) {
	deps, sess, nav := testDeps(t)
	signIn(t, sess)
	v := NewProfileView(&stubAuth{}, deps)

	_ = v.Logout(context.Background())
	v.Close()

	select {
	case r := <-nav.Next():
		t.Fatalf("unexpected navigation to %q after close", r)
	case <-time.After(60 * time.Millisecond):
	}
	if nav.Route() != domain.RouteLogin {
		t.Errorf("route changed to %q", nav.Route())
	}
}

func TestMessageOf(t *testing.T) {
	if got := domain.MessageOf(userError{msg: "Out of stock"}, "fallback"); got != "Out of stock" {
		t.Errorf("got %q", got)
	}
	if got := domain.MessageOf(errors.New("x"), "fallback"); got != "fallback" {
		t.Errorf("got %q", got)
	}
}
