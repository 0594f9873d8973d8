package service

import (
	"context"
	"strings"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
)

const minPasswordLength = 8

// LoginView signs a user in and starts the session.
type LoginView struct {
	*view
	auth ports.AuthGateway
}

func NewLoginView(auth ports.AuthGateway, deps ViewDeps) *LoginView {
	return &LoginView{view: newView("login", deps), auth: auth}
}

// Mount opens the view. No session is needed.
func (v *LoginView) Mount(context.Context) error {
	v.reopen()
	return nil
}

// Submit authenticates with the auth service. On success the session is
// stored and the user is sent home after the notification is dismissed.
func (v *LoginView) Submit(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return v.fail(domain.Invalid("Please enter your username."), "")
	}
	if len(password) < minPasswordLength {
		return v.fail(domain.Invalid("Password must be at least 8 characters long."), "")
	}

	res, err := v.auth.Login(ctx, username, password)
	if err != nil {
		return v.fail(err, "Login failed. Check your credentials.")
	}

	sess := domain.Session{
		Username:     res.Username,
		Email:        res.Email,
		ProfileImage: domain.DefaultProfileImage,
		Token:        res.Token,
	}
	if sess.Username == "" {
		sess.Username = username
	}
	if err := v.session.Set(ctx, sess); err != nil {
		return v.fail(err, "Login failed. Check your credentials.")
	}

	v.showThen("Login successful!", domain.KindSuccess, domain.RouteHome)
	return nil
}
