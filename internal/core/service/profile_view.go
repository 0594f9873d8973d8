package service

import (
	"context"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
)

// ProfileView shows the signed-in identity and handles logout.
type ProfileView struct {
	*view
	auth ports.AuthGateway
}

func NewProfileView(auth ports.AuthGateway, deps ViewDeps) *ProfileView {
	return &ProfileView{view: newView("profile", deps), auth: auth}
}

// Mount requires a session.
func (v *ProfileView) Mount(ctx context.Context) error {
	v.reopen()
	_, err := v.authorize(ctx, "Please log in to view your profile.")
	return err
}

// Profile returns the session with the image placeholder applied.
func (v *ProfileView) Profile() (domain.Session, bool) {
	sess, ok := v.session.Current()
	if !ok {
		return domain.Session{}, false
	}
	sess.ProfileImage = sess.Image()
	return sess, true
}

// Refresh reloads the identity from the auth service and stores it.
func (v *ProfileView) Refresh(ctx context.Context) error {
	tok, err := v.authorize(ctx, "Please log in to view your profile.")
	if err != nil {
		return err
	}
	p, err := v.auth.Me(ctx, tok)
	if err != nil {
		return v.fail(err, "Failed to load profile.")
	}
	sess, ok := v.session.Current()
	if !ok {
		return domain.ErrUnauthenticated
	}
	mergeProfile(&sess, p)
	if err := v.session.Set(ctx, sess); err != nil {
		return v.fail(err, "Failed to load profile.")
	}
	return nil
}

// Logout ends the session and returns to the login screen after the
// confirmation is dismissed.
func (v *ProfileView) Logout(ctx context.Context) error {
	if err := v.session.Clear(ctx); err != nil {
		return v.fail(err, "Logout failed! Please try again.")
	}
	v.showThen("Logout successful!", domain.KindSuccess, domain.RouteLogin)
	return nil
}

// mergeProfile copies non-empty fields of p into sess.
func mergeProfile(sess *domain.Session, p *ports.Profile) {
	if p == nil {
		return
	}
	if p.Username != "" {
		sess.Username = p.Username
	}
	if p.Email != "" {
		sess.Email = p.Email
	}
	if p.ProfileImage != "" {
		sess.ProfileImage = p.ProfileImage
	}
}
