package service

import (
	"context"
	"strings"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
	"github.com/99minutos/ims-console/internal/core/validation"
)

// ProfileForm is the edit-profile form. Password fields are left blank
// when the password is not being changed.
type ProfileForm struct {
	Username           string             `json:"username"           validate:"required"`
	Email              string             `json:"email"              validate:"required,email"`
	CurrentPassword    string             `json:"currentPassword"`
	NewPassword        string             `json:"newPassword"`
	ConfirmNewPassword string             `json:"confirmNewPassword"`
	Image              *ports.ImageUpload `json:"-"`
}

// EditProfileView updates the signed-in user's profile.
type EditProfileView struct {
	*view
	auth ports.AuthGateway
	form ProfileForm
}

func NewEditProfileView(auth ports.AuthGateway, deps ViewDeps) *EditProfileView {
	return &EditProfileView{view: newView("edit_profile", deps), auth: auth}
}

// Mount requires a session and pre-fills the form from it.
func (v *EditProfileView) Mount(ctx context.Context) error {
	v.reopen()
	if _, err := v.authorize(ctx, "Please log in to edit your profile."); err != nil {
		return err
	}
	sess, _ := v.session.Current()
	return v.commit(func() {
		v.form = ProfileForm{Username: sess.Username, Email: sess.Email}
	})
}

// Form returns the current form values without passwords.
func (v *EditProfileView) Form() ProfileForm {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ProfileForm{Username: v.form.Username, Email: v.form.Email}
}

// Submit sends the update and merges the response into the session. The
// stored image is kept when the response carries none.
func (v *EditProfileView) Submit(ctx context.Context, form ProfileForm) error {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)

	change := form.NewPassword != "" || form.ConfirmNewPassword != ""
	if change {
		switch {
		case form.NewPassword != form.ConfirmNewPassword:
			return v.fail(domain.Invalid("New passwords do not match! Please try again."), "")
		case !validation.MeetsPasswordPolicy(form.NewPassword):
			return v.fail(domain.Invalid("New password must be at least 8 characters, contain a number, uppercase letter, and symbol."), "")
		case form.CurrentPassword == "":
			return v.fail(domain.Invalid("Current password is required to change your password."), "")
		}
	}
	if err := validation.Struct(form); err != nil {
		return v.fail(err, "")
	}

	tok, err := v.authorize(ctx, "Please log in to edit your profile.")
	if err != nil {
		return err
	}

	in := ports.ProfileUpdateInput{
		Username:       form.Username,
		Email:          form.Email,
		ChangePassword: change,
		Image:          form.Image,
	}
	if change {
		in.CurrentPassword = form.CurrentPassword
		in.NewPassword = form.NewPassword
	}

	p, err := v.auth.UpdateProfile(ctx, tok, in)
	if err != nil {
		return v.fail(err, "Failed to update profile. Please try again.")
	}

	sess, ok := v.session.Current()
	if !ok {
		return domain.ErrUnauthenticated
	}
	sess.Username = form.Username
	sess.Email = form.Email
	mergeProfile(&sess, p)
	if err := v.session.Set(ctx, sess); err != nil {
		return v.fail(err, "Failed to update profile. Please try again.")
	}

	if err := v.commit(func() {
		v.form = ProfileForm{Username: sess.Username, Email: sess.Email}
	}); err != nil {
		return err
	}
	v.showThen("Profile updated successfully!", domain.KindSuccess, domain.RouteProfile)
	return nil
}
