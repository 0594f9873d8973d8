package service

import (
	"context"
	"strings"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
	"github.com/99minutos/ims-console/internal/core/validation"
)

// SignUpForm is the registration form.
type SignUpForm struct {
	Username        string `json:"username"        validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SignUpView registers a new account.
type SignUpView struct {
	*view
	auth       ports.AuthGateway
	submitting bool
}

func NewSignUpView(auth ports.AuthGateway, deps ViewDeps) *SignUpView {
	return &SignUpView{view: newView("signup", deps), auth: auth}
}

func (v *SignUpView) Mount(context.Context) error {
	v.reopen()
	return nil
}

// Submitting reports whether a registration is in flight.
func (v *SignUpView) Submitting() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.submitting
}

// Submit checks the form, registers the account and sends the user to the
// login screen once the confirmation is dismissed.
func (v *SignUpView) Submit(ctx context.Context, form SignUpForm) error {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)

	if !validation.MeetsPasswordPolicy(form.Password) {
		return v.fail(domain.Invalid("Password must be at least 8 characters, contain a number, uppercase letter, and symbol."), "")
	}
	if form.Password != form.ConfirmPassword {
		return v.fail(domain.Invalid("Passwords do not match! Please try again."), "")
	}
	if err := validation.Struct(form); err != nil {
		return v.fail(err, "")
	}

	v.mu.Lock()
	if v.submitting {
		v.mu.Unlock()
		return domain.ErrBusy
	}
	v.submitting = true
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.submitting = false
		v.mu.Unlock()
	}()

	msg, err := v.auth.Register(ctx, ports.RegisterInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return v.fail(err, "Signup failed! Please try again.")
	}
	if strings.TrimSpace(msg) == "" {
		msg = "Registration successful! Please log in."
	}
	v.showThen(msg, domain.KindSuccess, domain.RouteLogin)
	return nil
}
