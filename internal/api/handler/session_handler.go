package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
	"github.com/99minutos/ims-console/internal/core/service"
)

// SessionHandler serves the login, sign-up and profile screens.
type SessionHandler struct {
	session     *service.SessionStore
	login       *service.LoginView
	signUp      *service.SignUpView
	profile     *service.ProfileView
	editProfile *service.EditProfileView
	nav         Router
}

func NewSessionHandler(session *service.SessionStore, views *service.Views, nav Router) *SessionHandler {
	return &SessionHandler{
		session:     session,
		login:       views.Login,
		signUp:      views.SignUp,
		profile:     views.Profile,
		editProfile: views.EditProfile,
		nav:         nav,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	State   string          `json:"state"`
	Session *domain.Session `json:"session,omitempty"`
	Route   string          `json:"route"`
}

// Session reports whether a user is signed in.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) Session(c echo.Context) error {
	resp := sessionResponse{State: h.session.State().String(), Route: h.nav.Route()}
	if sess, ok := h.session.Current(); ok {
		resp.Session = &sess
	}
	return c.JSON(http.StatusOK, resp)
}

// Login signs the user in.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  viewResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.login.Mount(ctx); err != nil {
		return err
	}
	if err := h.login.Submit(ctx, req.Username, req.Password); err != nil {
		return err
	}
	return render(c, h.nav, h.login, nil)
}

// SignUp registers a new account.
//
// @Summary      Sign up
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      service.SignUpForm  true  "Account details"
// @Success      200   {object}  viewResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/signup [post]
func (h *SessionHandler) SignUp(c echo.Context) error {
	var form service.SignUpForm
	if err := bindJSON(c, &form); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.signUp.Mount(ctx); err != nil {
		return err
	}
	if err := h.signUp.Submit(ctx, form); err != nil {
		return err
	}
	return render(c, h.nav, h.signUp, nil)
}

// Profile returns the signed-in identity.
//
// @Summary      Profile
// @Tags         profile
// @Produce      json
// @Param        refresh  query     bool  false  "Reload the identity from the auth service"
// @Success      200      {object}  viewResponse
// @Failure      401      {object}  errorResponse
// @Router       /api/profile [get]
func (h *SessionHandler) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.profile.Mount(ctx); err != nil {
		return err
	}
	if c.QueryParam("refresh") == "true" {
		if err := h.profile.Refresh(ctx); err != nil {
			return err
		}
	}
	sess, _ := h.profile.Profile()
	return render(c, h.nav, h.profile, sess)
}

// Logout ends the session.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  viewResponse
// @Router       /api/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.profile.Logout(c.Request().Context()); err != nil {
		return err
	}
	return render(c, h.nav, h.profile, nil)
}

// EditForm returns the pre-filled edit-profile form.
//
// @Summary      Edit profile form
// @Tags         profile
// @Produce      json
// @Success      200  {object}  viewResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/profile/edit [get]
func (h *SessionHandler) EditForm(c echo.Context) error {
	if err := h.editProfile.Mount(c.Request().Context()); err != nil {
		return err
	}
	return render(c, h.nav, h.editProfile, h.editProfile.Form())
}

// UpdateProfile submits the edit-profile form. Multipart requests may attach
// a profileImage file.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json,mpfd
// @Produce      json
// @Param        body          body      service.ProfileForm  false  "Profile fields (JSON)"
// @Param        profileImage  formData  file                 false  "New profile picture"
// @Success      200           {object}  viewResponse
// @Failure      401           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Router       /api/profile [put]
func (h *SessionHandler) UpdateProfile(c echo.Context) error {
	form, closeImage, err := profileFormFrom(c)
	if err != nil {
		return err
	}
	defer closeImage()

	ctx := c.Request().Context()
	if err := h.editProfile.Mount(ctx); err != nil {
		return err
	}
	if err := h.editProfile.Submit(ctx, form); err != nil {
		return err
	}
	return render(c, h.nav, h.editProfile, h.editProfile.Form())
}

// profileFormFrom reads the form from a JSON or multipart body. The returned
// func releases the uploaded file.
func profileFormFrom(c echo.Context) (service.ProfileForm, func(), error) {
	noop := func() {}
	if !isMultipart(c) {
		var form service.ProfileForm
		if err := bindJSON(c, &form); err != nil {
			return form, noop, err
		}
		return form, noop, nil
	}

	form := service.ProfileForm{
		Username:           c.FormValue("username"),
		Email:              c.FormValue("email"),
		CurrentPassword:    c.FormValue("currentPassword"),
		NewPassword:        c.FormValue("newPassword"),
		ConfirmNewPassword: c.FormValue("confirmNewPassword"),
	}
	fh, err := c.FormFile("profileImage")
	if errors.Is(err, http.ErrMissingFile) {
		return form, noop, nil
	}
	if err != nil {
		return form, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid profile image")
	}
	f, err := fh.Open()
	if err != nil {
		return form, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid profile image")
	}
	form.Image = &ports.ImageUpload{Filename: fh.Filename, Content: f}
	return form, func() { _ = f.Close() }, nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}
