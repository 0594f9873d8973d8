package domain

import "strings"

// DefaultProfileImage is shown until the user uploads a picture.
const DefaultProfileImage = "/Naruto.jpg"

// AuthState is the only state machine owned by the session store.
type AuthState int

const (
	Unauthenticated AuthState = iota
	Authenticated
)

func (s AuthState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Session is the authenticated identity held client-side. The token is
// persisted under its own key and never serialised with the profile.
type Session struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
	Token        string `json:"-"`
}

// Valid reports whether the session carries both identity and token.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.Username) != "" && strings.TrimSpace(s.Token) != ""
}

// Image returns the profile image or the default placeholder.
func (s Session) Image() string {
	if s.ProfileImage == "" {
		return DefaultProfileImage
	}
	return s.ProfileImage
}

// Navigation targets used by the view controllers.
const (
	RouteHome        = "/"
	RouteLogin       = "/login"
	RouteSignUp      = "/signup"
	RouteProfile     = "/profile"
	RouteEditProfile = "/profile/edit"
)
