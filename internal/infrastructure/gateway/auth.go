package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/99minutos/ims-console/internal/core/ports"
)

// AuthGateway talks to the auth service.
type AuthGateway struct {
	c *Client
}

var _ ports.AuthGateway = (*AuthGateway)(nil)

func NewAuthGateway(c *Client) *AuthGateway {
	return &AuthGateway{c: c}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"emailId"`
	Password string `json:"password"`
}

type profileDTO struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

type profileUpdateRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

func (g *AuthGateway) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	var out loginResponse
	err := g.c.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		path:   "/auth/login",
		json:   loginRequest{Username: username, Password: password},
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &Error{Op: "login", Status: http.StatusOK, Message: "Login failed. Check your credentials."}
	}
	return &ports.LoginResult{Token: out.Token, Username: out.Username, Email: out.Email}, nil
}

// Register returns the confirmation text sent by the auth service.
func (g *AuthGateway) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	var msg string
	err := g.c.do(ctx, call{
		op:     "register",
		method: http.MethodPost,
		path:   "/auth/register",
		json:   registerRequest(in),
	}, &msg)
	return msg, err
}

// UpdateProfile sends a multipart form when an image is attached, JSON
// otherwise. The auth service may answer with the updated user, the user
// nested under "user", or a plain confirmation; the latter yields an empty
// Profile.
func (g *AuthGateway) UpdateProfile(ctx context.Context, token string, in ports.ProfileUpdateInput) (*ports.Profile, error) {
	cl := call{op: "update_profile", method: http.MethodPut, path: "/auth/profile", token: token}
	if in.Image != nil {
		body, contentType, err := profileMultipart(in)
		if err != nil {
			return nil, fmt.Errorf("update_profile: %w", err)
		}
		cl.body, cl.contentType = body, contentType
	} else {
		req := profileUpdateRequest{Username: in.Username, Email: in.Email}
		if in.ChangePassword {
			req.CurrentPassword, req.NewPassword = in.CurrentPassword, in.NewPassword
		}
		cl.json = req
	}

	var raw []byte
	if err := g.c.do(ctx, cl, &raw); err != nil {
		return nil, err
	}
	return parseProfile(raw), nil
}

func (g *AuthGateway) Me(ctx context.Context, token string) (*ports.Profile, error) {
	var out profileDTO
	if err := g.c.do(ctx, call{op: "me", method: http.MethodGet, path: "/auth/me", token: token}, &out); err != nil {
		return nil, err
	}
	p := ports.Profile(out)
	return &p, nil
}

func profileMultipart(in ports.ProfileUpdateInput) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{{"username", in.Username}, {"email", in.Email}}
	if in.ChangePassword {
		fields = append(fields, [2]string{"currentPassword", in.CurrentPassword}, [2]string{"newPassword", in.NewPassword})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	name := filepath.Base(in.Image.Filename)
	if name == "." || name == "/" {
		name = "profile-image"
	}
	part, err := w.CreateFormFile("profileImage", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, in.Image.Content); err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func parseProfile(raw []byte) *ports.Profile {
	var envelope struct {
		profileDTO
		User *profileDTO `json:"user"`
	}
	if len(bytes.TrimSpace(raw)) == 0 || json.Unmarshal(raw, &envelope) != nil {
		return &ports.Profile{}
	}
	if envelope.User != nil {
		p := ports.Profile(*envelope.User)
		return &p
	}
	p := ports.Profile(envelope.profileDTO)
	return &p
}
