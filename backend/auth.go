package backend

import (
	"context"
	"net/http"

	"github.com/darasahq/darasa-web/core"
	"github.com/darasahq/darasa-web/core/session"
)

type AuthService struct {
	client *Client
}

// AuthPayload is what login, registration and the OAuth callback exchange return.
type AuthPayload struct {
	User  session.User `json:"user"`
	Token string       `json:"token"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate() error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return core.Validate.Struct(c)
}

// NewAccount contains information needed to register.
type NewAccount struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (na *NewAccount) Validate() error {
	na.Name = core.CleanString(na.Name)
	na.Email = core.CleanString(na.Email, true /* lower */)
	return core.Validate.Struct(na)
}

type ProfileUpdate struct {
	Name   string `json:"name" validate:"required"`
	Avatar string `json:"avatar" validate:"omitempty,url"`
}

func (pu *ProfileUpdate) Validate() error {
	pu.Name = core.CleanString(pu.Name)
	return core.Validate.Struct(pu)
}

type PasswordChange struct {
	Current         string `json:"current_password" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (pc PasswordChange) Validate() error { return core.Validate.Struct(pc) }

func (s *AuthService) Login(ctx context.Context, creds Credentials) (AuthPayload, error) {
	var payload AuthPayload
	err := s.client.do(ctx, http.MethodPost, "auth/login", nil, creds, &payload)
	return payload, err
}

func (s *AuthService) Register(ctx context.Context, na NewAccount) (AuthPayload, error) {
	var payload AuthPayload
	err := s.client.do(ctx, http.MethodPost, "auth/register", nil, na, &payload)
	return payload, err
}

// Logout notifies the backend; callers proceed with the local teardown regardless
// of the outcome.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.do(ctx, http.MethodPost, "auth/logout", nil, nil, nil)
}

// Validate checks a persisted token against the backend; any error means the token
// is no longer good.
func (s *AuthService) Validate(ctx context.Context, token string) error {
	return s.client.withToken(token).do(ctx, http.MethodGet, "auth/validate", nil, nil, nil)
}

func (s *AuthService) Profile(ctx context.Context) (session.User, error) {
	var usr session.User
	err := s.client.do(ctx, http.MethodGet, "auth/profile", nil, nil, &usr)
	return usr, err
}

func (s *AuthService) UpdateProfile(ctx context.Context, pu ProfileUpdate) (session.User, error) {
	var usr session.User
	err := s.client.do(ctx, http.MethodPut, "auth/profile", nil, pu, &usr)
	return usr, err
}

func (s *AuthService) ChangePassword(ctx context.Context, pc PasswordChange) error {
	return s.client.do(ctx, http.MethodPut, "auth/password", nil, pc, nil)
}

// GoogleLoginURL is where the browser is sent to start the OAuth flow; the backend
// redirects back with a token after the exchange.
func (s *AuthService) GoogleLoginURL() string {
	return s.client.resolve("auth/google", nil)
}
