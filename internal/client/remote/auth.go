package remote

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/snipai/snipai/internal/client/models"
	"github.com/snipai/snipai/internal/common"
	"github.com/snipai/snipai/internal/logging"
)

// Auth is the authentication collaborator: login, registration, logout,
// authoritative identity verification and the per-user preference blob the
// key store mirrors into.
type Auth struct {
	c        *httpClient
	validate *validator.Validate
	log      logging.Logger
}

func NewAuth(base string, hc *http.Client, log logging.Logger) *Auth {
	return &Auth{c: newHTTPClient(base, hc), validate: validator.New(), log: log}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

var registrationMessages = map[string]string{
	"Name":     "Name is required",
	"Email":    "Enter a valid email address",
	"Password": "Password must be at least 8 characters",
}

// Login exchanges credentials for an Identity carrying a session token.
func (a *Auth) Login(ctx context.Context, email, password string) (models.Identity, error) {
	status, body, err := a.c.do(ctx, http.MethodPost, "/auth/login", "", credentials{Email: email, Password: password})
	if err != nil {
		return models.Identity{}, err
	}
	if status == http.StatusUnauthorized {
		return models.Identity{}, ErrInvalidCredentials
	}

	var id models.Identity
	if err := decodeEnvelope(body, &id); err != nil {
		return models.Identity{}, err
	}
	return id, nil
}

// Register creates an account and returns the signed-in Identity. The
// name/email/password rules are checked locally first; a failing form never
// reaches the network.
func (a *Auth) Register(ctx context.Context, name, email, password string) (models.Identity, error) {
	reg := registration{Name: name, Email: email, Password: password}
	if err := a.validate.Struct(reg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return models.Identity{}, errors.New(registrationMessages[verrs[0].Field()])
		}
		return models.Identity{}, err
	}

	status, body, err := a.c.do(ctx, http.MethodPost, "/auth/register", "", reg)
	if err != nil {
		return models.Identity{}, err
	}
	if status == http.StatusConflict {
		return models.Identity{}, ErrAlreadyRegistered
	}

	var id models.Identity
	if err := decodeEnvelope(body, &id); err != nil {
		return models.Identity{}, err
	}
	return id, nil
}

// Logout invalidates the session server-side. A failed logout is logged and
// swallowed; the local session is discarded either way.
func (a *Auth) Logout(ctx context.Context, token string) {
	status, body, err := a.c.do(ctx, http.MethodPost, "/auth/logout", token, nil)
	if err != nil {
		a.log.Warn(ctx, "logout request failed", "error", err)
		return
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		a.log.Warn(ctx, "logout rejected", "status", status)
		return
	}
	_ = body
}

// Current verifies the session token against the server and returns the
// authoritative Identity. An expired or revoked token maps to
// common.ErrUnauthorized; an unreachable network to ErrNetworkUnavailable.
func (a *Auth) Current(ctx context.Context, token string) (models.Identity, error) {
	status, body, err := a.c.do(ctx, http.MethodGet, "/auth/me", token, nil)
	if err != nil {
		return models.Identity{}, err
	}
	if status == http.StatusUnauthorized {
		return models.Identity{}, common.ErrUnauthorized
	}

	var id models.Identity
	if err := decodeEnvelope(body, &id); err != nil {
		return models.Identity{}, err
	}
	if id.SessionToken == "" {
		id.SessionToken = token
	}
	return id, nil
}

// Prefs returns the user's preference blob.
func (a *Auth) Prefs(ctx context.Context, token string) (map[string]string, error) {
	status, body, err := a.c.do(ctx, http.MethodGet, "/auth/prefs", token, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, common.ErrUnauthorized
	}

	prefs := map[string]string{}
	if err := decodeEnvelope(body, &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// UpdatePrefs merges the given entries into the user's preference blob.
func (a *Auth) UpdatePrefs(ctx context.Context, token string, prefs map[string]string) error {
	status, body, err := a.c.do(ctx, http.MethodPatch, "/auth/prefs", token, prefs)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return common.ErrUnauthorized
	}
	return decodeEnvelope(body, nil)
}
