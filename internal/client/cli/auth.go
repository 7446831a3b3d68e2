package cli

import (
	"context"
	"errors"

	"github.com/snipai/snipai/internal/client/editor"
	"github.com/snipai/snipai/internal/client/remote"
)

// Login prompts for credentials and signs in. On success the identity is
// cached locally so the next start paints instantly.
func (a *App) Login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
	defer cancel()

	id, err := a.auth.Login(cctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, remote.ErrInvalidCredentials):
			printlnFn(errorStyle.Render("Invalid email or password"))
		case errors.Is(err, remote.ErrNetworkUnavailable):
			printlnFn(errorStyle.Render("You appear to be offline"))
		default:
			printlnFn(errorStyle.Render("Login failed: " + err.Error()))
		}
		return
	}

	if err := a.sessions.Save(cctx, id); err != nil {
		a.log.Warn(cctx, "caching session", "error", err)
	}
	a.ShowAuthenticated(id)
}

// Register prompts for the account fields and creates an account. The field
// rules are checked client-side before any network call.
func (a *App) Register(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
	defer cancel()

	id, err := a.auth.Register(cctx, name, email, password)
	if err != nil {
		switch {
		case errors.Is(err, remote.ErrAlreadyRegistered):
			printlnFn(errorStyle.Render("An account with this email already exists"))
		case errors.Is(err, remote.ErrNetworkUnavailable):
			printlnFn(errorStyle.Render("You appear to be offline"))
		default:
			printlnFn(errorStyle.Render(err.Error()))
		}
		return
	}

	if err := a.sessions.Save(cctx, id); err != nil {
		a.log.Warn(cctx, "caching session", "error", err)
	}
	a.ShowAuthenticated(id)
	a.Toast("Account created", editor.ToastSuccess)
}

// Logout invalidates the remote session best-effort and always clears the
// local one.
func (a *App) Logout(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
	defer cancel()

	a.auth.Logout(cctx, a.sessionToken())
	if err := a.sessions.Clear(cctx); err != nil {
		a.log.Warn(cctx, "clearing cached session", "error", err)
	}
	a.ShowUnauthenticated()
}
