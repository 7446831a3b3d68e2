package session

import (
	"context"
	"errors"
	"time"

	"github.com/snipai/snipai/internal/client/models"
	"github.com/snipai/snipai/internal/common"
	"github.com/snipai/snipai/internal/logging"
)

// Verifier is the authoritative session check against the auth collaborator.
type Verifier interface {
	Current(ctx context.Context, token string) (models.Identity, error)
}

// Renderer is the view surface the orchestrator drives at boot. Showing the
// authenticated view also kicks off the snippet list load.
type Renderer interface {
	ShowAuthenticated(id models.Identity)
	ShowUnauthenticated()
}

// Orchestrator reconciles the locally cached identity with a freshly
// verified one, exactly once at boot.
type Orchestrator struct {
	cache *Cache
	auth  Verifier
	view  Renderer
	now   func() time.Time
	log   logging.Logger
}

func NewOrchestrator(cache *Cache, auth Verifier, view Renderer, log logging.Logger) *Orchestrator {
	return &Orchestrator{cache: cache, auth: auth, view: view, now: time.Now, log: log}
}

// Boot paints the cached identity immediately when one is present and its
// token has not visibly expired, then verifies the session authoritatively.
//
//   - verification succeeds, nothing painted yet: paint now (cold start)
//   - verification succeeds, cached identity already painted: leave the view
//     alone, only refresh the cache with the authoritative identity
//   - verification fails: force the unauthenticated view and clear the cache,
//     whatever was painted optimistically
//
// The returned identity is the authoritative one; ok is false when the user
// ends up signed out. Verification is never retried afterwards.
func (o *Orchestrator) Boot(ctx context.Context) (models.Identity, bool) {
	cached, err := o.cache.Load(ctx)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		o.log.Warn(ctx, "reading session cache", "error", err)
	}

	painted := false
	if err == nil && tokenUsable(cached.SessionToken, o.now()) {
		o.view.ShowAuthenticated(cached)
		painted = true
	}

	verified, err := o.auth.Current(ctx, cached.SessionToken)
	if err != nil {
		o.log.Info(ctx, "session verification failed", "error", err)
		o.view.ShowUnauthenticated()
		if cerr := o.cache.Clear(ctx); cerr != nil {
			o.log.Warn(ctx, "clearing session cache", "error", cerr)
		}
		return models.Identity{}, false
	}

	if !painted {
		o.view.ShowAuthenticated(verified)
	}
	if err := o.cache.Save(ctx, verified); err != nil {
		o.log.Warn(ctx, "refreshing session cache", "error", err)
	}
	return verified, true
}
