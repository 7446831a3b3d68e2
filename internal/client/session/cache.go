// Package session holds the locally cached identity and the boot-time
// reconciliation between that cache and the authoritative auth collaborator.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/snipai/snipai/internal/client/models"
	"github.com/snipai/snipai/internal/common"
	"github.com/snipai/snipai/internal/dbx"
)

// Cache persists the last known authenticated identity. It is a single-row
// table: there is at most one cached session per install, and it is only a
// hint for instant paint, never authoritative.
type Cache struct {
	db dbx.DBTX
}

func NewCache(db dbx.DBTX) *Cache {
	return &Cache{db: db}
}

// Load returns the cached identity, or common.ErrNotFound when none is
// stored.
func (c *Cache) Load(ctx context.Context) (models.Identity, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT user_id, name, email, token FROM sessions WHERE id = 1`)

	var id models.Identity
	err := row.Scan(&id.ID, &id.Name, &id.Email, &id.SessionToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Identity{}, common.ErrNotFound
		}
		return models.Identity{}, fmt.Errorf("loading cached session: %w", err)
	}
	return id, nil
}

// Save stores the identity, replacing any previous one.
func (c *Cache) Save(ctx context.Context, id models.Identity) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, name, email, token, saved_at)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   user_id = excluded.user_id,
		   name = excluded.name,
		   email = excluded.email,
		   token = excluded.token,
		   saved_at = excluded.saved_at`,
		id.ID, id.Name, id.Email, id.SessionToken, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear drops the cached identity.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = 1`); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
