// Package keystore stores the user's AI API key: sealed at rest in the
// local database, mirrored best-effort into the remote profile so a fresh
// install can recover it.
package keystore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/snipai/snipai/internal/client/remote"
	"github.com/snipai/snipai/internal/cryptox"
	"github.com/snipai/snipai/internal/dbx"
	"github.com/snipai/snipai/internal/logging"
)

// prefKey is the name of the key inside the remote preference blob.
const prefKey = "groqKey"

// Mirror is the remote profile surface the store syncs with. Mirror
// failures never fail a local operation.
type Mirror interface {
	Prefs(ctx context.Context, token string) (map[string]string, error)
	UpdatePrefs(ctx context.Context, token string, prefs map[string]string) error
}

// Store holds the AI key. Get and Save are safe to call with no mirror
// configured; the store then behaves as purely local.
type Store struct {
	db     dbx.DBTX
	secret []byte
	mirror Mirror
	token  remote.TokenFunc
	log    logging.Logger
}

func New(db dbx.DBTX, secret []byte, mirror Mirror, token remote.TokenFunc, log logging.Logger) *Store {
	return &Store{db: db, secret: cryptox.DeriveKey(secret, "ai-key"), mirror: mirror, token: token, log: log}
}

// Get returns the key, or "" when none is configured. Resolution order:
// local sealed copy first, then the remote profile; a key recovered from the
// profile is sealed locally so the next read stays offline-capable.
func (s *Store) Get(ctx context.Context) (string, error) {
	key, err := s.local(ctx)
	if err != nil {
		return "", err
	}
	if key != "" {
		return key, nil
	}

	if s.mirror == nil {
		return "", nil
	}
	prefs, err := s.mirror.Prefs(ctx, s.token())
	if err != nil {
		s.log.Debug(ctx, "reading remote key mirror", "error", err)
		return "", nil
	}
	key = prefs[prefKey]
	if key == "" {
		return "", nil
	}
	if err := s.saveLocal(ctx, key); err != nil {
		s.log.Warn(ctx, "caching recovered key", "error", err)
	}
	return key, nil
}

// Save seals the key locally and mirrors it to the remote profile. The
// mirror write is best-effort; its failure is logged and swallowed.
func (s *Store) Save(ctx context.Context, key string) error {
	if err := s.saveLocal(ctx, key); err != nil {
		return err
	}
	if s.mirror != nil {
		if err := s.mirror.UpdatePrefs(ctx, s.token(), map[string]string{prefKey: key}); err != nil {
			s.log.Warn(ctx, "mirroring key to profile", "error", err)
		}
	}
	return nil
}

// Clear drops the local copy. The remote mirror is left untouched.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM ai_keys WHERE id = 1`); err != nil {
		return fmt.Errorf("clearing key: %w", err)
	}
	return nil
}

func (s *Store) local(ctx context.Context) (string, error) {
	var sealed []byte
	err := s.db.QueryRowContext(ctx, `SELECT ciphertext FROM ai_keys WHERE id = 1`).Scan(&sealed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("reading key: %w", err)
	}

	plain, err := cryptox.Open(sealed, s.secret)
	if err != nil {
		// A key sealed under a lost secret is unrecoverable; treat it as
		// absent so the user can set a new one.
		s.log.Warn(ctx, "unsealing stored key", "error", err)
		return "", nil
	}
	return string(plain), nil
}

func (s *Store) saveLocal(ctx context.Context, key string) error {
	sealed, err := cryptox.Seal([]byte(key), s.secret)
	if err != nil {
		return fmt.Errorf("sealing key: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ai_keys (id, ciphertext, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   ciphertext = excluded.ciphertext,
		   updated_at = excluded.updated_at`,
		sealed, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("storing key: %w", err)
	}
	return nil
}
