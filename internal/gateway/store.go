package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/snipai/snipai/internal/common"
)

// CDNTag is the fixed partition tag for third-party static assets. It is
// never purged on version cutover: CDN entries are keyed by immutable URLs,
// independent of deploy version.
const CDNTag = "snipai-cdn-v1"

// Entry is a stored response snapshot.
type Entry struct {
	Status int
	Header http.Header
	Body   []byte
}

// Store is the versioned response cache, a sqlite-backed key-value store
// partitioned by tag. Put and delete are individually atomic at the
// statement level; no further locking is needed.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RequestKey builds the cache key for a request: method plus exact URL.
func RequestKey(method, rawURL string) string {
	return method + " " + rawURL
}

// Open returns a handle scoped to one partition tag. Opening the same tag
// twice yields handles over the same underlying rows.
func (s *Store) Open(tag string) *PartitionStore {
	return &PartitionStore{store: s, tag: tag}
}

// ActivateVersion deletes every partition whose tag is neither shellTag nor
// the fixed CDN tag. Called on activation of a new shell generation.
func (s *Store) ActivateVersion(ctx context.Context, shellTag string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE partition NOT IN (?, ?)`, shellTag, CDNTag)
	if err != nil {
		return fmt.Errorf("failed to purge stale partitions: %w", err)
	}
	return nil
}

// Partitions lists the distinct partition tags currently present.
func (s *Store) Partitions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT partition FROM cache_entries ORDER BY partition`)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// PartitionStore is a Store handle bound to a single partition tag.
type PartitionStore struct {
	store *Store
	tag   string
}

func (p *PartitionStore) Tag() string { return p.tag }

// Put stores a snapshot, overwriting any existing entry for the same key
// within this partition.
func (p *PartitionStore) Put(ctx context.Context, key string, e *Entry) error {
	headers, err := json.Marshal(e.Header)
	if err != nil {
		return fmt.Errorf("failed to encode headers: %w", err)
	}
	query := `INSERT INTO cache_entries (partition, req_key, status, headers, body, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(partition, req_key) DO UPDATE SET status = excluded.status,
				headers = excluded.headers,
				body = excluded.body,
				fetched_at = excluded.fetched_at
	`
	_, err = p.store.db.ExecContext(ctx, query,
		p.tag, key, e.Status, string(headers), e.Body, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

// Match returns the stored snapshot for key, or common.ErrNotFound.
// There are no partial matches.
func (p *PartitionStore) Match(ctx context.Context, key string) (*Entry, error) {
	query := `SELECT status, headers, body FROM cache_entries WHERE partition = ? AND req_key = ?`
	row := p.store.db.QueryRowContext(ctx, query, p.tag, key)

	e := &Entry{}
	var headers string
	if err := row.Scan(&e.Status, &headers, &e.Body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	if err := json.Unmarshal([]byte(headers), &e.Header); err != nil {
		return nil, fmt.Errorf("failed to decode headers: %w", err)
	}
	return e, nil
}
