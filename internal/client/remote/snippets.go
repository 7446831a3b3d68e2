package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/snipai/snipai/internal/client/models"
	"github.com/snipai/snipai/internal/logging"
)

const (
	// ListLimit caps a personal listing; the store returns newest first.
	ListLimit = 100
	// ExplorePageSize is the page size of the public explore feed.
	ExplorePageSize = 18
)

// TokenFunc supplies the current session token. The store reads it per call
// so a re-login mid-session is picked up without rebuilding the client.
type TokenFunc func() string

// SnippetStore is the document-store collaborator for snippet CRUD and the
// public explore feed.
type SnippetStore struct {
	c            *httpClient
	databaseID   string
	collectionID string
	token        TokenFunc
	log          logging.Logger
}

func NewSnippetStore(base string, hc *http.Client, databaseID, collectionID string, token TokenFunc, log logging.Logger) *SnippetStore {
	return &SnippetStore{
		c:            newHTTPClient(base, hc),
		databaseID:   databaseID,
		collectionID: collectionID,
		token:        token,
		log:          log,
	}
}

// snippetDoc is the wire form of a snippet document. Tags travel as a single
// comma-joined string.
type snippetDoc struct {
	ID          string    `json:"$id"`
	Title       string    `json:"title"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	Tags        string    `json:"tags"`
	Description string    `json:"description"`
	Public      bool      `json:"public"`
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	CreatedAt   time.Time `json:"$createdAt"`
}

type documentList struct {
	Documents []snippetDoc `json:"documents"`
	Total     int          `json:"total"`
}

func (d snippetDoc) toModel() models.Snippet {
	return models.Snippet{
		ID:          d.ID,
		Title:       d.Title,
		Code:        d.Code,
		Language:    d.Language,
		Tags:        splitTags(d.Tags),
		Description: d.Description,
		Public:      d.Public,
		AuthorID:    d.AuthorID,
		AuthorName:  d.AuthorName,
		CreatedAt:   d.CreatedAt,
	}
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *SnippetStore) documentsPath() string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents", s.databaseID, s.collectionID)
}

// List returns the owner's snippets, newest first, capped at ListLimit.
func (s *SnippetStore) List(ctx context.Context, ownerID string, filter models.ListFilter) ([]models.Snippet, error) {
	q := url.Values{}
	q.Set("ownerId", ownerID)
	q.Set("orderBy", "-$createdAt")
	q.Set("limit", strconv.Itoa(ListLimit))
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Language != "" {
		q.Set("language", filter.Language)
	}

	status, body, err := s.c.do(ctx, http.MethodGet, s.documentsPath()+"?"+q.Encode(), s.token(), nil)
	if err != nil {
		return nil, err
	}
	return s.decodeList(status, body)
}

// Explore returns one page of the public feed, newest first. page is
// zero-based; an optional language narrows the feed.
func (s *SnippetStore) Explore(ctx context.Context, page int, language string) ([]models.Snippet, error) {
	q := url.Values{}
	q.Set("public", "true")
	q.Set("orderBy", "-$createdAt")
	q.Set("limit", strconv.Itoa(ExplorePageSize))
	q.Set("offset", strconv.Itoa(page*ExplorePageSize))
	if language != "" {
		q.Set("language", language)
	}

	status, body, err := s.c.do(ctx, http.MethodGet, s.documentsPath()+"?"+q.Encode(), s.token(), nil)
	if err != nil {
		return nil, err
	}
	return s.decodeList(status, body)
}

func (s *SnippetStore) decodeList(status int, body []byte) ([]models.Snippet, error) {
	if status != http.StatusOK {
		return nil, fmt.Errorf("listing snippets: unexpected status %d", status)
	}
	var list documentList
	if err := decodeEnvelope(body, &list); err != nil {
		return nil, err
	}
	out := make([]models.Snippet, 0, len(list.Documents))
	for _, d := range list.Documents {
		out = append(out, d.toModel())
	}
	return out, nil
}

type createRequest struct {
	DocumentID  string   `json:"documentId"`
	Data        docData  `json:"data"`
	Permissions []string `json:"permissions,omitempty"`
}

type updateRequest struct {
	Data        docData  `json:"data"`
	Permissions []string `json:"permissions,omitempty"`
}

type docData struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Language    string `json:"language"`
	Tags        string `json:"tags"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	AuthorID    string `json:"authorId"`
}

// permissionsFor attaches an anonymous read grant when the snippet is public.
func permissionsFor(public bool) []string {
	if public {
		return []string{`read("any")`}
	}
	return nil
}

func fieldsToData(ownerID string, fields models.SnippetFields) docData {
	return docData{
		Title:       fields.Title,
		Code:        fields.Code,
		Language:    fields.Language,
		Tags:        joinTags(fields.Tags),
		Description: fields.Description,
		Public:      fields.Public,
		AuthorID:    ownerID,
	}
}

// Create persists a new snippet under a client-generated id and returns the
// stored document with its server-side derived fields.
func (s *SnippetStore) Create(ctx context.Context, ownerID string, fields models.SnippetFields) (models.Snippet, error) {
	req := createRequest{
		DocumentID:  uuid.NewString(),
		Data:        fieldsToData(ownerID, fields),
		Permissions: permissionsFor(fields.Public),
	}

	s.log.Debug(ctx, "creating document", "id", req.DocumentID, "public", fields.Public)
	status, body, err := s.c.do(ctx, http.MethodPost, s.documentsPath(), s.token(), req)
	if err != nil {
		return models.Snippet{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return models.Snippet{}, fmt.Errorf("creating snippet: unexpected status %d", status)
	}

	var doc snippetDoc
	if err := decodeEnvelope(body, &doc); err != nil {
		return models.Snippet{}, err
	}
	return doc.toModel(), nil
}

// Update overwrites the stored field set of an existing snippet.
func (s *SnippetStore) Update(ctx context.Context, id, ownerID string, fields models.SnippetFields) (models.Snippet, error) {
	req := updateRequest{
		Data:        fieldsToData(ownerID, fields),
		Permissions: permissionsFor(fields.Public),
	}

	status, body, err := s.c.do(ctx, http.MethodPatch, s.documentsPath()+"/"+id, s.token(), req)
	if err != nil {
		return models.Snippet{}, err
	}
	if status != http.StatusOK {
		return models.Snippet{}, fmt.Errorf("updating snippet: unexpected status %d", status)
	}

	var doc snippetDoc
	if err := decodeEnvelope(body, &doc); err != nil {
		return models.Snippet{}, err
	}
	return doc.toModel(), nil
}

// Delete removes a snippet.
func (s *SnippetStore) Delete(ctx context.Context, id string) error {
	status, body, err := s.c.do(ctx, http.MethodDelete, s.documentsPath()+"/"+id, s.token(), nil)
	if err != nil {
		return err
	}
	if status == http.StatusNoContent {
		return nil
	}
	if status != http.StatusOK {
		return fmt.Errorf("deleting snippet: unexpected status %d", status)
	}
	return decodeEnvelope(body, nil)
}
