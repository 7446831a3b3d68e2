package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRouter_MessageEndpoint(t *testing.T) {
	srv := shellServer(t, nil)
	w, _ := newTestWorker(t, srv, "snipai-v1", WithPrecachePaths(nil), AutoActivate(false))
	router := NewRouter(w)

	req := httptest.NewRequest(http.MethodPost, "/sw/message", strings.NewReader("SKIP_WAITING"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case <-w.skipCh:
	default:
		t.Fatal("SKIP_WAITING must trigger the activation override")
	}
}

func TestRouter_MessageEndpointRejectsUnknownCommand(t *testing.T) {
	srv := shellServer(t, nil)
	w, _ := newTestWorker(t, srv, "snipai-v1", WithPrecachePaths(nil), AutoActivate(false))
	router := NewRouter(w)

	req := httptest.NewRequest(http.MethodPost, "/sw/message", strings.NewReader("FLUSH_ALL"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ServesShellThroughCache(t *testing.T) {
	srv := shellServer(t, nil)
	w, _ := newTestWorker(t, srv, "snipai-v1", WithPrecachePaths([]string{"/index.html"}))
	require.NoError(t, w.Run(context.Background()))
	router := NewRouter(w)

	req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	require.Equal(t, "content of /index.html", string(body))

	// Upstream down: the cached copy still serves.
	srv.Close()
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
