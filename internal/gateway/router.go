package gateway

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxMessageBytes bounds the message-channel request body.
const maxMessageBytes = 64

// NewRouter builds the gateway HTTP surface: a message endpoint for the
// skip-waiting override and a catch-all that serves the application shell
// through the partitioned transport (so every response obeys the
// network-first / cache-fallback policy).
func NewRouter(w *Worker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/sw/message", handleMessage(w))
	r.NotFound(serveShell(w))

	return r
}

func handleMessage(w *Worker) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBytes))
		if err != nil {
			http.Error(rw, "unreadable message", http.StatusBadRequest)
			return
		}
		if string(body) != SkipWaitingCommand {
			http.Error(rw, "unknown command", http.StatusBadRequest)
			return
		}
		w.HandleMessage(r.Context(), string(body))
		rw.WriteHeader(http.StatusAccepted)
	}
}

func serveShell(w *Worker) http.HandlerFunc {
	client := &http.Client{Transport: w.Transport()}

	return func(rw http.ResponseWriter, r *http.Request) {
		url := w.shellOrigin + r.URL.RequestURI()
		req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
		if err != nil {
			http.Error(rw, "bad request", http.StatusBadRequest)
			return
		}
		req.Header = r.Header.Clone()

		resp, err := client.Do(req)
		if err != nil {
			// The transport converts network failures itself; reaching this
			// branch means something other than connectivity broke.
			w.log.Error(r.Context(), "shell proxy failed", "url", url, "error", err)
			http.Error(rw, "gateway error", http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()

		for k, vals := range resp.Header {
			for _, v := range vals {
				rw.Header().Add(k, v)
			}
		}
		rw.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(rw, resp.Body)
	}
}
