package gateway

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/snipai/snipai/internal/logging"
)

// OfflineEnvelope is the synthesized body returned for live-data requests
// that fail at the network level, so callers always receive a well-formed
// result envelope instead of a transport error.
const OfflineEnvelope = `{"success":false,"error":"Offline"}`

// EntryPointPath is the cached application entry point served for failed
// navigation requests.
const EntryPointPath = "/index.html"

// Transport is an http.RoundTripper that applies the per-partition caching
// policy to every request passing through it:
//
//   - CDN: cache-first; successful fetches are stored under the fixed CDN tag.
//   - live data: network-only; network failure synthesizes an offline envelope.
//   - shell: network-first; successful fetches refresh the current shell
//     partition, failures fall back to cache (or the cached entry point for
//     navigations, or a 503).
//
// Network errors never escape RoundTrip; they are converted into a fallback
// cache read or a synthesized response.
type Transport struct {
	base       http.RoundTripper
	classifier *Classifier
	shell      *PartitionStore
	cdn        *PartitionStore
	log        logging.Logger
}

func NewTransport(base http.RoundTripper, classifier *Classifier, store *Store, shellTag string, log logging.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		base:       base,
		classifier: classifier,
		shell:      store.Open(shellTag),
		cdn:        store.Open(CDNTag),
		log:        log,
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	switch t.classifier.Classify(req.URL) {
	case PartitionCDN:
		return t.roundTripCDN(req)
	case PartitionLive:
		return t.roundTripLive(req)
	default:
		return t.roundTripShell(req)
	}
}

// roundTripCDN serves cached responses when present; otherwise it fetches
// and stores successful responses keyed by exact URL. CDN entries are
// treated as immutable, so a hit is never revalidated.
func (t *Transport) roundTripCDN(req *http.Request) (*http.Response, error) {
	key := RequestKey(req.Method, req.URL.String())

	if e, err := t.cdn.Match(req.Context(), key); err == nil {
		return synthesize(req, e), nil
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.log.Warn(req.Context(), "cdn fetch failed", "url", req.URL.String(), "error", err)
		return offlineResponse(req), nil
	}
	if isOK(resp) {
		resp, err = t.snapshot(req, t.cdn, key, resp)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// roundTripLive never reads or writes the cache. A transport failure becomes
// a synthesized JSON failure envelope, not an error.
func (t *Transport) roundTripLive(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.log.Warn(req.Context(), "live fetch failed, synthesizing offline envelope",
			"url", req.URL.String(), "error", err)
		return offlineEnvelopeResponse(req), nil
	}
	return resp, nil
}

// roundTripShell fetches fresh (bypassing intermediate HTTP caches),
// refreshes the current shell partition on success, and falls back to the
// cache on failure. Failed navigations get the cached entry point.
func (t *Transport) roundTripShell(req *http.Request) (*http.Response, error) {
	key := RequestKey(req.Method, req.URL.String())

	fresh := req.Clone(req.Context())
	fresh.Header.Set("Cache-Control", "no-cache")

	resp, err := t.base.RoundTrip(fresh)
	if err == nil {
		if isOK(resp) {
			resp, err = t.snapshot(req, t.shell, key, resp)
			if err != nil {
				return nil, err
			}
		}
		return resp, nil
	}

	t.log.Warn(req.Context(), "shell fetch failed, falling back to cache",
		"url", req.URL.String(), "error", err)

	if e, merr := t.shell.Match(req.Context(), key); merr == nil {
		return synthesize(req, e), nil
	}

	if isNavigation(req) {
		entry := *req.URL
		entry.Path = EntryPointPath
		entry.RawQuery = ""
		if e, merr := t.shell.Match(req.Context(), RequestKey(http.MethodGet, entry.String())); merr == nil {
			return synthesize(req, e), nil
		}
	}

	return offlineResponse(req), nil
}

// snapshot stores the full response body and returns an equivalent response
// whose body can still be read by the caller.
func (t *Transport) snapshot(req *http.Request, p *PartitionStore, key string, resp *http.Response) (*http.Response, error) {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	e := &Entry{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body}
	if perr := p.Put(req.Context(), key, e); perr != nil {
		// A failed cache write must not break the live response.
		t.log.Error(req.Context(), "cache write failed", "partition", p.Tag(), "key", key, "error", perr)
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	return resp, nil
}

func isOK(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// isNavigation reports whether the request is a page navigation, per the
// Sec-Fetch-Mode header browsers attach.
func isNavigation(req *http.Request) bool {
	return req.Header.Get("Sec-Fetch-Mode") == "navigate"
}

// synthesize turns a stored snapshot back into an http.Response.
func synthesize(req *http.Request, e *Entry) *http.Response {
	header := e.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		Status:        http.StatusText(e.Status),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

func offlineEnvelopeResponse(req *http.Request) *http.Response {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	return synthesize(req, &Entry{
		Status: http.StatusOK,
		Header: header,
		Body:   []byte(OfflineEnvelope),
	})
}

func offlineResponse(req *http.Request) *http.Response {
	header := http.Header{}
	header.Set("Content-Type", "text/plain; charset=utf-8")
	return synthesize(req, &Entry{
		Status: http.StatusServiceUnavailable,
		Header: header,
		Body:   []byte("Offline"),
	})
}
