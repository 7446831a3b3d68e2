package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/snipai/snipai/internal/logging"
)

// SkipWaitingCommand is the single message-channel command the worker
// accepts; it forces immediate activation of this generation.
const SkipWaitingCommand = "SKIP_WAITING"

// DefaultPrecachePaths is the fixed manifest of first-party shell paths
// fetched best-effort on install.
var DefaultPrecachePaths = []string{
	"/",
	"/index.html",
	"/style.css",
	"/auth.css",
	"/app.js",
	"/auth.js",
	"/appwrite.js",
	"/manifest.json",
}

// State is the worker lifecycle phase.
type State int

const (
	StateNew State = iota
	StateInstalled
	StateActive
)

// Worker drives one cache generation through install (precache), activation
// (purge of superseded partitions) and serving. By default a new worker
// activates immediately after install; AutoActivate(false) makes it wait for
// an explicit SkipWaiting signal, which can also arrive early through the
// message endpoint.
type Worker struct {
	store        *Store
	transport    *Transport
	shellOrigin  string
	shellTag     string
	precache     []string
	autoActivate bool
	log          logging.Logger

	mu     sync.Mutex
	state  State
	skipCh chan struct{}
	skip   sync.Once
	ready  chan struct{}
}

// Option configures a Worker.
type Option func(*Worker)

// WithPrecachePaths overrides the precache manifest.
func WithPrecachePaths(paths []string) Option {
	return func(w *Worker) { w.precache = paths }
}

// AutoActivate controls whether Run activates immediately after install
// (the default) or waits for SkipWaiting.
func AutoActivate(v bool) Option {
	return func(w *Worker) { w.autoActivate = v }
}

// NewWorker builds a worker for one shell generation. shellOrigin is the
// first-party origin the shell is fetched from; shellTag is this build's
// cache partition tag.
func NewWorker(store *Store, transport *Transport, shellOrigin, shellTag string, log logging.Logger, opts ...Option) *Worker {
	w := &Worker{
		store:        store,
		transport:    transport,
		shellOrigin:  shellOrigin,
		shellTag:     shellTag,
		precache:     DefaultPrecachePaths,
		autoActivate: true,
		log:          log,
		skipCh:       make(chan struct{}),
		ready:        make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Transport exposes the partitioned transport this worker serves through.
func (w *Worker) Transport() *Transport { return w.transport }

// State returns the current lifecycle phase.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Ready is closed once the worker has activated.
func (w *Worker) Ready() <-chan struct{} { return w.ready }

// SkipWaiting forces activation of an installed-but-waiting worker. Safe to
// call any number of times, from any goroutine.
func (w *Worker) SkipWaiting() {
	w.skip.Do(func() { close(w.skipCh) })
}

// HandleMessage processes a message-channel command. Unknown commands are
// ignored, matching the single-command contract.
func (w *Worker) HandleMessage(ctx context.Context, msg string) {
	if msg == SkipWaitingCommand {
		w.log.Info(ctx, "skip-waiting requested")
		w.SkipWaiting()
	}
}

// Run installs this generation and activates it. With AutoActivate (the
// default) activation follows install immediately; otherwise Run blocks
// until SkipWaiting or context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	w.install(ctx)

	if w.autoActivate {
		w.SkipWaiting()
	}
	select {
	case <-w.skipCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	return w.activate(ctx)
}

// install precaches the shell manifest. Each fetch is isolated and failures
// are swallowed, so one broken asset cannot prevent the rest of the shell
// from precaching.
func (w *Worker) install(ctx context.Context) {
	shell := w.store.Open(w.shellTag)
	client := &http.Client{Transport: w.transport.base}

	cached, failed := 0, 0
	for _, path := range w.precache {
		if err := w.precacheOne(ctx, client, shell, path); err != nil {
			failed++
			w.log.Warn(ctx, "precache failed", "path", path, "error", err)
			continue
		}
		cached++
	}

	w.mu.Lock()
	w.state = StateInstalled
	w.mu.Unlock()
	w.log.Info(ctx, "install complete", "cached", cached, "failed", failed)
}

func (w *Worker) precacheOne(ctx context.Context, client *http.Client, shell *PartitionStore, path string) error {
	url := w.shellOrigin + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if !isOK(resp) {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return shell.Put(ctx, RequestKey(http.MethodGet, url), &Entry{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	})
}

// activate purges every partition superseded by this generation and takes
// control: requests flowing through the transport now observe only the new
// shell partition and the fixed CDN partition.
func (w *Worker) activate(ctx context.Context) error {
	if err := w.store.ActivateVersion(ctx, w.shellTag); err != nil {
		return err
	}

	w.mu.Lock()
	w.state = StateActive
	w.mu.Unlock()
	close(w.ready)
	w.log.Info(ctx, "activated", "shell_tag", w.shellTag)
	return nil
}
