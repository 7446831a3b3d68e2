package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/snipai/snipai/internal/client/config"
	"github.com/snipai/snipai/internal/client/editor"
	"github.com/snipai/snipai/internal/client/keystore"
	"github.com/snipai/snipai/internal/client/models"
	"github.com/snipai/snipai/internal/client/remote"
	"github.com/snipai/snipai/internal/client/session"
	"github.com/snipai/snipai/internal/client/storage"
	"github.com/snipai/snipai/internal/cryptox"
	"github.com/snipai/snipai/internal/logging"
)

// App owns the interactive client: the remote collaborators, the cached
// session, the key store and the current list/selection state. One App per
// process; it is reset in place on logout.
type App struct {
	config   *config.Config
	log      logging.Logger
	auth     *remote.Auth
	store    *remote.SnippetStore
	ai       *remote.AI
	keys     *keystore.Store
	sessions *session.Cache
	closeDB  func() error

	reader *bufio.Reader
	out    io.Writer

	bg sync.WaitGroup

	mu         sync.Mutex
	identity   models.Identity
	loggedIn   bool
	snippets   []models.Snippet
	filter     models.ListFilter
	lastStatus editor.Status

	searchTimer *editor.Timer
}

// NewApp wires the client together. httpClient carries the gateway's
// partitioned transport when the gateway is in use; nil falls back to the
// default transport.
func NewApp(c *config.Config, httpClient *http.Client, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := storage.InitDatabase(ctx, filepath.Join(c.DataDir, "snipai.db"))
	if err != nil {
		return nil, fmt.Errorf("initializing local database: %w", err)
	}

	secret, err := cryptox.LoadOrCreateSecret(filepath.Join(c.DataDir, "snipai.secret"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("loading install secret: %w", err)
	}

	a := &App{
		config:      c,
		log:         log,
		sessions:    session.NewCache(db),
		closeDB:     db.Close,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		searchTimer: editor.NewTimer(),
	}

	a.auth = remote.NewAuth(c.DocStoreEndpoint, httpClient, log)
	a.store = remote.NewSnippetStore(c.DocStoreEndpoint, httpClient, c.DatabaseID, c.CollectionID, a.sessionToken, log)
	a.keys = keystore.New(db, secret, a.auth, a.sessionToken, log)
	a.ai = remote.NewAI(c.AIEndpoint, httpClient, a.keys, log)

	return a, nil
}

// Run boots the session reconciliation and enters the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	orch := session.NewOrchestrator(a.sessions, a.auth, a, a.log)
	orch.Boot(ctx)

	a.Root(ctx)
}

func (a *App) Close() {
	a.searchTimer.Cancel()
	a.bg.Wait()
	if err := a.closeDB(); err != nil {
		a.log.Warn(context.Background(), "closing database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loggedIn
}

func (a *App) currentIdentity() models.Identity {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.identity
}

// sessionToken is the remote.TokenFunc the collaborators read per call.
func (a *App) sessionToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.identity.SessionToken
}

// ShowAuthenticated paints the signed-in view and starts the list load.
// Part of the session.Renderer surface.
func (a *App) ShowAuthenticated(id models.Identity) {
	a.mu.Lock()
	a.identity = id
	a.loggedIn = true
	a.mu.Unlock()

	printlnFn(titleStyle.Render("Signed in as " + id.DisplayName()))
	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), remoteCallTimeout)
		defer cancel()
		a.loadSnippets(ctx)
	}()
}

// ShowUnauthenticated forces the signed-out view and drops the in-memory
// snippet and selection state.
func (a *App) ShowUnauthenticated() {
	a.mu.Lock()
	a.identity = models.Identity{}
	a.loggedIn = false
	a.snippets = nil
	a.filter = models.ListFilter{}
	a.mu.Unlock()

	printlnFn(dimStyle.Render("Not signed in. Use 'login' or 'register'."))
}

// SetSaveStatus is the editor status indicator. Part of editor.StatusSink.
// Repeated identical statuses are collapsed so a burst of edits does not
// spam the terminal.
func (a *App) SetSaveStatus(s editor.Status) {
	a.mu.Lock()
	changed := s != a.lastStatus
	a.lastStatus = s
	a.mu.Unlock()

	if changed && s != editor.StatusNone {
		printlnFn(renderStatus(s))
	}
}

// Toast prints a styled one-line notification. Part of editor.StatusSink.
func (a *App) Toast(msg string, kind editor.ToastKind) {
	printlnFn(renderToast(msg, kind))
}
