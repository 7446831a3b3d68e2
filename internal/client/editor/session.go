package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/snipai/snipai/internal/client/models"
	"github.com/snipai/snipai/internal/logging"
)

// Store is the subset of the remote snippet store a session persists through.
type Store interface {
	Create(ctx context.Context, ownerID string, fields models.SnippetFields) (models.Snippet, error)
	Update(ctx context.Context, id, ownerID string, fields models.SnippetFields) (models.Snippet, error)
}

// Analyzer produces AI field suggestions for a piece of code.
type Analyzer interface {
	Analyze(ctx context.Context, code string) (models.Analysis, error)
}

// Session is the editing context for one draft: it owns the draft fields,
// the state machine and the autosave timer. All mutation goes through the
// session, so the old pile of module-level globals (current draft, current
// timer handle) lives here as explicit fields instead.
//
// At most one persist call is in flight at a time. Edits arriving while a
// save runs re-arm the timer; the deferred fire observes the latest field
// values once the in-flight call has settled.
type Session struct {
	mu       sync.Mutex
	draft    models.SnippetFields
	recordID string
	state    State
	inFlight bool

	ownerID  string
	store    Store
	sink     StatusSink
	timer    *Timer
	delay    time.Duration
	onSaved  func(ctx context.Context)
	validate *validator.Validate
	log      logging.Logger
}

// NewSession builds an editing session for the given owner. onSaved, when
// non-nil, runs after every successful persist (the list refresh hook).
func NewSession(ownerID string, store Store, sink StatusSink, delay time.Duration, onSaved func(ctx context.Context), log logging.Logger) *Session {
	return &Session{
		ownerID:  ownerID,
		store:    store,
		sink:     sink,
		timer:    NewTimer(),
		delay:    delay,
		onSaved:  onSaved,
		validate: validator.New(),
		log:      log,
	}
}

// Open loads an existing snippet (or a blank draft when s is nil) into the
// session. Any pending autosave for the previous target is cancelled so a
// stale save cannot fire against the new draft.
func (s *Session) Open(snippet *models.Snippet) {
	s.timer.Cancel()
	s.mu.Lock()
	defer s.mu.Unlock()

	if snippet == nil {
		s.draft = models.SnippetFields{Language: "javascript"}
		s.recordID = ""
	} else {
		s.draft = models.SnippetFields{
			Title:       snippet.Title,
			Code:        snippet.Code,
			Language:    snippet.Language,
			Tags:        snippet.Tags,
			Description: snippet.Description,
			Public:      snippet.Public,
		}
		s.recordID = snippet.ID
	}
	s.state = StateClean
	s.sink.SetSaveStatus(StatusNone)
}

// Close cancels any pending autosave; called when the user cancels the form
// or navigates away.
func (s *Session) Close() {
	s.timer.Cancel()
}

// Draft returns a copy of the current field values.
func (s *Session) Draft() models.SnippetFields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// RecordID returns the persisted identity of the draft, or "" before the
// first successful create.
func (s *Session) RecordID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordID
}

// State returns the current draft state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dirty reports whether the draft has changes not yet confirmed persisted.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateDirty || s.state == StateSaving || s.state == StateError
}

func (s *Session) SetTitle(v string)       { s.edit(func(d *models.SnippetFields) { d.Title = v }) }
func (s *Session) SetCode(v string)        { s.edit(func(d *models.SnippetFields) { d.Code = v }) }
func (s *Session) SetLanguage(v string)    { s.edit(func(d *models.SnippetFields) { d.Language = v }) }
func (s *Session) SetTags(v []string)      { s.edit(func(d *models.SnippetFields) { d.Tags = v }) }
func (s *Session) SetDescription(v string) { s.edit(func(d *models.SnippetFields) { d.Description = v }) }
func (s *Session) SetPublic(v bool)        { s.edit(func(d *models.SnippetFields) { d.Public = v }) }

func (s *Session) edit(apply func(*models.SnippetFields)) {
	s.mu.Lock()
	apply(&s.draft)
	s.mu.Unlock()
	s.ScheduleSave()
}

// ScheduleSave marks the draft dirty, optimistically shows the saving
// status, and (re)arms the autosave timer. Arming supersedes any pending
// timer, so a burst of edits coalesces into a single trailing save.
func (s *Session) ScheduleSave() {
	s.mu.Lock()
	s.state = StateDirty
	s.mu.Unlock()

	s.sink.SetSaveStatus(StatusSaving)
	s.timer.Arm(s.delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = s.Save(ctx, true)
	})
}

// SaveNow cancels the pending autosave and saves vocally. This is the
// explicit save action.
func (s *Session) SaveNow(ctx context.Context) error {
	s.timer.Cancel()
	return s.Save(ctx, false)
}

// Save validates and persists the draft. Silent saves update the status
// indicator but never toast. Validation failures block the network call
// entirely and leave the draft dirty. If a save is already in flight the
// call re-arms the timer instead of spawning a concurrent persist.
func (s *Session) Save(ctx context.Context, silent bool) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		s.timer.Arm(s.delay, func() {
			sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = s.Save(sctx, true)
		})
		return nil
	}

	draft := s.draft
	id := s.recordID

	if err := validateDraft(s.validate, draft); err != nil {
		s.state = StateError
		s.mu.Unlock()
		s.sink.SetSaveStatus(StatusError)
		if !silent {
			s.sink.Toast(err.Error(), ToastError)
		}
		return err
	}

	s.state = StateSaving
	s.inFlight = true
	s.mu.Unlock()
	s.sink.SetSaveStatus(StatusSaving)

	var (
		saved models.Snippet
		err   error
	)
	if id == "" {
		saved, err = s.store.Create(ctx, s.ownerID, draft)
	} else {
		saved, err = s.store.Update(ctx, id, s.ownerID, draft)
	}

	s.mu.Lock()
	s.inFlight = false
	if err != nil {
		s.state = StateError
		s.mu.Unlock()
		s.log.Warn(ctx, "persisting draft", "error", err)
		s.sink.SetSaveStatus(StatusError)
		if !silent {
			s.sink.Toast("Save failed", ToastError)
		}
		return fmt.Errorf("save failed: %w", err)
	}

	if s.recordID == "" {
		// Adopt the identity assigned by the store so subsequent saves are
		// updates, not creates.
		s.recordID = saved.ID
	}
	if s.state == StateSaving {
		// saved is transient; collapse straight back to clean unless an edit
		// arrived while the call was in flight.
		s.state = StateClean
	}
	s.mu.Unlock()

	s.sink.SetSaveStatus(StatusSaved)
	if !silent {
		s.sink.Toast("Snippet saved", ToastSuccess)
	}
	if s.onSaved != nil {
		s.onSaved(ctx)
	}
	return nil
}

// RunAnalyze drives an AI auto-fill: it cancels the pending autosave so the
// AI's field writes cannot race it, calls the analyzer, applies the result,
// and re-arms a fresh autosave whether or not the call succeeded.
func (s *Session) RunAnalyze(ctx context.Context, ai Analyzer) (models.Analysis, error) {
	s.timer.Cancel()
	defer s.ScheduleSave()

	s.mu.Lock()
	code := s.draft.Code
	s.mu.Unlock()

	analysis, err := ai.Analyze(ctx, code)
	if err != nil {
		return models.Analysis{}, err
	}

	s.mu.Lock()
	s.draft.Title = analysis.Title
	s.draft.Description = analysis.Description
	s.draft.Tags = analysis.Tags
	if analysis.Language != "" {
		s.draft.Language = analysis.Language
	}
	s.state = StateDirty
	s.mu.Unlock()

	return analysis, nil
}
