package editor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/snipai/snipai/internal/client/models"
	"github.com/snipai/snipai/internal/logging"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeStore implements Store and records every persist call.
type fakeStore struct {
	mu      sync.Mutex
	creates []models.SnippetFields
	updates []models.SnippetFields
	lastID  string
	err     error
	block   chan struct{} // when set, Create/Update waits before returning
}

func (f *fakeStore) Create(ctx context.Context, ownerID string, fields models.SnippetFields) (models.Snippet, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Snippet{}, f.err
	}
	f.creates = append(f.creates, fields)
	return models.Snippet{ID: "snip-1", Title: fields.Title, AuthorID: ownerID}, nil
}

func (f *fakeStore) Update(ctx context.Context, id, ownerID string, fields models.SnippetFields) (models.Snippet, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Snippet{}, f.err
	}
	f.updates = append(f.updates, fields)
	f.lastID = id
	return models.Snippet{ID: id, Title: fields.Title, AuthorID: ownerID}, nil
}

func (f *fakeStore) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates), len(f.updates)
}

// fakeSink records status transitions and toasts.
type fakeSink struct {
	mu       sync.Mutex
	statuses []Status
	toasts   []string
}

func (f *fakeSink) SetSaveStatus(s Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, s)
}

func (f *fakeSink) Toast(msg string, kind ToastKind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toasts = append(f.toasts, msg)
}

func (f *fakeSink) lastStatus() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.statuses) == 0 {
		return StatusNone
	}
	return f.statuses[len(f.statuses)-1]
}

func (f *fakeSink) toastCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.toasts)
}

func newTestSession(store *fakeStore, sink *fakeSink, delay time.Duration) *Session {
	s := NewSession("user-1", store, sink, delay, nil, testLogger())
	s.Open(nil)
	return s
}

func TestSession_CoalescesEditsIntoOneSave(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}
	s := newTestSession(store, sink, 30*time.Millisecond)

	s.SetTitle("F")
	s.SetTitle("Fi")
	s.SetTitle("Fib")
	s.SetCode("fib := func(n int) int { ... }")

	require.Eventually(t, func() bool {
		c, _ := store.counts()
		return c == 1
	}, 2*time.Second, 5*time.Millisecond, "burst of edits must coalesce into exactly one save")

	// The single save carries the values as of the last edit.
	store.mu.Lock()
	fields := store.creates[0]
	store.mu.Unlock()
	require.Equal(t, "Fib", fields.Title)
	require.Equal(t, "fib := func(n int) int { ... }", fields.Code)

	// No second save fires afterwards.
	time.Sleep(100 * time.Millisecond)
	c, u := store.counts()
	require.Equal(t, 1, c)
	require.Equal(t, 0, u)
}

func TestSession_AutosaveAdoptsIdentity(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}
	s := newTestSession(store, sink, 20*time.Millisecond)

	s.SetTitle("Fib")
	s.SetCode("code")

	require.Eventually(t, func() bool { return s.RecordID() == "snip-1" },
		2*time.Second, 5*time.Millisecond)
	require.Equal(t, StatusSaved, sink.lastStatus())
	require.Equal(t, StateClean, s.State())

	// Subsequent edits update the same record instead of creating another.
	s.SetCode("code v2")
	require.Eventually(t, func() bool {
		_, u := store.counts()
		return u == 1
	}, 2*time.Second, 5*time.Millisecond)

	c, _ := store.counts()
	require.Equal(t, 1, c, "no second create after identity adoption")
	require.Equal(t, "snip-1", store.lastID)
}

func TestSession_ValidationBlocksNetwork(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}
	s := newTestSession(store, sink, time.Hour)

	s.SetCode("code without title")

	err := s.SaveNow(context.Background())
	require.Error(t, err)
	require.True(t, IsValidationError(err))
	require.Equal(t, "Title is required", err.Error())

	c, u := store.counts()
	require.Zero(t, c+u, "validation failures must never reach the network")
	require.True(t, s.Dirty())
}

func TestSession_ValidationMessageForEmptyCode(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}
	s := newTestSession(store, sink, time.Hour)

	s.SetTitle("has title")

	err := s.SaveNow(context.Background())
	require.True(t, IsValidationError(err))
	require.Equal(t, "Code cannot be empty", err.Error())
}

func TestSession_ExplicitSaveFailureStaysDirty(t *testing.T) {
	store := &fakeStore{err: errors.New("store unreachable")}
	sink := &fakeSink{}
	s := newTestSession(store, sink, time.Hour)

	s.SetTitle("Fib")
	s.SetCode("code")

	err := s.SaveNow(context.Background())
	require.Error(t, err)
	require.False(t, IsValidationError(err))

	require.Equal(t, StatusError, sink.lastStatus())
	require.GreaterOrEqual(t, sink.toastCount(), 1, "explicit saves are vocal")
	require.True(t, s.Dirty(), "failed save must leave the draft dirty")
	require.Empty(t, s.RecordID(), "no identity is assigned on failure")
}

func TestSession_SilentSaveSuppressesToasts(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}
	s := newTestSession(store, sink, time.Hour)

	s.SetTitle("Fib")
	s.SetCode("code")

	require.NoError(t, s.Save(context.Background(), true))
	require.Equal(t, StatusSaved, sink.lastStatus())
	require.Zero(t, sink.toastCount(), "background autosave never toasts")
}

func TestSession_ScheduleSaveIdempotentArm(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}
	s := newTestSession(store, sink, 30*time.Millisecond)

	s.SetTitle("Fib")
	s.SetCode("x")
	s.ScheduleSave()
	s.ScheduleSave()

	time.Sleep(150 * time.Millisecond)
	c, u := store.counts()
	require.Equal(t, 1, c+u, "double arm must supersede, not duplicate")
}

func TestSession_NoConcurrentSaves(t *testing.T) {
	store := &fakeStore{block: make(chan struct{})}
	sink := &fakeSink{}
	s := newTestSession(store, sink, 20*time.Millisecond)

	s.SetTitle("Fib")
	s.SetCode("v1")

	// Wait for the autosave to be in flight (blocked inside the store).
	require.Eventually(t, func() bool { return s.State() == StateSaving },
		2*time.Second, 5*time.Millisecond)

	// An edit during the in-flight save re-arms the timer instead of
	// spawning a second persist.
	s.SetCode("v2")
	require.NoError(t, s.Save(context.Background(), true))
	c, _ := store.counts()
	require.Zero(t, c, "second save must not start while one is in flight")

	close(store.block)

	require.Eventually(t, func() bool {
		c, u := store.counts()
		return c == 1 && u == 1
	}, 2*time.Second, 5*time.Millisecond, "the deferred save observes the latest values after the first settles")

	store.mu.Lock()
	last := store.updates[0]
	store.mu.Unlock()
	require.Equal(t, "v2", last.Code)
}

func TestSession_CancelStopsPendingAutosave(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}
	s := newTestSession(store, sink, 30*time.Millisecond)

	s.SetTitle("Fib")
	s.SetCode("x")
	s.Close()

	time.Sleep(100 * time.Millisecond)
	c, u := store.counts()
	require.Zero(t, c+u, "cancelled timer must never fire")
}

func TestSession_OpenSwitchTargetCancelsAutosave(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}
	s := newTestSession(store, sink, 30*time.Millisecond)

	s.SetTitle("stale")
	s.SetCode("stale")

	s.Open(&models.Snippet{ID: "snip-9", Title: "other", Code: "c", Language: "go"})

	time.Sleep(100 * time.Millisecond)
	c, u := store.counts()
	require.Zero(t, c+u, "switching the form target must drop the stale save")
	require.Equal(t, StateClean, s.State())
	require.Equal(t, "snip-9", s.RecordID())
}

// fakeAI implements Analyzer.
type fakeAI struct {
	analysis models.Analysis
	err      error
	calls    int
}

func (f *fakeAI) Analyze(ctx context.Context, code string) (models.Analysis, error) {
	f.calls++
	if f.err != nil {
		return models.Analysis{}, f.err
	}
	return f.analysis, nil
}

func TestSession_AnalyzeAppliesFieldsAndRearms(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}
	s := newTestSession(store, sink, 30*time.Millisecond)
	s.SetCode("def fib(n): ...")

	ai := &fakeAI{analysis: models.Analysis{
		Language:    "python",
		Title:       "Fibonacci",
		Description: "Recursive Fibonacci",
		Tags:        []string{"math", "recursion"},
	}}

	_, err := s.RunAnalyze(context.Background(), ai)
	require.NoError(t, err)

	d := s.Draft()
	require.Equal(t, "Fibonacci", d.Title)
	require.Equal(t, "python", d.Language)
	require.Equal(t, []string{"math", "recursion"}, d.Tags)

	// The re-armed autosave persists the filled form.
	require.Eventually(t, func() bool {
		c, _ := store.counts()
		return c == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSession_AnalyzeFailureStillRearms(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}
	s := newTestSession(store, sink, 30*time.Millisecond)
	s.SetTitle("Fib")
	s.SetCode("code")

	ai := &fakeAI{err: errors.New("request failed")}
	_, err := s.RunAnalyze(context.Background(), ai)
	require.Error(t, err)

	require.Eventually(t, func() bool {
		c, _ := store.counts()
		return c == 1
	}, 2*time.Second, 5*time.Millisecond, "autosave must re-arm after a failed AI call")
}
