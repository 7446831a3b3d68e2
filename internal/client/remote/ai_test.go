package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticKeys struct {
	key string
	err error
}

func (s staticKeys) Get(ctx context.Context) (string, error) { return s.key, s.err }

func chatReply(w http.ResponseWriter, content string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
}

func TestAI_NoKeyFailsBeforeNetwork(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	ai := NewAI(srv.URL, srv.Client(), staticKeys{}, testLogger())

	_, err := ai.Analyze(context.Background(), "code")
	require.ErrorIs(t, err, ErrNoKey)

	_, err = ai.Explain(context.Background(), "code", "go")
	require.ErrorIs(t, err, ErrNoKey)

	require.Zero(t, calls, "a missing key must never produce a request")
}

func TestAI_AnalyzeParsesFencedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, chatCompletions, r.URL.Path)
		require.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, aiModel, req.Model)
		require.Len(t, req.Messages, 2)

		chatReply(w, "```json\n{\"language\":\"python\",\"title\":\"Fibonacci\",\"description\":\"d\",\"tags\":[\"math\"]}\n```")
	}))
	defer srv.Close()

	ai := NewAI(srv.URL, srv.Client(), staticKeys{key: "gsk_test"}, testLogger())

	analysis, err := ai.Analyze(context.Background(), "def fib(n): ...")
	require.NoError(t, err)
	require.Equal(t, "python", analysis.Language)
	require.Equal(t, "Fibonacci", analysis.Title)
	require.Equal(t, []string{"math"}, analysis.Tags)
}

func TestAI_TruncatesLongCode(t *testing.T) {
	var sent chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		chatReply(w, `{"language":"go","title":"t","description":"","tags":[]}`)
	}))
	defer srv.Close()

	ai := NewAI(srv.URL, srv.Client(), staticKeys{key: "gsk_test"}, testLogger())

	long := strings.Repeat("x", maxPromptCode+500)
	_, err := ai.Analyze(context.Background(), long)
	require.NoError(t, err)
	require.Len(t, sent.Messages[1].Content, maxPromptCode)
}

func TestAI_RejectedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	ai := NewAI(srv.URL, srv.Client(), staticKeys{key: "gsk_bad"}, testLogger())
	_, err := ai.Analyze(context.Background(), "code")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestAI_OfflineEnvelopeIsRequestFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":"Offline"}`))
	}))
	defer srv.Close()

	ai := NewAI(srv.URL, srv.Client(), staticKeys{key: "gsk_test"}, testLogger())
	_, err := ai.Analyze(context.Background(), "code")
	require.ErrorIs(t, err, ErrRequestFailed)
}

func TestAI_ExplainPrefixesLanguage(t *testing.T) {
	var sent chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		chatReply(w, "It computes Fibonacci numbers recursively.")
	}))
	defer srv.Close()

	ai := NewAI(srv.URL, srv.Client(), staticKeys{key: "gsk_test"}, testLogger())

	text, err := ai.Explain(context.Background(), "def fib(n): ...", "python")
	require.NoError(t, err)
	require.Contains(t, text, "Fibonacci")
	require.True(t, strings.HasPrefix(sent.Messages[1].Content, "Language: python"))
}

func TestStripFences(t *testing.T) {
	require.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}
