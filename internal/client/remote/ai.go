package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/snipai/snipai/internal/client/models"
	"github.com/snipai/snipai/internal/logging"
)

const (
	// maxPromptCode caps how much code is sent to the model.
	maxPromptCode = 2000

	aiModel          = "llama-3.3-70b-versatile"
	chatCompletions  = "/openai/v1/chat/completions"
	analyzeSystemMsg = "You are a code analysis assistant. Reply with a single JSON object " +
		`{"language":"","title":"","description":"","tags":[]} describing the snippet. ` +
		"No prose, no markdown."
	explainSystemMsg = "You are a programming tutor. Explain what the given code does in a few short paragraphs of plain text."
)

// KeySource supplies the user's AI key. An empty key with a nil error means
// no key is configured.
type KeySource interface {
	Get(ctx context.Context) (string, error)
}

// AI is the LLM collaborator. Every call requires a key from the KeySource;
// a missing key fails before any network traffic.
type AI struct {
	c    *httpClient
	keys KeySource
	log  logging.Logger
}

func NewAI(base string, hc *http.Client, keys KeySource, log logging.Logger) *AI {
	return &AI{c: newHTTPClient(base, hc), keys: keys, log: log}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func truncateCode(code string) string {
	if len(code) > maxPromptCode {
		return code[:maxPromptCode]
	}
	return code
}

// stripFences removes a surrounding markdown code fence, which some models
// add despite being told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (a *AI) complete(ctx context.Context, system, user string) (string, error) {
	key, err := a.keys.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("reading ai key: %w", err)
	}
	if key == "" {
		return "", ErrNoKey
	}

	req := chatRequest{
		Model: aiModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.2,
	}

	status, body, err := a.c.do(ctx, http.MethodPost, chatCompletions, key, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "", ErrInvalidKey
	case status != http.StatusOK:
		return "", fmt.Errorf("%w: status %d", ErrRequestFailed, status)
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Choices) == 0 {
		// The offline gateway answers live-data failures with its own
		// envelope instead of a completion.
		a.log.Debug(ctx, "completion body not usable", "error", err)
		return "", fmt.Errorf("%w: malformed completion", ErrRequestFailed)
	}
	return resp.Choices[0].Message.Content, nil
}

// Analyze asks the model to classify a snippet and suggest metadata.
func (a *AI) Analyze(ctx context.Context, code string) (models.Analysis, error) {
	content, err := a.complete(ctx, analyzeSystemMsg, truncateCode(code))
	if err != nil {
		return models.Analysis{}, err
	}

	var analysis models.Analysis
	if err := json.Unmarshal([]byte(stripFences(content)), &analysis); err != nil {
		return models.Analysis{}, fmt.Errorf("%w: unparseable analysis", ErrRequestFailed)
	}
	return analysis, nil
}

// Explain asks the model for a prose explanation of a snippet.
func (a *AI) Explain(ctx context.Context, code, language string) (string, error) {
	user := truncateCode(code)
	if language != "" {
		user = "Language: " + language + "\n\n" + user
	}
	return a.complete(ctx, explainSystemMsg, user)
}
