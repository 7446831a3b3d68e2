package cli

import (
	"context"
	"errors"

	"github.com/snipai/snipai/internal/client/editor"
	"github.com/snipai/snipai/internal/client/remote"
)

// key shows whether an AI key is configured and lets the user replace it.
// The key is stored sealed locally and mirrored to the profile best-effort.
func (a *App) key(ctx context.Context) {
	if !a.requireLogin() {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
	defer cancel()

	current, err := a.keys.Get(cctx)
	if err != nil {
		a.log.Warn(cctx, "reading ai key", "error", err)
	}
	if current != "" {
		printlnFn(dimStyle.Render("An AI key is configured (" + maskKey(current) + ")"))
	} else {
		printlnFn(dimStyle.Render("No AI key configured. Get one at console.groq.com."))
	}

	entered, err := GetSimpleText(a.reader, "New key (leave empty to keep current)", a.out)
	if err != nil || entered == "" {
		return
	}

	if err := a.keys.Save(cctx, entered); err != nil {
		a.log.Warn(cctx, "saving ai key", "error", err)
		a.Toast("Could not save the key", editor.ToastError)
		return
	}
	a.Toast("AI key saved", editor.ToastSuccess)
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}

// explain asks the AI to explain a listed snippet.
func (a *App) explain(ctx context.Context, arg string) {
	snip, ok := a.snippetAt(arg)
	if !ok {
		return
	}
	a.explainCode(ctx, snip.Code, snip.Language)
}

func (a *App) explainCode(ctx context.Context, code, language string) {
	if code == "" {
		printlnFn("Nothing to explain yet")
		return
	}

	cctx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
	defer cancel()

	text, err := a.ai.Explain(cctx, code, language)
	if err != nil {
		switch {
		case errors.Is(err, remote.ErrNoKey):
			a.Toast("Add your AI key first", editor.ToastError)
			a.key(ctx)
		case errors.Is(err, remote.ErrInvalidKey):
			a.Toast("Your AI key was rejected", editor.ToastError)
		default:
			a.Toast("AI request failed", editor.ToastError)
		}
		return
	}

	printlnFn(toastAIStyle.Render("✦ Explanation"))
	printlnFn(text)
}
