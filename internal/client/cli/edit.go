package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/snipai/snipai/internal/client/editor"
	"github.com/snipai/snipai/internal/client/models"
	"github.com/snipai/snipai/internal/client/remote"
)

func (a *App) newSnippet(ctx context.Context) {
	if !a.requireLogin() {
		return
	}
	a.editLoop(ctx, nil)
}

func (a *App) editSnippet(ctx context.Context, arg string) {
	if !a.requireLogin() {
		return
	}
	snip, ok := a.snippetAt(arg)
	if !ok {
		return
	}
	a.editLoop(ctx, &snip)
}

// editLoop is the editor sub-loop. Every field command routes through the
// editing session, so edits autosave after the configured delay; 'save' is
// the explicit, vocal variant. 'cancel' drops any pending autosave.
func (a *App) editLoop(ctx context.Context, snip *models.Snippet) {
	es := editor.NewSession(a.currentIdentity().ID, a.store, a, a.config.AutosaveDelay, a.refreshSnippets, a.log)
	es.Open(snip)
	defer es.Close()

	printlnFn(titleStyle.Render("Editor") + dimStyle.Render("  title, code, lang, tags, desc, public, show, analyze, explain, save, done, cancel"))

	for {
		fmt.Print("edit> ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimSpace(line)

		switch cmd {
		case "":
			continue

		case "title":
			v, err := GetSimpleText(a.reader, "Title", a.out)
			if err != nil {
				return
			}
			es.SetTitle(v)

		case "code":
			v, err := GetMultiline(a.reader, "Code", a.out)
			if err != nil {
				return
			}
			es.SetCode(v)

		case "lang":
			v, err := GetSimpleText(a.reader, "Language", a.out)
			if err != nil {
				return
			}
			es.SetLanguage(v)

		case "tags":
			v, err := GetSimpleText(a.reader, "Tags (comma separated)", a.out)
			if err != nil {
				return
			}
			es.SetTags(parseTags(v))

		case "desc":
			v, err := GetSimpleText(a.reader, "Description", a.out)
			if err != nil {
				return
			}
			es.SetDescription(v)

		case "public":
			public := !es.Draft().Public
			es.SetPublic(public)
			if public {
				printlnFn("Snippet is now public (anyone can read it)")
			} else {
				printlnFn("Snippet is now private")
			}

		case "show":
			a.showDraft(es)

		case "analyze":
			a.runAnalyze(ctx, es)

		case "explain":
			a.explainCode(ctx, es.Draft().Code, es.Draft().Language)

		case "save":
			cctx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
			_ = es.SaveNow(cctx)
			cancel()

		case "done":
			if es.Dirty() {
				cctx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
				err := es.SaveNow(cctx)
				cancel()
				if err != nil {
					printlnFn(dimStyle.Render("Fix the draft or 'cancel' to discard"))
					continue
				}
			}
			return

		case "cancel":
			return

		default:
			printlnFn("Unknown editor command:", cmd)
		}
	}
}

func parseTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (a *App) showDraft(es *editor.Session) {
	d := es.Draft()
	title := d.Title
	if title == "" {
		title = "(untitled)"
	}
	printlnFn(titleStyle.Render(title) + dimStyle.Render("  ["+es.State().String()+"]"))
	if d.Description != "" {
		printlnFn(d.Description)
	}
	meta := d.Language
	if len(d.Tags) > 0 {
		meta += " · " + strings.Join(models.UniqueTags(d.Tags), ", ")
	}
	if d.Public {
		meta += " · public"
	}
	printlnFn(dimStyle.Render(meta))
	if d.Code != "" {
		printlnFn(d.Code)
	}
}

// runAnalyze drives the AI auto-fill. A missing key redirects straight to
// key entry instead of failing silently.
func (a *App) runAnalyze(ctx context.Context, es *editor.Session) {
	cctx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
	defer cancel()

	analysis, err := es.RunAnalyze(cctx, a.ai)
	if err != nil {
		switch {
		case errors.Is(err, remote.ErrNoKey):
			a.Toast("Add your AI key first", editor.ToastError)
			a.key(ctx)
		case errors.Is(err, remote.ErrInvalidKey):
			a.Toast("Your AI key was rejected", editor.ToastError)
		default:
			a.Toast("AI analysis failed", editor.ToastError)
		}
		return
	}

	a.Toast("Fields filled from AI analysis", editor.ToastAI)
	printlnFn(dimStyle.Render(fmt.Sprintf("%s · %s", analysis.Language, analysis.Title)))
}

// refreshSnippets is the post-save hook: re-fetch the listing so index-based
// commands see server-side derived fields, without re-rendering mid-edit.
func (a *App) refreshSnippets(ctx context.Context) {
	a.mu.Lock()
	owner := a.identity.ID
	filter := a.filter
	a.mu.Unlock()

	snippets, err := a.store.List(ctx, owner, filter)
	if err != nil {
		a.log.Debug(ctx, "refreshing snippet list", "error", err)
		return
	}

	a.mu.Lock()
	a.snippets = snippets
	a.mu.Unlock()
}
