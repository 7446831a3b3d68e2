package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/snipai/snipai/internal/client/models"
	"github.com/snipai/snipai/internal/client/remote"
)

// loadSnippets fetches the current listing with the active filter and caches
// it for index-based commands (open/edit/delete/explain).
func (a *App) loadSnippets(ctx context.Context) {
	if !a.isLoggedIn() {
		return
	}

	a.mu.Lock()
	owner := a.identity.ID
	filter := a.filter
	a.mu.Unlock()

	snippets, err := a.store.List(ctx, owner, filter)
	if err != nil {
		if errors.Is(err, remote.ErrNetworkUnavailable) {
			printlnFn(dimStyle.Render("Offline: snippet list unavailable"))
		} else {
			a.log.Warn(ctx, "loading snippets", "error", err)
			printlnFn(errorStyle.Render("Could not load snippets"))
		}
		return
	}

	a.mu.Lock()
	a.snippets = snippets
	a.mu.Unlock()

	a.renderList(snippets, filter)
}

func (a *App) renderList(snippets []models.Snippet, filter models.ListFilter) {
	header := "Your snippets"
	if filter.Search != "" {
		header += fmt.Sprintf(" matching %q", filter.Search)
	}
	if filter.Language != "" {
		header += " [" + filter.Language + "]"
	}
	printlnFn(titleStyle.Render(header))

	if len(snippets) == 0 {
		printlnFn(dimStyle.Render("  (none)"))
		return
	}
	for i, s := range snippets {
		line := fmt.Sprintf("  %2d. %s", i+1, s.Title)
		if s.Language != "" {
			line += dimStyle.Render(" · " + s.Language)
		}
		if tags := models.UniqueTags(s.Tags); len(tags) > 0 {
			line += dimStyle.Render(" · " + strings.Join(tags, ", "))
		}
		if s.Public {
			line += dimStyle.Render(" · public")
		}
		printlnFn(line)
	}
}

func (a *App) list(ctx context.Context) {
	if !a.requireLogin() {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
	defer cancel()
	a.loadSnippets(cctx)
}

// search updates the search text and re-lists after a short debounce, so a
// burst of search commands coalesces into one fetch.
func (a *App) search(ctx context.Context, text string) {
	if !a.requireLogin() {
		return
	}

	a.mu.Lock()
	a.filter.Search = text
	a.mu.Unlock()

	a.searchTimer.Arm(a.config.SearchDebounce, func() {
		cctx, cancel := context.WithTimeout(context.Background(), remoteCallTimeout)
		defer cancel()
		a.loadSnippets(cctx)
	})
}

// filterByLanguage narrows the list to one language; "-" clears the filter.
func (a *App) filterByLanguage(ctx context.Context, language string) {
	if !a.requireLogin() {
		return
	}

	if language == "-" {
		language = ""
	}
	a.mu.Lock()
	a.filter.Language = language
	a.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
	defer cancel()
	a.loadSnippets(cctx)
}

// open prints one snippet in full.
func (a *App) open(arg string) {
	snip, ok := a.snippetAt(arg)
	if !ok {
		return
	}

	printlnFn(titleStyle.Render(snip.Title))
	if snip.Description != "" {
		printlnFn(snip.Description)
	}
	meta := snip.Language
	if tags := models.UniqueTags(snip.Tags); len(tags) > 0 {
		meta += " · " + strings.Join(tags, ", ")
	}
	printlnFn(dimStyle.Render(meta))
	printlnFn(snip.Code)
}

// snippetAt resolves a 1-based list index from the last rendered listing.
func (a *App) snippetAt(arg string) (models.Snippet, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		printlnFn("Not a number:", arg)
		return models.Snippet{}, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if n < 1 || n > len(a.snippets) {
		printlnFn(fmt.Sprintf("No snippet %d; run 'list' first", n))
		return models.Snippet{}, false
	}
	return a.snippets[n-1], true
}

func (a *App) requireLogin() bool {
	if a.isLoggedIn() {
		return true
	}
	printlnFn("Sign in first ('login' or 'register')")
	return false
}
