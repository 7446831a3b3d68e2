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

// explore lists one page of the public feed. Usage: explore [page] [language].
// Pages are 1-based on the surface.
func (a *App) explore(ctx context.Context, args []string) {
	page := 1
	language := ""
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			printlnFn("Usage: explore [page] [language]")
			return
		}
		page = n
	}
	if len(args) > 1 {
		language = args[1]
	}

	cctx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
	defer cancel()

	snippets, err := a.store.Explore(cctx, page-1, language)
	if err != nil {
		if errors.Is(err, remote.ErrNetworkUnavailable) {
			printlnFn(dimStyle.Render("Offline: the explore feed needs a connection"))
		} else {
			a.log.Warn(cctx, "loading explore feed", "error", err)
			printlnFn(errorStyle.Render("Could not load the explore feed"))
		}
		return
	}

	header := fmt.Sprintf("Public snippets — page %d", page)
	if language != "" {
		header += " [" + language + "]"
	}
	printlnFn(titleStyle.Render(header))

	if len(snippets) == 0 {
		printlnFn(dimStyle.Render("  (none)"))
		return
	}
	for i, s := range snippets {
		line := fmt.Sprintf("  %2d. %s", i+1, s.Title)
		if s.AuthorName != "" {
			line += dimStyle.Render(" by " + s.AuthorName)
		}
		if s.Language != "" {
			line += dimStyle.Render(" · " + s.Language)
		}
		if tags := models.UniqueTags(s.Tags); len(tags) > 0 {
			line += dimStyle.Render(" · " + strings.Join(tags, ", "))
		}
		printlnFn(line)
	}

	// Make the feed addressable by open/explain.
	a.mu.Lock()
	a.snippets = snippets
	a.mu.Unlock()
}
