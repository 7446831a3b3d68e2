package cli

import (
	"context"

	"github.com/snipai/snipai/internal/client/editor"
)

// delete removes a snippet after confirmation, then re-lists.
func (a *App) delete(ctx context.Context, arg string) {
	if !a.requireLogin() {
		return
	}
	snip, ok := a.snippetAt(arg)
	if !ok {
		return
	}

	answer, err := GetSimpleText(a.reader, "Delete \""+snip.Title+"\"? (y/N)", a.out)
	if err != nil || answer != "y" {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
	defer cancel()

	if err := a.store.Delete(cctx, snip.ID); err != nil {
		a.log.Warn(cctx, "deleting snippet", "error", err, "id", snip.ID)
		a.Toast("Delete failed", editor.ToastError)
		return
	}

	a.Toast("Snippet deleted", editor.ToastSuccess)
	a.loadSnippets(cctx)
}
