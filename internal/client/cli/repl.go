package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// remoteCallTimeout bounds every collaborator call made from the REPL.
const remoteCallTimeout = 30 * time.Second

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context)
	Login(ctx context.Context)
	Logout(ctx context.Context)
	list(ctx context.Context)
	search(ctx context.Context, text string)
	filterByLanguage(ctx context.Context, language string)
	open(arg string)
	newSnippet(ctx context.Context)
	editSnippet(ctx context.Context, arg string)
	delete(ctx context.Context, arg string)
	explore(ctx context.Context, args []string)
	explain(ctx context.Context, arg string)
	key(ctx context.Context)
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.currentIdentity().DisplayName())
}

// Root runs the read–eval–print loop on stdin.
func (a *App) Root(ctx context.Context) {
	printlnFn("snipai CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

// runREPL reads a line per iteration, parses the first token as the command
// and dispatches to methods on 'a'. The loop exits on scanner EOF or when
// the user types "exit" or "quit".
//
// Signed out:
//
//	register, login, exit
//
// Signed in:
//
//	(l)ist, search <text>, filter <language|->, open <n>, new, edit <n>,
//	delete <n>, explore [page] [language], explain <n>, key, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		fmt.Printf("snipai %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, search <text>, filter <language|->, open <n>, new, edit <n>, delete <n>, explore, explain <n>, key, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "l", "list":
			a.list(ctx)
		case "search":
			a.search(ctx, strings.Join(args, " "))
		case "filter":
			if len(args) == 0 {
				printlnFn("Usage: filter <language> (use '-' to clear)")
				continue
			}
			a.filterByLanguage(ctx, args[0])
		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <number>")
				continue
			}
			a.open(args[0])
		case "new":
			a.newSnippet(ctx)
		case "edit":
			if len(args) == 0 {
				printlnFn("Usage: edit <number>")
				continue
			}
			a.editSnippet(ctx, args[0])
		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <number>")
				continue
			}
			a.delete(ctx, args[0])
		case "explore":
			a.explore(ctx, args)
		case "explain":
			if len(args) == 0 {
				printlnFn("Usage: explain <number>")
				continue
			}
			a.explain(ctx, args[0])
		case "key":
			a.key(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
