// Package cli implements the interactive snipai client: a read–eval–print
// loop over the remote snippet store, an editor sub-loop driving the
// autosaving draft session, and the AI analyze/explain commands.
//
// The REPL is deliberately plain: one line per command, first token
// dispatched through a switch. All state lives on the App; there are no
// package-level mutable globals besides the test seams.
package cli
