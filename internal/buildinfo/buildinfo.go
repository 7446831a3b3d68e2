// Package buildinfo exposes build-time metadata injected via -ldflags.
// The version string doubles as the shell cache generation tag, so every
// deploy supersedes the previous shell cache.
package buildinfo

import (
	"fmt"
	"io"
)

var (
	BuildVersion = "N/A"
	BuildDate    = "N/A"
	BuildCommit  = "N/A"
)

// PrintBuildData writes the build metadata in a fixed three-line format.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", BuildVersion)
	fmt.Fprintf(w, "Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "Build commit: %s\n", BuildCommit)
}

// CacheTag returns the shell cache partition tag for this build.
// Entries written under any other shell tag are purged on activation.
func CacheTag() string {
	return "snipai-" + BuildVersion
}
