package config

import (
	"flag"
	"os"

	"github.com/snipai/snipai/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-l string   listen address
//	-s string   shell origin URL
//	-a string   document store endpoint URL
//	-i string   AI endpoint URL
//	-d string   data directory for the cache database
//	-f          activate a fresh generation immediately
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-l", "-s", "-a", "-i", "-d", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ListenAddr, "l", cfg.ListenAddr, "listen address")
	fs.StringVar(&cfg.ShellOrigin, "s", cfg.ShellOrigin, "shell origin URL")
	fs.StringVar(&cfg.DocStoreEndpoint, "a", cfg.DocStoreEndpoint, "document store endpoint URL")
	fs.StringVar(&cfg.AIEndpoint, "i", cfg.AIEndpoint, "AI completion endpoint URL")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.BoolVar(&cfg.AutoActivate, "f", cfg.AutoActivate, "activate a fresh generation immediately")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
