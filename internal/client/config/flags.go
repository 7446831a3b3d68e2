package config

import (
	"flag"
	"os"
	"time"

	"github.com/snipai/snipai/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   document store endpoint URL
//	-i string   AI endpoint URL
//	-d string   data directory for the local database and secret file
//	-t int      autosave delay in milliseconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DocStoreEndpoint, "a", cfg.DocStoreEndpoint, "document store endpoint URL")
	fs.StringVar(&cfg.AIEndpoint, "i", cfg.AIEndpoint, "AI completion endpoint URL")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	autosaveMs := fs.Int("t", int(cfg.AutosaveDelay.Milliseconds()), "autosave delay (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AutosaveDelay = time.Duration(*autosaveMs) * time.Millisecond
}
