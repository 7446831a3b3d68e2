package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/snipai/snipai/internal/buildinfo"
	"github.com/snipai/snipai/internal/client/cli"
	"github.com/snipai/snipai/internal/client/config"
	"github.com/snipai/snipai/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(cfg, nil, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
