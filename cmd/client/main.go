package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/authkeeper/internal/client/cli"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
)

func main() {
	fmt.Printf("authkeeper %s (built %s)\n", buildVersion, buildDate)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}
	logger := logging.New(os.Stderr, level, logging.Format(cfg.LogFormat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
