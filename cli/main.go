package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/logrusorgru/aurora"
	"github.com/modernice/todoapi/cli/internal/clifactory"
	"github.com/modernice/todoapi/internal/config"
	"github.com/modernice/todoapi/internal/logging"
)

// Main is the entrypoint for the CLI. Call Main from an actual main function.
func Main() {
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The backend is validated by the root command, after flags are parsed.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(aurora.Red(err))
	}

	app := New(
		clifactory.Context(ctx),
		clifactory.Config(cfg),
		clifactory.Logger(logging.New(os.Stderr, cfg.LogLevel)),
	)

	if err := app.Run(os.Args[1:]...); err != nil {
		log.Fatal(aurora.Red(err))
	}
}
