package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/shaker/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/shaker/config.toml)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	backend := flag.String("storage", "", "storage backend: file, redis or memory (optional, overrides config)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Backend:    *backend,
	}

	if err := app.Run(ctx, opts); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return 0
		}
		fmt.Fprintf(os.Stderr, "shaker: %v\n", err)
		return 1
	}
	return 0
}
