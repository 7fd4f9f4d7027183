// Command wccli — консольный клиент WebCarros: вход, черновик объявления и публикация.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"WebCarros/internal/cli/commands"
	"WebCarros/internal/config"
)

// Заполняются при сборке через -ldflags "-X main.version=... -X main.buildDate=...".
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// env + .env + флаги
	cfg := config.NewConfig()
	if cfg.Version {
		fmt.Printf("WebCarros CLI %s (built %s), server %s\n", version, buildDate, cfg.ServerURL)
		return 0
	}

	// Ctrl+C прерывает загрузки и запросы к серверу
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return commands.Dispatch(ctx, cfg, flag.Args())
}
