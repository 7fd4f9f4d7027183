package commands

import (
	"WebCarros/internal/cli/bootstrap"
	"WebCarros/internal/config"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
)

// Коды завершения процесса.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// newApp собирает зависимости команды. В тестах подменяется бэкендом в памяти.
var newApp = func(cfg *config.Config) (*bootstrap.App, error) {
	return bootstrap.NewApp(cfg, Out)
}

// Dispatch is the single entry point to execute CLI commands.
// It resolves the command, builds the client app for it and returns a process exit code.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if slices.Contains(os.Args[1:], "--help") || slices.Contains(os.Args[1:], "-h") {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitOK
	}
	if !flag.Parsed() {
		flag.Parse()
	}
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}

	name := strings.ToLower(args[0])
	if name == "help" {
		return help(args[1:])
	}
	c, ok := Get(name)
	if !ok {
		return unknown(name)
	}

	app, err := newApp(cfg)
	if err != nil {
		fmt.Fprintf(Out, "%s error: %v\n", name, err)
		return exitError
	}
	defer app.Close()

	return exitCode(c, c.Run(ctx, app, args[1:]))
}

// help обрабатывает `wccli help [command]`.
func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitOK
	}
	c, ok := Get(args[0])
	if !ok {
		return unknown(args[0])
	}
	fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
	return exitOK
}

func unknown(name string) int {
	fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
	fmt.Fprint(Out, FormatGlobalUsage())
	return exitUsage
}

// exitCode печатает результат команды и переводит его в код завершения.
func exitCode(c Command, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return exitUsage
	case errors.Is(err, errReported):
		return exitError
	default:
		fmt.Fprintf(Out, "%s error: %v\n", c.Name(), err)
		return exitError
	}
}
