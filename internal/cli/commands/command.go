package commands

import (
	"WebCarros/internal/cli/bootstrap"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "image-add".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "image-rm <localId>".
	Usage() string
	// Run executes the command against an already built client app.
	// args do not include the command name.
	Run(ctx context.Context, app *bootstrap.App, args []string) error
}

// Разделы справки в порядке вывода.
const (
	sectionAccount  = "Account"
	sectionDraft    = "Listing draft"
	sectionListings = "Listings"
	sectionOther    = "Other"
)

var sectionOrder = []string{sectionAccount, sectionDraft, sectionListings, sectionOther}

type entry struct {
	cmd     Command
	section string
}

// registry holds available commands by name.
var registry = map[string]entry{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, в тестах переназначается.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the "Other" help section.
func RegisterCmd(cmd Command) {
	registerIn(sectionOther, cmd)
}

// registerIn adds commands to the given help section. Called from init() of command files.
func registerIn(section string, cmds ...Command) {
	for _, c := range cmds {
		registry[c.Name()] = entry{cmd: c, section: section}
	}
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	e, ok := registry[name]
	return e.cmd, ok
}

// FormatGlobalUsage builds a help text for all commands grouped by section.
func FormatGlobalUsage() string {
	bySection := map[string][]Command{}
	for _, e := range registry {
		bySection[e.section] = append(bySection[e.section], e.cmd)
	}

	var b strings.Builder
	b.WriteString("WebCarros CLI\n\nUsage:\n  wccli [--base-url <host:port>] <command> [args]\n")
	for _, s := range sectionOrder {
		cmds := bySection[s]
		if len(cmds) == 0 {
			continue
		}
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
		fmt.Fprintf(&b, "\n%s:\n", s)
		for _, c := range cmds {
			fmt.Fprintf(&b, "  %-44s %s\n", c.Usage(), c.Description())
		}
	}
	return b.String()
}
