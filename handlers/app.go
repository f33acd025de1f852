// Package handlers implements the alumni CLI commands on top of the API
// client. Each command parses its own flags, calls the backend, and renders
// the result with an embedded text template.
package handlers

import (
	"bufio"
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"text/template"

	"alumni/api"
)

// ErrLoginRequired is returned by commands that need a session when there
// is none, or when the backend rejected the stored token.
var ErrLoginRequired = errors.New("please log in first: alumni login -email <email>")

// ErrUnknownCommand is returned by Run for a name not in Commands.
var ErrUnknownCommand = errors.New("unknown command")

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl"))

// App carries what every command needs.
type App struct {
	Client *api.Client
	Out    io.Writer
	Err    io.Writer
	In     io.Reader
	Logger *slog.Logger

	stdin *bufio.Reader
}

type Command struct {
	Name         string
	Summary      string
	RequiresAuth bool
	Run          func(ctx context.Context, app *App, args []string) error
}

// Commands lists every CLI command by name.
var Commands = map[string]Command{}

func register(cmds ...Command) {
	for _, c := range cmds {
		Commands[c.Name] = c
	}
}

// Run dispatches to the named command. Unauthorized responses come back as
// ErrLoginRequired.
func (a *App) Run(ctx context.Context, name string, args []string) error {
	cmd, ok := Commands[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}
	if a.Logger == nil {
		a.Logger = slog.Default()
	}

	if cmd.RequiresAuth && !a.Client.Session().Authenticated(ctx) {
		return ErrLoginRequired
	}

	err := cmd.Run(ctx, a, args)
	if api.IsUnauthorized(err) {
		a.Logger.Debug("backend rejected session", "command", name, "err", err)
		return fmt.Errorf("%w (%v)", ErrLoginRequired, err)
	}
	return err
}

// Usage writes the command list.
func (a *App) Usage() {
	names := make([]string, 0, len(Commands))
	for name := range Commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.Err, "usage: alumni [global flags] <command> [flags]")
	fmt.Fprintln(a.Err, "\ncommands:")
	for _, name := range names {
		fmt.Fprintf(a.Err, "  %-16s %s\n", name, Commands[name].Summary)
	}
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Err)
	return fs
}

func (a *App) render(name string, data any) error {
	if err := templates.ExecuteTemplate(a.Out, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format+"\n", args...)
}

// prompt reads one line from In after printing label to Err.
func (a *App) prompt(label string) (string, error) {
	if a.In == nil {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	if a.stdin == nil {
		a.stdin = bufio.NewReader(a.In)
	}
	fmt.Fprintf(a.Err, "%s: ", label)
	line, err := a.stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// valueOrPrompt returns v, or asks for it when empty.
func (a *App) valueOrPrompt(v, label string) (string, error) {
	if v != "" {
		return v, nil
	}
	return a.prompt(label)
}

// oneArg returns the single positional argument left after flag parsing.
func oneArg(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("usage: alumni %s <%s>", fs.Name(), what)
	}
	return fs.Arg(0), nil
}
