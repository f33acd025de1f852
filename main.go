package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"alumni/api"
	"alumni/config"
	"alumni/handlers"
	"alumni/logging"
	"alumni/session"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	config.LoadDotEnv()

	cfg, err := config.Load(os.Getenv(config.EnvConfigFile))
	if err != nil {
		fmt.Fprintln(stderr, "alumni:", err)
		return 1
	}

	app := &handlers.App{Out: stdout, Err: stderr, In: stdin}
	fs := flag.NewFlagSet("alumni", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.BindFlags(fs)
	fs.Usage = func() {
		app.Usage()
		fmt.Fprintln(stderr, "\nglobal flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "alumni:", err)
		return 2
	}

	logOpts := cfg.Logging()
	logOpts.Output = stderr
	logger, err := logging.Setup(logOpts)
	if err != nil {
		fmt.Fprintln(stderr, "alumni:", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Error("failed to open session storage", "storage", cfg.Storage, "err", err)
		fmt.Fprintln(stderr, "alumni:", err)
		return 1
	}
	defer closeStorage()

	client, err := api.New(cfg.APIURL, session.New(storage),
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintln(stderr, "alumni:", err)
		return 2
	}
	app.Client = client
	app.Logger = logger

	command := fs.Arg(0)
	logger.Debug("running command", "command", command, "api", client.BaseURL(), "storage", cfg.Storage)
	if err := app.Run(ctx, command, fs.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if errors.Is(err, handlers.ErrUnknownCommand) {
			fmt.Fprintln(stderr, "alumni:", err)
			app.Usage()
			return 2
		}
		logger.Debug("command failed", "command", command, "err", err)
		fmt.Fprintln(stderr, "alumni:", err)
		return 1
	}
	return 0
}
