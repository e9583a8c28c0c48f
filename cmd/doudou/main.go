package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/doudou-app/doudou/internal/app"
	"github.com/doudou-app/doudou/internal/config"
	"github.com/doudou-app/doudou/pkg/logger"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type command struct {
	usage string
	run   func(ctx context.Context, c *cli, args []string) error
}

var commands = map[string]command{
	"explore":      {"explore [-q text] [--type t] [--privacy p] [--free] [--verified] [--distance km]", runExplore},
	"show":         {"show <locationId>", runShow},
	"saved":        {"saved", runSaved},
	"save":         {"save <locationId>", runSave},
	"unsave":       {"unsave <locationId>", runUnsave},
	"add-location": {"add-location --name n --address a --lat x --lng y --type t --privacy p [...]", runAddLocation},
	"add-review":   {"add-review <locationId> --staff n --comfort n --privacy n --safety n [...]", runAddReview},
	"helpful":      {"helpful <reviewId> <locationId>", runHelpful},
	"seed":         {"seed", runSeed},
	"lang":         {"lang [en|fr]", runLang},
	"ping":         {"ping", runPing},
	"fake-api":     {"fake-api [--seed]", runFakeAPI},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stderr)
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	log := logger.NewWithOptions("doudou-cli", logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}, stderr)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize", slog.String("error", err.Error()))
		return exitFailure
	}
	defer func() {
		if err := a.Close(context.WithoutCancel(ctx)); err != nil {
			log.Error("shutdown error", slog.String("error", err.Error()))
		}
	}()

	c := &cli{app: a, out: stdout, errOut: stderr}
	if err := cmd.run(ctx, c, args[1:]); err != nil {
		var uerr usageError
		if errors.As(err, &uerr) {
			fmt.Fprintf(stderr, "%s\nusage: doudou %s\n", uerr.msg, cmd.usage)
			return exitUsage
		}
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	return exitOK
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: doudou <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}
