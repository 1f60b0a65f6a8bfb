// Package cli wires the command line: config loading, flag overrides,
// logging setup and the window/headless subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/molecule/config"
	"github.com/pthm-cable/molecule/game"
)

// WindowRunner opens the interactive host. main supplies the raylib one so
// this package stays free of cgo.
type WindowRunner func(cfg *config.Config, opts game.Options) error

// app holds flag values and the loaded config for one invocation.
type app struct {
	configPath         string
	seed               int64
	count              int
	connectionDistance float64
	influenceRadius    float64
	logFormat          string
	logLevel           string

	cfg *config.Config
}

// NewRootCommand builds the command tree. The root command runs the window host.
func NewRootCommand(runWindow WindowRunner) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "molecule",
		Short:         "Animated particle network background",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			return runWindow(a.cfg, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "Path to config.yaml (empty = use defaults)")
	pf.Int64Var(&a.seed, "seed", 0, "RNG seed (0 = time-based)")
	pf.IntVar(&a.count, "count", 0, "Particle count (overrides config)")
	pf.Float64Var(&a.connectionDistance, "connection-distance", 0, "Link distance in pixels (overrides config)")
	pf.Float64Var(&a.influenceRadius, "influence-radius", 0, "Pointer repulsion radius in pixels (overrides config)")
	pf.StringVar(&a.logFormat, "log-format", "json", "Log format: json or text")
	pf.StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(newHeadlessCommand(a), newConfigCommand(a))
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute(runWindow WindowRunner) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand(runWindow).ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// setup loads config, applies flag overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	logger, err := newLogger(cmd.ErrOrStderr(), a.logFormat, a.logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if err := config.Init(a.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Particles.Count = a.count
	}
	if flags.Changed("connection-distance") {
		cfg.Particles.ConnectionDistance = a.connectionDistance
	}
	if flags.Changed("influence-radius") {
		cfg.Particles.InfluenceRadius = a.influenceRadius
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.ComputeDerived()

	a.cfg = cfg
	return nil
}

func (a *app) options() (game.Options, error) {
	opts, err := game.OptionsFromConfig(a.cfg)
	if err != nil {
		return game.Options{}, err
	}
	opts.Seed = a.seed
	opts.Logger = slog.Default()
	return opts, nil
}

// newLogger builds the structured logger for the given format and level.
func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	hopts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want json or text)", format)
	}
}
