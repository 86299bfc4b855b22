package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/katsuyo/internal/cli"
	"github.com/aretw0/katsuyo/internal/logging"
	"github.com/aretw0/katsuyo/pkg/observability"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "katsuyo",
	Short: "Katsuyo conjugates verbs with weighted finite-state transducers",
	Long: `Katsuyo compiles a declarative grammar of rewrite rules into transducers
and uses them to build full paradigm tables. The embedded grammar covers Japanese
verbs in romanized form.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("grammar", "", "Grammar file (YAML or JSON). Defaults to the embedded Japanese grammar")
	rootCmd.PersistentFlags().String("log-level", "off", "Log level: debug, info, warn, error or off")
	rootCmd.PersistentFlags().String("redis", "", "Redis address used to cache conjugated forms")
	rootCmd.PersistentFlags().String("format", "text", "Output format: text, markdown or json")
	rootCmd.PersistentFlags().Int("max-states", 0, "State budget for transducer operations (0 keeps the default)")
}

// env is what every engine-backed command needs.
type env struct {
	engine  *cli.Engine
	printer *cli.Printer
	logger  *slog.Logger
}

func (e *env) Close() {
	if err := e.engine.Close(); err != nil {
		e.logger.Warn("close failed", "err", err)
	}
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.FromFlag(level)
}

// setup reads the persistent flags and builds the engine.
func setup(ctx context.Context, cmd *cobra.Command, lexiconDir string, metrics *observability.Metrics) (*env, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := cli.ParseFormat(formatFlag)
	if err != nil {
		return nil, err
	}

	opts := cli.EngineOptions{LexiconDir: lexiconDir, Metrics: metrics}
	opts.GrammarPath, _ = cmd.Flags().GetString("grammar")
	opts.RedisAddr, _ = cmd.Flags().GetString("redis")
	opts.MaxStates, _ = cmd.Flags().GetInt("max-states")

	eng, err := cli.NewEngine(ctx, opts, logger)
	if err != nil {
		return nil, err
	}
	return &env{
		engine:  eng,
		printer: cli.NewPrinter(cmd.OutOrStdout(), format),
		logger:  logger,
	}, nil
}
