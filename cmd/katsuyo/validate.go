package main

import (
	"context"
	"fmt"

	"github.com/aretw0/katsuyo/pkg/grammar"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <grammar>",
	Short: "Check a grammar file for consistency",
	Long:  `Checks references between sets, rules, chains and cells, then compiles every rule.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		g, err := runValidate(cmd.Context(), args[0], grammar.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Grammar %q is valid! ✅ (%d cells, %d names)\n", g.Name, len(g.Cells), len(g.Registry.Names()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(ctx context.Context, path string, opts ...grammar.Option) (*grammar.Grammar, error) {
	spec, err := grammar.Load(path)
	if err != nil {
		return nil, err
	}
	// Compile validates references before building any rule.
	return grammar.Compile(ctx, spec, opts...)
}
