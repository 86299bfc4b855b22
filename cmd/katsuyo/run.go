package main

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/katsuyo/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Conjugate every verb of a lexicon",
	Long: `Builds the paradigm of every entry of a lexicon. Without --lexicon the embedded
lexicon is used. A lexicon directory holds one document (Markdown front matter, JSON or
YAML) per list, each with a 'words' array.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lexiconDir, _ := cmd.Flags().GetString("lexicon")
		list, _ := cmd.Flags().GetString("list")
		watchMode, _ := cmd.Flags().GetBool("watch")

		if watchMode && lexiconDir == "" {
			return errors.New("--watch requires --lexicon")
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		e, err := setup(sigCtx, cmd, lexiconDir, nil)
		if err != nil {
			return err
		}
		defer e.Close()

		run := func(ctx context.Context) error {
			ps, err := e.engine.RunLexicon(ctx, list)
			if err != nil {
				return err
			}
			return e.printer.Paradigms(ps)
		}

		if !watchMode {
			return run(sigCtx)
		}
		e.logger.Info("Starting watcher", "path", lexiconDir)
		return cli.RunWatch(sigCtx, e.engine.Repo, run, cli.WatchOptions{
			Debounce: 100 * time.Millisecond,
			Logger:   e.logger,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("lexicon", "", "Directory containing lexicon lists")
	runCmd.Flags().String("list", "", "Only conjugate this list")
	runCmd.Flags().BoolP("watch", "w", false, "Re-run when the lexicon changes")
}
