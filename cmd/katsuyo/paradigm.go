package main

import (
	"github.com/spf13/cobra"
)

var paradigmCmd = &cobra.Command{
	Use:   "paradigm <word>...",
	Short: "Print the full paradigm table of one or more verbs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := setup(ctx, cmd, "", nil)
		if err != nil {
			return err
		}
		defer e.Close()

		ps, err := e.engine.Batch(ctx, args)
		if err != nil {
			return err
		}
		return e.printer.Paradigms(ps)
	},
}

func init() {
	rootCmd.AddCommand(paradigmCmd)
}
