package main

import (
	"github.com/spf13/cobra"
)

var conjugateCmd = &cobra.Command{
	Use:   "conjugate <word> <cell>",
	Short: "Conjugate a verb into one paradigm cell",
	Long: `Conjugates a verb into one cell. Use 'katsuyo cells' for the cell names.
With --all, every candidate form is listed instead of failing on ambiguous output.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		word, cell := args[0], args[1]
		all, _ := cmd.Flags().GetInt("all")

		e, err := setup(ctx, cmd, "", nil)
		if err != nil {
			return err
		}
		defer e.Close()

		if all > 0 {
			surfaces, err := e.engine.Candidates(ctx, word, cell, all)
			if err != nil {
				return err
			}
			return e.printer.Forms(word, cell, surfaces)
		}

		surface, err := e.engine.Conjugate(ctx, word, cell)
		if err != nil {
			return err
		}
		return e.printer.Forms(word, cell, []string{surface})
	},
}

func init() {
	rootCmd.AddCommand(conjugateCmd)
	conjugateCmd.Flags().Int("all", 0, "List up to N candidate forms")
}
