package main

import (
	"github.com/spf13/cobra"
)

var cellsCmd = &cobra.Command{
	Use:   "cells",
	Short: "List the paradigm cells of the grammar",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd.Context(), cmd, "", nil)
		if err != nil {
			return err
		}
		defer e.Close()
		return e.printer.Cells(e.engine.Cells())
	},
}

func init() {
	rootCmd.AddCommand(cellsCmd)
}
