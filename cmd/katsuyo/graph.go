package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [name]",
	Short: "Export a transducer as a Mermaid diagram",
	Long: `Composes the named rule, chain or cell and outputs a Mermaid diagram
(graph LR) of the resulting transducer. Without a name, the registered names are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd.Context(), cmd, "", nil)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, name := range e.engine.Names() {
				fmt.Fprintln(out, name)
			}
			return nil
		}

		mermaid, err := e.engine.Graph(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(out, mermaid)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
