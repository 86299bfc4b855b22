package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/katsuyo"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of katsuyo",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "katsuyo version %s\n", strings.TrimSpace(katsuyo.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
