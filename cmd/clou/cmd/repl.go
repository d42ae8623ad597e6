package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"clou/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Clou session",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return repl.New("clou> ").Run(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
