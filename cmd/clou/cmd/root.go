// Package cmd wires the Clou CLI's subcommands, grounded on
// CWBudde-go-dws's cmd/dwscript/cmd: a cobra root command carrying
// build-time version metadata and a persistent --verbose flag, with each
// subcommand registered from its own init().
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version, GitCommit, and BuildDate are overwritten at build time via
// -ldflags, the way CWBudde-go-dws's cmd/dwscript does it.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "clou",
	Short: "Clou interpreter",
	Long: `clou is a tree-walking interpreter for the Clou scripting language:
dynamically-typed, C-style syntax, closures, single-inheritance classes,
and a require/exports module system.`,
	Version: Version,
}

// Execute runs the root command; the caller's main() should exit nonzero
// on a non-nil error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
