package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clou/internal/cerrors"
	"clou/internal/lexer"
	"clou/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the parsed AST for a Clou file",
	Args:  cobra.ExactArgs(1),
	RunE:  parseFile,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func parseFile(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	source := string(data)

	lx := lexer.New(source)
	toks, lexErrs := lx.Scan()
	if len(lexErrs) > 0 {
		return reportAll(lexErrs, source)
	}

	ps := parser.New(toks)
	prog, parseErrs := ps.Parse()
	if len(parseErrs) > 0 {
		return reportAll(parseErrs, source)
	}

	fmt.Print(prog.String())
	return nil
}
