package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clou/internal/cerrors"
	"clou/internal/lexer"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Print the token stream for a Clou file",
	Args:  cobra.ExactArgs(1),
	RunE:  tokenizeFile,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
}

func tokenizeFile(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	source := string(data)

	lx := lexer.New(source)
	toks, errs := lx.Scan()
	for _, t := range toks {
		fmt.Println(t.String())
	}
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, cerrors.Render(e, source, true))
		}
		return fmt.Errorf("tokenize failed with %d error(s)", len(errs))
	}
	return nil
}
