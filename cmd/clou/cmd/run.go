package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clou/internal/cerrors"
	"clou/internal/interp"
	"clou/internal/lexer"
	"clou/internal/parser"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Clou script",
	Long: `Execute a Clou program from a file or an inline expression.

Examples:
  clou run script.clou
  clou run -e "print(1 + 2);"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
}

func runScript(_ *cobra.Command, args []string) error {
	source, path, err := readInput(evalExpr, args)
	if err != nil {
		return err
	}

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

	if verbose {
		fmt.Fprintf(os.Stderr, "[clou] running %s\n", path)
	}

	it := interp.New(os.Stdout)
	if path != "" && path != "<eval>" {
		it.Loader().AddFile(path, source)
	}
	if err := it.Run(prog, path); err != nil {
		fmt.Fprintln(os.Stderr, cerrors.Render(err, source, true))
		return fmt.Errorf("execution failed")
	}
	return nil
}

// readInput resolves the script text either from the -e flag or from
// the single positional file argument.
func readInput(inline string, args []string) (source, path string, err error) {
	if inline != "" {
		return inline, "<eval>", nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(data), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}

// reportAll prints every collected error (lex or parse) with source
// context, then returns a single summary error for the exit code.
func reportAll(errs []error, source string) error {
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, cerrors.Render(e, source, true))
	}
	return fmt.Errorf("failed with %d error(s)", len(errs))
}
