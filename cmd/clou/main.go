// Command clou is the Clou language CLI: run scripts, inspect tokens
// and the parsed AST, or drop into an interactive REPL.
package main

import (
	"fmt"
	"os"

	"clou/cmd/clou/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
