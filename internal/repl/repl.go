// Package repl implements Clou's interactive prompt, grounded on
// go-mix's repl.Repl: a readline-backed loop, colored diagnostics, and
// an evaluator that survives a bad line instead of exiting.
package repl

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"clou/internal/cerrors"
	"clou/internal/interp"
	"clou/internal/lexer"
	"clou/internal/parser"
)

var (
	errColor  = color.New(color.FgRed)
	infoColor = color.New(color.FgCyan)
)

// Repl is an interactive Clou session. One Interpreter persists across
// lines, so variables, functions, and classes declared on one line are
// visible on the next — the same contract spec.md's run_prompt describes.
type Repl struct {
	Prompt string
}

// New creates a Repl with the given prompt string (e.g. "clou> ").
func New(prompt string) *Repl {
	return &Repl{Prompt: prompt}
}

// Run starts the read-eval-print loop, reading from a readline instance
// and writing results and errors to out. It returns when the user exits
// (Ctrl-D or ".exit") or readline itself fails to initialize.
func (r *Repl) Run(out io.Writer) error {
	rl, err := readline.New(r.Prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	infoColor.Fprintln(out, "Clou REPL — type '.exit' or press Ctrl-D to quit")

	it := interp.New(out)

	for {
		line, err := rl.Readline()
		if err != nil {
			fmt.Fprintln(out, "goodbye")
			return nil
		}
		if line == "" {
			continue
		}
		if line == ".exit" {
			fmt.Fprintln(out, "goodbye")
			return nil
		}
		rl.SaveHistory(line)

		// A bad line's error is reported and the loop continues — the
		// error never latches onto the next line's evaluation, matching
		// spec.md's run_prompt contract that one bad statement does not
		// poison the rest of the session.
		if err := r.evalLine(it, line, out); err != nil {
			errColor.Fprintln(out, cerrors.Render(err, line, true))
		}
	}
}

func (r *Repl) evalLine(it *interp.Interpreter, line string, out io.Writer) error {
	lx := lexer.New(line)
	toks, lexErrs := lx.Scan()
	if len(lexErrs) > 0 {
		return lexErrs[0]
	}

	ps := parser.New(toks)
	prog, parseErrs := ps.Parse()
	if len(parseErrs) > 0 {
		return parseErrs[0]
	}

	return it.Run(prog, "")
}
