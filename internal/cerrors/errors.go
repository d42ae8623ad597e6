// Package cerrors defines the three error kinds spec.md §7 requires every
// Clou front end to be able to surface: lexical, parse, and runtime
// errors. Each is a concrete type implementing error so the lexer,
// parser, and evaluator can return plain Go errors instead of calling
// os.Exit or panicking across call boundaries (the teacher does the
// latter; see the redesign note in SPEC_FULL.md §4).
//
// Render layers the cosmetic source-excerpt-with-caret presentation on
// top, grounded on CWBudde-go-dws/internal/errors and optionally colored
// via github.com/fatih/color — spec.md §1 calls this presentation
// cosmetic and explicitly out of the core's scope, so it lives here,
// used only by the CLI/REPL, never consulted by the engine itself.
package cerrors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"clou/internal/token"
)

// LexError is an unterminated string, unterminated block comment, or
// unexpected byte encountered while scanning.
type LexError struct {
	Line    int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("[line %d] Lex error: %s", e.Line, e.Message)
}

// ParseError is a syntax error: a missing token, an invalid assignment
// target, a const without an initializer, or too many params/args.
type ParseError struct {
	Tok     token.Token
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Tok.Line, e.Tok.Lexeme, e.Message)
}

// RuntimeError is any failure raised while evaluating a valid AST:
// undefined variable, const reassignment, division by zero, a type
// error, an out-of-bounds index, calling a non-callable, and so on.
type RuntimeError struct {
	Tok     token.Token // zero value if no token is available
	Message string
}

func (e *RuntimeError) Error() string {
	if e.Tok.Line > 0 {
		return fmt.Sprintf("[line %d] Runtime error: %s", e.Tok.Line, e.Message)
	}
	return fmt.Sprintf("Runtime error: %s", e.Message)
}

// NewRuntimeError constructs a RuntimeError carrying no source token.
func NewRuntimeError(format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

// NewRuntimeErrorAt constructs a RuntimeError anchored at tok.
func NewRuntimeErrorAt(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Tok: tok, Message: fmt.Sprintf(format, args...)}
}

// Render formats err with a source excerpt and a caret under it,
// optionally in color. Tokens carry no column, so the caret does not mark
// the token's own position: for parse and runtime errors it sits as many
// characters into the line as the token's lexeme is long, and for lex
// errors it sits at the start of the line. source is the full text the
// error occurred in; it may be empty, in which case only the message
// header is rendered. Errors without a usable line/column (e.g. a bare
// RuntimeError with no token) render as just their Error() text.
func Render(err error, source string, useColor bool) string {
	line, col, msg := errorPosition(err)
	if line <= 0 {
		return err.Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error at line %d:\n", line))

	if srcLine := sourceLine(source, line); srcLine != "" {
		prefix := fmt.Sprintf("%4d | ", line)
		sb.WriteString(prefix)
		sb.WriteString(srcLine)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max(col-1, 0)))
		caret := "^"
		if useColor {
			caret = color.New(color.FgRed, color.Bold).Sprint("^")
		}
		sb.WriteString(caret)
		sb.WriteString("\n")
	}

	if useColor {
		sb.WriteString(color.New(color.Bold).Sprint(msg))
	} else {
		sb.WriteString(msg)
	}
	return sb.String()
}

func errorPosition(err error) (line, col int, msg string) {
	switch e := err.(type) {
	case *LexError:
		return e.Line, 1, e.Message
	case *ParseError:
		return e.Tok.Line, len(e.Tok.Lexeme) + 1, e.Message
	case *RuntimeError:
		if e.Tok.Line > 0 {
			return e.Tok.Line, len(e.Tok.Lexeme) + 1, e.Message
		}
		return 0, 0, e.Message
	default:
		return 0, 0, err.Error()
	}
}

func sourceLine(source string, line int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
