package interp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"clou/internal/lexer"
	"clou/internal/parser"
)

// TestGoldenFixtures runs every testdata/golden/*.clou script and checks
// its print() output against the companion .out file, the same
// script-plus-expected-stdout shape sam-decook-lox's test/ harness drove
// (collect.go walks a directory of cases; compare.go diffs Expected.Stdout
// against Actual.Stdout) — adapted here onto Go's own testing.T rather
// than a bespoke comparison CLI.
func TestGoldenFixtures(t *testing.T) {
	dir := filepath.Join("testdata", "golden")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".clou") {
			continue
		}
		caseName := strings.TrimSuffix(name, ".clou")

		t.Run(caseName, func(t *testing.T) {
			source, err := os.ReadFile(filepath.Join(dir, name))
			require.NoError(t, err)
			wantBytes, err := os.ReadFile(filepath.Join(dir, caseName+".out"))
			require.NoError(t, err)

			toks, lexErrs := lexer.New(string(source)).Scan()
			require.Empty(t, lexErrs)
			prog, parseErrs := parser.New(toks).Parse()
			require.Empty(t, parseErrs)

			var buf bytes.Buffer
			it := New(&buf)
			require.NoError(t, it.Run(prog, filepath.Join(dir, name)))
			require.Equal(t, string(wantBytes), buf.String())
		})
	}
}
