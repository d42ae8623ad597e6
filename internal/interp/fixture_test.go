package interp

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"clou/internal/lexer"
	"clou/internal/parser"
)

// TestFixtureSnapshots runs a handful of richer, multi-feature programs and
// snapshot-compares their print() output, the way CWBudde-go-dws's own
// fixture_test.go falls back to snaps.MatchSnapshot for cases with no
// separately-authored expected-output file.
func TestFixtureSnapshots(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		files map[string]string
	}{
		{
			name: "diamond_method_resolution",
			src: `
				class Base {
					function init(label) { this.label = label; }
					function whoAmI() { return "Base:" + this.label; }
				}
				class Middle extends Base {
					function whoAmI() { return "Middle->" + super.whoAmI(); }
				}
				class Leaf extends Middle {
					function whoAmI() { return "Leaf->" + super.whoAmI(); }
				}
				let l = new Leaf("x");
				print(l.whoAmI());
			`,
		},
		{
			name: "object_and_array_composition",
			src: `
				function makeUser(name, tags) {
					return {name: name, tags: tags, active: true};
				}
				let u = makeUser("Nat", ["admin", "ops"]);
				print(u.name);
				print(u.tags);
				print(u.tags.join("/"));
				print(u.active);
			`,
		},
		{
			name: "multi_module_with_shared_dependency",
			src: `
				let shapes = require("shapes");
				let app = require("app");
				print(app.describeAll());
			`,
			files: map[string]string{
				"geometry.clou": `
					exports.square = function(side) { return side * side; };
				`,
				"shapes.clou": `
					let geometry = require("geometry");
					exports.area = function(side) { return geometry.square(side); };
				`,
				"app.clou": `
					let shapes = require("shapes");
					exports.describeAll = function() {
						return "area(4)=" + shapes.area(4);
					};
				`,
			},
		},
		{
			name: "rest_and_default_parameters",
			src: `
				function summarize(label, base = 10, ...extras) {
					let total = base;
					let i = 0;
					while (i < extras.length()) {
						total = total + extras[i];
						i = i + 1;
					}
					return label + ":" + total;
				}
				print(summarize("a"));
				print(summarize("b", 1, 2, 3));
			`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			toks, lexErrs := lexer.New(tc.src).Scan()
			require.Empty(t, lexErrs)
			prog, parseErrs := parser.New(toks).Parse()
			require.Empty(t, parseErrs)

			var buf bytes.Buffer
			it := New(&buf)
			for path, source := range tc.files {
				it.Loader().AddFile(path, source)
			}
			require.NoError(t, it.Run(prog, ""))

			snaps.MatchSnapshot(t, buf.String())
		})
	}
}
