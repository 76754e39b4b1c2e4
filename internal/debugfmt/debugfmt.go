// Package debugfmt is an opt-in, colorized pretty-printer for inspecting a
// compiled AST or render.Result during development. Nothing in this package
// is reachable from the public API or a SQL driver — it exists solely for
// human eyes on a terminal.
package debugfmt

import (
	"github.com/k0kubun/pp/v3"
)

// SetColor toggles ANSI coloring globally for this process, following the
// caller's own terminal detection (cmd/odatasql wires golang.org/x/term
// for this).
func SetColor(enabled bool) {
	pp.ColoringEnabled = enabled
}

// Sprint renders v as an indented, typed dump, never as valid SQL or a
// driver argument.
func Sprint(v any) string {
	return pp.Sprint(v)
}

// Println writes a pretty-printed dump of v to stdout.
func Println(v any) {
	pp.Println(v)
}
