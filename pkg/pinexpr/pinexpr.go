// Package pinexpr parses the composite pin and slot cells of the backplane
// mapping tables.
//
// A cell lists one group per companion connector, separated by "|". A group
// lists one or more designators separated by "/":
//
//	A01|B02/B03   -> [[A1] [B2 B3]]
//	00 / X-0      -> slot 0
//	00|01         -> slots 0 and 1
package pinexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
)

// Lexer tokenizes pin and slot cells.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Ident", Pattern: `[A-Za-z0-9][A-Za-z0-9_.\-]*`},
	{Name: "Alt", Pattern: `\|`},
	{Name: "Join", Pattern: `/`},
})

// Expr is a parsed cell.
type Expr struct {
	Groups []*Group `parser:"@@ ( \"|\" @@ )*"`
}

// Group is one companion connector's share of a cell.
type Group struct {
	Items []string `parser:"@Ident ( \"/\" @Ident )*"`
}

var parser = participle.MustBuild[Expr](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace"),
)

// Parse parses a raw cell.
func Parse(cell string) (*Expr, error) {
	expr, err := parser.ParseString("", cell)
	if err != nil {
		return nil, fmt.Errorf("pinexpr: %q: %v: %w", cell, err, netspec.ErrMalformedRecord)
	}
	return expr, nil
}

// Composite reports whether cell names more than one designator.
func Composite(cell string) bool {
	return strings.ContainsAny(cell, "|/")
}

// Pins parses a pin cell and returns the depadded designators grouped per
// companion connector.
func Pins(cell string) ([][]string, error) {
	expr, err := Parse(cell)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(expr.Groups))
	for _, g := range expr.Groups {
		pins := make([]string, 0, len(g.Items))
		for _, p := range g.Items {
			pins = append(pins, netspec.Depad(p))
		}
		out = append(out, pins)
	}
	return out, nil
}

// Slots parses a slot cell and returns the connector index of every group.
// Only the first designator of a group carries the index; the rest ("X-0")
// is a column label.
func Slots(cell string) ([]int, error) {
	expr, err := Parse(cell)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(expr.Groups))
	for _, g := range expr.Groups {
		n, err := strconv.Atoi(g.Items[0])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("pinexpr: slot %q in %q: %w", g.Items[0], cell, netspec.ErrMalformedRecord)
		}
		out = append(out, n)
	}
	return out, nil
}
