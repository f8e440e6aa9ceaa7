// Package verify compares a net specification with an exported netlist.
//
// Three rule chains run over different subjects: one per specification
// node, one per actual net for population requirements and one per actual
// net for orphan detection. Each rule returns a Finding; NoFinding means
// the rule applied and found nothing wrong. Findings are collected into a
// Report keyed by category and never abort a run.
package verify

import (
	"fmt"
	"sort"
	"strings"
)

// Category labels a class of discrepancies. The numeric prefix orders the
// report sections.
type Category string

const (
	NotImplemented       Category = "1. Not implemented"
	NameInconsistent     Category = "2. Name inconsistent"
	UnexpectedPopulation Category = "3. Unexpected population"
	MissingComponent     Category = "4. Missing depopulation component"
	OrphanNet            Category = "5. Orphan net"
)

// Finding is the outcome of one rule.
type Finding struct {
	Category Category
	Message  string
}

// NoFinding is returned by rules that applied and found no discrepancy.
var NoFinding = Finding{}

// None reports whether f is NoFinding.
func (f Finding) None() bool { return f == NoFinding }

func findingf(c Category, format string, args ...any) Finding {
	return Finding{Category: c, Message: fmt.Sprintf(format, args...)}
}

// Report maps categories to messages in the order they were found.
// Categories without findings are absent.
type Report map[Category][]string

func (r Report) add(f Finding) {
	if f.None() {
		return
	}
	r[f.Category] = append(r[f.Category], f.Message)
}

// Sections returns the categories present in r in report order.
func (r Report) Sections() []Category {
	out := make([]Category, 0, len(r))
	for c := range r {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Count returns the total number of findings.
func (r Report) Count() int {
	n := 0
	for _, msgs := range r {
		n += len(msgs)
	}
	return n
}

// String renders r as plain text, one banner per section.
func (r Report) String() string {
	var b strings.Builder
	for _, c := range r.Sections() {
		fmt.Fprintf(&b, "========%s========\n", c)
		for _, m := range r[c] {
			b.WriteString(m)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
