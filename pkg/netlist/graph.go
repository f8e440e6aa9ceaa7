package netlist

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
)

// Occurrence is one component pin on a net.
type Occurrence struct {
	Ref string `json:"ref"`
	Pin string `json:"pin"`
}

func (o Occurrence) String() string { return o.Ref + "." + o.Pin }

// Graph maps net names to their occurrences.
type Graph map[string][]Occurrence

// Add appends occurrences to net.
func (g Graph) Add(net string, occ ...Occurrence) {
	g[net] = append(g[net], occ...)
}

// Names returns the net names in sorted order.
func (g Graph) Names() []string {
	names := make([]string, 0, len(g))
	for n := range g {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Occurrences returns the total number of occurrences over all nets.
func (g Graph) Occurrences() int {
	n := 0
	for _, occ := range g {
		n += len(occ)
	}
	return n
}

// Refs returns the distinct component references of net.
func (g Graph) Refs(net string) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, o := range g[net] {
		if !seen[o.Ref] {
			seen[o.Ref] = true
			refs = append(refs, o.Ref)
		}
	}
	sort.Strings(refs)
	return refs
}

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	out := make(Graph, len(g))
	for n, occ := range g {
		out[n] = append([]Occurrence(nil), occ...)
	}
	return out
}

// sortOccurrences orders occurrences by reference and pin, comparing numeric
// runs by value, and drops duplicates.
func sortOccurrences(occ []Occurrence) []Occurrence {
	sort.Slice(occ, func(i, j int) bool {
		if occ[i].Ref != occ[j].Ref {
			return netspec.NaturalLess(occ[i].Ref, occ[j].Ref)
		}
		return netspec.NaturalLess(occ[i].Pin, occ[j].Pin)
	})
	out := occ[:0]
	for i, o := range occ {
		if i > 0 && o == occ[i-1] {
			continue
		}
		out = append(out, o)
	}
	return out
}
