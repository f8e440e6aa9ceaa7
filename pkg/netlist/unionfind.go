package netlist

import "sort"

// disjointSet is a union-find over net names with union by rank and path
// compression.
type disjointSet struct {
	parent map[string]string
	rank   map[string]int
}

func newDisjointSet(names []string) *disjointSet {
	d := &disjointSet{
		parent: make(map[string]string, len(names)),
		rank:   make(map[string]int, len(names)),
	}
	for _, n := range names {
		d.parent[n] = n
	}
	return d
}

func (d *disjointSet) find(n string) string {
	root := n
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for n != root {
		next := d.parent[n]
		d.parent[n] = root
		n = next
	}
	return root
}

// union merges the sets of a and b and reports whether they were distinct.
func (d *disjointSet) union(a, b string) bool {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return false
	}
	switch {
	case d.rank[ra] < d.rank[rb]:
		d.parent[ra] = rb
	case d.rank[ra] > d.rank[rb]:
		d.parent[rb] = ra
	default:
		d.parent[rb] = ra
		d.rank[ra]++
	}
	return true
}

// classes groups every name under the smallest member of its set. Members
// are sorted.
func (d *disjointSet) classes() map[string][]string {
	byRoot := make(map[string][]string)
	for n := range d.parent {
		r := d.find(n)
		byRoot[r] = append(byRoot[r], n)
	}
	out := make(map[string][]string, len(byRoot))
	for _, members := range byRoot {
		sort.Strings(members)
		out[members[0]] = members
	}
	return out
}
