// Package sexpr is a small streaming S-expression reader for EDA netlist
// exports (KiCad and PCAD). Atoms keep track of whether they were quoted and
// every node records the line it started on for error messages.
package sexpr

import "strings"

// Sexp is an atom or a list.
type Sexp interface {
	IsLeaf() bool
	String() string
	Line() int
}

// Atom is a symbol or a quoted string.
type Atom struct {
	Value  string
	Quoted bool
	line   int
}

func (a *Atom) IsLeaf() bool { return true }
func (a *Atom) Line() int    { return a.line }

func (a *Atom) String() string {
	if a.Quoted {
		return `"` + strings.ReplaceAll(a.Value, `"`, `\"`) + `"`
	}
	return a.Value
}

// List is a parenthesized sequence.
type List struct {
	Items []Sexp
	line  int
}

func (l *List) IsLeaf() bool { return false }
func (l *List) Line() int    { return l.line }

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, it := range l.Items {
		parts[i] = it.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Keyword returns the leading symbol of the list, or "" when the list is
// empty or starts with a sub-list.
func (l *List) Keyword() string {
	if len(l.Items) == 0 {
		return ""
	}
	if a, ok := l.Items[0].(*Atom); ok {
		return a.Value
	}
	return ""
}

// Find returns the first direct child list whose keyword is key.
func (l *List) Find(key string) (*List, bool) {
	for _, it := range l.Items {
		if sub, ok := it.(*List); ok && sub.Keyword() == key {
			return sub, true
		}
	}
	return nil, false
}

// FindAll returns every direct child list whose keyword is key.
func (l *List) FindAll(key string) []*List {
	var out []*List
	for _, it := range l.Items {
		if sub, ok := it.(*List); ok && sub.Keyword() == key {
			out = append(out, sub)
		}
	}
	return out
}

// Walk calls fn for l and every nested list, depth first. Returning false
// from fn skips the children of that list.
func (l *List) Walk(fn func(*List) bool) {
	if !fn(l) {
		return
	}
	for _, it := range l.Items {
		if sub, ok := it.(*List); ok {
			sub.Walk(fn)
		}
	}
}

// Atoms returns the values of the atoms following the keyword.
func (l *List) Atoms() []string {
	var out []string
	for _, it := range l.Items[min(1, len(l.Items)):] {
		if a, ok := it.(*Atom); ok {
			out = append(out, a.Value)
		}
	}
	return out
}

// Value returns the first atom after the keyword of the child list key,
// as in (name "GND").
func (l *List) Value(key string) (string, bool) {
	sub, ok := l.Find(key)
	if !ok {
		return "", false
	}
	atoms := sub.Atoms()
	if len(atoms) == 0 {
		return "", false
	}
	return atoms[0], true
}
