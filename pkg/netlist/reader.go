package netlist

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/sexpr"
)

// Read parses a netlist export. Both the PCAD layout
//
//	(net "NAME" (node "REF" "PIN") ...)
//
// and the KiCad layout
//
//	(net (code 1) (name "NAME") (node (ref REF) (pin PIN)) ...)
//
// are accepted, at any nesting depth.
func Read(r io.Reader) (Graph, error) {
	exprs, err := sexpr.ParseAll(r)
	if err != nil {
		return nil, fmt.Errorf("netlist: %w", err)
	}

	g := make(Graph)
	for _, e := range exprs {
		root, ok := e.(*sexpr.List)
		if !ok {
			continue
		}
		var walkErr error
		root.Walk(func(l *sexpr.List) bool {
			if walkErr != nil || l.Keyword() != "net" {
				return walkErr == nil
			}
			walkErr = readNet(g, l)
			return false
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}
	return g, nil
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("netlist: failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func readNet(g Graph, l *sexpr.List) error {
	name, ok := l.Value("name")
	if !ok {
		atoms := l.Atoms()
		if len(atoms) == 0 {
			return fmt.Errorf("netlist: line %d: net without a name", l.Line())
		}
		name = atoms[0]
	}

	occ := []Occurrence{}
	for _, node := range l.FindAll("node") {
		ref, okRef := node.Value("ref")
		pin, okPin := node.Value("pin")
		if !okRef || !okPin {
			atoms := node.Atoms()
			if len(atoms) < 2 {
				return fmt.Errorf("netlist: line %d: node of net %q needs a reference and a pin", node.Line(), name)
			}
			ref, pin = atoms[0], atoms[1]
		}
		occ = append(occ, Occurrence{Ref: ref, Pin: pin})
	}
	g.Add(name, occ...)
	return nil
}
