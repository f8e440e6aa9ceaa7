package netspec

import (
	"fmt"
	"sort"
	"strings"
)

// Endpoint is one connector pin. The zero value means the side is absent.
type Endpoint struct {
	Connector string
	Pin       string
}

// IsZero reports whether the endpoint is absent.
func (e Endpoint) IsZero() bool { return e.Connector == "" && e.Pin == "" }

func (e Endpoint) String() string {
	if e.IsZero() {
		return "-"
	}
	return e.Connector + "-" + e.Pin
}

func (e Endpoint) less(o Endpoint) bool {
	if e.Connector != o.Connector {
		return NaturalLess(e.Connector, o.Connector)
	}
	return NaturalLess(e.Pin, o.Pin)
}

// NetNode is the canonical identity of a net endpoint pairing and is used as
// a map key. For heterogeneous nodes A is the DCB side and B the PT side.
// For generic nodes A and B are two same-family endpoints stored in
// canonical order. Always build nodes through Node, GenericNode or
// Canonical so that equal physical pairings compare equal.
type NetNode struct {
	Generic bool
	A       Endpoint
	B       Endpoint
}

// Node returns the canonical heterogeneous node for a DCB and a PT
// endpoint. Either side may be empty.
func Node(dcb, dcbPin, pt, ptPin string) NetNode {
	return NetNode{
		A: Endpoint{Connector: dcb, Pin: dcbPin},
		B: Endpoint{Connector: pt, Pin: ptPin},
	}.Canonical()
}

// GenericNode returns the canonical node of a same-family bridge. The
// result does not depend on the order of the two endpoints.
func GenericNode(conn1, pin1, conn2, pin2 string) NetNode {
	return NetNode{
		Generic: true,
		A:       Endpoint{Connector: conn1, Pin: pin1},
		B:       Endpoint{Connector: conn2, Pin: pin2},
	}.Canonical()
}

// Canonical depads pin designators and, for generic nodes, orders the
// endpoints.
func (n NetNode) Canonical() NetNode {
	n.A.Pin = Depad(n.A.Pin)
	n.B.Pin = Depad(n.B.Pin)
	if n.Generic && n.B.less(n.A) {
		n.A, n.B = n.B, n.A
	}
	return n
}

// Endpoints returns the present endpoints of the node.
func (n NetNode) Endpoints() []Endpoint {
	var out []Endpoint
	for _, e := range [2]Endpoint{n.A, n.B} {
		if !e.IsZero() {
			out = append(out, e)
		}
	}
	return out
}

func (n NetNode) String() string {
	if n.Generic {
		return fmt.Sprintf("Node1: %s, Node2: %s", n.A, n.B)
	}
	return fmt.Sprintf("DCB: %s, PT: %s", n.A, n.B)
}

// NodeSource is anything a rule may return as a net identity.
type NodeSource interface {
	NetNode() (NetNode, error)
}

// NetNode makes NetNode a NodeSource of itself.
func (n NetNode) NetNode() (NetNode, error) { return n.Canonical(), nil }

// Field names understood by Fields.
const (
	FieldDCB      = "DCB"
	FieldDCBPin   = "DCB_PIN"
	FieldPT       = "PT"
	FieldPTPin    = "PT_PIN"
	FieldNode1    = "Node1"
	FieldNode1Pin = "Node1_PIN"
	FieldNode2    = "Node2"
	FieldNode2Pin = "Node2_PIN"
)

// Fields is the loose, named-field form of a node identity. A missing or
// empty field means the side is absent.
type Fields map[string]string

// NetNode converts the fields to a canonical node. Heterogeneous and generic
// field sets cannot be mixed, and unknown field names are rejected.
func (f Fields) NetNode() (NetNode, error) {
	var hetero, generic bool
	for k := range f {
		switch k {
		case FieldDCB, FieldDCBPin, FieldPT, FieldPTPin:
			hetero = true
		case FieldNode1, FieldNode1Pin, FieldNode2, FieldNode2Pin:
			generic = true
		default:
			return NetNode{}, fmt.Errorf("netspec: unknown node field %q: %w", k, ErrMalformedRecord)
		}
	}
	switch {
	case hetero && generic:
		return NetNode{}, fmt.Errorf("netspec: mixed node fields %s: %w", f.keys(), ErrMalformedRecord)
	case generic:
		if f[FieldNode1] == "" || f[FieldNode2] == "" {
			return NetNode{}, fmt.Errorf("netspec: generic node needs both connectors: %w", ErrMalformedRecord)
		}
		return GenericNode(f[FieldNode1], f[FieldNode1Pin], f[FieldNode2], f[FieldNode2Pin]), nil
	case hetero:
		if f[FieldDCB] == "" && f[FieldPT] == "" {
			return NetNode{}, fmt.Errorf("netspec: node without connectors: %w", ErrMalformedRecord)
		}
		return Node(f[FieldDCB], f[FieldDCBPin], f[FieldPT], f[FieldPTPin]), nil
	}
	return NetNode{}, fmt.Errorf("netspec: empty node fields: %w", ErrMalformedRecord)
}

func (f Fields) keys() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// SortNodes orders nodes by connector and pin with numeric runs compared by
// value, so JD2 sorts before JD10.
func SortNodes(nodes []NetNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodeLess(nodes[i], nodes[j])
	})
}

func nodeLess(a, b NetNode) bool {
	if a.A != b.A {
		return a.A.less(b.A)
	}
	if a.B != b.B {
		return a.B.less(b.B)
	}
	return !a.Generic && b.Generic
}

// NaturalLess compares strings treating runs of digits as numbers. Strings
// that only differ in leading zeros fall back to byte order so the ordering
// stays total.
func NaturalLess(a, b string) bool {
	if c := naturalCompare(a, b); c != 0 {
		return c < 0
	}
	return a < b
}

func naturalCompare(a, b string) int {
	for a != "" && b != "" {
		if isDigit(a[0]) && isDigit(b[0]) {
			na, ra := splitDigits(a)
			nb, rb := splitDigits(b)
			if len(na) != len(nb) {
				return len(na) - len(nb)
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			a, b = ra, rb
			continue
		}
		if a[0] != b[0] {
			return int(a[0]) - int(b[0])
		}
		a, b = a[1:], b[1:]
	}
	return len(a) - len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func splitDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits = strings.TrimLeft(s[:i], "0")
	return digits, s[i:]
}
