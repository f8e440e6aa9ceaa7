package netlist

import "github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"

// Index answers which net a specification node is realized on.
type Index struct {
	nets map[Occurrence]string
}

// NewIndex indexes every occurrence of g. An occurrence listed on more than
// one net keeps the first net in name order.
func NewIndex(g Graph) *Index {
	idx := &Index{nets: make(map[Occurrence]string, g.Occurrences())}
	for _, net := range g.Names() {
		for _, o := range g[net] {
			if _, dup := idx.nets[o]; !dup {
				idx.nets[o] = net
			}
		}
	}
	return idx
}

// NetOf returns the net holding occurrence o.
func (x *Index) NetOf(o Occurrence) (string, bool) {
	net, ok := x.nets[o]
	return net, ok
}

// Net returns the net realizing node: every present endpoint of node must
// be on the graph and all of them on the same net. Pins are compared
// depadded.
func (x *Index) Net(node netspec.NetNode) (string, bool) {
	eps := node.Endpoints()
	if len(eps) == 0 {
		return "", false
	}
	var net string
	for i, ep := range eps {
		n, ok := x.lookup(ep)
		if !ok || (i > 0 && n != net) {
			return "", false
		}
		net = n
	}
	return net, true
}

func (x *Index) lookup(ep netspec.Endpoint) (string, bool) {
	if n, ok := x.nets[Occurrence{Ref: ep.Connector, Pin: ep.Pin}]; ok {
		return n, true
	}
	n, ok := x.nets[Occurrence{Ref: ep.Connector, Pin: netspec.Pad(ep.Pin)}]
	return n, ok
}
