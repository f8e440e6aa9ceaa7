// Package netlist models an as-built netlist exported from an EDA tool and
// provides the net-hopping collapse used before verification.
//
// # Overview
//
// A Graph maps net names to the component pins (occurrences) on that net.
// Read builds one from a KiCad or PCAD netlist export. A Collapser then
// merges nets that are only separated by transparent two-terminal parts
// (series resistors, capacitors, ferrites), so that
//
//	N1: R5.1, JD0.A1
//	N2: R5.2, JP0.B1
//
// becomes one net N1 holding all four occurrences. Index answers whether a
// specification node is realized by the graph.
//
// # Usage
//
//	g, err := netlist.Read(f)
//	c, err := netlist.NewCollapser(netlist.CollapseConfig{Transparent: []string{`^R\d+`}})
//	collapsed, members := c.Classes(g)
//	idx := netlist.NewIndex(collapsed)
package netlist
