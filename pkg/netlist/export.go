package netlist

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type jsonNet struct {
	Name  string       `json:"name"`
	Nodes []Occurrence `json:"nodes"`
}

// ExportJSON renders g as indented JSON with nets in name order.
func ExportJSON(g Graph, generatedBy string) ([]byte, error) {
	nets := make([]jsonNet, 0, len(g))
	for _, name := range g.Names() {
		nets = append(nets, jsonNet{Name: name, Nodes: g[name]})
	}

	output := struct {
		Version     string    `json:"version"`
		NetCount    int       `json:"net_count"`
		Occurrences int       `json:"occurrences"`
		Nets        []jsonNet `json:"nets"`
		GeneratedBy string    `json:"generated_by"`
	}{
		Version:     "1.0",
		NetCount:    len(g),
		Occurrences: g.Occurrences(),
		Nets:        nets,
		GeneratedBy: generatedBy,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("netlist: failed to encode JSON: %w", err)
	}
	return data, nil
}

// ExportKiCad renders g in the KiCad netlist layout accepted by Read.
func ExportKiCad(g Graph, source string) string {
	var b strings.Builder
	b.WriteString("(export (version D)\n")
	b.WriteString("  (design\n")
	fmt.Fprintf(&b, "    (source %s))\n", strconv.Quote(source))

	refs := make(map[string]bool)
	for _, occ := range g {
		for _, o := range occ {
			refs[o.Ref] = true
		}
	}
	sorted := make([]string, 0, len(refs))
	for r := range refs {
		sorted = append(sorted, r)
	}
	sort.Strings(sorted)

	b.WriteString("  (components\n")
	for _, r := range sorted {
		fmt.Fprintf(&b, "    (comp (ref %s))\n", strconv.Quote(r))
	}
	b.WriteString("  )\n")

	b.WriteString("  (nets\n")
	for i, name := range g.Names() {
		fmt.Fprintf(&b, "    (net (code %d) (name %s)\n", i+1, strconv.Quote(name))
		for _, o := range g[name] {
			fmt.Fprintf(&b, "      (node (ref %s) (pin %s))\n", strconv.Quote(o.Ref), strconv.Quote(o.Pin))
		}
		b.WriteString("    )\n")
	}
	b.WriteString("  )\n")
	b.WriteString(")\n")
	return b.String()
}
