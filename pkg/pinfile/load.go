package pinfile

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/pinexpr"
)

// entry is one pin of a connector with its raw column values.
type entry struct {
	pin    string
	fields map[string]string
}

// section is one connector of a table, in document order.
type section struct {
	connector string
	entries   []entry
}

func decode(r io.Reader) ([]section, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("pinfile: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("pinfile: line %d: expected a mapping of connectors: %w", root.Line, netspec.ErrMalformedRecord)
	}

	var out []section
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, list := root.Content[i], root.Content[i+1]
		s := section{connector: key.Value}
		if list.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("pinfile: %s: line %d: expected a list of pins: %w", s.connector, list.Line, netspec.ErrMalformedRecord)
		}
		for _, item := range list.Content {
			if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
				return nil, fmt.Errorf("pinfile: %s: line %d: expected a single pin entry: %w", s.connector, item.Line, netspec.ErrMalformedRecord)
			}
			e := entry{pin: item.Content[0].Value, fields: make(map[string]string)}
			cols := item.Content[1]
			if cols.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("pinfile: %s-%s: line %d: expected columns: %w", s.connector, e.pin, cols.Line, netspec.ErrMalformedRecord)
			}
			for j := 0; j+1 < len(cols.Content); j += 2 {
				e.fields[cols.Content[j].Value] = scalar(cols.Content[j+1])
			}
			s.entries = append(s.entries, e)
		}
		out = append(out, s)
	}
	return out, nil
}

func scalar(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return strings.TrimSpace(n.Value)
}

// Load reads a mapping table. The result is indexed by connector number;
// connectors missing from the table are empty.
func Load(r io.Reader, schema Schema) ([][]*netspec.PinRecord, error) {
	sections, err := decode(r)
	if err != nil {
		return nil, err
	}
	type indexed struct {
		idx     int
		records []*netspec.PinRecord
	}
	var conns []indexed
	seen := make(map[int]bool)
	for _, s := range sections {
		idx, ok := netspec.ConnectorIndex(schema.Prefix, s.connector)
		if !ok {
			return nil, fmt.Errorf("pinfile: connector %q does not match prefix %q: %w", s.connector, schema.Prefix, netspec.ErrMalformedRecord)
		}
		if seen[idx] {
			return nil, fmt.Errorf("pinfile: connector %s listed twice: %w", s.connector, netspec.ErrMalformedRecord)
		}
		seen[idx] = true
		var recs []*netspec.PinRecord
		for _, e := range s.entries {
			expanded, err := schema.records(e)
			if err != nil {
				return nil, fmt.Errorf("pinfile: %s-%s: %w", s.connector, e.pin, err)
			}
			recs = append(recs, expanded...)
		}
		conns = append(conns, indexed{idx: idx, records: recs})
	}
	sort.Slice(conns, func(i, j int) bool { return conns[i].idx < conns[j].idx })

	if len(conns) == 0 {
		return nil, nil
	}
	out := make([][]*netspec.PinRecord, conns[len(conns)-1].idx+1)
	for _, c := range conns {
		out[c.idx] = c.records
	}
	return out, nil
}

// LoadFile is Load on a named file.
func LoadFile(path string, schema Schema) ([][]*netspec.PinRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pinfile: %w", err)
	}
	defer f.Close()
	return Load(f, schema)
}

// records turns one table entry into pin records. A composite companion
// cell yields one record per companion pin, all sharing the own pin.
func (s Schema) records(e entry) ([]*netspec.PinRecord, error) {
	base := netspec.PinRecord{
		SignalID:    e.fields[s.Signal],
		Pin:         netspec.Depad(e.pin),
		Ref:         e.fields[s.Ref],
		Note:        e.fields[s.Note],
		Depopulated: truthy(e.fields[s.Depopulated]),
	}
	counterparts, err := companions(e.fields[s.CounterpartPin], e.fields[s.CounterpartSlot])
	if err != nil {
		return nil, err
	}
	peers, err := companions(e.fields[s.PeerPin], e.fields[s.PeerSlot])
	if err != nil {
		return nil, err
	}

	var out []*netspec.PinRecord
	for _, c := range counterparts {
		for _, p := range peers {
			rec := base
			rec.Counterpart = c
			rec.Peer = p
			out = append(out, &rec)
		}
	}
	return out, nil
}

// companions expands a pin cell and its slot cell. The result always holds
// at least one element; a nil element stands for no companion.
func companions(pinCell, slotCell string) ([]*netspec.Companion, error) {
	if slotCell == "" && pinCell == "" {
		return []*netspec.Companion{nil}, nil
	}
	if !pinexpr.Composite(pinCell) && !strings.Contains(slotCell, "|") {
		return []*netspec.Companion{{Slot: slotCell, Pin: netspec.Depad(pinCell)}}, nil
	}

	var slots []string
	if slotCell != "" {
		idx, err := pinexpr.Slots(slotCell)
		if err != nil {
			return nil, err
		}
		for _, n := range idx {
			slots = append(slots, fmt.Sprintf("%02d", n))
		}
	}
	var groups [][]string
	if pinCell != "" {
		var err error
		if groups, err = pinexpr.Pins(pinCell); err != nil {
			return nil, err
		}
	}

	switch {
	case len(groups) == 0:
		out := make([]*netspec.Companion, len(slots))
		for i, sl := range slots {
			out[i] = &netspec.Companion{Slot: sl}
		}
		return out, nil
	case len(slots) == 0:
		return nil, fmt.Errorf("pin cell %q without a slot: %w", pinCell, netspec.ErrMalformedRecord)
	case len(slots) != 1 && len(slots) != len(groups):
		return nil, fmt.Errorf("pin cell %q has %d groups but slot cell %q has %d: %w",
			pinCell, len(groups), slotCell, len(slots), netspec.ErrMalformedRecord)
	}

	var out []*netspec.Companion
	for i, pins := range groups {
		slot := slots[0]
		if len(slots) > 1 {
			slot = slots[i]
		}
		for _, p := range pins {
			out = append(out, &netspec.Companion{Slot: slot, Pin: p})
		}
	}
	return out, nil
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "", "0", "false", "no", "n":
		return false
	}
	return true
}
