package backplane

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
)

// Prefixes distinguishes the two connector families.
type Prefixes struct {
	Pigtail string `koanf:"pigtail"`
	DCB     string `koanf:"dcb"`
}

// DefaultPrefixes returns the prefixes used on the production backplane.
func DefaultPrefixes() Prefixes {
	return Prefixes{Pigtail: "JP", DCB: "JD"}
}

// PT returns the pigtail connector name for idx.
func (p Prefixes) PT(idx int) string { return netspec.Connector(p.Pigtail, idx) }

// DCBConn returns the DCB connector name for idx.
func (p Prefixes) DCBConn(idx int) string { return netspec.Connector(p.DCB, idx) }

// NameTable is the ordered list of breakout-board net names. Lookups return
// the first entry that satisfies the predicate, so order matters.
type NameTable []string

// Find returns the first name accepted by fn.
func (t NameTable) Find(fn func(name string) bool) (string, bool) {
	for _, n := range t {
		if fn(n) {
			return n, true
		}
	}
	return "", false
}

// WithGrounds returns a copy of t extended with the ground nets of every
// DCB connector.
func (t NameTable) WithGrounds(p Prefixes, connectors int) NameTable {
	out := append(NameTable(nil), t...)
	for i := 0; i < connectors; i++ {
		out = append(out, p.DCBConn(i)+"_GND", p.DCBConn(i)+"_AGND")
	}
	return out
}

// slotConnector resolves a companion slot cell to a connector name. Composite
// cells must have been expanded by the loader.
func slotConnector(prefix string, c *netspec.Companion) (string, int, error) {
	if c == nil || c.Slot == "" {
		return "", 0, fmt.Errorf("backplane: missing companion slot: %w", netspec.ErrMalformedRecord)
	}
	idx, err := netspec.SlotIndex(c.Slot)
	if err != nil {
		return "", 0, err
	}
	n, err := strconv.Atoi(idx)
	if err != nil {
		return "", 0, fmt.Errorf("backplane: composite slot %q: %w", c.Slot, netspec.ErrMalformedRecord)
	}
	return netspec.Connector(prefix, n), n, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func join(parts ...string) string { return strings.Join(parts, "_") }
