package selection

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
)

// Input is what a pin rule sees: one record and the index of the connector
// it belongs to.
type Input struct {
	Record    *netspec.PinRecord
	Connector int
}

// Result is the identity and properties a pin rule resolves a record to.
type Result struct {
	Node  netspec.NodeSource
	Props netspec.NetProperties
}

// PinRule is a rule over pin records.
type PinRule = Rule[Input, Result]

// PinChain is a chain of pin rules.
type PinChain = Chain[Input, Result]

// Stats counts what happened during the last Run.
type Stats struct {
	Records    int
	Overwrites int
	Hits       map[string]int
}

// Selector drives a pin chain across a connector-indexed record set and
// builds the node specification.
type Selector struct {
	chain *PinChain
	log   zerolog.Logger
	stats Stats
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger used for overwrite and progress messages.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Selector) { s.log = l }
}

// NewSelector returns a selector over chain.
func NewSelector(chain *PinChain, opts ...Option) *Selector {
	s := &Selector{chain: chain, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run resolves every record. Connectors are visited in ascending index and
// records in the order given. When two records resolve to the same node the
// later one wins. A nil record, any rule error or an unmatched record
// aborts the run and no specification is returned.
func (s *Selector) Run(connectors [][]*netspec.PinRecord) (*netspec.Spec, error) {
	s.stats = Stats{Hits: make(map[string]int)}
	spec := netspec.NewSpec()

	for idx, records := range connectors {
		for _, rec := range records {
			if rec == nil {
				return nil, fmt.Errorf("selection: connector %d: nil record: %w", idx, netspec.ErrMalformedRecord)
			}
			s.stats.Records++

			res, pos, err := s.chain.Dispatch(Input{Record: rec, Connector: idx})
			if err != nil {
				return nil, fmt.Errorf("selection: connector %d pin %s (%s): %w", idx, rec.Pin, rec.SignalID, err)
			}
			if res.Node == nil {
				return nil, fmt.Errorf("selection: connector %d pin %s: rule returned no node: %w", idx, rec.Pin, netspec.ErrMalformedRecord)
			}
			node, err := res.Node.NetNode()
			if err != nil {
				return nil, fmt.Errorf("selection: connector %d pin %s: %w", idx, rec.Pin, err)
			}

			name := RuleName(s.chain.rules[pos])
			s.stats.Hits[name]++

			if prev, overwritten := spec.Put(node, res.Props); overwritten {
				s.stats.Overwrites++
				s.log.Debug().
					Str("node", node.String()).
					Str("previous", prev.Name).
					Str("net", res.Props.Name).
					Str("rule", name).
					Msg("Node overwritten")
			}
		}
	}

	s.log.Debug().
		Int("records", s.stats.Records).
		Int("nodes", spec.Len()).
		Int("overwrites", s.stats.Overwrites).
		Msg("Selector run completed")
	return spec, nil
}

// Stats returns a copy of the statistics of the last Run.
func (s *Selector) Stats() Stats {
	hits := make(map[string]int, len(s.stats.Hits))
	for k, v := range s.stats.Hits {
		hits[k] = v
	}
	return Stats{Records: s.stats.Records, Overwrites: s.stats.Overwrites, Hits: hits}
}
