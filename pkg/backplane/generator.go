package backplane

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/selection"
)

// Generator builds the backplane specification from both mapping tables.
type Generator struct {
	Prefixes Prefixes
	Names    NameTable
	Options  ChainOptions
	// Variant is the board variant to generate for. Empty means alpha.
	Variant string

	log zerolog.Logger
}

// Result holds the per-family specifications and their run statistics.
// Combined is PT merged with DCB, DCB entries winning.
type Result struct {
	PT       *netspec.Spec
	DCB      *netspec.Spec
	Combined *netspec.Spec

	PTStats  selection.Stats
	DCBStats selection.Stats
	// Settled counts pending bridge placeholders dropped after the far
	// side resolved to a different pin.
	Settled int
}

// NewGenerator returns a generator with the default prefixes and no name
// table.
func NewGenerator(log zerolog.Logger) *Generator {
	return &Generator{Prefixes: DefaultPrefixes(), log: log}
}

// Run backfills pt from dcb and resolves both tables. pt is mutated.
func (g *Generator) Run(pt, dcb [][]*netspec.PinRecord) (*Result, error) {
	if err := Backfill(g.Prefixes, pt, dcb, g.log); err != nil {
		return nil, err
	}

	ptChain := withVariant(PTChain(g.Prefixes, g.Names, g.Options), g.Variant, ptPigtail)
	ptSel := selection.NewSelector(ptChain,
		selection.WithLogger(g.log.With().Str("family", "pt").Logger()))
	ptSpec, err := ptSel.Run(pt)
	if err != nil {
		return nil, fmt.Errorf("backplane: pigtail: %w", err)
	}

	dcbChain := withVariant(DCBChain(g.Prefixes, g.Names), g.Variant, dcbPigtail)
	dcbSel := selection.NewSelector(dcbChain,
		selection.WithLogger(g.log.With().Str("family", "dcb").Logger()))
	dcbSpec, err := dcbSel.Run(dcb)
	if err != nil {
		return nil, fmt.Errorf("backplane: dcb: %w", err)
	}
	settled := SettleBridges(dcbSpec)

	combined := netspec.NewSpec()
	combined.Merge(ptSpec)
	shared := combined.Merge(dcbSpec)

	g.log.Info().
		Int("pt_nodes", ptSpec.Len()).
		Int("dcb_nodes", dcbSpec.Len()).
		Int("shared", shared).
		Int("settled", settled).
		Msg("Specification generated")

	return &Result{
		PT:       ptSpec,
		DCB:      dcbSpec,
		Combined: combined,
		PTStats:  ptSel.Stats(),
		DCBStats: dcbSel.Stats(),
		Settled:  settled,
	}, nil
}

type bridgeEnd struct {
	ep  netspec.Endpoint
	far string
}

// SettleBridges drops pending bridge placeholders that a resolved bridge
// supersedes. A placeholder guesses a straight-through far pin; once a named
// bridge joins one of its pins to any pin of the other connector the guess
// is stale. It returns the number of dropped entries.
func SettleBridges(spec *netspec.Spec) int {
	resolved := make(map[bridgeEnd]bool)
	var pending []netspec.NetNode
	for _, n := range spec.Nodes() {
		if !n.Generic {
			continue
		}
		props, _ := spec.Get(n)
		if props.Placeholder() {
			pending = append(pending, n)
			continue
		}
		resolved[bridgeEnd{n.A, n.B.Connector}] = true
		resolved[bridgeEnd{n.B, n.A.Connector}] = true
	}

	settled := 0
	for _, n := range pending {
		if !resolved[bridgeEnd{n.A, n.B.Connector}] && !resolved[bridgeEnd{n.B, n.A.Connector}] {
			continue
		}
		if spec.Delete(n) {
			settled++
		}
	}
	return settled
}
