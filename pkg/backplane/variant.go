package backplane

import (
	"strings"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/selection"
)

// Board variants, from fully populated to most depopulated.
const (
	VariantAlpha = "alpha"
	VariantBeta  = "beta"
	VariantGamma = "gamma"
)

// gammaPigtails is the number of pigtail connectors populated on gamma
// boards.
const gammaPigtails = 8

// Depopulates reports whether variant leaves a pin unpopulated. Beta drops
// alpha-only pins; gamma also drops every pin of pigtail connector
// gammaPigtails and up. pigtail is negative when the pigtail connector is
// unknown.
func Depopulates(variant string, rec *netspec.PinRecord, pigtail int) bool {
	switch strings.ToLower(variant) {
	case VariantBeta:
		return rec.AlphaOnly()
	case VariantGamma:
		return rec.AlphaOnly() || pigtail >= gammaPigtails
	}
	return false
}

// variantRule runs first in a chain. It resolves the records the variant
// depopulates through the remaining rules and marks the result. Placeholder
// and reference-only results keep their attribute.
type variantRule struct {
	variant string
	pigtail func(selection.Input) int
	rest    *selection.PinChain
}

func (r variantRule) Name() string { return "Variant_" + strings.ToLower(r.variant) }

func (r variantRule) Match(in selection.Input) bool {
	return Depopulates(r.variant, in.Record, r.pigtail(in))
}

func (r variantRule) Process(in selection.Input) (selection.Result, error) {
	res, _, err := r.rest.Dispatch(in)
	if err != nil {
		return selection.Result{}, err
	}
	if !res.Props.Placeholder() && res.Props.Attr == "" {
		res.Props.Attr = netspec.AttrDepopulated
	}
	return res, nil
}

// withVariant prepends the variant rule to chain. Alpha boards are fully
// populated and get chain back unchanged.
func withVariant(chain *selection.PinChain, variant string, pigtail func(selection.Input) int) *selection.PinChain {
	if variant == "" || strings.EqualFold(variant, VariantAlpha) {
		return chain
	}
	rules := append([]selection.PinRule{variantRule{variant: variant, pigtail: pigtail, rest: chain}}, chain.Rules()...)
	return selection.MustChain(rules...)
}

func ptPigtail(in selection.Input) int { return in.Connector }

func dcbPigtail(in selection.Input) int {
	if !in.Record.HasCounterpartSlot() {
		return -1
	}
	_, n, err := slotConnector("", in.Record.Counterpart)
	if err != nil {
		return -1
	}
	return n
}
