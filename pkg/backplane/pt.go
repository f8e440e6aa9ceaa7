package backplane

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/selection"
)

// Signal fragments that mark single-ended pigtail signals which become
// differential pairs on the DCB side.
var singleToDiffSignals = []string{"HYB_i2C", "EC_RESET", "EC_ADC"}

// Signal fragments of pigtail signals that are grounded when no DCB pin is
// assigned.
var groundedWhenUnconnected = []string{"ASIC", "_CLK_", "TFC", "THERMISTOR"}

// Breakout-board signal families handled by name-table lookups.
var breakoutSignals = []string{"LV_SOURCE", "LV_RETURN", "LV_SENSE", "THERMISTOR"}

type ptRule struct {
	p Prefixes
}

func (r ptRule) pt(in selection.Input) netspec.Endpoint {
	return netspec.Endpoint{Connector: r.p.PT(in.Connector), Pin: netspec.Depad(in.Record.Pin)}
}

func (r ptRule) ptOnly(in selection.Input, props netspec.NetProperties) selection.Result {
	pt := r.pt(in)
	return selection.Result{Node: netspec.Node("", "", pt.Connector, pt.Pin), Props: props}
}

// ptSingleToDiffP resolves the positive leg of a single-ended signal that
// the DCB drives differentially.
type ptSingleToDiffP struct{ ptRule }

func (ptSingleToDiffP) Name() string { return "PT_SingleToDiffP" }

func (ptSingleToDiffP) Match(in selection.Input) bool {
	sig := in.Record.SignalID
	return !strings.HasSuffix(sig, "_N") && containsAny(sig, singleToDiffSignals...)
}

func (r ptSingleToDiffP) Process(in selection.Input) (selection.Result, error) {
	rec := in.Record
	dcb, _, err := slotConnector(r.p.DCB, rec.Counterpart)
	if err != nil {
		return selection.Result{}, fmt.Errorf("pin %s: %w", rec.Pin, err)
	}
	pt := r.pt(in)
	return selection.Result{
		Node:  netspec.Node(dcb, rec.Counterpart.Pin, pt.Connector, pt.Pin),
		Props: netspec.NetProperties{Name: diffName(dcb, pt.Connector, rec.SignalID)},
	}, nil
}

// diffName names the positive leg of a single-to-differential net. EC_ADC
// lines feed thermistors and carry a THERM marker.
func diffName(dcb, pt, sig string) string {
	if strings.Contains(sig, "EC_ADC") {
		return join(dcb, pt, "THERM", sig, "P")
	}
	return join(dcb, pt, sig, "P")
}

// ptSingleToDiffN resolves the negative leg. Its signal id was rewritten by
// the backfill to "<dcb>_<signal>_N".
type ptSingleToDiffN struct{ ptRule }

func (ptSingleToDiffN) Name() string { return "PT_SingleToDiffN" }

func (ptSingleToDiffN) Match(in selection.Input) bool {
	sig := in.Record.SignalID
	return strings.HasSuffix(sig, "_N") && containsAny(sig, singleToDiffSignals...)
}

func (r ptSingleToDiffN) Process(in selection.Input) (selection.Result, error) {
	dcb, tail, ok := netspec.SplitHead(in.Record.SignalID)
	if !ok {
		return selection.Result{}, fmt.Errorf("signal %q has no connector head: %w", in.Record.SignalID, netspec.ErrMalformedRecord)
	}
	return r.ptOnly(in, netspec.NetProperties{Name: join(dcb, r.p.PT(in.Connector), tail)}), nil
}

type ptUnusedToGND struct{ ptRule }

func (ptUnusedToGND) Name() string { return "PT_UnusedToGND" }

func (ptUnusedToGND) Match(in selection.Input) bool { return in.Record.Unused() }

func (r ptUnusedToGND) Process(in selection.Input) (selection.Result, error) {
	return r.ptOnly(in, netspec.NetProperties{Name: "GND"}), nil
}

type ptNotConnected struct{ ptRule }

func (ptNotConnected) Name() string { return "PT_NotConnected" }

func (ptNotConnected) Match(in selection.Input) bool {
	return !in.Record.HasCounterpart() && containsAny(in.Record.SignalID, groundedWhenUnconnected...)
}

func (r ptNotConnected) Process(in selection.Input) (selection.Result, error) {
	return r.ptOnly(in, netspec.NetProperties{Name: "GND"}), nil
}

// ptToDCB handles pigtail pins with a resolved DCB counterpart.
type ptToDCB struct{ ptRule }

func (ptToDCB) Name() string { return "PT_DCB" }

func (ptToDCB) Match(in selection.Input) bool { return in.Record.HasCounterpart() }

func (r ptToDCB) Process(in selection.Input) (selection.Result, error) {
	rec := in.Record
	dcb, _, err := slotConnector(r.p.DCB, rec.Counterpart)
	if err != nil {
		return selection.Result{}, fmt.Errorf("pin %s: %w", rec.Pin, err)
	}
	pt := r.pt(in)
	return selection.Result{
		Node:  netspec.Node(dcb, rec.Counterpart.Pin, pt.Connector, pt.Pin),
		Props: netspec.NetProperties{Name: join(dcb, pt.Connector, rec.SignalID)},
	}, nil
}

// ptBreakout resolves pigtail signals routed to the breakout board by
// looking them up in the name table. Signals without an entry fall back to
// a reference-only net.
type ptBreakout struct {
	ptRule
	keyword string
	names   NameTable
}

func (r ptBreakout) Name() string { return "PT_" + r.keyword }

func (r ptBreakout) Match(in selection.Input) bool {
	return strings.Contains(in.Record.SignalID, r.keyword)
}

func (r ptBreakout) Process(in selection.Input) (selection.Result, error) {
	pt := r.p.PT(in.Connector)
	sig := in.Record.SignalID
	props := netspec.NetProperties{Name: join(pt, sig), Attr: netspec.AttrForRefOnly}
	if name, ok := lookupByHead(r.names, pt, func(tail string) bool {
		return strings.Contains(tail, sig)
	}); ok {
		props = netspec.NetProperties{Name: name}
	}
	return r.ptOnly(in, props), nil
}

// lookupByHead finds the first table entry whose head equals head and whose
// tail satisfies fn.
func lookupByHead(names NameTable, head string, fn func(tail string) bool) (string, bool) {
	return names.Find(func(n string) bool {
		h, tail, ok := netspec.SplitHead(n)
		return ok && h == head && fn(tail)
	})
}

// ptPathFinder leaves non-breakout pins of the outer slots as placeholders.
type ptPathFinder struct {
	ptRule
	skip map[int]bool
}

func (ptPathFinder) Name() string { return "PT_PathFinder" }

func (r ptPathFinder) Match(in selection.Input) bool {
	return !r.skip[in.Connector] && !containsAny(in.Record.SignalID, breakoutSignals...)
}

func (r ptPathFinder) Process(in selection.Input) (selection.Result, error) {
	return r.ptOnly(in, netspec.NetProperties{Attr: netspec.AttrPlaceholder}), nil
}

type ptDefault struct{ ptRule }

func (ptDefault) Name() string               { return "PT_Default" }
func (ptDefault) CatchAll() bool             { return true }
func (ptDefault) Match(selection.Input) bool { return true }

func (r ptDefault) Process(in selection.Input) (selection.Result, error) {
	return r.ptOnly(in, netspec.NetProperties{
		Name: join(r.p.PT(in.Connector), in.Record.SignalID),
		Attr: netspec.AttrForRefOnly,
	}), nil
}

// ChainOptions tunes the rule chains.
type ChainOptions struct {
	// PathFinder places the placeholder rule at the head of the pigtail
	// chain. Connectors listed in PathFinderKeep are still resolved in full.
	PathFinder     bool  `koanf:"path_finder"`
	PathFinderKeep []int `koanf:"path_finder_keep"`
}

// PTChain returns the pigtail rule chain in priority order.
func PTChain(p Prefixes, names NameTable, opts ChainOptions) *selection.PinChain {
	base := ptRule{p: p}
	var rules []selection.PinRule
	if opts.PathFinder {
		skip := make(map[int]bool, len(opts.PathFinderKeep))
		for _, i := range opts.PathFinderKeep {
			skip[i] = true
		}
		rules = append(rules, ptPathFinder{ptRule: base, skip: skip})
	}
	rules = append(rules,
		ptSingleToDiffP{base},
		ptSingleToDiffN{base},
		ptUnusedToGND{base},
		ptNotConnected{base},
		ptToDCB{base},
	)
	for _, kw := range breakoutSignals {
		rules = append(rules, ptBreakout{ptRule: base, keyword: kw, names: names})
	}
	rules = append(rules, ptDefault{base})
	return selection.MustChain(rules...)
}
