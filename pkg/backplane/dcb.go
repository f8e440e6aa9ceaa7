package backplane

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/selection"
)

type dcbRule struct {
	p Prefixes
}

func (r dcbRule) dcb(in selection.Input) netspec.Endpoint {
	return netspec.Endpoint{Connector: r.p.DCBConn(in.Connector), Pin: netspec.Depad(in.Record.Pin)}
}

func (r dcbRule) dcbOnly(in selection.Input, props netspec.NetProperties) selection.Result {
	d := r.dcb(in)
	return selection.Result{Node: netspec.Node(d.Connector, d.Pin, "", ""), Props: props}
}

// dcbGround handles GND and AGND pins. AGND pins keep their pigtail side
// when one is listed.
type dcbGround struct {
	dcbRule
	signal         string
	keepPigtailPin bool
}

func (r dcbGround) Name() string { return "DCB_" + r.signal }

func (r dcbGround) Match(in selection.Input) bool { return in.Record.SignalID == r.signal }

func (r dcbGround) Process(in selection.Input) (selection.Result, error) {
	props := netspec.NetProperties{Name: join(r.p.DCBConn(in.Connector), r.signal)}
	rec := in.Record
	if !r.keepPigtailPin || !rec.HasCounterpartSlot() {
		return r.dcbOnly(in, props), nil
	}
	pt, _, err := slotConnector(r.p.Pigtail, rec.Counterpart)
	if err != nil {
		return selection.Result{}, err
	}
	d := r.dcb(in)
	return selection.Result{Node: netspec.Node(d.Connector, d.Pin, pt, rec.Counterpart.Pin), Props: props}, nil
}

// dcbPTSingleToDiff names the DCB end of a single-to-differential pair.
// Only the pigtail slot is required; the pin may still be unresolved.
type dcbPTSingleToDiff struct{ dcbRule }

func (dcbPTSingleToDiff) Name() string { return "DCB_PTSingleToDiff" }

func (dcbPTSingleToDiff) Match(in selection.Input) bool {
	return in.Record.HasCounterpartSlot() && containsAny(in.Record.SignalID, singleToDiffSignals...)
}

func (r dcbPTSingleToDiff) Process(in selection.Input) (selection.Result, error) {
	rec := in.Record
	pt, _, err := slotConnector(r.p.Pigtail, rec.Counterpart)
	if err != nil {
		return selection.Result{}, fmt.Errorf("pin %s: %w", rec.Pin, err)
	}
	d := r.dcb(in)
	return selection.Result{
		Node:  netspec.Node(d.Connector, d.Pin, pt, rec.Counterpart.Pin),
		Props: netspec.NetProperties{Name: diffName(d.Connector, pt, rec.SignalID)},
	}, nil
}

// dcbToPT handles DCB pins with a resolved pigtail counterpart.
type dcbToPT struct{ dcbRule }

func (dcbToPT) Name() string { return "DCB_PT" }

func (dcbToPT) Match(in selection.Input) bool { return in.Record.HasCounterpart() }

func (r dcbToPT) Process(in selection.Input) (selection.Result, error) {
	rec := in.Record
	pt, _, err := slotConnector(r.p.Pigtail, rec.Counterpart)
	if err != nil {
		return selection.Result{}, fmt.Errorf("pin %s: %w", rec.Pin, err)
	}
	d := r.dcb(in)
	return selection.Result{
		Node:  netspec.Node(d.Connector, d.Pin, pt, rec.Counterpart.Pin),
		Props: netspec.NetProperties{Name: join(d.Connector, pt, rec.SignalID)},
	}, nil
}

// dcbPower resolves supply pins against the breakout-board name table and
// falls back to "<dcb>_<signal>" when the table has no entry.
type dcbPower struct {
	dcbRule
	label string
	match func(sig string) bool
	find  func(names NameTable, dcb string, idx int, sig string) (string, bool)
	names NameTable
}

func (r dcbPower) Name() string { return "DCB_" + r.label }

func (r dcbPower) Match(in selection.Input) bool { return r.match(in.Record.SignalID) }

func (r dcbPower) Process(in selection.Input) (selection.Result, error) {
	dcb := r.p.DCBConn(in.Connector)
	name := join(dcb, in.Record.SignalID)
	if n, ok := r.find(r.names, dcb, in.Connector, in.Record.SignalID); ok {
		name = n
	}
	return r.dcbOnly(in, netspec.NetProperties{Name: name}), nil
}

func find1V5(names NameTable, dcb string, _ int, _ string) (string, bool) {
	return lookupByHead(names, dcb, func(tail string) bool {
		return strings.Contains(tail, "1V5") && !strings.Contains(tail, "SENSE")
	})
}

// find2V5 matches entries shared by two DCB connectors
// ("<dcb>_<index>_..._2V5"); either side may name this connector.
func find2V5(names NameTable, dcb string, idx int, _ string) (string, bool) {
	return names.Find(func(n string) bool {
		if !strings.Contains(n, "2V5") || strings.Contains(n, "SENSE") {
			return false
		}
		nn := netspec.SplitNetName(n)
		if nn.Simple() {
			return false
		}
		return nn.Head == dcb || nn.Body == strconv.Itoa(idx)
	})
}

// find1V5Sense drops the two-character leg suffix ("_M", "_S") before
// matching.
func find1V5Sense(names NameTable, dcb string, _ int, sig string) (string, bool) {
	stem := sig[:len(sig)-2]
	return lookupByHead(names, dcb, func(tail string) bool {
		return strings.Contains(tail, stem)
	})
}

// dcbBridge handles DCB pins wired to another DCB connector. The node is
// generic so the bridge resolves to one entry from either side.
type dcbBridge struct{ dcbRule }

func (dcbBridge) Name() string { return "DCB_DCB" }

func (dcbBridge) Match(in selection.Input) bool { return in.Record.HasPeer() }

func (r dcbBridge) Process(in selection.Input) (selection.Result, error) {
	rec := in.Record
	peer, _, err := slotConnector(r.p.DCB, rec.Peer)
	if err != nil {
		return selection.Result{}, fmt.Errorf("pin %s: %w", rec.Pin, err)
	}
	d := r.dcb(in)
	return selection.Result{
		Node:  netspec.GenericNode(d.Connector, d.Pin, peer, rec.Peer.Pin),
		Props: netspec.NetProperties{Name: join(d.Connector, peer, rec.SignalID)},
	}, nil
}

// dcbBridgePending reserves a bridge whose far pin is not known yet. The far
// pin is assumed to carry the same designator. The far side's own record
// overwrites the entry when the bridge is straight-through; otherwise
// SettleBridges drops it.
type dcbBridgePending struct{ dcbRule }

func (dcbBridgePending) Name() string { return "DCB_DCBPending" }

func (dcbBridgePending) Match(in selection.Input) bool {
	p := in.Record.Peer
	return p != nil && p.Slot != "" && p.Pin == ""
}

func (r dcbBridgePending) Process(in selection.Input) (selection.Result, error) {
	rec := in.Record
	peer, _, err := slotConnector(r.p.DCB, rec.Peer)
	if err != nil {
		return selection.Result{}, fmt.Errorf("pin %s: %w", rec.Pin, err)
	}
	d := r.dcb(in)
	return selection.Result{
		Node:  netspec.GenericNode(d.Connector, d.Pin, peer, d.Pin),
		Props: netspec.NetProperties{Attr: netspec.AttrPlaceholder},
	}, nil
}

type dcbDefault struct{ dcbRule }

func (dcbDefault) Name() string               { return "DCB_Default" }
func (dcbDefault) CatchAll() bool             { return true }
func (dcbDefault) Match(selection.Input) bool { return true }

func (r dcbDefault) Process(in selection.Input) (selection.Result, error) {
	return r.dcbOnly(in, netspec.NetProperties{
		Name: join(r.p.DCBConn(in.Connector), in.Record.SignalID),
		Attr: netspec.AttrForRefOnly,
	}), nil
}

// DCBChain returns the DCB rule chain in priority order.
func DCBChain(p Prefixes, names NameTable) *selection.PinChain {
	base := dcbRule{p: p}
	return selection.MustChain[selection.Input, selection.Result](
		dcbGround{dcbRule: base, signal: "GND"},
		dcbGround{dcbRule: base, signal: "AGND", keepPigtailPin: true},
		dcbPTSingleToDiff{base},
		dcbToPT{base},
		dcbPower{
			dcbRule: base, label: "1V5", names: names, find: find1V5,
			match: func(sig string) bool { return sig == "1.5V" },
		},
		dcbPower{
			dcbRule: base, label: "2V5", names: names, find: find2V5,
			match: func(sig string) bool { return sig == "2.5V" },
		},
		dcbPower{
			dcbRule: base, label: "1V5Sense", names: names, find: find1V5Sense,
			match: func(sig string) bool { return strings.Contains(sig, "1V5_SENSE") },
		},
		dcbBridge{base},
		dcbBridgePending{base},
		dcbDefault{base},
	)
}
