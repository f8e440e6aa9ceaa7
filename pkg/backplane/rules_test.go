package backplane

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/selection"
)

type resolved struct {
	rule  string
	node  netspec.NetNode
	props netspec.NetProperties
}

func dispatch(t *testing.T, chain *selection.PinChain, idx int, rec *netspec.PinRecord) resolved {
	t.Helper()
	res, pos, err := chain.Dispatch(selection.Input{Record: rec, Connector: idx})
	require.NoError(t, err)
	node, err := res.Node.NetNode()
	require.NoError(t, err)
	return resolved{rule: selection.RuleName(chain.Rules()[pos]), node: node, props: res.Props}
}

func companion(slot, pin string) *netspec.Companion {
	return &netspec.Companion{Slot: slot, Pin: pin}
}

func TestPTChain(t *testing.T) {
	names := NameTable{"JP2_LV_SOURCE_1", "JP2_LV_RETURN_1"}
	chain := PTChain(DefaultPrefixes(), names, ChainOptions{})
	require.True(t, chain.EndsWithCatchAll())

	tests := []struct {
		name string
		idx  int
		rec  netspec.PinRecord
		want resolved
	}{
		{
			name: "single to diff positive",
			idx:  1,
			rec:  netspec.PinRecord{SignalID: "HYB_i2C_SCL", Pin: "A01", Counterpart: companion("03 / X-0", "B02")},
			want: resolved{"PT_SingleToDiffP", netspec.Node("JD3", "B2", "JP1", "A1"), netspec.NetProperties{Name: "JD3_JP1_HYB_i2C_SCL_P"}},
		},
		{
			name: "thermistor adc",
			idx:  1,
			rec:  netspec.PinRecord{SignalID: "EC_ADC_2", Pin: "A3", Counterpart: companion("03", "B4")},
			want: resolved{"PT_SingleToDiffP", netspec.Node("JD3", "B4", "JP1", "A3"), netspec.NetProperties{Name: "JD3_JP1_THERM_EC_ADC_2_P"}},
		},
		{
			name: "single to diff negative",
			idx:  1,
			rec:  netspec.PinRecord{SignalID: "JD3_HYB_i2C_SCL_N", Pin: "A02"},
			want: resolved{"PT_SingleToDiffN", netspec.Node("", "", "JP1", "A2"), netspec.NetProperties{Name: "JD3_JP1_HYB_i2C_SCL_N"}},
		},
		{
			name: "unused",
			idx:  0,
			rec:  netspec.PinRecord{SignalID: "DATA_1", Pin: "C1", Note: netspec.NoteUnused, Counterpart: companion("00", "A1")},
			want: resolved{"PT_UnusedToGND", netspec.Node("", "", "JP0", "C1"), netspec.NetProperties{Name: "GND"}},
		},
		{
			name: "not connected",
			idx:  0,
			rec:  netspec.PinRecord{SignalID: "ASIC_RESET", Pin: "C2"},
			want: resolved{"PT_NotConnected", netspec.Node("", "", "JP0", "C2"), netspec.NetProperties{Name: "GND"}},
		},
		{
			name: "has counterpart",
			idx:  1,
			rec:  netspec.PinRecord{SignalID: "DATA_7", Pin: "D10", Counterpart: companion("03", "E01")},
			want: resolved{"PT_DCB", netspec.Node("JD3", "E1", "JP1", "D10"), netspec.NetProperties{Name: "JD3_JP1_DATA_7"}},
		},
		{
			name: "breakout table hit",
			idx:  2,
			rec:  netspec.PinRecord{SignalID: "LV_RETURN", Pin: "F1"},
			want: resolved{"PT_LV_RETURN", netspec.Node("", "", "JP2", "F1"), netspec.NetProperties{Name: "JP2_LV_RETURN_1"}},
		},
		{
			name: "breakout table miss",
			idx:  5,
			rec:  netspec.PinRecord{SignalID: "LV_SENSE", Pin: "F2"},
			want: resolved{"PT_LV_SENSE", netspec.Node("", "", "JP5", "F2"), netspec.NetProperties{Name: "JP5_LV_SENSE", Attr: netspec.AttrForRefOnly}},
		},
		{
			name: "default",
			idx:  1,
			rec:  netspec.PinRecord{SignalID: "SPARE", Pin: "G1"},
			want: resolved{"PT_Default", netspec.Node("", "", "JP1", "G1"), netspec.NetProperties{Name: "JP1_SPARE", Attr: netspec.AttrForRefOnly}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.rec
			assert.Equal(t, tt.want, dispatch(t, chain, tt.idx, &rec))
		})
	}
}

func TestPTSingleToDiffWithoutDCBSlot(t *testing.T) {
	chain := PTChain(DefaultPrefixes(), nil, ChainOptions{})
	_, _, err := chain.Dispatch(selection.Input{Record: &netspec.PinRecord{SignalID: "EC_RESET", Pin: "A1"}})
	assert.True(t, errors.Is(err, netspec.ErrMalformedRecord))
}

func TestPTPathFinder(t *testing.T) {
	chain := PTChain(DefaultPrefixes(), nil, ChainOptions{PathFinder: true, PathFinderKeep: []int{0, 1}})

	got := dispatch(t, chain, 4, &netspec.PinRecord{SignalID: "DATA", Pin: "A1", Counterpart: companion("00", "B1")})
	assert.Equal(t, "PT_PathFinder", got.rule)
	assert.True(t, got.props.Placeholder())

	got = dispatch(t, chain, 1, &netspec.PinRecord{SignalID: "DATA", Pin: "A1", Counterpart: companion("00", "B1")})
	assert.Equal(t, "PT_DCB", got.rule)

	got = dispatch(t, chain, 4, &netspec.PinRecord{SignalID: "LV_SOURCE", Pin: "A1"})
	assert.Equal(t, "PT_LV_SOURCE", got.rule)
}

func TestDCBChain(t *testing.T) {
	names := NameTable{"JD3_1V5_SENSE", "JD3_1V5_A", "JD4_5_2V5"}
	chain := DCBChain(DefaultPrefixes(), names)
	require.True(t, chain.EndsWithCatchAll())

	tests := []struct {
		name string
		idx  int
		rec  netspec.PinRecord
		want resolved
	}{
		{
			name: "ground",
			idx:  2,
			rec:  netspec.PinRecord{SignalID: "GND", Pin: "A01", Counterpart: companion("01", "C3")},
			want: resolved{"DCB_GND", netspec.Node("JD2", "A1", "", ""), netspec.NetProperties{Name: "JD2_GND"}},
		},
		{
			name: "analog ground keeps pigtail pin",
			idx:  2,
			rec:  netspec.PinRecord{SignalID: "AGND", Pin: "A02", Counterpart: companion("01", "C3")},
			want: resolved{"DCB_AGND", netspec.Node("JD2", "A2", "JP1", "C3"), netspec.NetProperties{Name: "JD2_AGND"}},
		},
		{
			name: "single to diff with pending pin",
			idx:  2,
			rec:  netspec.PinRecord{SignalID: "EC_RESET_GPIO", Pin: "A3", Counterpart: companion("04 / X-1", "")},
			want: resolved{"DCB_PTSingleToDiff", netspec.Node("JD2", "A3", "JP4", ""), netspec.NetProperties{Name: "JD2_JP4_EC_RESET_GPIO_P"}},
		},
		{
			name: "has counterpart",
			idx:  2,
			rec:  netspec.PinRecord{SignalID: "DATA", Pin: "A4", Counterpart: companion("04", "B01")},
			want: resolved{"DCB_PT", netspec.Node("JD2", "A4", "JP4", "B1"), netspec.NetProperties{Name: "JD2_JP4_DATA"}},
		},
		{
			name: "1V5 table hit skips sense entries",
			idx:  3,
			rec:  netspec.PinRecord{SignalID: "1.5V", Pin: "K1"},
			want: resolved{"DCB_1V5", netspec.Node("JD3", "K1", "", ""), netspec.NetProperties{Name: "JD3_1V5_A"}},
		},
		{
			name: "1V5 fallback",
			idx:  7,
			rec:  netspec.PinRecord{SignalID: "1.5V", Pin: "K1"},
			want: resolved{"DCB_1V5", netspec.Node("JD7", "K1", "", ""), netspec.NetProperties{Name: "JD7_1.5V"}},
		},
		{
			name: "2V5 shared by two connectors",
			idx:  5,
			rec:  netspec.PinRecord{SignalID: "2.5V", Pin: "K2"},
			want: resolved{"DCB_2V5", netspec.Node("JD5", "K2", "", ""), netspec.NetProperties{Name: "JD4_5_2V5"}},
		},
		{
			name: "1V5 sense",
			idx:  3,
			rec:  netspec.PinRecord{SignalID: "1V5_SENSE_M", Pin: "K3"},
			want: resolved{"DCB_1V5Sense", netspec.Node("JD3", "K3", "", ""), netspec.NetProperties{Name: "JD3_1V5_SENSE"}},
		},
		{
			name: "bridge",
			idx:  1,
			rec:  netspec.PinRecord{SignalID: "SIG", Pin: "A1", Peer: companion("00", "A01")},
			want: resolved{"DCB_DCB", netspec.GenericNode("JD0", "A1", "JD1", "A1"), netspec.NetProperties{Name: "JD1_JD0_SIG"}},
		},
		{
			name: "default",
			idx:  6,
			rec:  netspec.PinRecord{SignalID: "SPARE", Pin: "Z1"},
			want: resolved{"DCB_Default", netspec.Node("JD6", "Z1", "", ""), netspec.NetProperties{Name: "JD6_SPARE", Attr: netspec.AttrForRefOnly}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.rec
			assert.Equal(t, tt.want, dispatch(t, chain, tt.idx, &rec))
		})
	}
}

func TestBridgeOverwritesPlaceholder(t *testing.T) {
	dcb := [][]*netspec.PinRecord{
		{{SignalID: "SIG", Pin: "A1", Peer: companion("01", "")}},
		{{SignalID: "SIG", Pin: "A1", Peer: companion("00", "A1")}},
	}
	sel := selection.NewSelector(DCBChain(DefaultPrefixes(), nil))
	spec, err := sel.Run(dcb)
	require.NoError(t, err)

	require.Equal(t, 1, spec.Len())
	props, ok := spec.Get(netspec.GenericNode("JD0", "A1", "JD1", "A1"))
	require.True(t, ok)
	assert.Equal(t, netspec.NetProperties{Name: "JD1_JD0_SIG"}, props)

	stats := sel.Stats()
	assert.Equal(t, 1, stats.Overwrites)
	assert.Equal(t, map[string]int{"DCB_DCBPending": 1, "DCB_DCB": 1}, stats.Hits)
}

func TestSettleBridgesDropsStalePlaceholder(t *testing.T) {
	dcb := [][]*netspec.PinRecord{
		{{SignalID: "SIG", Pin: "A1", Peer: companion("01", "")}},
		{{SignalID: "X", Pin: "B5", Peer: companion("00", "A1")}},
	}
	sel := selection.NewSelector(DCBChain(DefaultPrefixes(), nil))
	spec, err := sel.Run(dcb)
	require.NoError(t, err)
	require.Equal(t, 2, spec.Len())
	assert.Equal(t, 0, sel.Stats().Overwrites)

	assert.Equal(t, 1, SettleBridges(spec))
	assert.Equal(t, []netspec.NetNode{netspec.GenericNode("JD0", "A1", "JD1", "B5")}, spec.Nodes())
	props, _ := spec.Get(netspec.GenericNode("JD1", "B5", "JD0", "A1"))
	assert.Equal(t, "JD1_JD0_X", props.Name)

	assert.Equal(t, 0, SettleBridges(spec))
}

func TestSettleBridgesKeepsOpenPlaceholder(t *testing.T) {
	spec := netspec.NewSpec()
	spec.Put(netspec.GenericNode("JD0", "A1", "JD1", "A1"), netspec.NetProperties{Attr: netspec.AttrPlaceholder})
	spec.Put(netspec.GenericNode("JD0", "A2", "JD2", "B5"), netspec.NetProperties{Name: "JD0_JD2_X"})

	assert.Equal(t, 0, SettleBridges(spec))
	assert.Equal(t, 2, spec.Len())
}

func TestDepopulates(t *testing.T) {
	alphaOnly := &netspec.PinRecord{Note: netspec.NoteAlphaOnly}
	plain := &netspec.PinRecord{}

	assert.False(t, Depopulates(VariantAlpha, alphaOnly, 9))
	assert.True(t, Depopulates(VariantBeta, alphaOnly, 0))
	assert.False(t, Depopulates(VariantBeta, plain, 9))
	assert.True(t, Depopulates("Gamma", alphaOnly, 0))
	assert.True(t, Depopulates(VariantGamma, plain, 8))
	assert.False(t, Depopulates(VariantGamma, plain, 7))
	assert.False(t, Depopulates(VariantGamma, plain, -1))
}

func TestVariantChainMarksDepopulated(t *testing.T) {
	chain := withVariant(DCBChain(DefaultPrefixes(), nil), VariantGamma, dcbPigtail)
	assert.Equal(t, "Variant_gamma", selection.RuleName(chain.Rules()[0]))
	require.True(t, chain.EndsWithCatchAll())

	got := dispatch(t, chain, 0, &netspec.PinRecord{SignalID: "DATA", Pin: "B3", Counterpart: companion("09", "A3")})
	assert.Equal(t, "Variant_gamma", got.rule)
	assert.Equal(t, netspec.NetProperties{Name: "JD0_JP9_DATA", Attr: netspec.AttrDepopulated}, got.props)

	got = dispatch(t, chain, 0, &netspec.PinRecord{SignalID: "DATA", Pin: "B3", Counterpart: companion("01", "A3")})
	assert.Equal(t, "DCB_PT", got.rule)
	assert.Empty(t, got.props.Attr)

	got = dispatch(t, chain, 0, &netspec.PinRecord{SignalID: "SIG", Pin: "A1", Note: netspec.NoteAlphaOnly, Peer: companion("01", "")})
	assert.Equal(t, "Variant_gamma", got.rule)
	assert.True(t, got.props.Placeholder())
	assert.Equal(t, netspec.AttrPlaceholder, got.props.Attr)

	plain := DCBChain(DefaultPrefixes(), nil)
	assert.Same(t, plain, withVariant(plain, VariantAlpha, dcbPigtail))
}

func TestNameTableWithGrounds(t *testing.T) {
	names := NameTable{"JP0_LV_SOURCE"}.WithGrounds(DefaultPrefixes(), 2)
	assert.Equal(t, NameTable{"JP0_LV_SOURCE", "JD0_GND", "JD0_AGND", "JD1_GND", "JD1_AGND"}, names)

	_, ok := names.Find(func(n string) bool { return n == "JD2_GND" })
	assert.False(t, ok)
}
