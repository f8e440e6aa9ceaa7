package selection

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
)

func records(pins ...string) []*netspec.PinRecord {
	out := make([]*netspec.PinRecord, len(pins))
	for i, p := range pins {
		out[i] = &netspec.PinRecord{Pin: p, SignalID: "SIG_" + p}
	}
	return out
}

func notFirstConnector() PinRule {
	return Func[Input, Result]{
		Label:   "not-first",
		MatchFn: func(in Input) bool { return in.Connector != 0 },
		Fn: func(in Input) (Result, error) {
			conn := netspec.Connector("JD", in.Connector)
			return Result{
				Node:  netspec.Node(conn, in.Record.Pin, "", ""),
				Props: netspec.NetProperties{Name: conn + "_" + in.Record.SignalID},
			}, nil
		},
	}
}

func catchAll() PinRule {
	return Func[Input, Result]{
		Label: "default",
		Fn: func(in Input) (Result, error) {
			conn := netspec.Connector("JP", in.Connector)
			return Result{
				Node:  netspec.Fields{netspec.FieldPT: conn, netspec.FieldPTPin: in.Record.Pin},
				Props: netspec.NetProperties{Name: conn + "_" + in.Record.SignalID, Attr: netspec.AttrForRefOnly},
			}, nil
		},
	}
}

func TestFilterDistinguishesNotApplicable(t *testing.T) {
	r := notFirstConnector()
	_, ok, err := Filter(r, Input{Record: &netspec.PinRecord{Pin: "A1"}, Connector: 0})
	assert.NoError(t, err)
	assert.False(t, ok)

	out, ok, err := Filter(r, Input{Record: &netspec.PinRecord{Pin: "A1"}, Connector: 1})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "JD1_", out.Props.Name)
}

func TestNewChainRejectsEmpty(t *testing.T) {
	_, err := NewChain[Input, Result]()
	assert.Error(t, err)
	assert.Panics(t, func() { MustChain[Input, Result]() })
}

func TestDispatchFirstMatchWins(t *testing.T) {
	var calls []string
	mk := func(label string, match bool) PinRule {
		return Func[Input, Result]{
			Label:   label,
			MatchFn: func(Input) bool { calls = append(calls, label); return match },
			Fn: func(Input) (Result, error) {
				return Result{Props: netspec.NetProperties{Name: label}}, nil
			},
		}
	}
	chain := MustChain(mk("a", false), mk("b", true), mk("c", true))

	out, pos, err := chain.Dispatch(Input{Record: &netspec.PinRecord{}})
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	assert.Equal(t, "b", out.Props.Name)
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.False(t, chain.EndsWithCatchAll())
}

func TestSelectorOneRulePerRecord(t *testing.T) {
	dataset := [][]*netspec.PinRecord{
		records("A1", "A2", "A3", "A4"),
		records("B1", "B2", "B3"),
	}
	chain := MustChain(notFirstConnector(), catchAll())
	require.True(t, chain.EndsWithCatchAll())

	sel := NewSelector(chain)
	spec, err := sel.Run(dataset)
	require.NoError(t, err)

	assert.Equal(t, 7, spec.Len())
	stats := sel.Stats()
	assert.Equal(t, 7, stats.Records)
	assert.Equal(t, map[string]int{"not-first": 3, "default": 4}, stats.Hits)
	assert.Zero(t, stats.Overwrites)

	p, ok := spec.Get(netspec.Node("", "", "JP0", "A1"))
	require.True(t, ok)
	assert.True(t, p.ForRefOnly())
	p, ok = spec.Get(netspec.Node("JD1", "B3", "", ""))
	require.True(t, ok)
	assert.Equal(t, "JD1_SIG_B3", p.Name)
}

func TestSelectorWithoutCatchAllFails(t *testing.T) {
	dataset := [][]*netspec.PinRecord{records("A1"), records("B1")}
	sel := NewSelector(MustChain(notFirstConnector()))

	spec, err := sel.Run(dataset)
	assert.Nil(t, spec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoRuleMatched))
	assert.True(t, strings.Contains(err.Error(), "connector 0 pin A1"))
}

func TestSelectorStatsArePerRun(t *testing.T) {
	chain := MustChain(notFirstConnector(), catchAll())
	dataset := [][]*netspec.PinRecord{records("A1"), records("B1")}

	first := NewSelector(chain)
	second := NewSelector(chain)
	for i := 0; i < 3; i++ {
		_, err := first.Run(dataset)
		require.NoError(t, err)
	}
	_, err := second.Run(dataset[:1])
	require.NoError(t, err)

	assert.Equal(t, 2, first.Stats().Records)
	assert.Equal(t, 1, second.Stats().Records)
	assert.Equal(t, map[string]int{"default": 1}, second.Stats().Hits)
}

func TestSelectorLaterWriteWins(t *testing.T) {
	sameNode := Func[Input, Result]{
		Label: "same",
		Fn: func(in Input) (Result, error) {
			return Result{
				Node:  netspec.Node("JD0", "A1", "", ""),
				Props: netspec.NetProperties{Name: in.Record.SignalID},
			}, nil
		},
	}
	sel := NewSelector(MustChain[Input, Result](sameNode))
	spec, err := sel.Run([][]*netspec.PinRecord{records("A1"), records("B1")})
	require.NoError(t, err)

	p, _ := spec.Get(netspec.Node("JD0", "A1", "", ""))
	assert.Equal(t, "SIG_B1", p.Name)
	assert.Equal(t, 1, sel.Stats().Overwrites)
}

func TestSelectorRejectsMalformedNode(t *testing.T) {
	bad := Func[Input, Result]{
		Label: "bad",
		Fn: func(Input) (Result, error) {
			return Result{Node: netspec.Fields{"DCB_SLOT": "0"}}, nil
		},
	}
	_, err := NewSelector(MustChain[Input, Result](bad)).Run([][]*netspec.PinRecord{records("A1")})
	assert.True(t, errors.Is(err, netspec.ErrMalformedRecord))
}

func TestSelectorRejectsNilRecord(t *testing.T) {
	dataset := [][]*netspec.PinRecord{records("A1"), {nil}}
	sel := NewSelector(MustChain(notFirstConnector(), catchAll()))

	spec, err := sel.Run(dataset)
	assert.Nil(t, spec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, netspec.ErrMalformedRecord))
	assert.True(t, strings.Contains(err.Error(), "connector 1"))
}
