package pinfile

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/backplane"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
)

const ptTable = `
JP1:
- '1':
    Signal ID: LV_SOURCE_1
    SEAM pin: null
    DCB slot: null
    Note: Unused
    ref: 4
JP0:
- '1':
    Signal ID: EC_HYB_i2c_SCL
    SEAM pin: A01
    DCB slot: 00 / X-0
    Note: null
    ref: 1
- '2':
    Signal ID: EC_RESET_GPIO
    SEAM pin: A05|B07/B08
    DCB slot: 00|02
    Note: null
    ref: 2
- '3':
    Signal ID: EC_ADC_P
    SEAM pin: null
    DCB slot: 03
    Note: Alpha only
    ref: 3
`

func TestLoadPigtail(t *testing.T) {
	conns, err := Load(strings.NewReader(ptTable), PTSchema())
	require.NoError(t, err)
	require.Len(t, conns, 2)

	jp0 := conns[0]
	require.Len(t, jp0, 5)
	assert.Equal(t, &netspec.PinRecord{
		SignalID:    "EC_HYB_i2c_SCL",
		Pin:         "1",
		Counterpart: &netspec.Companion{Slot: "00 / X-0", Pin: "A1"},
		Ref:         "1",
	}, jp0[0])

	var got []netspec.Companion
	for _, r := range jp0[1:4] {
		assert.Equal(t, "2", r.Pin)
		got = append(got, *r.Counterpart)
	}
	assert.Equal(t, []netspec.Companion{
		{Slot: "00", Pin: "A5"},
		{Slot: "02", Pin: "B7"},
		{Slot: "02", Pin: "B8"},
	}, got)

	assert.Equal(t, &netspec.Companion{Slot: "03"}, jp0[4].Counterpart)
	assert.True(t, jp0[4].HasCounterpartSlot())
	assert.False(t, jp0[4].HasCounterpart())
	assert.Equal(t, netspec.NoteAlphaOnly, jp0[4].Note)

	jp1 := conns[1]
	require.Len(t, jp1, 1)
	assert.Nil(t, jp1[0].Counterpart)
	assert.True(t, jp1[0].Unused())
}

func TestLoadDCBPeers(t *testing.T) {
	table := `
JD2:
- A01:
    Signal ID: SIG
    Pigtail pin: null
    Pigtail slot: null
    SEAM pin D: A01
    SEAM slot: "00"
`
	conns, err := Load(strings.NewReader(table), DCBSchema())
	require.NoError(t, err)
	require.Len(t, conns, 3)
	assert.Empty(t, conns[0])
	assert.Empty(t, conns[1])

	rec := conns[2][0]
	assert.Equal(t, "A1", rec.Pin)
	assert.Nil(t, rec.Counterpart)
	assert.True(t, rec.HasPeer())
	assert.Equal(t, &netspec.Companion{Slot: "00", Pin: "A1"}, rec.Peer)
}

func TestLoadRejectsMalformed(t *testing.T) {
	for name, table := range map[string]string{
		"prefix":   "JD0:\n- '1': {Signal ID: X}\n",
		"not list": "JP0: {a: b}\n",
		"groups":   "JP0:\n- '1': {SEAM pin: A01|A02|A03, DCB slot: 00|01}\n",
		"no slot":  "JP0:\n- '1': {SEAM pin: A01|A02}\n",
		"bad slot": "JP0:\n- '1': {SEAM pin: A01|A02, DCB slot: XA|01}\n",
		"twice":    "JP0: []\nJP00: []\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(table), PTSchema())
			require.Error(t, err)
			assert.True(t, errors.Is(err, netspec.ErrMalformedRecord), err)
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	conns, err := Load(strings.NewReader(""), PTSchema())
	require.NoError(t, err)
	assert.Empty(t, conns)
}

func TestLoadNames(t *testing.T) {
	table := `
JPL0:
- '1':
    Signal ID: JPL0_LV_SOURCE_1
- '2':
    Signal ID: GND
- '3':
    Signal ID: null
JPU1:
- '1':
    Signal ID: JPU1_THERMISTOR_3
`
	names, err := LoadNames(strings.NewReader(table))
	require.NoError(t, err)
	assert.Equal(t, backplane.NameTable{"JPL0_LV_SOURCE_1", "JPU1_THERMISTOR_3"}, names)
}
