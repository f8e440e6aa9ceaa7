package netspec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericNodeSwapSymmetric(t *testing.T) {
	endpoints := []Endpoint{
		{"JD0", "A1"}, {"JD0", "A01"}, {"JD1", "B12"}, {"JD10", "A1"},
		{"JD2", "K40"}, {"JP0", "A1"}, {"JD00", "A1"},
	}
	for _, a := range endpoints {
		for _, b := range endpoints {
			n1 := GenericNode(a.Connector, a.Pin, b.Connector, b.Pin)
			n2 := GenericNode(b.Connector, b.Pin, a.Connector, a.Pin)
			assert.Equal(t, n1, n2, "%v / %v", a, b)

			m := map[NetNode]int{n1: 1}
			m[n2]++
			assert.Len(t, m, 1)
		}
	}
}

func TestNodeCanonical(t *testing.T) {
	n := Node("JD0", "A01", "JP1", "B02")
	assert.Equal(t, []Endpoint{{"JD0", "A1"}, {"JP1", "B2"}}, n.Endpoints())

	// Heterogeneous nodes keep their sides.
	assert.NotEqual(t, Node("JD0", "A1", "JP0", "A1"), Node("JP0", "A1", "JD0", "A1"))

	single := Node("", "", "JP0", "A1")
	assert.Equal(t, []Endpoint{{"JP0", "A1"}}, single.Endpoints())
	assert.Equal(t, "DCB: -, PT: JP0-A1", single.String())
}

func TestFieldsNetNode(t *testing.T) {
	n, err := Fields{FieldDCB: "JD0", FieldDCBPin: "A01", FieldPT: "JP0", FieldPTPin: "B1"}.NetNode()
	require.NoError(t, err)
	assert.Equal(t, Node("JD0", "A1", "JP0", "B1"), n)

	g, err := Fields{FieldNode1: "JD1", FieldNode1Pin: "A1", FieldNode2: "JD0", FieldNode2Pin: "A1"}.NetNode()
	require.NoError(t, err)
	assert.Equal(t, GenericNode("JD0", "A1", "JD1", "A1"), g)

	bad := []Fields{
		{},
		{"NETNAME": "x"},
		{FieldDCB: "JD0", FieldNode1: "JD1"},
		{FieldNode1: "JD1", FieldNode1Pin: "A1"},
		{FieldDCBPin: "A1"},
	}
	for _, f := range bad {
		_, err := f.NetNode()
		assert.True(t, errors.Is(err, ErrMalformedRecord), "%v", f)
	}
}

func TestSortNodes(t *testing.T) {
	nodes := []NetNode{
		Node("JD10", "A1", "", ""),
		Node("JD2", "A10", "", ""),
		Node("JD2", "A2", "", ""),
		Node("", "", "JP0", "A1"),
	}
	SortNodes(nodes)
	assert.Equal(t, []NetNode{
		Node("", "", "JP0", "A1"),
		Node("JD2", "A2", "", ""),
		Node("JD2", "A10", "", ""),
		Node("JD10", "A1", "", ""),
	}, nodes)
}
