package regions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGraphLinksEdgesByKind(t *testing.T) {
	constraints := []Constraint{
		{Kind: VarSubVar, A: 0, B: 1},
		{Kind: RegSubVar, R: OfScope(1), B: 1},
		{Kind: VarSubReg, A: 0, R: OfScope(2)},
		{Kind: RegSubReg, Sub: OfScope(1), Sup: OfScope(2)},
	}
	g := BuildGraph([]Origin{"v0", "v1"}, constraints)

	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 4)

	var outgoingFrom0 []uint32
	g.EachEdge(0, Outgoing, func(idx uint32, e *Edge) { outgoingFrom0 = append(outgoingFrom0, idx) })
	assert.ElementsMatch(t, []uint32{0, 2}, outgoingFrom0)

	var incomingTo1 []uint32
	g.EachEdge(1, Incoming, func(idx uint32, e *Edge) { incomingTo1 = append(incomingTo1, idx) })
	assert.ElementsMatch(t, []uint32{0, 1}, incomingTo1)

	var outgoingFrom1 []uint32
	g.EachEdge(1, Outgoing, func(idx uint32, e *Edge) { outgoingFrom1 = append(outgoingFrom1, idx) })
	assert.Empty(t, outgoingFrom1, "RegSubReg has no variable endpoint to link")
}

func TestNodePredicates(t *testing.T) {
	n := Node{state: noValue}
	assert.True(t, n.Unresolved())
	assert.False(t, n.HasValue())
	assert.False(t, n.HasError())

	n.state = hasValue
	assert.True(t, n.HasValue())

	n.state = errorValue
	assert.True(t, n.HasError())
}
