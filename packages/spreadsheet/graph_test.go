package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func addr(name string) CellAddress {
	a, ok := ParseCellName(name)
	if !ok {
		panic("bad cell name " + name)
	}
	return a
}

func addrs(names ...string) []CellAddress {
	result := make([]CellAddress, 0, len(names))
	for _, name := range names {
		result = append(result, addr(name))
	}
	return result
}

func TestDependencyGraphEdges(t *testing.T) {
	dg := NewDependencyGraph()
	dg.AddCellDependency(addr("B1"), addr("A1"))
	dg.AddCellDependency(addr("C1"), addr("A1"))
	dg.AddCellDependency(addr("C1"), addr("B1"))

	assert.Equal(t, addrs("B1", "C1"), dg.GetDirectDependents(addr("A1")))
	assert.Equal(t, addrs("A1", "B1"), dg.GetDirectPrecedents(addr("C1")))
	assert.Equal(t, 3, dg.EdgeCount())
	assert.Equal(t, 3, dg.NodeCount())

	assert.True(t, dg.RemoveCellDependency(addr("C1"), addr("A1")))
	assert.False(t, dg.RemoveCellDependency(addr("C1"), addr("A1")))
	assert.Equal(t, addrs("B1"), dg.GetDirectDependents(addr("A1")))

	dg.ClearDependencies(addr("C1"))
	_, exists := dg.GetNode(addr("C1"))
	assert.False(t, exists)
	assert.Equal(t, 2, dg.NodeCount())

	dg.Clear()
	assert.Equal(t, 0, dg.NodeCount())
	assert.Nil(t, dg.GetDirectDependents(addr("A1")))
}

func TestDependencyGraphSetDependencies(t *testing.T) {
	dg := NewDependencyGraph()
	dg.SetDependencies(addr("C1"), addrs("A1", "B1", "A1"))
	assert.Equal(t, addrs("A1", "B1"), dg.GetDirectPrecedents(addr("C1")))
	assert.Equal(t, 2, dg.EdgeCount())

	dg.SetDependencies(addr("C1"), addrs("B1", "D4"))
	assert.Equal(t, addrs("B1", "D4"), dg.GetDirectPrecedents(addr("C1")))
	assert.Empty(t, dg.GetDirectDependents(addr("A1")))
	_, exists := dg.GetNode(addr("A1"))
	assert.False(t, exists)

	dg.SetDependencies(addr("C1"), nil)
	assert.Equal(t, 0, dg.NodeCount())
}

func TestDependencyGraphCycles(t *testing.T) {
	dg := NewDependencyGraph()
	// A1 <- B1 <- C1 <- D1
	dg.AddCellDependency(addr("B1"), addr("A1"))
	dg.AddCellDependency(addr("C1"), addr("B1"))
	dg.AddCellDependency(addr("D1"), addr("C1"))

	assert.True(t, dg.WouldCreateCycle(addr("A1"), addr("A1")))
	assert.True(t, dg.WouldCreateCycle(addr("A1"), addr("B1")))
	assert.True(t, dg.WouldCreateCycle(addr("A1"), addr("D1")))
	assert.False(t, dg.WouldCreateCycle(addr("D1"), addr("A1")))
	assert.False(t, dg.WouldCreateCycle(addr("A1"), addr("E5")))
	assert.False(t, dg.HasCycle())

	assert.Equal(t, addrs("B1", "C1", "D1"), dg.GetAllDependents(addr("A1")))

	// forced loop, never produced by the grid
	dg.AddCellDependency(addr("A1"), addr("D1"))
	assert.True(t, dg.HasCycle())
}
