package editor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidsim/src/grid"
)

//grids keep a scratch buffer for the water totals
var ignoreScratch = cmpopts.IgnoreUnexported(grid.Grid{})

func cell(t *testing.T, g *grid.Grid, x int, y int) grid.Cell {
	t.Helper()
	c, err := g.Get(x, y)
	require.NoError(t, err)
	return c
}

func TestPaintSolidEvictsWater(t *testing.T) {
	g := grid.New(3, 3)
	e := New(g, PlaceDirect)
	require.NoError(t, e.PaintWater(1, 1))
	assert.Equal(t, 1.0, cell(t, g, 1, 1).Fill)

	require.NoError(t, e.PaintSolid(1, 1))
	c := cell(t, g, 1, 1)
	assert.Equal(t, grid.Solid, c.Kind)
	assert.Zero(t, c.Fill)
	assert.Zero(t, c.Pressure)
}

func TestPaintWaterSkipsSolid(t *testing.T) {
	g := grid.New(2, 2)
	e := New(g, PlaceDirect)
	require.NoError(t, e.PaintSolid(0, 0))
	require.NoError(t, e.PaintWater(0, 0))
	assert.Equal(t, grid.Cell{Kind: grid.Solid, X: 0, Y: 0}, cell(t, g, 0, 0))
}

func TestPaintIsIdempotent(t *testing.T) {
	g := grid.New(2, 2)
	e := New(g, PlaceDirect)
	require.NoError(t, e.PaintWater(1, 0))
	once := g.Clone()
	require.NoError(t, e.PaintWater(1, 0))
	if diff := cmp.Diff(once, g, ignoreScratch); diff != "" {
		t.Fatalf("second paint changed the grid (-want +got):\n%s", diff)
	}
}

func TestErase(t *testing.T) {
	g := grid.New(1, 2)
	e := New(g, PlaceDirect)
	require.NoError(t, e.PaintSolid(0, 0))
	require.NoError(t, e.PaintWater(1, 0))
	require.NoError(t, e.Erase(0, 0))
	require.NoError(t, e.Erase(1, 0))
	if diff := cmp.Diff(grid.New(1, 2), g, ignoreScratch); diff != "" {
		t.Fatalf("erased grid differs (-want +got):\n%s", diff)
	}
}

func TestClear(t *testing.T) {
	g := grid.New(3, 4)
	e := New(g, PlacePour)
	require.NoError(t, e.PaintSolid(0, 2))
	require.NoError(t, e.PaintWater(3, 2))
	g.Cells[2][3].Pressure = 1
	e.Clear()
	if diff := cmp.Diff(grid.New(3, 4), g, ignoreScratch); diff != "" {
		t.Fatalf("cleared grid differs (-want +got):\n%s", diff)
	}
}

func TestOutOfBounds(t *testing.T) {
	e := New(grid.New(2, 2), PlaceDirect)
	assert.ErrorIs(t, e.PaintWater(2, 0), grid.ErrOutOfBounds)
	assert.ErrorIs(t, e.PaintSolid(0, -1), grid.ErrOutOfBounds)
	assert.ErrorIs(t, e.Erase(5, 5), grid.ErrOutOfBounds)
}

func TestPourFillsFromTheBottomOfTheStack(t *testing.T) {
	g := grid.New(4, 1)
	e := New(g, PlacePour)
	require.NoError(t, e.PaintWater(0, 3))
	require.NoError(t, e.PaintWater(0, 3))
	require.NoError(t, e.PaintWater(0, 3))

	want := []float64{0, 1, 1, 1}
	for y, f := range want {
		assert.Equal(t, f, cell(t, g, 0, y).Fill, "row %d", y)
	}
}

func TestPourStopsAtSolid(t *testing.T) {
	g := grid.New(3, 1)
	e := New(g, PlacePour)
	require.NoError(t, e.PaintSolid(0, 1))
	require.NoError(t, e.PaintWater(0, 2))
	require.NoError(t, e.PaintWater(0, 2))
	assert.Equal(t, 1.0, cell(t, g, 0, 2).Fill)
	assert.Zero(t, cell(t, g, 0, 0).Fill, "water must not jump over the solid")
}

func TestPourFillsPartialCell(t *testing.T) {
	g := grid.New(2, 1)
	require.NoError(t, g.Set(0, 1, grid.Cell{Kind: grid.Water, Fill: 0.4}))
	e := New(g, PlacePour)
	require.NoError(t, e.PaintWater(0, 1))
	assert.Equal(t, 1.0, cell(t, g, 0, 1).Fill)
	assert.Zero(t, cell(t, g, 0, 0).Fill)
}

func TestParsePlacement(t *testing.T) {
	for _, name := range PlacementNames() {
		p, err := ParsePlacement(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.String())
	}
	_, err := ParsePlacement("spray")
	assert.Error(t, err)
}

func TestBrush(t *testing.T) {
	g := grid.New(1, 3)
	e := New(g, PlaceDirect)
	b := NewBrush()
	assert.Equal(t, "solid", b.String())

	require.NoError(t, b.Apply(e, 0, 0))
	assert.Equal(t, grid.Solid, cell(t, g, 0, 0).Kind)

	b.ToggleMaterial()
	assert.Equal(t, "water", b.String())
	require.NoError(t, b.Apply(e, 1, 0))
	assert.Equal(t, 1.0, cell(t, g, 1, 0).Fill)

	b.ToggleErase()
	assert.Equal(t, "erase", b.String())
	require.NoError(t, b.Apply(e, 0, 0))
	require.NoError(t, b.Apply(e, 1, 0))
	assert.Equal(t, grid.Water, cell(t, g, 0, 0).Kind)
	assert.Zero(t, cell(t, g, 1, 0).Fill)

	b.ToggleErase()
	b.ToggleMaterial()
	assert.Equal(t, "solid", b.String())
	assert.ErrorIs(t, b.Apply(e, 3, 0), grid.ErrOutOfBounds)
}
