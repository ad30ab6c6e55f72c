package flow

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidsim/src/grid"
)

const delta = 1e-9

//build creates a grid from rows of fill levels, a negative value marks a solid cell
func build(rows [][]float64) *grid.Grid {
	g := grid.New(len(rows), len(rows[0]))
	for y, row := range rows {
		for x, f := range row {
			if f < 0 {
				_ = g.Set(x, y, grid.Cell{Kind: grid.Solid})
				continue
			}
			_ = g.Set(x, y, grid.Cell{Kind: grid.Water, Fill: f})
		}
	}
	return g
}

func fills(g *grid.Grid) [][]float64 {
	out := make([][]float64, g.Rows)
	for y := range g.Cells {
		out[y] = make([]float64, g.Columns)
		for x, c := range g.Cells[y] {
			out[y][x] = c.Fill
		}
	}
	return out
}

func randomGrid(r *rand.Rand, rows int, columns int, solidRatio float64) *grid.Grid {
	g := grid.New(rows, columns)
	for y := 0; y < rows; y++ {
		for x := 0; x < columns; x++ {
			if r.Float64() < solidRatio {
				_ = g.Set(x, y, grid.Cell{Kind: grid.Solid})
				continue
			}
			f := r.Float64()
			switch r.Intn(4) {
			case 0:
				f = 0
			case 1:
				f = 1
			}
			_ = g.Set(x, y, grid.Cell{Kind: grid.Water, Fill: f})
		}
	}
	return g
}

func TestColumnCascadesInOneTick(t *testing.T) {
	g := build([][]float64{{1}, {0}, {0}})
	changed, rng := Step(g)
	require.True(t, changed)

	//water falling into the middle cell is moved again when the middle row is swept
	assert.Equal(t, [][]float64{{0}, {0}, {1}}, fills(g))
	assert.Equal(t, 1.0, rng.Max)
}

func TestVerticalPartialFill(t *testing.T) {
	g := build([][]float64{{0.75}, {0.5}, {-1}})
	Vertical(g)
	assert.InDelta(t, 0.25, g.Cells[0][0].Fill, delta)
	assert.InDelta(t, 1.0, g.Cells[1][0].Fill, delta)
	assert.Equal(t, grid.Solid, g.Cells[2][0].Kind)
	assert.Zero(t, g.Cells[2][0].Fill)
}

func TestSideBySideHalvesDifference(t *testing.T) {
	g := build([][]float64{
		{1, 0},
		{-1, -1},
	})
	_, rng := Step(g)
	assert.InDelta(t, 0.5, g.Cells[0][0].Fill, delta)
	assert.InDelta(t, 0.5, g.Cells[0][1].Fill, delta)
	assert.InDelta(t, 0.5, rng.Max, delta)
}

func TestHorizontalCascades(t *testing.T) {
	g := build([][]float64{
		{1, 0, 0, 0},
		{-1, -1, -1, -1},
	})
	Step(g)
	want := []float64{0.5, 0.25, 0.125, 0.125}
	for x, f := range want {
		assert.InDelta(t, f, g.Cells[0][x].Fill, delta, "column %d", x)
	}
}

func TestHorizontalLeftBeforeRight(t *testing.T) {
	g := build([][]float64{{0, 1, 0.5}})
	Horizontal(g)
	//left takes half of 1, the remaining 0.5 equals the right neighbour
	assert.InDelta(t, 0.5, g.Cells[0][0].Fill, delta)
	assert.InDelta(t, 0.5, g.Cells[0][1].Fill, delta)
	assert.InDelta(t, 0.5, g.Cells[0][2].Fill, delta)
}

func TestHorizontalBlockedBySolid(t *testing.T) {
	g := build([][]float64{{1, -1, 0}})
	Horizontal(g)
	assert.Equal(t, [][]float64{{1, 0, 0}}, fills(g))
}

func TestCapacityClampPreventsOverflow(t *testing.T) {
	//an out of range source must not push its neighbour above full
	g := build([][]float64{{1.8, 0.5}})
	Horizontal(g)
	assert.Equal(t, 1.0, g.Cells[0][1].Fill)
	assert.InDelta(t, 1.3, g.Cells[0][0].Fill, delta)
}

func TestVerticalConservesColumns(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		g := randomGrid(r, 12, 9, 0.2)
		before := make([]float64, g.Columns)
		for x := range before {
			before[x] = g.ColumnWater(x)
		}
		Vertical(g)
		for x := range before {
			assert.InDelta(t, before[x], g.ColumnWater(x), delta, "grid %d column %d", i, x)
		}
	}
}

func TestStepInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	s := NewStepper()
	for i := 0; i < 20; i++ {
		g := randomGrid(r, 15, 20, 0.25)
		total := g.TotalWater()
		for tick := 0; tick < 100; tick++ {
			s.Step(g)
			g.Walk(func(x int, y int, c grid.Cell) {
				if c.Kind == grid.Solid {
					require.Zero(t, c.Fill, "solid (%d, %d) holds water", x, y)
					return
				}
				require.GreaterOrEqual(t, c.Fill, 0.0, "cell (%d, %d) tick %d", x, y, tick)
				require.LessOrEqual(t, c.Fill, 1.0, "cell (%d, %d) tick %d", x, y, tick)
			})
		}
		assert.InDelta(t, total, g.TotalWater(), 1e-6, "grid %d lost or gained water", i)
	}
}

func TestEquilibriumIsStable(t *testing.T) {
	g := build([][]float64{
		{0, 0, 0, -1, 0},
		{0.6, 0.6, 0.6, -1, 1},
		{1, 1, 1, -1, 1},
		{-1, -1, -1, -1, -1},
	})
	before := fills(g)
	changed, _ := Step(g)
	assert.False(t, changed)
	if diff := cmp.Diff(before, fills(g)); diff != "" {
		t.Fatalf("equilibrium moved (-want +got):\n%s", diff)
	}
}

func TestStepperReusesShadowAcrossSizes(t *testing.T) {
	s := NewStepper()
	small := build([][]float64{{1}, {0}})
	s.Step(small)
	assert.Equal(t, [][]float64{{0}, {1}}, fills(small))

	big := build([][]float64{{1, 0}, {-1, -1}})
	s.Step(big)
	assert.InDelta(t, 0.5, big.Cells[0][1].Fill, delta)
	assert.InDelta(t, 0.5, s.Pressure().Max, delta)
}

func BenchmarkStep(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	g := randomGrid(r, 30, 45, 0.1)
	s := NewStepper()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step(g)
	}
}
