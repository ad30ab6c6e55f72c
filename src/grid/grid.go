package grid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

//ErrOutOfBounds is returned when a coordinate lies outside the grid
var ErrOutOfBounds = errors.New("coordinate out of bounds")

//Kind is the cell material
type Kind int

const (
	Water Kind = iota
	Solid
)

func (k Kind) String() string {
	switch k {
	case Water:
		return "water"
	case Solid:
		return "solid"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

//Cell is the atomic unit of the grid
//Fill is the fraction of the cell occupied by water, always 0 for solids
//Pressure is a display value, recomputed every tick
type Cell struct {
	Kind     Kind
	Fill     float64
	Pressure float64
	X        int
	Y        int
}

//IsWater reports whether the cell can hold fluid
func (c Cell) IsWater() bool {
	return c.Kind == Water
}

//Grid is a fixed size rows x columns field of cells, row-major (Cells[y][x])
//it is not safe for concurrent use, even the totals write the scratch buffer
type Grid struct {
	Rows    int
	Columns int
	Cells   [][]Cell

	//scratch for the water totals, reused between calls
	levels []float64
}

//New allocates the grid with all cells set to empty water
func New(rows int, columns int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if columns < 0 {
		columns = 0
	}
	g := &Grid{Rows: rows, Columns: columns, Cells: make([][]Cell, rows)}
	b := make([]Cell, rows*columns)
	for y := range g.Cells {
		start := columns * y
		g.Cells[y] = b[start : start+columns : start+columns]
		for x := range g.Cells[y] {
			g.Cells[y][x] = Cell{Kind: Water, X: x, Y: y}
		}
	}
	return g
}

//Dimensions returns rows and columns, constant for the grid's lifetime
func (g *Grid) Dimensions() (rows int, columns int) {
	return g.Rows, g.Columns
}

//InBounds reports whether x, y addresses a cell
func (g *Grid) InBounds(x int, y int) bool {
	return x >= 0 && y >= 0 && x < g.Columns && y < g.Rows
}

//Get returns a copy of the cell at x, y
func (g *Grid) Get(x int, y int) (Cell, error) {
	if !g.InBounds(x, y) {
		return Cell{}, g.outOfBounds(x, y)
	}
	return g.Cells[y][x], nil
}

//Set overwrites kind, fill and pressure of the cell at x, y
//the cell position is immutable and kept as is
//no invariants are enforced here, see the editor package
func (g *Grid) Set(x int, y int, c Cell) error {
	if !g.InBounds(x, y) {
		return g.outOfBounds(x, y)
	}
	c.X, c.Y = x, y
	g.Cells[y][x] = c
	return nil
}

//Walk calls cb for every cell, rows top to bottom, columns left to right
func (g *Grid) Walk(cb func(x int, y int, c Cell)) {
	for y := range g.Cells {
		for x := range g.Cells[y] {
			cb(x, y, g.Cells[y][x])
		}
	}
}

//Clone allocates a deep copy of the grid
func (g *Grid) Clone() *Grid {
	c := New(g.Rows, g.Columns)
	c.CopyFrom(g)
	return c
}

//CopyFrom copies all cells from src, both grids must have the same dimensions
func (g *Grid) CopyFrom(src *Grid) {
	for y := range g.Cells {
		copy(g.Cells[y], src.Cells[y])
	}
}

//Reset returns every cell to empty water with no pressure
func (g *Grid) Reset() {
	for y := range g.Cells {
		for x := range g.Cells[y] {
			g.Cells[y][x] = Cell{Kind: Water, X: x, Y: y}
		}
	}
}

//TotalWater sums fill levels over the whole grid
func (g *Grid) TotalWater() float64 {
	levels := g.scratch()
	for y := range g.Cells {
		for x := range g.Cells[y] {
			if c := &g.Cells[y][x]; c.IsWater() {
				levels = append(levels, c.Fill)
			}
		}
	}
	g.levels = levels
	return floats.Sum(levels)
}

//ColumnWater sums fill levels of column x
func (g *Grid) ColumnWater(x int) float64 {
	levels := g.scratch()
	for y := range g.Cells {
		if c := &g.Cells[y][x]; c.IsWater() {
			levels = append(levels, c.Fill)
		}
	}
	g.levels = levels
	return floats.Sum(levels)
}

func (g *Grid) scratch() []float64 {
	if cap(g.levels) < g.Rows*g.Columns {
		g.levels = make([]float64, 0, g.Rows*g.Columns)
	}
	return g.levels[:0]
}

//WaterCells counts the cells holding any water
func (g *Grid) WaterCells() int {
	n := 0
	g.Walk(func(_ int, _ int, c Cell) {
		if c.IsWater() && c.Fill > 0 {
			n++
		}
	})
	return n
}

func (g *Grid) outOfBounds(x int, y int) error {
	return fmt.Errorf("cell (%d, %d) on %dx%d grid: %w", x, y, g.Columns, g.Rows, ErrOutOfBounds)
}
