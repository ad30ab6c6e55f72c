/*
	Package flow advances the water grid by one discrete tick.

	A tick works on a shadow copy of the grid in four ordered phases:
	vertical transfer, horizontal transfer, commit, pressure recompute.
	Both transfer phases read and write the shadow buffer while sweeping rows top to bottom
	and columns left to right, so water moved earlier in a sweep is moved again by later cells
	of the same sweep (a falling column can cascade several cells in one tick).
*/
package flow

import (
	"math"

	"liquidsim/src/grid"
	"liquidsim/src/pressure"
)

//Stepper applies ticks, the shadow buffer is reused between calls
type Stepper struct {
	shadow *grid.Grid
	model  pressure.Model
}

func NewStepper() *Stepper {
	return &Stepper{}
}

//Step runs one tick on g
//changed reports whether any fill level moved, rng is the display pressure range of the committed grid
func (s *Stepper) Step(g *grid.Grid) (changed bool, rng pressure.Range) {
	if s.shadow == nil || s.shadow.Rows != g.Rows || s.shadow.Columns != g.Columns {
		s.shadow = grid.New(g.Rows, g.Columns)
	}
	s.shadow.CopyFrom(g)

	Vertical(s.shadow)
	Horizontal(s.shadow)

	changed = fillChanged(g, s.shadow)
	g.CopyFrom(s.shadow)

	rng = s.model.Recompute(g)
	return
}

//Pressure returns the pressure range of the latest tick
func (s *Stepper) Pressure() pressure.Range {
	return s.model.Range()
}

//Recompute refreshes display pressure without moving water (used after edits)
func (s *Stepper) Recompute(g *grid.Grid) pressure.Range {
	return s.model.Recompute(g)
}

//Step runs a single tick with a throwaway stepper
func Step(g *grid.Grid) (changed bool, rng pressure.Range) {
	return NewStepper().Step(g)
}

//Vertical moves water downward in place
//every water cell with water drops as much as the water cell below can take
func Vertical(g *grid.Grid) {
	for y := 0; y < g.Rows-1; y++ {
		for x := 0; x < g.Columns; x++ {
			src := &g.Cells[y][x]
			if !src.IsWater() || src.Fill <= 0 {
				continue
			}
			below := &g.Cells[y+1][x]
			if !below.IsWater() || below.Fill >= 1 {
				continue
			}
			transfer(src, below, math.Min(src.Fill, 1-below.Fill))
		}
	}
}

//Horizontal equalizes water between side neighbours in place
//the left neighbour is handled before the right one for the same source cell
func Horizontal(g *grid.Grid) {
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Columns; x++ {
			src := &g.Cells[y][x]
			if !src.IsWater() || src.Fill <= 0 {
				continue
			}
			if x > 0 {
				equalize(src, &g.Cells[y][x-1])
			}
			if x < g.Columns-1 {
				equalize(src, &g.Cells[y][x+1])
			}
		}
	}
}

//equalize moves half the fill difference from src to a lower neighbour
//the amount is clamped to what src holds, then to the neighbour's free capacity
func equalize(src *grid.Cell, nb *grid.Cell) {
	if !nb.IsWater() {
		return
	}
	diff := src.Fill - nb.Fill
	if diff <= 0 {
		return
	}
	amount := math.Max(0, math.Min(diff/2, src.Fill))
	amount = math.Min(amount, 1-nb.Fill)
	transfer(src, nb, amount)
}

func transfer(src *grid.Cell, dst *grid.Cell, amount float64) {
	if amount <= 0 {
		return
	}
	src.Fill = math.Max(src.Fill-amount, 0)
	dst.Fill = math.Min(dst.Fill+amount, 1)
}

func fillChanged(a *grid.Grid, b *grid.Grid) bool {
	for y := range a.Cells {
		for x := range a.Cells[y] {
			if a.Cells[y][x].Fill != b.Cells[y][x].Fill {
				return true
			}
		}
	}
	return false
}
