package pressure

import "liquidsim/src/grid"

//Range is the display pressure range of one tick, Min is always 0
type Range struct {
	Min float64
	Max float64
}

//Normalize projects p into [0, 1], a zero range maps everything to 0
func (r Range) Normalize(p float64) float64 {
	spread := r.Max - r.Min
	if spread <= 0 {
		return 0
	}
	n := (p - r.Min) / spread
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

//Model computes hydrostatic display pressure per column
//pressure of a water cell is the water held by the unbroken run of water cells above it, itself included
type Model struct {
	rng Range
}

//Recompute writes Pressure for every cell of g and returns the new range
func (m *Model) Recompute(g *grid.Grid) Range {
	m.rng = Range{}
	for x := 0; x < g.Columns; x++ {
		cumulative := 0.0
		for y := 0; y < g.Rows; y++ {
			c := &g.Cells[y][x]
			if c.Kind == grid.Solid {
				//solids break the column
				cumulative = 0
				c.Pressure = 0
				continue
			}
			cumulative += c.Fill
			c.Pressure = cumulative
			if cumulative > m.rng.Max {
				m.rng.Max = cumulative
			}
		}
	}
	return m.rng
}

//Range returns the range of the latest Recompute
func (m *Model) Range() Range {
	return m.rng
}

//Reset forgets the latest range
func (m *Model) Reset() {
	m.rng = Range{}
}
