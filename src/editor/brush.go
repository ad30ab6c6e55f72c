package editor

import "liquidsim/src/grid"

//Brush is the pointer paint mode: the material to paint and whether erasing overrides it
type Brush struct {
	Material grid.Kind
	Erasing  bool
}

//NewBrush starts with solids selected
func NewBrush() *Brush {
	return &Brush{Material: grid.Solid}
}

//ToggleMaterial switches between painting water and solids
func (b *Brush) ToggleMaterial() {
	if b.Material == grid.Water {
		b.Material = grid.Solid
	} else {
		b.Material = grid.Water
	}
}

//ToggleErase switches the erase mode on or off
func (b *Brush) ToggleErase() {
	b.Erasing = !b.Erasing
}

//Apply paints the cell at x, y according to the current mode
func (b *Brush) Apply(e *Editor, x int, y int) error {
	switch {
	case b.Erasing:
		return e.Erase(x, y)
	case b.Material == grid.Water:
		return e.PaintWater(x, y)
	default:
		return e.PaintSolid(x, y)
	}
}

func (b Brush) String() string {
	if b.Erasing {
		return "erase"
	}
	return b.Material.String()
}
