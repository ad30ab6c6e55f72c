package editor

import (
	"fmt"

	"liquidsim/src/grid"
)

//Placement selects where PaintWater puts the water
type Placement int

const (
	//PlaceDirect fills the target cell itself
	PlaceDirect Placement = iota
	//PlacePour fills the first non-full water cell found walking up from the target
	PlacePour
)

var placementNames = map[Placement]string{
	PlaceDirect: "direct",
	PlacePour:   "pour",
}

func (p Placement) String() string {
	if n, ok := placementNames[p]; ok {
		return n
	}
	return fmt.Sprintf("Placement(%d)", int(p))
}

//PlacementNames lists the accepted policy names
func PlacementNames() []string {
	return []string{PlaceDirect.String(), PlacePour.String()}
}

//ParsePlacement maps a policy name to Placement
func ParsePlacement(name string) (Placement, error) {
	for p, n := range placementNames {
		if n == name {
			return p, nil
		}
	}
	return PlaceDirect, fmt.Errorf("unknown placement policy %q", name)
}

//Editor is the single write path used by input handling
//it keeps solids dry and fill levels inside [0, 1]
type Editor struct {
	g         *grid.Grid
	placement Placement
}

func New(g *grid.Grid, placement Placement) *Editor {
	return &Editor{g: g, placement: placement}
}

//Placement returns the water placement policy of the editor
func (e *Editor) Placement() Placement {
	return e.placement
}

//PaintWater fills a cell with water, solids are left untouched
func (e *Editor) PaintWater(x int, y int) error {
	c, err := e.g.Get(x, y)
	if err != nil {
		return err
	}
	if c.Kind == grid.Solid {
		return nil
	}
	if e.placement == PlacePour {
		return e.pour(x, y)
	}
	return e.g.Set(x, y, grid.Cell{Kind: grid.Water, Fill: 1, Pressure: c.Pressure})
}

//PaintSolid turns a cell into a solid, evicting any water it held
func (e *Editor) PaintSolid(x int, y int) error {
	return e.g.Set(x, y, grid.Cell{Kind: grid.Solid})
}

//Erase returns a cell to empty water
func (e *Editor) Erase(x int, y int) error {
	return e.g.Set(x, y, grid.Cell{Kind: grid.Water})
}

//Clear empties the whole grid
func (e *Editor) Clear() {
	e.g.Reset()
}

//pour walks up from x, y to the first cell that is not full and fills it
//the walk stops at a solid or at the top row, a full stack is left as is
func (e *Editor) pour(x int, y int) error {
	for ; y >= 0; y-- {
		c := e.g.Cells[y][x]
		if c.Kind == grid.Solid {
			return nil
		}
		if c.Fill < 1 {
			return e.g.Set(x, y, grid.Cell{Kind: grid.Water, Fill: 1, Pressure: c.Pressure})
		}
	}
	return nil
}
