package simulation

import (
	"liquidsim/src/editor"
	"liquidsim/src/grid"
	"liquidsim/src/pressure"
)

type Simulation interface {
	Status() Status
	Options() Options
	Snapshot() Snapshot
	StateCh() chan Status
	AddTemplate(tmpl Template)
	SettleTemplate(name string) error
	SettleWithRandomData()
	Templates() []string
	PaintWater(x int, y int) error
	PaintSolid(x int, y int) error
	Erase(x int, y int) error
	Paint(b *editor.Brush, x int, y int) error
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}

//Snapshot is a copy of the grid taken between ticks, with the pressure range of that grid
type Snapshot struct {
	Grid     *grid.Grid
	Pressure pressure.Range
}
