//Package window shows the simulation in a desktop window drawn with ebiten.
package window

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"liquidsim/src/editor"
	"liquidsim/src/grid"
	"liquidsim/src/monitoring"
	"liquidsim/src/palette"
	"liquidsim/src/simulation"
	"liquidsim/src/view"
)

const lineWidth = 1

//Window implements both simulation.Viewer and ebiten.Game
//Update and Draw run on the ebiten goroutine, the simulation is only reached through its API
type Window struct {
	s        simulation.Simulation
	palette  *palette.Palette
	cellSize int

	brush     *editor.Brush
	snap      simulation.Snapshot
	templates []string
	nextTmpl  int

	//Logf may be called from the simulation goroutine
	mu  sync.Mutex
	msg string
}

func New(p *palette.Palette, cellSize int) *Window {
	if cellSize <= 0 {
		cellSize = view.DefCellSize
	}
	return &Window{
		palette:  p,
		cellSize: cellSize,
		brush:    editor.NewBrush(),
	}
}

func (w *Window) Register(s simulation.Simulation) {
	w.s = s
	w.templates = s.Templates()
	w.snap = s.Snapshot()
}

//Refresh is a no-op, every frame reads a fresh snapshot
func (w *Window) Refresh() {}

func (w *Window) Start() error {
	o := w.s.Options()
	ebiten.SetWindowSize(o.Columns*w.cellSize, o.Rows*w.cellSize)
	ebiten.SetWindowTitle("Liquid simulation")
	prev := monitoring.SetLogger(w.logf)
	defer monitoring.SetLogger(prev)
	w.s.Run()
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (w *Window) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		w.brush.ToggleMaterial()
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace), inpututil.IsKeyJustPressed(ebiten.KeyD):
		w.brush.ToggleErase()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		w.s.Clear()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		w.s.Step()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		w.s.Run()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		w.s.Stop()
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		w.s.SettleWithRandomData()
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		w.settleNextTemplate()
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		px, py := ebiten.CursorPosition()
		o := w.s.Options()
		if x, y, ok := view.CellAt(px, py, w.cellSize, o.Rows, o.Columns); ok {
			if err := w.s.Paint(w.brush, x, y); err != nil {
				monitoring.Logf("paint: %v", err)
			}
		}
	}

	w.snap = w.s.Snapshot()
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(palette.Background)
	g := w.snap.Grid
	if g == nil {
		return
	}
	rng := w.snap.Pressure
	g.Walk(func(x int, y int, c grid.Cell) {
		switch {
		case c.Kind == grid.Solid:
			r := view.CellRect(x, y, w.cellSize)
			vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), palette.SolidColor, false)
		case c.Fill > 0:
			r := view.WaterRect(c, w.cellSize)
			vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), w.palette.Color(c.Pressure, rng), false)
		}
	})

	width, height := float32(g.Columns*w.cellSize), float32(g.Rows*w.cellSize)
	for x := 0; x <= g.Columns; x++ {
		vector.DrawFilledRect(screen, float32(x*w.cellSize), 0, lineWidth, height, palette.GridLine, false)
	}
	for y := 0; y <= g.Rows; y++ {
		vector.DrawFilledRect(screen, 0, float32(y*w.cellSize), width, lineWidth, palette.GridLine, false)
	}

	st := w.s.Status()
	w.mu.Lock()
	msg := w.msg
	w.mu.Unlock()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%v #%d water %.2f brush %v\n%s",
		st.RunningMode, st.IterationNum, st.TotalWater, w.brush, msg))
}

func (w *Window) Layout(_ int, _ int) (int, int) {
	o := w.s.Options()
	return o.Columns * w.cellSize, o.Rows * w.cellSize
}

func (w *Window) logf(format string, v ...interface{}) {
	w.mu.Lock()
	w.msg = fmt.Sprintf(format, v...)
	w.mu.Unlock()
}

func (w *Window) settleNextTemplate() {
	if len(w.templates) == 0 {
		return
	}
	name := w.templates[w.nextTmpl%len(w.templates)]
	w.nextTmpl++
	if err := w.s.SettleTemplate(name); err != nil {
		monitoring.Logf("template %s: %v", name, err)
		return
	}
	monitoring.Logf("settled template %s", name)
}
