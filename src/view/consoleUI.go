package view

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"liquidsim/src/editor"
	"liquidsim/src/grid"
	"liquidsim/src/monitoring"
	"liquidsim/src/palette"
	"liquidsim/src/pressure"
	"liquidsim/src/simulation"
)

const tankView = "tank"

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal view: one character per cell, mouse painting
type ConsoleUI struct {
	s simulation.Simulation
	g *gocui.Gui
	k []keyBindings

	brush     *editor.Brush
	palette   *palette.Palette
	templates []string
	nextTmpl  int

	//brush and message are touched by key handlers and by simulation refreshes
	mu  sync.Mutex
	msg string

	solidFiller string
	emptyFiller string
}

var (
	runningStateDescr = map[simulation.RunningState]string{
		simulation.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		simulation.RunningStateStep:     "do the step",
		simulation.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		simulation.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}

	//fill level glyphs, index 0 is unused (empty cells use emptyFiller)
	fillGlyphs = []rune(" ▁▂▃▄▅▆▇█")
)

//NewConsoleUI creates the terminal UI, the terminal is taken over until Start returns
func NewConsoleUI(p *palette.Palette) (*ConsoleUI, error) {
	var err error
	t := ConsoleUI{
		brush:       editor.NewBrush(),
		palette:     p,
		solidFiller: aurora.White("█").BgWhite().String(),
		emptyFiller: aurora.BrightBlack("·").String(),
	}

	t.g, err = gocui.NewGui(gocui.Output256)
	if err != nil {
		return nil, fmt.Errorf("terminal UI: %w", err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Random", t.cmdSettleWithRandom, ""},
		{'t', "T", "Next template", t.cmdNextTemplate, ""},
		{gocui.KeySpace, "SPACE", "Water/solid", t.cmdToggleMaterial, ""},
		{'d', "D", "Erase mode", t.cmdToggleErase, ""},
		{gocui.KeyBackspace2, "BKSP", "Erase mode", t.cmdToggleErase, ""},
		{gocui.MouseLeft, "MOUSE", "Paint the cell", t.cmdMouseClick, tankView},
	}
	t.g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}
	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return fmt.Errorf("key binding %s: %w", kb.name, err)
		}
	}
	return nil
}

func (t *ConsoleUI) Register(s simulation.Simulation) {
	t.s = s
	t.templates = s.Templates()
}

//Start runs the UI main loop until the user quits
//diagnostics are shown in the status panel while the UI owns the terminal
func (t *ConsoleUI) Start() error {
	prev := monitoring.SetLogger(t.logf)
	defer monitoring.SetLogger(prev)
	defer t.g.Close()

	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (t *ConsoleUI) Refresh() {
	t.renderField(t.s.Snapshot())
	t.renderConfiguration()
	t.renderStatus()
}

func (t *ConsoleUI) logf(format string, v ...interface{}) {
	t.mu.Lock()
	t.msg = fmt.Sprintf(format, v...)
	t.mu.Unlock()
	t.renderStatus()
}

//current returns a copy of the brush and the latest message
func (t *ConsoleUI) current() (editor.Brush, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.brush, t.msg
}

//cellString renders one cell: solids as full blocks, water as a level glyph colored by pressure
func (t *ConsoleUI) cellString(c grid.Cell, rng pressure.Range) string {
	if c.Kind == grid.Solid {
		return t.solidFiller
	}
	if c.Fill <= 0 {
		return t.emptyFiller
	}
	level := int(c.Fill*float64(len(fillGlyphs)-1) + 0.5)
	if level < 1 {
		level = 1
	}
	if level > len(fillGlyphs)-1 {
		level = len(fillGlyphs) - 1
	}
	return aurora.Index(t.palette.XTerm(c.Pressure, rng), string(fillGlyphs[level])).String()
}

func (t *ConsoleUI) renderField(snap simulation.Snapshot) {

	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View(tankView)
		if e != nil {
			//not laid out yet
			return nil
		}
		//the entire field is redrawing at once
		v.Clear()

		a := snap.Grid
		crop := false
		maxW, maxH := v.Size()
		if a.Columns > maxW || a.Rows > maxH {
			crop = true
		}

		var b bytes.Buffer

		for i, l := range a.Cells {
			//discard the data outside the view area
			if i >= maxH {
				break
			}
			//line feed char
			if i != 0 {
				b.WriteByte(10)
			}
			if crop && i == (maxH-1) {
				b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
				break
			}
			for j, c := range l {
				if j >= maxW {
					break
				}
				b.WriteString(t.cellString(c, snap.Pressure))
			}
		}
		_, _ = fmt.Fprint(v, b.String())
		return nil
	})
}

func (t *ConsoleUI) renderStatus() {
	if t.s == nil {
		return
	}
	s := t.s.Status()
	brush, msg := t.current()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Step", "%v", s.IterationNum))
			_, _ = fmt.Fprintln(v, t.renderProp("Water", "%.2f cells", s.TotalWater))
			_, _ = fmt.Fprintln(v, t.renderProp("Wet cells", "%v", s.WaterCells))
			_, _ = fmt.Fprintln(v, t.renderProp("Max pressure", "%.2f", s.Pressure.Max))
			_, _ = fmt.Fprintln(v, t.renderProp("Settled", "%v", s.Settled))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
			_, _ = fmt.Fprintln(v, t.renderProp("Brush", "%v", brush))
			if msg != "" {
				_, _ = fmt.Fprintln(v, " "+aurora.Yellow(msg).String())
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		c := t.s.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Columns, c.Rows))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v", maxStepsDescr(c.MaxSteps)))
			names := make([]string, 0, len(c.Advanced))
			for k := range c.Advanced {
				names = append(names, k)
			}
			sort.Strings(names)
			for _, k := range names {
				_, _ = fmt.Fprintln(v, t.renderProp(k, "%v", c.Advanced[k]))
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 30
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView(tankView)
		return nil
	}
	if _, err := t.headerLayout(g, 3, "Liquid simulation"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	if v, err := g.SetView(tankView, leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Tank"
		v.Frame = true
		t.renderField(t.s.Snapshot())
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-1); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.s.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.s.Run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.s.Stop()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.s.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.s.SettleWithRandomData()
	return nil
}

func (t *ConsoleUI) cmdNextTemplate(_ *gocui.View) error {
	if len(t.templates) == 0 {
		return nil
	}
	name := t.templates[t.nextTmpl%len(t.templates)]
	t.nextTmpl++
	if err := t.s.SettleTemplate(name); err != nil {
		monitoring.Logf("template %s: %v", name, err)
		return nil
	}
	monitoring.Logf("settled template %s", name)
	return nil
}

func (t *ConsoleUI) cmdToggleMaterial(_ *gocui.View) error {
	t.mu.Lock()
	t.brush.ToggleMaterial()
	t.mu.Unlock()
	t.renderStatus()
	return nil
}

func (t *ConsoleUI) cmdToggleErase(_ *gocui.View) error {
	t.mu.Lock()
	t.brush.ToggleErase()
	t.mu.Unlock()
	t.renderStatus()
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	ox, oy := v.Origin()
	brush, _ := t.current()
	if err := t.s.Paint(&brush, cx+ox, cy+oy); err != nil {
		//clicks on the crop notice or past the grid edge
		monitoring.Logf("paint: %v", err)
	}
	return nil
}

func maxStepsDescr(n int) string {
	if n == 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%v steps", n)
}
