package simulation

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"liquidsim/src/editor"
	"liquidsim/src/flow"
	"liquidsim/src/grid"
	"liquidsim/src/monitoring"
	"liquidsim/src/pressure"
)

//ErrUnknownTemplate is returned by SettleTemplate for names never added
var ErrUnknownTemplate = errors.New("unknown template")

//Options represents the simulation's configurable options
type Options struct {
	Rows            int
	Columns         int
	Interval        time.Duration
	MaxSteps        int //0 means no limit
	MaxSkippedTicks int
	StopWhenSettled bool //finish the run on the first tick that moves no water
	Placement       editor.Placement
	Advanced        map[string]interface{} //advanced options, shown in the configuration panels
}

//Status represents the status of the simulation at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	TotalWater    float64
	WaterCells    int
	Pressure      pressure.Range
	Settled       bool
	IterationTime time.Duration
	Details       map[string]interface{}
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(s Simulation)
	Start() error
}

//Template represents a seeding scenario, coordinates are [x, y] pairs
type Template struct {
	Name   string
	Descr  string
	Solids [][]int
	Water  [][]int
}

//The simulation running status at the concrete moment
type RunningState int

//default options, the grid matches a 900x600 window of 20px cells
const (
	DefSimulationInterval = time.Millisecond * 50
	DefMaxSteps           = 0
	DefRows               = 30
	DefColumns            = 45
	DefMaxSkippedTicks    = 5
)

const (
	RunningStateManual RunningState = iota
	RunningStateStep
	RunningStateRun
	RunningStateFinished
)

var runningStateNames = map[RunningState]string{
	RunningStateManual:   "manual",
	RunningStateStep:     "step",
	RunningStateRun:      "run",
	RunningStateFinished: "finished",
}

func (rs RunningState) String() string {
	if n, ok := runningStateNames[rs]; ok {
		return n
	}
	return fmt.Sprintf("RunningState(%d)", int(rs))
}

var DefaultOptions = Options{
	Rows:            DefRows,
	Columns:         DefColumns,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	Placement:       editor.PlaceDirect,
}

//BaseSimulation is the simulation engine, implements Simulation
//every tick and every command runs on the mainLoop goroutine, edits and snapshots take the area lock
type BaseSimulation struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	area struct {
		*grid.Grid
		sync.Mutex
	}
	stepper   *flow.Stepper
	editor    *editor.Editor
	stateCh   chan Status
	views     struct {
		list []Viewer
		sync.Mutex
	}
	templates map[string]Template
	controlCh chan func()
	closeCh   chan bool
	done      chan struct{}
}

//NewBaseSimulation creates the engine and starts its main loop
//stateCh may be nil when nobody listens to status changes
func NewBaseSimulation(o *Options, stateCh chan Status) *BaseSimulation {
	if o == nil {
		o = &DefaultOptions
	}
	opts := *o
	opts.Advanced = map[string]interface{}{
		"Placement": opts.Placement.String(),
	}
	for k, v := range o.Advanced {
		opts.Advanced[k] = v
	}

	s := BaseSimulation{
		options:   opts,
		stepper:   flow.NewStepper(),
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		done:      make(chan struct{}),
		stateCh:   stateCh,
		templates: map[string]Template{},
	}
	s.state.Details = make(map[string]interface{})
	s.area.Grid = grid.New(opts.Rows, opts.Columns)
	s.editor = editor.New(s.area.Grid, opts.Placement)
	for _, tmpl := range builtinTemplates(opts.Rows, opts.Columns) {
		s.AddTemplate(tmpl)
	}
	go s.mainLoop()
	return &s
}

//AddTemplate adds the seeding template to the internal storage
//the simulation can be populated with this template by call SettleTemplate
func (s *BaseSimulation) AddTemplate(tmpl Template) {
	s.state.Lock()
	s.templates[tmpl.Name] = tmpl
	s.state.Unlock()
}

//Templates returns the sorted template names
func (s *BaseSimulation) Templates() []string {
	s.state.Lock()
	defer s.state.Unlock()
	names := make([]string, 0, len(s.templates))
	for k := range s.templates {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//SettleTemplate paints the template over the current grid, solids first
//coordinates outside the grid are skipped
func (s *BaseSimulation) SettleTemplate(name string) error {
	s.state.Lock()
	tmpl, ok := s.templates[name]
	s.state.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return s.edit(func(e *editor.Editor) error {
		s.settle(tmpl.Solids, e.PaintSolid)
		s.settle(tmpl.Water, e.PaintWater)
		return nil
	})
}

//SettleWithRandomData clears the grid and scatters solids and water over it
func (s *BaseSimulation) SettleWithRandomData() {
	mode := s.runningMode()
	if mode != RunningStateManual && mode != RunningStateFinished {
		return
	}
	s.command(s.clear)
	s.command(func() {
		_ = s.edit(func(e *editor.Editor) error {
			for i := 0; i < s.area.Rows*s.area.Columns/3; i++ {
				x, y := rand.Intn(s.area.Columns), rand.Intn(s.area.Rows)
				if i%4 == 0 {
					_ = e.PaintSolid(x, y)
				} else {
					_ = e.PaintWater(x, y)
				}
			}
			return nil
		})
	})
}

//PaintWater fills the cell at x, y with water
func (s *BaseSimulation) PaintWater(x int, y int) error {
	return s.edit(func(e *editor.Editor) error { return e.PaintWater(x, y) })
}

//PaintSolid places a solid at x, y
func (s *BaseSimulation) PaintSolid(x int, y int) error {
	return s.edit(func(e *editor.Editor) error { return e.PaintSolid(x, y) })
}

//Erase empties the cell at x, y
func (s *BaseSimulation) Erase(x int, y int) error {
	return s.edit(func(e *editor.Editor) error { return e.Erase(x, y) })
}

//Paint applies the brush at x, y
func (s *BaseSimulation) Paint(b *editor.Brush, x int, y int) error {
	return s.edit(func(e *editor.Editor) error { return b.Apply(e, x, y) })
}

//RegisterViewer registers the viewer - the simulation will call the viewer when the state is changed
//the viewer is registered before it can receive its first Refresh
func (s *BaseSimulation) RegisterViewer(v Viewer) {
	v.Register(s)
	s.views.Lock()
	s.views.list = append(s.views.list, v)
	s.views.Unlock()
}

//StateCh returns the channel with the simulation's status updates
func (s *BaseSimulation) StateCh() chan Status {
	return s.stateCh
}

//Status returns current simulation status represented by Status struct
func (s *BaseSimulation) Status() Status {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.Status
}

//Options returns current simulation configuration represented by Options struct
func (s *BaseSimulation) Options() Options {
	return s.options
}

//Snapshot copies the committed grid and its pressure range
func (s *BaseSimulation) Snapshot() Snapshot {
	s.area.Lock()
	defer s.area.Unlock()
	return Snapshot{Grid: s.area.Clone(), Pressure: s.stepper.Pressure()}
}

//Run starts the simulation, returns immediately
func (s *BaseSimulation) Run() {
	s.command(s.run)
}

//Stop stops the simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (s *BaseSimulation) Stop() {
	s.command(s.stop)
}

//Step does one simulation tick, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (s *BaseSimulation) Step() {
	s.command(s.step)
}

//Clear empties the grid and resets all counters, returns immediately
//the Status struct will be written to the stateCh on finish
func (s *BaseSimulation) Clear() {
	s.command(s.clear)
}

//Close stops the main loop, returns immediately
func (s *BaseSimulation) Close() {
	select {
	case s.closeCh <- true:
	case <-s.done:
	}
}

//Done is closed once the main loop has returned
func (s *BaseSimulation) Done() <-chan struct{} {
	return s.done
}

//command queues cmd for the main loop, dropped once the loop is closed
func (s *BaseSimulation) command(cmd func()) {
	select {
	case s.controlCh <- cmd:
	case <-s.done:
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (s *BaseSimulation) mainLoop() {
	defer close(s.done)
	for {
		select {
		case cmd := <-s.controlCh:
			cmd()
		case <-s.closeCh:
			return
		}
	}
}

//settle paints every [x, y] of vc with op
func (s *BaseSimulation) settle(vc [][]int, op func(x int, y int) error) {
	for _, v := range vc {
		if len(v) < 2 || !s.area.InBounds(v[0], v[1]) {
			continue
		}
		_ = op(v[0], v[1])
	}
}

//edit runs op on the editor under the area lock and refreshes totals and pressure
func (s *BaseSimulation) edit(op func(e *editor.Editor) error) error {
	s.area.Lock()
	if err := op(s.editor); err != nil {
		s.area.Unlock()
		return err
	}
	rng := s.stepper.Recompute(s.area.Grid)
	total, cells := s.area.TotalWater(), s.area.WaterCells()
	s.area.Unlock()

	s.state.Lock()
	s.state.Pressure = rng
	s.state.TotalWater = total
	s.state.WaterCells = cells
	s.state.Settled = false
	s.state.Unlock()
	s.refreshView()
	return nil
}

func (s *BaseSimulation) runningMode() RunningState {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.RunningMode
}

//switchRunningState switch the state of the simulation to RunningState
//also writes the new state to the stateCh to signal upper control software
func (s *BaseSimulation) switchRunningState(to RunningState) {
	s.state.Lock()
	s.state.RunningMode = to
	st := s.state.Status
	s.state.Unlock()
	if s.stateCh != nil {
		s.stateCh <- st
	}
}

//run starts the simulation loop
//the loop stops on Stop() or when a finishing condition is reached
func (s *BaseSimulation) run() {
	if mode := s.runningMode(); mode == RunningStateRun || mode == RunningStateStep {
		return
	}
	s.switchRunningState(RunningStateRun)
	go func() {
		skipped := 0
		done := make(chan bool)
		for {
			mode := s.runningMode()
			if mode != RunningStateRun && mode != RunningStateStep {
				break
			}
			if skipped > s.options.MaxSkippedTicks {
				monitoring.Logf("simulation: %d ticks skipped in a row, stopping the run", skipped)
				s.command(func() { s.switchRunningState(RunningStateFinished) })
				break
			}
			//skip the tick if the simulation is still in the calculation mode
			if mode != RunningStateStep {
				skipped = 0
				s.command(func() {
					s.step()
					done <- true
				})
				select {
				case <-done:
				case <-s.done:
					return
				}
			} else {
				skipped++
			}
			if s.options.Interval > 0 {
				time.Sleep(s.options.Interval)
			}
		}
	}()
}

//stop stops the running cycle
func (s *BaseSimulation) stop() {
	if s.runningMode() == RunningStateRun {
		s.switchRunningState(RunningStateManual)
	}
}

//step does one tick for the entire grid
func (s *BaseSimulation) step() {
	finished := false
	rm := s.runningMode()
	maxIter := s.options.MaxSteps
	defer func() {
		if finished {
			s.switchRunningState(RunningStateFinished)
		} else {
			s.switchRunningState(rm)
		}
		s.refreshView()
	}()

	s.state.Lock()
	if maxIter != 0 && s.state.IterationNum >= maxIter {
		s.state.Unlock()
		finished = true
		return
	}
	s.state.IterationNum++
	iter := s.state.IterationNum
	s.state.Unlock()

	s.switchRunningState(RunningStateStep)
	changed := s.nextIteration()
	if maxIter != 0 && iter >= maxIter {
		finished = true
	}
	if s.options.StopWhenSettled && !changed {
		finished = true
	}
}

//clear empties the grid, reset all counters
func (s *BaseSimulation) clear() {
	s.state.Lock()
	s.area.Lock()

	s.editor.Clear()
	s.stepper.Recompute(s.area.Grid)
	s.state.IterationNum = 0
	s.state.TotalWater = 0
	s.state.WaterCells = 0
	s.state.Pressure = pressure.Range{}
	s.state.Settled = false
	s.state.IterationTime = 0
	s.state.RunningMode = RunningStateManual
	s.area.Unlock()
	s.state.Unlock()
	s.switchRunningState(RunningStateManual)
	s.refreshView()
}

//nextIteration does one tick under the area lock and updates the status metrics
func (s *BaseSimulation) nextIteration() (changed bool) {
	s.area.Lock()
	start := time.Now()
	changed, rng := s.stepper.Step(s.area.Grid)
	total, cells := s.area.TotalWater(), s.area.WaterCells()
	elapsed := time.Since(start)
	s.area.Unlock()

	s.state.Lock()
	s.state.Pressure = rng
	s.state.TotalWater = total
	s.state.WaterCells = cells
	s.state.Settled = !changed
	s.state.IterationTime = elapsed
	s.state.Unlock()
	return
}

//refreshView calls Refresh event for all registered views
func (s *BaseSimulation) refreshView() {
	s.views.Lock()
	views := append([]Viewer(nil), s.views.list...)
	s.views.Unlock()
	for _, v := range views {
		v.Refresh()
	}
}
