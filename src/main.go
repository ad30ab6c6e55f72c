package main

import (
	"os"
	"strings"

	"github.com/integrii/flaggy"

	"liquidsim/src/editor"
	"liquidsim/src/monitoring"
	"liquidsim/src/palette"
	"liquidsim/src/report"
	"liquidsim/src/simulation"
	"liquidsim/src/view"
	"liquidsim/src/view/window"
)

//DefHeadlessSteps limits a non-interactive run that never settles
const DefHeadlessSteps = 1000

type EnvOptions struct {
	interactive bool
	window      bool
	randomData  bool
	template    string
	placement   string
	plot        string
	low         string
	high        string
}

func main() {
	eo, so := initOptions()

	var stateCh chan simulation.Status

	if !eo.interactive && !eo.window {
		stateCh = make(chan simulation.Status, 10) //the buffered channel to getting the simulation status
	}

	s := simulation.NewBaseSimulation(so, stateCh)

	if eo.randomData {
		s.SettleWithRandomData()
	} else if eo.template != "" {
		if err := s.SettleTemplate(eo.template); err != nil {
			flaggy.ShowHelpAndExit(err.Error())
		}
	}

	p, err := palette.New(eo.low, eo.high)
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}

	switch {
	case eo.interactive:
		v, err := view.NewConsoleUI(p)
		if err != nil {
			monitoring.Logf("console ui: %v", err)
			os.Exit(1)
		}
		s.RegisterViewer(v)
		if err := v.Start(); err != nil {
			monitoring.Logf("console ui: %v", err)
			s.Close()
			os.Exit(1)
		}
		s.Close()
	case eo.window:
		v := window.New(p, view.DefCellSize)
		s.RegisterViewer(v)
		if err := v.Start(); err != nil {
			monitoring.Logf("window: %v", err)
			s.Close()
			os.Exit(1)
		}
		s.Close()
	default:
		if err := runHeadless(s, stateCh, eo.plot); err != nil {
			monitoring.Logf("%v", err)
			os.Exit(1)
		}
	}
}

//runHeadless runs the simulation until it finishes, printing the progress to stdout
func runHeadless(s *simulation.BaseSimulation, stateCh chan simulation.Status, plotPath string) error {
	out := view.NewConsoleOut()
	s.RegisterViewer(out)
	var rec *report.Recorder
	if plotPath != "" {
		rec = report.NewRecorder()
		s.RegisterViewer(rec)
		_ = rec.Start()
	}

	_ = out.Start()
	s.Run()
	for st := range stateCh {
		if st.RunningMode == simulation.RunningStateFinished {
			break
		}
	}
	//the last refresh runs after the finished state is published
	s.Close()
	<-s.Done()

	if rec != nil {
		return rec.Save(plotPath)
	}
	return nil
}

func initOptions() (eo *EnvOptions, so *simulation.Options) {
	o := simulation.DefaultOptions
	so = &o
	eo = &EnvOptions{
		placement: editor.PlaceDirect.String(),
		low:       palette.DefLow,
		high:      palette.DefHigh,
	}
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&so.Columns, "x", "columns", "Width of a simulation field")
	flaggy.Int(&so.Rows, "y", "rows", "Height of a simulation field")
	flaggy.Duration(&so.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 50ms")
	flaggy.Int(&so.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode in the terminal")
	flaggy.Bool(&eo.window, "w", "window", "Start interactive mode in a window")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.String(&eo.template, "t", "template", "Settle with the template [basin|dam|funnel|stairs]")
	flaggy.String(&eo.placement, "p", "placement", "Water placement policy ["+strings.Join(editor.PlacementNames(), "|")+"]")
	flaggy.String(&eo.plot, "o", "plot", "Write a chart of the run to the file, for example run.png")
	flaggy.String(&eo.low, "", "lowColor", "Color of the water without pressure")
	flaggy.String(&eo.high, "", "highColor", "Color of the water under the highest pressure")

	flaggy.Parse()

	pl, err := editor.ParsePlacement(eo.placement)
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	so.Placement = pl

	if so.Rows <= 0 || so.Columns <= 0 {
		flaggy.ShowHelpAndExit("the field dimensions must be positive")
	}

	if eo.interactive && eo.window {
		flaggy.ShowHelpAndExit("choose either the terminal or the window")
	}

	if !eo.interactive && !eo.window {
		so.StopWhenSettled = true
		if so.MaxSteps == 0 {
			so.MaxSteps = DefHeadlessSteps
		}
		flaggy.ShowHelp("")
	}

	return
}
