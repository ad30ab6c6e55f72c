package view

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"liquidsim/src/simulation"
)

//ConsoleOut is the non-interactive reporter: configuration, progress every 10 steps and the final summary
type ConsoleOut struct {
	s         simulation.Simulation
	w         io.Writer
	startTime time.Time
	reported  int
}

func NewConsoleOut() *ConsoleOut {
	return &ConsoleOut{w: os.Stdout}
}

//NewConsoleOutTo writes the report to w
func NewConsoleOutTo(w io.Writer) *ConsoleOut {
	return &ConsoleOut{w: w}
}

func (c *ConsoleOut) Refresh() {
	st := c.s.Status()
	if st.RunningMode == simulation.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": st.IterationNum,
			"Total time":     totalTime,
			"Water":          fmt.Sprintf("%.3f cells", st.TotalWater),
			"Wet cells":      st.WaterCells,
			"Max pressure":   fmt.Sprintf("%.3f", st.Pressure.Max),
			"Settled":        st.Settled,
		}
		_, _ = fmt.Fprintln(c.w, "\n"+aurora.Bold("Finished:").String())
		c.printHashData(resultData)
	} else if st.RunningMode == simulation.RunningStateRun {
		if st.IterationNum%10 == 0 && st.IterationNum != c.reported {
			c.reported = st.IterationNum
			_, _ = fmt.Fprintf(c.w, "  Iterations done: %v, max pressure: %.3f\n", st.IterationNum, st.Pressure.Max)
		}
	}
}

func (c *ConsoleOut) Register(s simulation.Simulation) {
	c.s = s
	o := c.s.Options()
	_, _ = fmt.Fprintln(c.w, aurora.Bold("Running configuration:").String())
	_, _ = fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Columns, o.Rows)
	_, _ = fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	_, _ = fmt.Fprintf(c.w, "  Max iterations: %v\n", maxStepsDescr(o.MaxSteps))
	_, _ = fmt.Fprintf(c.w, "  Stop when settled: %v\n", o.StopWhenSettled)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() error {
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
	return nil
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
