//Package report samples the simulation status tick by tick and renders it as a chart.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"liquidsim/src/simulation"
)

var ErrNoSamples = errors.New("no samples recorded")

//Sample is the status of one tick
type Sample struct {
	Iteration   int
	TotalWater  float64
	MaxPressure float64
	WaterCells  int
}

//Recorder is a viewer that keeps one sample per iteration
type Recorder struct {
	s simulation.Simulation

	mu      sync.Mutex
	samples []Sample
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Register(s simulation.Simulation) {
	r.s = s
}

func (r *Recorder) Start() error {
	r.Refresh()
	return nil
}

func (r *Recorder) Refresh() {
	st := r.s.Status()
	r.mu.Lock()
	defer r.mu.Unlock()
	//edits between ticks refresh without advancing the iteration
	if n := len(r.samples); n > 0 && r.samples[n-1].Iteration == st.IterationNum {
		r.samples[n-1] = sampleOf(st)
		return
	}
	r.samples = append(r.samples, sampleOf(st))
}

//Samples returns a copy of the recorded samples
func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sample(nil), r.samples...)
}

//Save writes a line chart of the samples, the format follows the path extension
func (r *Recorder) Save(path string) error {
	samples := r.Samples()
	if len(samples) == 0 {
		return ErrNoSamples
	}

	p := plot.New()
	p.Title.Text = "Liquid simulation"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "value"

	water := make(plotter.XYs, 0, len(samples))
	pressure := make(plotter.XYs, 0, len(samples))
	cells := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		x := float64(s.Iteration)
		water = append(water, plotter.XY{X: x, Y: s.TotalWater})
		pressure = append(pressure, plotter.XY{X: x, Y: s.MaxPressure})
		cells = append(cells, plotter.XY{X: x, Y: float64(s.WaterCells)})
	}

	series := []struct {
		name  string
		pts   plotter.XYs
		color color.Color
	}{
		{"total water", water, color.RGBA{R: 0x34, G: 0xc3, B: 0xeb, A: 0xff}},
		{"max pressure", pressure, color.RGBA{R: 0x0b, G: 0x2a, B: 0x6f, A: 0xff}},
		{"wet cells", cells, color.RGBA{R: 0xcc, G: 0x44, B: 0x22, A: 0xff}},
	}
	for _, ser := range series {
		line, err := plotter.NewLine(ser.pts)
		if err != nil {
			return fmt.Errorf("%s line: %w", ser.name, err)
		}
		line.Color = ser.color
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(ser.name, line)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}

func sampleOf(st simulation.Status) Sample {
	return Sample{
		Iteration:   st.IterationNum,
		TotalWater:  st.TotalWater,
		MaxPressure: st.Pressure.Max,
		WaterCells:  st.WaterCells,
	}
}
