package palette

import (
	"fmt"
	"image/color"

	"github.com/mazznoer/colorgrad"

	"liquidsim/src/pressure"
)

//default gradient ends, low is the plain water blue
const (
	DefLow  = "#34c3eb"
	DefHigh = "#0b2a6f"
)

var (
	Background = color.RGBA{0x00, 0x00, 0x00, 0xff}
	SolidColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
	GridLine   = color.RGBA{0x1f, 0x1f, 0x1f, 0xff}
)

//Palette maps display pressure to a color between two endpoints
type Palette struct {
	grad colorgrad.Gradient
}

//New builds the palette from two CSS colors
func New(low string, high string) (*Palette, error) {
	grad, err := colorgrad.NewGradient().HtmlColors(low, high).Build()
	if err != nil {
		return nil, fmt.Errorf("pressure gradient %s..%s: %w", low, high, err)
	}
	return &Palette{grad: grad}, nil
}

//Default returns the palette with the default endpoints
func Default() *Palette {
	p, err := New(DefLow, DefHigh)
	if err != nil {
		panic(err)
	}
	return p
}

//At samples the gradient at t in [0, 1]
func (p *Palette) At(t float64) color.RGBA {
	r, g, b := p.grad.At(t).Clamped().RGB255()
	return color.RGBA{r, g, b, 0xff}
}

//Color returns the color for pressure value v in range rng
func (p *Palette) Color(v float64, rng pressure.Range) color.RGBA {
	return p.At(rng.Normalize(v))
}

//XTerm returns the 256-color terminal index for pressure value v in range rng
func (p *Palette) XTerm(v float64, rng pressure.Range) uint8 {
	return XTerm256(p.Color(v, rng))
}

//XTerm256 quantizes c to the 6x6x6 color cube of 256-color terminals
func XTerm256(c color.Color) uint8 {
	r, g, b, _ := c.RGBA()
	return uint8(16 + 36*cubeLevel(uint8(r>>8)) + 6*cubeLevel(uint8(g>>8)) + cubeLevel(uint8(b>>8)))
}

//cubeLevel maps a channel to the nearest of 0, 95, 135, 175, 215, 255
func cubeLevel(v uint8) int {
	switch {
	case v < 48:
		return 0
	case v < 115:
		return 1
	}
	return (int(v) - 35) / 40
}
