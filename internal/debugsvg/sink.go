// Package debugsvg renders a batch's paths to SVG for visual inspection.
// It is optional glue: the limiter never calls into it directly, a caller
// wires it in at the point a request is processed.
package debugsvg

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"curaenginegradualflow/internal/flowpath"
)

// Counter hands out a monotonically increasing sequence number per
// process. It is explicit state passed by the caller rather than a package
// global, so tests can construct their own and never share one.
type Counter struct {
	n atomic.Uint64
}

// NewCounter returns a counter starting at zero.
func NewCounter() *Counter { return &Counter{} }

// Next returns the next value in the sequence, starting at 0.
func (c *Counter) Next() uint64 { return c.n.Add(1) - 1 }

// Sink accepts a named batch of paths to render as SVG.
type Sink interface {
	Write(label string, paths []*flowpath.Path) error
}

// FileSink writes one SVG file per Write call, in dir, named with an
// incrementing sequence number from counter.
type FileSink struct {
	dir     string
	counter *Counter
}

// NewFileSink returns a sink that writes into dir using counter for
// filenames. dir must already exist.
func NewFileSink(dir string, counter *Counter) *FileSink {
	return &FileSink{dir: dir, counter: counter}
}

// Write renders paths to an SVG document and writes it to
// dir/<seq>_<label>.svg.
func (s *FileSink) Write(label string, paths []*flowpath.Path) error {
	name := fmt.Sprintf("%06d_%s.svg", s.counter.Next(), label)
	doc := Render(paths)
	return os.WriteFile(filepath.Join(s.dir, name), []byte(doc), 0o644)
}

// Render builds an SVG document containing one <path> element per input
// path, per §4.4: polylines in "M x y L x y …" form scaled from
// micrometres to millimetres, travel moves thin and black, extrusion moves
// coloured by an HSV-from-flow-magnitude hue.
func Render(paths []*flowpath.Path) string {
	var b strings.Builder
	b.WriteString("<svg xmlns=\"http://www.w3.org/2000/svg\">\n")
	for _, p := range paths {
		b.WriteString(pathElement(p))
		b.WriteByte('\n')
	}
	b.WriteString("</svg>\n")
	return b.String()
}

func pathElement(p *flowpath.Path) string {
	data := pathData(p)
	if p.IsTravel() {
		return fmt.Sprintf(`<path d="%s" fill="none" stroke="black" stroke-width="0.05" />`, data)
	}
	r, g, bl := hsvToRGB(p.Flow()*3e-8, 100, 100)
	return fmt.Sprintf(`<path d="%s" fill="none" stroke="rgb(%d,%d,%d)" stroke-width="0.1" />`, data, r, g, bl)
}

func pathData(p *flowpath.Path) string {
	var b strings.Builder
	for i, pt := range p.Points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s%g %g ", cmd, float64(pt.X)*1e-3, float64(pt.Y)*1e-3)
	}
	return strings.TrimSpace(b.String())
}

// hsvToRGB converts an HSV triple (h in degrees, any real value wrapped
// into [0, 360); s and v as percentages in [0, 100]) to 8-bit RGB.
func hsvToRGB(h, s, v float64) (r, g, b int) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s /= 100
	v /= 100

	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var rp, gp, bp float64
	switch {
	case h < 60:
		rp, gp, bp = c, x, 0
	case h < 120:
		rp, gp, bp = x, c, 0
	case h < 180:
		rp, gp, bp = 0, c, x
	case h < 240:
		rp, gp, bp = 0, x, c
	case h < 300:
		rp, gp, bp = x, 0, c
	default:
		rp, gp, bp = c, 0, x
	}

	return int((rp + m) * 255), int((gp + m) * 255), int((bp + m) * 255)
}
