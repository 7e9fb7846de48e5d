package debugsvg

import (
	"strings"
	"testing"

	"curaenginegradualflow/internal/flowpath"
	"curaenginegradualflow/internal/geometry"
)

func mockMetadata(velocity float64, retract bool) *flowpath.Metadata {
	return &flowpath.Metadata{
		TargetVelocity:          velocity,
		SpeedFactor:             1,
		SpeedBackPressureFactor: 1,
		Flow:                    1,
		WidthFactor:             1,
		LineWidth:               400,
		LayerThickness:          250,
		FlowRatio:               1,
		Retract:                 retract,
	}
}

func TestRenderTravelIsThinBlack(t *testing.T) {
	travel := flowpath.New(mockMetadata(0, true), geometry.Polyline{{X: 0, Y: 0}, {X: 1000, Y: 0}})
	doc := Render([]*flowpath.Path{travel})
	if !strings.Contains(doc, `stroke="black"`) || !strings.Contains(doc, `stroke-width="0.05"`) {
		t.Fatalf("expected thin black stroke for travel move, got %q", doc)
	}
}

func TestRenderExtrusionIsColored(t *testing.T) {
	extrude := flowpath.New(mockMetadata(100, false), geometry.Polyline{{X: 0, Y: 0}, {X: 1000, Y: 0}})
	doc := Render([]*flowpath.Path{extrude})
	if !strings.Contains(doc, `stroke-width="0.1"`) {
		t.Fatalf("expected extrusion stroke width, got %q", doc)
	}
	if strings.Contains(doc, `stroke="black"`) {
		t.Fatalf("expected a non-black color for extrusion, got %q", doc)
	}
}

func TestRenderPathDataScalesToMillimetres(t *testing.T) {
	p := flowpath.New(mockMetadata(100, false), geometry.Polyline{{X: 1000, Y: 2000}, {X: 3000, Y: 4000}})
	data := pathData(p)
	if !strings.HasPrefix(data, "M1 2") {
		t.Fatalf("expected micrometre-to-millimetre scaling, got %q", data)
	}
}

func TestHSVToRGBWrapsHue(t *testing.T) {
	r1, g1, b1 := hsvToRGB(10, 100, 100)
	r2, g2, b2 := hsvToRGB(370, 100, 100)
	if r1 != r2 || g1 != g2 || b1 != b2 {
		t.Fatalf("expected hue to wrap modulo 360: (%d,%d,%d) vs (%d,%d,%d)", r1, g1, b1, r2, g2, b2)
	}
}

func TestCounterIsMonotonic(t *testing.T) {
	c := NewCounter()
	if got := c.Next(); got != 0 {
		t.Fatalf("first value: got %d want 0", got)
	}
	if got := c.Next(); got != 1 {
		t.Fatalf("second value: got %d want 1", got)
	}
}
