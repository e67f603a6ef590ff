package surface

import (
	"strings"
	"testing"

	"github.com/grainpress/sealpdf/content"
	"github.com/grainpress/sealpdf/engine"
	"github.com/grainpress/sealpdf/gradient"
	"github.com/grainpress/sealpdf/raw"
	"github.com/grainpress/sealpdf/resources"
)

func newTestSurface() *Surface {
	ctx := engine.NewSerializeContext(nil, false)
	return New(ctx, raw.ObjectRef{Num: 1}, nil)
}

func testSquare() *content.Path {
	return (&content.Path{}).MoveTo(0, 0).LineTo(10, 0).LineTo(10, 10).LineTo(0, 10).Close()
}

func TestFillPathWithFlatColorEmitsRG(t *testing.T) {
	s := newTestSurface()
	s.FillPath(testSquare(), content.NonZero, Paint{Color: &ColorRGB{R: 1, G: 0, B: 0}})
	got := string(s.Builder().Bytes())
	if !strings.Contains(got, "1 0 0 rg") {
		t.Fatalf("expected flat rg fill, got %q", got)
	}
}

func TestFillPathWithLinearGradientRegistersPattern(t *testing.T) {
	s := newTestSurface()
	s.FillPath(testSquare(), content.NonZero, Paint{
		LinearGradient: &gradient.LinearGradient{
			X0: 0, Y0: 0, X1: 10, Y1: 0,
			Stops: []gradient.Stop{
				{Offset: 0, Color: []float64{1, 0, 0}},
				{Offset: 1, Color: []float64{0, 0, 1}},
			},
		},
	})
	got := string(s.Builder().Bytes())
	if !strings.Contains(got, "/Pattern cs") || !strings.Contains(got, "scn") {
		t.Fatalf("expected a pattern color space fill, got %q", got)
	}
	if s.Builder().Resources().Pattern.Len() != 1 {
		t.Fatal("expected the gradient to register as one Pattern resource")
	}
}

func TestFillPathWithExplicitPatternSkipsShadingWrap(t *testing.T) {
	s := newTestSurface()
	pattern := &gradient.TilingPattern{
		Width: 4, Height: 4,
		Content:   []byte("0 0 0 rg 0 0 4 4 re f"),
		Resources: resources.NewSet(),
		PaintType: 1,
	}
	s.FillPath(testSquare(), content.NonZero, Paint{Pattern: pattern})
	got := string(s.Builder().Bytes())
	if !strings.Contains(got, "/Pattern cs") {
		t.Fatalf("expected pattern fill, got %q", got)
	}
}

func TestFillPathPanicsOnEmptyPaint(t *testing.T) {
	s := newTestSurface()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on an empty Paint")
		}
	}()
	s.FillPath(testSquare(), content.NonZero, Paint{})
}
