package gradient

import (
	"strings"
	"testing"
)

func TestNormalizeStopsSortsAndPinsEnds(t *testing.T) {
	stops := []Stop{{Offset: 0.5, Color: []float64{1}}, {Offset: 0.2, Color: []float64{0}}, {Offset: 0.9, Color: []float64{1}}}
	out := NormalizeStops(stops)
	if out[0].Offset != 0 || out[len(out)-1].Offset != 1 {
		t.Fatalf("expected endpoints pinned to 0/1, got %+v", out)
	}
	if out[0].Offset > out[1].Offset || out[1].Offset > out[2].Offset {
		t.Fatalf("expected sorted offsets, got %+v", out)
	}
}

func TestNormalizeStopsDefaultsAlpha(t *testing.T) {
	out := NormalizeStops([]Stop{{Offset: 0, Color: []float64{0}}})
	if out[0].Alpha != 1 {
		t.Fatalf("expected default alpha 1, got %v", out[0].Alpha)
	}
}

func TestStitchedFunctionSingleStopIsExponential(t *testing.T) {
	fn := StitchedFunction([]Stop{{Offset: 0, Color: []float64{1, 0, 0}}})
	if _, ok := fn.(*ExponentialFunction); !ok {
		t.Fatalf("expected ExponentialFunction for single stop, got %T", fn)
	}
}

func TestStitchedFunctionMultiStopIsStitching(t *testing.T) {
	fn := StitchedFunction(NormalizeStops([]Stop{
		{Offset: 0, Color: []float64{0}}, {Offset: 0.5, Color: []float64{0.5}}, {Offset: 1, Color: []float64{1}},
	}))
	sf, ok := fn.(*StitchingFunction)
	if !ok {
		t.Fatalf("expected StitchingFunction, got %T", fn)
	}
	if len(sf.Functions) != 2 || len(sf.Bounds) != 1 {
		t.Fatalf("expected 2 sub-functions and 1 bound, got %d/%d", len(sf.Functions), len(sf.Bounds))
	}
}

func TestHasVaryingAlpha(t *testing.T) {
	if HasVaryingAlpha([]Stop{{Alpha: 1}, {Alpha: 1}}) {
		t.Fatal("expected no varying alpha")
	}
	if !HasVaryingAlpha([]Stop{{Alpha: 1}, {Alpha: 0.5}}) {
		t.Fatal("expected varying alpha detected")
	}
}

func TestAlphaStopsProjectsToGray(t *testing.T) {
	out := AlphaStops([]Stop{{Offset: 0, Color: []float64{1, 0, 0}, Alpha: 0.3}})
	if len(out[0].Color) != 1 || out[0].Color[0] != 0.3 {
		t.Fatalf("expected single-channel alpha-as-gray stop, got %+v", out[0])
	}
}

func TestSegmentProgramNestsNonFinalIntervals(t *testing.T) {
	stops := NormalizeStops([]Stop{
		{Offset: 0, Color: []float64{0}}, {Offset: 0.5, Color: []float64{0.5}}, {Offset: 1, Color: []float64{1}},
	})
	prog := segmentProgram(stops, 0)
	if strings.Count(prog, "ifelse") != 1 {
		t.Fatalf("expected one ifelse for a 2-interval program, got %q", prog)
	}
}

func TestSweepPostScriptProgramIsBalancedBraces(t *testing.T) {
	stops := NormalizeStops([]Stop{{Offset: 0, Color: []float64{0}}, {Offset: 1, Color: []float64{1}}})
	prog := sweepPostScriptProgram(0, 6.283185307179586, stops)
	open := strings.Count(prog, "{")
	closeCount := strings.Count(prog, "}")
	if open != closeCount {
		t.Fatalf("unbalanced braces in program: %d open vs %d close:\n%s", open, closeCount, prog)
	}
}
