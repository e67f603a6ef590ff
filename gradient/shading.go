package gradient

import (
	"fmt"
	"math"
	"strings"

	"github.com/grainpress/sealpdf/engine"
	"github.com/grainpress/sealpdf/raw"
)

// Stop is one color stop of a gradient: position in [0,1] plus the color
// components in the gradient's working color space, and an optional alpha
// used to synthesize a luminosity mask.
type Stop struct {
	Offset float64
	Color  []float64
	Alpha  float64 // 1.0 if unset by the caller (NormalizeStops fills this in)
}

// NormalizeStops sorts stops by offset, clamps to [0,1], and ensures the
// first/last stops sit exactly at 0 and 1 so the stitching function's
// domain is fully covered.
func NormalizeStops(stops []Stop) []Stop {
	out := append([]Stop(nil), stops...)
	for i := range out {
		if out[i].Alpha == 0 {
			out[i].Alpha = 1
		}
		if out[i].Offset < 0 {
			out[i].Offset = 0
		}
		if out[i].Offset > 1 {
			out[i].Offset = 1
		}
	}
	// insertion sort: gradients rarely have more than a handful of stops
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Offset < out[j-1].Offset; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if len(out) > 0 {
		out[0].Offset = 0
		out[len(out)-1].Offset = 1
	}
	return out
}

// StitchedFunction builds the Exponential-per-segment + Stitching function
// pair a multi-stop gradient needs, grounded on writer/function_serializer.go's
// per-type dict assembly.
func StitchedFunction(stops []Stop) Function {
	if len(stops) == 1 {
		return NewExponentialFunction(stops[0].Color, stops[0].Color, 1)
	}
	funcs := make([]Function, 0, len(stops)-1)
	bounds := make([]float64, 0, len(stops)-2)
	for i := 0; i < len(stops)-1; i++ {
		funcs = append(funcs, NewExponentialFunction(stops[i].Color, stops[i+1].Color, 1))
		if i > 0 {
			bounds = append(bounds, stops[i].Offset)
		}
	}
	return NewStitchingFunction(funcs, bounds)
}

// Shading is the sum type for the shading dictionaries sealpdf emits.
type Shading interface {
	Serialize(ctx *engine.SerializeContext, colorSpace raw.Object) raw.ObjectRef
}

// LinearGradient is PDF shading type 2 (axial).
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []Stop
	Extend         [2]bool
}

func (g *LinearGradient) Serialize(ctx *engine.SerializeContext, cs raw.Object) raw.ObjectRef {
	fn := StitchedFunction(NormalizeStops(g.Stops))
	d := raw.NewDict()
	d.Set("ShadingType", raw.Int(2))
	d.Set("ColorSpace", cs)
	d.Set("Coords", raw.Floats([]float64{g.X0, g.Y0, g.X1, g.Y1}))
	d.Set("Function", raw.RefTo(fn.Serialize(ctx)))
	d.Set("Extend", extendArray(g.Extend))
	return ctx.AddObject(d)
}

// RadialGradient is PDF shading type 3 (radial), modeling a cone between two
// circles.
type RadialGradient struct {
	X0, Y0, R0 float64
	X1, Y1, R1 float64
	Stops      []Stop
	Extend     [2]bool
}

func (g *RadialGradient) Serialize(ctx *engine.SerializeContext, cs raw.Object) raw.ObjectRef {
	fn := StitchedFunction(NormalizeStops(g.Stops))
	d := raw.NewDict()
	d.Set("ShadingType", raw.Int(3))
	d.Set("ColorSpace", cs)
	d.Set("Coords", raw.Floats([]float64{g.X0, g.Y0, g.R0, g.X1, g.Y1, g.R1}))
	d.Set("Function", raw.RefTo(fn.Serialize(ctx)))
	d.Set("Extend", extendArray(g.Extend))
	return ctx.AddObject(d)
}

// SweepGradient has no direct PDF shading type; it's built as a function-
// based shading (type 1) over a [-1e6, 1e6] square, with a PostScript function
// (type 4) that converts (x,y) to an angle and looks up the stop ramp —
// grounded on spec §4.8's note that conic/sweep gradients require a
// function-based shading rather than shading types 2/3.
type SweepGradient struct {
	CenterX, CenterY float64
	StartAngle, EndAngle float64
	Stops            []Stop
}

func (g *SweepGradient) Serialize(ctx *engine.SerializeContext, cs raw.Object) raw.ObjectRef {
	stops := NormalizeStops(g.Stops)
	angleSpan := g.EndAngle - g.StartAngle
	if angleSpan == 0 {
		angleSpan = 2 * math.Pi
	}
	// A function-based shading's /Function must map (x,y) straight to
	// color, so the angle computation and the stop interpolation have to
	// live in one PostScript type 4 program rather than two chained
	// functions: atan2(y,x) -> normalize to [0,1) against the stop range ->
	// a cvi-indexed cascade of linear C0+(C1-C0)*t segments, one per stop
	// interval.
	psFn := &PostScriptFunction{
		baseFunction: baseFunction{domain: []float64{-1e6, 1e6, -1e6, 1e6}, rng: colorRange(stops, 0)},
		Program:      sweepPostScriptProgram(g.StartAngle, angleSpan, stops),
	}
	d := raw.NewDict()
	d.Set("ShadingType", raw.Int(1))
	d.Set("ColorSpace", cs)
	d.Set("Domain", raw.Floats([]float64{-1e6, 1e6, -1e6, 1e6}))
	d.Set("Function", raw.RefTo(psFn.Serialize(ctx)))
	return ctx.AddObject(d)
}

// colorRange returns a [0,1]-per-component PDF /Range array sized to n
// color components, the shape every emitted gradient color space uses.
func colorRange(stops []Stop, n int) []float64 {
	if n <= 0 && len(stops) > 0 {
		n = len(stops[0].Color)
	}
	rng := make([]float64, 0, n*2)
	for i := 0; i < n; i++ {
		rng = append(rng, 0, 1)
	}
	return rng
}

// sweepPostScriptProgram emits a PostScript calculator function body: it
// converts the (x,y) input into a normalized sweep parameter t on the
// stack, then a chain of nested ifelse blocks (one per stop interval,
// generated by segmentProgram) picks the interval containing t and
// linearly interpolates that interval's color.
func sweepPostScriptProgram(startAngle, angleSpan float64, stops []Stop) string {
	var b strings.Builder
	b.WriteString("{ exch atan 360 div ")
	// atan returns degrees in [0,360); rotate by -startAngle/2pi and wrap
	// into [0,1) before scaling to the requested angular span.
	startFrac := startAngle / (2 * math.Pi)
	b.WriteString(formatFloat(-startFrac))
	b.WriteString(" add dup 0 lt { 1 add } if ")
	scale := (2 * math.Pi) / angleSpan
	b.WriteString(formatFloat(scale))
	b.WriteString(" mul dup 1 gt { pop 1 } if\n")
	b.WriteString(segmentProgram(stops, 0))
	b.WriteString("\n}")
	return b.String()
}

// segmentProgram returns the PostScript for interval i..len(stops)-1,
// leaving the interpolated color on the stack and consuming t. Recurses so
// each non-final interval is a proper ifelse branch rather than a flat
// sequence of "if" blocks, which would leave stray values on the stack once
// more than one interval exists.
func segmentProgram(stops []Stop, i int) string {
	last := i == len(stops)-2
	lo, hi := stops[i].Offset, stops[i+1].Offset
	span := hi - lo
	if span == 0 {
		span = 1
	}
	var body strings.Builder
	body.WriteString(formatFloat(lo))
	body.WriteString(" sub ")
	body.WriteString(formatFloat(1 / span))
	body.WriteString(" mul\n")
	for c := range stops[i].Color {
		c0, c1 := stops[i].Color[c], stops[i+1].Color[c]
		body.WriteString("dup ")
		body.WriteString(formatFloat(c1 - c0))
		body.WriteString(" mul ")
		body.WriteString(formatFloat(c0))
		body.WriteString(" add exch\n")
	}
	body.WriteString("pop")

	if last {
		return body.String()
	}
	var out strings.Builder
	out.WriteString("dup ")
	out.WriteString(formatFloat(hi))
	out.WriteString(" le { ")
	out.WriteString(body.String())
	out.WriteString(" } { ")
	out.WriteString(segmentProgram(stops, i+1))
	out.WriteString(" } ifelse")
	return out.String()
}

func formatFloat(v float64) string {
	s := fmt.Sprintf("%.6f", v)
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}

func extendArray(e [2]bool) *raw.Array {
	return raw.NewArray(raw.Bool(e[0]), raw.Bool(e[1]))
}
