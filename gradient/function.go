// Package gradient builds PDF shadings, shading/tiling patterns, and the
// function objects that drive them. Function dict assembly is grounded
// directly on writer/function_serializer.go's per-type field layout;
// Shading/Pattern shapes are grounded on ir/semantic's FunctionShading and
// Pattern hierarchy.
package gradient

import (
	"github.com/grainpress/sealpdf/engine"
	"github.com/grainpress/sealpdf/raw"
)

// Function is the sum type for the four PDF function types sealpdf emits.
// Exponential, Stitching, and PostScript are produced internally (PostScript
// functions back SweepGradient); Sampled is never built by this package.
// All satisfy this interface so Serialize can recurse into Stitching's
// sub-functions.
type Function interface {
	Domain() []float64
	Serialize(ctx *engine.SerializeContext) raw.ObjectRef
}

type baseFunction struct {
	domain []float64
	rng    []float64
}

func (b baseFunction) Domain() []float64 { return b.domain }

func (b baseFunction) applyCommon(d *raw.Dict, functionType int) {
	d.Set("FunctionType", raw.Int(int64(functionType)))
	if len(b.domain) > 0 {
		d.Set("Domain", raw.Floats(b.domain))
	}
	if len(b.rng) > 0 {
		d.Set("Range", raw.Floats(b.rng))
	}
}

// ExponentialFunction is PDF function type 2: a single-segment color ramp
// from C0 to C1, used for each stop-to-stop interval of a gradient.
type ExponentialFunction struct {
	baseFunction
	C0, C1 []float64
	N      float64
}

func NewExponentialFunction(c0, c1 []float64, n float64) *ExponentialFunction {
	return &ExponentialFunction{baseFunction: baseFunction{domain: []float64{0, 1}}, C0: c0, C1: c1, N: n}
}

func (f *ExponentialFunction) Serialize(ctx *engine.SerializeContext) raw.ObjectRef {
	d := raw.NewDict()
	f.applyCommon(d, 2)
	if len(f.C0) > 0 {
		d.Set("C0", raw.Floats(f.C0))
	}
	if len(f.C1) > 0 {
		d.Set("C1", raw.Floats(f.C1))
	}
	d.Set("N", raw.Real(f.N))
	return ctx.AddObject(d)
}

// StitchingFunction is PDF function type 3: sequences several sub-functions
// (one ExponentialFunction per gradient stop interval) across Bounds.
type StitchingFunction struct {
	baseFunction
	Functions []Function
	Bounds    []float64
	Encode    []float64
}

func NewStitchingFunction(funcs []Function, bounds []float64) *StitchingFunction {
	encode := make([]float64, 0, len(funcs)*2)
	for range funcs {
		encode = append(encode, 0, 1)
	}
	return &StitchingFunction{
		baseFunction: baseFunction{domain: []float64{0, 1}},
		Functions:    funcs,
		Bounds:       bounds,
		Encode:       encode,
	}
}

func (f *StitchingFunction) Serialize(ctx *engine.SerializeContext) raw.ObjectRef {
	d := raw.NewDict()
	f.applyCommon(d, 3)
	arr := raw.NewArray()
	for _, sub := range f.Functions {
		arr.Append(raw.RefTo(sub.Serialize(ctx)))
	}
	d.Set("Functions", arr)
	if len(f.Bounds) > 0 {
		d.Set("Bounds", raw.Floats(f.Bounds))
	}
	if len(f.Encode) > 0 {
		d.Set("Encode", raw.Floats(f.Encode))
	}
	return ctx.AddObject(d)
}

// SampledFunction is PDF function type 0: a lookup table. No gradient in
// this package builds one; it is available for callers to construct.
type SampledFunction struct {
	baseFunction
	Size          []int
	BitsPerSample int
	Encode        []float64
	Samples       []byte
}

func (f *SampledFunction) Serialize(ctx *engine.SerializeContext) raw.ObjectRef {
	d := raw.NewDict()
	f.applyCommon(d, 0)
	d.Set("Size", raw.Ints(f.Size))
	d.Set("BitsPerSample", raw.Int(int64(f.BitsPerSample)))
	if len(f.Encode) > 0 {
		d.Set("Encode", raw.Floats(f.Encode))
	}
	stream := raw.NewStream(d, f.Samples)
	return ctx.AddObject(stream)
}

// PostScriptFunction is PDF function type 4, used by SweepGradient to map
// (x,y) to an angle and interpolate the stop colors in one program.
type PostScriptFunction struct {
	baseFunction
	Program string
}

func (f *PostScriptFunction) Serialize(ctx *engine.SerializeContext) raw.ObjectRef {
	d := raw.NewDict()
	f.applyCommon(d, 4)
	stream := raw.NewStream(d, []byte(f.Program))
	return ctx.AddObject(stream)
}
