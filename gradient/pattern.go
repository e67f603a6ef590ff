package gradient

import (
	"github.com/grainpress/sealpdf/coords"
	"github.com/grainpress/sealpdf/engine"
	"github.com/grainpress/sealpdf/raw"
	"github.com/grainpress/sealpdf/resources"
)

// PatternObject is any already-built PDF pattern — shading or tiling —
// that can be registered as a /Pattern color space entry and selected with
// scn. ShadingPattern and TilingPattern both satisfy it without further
// declaration; surface.Paint's Pattern field is typed against this
// interface so a caller can hand either one to Surface.FillPath.
type PatternObject interface {
	Serialize(ctx *engine.SerializeContext) raw.ObjectRef
}

// ShadingPattern wraps a Shading with the placement matrix a fill/stroke
// color operator needs to reference it as a /Pattern color space entry,
// grounded on ir/semantic.Pattern's BasePattern+Shading variant.
type ShadingPattern struct {
	Shading Shading
	Matrix  coords.Matrix
	ColorSpace raw.Object
}

func (p *ShadingPattern) Serialize(ctx *engine.SerializeContext) raw.ObjectRef {
	shadingRef := p.Shading.Serialize(ctx, p.ColorSpace)
	d := raw.NewDict()
	d.Set("Type", raw.NameOf("Pattern"))
	d.Set("PatternType", raw.Int(2))
	d.Set("Shading", raw.RefTo(shadingRef))
	if !p.Matrix.IsIdentity() {
		d.Set("Matrix", matrixArray(p.Matrix))
	}
	return ctx.AddObject(d)
}

// TilingPattern wraps an arbitrary content-stream cell, bbox-normalized to
// (0,0,w,h) per spec §4.8, tiled by XStep/YStep. Grounded on
// ir/semantic.Pattern's Tiling variant.
type TilingPattern struct {
	Width, Height float64
	XStep, YStep  float64
	Matrix        coords.Matrix
	Content       []byte
	Resources     *resources.Set
	PaintType     int // 1 = colored, 2 = uncolored
}

func (p *TilingPattern) Serialize(ctx *engine.SerializeContext) raw.ObjectRef {
	d := raw.NewDict()
	d.Set("Type", raw.NameOf("Pattern"))
	d.Set("PatternType", raw.Int(1))
	d.Set("PaintType", raw.Int(int64(p.PaintType)))
	d.Set("TilingType", raw.Int(1))
	d.Set("BBox", raw.Floats([]float64{0, 0, p.Width, p.Height}))
	xstep, ystep := p.XStep, p.YStep
	if xstep == 0 {
		xstep = p.Width
	}
	if ystep == 0 {
		ystep = p.Height
	}
	d.Set("XStep", raw.Real(xstep))
	d.Set("YStep", raw.Real(ystep))
	d.Set("Resources", p.Resources.Dict())
	if !p.Matrix.IsIdentity() {
		d.Set("Matrix", matrixArray(p.Matrix))
	}
	stream := raw.NewStream(d, p.Content)
	return ctx.AddObject(stream)
}

func matrixArray(m coords.Matrix) *raw.Array {
	return raw.Floats([]float64{m[0], m[1], m[2], m[3], m[4], m[5]})
}
