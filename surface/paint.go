package surface

import (
	"github.com/grainpress/sealpdf/content"
	"github.com/grainpress/sealpdf/coords"
	"github.com/grainpress/sealpdf/gradient"
	"github.com/grainpress/sealpdf/raw"
)

// ColorRGB is a flat fill color, the non-pattern Paint variant.
type ColorRGB struct{ R, G, B float64 }

// Paint is spec §9's fill sum type: a path is always filled with exactly
// one of a flat color, one of the three gradient shading kinds, or an
// already-built pattern object, and FillPath handles every variant the
// same way at the content-builder boundary — the caller never needs to
// know which kind of fill it ended up with.
type Paint struct {
	Color          *ColorRGB
	LinearGradient *gradient.LinearGradient
	RadialGradient *gradient.RadialGradient
	SweepGradient  *gradient.SweepGradient
	Pattern        gradient.PatternObject
}

// FillPath fills path with paint. A flat Color emits a plain rg fill; any
// gradient variant is wrapped in a fresh gradient.ShadingPattern and
// registered as a /Pattern color space entry; an already-built Pattern
// (e.g. a gradient.TilingPattern) is registered directly. Every branch
// ends the same way — SetFillPattern or SetFillColorRGB followed by the
// path fill operator — so callers never special-case which Paint variant
// they're holding.
func (s *Surface) FillPath(path *content.Path, rule content.FillRule, paint Paint) {
	b := s.current()
	switch {
	case paint.Color != nil:
		b.SetFillColorRGB(paint.Color.R, paint.Color.G, paint.Color.B)
	case paint.Pattern != nil:
		b.SetFillPattern(paint.Pattern.Serialize(s.ctx))
	case paint.LinearGradient != nil:
		b.SetFillPattern(s.shadingPatternRef(paint.LinearGradient))
	case paint.RadialGradient != nil:
		b.SetFillPattern(s.shadingPatternRef(paint.RadialGradient))
	case paint.SweepGradient != nil:
		b.SetFillPattern(s.shadingPatternRef(paint.SweepGradient))
	default:
		panic("surface: FillPath called with an empty Paint")
	}
	b.FillPath(path, rule)
}

func (s *Surface) shadingPatternRef(shading gradient.Shading) raw.ObjectRef {
	pattern := &gradient.ShadingPattern{
		Shading:    shading,
		Matrix:     coords.Identity(),
		ColorSpace: raw.NameOf("DeviceRGB"),
	}
	return pattern.Serialize(s.ctx)
}
