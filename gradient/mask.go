package gradient

import (
	"github.com/grainpress/sealpdf/coords"
	"github.com/grainpress/sealpdf/engine"
	"github.com/grainpress/sealpdf/raw"
)

// HasVaryingAlpha reports whether any stop's alpha differs from 1, the
// trigger for synthesizing a luminosity mask rather than relying on a flat
// constant-alpha ExtGState.
func HasVaryingAlpha(stops []Stop) bool {
	for _, s := range stops {
		if s.Alpha != 1 {
			return true
		}
	}
	return false
}

// AlphaStops projects a stop list down to grayscale stops whose color is the
// replicated alpha value, used to render the luminosity mask form: the same
// gradient geometry, but painted in DeviceGray with each stop's color
// replaced by its alpha. Grounded on spec §4.8 and
// original_source/crates/krilla/src/graphics/mask.rs's approach of
// rendering a second, alpha-only copy of the same shading.
func AlphaStops(stops []Stop) []Stop {
	out := make([]Stop, len(stops))
	for i, s := range stops {
		out[i] = Stop{Offset: s.Offset, Color: []float64{s.Alpha}, Alpha: 1}
	}
	return out
}

// LuminosityMask builds the soft-mask Form XObject + ExtGState pair a
// gradient with per-stop alpha needs: a Form XObject containing the
// alpha-as-gray shading painted over the same geometry, wrapped as a
// /Luminosity soft mask referenced from an ExtGState.
type LuminosityMask struct {
	BBox          coords.Rect
	GrayShadingRef raw.ObjectRef
	GrayColorSpace raw.Object
}

// Serialize emits the mask Form XObject and the ExtGState that references
// it as /SMask, returning the ExtGState's ref for PushMask-style wrapping.
func (m *LuminosityMask) Serialize(ctx *engine.SerializeContext) raw.ObjectRef {
	formDict := raw.NewDict()
	formDict.Set("Type", raw.NameOf("XObject"))
	formDict.Set("Subtype", raw.NameOf("Form"))
	formDict.Set("BBox", raw.Floats([]float64{m.BBox.LLX, m.BBox.LLY, m.BBox.URX, m.BBox.URY}))
	formDict.Set("Group", groupDict())
	formRes := raw.NewDict()
	shDict := raw.NewDict()
	shDict.Set("s0", raw.RefTo(m.GrayShadingRef))
	formRes.Set("Shading", shDict)
	formDict.Set("Resources", formRes)
	content := []byte("/s0 sh\n")
	formStream := raw.NewStream(formDict, content)
	formRef := ctx.AddObject(formStream)

	gsDict := raw.NewDict()
	smaskDict := raw.NewDict()
	smaskDict.Set("Type", raw.NameOf("Mask"))
	smaskDict.Set("S", raw.NameOf("Luminosity"))
	smaskDict.Set("G", raw.RefTo(formRef))
	gsDict.Set("SMask", smaskDict)
	return ctx.AddObject(gsDict)
}

func groupDict() *raw.Dict {
	g := raw.NewDict()
	g.Set("Type", raw.NameOf("Group"))
	g.Set("S", raw.NameOf("Transparency"))
	g.Set("CS", raw.NameOf("DeviceGray"))
	return g
}
