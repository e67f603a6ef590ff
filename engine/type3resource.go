package engine

import (
	"fmt"

	"github.com/grainpress/sealpdf/fonts"
	"github.com/grainpress/sealpdf/raw"
)

// Type3Resource finalizes a fonts.Type3Chain of color/bitmap/SVG glyph
// procedures into real /Type3 font dictionaries, one per chained font.
// Mirrors FontResource's "reserve a ref up front, fill the dictionary in
// at Finalize" shape: AddGlyph reserves the next chained font's ref the
// moment a glyph overflows past 256, so content streams can select it with
// Tf before the chain is closed out.
type Type3Resource struct {
	Chain *fonts.Type3Chain
	ctx   *SerializeContext
	refs  []raw.ObjectRef
}

func NewType3Resource(ctx *SerializeContext) *Type3Resource {
	return &Type3Resource{Chain: fonts.NewType3Chain(), ctx: ctx}
}

// AddGlyph registers a color glyph's content-stream procedure and returns
// the font ref and single-byte code the caller draws it under.
func (r *Type3Resource) AddGlyph(g fonts.Type3Glyph) (fontRef raw.ObjectRef, code int) {
	fontIndex, code := r.Chain.Add(g)
	for len(r.refs) <= fontIndex {
		r.refs = append(r.refs, r.ctx.NewRef())
	}
	return r.refs[fontIndex], code
}

// Finalize writes every chained Type 3 font's dictionary — FontMatrix,
// CharProcs, Encoding/Differences, Widths — into ctx at its reserved ref.
// Grounded on spec §4.5's Type 3 color-glyph path and FontResource's
// object-graph shape, generalized from a CIDFontType2 trio to the simpler
// single-dictionary Type 3 font.
func (r *Type3Resource) Finalize() {
	for i, glyphs := range r.Chain.Fonts() {
		charProcs := raw.NewDict()
		diffs := raw.NewArray(raw.Int(0))
		widths := raw.NewArray()
		for code, g := range glyphs {
			name := fmt.Sprintf("g%d", code)
			procRef := r.ctx.AddObject(raw.NewStream(raw.NewDict(), g.Content))
			charProcs.Set(name, raw.RefTo(procRef))
			diffs.Append(raw.NameOf(name))
			widths.Append(raw.Real(g.Width))
		}
		encoding := raw.NewDict()
		encoding.Set("Differences", diffs)

		fontDict := raw.NewDict()
		fontDict.Set("Type", raw.NameOf("Font"))
		fontDict.Set("Subtype", raw.NameOf("Type3"))
		fontDict.Set("FontBBox", raw.Floats([]float64{0, 0, 1000, 1000}))
		fontDict.Set("FontMatrix", raw.Floats([]float64{0.001, 0, 0, 0.001, 0, 0}))
		fontDict.Set("CharProcs", charProcs)
		fontDict.Set("Encoding", encoding)
		fontDict.Set("FirstChar", raw.Int(0))
		fontDict.Set("LastChar", raw.Int(int64(len(glyphs)-1)))
		fontDict.Set("Widths", widths)
		r.ctx.SetObject(r.refs[i], fontDict)
	}
}
