package fonts

// Type3Glyph is one color glyph's content-stream procedure, keyed by the
// CID the surface drew it under. Color glyphs (emoji, COLR/CPAL, SVG-in-
// font) can't be expressed as outline CID glyphs, so each one becomes its
// own tiny content stream run through a Type 3 font's CharProcs, per spec
// §4.5.
type Type3Glyph struct {
	CID     int
	Content []byte // content-stream procedure body, already built by content.Builder
	Width   float64
}

// maxGlyphsPerType3Font is the PDF-imposed ceiling: a Type 3 font's
// /CharProcs and /Encoding /Differences index glyphs by a single byte code,
// so at most 256 distinct procedures fit in one font.
const maxGlyphsPerType3Font = 256

// Type3Chain holds the sequence of Type 3 font "pages" produced for one
// logical color-glyph font once its glyph count crosses 256: chain[0] holds
// the first 256 glyphs drawn, chain[1] the next 256, and so on. Grounded on
// spec §4.5's "new font created on overflow" rule; naming follows
// original_source/krilla's per-color-glyph Type3 font convention.
type Type3Chain struct {
	fonts [][]Type3Glyph
	index map[int]int // CID -> which chain entry holds it
	slot  map[int]int // CID -> byte code within that chain entry
}

func NewType3Chain() *Type3Chain {
	return &Type3Chain{index: make(map[int]int), slot: make(map[int]int)}
}

// Add registers a color glyph, creating a new chained font once the current
// one is full. Returns which font in the chain holds it and its byte code
// within that font's /Encoding.
func (c *Type3Chain) Add(g Type3Glyph) (fontIndex, code int) {
	if len(c.fonts) == 0 || len(c.fonts[len(c.fonts)-1]) >= maxGlyphsPerType3Font {
		c.fonts = append(c.fonts, nil)
	}
	fontIndex = len(c.fonts) - 1
	code = len(c.fonts[fontIndex])
	c.fonts[fontIndex] = append(c.fonts[fontIndex], g)
	c.index[g.CID] = fontIndex
	c.slot[g.CID] = code
	return
}

// Lookup returns the (fontIndex, code) pair Add assigned to cid.
func (c *Type3Chain) Lookup(cid int) (fontIndex, code int, ok bool) {
	fi, found := c.index[cid]
	if !found {
		return 0, 0, false
	}
	return fi, c.slot[cid], true
}

// Fonts returns the completed chain, one glyph slice per Type 3 font.
func (c *Type3Chain) Fonts() [][]Type3Glyph { return c.fonts }
