package sealpdf

import (
	"fmt"

	"github.com/grainpress/sealpdf/content"
	"github.com/grainpress/sealpdf/coords"
	"github.com/grainpress/sealpdf/engine"
	"github.com/grainpress/sealpdf/fonts"
	"github.com/grainpress/sealpdf/raw"
	"github.com/grainpress/sealpdf/surface"
)

// Page is one reserved page in a Document. Its content.Builder (reached
// through Surface) is only constructed on first use, so a page a caller
// never draws into costs nothing beyond its reserved object number.
type Page struct {
	doc    *Document
	ref    raw.ObjectRef
	index  int
	width  float64
	height float64

	surf        *engine.Deferred[*surface.Surface]
	annotations []engine.LinkAnnotation
}

func newPage(doc *Document, ref raw.ObjectRef, index int, width, height float64) *Page {
	p := &Page{doc: doc, ref: ref, index: index, width: width, height: height}
	p.surf = engine.NewDeferred(func() *surface.Surface {
		return surface.New(doc.ctx, ref, doc.attachRootTag)
	})
	return p
}

// Surface returns this page's drawing facade, building it on first call.
func (p *Page) Surface() *surface.Surface { return p.surf.Force() }

// Ref returns the page's reserved indirect reference, for building
// destinations and outline entries that point at this page.
func (p *Page) Ref() raw.ObjectRef { return p.ref }

// AddLinkAnnotation attaches a URI or GoTo link annotation to this page.
func (p *Page) AddLinkAnnotation(a engine.LinkAnnotation) {
	p.annotations = append(p.annotations, a)
}

// collect closes the page's content stream (forcing its Surface even if
// nothing was ever drawn, so every page gets a valid, possibly-empty
// content stream) and returns its raw, pre-filter bytes plus any CID font
// runs still in their original (pre-subset) numbering. Document.Finish
// patches those runs once every font's subset plan is known, before
// finishWithContent compresses and registers the stream.
func (p *Page) collect() ([]byte, []content.FontByteRun, *raw.Dict) {
	surf := p.surf.Force()
	contentBytes, resources, _, fontRuns := surf.Finish()
	return contentBytes, fontRuns, resources
}

// finishWithContent compresses the already subset-remapped content bytes
// per the document's filter chain and builds this page's engine.PageEntry.
func (p *Page) finishWithContent(contentBytes []byte, resources *raw.Dict) engine.PageEntry {
	chain := p.doc.contentFilterChain()
	encoded := chain.Apply(contentBytes, 0)

	streamDict := raw.NewDict()
	if names := chain.Names(); len(names) > 0 {
		if len(names) == 1 {
			streamDict.Set("Filter", raw.NameOf(names[0]))
		} else {
			arr := raw.NewArray()
			for _, n := range names {
				arr.Append(raw.NameOf(n))
			}
			streamDict.Set("Filter", arr)
		}
	}
	contentRef := p.doc.ctx.AddObject(raw.NewStream(streamDict, encoded))

	return engine.PageEntry{
		Ref:                p.ref,
		ContentRef:         contentRef,
		Resources:          resources,
		MediaBox:           coords.Rect{LLX: 0, LLY: 0, URX: p.width, URY: p.height},
		Annotations:        p.annotations,
		StructParentsIndex: p.index,
	}
}

// FillText shapes text against shaper, registers each shaped glyph's CID
// with the document (growing the font's subsetting and ToUnicode data),
// and draws the run as a positioned CID glyph array at origin. Matches
// spec §4.3's fill_glyphs(origin, glyphs, font, text, size, outlined?)
// contract. outlined=true is not implemented: nothing in this module
// extracts glyph outlines (fonts.SubsetTrueType only zeroes/trims
// glyf-table entries, it never decomposes contours), so there is no
// rendering path to fabricate one from.
func (p *Page) FillText(origin coords.Point, shaper fonts.Shaper, text string, fontKey fonts.FontKey, fontRef raw.ObjectRef, size float64, outlined bool) error {
	if outlined {
		return fmt.Errorf("sealpdf: outlined glyph fill is not implemented")
	}
	glyphs, err := shaper.Shape(text, false)
	if err != nil {
		return fmt.Errorf("sealpdf: shape text: %w", err)
	}

	runes := []rune(text)
	fr := p.doc.FontResource(fontKey)

	runs := make([]content.GlyphRun, 0, len(glyphs))
	for _, g := range glyphs {
		cid := g.GID
		var cluster []rune
		if g.Cluster >= 0 && g.Cluster < len(runes) {
			cluster = []rune{runes[g.Cluster]}
		}
		p.doc.RegisterFontGlyph(fontKey, cid, cluster)

		width := float64(fr.DefaultWidth)
		if w, ok := fr.Widths[cid]; ok {
			width = float64(w)
		}
		runs = append(runs, content.GlyphRun{
			Bytes:      []byte{byte(cid >> 8), byte(cid)},
			AdjustNext: width - g.XAdvance,
		})
	}

	b := p.Surface().Builder()
	b.BeginText()
	b.SetFont(fontRef, size)
	b.SetTextMatrix(coords.Translate(origin.X, origin.Y))
	b.FillGlyphsForFont(fontKey, runs)
	b.EndText()
	return nil
}

// FillColorGlyph draws one color/bitmap/SVG glyph through a Type 3 font
// chain (see Document.RegisterColorFont): proc is the glyph's
// already-built content-stream procedure, sized in the same 1000-unit em
// square FillText's CID glyphs use, so mixed runs of outline and color
// glyphs line up under the same text size.
func (p *Page) FillColorGlyph(origin coords.Point, res *engine.Type3Resource, cid int, proc []byte, width, size float64) {
	fontRef, code := res.AddGlyph(fonts.Type3Glyph{CID: cid, Content: proc, Width: width})
	b := p.Surface().Builder()
	b.BeginText()
	b.SetFont(fontRef, size)
	b.SetTextMatrix(coords.Translate(origin.X, origin.Y))
	b.ShowText([]byte{byte(code)})
	b.EndText()
}
