// Package sealpdf is the public API: start a Document, draw on each Page's
// Surface, Finish to get serialized PDF bytes plus any accumulated
// compliance violations. Grounded on the teacher's top-level Writer/Config
// split (writer/writer.go), generalized from a "serialize a pre-built
// semantic.Document" entry point into a drawing-time API that builds its
// own object graph incrementally via engine.SerializeContext.
package sealpdf

import (
	"github.com/grainpress/sealpdf/compliance"
	"github.com/grainpress/sealpdf/content"
	"github.com/grainpress/sealpdf/engine"
	"github.com/grainpress/sealpdf/filters"
	"github.com/grainpress/sealpdf/fonts"
	"github.com/grainpress/sealpdf/raw"
	"github.com/grainpress/sealpdf/tagtree"
)

// ValidationError is one compliance problem accumulated while drawing,
// returned alongside Finish's output bytes rather than failing the call —
// spec §7 treats validation errors and unrecoverable errors as two
// different surfaces.
type ValidationError = compliance.Violation

// Document is the root object: configure it with Settings, draw pages, then
// call Finish once.
type Document struct {
	settings Settings
	ctx      *engine.SerializeContext
	container *engine.ChunkContainer
	analyzer *fonts.Analyzer
	tagTree  *tagtree.Tree

	pages []*Page
	fontResources []*engine.FontResource
	type3Resources []*engine.Type3Resource

	Info engine.DocumentInfo
	Lang string
}

// New creates a Document under the given settings. A PDF/A or PDF/UA
// validator configured on settings.Validator gates which violation codes
// RegisterValidationError records for the lifetime of the document.
func New(settings Settings) *Document {
	ctx := engine.NewSerializeContext(settings.Validator, settings.NoDeviceCS)
	ctx.SetLogger(settings.Logger)
	ctx.SetTracer(settings.Tracer)
	analyzer := fonts.NewAnalyzer()
	ctx.SetFontUsageRecorder(analyzer)

	d := &Document{
		settings:  settings,
		ctx:       ctx,
		container: engine.NewChunkContainer(ctx),
		analyzer:  analyzer,
	}
	if settings.Tagged {
		d.tagTree = tagtree.NewTree()
	}
	return d
}

// Context exposes the document's SerializeContext for packages (gradient,
// image) that register cacheable objects directly.
func (d *Document) Context() *engine.SerializeContext { return d.ctx }

func (d *Document) attachRootTag(g *tagtree.Group) {
	if d.tagTree != nil {
		d.tagTree.AddRoot(g)
	}
}

// StartPage reserves a page and returns it; its content stream is not built
// until Surface() is first called on it (Page.surf is a Deferred), and is
// not written into the object graph until Finish.
func (d *Document) StartPage(width, height float64) *Page {
	ref := d.ctx.NewRef()
	index := len(d.pages)
	p := newPage(d, ref, index, width, height)
	d.pages = append(d.pages, p)
	return p
}

// RegisterFont reserves a placeholder object and an engine.FontResource for
// a CID font, to be finalized (subsetted to the glyphs actually drawn) at
// Finish. Callers pass the returned ref to content.Builder.SetFont.
func (d *Document) RegisterFont(baseFont string, descriptor fonts.Descriptor, widths map[int]int, defaultWidth int) (raw.ObjectRef, fonts.FontKey) {
	ref := d.ctx.NewRef()
	key := len(d.fontResources)
	d.fontResources = append(d.fontResources, &engine.FontResource{
		Key:          key,
		Ref:          ref,
		BaseFont:     baseFont,
		Descriptor:   descriptor,
		Widths:       widths,
		DefaultWidth: defaultWidth,
		ToUnicode:    make(map[int][]rune),
		Registry:     "Adobe",
		Ordering:     "Identity",
		Supplement:   0,
	})
	return ref, key
}

// FontResource returns the reserved font resource for key, so callers can
// fill in ToUnicode entries as text is drawn.
func (d *Document) FontResource(key fonts.FontKey) *engine.FontResource {
	return d.fontResources[key]
}

// RegisterFontGlyph records that a shaped glyph (cid, under the assumed
// Identity-H encoding GID == CID) was drawn under key, feeding the
// subsetting pass, and fills in the font's /ToUnicode entry for cid from
// cluster's source runes the first time cid is seen. Wraps
// engine.SerializeContext.RegisterFontGlyph (spec §4.1's register_font_glyph
// contract) with the ToUnicode bookkeeping only the root package can do,
// since engine.FontResource.ToUnicode lives here, not in engine.
func (d *Document) RegisterFontGlyph(key fonts.FontKey, cid int, cluster []rune) int {
	d.ctx.RegisterFontGlyph(key, cid)
	if len(cluster) > 0 {
		fr := d.FontResource(key)
		if _, ok := fr.ToUnicode[cid]; !ok {
			fr.ToUnicode[cid] = cluster
		}
	}
	return cid
}

// RegisterColorFont reserves a Type3Resource for color/bitmap/SVG glyphs
// that can't be expressed as CID outlines — emoji, COLR/CPAL, SVG-in-font
// — per spec §4.5. Each drawn glyph becomes its own tiny content-stream
// procedure in the chain's CharProcs; the chain opens a new Type 3 font
// automatically once the current one holds 256 glyphs.
func (d *Document) RegisterColorFont() *engine.Type3Resource {
	r := engine.NewType3Resource(d.ctx)
	d.type3Resources = append(d.type3Resources, r)
	return r
}

// Finish closes out every page, finalizes every registered font subset,
// wires tagging/output-intent into the catalog, and serializes the whole
// document. The returned validation errors are populated only when
// settings.Validator is non-nil.
func (d *Document) Finish(documentID [16]byte) ([]byte, []ValidationError, error) {
	type rawPage struct {
		bytes     []byte
		fontRuns  []content.FontByteRun
		resources *raw.Dict
	}
	raws := make([]rawPage, len(d.pages))
	for i, p := range d.pages {
		b, runs, res := p.collect()
		raws[i] = rawPage{bytes: b, fontRuns: runs, resources: res}
	}

	// Every page's drawn CID bytes are still in their original, pre-subset
	// numbering at this point; each font's subset plan is only known once
	// Finalize sees every page's usage, so the byte patch below has to run
	// after this loop, not inside Page.collect.
	subsets := make(map[fonts.FontKey]*fonts.Subset, len(d.fontResources))
	for _, fr := range d.fontResources {
		subsets[fr.Key] = fr.Finalize(d.ctx, d.analyzer)
	}
	for _, t3 := range d.type3Resources {
		t3.Finalize()
	}

	for i, rp := range raws {
		patched := rp.bytes
		for _, run := range rp.fontRuns {
			if subset, ok := subsets[run.FontKey]; ok {
				patched = subset.RemapHexCIDs(patched, run.Offset, run.NumGlyphs)
			}
		}
		entry := d.pages[i].finishWithContent(patched, rp.resources)
		d.container.Pages = append(d.container.Pages, entry)
	}

	if d.tagTree != nil {
		for i, p := range d.pages {
			d.tagTree.RegisterPage(p.ref, i)
		}
		d.container.StructTreeRoot = d.tagTree.Serialize(d.ctx)
		d.container.Marked = true
	}

	if d.settings.CMYKProfile != nil {
		profileRef := d.ctx.RegisterColorSpace(d.settings.CMYKProfile)
		intent := raw.NewDict()
		intent.Set("Type", raw.NameOf("OutputIntent"))
		intent.Set("S", raw.NameOf("GTS_PDFA1"))
		intent.Set("OutputConditionIdentifier", raw.Str([]byte("Custom")))
		intent.Set("DestOutputProfile", raw.RefTo(profileRef))
		d.container.OutputIntent = d.ctx.AddObject(intent)
	} else if d.ctx.Validator() != nil {
		d.ctx.RegisterValidationError(compliance.Violation{
			Code:        "INT001",
			Description: "no output intent configured",
		})
	}

	d.container.Info = d.Info
	d.container.Lang = d.Lang
	if d.Info.Title == "" && d.ctx.Validator() != nil {
		d.ctx.RegisterValidationError(compliance.Violation{Code: "MET001", Description: "no document title set"})
	}
	if d.Lang == "" && d.ctx.Validator() != nil {
		d.ctx.RegisterValidationError(compliance.Violation{Code: "MET002", Description: "no document language set"})
	}
	d.container.Info.Producer = d.settings.Producer

	seed := engine.FileIDSeed(d.settings.Producer, documentID[:])
	out := d.container.Finish(string(d.settings.Version), seed)
	return out, d.ctx.ValidationErrors(), nil
}

// contentFilterChain is shared by every page's content stream, grounded on
// spec §6's FlateDecode-then-optional-ASCIIHex pipeline.
func (d *Document) contentFilterChain() filters.Chain {
	return filters.NewContentChain(d.settings.CompressStreams, d.settings.ASCIICompatible)
}
