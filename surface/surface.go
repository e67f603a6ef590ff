// Package surface implements the immediate-mode drawing facade every page
// is drawn through: push/pop state (transform, opacity, clip, blend mode,
// mask, isolation) and tagged-content spans, both backed by a stack that is
// asserted empty when the surface is finished. Grounded on the teacher's
// builder package's "thin wrapper with a lifecycle, Build()-time finalize"
// shape, generalized from a narrow forms helper into the full drawing stack.
package surface

import (
	"strconv"

	"github.com/grainpress/sealpdf/content"
	"github.com/grainpress/sealpdf/coords"
	"github.com/grainpress/sealpdf/engine"
	"github.com/grainpress/sealpdf/raw"
	"github.com/grainpress/sealpdf/tagtree"
)

type pushKind int

const (
	pushTransform pushKind = iota
	pushOpacity
	pushClip
	pushBlendMode
	pushMask
	pushIsolated
)

type pushFrame struct {
	kind pushKind
}

// Surface is the drawing facade for one page (or one isolated sub-group
// within a page). One content.Builder backs the currently active drawing
// target; PushIsolated opens a fresh one on top of the stack, closed back
// into a Form XObject on the matching Pop.
type Surface struct {
	ctx      *engine.SerializeContext
	page     raw.ObjectRef
	builders []*content.Builder
	pushLog  []pushFrame
	tagStack []*tagtree.Group

	// attachRoot receives a tag group opened with no enclosing tag on this
	// surface's stack, letting the owning Document thread it into its
	// document-wide tagtree.Tree without surface importing Document.
	attachRoot func(*tagtree.Group)
}

// New creates a Surface drawing directly into one page's content stream.
// page is the page's (already-reserved) indirect reference, used to tag
// marked-content regions for the structure tree's /ParentTree.
func New(ctx *engine.SerializeContext, page raw.ObjectRef, attachRoot func(*tagtree.Group)) *Surface {
	return &Surface{
		ctx:        ctx,
		page:       page,
		builders:   []*content.Builder{content.NewBuilder()},
		attachRoot: attachRoot,
	}
}

func (s *Surface) current() *content.Builder { return s.builders[len(s.builders)-1] }

// Builder exposes the active content.Builder for direct drawing calls
// (FillPath, ShowText, DrawXObject, ...) that don't need push/pop framing.
func (s *Surface) Builder() *content.Builder { return s.current() }

// PushTransform concatenates m onto the active builder's CTM, scoped to the
// matching Pop.
func (s *Surface) PushTransform(m coords.Matrix) {
	s.current().Save()
	s.current().ConcatMatrix(m)
	s.pushLog = append(s.pushLog, pushFrame{kind: pushTransform})
}

// PushOpacity sets both non-stroking and stroking alpha via a cached
// ExtGState, scoped to the matching Pop.
func (s *Surface) PushOpacity(alpha float64) {
	ref := s.ctx.RegisterCacheable(opacityKey(alpha), func() raw.Object {
		d := raw.NewDict()
		d.Set("ca", raw.Real(alpha))
		d.Set("CA", raw.Real(alpha))
		return d
	})
	s.current().Save()
	s.current().PushExtGState(ref)
	s.pushLog = append(s.pushLog, pushFrame{kind: pushOpacity})
}

func opacityKey(alpha float64) []byte {
	return []byte("opacity:" + strconv.FormatFloat(alpha, 'f', 6, 64))
}

// PushClipPath intersects the current clip with path, scoped to the
// matching Pop.
func (s *Surface) PushClipPath(path *content.Path, rule content.FillRule) {
	s.current().Save()
	s.current().PushClipPath(path, rule)
	s.pushLog = append(s.pushLog, pushFrame{kind: pushClip})
}

// PushBlendMode sets the active blend mode via a cached ExtGState, scoped to
// the matching Pop.
func (s *Surface) PushBlendMode(mode string) {
	ref := s.ctx.RegisterCacheable([]byte("blend:"+mode), func() raw.Object {
		d := raw.NewDict()
		d.Set("BM", raw.NameOf(mode))
		return d
	})
	s.current().Save()
	s.current().PushExtGState(ref)
	s.pushLog = append(s.pushLog, pushFrame{kind: pushBlendMode})
}

// PushMask applies a luminosity or alpha soft mask (already registered, e.g.
// via gradient.LuminosityMask.Serialize) via ExtGState /SMask, scoped to the
// matching Pop.
func (s *Surface) PushMask(maskExtGState raw.ObjectRef) {
	s.current().Save()
	s.current().PushExtGState(maskExtGState)
	s.pushLog = append(s.pushLog, pushFrame{kind: pushMask})
}

// PushIsolated opens a fresh content.Builder as an isolated transparency
// group; drawing calls made before the matching Pop target this sub-builder
// instead of the enclosing one.
func (s *Surface) PushIsolated() {
	s.builders = append(s.builders, content.NewBuilder())
	s.pushLog = append(s.pushLog, pushFrame{kind: pushIsolated})
}

// Pop closes the most recently opened push scope. Popping with nothing open
// is a programmer error and panics, matching content.Builder's own
// stack-underflow behavior.
func (s *Surface) Pop() {
	n := len(s.pushLog)
	if n == 0 {
		panic("surface: Pop called with nothing open")
	}
	frame := s.pushLog[n-1]
	s.pushLog = s.pushLog[:n-1]

	if frame.kind == pushIsolated {
		sub := s.builders[len(s.builders)-1]
		s.builders = s.builders[:len(s.builders)-1]
		ref := s.buildFormXObject(sub, true)
		s.current().DrawXObject(ref, coords.Identity())
		return
	}
	s.current().Restore()
}

func (s *Surface) buildFormXObject(b *content.Builder, isolated bool) raw.ObjectRef {
	bbox := b.BoundingBox()
	if bbox.IsEmpty() {
		bbox = coords.RectFromPoints(coords.Point{}, coords.Point{})
	}
	dict := raw.NewDict()
	dict.Set("Type", raw.NameOf("XObject"))
	dict.Set("Subtype", raw.NameOf("Form"))
	dict.Set("BBox", raw.Floats([]float64{bbox.LLX, bbox.LLY, bbox.URX, bbox.URY}))
	dict.Set("Resources", b.Resources().Dict())
	if isolated {
		group := raw.NewDict()
		group.Set("Type", raw.NameOf("Group"))
		group.Set("S", raw.NameOf("Transparency"))
		group.Set("I", raw.Bool(true))
		dict.Set("Group", group)
	}
	return s.ctx.AddObject(raw.NewStream(dict, b.Bytes()))
}

// StartTagged opens a structure element of the given type and a matching
// marked-content region in one step, linking the two via the returned MCID.
// The new tag group is attached as a child of whichever tag is currently
// open on this surface, or routed to attachRoot if none is.
func (s *Surface) StartTagged(structType string) int {
	mcid := s.current().StartMarkedContent(structType)
	group := tagtree.NewGroup(structType)
	group.AddMarkedContent(s.page, mcid)
	if len(s.tagStack) > 0 {
		s.tagStack[len(s.tagStack)-1].AddChild(group)
	} else if s.attachRoot != nil {
		s.attachRoot(group)
	}
	s.tagStack = append(s.tagStack, group)
	return mcid
}

// CurrentTag returns the tag group opened by the innermost unfinished
// StartTagged call, for setting Alt/Lang/ActualText before EndTagged.
func (s *Surface) CurrentTag() *tagtree.Group {
	if len(s.tagStack) == 0 {
		return nil
	}
	return s.tagStack[len(s.tagStack)-1]
}

// EndTagged closes the innermost open tagged span. Calling it with nothing
// open is a programmer error and panics.
func (s *Surface) EndTagged() {
	if len(s.tagStack) == 0 {
		panic("surface: EndTagged called with no tag open")
	}
	s.current().EndMarkedContent()
	s.tagStack = s.tagStack[:len(s.tagStack)-1]
}

// Finish closes out the base content stream. It panics if any push scope or
// tag span is still open, matching spec §4.4's drop-time assertion.
// fontRuns carries every CID byte run FillGlyphsForFont wrote, still
// keyed to the original (pre-subsetting) CID numbering — the caller patches
// them in place once every font's final subset plan is known.
func (s *Surface) Finish() (contentBytes []byte, resources *raw.Dict, bbox coords.Rect, fontRuns []content.FontByteRun) {
	if len(s.pushLog) != 0 {
		panic("surface: Finish called with an open push scope")
	}
	if len(s.tagStack) != 0 {
		panic("surface: Finish called with an open tag span")
	}
	base := s.builders[0]
	return base.Bytes(), base.Resources().Dict(), base.BoundingBox(), base.FontRuns()
}
