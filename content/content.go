// Package content implements the Content Builder: the write-direction
// counterpart of the teacher's contentstream.Processor. Where the teacher
// tokenizes an existing content stream and dispatches to operator handlers,
// Builder accumulates high-level drawing calls and emits PDF operators
// directly, tracking the same GraphicsState shape the teacher uses to
// interpret one.
package content

import (
	"bytes"
	"fmt"

	"github.com/grainpress/sealpdf/coords"
	"github.com/grainpress/sealpdf/raw"
	"github.com/grainpress/sealpdf/resources"
)

// GraphicsState mirrors contentstream.GraphicsState's save/restore shape,
// extended with the extra state a content stream actually needs to track to
// avoid re-emitting operators that wouldn't change anything.
type GraphicsState struct {
	CTM            coords.Matrix
	LineWidth      float64
	FillColorSpace string
	StrokeColorSpace string
	stack          []GraphicsState
}

// Save pushes a copy of the current state, matching contentstream.go's q
// operator semantics.
func (gs *GraphicsState) Save() { gs.stack = append(gs.stack, *gs) }

// Restore pops the most recently saved state. An empty stack is a
// programmer error — mismatched q/Q nesting — and aborts the process rather
// than returning a silently-ignorable error, per spec §4.3.
func (gs *GraphicsState) Restore() {
	n := len(gs.stack)
	if n == 0 {
		panic("content: Restore with empty state stack")
	}
	top := gs.stack[n-1]
	gs.stack = gs.stack[:n-1]
	*gs = top
}

// TextState mirrors contentstream.TextState.
type TextState struct {
	FontLocalName string
	FontSize      float64
	TextMatrix    coords.Matrix
	TextLineMatrix coords.Matrix
}

// PathOp is one segment of a path under construction.
type PathOp struct {
	Kind   PathOpKind
	Points []coords.Point // 1 point for MoveTo/LineTo, 3 for CurveTo, 0 for Close
}

type PathOpKind int

const (
	MoveTo PathOpKind = iota
	LineTo
	CurveTo
	ClosePath
)

// Path is a sequence of path construction operators, built independently of
// any particular Builder so callers can construct geometry once and draw it
// against multiple surfaces.
type Path struct{ Ops []PathOp }

func (p *Path) MoveTo(x, y float64) *Path {
	p.Ops = append(p.Ops, PathOp{Kind: MoveTo, Points: []coords.Point{{X: x, Y: y}}})
	return p
}
func (p *Path) LineTo(x, y float64) *Path {
	p.Ops = append(p.Ops, PathOp{Kind: LineTo, Points: []coords.Point{{X: x, Y: y}}})
	return p
}
func (p *Path) CurveTo(x1, y1, x2, y2, x3, y3 float64) *Path {
	p.Ops = append(p.Ops, PathOp{Kind: CurveTo, Points: []coords.Point{{x1, y1}, {x2, y2}, {x3, y3}}})
	return p
}
func (p *Path) Close() *Path {
	p.Ops = append(p.Ops, PathOp{Kind: ClosePath})
	return p
}

// BoundingBox computes the path's tight bbox in the coordinate space it was
// built in, used by Builder to accumulate the content stream's overall bbox.
func (p *Path) BoundingBox() coords.Rect {
	var pts []coords.Point
	for _, op := range p.Ops {
		pts = append(pts, op.Points...)
	}
	return coords.RectFromPoints(pts...)
}

// FillRule selects the f/f* operator variant.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// Builder accumulates PDF content-stream bytes for one stream (a page
// content stream, a Form XObject's content, or a tiling pattern cell).
type Builder struct {
	buf       bytes.Buffer
	gs        GraphicsState
	ts        TextState
	res       *resources.Set
	bbox      coords.Rect
	markOpen  bool
	nextMCID  int
	usedMCIDs []int
	fontRuns  []FontByteRun
}

func NewBuilder() *Builder {
	return &Builder{
		gs:   GraphicsState{CTM: coords.Identity(), LineWidth: 1},
		res:  resources.NewSet(),
		bbox: coords.EmptyRect(),
	}
}

func (b *Builder) Resources() *resources.Set { return b.res }
func (b *Builder) BoundingBox() coords.Rect  { return b.bbox }

// Bytes closes out the builder and returns the accumulated content stream.
// It panics if a marked-content region is still open, matching the
// single-open-region invariant spec §4.3 requires of every content stream.
func (b *Builder) Bytes() []byte {
	if b.markOpen {
		panic("content: Bytes called with an open marked-content region")
	}
	return b.buf.Bytes()
}

func (b *Builder) op(format string, args ...interface{}) {
	fmt.Fprintf(&b.buf, format, args...)
	b.buf.WriteByte('\n')
}

func fnum(v float64) string { return trimFloat(v) }

func trimFloat(v float64) string {
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

// SetFillColorRGB emits rg, skipped if the fill color is already set to the
// same value — the same only-if-changed rule ConcatMatrix and SetFont
// apply.
func (b *Builder) SetFillColorRGB(r, g, bl float64) {
	key := fmt.Sprintf("%s %s %s", fnum(r), fnum(g), fnum(bl))
	if key == b.gs.FillColorSpace {
		return
	}
	b.gs.FillColorSpace = key
	b.op("%s rg", key)
}

// SetStrokeColorRGB is SetFillColorRGB's RG counterpart for stroking color.
func (b *Builder) SetStrokeColorRGB(r, g, bl float64) {
	key := fmt.Sprintf("%s %s %s", fnum(r), fnum(g), fnum(bl))
	if key == b.gs.StrokeColorSpace {
		return
	}
	b.gs.StrokeColorSpace = key
	b.op("%s RG", key)
}

// SetFillPattern selects the Pattern color space and the given pattern's
// local resource name as the fill color, skipped if the same pattern is
// already selected — the same only-if-changed rule SetFillColorRGB
// applies, reusing FillColorSpace as the cache key so a plain rg and a
// pattern scn can never be confused for "already set".
func (b *Builder) SetFillPattern(ref raw.ObjectRef) {
	name := b.res.Pattern.Remap(ref)
	key := "pattern:" + name
	if key == b.gs.FillColorSpace {
		return
	}
	b.gs.FillColorSpace = key
	b.op("/Pattern cs")
	b.op("/%s scn", name)
}

// Save emits q and pushes the graphics state.
func (b *Builder) Save() {
	b.gs.Save()
	b.op("q")
}

// Restore emits Q and pops the graphics state.
func (b *Builder) Restore() {
	b.gs.Restore()
	b.op("Q")
}

// ConcatMatrix emits cm, skipped entirely when m is the identity — the
// "only-if-non-default emission" rule spec §4.3 calls for.
func (b *Builder) ConcatMatrix(m coords.Matrix) {
	if m.IsIdentity() {
		return
	}
	b.gs.CTM = m.Multiply(b.gs.CTM)
	b.op("%s %s %s %s %s %s cm", fnum(m[0]), fnum(m[1]), fnum(m[2]), fnum(m[3]), fnum(m[4]), fnum(m[5]))
}

func (b *Builder) emitPath(p *Path) {
	for _, seg := range p.Ops {
		switch seg.Kind {
		case MoveTo:
			pt := seg.Points[0]
			b.op("%s %s m", fnum(pt.X), fnum(pt.Y))
		case LineTo:
			pt := seg.Points[0]
			b.op("%s %s l", fnum(pt.X), fnum(pt.Y))
		case CurveTo:
			p1, p2, p3 := seg.Points[0], seg.Points[1], seg.Points[2]
			b.op("%s %s %s %s %s %s c", fnum(p1.X), fnum(p1.Y), fnum(p2.X), fnum(p2.Y), fnum(p3.X), fnum(p3.Y))
		case ClosePath:
			b.op("h")
		}
	}
	b.bbox = b.bbox.Union(p.BoundingBox().TransformedBy(b.gs.CTM))
}

// FillPath emits the path construction operators followed by f or f*.
func (b *Builder) FillPath(p *Path, rule FillRule) {
	b.emitPath(p)
	if rule == EvenOdd {
		b.op("f*")
	} else {
		b.op("f")
	}
}

// StrokePath emits the path construction operators followed by S, setting
// the line width first only if it differs from the current graphics state.
func (b *Builder) StrokePath(p *Path, lineWidth float64) {
	if lineWidth != b.gs.LineWidth {
		b.op("%s w", fnum(lineWidth))
		b.gs.LineWidth = lineWidth
	}
	b.emitPath(p)
	b.bbox = b.bbox.Union(p.BoundingBox().Dilate(lineWidth / 2).TransformedBy(b.gs.CTM))
	b.op("S")
}

// PushClipPath emits the path construction operators followed by W or W* and
// then n, establishing a new clip without painting.
func (b *Builder) PushClipPath(p *Path, rule FillRule) {
	b.emitPath(p)
	if rule == EvenOdd {
		b.op("W*")
	} else {
		b.op("W")
	}
	b.op("n")
}

// PushExtGState looks up (or registers) the given ExtGState ref and emits gs.
func (b *Builder) PushExtGState(ref raw.ObjectRef) {
	name := b.res.ExtGState.Remap(ref)
	b.op("/%s gs", name)
}

// DrawXObject emits a Do for the given XObject ref, after wrapping it with
// cm if a placement matrix is given.
func (b *Builder) DrawXObject(ref raw.ObjectRef, m coords.Matrix) {
	if !m.IsIdentity() {
		b.Save()
		b.ConcatMatrix(m)
	}
	name := b.res.XObject.Remap(ref)
	b.op("/%s Do", name)
	b.bbox = b.bbox.Union(coords.RectFromPoints(
		m.Transform(coords.Point{X: 0, Y: 0}),
		m.Transform(coords.Point{X: 1, Y: 1}),
	).TransformedBy(b.gs.CTM))
	if !m.IsIdentity() {
		b.Restore()
	}
}

// PaintShading emits sh for a direct (non-pattern) shading fill.
func (b *Builder) PaintShading(ref raw.ObjectRef) {
	name := b.res.Shading.Remap(ref)
	b.op("/%s sh", name)
}

// BeginText/EndText bracket a text-showing run with BT/ET, resetting the
// text matrices the way a PDF interpreter does on BT.
func (b *Builder) BeginText() {
	b.ts = TextState{TextMatrix: coords.Identity(), TextLineMatrix: coords.Identity()}
	b.op("BT")
}
func (b *Builder) EndText() { b.op("ET") }

// SetFont emits Tf, skipped if neither the font nor the size changed.
func (b *Builder) SetFont(ref raw.ObjectRef, size float64) {
	name := b.res.Font.Remap(ref)
	if name == b.ts.FontLocalName && size == b.ts.FontSize {
		return
	}
	b.ts.FontLocalName, b.ts.FontSize = name, size
	b.op("/%s %s Tf", name, fnum(size))
}

// SetTextMatrix emits Tm.
func (b *Builder) SetTextMatrix(m coords.Matrix) {
	b.ts.TextMatrix, b.ts.TextLineMatrix = m, m
	b.op("%s %s %s %s %s %s Tm", fnum(m[0]), fnum(m[1]), fnum(m[2]), fnum(m[3]), fnum(m[4]), fnum(m[5]))
}

// ShowText emits Tj for a literal-string-encoded glyph run (simple fonts).
func (b *Builder) ShowText(encoded []byte) {
	b.buf.Write(raw.Serialize(raw.Str(encoded)))
	b.op(" Tj")
}

// GlyphRun is one positioned run in a TJ array: bytes plus the adjustment
// (in thousandths of text space) to apply before the next run, used for CID
// fonts where individual glyph advances need explicit correction.
type GlyphRun struct {
	Bytes      []byte
	AdjustNext float64
}

// FillGlyphs emits a TJ array for a CID-keyed run with explicit
// per-glyph positioning adjustments, or a plain Tj when no adjustments are
// needed.
func (b *Builder) FillGlyphs(runs []GlyphRun) {
	needsArray := false
	for _, r := range runs {
		if r.AdjustNext != 0 {
			needsArray = true
			break
		}
	}
	if !needsArray {
		var all []byte
		for _, r := range runs {
			all = append(all, r.Bytes...)
		}
		b.ShowText(all)
		return
	}
	b.buf.WriteByte('[')
	for _, r := range runs {
		b.buf.Write(raw.Serialize(raw.HexStr(r.Bytes)))
		if r.AdjustNext != 0 {
			fmt.Fprintf(&b.buf, " %s", fnum(r.AdjustNext))
		}
	}
	b.buf.WriteString("] TJ\n")
}

// FontByteRun records where a hex-encoded CID run drawn by
// FillGlyphsForFont begins in this builder's byte stream, so
// Document.Finish can patch the CIDs in place once the font's final
// subset renumbering is known — at draw time the bytes are always the
// original (pre-subsetting) CIDs.
type FontByteRun struct {
	FontKey   int
	Offset    int // byte offset of the first hex digit, just after '<'
	NumGlyphs int // number of 2-byte CIDs, 4 hex digits each
}

// FillGlyphsForFont is FillGlyphs' CID-font counterpart: it always
// hex-encodes, unlike FillGlyphs' plain-Tj fast path, because a
// fixed-width hex run is the only encoding a later pass can safely locate
// and rewrite by byte offset (literal strings escape '(', ')' and '\',
// which would shift everything after the first escaped byte). Every run
// is recorded as a FontByteRun for that later pass to find.
func (b *Builder) FillGlyphsForFont(fontKey int, runs []GlyphRun) {
	if len(runs) == 0 {
		return
	}
	b.buf.WriteByte('[')
	for _, r := range runs {
		b.buf.WriteByte('<')
		offset := b.buf.Len()
		fmt.Fprintf(&b.buf, "%X", r.Bytes)
		b.fontRuns = append(b.fontRuns, FontByteRun{FontKey: fontKey, Offset: offset, NumGlyphs: len(r.Bytes) / 2})
		b.buf.WriteByte('>')
		if r.AdjustNext != 0 {
			fmt.Fprintf(&b.buf, " %s", fnum(r.AdjustNext))
		}
	}
	b.buf.WriteString("] TJ\n")
}

// FontRuns returns every CID byte run FillGlyphsForFont wrote into this
// stream, in write order.
func (b *Builder) FontRuns() []FontByteRun { return b.fontRuns }

// StartMarkedContent emits BDC for a tagged content span, with the MCID
// written as an inline properties dictionary rather than a Properties
// resource reference — spec §3 defines only the six categories above, and
// an inline "<< /MCID n >>" needs no resource slot at all. Opens the
// single-region invariant; returns the assigned MCID for tagtree linking.
func (b *Builder) StartMarkedContent(tag string) int {
	if b.markOpen {
		panic("content: StartMarkedContent called while a region is already open")
	}
	b.markOpen = true
	mcid := b.nextMCID
	b.nextMCID++
	b.usedMCIDs = append(b.usedMCIDs, mcid)
	b.op("/%s <</MCID %d>> BDC", tag, mcid)
	return mcid
}

// EndMarkedContent emits EMC and closes the region. Calling it with no
// region open is a programmer error and panics, mirroring Restore's
// stack-underflow behavior.
func (b *Builder) EndMarkedContent() {
	if !b.markOpen {
		panic("content: EndMarkedContent called with no open region")
	}
	b.markOpen = false
	b.op("EMC")
}

// MCIDs returns every MCID assigned to this stream's marked-content regions,
// in assignment order, for the tagtree parent-tree builder to consume.
func (b *Builder) MCIDs() []int { return b.usedMCIDs }
