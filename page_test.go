package sealpdf

import (
	"strings"
	"testing"

	"github.com/grainpress/sealpdf/coords"
	"github.com/grainpress/sealpdf/fonts"
	"github.com/grainpress/sealpdf/raw"
)

// stubShaper hands back one fixed glyph per call, standing in for
// fonts.HarfbuzzShaper where no real font bytes are available.
type stubShaper struct {
	glyphs []fonts.ShapedGlyph
}

func (s stubShaper) Shape(text string, vertical bool) ([]fonts.ShapedGlyph, error) {
	return s.glyphs, nil
}

func TestFillTextDrawsACIDRunAndRegistersGlyphs(t *testing.T) {
	doc := New(DefaultSettings())
	fontRef, fontKey := doc.RegisterFont("TestFont", fonts.Descriptor{
		FontFileType:   "FontFile2",
		FontFile:       []byte{},
		UnitsPerEm:     1000,
		PostScriptName: "TestFont",
	}, map[int]int{65: 600}, 500)

	page := doc.StartPage(200, 200)
	shaper := stubShaper{glyphs: []fonts.ShapedGlyph{{GID: 65, Cluster: 0, XAdvance: 600}}}

	if err := page.FillText(coords.Point{X: 10, Y: 20}, shaper, "A", fontKey, fontRef, 12, false); err != nil {
		t.Fatalf("FillText: %v", err)
	}

	got := string(page.Surface().Builder().Bytes())
	if !strings.Contains(got, "BT") || !strings.Contains(got, "ET") || !strings.Contains(got, "] TJ") {
		t.Fatalf("expected a BT..TJ..ET text run, got %q", got)
	}
	if !strings.Contains(got, "<0041>") {
		t.Fatalf("expected CID 65 (0x0041) hex-encoded, got %q", got)
	}

	fr := doc.FontResource(fontKey)
	if fr.ToUnicode[65] == nil || fr.ToUnicode[65][0] != 'A' {
		t.Fatalf("expected ToUnicode[65] to record rune 'A', got %+v", fr.ToUnicode[65])
	}
	if !doc.analyzer.UsedSet(fontKey)[65] {
		t.Fatal("expected CID 65 to be recorded as used for subsetting")
	}
}

func TestFillTextRejectsOutlinedGlyphs(t *testing.T) {
	doc := New(DefaultSettings())
	_, fontKey := doc.RegisterFont("TestFont", fonts.Descriptor{FontFileType: "FontFile2"}, nil, 500)
	page := doc.StartPage(100, 100)
	err := page.FillText(coords.Point{}, stubShaper{}, "A", fontKey, raw.ObjectRef{}, 12, true)
	if err == nil {
		t.Fatal("expected an error for outlined=true, since no outline extraction exists")
	}
}

func TestFillColorGlyphDrawsThroughType3Chain(t *testing.T) {
	doc := New(DefaultSettings())
	res := doc.RegisterColorFont()
	page := doc.StartPage(100, 100)

	page.FillColorGlyph(coords.Point{X: 0, Y: 0}, res, 42, []byte("1 0 0 rg 0 0 1000 1000 re f"), 1000, 12)

	got := string(page.Surface().Builder().Bytes())
	if !strings.Contains(got, "BT") || !strings.Contains(got, "Tj") {
		t.Fatalf("expected a Type 3 glyph draw, got %q", got)
	}
	if fi, code, ok := res.Chain.Lookup(42); !ok || fi != 0 || code != 0 {
		t.Fatalf("expected CID 42 at (font 0, code 0), got (%d, %d, %v)", fi, code, ok)
	}
}

func TestDocumentFinishPatchesCIDsAfterSubsetting(t *testing.T) {
	// Compression is disabled so the final serialized bytes still carry the
	// content stream's hex-encoded CIDs in plain text for this test to find.
	doc := New(NewSettingsBuilder().WithCompressStreams(false).Build())
	fontRef, fontKey := doc.RegisterFont("TestFont", fonts.Descriptor{
		FontFileType: "FontFile2",
		UnitsPerEm:   1000,
	}, map[int]int{200: 600}, 500)

	page := doc.StartPage(200, 200)
	shaper := stubShaper{glyphs: []fonts.ShapedGlyph{{GID: 200, Cluster: 0, XAdvance: 600}}}
	if err := page.FillText(coords.Point{X: 0, Y: 0}, shaper, "A", fontKey, fontRef, 12, false); err != nil {
		t.Fatalf("FillText: %v", err)
	}

	out, _, err := doc.Finish([16]byte{})
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	// CID 200 is the only non-.notdef glyph used, so Plan renumbers it to 1;
	// the patched content stream must carry the new CID, not the original.
	if strings.Contains(string(out), "<00C8>") {
		t.Fatal("expected original CID 200 (0x00C8) to be remapped away")
	}
	if !strings.Contains(string(out), "<0001>") {
		t.Fatal("expected the remapped CID 1 to appear in the finished content stream")
	}
}
