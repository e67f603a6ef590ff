package content

import (
	"strings"
	"testing"

	"github.com/grainpress/sealpdf/coords"
	"github.com/grainpress/sealpdf/raw"
)

func TestSaveRestoreEmitsQQ(t *testing.T) {
	b := NewBuilder()
	b.Save()
	b.Restore()
	got := string(b.Bytes())
	if got != "q\nQ\n" {
		t.Fatalf("got %q", got)
	}
}

func TestRestoreUnderflowPanics(t *testing.T) {
	b := NewBuilder()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unmatched Restore")
		}
	}()
	b.Restore()
}

func TestConcatMatrixSkipsIdentity(t *testing.T) {
	b := NewBuilder()
	b.ConcatMatrix(coords.Identity())
	if len(b.Bytes()) != 0 {
		t.Fatalf("expected no cm emitted for identity, got %q", b.Bytes())
	}
}

func TestFillPathEmitsOperators(t *testing.T) {
	b := NewBuilder()
	p := (&Path{}).MoveTo(0, 0).LineTo(10, 0).LineTo(10, 10).Close()
	b.FillPath(p, NonZero)
	got := string(b.Bytes())
	if !strings.Contains(got, "0 0 m") || !strings.Contains(got, "h\n") || !strings.HasSuffix(got, "f\n") {
		t.Fatalf("unexpected fill output: %q", got)
	}
}

func TestFillPathEvenOdd(t *testing.T) {
	b := NewBuilder()
	p := (&Path{}).MoveTo(0, 0).LineTo(1, 1).Close()
	b.FillPath(p, EvenOdd)
	if !strings.HasSuffix(string(b.Bytes()), "f*\n") {
		t.Fatalf("expected f*, got %q", b.Bytes())
	}
}

func TestMarkedContentSingleRegionInvariant(t *testing.T) {
	b := NewBuilder()
	mcid := b.StartMarkedContent("P")
	if mcid != 0 {
		t.Fatalf("expected first MCID 0, got %d", mcid)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nested StartMarkedContent")
		}
	}()
	b.StartMarkedContent("Span")
}

func TestBytesPanicsWithOpenRegion(t *testing.T) {
	b := NewBuilder()
	b.StartMarkedContent("P")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on Bytes() with open region")
		}
	}()
	b.Bytes()
}

func TestEndMarkedContentWithoutStartPanics(t *testing.T) {
	b := NewBuilder()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	b.EndMarkedContent()
}

func TestSetFontSkipsRedundantTf(t *testing.T) {
	b := NewBuilder()
	ref := raw.ObjectRef{Num: 1}
	b.SetFont(ref, 12)
	b.SetFont(ref, 12)
	got := string(b.Bytes())
	if strings.Count(got, "Tf") != 1 {
		t.Fatalf("expected exactly one Tf emission, got %q", got)
	}
}

func TestDrawXObjectRegistersResource(t *testing.T) {
	b := NewBuilder()
	ref := raw.ObjectRef{Num: 4}
	b.DrawXObject(ref, coords.Identity())
	if !strings.Contains(string(b.Bytes()), "/x0 Do") {
		t.Fatalf("got %q", b.Bytes())
	}
	if b.Resources().XObject.Len() != 1 {
		t.Fatal("expected one XObject resource registered")
	}
}

func TestFillGlyphsPlainWhenNoAdjustments(t *testing.T) {
	b := NewBuilder()
	b.FillGlyphs([]GlyphRun{{Bytes: []byte("hi")}})
	if !strings.Contains(string(b.Bytes()), "Tj") || strings.Contains(string(b.Bytes()), "TJ") {
		t.Fatalf("expected plain Tj, got %q", b.Bytes())
	}
}

func TestFillGlyphsArrayWhenAdjusted(t *testing.T) {
	b := NewBuilder()
	b.FillGlyphs([]GlyphRun{{Bytes: []byte{0, 1}, AdjustNext: -50}, {Bytes: []byte{0, 2}}})
	if !strings.Contains(string(b.Bytes()), "] TJ") {
		t.Fatalf("expected TJ array, got %q", b.Bytes())
	}
}

func TestSetFillPatternEmitsPatternColorSpaceOnce(t *testing.T) {
	b := NewBuilder()
	ref := raw.ObjectRef{Num: 7}
	b.SetFillPattern(ref)
	b.SetFillPattern(ref)
	got := string(b.Bytes())
	if strings.Count(got, "/Pattern cs") != 1 || strings.Count(got, "scn") != 1 {
		t.Fatalf("expected exactly one cs/scn pair for an unchanged pattern, got %q", got)
	}
	if b.Resources().Pattern.Len() != 1 {
		t.Fatal("expected one Pattern resource registered")
	}
}

func TestFillGlyphsForFontHexEncodesAndRecordsRuns(t *testing.T) {
	b := NewBuilder()
	b.FillGlyphsForFont(3, []GlyphRun{{Bytes: []byte{0x00, 0xC8}, AdjustNext: -50}})
	got := string(b.Bytes())
	if !strings.Contains(got, "<00C8>") || !strings.Contains(got, "] TJ") {
		t.Fatalf("expected hex-encoded TJ array, got %q", got)
	}
	runs := b.FontRuns()
	if len(runs) != 1 || runs[0].FontKey != 3 || runs[0].NumGlyphs != 1 {
		t.Fatalf("unexpected font runs: %+v", runs)
	}
	if string(got[runs[0].Offset:runs[0].Offset+4]) != "00C8" {
		t.Fatalf("recorded offset doesn't point at the hex digits: %q", got[runs[0].Offset:runs[0].Offset+4])
	}
}
