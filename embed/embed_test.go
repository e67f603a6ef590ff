package embed

import (
	"bytes"
	"fmt"
	"testing"
)

// buildClassicPDF assembles a minimal well-formed classic-xref PDF with one
// page, recording each object's offset as it is written so the xref table
// below is always correct regardless of how the object bodies are edited.
func buildClassicPDF(objects []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	offsets := make([]int, len(objects)+1) // 1-indexed; offsets[0] unused
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d %05d n \n", offsets[i], 0)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(objects)+1, xrefStart)
	return buf.Bytes()
}

func samplePage() []byte {
	return buildClassicPDF([]string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		"<< /Length 24 >>\nstream\nBT /F1 12 Tf (Hi) Tj ET\nendstream",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	})
}

func TestLoadPageExtractsContentAndMediaBox(t *testing.T) {
	page, err := LoadPage(samplePage(), 0)
	if err != nil {
		t.Fatalf("LoadPage failed: %v", err)
	}
	if !bytes.Contains(page.Content, []byte("BT /F1 12 Tf")) {
		t.Fatalf("expected content stream bytes, got %q", page.Content)
	}
	if page.MediaBox != [4]float64{0, 0, 612, 792} {
		t.Fatalf("unexpected media box: %v", page.MediaBox)
	}
	if !bytes.Contains(page.Resources, []byte("/Font")) {
		t.Fatalf("expected resources to contain /Font, got %q", page.Resources)
	}
}

func TestLoadPageOutOfRange(t *testing.T) {
	_, err := LoadPage(samplePage(), 5)
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ErrPageOutOfRange {
		t.Fatalf("expected ErrPageOutOfRange, got %v", err)
	}
}

func TestLoadPageVersionMismatch(t *testing.T) {
	data := samplePage()
	data = bytes.Replace(data, []byte("%PDF-1.7"), []byte("%PDF-2.0"), 1)
	_, err := LoadPage(data, 0)
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ErrVersionMismatch {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestLoadPageInheritsMediaBoxFromParent(t *testing.T) {
	data := buildClassicPDF([]string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 200 300] >>",
		"<< /Type /Page /Parent 2 0 R /Contents 4 0 R /Resources << >> >>",
		"<< /Length 4 >>\nstream\nq Q\nendstream",
	})
	page, err := LoadPage(data, 0)
	if err != nil {
		t.Fatalf("LoadPage failed: %v", err)
	}
	if page.MediaBox != [4]float64{0, 0, 200, 300} {
		t.Fatalf("expected inherited media box, got %v", page.MediaBox)
	}
}
