package raw

import (
	"strings"
	"testing"
)

func TestSerializeDictOrderIsInsertionOrder(t *testing.T) {
	d := NewDict()
	d.Set("Type", NameOf("Page"))
	d.Set("Parent", RefTo(ObjectRef{Num: 3}))
	d.Set("MediaBox", Floats([]float64{0, 0, 200, 200}))

	got := string(Serialize(d))
	wantOrder := []string{"/Type /Page", "/Parent 3 0 R", "/MediaBox [0 0 200 200]"}
	pos := 0
	for _, frag := range wantOrder {
		idx := strings.Index(got[pos:], frag)
		if idx < 0 {
			t.Fatalf("expected %q in %q (searching from %d)", frag, got, pos)
		}
		pos += idx + len(frag)
	}
}

func TestSerializeStreamFraming(t *testing.T) {
	d := NewDict()
	s := NewStream(d, []byte("hello"))
	got := string(Serialize(s))
	if !strings.Contains(got, "/Length 5") {
		t.Fatalf("expected /Length 5 in %q", got)
	}
	if !strings.HasSuffix(got, "stream\nhello\nendstream") {
		t.Fatalf("unexpected stream framing: %q", got)
	}
}

func TestEscapeLiteralString(t *testing.T) {
	got := string(Serialize(Str([]byte("a(b)c\\d"))))
	want := `(a\(b\)c\\d)`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestHexString(t *testing.T) {
	got := string(Serialize(HexStr([]byte{0xAB, 0xCD})))
	if got != "<ABCD>" {
		t.Fatalf("got %q", got)
	}
}

func TestNumberFormatting(t *testing.T) {
	if got := string(Serialize(Int(42))); got != "42" {
		t.Fatalf("got %q", got)
	}
	if got := string(Serialize(Real(0.5))); got != "0.5" {
		t.Fatalf("got %q", got)
	}
}
