package filters

import (
	"bytes"
	"compress/flate"
	"io"
	"testing"
)

func TestFlateEncodeRoundTrip(t *testing.T) {
	src := []byte("the quick brown fox jumps over the lazy dog, repeatedly, repeatedly, repeatedly")
	enc := FlateEncode(src, flate.BestCompression)
	r := flate.NewReader(bytes.NewReader(enc))
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("inflate failed: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("round trip mismatch: got %q want %q", got, src)
	}
}

func TestASCIIHexEncode(t *testing.T) {
	got := string(ASCIIHexEncode([]byte{0xAB, 0xCD}))
	if got != "ABCD>" {
		t.Fatalf("got %q", got)
	}
}

func TestChainAppliesInOrder(t *testing.T) {
	c := Chain{Methods: []Method{FlateDecode, ASCIIHexDecode}}
	out := c.Apply([]byte("payload"), 0)
	if out[len(out)-1] != '>' {
		t.Fatalf("expected ascii-hex-terminated output, got %q", out)
	}
}

func TestChainDCTPassthrough(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xD9}
	c := Chain{Methods: []Method{DCTDecode}}
	out := c.Apply(jpeg, 0)
	if !bytes.Equal(out, jpeg) {
		t.Fatalf("expected DCT passthrough to leave bytes unchanged, got %v", out)
	}
}

func TestNamesReversesApplicationOrder(t *testing.T) {
	c := Chain{Methods: []Method{FlateDecode, ASCIIHexDecode}}
	names := c.Names()
	if names[0] != string(ASCIIHexDecode) || names[1] != string(FlateDecode) {
		t.Fatalf("got %v", names)
	}
}
