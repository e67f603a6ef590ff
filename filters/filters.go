// Package filters encodes content-stream and resource bytes for output.
// This is the write-direction counterpart of a PDF filter pipeline: the
// teacher's filters package decodes an existing PDF's streams, this package
// only ever encodes what sealpdf itself produces. CCITT/JBIG2/JPX decoding
// is dropped entirely — decoding raster formats is an external collaborator
// per the engine's scope, never something this library does.
package filters

import (
	"bytes"
	"compress/flate"
	"encoding/hex"
	"fmt"
)

// Method names a PDF stream filter by its /Filter name.
type Method string

const (
	FlateDecode    Method = "FlateDecode"
	ASCIIHexDecode Method = "ASCIIHexDecode"
	DCTDecode      Method = "DCTDecode"
)

// FlateEncode compresses data with DEFLATE at the given zlib compression
// level (flate.DefaultCompression if level is 0), matching the teacher's
// writer_impl.go flateEncode helper.
func FlateEncode(data []byte, level int) []byte {
	if level == 0 {
		level = flate.DefaultCompression
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		// Only invalid levels get here; DefaultCompression is always valid.
		panic(fmt.Sprintf("filters: invalid flate level %d: %v", level, err))
	}
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

// ASCIIHexEncode wraps data as an ASCIIHexDecode stream body, including the
// PDF end-of-data marker, with upper-case hex digits. Used only when
// Settings.ASCIICompatible demands that binary stream bytes stay within the
// printable ASCII range.
func ASCIIHexEncode(data []byte) []byte {
	dst := make([]byte, hex.EncodedLen(len(data))+1)
	hex.Encode(dst, data)
	dst[len(dst)-1] = '>'
	return bytes.ToUpper(dst)
}

// Chain describes the filter pipeline applied to a stream, in application
// (encode) order; Names gives the reverse, decode order that /Filter lists.
type Chain struct {
	Methods []Method
}

// Apply runs raw through the chain's encoders in order. JPEG bytes tagged
// DCTDecode are passed through unchanged per the engine's "never re-encode
// JPEG" contract; every other method in the chain transforms the bytes.
func (c Chain) Apply(raw []byte, compressionLevel int) []byte {
	data := raw
	for _, m := range c.Methods {
		switch m {
		case FlateDecode:
			data = FlateEncode(data, compressionLevel)
		case ASCIIHexDecode:
			data = ASCIIHexEncode(data)
		case DCTDecode:
			// passthrough: JPEG data is never re-encoded.
		}
	}
	return data
}

// Names returns the /Filter name list for this chain, in application order
// reversed (PDF lists filters in decode order, i.e. the order a reader
// applies them, which is the reverse of how we encoded).
func (c Chain) Names() []string {
	names := make([]string, len(c.Methods))
	for i, m := range c.Methods {
		names[len(c.Methods)-1-i] = string(m)
	}
	return names
}

// NewContentChain builds the standard content-stream filter chain: Flate
// unless compression is disabled, then ASCIIHex if ascii-compatible output
// is required.
func NewContentChain(compress, asciiCompatible bool) Chain {
	var c Chain
	if compress {
		c.Methods = append(c.Methods, FlateDecode)
	}
	if asciiCompatible {
		c.Methods = append(c.Methods, ASCIIHexDecode)
	}
	return c
}
