// Package image holds the cacheable Image XObject representation: raw
// sample data plus the metadata needed to write an /Image XObject
// dictionary, deferring the actual filter encoding until the engine is
// ready to serialize it. Grounded on ir/semantic.XObject's unified
// Image/Form shape, trimmed to the image half — Form XObjects live in
// content/gradient instead, built directly as raw.Stream wrappers around a
// content.Builder's bytes.
package image

import (
	"crypto/sha256"

	"github.com/grainpress/sealpdf/cmm"
	"github.com/grainpress/sealpdf/filters"
)

// ColorSpaceKind names the interpretation of Image.Samples.
type ColorSpaceKind int

const (
	DeviceGray ColorSpaceKind = iota
	DeviceRGB
	DeviceCMYK
	ICCBased
)

// SourceFormat distinguishes raw sample data (subject to FlateEncode) from
// an already-JPEG-encoded source (passed through via DCTDecode, never
// re-encoded, per spec §6).
type SourceFormat int

const (
	RawSamples SourceFormat = iota
	JPEGSource
)

// Image is the cacheable image object. Two images with identical Samples
// (and identical SMask, if present) collapse to one indirect object under
// the engine's content-hash dedup.
type Image struct {
	Width, Height int
	BitsPerComponent int
	ColorSpace    ColorSpaceKind
	Profile       *cmm.Profile // set only when ColorSpace == ICCBased
	Format        SourceFormat
	Samples       []byte // raw decoded samples, or JPEG bytes when Format == JPEGSource
	SMask         *Image // optional soft mask, same Width/Height, DeviceGray, 8bpc
	Interpolate   bool
}

// ComponentsPerSample returns how many color components Samples packs per
// pixel, used to validate sample buffer length and to size the /Decode
// array for CMYK images.
func (img *Image) ComponentsPerSample() int {
	switch img.ColorSpace {
	case DeviceGray:
		return 1
	case DeviceRGB:
		return 3
	case DeviceCMYK:
		return 4
	case ICCBased:
		if img.Profile != nil {
			return img.Profile.N
		}
	}
	return 1
}

// IsSixteenBit reports whether this image needs the 16-bit image
// compliance check (spec §6's SixteenBitImage validation hook): PDF/A-1
// forbids BitsPerComponent 16 images outright, later PDF/A levels allow it.
func (img *Image) IsSixteenBit() bool { return img.BitsPerComponent == 16 }

// CacheKey hashes the fields that determine this image's serialized bytes,
// for the engine's RegisterCacheable dedup table. Grounded on
// optimize/hash.go's canonical-then-hash technique, applied at
// register time to a single object instead of as a post-hoc tree walk.
func (img *Image) CacheKey() []byte {
	h := sha256.New()
	h.Write([]byte{byte(img.Width >> 8), byte(img.Width), byte(img.Height >> 8), byte(img.Height)})
	h.Write([]byte{byte(img.BitsPerComponent), byte(img.ColorSpace), byte(img.Format)})
	if img.Profile != nil {
		h.Write(img.Profile.CacheKey())
	}
	h.Write(img.Samples)
	if img.SMask != nil {
		h.Write(img.SMask.CacheKey())
	}
	return h.Sum(nil)
}

// EncodedStream chooses the filter chain (Flate for raw samples, DCTDecode
// passthrough for JPEG source) and returns the encoded bytes plus the
// /Filter name list to write on the XObject dictionary.
func (img *Image) EncodedStream(compress bool) (data []byte, filterNames []string) {
	switch img.Format {
	case JPEGSource:
		return img.Samples, []string{string(filters.DCTDecode)}
	default:
		chain := filters.NewContentChain(compress, false)
		return chain.Apply(img.Samples, 0), chain.Names()
	}
}
