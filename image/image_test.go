package image

import "testing"

func TestComponentsPerSample(t *testing.T) {
	cases := []struct {
		cs   ColorSpaceKind
		want int
	}{{DeviceGray, 1}, {DeviceRGB, 3}, {DeviceCMYK, 4}}
	for _, c := range cases {
		img := &Image{ColorSpace: c.cs}
		if got := img.ComponentsPerSample(); got != c.want {
			t.Fatalf("%v: got %d, want %d", c.cs, got, c.want)
		}
	}
}

func TestCacheKeyStableForIdenticalImages(t *testing.T) {
	a := &Image{Width: 2, Height: 2, BitsPerComponent: 8, ColorSpace: DeviceRGB, Samples: []byte{1, 2, 3, 4, 5, 6}}
	b := &Image{Width: 2, Height: 2, BitsPerComponent: 8, ColorSpace: DeviceRGB, Samples: []byte{1, 2, 3, 4, 5, 6}}
	if string(a.CacheKey()) != string(b.CacheKey()) {
		t.Fatal("expected identical images to hash identically")
	}
}

func TestCacheKeyDiffersOnSamples(t *testing.T) {
	a := &Image{Width: 1, Height: 1, ColorSpace: DeviceGray, Samples: []byte{1}}
	b := &Image{Width: 1, Height: 1, ColorSpace: DeviceGray, Samples: []byte{2}}
	if string(a.CacheKey()) == string(b.CacheKey()) {
		t.Fatal("expected different samples to hash differently")
	}
}

func TestEncodedStreamJPEGPassthrough(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xD9}
	img := &Image{Format: JPEGSource, Samples: jpeg}
	data, names := img.EncodedStream(true)
	if string(data) != string(jpeg) {
		t.Fatal("expected JPEG bytes to pass through unchanged")
	}
	if len(names) != 1 || names[0] != "DCTDecode" {
		t.Fatalf("got filter names %v", names)
	}
}

func TestIsSixteenBit(t *testing.T) {
	img := &Image{BitsPerComponent: 16}
	if !img.IsSixteenBit() {
		t.Fatal("expected 16-bit image to report true")
	}
}
