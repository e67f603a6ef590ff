package cmm

import "testing"

func TestNewProfileValidatesComponents(t *testing.T) {
	p, err := NewProfile([]byte{1, 2, 3}, AlternateRGB, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.N != 3 {
		t.Fatalf("got N=%d, want 3", p.N)
	}
}

func TestNewProfileUnknownAlternate(t *testing.T) {
	if _, err := NewProfile(nil, AlternateSpace("Weird"), "x"); err == nil {
		t.Fatal("expected error for unknown alternate space")
	}
}

func TestCacheKeyIsProfileData(t *testing.T) {
	data := []byte{9, 8, 7}
	p := SRGB(data)
	if string(p.CacheKey()) != string(data) {
		t.Fatal("cache key should be the raw profile bytes")
	}
}
