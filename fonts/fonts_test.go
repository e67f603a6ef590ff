package fonts

import "testing"

func TestPlanRenumbersDenseSortedKeepingNotdefZero(t *testing.T) {
	s := Plan(map[int]bool{50: true, 10: true, 0: true, 30: true})
	if s.OriginalToNew[0] != 0 {
		t.Fatal(".notdef must stay 0")
	}
	if s.OriginalToNew[10] != 1 || s.OriginalToNew[30] != 2 || s.OriginalToNew[50] != 3 {
		t.Fatalf("unexpected renumbering: %+v", s.OriginalToNew)
	}
	if len(s.UsedCIDs) != 4 {
		t.Fatalf("got %d used CIDs, want 4", len(s.UsedCIDs))
	}
}

func TestRemapContentBytesRewritesCIDs(t *testing.T) {
	s := Plan(map[int]bool{0: true, 200: true})
	original := []byte{0x00, 200}
	got := s.RemapContentBytes(original)
	want := []byte{0x00, 0x01}
	if string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCIDToGIDMapRoundTrips(t *testing.T) {
	s := Plan(map[int]bool{0: true, 500: true})
	m := s.CIDToGIDMap()
	newCID := s.OriginalToNew[500]
	gotGID := int(m[newCID*2])<<8 | int(m[newCID*2+1])
	if gotGID != 500 {
		t.Fatalf("got GID %d, want 500", gotGID)
	}
}

func TestSubsetTagIsDeterministicAndSixLetters(t *testing.T) {
	a := SubsetTag(map[int]bool{1: true, 2: true})
	b := SubsetTag(map[int]bool{2: true, 1: true})
	if a != b {
		t.Fatalf("expected order-independent tag, got %q vs %q", a, b)
	}
	if len(a) != 6 {
		t.Fatalf("expected 6-letter tag, got %q", a)
	}
	for _, r := range a {
		if r < 'A' || r > 'Z' {
			t.Fatalf("expected uppercase letters only, got %q", a)
		}
	}
}

func TestBuildToUnicodeCMapFlagsForbiddenCodepoint(t *testing.T) {
	_, issues := BuildToUnicodeCMap(map[int][]rune{1: {0x0000}})
	if len(issues) != 1 || !issues[0].Forbidden {
		t.Fatalf("expected one forbidden issue, got %+v", issues)
	}
}

func TestBuildToUnicodeCMapFlagsPrivateUseAsWarning(t *testing.T) {
	_, issues := BuildToUnicodeCMap(map[int][]rune{1: {0xE000}})
	if len(issues) != 1 || issues[0].Forbidden {
		t.Fatalf("expected one non-forbidden (warning) issue, got %+v", issues)
	}
}

func TestBuildToUnicodeCMapSupplementaryPlaneSurrogates(t *testing.T) {
	cmap, issues := BuildToUnicodeCMap(map[int][]rune{1: {0x1F600}})
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if !contains(cmap, "D83DDE00") {
		t.Fatalf("expected surrogate pair hex in cmap, got %q", cmap)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestType3ChainOverflowsAt256(t *testing.T) {
	c := NewType3Chain()
	for i := 0; i < 257; i++ {
		c.Add(Type3Glyph{CID: i})
	}
	if len(c.Fonts()) != 2 {
		t.Fatalf("expected chain to overflow into 2 fonts, got %d", len(c.Fonts()))
	}
	fi, code, ok := c.Lookup(256)
	if !ok || fi != 1 || code != 0 {
		t.Fatalf("expected 257th glyph at (font 1, code 0), got (%d, %d, %v)", fi, code, ok)
	}
}

func TestCIDSetIsADenseRunOfSetBits(t *testing.T) {
	s := Plan(map[int]bool{0: true, 5: true, 9: true})
	got := s.CIDSet()
	// 3 used CIDs (.notdef + 2) -> bits 0..2 set, MSB-first in one byte.
	if len(got) != 1 || got[0] != 0xE0 {
		t.Fatalf("got %08b, want 11100000", got[0])
	}
}

func TestRemapHexCIDsRewritesInPlace(t *testing.T) {
	s := Plan(map[int]bool{0: true, 200: true})
	data := []byte("[<00C8>] TJ")
	offset := 2 // just past '<'
	got := s.RemapHexCIDs(data, offset, 1)
	if string(got[offset:offset+4]) != "0001" {
		t.Fatalf("got %q, want CID 200 remapped to 0001", got[offset:offset+4])
	}
}

func TestAnalyzerRecordsPerFontUsage(t *testing.T) {
	a := NewAnalyzer()
	a.RecordGlyph(FontKey(1), 5)
	a.RecordGlyph(FontKey(1), 5)
	a.RecordGlyph(FontKey(2), 9)
	if len(a.UsedSet(FontKey(1))) != 1 {
		t.Fatalf("expected deduped usage set of size 1")
	}
	if len(a.Fonts()) != 2 {
		t.Fatalf("expected 2 fonts with usage, got %d", len(a.Fonts()))
	}
}
