package fonts

import (
	"fmt"
	"sort"
	"strings"
)

// forbiddenCodepoints may never appear in a /ToUnicode mapping per spec §7:
// U+0000 breaks C-string-based consumers, U+FEFF/U+FFFE are byte-order-mark
// and noncharacter codepoints that readers are known to mishandle.
var forbiddenCodepoints = map[rune]bool{0x0000: true, 0xFEFF: true, 0xFFFE: true}

// IsPrivateUse reports whether r falls in one of the Unicode Private Use
// Areas; spec §7 requires a warning (not a hard failure) when a ToUnicode
// entry maps into one, since the mapping is technically legal but conveys
// no portable meaning to downstream text extraction.
func IsPrivateUse(r rune) bool {
	return (r >= 0xE000 && r <= 0xF8FF) ||
		(r >= 0xF0000 && r <= 0xFFFFD) ||
		(r >= 0x100000 && r <= 0x10FFFD)
}

// ToUnicodeIssue describes one problematic mapping found while building a
// CMap, reported to the engine's validation error list rather than silently
// dropped.
type ToUnicodeIssue struct {
	CID      int
	Rune     rune
	Forbidden bool
}

// BuildToUnicodeCMap renders a CID->Unicode map as a PDF ToUnicode CMap
// stream body (one bfchar entry per CID; no bfrange entries), returning any forbidden or
// private-use mappings found along the way.
func BuildToUnicodeCMap(mapping map[int][]rune) (string, []ToUnicodeIssue) {
	cids := make([]int, 0, len(mapping))
	for cid := range mapping {
		cids = append(cids, cid)
	}
	sort.Ints(cids)

	var issues []ToUnicodeIssue
	var b strings.Builder
	b.WriteString("/CIDInit /ProcSet findresource begin\n")
	b.WriteString("12 dict begin\nbegincmap\n")
	b.WriteString("/CIDSystemInfo <<\n/Registry (Adobe)\n/Ordering (UCS)\n/Supplement 0\n>> def\n")
	b.WriteString("/CMapName /Adobe-Identity-UCS def\n/CMapType 2 def\n")
	b.WriteString("1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n")

	fmt.Fprintf(&b, "%d beginbfchar\n", len(cids))
	for _, cid := range cids {
		runes := mapping[cid]
		for _, r := range runes {
			if forbiddenCodepoints[r] {
				issues = append(issues, ToUnicodeIssue{CID: cid, Rune: r, Forbidden: true})
			} else if IsPrivateUse(r) {
				issues = append(issues, ToUnicodeIssue{CID: cid, Rune: r, Forbidden: false})
			}
		}
		fmt.Fprintf(&b, "<%04X> <%s>\n", cid, utf16HexOf(runes))
	}
	b.WriteString("endbfchar\n")
	b.WriteString("endcmap\nCMapName currentdict /CMap defineresource pop\nend\nend")
	return b.String(), issues
}

func utf16HexOf(runes []rune) string {
	var b strings.Builder
	for _, r := range runes {
		if r > 0xFFFF {
			r -= 0x10000
			hi := 0xD800 + (r >> 10)
			lo := 0xDC00 + (r & 0x3FF)
			fmt.Fprintf(&b, "%04X%04X", hi, lo)
		} else {
			fmt.Fprintf(&b, "%04X", r)
		}
	}
	return b.String()
}
