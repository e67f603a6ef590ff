package fonts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

// sfntTable is one table directory entry plus its bytes, used while
// reassembling a subset font.
type sfntTable struct {
	tag      string
	checksum uint32
	data     []byte
}

// sfntDirectory is a minimally-parsed TrueType font: enough table access to
// subset glyf/loca/hmtx/maxp without a general-purpose font parser.
type sfntDirectory struct {
	version    uint32
	tables     map[string][]byte
	numTables  uint16
}

func parseSFNT(data []byte) (*sfntDirectory, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("fonts: truncated sfnt header")
	}
	d := &sfntDirectory{tables: make(map[string][]byte)}
	d.version = binary.BigEndian.Uint32(data[0:4])
	d.numTables = binary.BigEndian.Uint16(data[4:6])
	offset := 12
	for i := 0; i < int(d.numTables); i++ {
		if offset+16 > len(data) {
			return nil, fmt.Errorf("fonts: truncated sfnt table directory")
		}
		tag := string(data[offset : offset+4])
		tblOffset := binary.BigEndian.Uint32(data[offset+8 : offset+12])
		tblLength := binary.BigEndian.Uint32(data[offset+12 : offset+16])
		if int(tblOffset+tblLength) > len(data) {
			return nil, fmt.Errorf("fonts: sfnt table %q out of range", tag)
		}
		d.tables[tag] = data[tblOffset : tblOffset+tblLength]
		offset += 16
	}
	return d, nil
}

func (d *sfntDirectory) has(tags ...string) bool {
	for _, t := range tags {
		if _, ok := d.tables[t]; !ok {
			return false
		}
	}
	return true
}

// SubsetTrueType performs sparse TrueType subsetting identical in spirit to
// fonts/tt_subsetter.go: glyph IDs are preserved (the font stays
// Identity-H-compatible) but unused glyf entries are zeroed so the stream
// compresses away, and numGlyphs is trimmed to the highest used GID plus
// one. Composite glyphs are not decomposed and their components are not
// added to the kept set: a component GID absent from usedGIDs has its glyf
// entry zeroed like any other unused glyph.
// Fonts that aren't a standard TrueType outline (no glyf/loca) are returned
// unmodified, mirroring the teacher's CFF/OTF bailout.
func SubsetTrueType(data []byte, usedGIDs map[int]bool) ([]byte, error) {
	d, err := parseSFNT(data)
	if err != nil {
		return nil, err
	}
	if !d.has("glyf", "loca", "head", "maxp", "hmtx", "hhea") {
		return data, nil
	}

	head := d.tables["head"]
	indexToLocLong := binary.BigEndian.Uint16(head[50:52]) == 1
	maxp := append([]byte(nil), d.tables["maxp"]...)
	numGlyphs := int(binary.BigEndian.Uint16(maxp[4:6]))

	loca := d.tables["loca"]
	glyf := d.tables["glyf"]

	glyphOffset := func(gid int) (start, end uint32) {
		if indexToLocLong {
			start = binary.BigEndian.Uint32(loca[gid*4:])
			end = binary.BigEndian.Uint32(loca[gid*4+4:])
		} else {
			start = uint32(binary.BigEndian.Uint16(loca[gid*2:])) * 2
			end = uint32(binary.BigEndian.Uint16(loca[gid*2+2:])) * 2
		}
		return
	}

	keep := map[int]bool{0: true}
	for gid := range usedGIDs {
		if gid < numGlyphs {
			keep[gid] = true
		}
	}
	maxUsed := 0
	for gid := range keep {
		if gid > maxUsed {
			maxUsed = gid
		}
	}
	newNumGlyphs := maxUsed + 1
	if newNumGlyphs > numGlyphs {
		newNumGlyphs = numGlyphs
	}

	var newGlyf bytes.Buffer
	newLocaOffsets := make([]uint32, newNumGlyphs+1)
	for gid := 0; gid < newNumGlyphs; gid++ {
		newLocaOffsets[gid] = uint32(newGlyf.Len())
		if keep[gid] {
			start, end := glyphOffset(gid)
			if end > start && end <= uint32(len(glyf)) {
				newGlyf.Write(glyf[start:end])
			}
		}
		// padding to keep glyph data long-aligned, matching sfnt convention
		for newGlyf.Len()%4 != 0 {
			newGlyf.WriteByte(0)
		}
	}
	newLocaOffsets[newNumGlyphs] = uint32(newGlyf.Len())

	var newLoca bytes.Buffer
	if indexToLocLong {
		for _, off := range newLocaOffsets {
			binary.Write(&newLoca, binary.BigEndian, off)
		}
	} else {
		for _, off := range newLocaOffsets {
			binary.Write(&newLoca, binary.BigEndian, uint16(off/2))
		}
	}

	hmtx := d.tables["hmtx"]
	hhea := d.tables["hhea"]
	numHMetrics := int(binary.BigEndian.Uint16(hhea[34:36]))
	var newHmtx bytes.Buffer
	lastAdvance := uint16(0)
	for gid := 0; gid < newNumGlyphs; gid++ {
		if gid < numHMetrics && (gid+1)*4 <= len(hmtx) {
			lastAdvance = binary.BigEndian.Uint16(hmtx[gid*4:])
			lsb := int16(binary.BigEndian.Uint16(hmtx[gid*4+2:]))
			binary.Write(&newHmtx, binary.BigEndian, lastAdvance)
			binary.Write(&newHmtx, binary.BigEndian, lsb)
		} else {
			binary.Write(&newHmtx, binary.BigEndian, lastAdvance)
		}
	}

	binary.BigEndian.PutUint16(maxp[4:6], uint16(newNumGlyphs))
	newHhea := append([]byte(nil), hhea...)
	hMetrics := newNumGlyphs
	if hMetrics > numHMetrics {
		hMetrics = numHMetrics
	}
	binary.BigEndian.PutUint16(newHhea[34:36], uint16(hMetrics))

	replacements := map[string][]byte{
		"glyf": newGlyf.Bytes(),
		"loca": newLoca.Bytes(),
		"hmtx": newHmtx.Bytes(),
		"maxp": maxp,
		"hhea": newHhea,
	}
	return reassembleSFNT(d, replacements), nil
}

// reassembleSFNT rebuilds a complete sfnt binary, substituting any table
// named in replacements and keeping the rest verbatim.
func reassembleSFNT(d *sfntDirectory, replacements map[string][]byte) []byte {
	tags := make([]string, 0, len(d.tables))
	for tag := range d.tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	tables := make([]sfntTable, 0, len(tags))
	for _, tag := range tags {
		data := d.tables[tag]
		if r, ok := replacements[tag]; ok {
			data = r
		}
		tables = append(tables, sfntTable{tag: tag, data: data, checksum: sfntChecksum(data)})
	}

	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, d.version)
	binary.Write(&out, binary.BigEndian, uint16(len(tables)))
	searchRange, entrySelector, rangeShift := sfntSearchParams(len(tables))
	binary.Write(&out, binary.BigEndian, searchRange)
	binary.Write(&out, binary.BigEndian, entrySelector)
	binary.Write(&out, binary.BigEndian, rangeShift)

	headerEnd := 12 + 16*len(tables)
	offset := uint32(headerEnd)
	type placed struct {
		tbl    sfntTable
		offset uint32
	}
	var placedTables []placed
	for _, t := range tables {
		placedTables = append(placedTables, placed{tbl: t, offset: offset})
		padded := (len(t.data) + 3) &^ 3
		offset += uint32(padded)
	}
	for _, p := range placedTables {
		out.WriteString(p.tbl.tag)
		binary.Write(&out, binary.BigEndian, p.tbl.checksum)
		binary.Write(&out, binary.BigEndian, p.offset)
		binary.Write(&out, binary.BigEndian, uint32(len(p.tbl.data)))
	}
	for _, p := range placedTables {
		out.Write(p.tbl.data)
		for out.Len()%4 != 0 {
			out.WriteByte(0)
		}
	}
	return out.Bytes()
}

func sfntChecksum(data []byte) uint32 {
	var sum uint32
	padded := append(append([]byte(nil), data...), make([]byte, (4-len(data)%4)%4)...)
	for i := 0; i < len(padded); i += 4 {
		sum += binary.BigEndian.Uint32(padded[i : i+4])
	}
	return sum
}

func sfntSearchParams(numTables int) (searchRange, entrySelector, rangeShift uint16) {
	entries := uint16(1)
	maxPow := uint16(1)
	for maxPow*2 <= uint16(numTables) {
		maxPow *= 2
		entries++
	}
	searchRange = maxPow * 16
	entrySelector = entries - 1
	rangeShift = uint16(numTables)*16 - searchRange
	return
}
