// Package embed implements the one parsing feature sealpdf keeps: given an
// external PDF's raw bytes and a page index, walk its classic xref table and
// trailer far enough to locate that page's content stream, resource
// dictionary, and media box, for re-emission as a Form XObject. Grounded in
// spirit on xref/xref.go's startxref/trailer walk and parser/loader.go's
// object-at-offset resolution, shrunk to the single (bytes, pageIndex) ->
// (content, resources, mediabox) contract — no object streams, no repair,
// no incremental updates, since passthrough embedding never needs to
// reconstruct a damaged file, only read a well-formed one far enough to
// find one page.
package embed

import (
	"bytes"
	"fmt"
	"strconv"
)

// Error is the embedded-PDF passthrough failure surface spec §7 names.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

type ErrorKind int

const (
	ErrVersionMismatch ErrorKind = iota
	ErrPageOutOfRange
	ErrMalformed
)

func errVersionMismatch(got string) *Error {
	return &Error{Kind: ErrVersionMismatch, Message: fmt.Sprintf("embedded PDF has unsupported version %q", got)}
}

func errPageOutOfRange(idx, count int) *Error {
	return &Error{Kind: ErrPageOutOfRange, Message: fmt.Sprintf("page index %d out of range (document has %d pages)", idx, count)}
}

func errMalformed(why string) *Error {
	return &Error{Kind: ErrMalformed, Message: "malformed embedded PDF: " + why}
}

// Page is the subset of an embedded page's object graph passthrough needs.
type Page struct {
	Content   []byte
	Resources []byte // raw bytes of the page's /Resources dictionary
	MediaBox  [4]float64
}

type document struct {
	data    []byte
	offsets map[int]int64 // object number -> byte offset
}

// maxSupportedMinor bounds the PDF 1.x versions this reader understands;
// PDF 2.0's cross-reference and object model changes are out of scope, so
// anything claiming major version 2 is rejected rather than silently
// mis-parsed.
const maxSupportedMinor = 7

// LoadPage parses data as a classic (non-object-stream) PDF and returns the
// content, resources, and media box of the page at pageIndex (0-based, in
// document order).
func LoadPage(data []byte, pageIndex int) (*Page, error) {
	version, err := readVersion(data)
	if err != nil {
		return nil, err
	}
	if version.major != 1 || version.minor > maxSupportedMinor {
		return nil, errVersionMismatch(version.String())
	}

	doc, err := parseClassicXref(data)
	if err != nil {
		return nil, err
	}

	trailer, err := doc.readTrailer(data)
	if err != nil {
		return nil, err
	}
	rootRef, ok := trailer.refField("Root")
	if !ok {
		return nil, errMalformed("trailer has no /Root")
	}
	root, err := doc.object(rootRef)
	if err != nil {
		return nil, err
	}
	pagesRef, ok := root.refField("Pages")
	if !ok {
		return nil, errMalformed("catalog has no /Pages")
	}

	pageRefs, err := doc.collectPages(pagesRef, nil)
	if err != nil {
		return nil, err
	}
	if pageIndex < 0 || pageIndex >= len(pageRefs) {
		return nil, errPageOutOfRange(pageIndex, len(pageRefs))
	}

	pageDict, err := doc.object(pageRefs[pageIndex])
	if err != nil {
		return nil, err
	}

	mediaBox, err := doc.resolveMediaBox(pageDict)
	if err != nil {
		return nil, err
	}

	contentRef, hasContent := pageDict.refField("Contents")
	var content []byte
	if hasContent {
		content, err = doc.streamData(contentRef)
		if err != nil {
			return nil, err
		}
	}

	var resources []byte
	if raw, ok := pageDict.rawField("Resources"); ok {
		resources = raw
	}

	return &Page{Content: content, Resources: resources, MediaBox: mediaBox}, nil
}

type pdfVersion struct{ major, minor int }

func (v pdfVersion) String() string { return fmt.Sprintf("%d.%d", v.major, v.minor) }

func readVersion(data []byte) (pdfVersion, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return pdfVersion{}, errMalformed("missing %PDF- header")
	}
	end := bytes.IndexAny(data[5:], "\r\n")
	if end < 0 {
		return pdfVersion{}, errMalformed("unterminated version header")
	}
	parts := bytes.SplitN(data[5:5+end], []byte("."), 2)
	if len(parts) != 2 {
		return pdfVersion{}, errMalformed("malformed version header")
	}
	major, err1 := strconv.Atoi(string(parts[0]))
	minor, err2 := strconv.Atoi(string(parts[1]))
	if err1 != nil || err2 != nil {
		return pdfVersion{}, errMalformed("non-numeric version header")
	}
	return pdfVersion{major: major, minor: minor}, nil
}

// parseClassicXref walks backward from startxref through one classic xref
// table (no object streams, no xref stream, no prior/incremental sections —
// the minimal case passthrough embedding needs).
func parseClassicXref(data []byte) (*document, error) {
	startxref := bytes.LastIndex(data, []byte("startxref"))
	if startxref < 0 {
		return nil, errMalformed("startxref not found")
	}
	rest := bytes.TrimSpace(data[startxref+len("startxref"):])
	nl := bytes.IndexAny(rest, "\r\n")
	if nl > 0 {
		rest = rest[:nl]
	}
	offset, err := strconv.ParseInt(string(bytes.TrimSpace(rest)), 10, 64)
	if err != nil || offset < 0 || int(offset) >= len(data) {
		return nil, errMalformed("invalid startxref offset")
	}

	doc := &document{data: data, offsets: make(map[int]int64)}
	cursor := data[offset:]
	if !bytes.HasPrefix(bytes.TrimSpace(cursor), []byte("xref")) {
		return nil, errMalformed("xref streams are not supported by embedded-PDF passthrough")
	}
	cursor = bytes.TrimLeft(cursor, "\r\n\t ")
	cursor = cursor[len("xref"):]

	for {
		cursor = bytes.TrimLeft(cursor, "\r\n\t ")
		if bytes.HasPrefix(cursor, []byte("trailer")) {
			break
		}
		var startNum, count int
		n, err := fmt.Sscanf(string(cursor), "%d %d", &startNum, &count)
		if n != 2 || err != nil {
			return nil, errMalformed("malformed xref subsection header")
		}
		cursor = skipLine(cursor)
		for i := 0; i < count; i++ {
			var off int64
			var gen int
			var kind byte
			_, err := fmt.Sscanf(string(cursor[:20]), "%010d %05d %c", &off, &gen, &kind)
			if err != nil {
				return nil, errMalformed("malformed xref entry")
			}
			if kind == 'n' {
				doc.offsets[startNum+i] = off
			}
			cursor = cursor[20:]
		}
	}
	return doc, nil
}

func skipLine(b []byte) []byte {
	idx := bytes.IndexByte(b, '\n')
	if idx < 0 {
		return nil
	}
	return b[idx+1:]
}

func (d *document) readTrailer(data []byte) (pdfDict, error) {
	idx := bytes.LastIndex(data, []byte("trailer"))
	if idx < 0 {
		return pdfDict{}, errMalformed("trailer not found")
	}
	dictBytes, err := extractDict(data[idx+len("trailer"):])
	if err != nil {
		return pdfDict{}, err
	}
	return parseDict(dictBytes), nil
}

func (d *document) object(ref objRef) (pdfDict, error) {
	off, ok := d.offsets[ref.num]
	if !ok {
		return pdfDict{}, errMalformed(fmt.Sprintf("object %d not found in xref", ref.num))
	}
	body := d.data[off:]
	objStart := bytes.Index(body, []byte("obj"))
	if objStart < 0 {
		return pdfDict{}, errMalformed("malformed indirect object header")
	}
	dictBytes, err := extractDict(body[objStart+len("obj"):])
	if err != nil {
		return pdfDict{}, err
	}
	return parseDict(dictBytes), nil
}

func (d *document) streamData(ref objRef) ([]byte, error) {
	off, ok := d.offsets[ref.num]
	if !ok {
		return nil, errMalformed(fmt.Sprintf("object %d not found in xref", ref.num))
	}
	body := d.data[off:]
	streamStart := bytes.Index(body, []byte("stream"))
	if streamStart < 0 {
		return nil, errMalformed("content object has no stream keyword")
	}
	start := streamStart + len("stream")
	if start < len(body) && body[start] == '\r' {
		start++
	}
	if start < len(body) && body[start] == '\n' {
		start++
	}
	end := bytes.Index(body[start:], []byte("endstream"))
	if end < 0 {
		return nil, errMalformed("content stream missing endstream")
	}
	return body[start : start+end], nil
}

// collectPages walks the Pages tree depth-first in document order, expanding
// /Kids arrays and flattening any inherited intermediate nodes.
func (d *document) collectPages(ref objRef, seen map[int]bool) ([]objRef, error) {
	if seen == nil {
		seen = make(map[int]bool)
	}
	if seen[ref.num] {
		return nil, errMalformed("cyclic page tree")
	}
	seen[ref.num] = true

	node, err := d.object(ref)
	if err != nil {
		return nil, err
	}
	if node.nameField("Type") == "Page" {
		return []objRef{ref}, nil
	}
	kids, ok := node.refArrayField("Kids")
	if !ok {
		return nil, errMalformed("intermediate page tree node has no /Kids")
	}
	var out []objRef
	for _, kid := range kids {
		sub, err := d.collectPages(kid, seen)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

// resolveMediaBox walks up /Parent chains for an inherited /MediaBox, the
// same inheritance classic page trees use for shared attributes.
func (d *document) resolveMediaBox(page pdfDict) ([4]float64, error) {
	cur := page
	for i := 0; i < 64; i++ {
		if box, ok := cur.floatArrayField("MediaBox"); ok && len(box) == 4 {
			return [4]float64{box[0], box[1], box[2], box[3]}, nil
		}
		parentRef, ok := cur.refField("Parent")
		if !ok {
			break
		}
		next, err := d.object(parentRef)
		if err != nil {
			return [4]float64{}, err
		}
		cur = next
	}
	return [4]float64{0, 0, 612, 792}, nil
}
