// ChunkContainer assembles the catalog, page tree, and every optional
// top-level construct (outline, page labels, embedded files, output
// intent) into final object graph, then serializes the whole document:
// header, each indirect object in ascending number order, a classic xref
// table, and the trailer. Grounded on writer/object_builder.go's
// catalog/info/output-intent assembly and writer/writer_impl.go's
// file-ID derivation and trailer/xref writing.
package engine

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/grainpress/sealpdf/coords"
	"github.com/grainpress/sealpdf/observability"
	"github.com/grainpress/sealpdf/raw"
)

// DocumentInfo is the classic /Info dictionary's fields.
type DocumentInfo struct {
	Title, Author, Subject, Keywords, Creator, Producer string
}

// Destination is an explicit XYZ destination, the only destination type
// spec §8's outline/link scenario names.
type Destination struct {
	Page raw.ObjectRef
	X, Y float64
	Zoom float64
}

// OutlineItem is one bookmark node; Open controls the sign of this item's
// own /Count (written only when it has children) per the classic PDF
// outline convention: positive when open, negative when closed.
type OutlineItem struct {
	Title    string
	Dest     *Destination
	Children []*OutlineItem
	Open     bool
}

// PageLabel assigns a numbering style starting at a given page index, built
// into the catalog's /PageLabels number tree.
type PageLabel struct {
	StartPage int
	Prefix    string
	Style     string // "D" decimal, "r"/"R" roman, "a"/"A" alpha, "" none
}

// LinkAnnotation is a minimal URI or GoTo link annotation; every other
// annotation subtype (widgets, markup, 3D, sound) is out of scope.
type LinkAnnotation struct {
	Rect coords.Rect
	URI  string       // mutually exclusive with Dest
	Dest *Destination
}

// EmbeddedFile is one /AF attachment, named into the catalog's
// /Names/EmbeddedFiles name tree.
type EmbeddedFile struct {
	Name        string
	Data        []byte
	Description string
	MimeSubtype string // e.g. "application/pdf"
}

// PageEntry is one finished page: its reserved ref, content stream ref,
// frozen resource dictionary, and page-local extras.
type PageEntry struct {
	Ref                raw.ObjectRef
	ContentRef         raw.ObjectRef
	Resources          *raw.Dict
	MediaBox           coords.Rect
	Annotations        []LinkAnnotation
	StructParentsIndex int
}

// ChunkContainer is the top-level assembly the root Document builds against.
type ChunkContainer struct {
	ctx *SerializeContext

	Pages         []PageEntry
	Info          DocumentInfo
	Lang          string
	Outline       []*OutlineItem
	PageLabels    []PageLabel
	EmbeddedFiles []EmbeddedFile
	OutputIntent  raw.ObjectRef // zero if none registered
	StructTreeRoot raw.ObjectRef // zero if the document isn't tagged
	Marked        bool

	embeddedFileRefs []raw.ObjectRef
}

func NewChunkContainer(ctx *SerializeContext) *ChunkContainer {
	return &ChunkContainer{ctx: ctx}
}

func (c *ChunkContainer) Context() *SerializeContext { return c.ctx }

// Finish assembles the catalog and every registered top-level construct,
// then serializes the full object graph as a one-shot classic-xref PDF file.
// version is the PDF header version ("1.4".."2.0"); documentID seeds the
// trailer's file /ID pair.
func (c *ChunkContainer) Finish(version string, documentID [16]byte) []byte {
	logger := c.ctx.Logger()
	_, span := c.ctx.Tracer().StartSpan(context.Background(), "chunkcontainer.finish")
	defer span.Finish()
	logger.Info("chunkcontainer.finish.start", observability.Int("pages", len(c.Pages)))

	pagesRef := c.buildPagesTree()
	catalogRef := c.buildCatalog(pagesRef)
	infoRef := c.buildInfo()

	out := c.serializeFile(version, catalogRef, infoRef, documentID)
	span.SetTag("bytes", len(out))
	logger.Info("chunkcontainer.finish.done",
		observability.Int(observability.MetricObjectCount, len(c.ctx.Objects())),
		observability.Int(observability.MetricPageCount, len(c.Pages)))
	return out
}

func (c *ChunkContainer) buildPagesTree() raw.ObjectRef {
	kids := raw.NewArray()
	for i := range c.Pages {
		p := &c.Pages[i]
		pageDict := raw.NewDict()
		pageDict.Set("Type", raw.NameOf("Page"))
		pageDict.Set("MediaBox", raw.Floats([]float64{p.MediaBox.LLX, p.MediaBox.LLY, p.MediaBox.URX, p.MediaBox.URY}))
		if p.Resources != nil {
			pageDict.Set("Resources", p.Resources)
		}
		if !p.ContentRef.IsZero() {
			pageDict.Set("Contents", raw.RefTo(p.ContentRef))
		}
		pageDict.Set("StructParents", raw.Int(int64(p.StructParentsIndex)))
		if len(p.Annotations) > 0 {
			annots := raw.NewArray()
			for _, a := range p.Annotations {
				annots.Append(raw.RefTo(c.buildAnnotation(a)))
			}
			pageDict.Set("Annots", annots)
		}
		c.ctx.SetObject(p.Ref, pageDict)
		kids.Append(raw.RefTo(p.Ref))
	}

	pagesDict := raw.NewDict()
	pagesDict.Set("Type", raw.NameOf("Pages"))
	pagesDict.Set("Count", raw.Int(int64(len(c.Pages))))
	pagesDict.Set("Kids", kids)
	return c.ctx.AddObject(pagesDict)
}

func (c *ChunkContainer) buildAnnotation(a LinkAnnotation) raw.ObjectRef {
	dict := raw.NewDict()
	dict.Set("Type", raw.NameOf("Annot"))
	dict.Set("Subtype", raw.NameOf("Link"))
	dict.Set("Rect", raw.Floats([]float64{a.Rect.LLX, a.Rect.LLY, a.Rect.URX, a.Rect.URY}))
	dict.Set("Border", raw.Ints([]int{0, 0, 0}))
	switch {
	case a.URI != "":
		action := raw.NewDict()
		action.Set("Type", raw.NameOf("Action"))
		action.Set("S", raw.NameOf("URI"))
		action.Set("URI", raw.Str([]byte(a.URI)))
		dict.Set("A", action)
	case a.Dest != nil:
		dict.Set("Dest", destinationArray(*a.Dest))
	}
	return c.ctx.AddObject(dict)
}

func destinationArray(d Destination) *raw.Array {
	return raw.NewArray(raw.RefTo(d.Page), raw.NameOf("XYZ"), raw.Real(d.X), raw.Real(d.Y), raw.Real(d.Zoom))
}

func (c *ChunkContainer) buildCatalog(pagesRef raw.ObjectRef) raw.ObjectRef {
	catalog := raw.NewDict()
	catalog.Set("Type", raw.NameOf("Catalog"))
	catalog.Set("Pages", raw.RefTo(pagesRef))

	if len(c.Outline) > 0 {
		catalog.Set("Outlines", raw.RefTo(c.buildOutline()))
	}
	if len(c.PageLabels) > 0 {
		catalog.Set("PageLabels", c.buildPageLabels())
	}
	if len(c.EmbeddedFiles) > 0 {
		catalog.Set("Names", c.buildNamesDict())
		afArray := raw.NewArray()
		for _, ref := range c.embeddedFileRefs {
			afArray.Append(raw.RefTo(ref))
		}
		catalog.Set("AF", afArray)
	}
	if !c.StructTreeRoot.IsZero() {
		catalog.Set("StructTreeRoot", raw.RefTo(c.StructTreeRoot))
	}
	if c.Lang != "" {
		catalog.Set("Lang", raw.Str([]byte(c.Lang)))
	}
	if c.Marked || !c.StructTreeRoot.IsZero() {
		mark := raw.NewDict()
		mark.Set("Marked", raw.Bool(true))
		catalog.Set("MarkInfo", mark)
	}
	if !c.OutputIntent.IsZero() {
		catalog.Set("OutputIntents", raw.NewArray(raw.RefTo(c.OutputIntent)))
	}
	if c.Info.Title != "" {
		vp := raw.NewDict()
		vp.Set("DisplayDocTitle", raw.Bool(true))
		catalog.Set("ViewerPreferences", vp)
	}
	return c.ctx.AddObject(catalog)
}

// buildOutline allocates one ref per node up front (siblings need each
// other's refs for /Next and /Prev before either dict is written), then
// fills every dict in, mirroring the two-pass shape tagtree uses for the
// structure tree.
func (c *ChunkContainer) buildOutline() raw.ObjectRef {
	outlineRootRef := c.ctx.NewRef()
	firstRef, lastRef, count := c.buildOutlineLevel(c.Outline, outlineRootRef)

	root := raw.NewDict()
	root.Set("Type", raw.NameOf("Outlines"))
	if !firstRef.IsZero() {
		root.Set("First", raw.RefTo(firstRef))
		root.Set("Last", raw.RefTo(lastRef))
	}
	root.Set("Count", raw.Int(int64(count)))
	c.ctx.SetObject(outlineRootRef, root)
	return outlineRootRef
}

func (c *ChunkContainer) buildOutlineLevel(items []*OutlineItem, parent raw.ObjectRef) (first, last raw.ObjectRef, totalCount int) {
	if len(items) == 0 {
		return raw.ObjectRef{}, raw.ObjectRef{}, 0
	}
	refs := make([]raw.ObjectRef, len(items))
	for i := range items {
		refs[i] = c.ctx.NewRef()
	}
	for i, item := range items {
		dict := raw.NewDict()
		dict.Set("Title", raw.Str([]byte(item.Title)))
		dict.Set("Parent", raw.RefTo(parent))
		if i > 0 {
			dict.Set("Prev", raw.RefTo(refs[i-1]))
		}
		if i < len(items)-1 {
			dict.Set("Next", raw.RefTo(refs[i+1]))
		}
		if item.Dest != nil {
			dict.Set("Dest", destinationArray(*item.Dest))
		}
		childFirst, childLast, childCount := c.buildOutlineLevel(item.Children, refs[i])
		if !childFirst.IsZero() {
			dict.Set("First", raw.RefTo(childFirst))
			dict.Set("Last", raw.RefTo(childLast))
			if item.Open {
				dict.Set("Count", raw.Int(int64(childCount)))
			} else {
				dict.Set("Count", raw.Int(-int64(childCount)))
			}
		}
		c.ctx.SetObject(refs[i], dict)
		totalCount += 1 + childCount
	}
	return refs[0], refs[len(refs)-1], totalCount
}

func (c *ChunkContainer) buildPageLabels() *raw.Dict {
	sorted := append([]PageLabel(nil), c.PageLabels...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartPage < sorted[j].StartPage })

	nums := raw.NewArray()
	for _, lbl := range sorted {
		entry := raw.NewDict()
		if lbl.Style != "" {
			entry.Set("S", raw.NameOf(lbl.Style))
		}
		if lbl.Prefix != "" {
			entry.Set("P", raw.Str([]byte(lbl.Prefix)))
		}
		nums.Append(raw.Int(int64(lbl.StartPage)), entry)
	}
	dict := raw.NewDict()
	dict.Set("Nums", nums)
	return dict
}

// buildNamesDict writes each attachment's stream and file-spec objects and
// caches the file-spec refs in embeddedFileRefs for buildCatalog's /AF array.
func (c *ChunkContainer) buildNamesDict() *raw.Dict {
	names := raw.NewArray()
	c.embeddedFileRefs = make([]raw.ObjectRef, 0, len(c.EmbeddedFiles))
	for _, ef := range c.EmbeddedFiles {
		streamDict := raw.NewDict()
		streamDict.Set("Type", raw.NameOf("EmbeddedFile"))
		if ef.MimeSubtype != "" {
			streamDict.Set("Subtype", raw.NameOf(ef.MimeSubtype))
		}
		streamRef := c.ctx.AddObject(raw.NewStream(streamDict, ef.Data))

		fileSpec := raw.NewDict()
		fileSpec.Set("Type", raw.NameOf("Filespec"))
		fileSpec.Set("F", raw.Str([]byte(ef.Name)))
		if ef.Description != "" {
			fileSpec.Set("Desc", raw.Str([]byte(ef.Description)))
		}
		efDict := raw.NewDict()
		efDict.Set("F", raw.RefTo(streamRef))
		fileSpec.Set("EF", efDict)
		fileSpecRef := c.ctx.AddObject(fileSpec)

		c.embeddedFileRefs = append(c.embeddedFileRefs, fileSpecRef)
		names.Append(raw.Str([]byte(ef.Name)), raw.RefTo(fileSpecRef))
	}
	embeddedFilesTree := raw.NewDict()
	embeddedFilesTree.Set("Names", names)

	namesDict := raw.NewDict()
	namesDict.Set("EmbeddedFiles", embeddedFilesTree)
	return namesDict
}

func (c *ChunkContainer) buildInfo() raw.ObjectRef {
	if c.Info == (DocumentInfo{}) {
		return raw.ObjectRef{}
	}
	dict := raw.NewDict()
	set := func(key, v string) {
		if v != "" {
			dict.Set(key, raw.Str([]byte(v)))
		}
	}
	set("Title", c.Info.Title)
	set("Author", c.Info.Author)
	set("Subject", c.Info.Subject)
	set("Keywords", c.Info.Keywords)
	set("Creator", c.Info.Creator)
	set("Producer", c.Info.Producer)
	return c.ctx.AddObject(dict)
}

// FileIDSeed derives a deterministic 16-byte file identifier from producer
// name and seedBytes (Document.Finish passes its caller-supplied document
// ID), grounded on writer/writer_impl.go's
// deterministicIDSeed technique (hash content instead of wall-clock time, so
// two runs over identical input produce byte-identical output).
func FileIDSeed(producer string, seedBytes []byte) [16]byte {
	h := sha256.New()
	h.Write([]byte(producer))
	h.Write(seedBytes)
	sum := h.Sum(nil)
	var id [16]byte
	copy(id[:], sum[:16])
	return id
}

func (c *ChunkContainer) serializeFile(version string, catalogRef, infoRef raw.ObjectRef, documentID [16]byte) []byte {
	var buf []byte
	buf = append(buf, fmt.Sprintf("%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", version)...)

	objects := c.ctx.Objects()
	nums := make([]int, 0, len(objects))
	for n := range objects {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	offsets := make(map[int]int, len(nums))
	for _, n := range nums {
		offsets[n] = len(buf)
		buf = append(buf, []byte(fmt.Sprintf("%d 0 obj\n", n))...)
		buf = append(buf, raw.Serialize(objects[n])...)
		buf = append(buf, []byte("\nendobj\n")...)
	}

	xrefOffset := len(buf)
	maxNum := 0
	if len(nums) > 0 {
		maxNum = nums[len(nums)-1]
	}
	buf = append(buf, []byte(fmt.Sprintf("xref\n0 %d\n", maxNum+1))...)
	buf = append(buf, []byte("0000000000 65535 f \n")...)
	for n := 1; n <= maxNum; n++ {
		off, ok := offsets[n]
		if !ok {
			buf = append(buf, []byte("0000000000 00000 f \n")...)
			continue
		}
		buf = append(buf, []byte(fmt.Sprintf("%010d %05d n \n", off, 0))...)
	}

	trailer := raw.NewDict()
	trailer.Set("Size", raw.Int(int64(maxNum+1)))
	trailer.Set("Root", raw.RefTo(catalogRef))
	if !infoRef.IsZero() {
		trailer.Set("Info", raw.RefTo(infoRef))
	}
	idArr := raw.NewArray(raw.HexStr(documentID[:]), raw.HexStr(documentID[:]))
	trailer.Set("ID", idArr)

	buf = append(buf, []byte("trailer\n")...)
	buf = append(buf, raw.Serialize(trailer)...)
	buf = append(buf, []byte(fmt.Sprintf("\nstartxref\n%d\n%%%%EOF", xrefOffset))...)

	return buf
}
