// Package tagtree builds a PDF logical structure tree: the /StructTreeRoot
// hierarchy, the /ParentTree number tree that lets a reader map a marked-
// content region back to its structure element, and the /IDTree name tree
// for element IDs referenced from elsewhere in a document (e.g. from an
// OBJR). Grounded on ir/semantic/structure.go's StructureTree/
// StructureElement/StructureItem shape and writer/helpers.go's
// buildStructureTree, generalized from a function closed over one already-
// built semantic.Document into a standalone builder the surface package
// feeds as pages and marked-content regions are produced.
package tagtree

import (
	"sort"

	"github.com/grainpress/sealpdf/compliance"
	"github.com/grainpress/sealpdf/engine"
	"github.com/grainpress/sealpdf/raw"
)

// Item is one child of a Group: either a nested Group, a reference to a
// marked-content region on a page (MCR), or a reference to an arbitrary
// indirect object (OBJR).
type Item struct {
	Group *Group
	MCR   *MCRItem
	ObjR  raw.ObjectRef
}

// MCRItem identifies one BDC/EMC region previously opened via
// content.Builder.StartMarkedContent.
type MCRItem struct {
	Page raw.ObjectRef
	MCID int
}

// Group is one node of the structure tree.
type Group struct {
	Type       string // structure type: "Document", "P", "H1", "Figure", "Table", ...
	ID         string // optional, registered into the IDTree when non-empty
	Title      string
	Lang       string
	Alt        string
	ActualText string
	Children   []Item

	ref raw.ObjectRef
}

// NewGroup creates a structure element of the given type.
func NewGroup(structType string) *Group { return &Group{Type: structType} }

// AddChild appends a nested structure element.
func (g *Group) AddChild(child *Group) *Group {
	g.Children = append(g.Children, Item{Group: child})
	return g
}

// AddMarkedContent appends a reference to a BDC/EMC region on page.
func (g *Group) AddMarkedContent(page raw.ObjectRef, mcid int) *Group {
	g.Children = append(g.Children, Item{MCR: &MCRItem{Page: page, MCID: mcid}})
	return g
}

// AddObjectReference appends an OBJR child, used to associate an annotation
// or XObject with a structure element directly rather than through MCIDs.
func (g *Group) AddObjectReference(ref raw.ObjectRef) *Group {
	g.Children = append(g.Children, Item{ObjR: ref})
	return g
}

// Tree is the root of one document's logical structure.
type Tree struct {
	Roots   []*Group
	RoleMap map[string]string

	pageOfMCID map[int]map[int]raw.ObjectRef // page index (from RegisterPage) -> mcid -> struct elem ref
	pageIndex  map[int]int                   // page ref.Num -> page index, set via RegisterPage
	idTree     map[string]raw.ObjectRef
}

func NewTree() *Tree {
	return &Tree{
		pageOfMCID: make(map[int]map[int]raw.ObjectRef),
		pageIndex:  make(map[int]int),
		idTree:     make(map[string]raw.ObjectRef),
	}
}

// AddRoot appends a top-level structure element (typically one "Document"
// group spanning the whole file).
func (t *Tree) AddRoot(g *Group) *Tree {
	t.Roots = append(t.Roots, g)
	return t
}

// RegisterPage records the page index a given page's /StructParents entry
// should carry, needed because /ParentTree keys are per-page integers
// assigned in page order, not object numbers.
func (t *Tree) RegisterPage(page raw.ObjectRef, index int) {
	t.pageIndex[page.Num] = index
}

// Serialize walks every root group, allocating one indirect object per
// Group (parent ref known before its children are built, same order as
// buildStructureTree's top-down recursion), validates PDF/UA Figure alt-text
// via the active validator, and assembles /StructTreeRoot, /ParentTree and
// /IDTree. Returns the root's reference, or the zero ObjectRef if the tree
// is empty.
func (t *Tree) Serialize(ctx *engine.SerializeContext) raw.ObjectRef {
	if len(t.Roots) == 0 && len(t.RoleMap) == 0 {
		return raw.ObjectRef{}
	}

	kids := raw.NewArray()
	for _, root := range t.Roots {
		ref := t.buildElem(ctx, root, raw.ObjectRef{})
		if !ref.IsZero() {
			kids.Append(raw.RefTo(ref))
		}
	}

	rootDict := raw.NewDict()
	rootDict.Set("Type", raw.NameOf("StructTreeRoot"))
	if kids.Len() > 0 {
		rootDict.Set("K", kids)
	}
	if len(t.RoleMap) > 0 {
		roleDict := raw.NewDict()
		names := make([]string, 0, len(t.RoleMap))
		for k := range t.RoleMap {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			roleDict.Set(k, raw.NameOf(t.RoleMap[k]))
		}
		rootDict.Set("RoleMap", roleDict)
	}
	if ptRef := t.buildParentTree(ctx); !ptRef.IsZero() {
		rootDict.Set("ParentTree", raw.RefTo(ptRef))
	}
	if idRef := t.buildIDTree(ctx); !idRef.IsZero() {
		rootDict.Set("IDTree", raw.RefTo(idRef))
	}

	return ctx.AddObject(rootDict)
}

func (t *Tree) buildElem(ctx *engine.SerializeContext, g *Group, parent raw.ObjectRef) raw.ObjectRef {
	ref := ctx.NewRef()
	g.ref = ref

	dict := raw.NewDict()
	dict.Set("Type", raw.NameOf("StructElem"))
	if g.Type != "" {
		dict.Set("S", raw.NameOf(g.Type))
	}
	if g.Title != "" {
		dict.Set("T", raw.Str([]byte(g.Title)))
	}
	if g.Lang != "" {
		dict.Set("Lang", raw.Str([]byte(g.Lang)))
	}
	if g.Alt != "" {
		dict.Set("Alt", raw.Str([]byte(g.Alt)))
	}
	if g.ActualText != "" {
		dict.Set("ActualText", raw.Str([]byte(g.ActualText)))
	}
	if !parent.IsZero() {
		dict.Set("P", raw.RefTo(parent))
	}
	if g.ID != "" {
		dict.Set("ID", raw.Str([]byte(g.ID)))
		t.idTree[g.ID] = ref
	}

	if g.Type == "Figure" && g.Alt == "" {
		ctx.RegisterValidationError(compliance.Violation{
			Code:        "UA006",
			Description: "Figure missing Alternative Text",
			Location:    "StructElem Figure",
		})
	}

	kArr := raw.NewArray()
	for _, kid := range g.Children {
		switch {
		case kid.Group != nil:
			childRef := t.buildElem(ctx, kid.Group, ref)
			if !childRef.IsZero() {
				kArr.Append(raw.RefTo(childRef))
			}
		case kid.MCR != nil:
			mcr := raw.NewDict()
			mcr.Set("Type", raw.NameOf("MCR"))
			mcr.Set("Pg", raw.RefTo(kid.MCR.Page))
			mcr.Set("MCID", raw.Int(int64(kid.MCR.MCID)))
			kArr.Append(mcr)
			t.recordParentTreeEntry(kid.MCR.Page, kid.MCR.MCID, ref)
		default:
			objr := raw.NewDict()
			objr.Set("Type", raw.NameOf("OBJR"))
			objr.Set("Obj", raw.RefTo(kid.ObjR))
			kArr.Append(objr)
		}
	}
	if kArr.Len() > 0 {
		dict.Set("K", kArr)
	}

	ctx.SetObject(ref, dict)
	return ref
}

func (t *Tree) recordParentTreeEntry(page raw.ObjectRef, mcid int, elemRef raw.ObjectRef) {
	idx, ok := t.pageIndex[page.Num]
	if !ok {
		return
	}
	byMCID, ok := t.pageOfMCID[idx]
	if !ok {
		byMCID = make(map[int]raw.ObjectRef)
		t.pageOfMCID[idx] = byMCID
	}
	byMCID[mcid] = elemRef
}

func (t *Tree) buildParentTree(ctx *engine.SerializeContext) raw.ObjectRef {
	if len(t.pageOfMCID) == 0 {
		return raw.ObjectRef{}
	}
	pageIndices := make([]int, 0, len(t.pageOfMCID))
	for idx := range t.pageOfMCID {
		pageIndices = append(pageIndices, idx)
	}
	sort.Ints(pageIndices)

	nums := raw.NewArray()
	for _, idx := range pageIndices {
		byMCID := t.pageOfMCID[idx]
		maxMCID := -1
		for mcid := range byMCID {
			if mcid > maxMCID {
				maxMCID = mcid
			}
		}
		arr := raw.NewArray()
		for i := 0; i <= maxMCID; i++ {
			if ref, ok := byMCID[i]; ok {
				arr.Append(raw.RefTo(ref))
			} else {
				arr.Append(raw.Null{})
			}
		}
		nums.Append(raw.Int(int64(idx)), arr)
	}

	dict := raw.NewDict()
	dict.Set("Nums", nums)
	return ctx.AddObject(dict)
}

func (t *Tree) buildIDTree(ctx *engine.SerializeContext) raw.ObjectRef {
	if len(t.idTree) == 0 {
		return raw.ObjectRef{}
	}
	ids := make([]string, 0, len(t.idTree))
	for id := range t.idTree {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	names := raw.NewArray()
	for _, id := range ids {
		names.Append(raw.Str([]byte(id)), raw.RefTo(t.idTree[id]))
	}
	dict := raw.NewDict()
	dict.Set("Names", names)
	return ctx.AddObject(dict)
}
