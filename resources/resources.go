// Package resources tracks, per content stream, which indirect objects are
// referenced and under which short local name they were emitted. The
// teacher's resources package resolves names to objects while reading a
// PDF; this is the write-direction mirror: objects go in, short names come
// out, in first-use order.
package resources

import (
	"fmt"

	"github.com/grainpress/sealpdf/raw"
)

// Category names one of the six PDF resource dictionary entries a content
// stream can reference. The one-letter code is the local name prefix.
type Category struct {
	Name   string // e.g. "ColorSpace"
	Prefix string // e.g. "c"
}

var (
	ColorSpace = Category{Name: "ColorSpace", Prefix: "c"}
	ExtGState  = Category{Name: "ExtGState", Prefix: "g"}
	Pattern    = Category{Name: "Pattern", Prefix: "p"}
	XObject    = Category{Name: "XObject", Prefix: "x"}
	Shading    = Category{Name: "Shading", Prefix: "s"}
	Font       = Category{Name: "Font", Prefix: "f"}
)

// Mapper assigns a short local name to each distinct object reference the
// first time it's seen within one content stream, and returns the same name
// on every subsequent lookup. Order of first use is preserved so the
// resource dictionary serializes deterministically.
type Mapper[T comparable] struct {
	category Category
	order    []T
	names    map[T]string
}

func NewMapper[T comparable](category Category) *Mapper[T] {
	return &Mapper[T]{category: category, names: make(map[T]string)}
}

// Remap returns the local name for key, assigning the next sequential name
// ("c0", "c1", ...) the first time key is seen.
func (m *Mapper[T]) Remap(key T) string {
	if name, ok := m.names[key]; ok {
		return name
	}
	name := fmt.Sprintf("%s%d", m.category.Prefix, len(m.order))
	m.names[key] = name
	m.order = append(m.order, key)
	return name
}

// Len reports how many distinct entries have been remapped so far.
func (m *Mapper[T]) Len() int { return len(m.order) }

// Freeze produces the ResourceList capturing this mapper's entries in
// first-use order, pairing each local name with the caller-supplied PDF
// object it maps to. Called once the content stream that owns this mapper
// is closed; the mapper itself is not reused afterward.
func Freeze[T comparable](m *Mapper[T], resolve func(T) raw.Object) *ResourceList {
	rl := &ResourceList{Category: m.category}
	for _, key := range m.order {
		rl.Entries = append(rl.Entries, Entry{Name: m.names[key], Object: resolve(key)})
	}
	return rl
}

// Entry pairs a local resource name with the object (usually a raw.Ref) it
// resolves to.
type Entry struct {
	Name   string
	Object raw.Object
}

// ResourceList is one category's frozen name table, ready to serialize as a
// PDF sub-dictionary.
type ResourceList struct {
	Category Category
	Entries  []Entry
}

func (rl *ResourceList) Dict() *raw.Dict {
	d := raw.NewDict()
	for _, e := range rl.Entries {
		d.Set(e.Name, e.Object)
	}
	return d
}

// Set is the full complement of six typed mappers a single content stream
// owns, mirroring spec §3's per-stream resource dictionary.
type Set struct {
	ColorSpace *Mapper[raw.ObjectRef]
	ExtGState  *Mapper[raw.ObjectRef]
	Pattern    *Mapper[raw.ObjectRef]
	XObject    *Mapper[raw.ObjectRef]
	Shading    *Mapper[raw.ObjectRef]
	Font       *Mapper[raw.ObjectRef]
}

func NewSet() *Set {
	return &Set{
		ColorSpace: NewMapper[raw.ObjectRef](ColorSpace),
		ExtGState:  NewMapper[raw.ObjectRef](ExtGState),
		Pattern:    NewMapper[raw.ObjectRef](Pattern),
		XObject:    NewMapper[raw.ObjectRef](XObject),
		Shading:    NewMapper[raw.ObjectRef](Shading),
		Font:       NewMapper[raw.ObjectRef](Font),
	}
}

// Dict assembles the full /Resources dictionary from whichever of the six
// categories actually accumulated entries; empty categories are omitted.
func (s *Set) Dict() *raw.Dict {
	d := raw.NewDict()
	for _, m := range []struct {
		cat Category
		mp  *Mapper[raw.ObjectRef]
	}{
		{ColorSpace, s.ColorSpace}, {ExtGState, s.ExtGState}, {Pattern, s.Pattern},
		{XObject, s.XObject}, {Shading, s.Shading}, {Font, s.Font},
	} {
		if m.mp.Len() == 0 {
			continue
		}
		sub := Freeze(m.mp, func(ref raw.ObjectRef) raw.Object { return raw.RefTo(ref) })
		d.Set(m.cat.Name, sub.Dict())
	}
	return d
}
