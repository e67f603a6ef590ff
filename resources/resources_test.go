package resources

import (
	"testing"

	"github.com/grainpress/sealpdf/raw"
)

func TestMapperAssignsSequentialNamesInFirstUseOrder(t *testing.T) {
	m := NewMapper[raw.ObjectRef](Font)
	a := raw.ObjectRef{Num: 5}
	b := raw.ObjectRef{Num: 7}
	if got := m.Remap(a); got != "f0" {
		t.Fatalf("got %q", got)
	}
	if got := m.Remap(b); got != "f1" {
		t.Fatalf("got %q", got)
	}
	if got := m.Remap(a); got != "f0" {
		t.Fatalf("repeat lookup should return the same name, got %q", got)
	}
	if m.Len() != 2 {
		t.Fatalf("got Len=%d, want 2", m.Len())
	}
}

func TestSetDictOmitsEmptyCategories(t *testing.T) {
	s := NewSet()
	s.Font.Remap(raw.ObjectRef{Num: 1})
	d := s.Dict()
	if _, ok := d.Get("Font"); !ok {
		t.Fatal("expected Font category present")
	}
	if _, ok := d.Get("Pattern"); ok {
		t.Fatal("expected Pattern category omitted when unused")
	}
}

func TestFreezePreservesOrder(t *testing.T) {
	m := NewMapper[raw.ObjectRef](XObject)
	refs := []raw.ObjectRef{{Num: 3}, {Num: 1}, {Num: 9}}
	for _, r := range refs {
		m.Remap(r)
	}
	rl := Freeze(m, func(r raw.ObjectRef) raw.Object { return raw.RefTo(r) })
	for i, e := range rl.Entries {
		want := refs[i]
		got := e.Object.(raw.Ref).To
		if got != want {
			t.Fatalf("entry %d: got %v, want %v", i, got, want)
		}
	}
}
