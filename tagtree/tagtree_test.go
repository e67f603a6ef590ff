package tagtree

import (
	"testing"

	"github.com/grainpress/sealpdf/compliance"
	"github.com/grainpress/sealpdf/engine"
	"github.com/grainpress/sealpdf/raw"
)

type alwaysGate struct{}

func (alwaysGate) Standard() string      { return "test" }
func (alwaysGate) Gates(string) bool     { return true }

func TestSerializeEmptyTreeReturnsZeroRef(t *testing.T) {
	tr := NewTree()
	ctx := engine.NewSerializeContext(nil, false)
	if ref := tr.Serialize(ctx); !ref.IsZero() {
		t.Fatalf("expected zero ref for empty tree, got %v", ref)
	}
}

func TestSerializeBuildsParentChildLinks(t *testing.T) {
	tr := NewTree()
	page := raw.ObjectRef{Num: 5}
	tr.RegisterPage(page, 0)

	doc := NewGroup("Document")
	para := NewGroup("P")
	para.AddMarkedContent(page, 0)
	doc.AddChild(para)
	tr.AddRoot(doc)

	ctx := engine.NewSerializeContext(nil, false)
	rootRef := tr.Serialize(ctx)
	if rootRef.IsZero() {
		t.Fatal("expected non-zero struct tree root")
	}
	rootObj, _ := ctx.Object(rootRef)
	rootDict := rootObj.(*raw.Dict)
	if _, ok := rootDict.Get("ParentTree"); !ok {
		t.Fatal("expected ParentTree entry when an MCR was registered")
	}
	k, _ := rootDict.Get("K")
	if k.(*raw.Array).Len() != 1 {
		t.Fatalf("expected one root child, got %v", k)
	}
}

func TestFigureMissingAltRegistersUA006(t *testing.T) {
	tr := NewTree()
	fig := NewGroup("Figure")
	tr.AddRoot(fig)

	ctx := engine.NewSerializeContext(alwaysGate{}, false)
	tr.Serialize(ctx)

	found := false
	for _, v := range ctx.ValidationErrors() {
		if v.Code == "UA006" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected UA006 violation for Figure without Alt")
	}
}

func TestFigureWithAltDoesNotRegisterUA006(t *testing.T) {
	tr := NewTree()
	fig := NewGroup("Figure")
	fig.Alt = "a photo of a cat"
	tr.AddRoot(fig)

	ctx := engine.NewSerializeContext(alwaysGate{}, false)
	tr.Serialize(ctx)

	for _, v := range ctx.ValidationErrors() {
		if v.Code == "UA006" {
			t.Fatal("did not expect UA006 when Alt is set")
		}
	}
}

func TestIDTreeRegistersNamedGroups(t *testing.T) {
	tr := NewTree()
	doc := NewGroup("Document")
	doc.ID = "root-1"
	tr.AddRoot(doc)

	ctx := engine.NewSerializeContext(nil, false)
	rootRef := tr.Serialize(ctx)
	rootObj, _ := ctx.Object(rootRef)
	rootDict := rootObj.(*raw.Dict)
	if _, ok := rootDict.Get("IDTree"); !ok {
		t.Fatal("expected IDTree entry for a named group")
	}
}

var _ compliance.Validator = alwaysGate{}
