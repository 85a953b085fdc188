package document

import (
	"testing"

	"github.com/mrigankad/gltfkit/accessor"
)

func newTestDoc() *Document { return New(nil, nil) }

func TestSceneMembershipOnReparent(t *testing.T) {
	d := newTestDoc()
	s1 := d.CreateScene("s1")
	s2 := d.CreateScene("s2")
	n := d.CreateNode("n")
	parent := d.CreateNode("parent")

	s1.AddChild(n)
	s2.AddChild(n)

	parent.AddChild(n)

	if len(s1.ListChildren()) != 0 {
		t.Fatalf("expected s1 empty after reparent, got %v", s1.ListChildren())
	}
	if len(s2.ListChildren()) != 0 {
		t.Fatalf("expected s2 empty after reparent, got %v", s2.ListChildren())
	}
	kids := parent.ListChildren()
	if len(kids) != 1 || kids[0] != n {
		t.Fatalf("expected parent to have [n], got %v", kids)
	}
}

func TestAddingToSceneDoesNotRemoveFromOtherScenes(t *testing.T) {
	d := newTestDoc()
	s1 := d.CreateScene("s1")
	s2 := d.CreateScene("s2")
	n := d.CreateNode("n")

	s1.AddChild(n)
	s2.AddChild(n)

	if len(s1.ListChildren()) != 1 || len(s2.ListChildren()) != 1 {
		t.Fatalf("node should belong to both scenes")
	}
}

func TestNodeHasAtMostOneParent(t *testing.T) {
	d := newTestDoc()
	p1 := d.CreateNode("p1")
	p2 := d.CreateNode("p2")
	n := d.CreateNode("n")

	p1.AddChild(n)
	p2.AddChild(n)

	if len(p1.ListChildren()) != 0 {
		t.Fatalf("p1 should have lost n")
	}
	if got := p2.ListChildren(); len(got) != 1 || got[0] != n {
		t.Fatalf("p2 should have n, got %v", got)
	}
	if n.ParentNode() != p2 {
		t.Fatalf("n's parent should be p2")
	}
}

func TestDisposeCascadesToOwnedTextureInfo(t *testing.T) {
	d := newTestDoc()
	mat := d.CreateMaterial("m")
	tex := d.CreateTexture("t")
	ti := mat.SetBaseColorTexture(tex)

	mat.Dispose()

	if d.Graph().IsLive(ti.id) {
		t.Fatalf("owned TextureInfo should be disposed with its material")
	}
	if !d.Graph().IsLive(tex.id) {
		t.Fatalf("shared Texture should survive material disposal")
	}
}

func TestAccessorEqualityTransitivity(t *testing.T) {
	d := newTestDoc()
	mk := func() *Accessor {
		arr := accessor.NewArray(accessor.UnsignedShort, accessor.SCALAR, false, 3)
		arr.WriteRaw(0, []float64{0})
		arr.WriteRaw(1, []float64{1})
		arr.WriteRaw(2, []float64{2})
		return d.CreateAccessor("idx").SetArray(arr)
	}
	a, b, c := mk(), mk(), mk()

	if !a.EqualsProp(b, nil) || !b.EqualsProp(c, nil) {
		t.Fatalf("expected a==b==c")
	}
	if !a.EqualsProp(c, nil) {
		t.Fatalf("equality should be transitive: a==c")
	}
}

func TestWorldMatrixComposesThroughParentChain(t *testing.T) {
	d := newTestDoc()
	parent := d.CreateNode("parent").SetTranslation([3]float32{10, 0, 0})
	child := d.CreateNode("child").SetTranslation([3]float32{0, 5, 0})
	parent.AddChild(child)

	world := child.WorldMatrix()
	if world[3][0] != 10 || world[3][1] != 5 {
		t.Fatalf("expected world translation (10,5,0), got row3=%v", world[3])
	}
}
