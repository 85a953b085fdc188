package transform

import (
	"testing"

	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/document"
	"github.com/mrigankad/gltfkit/graph"
)

func newTestDoc() *document.Document { return document.New(nil, nil) }

func scalarAccessor(d *document.Document, name string, vals []float64) *document.Accessor {
	arr := accessor.NewArray(accessor.UnsignedShort, accessor.SCALAR, false, len(vals))
	for i, v := range vals {
		arr.WriteRaw(i, []float64{v})
	}
	return d.CreateAccessor(name).SetArray(arr)
}

func TestDedupMergesIdenticalAccessorsAndRedirectsReferences(t *testing.T) {
	d := newTestDoc()
	a := scalarAccessor(d, "a", []float64{0, 1, 2})
	b := scalarAccessor(d, "b", []float64{0, 1, 2})
	mesh := d.CreateMesh("m")
	prim := mesh.CreatePrimitive()
	prim.SetIndices(b)

	if err := d.Transform(Dedup(DedupConfig{Accessors: true})); err != nil {
		t.Fatalf("dedup: %v", err)
	}

	if prim.Indices() != a {
		t.Fatalf("expected primitive's indices redirected to surviving accessor a, got %v", prim.Indices())
	}
	if d.Graph().IsLive(b.ID()) {
		t.Fatalf("expected duplicate accessor b to be disposed")
	}
	if !d.Graph().IsLive(a.ID()) {
		t.Fatalf("expected surviving accessor a to remain live")
	}
}

func TestDedupLeavesDistinctAccessorsAlone(t *testing.T) {
	d := newTestDoc()
	a := scalarAccessor(d, "a", []float64{0, 1, 2})
	b := scalarAccessor(d, "b", []float64{3, 4, 5})

	if err := d.Transform(Dedup(DedupConfig{Accessors: true})); err != nil {
		t.Fatalf("dedup: %v", err)
	}

	if !d.Graph().IsLive(a.ID()) || !d.Graph().IsLive(b.ID()) {
		t.Fatalf("distinct accessors should both survive dedup")
	}
}

func TestHasModifyChildParentDetectsAnimationRetargetEdge(t *testing.T) {
	d := newTestDoc()
	a := scalarAccessor(d, "a", []float64{0, 1, 2})
	b := scalarAccessor(d, "b", []float64{0, 1, 2})

	if hasModifyChildParent(d, a) {
		t.Fatalf("plain accessor should have no ModifyChild parent edge")
	}

	// Animation channels are the only edges in the document package that
	// ever set ModifyChild (spec §4.A/§4.B); simulate one directly against
	// the graph to pin down hasModifyChildParent's contract, since no
	// dedup-eligible property type (Accessor/Mesh/Material/Texture) is
	// ever itself the child of such an edge in practice.
	d.Graph().Connect(a.ID(), b.ID(), "target", graph.EdgeAttrs{ModifyChild: true})
	if !hasModifyChildParent(d, b) {
		t.Fatalf("expected ModifyChild parent edge to be detected")
	}
}
