package transform

import (
	"testing"

	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/document"
)

func TestWeldMergesExactDuplicateVerticesWithNoIndexBuffer(t *testing.T) {
	d := newTestDoc()
	mesh := d.CreateMesh("m")
	prim := mesh.CreatePrimitive()

	arr := accessor.NewArray(accessor.Float, accessor.VEC3, false, 4)
	arr.WriteRaw(0, []float64{0, 0, 0})
	arr.WriteRaw(1, []float64{1, 0, 0})
	arr.WriteRaw(2, []float64{0, 0, 0}) // duplicate of vertex 0
	arr.WriteRaw(3, []float64{0, 1, 0})
	prim.SetAttribute("POSITION", d.CreateAccessor("pos").SetArray(arr))

	if err := d.Transform(Weld(WeldConfig{})); err != nil {
		t.Fatalf("weld: %v", err)
	}

	pos := prim.GetAttribute("POSITION")
	if pos.Count() != 3 {
		t.Fatalf("expected 3 distinct vertices after welding, got %d", pos.Count())
	}

	idx := prim.Indices()
	if idx == nil {
		t.Fatalf("expected weld to synthesize an index buffer")
	}
	t2 := idx.Typed()
	if t2.Count() != 4 {
		t.Fatalf("expected 4 index entries (one per original vertex), got %d", t2.Count())
	}
	if t2.ReadRaw(0)[0] != t2.ReadRaw(2)[0] {
		t.Fatalf("expected original vertices 0 and 2 to map to the same welded index")
	}
	if t2.ReadRaw(0)[0] == t2.ReadRaw(1)[0] {
		t.Fatalf("expected distinct original vertices to map to distinct welded indices")
	}
}

func TestWeldLeavesPrimitiveWithNoDuplicatesAlone(t *testing.T) {
	d := newTestDoc()
	mesh := d.CreateMesh("m")
	prim := mesh.CreatePrimitive()
	arr := accessor.NewArray(accessor.Float, accessor.VEC3, false, 3)
	arr.WriteRaw(0, []float64{0, 0, 0})
	arr.WriteRaw(1, []float64{1, 0, 0})
	arr.WriteRaw(2, []float64{0, 1, 0})
	pos := d.CreateAccessor("pos").SetArray(arr)
	prim.SetAttribute("POSITION", pos)

	if err := d.Transform(Weld(WeldConfig{})); err != nil {
		t.Fatalf("weld: %v", err)
	}

	if prim.GetAttribute("POSITION") != pos {
		t.Fatalf("expected accessor left untouched when nothing was duplicated")
	}
	if prim.Indices() != nil {
		t.Fatalf("expected no index buffer synthesized when nothing was welded")
	}
}

func TestWeldRespectsTypesFilter(t *testing.T) {
	d := newTestDoc()
	mesh := d.CreateMesh("skip-me")
	prim := mesh.CreatePrimitive()
	arr := accessor.NewArray(accessor.Float, accessor.VEC3, false, 2)
	arr.WriteRaw(0, []float64{0, 0, 0})
	arr.WriteRaw(1, []float64{0, 0, 0})
	pos := d.CreateAccessor("pos").SetArray(arr)
	prim.SetAttribute("POSITION", pos)

	if err := d.Transform(Weld(WeldConfig{Types: []string{"other-mesh"}})); err != nil {
		t.Fatalf("weld: %v", err)
	}

	if prim.GetAttribute("POSITION").Count() != 2 {
		t.Fatalf("expected mesh outside Types filter to be left untouched")
	}
}
