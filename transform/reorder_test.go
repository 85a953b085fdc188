package transform

import (
	"testing"

	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/document"
)

// reverseEncoder is a fake MeshoptEncoder that visits indices in reverse
// order, just enough to exercise the remap machinery deterministically.
type reverseEncoder struct{}

func (reverseEncoder) OptimizeVertexCache(indices []uint32, vertexCount int) []uint32 {
	out := make([]uint32, len(indices))
	for i, v := range indices {
		out[len(indices)-1-i] = v
	}
	return out
}

func triangleAccessors(d *document.Document) (*document.Accessor, *document.Accessor) {
	posArr := accessor.NewArray(accessor.Float, accessor.VEC3, false, 3)
	posArr.WriteRaw(0, []float64{0, 0, 0})
	posArr.WriteRaw(1, []float64{1, 0, 0})
	posArr.WriteRaw(2, []float64{0, 1, 0})
	pos := d.CreateAccessor("pos").SetArray(posArr)

	idxArr := accessor.NewArray(accessor.UnsignedShort, accessor.SCALAR, false, 3)
	idxArr.WriteRaw(0, []float64{0})
	idxArr.WriteRaw(1, []float64{1})
	idxArr.WriteRaw(2, []float64{2})
	idx := d.CreateAccessor("idx").SetArray(idxArr)
	return pos, idx
}

func TestReorderRewritesVertexOrderToFirstUse(t *testing.T) {
	d := newTestDoc()
	mesh := d.CreateMesh("m")
	prim := mesh.CreatePrimitive()
	pos, idx := triangleAccessors(d)
	prim.SetAttribute("POSITION", pos)
	prim.SetIndices(idx)

	if err := d.Transform(Reorder(ReorderConfig{Encoder: reverseEncoder{}})); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	newIdx := prim.Indices()
	vals := newIdx.Typed()
	for i := 0; i < 3; i++ {
		if got := vals.ReadRaw(i)[0]; got != float64(i) {
			t.Fatalf("expected trivial ascending index buffer, got %v at %d", got, i)
		}
	}

	newPos := prim.GetAttribute("POSITION")
	p := newPos.Typed()
	want := [][]float64{{0, 1, 0}, {1, 0, 0}, {0, 0, 0}}
	for i, w := range want {
		got := p.ReadRaw(i)
		for k := range w {
			if got[k] != w[k] {
				t.Fatalf("vertex %d: expected %v, got %v", i, w, got)
			}
		}
	}
}

func TestReorderClonesSharedAccessorsRatherThanMutatingBothPrimitives(t *testing.T) {
	d := newTestDoc()
	mesh := d.CreateMesh("m")
	prim1 := mesh.CreatePrimitive()
	prim2 := mesh.CreatePrimitive()
	pos, idx := triangleAccessors(d)
	prim1.SetAttribute("POSITION", pos)
	prim1.SetIndices(idx)
	prim2.SetAttribute("POSITION", pos)
	prim2.SetIndices(idx)

	if err := d.Transform(Reorder(ReorderConfig{Encoder: reverseEncoder{}})); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	if prim1.GetAttribute("POSITION") == prim2.GetAttribute("POSITION") {
		t.Fatalf("expected the shared POSITION accessor to be cloned, not mutated for both primitives")
	}
}

func TestReorderFailsWithoutAnEncoder(t *testing.T) {
	d := newTestDoc()
	if err := d.Transform(Reorder(ReorderConfig{})); err == nil {
		t.Fatalf("expected reorder to fail when no MeshoptEncoder is supplied")
	}
}

// identityEncoder returns the index buffer unchanged, so any change in
// output is attributable to the unreferenced-vertex compaction rather than
// to the encoder's own reordering.
type identityEncoder struct{}

func (identityEncoder) OptimizeVertexCache(indices []uint32, vertexCount int) []uint32 {
	out := make([]uint32, len(indices))
	copy(out, indices)
	return out
}

// TestReorderDropsVerticesNeverReferencedByIndices covers valid glTF where
// an attribute accessor has more vertices than the index buffer actually
// touches (POSITION count 4, indices reference only 3 of them). remap[3]
// stays -1 for the unreferenced vertex; permuteAccessor must skip it rather
// than write at a negative offset.
func TestReorderDropsVerticesNeverReferencedByIndices(t *testing.T) {
	d := newTestDoc()
	mesh := d.CreateMesh("m")
	prim := mesh.CreatePrimitive()

	posArr := accessor.NewArray(accessor.Float, accessor.VEC3, false, 4)
	posArr.WriteRaw(0, []float64{0, 0, 0})
	posArr.WriteRaw(1, []float64{1, 0, 0})
	posArr.WriteRaw(2, []float64{0, 1, 0})
	posArr.WriteRaw(3, []float64{9, 9, 9})
	pos := d.CreateAccessor("pos").SetArray(posArr)

	idxArr := accessor.NewArray(accessor.UnsignedShort, accessor.SCALAR, false, 3)
	idxArr.WriteRaw(0, []float64{0})
	idxArr.WriteRaw(1, []float64{1})
	idxArr.WriteRaw(2, []float64{2})
	idx := d.CreateAccessor("idx").SetArray(idxArr)

	prim.SetAttribute("POSITION", pos)
	prim.SetIndices(idx)

	if err := d.Transform(Reorder(ReorderConfig{Encoder: identityEncoder{}})); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	newPos := prim.GetAttribute("POSITION")
	if newPos.Typed().Count() != 3 {
		t.Fatalf("expected unreferenced vertex dropped, got count %d", newPos.Typed().Count())
	}
	want := [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for i, w := range want {
		got := newPos.Typed().ReadRaw(i)
		for k := range w {
			if got[k] != w[k] {
				t.Fatalf("vertex %d: expected %v, got %v", i, w, got)
			}
		}
	}
}

// TestReorderPermutesMorphTargetsInLockStep ensures a morph target
// accessor bound to the same primitive is remapped with the identical
// remap table as the base attributes, not left untouched.
func TestReorderPermutesMorphTargetsInLockStep(t *testing.T) {
	d := newTestDoc()
	mesh := d.CreateMesh("m")
	prim := mesh.CreatePrimitive()
	pos, idx := triangleAccessors(d)
	prim.SetAttribute("POSITION", pos)
	prim.SetIndices(idx)

	morphArr := accessor.NewArray(accessor.Float, accessor.VEC3, false, 3)
	morphArr.WriteRaw(0, []float64{10, 0, 0})
	morphArr.WriteRaw(1, []float64{0, 10, 0})
	morphArr.WriteRaw(2, []float64{0, 0, 10})
	morph := d.CreateAccessor("morph").SetArray(morphArr)
	prim.SetMorphTarget(0, "POSITION", morph)

	if err := d.Transform(Reorder(ReorderConfig{Encoder: reverseEncoder{}})); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	newMorph := prim.GetMorphTarget(0, "POSITION")
	if newMorph == nil {
		t.Fatalf("expected morph target accessor to survive reorder")
	}
	want := [][]float64{{0, 0, 10}, {0, 10, 0}, {10, 0, 0}}
	for i, w := range want {
		got := newMorph.Typed().ReadRaw(i)
		for k := range w {
			if got[k] != w[k] {
				t.Fatalf("morph vertex %d: expected %v, got %v", i, w, got)
			}
		}
	}
}
