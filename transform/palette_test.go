package transform

import (
	"testing"

	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/document"
)

func flatPrimitive(d *document.Document, mesh *document.Mesh, baseColor [4]float32) *document.Primitive {
	prim := mesh.CreatePrimitive()
	arr := accessor.NewArray(accessor.Float, accessor.VEC3, false, 3)
	arr.WriteRaw(0, []float64{0, 0, 0})
	arr.WriteRaw(1, []float64{1, 0, 0})
	arr.WriteRaw(2, []float64{0, 1, 0})
	prim.SetAttribute("POSITION", d.CreateAccessor("pos").SetArray(arr))
	mat := d.CreateMaterial("")
	mat.BaseColorFactor = baseColor
	prim.SetMaterial(mat)
	return prim
}

func TestPaletteMergesPrimitivesByFactorTuple(t *testing.T) {
	d := newTestDoc()
	mesh := d.CreateMesh("parts")
	red := flatPrimitive(d, mesh, [4]float32{1, 0, 0, 1})
	red2 := flatPrimitive(d, mesh, [4]float32{1, 0, 0, 1})
	blue := flatPrimitive(d, mesh, [4]float32{0, 0, 1, 1})

	if err := d.Transform(Palette(PaletteConfig{Grid: 4})); err != nil {
		t.Fatalf("palette: %v", err)
	}

	if red.Material() != red2.Material() {
		t.Fatalf("expected identical-tuple primitives to share one palette material")
	}
	if red.Material() != blue.Material() {
		t.Fatalf("expected every candidate primitive to share the single palette material")
	}
	if red.Material() == nil || red.Material().Name != "palette" {
		t.Fatalf("expected the shared material to be the synthesized palette material")
	}

	if red.GetAttribute("TEXCOORD_0") == nil {
		t.Fatalf("expected a synthesized TEXCOORD_0 on each candidate primitive")
	}
	redMin, _ := red.GetAttribute("TEXCOORD_0").MinMax()
	blueMin, _ := blue.GetAttribute("TEXCOORD_0").MinMax()
	if redMin[0] == blueMin[0] && redMin[1] == blueMin[1] {
		t.Fatalf("expected distinct tuples assigned to distinct palette cells")
	}
	red2Min, _ := red2.GetAttribute("TEXCOORD_0").MinMax()
	if redMin[0] != red2Min[0] || redMin[1] != red2Min[1] {
		t.Fatalf("expected same-tuple primitives to be stamped with the same UV cell")
	}
}

func TestPaletteSkipsPrimitivesAlreadyTextured(t *testing.T) {
	d := newTestDoc()
	mesh := d.CreateMesh("m")
	prim := flatPrimitive(d, mesh, [4]float32{1, 1, 1, 1})
	uv := accessor.NewArray(accessor.Float, accessor.VEC2, false, 3)
	prim.SetAttribute("TEXCOORD_0", d.CreateAccessor("uv").SetArray(uv))
	before := prim.Material()

	if err := d.Transform(Palette(PaletteConfig{})); err != nil {
		t.Fatalf("palette: %v", err)
	}

	if prim.Material() != before {
		t.Fatalf("primitive with an existing TEXCOORD_0 should be left untouched")
	}
}
