package transform

import (
	"math"
	"testing"

	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/document"
)

func vec3Positions(d *document.Document, name string, pts [][3]float64) *document.Accessor {
	arr := accessor.NewArray(accessor.Float, accessor.VEC3, false, len(pts))
	for i, p := range pts {
		arr.WriteRaw(i, []float64{p[0], p[1], p[2]})
	}
	return d.CreateAccessor(name).SetArray(arr)
}

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

// TestQuantizePositionWrapsNodeTransform exercises the AABB [0,0,0]-[50,50,50]
// scenario: quantizing POSITION into [-1,1] should produce a wrapping node
// translation/scale of [25,25,25] so the node's world-space placement of the
// mesh is unchanged.
func TestQuantizePositionWrapsNodeTransform(t *testing.T) {
	d := newTestDoc()
	scene := d.CreateScene("s")
	mesh := d.CreateMesh("box")
	prim := mesh.CreatePrimitive()
	pos := vec3Positions(d, "pos", [][3]float64{{0, 0, 0}, {50, 50, 50}})
	prim.SetAttribute("POSITION", pos)

	node := d.CreateNode("n")
	node.SetMesh(mesh)
	scene.AddChild(node)

	cfg := QuantizeConfig{Bits: map[string]int{"POSITION": 16}}
	if err := d.Transform(Quantize(cfg)); err != nil {
		t.Fatalf("quantize: %v", err)
	}

	tr := node.Translation()
	sc := node.Scale()
	want := float32(25)
	if !almostEqual(tr[0], want) || !almostEqual(tr[1], want) || !almostEqual(tr[2], want) {
		t.Fatalf("expected wrapping translation [25,25,25], got %v", tr)
	}
	if !almostEqual(sc[0], want) || !almostEqual(sc[1], want) || !almostEqual(sc[2], want) {
		t.Fatalf("expected wrapping scale [25,25,25], got %v", sc)
	}

	if pos.ComponentType() != accessor.Short {
		t.Fatalf("expected POSITION narrowed to a signed 16-bit storage type, got %v", pos.ComponentType())
	}
}

// TestQuantizePositionWithChildrenInsertsWrapperNode covers the case the
// naive "fold compensation into the mesh-bearing node's own TRS" approach
// gets wrong: if the node has children, scaling its own TRS would also
// rescale every child's world transform. Quantize must instead insert a
// new child node carrying the compensation, leaving the original node (and
// its other children) untouched.
func TestQuantizePositionWithChildrenInsertsWrapperNode(t *testing.T) {
	d := newTestDoc()
	scene := d.CreateScene("s")
	mesh := d.CreateMesh("box")
	prim := mesh.CreatePrimitive()
	pos := vec3Positions(d, "pos", [][3]float64{{0, 0, 0}, {50, 50, 50}})
	prim.SetAttribute("POSITION", pos)

	node := d.CreateNode("n")
	node.SetMesh(mesh)
	scene.AddChild(node)

	child := d.CreateNode("child")
	child.SetTranslation([3]float32{1, 2, 3})
	node.AddChild(child)

	cfg := QuantizeConfig{Bits: map[string]int{"POSITION": 16}}
	if err := d.Transform(Quantize(cfg)); err != nil {
		t.Fatalf("quantize: %v", err)
	}

	zero := float32(0)
	tr := node.Translation()
	if !almostEqual(tr[0], zero) || !almostEqual(tr[1], zero) || !almostEqual(tr[2], zero) {
		t.Fatalf("expected node's own translation left identity, got %v", tr)
	}
	sc := node.Scale()
	one := float32(1)
	if !almostEqual(sc[0], one) || !almostEqual(sc[1], one) || !almostEqual(sc[2], one) {
		t.Fatalf("expected node's own scale left identity, got %v", sc)
	}
	if node.Mesh() != nil {
		t.Fatalf("expected mesh moved off node onto a wrapper child")
	}

	childTr := child.Translation()
	if !almostEqual(childTr[0], 1) || !almostEqual(childTr[1], 2) || !almostEqual(childTr[2], 3) {
		t.Fatalf("expected pre-existing child's own translation untouched, got %v", childTr)
	}

	var wrapper *document.Node
	for _, c := range node.ListChildren() {
		if c.Mesh() == mesh {
			wrapper = c
		}
	}
	if wrapper == nil {
		t.Fatalf("expected a new child node carrying the quantized mesh")
	}
	want := float32(25)
	wtr := wrapper.Translation()
	if !almostEqual(wtr[0], want) || !almostEqual(wtr[1], want) || !almostEqual(wtr[2], want) {
		t.Fatalf("expected wrapper translation [25,25,25], got %v", wtr)
	}
	wsc := wrapper.Scale()
	if !almostEqual(wsc[0], want) || !almostEqual(wsc[1], want) || !almostEqual(wsc[2], want) {
		t.Fatalf("expected wrapper scale [25,25,25], got %v", wsc)
	}
}

func TestQuantizeSkipsSemanticWithNoConfiguredBits(t *testing.T) {
	d := newTestDoc()
	mesh := d.CreateMesh("m")
	prim := mesh.CreatePrimitive()
	pos := vec3Positions(d, "pos", [][3]float64{{0, 0, 0}, {1, 1, 1}})
	prim.SetAttribute("POSITION", pos)

	if err := d.Transform(Quantize(QuantizeConfig{})); err != nil {
		t.Fatalf("quantize: %v", err)
	}
	if pos.ComponentType() != accessor.Float {
		t.Fatalf("expected POSITION left untouched with no configured bit depth")
	}
}
