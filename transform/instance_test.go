package transform

import (
	"testing"

	"github.com/mrigankad/gltfkit/document"
	"github.com/mrigankad/gltfkit/ext"
)

func TestInstanceBatchesSiblingsSharingAMesh(t *testing.T) {
	d := newTestDoc()
	scene := d.CreateScene("s")
	mesh := d.CreateMesh("box")

	translations := [][3]float32{{0, 0, 0}, {0, 0, 1}, {0, 0, 2}}
	for i, tr := range translations {
		n := d.CreateNode("box")
		n.SetMesh(mesh)
		n.SetTranslation(tr)
		scene.AddChild(n)
		_ = i
	}

	if err := d.Transform(Instance(InstanceConfig{Min: 2})); err != nil {
		t.Fatalf("instance: %v", err)
	}

	kids := scene.ListChildren()
	if len(kids) != 1 {
		t.Fatalf("expected the three sibling nodes collapsed into one, got %d children", len(kids))
	}
	n := kids[0]
	if n.Mesh() != mesh {
		t.Fatalf("expected the replacement node to keep referencing the shared mesh")
	}

	raw, ok := n.GetExtension(ext.NameMeshGPUInstancing)
	if !ok {
		t.Fatalf("expected EXT_mesh_gpu_instancing on the replacement node")
	}
	attrs := raw.(*ext.InstancingAttributes)

	if _, ok := attrs.Attributes["ROTATION"]; ok {
		t.Fatalf("rotation is identity for every instance, expected it omitted")
	}
	if _, ok := attrs.Attributes["SCALE"]; ok {
		t.Fatalf("scale is identity for every instance, expected it omitted")
	}
	transID, ok := attrs.Attributes["TRANSLATION"]
	if !ok {
		t.Fatalf("expected a TRANSLATION attribute array")
	}
	prop, ok := d.Lookup(transID)
	if !ok {
		t.Fatalf("TRANSLATION accessor should be registered in the document")
	}
	acc := prop.(*document.Accessor)
	if acc.Count() != 3 {
		t.Fatalf("expected 3 translation entries, got %d", acc.Count())
	}
}

func TestInstanceLeavesSkinnedNodesAlone(t *testing.T) {
	d := newTestDoc()
	scene := d.CreateScene("s")
	mesh := d.CreateMesh("box")
	skin := d.CreateSkin("skin")

	for i := 0; i < 3; i++ {
		n := d.CreateNode("box")
		n.SetMesh(mesh)
		if i == 0 {
			n.SetSkin(skin)
		}
		scene.AddChild(n)
	}

	if err := d.Transform(Instance(InstanceConfig{Min: 2})); err != nil {
		t.Fatalf("instance: %v", err)
	}

	// Exactly 2 of the 3 nodes are skin-free, which meets Min=2, so they
	// still batch; the skinned one stays separate.
	kids := scene.ListChildren()
	if len(kids) != 2 {
		t.Fatalf("expected one batched node plus the untouched skinned node, got %d", len(kids))
	}
}
