package transform

import "testing"

func TestMergeCopiesHierarchyIntoDestination(t *testing.T) {
	src := newTestDoc()
	scene := src.CreateScene("src-scene")
	mesh := src.CreateMesh("box")
	prim := mesh.CreatePrimitive()
	prim.SetAttribute("POSITION", scalarAccessor(src, "pos", []float64{0, 1, 2}))
	parent := src.CreateNode("parent")
	child := src.CreateNode("child")
	child.SetMesh(mesh)
	parent.AddChild(child)
	scene.AddChild(parent)

	dst := newTestDoc()
	dst.CreateScene("existing") // merge should add alongside, not replace

	if err := dst.Transform(Merge(src)); err != nil {
		t.Fatalf("merge: %v", err)
	}

	if len(dst.Root().ListScenes()) != 2 {
		t.Fatalf("expected the pre-existing scene plus the merged one, got %d", len(dst.Root().ListScenes()))
	}
	if len(dst.Root().ListMeshes()) != 1 {
		t.Fatalf("expected the mesh copied into the destination")
	}

	var found bool
	for _, s := range dst.Root().ListScenes() {
		if s.Name == "src-scene" {
			found = true
			kids := s.ListChildren()
			if len(kids) != 1 || kids[0].Name != "parent" {
				t.Fatalf("expected merged scene to carry over the parent node")
			}
			grandkids := kids[0].ListChildren()
			if len(grandkids) != 1 || grandkids[0].Name != "child" {
				t.Fatalf("expected merged hierarchy to preserve parent/child nesting")
			}
			if grandkids[0].Mesh() == nil {
				t.Fatalf("expected the merged child node to reference the cloned mesh")
			}
		}
	}
	if !found {
		t.Fatalf("expected a scene named src-scene in the destination")
	}
}
