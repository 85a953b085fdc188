package transform

import (
	"testing"

	"github.com/mrigankad/gltfkit/document"
)

func TestCopyToDocumentClonesAccessorsAndMeshesAcrossDocuments(t *testing.T) {
	src := newTestDoc()
	mesh := src.CreateMesh("box")
	prim := mesh.CreatePrimitive()
	pos := scalarAccessor(src, "pos", []float64{0, 1, 2})
	prim.SetAttribute("POSITION", pos)

	dst := newTestDoc()
	clones, err := copyToDocument(dst, src, []document.Property{mesh, pos})
	if err != nil {
		t.Fatalf("copyToDocument: %v", err)
	}

	clonedMesh, ok := clones[mesh].(*document.Mesh)
	if !ok {
		t.Fatalf("expected a cloned mesh in the returned map")
	}
	if clonedMesh == mesh {
		t.Fatalf("expected clone to be a distinct property from the original")
	}
	if len(dst.Root().ListMeshes()) != 1 {
		t.Fatalf("expected the clone attached to the destination document's root")
	}
	if len(src.Root().ListMeshes()) != 1 {
		t.Fatalf("expected the source document untouched by copyToDocument")
	}

	clonedPrim := clonedMesh.ListPrimitives()[0]
	if clonedPrim.GetAttribute("POSITION") == pos {
		t.Fatalf("expected the cloned primitive to reference the cloned accessor, not the original")
	}
}

func TestCopyToDocumentRejectsSceneAndNode(t *testing.T) {
	src := newTestDoc()
	scene := src.CreateScene("s")
	dst := newTestDoc()

	if _, err := copyToDocument(dst, src, []document.Property{scene}); err == nil {
		t.Fatalf("expected copying a Scene to be rejected as unsupported")
	}

	node := src.CreateNode("n")
	if _, err := copyToDocument(dst, src, []document.Property{node}); err == nil {
		t.Fatalf("expected copying a Node to be rejected as unsupported")
	}
}

func TestMoveToDocumentDisposesOriginals(t *testing.T) {
	src := newTestDoc()
	mesh := src.CreateMesh("box")
	dst := newTestDoc()

	if _, err := moveToDocument(dst, src, []document.Property{mesh}); err != nil {
		t.Fatalf("moveToDocument: %v", err)
	}

	if src.Graph().IsLive(mesh.ID()) {
		t.Fatalf("expected the original mesh disposed from the source document after move")
	}
	if len(dst.Root().ListMeshes()) != 1 {
		t.Fatalf("expected the moved mesh to land in the destination document")
	}
}
