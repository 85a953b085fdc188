package ioadapter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	gltfkit "github.com/mrigankad/gltfkit"
	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/document"
)

func newFixtureDoc() *document.Document {
	d := document.New(nil, nil)
	mesh := d.CreateMesh("m")
	prim := mesh.CreatePrimitive()
	arr := accessor.NewArray(accessor.Float, accessor.VEC3, false, 3)
	arr.WriteRaw(0, []float64{0, 0, 0})
	arr.WriteRaw(1, []float64{1, 0, 0})
	arr.WriteRaw(2, []float64{0, 1, 0})
	prim.SetAttribute("POSITION", d.CreateAccessor("pos").SetArray(arr))
	return d
}

func TestWriteBinaryThenReadBinaryRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "asset.glb")

	if err := WriteBinary(newFixtureDoc(), path); err != nil {
		t.Fatalf("writeBinary: %v", err)
	}

	d, err := ReadBinary(path, ReadBinaryOptions{})
	if err != nil {
		t.Fatalf("readBinary: %v", err)
	}
	if len(d.Root().ListMeshes()) != 1 {
		t.Fatalf("expected 1 mesh after GLB round trip")
	}
}

func TestWriteJSONThenReadJSONRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "asset.gltf")

	if err := WriteJSON(newFixtureDoc(), path); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "asset.bin")); err != nil {
		t.Fatalf("expected sidecar .bin file written: %v", err)
	}

	d, err := ReadJSON(path, ReadBinaryOptions{})
	if err != nil {
		t.Fatalf("readJSON: %v", err)
	}
	if len(d.Root().ListMeshes()) != 1 {
		t.Fatalf("expected 1 mesh after JSON round trip")
	}
}

func TestReadBinaryMissingFileReturnsIOError(t *testing.T) {
	_, err := ReadBinary(filepath.Join(t.TempDir(), "nope.glb"), ReadBinaryOptions{})
	if err == nil {
		t.Fatalf("expected an error reading a nonexistent file")
	}
	var ioErr *gltfkit.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected a *gltfkit.IOError, got %T", err)
	}
}
