// Package ioadapter is the platform I/O boundary (spec §4.F): URI
// resolution relative to an asset, and reading/writing the JSON, GLB, and
// sidecar (.bin, image) files that make one up. The core package (codec,
// document) never touches a filesystem directly; this is the only library
// package in the module that does (the cmd/gltfkit command also opens
// files itself).
package ioadapter

import (
	"os"
	"path/filepath"

	gltfkit "github.com/mrigankad/gltfkit"
	"github.com/mrigankad/gltfkit/codec"
	"github.com/mrigankad/gltfkit/document"
	"github.com/mrigankad/gltfkit/ext"
	"github.com/mrigankad/gltfkit/logging"
)

// FileAdapter resolves URIs relative to baseDir using plain os file I/O —
// the same os.ReadFile/os.WriteFile shape the teacher's io/scene_io.go
// uses for its own asset format.
type FileAdapter struct {
	BaseDir string
}

// NewFileAdapter returns an adapter that resolves URIs against baseDir,
// used as given: a file path is not reduced to its parent directory.
func NewFileAdapter(baseDir string) *FileAdapter {
	return &FileAdapter{BaseDir: baseDir}
}

// Resolve implements codec.BufferResolver: external URIs are joined against
// BaseDir and read from disk. Data URIs never reach this method — codec
// handles those itself before falling back to the resolver.
func (a *FileAdapter) Resolve(uri string) ([]byte, error) {
	full := filepath.Join(a.BaseDir, filepath.FromSlash(uri))
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, &gltfkit.IOError{Path: full, Err: err}
	}
	return data, nil
}

// ReadBinaryOptions configures ReadBinary/ReadJSON.
type ReadBinaryOptions struct {
	Logger   logging.Logger
	Registry *ext.Registry
}

// ReadBinary loads a .glb file from path into a Document (spec §4.F
// "readBinary"). External buffer/image URIs resolve relative to path's
// directory.
func ReadBinary(path string, opts ReadBinaryOptions) (*document.Document, error) {
	return readFile(path, opts)
}

// ReadJSON loads a .gltf JSON file (plus any sidecar .bin/image files it
// references) from path into a Document (spec §4.F "readJSON").
func ReadJSON(path string, opts ReadBinaryOptions) (*document.Document, error) {
	return readFile(path, opts)
}

func readFile(path string, opts ReadBinaryOptions) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &gltfkit.IOError{Path: path, Err: err}
	}
	adapter := NewFileAdapter(filepath.Dir(path))
	d, err := codec.Read(data, codec.ReadOptions{
		Logger:   opts.Logger,
		Registry: opts.Registry,
		Resolver: adapter,
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// WriteBinary writes a Document to path as a self-contained GLB (spec §4.F
// "writeBinary").
func WriteBinary(d *document.Document, path string) error {
	data, err := codec.Write(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &gltfkit.IOError{Path: path, Err: err}
	}
	return nil
}

// WriteJSON writes a Document as plain glTF JSON at path plus a sidecar
// "<name>.bin" holding the packed buffer bytes (spec §4.F "writeJSON").
func WriteJSON(d *document.Document, path string) error {
	base := filepath.Base(path)
	bufferName := base[:len(base)-len(filepath.Ext(base))] + ".bin"

	jsonBytes, bufferBytes, err := codec.WriteJSON(d, codec.WriteOptions{BufferURI: bufferName})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, jsonBytes, 0o644); err != nil {
		return &gltfkit.IOError{Path: path, Err: err}
	}
	binPath := filepath.Join(filepath.Dir(path), bufferName)
	if err := os.WriteFile(binPath, bufferBytes, 0o644); err != nil {
		return &gltfkit.IOError{Path: binPath, Err: err}
	}
	return nil
}
