package codec

import (
	"bytes"

	"github.com/mrigankad/gltfkit/document"
	"github.com/qmuntal/gltf"
)

// WriteOptions configures a Write/WriteJSON call.
type WriteOptions struct {
	// BufferURI names the sidecar buffer when writing non-GLB JSON; ignored
	// by Write (GLB embeds the buffer with no URI).
	BufferURI string
}

// Write serializes a Document to a single GLB byte stream (spec §4.E
// "Writing"): buffer views are allocated by usage, the JSON and BIN chunks
// are built, and they are concatenated with a recomputed 12-byte header.
func Write(d *document.Document) ([]byte, error) {
	w, buf, err := build(d)
	if err != nil {
		return nil, err
	}
	w.Buffers = []*gltf.Buffer{{ByteLength: uint32(len(buf)), Data: buf}}

	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(w); err != nil {
		return nil, validationErrorf("encoding GLB: %v", err)
	}
	return out.Bytes(), nil
}

// WriteJSON serializes a Document to plain glTF JSON with the packed buffer
// exposed as w.Buffers[0].URI=opts.BufferURI; the caller (ioadapter) is
// responsible for writing the returned buffer bytes to that sidecar path.
func WriteJSON(d *document.Document, opts WriteOptions) (jsonBytes, bufferBytes []byte, err error) {
	w, buf, err := build(d)
	if err != nil {
		return nil, nil, err
	}
	w.Buffers = []*gltf.Buffer{{ByteLength: uint32(len(buf)), URI: opts.BufferURI}}

	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = false
	if err := enc.Encode(w); err != nil {
		return nil, nil, validationErrorf("encoding glTF JSON: %v", err)
	}
	return out.Bytes(), buf, nil
}

func align4(n int) int { return (n + 3) &^ 3 }

// toFloat32Slice narrows an Accessor.MinMax() float64 slice to the float32
// slice gltf.Accessor.Min/Max expects on the wire.
func toFloat32Slice(v []float64) []float32 {
	if v == nil {
		return nil
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

// build runs the full write pipeline (spec §4.E steps 1-3) and returns the
// populated wire document (buffers field left for the caller to finish) and
// the packed accessor byte payload.
func build(d *document.Document) (*gltf.Document, []byte, error) {
	w := &gltf.Document{
		Asset: gltf.Asset{
			Generator: d.Root().Asset.Generator,
			Version:   "2.0",
			Copyright: d.Root().Asset.Copyright,
		},
	}
	if w.Asset.Generator == "" {
		w.Asset.Generator = "gltfkit"
	}

	groups := plan(d)
	var payload []byte
	accessorLoc := make(map[*document.Accessor]struct {
		view   int
		offset int
	})
	for gi, g := range groups {
		if pad := align4(len(payload)) - len(payload); pad > 0 {
			payload = append(payload, make([]byte, pad)...)
		}
		memberStart := len(payload)
		for _, a := range g.members {
			off := align4(len(payload) - memberStart)
			if pad := off - (len(payload) - memberStart); pad > 0 {
				payload = append(payload, make([]byte, pad)...)
			}
			bytesAt := len(payload)
			payload = append(payload, a.Typed().Materialize().Bytes()...)
			accessorLoc[a] = struct {
				view   int
				offset int
			}{view: gi, offset: bytesAt - memberStart}
		}
		viewLen := len(payload) - memberStart
		w.BufferViews = append(w.BufferViews, &gltf.BufferView{
			Buffer:     0,
			ByteOffset: uint32(memberStart),
			ByteLength: uint32(viewLen),
			Target:     gltf.Target(g.key.usage.target()),
		})
	}

	positionAccessors := positionSet(d)

	accIndex := make(map[*document.Accessor]uint32)
	for i, a := range d.Root().ListAccessors() {
		loc := accessorLoc[a]
		wa := &gltf.Accessor{
			Name:          a.Name,
			ComponentType: wireComponentType(a.ComponentType()),
			Type:          wireElementType(a.ElementType()),
			Normalized:    a.Normalized(),
			Count:         uint32(a.Count()),
		}
		if _, hasBytes := accessorLoc[a]; hasBytes {
			bv := uint32(loc.view)
			wa.BufferView = &bv
			wa.ByteOffset = uint32(loc.offset)
		}
		if positionAccessors[a] {
			min, max := a.MinMax()
			wa.Min, wa.Max = toFloat32Slice(min), toFloat32Slice(max)
		}
		w.Accessors = append(w.Accessors, wa)
		accIndex[a] = uint32(i)
	}

	texIndex, err := writeTextures(w, d, &payload)
	if err != nil {
		return nil, nil, err
	}
	matIndex := writeMaterials(w, d, texIndex)
	meshIndex, err := writeMeshes(w, d, accIndex, matIndex)
	if err != nil {
		return nil, nil, err
	}
	camIndex := writeCameras(w, d)

	nodeIndex := make(map[*document.Node]uint32)
	for i, n := range d.Root().ListNodes() {
		nodeIndex[n] = uint32(i)
	}
	skinIndex, err := writeSkins(w, d, accIndex, nodeIndex)
	if err != nil {
		return nil, nil, err
	}
	if err := writeNodes(w, d, meshIndex, camIndex, skinIndex, nodeIndex); err != nil {
		return nil, nil, err
	}
	writeScenes(w, d, nodeIndex)
	if err := writeAnimations(w, d, accIndex, nodeIndex); err != nil {
		return nil, nil, err
	}
	writeExtensions(w, d)

	return w, payload, nil
}

func positionSet(d *document.Document) map[*document.Accessor]bool {
	out := make(map[*document.Accessor]bool)
	for _, mesh := range d.Root().ListMeshes() {
		for _, p := range mesh.ListPrimitives() {
			if a := p.GetAttribute("POSITION"); a != nil {
				out[a] = true
			}
		}
	}
	return out
}

func writeExtensions(w *gltf.Document, d *document.Document) {
	w.ExtensionsUsed = d.ExtensionsUsed()
	w.ExtensionsRequired = d.ExtensionsRequired()
}
