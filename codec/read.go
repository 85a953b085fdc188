package codec

import (
	"bytes"

	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/document"
	"github.com/mrigankad/gltfkit/ext"
	"github.com/mrigankad/gltfkit/logging"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ReadOptions configures a Read call.
type ReadOptions struct {
	Logger   logging.Logger
	Registry *ext.Registry
	Resolver BufferResolver
}

// Read decodes a GLB or glTF-JSON byte stream into a Document (spec §4.E
// "Reading", steps 1-9). GLB chunk framing and the wire-level JSON schema
// are handled by gltf.Decoder; everything past that — buffer resolution,
// accessor/sparse materialization, and the property graph itself — is this
// package's job.
func Read(data []byte, opts ReadOptions) (*document.Document, error) {
	var wire gltf.Document
	dec := gltf.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&wire); err != nil {
		return nil, parseErrorf("decoding glTF: %v", err)
	}

	d := document.New(opts.Logger, opts.Registry)
	d.Root().Asset = document.Asset{
		Generator: wire.Asset.Generator,
		Version:   wire.Asset.Version,
		Copyright: wire.Asset.Copyright,
	}

	r := &readState{
		doc:      d,
		wire:     &wire,
		resolver: opts.Resolver,
	}
	if err := r.buffers(); err != nil {
		return nil, err
	}
	if err := r.accessors(); err != nil {
		return nil, err
	}
	if err := r.images(); err != nil {
		return nil, err
	}
	r.textures()
	if err := r.materials(); err != nil {
		return nil, err
	}
	if err := r.meshes(); err != nil {
		return nil, err
	}
	r.cameras()
	r.skins()
	if err := r.nodes(); err != nil {
		return nil, err
	}
	r.scenes()
	if err := r.animations(); err != nil {
		return nil, err
	}
	r.extensions()

	return d, nil
}

type readState struct {
	doc      *document.Document
	wire     *gltf.Document
	resolver BufferResolver

	buffers_   []*document.Buffer
	accessors_ []*document.Accessor
	images_    []*document.Texture // one Texture per wire Image; textures alias these
	textures_  []*document.Texture
	materials_ []*document.Material
	meshes_    []*document.Mesh
	cameras_   []*document.Camera
	skins_     []*document.Skin
	nodes_     []*document.Node
}

// buffers materializes Buffer and resolves each one's bytes (spec §4.E step
// 2). The GLB/embedded buffer is already populated by gltf.Decoder; external
// and data URIs are resolved here.
func (r *readState) buffers() error {
	for i, wb := range r.wire.Buffers {
		b := r.doc.CreateBuffer(wb.Name)
		data := wb.Data
		if len(data) == 0 && wb.URI != "" {
			_, resolved, err := resolveURI(wb.URI, r.resolver)
			if err != nil {
				return parseErrorf("buffer %d: resolving %q: %v", i, wb.URI, err)
			}
			data = resolved
			// modeler.ReadBufferView reads straight from r.wire.Buffers, so an
			// externally-resolved buffer has to be written back here or every
			// bufferView slice into it would come back empty.
			r.wire.Buffers[i].Data = resolved
		}
		b.URI = wb.URI
		b.Data = data
		r.buffers_ = append(r.buffers_, b)
	}
	return nil
}

// bufferViewBytes returns a bufferView's raw bytes via modeler.ReadBufferView,
// the same call scene/gltf_loader.go used against a live *gltf.Document.
func (r *readState) bufferViewBytes(idx int) ([]byte, *gltf.BufferView, error) {
	if idx >= len(r.wire.BufferViews) {
		return nil, nil, validationErrorf("bufferView index %d out of range", idx)
	}
	bv := r.wire.BufferViews[idx]
	raw, err := modeler.ReadBufferView(r.wire, bv)
	if err != nil {
		return nil, nil, validationErrorf("bufferView %d: %v", idx, err)
	}
	return raw, bv, nil
}

// accessors materializes every Accessor, including sparse overlays (spec
// §4.E step 5).
func (r *readState) accessors() error {
	for i, wa := range r.wire.Accessors {
		comp := fromWireComponentType(wa.ComponentType)
		elem := fromWireElementType(wa.Type)
		count := int(wa.Count)

		var base *accessor.Array
		if wa.BufferView != nil {
			raw, bv, err := r.bufferViewBytes(*wa.BufferView)
			if err != nil {
				return err
			}
			stride := comp.Size() * elem.Components()
			if bv.ByteStride != 0 {
				stride = int(bv.ByteStride)
			}
			off := int(wa.ByteOffset)
			packed := make([]byte, 0, count*comp.Size()*elem.Components())
			elemSize := comp.Size() * elem.Components()
			for e := 0; e < count; e++ {
				start := off + e*stride
				if start+elemSize > len(raw) {
					return validationErrorf("accessor %d: element %d out of bufferView range", i, e)
				}
				packed = append(packed, raw[start:start+elemSize]...)
			}
			arr, err := accessor.FromBytes(comp, elem, wa.Normalized, count, packed)
			if err != nil {
				return parseErrorf("accessor %d: %v", i, err)
			}
			base = arr
		} else {
			base = accessor.NewArray(comp, elem, wa.Normalized, count)
		}

		typed := &accessor.Typed{Base: base}
		if wa.Sparse != nil {
			sp, err := r.sparse(wa, comp, elem)
			if err != nil {
				return err
			}
			typed.Sparse = sp
		}

		a := r.doc.CreateAccessor(wa.Name)
		a.SetArray(typed.Base)
		if typed.Sparse != nil {
			a.SetSparse(typed.Sparse)
		}
		if wa.BufferView != nil {
			a.SetBuffer(r.buffers_[r.wire.BufferViews[*wa.BufferView].Buffer])
		}
		r.accessors_ = append(r.accessors_, a)
	}
	return nil
}

func (r *readState) sparse(wa *gltf.Accessor, comp accessor.ComponentType, elem accessor.ElementType) (*accessor.Sparse, error) {
	sp := wa.Sparse
	n := int(sp.Count)

	idxRaw, _, err := r.bufferViewBytes(sp.Indices.BufferView)
	if err != nil {
		return nil, err
	}
	idxComp := fromWireComponentType(sp.Indices.ComponentType)
	idxArr, err := accessor.FromBytes(idxComp, accessor.SCALAR, false, n, idxRaw[sp.Indices.ByteOffset:])
	if err != nil {
		return nil, parseErrorf("sparse indices: %v", err)
	}

	valRaw, _, err := r.bufferViewBytes(sp.Values.BufferView)
	if err != nil {
		return nil, err
	}
	valArr, err := accessor.FromBytes(comp, elem, false, n, valRaw[sp.Values.ByteOffset:])
	if err != nil {
		return nil, parseErrorf("sparse values: %v", err)
	}

	return &accessor.Sparse{Indices: idxArr, Values: valArr}, nil
}

// images materializes Texture byte payloads from wire Images (spec §4.E step
// 6): data URIs are inlined, bufferView-embedded images are sliced out, and
// duplicate URIs deliver identical bytes to each referencing texture.
func (r *readState) images() error {
	cache := make(map[string][]byte)
	for i, wi := range r.wire.Images {
		var data []byte
		var mime string
		switch {
		case wi.BufferView != nil:
			raw, _, err := r.bufferViewBytes(*wi.BufferView)
			if err != nil {
				return err
			}
			data = append([]byte(nil), raw...)
			mime = wi.MimeType
		case wi.URI != "":
			if cached, ok := cache[wi.URI]; ok {
				data = cached
			} else {
				m, resolved, err := resolveURI(wi.URI, r.resolver)
				if err != nil {
					return parseErrorf("image %d: resolving %q: %v", i, wi.URI, err)
				}
				data = resolved
				mime = m
				cache[wi.URI] = resolved
			}
			if mime == "" {
				mime = wi.MimeType
			}
		}
		t := r.doc.CreateTexture(wi.Name)
		t.URI = wi.URI
		t.MIMEType = mime
		t.Data = data
		if w, h, c, ok := probeImage(mime, data); ok {
			t.Width, t.Height, t.Channels = w, h, c
		}
		r.images_ = append(r.images_, t)
	}
	return nil
}

// samplerSettings resolves the wrap/filter enums a TextureInfo slot should
// carry from a texture's referenced sampler, defaulting to glTF's own
// defaults (REPEAT wrap, linear filtering) when the texture has none.
func (r *readState) samplerSettings(texIdx *int) (wrapS, wrapT document.Wrap, minF, magF document.Filter) {
	wrapS, wrapT = document.WrapRepeat, document.WrapRepeat
	minF, magF = document.FilterLinear, document.FilterLinear
	if texIdx == nil {
		return
	}
	wt := r.wire.Textures[*texIdx]
	if wt.Sampler == nil {
		return
	}
	s := r.wire.Samplers[*wt.Sampler]
	if s.WrapS != 0 {
		wrapS = document.Wrap(s.WrapS)
	}
	if s.WrapT != 0 {
		wrapT = document.Wrap(s.WrapT)
	}
	if s.MinFilter != gltf.MinUndefined {
		minF = document.Filter(s.MinFilter)
	}
	if s.MagFilter != gltf.MagUndefined {
		magF = document.Filter(s.MagFilter)
	}
	return
}
