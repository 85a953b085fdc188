package codec

import (
	"github.com/mrigankad/gltfkit/document"
	"github.com/mrigankad/gltfkit/ext"
	"github.com/qmuntal/gltf"
)

func ptrF64(v float64) *float64 { return &v }

type samplerKey struct {
	wrapS, wrapT document.Wrap
	minF, magF   document.Filter
}

// writeTextures emits one wire Image per distinct document.Texture (dedup by
// pointer identity, so textures sharing a Texture via multiple material
// slots emit one Image), one wire Sampler per distinct wrap/filter
// combination, and one wire Texture per TextureInfo slot (spec §4.E step 6
// run in reverse: glTF separates Image/Sampler/Texture, our document
// package unifies source bytes and per-slot sampler settings, so this is
// where they're split back apart). Image bytes are appended to payload and
// exposed through a bufferView, never a data URI, so Width/Height/Channels
// probing on read round-trips without re-encoding pixels.
func writeTextures(w *gltf.Document, d *document.Document, payload *[]byte) (map[*document.TextureInfo]uint32, error) {
	imgIndex := make(map[*document.Texture]uint32)
	sampIndex := make(map[samplerKey]uint32)
	texIndex := make(map[*document.TextureInfo]uint32)

	imageIndexFor := func(t *document.Texture) uint32 {
		if i, ok := imgIndex[t]; ok {
			return i
		}
		var bv *uint32
		if len(t.Data) > 0 {
			if pad := align4(len(*payload)) - len(*payload); pad > 0 {
				*payload = append(*payload, make([]byte, pad)...)
			}
			start := len(*payload)
			*payload = append(*payload, t.Data...)
			idx := uint32(len(w.BufferViews))
			w.BufferViews = append(w.BufferViews, &gltf.BufferView{
				Buffer:     0,
				ByteOffset: uint32(start),
				ByteLength: uint32(len(t.Data)),
			})
			bv = &idx
		}
		i := uint32(len(w.Images))
		w.Images = append(w.Images, &gltf.Image{
			Name:       t.Name,
			URI:        t.URI,
			MimeType:   t.MIMEType,
			BufferView: bv,
		})
		imgIndex[t] = i
		return i
	}

	samplerIndexFor := func(k samplerKey) uint32 {
		if i, ok := sampIndex[k]; ok {
			return i
		}
		minF := gltf.MinFilter(int(k.minF))
		magF := gltf.MagFilter(int(k.magF))
		i := uint32(len(w.Samplers))
		w.Samplers = append(w.Samplers, &gltf.Sampler{
			WrapS:     gltf.WrappingMode(int(k.wrapS)),
			WrapT:     gltf.WrappingMode(int(k.wrapT)),
			MinFilter: &minF,
			MagFilter: &magF,
		})
		sampIndex[k] = i
		return i
	}

	register := func(ti *document.TextureInfo) {
		if ti == nil {
			return
		}
		if _, ok := texIndex[ti]; ok {
			return
		}
		tex := ti.Texture()
		if tex == nil {
			return
		}
		imgIdx := imageIndexFor(tex)
		sampIdx := samplerIndexFor(samplerKey{ti.WrapS, ti.WrapT, ti.MinFilter, ti.MagFilter})
		i := uint32(len(w.Textures))
		w.Textures = append(w.Textures, &gltf.Texture{
			Name:    tex.Name,
			Source:  &imgIdx,
			Sampler: &sampIdx,
		})
		texIndex[ti] = i
	}

	for _, m := range d.Root().ListMaterials() {
		register(m.BaseColorTexture())
		register(m.MetallicRoughnessTexture())
		register(m.NormalTexture())
		register(m.OcclusionTexture())
		register(m.EmissiveTexture())
	}
	return texIndex, nil
}

// writeMaterials translates every Material into its wire form, binding
// texture slots through texIndex (spec §4.E step 6).
func writeMaterials(w *gltf.Document, d *document.Document, texIndex map[*document.TextureInfo]uint32) map[*document.Material]uint32 {
	idx := make(map[*document.Material]uint32)
	bind := func(ti *document.TextureInfo) *gltf.TextureInfo {
		if ti == nil {
			return nil
		}
		i, ok := texIndex[ti]
		if !ok {
			return nil
		}
		return &gltf.TextureInfo{Index: i, TexCoord: uint32(ti.TexCoord)}
	}
	for i, m := range d.Root().ListMaterials() {
		wm := &gltf.Material{
			Name: m.Name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor:          [4]float64{float64(m.BaseColorFactor[0]), float64(m.BaseColorFactor[1]), float64(m.BaseColorFactor[2]), float64(m.BaseColorFactor[3])},
				MetallicFactor:           ptrF64(float64(m.MetallicFactor)),
				RoughnessFactor:          ptrF64(float64(m.RoughnessFactor)),
				BaseColorTexture:         bind(m.BaseColorTexture()),
				MetallicRoughnessTexture: bind(m.MetallicRoughnessTexture()),
			},
			EmissiveFactor: [3]float64{float64(m.EmissiveFactor[0]), float64(m.EmissiveFactor[1]), float64(m.EmissiveFactor[2])},
			AlphaMode:      gltf.AlphaMode(string(m.AlphaMode)),
			AlphaCutoff:    ptrF64(float64(m.AlphaCutoff)),
			DoubleSided:    m.DoubleSided,
		}
		if nt := bind(m.NormalTexture()); nt != nil {
			wm.NormalTexture = &gltf.NormalTexture{Index: &nt.Index, TexCoord: nt.TexCoord, Scale: ptrF64(float64(m.NormalScale))}
		}
		if ot := bind(m.OcclusionTexture()); ot != nil {
			wm.OcclusionTexture = &gltf.OcclusionTexture{Index: &ot.Index, TexCoord: ot.TexCoord, Strength: ptrF64(float64(m.OcclusionStrength))}
		}
		wm.EmissiveTexture = bind(m.EmissiveTexture())

		w.Materials = append(w.Materials, wm)
		idx[m] = uint32(i)
	}
	return idx
}

// writeMeshes emits Mesh/Primitive with all bound attributes, indices,
// morph targets and material reference (spec §4.E step 7).
func writeMeshes(w *gltf.Document, d *document.Document, accIndex map[*document.Accessor]uint32, matIndex map[*document.Material]uint32) (map[*document.Mesh]uint32, error) {
	idx := make(map[*document.Mesh]uint32)
	for i, mesh := range d.Root().ListMeshes() {
		wm := &gltf.Mesh{Name: mesh.Name}
		if len(mesh.Weights) > 0 {
			weights := make([]float64, len(mesh.Weights))
			for j, v := range mesh.Weights {
				weights[j] = float64(v)
			}
			wm.Weights = weights
		}
		for _, p := range mesh.ListPrimitives() {
			if err := p.ValidateAttributeCounts(); err != nil {
				return nil, validationErrorf("mesh %d: %v", i, err)
			}
			wp := &gltf.Primitive{
				Mode:       gltf.PrimitiveMode(p.Mode),
				Attributes: map[string]uint32{},
			}
			for _, sem := range p.ListSemantics() {
				if a := p.GetAttribute(sem); a != nil {
					wp.Attributes[sem] = accIndex[a]
				}
			}
			if idxAcc := p.Indices(); idxAcc != nil {
				ai := accIndex[idxAcc]
				wp.Indices = &ai
			}
			if mat := p.Material(); mat != nil {
				mi := matIndex[mat]
				wp.Material = &mi
			}
			for ti := 0; ti < p.MorphTargetCount(); ti++ {
				target := map[string]uint32{}
				for _, sem := range p.MorphTargetSemantics(ti) {
					if a := p.GetMorphTarget(ti, sem); a != nil {
						target[sem] = accIndex[a]
					}
				}
				wp.Targets = append(wp.Targets, target)
			}
			wm.Primitives = append(wm.Primitives, wp)
		}
		w.Meshes = append(w.Meshes, wm)
		idx[mesh] = uint32(i)
	}
	return idx, nil
}

func writeCameras(w *gltf.Document, d *document.Document) map[*document.Camera]uint32 {
	idx := make(map[*document.Camera]uint32)
	for i, c := range d.Root().ListCameras() {
		wc := &gltf.Camera{Name: c.Name}
		switch c.Type {
		case document.CameraPerspective:
			wc.Type = gltf.CameraPerspective
			wc.Perspective = &gltf.Perspective{
				Yfov:  float64(c.Perspective.YFov),
				Znear: float64(c.Perspective.Znear),
			}
			if c.Perspective.AspectRatio != 0 {
				wc.Perspective.AspectRatio = ptrF64(float64(c.Perspective.AspectRatio))
			}
			if c.Perspective.Zfar != 0 {
				wc.Perspective.Zfar = ptrF64(float64(c.Perspective.Zfar))
			}
		case document.CameraOrthographic:
			wc.Type = gltf.CameraOrthographic
			wc.Orthographic = &gltf.Orthographic{
				Xmag:  float64(c.Orthographic.Xmag),
				Ymag:  float64(c.Orthographic.Ymag),
				Zfar:  float64(c.Orthographic.Zfar),
				Znear: float64(c.Orthographic.Znear),
			}
		}
		w.Cameras = append(w.Cameras, wc)
		idx[c] = uint32(i)
	}
	return idx
}

func writeSkins(w *gltf.Document, d *document.Document, accIndex map[*document.Accessor]uint32, nodeIndex map[*document.Node]uint32) (map[*document.Skin]uint32, error) {
	idx := make(map[*document.Skin]uint32)
	for i, s := range d.Root().ListSkins() {
		ws := &gltf.Skin{Name: s.Name}
		if ibm := s.InverseBindMatrices(); ibm != nil {
			ai := accIndex[ibm]
			ws.InverseBindMatrices = &ai
		}
		for _, j := range s.ListJoints() {
			ji, ok := nodeIndex[j]
			if !ok {
				return nil, validationErrorf("skin %d: joint node not reachable from any scene root", i)
			}
			ws.Joints = append(ws.Joints, ji)
		}
		if root := s.SkeletonRoot(); root != nil {
			ri := nodeIndex[root]
			ws.Skeleton = &ri
		}
		w.Skins = append(w.Skins, ws)
		idx[s] = uint32(i)
	}
	return idx, nil
}

func writeNodes(w *gltf.Document, d *document.Document, meshIndex map[*document.Mesh]uint32, camIndex map[*document.Camera]uint32, skinIndex map[*document.Skin]uint32, nodeIndex map[*document.Node]uint32) error {
	nodes := d.Root().ListNodes()
	w.Nodes = make([]*gltf.Node, len(nodes))
	for i, n := range nodes {
		wn := &gltf.Node{Name: n.Name}
		if !n.IsIdentityTransform() {
			wn.Translation, wn.Rotation, wn.Scale = n.Translation(), n.Rotation(), n.Scale()
		}
		if mesh := n.Mesh(); mesh != nil {
			mi := meshIndex[mesh]
			wn.Mesh = &mi
		}
		if cam := n.Camera(); cam != nil {
			ci := camIndex[cam]
			wn.Camera = &ci
		}
		if skin := n.Skin(); skin != nil {
			si := skinIndex[skin]
			wn.Skin = &si
		}
		for _, c := range n.ListChildren() {
			if ci, ok := nodeIndex[c]; ok {
				wn.Children = append(wn.Children, ci)
			}
		}
		w.Nodes[i] = wn
	}
	return writeInstancing(w, d, nodeIndex)
}

// writeInstancing re-serializes any EXT_mesh_gpu_instancing attribute set
// attached to a node, resolving each accessor reference back to an index
// through the document's property lookup (spec §4.H "instance").
func writeInstancing(w *gltf.Document, d *document.Document, nodeIndex map[*document.Node]uint32) error {
	accIdx := make(map[*document.Accessor]uint32)
	for i, a := range d.Root().ListAccessors() {
		accIdx[a] = uint32(i)
	}
	for n, ni := range nodeIndex {
		p, ok := n.GetExtension(ext.NameMeshGPUInstancing)
		if !ok {
			continue
		}
		attrs, ok := p.(*ext.InstancingAttributes)
		if !ok {
			continue
		}
		out := make(map[string]uint32, len(attrs.Attributes))
		for sem, id := range attrs.Attributes {
			prop, ok := d.Lookup(id)
			if !ok {
				continue
			}
			a, ok := prop.(*document.Accessor)
			if !ok {
				continue
			}
			out[sem] = accIdx[a]
		}
		if len(out) == 0 {
			continue
		}
		wn := w.Nodes[ni]
		if wn.Extensions == nil {
			wn.Extensions = gltf.Extensions{}
		}
		wn.Extensions[ext.NameMeshGPUInstancing] = map[string]any{"attributes": out}
	}
	return nil
}

func writeScenes(w *gltf.Document, d *document.Document, nodeIndex map[*document.Node]uint32) {
	for _, s := range d.Root().ListScenes() {
		ws := &gltf.Scene{Name: s.Name}
		for _, n := range s.ListChildren() {
			if ni, ok := nodeIndex[n]; ok {
				ws.Nodes = append(ws.Nodes, ni)
			}
		}
		w.Scenes = append(w.Scenes, ws)
	}
	if len(w.Scenes) > 0 {
		def := uint32(0)
		for i, s := range d.Root().ListScenes() {
			if s == d.Root().DefaultScene {
				def = uint32(i)
				break
			}
		}
		w.Scene = &def
	}
}

func writeAnimations(w *gltf.Document, d *document.Document, accIndex map[*document.Accessor]uint32, nodeIndex map[*document.Node]uint32) error {
	for ai, anim := range d.Root().ListAnimations() {
		wa := &gltf.Animation{Name: anim.Name}
		sampIdx := make(map[*document.AnimationSampler]uint32)
		for i, s := range anim.ListSamplers() {
			ws := &gltf.AnimationSampler{Interpolation: gltf.Interpolation(string(s.Interpolation))}
			if in := s.Input(); in != nil {
				ws.Input = accIndex[in]
			}
			if out := s.Output(); out != nil {
				ws.Output = accIndex[out]
			}
			wa.Samplers = append(wa.Samplers, ws)
			sampIdx[s] = uint32(i)
		}
		for _, c := range anim.ListChannels() {
			wc := &gltf.Channel{
				Sampler: sampIdx[c.Sampler()],
				Target: &gltf.ChannelTarget{
					Path: gltf.TRSProperty(string(c.Path)),
				},
			}
			if n := c.TargetNode(); n != nil {
				ni, ok := nodeIndex[n]
				if !ok {
					return validationErrorf("animation %d: channel target node not reachable from any scene root", ai)
				}
				wc.Target.Node = &ni
			}
			wa.Channels = append(wa.Channels, wc)
		}
		w.Animations = append(w.Animations, wa)
	}
	return nil
}
