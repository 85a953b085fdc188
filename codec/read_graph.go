package codec

import (
	"github.com/mrigankad/gltfkit/document"
	"github.com/mrigankad/gltfkit/ext"
	gmath "github.com/mrigankad/gltfkit/math"
	"github.com/qmuntal/gltf"
)

// textures creates one document.Texture per wire Texture, pointing at the
// image bytes materialized by images() and carrying that texture's sampler
// settings forward for material translation to consume.
func (r *readState) textures() {
	r.textures_ = make([]*document.Texture, len(r.wire.Textures))
	for i, wt := range r.wire.Textures {
		if wt.Source == nil || int(*wt.Source) >= len(r.images_) {
			r.textures_[i] = r.doc.CreateTexture(wt.Name)
			continue
		}
		r.textures_[i] = r.images_[*wt.Source]
		if wt.Name != "" {
			r.textures_[i].Name = wt.Name
		}
	}
}

func f64or(p *float64, def float32) float32 {
	if p == nil {
		return def
	}
	return float32(*p)
}

func u32or(p *uint32, def uint32) uint32 {
	if p == nil {
		return def
	}
	return *p
}

// materials translates every wire Material into a document.Material,
// including its up-to-five texture slots (spec §3/§4.B).
func (r *readState) materials() error {
	for _, wm := range r.wire.Materials {
		m := r.doc.CreateMaterial(wm.Name)

		m.BaseColorFactor = [4]float32{1, 1, 1, 1}
		m.MetallicFactor = 1
		m.RoughnessFactor = 1
		if pbr := wm.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				bc := *pbr.BaseColorFactor
				m.BaseColorFactor = [4]float32{float32(bc[0]), float32(bc[1]), float32(bc[2]), float32(bc[3])}
			}
			m.MetallicFactor = f64or(pbr.MetallicFactor, 1)
			m.RoughnessFactor = f64or(pbr.RoughnessFactor, 1)
			if pbr.BaseColorTexture != nil {
				if err := r.bindSlot(m.SetBaseColorTexture, pbr.BaseColorTexture.Index, pbr.BaseColorTexture.TexCoord); err != nil {
					return err
				}
			}
			if pbr.MetallicRoughnessTexture != nil {
				if err := r.bindSlot(m.SetMetallicRoughnessTexture, pbr.MetallicRoughnessTexture.Index, pbr.MetallicRoughnessTexture.TexCoord); err != nil {
					return err
				}
			}
		}

		m.NormalScale = 1
		if nt := wm.NormalTexture; nt != nil && nt.Index != nil {
			m.NormalScale = f64or(nt.Scale, 1)
			if err := r.bindSlot(m.SetNormalTexture, *nt.Index, nt.TexCoord); err != nil {
				return err
			}
		}

		m.OcclusionStrength = 1
		if ot := wm.OcclusionTexture; ot != nil && ot.Index != nil {
			m.OcclusionStrength = f64or(ot.Strength, 1)
			if err := r.bindSlot(m.SetOcclusionTexture, *ot.Index, ot.TexCoord); err != nil {
				return err
			}
		}

		if wm.EmissiveTexture != nil {
			if err := r.bindSlot(m.SetEmissiveTexture, wm.EmissiveTexture.Index, wm.EmissiveTexture.TexCoord); err != nil {
				return err
			}
		}
		m.EmissiveFactor = [3]float32{float32(wm.EmissiveFactor[0]), float32(wm.EmissiveFactor[1]), float32(wm.EmissiveFactor[2])}

		m.AlphaMode = document.AlphaOpaque
		if wm.AlphaMode != "" {
			m.AlphaMode = document.AlphaMode(wm.AlphaMode)
		}
		m.AlphaCutoff = f64or(wm.AlphaCutoff, 0.5)
		m.DoubleSided = wm.DoubleSided

		r.materials_ = append(r.materials_, m)
	}
	return nil
}

func (r *readState) bindSlot(set func(*document.Texture) *document.TextureInfo, texIdx int, texCoord int) error {
	if texIdx >= len(r.textures_) {
		return validationErrorf("texture index %d out of range", texIdx)
	}
	ti := set(r.textures_[texIdx])
	wrapS, wrapT, minF, magF := r.samplerSettings(&texIdx)
	ti.WrapS, ti.WrapT, ti.MinFilter, ti.MagFilter = wrapS, wrapT, minF, magF
	ti.TexCoord = texCoord
	return nil
}

func (r *readState) meshes() error {
	for _, wmesh := range r.wire.Meshes {
		m := r.doc.CreateMesh(wmesh.Name)
		for _, w := range wmesh.Weights {
			m.Weights = append(m.Weights, float32(w))
		}
		for _, wp := range wmesh.Primitives {
			p := m.CreatePrimitive()
			p.Mode = document.Mode(wp.Mode)
			for sem, idx := range wp.Attributes {
				if int(idx) >= len(r.accessors_) {
					return validationErrorf("mesh %q: attribute %s index %d out of range", wmesh.Name, sem, idx)
				}
				p.SetAttribute(sem, r.accessors_[idx])
			}
			if wp.Indices != nil {
				if int(*wp.Indices) >= len(r.accessors_) {
					return validationErrorf("mesh %q: indices index out of range", wmesh.Name)
				}
				p.SetIndices(r.accessors_[*wp.Indices])
			}
			if wp.Material != nil {
				if int(*wp.Material) >= len(r.materials_) {
					return validationErrorf("mesh %q: material index out of range", wmesh.Name)
				}
				p.SetMaterial(r.materials_[*wp.Material])
			}
			for ti, target := range wp.Targets {
				for sem, idx := range target {
					p.SetMorphTarget(ti, sem, r.accessors_[idx])
				}
			}
		}
		r.meshes_ = append(r.meshes_, m)
	}
	return nil
}

func (r *readState) cameras() {
	for _, wc := range r.wire.Cameras {
		c := r.doc.CreateCamera(wc.Name)
		if wc.Orthographic != nil {
			c.Type = document.CameraOrthographic
			c.Orthographic = document.OrthographicParams{
				Xmag: float32(wc.Orthographic.Xmag), Ymag: float32(wc.Orthographic.Ymag),
				Zfar: float32(wc.Orthographic.Zfar), Znear: float32(wc.Orthographic.Znear),
			}
		} else if wc.Perspective != nil {
			c.Type = document.CameraPerspective
			c.Perspective = document.PerspectiveParams{
				AspectRatio: float32(f64or(wc.Perspective.AspectRatio, 0)),
				YFov:        float32(wc.Perspective.Yfov),
				Zfar:        float32(f64or(wc.Perspective.Zfar, 0)),
				Znear:       float32(wc.Perspective.Znear),
			}
		}
		r.cameras_ = append(r.cameras_, c)
	}
}

func (r *readState) skins() {
	for _, ws := range r.wire.Skins {
		s := r.doc.CreateSkin(ws.Name)
		if ws.InverseBindMatrices != nil && int(*ws.InverseBindMatrices) < len(r.accessors_) {
			s.SetInverseBindMatrices(r.accessors_[*ws.InverseBindMatrices])
		}
		r.skins_ = append(r.skins_, s)
	}
	// Joints and skeleton reference nodes, materialized in a second pass
	// from nodes() since node index ordering is document-global.
}

func identityOr(v [3]float32, def [3]float32) [3]float32 {
	if v == ([3]float32{}) {
		return def
	}
	return v
}

func (r *readState) nodes() error {
	for _, wn := range r.wire.Nodes {
		n := r.doc.CreateNode(wn.Name)
		zeroMat := [16]float32{}
		if wn.Matrix != zeroMat {
			n.SetMatrix(matFromWire(wn.Matrix))
		} else {
			rot := wn.Rotation
			if rot == ([4]float32{}) {
				rot = [4]float32{0, 0, 0, 1}
			}
			n.SetTranslation(wn.Translation)
			n.SetRotation(rot)
			n.SetScale(identityOr(wn.Scale, [3]float32{1, 1, 1}))
		}
		if wn.Mesh != nil && int(*wn.Mesh) < len(r.meshes_) {
			n.SetMesh(r.meshes_[*wn.Mesh])
		}
		if wn.Camera != nil && int(*wn.Camera) < len(r.cameras_) {
			n.SetCamera(r.cameras_[*wn.Camera])
		}
		if wn.Skin != nil && int(*wn.Skin) < len(r.skins_) {
			n.SetSkin(r.skins_[*wn.Skin])
		}
		r.nodes_ = append(r.nodes_, n)
	}
	for i, wn := range r.wire.Nodes {
		for _, c := range wn.Children {
			if int(c) < len(r.nodes_) {
				r.nodes_[i].AddChild(r.nodes_[c])
			}
		}
	}
	for i, ws := range r.wire.Skins {
		for _, j := range ws.Joints {
			if int(j) < len(r.nodes_) {
				r.skins_[i].AddJoint(r.nodes_[j])
			}
		}
		if ws.Skeleton != nil && int(*ws.Skeleton) < len(r.nodes_) {
			r.skins_[i].SetSkeletonRoot(r.nodes_[*ws.Skeleton])
		}
	}
	return r.instancing()
}

func (r *readState) scenes() {
	for _, wsc := range r.wire.Scenes {
		s := r.doc.CreateScene(wsc.Name)
		for _, idx := range wsc.Nodes {
			if int(idx) < len(r.nodes_) {
				s.AddChild(r.nodes_[idx])
			}
		}
	}
	if r.wire.Scene != nil && int(*r.wire.Scene) < len(r.doc.Root().ListScenes()) {
		r.doc.Root().DefaultScene = r.doc.Root().ListScenes()[*r.wire.Scene]
	}
}

func (r *readState) animations() error {
	for _, wa := range r.wire.Animations {
		a := r.doc.CreateAnimation(wa.Name)
		samplers := make([]*document.AnimationSampler, len(wa.Samplers))
		for i, ws := range wa.Samplers {
			s := a.CreateSampler(document.Interpolation(ws.Interpolation))
			if ws.Interpolation == "" {
				s.Interpolation = document.InterpLinear
			}
			if int(ws.Input) >= len(r.accessors_) || int(ws.Output) >= len(r.accessors_) {
				return validationErrorf("animation %q: sampler accessor index out of range", wa.Name)
			}
			s.SetInput(r.accessors_[ws.Input])
			s.SetOutput(r.accessors_[ws.Output])
			samplers[i] = s
		}
		for _, wc := range wa.Channels {
			if int(wc.Sampler) >= len(samplers) {
				return validationErrorf("animation %q: channel sampler index out of range", wa.Name)
			}
			var target *document.Node
			if wc.Target.Node != nil && int(*wc.Target.Node) < len(r.nodes_) {
				target = r.nodes_[*wc.Target.Node]
			}
			a.CreateChannel(target, document.Path(wc.Target.Path), samplers[wc.Sampler])
		}
	}
	return nil
}

// extensions instantiates every document-level used extension and marks the
// required ones. EXT_mesh_gpu_instancing's per-node attribute map, the one
// built-in extension with a real payload to carry across the wire, is
// translated separately by instancing (spec §4.C, §4.H "instance").
func (r *readState) extensions() {
	for _, name := range r.wire.ExtensionsUsed {
		r.doc.CreateExtension(name)
	}
	for _, name := range r.wire.ExtensionsRequired {
		r.doc.SetExtensionRequired(name, true)
	}
}

func (r *readState) instancing() error {
	for i, wn := range r.wire.Nodes {
		raw, ok := nodeExtension(wn, ext.NameMeshGPUInstancing)
		if !ok {
			continue
		}
		attrsRaw, ok := raw["attributes"].(map[string]any)
		if !ok {
			continue
		}
		attrs := ext.NewInstancingAttributes(r.doc.Graph())
		for sem, v := range attrsRaw {
			idx, ok := numberToInt(v)
			if !ok || idx >= len(r.accessors_) {
				continue
			}
			attrs.Attributes[sem] = r.accessors_[idx].ID()
		}
		if err := r.nodes_[i].SetExtension(ext.NameMeshGPUInstancing, attrs); err != nil {
			return err
		}
	}
	return nil
}

func nodeExtension(n *gltf.Node, name string) (map[string]any, bool) {
	if n.Extensions == nil {
		return nil, false
	}
	raw, ok := n.Extensions[name]
	if !ok {
		return nil, false
	}
	m, ok := raw.(map[string]any)
	return m, ok
}

func numberToInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case uint32:
		return int(n), true
	default:
		return 0, false
	}
}

func matFromWire(m [16]float32) (out gmath.Mat4) {
	for c := 0; c < 4; c++ {
		for rI := 0; rI < 4; rI++ {
			out[c][rI] = m[c*4+rI]
		}
	}
	return out
}
