package document

import "github.com/mrigankad/gltfkit/graph"

// Wrap mirrors glTF sampler.wrapS/wrapT enum values.
type Wrap int

const (
	WrapRepeat         Wrap = 10497
	WrapClampToEdge    Wrap = 33071
	WrapMirroredRepeat Wrap = 33648
)

// Filter mirrors glTF sampler.magFilter/minFilter enum values.
type Filter int

const (
	FilterNearest              Filter = 9728
	FilterLinear               Filter = 9729
	FilterNearestMipmapNearest Filter = 9984
	FilterLinearMipmapNearest  Filter = 9985
	FilterNearestMipmapLinear  Filter = 9986
	FilterLinearMipmapLinear   Filter = 9987
)

// AlphaMode mirrors glTF material.alphaMode.
type AlphaMode string

const (
	AlphaOpaque AlphaMode = "OPAQUE"
	AlphaMask   AlphaMode = "MASK"
	AlphaBlend  AlphaMode = "BLEND"
)

const edgeTextureInfoTexture = "texture"

// TextureInfo is per-slot sampler and texCoord settings, owned exclusively
// by the material-reference edge that created it — never by the Texture
// itself (spec §3, glossary).
type TextureInfo struct {
	base
	extendable
	TexCoord  int
	WrapS     Wrap
	WrapT     Wrap
	MinFilter Filter
	MagFilter Filter
}

func (t *TextureInfo) TypeName() string { return "TextureInfo" }

func newTextureInfo(d *Document) *TextureInfo {
	ti := &TextureInfo{WrapS: WrapRepeat, WrapT: WrapRepeat, MinFilter: FilterLinear, MagFilter: FilterLinear}
	ti.id = d.g.NewProperty()
	ti.doc = d
	d.register(ti)
	return ti
}

// Texture returns the texture this slot samples.
func (t *TextureInfo) Texture() *Texture {
	return lookupSingleChild[*Texture](t.doc, t.id, edgeTextureInfoTexture)
}

func (t *TextureInfo) SetTexture(tex *Texture) *TextureInfo {
	id, has := func() (graph.ID, bool) {
		if tex == nil {
			return 0, false
		}
		return tex.id, true
	}()
	replaceSingleChild(t.doc, t.id, edgeTextureInfoTexture, id, has)
	return t
}

// slot roles, one per material texture reference.
const (
	slotBaseColor         = "baseColorTexture"
	slotMetallicRoughness = "metallicRoughnessTexture"
	slotNormal             = "normalTexture"
	slotOcclusion          = "occlusionTexture"
	slotEmissive           = "emissiveTexture"
)

// Material holds PBR metallic-roughness factors and textures, plus normal,
// occlusion and emissive textures and their alpha/double-sided state (spec
// §3).
type Material struct {
	base
	extendable

	BaseColorFactor [4]float32
	MetallicFactor  float32
	RoughnessFactor float32
	EmissiveFactor  [3]float32
	NormalScale     float32
	OcclusionStrength float32
	AlphaMode   AlphaMode
	AlphaCutoff float32
	DoubleSided bool
}

func defaultMaterial() *Material {
	return &Material{
		BaseColorFactor:   [4]float32{1, 1, 1, 1},
		MetallicFactor:    1,
		RoughnessFactor:   1,
		NormalScale:       1,
		OcclusionStrength: 1,
		AlphaMode:         AlphaOpaque,
		AlphaCutoff:       0.5,
	}
}

func (m *Material) TypeName() string { return "Material" }

func (m *Material) setSlot(role string, tex *Texture, isColor bool, channels uint8) *TextureInfo {
	g := m.doc.g
	for _, e := range g.ChildEdges(m.id, role) {
		if old, ok := m.doc.Lookup(e.Child); ok {
			if ti, ok := old.(*TextureInfo); ok {
				ti.Dispose()
			}
		}
		g.Disconnect(e)
	}
	if tex == nil {
		return nil
	}
	ti := newTextureInfo(m.doc)
	ti.SetTexture(tex)
	g.Connect(m.id, ti.id, role, graph.EdgeAttrs{IsColor: isColor, Channels: channels})
	return ti
}

func (m *Material) getSlot(role string) *TextureInfo {
	return lookupSingleChild[*TextureInfo](m.doc, m.id, role)
}

func (m *Material) SetBaseColorTexture(tex *Texture) *TextureInfo {
	return m.setSlot(slotBaseColor, tex, true, graph.ChannelR|graph.ChannelG|graph.ChannelB|graph.ChannelA)
}
func (m *Material) BaseColorTexture() *TextureInfo { return m.getSlot(slotBaseColor) }

func (m *Material) SetMetallicRoughnessTexture(tex *Texture) *TextureInfo {
	return m.setSlot(slotMetallicRoughness, tex, false, graph.ChannelG|graph.ChannelB)
}
func (m *Material) MetallicRoughnessTexture() *TextureInfo { return m.getSlot(slotMetallicRoughness) }

func (m *Material) SetNormalTexture(tex *Texture) *TextureInfo {
	return m.setSlot(slotNormal, tex, false, graph.ChannelR|graph.ChannelG|graph.ChannelB)
}
func (m *Material) NormalTexture() *TextureInfo { return m.getSlot(slotNormal) }

func (m *Material) SetOcclusionTexture(tex *Texture) *TextureInfo {
	return m.setSlot(slotOcclusion, tex, false, graph.ChannelR)
}
func (m *Material) OcclusionTexture() *TextureInfo { return m.getSlot(slotOcclusion) }

func (m *Material) SetEmissiveTexture(tex *Texture) *TextureInfo {
	return m.setSlot(slotEmissive, tex, true, graph.ChannelR|graph.ChannelG|graph.ChannelB)
}
func (m *Material) EmissiveTexture() *TextureInfo { return m.getSlot(slotEmissive) }

// Dispose detaches the material from Root and disposes every TextureInfo it
// exclusively owns; the Textures those TextureInfos reference are shared
// and untouched.
func (m *Material) Dispose() {
	for _, role := range []string{slotBaseColor, slotMetallicRoughness, slotNormal, slotOcclusion, slotEmissive} {
		if ti := m.getSlot(role); ti != nil {
			ti.Dispose()
		}
	}
	m.doc.g.Dispose(m.id, nil)
}

func (t *TextureInfo) Dispose() { t.doc.g.Dispose(t.id, nil) }
