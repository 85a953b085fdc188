package document

import "bytes"

// Equaler is implemented by property types that define observational
// equivalence under the core schema (spec §4.B): identical scalars,
// identical referenced children (by identity, or recursively for owned
// singleton children such as TextureInfo), ignoring names/extras and any
// explicitly skipped field.
type Equaler interface {
	Property
	EqualsProp(other Property, skip map[string]bool) bool
}

// skipped reports whether field is present (and true) in skip.
func skipped(skip map[string]bool, field string) bool {
	return skip != nil && skip[field]
}

// EqualsProp on Accessor compares component type, element type,
// normalization, count, sparse shape and raw byte content — not the
// owning Buffer, which is an implementation detail of layout.
func (a *Accessor) EqualsProp(other Property, skip map[string]bool) bool {
	b, ok := other.(*Accessor)
	if !ok || a.typed == nil || b.typed == nil {
		return false
	}
	ab, bb := a.typed.Base, b.typed.Base
	if ab.Component != bb.Component || ab.Element != bb.Element ||
		ab.Normalized != bb.Normalized || ab.Count != bb.Count {
		return false
	}
	if !bytes.Equal(ab.Bytes(), bb.Bytes()) {
		return false
	}
	if (a.typed.Sparse == nil) != (b.typed.Sparse == nil) {
		return false
	}
	if a.typed.Sparse != nil {
		as, bs := a.typed.Sparse, b.typed.Sparse
		if as.Indices.Count != bs.Indices.Count {
			return false
		}
		if !bytes.Equal(as.Indices.Bytes(), bs.Indices.Bytes()) {
			return false
		}
		if !bytes.Equal(as.Values.Bytes(), bs.Values.Bytes()) {
			return false
		}
	}
	return true
}

// EqualsProp on Texture compares MIME type and raw byte content; URIs are
// deliberately ignored (spec §4.H dedup: "for textures, (mimeType, size,
// byteHash) (URIs are ignored)").
func (t *Texture) EqualsProp(other Property, skip map[string]bool) bool {
	o, ok := other.(*Texture)
	if !ok {
		return false
	}
	return t.MIMEType == o.MIMEType && bytes.Equal(t.Data, o.Data)
}

// EqualsProp on TextureInfo compares sampler settings and the identity of
// the referenced Texture (Textures are shared, not owned, so identity is
// the right comparison — only the TextureInfo wrapper is an owned
// singleton that needs recursive equality).
func (t *TextureInfo) EqualsProp(other Property, skip map[string]bool) bool {
	o, ok := other.(*TextureInfo)
	if !ok {
		return false
	}
	if t.TexCoord != o.TexCoord || t.WrapS != o.WrapS || t.WrapT != o.WrapT ||
		t.MinFilter != o.MinFilter || t.MagFilter != o.MagFilter {
		return false
	}
	at, bt := t.Texture(), o.Texture()
	if (at == nil) != (bt == nil) {
		return false
	}
	return at == nil || at.id == bt.id
}

func textureInfoEquals(a, b *TextureInfo) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.EqualsProp(b, nil)
}

// EqualsProp on Material compares every PBR factor, alpha state and
// double-sidedness, and recursively compares each owned TextureInfo slot.
func (m *Material) EqualsProp(other Property, skip map[string]bool) bool {
	o, ok := other.(*Material)
	if !ok {
		return false
	}
	if !skipped(skip, "baseColorFactor") && m.BaseColorFactor != o.BaseColorFactor {
		return false
	}
	if !skipped(skip, "metallicFactor") && m.MetallicFactor != o.MetallicFactor {
		return false
	}
	if !skipped(skip, "roughnessFactor") && m.RoughnessFactor != o.RoughnessFactor {
		return false
	}
	if !skipped(skip, "emissiveFactor") && m.EmissiveFactor != o.EmissiveFactor {
		return false
	}
	if m.AlphaMode != o.AlphaMode || m.AlphaCutoff != o.AlphaCutoff || m.DoubleSided != o.DoubleSided {
		return false
	}
	if m.NormalScale != o.NormalScale || m.OcclusionStrength != o.OcclusionStrength {
		return false
	}
	slots := []func(*Material) *TextureInfo{
		(*Material).BaseColorTexture,
		(*Material).MetallicRoughnessTexture,
		(*Material).NormalTexture,
		(*Material).OcclusionTexture,
		(*Material).EmissiveTexture,
	}
	for _, slot := range slots {
		if !textureInfoEquals(slot(m), slot(o)) {
			return false
		}
	}
	return true
}

// EqualsProp on Primitive compares draw mode, material identity, the bound
// attribute set (by accessor identity), and indices identity.
func (p *Primitive) EqualsProp(other Property, skip map[string]bool) bool {
	o, ok := other.(*Primitive)
	if !ok || p.Mode != o.Mode {
		return false
	}
	pm, om := p.Material(), o.Material()
	if (pm == nil) != (om == nil) || (pm != nil && pm.id != om.id) {
		return false
	}
	psem, osem := p.ListSemantics(), o.ListSemantics()
	if len(psem) != len(osem) {
		return false
	}
	for _, sem := range psem {
		pa, oa := p.GetAttribute(sem), o.GetAttribute(sem)
		if oa == nil || pa.id != oa.id {
			return false
		}
	}
	pi, oi := p.Indices(), o.Indices()
	if (pi == nil) != (oi == nil) {
		return false
	}
	if pi != nil && pi.id != oi.id {
		return false
	}
	return true
}

// EqualsProp on Mesh compares ordered primitive equality and default morph
// weights.
func (m *Mesh) EqualsProp(other Property, skip map[string]bool) bool {
	o, ok := other.(*Mesh)
	if !ok {
		return false
	}
	if len(m.Weights) != len(o.Weights) {
		return false
	}
	for i := range m.Weights {
		if m.Weights[i] != o.Weights[i] {
			return false
		}
	}
	mp, op := m.ListPrimitives(), o.ListPrimitives()
	if len(mp) != len(op) {
		return false
	}
	for i := range mp {
		if !mp[i].EqualsProp(op[i], skip) {
			return false
		}
	}
	return true
}
