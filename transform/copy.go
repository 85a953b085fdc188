package transform

import (
	gltfkit "github.com/mrigankad/gltfkit"
	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/document"
)

// copyToDocument deep-clones props into dst, returning a map from each
// original property to its clone (spec §4.G). Scene, Node, Root and
// TextureInfo cannot be named directly: Scene/Node are scene-graph
// wrappers rather than transferable subgraphs, Root is the document
// singleton, and TextureInfo is never owned by anything but the material
// edge that created it (copy a Material instead; its texture slots follow
// along).
//
// References to properties outside props are left unset rather than
// followed into src: a clone only carries the subgraph the caller asked
// for.
func copyToDocument(dst *document.Document, src *document.Document, props []document.Property) (map[document.Property]document.Property, error) {
	clones := make(map[document.Property]document.Property, len(props))

	var buffers []*document.Buffer
	var accessors []*document.Accessor
	var textures []*document.Texture
	var materials []*document.Material
	var meshes []*document.Mesh
	var cameras []*document.Camera
	var skins []*document.Skin
	var animations []*document.Animation

	for _, p := range props {
		switch v := p.(type) {
		case *document.Buffer:
			buffers = append(buffers, v)
		case *document.Accessor:
			accessors = append(accessors, v)
		case *document.Texture:
			textures = append(textures, v)
		case *document.Material:
			materials = append(materials, v)
		case *document.Mesh:
			meshes = append(meshes, v)
		case *document.Camera:
			cameras = append(cameras, v)
		case *document.Skin:
			skins = append(skins, v)
		case *document.Animation:
			animations = append(animations, v)
		case *document.Scene, *document.Node:
			return nil, &gltfkit.UnsupportedOperation{Op: "copy", OnType: p.TypeName(), Because: "scene-graph wrappers are not transferable subgraphs"}
		case *document.TextureInfo:
			return nil, &gltfkit.UnsupportedOperation{Op: "copy", OnType: "TextureInfo", Because: "owned exclusively by the material edge that created it; copy the Material instead"}
		default:
			return nil, &gltfkit.UnsupportedOperation{Op: "copy", OnType: p.TypeName(), Because: "extension properties are cloned by their owning extension, not by copyToDocument"}
		}
	}

	for _, b := range buffers {
		nb := dst.CreateBuffer(b.Name)
		nb.URI = b.URI
		nb.Data = append([]byte(nil), b.Data...)
		clones[b] = nb
	}
	for _, a := range accessors {
		clones[a] = cloneAccessor(dst, a, clones)
	}
	for _, t := range textures {
		nt := dst.CreateTexture(t.Name)
		nt.MIMEType, nt.URI, nt.Width, nt.Height, nt.Channels = t.MIMEType, t.URI, t.Width, t.Height, t.Channels
		nt.Data = append([]byte(nil), t.Data...)
		clones[t] = nt
	}
	for _, m := range materials {
		clones[m] = cloneMaterial(dst, m, clones)
	}
	for _, c := range cameras {
		nc := dst.CreateCamera(c.Name)
		nc.Type, nc.Perspective, nc.Orthographic = c.Type, c.Perspective, c.Orthographic
		clones[c] = nc
	}
	for _, m := range meshes {
		clones[m] = cloneMesh(dst, m, clones)
	}
	for _, s := range skins {
		clones[s] = cloneSkin(dst, s, clones)
	}
	for _, a := range animations {
		clones[a] = cloneAnimation(dst, a, clones)
	}

	return clones, nil
}

// moveToDocument copies props into dst, then disposes the originals in
// src — the mechanic a "partition" or "merge" CLI command uses to relocate
// a subgraph rather than duplicate it.
func moveToDocument(dst *document.Document, src *document.Document, props []document.Property) (map[document.Property]document.Property, error) {
	clones, err := copyToDocument(dst, src, props)
	if err != nil {
		return nil, err
	}
	for _, p := range props {
		if d, ok := p.(disposer); ok {
			d.Dispose()
		}
	}
	return clones, nil
}

func cloneAccessor(dst *document.Document, a *document.Accessor, clones map[document.Property]document.Property) *document.Accessor {
	na := dst.CreateAccessor(a.Name)
	t := a.Typed()
	if t == nil {
		return na
	}
	na.SetArray(t.Base.Clone())
	if t.Sparse != nil {
		na.SetSparse(&accessor.Sparse{
			Indices: t.Sparse.Indices.Clone(),
			Values:  t.Sparse.Values.Clone(),
		})
	}
	if b := a.Buffer(); b != nil {
		if nb, ok := clones[b].(*document.Buffer); ok {
			na.SetBuffer(nb)
		}
	}
	return na
}

func cloneMaterial(dst *document.Document, m *document.Material, clones map[document.Property]document.Property) *document.Material {
	nm := dst.CreateMaterial(m.Name)
	nm.BaseColorFactor, nm.MetallicFactor, nm.RoughnessFactor = m.BaseColorFactor, m.MetallicFactor, m.RoughnessFactor
	nm.EmissiveFactor, nm.NormalScale, nm.OcclusionStrength = m.EmissiveFactor, m.NormalScale, m.OcclusionStrength
	nm.AlphaMode, nm.AlphaCutoff, nm.DoubleSided = m.AlphaMode, m.AlphaCutoff, m.DoubleSided

	cloneSlot := func(src *document.TextureInfo, set func(*document.Texture) *document.TextureInfo) {
		if src == nil {
			return
		}
		tex := src.Texture()
		if tex == nil {
			return
		}
		ntex, ok := clones[tex].(*document.Texture)
		if !ok {
			return
		}
		ti := set(ntex)
		ti.TexCoord, ti.WrapS, ti.WrapT, ti.MinFilter, ti.MagFilter = src.TexCoord, src.WrapS, src.WrapT, src.MinFilter, src.MagFilter
	}
	cloneSlot(m.BaseColorTexture(), nm.SetBaseColorTexture)
	cloneSlot(m.MetallicRoughnessTexture(), nm.SetMetallicRoughnessTexture)
	cloneSlot(m.NormalTexture(), nm.SetNormalTexture)
	cloneSlot(m.OcclusionTexture(), nm.SetOcclusionTexture)
	cloneSlot(m.EmissiveTexture(), nm.SetEmissiveTexture)
	return nm
}

func cloneMesh(dst *document.Document, m *document.Mesh, clones map[document.Property]document.Property) *document.Mesh {
	nm := dst.CreateMesh(m.Name)
	nm.Weights = append([]float32(nil), m.Weights...)
	for _, p := range m.ListPrimitives() {
		np := nm.CreatePrimitive()
		np.Mode = p.Mode
		lookupAccessor := func(a *document.Accessor) *document.Accessor {
			if a == nil {
				return nil
			}
			na, _ := clones[a].(*document.Accessor)
			return na
		}
		for _, sem := range p.ListSemantics() {
			np.SetAttribute(sem, lookupAccessor(p.GetAttribute(sem)))
		}
		np.SetIndices(lookupAccessor(p.Indices()))
		if mat := p.Material(); mat != nil {
			if nmat, ok := clones[mat].(*document.Material); ok {
				np.SetMaterial(nmat)
			}
		}
	}
	return nm
}

func cloneSkin(dst *document.Document, s *document.Skin, clones map[document.Property]document.Property) *document.Skin {
	ns := dst.CreateSkin(s.Name)
	if ibm := s.InverseBindMatrices(); ibm != nil {
		if nibm, ok := clones[ibm].(*document.Accessor); ok {
			ns.SetInverseBindMatrices(nibm)
		}
	}
	// Joints and the skeleton root are Nodes, outside the copyable set;
	// a caller relocating a skinned mesh is expected to rebuild skinning
	// against the destination document's own node hierarchy.
	return ns
}

func cloneAnimation(dst *document.Document, a *document.Animation, clones map[document.Property]document.Property) *document.Animation {
	na := dst.CreateAnimation(a.Name)
	samplerClones := make(map[*document.AnimationSampler]*document.AnimationSampler)
	for _, s := range a.ListSamplers() {
		ns := na.CreateSampler(s.Interpolation)
		if in := s.Input(); in != nil {
			if nin, ok := clones[in].(*document.Accessor); ok {
				ns.SetInput(nin)
			}
		}
		if out := s.Output(); out != nil {
			if nout, ok := clones[out].(*document.Accessor); ok {
				ns.SetOutput(nout)
			}
		}
		samplerClones[s] = ns
	}
	for _, c := range a.ListChannels() {
		// TargetNode is deliberately left nil: the node it targets lives
		// outside the copied subgraph (spec §4.G), same as skin joints.
		na.CreateChannel(nil, c.Path, samplerClones[c.Sampler()])
	}
	return na
}
