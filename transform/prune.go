package transform

import (
	"strconv"
	"strings"

	"github.com/mrigankad/gltfkit/document"
)

// PruneConfig configures Prune (spec §4.H "prune").
type PruneConfig struct {
	// Types restricts which property kinds are considered for removal;
	// a nil/empty Types considers every kind Prune knows how to evaluate.
	Types []string

	KeepLeaves        bool // keep meshes that nothing references; no other kind is affected
	KeepAttributes    bool // retain unused per-primitive attributes
	KeepIndices       bool
	KeepSolidTextures bool // not read by Prune: no texture is collapsed into a material factor
	KeepUniqueNames   bool // never prune a named mesh, material, texture, skin, camera, accessor or buffer
}

func (c PruneConfig) considers(kind string) bool {
	if len(c.Types) == 0 {
		return true
	}
	for _, t := range c.Types {
		if t == kind {
			return true
		}
	}
	return false
}

// Prune disposes properties that nothing but Root references (isUsed),
// after accounting for the knobs above (spec §4.H). Passes run animations
// first and buffers last, and a primitive's attributes are only evaluated
// after its mesh has survived. Reachability from a scene is not checked: a
// property referenced only by a node that no scene contains survives, and
// nodes and scenes themselves are never disposed.
func Prune(cfg PruneConfig) document.Transform {
	return document.Transform{
		Name: "prune",
		Run: func(d *document.Document) error {
			pruneAnimations(d)
			pruneMeshes(d, cfg)
			pruneMaterialsAndTextures(d, cfg)
			pruneSkinsAndCameras(d, cfg)
			pruneAccessors(d, cfg)
			pruneBuffers(d, cfg)
			return nil
		},
	}
}

// pruneAnimations removes channels whose target node is gone, then any
// animation left with no channels (and its now-orphaned samplers), per
// spec §4.H's explicit ordering.
func pruneAnimations(d *document.Document) {
	for _, anim := range d.Root().ListAnimations() {
		for _, c := range anim.ListChannels() {
			if c.TargetNode() == nil {
				c.Dispose()
			}
		}
		if len(anim.ListChannels()) == 0 {
			for _, s := range anim.ListSamplers() {
				s.Dispose()
			}
			anim.Dispose()
		}
	}
}

func pruneMeshes(d *document.Document, cfg PruneConfig) {
	if !cfg.considers("Mesh") {
		return
	}
	for _, m := range d.Root().ListMeshes() {
		if cfg.KeepUniqueNames && m.Name != "" {
			continue
		}
		if !cfg.KeepLeaves && !isUsed(m) {
			m.Dispose()
			continue
		}
		for _, p := range m.ListPrimitives() {
			if !cfg.KeepAttributes {
				for _, sem := range p.ListSemantics() {
					if p.GetAttribute(sem) != nil && !attributeNeeded(p, sem) {
						p.SetAttribute(sem, nil)
					}
				}
			}
		}
	}
	// KeepIndices is not read: Prune never detaches a primitive's indices,
	// and pruneAccessors disposes any accessor left with no parent but Root.
}

// attributeNeeded decides whether semantic actually feeds the primitive's
// draw call given its bound material, the non-KeepAttributes default (spec
// §4.H): POSITION/NORMAL/JOINTS_n/WEIGHTS_n are always load-bearing;
// TEXCOORD_n is needed only when some texture slot on the material samples
// that set; TANGENT only when the material has a normal map; COLOR_0
// always multiplies the base color per the glTF spec, higher COLOR_n sets
// are dropped.
func attributeNeeded(p *document.Primitive, semantic string) bool {
	switch {
	case semantic == "POSITION" || semantic == "NORMAL":
		return true
	case semantic == "COLOR_0":
		return true
	case strings.HasPrefix(semantic, "JOINTS_") || strings.HasPrefix(semantic, "WEIGHTS_"):
		return true
	}
	mat := p.Material()
	if mat == nil {
		return false
	}
	if semantic == "TANGENT" {
		return mat.NormalTexture() != nil
	}
	if strings.HasPrefix(semantic, "TEXCOORD_") {
		n, err := strconv.Atoi(strings.TrimPrefix(semantic, "TEXCOORD_"))
		if err != nil {
			return true
		}
		for _, ti := range []*document.TextureInfo{
			mat.BaseColorTexture(), mat.MetallicRoughnessTexture(),
			mat.NormalTexture(), mat.OcclusionTexture(), mat.EmissiveTexture(),
		} {
			if ti != nil && ti.TexCoord == n {
				return true
			}
		}
		return false
	}
	return false
}

func pruneMaterialsAndTextures(d *document.Document, cfg PruneConfig) {
	if cfg.considers("Material") {
		for _, m := range d.Root().ListMaterials() {
			if cfg.KeepUniqueNames && m.Name != "" {
				continue
			}
			if !isUsed(m) {
				m.Dispose()
			}
		}
	}
	if cfg.considers("Texture") {
		for _, t := range d.Root().ListTextures() {
			if cfg.KeepUniqueNames && t.Name != "" {
				continue
			}
			if len(listTextureSlots(t)) > 0 {
				continue
			}
			if !isUsed(t) {
				t.Dispose()
			}
		}
	}
}

func pruneSkinsAndCameras(d *document.Document, cfg PruneConfig) {
	if cfg.considers("Skin") {
		for _, s := range d.Root().ListSkins() {
			if !cfg.KeepUniqueNames || s.Name == "" {
				if !isUsed(s) {
					s.Dispose()
				}
			}
		}
	}
	if cfg.considers("Camera") {
		for _, c := range d.Root().ListCameras() {
			if !cfg.KeepUniqueNames || c.Name == "" {
				if !isUsed(c) {
					c.Dispose()
				}
			}
		}
	}
}

func pruneAccessors(d *document.Document, cfg PruneConfig) {
	if !cfg.considers("Accessor") {
		return
	}
	for _, a := range d.Root().ListAccessors() {
		if cfg.KeepUniqueNames && a.Name != "" {
			continue
		}
		if !isUsed(a) {
			a.Dispose()
		}
	}
}

func pruneBuffers(d *document.Document, cfg PruneConfig) {
	if !cfg.considers("Buffer") {
		return
	}
	for _, b := range d.Root().ListBuffers() {
		if cfg.KeepUniqueNames && b.Name != "" {
			continue
		}
		if !isUsed(b) {
			b.Dispose()
		}
	}
}
