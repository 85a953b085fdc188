package transform

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/mrigankad/gltfkit/document"
)

// DedupConfig selects which property types Dedup considers (spec §4.H
// "dedup"). A zero-value Config considers none; set only the kinds worth
// the comparison cost for a given asset.
type DedupConfig struct {
	Accessors bool
	Meshes    bool
	Textures  bool
	Materials bool
}

// Dedup groups properties of each selected type by a cheap key, then
// compares group members pairwise with Equaler.EqualsProp; the first
// survivor in each equal class absorbs every duplicate's references, and
// the duplicates are disposed.
func Dedup(cfg DedupConfig) document.Transform {
	return document.Transform{
		Name: "dedup",
		Run: func(d *document.Document) error {
			if cfg.Accessors {
				dedupGroup(d, accessorProps(d), accessorKey)
			}
			if cfg.Textures {
				dedupGroup(d, textureProps(d), textureKey)
			}
			if cfg.Materials {
				dedupGroup(d, materialProps(d), materialKey)
			}
			if cfg.Meshes {
				dedupGroup(d, meshProps(d), meshKey)
			}
			return nil
		},
	}
}

func accessorProps(d *document.Document) []document.Property {
	out := make([]document.Property, 0)
	for _, a := range d.Root().ListAccessors() {
		out = append(out, a)
	}
	return out
}

func textureProps(d *document.Document) []document.Property {
	out := make([]document.Property, 0)
	for _, t := range d.Root().ListTextures() {
		out = append(out, t)
	}
	return out
}

func materialProps(d *document.Document) []document.Property {
	out := make([]document.Property, 0)
	for _, m := range d.Root().ListMaterials() {
		out = append(out, m)
	}
	return out
}

func meshProps(d *document.Document) []document.Property {
	out := make([]document.Property, 0)
	for _, m := range d.Root().ListMeshes() {
		out = append(out, m)
	}
	return out
}

// accessorKey implements spec §4.H: "(type, componentType, count,
// normalized, byteHash)".
func accessorKey(p document.Property) string {
	a := p.(*document.Accessor)
	t := a.Typed()
	if t == nil {
		return "accessor:empty"
	}
	sum := sha256.Sum256(t.Materialize().Bytes())
	return fmt.Sprintf("accessor:%s:%d:%d:%t:%x", a.ElementType(), a.ComponentType(), a.Count(), a.Normalized(), sum)
}

// textureKey implements spec §4.H: "(mimeType, size, byteHash)", ignoring
// URIs.
func textureKey(p document.Property) string {
	t := p.(*document.Texture)
	sum := sha256.Sum256(t.Data)
	return fmt.Sprintf("texture:%s:%d:%x", t.MIMEType, len(t.Data), sum)
}

// materialKey is a coarse pre-filter (scalar factors + alpha state); the
// pairwise EqualsProp pass still runs within the group since two materials
// sharing this key may still differ by referenced texture.
func materialKey(p document.Property) string {
	m := p.(*document.Material)
	return fmt.Sprintf("material:%v:%v:%v:%v:%v:%v:%v:%v",
		m.BaseColorFactor, m.MetallicFactor, m.RoughnessFactor, m.EmissiveFactor,
		m.AlphaMode, m.AlphaCutoff, m.DoubleSided, m.NormalScale)
}

// meshKey implements spec §4.H: "a concatenated string of primitive
// (semantic, indexedAccessorIdentity) tuples plus indices accessor
// identity".
func meshKey(p document.Property) string {
	m := p.(*document.Mesh)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "mesh:%d:", len(m.ListPrimitives()))
	for _, prim := range m.ListPrimitives() {
		fmt.Fprintf(&buf, "[%d/", prim.Mode)
		for _, sem := range prim.ListSemantics() {
			fmt.Fprintf(&buf, "%s=%d,", sem, prim.GetAttribute(sem).ID())
		}
		if idx := prim.Indices(); idx != nil {
			fmt.Fprintf(&buf, "idx=%d", idx.ID())
		}
		buf.WriteByte(']')
	}
	return buf.String()
}

func dedupGroup(d *document.Document, props []document.Property, key func(document.Property) string) {
	groups := make(map[string][]document.Property)
	for _, p := range props {
		if hasModifyChildParent(d, p) {
			continue
		}
		k := key(p)
		groups[k] = append(groups[k], p)
	}

	for _, group := range groups {
		survivors := make([]document.Property, 0, len(group))
		for _, cand := range group {
			merged := false
			for _, surv := range survivors {
				if propsEqual(surv, cand) {
					redirectReferences(d, cand.ID(), surv.ID())
					if disp, ok := cand.(disposer); ok {
						disp.Dispose()
					}
					merged = true
					break
				}
			}
			if !merged {
				survivors = append(survivors, cand)
			}
		}
	}
}

func propsEqual(a, b document.Property) bool {
	ea, ok := a.(document.Equaler)
	if !ok {
		return false
	}
	return ea.EqualsProp(b, nil)
}

func hasModifyChildParent(d *document.Document, p document.Property) bool {
	for _, e := range d.Graph().ParentEdges(p.ID(), "") {
		if e.Attrs.ModifyChild {
			return true
		}
	}
	return false
}
