// Package transform implements the named document->document mutations of
// spec §4.G/§4.H: dedup, prune, quantize, instance, palette, reorder,
// textureCompress and weld. Every exported Config type produces a
// document.Transform, so callers chain them through Document.Transform the
// same way the codec chains extension hooks.
package transform

import (
	"sort"

	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/document"
	"github.com/mrigankad/gltfkit/graph"
)

// smallestIndexType returns the narrowest unsigned integer component type
// that can hold maxIndex. Unlike accessor.SmallestJointIndexType (capped at
// UnsignedShort, since no glTF skin carries more than 65536 joints), a
// general vertex index buffer routinely needs the full UnsignedInt range.
func smallestIndexType(maxIndex int) accessor.ComponentType {
	switch {
	case maxIndex <= 0xFF:
		return accessor.UnsignedByte
	case maxIndex <= 0xFFFF:
		return accessor.UnsignedShort
	default:
		return accessor.UnsignedInt
	}
}

// isUsed reports whether prop has any parent edge surviving once Root's own
// ownership edge is ignored (spec §4.G).
func isUsed(prop document.Property) bool {
	d := prop.Doc()
	rootID := d.Root().ID()
	for _, e := range d.Graph().ParentEdges(prop.ID(), "") {
		if e.Parent != rootID {
			return true
		}
	}
	return false
}

// listTextureSlots returns the distinct edge names by which some Material
// references tex — "baseColorTexture", "normalTexture", and so on (spec
// §4.G). A texture reaches a material through an owned TextureInfo, so this
// walks tex's TextureInfo parents and then each TextureInfo's own parent
// edge.
func listTextureSlots(tex *document.Texture) []string {
	d := tex.Doc()
	seen := make(map[string]bool)
	var out []string
	for _, tiID := range d.Graph().Parents(tex.ID(), edgeTextureInfoTexture) {
		for _, e := range d.Graph().ParentEdges(tiID, "") {
			if !seen[e.Name] {
				seen[e.Name] = true
				out = append(out, e.Name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// edgeTextureInfoTexture mirrors the unexported constant of the same name
// in package document (document/material.go); the role name is part of the
// graph's on-the-wire shape, not an implementation detail, so duplicating
// the literal here is no different from the codec duplicating a glTF enum
// value.
const edgeTextureInfoTexture = "texture"

// redirectReferences repoints every live edge whose child is from onto to,
// across every parent that references from; it does not dispose from. This
// is the mechanic behind dedup's "survivor absorbs references" step, after
// which dedupGroup disposes the duplicate itself.
func redirectReferences(d *document.Document, from, to graph.ID) {
	g := d.Graph()
	for _, parent := range g.Parents(from, "") {
		g.Swap(parent, from, to)
	}
}

// disposer is implemented by every core property type.
type disposer interface {
	Dispose()
}
