package codec

import "github.com/mrigankad/gltfkit/document"

// usage is the glTF bufferView.target classification an accessor's bytes are
// grouped by when writing (spec §4.E step 2).
type usage int

const (
	usageOther usage = iota
	usageArray
	usageElementArray
)

const (
	targetArrayBuffer        = 34962
	targetElementArrayBuffer = 34963
)

func (u usage) target() uint32 {
	switch u {
	case usageArray:
		return targetArrayBuffer
	case usageElementArray:
		return targetElementArrayBuffer
	default:
		return 0
	}
}

// groupKey identifies one output bufferView: accessors sharing a usage and
// byte stride are packed consecutively into the same view (spec §4.E step 2:
// "grouping by (usage, byteStride, owning buffer)"). This writer always
// emits tightly packed (non-interleaved) views, so stride is implied by each
// accessor's own element size and every accessor in a view is only
// distinguished by its own byteOffset.
type groupKey struct {
	usage  usage
	stride int
}

// planGroups classifies every accessor by usage and returns groups in a
// stable order: ELEMENT_ARRAY_BUFFER accessors first, then ARRAY_BUFFER,
// then OTHER, each in the accessor's root-list order.
func planGroups(accessors []*document.Accessor, usages map[*document.Accessor]usage) []groupKey {
	seen := make(map[groupKey]bool)
	var order []groupKey
	for _, pass := range []usage{usageElementArray, usageArray, usageOther} {
		for _, a := range accessors {
			if usages[a] != pass {
				continue
			}
			k := groupKey{usage: pass, stride: a.Typed().Base.Stride()}
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}
	return order
}

// group is one planned bufferView: a usage/stride key plus the accessors
// that will be packed into it, in packing order.
type group struct {
	key     groupKey
	members []*document.Accessor
}

// plan classifies and groups every live accessor in the document, in
// ELEMENT_ARRAY_BUFFER, then ARRAY_BUFFER, then OTHER order.
func plan(d *document.Document) []group {
	usages := classifyUsages(d)
	all := d.Root().ListAccessors()
	keys := planGroups(all, usages)

	groups := make([]group, len(keys))
	index := make(map[groupKey]int, len(keys))
	for i, k := range keys {
		groups[i] = group{key: k}
		index[k] = i
	}
	for _, pass := range []usage{usageElementArray, usageArray, usageOther} {
		for _, a := range all {
			if usages[a] != pass {
				continue
			}
			k := groupKey{usage: pass, stride: a.Typed().Base.Stride()}
			i := index[k]
			groups[i].members = append(groups[i].members, a)
		}
	}
	return groups
}

// classifyUsages inspects how each accessor in the document is referenced
// (primitive indices, primitive/morph-target attributes, or neither) to
// decide its bufferView usage classification.
func classifyUsages(d *document.Document) map[*document.Accessor]usage {
	out := make(map[*document.Accessor]usage)
	for _, mesh := range d.Root().ListMeshes() {
		for _, p := range mesh.ListPrimitives() {
			if idx := p.Indices(); idx != nil {
				out[idx] = usageElementArray
			}
			for _, sem := range p.ListSemantics() {
				if a := p.GetAttribute(sem); a != nil {
					if _, ok := out[a]; !ok {
						out[a] = usageArray
					}
				}
			}
			for ti := 0; ti < p.MorphTargetCount(); ti++ {
				for _, sem := range p.MorphTargetSemantics(ti) {
					if a := p.GetMorphTarget(ti, sem); a != nil {
						if _, ok := out[a]; !ok {
							out[a] = usageArray
						}
					}
				}
			}
		}
	}
	for _, a := range d.Root().ListAccessors() {
		if _, ok := out[a]; !ok {
			out[a] = usageOther
		}
	}
	return out
}
