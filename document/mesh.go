package document

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mrigankad/gltfkit/ext"
	"github.com/mrigankad/gltfkit/graph"
)

// Mode mirrors the glTF primitive.mode enum.
type Mode int

const (
	ModePoints        Mode = 0
	ModeLines         Mode = 1
	ModeLineLoop      Mode = 2
	ModeLineStrip     Mode = 3
	ModeTriangles     Mode = 4
	ModeTriangleStrip Mode = 5
	ModeTriangleFan   Mode = 6
)

const edgeMeshPrimitive = "primitive"

// Mesh is an ordered list of Primitives plus optional default morph target
// weights (spec §3).
type Mesh struct {
	base
	extendable
	Weights []float32
}

func (m *Mesh) TypeName() string { return "Mesh" }

// ListPrimitives returns the mesh's primitives in edge-creation order.
func (m *Mesh) ListPrimitives() []*Primitive {
	ids := m.doc.g.Children(m.id, edgeMeshPrimitive)
	out := make([]*Primitive, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.doc.Lookup(id); ok {
			if prim, ok := p.(*Primitive); ok {
				out = append(out, prim)
			}
		}
	}
	return out
}

// CreatePrimitive allocates a new Primitive owned exclusively by m.
func (m *Mesh) CreatePrimitive() *Primitive {
	p := &Primitive{Mode: ModeTriangles}
	p.id = m.doc.g.NewProperty()
	p.doc = m.doc
	m.doc.register(p)
	m.doc.g.Connect(m.id, p.id, edgeMeshPrimitive, graph.EdgeAttrs{})
	return p
}

// Dispose detaches m from root and disposes every primitive it exclusively
// owns.
func (m *Mesh) Dispose() {
	for _, p := range m.ListPrimitives() {
		p.Dispose()
	}
	m.doc.g.Dispose(m.id, nil)
}

const (
	edgePrimitiveIndices  = "indices"
	edgePrimitiveMaterial = "material"
	attrPrefix            = "attr:"
)

// Primitive is the draw-call-sized unit within a mesh (spec glossary): one
// index buffer, per-semantic attribute streams, morph targets, one
// material.
type Primitive struct {
	base
	extendable
	Mode Mode
}

func (p *Primitive) TypeName() string { return "Primitive" }

// SetExtension attaches (or, given nil, detaches) an extension property on
// this primitive, rejecting it as a ValidationError if the extension's
// declared ParentTypes does not include "Primitive" (spec §3/§7), the
// parent type both KHR_draco_mesh_compression and KHR_mesh_quantization
// declare.
func (p *Primitive) SetExtension(name string, e ext.Property) error {
	if e != nil {
		if err := p.doc.CheckExtensionParent(name, "Primitive"); err != nil {
			return err
		}
	}
	p.extendable.setExtensionUnchecked(name, e)
	return nil
}

func targetRole(target int, semantic string) string {
	return fmt.Sprintf("target%d:%s", target, semantic)
}

// Indices returns the accessor backing the primitive's index buffer, or
// nil for a non-indexed primitive.
func (p *Primitive) Indices() *Accessor {
	return lookupSingleChild[*Accessor](p.doc, p.id, edgePrimitiveIndices)
}

func (p *Primitive) SetIndices(a *Accessor) *Primitive {
	id, has := accessorID(a)
	replaceSingleChild(p.doc, p.id, edgePrimitiveIndices, id, has)
	return p
}

func accessorID(a *Accessor) (graph.ID, bool) {
	if a == nil {
		return 0, false
	}
	return a.id, true
}

func materialID(m *Material) (graph.ID, bool) {
	if m == nil {
		return 0, false
	}
	return m.id, true
}

// Material returns the primitive's material, or nil for the default
// material.
func (p *Primitive) Material() *Material {
	return lookupSingleChild[*Material](p.doc, p.id, edgePrimitiveMaterial)
}

func (p *Primitive) SetMaterial(m *Material) *Primitive {
	id, has := materialID(m)
	replaceSingleChild(p.doc, p.id, edgePrimitiveMaterial, id, has)
	return p
}

// SetAttribute binds semantic (POSITION, NORMAL, TEXCOORD_0, ...) to a. A
// second call with the same semantic replaces the previous binding.
func (p *Primitive) SetAttribute(semantic string, a *Accessor) *Primitive {
	id, has := accessorID(a)
	replaceSingleChild(p.doc, p.id, attrPrefix+semantic, id, has)
	return p
}

// GetAttribute returns the accessor bound to semantic, or nil.
func (p *Primitive) GetAttribute(semantic string) *Accessor {
	return lookupSingleChild[*Accessor](p.doc, p.id, attrPrefix+semantic)
}

// ListSemantics returns every attribute semantic currently bound, sorted.
func (p *Primitive) ListSemantics() []string {
	out := []string{}
	for _, e := range p.doc.g.ChildEdges(p.id, "") {
		if len(e.Name) > len(attrPrefix) && e.Name[:len(attrPrefix)] == attrPrefix {
			out = append(out, e.Name[len(attrPrefix):])
		}
	}
	sort.Strings(out)
	return out
}

// SetMorphTarget binds semantic within the target'th morph target.
func (p *Primitive) SetMorphTarget(target int, semantic string, a *Accessor) *Primitive {
	id, has := accessorID(a)
	replaceSingleChild(p.doc, p.id, targetRole(target, semantic), id, has)
	return p
}

// GetMorphTarget returns the accessor bound to semantic within the
// target'th morph target, or nil.
func (p *Primitive) GetMorphTarget(target int, semantic string) *Accessor {
	return lookupSingleChild[*Accessor](p.doc, p.id, targetRole(target, semantic))
}

// MorphTargetCount returns one more than the highest morph target index
// with any bound semantic, or 0 if the primitive has no morph targets.
func (p *Primitive) MorphTargetCount() int {
	max := -1
	for _, e := range p.doc.g.ChildEdges(p.id, "") {
		rest, ok := strings.CutPrefix(e.Name, "target")
		if !ok {
			continue
		}
		colon := strings.IndexByte(rest, ':')
		if colon < 0 {
			continue
		}
		ti, err := strconv.Atoi(rest[:colon])
		if err != nil {
			continue
		}
		if ti > max {
			max = ti
		}
	}
	return max + 1
}

// MorphTargetSemantics returns every semantic bound within the target'th
// morph target, sorted.
func (p *Primitive) MorphTargetSemantics(target int) []string {
	prefix := targetRole(target, "")
	out := []string{}
	for _, e := range p.doc.g.ChildEdges(p.id, "") {
		if sem, ok := strings.CutPrefix(e.Name, prefix); ok {
			out = append(out, sem)
		}
	}
	sort.Strings(out)
	return out
}

// ValidateAttributeCounts enforces the glTF rule that every bound attribute
// accessor in the primitive must share the same element count (spec
// §4.B, validated on write).
func (p *Primitive) ValidateAttributeCounts() error {
	var want int
	first := ""
	for _, sem := range p.ListSemantics() {
		a := p.GetAttribute(sem)
		if a == nil || a.Typed() == nil {
			continue
		}
		c := a.Typed().Count()
		if first == "" {
			want, first = c, sem
			continue
		}
		if c != want {
			return fmt.Errorf("primitive: attribute %s has count %d, expected %d (from %s)", sem, c, want, first)
		}
	}
	return nil
}

// Dispose detaches the primitive from its mesh; it does not own the
// accessors or material it references.
func (p *Primitive) Dispose() {
	p.doc.g.Dispose(p.id, nil)
}
