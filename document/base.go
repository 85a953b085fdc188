// Package document implements the concrete property model of spec §3/§4.B:
// Root, Scene, Node, Mesh, Primitive, Accessor, Material, Texture,
// TextureInfo, Animation{Sampler,Channel}, Skin, Buffer and Camera, wired
// together through the graph substrate in package graph.
package document

import (
	"github.com/mrigankad/gltfkit/ext"
	"github.com/mrigankad/gltfkit/graph"
)

// Property is implemented by every entity that lives in a Document's graph,
// core types and extension properties alike.
type Property interface {
	ID() graph.ID
	Doc() *Document
	TypeName() string
}

// base is embedded by every concrete property type in this package. It
// mirrors the teacher's small shared value types (core.Transform,
// core.Color) in spirit: a minimal piece of common state every node of a
// given kind carries.
type base struct {
	id   graph.ID
	doc  *Document
	Name string // glTF "name": display name, not an identifier
}

func (b *base) ID() graph.ID    { return b.id }
func (b *base) Doc() *Document  { return b.doc }
func (b *base) getName() string { return b.Name }

// Extras is the map type for arbitrary, schema-unknown JSON. No property
// type carries an Extras field, and the codec neither reads nor writes
// extras.
type Extras = map[string]any

// extensionMap is the open map of extension-name -> ExtensionProperty
// attached to a single core property, the "small map (extensionName ->
// extensionPropertyId)" the design notes (§9) call for, keyed by name
// rather than by arena id since lookup is always by name.
type extensionMap struct {
	m map[string]ext.Property
}

func (e *extensionMap) set(name string, p ext.Property) {
	if e.m == nil {
		e.m = make(map[string]ext.Property)
	}
	if p == nil {
		delete(e.m, name)
		return
	}
	e.m[name] = p
}

func (e *extensionMap) get(name string) (ext.Property, bool) {
	p, ok := e.m[name]
	return p, ok
}

func (e *extensionMap) names() []string {
	out := make([]string, 0, len(e.m))
	for k := range e.m {
		out = append(out, k)
	}
	return out
}

// extendable is embedded by property types that may carry extension
// properties (effectively every core property type).
type extendable struct {
	ext extensionMap
}

// setExtensionUnchecked attaches (or, given nil, detaches) an extension
// property under the given extension name, with no ParentTypes validation.
// Concrete property types expose SetExtension (checked) instead; this stays
// unexported so every attach path goes through the check.
func (e *extendable) setExtensionUnchecked(name string, p ext.Property) { e.ext.set(name, p) }

// GetExtension returns the extension property attached under name, if any.
func (e *extendable) GetExtension(name string) (ext.Property, bool) { return e.ext.get(name) }

// ExtensionNames lists the names of every extension attached to this
// property.
func (e *extendable) ExtensionNames() []string { return e.ext.names() }
