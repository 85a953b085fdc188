// Package ext implements the extension mechanism of spec §4.C: Extension
// classes carrying hook-phase declarations and host-injected dependency
// keys, and ExtensionProperty instances that attach typed data to core
// properties and participate in the graph like any other property.
package ext

import "github.com/mrigankad/gltfkit/graph"

// Property is implemented by every ExtensionProperty. It deliberately has
// no dependency on the document package (which depends on ext, not the
// other way around) — only graph identity and enough metadata for the
// codec and the parent-type invariant check.
type Property interface {
	ID() graph.ID
	TypeName() string
	ExtensionName() string
}

// PropertyBase is embedded by concrete ExtensionProperty implementations
// for the identity/bookkeeping every one of them needs.
type PropertyBase struct {
	id      graph.ID
	extName string
	Name    string
}

// Init must be called by an Extension's property factory right after the
// property is allocated in the graph.
func (p *PropertyBase) Init(id graph.ID, extName string) {
	p.id = id
	p.extName = extName
}

func (p *PropertyBase) ID() graph.ID          { return p.id }
func (p *PropertyBase) ExtensionName() string { return p.extName }

// Extension is a singleton-per-document instance of an extension class. It
// declares the property-type phases its hooks run at (spec §4.C) and the
// dependency keys it needs installed before it can read or write.
type Extension interface {
	Name() string
	// ParentTypes lists the core property TypeNames this extension's
	// properties may be attached to; the codec refuses to serialize an
	// ExtensionProperty whose parent isn't in this set (spec §3 invariant).
	ParentTypes() []string
	PrereadTypes() []string
	PrewriteTypes() []string
	ReadDependencies() []string
	WriteDependencies() []string
	// Install supplies a host-injected dependency (a decoder, encoder, or
	// image codec) under the given key.
	Install(key string, value any)
}

// ExtensionBase gives a concrete Extension an Install that records each
// dependency (readable back through Dependency) and empty dependency and
// phase lists; extensions override what they need.
type ExtensionBase struct {
	deps map[string]any
}

func (e *ExtensionBase) Install(key string, value any) {
	if e.deps == nil {
		e.deps = make(map[string]any)
	}
	e.deps[key] = value
}

func (e *ExtensionBase) Dependency(key string) (any, bool) {
	v, ok := e.deps[key]
	return v, ok
}

func (e *ExtensionBase) ReadDependencies() []string  { return nil }
func (e *ExtensionBase) WriteDependencies() []string { return nil }
func (e *ExtensionBase) PrereadTypes() []string       { return nil }
func (e *ExtensionBase) PrewriteTypes() []string      { return nil }
