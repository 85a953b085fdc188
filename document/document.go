package document

import (
	"fmt"
	"sort"

	gltfkit "github.com/mrigankad/gltfkit"
	"github.com/mrigankad/gltfkit/ext"
	"github.com/mrigankad/gltfkit/graph"
	"github.com/mrigankad/gltfkit/logging"
)

// Asset carries the document's top-level metadata (spec §3 Root).
type Asset struct {
	Generator string
	Version   string
	Copyright string
}

// Transform is the pipeline's unit of work (spec §4.G): a named function
// mutating a Document, observing every prior transform's mutations.
type Transform struct {
	Name string
	Run  func(*Document) error
}

// Document owns a graph, its Root, the extension registry instances
// actually in use, and a logger. Properties are created exclusively
// through Document's factory methods, which attach them to Root (spec §3
// Lifecycle).
type Document struct {
	g        *graph.Graph
	root     *Root
	registry map[graph.ID]Property
	logger   logging.Logger

	extRegistry *ext.Registry
	extensions  map[string]ext.Extension
	required    map[string]bool
}

// New returns an empty document with a fresh Root, logging to logger (or
// logging.Default() if nil), resolving extensions against reg (or
// ext.Builtins if nil).
func New(logger logging.Logger, reg *ext.Registry) *Document {
	if logger == nil {
		logger = logging.Default()
	}
	if reg == nil {
		reg = ext.Builtins
	}
	d := &Document{
		g:           graph.New(),
		registry:    make(map[graph.ID]Property),
		logger:      logger,
		extRegistry: reg,
		extensions:  make(map[string]ext.Extension),
		required:    make(map[string]bool),
	}
	d.root = newRoot(d)
	d.registry[d.root.id] = d.root
	return d
}

func (d *Document) Graph() *graph.Graph { return d.g }
func (d *Document) Root() *Root         { return d.root }
func (d *Document) Logger() logging.Logger { return d.logger }

func (d *Document) register(p Property) { d.registry[p.ID()] = p }

// attachToRoot connects Root to child via a role-named edge and registers
// child for graph.ID lookup. Every Create* factory method funnels through
// this so Root always reaches every live property (spec §3 invariant).
func (d *Document) attachToRoot(role string, child Property) {
	d.register(child)
	d.g.Connect(d.root.id, child.ID(), role, graph.EdgeAttrs{})
}

// Lookup resolves a graph.ID back to its Property, the mechanism behind
// Document.FromGraph(property) (spec §3: "A single back-pointer from each
// property to a document root").
func (d *Document) Lookup(id graph.ID) (Property, bool) {
	p, ok := d.registry[id]
	return p, ok
}

// FromGraph returns the Document owning p. Every property already carries
// its owning Document directly (via base.doc); this exists for parity with
// the spec's description of the back-pointer and for properties reached
// only by graph.ID.
func FromGraph(p Property) *Document { return p.Doc() }

// CreateExtension returns the singleton Extension instance for name,
// creating and registering it (and adding it to extensionsUsed) on first
// use, per spec §4.C.
func (d *Document) CreateExtension(name string) (ext.Extension, error) {
	if e, ok := d.extensions[name]; ok {
		return e, nil
	}
	e, ok := d.extRegistry.Create(name)
	if !ok {
		return nil, &gltfkit.DependencyMissing{Key: name}
	}
	d.extensions[name] = e
	return e, nil
}

// SetExtensionRequired moves name between extensionsUsed and
// extensionsRequired.
func (d *Document) SetExtensionRequired(name string, required bool) {
	d.required[name] = required
}

// extensionsUsed/extensionsRequired are recomputed at write time from live
// extensions (spec §3 invariant: extensionsRequired ⊆ extensionsUsed);
// ExtensionsUsed/ExtensionsRequired expose the live computation.
// ExtensionsUsed lists every attached extension's name, sorted — matching
// ext.Registry.Names()'s ordering guarantee so that serializing the same
// document twice (or under two differently-ordered registries) produces an
// identical extensionsUsed array and, in turn, an identical byte stream
// (spec §4.C, §8: "two permutations of the registration list produce
// identical output byte streams").
func (d *Document) ExtensionsUsed() []string {
	out := make([]string, 0, len(d.extensions))
	for name := range d.extensions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (d *Document) ExtensionsRequired() []string {
	out := make([]string, 0, len(d.required))
	for name, req := range d.required {
		if req {
			if _, ok := d.extensions[name]; ok {
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// ExtensionInstance returns the live singleton for name, if one has been
// created on this document.
func (d *Document) ExtensionInstance(name string) (ext.Extension, bool) {
	e, ok := d.extensions[name]
	return e, ok
}

// CheckExtensionParent enforces the spec §3 invariant that an extension
// property's parent type must appear in the extension's declared
// ParentTypes.
func (d *Document) CheckExtensionParent(extName, parentType string) error {
	e, ok := d.extensions[extName]
	if !ok {
		e2, ok2 := d.extRegistry.Create(extName)
		if !ok2 {
			return &gltfkit.ValidationError{Msg: fmt.Sprintf("unknown extension %q", extName)}
		}
		e = e2
	}
	for _, t := range e.ParentTypes() {
		if t == parentType {
			return nil
		}
	}
	return &gltfkit.ValidationError{
		Msg: fmt.Sprintf("extension %q may not attach to parent type %q", extName, parentType),
	}
}

// Transform runs each transform in order against this document, holding the
// reentrancy guard for the whole sequence (spec §5: "transforms assume
// exclusive ownership of the document for the duration of
// document.transform(...)").
func (d *Document) Transform(transforms ...Transform) error {
	if !d.g.Lock() {
		return &gltfkit.ValidationError{Msg: "document is already running a transform pipeline"}
	}
	defer d.g.Unlock()

	for _, t := range transforms {
		d.logger.Debugf("running transform %q", t.Name)
		if err := t.Run(d); err != nil {
			return fmt.Errorf("transform %q: %w", t.Name, err)
		}
	}
	return nil
}
