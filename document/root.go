package document

import "github.com/mrigankad/gltfkit/graph"

// Root is the singleton owner of every other property in a Document (spec
// §3). Its children are reached through named graph edges rather than
// slices, so listing is always "what's still live" rather than a snapshot
// that can drift from disposals.
type Root struct {
	base
	Asset        Asset
	DefaultScene *Scene
}

func newRoot(d *Document) *Root {
	r := &Root{}
	r.id = d.g.NewProperty()
	r.doc = d
	return r
}

func (r *Root) TypeName() string { return "Root" }

func childrenOf[T Property](d *Document, role string) []T {
	return childrenOfParent[T](d, d.root.id, role)
}

func (r *Root) ListScenes() []*Scene         { return childrenOf[*Scene](r.doc, roleScene) }
func (r *Root) ListNodes() []*Node           { return childrenOf[*Node](r.doc, roleNode) }
func (r *Root) ListMeshes() []*Mesh          { return childrenOf[*Mesh](r.doc, roleMesh) }
func (r *Root) ListMaterials() []*Material   { return childrenOf[*Material](r.doc, roleMaterial) }
func (r *Root) ListTextures() []*Texture     { return childrenOf[*Texture](r.doc, roleTexture) }
func (r *Root) ListAccessors() []*Accessor   { return childrenOf[*Accessor](r.doc, roleAccessor) }
func (r *Root) ListAnimations() []*Animation { return childrenOf[*Animation](r.doc, roleAnimation) }
func (r *Root) ListSkins() []*Skin           { return childrenOf[*Skin](r.doc, roleSkin) }
func (r *Root) ListBuffers() []*Buffer       { return childrenOf[*Buffer](r.doc, roleBuffer) }
func (r *Root) ListCameras() []*Camera       { return childrenOf[*Camera](r.doc, roleCamera) }

const (
	roleScene     = "scenes"
	roleNode      = "nodes"
	roleMesh      = "meshes"
	roleMaterial  = "materials"
	roleTexture   = "textures"
	roleAccessor  = "accessors"
	roleAnimation = "animations"
	roleSkin      = "skins"
	roleBuffer    = "buffers"
	roleCamera    = "cameras"
)

// CreateScene allocates a new, empty Scene owned by Root.
func (d *Document) CreateScene(name string) *Scene {
	s := &Scene{}
	s.id = d.g.NewProperty()
	s.doc = d
	s.Name = name
	d.attachToRoot(roleScene, s)
	return s
}

// CreateNode allocates a new Node with identity TRS, owned by Root. Nodes
// start out parentless; use AddChild (on another Node) or Scene.AddChild to
// place them in the hierarchy.
func (d *Document) CreateNode(name string) *Node {
	n := &Node{scale: [3]float32{1, 1, 1}}
	n.id = d.g.NewProperty()
	n.doc = d
	n.Name = name
	n.rotation = identityQuat()
	d.attachToRoot(roleNode, n)
	return n
}

// CreateMesh allocates a new, empty Mesh owned by Root.
func (d *Document) CreateMesh(name string) *Mesh {
	m := &Mesh{}
	m.id = d.g.NewProperty()
	m.doc = d
	m.Name = name
	d.attachToRoot(roleMesh, m)
	return m
}

// CreateMaterial allocates a new Material with glTF's default PBR factors,
// owned by Root.
func (d *Document) CreateMaterial(name string) *Material {
	m := defaultMaterial()
	m.id = d.g.NewProperty()
	m.doc = d
	m.Name = name
	d.attachToRoot(roleMaterial, m)
	return m
}

// CreateTexture allocates a new, empty Texture owned by Root.
func (d *Document) CreateTexture(name string) *Texture {
	t := &Texture{}
	t.id = d.g.NewProperty()
	t.doc = d
	t.Name = name
	d.attachToRoot(roleTexture, t)
	return t
}

// CreateAccessor allocates a new Accessor owned by Root. The accessor has
// no backing array until SetArray is called.
func (d *Document) CreateAccessor(name string) *Accessor {
	a := &Accessor{}
	a.id = d.g.NewProperty()
	a.doc = d
	a.Name = name
	d.attachToRoot(roleAccessor, a)
	return a
}

// CreateAnimation allocates a new, empty Animation owned by Root.
func (d *Document) CreateAnimation(name string) *Animation {
	a := &Animation{}
	a.id = d.g.NewProperty()
	a.doc = d
	a.Name = name
	d.attachToRoot(roleAnimation, a)
	return a
}

// CreateSkin allocates a new, empty Skin owned by Root.
func (d *Document) CreateSkin(name string) *Skin {
	s := &Skin{}
	s.id = d.g.NewProperty()
	s.doc = d
	s.Name = name
	d.attachToRoot(roleSkin, s)
	return s
}

// CreateBuffer allocates a new, empty Buffer owned by Root.
func (d *Document) CreateBuffer(name string) *Buffer {
	b := &Buffer{}
	b.id = d.g.NewProperty()
	b.doc = d
	b.Name = name
	d.attachToRoot(roleBuffer, b)
	return b
}

// CreateCamera allocates a new, empty perspective Camera owned by Root.
func (d *Document) CreateCamera(name string) *Camera {
	c := &Camera{Type: CameraPerspective, Perspective: PerspectiveParams{YFov: 0.8, Znear: 0.1}}
	c.id = d.g.NewProperty()
	c.doc = d
	c.Name = name
	d.attachToRoot(roleCamera, c)
	return c
}

// isRootEdge reports whether id is reached directly from Root (used by
// IsUsed-style helpers elsewhere to ignore the root's own ownership edges
// when deciding whether a property is otherwise unreferenced).
func isRootEdge(d *Document, e *graph.Edge) bool {
	return e.Parent == d.root.id
}
