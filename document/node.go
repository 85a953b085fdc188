package document

import (
	"github.com/mrigankad/gltfkit/ext"
	"github.com/mrigankad/gltfkit/graph"
	gmath "github.com/mrigankad/gltfkit/math"
)

const (
	edgeNodeChild  = "child"
	edgeNodeMesh   = "mesh"
	edgeNodeCamera = "camera"
	edgeNodeSkin   = "skin"
)

func identityQuat() [4]float32 { return [4]float32{0, 0, 0, 1} }

// Node is a node in the scene hierarchy: optional mesh/camera/skin, ordered
// children, and either a TRS triple or an explicit matrix (spec §3).
type Node struct {
	base
	extendable

	translation [3]float32
	rotation    [4]float32
	scale       [3]float32
	useMatrix   bool
	matrix      gmath.Mat4
}

func (n *Node) TypeName() string { return "Node" }

// SetExtension attaches (or, given nil, detaches) an extension property on
// this node, rejecting it as a ValidationError if the extension's declared
// ParentTypes does not include "Node" (spec §3/§7: "the codec refuses to
// serialize otherwise").
func (n *Node) SetExtension(name string, p ext.Property) error {
	if p != nil {
		if err := n.doc.CheckExtensionParent(name, "Node"); err != nil {
			return err
		}
	}
	n.extendable.setExtensionUnchecked(name, p)
	return nil
}

// --- TRS / matrix ---------------------------------------------------------

func (n *Node) Translation() [3]float32 { return n.translation }
func (n *Node) Rotation() [4]float32    { return n.rotation }
func (n *Node) Scale() [3]float32       { return n.scale }

func (n *Node) SetTranslation(v [3]float32) *Node {
	n.useMatrix = false
	n.translation = v
	return n
}

func (n *Node) SetRotation(q [4]float32) *Node {
	n.useMatrix = false
	n.rotation = q
	return n
}

func (n *Node) SetScale(v [3]float32) *Node {
	n.useMatrix = false
	n.scale = v
	return n
}

// SetMatrix stores an explicit local transform, decomposing it into TRS so
// Translation/Rotation/Scale and LocalMatrix stay consistent regardless of which form is asked
// for (spec §4.B: "setMatrix decomposes into TRS").
func (n *Node) SetMatrix(m gmath.Mat4) *Node {
	t, r, s := m.Decompose()
	n.translation = [3]float32{t.X, t.Y, t.Z}
	n.rotation = [4]float32{r.X, r.Y, r.Z, r.W}
	n.scale = [3]float32{s.X, s.Y, s.Z}
	n.useMatrix = false
	return n
}

// IsIdentityTransform reports whether the node's local transform is
// identity — such transforms must not be serialized (spec §3).
func (n *Node) IsIdentityTransform() bool {
	return n.translation == [3]float32{0, 0, 0} &&
		n.rotation == identityQuat() &&
		n.scale == [3]float32{1, 1, 1}
}

// LocalMatrix returns the node's local transform as a 4x4 matrix.
func (n *Node) LocalMatrix() gmath.Mat4 {
	t := gmath.Vec3{X: n.translation[0], Y: n.translation[1], Z: n.translation[2]}
	r := gmath.Quaternion{X: n.rotation[0], Y: n.rotation[1], Z: n.rotation[2], W: n.rotation[3]}
	s := gmath.Vec3{X: n.scale[0], Y: n.scale[1], Z: n.scale[2]}
	return gmath.Mat4FromTRS(t, r, s)
}

// WorldMatrix composes parent.World ∘ local across the node-parent chain
// (spec §4.B: "computed as parent.world ∘ local each traversal").
func (n *Node) WorldMatrix() gmath.Mat4 {
	local := n.LocalMatrix()
	if p := n.ParentNode(); p != nil {
		return p.WorldMatrix().Mul(local)
	}
	return local
}

// --- mesh / camera / skin -------------------------------------------------

func (n *Node) Mesh() *Mesh {
	return lookupSingleChild[*Mesh](n.doc, n.id, edgeNodeMesh)
}

func (n *Node) SetMesh(m *Mesh) *Node {
	id, has := meshID(m)
	replaceSingleChild(n.doc, n.id, edgeNodeMesh, id, has)
	return n
}

func (n *Node) Camera() *Camera {
	return lookupSingleChild[*Camera](n.doc, n.id, edgeNodeCamera)
}

func (n *Node) SetCamera(c *Camera) *Node {
	id, has := cameraID(c)
	replaceSingleChild(n.doc, n.id, edgeNodeCamera, id, has)
	return n
}

func (n *Node) Skin() *Skin {
	return lookupSingleChild[*Skin](n.doc, n.id, edgeNodeSkin)
}

func (n *Node) SetSkin(s *Skin) *Node {
	id, has := skinID(s)
	replaceSingleChild(n.doc, n.id, edgeNodeSkin, id, has)
	return n
}

func meshID(m *Mesh) (graph.ID, bool) {
	if m == nil {
		return 0, false
	}
	return m.id, true
}
func cameraID(c *Camera) (graph.ID, bool) {
	if c == nil {
		return 0, false
	}
	return c.id, true
}
func skinID(s *Skin) (graph.ID, bool) {
	if s == nil {
		return 0, false
	}
	return s.id, true
}

func lookupSingleChild[T Property](d *Document, parent graph.ID, role string) T {
	var zero T
	ids := d.g.Children(parent, role)
	if len(ids) == 0 {
		return zero
	}
	if p, ok := d.Lookup(ids[0]); ok {
		if t, ok := p.(T); ok {
			return t
		}
	}
	return zero
}

func replaceSingleChild(d *Document, parent graph.ID, role string, child graph.ID, has bool) {
	for _, e := range d.g.ChildEdges(parent, role) {
		d.g.Disconnect(e)
	}
	if has {
		d.g.Connect(parent, child, role, graph.EdgeAttrs{})
	}
}

// --- hierarchy -------------------------------------------------------------

// ParentNode returns this node's single node-parent, or nil if the node is
// only reachable from scenes (or unreachable).
func (n *Node) ParentNode() *Node {
	for _, pid := range n.doc.g.Parents(n.id, edgeNodeChild) {
		if p, ok := n.doc.Lookup(pid); ok {
			if parent, ok := p.(*Node); ok {
				return parent
			}
		}
	}
	return nil
}

// ListChildren returns n's direct child nodes in edge-creation order.
func (n *Node) ListChildren() []*Node {
	ids := n.doc.g.Children(n.id, edgeNodeChild)
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if p, ok := n.doc.Lookup(id); ok {
			if c, ok := p.(*Node); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// AddChild attaches child as a direct child of n. A node has at most one
// node-parent: if child already has one, rebinding detaches it atomically
// first. Per spec §3, this also removes child from every scene it belonged
// to, since a node reachable from another node is no longer a scene root.
func (n *Node) AddChild(child *Node) *Node {
	g := n.doc.g
	for _, e := range g.ParentEdges(child.id, edgeNodeChild) {
		g.Disconnect(e)
	}
	for _, scene := range n.doc.root.ListScenes() {
		scene.RemoveChild(child)
	}
	g.Connect(n.id, child.id, edgeNodeChild, graph.EdgeAttrs{})
	return n
}

// RemoveChild detaches child from n, if it is currently a direct child.
func (n *Node) RemoveChild(child *Node) *Node {
	for _, e := range n.doc.g.ChildEdges(n.id, edgeNodeChild) {
		if e.Child == child.id {
			n.doc.g.Disconnect(e)
		}
	}
	return n
}

// Dispose detaches n from its parent (node or scenes), disposes it, and
// leaves its children parentless (they are not recursively disposed: they
// remain live and reachable only if something else still references them,
// per the general "exclusive ownership" dispose rule — a Node does not
// exclusively own its children the way a Material owns a TextureInfo).
func (n *Node) Dispose() {
	n.doc.g.Dispose(n.id, nil)
}
