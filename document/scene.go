package document

import "github.com/mrigankad/gltfkit/graph"

const edgeSceneChild = "child"

// Scene is an ordered set of child Nodes. A Node may belong to several
// scenes; adding it as the child of another Node removes it from every
// scene (spec §3).
type Scene struct {
	base
	extendable
}

func (s *Scene) TypeName() string { return "Scene" }

// ListChildren returns the scene's direct child nodes in edge-creation
// order.
func (s *Scene) ListChildren() []*Node {
	d := s.doc
	ids := d.g.Children(s.id, edgeSceneChild)
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if p, ok := d.Lookup(id); ok {
			if n, ok := p.(*Node); ok {
				out = append(out, n)
			}
		}
	}
	return out
}

// AddChild appends n as a direct child of the scene. Per spec §3, this does
// not remove n from any other scene — only adding n as the child of
// another Node does that.
func (s *Scene) AddChild(n *Node) *Scene {
	s.doc.g.Connect(s.id, n.id, edgeSceneChild, graph.EdgeAttrs{})
	return s
}

// RemoveChild detaches n from this scene only.
func (s *Scene) RemoveChild(n *Node) *Scene {
	for _, e := range s.doc.g.ChildEdges(s.id, edgeSceneChild) {
		if e.Child == n.id {
			s.doc.g.Disconnect(e)
		}
	}
	return s
}

// Traverse yields every node reachable from the scene's children exactly
// once, depth-first, matching Scene.traverse in spec §4.B.
func (s *Scene) Traverse(visit func(*Node)) {
	seen := make(map[graph.ID]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		if seen[n.id] {
			return
		}
		seen[n.id] = true
		visit(n)
		for _, c := range n.ListChildren() {
			walk(c)
		}
	}
	for _, n := range s.ListChildren() {
		walk(n)
	}
}

// Dispose detaches the scene from Root and from every child node, then
// marks it dead. Scenes are "scene-graph wrappers, not transferable
// subgraphs" (spec §4.G) so disposing one never cascades into its nodes.
func (s *Scene) Dispose() {
	s.doc.g.Dispose(s.id, nil)
}
