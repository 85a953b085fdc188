package document

import "github.com/mrigankad/gltfkit/graph"

const (
	edgeSkinIBM      = "inverseBindMatrices"
	edgeSkinJoint    = "joint"
	edgeSkinSkeleton = "skeleton"
)

// Skin holds an inverse-bind-matrices accessor, an ordered joint list, and
// an optional skeleton root node (spec §3).
type Skin struct {
	base
	extendable
}

func (s *Skin) TypeName() string { return "Skin" }

func (s *Skin) InverseBindMatrices() *Accessor {
	return lookupSingleChild[*Accessor](s.doc, s.id, edgeSkinIBM)
}

func (s *Skin) SetInverseBindMatrices(a *Accessor) *Skin {
	id, has := accessorID(a)
	replaceSingleChild(s.doc, s.id, edgeSkinIBM, id, has)
	return s
}

// ListJoints returns the skin's joint nodes in edge-creation order.
func (s *Skin) ListJoints() []*Node {
	ids := s.doc.g.Children(s.id, edgeSkinJoint)
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.doc.Lookup(id); ok {
			if n, ok := p.(*Node); ok {
				out = append(out, n)
			}
		}
	}
	return out
}

// AddJoint appends n to the skin's ordered joint list.
func (s *Skin) AddJoint(n *Node) *Skin {
	s.doc.g.Connect(s.id, n.id, edgeSkinJoint, graph.EdgeAttrs{})
	return s
}

func (s *Skin) SkeletonRoot() *Node {
	return lookupSingleChild[*Node](s.doc, s.id, edgeSkinSkeleton)
}

func (s *Skin) SetSkeletonRoot(n *Node) *Skin {
	id, has := func() (graph.ID, bool) {
		if n == nil {
			return 0, false
		}
		return n.id, true
	}()
	replaceSingleChild(s.doc, s.id, edgeSkinSkeleton, id, has)
	return s
}

func (s *Skin) Dispose() { s.doc.g.Dispose(s.id, nil) }
