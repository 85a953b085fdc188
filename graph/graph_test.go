package graph

import "testing"

func TestConnectAndList(t *testing.T) {
	g := New()
	parent := g.NewProperty()
	child := g.NewProperty()

	g.Connect(parent, child, "mesh", EdgeAttrs{})

	children := g.Children(parent, "")
	if len(children) != 1 || children[0] != child {
		t.Fatalf("expected [child], got %v", children)
	}
	parents := g.Parents(child, "")
	if len(parents) != 1 || parents[0] != parent {
		t.Fatalf("expected [parent], got %v", parents)
	}
}

func TestSwapRedirectsOnlyMatchingEdges(t *testing.T) {
	g := New()
	parent := g.NewProperty()
	oldChild := g.NewProperty()
	newChild := g.NewProperty()
	other := g.NewProperty()

	g.Connect(parent, oldChild, "mesh", EdgeAttrs{})
	g.Connect(parent, other, "camera", EdgeAttrs{})

	g.Swap(parent, oldChild, newChild)

	if got := g.Children(parent, "mesh"); len(got) != 1 || got[0] != newChild {
		t.Fatalf("mesh edge not swapped: %v", got)
	}
	if got := g.Children(parent, "camera"); len(got) != 1 || got[0] != other {
		t.Fatalf("camera edge should be untouched: %v", got)
	}
	if got := g.Parents(oldChild, ""); len(got) != 0 {
		t.Fatalf("oldChild should have no parents after swap, got %v", got)
	}
}

func TestDisposeDetachesAllEdgesAndCascades(t *testing.T) {
	g := New()
	material := g.NewProperty()
	texInfo := g.NewProperty()
	texture := g.NewProperty()

	g.Connect(material, texInfo, "baseColorTexture", EdgeAttrs{})
	g.Connect(texInfo, texture, "texture", EdgeAttrs{})

	var cascaded []ID
	g.Dispose(material, func(e *Edge) {
		if e.Name == "baseColorTexture" {
			cascaded = append(cascaded, e.Child)
		}
	})

	if len(cascaded) != 1 || cascaded[0] != texInfo {
		t.Fatalf("expected cascade to texInfo, got %v", cascaded)
	}
	if g.IsLive(material) {
		t.Fatalf("material should be dead")
	}
	if len(g.Parents(texInfo, "")) != 0 {
		t.Fatalf("texInfo should have no parents left")
	}
	// texture itself is untouched by the single dispose call: cascading
	// disposal of texInfo is the caller's (document layer's) job.
	if !g.IsLive(texture) {
		t.Fatalf("texture should remain live")
	}
}

func TestReentrancyGuard(t *testing.T) {
	g := New()
	if !g.Lock() {
		t.Fatalf("first lock should succeed")
	}
	if g.Lock() {
		t.Fatalf("second overlapping lock should fail")
	}
	g.Unlock()
	if !g.Lock() {
		t.Fatalf("lock after unlock should succeed")
	}
}
