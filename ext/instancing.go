package ext

import "github.com/mrigankad/gltfkit/graph"

// NameMeshGPUInstancing is the vendor extension the instance transform
// (spec §4.H) writes: a Node gains a per-instance attribute set replacing
// N sibling nodes that shared a mesh.
const NameMeshGPUInstancing = "EXT_mesh_gpu_instancing"

// InstancingAttributes is the ExtensionProperty attached to a Node: a
// semantic ("TRANSLATION", "ROTATION", "SCALE", or a user "_CUSTOM" key) to
// accessor-property mapping, identical in shape to a primitive's attribute
// map but addressed by Node rather than Mesh.
type InstancingAttributes struct {
	PropertyBase
	Attributes map[string]graph.ID
}

func (p *InstancingAttributes) TypeName() string { return "InstancingAttributes" }

// NewInstancingAttributes allocates and registers a fresh instancing
// attribute set in g.
func NewInstancingAttributes(g *graph.Graph) *InstancingAttributes {
	p := &InstancingAttributes{Attributes: make(map[string]graph.ID)}
	p.Init(g.NewProperty(), NameMeshGPUInstancing)
	return p
}

type MeshGPUInstancing struct {
	ExtensionBase
}

func init() {
	Builtins.Register(NameMeshGPUInstancing, func() Extension { return &MeshGPUInstancing{} })
}

func (e *MeshGPUInstancing) Name() string           { return NameMeshGPUInstancing }
func (e *MeshGPUInstancing) ParentTypes() []string   { return []string{"Node"} }
func (e *MeshGPUInstancing) PrereadTypes() []string  { return []string{"Node"} }
func (e *MeshGPUInstancing) PrewriteTypes() []string { return []string{"Node"} }
