package ext

// NameMeshQuantization is the Khronos extension marking that one or more
// accessors in the document use a non-default, quantized component type
// (spec §4.D/§4.H quantize). It carries no per-property payload: it is a
// pure marker at the extensionsUsed/extensionsRequired level.
const NameMeshQuantization = "KHR_mesh_quantization"

type MeshQuantization struct {
	ExtensionBase
}

func init() {
	Builtins.Register(NameMeshQuantization, func() Extension { return &MeshQuantization{} })
}

func (e *MeshQuantization) Name() string          { return NameMeshQuantization }
func (e *MeshQuantization) ParentTypes() []string { return []string{"Primitive"} }
