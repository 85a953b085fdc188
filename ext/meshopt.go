package ext

// NameMeshoptCompression is the vendor extension a reorder+weld pipeline
// pairs with to mark that one or more accessors' bytes are stored through
// an external meshopt filter rather than the plain dense layout (spec §4.H
// "mesh-opt / draco extensions"). Like KHR_mesh_quantization this package
// only tracks the marker. Neither this package nor the codec performs
// byte-level compression or fallback-buffer handling: codec/bufferlayout.go
// packs every accessor densely with no meshopt case, and the core document
// model folds bufferViews into Buffer/Accessor directly, so this package's
// per-property ExtensionProperty model has nothing at bufferView
// granularity to attach to. Installing this extension is therefore a
// used/required declaration, not a working byte-compressor.
const NameMeshoptCompression = "EXT_meshopt_compression"

type MeshoptCompression struct {
	ExtensionBase
}

func init() {
	Builtins.Register(NameMeshoptCompression, func() Extension { return &MeshoptCompression{} })
}

func (e *MeshoptCompression) Name() string          { return NameMeshoptCompression }
func (e *MeshoptCompression) ParentTypes() []string { return []string{"Buffer"} }
func (e *MeshoptCompression) ReadDependencies() []string  { return []string{"meshopt.decoder"} }
func (e *MeshoptCompression) WriteDependencies() []string { return []string{"meshopt.encoder"} }

// NameDracoMeshCompression is the Khronos Draco geometry compression
// extension; same marker-only scope as NameMeshoptCompression above.
const NameDracoMeshCompression = "KHR_draco_mesh_compression"

type DracoMeshCompression struct {
	ExtensionBase
}

func init() {
	Builtins.Register(NameDracoMeshCompression, func() Extension { return &DracoMeshCompression{} })
}

func (e *DracoMeshCompression) Name() string          { return NameDracoMeshCompression }
func (e *DracoMeshCompression) ParentTypes() []string { return []string{"Primitive"} }
func (e *DracoMeshCompression) ReadDependencies() []string  { return []string{"draco3d.decoder"} }
func (e *DracoMeshCompression) WriteDependencies() []string { return []string{"draco3d.encoder"} }
