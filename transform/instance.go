package transform

import (
	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/document"
	"github.com/mrigankad/gltfkit/ext"
)

// InstanceConfig configures Instance (spec §4.H "instance"). Min is the
// minimum number of sibling nodes sharing a mesh before they are folded
// into a single EXT_mesh_gpu_instancing node; 0 defaults to 2.
type InstanceConfig struct {
	Min int
}

// siblingBucket is a set of nodes sharing a parent (another Node, or a
// Scene), plus the means to attach a freshly created node at that same
// position in the hierarchy.
type siblingBucket struct {
	nodes  []*document.Node
	attach func(*document.Node)
}

func siblingGroups(d *document.Document) []siblingBucket {
	byParentNode := make(map[*document.Node][]*document.Node)
	byScene := make(map[*document.Scene][]*document.Node)

	for _, n := range d.Root().ListNodes() {
		if p := n.ParentNode(); p != nil {
			byParentNode[p] = append(byParentNode[p], n)
		}
	}
	for _, s := range d.Root().ListScenes() {
		byScene[s] = append(byScene[s], s.ListChildren()...)
	}

	out := make([]siblingBucket, 0, len(byParentNode)+len(byScene))
	for p, nodes := range byParentNode {
		parent := p
		out = append(out, siblingBucket{nodes: nodes, attach: func(nn *document.Node) { parent.AddChild(nn) }})
	}
	for s, nodes := range byScene {
		scene := s
		out = append(out, siblingBucket{nodes: nodes, attach: func(nn *document.Node) { scene.AddChild(nn) }})
	}
	return out
}

// Instance identifies meshes referenced by at least cfg.Min sibling nodes
// (none skinned) and replaces them with a single node carrying
// EXT_mesh_gpu_instancing attributes that encode each instance's
// translation/rotation/scale (spec §4.H, §8 scenario 6). Attribute arrays
// are omitted entirely when every instance agrees with the identity value,
// matching glTF's own "omit if default" convention for node transforms.
//
// The spec also excludes meshes whose material combines a volumetric
// extension with per-instance scale; this module has no volumetric
// extension type yet, so that exclusion is a no-op until one is added.
func Instance(cfg InstanceConfig) document.Transform {
	min := cfg.Min
	if min <= 0 {
		min = 2
	}
	return document.Transform{
		Name: "instance",
		Run: func(d *document.Document) error {
			for _, bucket := range siblingGroups(d) {
				byMesh := make(map[*document.Mesh][]*document.Node)
				for _, n := range bucket.nodes {
					m := n.Mesh()
					if m == nil || n.Skin() != nil || n.Camera() != nil {
						continue
					}
					byMesh[m] = append(byMesh[m], n)
				}
				for mesh, members := range byMesh {
					if len(members) < min {
						continue
					}
					if err := instanceGroup(d, bucket.attach, mesh, members); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

func instanceGroup(d *document.Document, attach func(*document.Node), mesh *document.Mesh, members []*document.Node) error {
	n := len(members)
	translations := make([]float32, 0, n*3)
	rotations := make([]float32, 0, n*4)
	scales := make([]float32, 0, n*3)
	identityT, identityR, identityS := true, true, true

	for _, m := range members {
		t, r, s := m.Translation(), m.Rotation(), m.Scale()
		if t != [3]float32{0, 0, 0} {
			identityT = false
		}
		if r != [4]float32{0, 0, 0, 1} {
			identityR = false
		}
		if s != [3]float32{1, 1, 1} {
			identityS = false
		}
		translations = append(translations, t[0], t[1], t[2])
		rotations = append(rotations, r[0], r[1], r[2], r[3])
		scales = append(scales, s[0], s[1], s[2])
	}

	inst := d.CreateNode(mesh.Name)
	inst.SetMesh(mesh)
	attrs := ext.NewInstancingAttributes(d.Graph())

	if !identityT {
		attrs.Attributes["TRANSLATION"] = vec3Accessor(d, "TRANSLATION", translations).ID()
	}
	if !identityR {
		attrs.Attributes["ROTATION"] = vec4Accessor(d, "ROTATION", rotations).ID()
	}
	if !identityS {
		attrs.Attributes["SCALE"] = vec3Accessor(d, "SCALE", scales).ID()
	}

	if err := inst.SetExtension(ext.NameMeshGPUInstancing, attrs); err != nil {
		return err
	}
	if _, err := d.CreateExtension(ext.NameMeshGPUInstancing); err != nil {
		return err
	}

	attach(inst)
	for _, m := range members {
		m.Dispose()
	}
	return nil
}

func vec3Accessor(d *document.Document, name string, raw []float32) *document.Accessor {
	count := len(raw) / 3
	arr := accessor.NewArray(accessor.Float, accessor.VEC3, false, count)
	for i := 0; i < count; i++ {
		arr.WriteRaw(i, []float64{float64(raw[i*3]), float64(raw[i*3+1]), float64(raw[i*3+2])})
	}
	a := d.CreateAccessor(name)
	a.SetArray(arr)
	return a
}

func vec4Accessor(d *document.Document, name string, raw []float32) *document.Accessor {
	count := len(raw) / 4
	arr := accessor.NewArray(accessor.Float, accessor.VEC4, false, count)
	for i := 0; i < count; i++ {
		arr.WriteRaw(i, []float64{float64(raw[i*4]), float64(raw[i*4+1]), float64(raw[i*4+2]), float64(raw[i*4+3])})
	}
	a := d.CreateAccessor(name)
	a.SetArray(arr)
	return a
}
