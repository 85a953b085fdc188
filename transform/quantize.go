package transform

import (
	"strings"

	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/document"
	"github.com/mrigankad/gltfkit/ext"
	gmath "github.com/mrigankad/gltfkit/math"
)

// QuantizeConfig maps an attribute semantic prefix ("POSITION", "NORMAL",
// "TEXCOORD", "COLOR", "JOINTS") to the bit depth to quantize it to (spec
// §4.D); 0 or an absent entry leaves that semantic untouched.
type QuantizeConfig struct {
	Bits map[string]int
}

func (c QuantizeConfig) bitsFor(semantic string) (int, bool) {
	prefix := semantic
	if i := strings.IndexByte(semantic, '_'); i >= 0 {
		prefix = semantic[:i]
	}
	b, ok := c.Bits[prefix]
	return b, ok && b > 0
}

// Quantize remaps Float32 attribute accessors to bounded integer storage
// (spec §4.D): POSITION is remapped into [-1,1] per-axis with the bias and
// scale compensated by a wrapping node transform inserted on every node
// that references the owning mesh; NORMAL/TANGENT are unit-vector encoded;
// TEXCOORD/COLOR are normalized into their usual ranges; JOINTS is narrowed
// to the smallest integer type holding the observed maximum index. It
// records KHR_mesh_quantization as used once any accessor is actually
// requantized.
func Quantize(cfg QuantizeConfig) document.Transform {
	return document.Transform{
		Name: "quantize",
		Run: func(d *document.Document) error {
			quantized := false
			for _, mesh := range d.Root().ListMeshes() {
				for _, prim := range mesh.ListPrimitives() {
					for _, sem := range prim.ListSemantics() {
						bits, ok := cfg.bitsFor(sem)
						if !ok {
							continue
						}
						a := prim.GetAttribute(sem)
						if a == nil || hasModifyChildParent(d, a) {
							continue
						}
						var err error
						switch {
						case sem == "POSITION":
							err = quantizePosition(d, mesh, a, bits)
						case sem == "NORMAL" || sem == "TANGENT":
							err = quantizeUnitVector(a, bits)
						case strings.HasPrefix(sem, "TEXCOORD"):
							err = quantizeUnsignedNormalized(a, bits)
						case strings.HasPrefix(sem, "COLOR"):
							err = quantizeUnsignedNormalized(a, bits)
						case strings.HasPrefix(sem, "JOINTS"):
							err = narrowJoints(a)
						default:
							d.Logger().Warnf("quantize: %s has no quantization rule, skipping", sem)
							continue
						}
						if err != nil {
							d.Logger().Warnf("quantize: %s: %v", sem, err)
							continue
						}
						quantized = true
					}
				}
			}
			if quantized {
				if _, err := d.CreateExtension(ext.NameMeshQuantization); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// quantizePosition computes the AABB of this POSITION accessor alone,
// remaps it into [-1,1] per axis, and inserts the compensating
// scale+translation into every node referencing the mesh so world-space
// coordinates are preserved (spec §4.D, §8 scenario 4).
func quantizePosition(d *document.Document, mesh *document.Mesh, a *document.Accessor, bits int) error {
	t := a.Typed()
	min, max := t.MinMax()
	if len(min) != 3 {
		return validationErrorf("POSITION accessor is not VEC3")
	}

	center := [3]float64{(min[0] + max[0]) / 2, (min[1] + max[1]) / 2, (min[2] + max[2]) / 2}
	extent := [3]float64{(max[0] - min[0]) / 2, (max[1] - min[1]) / 2, (max[2] - min[2]) / 2}
	for i := range extent {
		if extent[i] == 0 {
			extent[i] = 1
		}
	}

	storage := accessor.StorageFor(bits, true)
	n := t.Count()
	out := accessor.NewArray(storage, accessor.VEC3, true, n)
	for i := 0; i < n; i++ {
		v := t.ReadRaw(i)
		raw := make([]float64, 3)
		for k := 0; k < 3; k++ {
			unit := (v[k] - center[k]) / extent[k]
			raw[k] = accessor.QuantizeUnitFloat(unit, -1, 1, storage)
		}
		out.WriteRaw(i, raw)
	}
	a.SetArray(out)

	scale := gmath.Vec3{X: float32(extent[0]), Y: float32(extent[1]), Z: float32(extent[2])}
	translation := gmath.Vec3{X: float32(center[0]), Y: float32(center[1]), Z: float32(center[2])}
	for _, node := range d.Root().ListNodes() {
		if node.Mesh() != mesh {
			continue
		}
		wrapQuantizedNode(d, node, translation, scale)
	}
	return nil
}

// wrapQuantizedNode folds the quantization compensation into the
// mesh-bearing node's local transform by composing it with the existing
// TRS: new_local = existing_local ∘ Mat4TRS(translation, identity, scale),
// decomposed back into TRS so LocalMatrix stays exact. When node has
// children, folding the compensation into node itself would also rescale
// those children's world transforms (they inherit node's local matrix), so
// instead a new child node is inserted between node and its mesh: the
// compensation lands on the child, node's own TRS and its other children
// are left untouched.
func wrapQuantizedNode(d *document.Document, node *document.Node, translation, scale gmath.Vec3) {
	compensation := gmath.Mat4FromTRS(translation, gmath.QuaternionIdentity(), scale)
	if len(node.ListChildren()) == 0 {
		combined := node.LocalMatrix().Mul(compensation)
		node.SetMatrix(combined)
		return
	}
	wrapper := d.CreateNode(node.Name + "_quantized")
	wrapper.SetMatrix(compensation)
	wrapper.SetMesh(node.Mesh())
	node.SetMesh(nil)
	node.AddChild(wrapper)
}

func quantizeUnitVector(a *document.Accessor, bits int) error {
	t := a.Typed()
	storage := accessor.StorageFor(bits, true)
	n := t.Count()
	elems := t.Base.Components()
	out := accessor.NewArray(storage, t.Base.Element, true, n)
	for i := 0; i < n; i++ {
		v := t.ReadRaw(i)
		norm := make([]float64, elems)
		for k := range v {
			norm[k] = accessor.EncodeUnitVector(v[k])
		}
		out.WriteNormalized(i, norm)
	}
	a.SetArray(out)
	return nil
}

func quantizeUnsignedNormalized(a *document.Accessor, bits int) error {
	t := a.Typed()
	storage := accessor.StorageFor(bits, false)
	n := t.Count()
	elems := t.Base.Components()
	out := accessor.NewArray(storage, t.Base.Element, true, n)
	for i := 0; i < n; i++ {
		v := t.ReadRaw(i)
		raw := make([]float64, elems)
		for k := range v {
			raw[k] = accessor.QuantizeUnitFloat(v[k], 0, 1, storage)
		}
		out.WriteRaw(i, raw)
	}
	a.SetArray(out)
	return nil
}

// narrowJoints rewrites a JOINTS_n accessor to the smallest unsigned
// integer component type holding its observed maximum index (spec §4.D).
func narrowJoints(a *document.Accessor) error {
	t := a.Typed()
	_, max := t.MinMax()
	maxIndex := 0
	for _, v := range max {
		if int(v) > maxIndex {
			maxIndex = int(v)
		}
	}
	storage := accessor.SmallestJointIndexType(maxIndex)
	if storage == a.ComponentType() {
		return nil
	}
	n := t.Count()
	out := accessor.NewArray(storage, t.Base.Element, false, n)
	for i := 0; i < n; i++ {
		out.WriteRaw(i, t.ReadRaw(i))
	}
	a.SetArray(out)
	return nil
}
