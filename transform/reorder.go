package transform

import (
	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/document"
)

// MeshoptEncoder is the injected boundary to an external vertex-cache
// optimizer (spec §6 "Injected dependencies": meshopt.encoder). This
// package never links a native or cgo meshoptimizer binding directly — the
// caller supplies one.
type MeshoptEncoder interface {
	// OptimizeVertexCache returns a reordering of indices (same length,
	// same index values, permuted) that improves GPU post-transform
	// vertex-cache hit rate for a mesh of vertexCount distinct vertices.
	OptimizeVertexCache(indices []uint32, vertexCount int) []uint32
}

// ReorderConfig configures Reorder (spec §4.H "reorder").
type ReorderConfig struct {
	Encoder MeshoptEncoder
}

// Reorder improves vertex-cache locality on every indexed primitive: the
// injected encoder computes a better index order, then vertices (every
// bound attribute, including morph targets) are rewritten into
// first-referenced order, so each vertex's new index is the rank of its
// first use in the optimized index buffer, and vertices no index
// references are dropped (spec §4.H). An accessor shared by more than one primitive is
// cloned before being rewritten, since reordering is destructive to the
// accessor's contents and siblings must keep seeing their own data.
func Reorder(cfg ReorderConfig) document.Transform {
	return document.Transform{
		Name: "reorder",
		Run: func(d *document.Document) error {
			if cfg.Encoder == nil {
				return dependencyMissing("meshopt.encoder")
			}
			sharers := accessorSharers(d)
			for _, mesh := range d.Root().ListMeshes() {
				for _, prim := range mesh.ListPrimitives() {
					if err := reorderPrimitive(d, prim, cfg.Encoder, sharers); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

// accessorSharers counts, for every accessor, how many primitive
// attribute/indices edges reference it, so reorderPrimitive knows when a
// clone is required before an in-place rewrite.
func accessorSharers(d *document.Document) map[*document.Accessor]int {
	counts := make(map[*document.Accessor]int)
	for _, mesh := range d.Root().ListMeshes() {
		for _, prim := range mesh.ListPrimitives() {
			for _, sem := range prim.ListSemantics() {
				if a := prim.GetAttribute(sem); a != nil {
					counts[a]++
				}
			}
			if a := prim.Indices(); a != nil {
				counts[a]++
			}
			for ti := 0; ti < prim.MorphTargetCount(); ti++ {
				for _, sem := range prim.MorphTargetSemantics(ti) {
					if a := prim.GetMorphTarget(ti, sem); a != nil {
						counts[a]++
					}
				}
			}
		}
	}
	return counts
}

func reorderPrimitive(d *document.Document, prim *document.Primitive, enc MeshoptEncoder, sharers map[*document.Accessor]int) error {
	idxAcc := prim.Indices()
	posAcc := prim.GetAttribute("POSITION")
	if idxAcc == nil || posAcc == nil {
		return nil
	}

	indices := readIndices(idxAcc)
	vertexCount := posAcc.Count()
	newOrder := enc.OptimizeVertexCache(indices, vertexCount)
	if len(newOrder) != len(indices) {
		return validationErrorf("reorder: encoder returned %d indices, want %d", len(newOrder), len(indices))
	}

	remap := make([]int, vertexCount)
	for i := range remap {
		remap[i] = -1
	}
	next := 0
	remapped := make([]uint32, len(newOrder))
	for i, orig := range newOrder {
		if remap[orig] == -1 {
			remap[orig] = next
			next++
		}
		remapped[i] = uint32(remap[orig])
	}
	// Vertices the index buffer never references keep remap == -1 and are
	// dropped rather than permuted: permuteAccessor sizes its output to
	// next, the count of distinct referenced vertices.
	usedCount := next

	for _, sem := range prim.ListSemantics() {
		a := prim.GetAttribute(sem)
		if a == nil {
			continue
		}
		target := cloneIfShared(d, a, sharers)
		permuteAccessor(target, remap, usedCount)
		if target != a {
			prim.SetAttribute(sem, target)
		}
	}

	for ti := 0; ti < prim.MorphTargetCount(); ti++ {
		for _, sem := range prim.MorphTargetSemantics(ti) {
			a := prim.GetMorphTarget(ti, sem)
			if a == nil {
				continue
			}
			target := cloneIfShared(d, a, sharers)
			permuteAccessor(target, remap, usedCount)
			if target != a {
				prim.SetMorphTarget(ti, sem, target)
			}
		}
	}

	newIdx := cloneIfShared(d, idxAcc, sharers)
	writeIndices(newIdx, remapped)
	if newIdx != idxAcc {
		prim.SetIndices(newIdx)
	}
	return nil
}

func cloneIfShared(d *document.Document, a *document.Accessor, sharers map[*document.Accessor]int) *document.Accessor {
	if sharers[a] <= 1 {
		return a
	}
	na := d.CreateAccessor(a.Name)
	na.SetArray(a.Typed().Base.Clone())
	sharers[a]--
	sharers[na] = 1
	return na
}

// permuteAccessor rewrites a's contents so that the vertex previously at
// index i is now at index remap[i], for every i with remap[i] >= 0.
// Vertices with remap[i] == -1 (never referenced by the index buffer) are
// dropped; outCount is the number of distinct referenced vertices.
func permuteAccessor(a *document.Accessor, remap []int, outCount int) {
	t := a.Typed()
	src := t.Materialize()
	out := accessor.NewArray(src.Component, src.Element, src.Normalized, outCount)
	for i, dst := range remap {
		if dst < 0 {
			continue
		}
		out.WriteRaw(dst, src.ReadRaw(i))
	}
	a.SetArray(out)
}

func readIndices(a *document.Accessor) []uint32 {
	t := a.Typed()
	n := t.Count()
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = uint32(t.ReadRaw(i)[0])
	}
	return out
}

func writeIndices(a *document.Accessor, vals []uint32) {
	storage := accessor.UnsignedInt
	if len(vals) > 0 {
		max := uint32(0)
		for _, v := range vals {
			if v > max {
				max = v
			}
		}
		storage = smallestIndexType(int(max))
	}
	arr := accessor.NewArray(storage, accessor.SCALAR, false, len(vals))
	for i, v := range vals {
		arr.WriteRaw(i, []float64{float64(v)})
	}
	a.SetArray(arr)
}
