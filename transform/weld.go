package transform

import (
	"bytes"
	"encoding/binary"

	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/document"
)

// WeldConfig configures Weld (spec §4.H supplement: meshopt's
// complementary "weld" step, always paired with reorder in practice since
// reordering only pays off once duplicate vertices have been merged).
type WeldConfig struct {
	// Types restricts welding to these mesh names; empty welds every mesh.
	Types []string
}

// Weld merges vertices that agree on every bound attribute (bit-for-bit)
// into one, rewriting the index buffer to reference the merged set. Unlike
// Reorder this needs no injected encoder — exact-match welding is a pure
// function of the attribute data already in the document.
func Weld(cfg WeldConfig) document.Transform {
	return document.Transform{
		Name: "weld",
		Run: func(d *document.Document) error {
			for _, mesh := range d.Root().ListMeshes() {
				if len(cfg.Types) > 0 && !containsStr(cfg.Types, mesh.Name) {
					continue
				}
				for _, prim := range mesh.ListPrimitives() {
					weldPrimitive(d, prim)
				}
			}
			return nil
		},
	}
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func weldPrimitive(d *document.Document, prim *document.Primitive) {
	pos := prim.GetAttribute("POSITION")
	if pos == nil {
		return
	}
	n := pos.Count()

	semantics := prim.ListSemantics()
	arrays := make(map[string]*accessor.Array, len(semantics))
	for _, sem := range semantics {
		if a := prim.GetAttribute(sem); a != nil {
			arrays[sem] = a.Typed().Materialize()
		}
	}

	seen := make(map[string]int, n)
	remap := make([]int, n)
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		key := vertexKey(semantics, arrays, i)
		if j, ok := seen[key]; ok {
			remap[i] = j
			continue
		}
		j := len(order)
		seen[key] = j
		order = append(order, i)
		remap[i] = j
	}

	if len(order) == n {
		return // nothing duplicated
	}

	for _, sem := range semantics {
		a := prim.GetAttribute(sem)
		if a == nil {
			continue
		}
		src := arrays[sem]
		out := accessor.NewArray(src.Component, src.Element, src.Normalized, len(order))
		for newIdx, oldIdx := range order {
			out.WriteRaw(newIdx, src.ReadRaw(oldIdx))
		}
		a.SetArray(out)
	}

	if idx := prim.Indices(); idx != nil {
		remapIndices(idx, remap)
	} else {
		newIdx := smallestIndexType(len(order) - 1)
		arr := accessor.NewArray(newIdx, accessor.SCALAR, false, n)
		for i := 0; i < n; i++ {
			arr.WriteRaw(i, []float64{float64(remap[i])})
		}
		a := d.CreateAccessor("weldedIndices")
		a.SetArray(arr)
		prim.SetIndices(a)
	}
}

func remapIndices(a *document.Accessor, remap []int) {
	t := a.Typed()
	n := t.Count()
	vals := make([]float64, n)
	maxVal := 0
	for i := 0; i < n; i++ {
		orig := int(t.ReadRaw(i)[0])
		newVal := remap[orig]
		vals[i] = float64(newVal)
		if newVal > maxVal {
			maxVal = newVal
		}
	}
	storage := smallestIndexType(maxVal)
	out := accessor.NewArray(storage, accessor.SCALAR, false, n)
	for i, v := range vals {
		out.WriteRaw(i, []float64{v})
	}
	a.SetArray(out)
}

// vertexKey builds an exact-match identity for vertex i out of every bound
// attribute's raw bytes; two vertices weld together only if every
// attribute they carry agrees exactly.
func vertexKey(semantics []string, arrays map[string]*accessor.Array, i int) string {
	var buf bytes.Buffer
	for _, sem := range semantics {
		a, ok := arrays[sem]
		if !ok {
			continue
		}
		buf.WriteString(sem)
		buf.WriteByte(':')
		for _, v := range a.ReadRaw(i) {
			binary.Write(&buf, binary.LittleEndian, v)
		}
	}
	return buf.String()
}
