package document

import (
	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/graph"
)

const edgeAccessorBuffer = "buffer"

// Accessor is a typed, bounded view into a Buffer (spec §3). The typed-array
// arithmetic itself lives in package accessor; Accessor only adds graph
// identity and the owning-Buffer reference.
type Accessor struct {
	base
	extendable
	typed *accessor.Typed
}

func (a *Accessor) TypeName() string { return "Accessor" }

// SetArray installs the dense backing array (replacing any existing sparse
// overlay).
func (a *Accessor) SetArray(arr *accessor.Array) *Accessor {
	a.typed = &accessor.Typed{Base: arr}
	return a
}

// SetSparse installs a sparse overlay over the current dense base array.
func (a *Accessor) SetSparse(sparse *accessor.Sparse) *Accessor {
	if a.typed == nil {
		return a
	}
	a.typed.Sparse = sparse
	return a
}

// Typed exposes the underlying typed-array view for direct arithmetic.
func (a *Accessor) Typed() *accessor.Typed { return a.typed }

func (a *Accessor) ComponentType() accessor.ComponentType { return a.typed.Base.Component }
func (a *Accessor) ElementType() accessor.ElementType     { return a.typed.Base.Element }
func (a *Accessor) Normalized() bool                      { return a.typed.Base.Normalized }
func (a *Accessor) Count() int                            { return a.typed.Count() }
func (a *Accessor) IsSparse() bool                        { return a.typed.Sparse != nil }

// Buffer returns the accessor's owning buffer, if assigned.
func (a *Accessor) Buffer() *Buffer {
	return lookupSingleChild[*Buffer](a.doc, a.id, edgeAccessorBuffer)
}

func (a *Accessor) SetBuffer(b *Buffer) *Accessor {
	id, has := bufferID(b)
	replaceSingleChild(a.doc, a.id, edgeAccessorBuffer, id, has)
	return a
}

func bufferID(b *Buffer) (graph.ID, bool) {
	if b == nil {
		return 0, false
	}
	return b.id, true
}

// MinMax returns the accessor's per-component raw bounds. Min/max (raw and
// normalized) iterate the full array; the codec writes them only for
// POSITION by default, but the API returns them on demand (spec §4.D).
func (a *Accessor) MinMax() (min, max []float64) { return a.typed.MinMax() }

// MinMaxNormalized returns the accessor's per-component normalized bounds.
func (a *Accessor) MinMaxNormalized() (min, max []float64) { return a.typed.MinMaxNormalized() }

// Dispose detaches the accessor from Root; it does not own its Buffer.
func (a *Accessor) Dispose() { a.doc.g.Dispose(a.id, nil) }
