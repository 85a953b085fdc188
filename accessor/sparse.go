package accessor

import "sort"

// Sparse is the (indices, values) overlay of a sparse accessor. Indices are
// kept sorted ascending so element reads can binary-search them, as spec
// §4.D requires.
type Sparse struct {
	Indices *Array // unsigned component type, SCALAR
	Values  *Array // same component/element as the dense base
}

// find returns the position within Values for dense index i, if present.
func (s *Sparse) find(i int) (int, bool) {
	n := s.Indices.Count
	pos := sort.Search(n, func(k int) bool {
		return int(s.Indices.ReadRaw(k)[0]) >= i
	})
	if pos < n && int(s.Indices.ReadRaw(pos)[0]) == i {
		return pos, true
	}
	return 0, false
}

// Typed pairs a dense base array with an optional sparse overlay, matching
// an accessor's actual storage shape.
type Typed struct {
	Base   *Array
	Sparse *Sparse
}

// Count is the accessor's element count.
func (t *Typed) Count() int { return t.Base.Count }

// ReadRaw reads element i, substituting the sparse overlay's value when
// present.
func (t *Typed) ReadRaw(i int) []float64 {
	if t.Sparse != nil {
		if pos, ok := t.Sparse.find(i); ok {
			return t.Sparse.Values.ReadRaw(pos)
		}
	}
	return t.Base.ReadRaw(i)
}

// ReadNormalized is ReadRaw's normalized counterpart.
func (t *Typed) ReadNormalized(i int) []float64 {
	if t.Sparse != nil {
		if pos, ok := t.Sparse.find(i); ok {
			return t.Sparse.Values.ReadNormalized(pos)
		}
	}
	return t.Base.ReadNormalized(i)
}

// Materialize expands a sparse accessor into a fully dense array, applying
// every overlaid value onto a copy of the base.
func (t *Typed) Materialize() *Array {
	dense := t.Base.Clone()
	if t.Sparse == nil {
		return dense
	}
	for pos := 0; pos < t.Sparse.Indices.Count; pos++ {
		idx := int(t.Sparse.Indices.ReadRaw(pos)[0])
		dense.WriteRaw(idx, t.Sparse.Values.ReadRaw(pos))
	}
	return dense
}

// MinMax and MinMaxNormalized operate over the materialized (dense) view so
// sparse overlays are reflected in the bounds.
func (t *Typed) MinMax() (min, max []float64)           { return t.Materialize().MinMax() }
func (t *Typed) MinMaxNormalized() (min, max []float64) { return t.Materialize().MinMaxNormalized() }
