package accessor

import "testing"

func TestRawRoundTrip(t *testing.T) {
	a := NewArray(Float, VEC3, false, 2)
	a.WriteRaw(0, []float64{1, 2, 3})
	a.WriteRaw(1, []float64{-4, 5.5, 6})

	got := a.ReadRaw(0)
	want := []float64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("element 0: got %v want %v", got, want)
		}
	}
}

func TestNormalizedUnsignedByte(t *testing.T) {
	a := NewArray(UnsignedByte, SCALAR, true, 1)
	a.WriteNormalized(0, []float64{1.0})
	raw := a.ReadRaw(0)
	if raw[0] != 255 {
		t.Fatalf("expected raw 255, got %v", raw[0])
	}
	norm := a.ReadNormalized(0)
	if norm[0] != 1.0 {
		t.Fatalf("expected normalized 1.0, got %v", norm[0])
	}
}

func TestNormalizedSignedByte(t *testing.T) {
	a := NewArray(Byte, SCALAR, true, 1)
	a.WriteNormalized(0, []float64{-1.0})
	got := a.ReadNormalized(0)
	if got[0] != -1.0 {
		t.Fatalf("expected -1.0, got %v", got[0])
	}
}

func TestSparseOverlay(t *testing.T) {
	base := NewArray(Float, VEC3, false, 4)
	for i := 0; i < 4; i++ {
		base.WriteRaw(i, []float64{0, 0, 0})
	}
	indices := NewArray(UnsignedShort, SCALAR, false, 2)
	indices.WriteRaw(0, []float64{1})
	indices.WriteRaw(1, []float64{3})
	values := NewArray(Float, VEC3, false, 2)
	values.WriteRaw(0, []float64{1, 1, 1})
	values.WriteRaw(1, []float64{2, 2, 2})

	typed := &Typed{Base: base, Sparse: &Sparse{Indices: indices, Values: values}}

	if got := typed.ReadRaw(0); got[0] != 0 {
		t.Fatalf("index 0 should be base value, got %v", got)
	}
	if got := typed.ReadRaw(1); got[0] != 1 {
		t.Fatalf("index 1 should be overlaid, got %v", got)
	}
	if got := typed.ReadRaw(3); got[0] != 2 {
		t.Fatalf("index 3 should be overlaid, got %v", got)
	}

	dense := typed.Materialize()
	if dense.Count != 4 {
		t.Fatalf("materialize should keep count, got %d", dense.Count)
	}
}

func TestDequantizePreservesNormalizedSemantics(t *testing.T) {
	a := NewArray(UnsignedShort, VEC2, true, 1)
	a.WriteNormalized(0, []float64{0.5, 1.0})
	deq := Dequantize(a)
	got := deq.ReadRaw(0)
	if got[0] < 0.49 || got[0] > 0.51 {
		t.Fatalf("expected ~0.5, got %v", got[0])
	}
	if got[1] != 1.0 {
		t.Fatalf("expected 1.0, got %v", got[1])
	}
}

func TestMinMax(t *testing.T) {
	a := NewArray(Float, VEC3, false, 3)
	a.WriteRaw(0, []float64{0, 0, 0})
	a.WriteRaw(1, []float64{50, 10, -5})
	a.WriteRaw(2, []float64{25, 50, 5})

	min, max := a.MinMax()
	if min[0] != 0 || max[0] != 50 {
		t.Fatalf("x bounds wrong: min=%v max=%v", min, max)
	}
	if min[2] != -5 || max[2] != 5 {
		t.Fatalf("z bounds wrong: min=%v max=%v", min, max)
	}
}
