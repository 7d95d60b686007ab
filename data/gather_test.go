package data

import "testing"

func TestPackIJ_GathersMaterialsActiveElements(t *testing.T) {
	si := twoMaterialIndex() // material 0 -> elem 0, material 1 -> elems 1,2
	q := 2
	// E=3 elements, Q=2 qpts, row-major (qpt innermost).
	src := []float64{
		0, 1, // elem 0
		10, 11, // elem 1
		20, 21, // elem 2
	}

	dst := make([]float64, si.ElemCount(1)*q)
	PackIJ(si, 1, q, si.ElemCount(1), src, dst)

	want := []float64{10, 11, 20, 21}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestPackIJ_SingleElementMaterial(t *testing.T) {
	si := twoMaterialIndex()
	q := 2
	src := []float64{0, 1, 10, 11, 20, 21}

	dst := make([]float64, si.ElemCount(0)*q)
	PackIJ(si, 0, q, si.ElemCount(0), src, dst)

	want := []float64{0, 1}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestUnpackIJ_RoundTrip(t *testing.T) {
	si := twoMaterialIndex()
	q := 2
	em := si.ElemCount(1)
	dense := []float64{100, 101, 200, 201}

	dst := make([]float64, 3*q)
	for i := range dst {
		dst[i] = -1
	}
	UnpackIJ(si, 1, q, em, dense, dst)

	want := []float64{-1, -1, 100, 101, 200, 201}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestPackUnpackIJ_Inverse(t *testing.T) {
	si := twoMaterialIndex()
	q := 2
	em := si.ElemCount(1)
	src := []float64{0, 1, 10, 11, 20, 21}

	dense := make([]float64, em*q)
	PackIJ(si, 1, q, em, src, dense)

	dst := make([]float64, len(src))
	UnpackIJ(si, 1, q, em, dense, dst)

	if dst[2] != src[2] || dst[3] != src[3] || dst[4] != src[4] || dst[5] != src[5] {
		t.Errorf("round trip mismatch: %v vs %v", dst, src)
	}
}
