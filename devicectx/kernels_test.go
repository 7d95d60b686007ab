package devicectx

import (
	"reflect"
	"testing"
)

func TestLinearizeKernel(t *testing.T) {
	features := [][]float64{{1, 2, 3}, {10, 20, 30}}
	out := make([]float64, 3*2)
	LinearizeKernel(out, features)

	want := []float64{1, 10, 2, 20, 3, 30}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("LinearizeKernel() = %v, want %v", out, want)
	}
}

func TestPackKernel_OrderingAndCount(t *testing.T) {
	predicate := []bool{false, true, false, true, false}
	sparse := [][]float64{{0, 1, 2, 3, 4}}
	dense := [][]float64{make([]float64, 5)}
	indices := make([]int, 5)

	n := PackKernel(predicate, false, sparse, dense, indices)
	if n != 3 {
		t.Fatalf("packed count = %d, want 3", n)
	}
	if got := dense[0][:n]; !reflect.DeepEqual(got, []float64{0, 2, 4}) {
		t.Errorf("packed values = %v, want [0 2 4]", got)
	}
	if got := indices[:n]; !reflect.DeepEqual(got, []int{0, 2, 4}) {
		t.Errorf("packed indices = %v, want [0 2 4]", got)
	}
}

func TestUnpackKernel_RoundTrip(t *testing.T) {
	predicate := []bool{false, true, false, true}
	sparse := [][]float64{{9, 9, 9, 9}}
	dense := [][]float64{{100, 200}}

	UnpackKernel(predicate, false, dense, sparse)

	want := []float64{100, 9, 200, 9}
	if !reflect.DeepEqual(sparse[0], want) {
		t.Errorf("unpacked = %v, want %v", sparse[0], want)
	}
}

func TestUnpackIndexedKernel(t *testing.T) {
	dense := []float64{100, 200, 300}
	sparse := []float64{-1, -1, -1, -1, -1}
	indices := []int{1, 3, 4}

	UnpackIndexedKernel(indices, dense, sparse)

	want := []float64{-1, 100, -1, 200, 300}
	if !reflect.DeepEqual(sparse, want) {
		t.Errorf("sparse = %v, want %v", sparse, want)
	}
}
