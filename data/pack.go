package data

import (
	"fmt"

	"github.com/ams-eos/ams-eos-core/devicectx"
)

// ErrFeatureCountMismatch is the fatal argument-shape-mismatch error
// (spec §7 kind 1): pack/unpack's sparse and dense feature-count arguments
// disagree.
type ErrFeatureCountMismatch struct {
	Op       string
	NSparse  int
	NDense   int
}

func (e *ErrFeatureCountMismatch) Error() string {
	return fmt.Sprintf("data: %s: sparse feature count %d != dense feature count %d", e.Op, e.NSparse, e.NDense)
}

// Pack is variant 1 (predicate-preserving): for each i in [0,n) where
// predicate[i] == denseVal, it copies sparse[d][i] into dense[d][npacked]
// for every feature d, in ascending i order, and returns npacked. The
// caller must re-present the same predicate at Unpack time.
func Pack(ctx *devicectx.Context, predicate []bool, n int, denseVal bool, sparse [][]float64, dense [][]float64) (int, error) {
	if len(sparse) != len(dense) {
		return 0, &ErrFeatureCountMismatch{Op: "pack", NSparse: len(sparse), NDense: len(dense)}
	}
	if ctx.IsDevice() {
		return devicectx.PackKernel(predicate[:n], denseVal, sliceN(sparse, n), dense, nil), nil
	}
	npacked := 0
	for i := 0; i < n; i++ {
		if predicate[i] != denseVal {
			continue
		}
		for d := range sparse {
			dense[d][npacked] = sparse[d][i]
		}
		npacked++
	}
	return npacked, nil
}

// Unpack is variant 1's inverse: it walks i and a running npacked in
// lockstep, writing sparse[d][i] = dense[d][npacked] (then advancing
// npacked) only where predicate[i] == denseVal. Positions where the
// predicate does not match denseVal are left untouched.
func Unpack(ctx *devicectx.Context, predicate []bool, n int, denseVal bool, dense [][]float64, sparse [][]float64) error {
	if len(sparse) != len(dense) {
		return &ErrFeatureCountMismatch{Op: "unpack", NSparse: len(sparse), NDense: len(dense)}
	}
	if ctx.IsDevice() {
		devicectx.UnpackKernel(predicate[:n], denseVal, dense, sliceN(sparse, n))
		return nil
	}
	npacked := 0
	for i := 0; i < n; i++ {
		if predicate[i] != denseVal {
			continue
		}
		for d := range sparse {
			sparse[d][i] = dense[d][npacked]
		}
		npacked++
	}
	return nil
}

// PackIndexed is variant 2 (index-materialising): same compaction as
// Pack, but additionally records indices[npacked] = i, so UnpackIndexed
// can scatter back without the predicate later in hand.
func PackIndexed(ctx *devicectx.Context, predicate []bool, n int, denseVal bool, sparse [][]float64, dense [][]float64, indices []int) (int, error) {
	if len(sparse) != len(dense) {
		return 0, &ErrFeatureCountMismatch{Op: "pack_indexed", NSparse: len(sparse), NDense: len(dense)}
	}
	if ctx.IsDevice() {
		return devicectx.PackKernel(predicate[:n], denseVal, sliceN(sparse, n), dense, indices), nil
	}
	npacked := 0
	for i := 0; i < n; i++ {
		if predicate[i] != denseVal {
			continue
		}
		for d := range sparse {
			dense[d][npacked] = sparse[d][i]
		}
		indices[npacked] = i
		npacked++
	}
	return npacked, nil
}

// UnpackIndexed consults only indices (length npacked), not the
// predicate — required whenever the dense buffer has been transformed
// out-of-place between Pack and Unpack, or the predicate has drifted.
func UnpackIndexed(ctx *devicectx.Context, indices []int, npacked int, dense [][]float64, sparse [][]float64) error {
	if len(sparse) != len(dense) {
		return &ErrFeatureCountMismatch{Op: "unpack_indexed", NSparse: len(sparse), NDense: len(dense)}
	}
	idx := indices[:npacked]
	for d := range sparse {
		if ctx.IsDevice() {
			devicectx.UnpackIndexedKernel(idx, dense[d], sparse[d])
			continue
		}
		for slot, i := range idx {
			sparse[d][i] = dense[d][slot]
		}
	}
	return nil
}

func sliceN(cols [][]float64, n int) [][]float64 {
	out := make([][]float64, len(cols))
	for i, c := range cols {
		out[i] = c[:n]
	}
	return out
}
