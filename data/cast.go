// Package data implements the data handler: type casting, feature
// linearization, the two predicate-driven pack/unpack variants, the
// material-sparse<->dense gather/scatter, and partition sizing.
package data

import (
	"github.com/ams-eos/ams-eos-core/devicectx"
	"github.com/ams-eos/ams-eos-core/resource"
)

// Numeric is the set of raw tensor element types CastTo/CastFrom can
// convert to and from V (float64). Mesh inputs are not always already in
// the evaluator's working precision.
type Numeric interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// CastTo returns a []float64 view of src. If T is already float64 it
// returns src unchanged (no allocation occurs — NewAllocation reports
// false); otherwise it allocates n float64s through mgr and casts
// element-wise (NewAllocation reports true). Callers must check
// NewAllocation before releasing the returned buffer: only a
// newly-allocated buffer is theirs to return to mgr.
func CastTo[T Numeric](mgr *resource.Manager, ctx *devicectx.Context, src []T) (out []float64, newAllocation bool) {
	if v, ok := any(src).([]float64); ok {
		return v, false
	}
	n := len(src)
	dst, _ := mgr.AllocateFloatsIn(ctx.Space, n)
	for i, x := range src {
		dst[i] = float64(x)
	}
	return dst, true
}

// CastFrom casts src (V) element-wise into caller-owned dst.
func CastFrom[T Numeric](dst []T, src []float64) {
	for i, x := range src {
		dst[i] = T(x)
	}
}

// LinearizeFeatures allocates n*len(features) float64s through mgr and
// writes out[i*F+d] = features[d][i] (row-major, one row per sample). On
// device, the write is
// dispatched to devicectx.LinearizeKernel; on host it is a nested loop.
func LinearizeFeatures(mgr *resource.Manager, ctx *devicectx.Context, n int, features [][]float64) []float64 {
	f := len(features)
	out, _ := mgr.AllocateFloatsIn(ctx.Space, n*f)
	if ctx.IsDevice() {
		devicectx.LinearizeKernel(out, features)
		return out
	}
	for d, col := range features {
		for i := 0; i < n; i++ {
			out[i*f+d] = col[i]
		}
	}
	return out
}
