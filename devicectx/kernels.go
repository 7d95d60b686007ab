package devicectx

// The device-side companions of the data handler's linearize/pack/unpack
// operations (spec §4.C). PackKernel is algorithmically distinct from the
// host sequential-scan version: a prefix-sum compaction rather than a
// plain scan, matching the data-parallel shape a real accelerator kernel
// would take. The unpack kernels are plain scans. No accelerator backend is in scope here (the EOS/surrogate/UQ
// collaborators are the only components that would actually run on
// device hardware); these run on the host but preserve the kernel
// boundary and ordering guarantee so callers can be swapped for a real
// backend without changing the data handler's contract.

// LinearizeKernel writes out[i*len(features)+d] = features[d][i] for all
// i, d. Mirrors Device::linearize.
func LinearizeKernel(out []float64, features [][]float64) {
	f := len(features)
	for d, col := range features {
		for i, v := range col {
			out[i*f+d] = v
		}
	}
}

// PackKernel performs a prefix-sum stream compaction: it first computes,
// for every i, the number of accepted samples strictly before i (the
// exclusive prefix sum of the predicate-match indicator), then scatters
// each accepted sample directly to its destination slot. This is the
// shape a SIMD/GPU compaction kernel takes, as opposed to the host's
// single sequential scan. Returns the total packed count.
func PackKernel(predicate []bool, denseVal bool, sparse [][]float64, dense [][]float64, indices []int) int {
	n := len(predicate)
	prefix := make([]int, n+1)
	for i := 0; i < n; i++ {
		prefix[i+1] = prefix[i]
		if predicate[i] == denseVal {
			prefix[i+1]++
		}
	}
	for i := 0; i < n; i++ {
		if predicate[i] != denseVal {
			continue
		}
		slot := prefix[i]
		for d := range sparse {
			dense[d][slot] = sparse[d][i]
		}
		if indices != nil {
			indices[slot] = i
		}
	}
	return prefix[n]
}

// UnpackKernel is the inverse: it walks predicate in ascending i with a
// running slot counter, so each accepted i is fed by the same dense slot
// PackKernel's prefix sum assigned it.
func UnpackKernel(predicate []bool, denseVal bool, dense [][]float64, sparse [][]float64) {
	n := len(predicate)
	slot := 0
	for i := 0; i < n; i++ {
		if predicate[i] != denseVal {
			continue
		}
		for d := range sparse {
			sparse[d][i] = dense[d][slot]
		}
		slot++
	}
}

// UnpackIndexedKernel consults only the materialized index table (variant
// 2), not the predicate, matching the device preference noted in the
// design notes to avoid re-scanning the predicate.
func UnpackIndexedKernel(indices []int, dense []float64, sparse []float64) {
	for slot, i := range indices {
		sparse[i] = dense[slot]
	}
}
