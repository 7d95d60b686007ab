package data

// PackIJ gathers material m's active elements from a block tensor's
// (qpt,elem) slice (length E*Q, qpt innermost) into a dense buffer
// (length E_m*Q, qpt innermost, k in place of elem), for a single input
// feature. It is a sequential loop over k in every memory space; there is
// no separate device-parallel path. Call sites with more than one input
// feature call this once per feature (spec's "generalises over one or
// more input tensors").
func PackIJ(si SparseIndex, m, q, em int, src []float64, dst []float64) {
	for k := 0; k < em; k++ {
		e := si.ElementAt(m, k)
		srcBase := e * q
		dstBase := k * q
		copy(dst[dstBase:dstBase+q], src[srcBase:srcBase+q])
	}
}

// UnpackIJ is PackIJ's inverse: it scatters a dense output buffer (length
// E_m*Q) back into the block tensor's (qpt,elem) slice for material m.
// Like PackIJ, it is a sequential loop over k with no device-parallel path.
func UnpackIJ(si SparseIndex, m, q, em int, src []float64, dst []float64) {
	for k := 0; k < em; k++ {
		e := si.ElementAt(m, k)
		srcBase := k * q
		dstBase := e * q
		copy(dst[dstBase:dstBase+q], src[srcBase:srcBase+q])
	}
}
