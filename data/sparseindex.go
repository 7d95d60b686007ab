package data

// SparseIndex is the mixed-role index table S from spec §3: its first M
// entries are cumulative end-offsets per material, and the remainder are
// per-material element indices into the global E axis. The layout is
// load-bearing (existing callers address it this way), so it is preserved
// exactly rather than split into two separate sequences.
type SparseIndex struct {
	S []int
	M int
}

// NewSparseIndex wraps a raw S table of the given material count.
func NewSparseIndex(s []int, m int) SparseIndex {
	return SparseIndex{S: s, M: m}
}

// OffsetStart returns the start offset of material m's index run within
// S: M for m==0, S[m-1] otherwise.
func (si SparseIndex) OffsetStart(m int) int {
	if m == 0 {
		return si.M
	}
	return si.S[m-1]
}

// ElemCount returns E_m, the number of active elements in material m.
func (si SparseIndex) ElemCount(m int) int {
	return si.S[m] - si.OffsetStart(m)
}

// ElementAt returns the element index (position in the global E axis)
// that dense position k maps to for material m.
func (si SparseIndex) ElementAt(m, k int) int {
	return si.S[si.OffsetStart(m)+k]
}
