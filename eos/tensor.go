package eos

import "fmt"

// BlockTensor is a logically Q x E x M array of V (float64), stored so
// that the (qpt, elem) slice of a given material is contiguous with qpt
// innermost, then elem; the mat axis is outermost and addressable as a
// slice per material (spec §3).
type BlockTensor struct {
	data []float64
	q, e, m int
}

// NewBlockTensor allocates a zeroed block tensor of the given shape.
func NewBlockTensor(q, e, m int) BlockTensor {
	return BlockTensor{data: make([]float64, q*e*m), q: q, e: e, m: m}
}

// WrapBlockTensor wraps caller-owned backing storage as a block tensor.
// The core never reallocates or takes ownership of it (spec §3's
// lifecycle rule: block tensors are owned by the caller).
func WrapBlockTensor(backing []float64, q, e, m int) (BlockTensor, error) {
	if len(backing) != q*e*m {
		return BlockTensor{}, fmt.Errorf("eos: block tensor backing has %d elements, want %d (q=%d*e=%d*m=%d)", len(backing), q*e*m, q, e, m)
	}
	return BlockTensor{data: backing, q: q, e: e, m: m}, nil
}

// MaterialSlice returns the length-E*Q slice for material m, laid out
// with qpt innermost: index(q, e) = e*Q + q.
func (t BlockTensor) MaterialSlice(m int) []float64 {
	q, e := t.q, t.e
	return t.data[m*e*q : (m+1)*e*q]
}

// Raw returns the full underlying backing slice.
func (t BlockTensor) Raw() []float64 { return t.data }

// Shape returns (Q, E, M).
func (t BlockTensor) Shape() (int, int, int) { return t.q, t.e, t.m }
