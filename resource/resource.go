// Package resource implements the typed allocate/deallocate façade that
// every transient buffer in the evaluation core goes through, so that no
// component reaches for a raw system allocator directly.
package resource

import (
	"fmt"
	"sync"

	"github.com/ams-eos/ams-eos-core/devicectx"
)

// Manager allocates and releases V (float64) and int scratch buffers on a
// chosen memory space. It pools released buffers by capacity so a
// partition loop that allocates-then-frees the same sizes repeatedly
// (spec §4.F step 4b/h) does not pay an allocator round trip each
// iteration. Grounded on the bufferPool idiom used for work-buffer reuse
// in tensor computations, kept in manager-owned maps rather than a
// sync.Pool (see DESIGN.md).
type Manager struct {
	mu    sync.Mutex
	space devicectx.Space
	// pools buckets released float64 slices by capacity. A real device
	// backend would instead hand back a device allocation handle here;
	// host and device pools are kept separate so a host buffer is never
	// handed out for a device request or vice versa.
	floatPools [2]map[int][][]float64
	intPools   [2]map[int][][]int
	boolPools  [2]map[int][][]bool
}

// New returns a Manager whose default space is the process-wide default
// at construction time.
func New() *Manager {
	m := &Manager{space: devicectx.Space(0)}
	if devicectx.IsDeviceExecution() {
		m.space = devicectx.Device
	}
	m.floatPools = [2]map[int][][]float64{{}, {}}
	m.intPools = [2]map[int][][]int{{}, {}}
	m.boolPools = [2]map[int][][]bool{{}, {}}
	return m
}

// AllocateBools allocates n bools, zero-initialized (all-false), in the
// manager's default space. Per spec §9's resolved open question, a
// predicate buffer with no UQ cache backing it must read all-false
// (physics-fallback-everywhere), so every allocation here is pre-zeroed
// rather than left to whatever a pooled buffer last held.
func (m *Manager) AllocateBools(n int) []bool {
	return m.AllocateBoolsIn(m.space, n)
}

// AllocateBoolsIn allocates n bools explicitly in space, zero-initialized.
func (m *Manager) AllocateBoolsIn(space devicectx.Space, n int) []bool {
	if n == 0 {
		return nil
	}
	m.mu.Lock()
	bucket := m.boolPools[space]
	buf := popBoolBuf(bucket, n)
	m.mu.Unlock()
	if buf == nil {
		return make([]bool, n)
	}
	buf = buf[:n]
	MemsetBool(buf)
	return buf
}

// DeallocateBools returns buf to the pool for its space.
func (m *Manager) DeallocateBools(space devicectx.Space, buf []bool) {
	if cap(buf) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := cap(buf)
	m.boolPools[space][c] = append(m.boolPools[space][c], buf[:c])
}

func popBoolBuf(bucket map[int][][]bool, n int) []bool {
	for c, bufs := range bucket {
		if c < n || len(bufs) == 0 {
			continue
		}
		last := bufs[len(bufs)-1]
		bucket[c] = bufs[:len(bufs)-1]
		return last
	}
	return nil
}

// AllocateFloats allocates n float64s in the manager's default space.
func (m *Manager) AllocateFloats(n int) ([]float64, devicectx.Ptr) {
	return m.AllocateFloatsIn(m.space, n)
}

// AllocateFloatsIn allocates n float64s explicitly in space.
func (m *Manager) AllocateFloatsIn(space devicectx.Space, n int) ([]float64, devicectx.Ptr) {
	if n == 0 {
		return nil, devicectx.NewPtr(space)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.floatPools[space]
	if buf := popBuf(bucket, n); buf != nil {
		return buf[:n], devicectx.NewPtr(space)
	}
	return make([]float64, n), devicectx.NewPtr(space)
}

// AllocateInts allocates n ints in the manager's default space.
func (m *Manager) AllocateInts(n int) ([]int, devicectx.Ptr) {
	return m.AllocateIntsIn(m.space, n)
}

// AllocateIntsIn allocates n ints explicitly in space.
func (m *Manager) AllocateIntsIn(space devicectx.Space, n int) ([]int, devicectx.Ptr) {
	if n == 0 {
		return nil, devicectx.NewPtr(space)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.intPools[space]
	if buf := popIntBuf(bucket, n); buf != nil {
		return buf[:n], devicectx.NewPtr(space)
	}
	return make([]int, n), devicectx.NewPtr(space)
}

// DeallocateFloats returns buf to the pool for its space. It must be the
// last use of buf by the caller.
func (m *Manager) DeallocateFloats(space devicectx.Space, buf []float64) {
	if cap(buf) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := cap(buf)
	m.floatPools[space][c] = append(m.floatPools[space][c], buf[:c])
}

// DeallocateInts returns buf to the pool for its space.
func (m *Manager) DeallocateInts(space devicectx.Space, buf []int) {
	if cap(buf) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := cap(buf)
	m.intPools[space][c] = append(m.intPools[space][c], buf[:c])
}

// Memset zeroes buf in bulk.
func Memset(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// MemsetBool zeroes (sets all-false) a predicate buffer in bulk. Used at
// pipeline entry per spec §3's mandated zero-initialization of P.
func MemsetBool(buf []bool) {
	for i := range buf {
		buf[i] = false
	}
}

func popBuf(bucket map[int][][]float64, n int) []float64 {
	for c, bufs := range bucket {
		if c < n || len(bufs) == 0 {
			continue
		}
		last := bufs[len(bufs)-1]
		bucket[c] = bufs[:len(bufs)-1]
		return last
	}
	return nil
}

func popIntBuf(bucket map[int][][]int, n int) []int {
	for c, bufs := range bucket {
		if c < n || len(bufs) == 0 {
			continue
		}
		last := bufs[len(bufs)-1]
		bucket[c] = bufs[:len(bufs)-1]
		return last
	}
	return nil
}

// ErrAllocationFailed wraps an allocation failure so callers can surface
// it unchanged per spec §7's fatal-allocation-failure rule. The pooled
// make() calls above never actually fail (Go's allocator panics OOM
// instead of returning an error), but AllocateIn-style entry points that
// might one day wrap a real device allocator need a place to report
// failure without a panic, so the shape is kept.
type ErrAllocationFailed struct {
	Space devicectx.Space
	N     int
}

func (e *ErrAllocationFailed) Error() string {
	return fmt.Sprintf("resource: allocation of %d elements in %s space failed", e.N, e.Space)
}
