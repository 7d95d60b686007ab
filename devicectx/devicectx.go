// Package devicectx implements the device abstraction: the single global
// mode that selects host or device execution, and the per-pointer query
// used to tell which memory space a buffer lives in.
package devicectx

import "sync/atomic"

// Space identifies a memory space a buffer can live in.
type Space int

const (
	// Host is ordinary process memory.
	Host Space = iota
	// Device is memory reachable only through device-side kernels.
	// This implementation models device execution on the host (no real
	// accelerator backend is in scope, per the evaluator/surrogate/UQ
	// collaborators being external), but keeps the space distinction so
	// the dispatch contract and ordering guarantees are exercised.
	Device
)

func (s Space) String() string {
	if s == Device {
		return "device"
	}
	return "host"
}

// defaultSpace holds the process-wide default memory space. Changed only
// at startup by SetDefault; reads are lock-free.
var defaultSpace int32 // atomic, holds a Space value

// SetDefault sets the process-wide default memory space. Per the device
// abstraction contract, changing the mode between invocations is
// permitted; changing it mid-invocation is undefined, so callers must not
// call this concurrently with an in-flight Evaluate.
func SetDefault(space Space) {
	atomic.StoreInt32(&defaultSpace, int32(space))
}

// IsDeviceExecution reports whether subsequent buffer allocations default
// to device memory.
func IsDeviceExecution() bool {
	return Space(atomic.LoadInt32(&defaultSpace)) == Device
}

// Ptr is an opaque handle tagged with the memory space it was allocated
// in. The resource manager façade returns one with every allocation;
// IsOnDevice answers from this tag, never by inspecting an address.
type Ptr struct {
	space Space
}

// NewPtr tags a freshly allocated buffer with its owning space.
func NewPtr(space Space) Ptr { return Ptr{space: space} }

// IsOnDevice reports whether ptr refers to device memory.
func IsOnDevice(ptr Ptr) bool { return ptr.space == Device }

// Context is the small dispatch-context object threaded through the data
// handler instead of a global mode read on every call, per the design
// note about avoiding mode-threading through every function signature.
type Context struct {
	Space Space
}

// New returns a Context pinned to the process default at call time.
func New() *Context { return &Context{Space: Space(atomic.LoadInt32(&defaultSpace))} }

// NewWithSpace returns a Context explicitly pinned to space, ignoring the
// process default. Used where a call must target one space regardless of
// the default, e.g. eos.Evaluator pinning host execution when isCPU is
// set.
func NewWithSpace(space Space) *Context { return &Context{Space: space} }

// IsDevice reports whether this dispatch context targets device memory.
func (c *Context) IsDevice() bool { return c.Space == Device }
