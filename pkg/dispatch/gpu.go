package dispatch

// GPU binding layers (Metal, Vulkan, WebGPU, OpenCL) live outside this
// module; a binding build registers its constructor at init time, the same
// way the OpenCL back-end is gated behind a build tag upstream.

var newGPU func(threads int) (Dispatcher, error)

// RegisterGPU installs the GPU dispatcher constructor. It is intended to be
// called from an init function of a binding package.
func RegisterGPU(ctor func(threads int) (Dispatcher, error)) {
	newGPU = ctor
}

// NewGPU returns the registered GPU dispatcher, or ErrGPUUnavailable when
// no binding layer is linked into the build. threads selects the work-group
// size; threads <= 0 selects DefaultGroupSize.
func NewGPU(threads int) (Dispatcher, error) {
	if newGPU == nil {
		return nil, ErrGPUUnavailable
	}
	if threads <= 0 {
		threads = DefaultGroupSize
	}
	return newGPU(threads)
}
