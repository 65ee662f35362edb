package mm

import (
	"math"

	"github.com/jordanhubbard/vib-OS-sub000/kernel"
)

// Frame describes a physical memory page index.
type Frame uintptr

// InvalidFrame is returned by frame allocators when they cannot satisfy an
// allocation request.
const InvalidFrame = Frame(math.MaxUint64)

// Valid returns true if this is a valid frame.
func (f Frame) Valid() bool {
	return f != InvalidFrame
}

// Address returns the physical memory address this Frame starts at.
func (f Frame) Address() uintptr {
	return uintptr(f << PageShift)
}

// FrameFromAddress returns the Frame containing physAddr. Addresses that are
// not page-aligned are rounded down to the frame that contains them.
func FrameFromAddress(physAddr uintptr) Frame {
	return Frame(physAddr >> PageShift)
}

// Page describes a virtual memory page index.
type Page uintptr

// Address returns the virtual memory address this Page starts at.
func (p Page) Address() uintptr {
	return uintptr(p << PageShift)
}

// PageFromAddress returns the Page containing virtAddr. Addresses that are
// not page-aligned are rounded down to the page that contains them.
func PageFromAddress(virtAddr uintptr) Page {
	return Page(virtAddr >> PageShift)
}

// FrameAllocatorFn allocates a zero-filled physical frame.
type FrameAllocatorFn func() (Frame, *kernel.Error)

// FrameReleaserFn returns a physical frame to its allocator.
type FrameReleaserFn func(Frame) *kernel.Error

var (
	frameAllocator FrameAllocatorFn
	frameReleaser  FrameReleaserFn
)

// SetFrameAllocator registers the function used to allocate physical frames
// whenever a new page table or backing page is needed.
func SetFrameAllocator(allocFn FrameAllocatorFn) { frameAllocator = allocFn }

// SetFrameReleaser registers the function used to return physical frames
// when page tables are torn down.
func SetFrameReleaser(releaseFn FrameReleaserFn) { frameReleaser = releaseFn }

// AllocFrame allocates a zero-filled frame using the registered allocator.
func AllocFrame() (Frame, *kernel.Error) { return frameAllocator() }

// FreeFrame returns a frame to the registered allocator.
func FreeFrame(frame Frame) *kernel.Error { return frameReleaser(frame) }
