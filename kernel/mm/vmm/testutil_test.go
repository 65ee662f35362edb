package vmm

import (
	"testing"
	"unsafe"

	"github.com/jordanhubbard/vib-OS-sub000/kernel"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm"
)

var errTestAllocFailed = &kernel.Error{Module: "test", Message: "frame allocator exhausted"}

// testFrameProvider serves page-aligned, zero-filled frames carved out of a
// regular Go buffer so the table-walk code can operate on real memory. It
// records every allocation and release and can be told to start failing
// after a fixed number of allocations.
type testFrameProvider struct {
	t *testing.T

	buf      []byte
	baseAddr uintptr
	capacity int

	// failAfter makes allocation number failAfter+1 fail; -1 disables.
	failAfter int

	allocated []mm.Frame
	released  []mm.Frame
}

// newTestFrameProvider registers a provider with capacity frames as the
// system frame provider and arranges for it to be unregistered when the
// test finishes.
func newTestFrameProvider(t *testing.T, capacity int) *testFrameProvider {
	t.Helper()

	p := &testFrameProvider{
		t:         t,
		buf:       make([]byte, uintptr(capacity+1)*mm.PageSize),
		capacity:  capacity,
		failAfter: -1,
	}
	p.baseAddr = (uintptr(unsafe.Pointer(&p.buf[0])) + mm.PageSize - 1) &^ (mm.PageSize - 1)

	mm.SetFrameAllocator(p.allocFrame)
	mm.SetFrameReleaser(p.releaseFrame)
	t.Cleanup(func() {
		mm.SetFrameAllocator(nil)
		mm.SetFrameReleaser(nil)
		_ = p.buf
	})

	return p
}

func (p *testFrameProvider) allocFrame() (mm.Frame, *kernel.Error) {
	if p.failAfter >= 0 && len(p.allocated) >= p.failAfter {
		return mm.InvalidFrame, errTestAllocFailed
	}
	if len(p.allocated) == p.capacity {
		p.t.Fatalf("test frame provider exhausted after %d frames", p.capacity)
	}

	frame := mm.FrameFromAddress(p.baseAddr + uintptr(len(p.allocated))*mm.PageSize)
	kernel.Memset(frame.Address(), 0, mm.PageSize)
	p.allocated = append(p.allocated, frame)

	return frame, nil
}

func (p *testFrameProvider) releaseFrame(frame mm.Frame) *kernel.Error {
	p.released = append(p.released, frame)
	return nil
}

// installTestKernelRoot points kernelRootFrame at a fresh root table frame
// and restores the previous root when the test finishes.
func installTestKernelRoot(t *testing.T, p *testFrameProvider) mm.Frame {
	t.Helper()

	rootFrame, err := p.allocFrame()
	if err != nil {
		t.Fatal(err)
	}

	origRoot := kernelRootFrame
	kernelRootFrame = rootFrame
	t.Cleanup(func() { kernelRootFrame = origRoot })

	return rootFrame
}

// stubTLBFlushes replaces the TLB maintenance hooks with counters for the
// duration of the test.
func stubTLBFlushes(t *testing.T) (entryFlushes, fullFlushes *int) {
	t.Helper()

	entryFlushes, fullFlushes = new(int), new(int)

	origEntryFn, origFullFn := flushTLBEntryFn, flushTLBFn
	flushTLBEntryFn = func(uintptr) { *entryFlushes++ }
	flushTLBFn = func() { *fullFlushes++ }
	t.Cleanup(func() {
		flushTLBEntryFn = origEntryFn
		flushTLBFn = origFullFn
	})

	return entryFlushes, fullFlushes
}
