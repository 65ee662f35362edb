// Package pmm implements the physical frame allocator that backs the
// virtual memory manager. It hands out frames from the boot RAM range using
// a bump pointer and recycles released frames through an intrusive free
// list threaded through the frames themselves.
package pmm

import (
	"unsafe"

	"github.com/jordanhubbard/vib-OS-sub000/kernel"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/kfmt"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm"
)

var (
	// allocator is the singleton frame allocator registered with the mm
	// package by Init.
	allocator frameAllocator

	errOutOfMemory    = &kernel.Error{Module: "pmm", Message: "out of physical memory"}
	errFrameNotOwned  = &kernel.Error{Module: "pmm", Message: "frame is not managed by this allocator"}
	errRegionTooSmall = &kernel.Error{Module: "pmm", Message: "managed region is smaller than one page"}
)

// freeFrameNode is overlaid on the first word of a released frame, linking it
// into the allocator's free list. The rest of the frame's contents are dead
// until the frame is handed out again.
type freeFrameNode struct {
	next *freeFrameNode
}

// frameAllocator reserves frames from a single contiguous physical region.
// Frames released back to it are preferred over untouched region frames so
// page-table churn reuses a small working set.
type frameAllocator struct {
	// regionStartFrame and regionEndFrame bound the managed region;
	// regionEndFrame is exclusive.
	regionStartFrame, regionEndFrame mm.Frame

	// nextFrame is the bump pointer into the never-allocated part of the
	// region.
	nextFrame mm.Frame

	// freeList collects frames released via FreeFrame.
	freeList *freeFrameNode

	// allocCount tracks the number of frames currently handed out.
	allocCount uint64
}

// init bounds the allocator to [regionStart, regionEnd), rounding the start
// up and the end down to page boundaries.
func (a *frameAllocator) init(regionStart, regionEnd uintptr) *kernel.Error {
	pageSizeMinus1 := mm.PageSize - 1

	a.regionStartFrame = mm.FrameFromAddress((regionStart + pageSizeMinus1) &^ pageSizeMinus1)
	a.regionEndFrame = mm.FrameFromAddress(regionEnd &^ pageSizeMinus1)
	a.nextFrame = a.regionStartFrame
	a.freeList = nil
	a.allocCount = 0

	if a.regionStartFrame >= a.regionEndFrame {
		return errRegionTooSmall
	}

	return nil
}

// AllocFrame reserves the next available frame and zeroes its contents.
func (a *frameAllocator) AllocFrame() (mm.Frame, *kernel.Error) {
	var frame mm.Frame

	switch {
	case a.freeList != nil:
		frame = mm.FrameFromAddress(uintptr(unsafe.Pointer(a.freeList)))
		a.freeList = a.freeList.next
	case a.nextFrame < a.regionEndFrame:
		frame = a.nextFrame
		a.nextFrame++
	default:
		return mm.InvalidFrame, errOutOfMemory
	}

	a.allocCount++
	kernel.Memset(frame.Address(), 0, mm.PageSize)
	return frame, nil
}

// FreeFrame returns a previously allocated frame to the free list.
func (a *frameAllocator) FreeFrame(frame mm.Frame) *kernel.Error {
	if frame < a.regionStartFrame || frame >= a.nextFrame {
		return errFrameNotOwned
	}

	node := (*freeFrameNode)(unsafe.Pointer(frame.Address()))
	node.next = a.freeList
	a.freeList = node
	a.allocCount--

	return nil
}

// Init sets up the frame allocator over the supplied physical region and
// registers it as the system frame provider.
func Init(regionStart, regionEnd uintptr) *kernel.Error {
	if err := allocator.init(regionStart, regionEnd); err != nil {
		return err
	}

	kfmt.Printf("[pmm] managing physical range 0x%x - 0x%x (%d frames)\n",
		allocator.regionStartFrame.Address(),
		allocator.regionEndFrame.Address(),
		uint64(allocator.regionEndFrame-allocator.regionStartFrame),
	)

	mm.SetFrameAllocator(allocFrame)
	mm.SetFrameReleaser(releaseFrame)

	return nil
}

func allocFrame() (mm.Frame, *kernel.Error) {
	return allocator.AllocFrame()
}

func releaseFrame(frame mm.Frame) *kernel.Error {
	return allocator.FreeFrame(frame)
}
