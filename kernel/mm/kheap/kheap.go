// Package kheap implements the kernel byte allocator on top of the fixed
// heap region: a first-fit free list of tagged blocks carved out of a single
// contiguous arena.
package kheap

import (
	"unsafe"

	"github.com/jordanhubbard/vib-OS-sub000/kernel"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/kfmt"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/sync"
)

const (
	// magicFree and magicUsed tag block headers. A header carrying
	// anything else has been overwritten and the heap is corrupted.
	magicFree uint32 = 0xdeadbeef
	magicUsed uint32 = 0xcafebabe

	// minAllocSize is the smallest usable block payload. Requests below
	// it are rounded up so freed blocks always remain reusable.
	minAllocSize = uintptr(32)

	// maxAllocSize caps a single request; anything bigger is a bug in
	// the caller, not a reason to empty the heap.
	maxAllocSize = uintptr(16 << 20)

	// allocAlign is the payload alignment guaranteed to callers.
	allocAlign = uintptr(16)
)

var (
	// ErrInvalidAllocationSize is returned for zero-byte requests and for
	// requests above maxAllocSize.
	ErrInvalidAllocationSize = &kernel.Error{Module: "kheap", Message: "allocation size must be between 1 byte and 16M"}

	// ErrOutOfMemory is returned when no free block can satisfy a request.
	ErrOutOfMemory = &kernel.Error{Module: "kheap", Message: "out of heap memory"}

	// ErrHeapCorrupted is returned when the allocator finds a free block
	// whose header tag has been overwritten.
	ErrHeapCorrupted = &kernel.Error{Module: "kheap", Message: "heap free list corrupted"}
)

// blockHeader precedes every heap block. size counts the payload bytes that
// follow the header; the list links are only meaningful while the block is
// free.
type blockHeader struct {
	size  uintptr
	magic uint32
	_     uint32
	next  *blockHeader
	prev  *blockHeader
}

const headerSize = unsafe.Sizeof(blockHeader{})

var (
	heapLock sync.Spinlock

	// heapRegionFn reports the arena placement. It is a variable so tests
	// can point the allocator at a scratch buffer.
	heapRegionFn = func() (base, size uintptr) {
		return mm.KernelHeapBase, uintptr(mm.KernelHeapSize)
	}

	initialized        bool
	heapBase, heapSize uintptr
	freeList           *blockHeader
	usedBytes          uintptr
)

// initHeap turns the raw arena into a single free block. Called lazily under
// heapLock by the first allocation so the allocator has no ordering
// requirements against the rest of the bring-up sequence.
func initHeap() {
	heapBase, heapSize = heapRegionFn()

	head := (*blockHeader)(unsafe.Pointer(heapBase))
	head.size = heapSize - headerSize
	head.magic = magicFree
	head.next, head.prev = nil, nil

	freeList = head
	usedBytes = 0
	initialized = true

	kfmt.Printf("[kheap] heap initialized: base 0x%x, size %d bytes\n", heapBase, heapSize)
}

// roundRequest rounds a payload size up to the allocator's granularity.
// The header size is itself a multiple of the granularity, so every block
// (header plus payload) stays a whole number of minAllocSize units.
func roundRequest(size uintptr) uintptr {
	return (size + minAllocSize - 1) &^ (minAllocSize - 1)
}

// Alloc reserves size bytes of kernel heap and returns the address of the
// block payload. The payload is allocAlign-aligned and carries whatever the
// previous owner left behind; use AllocZeroed when the contents matter.
func Alloc(size uintptr) (uintptr, *kernel.Error) {
	if size == 0 || size > maxAllocSize {
		return 0, ErrInvalidAllocationSize
	}
	size = roundRequest(size)

	heapLock.Acquire()
	if !initialized {
		initHeap()
	}

	for block := freeList; block != nil; block = block.next {
		if block.magic != magicFree {
			heapLock.Release()
			kfmt.Printf("[kheap] bad free block tag 0x%x at 0x%x\n", block.magic, uintptr(unsafe.Pointer(block)))
			return 0, ErrHeapCorrupted
		}
		if block.size < size {
			continue
		}

		// Split off the tail when it can host a viable block; otherwise
		// hand out the whole block to avoid unusable slivers.
		if block.size >= size+headerSize+minAllocSize {
			tail := (*blockHeader)(unsafe.Pointer(uintptr(unsafe.Pointer(block)) + headerSize + size))
			tail.size = block.size - size - headerSize
			tail.magic = magicFree
			tail.next, tail.prev = block.next, block.prev
			if tail.next != nil {
				tail.next.prev = tail
			}
			if tail.prev != nil {
				tail.prev.next = tail
			} else {
				freeList = tail
			}
			block.size = size
		} else {
			if block.next != nil {
				block.next.prev = block.prev
			}
			if block.prev != nil {
				block.prev.next = block.next
			} else {
				freeList = block.next
			}
		}

		block.magic = magicUsed
		block.next, block.prev = nil, nil
		usedBytes += block.size + headerSize
		heapLock.Release()

		return uintptr(unsafe.Pointer(block)) + headerSize, nil
	}

	heapLock.Release()
	return 0, ErrOutOfMemory
}

// AllocZeroed behaves like Alloc but returns a zero-filled payload.
func AllocZeroed(size uintptr) (uintptr, *kernel.Error) {
	addr, err := Alloc(size)
	if err != nil {
		return 0, err
	}

	kernel.Memset(addr, 0, roundRequest(size))
	return addr, nil
}

// Free returns the block at addr to the free list. Free never panics on a
// bad pointer: freeing nil is a no-op, and an address that is outside the
// heap or whose header does not carry the in-use tag (a double free, or a
// pointer into the middle of a block) is logged and ignored. A block that
// survives a stray free is leaked memory; a block released twice would be
// handed out twice.
func Free(addr uintptr) {
	if addr == 0 {
		return
	}

	heapLock.Acquire()
	if !initialized || addr < heapBase+headerSize || addr >= heapBase+heapSize {
		heapLock.Release()
		kfmt.Printf("[kheap] ignoring free of non-heap address 0x%x\n", addr)
		return
	}

	block := (*blockHeader)(unsafe.Pointer(addr - headerSize))
	if block.magic != magicUsed {
		heapLock.Release()
		kfmt.Printf("[kheap] ignoring free of address 0x%x with tag 0x%x\n", addr, block.magic)
		return
	}

	block.magic = magicFree
	usedBytes -= block.size + headerSize

	block.prev = nil
	block.next = freeList
	if freeList != nil {
		freeList.prev = block
	}
	freeList = block
	heapLock.Release()
}

// Realloc resizes the allocation at addr to size bytes. A nil addr behaves
// like Alloc and a zero size like Free. When the existing block already has
// the capacity the same address is returned; otherwise the contents move to
// a freshly allocated block and the old one is freed. On failure the
// original allocation is left intact.
func Realloc(addr uintptr, size uintptr) (uintptr, *kernel.Error) {
	if addr == 0 {
		return Alloc(size)
	}
	if size == 0 {
		Free(addr)
		return 0, nil
	}
	if size > maxAllocSize {
		return 0, ErrInvalidAllocationSize
	}

	heapLock.Acquire()
	if !initialized || addr < heapBase+headerSize || addr >= heapBase+heapSize {
		heapLock.Release()
		return 0, ErrHeapCorrupted
	}
	block := (*blockHeader)(unsafe.Pointer(addr - headerSize))
	if block.magic != magicUsed {
		heapLock.Release()
		return 0, ErrHeapCorrupted
	}
	oldSize := block.size
	heapLock.Release()

	if roundRequest(size) <= oldSize {
		return addr, nil
	}

	newAddr, err := Alloc(size)
	if err != nil {
		return 0, err
	}

	kernel.Memcopy(addr, newAddr, oldSize)
	Free(addr)

	return newAddr, nil
}

// Stats reports the heap arena size together with the bytes consumed by
// live allocations and their headers.
func Stats() (total, used, free uintptr) {
	heapLock.Acquire()
	if !initialized {
		initHeap()
	}
	total, used = heapSize, usedBytes
	heapLock.Release()

	return total, used, total - used
}
