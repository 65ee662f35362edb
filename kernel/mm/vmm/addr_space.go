package vmm

import (
	"sync/atomic"

	"github.com/jordanhubbard/vib-OS-sub000/kernel"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm"
)

// maxAddressSpaces bounds the number of live address spaces. Address space
// descriptors come from a fixed pool: the heap is not a dependency of this
// package.
const maxAddressSpaces = 64

var (
	addressSpacePool [maxAddressSpaces]AddressSpace

	// ErrAddressSpacePoolExhausted is returned by CreateAddressSpace once
	// every pool slot hosts a live address space.
	ErrAddressSpacePoolExhausted = &kernel.Error{Module: "vmm", Message: "address space pool exhausted"}
)

// VMA is an opaque region descriptor attached to an address space. Its
// contents are owned and interpreted by the process subsystem; the vmm only
// anchors the list.
type VMA struct {
	// Start and End bound the region's virtual addresses; End is exclusive.
	Start, End uintptr

	// Flags records the mapping intent for the region.
	Flags MapFlag

	next *VMA
}

// AddressSpace describes a process address space: the root translation
// table, a reference count and the list of regions the process subsystem
// has attached to it. The low half of the root table is exclusively owned
// by the address space; the high half aliases the kernel's tables.
//
// AddressSpace methods are not internally synchronized. Callers serialize
// modifications of a given address space, typically with a lock owned by
// the task structure.
type AddressSpace struct {
	root     mm.Frame
	refCount int32
	vmas     *VMA
	inUse    bool
}

// CreateAddressSpace allocates a new address space whose high half shares
// the kernel's mappings and whose low half is empty. The returned address
// space starts with a reference count of one.
func CreateAddressSpace() (*AddressSpace, *kernel.Error) {
	var space *AddressSpace
	for i := 0; i < maxAddressSpaces; i++ {
		if !addressSpacePool[i].inUse {
			space = &addressSpacePool[i]
			break
		}
	}
	if space == nil {
		return nil, ErrAddressSpacePoolExhausted
	}

	rootFrame, err := mm.AllocFrame()
	if err != nil {
		return nil, err
	}

	// Alias the kernel's high-half tables; these entries are shared, not
	// owned, and Destroy must never release them.
	newRoot, kernelRoot := tableAt(rootFrame), tableAt(kernelRootFrame)
	for i := kernelHalfStart; i < tableEntryCount; i++ {
		newRoot[i] = kernelRoot[i]
	}

	space.root = rootFrame
	space.refCount = 1
	space.vmas = nil
	space.inUse = true

	return space, nil
}

// Retain adds a reference to the address space.
func (s *AddressSpace) Retain() {
	atomic.AddInt32(&s.refCount, 1)
}

// Destroy drops a reference to the address space. When the last reference
// is gone it releases every translation table exclusively owned by the low
// half, then the root table itself, and the descriptor becomes invalid. The
// frames mapped by leaf entries are not released: they belong to whoever
// established the mappings.
func (s *AddressSpace) Destroy() *kernel.Error {
	if atomic.AddInt32(&s.refCount, -1) > 0 {
		return nil
	}

	root := tableAt(s.root)
	for i := 0; i < kernelHalfStart; i++ {
		if err := freeTableSubtree(root[i], 1); err != nil {
			return err
		}
		root[i] = 0
	}

	if err := mm.FreeFrame(s.root); err != nil {
		return err
	}

	s.root = mm.InvalidFrame
	s.vmas = nil
	s.inUse = false

	return nil
}

// freeTableSubtree releases the translation table referenced by pte
// together with every table below it. Block descriptors and leaf page
// entries reference plain memory frames, not tables, and are skipped.
func freeTableSubtree(pte pageTableEntry, level int) *kernel.Error {
	if !pte.IsTable() {
		return nil
	}

	tableFrame := pte.Frame()
	if level < pageLevels-1 {
		table := tableAt(tableFrame)
		for i := range table {
			if err := freeTableSubtree(table[i], level+1); err != nil {
				return err
			}
		}
	}

	return mm.FreeFrame(tableFrame)
}

// Switch installs the address space's root table in the low-half
// translation base register and invalidates the TLB on every core.
// Switching to the already active address space has no effect.
func (s *AddressSpace) Switch() {
	if activeTTBR0Fn() == s.root.Address() {
		return
	}

	setTTBR0Fn(s.root.Address())
	instrBarrierFn()
	flushTLBFn()
}

// Map establishes a mapping from page to frame in this address space.
func (s *AddressSpace) Map(page mm.Page, frame mm.Frame, flags MapFlag) *kernel.Error {
	return mapPage(s.root, page, frame, flags)
}

// Unmap removes the mapping for page from this address space.
func (s *AddressSpace) Unmap(page mm.Page) *kernel.Error {
	return unmapPage(s.root, page)
}

// AttachVMA links a region descriptor to the address space on behalf of the
// process subsystem.
func (s *AddressSpace) AttachVMA(vma *VMA) {
	vma.next = s.vmas
	s.vmas = vma
}

// VisitVMAs invokes visitor for each attached region descriptor, most
// recently attached first, stopping early if the visitor returns false.
func (s *AddressSpace) VisitVMAs(visitor func(*VMA) bool) {
	for vma := s.vmas; vma != nil; vma = vma.next {
		if !visitor(vma) {
			return
		}
	}
}
