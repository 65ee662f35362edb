package vmm

import (
	"github.com/jordanhubbard/vib-OS-sub000/kernel"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm"
)

var (
	// ErrAlreadyMapped is returned when a mapping request targets a page
	// that already has a valid leaf entry. Existing mappings are never
	// silently replaced; callers must unmap first.
	ErrAlreadyMapped = &kernel.Error{Module: "vmm", Message: "virtual address is already mapped"}
)

// Map establishes a mapping from page to frame in the kernel address space,
// allocating any missing intermediate tables, and invalidates the TLB entry
// for the page. Mapping an already mapped page fails with ErrAlreadyMapped
// and leaves the existing mapping untouched.
func Map(page mm.Page, frame mm.Frame, flags MapFlag) *kernel.Error {
	return mapPage(kernelRootFrame, page, frame, flags)
}

// Unmap removes the mapping installed for page in the kernel address space
// and invalidates its TLB entry. Unmapping a page that was never mapped
// fails with ErrInvalidMapping.
func Unmap(page mm.Page) *kernel.Error {
	return unmapPage(kernelRootFrame, page)
}

// MapRange maps the physical region [physAddr, physAddr+size) starting at
// virtAddr. Both addresses are aligned down to a page boundary and size is
// rounded up to a whole number of pages. The operation is atomic from the
// caller's point of view: if any page fails to map, every page already
// mapped by this call is unmapped before the error is returned.
func MapRange(virtAddr, physAddr, size uintptr, flags MapFlag) *kernel.Error {
	pageSizeMinus1 := mm.PageSize - 1
	virtAddr &^= pageSizeMinus1
	physAddr &^= pageSizeMinus1
	size = (size + pageSizeMinus1) &^ pageSizeMinus1

	for offset := uintptr(0); offset < size; offset += mm.PageSize {
		if err := mapPage(kernelRootFrame, mm.PageFromAddress(virtAddr+offset), mm.FrameFromAddress(physAddr+offset), flags); err != nil {
			UnmapRange(virtAddr, offset)
			return err
		}
	}

	return nil
}

// UnmapRange unmaps the virtual region [virtAddr, virtAddr+size). Pages in
// the region that are not mapped are skipped, making the call idempotent.
func UnmapRange(virtAddr, size uintptr) *kernel.Error {
	pageSizeMinus1 := mm.PageSize - 1
	virtAddr &^= pageSizeMinus1
	size = (size + pageSizeMinus1) &^ pageSizeMinus1

	for offset := uintptr(0); offset < size; offset += mm.PageSize {
		_ = unmapPage(kernelRootFrame, mm.PageFromAddress(virtAddr+offset))
	}

	return nil
}

// mapPage installs a leaf entry for page in the translation tree rooted at
// root. A failed walk leaves the tree unchanged apart from intermediate
// tables that were already allocated for it; those remain in place for the
// next mapping in the same region.
func mapPage(root mm.Frame, page mm.Page, frame mm.Frame, flags MapFlag) *kernel.Error {
	leafTable, err := walkToLeaf(root, page.Address(), true)
	if err != nil {
		return err
	}

	pte := &leafTable[tableIndex(page.Address(), pageLevels-1)]
	if pte.HasFlags(pteValid) {
		return ErrAlreadyMapped
	}

	*pte = 0
	pte.SetFrame(frame)
	pte.SetFlags(pteFlagsFor(flags))
	flushTLBEntryFn(page.Address())

	return nil
}

// unmapPage clears the leaf entry for page in the translation tree rooted
// at root. Intermediate tables are left in place even when they become
// empty; they are reclaimed when the owning address space is destroyed.
func unmapPage(root mm.Frame, page mm.Page) *kernel.Error {
	leafTable, err := walkToLeaf(root, page.Address(), false)
	if err != nil {
		return err
	}

	pte := &leafTable[tableIndex(page.Address(), pageLevels-1)]
	if !pte.HasFlags(pteValid) {
		return ErrInvalidMapping
	}

	*pte = 0
	flushTLBEntryFn(page.Address())

	return nil
}
