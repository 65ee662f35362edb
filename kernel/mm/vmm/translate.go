package vmm

import (
	"github.com/jordanhubbard/vib-OS-sub000/kernel"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm"
)

// Translate returns the physical address that virtAddr maps to in the
// kernel address space, or ErrInvalidMapping if it is not mapped.
func Translate(virtAddr uintptr) (uintptr, *kernel.Error) {
	leafTable, err := walkToLeaf(kernelRootFrame, virtAddr, false)
	if err != nil {
		return 0, err
	}

	pte := leafTable[tableIndex(virtAddr, pageLevels-1)]
	if !pte.HasFlags(pteValid) {
		return 0, ErrInvalidMapping
	}

	return pte.Frame().Address() + PageOffset(virtAddr), nil
}

// PageOffset returns the offset of virtAddr within its page.
func PageOffset(virtAddr uintptr) uintptr {
	return virtAddr & (mm.PageSize - 1)
}
