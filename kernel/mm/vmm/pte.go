package vmm

import (
	"unsafe"

	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm"
)

// PageTableEntryFlag describes a hardware flag carried by a page table entry.
type PageTableEntryFlag uintptr

// pageTableEntry is a single AArch64 translation table descriptor encoding a
// physical address and a set of attribute flags.
type pageTableEntry uintptr

// HasFlags returns true if this entry has all the input flags set.
func (pte pageTableEntry) HasFlags(flags PageTableEntryFlag) bool {
	return (uintptr(pte) & uintptr(flags)) == uintptr(flags)
}

// SetFlags sets the input list of flags on the page table entry.
func (pte *pageTableEntry) SetFlags(flags PageTableEntryFlag) {
	*pte = (pageTableEntry)(uintptr(*pte) | uintptr(flags))
}

// ClearFlags unsets the input list of flags from the page table entry.
func (pte *pageTableEntry) ClearFlags(flags PageTableEntryFlag) {
	*pte = (pageTableEntry)(uintptr(*pte) &^ uintptr(flags))
}

// IsTable returns true if this entry is a valid table descriptor pointing to
// a next-level translation table.
func (pte pageTableEntry) IsTable() bool {
	return pte.HasFlags(pteValid | pteTable)
}

// Frame returns the physical frame this entry points to.
func (pte pageTableEntry) Frame() mm.Frame {
	return mm.Frame((uintptr(pte) & pteAddressMask) >> mm.PageShift)
}

// SetFrame updates the entry to point to the given physical frame.
func (pte *pageTableEntry) SetFrame(frame mm.Frame) {
	*pte = (pageTableEntry)((uintptr(*pte) &^ pteAddressMask) | frame.Address())
}

// pageTable overlays the contents of a translation table frame.
type pageTable [tableEntryCount]pageTableEntry

var (
	// tablePtrFn converts the physical address of a translation table into
	// a dereferenceable pointer. Table frames live inside the identity
	// mapped region so the conversion is direct; it is declared as a
	// variable to keep the conversion visible at the call sites and to
	// allow tests to interpose on it if they need to.
	tablePtrFn = func(tableAddr uintptr) unsafe.Pointer {
		return unsafe.Pointer(tableAddr)
	}
)

// tableAt returns the translation table stored in the given frame.
func tableAt(frame mm.Frame) *pageTable {
	return (*pageTable)(tablePtrFn(frame.Address()))
}

// tableIndex extracts from virtAddr the entry index for the given
// translation level.
func tableIndex(virtAddr uintptr, level int) int {
	return int((virtAddr >> pageLevelShifts[level]) & (tableEntryCount - 1))
}
