package vmm

import (
	"github.com/jordanhubbard/vib-OS-sub000/kernel"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm"
)

var (
	// ErrInvalidMapping is returned when a lookup reaches a virtual
	// address that is not mapped.
	ErrInvalidMapping = &kernel.Error{Module: "vmm", Message: "virtual address does not point to a mapped physical page"}

	// ErrBlockMapping is returned when a walk runs into a block
	// descriptor: a block covers its whole range with a single entry and
	// cannot be subdivided by the walk.
	ErrBlockMapping = &kernel.Error{Module: "vmm", Message: "virtual address is covered by a block mapping"}
)

// walkToLeaf descends the translation tree rooted at root towards the level
// 3 table covering virtAddr. When allocate is set, missing intermediate
// tables are allocated from the frame provider (which returns them zeroed)
// and installed as table descriptors; otherwise a missing table aborts the
// walk with ErrInvalidMapping.
//
// Encountering a block descriptor aborts the walk at any level: block
// mappings have no further levels to descend into.
func walkToLeaf(root mm.Frame, virtAddr uintptr, allocate bool) (*pageTable, *kernel.Error) {
	table := tableAt(root)

	for level := 0; level < pageLevels-1; level++ {
		pte := &table[tableIndex(virtAddr, level)]

		switch {
		case pte.IsTable():
			table = tableAt(pte.Frame())
		case pte.HasFlags(pteValid):
			return nil, ErrBlockMapping
		default:
			if !allocate {
				return nil, ErrInvalidMapping
			}

			tableFrame, err := mm.AllocFrame()
			if err != nil {
				return nil, err
			}

			*pte = 0
			pte.SetFrame(tableFrame)
			pte.SetFlags(pteValid | pteTable)
			table = tableAt(tableFrame)
		}
	}

	return table, nil
}
