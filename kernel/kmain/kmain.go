// Package kmain contains the kernel bootstrap logic that runs once the
// early assembly hands control to Go code.
package kmain

import (
	"github.com/jordanhubbard/vib-OS-sub000/kernel"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/kfmt"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm/kheap"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm/pmm"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm/vmm"
)

var errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

// Kmain brings up the memory subsystems in dependency order: the physical
// frame allocator first, then the virtual memory manager (which consumes
// frames for its translation tables), and finally the kernel heap over the
// now-mapped heap region. Kmain never returns; any initialization error is
// fatal.
func Kmain() {
	kfmt.Printf("[kmain] starting kernel bootstrap\n")

	if err := pmm.Init(mm.EarlyFramePoolBase, mm.RAMBase+uintptr(mm.RAMSize)); err != nil {
		kfmt.Panic(err)
	}

	if err := vmm.Init(); err != nil {
		kfmt.Panic(err)
	}

	// First heap use doubles as a self-check of the freshly mapped region.
	if _, err := kheap.AllocZeroed(mm.PageSize); err != nil {
		kfmt.Panic(err)
	}
	total, used, free := kheap.Stats()
	kfmt.Printf("[kmain] heap online: %d bytes total, %d used, %d free\n", total, used, free)

	kfmt.Panic(errKmainReturned)
}
