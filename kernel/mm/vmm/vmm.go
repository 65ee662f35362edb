// Package vmm owns the hardware translation table format: it builds and
// walks the 4-level radix tree, manages per-process address spaces and
// drives the MMU bring-up sequence.
package vmm

import (
	"github.com/jordanhubbard/vib-OS-sub000/kernel"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/kfmt"
	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm"
)

var (
	// kernelRootFrame holds the kernel address space's root translation
	// table. It is installed in both translation base registers: the
	// kernel uses a single root with a split range instead of two
	// physically distinct roots.
	kernelRootFrame = mm.InvalidFrame
)

// Init builds the kernel address space and turns on the MMU:
//
//   - allocate the kernel root table
//   - program the memory attribute and translation control registers
//   - install gigabyte block mappings for the low device aperture, the
//     RAM gigabyte holding the kernel image and the high PCI ECAM aperture
//   - load both translation base registers and enable the MMU with the
//     required barriers around the enable sequence
//
// Init failures are fatal to the caller: a kernel that cannot establish its
// own address space has nothing to fall back to.
func Init() *kernel.Error {
	kfmt.Printf("[vmm] initializing virtual memory manager\n")

	rootFrame, err := mm.AllocFrame()
	if err != nil {
		return err
	}
	kernelRootFrame = rootFrame

	setMAIRFn(mairValue)
	setTCRFn(tcrValue)

	if err = installBootMappings(); err != nil {
		return err
	}

	setTTBR0Fn(kernelRootFrame.Address())
	setTTBR1Fn(kernelRootFrame.Address())

	// Table updates must be visible to the walker before the enable bit is
	// set, and the pipeline must see the new SCTLR value before any
	// translated fetch.
	syncBarrierFn()
	instrBarrierFn()
	enableMMUFn()

	kfmt.Printf("[vmm] MMU enabled, translation active\n")
	return nil
}

// installBootMappings populates the kernel root with the identity block
// mappings the kernel needs before any fine-grained mapping is possible:
// the low MMIO gigabyte as device memory, the RAM gigabyte where the kernel
// image lives as normal memory and the high PCI ECAM gigabyte as device
// memory. All three share one level 1 table reached from root index 0.
func installBootMappings() *kernel.Error {
	l1Frame, err := mm.AllocFrame()
	if err != nil {
		return err
	}

	root := tableAt(kernelRootFrame)
	rootEntry := &root[tableIndex(mm.DeviceRegionBase, 0)]
	rootEntry.SetFrame(l1Frame)
	rootEntry.SetFlags(pteValid | pteTable)

	l1 := tableAt(l1Frame)
	setBlockEntry(&l1[tableIndex(mm.DeviceRegionBase, 1)], mm.DeviceRegionBase, true)
	setBlockEntry(&l1[tableIndex(mm.RAMBase, 1)], mm.RAMBase, false)
	setBlockEntry(&l1[tableIndex(mm.ECAMBase, 1)], mm.ECAMBase, true)

	kfmt.Printf("[vmm] device aperture 0x%x, kernel image 0x%x and PCI ECAM 0x%x block mapped\n",
		mm.DeviceRegionBase, mm.RAMBase, mm.ECAMBase)

	return nil
}

// setBlockEntry encodes a gigabyte block descriptor: a valid entry without
// the table bit whose address is naturally aligned to the block size.
func setBlockEntry(pte *pageTableEntry, physAddr uintptr, device bool) {
	*pte = 0
	pte.SetFrame(mm.FrameFromAddress(physAddr))
	if device {
		pte.SetFlags(pteValid | pteAttrDevice | pteShareNone | pteAccessFlag)
	} else {
		pte.SetFlags(pteValid | pteAttrNormal | pteShareInner | pteAccessFlag)
	}
}
