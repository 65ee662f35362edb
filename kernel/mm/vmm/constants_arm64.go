package vmm

const (
	// pageLevels is the number of translation table levels used by the
	// 4 KiB granule scheme: level 0 (root) down to level 3 (leaf).
	pageLevels = 4

	// tableEntryCount is the number of entries in a translation table.
	tableEntryCount = 512

	// kernelHalfStart is the root table index where the kernel-shared high
	// half of the address space begins. Entries at or above this index are
	// copied into every user address space and are never owned by it.
	kernelHalfStart = 256

	// pteAddressMask extracts the 48-bit physical address carried by a
	// table, block or page descriptor.
	pteAddressMask = uintptr(0x0000fffffffff000)
)

// pageLevelShifts yields the bit offset of the table index encoded in a
// virtual address for each translation level.
var pageLevelShifts = [pageLevels]uintptr{39, 30, 21, 12}

// Hardware descriptor bits. At levels 0-2 pteTable marks a table descriptor;
// a valid level 1/2 entry without it is a block mapping. At level 3 the same
// bit distinguishes a page descriptor from an invalid one.
const (
	pteValid PageTableEntryFlag = 1 << 0
	pteTable PageTableEntryFlag = 1 << 1

	// MAIR attribute indices programmed by Init (bits 4:2)
	pteAttrNormal PageTableEntryFlag = 0 << 2
	pteAttrDevice PageTableEntryFlag = 1 << 2

	pteUser     PageTableEntryFlag = 1 << 6 // AP[1]: EL0 accessible
	pteReadOnly PageTableEntryFlag = 1 << 7 // AP[2]: write protected

	pteShareNone  PageTableEntryFlag = 0 << 8
	pteShareInner PageTableEntryFlag = 3 << 8

	pteAccessFlag PageTableEntryFlag = 1 << 10

	ptePXN PageTableEntryFlag = 1 << 53
	pteUXN PageTableEntryFlag = 1 << 54
)

const (
	// mairValue programs three memory attribute indices: 0 = normal
	// write-back cacheable, 1 = device nGnRnE, 2 = normal non-cacheable.
	mairValue = uint64(0xff)<<0 | uint64(0x00)<<8 | uint64(0x44)<<16

	// tcrValue configures both translation table base registers for a
	// 4 KiB granule, 48-bit virtual addresses, write-back cacheable inner
	// shareable table walks and 48-bit physical output addresses.
	tcrValue = uint64(16)<<0 | // T0SZ: 48-bit VA for TTBR0
		uint64(16)<<16 | // T1SZ: 48-bit VA for TTBR1
		uint64(0)<<14 | // TG0: 4 KiB granule
		uint64(2)<<30 | // TG1: 4 KiB granule
		uint64(1)<<8 | // IRGN0: inner write-back
		uint64(1)<<10 | // ORGN0: outer write-back
		uint64(3)<<12 | // SH0: inner shareable
		uint64(1)<<24 | // IRGN1: inner write-back
		uint64(1)<<26 | // ORGN1: outer write-back
		uint64(3)<<28 | // SH1: inner shareable
		uint64(5)<<32 // IPS: 48-bit output address
)
