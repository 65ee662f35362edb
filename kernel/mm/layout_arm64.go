package mm

// Physical memory map of the qemu virt machine this kernel targets. The low
// gigabyte holds the interrupt controller, UART and the other MMIO devices;
// RAM starts at the second gigabyte with the kernel image loaded 2 MiB in.
const (
	// DeviceRegionBase is the start of the low MMIO aperture.
	DeviceRegionBase = uintptr(0)

	// DeviceRegionSize is the size of the low MMIO aperture.
	DeviceRegionSize = 1 * Gb

	// RAMBase is the physical address where system RAM begins.
	RAMBase = uintptr(0x40000000)

	// RAMSize is the amount of RAM the machine is configured with.
	RAMSize = 1 * Gb

	// KernelImageBase is the physical load address of the kernel image.
	KernelImageBase = uintptr(0x40200000)

	// KernelHeapBase is the start of the fixed, pre-mapped region backing
	// the kernel heap. It leaves 30 MiB for kernel code and data.
	KernelHeapBase = uintptr(0x42000000)

	// KernelHeapSize is the size of the kernel heap region.
	KernelHeapSize = 32 * Mb

	// EarlyFramePoolBase is the start of the RAM handed to the boot frame
	// allocator: everything between the end of the heap and the end of RAM.
	EarlyFramePoolBase = KernelHeapBase + uintptr(KernelHeapSize)

	// ECAMBase is the physical base of the high PCI ECAM aperture.
	ECAMBase = uintptr(0x4000000000)
)
