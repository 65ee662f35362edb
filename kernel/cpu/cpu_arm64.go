// Package cpu provides access to the AArch64 system registers, barriers and
// TLB maintenance instructions required by the memory manager. All functions
// are implemented in assembly (see cpu_arm64.s) and execute at EL1.
package cpu

// Yield emits a yield hint so a busy-waiting core can signal the hardware
// that it is spinning.
func Yield()

// Halt stops instruction execution on the current core and never returns.
func Halt()

// SyncBarrier issues a full-system data synchronization barrier (DSB SY)
// ensuring that all outstanding memory accesses complete before the next
// instruction executes.
func SyncBarrier()

// InstrBarrier issues an instruction synchronization barrier (ISB) flushing
// the pipeline so that subsequent instructions observe prior system register
// updates.
func InstrBarrier()

// FlushTLB invalidates all EL1 TLB entries on every core in the inner
// shareable domain. It must be called after switching translation tables.
func FlushTLB()

// FlushTLBPage invalidates the last-level TLB entries that translate the
// page containing virtAddr on every core in the inner shareable domain.
func FlushTLBPage(virtAddr uintptr)

// SetMemoryAttributes loads the memory attribute indirection register
// (MAIR_EL1) which defines the cacheability of each attribute index used by
// the page table entries.
func SetMemoryAttributes(mair uint64)

// SetTranslationControl loads the translation control register (TCR_EL1)
// which defines the granule size, address widths and walk cacheability for
// both translation table base registers.
func SetTranslationControl(tcr uint64)

// SetTTBR0 loads the given translation table root into TTBR0_EL1.
func SetTTBR0(tableAddr uintptr)

// SetTTBR1 loads the given translation table root into TTBR1_EL1.
func SetTTBR1(tableAddr uintptr)

// ActiveTTBR0 returns the physical address of the translation table root
// currently loaded in TTBR0_EL1.
func ActiveTTBR0() uintptr

// EnableMMU sets the MMU enable bit together with the data and instruction
// cache enable bits in SCTLR_EL1. The caller must issue the required
// barriers before calling this function; EnableMMU issues the trailing ISB
// itself.
func EnableMMU()
