package vmm

import "github.com/jordanhubbard/vib-OS-sub000/kernel/cpu"

func init() {
	flushTLBEntryFn = cpu.FlushTLBPage
	flushTLBFn = cpu.FlushTLB
	syncBarrierFn = cpu.SyncBarrier
	instrBarrierFn = cpu.InstrBarrier
	setMAIRFn = cpu.SetMemoryAttributes
	setTCRFn = cpu.SetTranslationControl
	setTTBR0Fn = cpu.SetTTBR0
	activeTTBR0Fn = cpu.ActiveTTBR0
	setTTBR1Fn = cpu.SetTTBR1
	enableMMUFn = cpu.EnableMMU
}
