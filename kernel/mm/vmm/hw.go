package vmm

// Hardware touchpoints used by this package. They default to no-ops so the
// table-manipulation logic can be exercised on a foreign architecture;
// hw_arm64.go rebinds them to the real instructions when building the
// kernel. Tests override the ones they need to observe (calling the real
// versions from user mode would fault).
var (
	flushTLBEntryFn = func(virtAddr uintptr) {}
	flushTLBFn      = func() {}
	syncBarrierFn   = func() {}
	instrBarrierFn  = func() {}
	setMAIRFn       = func(mair uint64) {}
	setTCRFn        = func(tcr uint64) {}
	setTTBR0Fn      = func(tableAddr uintptr) {}
	activeTTBR0Fn   = func() uintptr { return 0 }
	setTTBR1Fn      = func(tableAddr uintptr) {}
	enableMMUFn     = func() {}
)
