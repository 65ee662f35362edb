package mm

const (
	// PointerShift is log2 of the pointer size for this architecture.
	PointerShift = uintptr(3)

	// PageShift is log2(PageSize). Shifting an address right by PageShift
	// yields its page (or frame) number.
	PageShift = uintptr(12)

	// PageSize is the translation granule in bytes.
	PageSize = uintptr(1 << PageShift)
)
