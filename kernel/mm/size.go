package mm

// Size represents an amount of memory in bytes.
type Size uint64

// Common memory unit multiples.
const (
	Byte Size = 1
	Kb        = 1024 * Byte
	Mb        = 1024 * Kb
	Gb        = 1024 * Mb
)
