package kernel

import (
	"reflect"
	"unsafe"
)

// overlay returns a byte slice that aliases size bytes of memory starting at
// addr. The caller must guarantee that the region is mapped and writable.
func overlay(addr uintptr, size uintptr) []byte {
	return *(*[]byte)(unsafe.Pointer(&reflect.SliceHeader{
		Data: addr,
		Len:  int(size),
		Cap:  int(size),
	}))
}

// Memset fills size bytes starting at addr with value. The fill is performed
// with log2(size) copy calls instead of a byte loop; memory managed by this
// package is page-aligned so the copies stay on cache-friendly boundaries.
func Memset(addr uintptr, value byte, size uintptr) {
	if size == 0 {
		return
	}

	target := overlay(addr, size)
	target[0] = value
	for filled := uintptr(1); filled < size; filled *= 2 {
		copy(target[filled:], target[:filled])
	}
}

// Memcopy copies size bytes from src to dst. The regions must not overlap.
func Memcopy(src, dst uintptr, size uintptr) {
	if size == 0 {
		return
	}

	copy(overlay(dst, size), overlay(src, size))
}
