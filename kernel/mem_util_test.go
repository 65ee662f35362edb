package kernel

import (
	"testing"
	"unsafe"
)

func TestMemset(t *testing.T) {
	specs := []struct {
		size  uintptr
		value byte
	}{
		{0, 0xff}, // size 0 must be a no-op
		{1, 0xaa},
		{7, 0x55},
		{64, 0xcc},
		{1000, 0x11},
	}

	buf := make([]byte, 1024)
	for specIndex, spec := range specs {
		for i := range buf {
			buf[i] = 0
		}

		Memset(uintptr(unsafe.Pointer(&buf[0])), spec.value, spec.size)

		for i := uintptr(0); i < spec.size; i++ {
			if buf[i] != spec.value {
				t.Errorf("[spec %d] expected byte %d to be set to %x; got %x", specIndex, i, spec.value, buf[i])
				break
			}
		}

		if spec.size < uintptr(len(buf)) && buf[spec.size] != 0 {
			t.Errorf("[spec %d] Memset wrote past the requested size", specIndex)
		}
	}
}

func TestMemcopy(t *testing.T) {
	var src, dst [256]byte
	for i := range src {
		src[i] = byte(i)
	}

	// A zero-sized copy must not touch dst
	Memcopy(uintptr(unsafe.Pointer(&src[0])), uintptr(unsafe.Pointer(&dst[0])), 0)
	if dst[0] != 0 {
		t.Fatal("expected zero-sized Memcopy to be a no-op")
	}

	Memcopy(uintptr(unsafe.Pointer(&src[0])), uintptr(unsafe.Pointer(&dst[0])), uintptr(len(src)))
	for i := range dst {
		if dst[i] != src[i] {
			t.Fatalf("expected dst[%d] to equal %x; got %x", i, src[i], dst[i])
		}
	}
}
