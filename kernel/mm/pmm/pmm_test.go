package pmm

import (
	"testing"
	"unsafe"

	"github.com/jordanhubbard/vib-OS-sub000/kernel/mm"
)

func TestAllocatorInitRoundsToPageBoundaries(t *testing.T) {
	var a frameAllocator

	regionStart, regionEnd := testRegion(t, 4)
	if err := a.init(regionStart+1, regionEnd-1); err != nil {
		t.Fatal(err)
	}

	if exp, got := mm.FrameFromAddress(regionStart)+1, a.regionStartFrame; exp != got {
		t.Errorf("expected region start frame %v; got %v", exp, got)
	}
	if exp, got := mm.FrameFromAddress(regionEnd)-1, a.regionEndFrame; exp != got {
		t.Errorf("expected region end frame %v; got %v", exp, got)
	}
}

func TestAllocatorInitRejectsTinyRegions(t *testing.T) {
	var a frameAllocator

	regionStart, _ := testRegion(t, 1)
	if err := a.init(regionStart+1, regionStart+mm.PageSize); err != errRegionTooSmall {
		t.Fatalf("expected error %v; got %v", errRegionTooSmall, err)
	}
}

func TestAllocFrameExhaustsRegionAndZeroesFrames(t *testing.T) {
	var a frameAllocator

	regionStart, regionEnd := testRegion(t, 4)
	if err := a.init(regionStart, regionEnd); err != nil {
		t.Fatal(err)
	}

	// Scribble over the region so we can detect the zero fill
	for addr := regionStart; addr < regionEnd; addr++ {
		*(*byte)(unsafe.Pointer(addr)) = 0xbd
	}

	seen := make(map[mm.Frame]bool)
	for i := 0; i < 4; i++ {
		frame, err := a.AllocFrame()
		if err != nil {
			t.Fatalf("[alloc %d] unexpected error: %v", i, err)
		}
		if seen[frame] {
			t.Fatalf("[alloc %d] frame %v returned twice", i, frame)
		}
		seen[frame] = true

		for off := uintptr(0); off < mm.PageSize; off++ {
			if *(*byte)(unsafe.Pointer(frame.Address() + off)) != 0 {
				t.Fatalf("[alloc %d] expected frame contents to be zero-filled", i)
			}
		}
	}

	if _, err := a.AllocFrame(); err != errOutOfMemory {
		t.Fatalf("expected error %v once the region is exhausted; got %v", errOutOfMemory, err)
	}
}

func TestFreeFrameRecyclesThroughFreeList(t *testing.T) {
	var a frameAllocator

	regionStart, regionEnd := testRegion(t, 4)
	if err := a.init(regionStart, regionEnd); err != nil {
		t.Fatal(err)
	}

	frame, err := a.AllocFrame()
	if err != nil {
		t.Fatal(err)
	}

	if err = a.FreeFrame(frame); err != nil {
		t.Fatal(err)
	}
	if exp, got := uint64(0), a.allocCount; exp != got {
		t.Fatalf("expected allocCount to drop to %d; got %d", exp, got)
	}

	// The recycled frame must be preferred over untouched region frames
	next, err := a.AllocFrame()
	if err != nil {
		t.Fatal(err)
	}
	if next != frame {
		t.Fatalf("expected the released frame %v to be recycled; got %v", frame, next)
	}
}

func TestFreeFrameRejectsForeignFrames(t *testing.T) {
	var a frameAllocator

	regionStart, regionEnd := testRegion(t, 2)
	if err := a.init(regionStart, regionEnd); err != nil {
		t.Fatal(err)
	}

	// Below the region
	if err := a.FreeFrame(mm.FrameFromAddress(regionStart) - 1); err != errFrameNotOwned {
		t.Fatalf("expected error %v; got %v", errFrameNotOwned, err)
	}

	// Inside the region but never allocated
	if err := a.FreeFrame(mm.FrameFromAddress(regionStart)); err != errFrameNotOwned {
		t.Fatalf("expected error %v; got %v", errFrameNotOwned, err)
	}
}

func TestInitRegistersFrameProvider(t *testing.T) {
	defer func() {
		mm.SetFrameAllocator(nil)
		mm.SetFrameReleaser(nil)
	}()

	regionStart, regionEnd := testRegion(t, 4)
	if err := Init(regionStart, regionEnd); err != nil {
		t.Fatal(err)
	}

	frame, err := mm.AllocFrame()
	if err != nil {
		t.Fatal(err)
	}

	if err = mm.FreeFrame(frame); err != nil {
		t.Fatal(err)
	}
}

// testRegion allocates a buffer spanning pageCount pages and returns its
// page-aligned [start, end) addresses.
func testRegion(t *testing.T, pageCount uintptr) (uintptr, uintptr) {
	t.Helper()

	buf := make([]byte, (pageCount+1)*mm.PageSize)
	start := (uintptr(unsafe.Pointer(&buf[0])) + mm.PageSize - 1) &^ (mm.PageSize - 1)

	// Anchor the buffer for the duration of the test
	t.Cleanup(func() { _ = buf[0] })

	return start, start + pageCount*mm.PageSize
}
