package kfmt

import "io"

// ringBufferSize is the capacity of the early boot output buffer. It must be
// a power of 2 so index wrapping reduces to a mask.
const ringBufferSize = 2048

// ringBuffer buffers Printf output generated before the console is up. When
// the buffer fills up the oldest bytes are overwritten; losing the head of
// the boot log beats losing its tail.
type ringBuffer struct {
	data           [ringBufferSize]byte
	rIndex, wIndex int
}

// Write appends the contents of p to the ring buffer and never fails.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.data[rb.wIndex] = b
		rb.wIndex = (rb.wIndex + 1) & (ringBufferSize - 1)
		if rb.wIndex == rb.rIndex {
			// overwrite the oldest byte
			rb.rIndex = (rb.rIndex + 1) & (ringBufferSize - 1)
		}
	}

	return len(p), nil
}

// Read copies up to len(p) buffered bytes into p returning io.EOF once the
// buffer has been fully drained.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.rIndex == rb.wIndex {
		return 0, io.EOF
	}

	// Read the contiguous chunk between rIndex and either wIndex or the
	// end of the buffer; callers loop (e.g. via io.Copy) to drain the rest.
	end := rb.wIndex
	if rb.rIndex > rb.wIndex {
		end = ringBufferSize
	}

	n := copy(p, rb.data[rb.rIndex:end])
	rb.rIndex = (rb.rIndex + n) & (ringBufferSize - 1)

	return n, nil
}
