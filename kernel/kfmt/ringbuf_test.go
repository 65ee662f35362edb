package kfmt

import (
	"bytes"
	"io"
	"testing"
)

func TestRingBufferReadWrite(t *testing.T) {
	var rb ringBuffer

	if _, err := rb.Read(make([]byte, 1)); err != io.EOF {
		t.Fatalf("expected Read on an empty buffer to return io.EOF; got %v", err)
	}

	payload := []byte("the quick brown fox")
	if n, err := rb.Write(payload); n != len(payload) || err != nil {
		t.Fatalf("expected Write to report %d, nil; got %d, %v", len(payload), n, err)
	}

	var buf bytes.Buffer
	io.Copy(&buf, &rb)
	if exp, got := string(payload), buf.String(); exp != got {
		t.Fatalf("expected to read back %q; got %q", exp, got)
	}
}

func TestRingBufferWrapAround(t *testing.T) {
	var rb ringBuffer

	// Leave the read index mid-buffer so the next writes wrap
	pad := make([]byte, ringBufferSize-8)
	rb.Write(pad)
	io.Copy(io.Discard, &rb)

	payload := []byte("0123456789abcdef")
	rb.Write(payload)

	var buf bytes.Buffer
	io.Copy(&buf, &rb)
	if exp, got := string(payload), buf.String(); exp != got {
		t.Fatalf("expected wrapped read to return %q; got %q", exp, got)
	}
}

func TestRingBufferOverwritesOldestData(t *testing.T) {
	var rb ringBuffer

	big := make([]byte, ringBufferSize+4)
	for i := range big {
		big[i] = byte('a' + (i % 26))
	}
	rb.Write(big)

	var buf bytes.Buffer
	io.Copy(&buf, &rb)

	// One byte is sacrificed to distinguish a full buffer from an empty one
	if exp, got := ringBufferSize-1, buf.Len(); exp != got {
		t.Fatalf("expected a full buffer to retain %d bytes; got %d", exp, got)
	}

	exp := big[len(big)-(ringBufferSize-1):]
	if !bytes.Equal(exp, buf.Bytes()) {
		t.Fatal("expected the retained bytes to be the most recently written ones")
	}
}
