package kfmt

import (
	"github.com/jordanhubbard/vib-OS-sub000/kernel"
)

var (
	// haltFn stops the current core. It is wired to the arch-specific halt
	// instruction at init time and overridden by tests.
	haltFn = func() {
		for {
		}
	}

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// Panic prints the supplied error to the active output sink and halts the
// CPU. Calls to Panic never return.
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		errRuntimePanic.Message = t
		err = errRuntimePanic
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	Printf("\n-----------------------------------\n")
	if err != nil {
		Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Printf("*** kernel panic: system halted ***")
	Printf("\n-----------------------------------\n")

	haltFn()
}
