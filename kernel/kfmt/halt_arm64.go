package kfmt

import "github.com/jordanhubbard/vib-OS-sub000/kernel/cpu"

func init() {
	haltFn = cpu.Halt
}
