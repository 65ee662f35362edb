package sync

import "github.com/jordanhubbard/vib-OS-sub000/kernel/cpu"

func init() {
	yieldFn = cpu.Yield
}
