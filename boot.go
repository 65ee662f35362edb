package main

import (
	"github.com/jordanhubbard/vib-OS-sub000/kernel/kmain"
)

// main is the Go entrypoint jumped to by the early boot assembly after it
// has set up the stack and cleared the BSS. It must never return.
func main() {
	kmain.Kmain()
}
