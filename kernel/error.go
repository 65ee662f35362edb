package kernel

// Error describes an error raised by a kernel subsystem. Kernel errors are
// always declared as package-level variables pointing to a pre-allocated
// Error value; the Go allocator is not usable this far down the stack so
// errors.New and fmt.Errorf are off the table.
type Error struct {
	// Module is the name of the subsystem that raised the error.
	Module string

	// Message describes what went wrong.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
