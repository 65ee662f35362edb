// Package kfmt provides formatted output primitives that are safe to use
// before the Go runtime is fully initialized: no call in this package
// allocates memory.
package kfmt

import "io"

// numBufSize is the size of the shared buffer used for formatting numbers.
// It is large enough for a 64-bit value in base 8 plus a sign.
const numBufSize = 32

var (
	// outputSink is the io.Writer where Printf sends its output. While it
	// is nil (before a console is registered) output accumulates in the
	// earlyBuffer ring buffer instead.
	outputSink io.Writer

	// earlyBuffer captures Printf output generated before a sink is set.
	earlyBuffer ringBuffer

	// singleByte is a shared one-byte buffer used to emit individual
	// characters without triggering a string-to-slice conversion (which
	// would allocate).
	singleByte = []byte{0}

	// numBuf is a shared buffer for formatting numbers. Output happens
	// either before the scheduler exists or under a subsystem lock, so
	// sharing it is safe.
	numBuf = make([]byte, numBufSize)

	digits = []byte("0123456789abcdef")

	missingArg = []byte("(MISSING)")
	extraArg   = []byte("%!(EXTRA)")
	badVerb    = []byte("%!(NOVERB)")
	wrongType  = []byte("%!(WRONGTYPE)")
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
)

// SetOutputSink registers w as the target for Printf output and drains any
// output captured in the early boot ring buffer into it.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyBuffer)
	}
}

// Printf formats its arguments and writes them to the registered output
// sink. Before a sink is registered the output lands in a ring buffer that
// is drained by SetOutputSink.
//
// The supported verbs are a subset of the fmt package ones:
//
//	%s  string or []byte
//	%d  integer, base 10
//	%x  integer, base 16
//	%o  integer, base 8
//	%t  boolean
//
// A decimal width may precede the verb. Strings and base-10 integers are
// left-padded with spaces, base-8 and base-16 integers with zeroes.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves like Printf but writes the formatted output to w.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var nextArg int

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			emitByte(w, format[i])
			continue
		}

		// Scan the optional width and the verb
		i++
		if i < len(format) && format[i] == '%' {
			emitByte(w, '%')
			continue
		}

		width := 0
		for ; i < len(format) && format[i] >= '0' && format[i] <= '9'; i++ {
			width = width*10 + int(format[i]-'0')
		}

		if i == len(format) {
			doWrite(w, badVerb)
			break
		}

		switch verb := format[i]; verb {
		case 'd', 'x', 'o', 's', 't':
			if nextArg >= len(args) {
				doWrite(w, missingArg)
				continue
			}

			arg := args[nextArg]
			nextArg++

			switch verb {
			case 'd':
				fmtInt(w, arg, 10, width)
			case 'x':
				fmtInt(w, arg, 16, width)
			case 'o':
				fmtInt(w, arg, 8, width)
			case 's':
				fmtString(w, arg, width)
			case 't':
				fmtBool(w, arg)
			}
		default:
			doWrite(w, badVerb)
		}
	}

	for ; nextArg < len(args); nextArg++ {
		doWrite(w, extraArg)
	}
}

// fmtBool writes the string form of a boolean argument.
func fmtBool(w io.Writer, arg interface{}) {
	v, isBool := arg.(bool)
	switch {
	case !isBool:
		doWrite(w, wrongType)
	case v:
		doWrite(w, trueBytes)
	default:
		doWrite(w, falseBytes)
	}
}

// fmtString writes a string or []byte argument left-padded with spaces up to
// width characters.
func fmtString(w io.Writer, arg interface{}, width int) {
	switch v := arg.(type) {
	case string:
		emitPad(w, ' ', width-len(v))
		// emit byte-at-a-time; []byte(v) would allocate
		for i := 0; i < len(v); i++ {
			emitByte(w, v[i])
		}
	case []byte:
		emitPad(w, ' ', width-len(v))
		doWrite(w, v)
	default:
		doWrite(w, wrongType)
	}
}

// fmtInt writes an integer argument of any built-in integer type in the
// requested base, left-padded up to width characters.
func fmtInt(w io.Writer, arg interface{}, base, width int) {
	var (
		uval     uint64
		negative bool
	)

	switch v := arg.(type) {
	case uint:
		uval = uint64(v)
	case uint8:
		uval = uint64(v)
	case uint16:
		uval = uint64(v)
	case uint32:
		uval = uint64(v)
	case uint64:
		uval = v
	case uintptr:
		uval = uint64(v)
	case int:
		uval, negative = absolute(int64(v))
	case int8:
		uval, negative = absolute(int64(v))
	case int16:
		uval, negative = absolute(int64(v))
	case int32:
		uval, negative = absolute(int64(v))
	case int64:
		uval, negative = absolute(v)
	default:
		doWrite(w, wrongType)
		return
	}

	index := len(numBuf)
	for {
		index--
		numBuf[index] = digits[uval%uint64(base)]
		uval /= uint64(base)
		if uval == 0 {
			break
		}
	}

	if negative {
		index--
		numBuf[index] = '-'
	}

	padCh := byte('0')
	if base == 10 {
		padCh = ' '
	}
	emitPad(w, padCh, width-(len(numBuf)-index))

	doWrite(w, numBuf[index:])
}

// absolute returns the magnitude of v and whether it was negative.
func absolute(v int64) (uint64, bool) {
	if v < 0 {
		return uint64(-v), true
	}
	return uint64(v), false
}

// emitPad writes count copies of ch. Negative counts are ignored.
func emitPad(w io.Writer, ch byte, count int) {
	for i := 0; i < count; i++ {
		emitByte(w, ch)
	}
}

// emitByte writes a single byte through the shared one-byte buffer.
func emitByte(w io.Writer, ch byte) {
	singleByte[0] = ch
	doWrite(w, singleByte)
}

// doWrite sends p to w, redirecting to the early boot ring buffer when no
// writer is supplied.
func doWrite(w io.Writer, p []byte) {
	if w == nil {
		w = &earlyBuffer
	}
	w.Write(p)
}
