package main

import "fmt"

const (
	// maxItem is the capacity of the per-directive scratch buffer
	maxItem = 512

	// Widest numeric render the directive grammar admits: '%99.99f' of
	// -1.8e308 is a sign, 309 integer digits, a point and 99 decimals.
	// Integer renders top out at a sign, a "0x" prefix and 99 digits.
	maxFloatItem   = 1 + 309 + 1 + maxDigitsValue
	maxIntegerItem = 1 + 2 + maxDigitsValue
	maxNumericItem = maxFloatItem

	// maxDigitsValue is the largest width or precision two digits can spell
	maxDigitsValue = 99
)

// Compile-time proof that no directive render outgrows the item buffer.
var (
	_ [maxItem - maxNumericItem]struct{}
	_ [maxNumericItem - maxIntegerItem]struct{}
	_ [maxItem - maxDigitsValue]struct{}
)

// outputBuffer accumulates the rendered result. It only grows; limit caps its
// size in bytes (0 means no cap) and growth past it is an allocation failure.
type outputBuffer struct {
	buf   []byte
	limit int
	fn    string
}

func newOutputBuffer(fn string, sizeHint, limit int) *outputBuffer {
	if limit > 0 && sizeHint > limit {
		sizeHint = limit
	}
	return &outputBuffer{buf: make([]byte, 0, sizeHint), limit: limit, fn: fn}
}

// reserve makes room for n more bytes
func (b *outputBuffer) reserve(n int) error {
	need := len(b.buf) + n
	if b.limit > 0 && need > b.limit {
		return allocError(b.fn, b.limit)
	}
	if need > cap(b.buf) {
		grown := make([]byte, len(b.buf), max(need, 2*cap(b.buf)))
		copy(grown, b.buf)
		b.buf = grown
	}
	return nil
}

func (b *outputBuffer) appendByte(c byte) error {
	if err := b.reserve(1); err != nil {
		return err
	}
	b.buf = append(b.buf, c)
	return nil
}

func (b *outputBuffer) appendString(s string) error {
	if err := b.reserve(len(s)); err != nil {
		return err
	}
	b.buf = append(b.buf, s...)
	return nil
}

func (b *outputBuffer) appendBytes(p []byte) error {
	if err := b.reserve(len(p)); err != nil {
		return err
	}
	b.buf = append(b.buf, p...)
	return nil
}

// result finalizes the accumulated bytes into the returned string
func (b *outputBuffer) result() string {
	s := string(b.buf)
	b.buf = nil
	return s
}

// itemBuffer holds one rendered directive before it is appended to the output
type itemBuffer struct {
	data [maxItem]byte
	n    int
}

func (ib *itemBuffer) reset() {
	ib.n = 0
}

// printf renders one numeric directive. The capacity bound above guarantees
// fmt.Appendf writes in place and never reallocates.
func (ib *itemBuffer) printf(form string, arg interface{}) {
	out := fmt.Appendf(ib.data[:0], form, arg)
	ib.n = len(out)
}

// pad writes s padded with spaces to width columns, on the right when left is set
func (ib *itemBuffer) pad(s string, width int, left bool) {
	fill := width - len(s)
	off := 0
	if !left {
		for ; off < fill; off++ {
			ib.data[off] = ' '
		}
	}
	off += copy(ib.data[off:], s)
	if left {
		for ; fill > 0; fill-- {
			ib.data[off] = ' '
			off++
		}
	}
	ib.n = off
}

func (ib *itemBuffer) bytes() []byte {
	return ib.data[:ib.n]
}
