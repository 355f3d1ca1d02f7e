// Package arena provides a linear allocator for decode-scoped byte
// buffers: allocation bumps an offset, and everything allocated inside a
// frame is released in one step when the frame ends. Nothing is freed
// individually.
//
// The decoder itself borrows from its input and needs no allocator; the
// arena serves callers that copy decoded payloads out of the input's
// lifetime, batch-parse many modules, or want allocation locality for the
// byte blobs a module carries (custom sections, initializer expressions,
// uninterpreted section payloads).
package arena

// Arena hands out byte slices carved from internally managed chunks.
// When the current chunk is exhausted a larger one is started; previously
// returned slices stay valid because old chunks are retained until Reset
// or a frame release drops them. Not safe for concurrent use.
type Arena struct {
	cur  []byte
	off  int
	full [][]byte
	used int
}

// New returns an arena whose first chunk holds size bytes. A size below
// one falls back to a small default.
func New(size int) *Arena {
	if size < 1 {
		size = 1 << 10
	}
	return &Arena{cur: make([]byte, size)}
}

// Alloc returns a zeroed slice of n bytes with capacity exactly n. The
// slice remains valid until the enclosing frame is released or the arena
// is reset. A negative n panics.
func (a *Arena) Alloc(n int) []byte {
	if n < 0 {
		panic("arena: negative allocation size")
	}
	if n > len(a.cur)-a.off {
		a.grow(n)
	}
	p := a.cur[a.off : a.off+n : a.off+n]
	a.off += n
	a.used += n
	clear(p)
	return p
}

func (a *Arena) grow(n int) {
	size := 2 * len(a.cur)
	if size < n {
		size = n
	}
	a.full = append(a.full, a.cur)
	a.cur = make([]byte, size)
	a.off = 0
}

// Used reports the total bytes handed out since the last Reset, net of
// released frames.
func (a *Arena) Used() int { return a.used }

// Reset releases every allocation at once. The most recent chunk is kept
// for reuse; outstanding slices and frames become invalid.
func (a *Arena) Reset() {
	a.full = nil
	a.off = 0
	a.used = 0
}

// Frame marks the arena's current position. Releasing the returned frame
// discards everything allocated after the mark, making the memory
// reusable. Frames must be released in reverse order of creation.
func (a *Arena) Frame() Frame {
	return Frame{a: a, nfull: len(a.full), off: a.off, used: a.used}
}

// Frame is a point-in-time mark on an Arena. See Arena.Frame.
type Frame struct {
	a     *Arena
	nfull int
	off   int
	used  int
}

// Release rewinds the arena to the frame's mark. Releasing a frame whose
// mark no longer exists, because of an intervening Reset or an
// out-of-order release, panics.
func (f Frame) Release() {
	a := f.a
	if a == nil || f.nfull > len(a.full) {
		panic("arena: frame released out of order")
	}
	if f.nfull < len(a.full) {
		a.cur = a.full[f.nfull]
		a.full = a.full[:f.nfull]
	}
	a.off = f.off
	a.used = f.used
}
