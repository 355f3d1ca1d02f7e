// Package multiseq packs a fixed number of independently built
// variable-length sequences into one contiguous backing slice plus an end
// offset per sub-sequence. Compared to holding each sequence in its own
// slice, this costs one allocation instead of N for what are typically
// small, short-lived sequences. The wasm package stores a function
// signature's parameter and result lists in a single 2-arity store.
//
// A Store is built exclusively through a Builder that appends elements and
// closes each sub-sequence in order. Once built, boundaries are immutable;
// views into the backing slice are borrowed, never copied.
package multiseq

// Builder assembles a Store. Elements are appended with Push and belong to
// the sub-sequence most recently opened; EndSub closes it and opens the
// next. Misuse panics: the builder is driven by decoding code, so a
// violation is a bug in that code, never a property of the input.
type Builder[T any] struct {
	backing []T
	ends    []int
	arity   int
}

// NewBuilder returns a builder for a store of exactly arity sub-sequences.
// capHint pre-sizes the backing slice for the expected total element
// count; zero is fine. An arity below one panics.
func NewBuilder[T any](arity, capHint int) *Builder[T] {
	if arity < 1 {
		panic("multiseq: arity must be at least 1")
	}
	if capHint < 0 {
		capHint = 0
	}
	return &Builder[T]{
		backing: make([]T, 0, capHint),
		ends:    make([]int, 0, arity),
		arity:   arity,
	}
}

// Push appends v to the sub-sequence currently being built. Pushing after
// the final sub-sequence has been closed panics.
func (b *Builder[T]) Push(v T) {
	if len(b.ends) == b.arity {
		panic("multiseq: Push after final sub-sequence closed")
	}
	b.backing = append(b.backing, v)
}

// EndSub closes the current sub-sequence at the present backing length.
// Calling it more times than the builder's arity panics.
func (b *Builder[T]) EndSub() {
	if len(b.ends) == b.arity {
		panic("multiseq: EndSub called more times than arity")
	}
	b.ends = append(b.ends, len(b.backing))
}

// Build consumes the builder and returns the immutable store. Every
// sub-sequence must have been closed; the builder is reset and must not be
// reused.
func (b *Builder[T]) Build() Store[T] {
	if len(b.ends) != b.arity {
		panic("multiseq: Build with unclosed sub-sequences")
	}
	s := Store[T]{backing: b.backing, ends: b.ends}
	*b = Builder[T]{}
	return s
}

// Store holds arity sub-sequences in one backing slice. ends[i] is the
// exclusive end of sub-sequence i, with an implicit start of 0; ends are
// non-decreasing and the last equals len(backing). The zero value is an
// empty store of arity 0.
type Store[T any] struct {
	backing []T
	ends    []int
}

// Arity returns the number of sub-sequences.
func (s Store[T]) Arity() int { return len(s.ends) }

// Len returns the total element count across all sub-sequences.
func (s Store[T]) Len() int { return len(s.backing) }

// Sub returns a borrowed view of sub-sequence i. The view shares the
// store's backing slice; its capacity is clipped to the sub-sequence
// boundary so appends cannot reach a neighbor. An index outside
// [0, Arity()) panics.
func (s Store[T]) Sub(i int) []T {
	if i < 0 || i >= len(s.ends) {
		panic("multiseq: sub-sequence index out of range")
	}
	start := 0
	if i > 0 {
		start = s.ends[i-1]
	}
	return s.backing[start:s.ends[i]:s.ends[i]]
}
