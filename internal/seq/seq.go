// Package seq implements lazy, replayable sequences over single-pass iterators.
package seq

import "errors"

// ErrIndexOutOfRange is returned by Index when the sequence is shorter than
// the requested index.
var ErrIndexOutOfRange = errors.New("sequence index out of range")

// Pull returns the next element of an iterator, or false when exhausted.
type Pull[T any] func() (T, bool)

// source is the shared pull-chain behind all branches of a Sequence. Elements
// pulled from the underlying iterator are buffered so later branches can
// replay them. Once the iterator reports exhaustion it is never pulled again.
type source[T any] struct {
	pull Pull[T]
	buf  []T
	done bool
}

// get returns the i'th element, pulling from the underlying iterator as
// needed to extend the buffer.
func (s *source[T]) get(i int) (T, bool) {
	for !s.done && i >= len(s.buf) {
		v, ok := s.pull()
		if !ok {
			s.done = true
			break
		}
		s.buf = append(s.buf, v)
	}
	if i < len(s.buf) {
		return s.buf[i], true
	}
	var zero T
	return zero, false
}

// materialize pulls everything remaining into the buffer.
func (s *source[T]) materialize() []T {
	for !s.done {
		v, ok := s.pull()
		if !ok {
			s.done = true
			break
		}
		s.buf = append(s.buf, v)
	}
	return s.buf
}

// Sequence is a sequence view over a possibly single-pass iterator. Forward
// iteration is replayable: every call to Iter observes the full sequence from
// the start. Non-negative indexing and slicing are served by incremental
// consumption; negative indexes, Len, and List force full materialization,
// after which all operations serve from the cached buffer.
type Sequence[T any] struct {
	src *source[T]
}

// New creates a Sequence over the given pull iterator. The iterator must not
// be used by the caller afterwards.
func New[T any](pull Pull[T]) *Sequence[T] {
	return &Sequence[T]{src: &source[T]{pull: pull}}
}

// FromSlice creates an already-materialized Sequence backed by items.
func FromSlice[T any](items []T) *Sequence[T] {
	return &Sequence[T]{src: &source[T]{buf: items, done: true}}
}

// Iter returns a fresh branch that yields the full sequence from the start.
func (s *Sequence[T]) Iter() Pull[T] {
	i := 0
	return func() (T, bool) {
		v, ok := s.src.get(i)
		if ok {
			i++
		}
		return v, ok
	}
}

// Index returns the i'th element. Negative indexes count from the end and
// force materialization.
func (s *Sequence[T]) Index(i int) (T, error) {
	if i < 0 {
		list := s.src.materialize()
		i += len(list)
		if i < 0 || i >= len(list) {
			var zero T
			return zero, ErrIndexOutOfRange
		}
		return list[i], nil
	}
	v, ok := s.src.get(i)
	if !ok {
		var zero T
		return zero, ErrIndexOutOfRange
	}
	return v, nil
}

// Slice returns the lazy sub-sequence [start:stop). A nil bound means the
// slice is open on that side. Any negative bound forces materialization.
func (s *Sequence[T]) Slice(start, stop *int) *Sequence[T] {
	if (start != nil && *start < 0) || (stop != nil && *stop < 0) {
		list := s.src.materialize()
		lo, hi := sliceBounds(start, stop, len(list))
		return FromSlice(list[lo:hi])
	}
	lo := 0
	if start != nil {
		lo = *start
	}
	i := lo
	return New(func() (T, bool) {
		if stop != nil && i >= *stop {
			var zero T
			return zero, false
		}
		v, ok := s.src.get(i)
		if ok {
			i++
		}
		return v, ok
	})
}

func sliceBounds(start, stop *int, n int) (int, int) {
	lo, hi := 0, n
	if start != nil {
		lo = clampIndex(*start, n)
	}
	if stop != nil {
		hi = clampIndex(*stop, n)
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// Len returns the number of elements, forcing full materialization.
func (s *Sequence[T]) Len() int {
	return len(s.src.materialize())
}

// List materializes the sequence and returns the cached backing slice. The
// caller must not modify the result.
func (s *Sequence[T]) List() []T {
	return s.src.materialize()
}

// Concat returns a lazy sequence yielding all of s followed by all elements
// produced by next.
func Concat[T any](s *Sequence[T], next Pull[T]) *Sequence[T] {
	first := s.Iter()
	inFirst := true
	return New(func() (T, bool) {
		if inFirst {
			if v, ok := first(); ok {
				return v, true
			}
			inFirst = false
		}
		return next()
	})
}
