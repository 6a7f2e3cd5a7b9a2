package seq

// ReplayIter is an advancing cursor over a pull iterator. It remembers the
// element it is positioned at so repeated reads between advances observe the
// same value.
type ReplayIter[T any] struct {
	pull    Pull[T]
	pending []T
	cur     T
	started bool
}

// NewReplayIter creates a cursor over pull. The iterator must not be used by
// the caller afterwards.
func NewReplayIter[T any](pull Pull[T]) *ReplayIter[T] {
	return &ReplayIter[T]{pull: pull}
}

// Next advances the cursor and returns the new current element.
func (it *ReplayIter[T]) Next() (T, bool) {
	if len(it.pending) > 0 {
		it.cur = it.pending[0]
		it.pending = it.pending[1:]
		it.started = true
		return it.cur, true
	}
	v, ok := it.pull()
	if !ok {
		return v, false
	}
	it.cur = v
	it.started = true
	return v, true
}

// CurrentOrFirst returns the element the cursor is positioned at, advancing
// to the first element if the cursor has not started yet.
func (it *ReplayIter[T]) CurrentOrFirst() (T, bool) {
	if it.started {
		return it.cur, true
	}
	return it.Next()
}

// HasMultiple reports whether at least two elements remain ahead of the
// cursor, peeking without consuming them.
func (it *ReplayIter[T]) HasMultiple() bool {
	for len(it.pending) < 2 {
		v, ok := it.pull()
		if !ok {
			break
		}
		it.pending = append(it.pending, v)
	}
	return len(it.pending) >= 2
}
