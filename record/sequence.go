package record

import "github.com/golin/golin/internal/seq"

// Sequence is a replayable sequence of records. On construction the
// underlying iterator is forked so one branch can peek the first item: if
// that item is a header it becomes the sequence's Header and is excluded from
// the data view. The header, once resolved, never changes, and the data view
// never yields header rows.
type Sequence struct {
	data        *seq.Sequence[*Record]
	headerPeek  seq.Pull[*Record]
	header      *Record
	headerKnown bool
}

// NewSequence wraps a single-pass record iterator.
func NewSequence(pull seq.Pull[*Record]) *Sequence {
	base := seq.New(pull)
	dataBranch := base.Iter()
	data := seq.New(func() (*Record, bool) {
		for {
			r, ok := dataBranch()
			if !ok {
				return nil, false
			}
			if r.IsHeader() {
				continue
			}
			return r, true
		}
	})
	return &Sequence{data: data, headerPeek: base.Iter()}
}

// Header returns the header record, or nil if the input has none. The result
// is computed once and cached.
func (s *Sequence) Header() *Record {
	if !s.headerKnown {
		s.headerKnown = true
		if first, ok := s.headerPeek(); ok && first.IsHeader() {
			s.header = first
		}
	}
	return s.header
}

// Iter returns a fresh replayable branch over the data records.
func (s *Sequence) Iter() seq.Pull[*Record] { return s.data.Iter() }

func (s *Sequence) Index(i int) (*Record, error) { return s.data.Index(i) }

func (s *Sequence) Slice(start, stop *int) *Sequence {
	return &Sequence{data: s.data.Slice(start, stop), header: s.Header(), headerKnown: true}
}

func (s *Sequence) Len() int { return s.data.Len() }

func (s *Sequence) List() []*Record { return s.data.List() }
