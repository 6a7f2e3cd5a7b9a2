package seq

import (
	"reflect"
	"testing"
)

// counting returns a pull iterator over 0..n-1 that records how many times
// the underlying source was pulled.
func counting(n int, pulls *int) Pull[int] {
	i := 0
	return func() (int, bool) {
		*pulls++
		if i >= n {
			return 0, false
		}
		v := i
		i++
		return v, true
	}
}

func drain[T any](pull Pull[T]) []T {
	var out []T
	for {
		v, ok := pull()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestIterReplay(t *testing.T) {
	pulls := 0
	s := New(counting(3, &pulls))

	first := drain(s.Iter())
	second := drain(s.Iter())
	want := []int{0, 1, 2}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("first branch: expected %v, got %v", want, first)
	}
	if !reflect.DeepEqual(second, want) {
		t.Errorf("second branch: expected %v, got %v", want, second)
	}
	if pulls != 4 {
		t.Errorf("expected 4 pulls of the underlying iterator, got %d", pulls)
	}
}

func TestInterleavedBranches(t *testing.T) {
	pulls := 0
	s := New(counting(4, &pulls))
	a := s.Iter()
	b := s.Iter()

	var got []int
	for i := 0; i < 4; i++ {
		va, _ := a()
		vb, _ := b()
		got = append(got, va, vb)
	}
	want := []int{0, 0, 1, 1, 2, 2, 3, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestIndex(t *testing.T) {
	pulls := 0
	s := New(counting(5, &pulls))

	v, err := s.Index(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 2 {
		t.Errorf("expected 2, got %d", v)
	}
	// Non-negative indexing consumes only what it needs.
	if pulls != 3 {
		t.Errorf("expected 3 pulls, got %d", pulls)
	}

	v, err = s.Index(0)
	if err != nil || v != 0 {
		t.Errorf("expected 0 from buffer, got %d (err %v)", v, err)
	}
	if pulls != 3 {
		t.Errorf("expected replay from buffer, got %d pulls", pulls)
	}

	if _, err = s.Index(5); err != ErrIndexOutOfRange {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestIndexNegative(t *testing.T) {
	s := New(counting(5, new(int)))
	v, err := s.Index(-1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 4 {
		t.Errorf("expected 4, got %d", v)
	}
	if _, err = s.Index(-6); err != ErrIndexOutOfRange {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestSlice(t *testing.T) {
	intp := func(i int) *int { return &i }
	tests := []struct {
		name        string
		start, stop *int
		want        []int
	}{
		{"both", intp(1), intp(3), []int{1, 2}},
		{"openStop", intp(3), nil, []int{3, 4}},
		{"openStart", nil, intp(2), []int{0, 1}},
		{"openBoth", nil, nil, []int{0, 1, 2, 3, 4}},
		{"empty", intp(3), intp(3), nil},
		{"negStart", intp(-2), nil, []int{3, 4}},
		{"negStop", nil, intp(-1), []int{0, 1, 2, 3}},
		{"negPastStart", intp(-10), intp(2), []int{0, 1}},
		{"inverted", intp(4), intp(1), nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := New(counting(5, new(int)))
			got := drain(s.Slice(test.start, test.stop).Iter())
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("expected %v, got %v", test.want, got)
			}
		})
	}
}

func TestSliceLazy(t *testing.T) {
	pulls := 0
	s := New(counting(100, &pulls))
	stop := 2
	got := drain(s.Slice(nil, &stop).Iter())
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("expected [0 1], got %v", got)
	}
	if pulls > 3 {
		t.Errorf("slice pulled too much: %d pulls", pulls)
	}
}

func TestLenAndList(t *testing.T) {
	s := New(counting(3, new(int)))
	if n := s.Len(); n != 3 {
		t.Errorf("expected length 3, got %d", n)
	}
	list := s.List()
	if !reflect.DeepEqual(list, []int{0, 1, 2}) {
		t.Errorf("expected [0 1 2], got %v", list)
	}
	// Len and List after materialization serve from the cache.
	if n := s.Len(); n != 3 {
		t.Errorf("expected length 3 on replay, got %d", n)
	}
}

func TestFromSlice(t *testing.T) {
	s := FromSlice([]string{"a", "b"})
	got := drain(s.Iter())
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}
	if n := s.Len(); n != 2 {
		t.Errorf("expected length 2, got %d", n)
	}
}

func TestConcat(t *testing.T) {
	s := FromSlice([]int{1, 2})
	c := Concat(s, counting(2, new(int)))
	got := drain(c.Iter())
	want := []int{1, 2, 0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	// Concatenated sequences replay too.
	again := drain(c.Iter())
	if !reflect.DeepEqual(again, want) {
		t.Errorf("expected %v on replay, got %v", want, again)
	}
}

func TestReplayIter(t *testing.T) {
	it := NewReplayIter(counting(3, new(int)))

	// CurrentOrFirst before any Next advances to the first element and
	// holds there.
	v, ok := it.CurrentOrFirst()
	if !ok || v != 0 {
		t.Fatalf("expected 0, got %d (ok=%v)", v, ok)
	}
	v, ok = it.CurrentOrFirst()
	if !ok || v != 0 {
		t.Errorf("expected 0 again, got %d (ok=%v)", v, ok)
	}

	v, ok = it.Next()
	if !ok || v != 1 {
		t.Errorf("expected 1, got %d (ok=%v)", v, ok)
	}
	v, ok = it.CurrentOrFirst()
	if !ok || v != 1 {
		t.Errorf("expected current 1, got %d (ok=%v)", v, ok)
	}

	v, ok = it.Next()
	if !ok || v != 2 {
		t.Errorf("expected 2, got %d (ok=%v)", v, ok)
	}
	if _, ok = it.Next(); ok {
		t.Error("expected exhaustion")
	}
}

func TestReplayIterHasMultiple(t *testing.T) {
	it := NewReplayIter(counting(3, new(int)))
	if !it.HasMultiple() {
		t.Fatal("expected at least two elements ahead")
	}
	// Peeking must not consume: the cursor still starts at 0.
	got := []int{}
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	if !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("expected [0 1 2], got %v", got)
	}

	single := NewReplayIter(counting(1, new(int)))
	if single.HasMultiple() {
		t.Error("expected HasMultiple false for one element")
	}
	if v, ok := single.Next(); !ok || v != 0 {
		t.Errorf("expected 0 after peek, got %d (ok=%v)", v, ok)
	}
}
