package ioformat

import (
	"testing"

	"github.com/golin/golin/record"
)

func rows(lines ...[]string) []*record.Record {
	out := make([]*record.Record, len(lines))
	for i, fields := range lines {
		out[i] = record.New(fields, "", nil)
	}
	return out
}

func TestHasHeader(t *testing.T) {
	tests := []struct {
		name string
		rows []*record.Record
		want bool
	}{
		{
			"namesOverNumbers",
			rows([]string{"name", "age"}, []string{"alice", "30"}, []string{"bob", "25"}),
			true,
		},
		{
			"allNumbers",
			rows([]string{"1", "2"}, []string{"3", "4"}, []string{"5", "6"}),
			false,
		},
		{
			"headerFitsTypes",
			// First row looks just like the data: same string lengths.
			rows([]string{"aa", "bb"}, []string{"cc", "dd"}, []string{"ee", "ff"}),
			false,
		},
		{
			"mixedColumnsDisqualified",
			// Column types flip between rows, so neither column votes.
			rows([]string{"h1", "h2"}, []string{"1", "abc"}, []string{"x", "2"}),
			false,
		},
		{
			"majorityWins",
			// One column votes for, one against: no strict majority.
			rows([]string{"name", "30"}, []string{"alice", "31"}, []string{"bobby", "32"}),
			false,
		},
		{"empty", nil, false},
		{"headerOnly", rows([]string{"a", "b"}), false},
		{
			"tooManyIrregularRows",
			rows(
				[]string{"a", "b"},
				[]string{"1"}, []string{"2"}, []string{"3"},
				[]string{"4"}, []string{"5"},
			),
			false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := HasHeader(test.rows); got != test.want {
				t.Errorf("expected %v, got %v", test.want, got)
			}
		})
	}
}

func TestHasHeaderLateRowsVote(t *testing.T) {
	// The first nine data rows are all ints; rows ten through twenty are
	// strings. All twenty rows vote, so the column type is inconsistent and
	// the column is disqualified.
	sample := rows([]string{"name"})
	for i := 1; i <= 9; i++ {
		sample = append(sample, rows([]string{string(rune('0' + i))})...)
	}
	for _, s := range []string{"abc", "de", "fghi", "jk", "lmnop", "qr", "stu", "vw", "xyz", "ab", "cd"} {
		sample = append(sample, rows([]string{s})...)
	}
	if HasHeader(sample) {
		t.Error("expected no header once the later string rows disqualify the column")
	}
}

func TestHasHeaderSampleCap(t *testing.T) {
	// Rows beyond the twentieth data row do not vote: the trailing strings
	// are ignored and the int column still wins.
	sample := rows([]string{"count"})
	for i := 0; i < 20; i++ {
		sample = append(sample, rows([]string{"7"})...)
	}
	sample = append(sample, rows([]string{"abc"}, []string{"defgh"})...)
	if !HasHeader(sample) {
		t.Error("expected header: rows past the sample cap should not vote")
	}
}

func TestHasHeaderFloatColumn(t *testing.T) {
	sample := rows(
		[]string{"price", "qty"},
		[]string{"1.5", "2"},
		[]string{"2.25", "3"},
	)
	if !HasHeader(sample) {
		t.Error("expected header over float and int columns")
	}
}
