package ioformat

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/record"
)

func TestSplitRecords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		sep   string
		want  []string
	}{
		{"newline", "a\nb\nc\n", "\n", []string{"a", "b", "c"}},
		{"noTrailingSep", "a\nb", "\n", []string{"a", "b"}},
		{"emptyRecords", "a\n\nb", "\n", []string{"a", "", "b"}},
		{"regexSep", "a1b22c", "[0-9]+", []string{"a", "b", "c"}},
		{"empty", "", "\n", nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pull := SplitRecords(strings.NewReader(test.input), test.sep, 0)
			var got []string
			for {
				b, ok := pull()
				if !ok {
					break
				}
				got = append(got, string(b))
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("expected %q, got %q", test.want, got)
			}
		})
	}
}

func TestSplitRecordsLimit(t *testing.T) {
	input := strings.Repeat("x", 5000)
	err := Catch(func() error {
		pull := SplitRecords(strings.NewReader(input), "\n", 4000)
		pull()
		return nil
	})
	want := "unable to detect input format: try specifying the input format with -i"
	if err == nil || err.Error() != want {
		t.Errorf("expected %q, got %v", want, err)
	}
}

func TestTxtParserRecords(t *testing.T) {
	input := "alpha beta\ngamma\tdelta\n"
	p := NewTxtParser("", "")
	p.SetHasHeader(false)
	records := drainRecords(p.Records(strings.NewReader(input)))
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !reflect.DeepEqual(records[0].Strings(), []string{"alpha", "beta"}) {
		t.Errorf("unexpected record: %v", records[0].Strings())
	}
	// Tabs separate fields too, and the raw source keeps them.
	if !reflect.DeepEqual(records[1].Strings(), []string{"gamma", "delta"}) {
		t.Errorf("unexpected record: %v", records[1].Strings())
	}
	if records[1].Source() != "gamma\tdelta" {
		t.Errorf("unexpected source: %q", records[1].Source())
	}
}

func TestTxtParserCustomSeparators(t *testing.T) {
	p := NewTxtParser(";", ":")
	p.SetHasHeader(false)
	records := drainRecords(p.Records(strings.NewReader("a:b;c:d")))
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !reflect.DeepEqual(records[0].Strings(), []string{"a", "b"}) {
		t.Errorf("unexpected record: %v", records[0].Strings())
	}
}

func TestTxtPrinter(t *testing.T) {
	header := record.NewHeader([]string{"name", "age"}, "name age")
	tests := []struct {
		name   string
		result interface{}
		want   string
	}{
		{"scalar", int64(42), "42\n"},
		{"string", "hello", "hello\n"},
		{"namedField", record.NewField("30", "age"), "age\n30\n"},
		{"unnamedField", record.NewField("30", ""), "30\n"},
		{"record", record.New([]string{"alice", "30"}, "alice 30", header), "name age\nalice 30\n"},
		{"list", []interface{}{int64(1), int64(2)}, "1\n2\n"},
		{"tupleRow", obj.Tuple{int64(1), int64(2)}, "1 2\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := &TxtPrinter{}
			if err := p.Print(&buf, test.result, PrinterConfig{}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if buf.String() != test.want {
				t.Errorf("expected %q, got %q", test.want, buf.String())
			}
		})
	}
}

func TestTxtPrinterSeparators(t *testing.T) {
	var buf bytes.Buffer
	p := &TxtPrinter{FieldSeparator: ",", RecordSeparator: ";"}
	rows := record.NewSequence(pullOf(
		record.New([]string{"1", "2"}, "", nil),
		record.New([]string{"3", "4"}, "", nil),
	))
	if err := p.Print(&buf, rows, PrinterConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "1,2;3,4;" {
		t.Errorf("expected %q, got %q", "1,2;3,4;", buf.String())
	}
}

func TestTxtPrinterHeaderOverride(t *testing.T) {
	var buf bytes.Buffer
	p := &TxtPrinter{}
	err := p.Print(&buf, []interface{}{int64(1)}, PrinterConfig{Header: []string{"count"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "count\n1\n" {
		t.Errorf("expected %q, got %q", "count\n1\n", buf.String())
	}
}
