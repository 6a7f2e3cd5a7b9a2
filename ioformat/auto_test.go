package ioformat

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/record"
)

func TestAutoParserCsv(t *testing.T) {
	input := "name,age\nalice,30\nbob,25\n"
	p := NewAutoParser("", "")
	records := drainRecords(p.Records(strings.NewReader(input)))
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 records, got %d", len(records))
	}
	if !records[0].IsHeader() {
		t.Fatal("expected detected header")
	}
	if !reflect.DeepEqual(records[1].Strings(), []string{"alice", "30"}) {
		t.Errorf("unexpected record: %v", records[1].Strings())
	}
}

func TestAutoParserTsv(t *testing.T) {
	input := "a\tb\n1\t2\n3\t4\n"
	p := NewAutoParser("", "")
	p.SetHasHeader(false)
	records := drainRecords(p.Records(strings.NewReader(input)))
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if !reflect.DeepEqual(records[0].Strings(), []string{"a", "b"}) {
		t.Errorf("unexpected record: %v", records[0].Strings())
	}
}

func TestAutoParserJson(t *testing.T) {
	// A compact JSON document is full of commas; it must parse as JSON, not
	// sniff as CSV.
	input := `[{"color": "red", "value": "#f00"}, {"color": "green", "value": "#0f0"}]`
	p := NewAutoParser("", "")
	records := drainRecords(p.Records(strings.NewReader(input)))
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 records, got %d", len(records))
	}
	if !reflect.DeepEqual(records[0].Strings(), []string{"color", "value"}) {
		t.Errorf("unexpected header: %v", records[0].Strings())
	}
	if !reflect.DeepEqual(records[1].Strings(), []string{"red", "#f00"}) {
		t.Errorf("unexpected record: %v", records[1].Strings())
	}

	// A single top-level object is a one-row table.
	p = NewAutoParser("", "")
	records = drainRecords(p.Records(strings.NewReader(`{"a": 1}`)))
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 record, got %d", len(records))
	}
	if !reflect.DeepEqual(records[1].Strings(), []string{"1"}) {
		t.Errorf("unexpected record: %v", records[1].Strings())
	}
}

func TestAutoParserJsonFallback(t *testing.T) {
	// Braces that are not valid JSON fall back to text parsing.
	input := "{not json at all\nsecond line\n"
	p := NewAutoParser("", "")
	p.SetHasHeader(false)
	records := drainRecords(p.Records(strings.NewReader(input)))
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !reflect.DeepEqual(records[0].Strings(), []string{"{not", "json", "at", "all"}) {
		t.Errorf("unexpected record: %v", records[0].Strings())
	}
	if !reflect.DeepEqual(records[1].Strings(), []string{"second", "line"}) {
		t.Errorf("unexpected record: %v", records[1].Strings())
	}
}

func TestAutoParserTxt(t *testing.T) {
	input := "alpha beta\ngamma delta\n"
	p := NewAutoParser("", "")
	p.SetHasHeader(false)
	records := drainRecords(p.Records(strings.NewReader(input)))
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !reflect.DeepEqual(records[0].Strings(), []string{"alpha", "beta"}) {
		t.Errorf("unexpected record: %v", records[0].Strings())
	}
}

func TestAutoPrinterInfer(t *testing.T) {
	dict := obj.NewDict()
	dict.Set("a", int64(1))
	nested := obj.NewDict()
	nested.Set("inner", []interface{}{int64(1)})

	header := record.NewHeader([]string{"a"}, "")
	table := record.NewSequence(pullOf(header, record.New([]string{"1"}, "", header)))

	p := &AutoPrinter{}
	tests := []struct {
		name      string
		result    interface{}
		suggested string
		want      string
	}{
		{"dict", dict, "", "json"},
		{"dictWinsOverSuggestion", dict, "csv", "json"},
		{"scalar", int64(42), "", "txt"},
		{"string", "hello", "", "txt"},
		{"table", table, "", "markdown"},
		{"suggested", table, "csv", "csv"},
		{"nestedRows", []interface{}{[]interface{}{[]interface{}{int64(1)}}}, "", "json"},
		{"dictRows", []interface{}{dict}, "", "markdown"},
		{"nestedDictRows", []interface{}{nested}, "", "json"},
		{"emptyList", []interface{}{}, "", "markdown"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := p.infer(test.result, test.suggested); got != test.want {
				t.Errorf("expected %q, got %q", test.want, got)
			}
		})
	}
}

func TestAutoPrinterPrint(t *testing.T) {
	var buf bytes.Buffer
	p := &AutoPrinter{}
	if err := p.Print(&buf, "Bucks", PrinterConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "Bucks\n" {
		t.Errorf("expected %q, got %q", "Bucks\n", buf.String())
	}
}
