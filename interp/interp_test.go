// Tests for the golin interpreter.
package interp_test

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/interp"
	"github.com/golin/golin/parser"
)

type interpTest struct {
	src    string
	in     string
	out    string
	err    string // error from Run must equal this
	format string // output format, "" means auto
}

// Note: a lot of these are really parser and ioformat tests too.
var interpTests = []interpTest{
	// Record scoped programs evaluate once per input record.
	{`fields[0]`, "Bucks Milwaukee 60 22 0.732\nRaptors Toronto 58 24 0.707\n",
		"Bucks\nRaptors\n", "", "txt"},
	{`record[2] + 100`, "Bucks Milwaukee 60 22 0.732\nRaptors Toronto 58 24 0.707\n",
		"160\n158\n", "", "txt"},
	{`record[0] + "!"`, "Bucks Milwaukee 60 22 0.732\nRaptors Toronto 58 24 0.707\n",
		"Bucks!\nRaptors!\n", "", "txt"},
	{`record[-1].float * 1000`, "Bucks Milwaukee 60 22 0.732\n", "732\n", "", "txt"},
	{`record[0] if record[2].int > 59`, "Bucks Milwaukee 60 22 0.732\nRaptors Toronto 58 24 0.707\n",
		"Bucks\n", "", "txt"},
	{`line.upper()`, "a b\nc d\n", "A B\nC D\n", "", "txt"},
	{`record.num`, "a\nb\nc\n", "0\n1\n2\n", "", "txt"},
	{`record.first`, "a 1\nb 2\n", "True\nFalse\n", "", "txt"},
	{`record[1].bool`, "a true\nb no\n", "True\nFalse\n", "", "txt"},

	// CSV input with a detected header: the header row names columns and is
	// excluded from the data records.
	{`record.str`, "name,wins\nBucks,60\n", "Bucks,60\n", "", "txt"},
	{`record["wins"].int * 2`, "name,wins\nBucks,60\n", "120\n", "", "txt"},
	{`record["nope"]`, "name,wins\nBucks,60\n", "", `record has no column "nope"`, "txt"},

	// Table scoped programs evaluate once for the whole input.
	{`len(records)`, "a\nb\nc\n", "3\n", "", "txt"},
	{`sum([r[1].int for r in records])`, "a 1\nb 2\nc 3\n", "6\n", "", "txt"},
	{`lines[1]`, "a\nb\nc\n", "b\n", "", "txt"},
	{`contents`, "a b\nc d\n", "a b\nc d\n\n", "", "txt"},
	{`len(file)`, "hello", "5\n", "", "txt"},
	{`" ".join(sorted([r[0].str for r in records]))`, "b\na\nc\n", "a b c\n", "", "txt"},
	{`[r[0].str.upper() for r in records]`, "a 1\nb 2\n", "A\nB\n", "", "txt"},
	{`[len(l) for l in lines if l.startswith("a")]`, "ax\nb\nabc\n", "2\n3\n", "", "txt"},

	// JSON input.
	{`cfg.parser = "jsonl"; [r["age"].int + 1 for r in records]`,
		"{\"age\": 30}\n{\"age\": 25}\n", "31\n26\n", "", "txt"},
	// Record scoped programs re-run their statements per record, so a
	// parser assignment hits the frozen parser on the second pass.
	{`cfg.parser = "jsonl"; record["age"].int + 1`, "{\"age\": 30}\n{\"age\": 25}\n",
		"", "Parsing already started, cannot set parser", "txt"},
	{`records[0][1]`, "a,b,c\n1,2,3\n", "b\n2\n", "", ""},
	{`records[0]["value"]`, `[{"color": "red", "value": "#f00"}]`, "value\n#f00\n", "", ""},
	{`jsonobj["a"]`, `{"a": 1}`, "1\n", "", ""},
	{`[o["a"] for o in jsonobjs]`, "{\"a\": 1}\n{\"a\": 2}\n", "[\n  1,\n  2\n]\n", "", ""},

	// Auto output: tables render as markdown, scalars as plain text, dicts
	// as JSON.
	{`fields[0]`, "Bucks Milwaukee 60 22 0.732\n",
		"| value |\n| ----- |\n| Bucks |\n", "", ""},
	{`{"a": 1}`, "", "{\n  \"a\": 1\n}\n", "", ""},
	{`record[2].int + 100`, "Bucks Milwaukee 60 22 0.732\n", "160\n", "", "txt"},

	// Empty input produces no output and no error for record scoped
	// programs.
	{`record[0]`, "", "", "", ""},
	{`line`, "", "", "", "txt"},

	// Scope violations.
	{`record[0] if len(records) > 0`, "a\n", "",
		"Cannot access both record scoped and table scoped variables", "txt"},
	{`fields[0] + contents`, "a\n", "",
		"Cannot access both record scoped and table scoped variables", "txt"},
	{`record[0] + line`, "a\n", "",
		`Cannot change scope from "record" to "line"`, "txt"},

	// The cfg object.
	{`cfg.parser = "csv"; records[0][1]`, "x,y\n", "y\n", "", "txt"},
	{`cfg.parser = "txt"; record[0]`, "a,b c\n", "a,b\n", "", "txt"},
	{`x = len(records); cfg.parser = "csv"; x`, "a\n", "",
		"Parsing already started, cannot set parser", "txt"},
	{`cfg.header = ("name", "count"); records`, "a 1\nb 2\n",
		"name count\na 1\nb 2\n", "", "txt"},
	{`cfg.header = 5; 1`, "", "", "header must be a tuple or list of names", "txt"},
	{`cfg.printer = "csv"; records`, "a 1\nb 2\n", "a,1\r\nb,2\r\n", "", ""},
	{`cfg.printer = "csv"; cfg.printer.print_header = True; records`,
		"a 1\nb 2\n", "0,1\r\na,1\r\nb,2\r\n", "", ""},
	{`printer = "csv"; records`, "a 1\nb 2\n", "a,1\r\nb,2\r\n", "", ""},
	{`cfg.printer = "nope"; 1`, "", "", `unrecognized output format "nope"`, ""},
	{`cfg.parser = 5; 1`, "", "", "expect `parser` to be a parser or a format name", ""},

	// Assignment statements.
	{`x = 10; y = x * 2; y + 1`, "", "21\n", "", "txt"},
	{`n = record[1].int; n * n`, "a 3\nb 4\n", "9\n16\n", "", "txt"},

	// Runtime errors carry the failing conversion or lookup.
	{`record[0].int`, "abc\n", "", `cannot convert "abc" to int`, "txt"},
	{`record[5]`, "a b\n", "", "field index out of range: 5", "txt"},
	{`nope`, "a\n", "", `name "nope" is not defined`, "txt"},
	{`1 / 0`, "", "", "division by zero", "txt"},
}

func TestInterp(t *testing.T) {
	for _, test := range interpTests {
		testName := test.src
		if len(testName) > 70 {
			testName = testName[:70]
		}
		t.Run(testName, func(t *testing.T) {
			testGolin(t, test.src, test.in, test.out, test.err, &interp.Config{
				OutputFormat: test.format,
			})
		})
	}
}

func testGolin(t *testing.T, src, in, out, errStr string, config *interp.Config) {
	t.Helper()
	prog, err := parser.ParseProgram([]byte(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	outBuf := &bytes.Buffer{}
	config.Input = strings.NewReader(in)
	config.Output = outBuf
	err = interp.Run(prog, config)
	if errStr != "" {
		if err == nil {
			t.Fatalf("expected error %q, got none", errStr)
		}
		if err.Error() != errStr {
			t.Fatalf("expected error %q, got %q", errStr, err.Error())
		}
		return
	}
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if outBuf.String() != out {
		t.Errorf("expected %q, got %q", out, outBuf.String())
	}
}

type execTest struct {
	src  string
	in   string
	want interface{}
}

var execTests = []execTest{
	// Arithmetic follows the expression language's semantics: floor
	// division and modulo round toward negative infinity, / is always
	// float.
	{`7 // 2`, "", int64(3)},
	{`-7 // 2`, "", int64(-4)},
	{`7 % 3`, "", int64(1)},
	{`-7 % 3`, "", int64(2)},
	{`2 ** 10`, "", int64(1024)},
	{`1 / 2`, "", 0.5},
	{`"ab" * 3`, "", "ababab"},
	{`[1] + [2, 3]`, "", []interface{}{int64(1), int64(2), int64(3)}},
	{`"a" + "b"`, "", "ab"},
	{`1 < 2`, "", true},
	{`"a" < "b"`, "", true},
	{`2 in [1, 2]`, "", true},
	{`"bc" in "abcd"`, "", true},
	{`3 not in [1, 2]`, "", true},
	{`not ""`, "", true},
	{`True and 0`, "", int64(0)},
	{`None or "x"`, "", "x"},
	{`1 if 2 > 1 else 3`, "", int64(1)},

	// Indexing and slicing.
	{`[10, 20, 30][-1]`, "", int64(30)},
	{`[1, 2, 3, 4][1:3]`, "", []interface{}{int64(2), int64(3)}},
	{`"hello"[1]`, "", "e"},
	{`"hello"[1:3]`, "", "el"},
	{`"hello"[-3:]`, "", "llo"},
	{`(1, 2, 3)[0]`, "", int64(1)},
	{`{"a": 1, "b": 2}["b"]`, "", int64(2)},

	// Comprehensions.
	{`[x * 2 for x in [1, 2, 3]]`, "", []interface{}{int64(2), int64(4), int64(6)}},
	{`[x for x in range(6) if x % 2 == 0]`, "", []interface{}{int64(0), int64(2), int64(4)}},
	{`[a + b for a, b in [(1, 2), (3, 4)]]`, "", []interface{}{int64(3), int64(7)}},

	// Builtins.
	{`len("héllo")`, "", int64(5)},
	{`len([1, 2, 3])`, "", int64(3)},
	{`int("42")`, "", int64(42)},
	{`int(3.9)`, "", int64(3)},
	{`float("2.5")`, "", 2.5},
	{`abs(-3)`, "", int64(3)},
	{`abs(-2.5)`, "", 2.5},
	{`round(3.5)`, "", int64(4)},
	{`round(2.5)`, "", int64(2)},
	{`sum([1, 2, 3])`, "", int64(6)},
	{`sum([1, 2], 10)`, "", int64(13)},
	{`min(3, 1, 2)`, "", int64(1)},
	{`max([1.5, 2.5])`, "", 2.5},
	{`sorted([3, 1, 2])`, "", []interface{}{int64(1), int64(2), int64(3)}},
	{`reversed([1, 2])`, "", []interface{}{int64(2), int64(1)}},
	{`all([1, "a"])`, "", true},
	{`any([0, ""])`, "", false},
	{`list(range(4))`, "", []interface{}{int64(0), int64(1), int64(2), int64(3)}},
	{`list(range(10, 0, -3))`, "", []interface{}{int64(10), int64(7), int64(4), int64(1)}},
	{`list(enumerate(["a", "b"]))`, "",
		[]interface{}{obj.Tuple{int64(0), "a"}, obj.Tuple{int64(1), "b"}}},
	{`list(zip([1, 2], ["a", "b"]))`, "",
		[]interface{}{obj.Tuple{int64(1), "a"}, obj.Tuple{int64(2), "b"}}},
	{`tuple([1, 2])`, "", obj.Tuple{int64(1), int64(2)}},
	{`dict([("a", 1)])["a"]`, "", int64(1)},
	{`str(42)`, "", "42"},
	{`str(3.5)`, "", "3.5"},
	{`repr("a\nb")`, "", `'a\nb'`},
	{`type(1)`, "", "int"},
	{`type("x")`, "", "str"},
	{`bool("")`, "", false},
	{`bool(123)`, "", true},

	// String methods.
	{`"hello".upper()`, "", "HELLO"},
	{`"HeLLo".lower()`, "", "hello"},
	{`"  x  ".strip()`, "", "x"},
	{`"xxabcxx".strip("x")`, "", "abc"},
	{`"hello world".title()`, "", "Hello World"},
	{`"hELLO".capitalize()`, "", "Hello"},
	{`"a b  c".split()`, "", []interface{}{"a", "b", "c"}},
	{`"a,b".split(",")`, "", []interface{}{"a", "b"}},
	{`"a\nb\n".splitlines()`, "", []interface{}{"a", "b"}},
	{`",".join(["a", "b"])`, "", "a,b"},
	{`"aaa".replace("a", "b")`, "", "bbb"},
	{`"abc".startswith("ab")`, "", true},
	{`"abc".endswith("z")`, "", false},
	{`"abcabc".find("c")`, "", int64(2)},
	{`"abcabc".count("bc")`, "", int64(2)},
	{`"42".zfill(5)`, "", "00042"},
	{`"-42".zfill(5)`, "", "-0042"},
	{`"123".isdigit()`, "", true},
	{`"12a".isdigit()`, "", false},
	{`"hi".encode().decode()`, "", "hi"},

	// Dict methods.
	{`{"a": 1, "b": 2}.keys()`, "", []interface{}{"a", "b"}},
	{`{"a": 1, "b": 2}.values()`, "", []interface{}{int64(1), int64(2)}},
	{`{"a": 1}.items()`, "", []interface{}{obj.Tuple{"a", int64(1)}}},
	{`{"a": 1}.get("b", 9)`, "", int64(9)},

	// Modules.
	{`math.sqrt(16)`, "", 4.0},
	{`math.ceil(2.1)`, "", 3.0},
	{`math.pow(2, 8)`, "", 256.0},
	{`re.search("[0-9]+", "abc123def")`, "", "123"},
	{`re.match("a+", "aaab")`, "", "aaa"},
	{`re.match("b", "ab")`, "", nil},
	{`re.findall("[0-9]+", "a1b22c")`, "", []interface{}{"1", "22"}},
	{`re.sub("[0-9]", "#", "a1b2")`, "", "a#b#"},
	{`re.split(", ?", "a, b,c")`, "", []interface{}{"a", "b", "c"}},
	{`json.loads('{"a": 1}')["a"]`, "", int64(1)},
	{`json.dumps([1, 2])`, "", "[1, 2]"},
	{`json.dumps({"a": 1})`, "", `{"a": 1}`},

	// Exec materializes record scoped results into a list.
	{`record[1].int * 10`, "a 1\nb 2\n", []interface{}{int64(10), int64(20)}},
	{`len(records)`, "x\ny\n", int64(2)},
}

func TestExec(t *testing.T) {
	for _, test := range execTests {
		testName := test.src
		if len(testName) > 70 {
			testName = testName[:70]
		}
		t.Run(testName, func(t *testing.T) {
			prog, err := parser.ParseProgram([]byte(test.src))
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}
			got, err := interp.Exec(prog, &interp.Config{Input: strings.NewReader(test.in)})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("expected %#v, got %#v", test.want, got)
			}
		})
	}
}

var execErrorTests = []struct {
	src string
	err string
}{
	{`len(1)`, "object of type 'int' has no len()"},
	{`len(1, 2)`, "len: wrong number of arguments (2)"},
	{`int("abc")`, `invalid literal for int(): "abc"`},
	{`float("x")`, `could not convert string to float: "x"`},
	{`min([])`, "min() arg is an empty sequence"},
	{`range(1, 2, 0)`, "range() arg 3 must not be zero"},
	{`1 < "a"`, "'<' not supported between instances of 'int' and 'str'"},
	{`1(2)`, "'int' object is not callable"},
	{`1[0]`, "'int' object is not subscriptable"},
	{`{"a": 1}["b"]`, `key "b" not found`},
	{`[a for a, b in [(1, 2, 3)]]`, "expected 2 values to unpack, got 3"},
	{`[a for a, b in [5]]`, "cannot unpack non-sequence int"},
	{`math.nope`, `module 'math' has no attribute "nope"`},
	{`"x".nope`, `'str' object has no attribute "nope"`},
	{`re.search("[", "x")`, `re.search: invalid pattern "[": error parsing regexp: missing closing ]: ` + "`[`"},
}

func TestExecErrors(t *testing.T) {
	for _, test := range execErrorTests {
		t.Run(test.src, func(t *testing.T) {
			prog, err := parser.ParseProgram([]byte(test.src))
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}
			_, err = interp.Exec(prog, &interp.Config{Input: strings.NewReader("")})
			if err == nil {
				t.Fatalf("expected error %q, got none", test.err)
			}
			if err.Error() != test.err {
				t.Fatalf("expected error %q, got %q", test.err, err.Error())
			}
		})
	}
}

func TestModuleRestriction(t *testing.T) {
	prog, err := parser.ParseProgram([]byte(`math.sqrt(4)`))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	got, err := interp.Exec(prog, &interp.Config{
		Input:   strings.NewReader(""),
		Modules: []string{"math"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 2.0 {
		t.Errorf("expected 2.0, got %#v", got)
	}

	prog, err = parser.ParseProgram([]byte(`re.search("a", "a")`))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	_, err = interp.Exec(prog, &interp.Config{
		Input:   strings.NewReader(""),
		Modules: []string{"math"},
	})
	if err == nil || err.Error() != `name "re" is not defined` {
		t.Fatalf(`expected name "re" is not defined, got %v`, err)
	}
}

func TestFilename(t *testing.T) {
	testGolin(t, `filename`, "ignored", "stats.txt\n", "", &interp.Config{
		InputName:    "stats.txt",
		OutputFormat: "txt",
	})
}

func TestBinaryContents(t *testing.T) {
	prog, err := parser.ParseProgram([]byte(`contents`))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	in := []byte{0x00, 0x01, 0xff, 0x02}
	outBuf := &bytes.Buffer{}
	err = interp.Run(prog, &interp.Config{
		Input:        bytes.NewReader(in),
		Output:       outBuf,
		OutputFormat: "binary",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !bytes.Equal(outBuf.Bytes(), in) {
		t.Errorf("expected %v, got %v", in, outBuf.Bytes())
	}
}

func TestBinaryRecordsError(t *testing.T) {
	prog, err := parser.ParseProgram([]byte(`line`))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	_, err = interp.Exec(prog, &interp.Config{
		Input: bytes.NewReader([]byte{0xff, 0xfe, 0x0a}),
	})
	if err == nil {
		t.Fatal("expected error, got none")
	}
	want := "`record`-based attributes are not supported for binary inputs"
	if err.Error() != want {
		t.Fatalf("expected error %q, got %q", want, err.Error())
	}
}

// lineReader serves one line per Read call and invokes beforeRead first, so
// a test can observe how much input had been consumed when output appeared.
type lineReader struct {
	lines      []string
	i          int
	beforeRead func()
}

func (r *lineReader) Read(p []byte) (int, error) {
	r.beforeRead()
	if r.i >= len(r.lines) {
		return 0, io.EOF
	}
	n := copy(p, r.lines[r.i])
	r.i++
	return n, nil
}

func TestRecordOutputStreams(t *testing.T) {
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, fmt.Sprintf("row%02d x\n", i))
	}
	prog, err := parser.ParseProgram([]byte(`fields[0]`))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	outBuf := &bytes.Buffer{}
	producedAt := -1
	reader := &lineReader{lines: lines}
	reader.beforeRead = func() {
		if producedAt == -1 && outBuf.Len() > 0 {
			producedAt = reader.i
		}
	}
	err = interp.Run(prog, &interp.Config{
		Input:        reader,
		Output:       outBuf,
		OutputFormat: "txt",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if producedAt == -1 || producedAt >= len(lines) {
		t.Errorf("expected output before the input was fully read, first output at line %d", producedAt)
	}
	if !strings.HasPrefix(outBuf.String(), "row00\nrow01\n") {
		t.Errorf("unexpected output start %.12q", outBuf.String())
	}
	if got := strings.Count(outBuf.String(), "\n"); got != len(lines) {
		t.Errorf("expected %d output rows, got %d", len(lines), got)
	}
}

func TestMarkdownOutputWidth(t *testing.T) {
	prog, err := parser.ParseProgram([]byte(`records`))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	outBuf := &bytes.Buffer{}
	err = interp.Run(prog, &interp.Config{
		Input:      strings.NewReader("name,wins\nBucks,60\n"),
		Output:     outBuf,
		TableWidth: func() int { return 80 },
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := "| name  | wins |\n| ----- | ---- |\n| Bucks | 60   |\n"
	if outBuf.String() != want {
		t.Errorf("expected %q, got %q", want, outBuf.String())
	}
}
