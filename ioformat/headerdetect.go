package ioformat

import (
	"strconv"

	"github.com/golin/golin/internal/debug"
	"github.com/golin/golin/record"
)

// headerSampleRows is the number of leading rows given to the header
// heuristic: the candidate header row plus the 20 data rows that vote.
const headerSampleRows = 21

// column type classification for the header vote. A column is either a
// numeric kind or "the strings all have this length".
type colType struct {
	kind   colKind
	strLen int
}

type colKind int

const (
	colUnset colKind = iota
	colInt
	colFloat
	colComplex
	colStrLen
	colDisqualified
)

func classify(s string) colType {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return colType{kind: colInt}
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return colType{kind: colFloat}
	}
	if _, err := strconv.ParseComplex(s, 128); err == nil {
		return colType{kind: colComplex}
	}
	return colType{kind: colStrLen, strLen: len(s)}
}

func fitsKind(s string, t colType) bool {
	switch t.kind {
	case colInt:
		_, err := strconv.ParseInt(s, 10, 64)
		return err == nil
	case colFloat:
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	case colComplex:
		_, err := strconv.ParseComplex(s, 128)
		return err == nil
	case colStrLen:
		return len(s) == t.strLen
	}
	return false
}

// HasHeader reports whether the first of the given rows looks like a header.
// For each column the data rows vote: if the column has a consistent type
// (or consistent string length) and the first row does not fit it, that is
// evidence of a header. Columns with inconsistent types are disqualified
// from voting. A strict majority of votes wins.
func HasHeader(rows []*record.Record) bool {
	if len(rows) == 0 {
		return false
	}
	header := rows[0]
	columns := header.Len()
	types := make([]colType, columns)
	irregular := 0
	sampled := 0

	for _, row := range rows[1:] {
		if sampled >= 20 {
			break
		}
		if row.Len() != columns {
			irregular++
			if irregular > 4 {
				return false
			}
			continue
		}
		sampled++
		for col := 0; col < columns; col++ {
			f, _ := row.Field(col)
			t := classify(f.Str())
			switch {
			case types[col].kind == colUnset:
				types[col] = t
			case types[col] != t:
				types[col] = colType{kind: colDisqualified}
			}
		}
	}
	if sampled < irregular {
		return false
	}

	score := 0
	for col, t := range types {
		if t.kind == colUnset || t.kind == colDisqualified {
			continue
		}
		f, _ := header.Field(col)
		if fitsKind(f.Str(), t) {
			score--
		} else {
			score++
		}
	}
	debug.Printf("header vote score %d", score)
	return score > 0
}
