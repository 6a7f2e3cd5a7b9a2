package ioformat

import (
	"io"

	"github.com/golin/golin/internal/seq"
	"github.com/golin/golin/record"
)

// BinaryParser is the parser for binary inputs. The input is only available
// as a whole through the file contents; accessing records is an error.
type BinaryParser struct {
	base
}

func (p *BinaryParser) Records(r io.Reader) seq.Pull[*record.Record] {
	return func() (*record.Record, bool) {
		panic(ErrBinaryRecords)
	}
}
