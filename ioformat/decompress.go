package ioformat

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// DecompressReader inspects the leading magic bytes of r and transparently
// wraps it with the matching decompressor (gzip, lz4 frame, or zstd).
// Streams without a known magic pass through untouched.
func DecompressReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "reading gzip input")
		}
		return zr, nil
	case bytes.HasPrefix(magic, lz4Magic):
		return lz4.NewReader(br), nil
	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "reading zstd input")
		}
		return zr.IOReadCloser(), nil
	}
	return br, nil
}
