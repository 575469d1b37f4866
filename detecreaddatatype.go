package nhc

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
	DataTypeLZW
)

func (d DataType) String() string {
	switch d {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	case DataTypeLZW:
		return "compress (.Z)"
	}

	return "invalid"
}

// Checked in a fixed order so that overlapping prefixes resolve the same way
// on every run.
var byteCodeSigs = []struct {
	DataType
	Sig []byte
}{
	{DataTypeGzip, []byte{0x1f, 0x8b, 0x08}},
	{DataTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}},
	{DataTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{DataTypeLZW, []byte{0x1f, 0x9d}},
	{DataTypeBZip2, []byte{0x42, 0x5a, 0x68}},

	// zlib headers at the common compression levels. 0x78 0x5e is left out
	// because "x^" can start a plain text file.
	{DataTypeZ, []byte{0x78, 0x01}},
	{DataTypeZ, []byte{0x78, 0x9c}},
	{DataTypeZ, []byte{0x78, 0xda}},
}

// DetectDataType checks the head of the stream against a set of known
// compression signatures without consuming it. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
func DetectDataType(br *bufio.Reader) DataType {
	buff, _ := br.Peek(6)

Outer:
	for _, candidate := range byteCodeSigs {
		if len(buff) < len(candidate.Sig) {
			continue
		}
		for position := range candidate.Sig {
			if buff[position] != candidate.Sig[position] {
				continue Outer
			}
		}
		return candidate.DataType
	}

	return DataTypeNoCompression
}

// MaybeDecompress wraps br in a decompressor if its head carries a known
// compression signature. Uncompressed streams are returned as-is.
func MaybeDecompress(br *bufio.Reader) (io.Reader, DataType, error) {
	dt := DetectDataType(br)

	switch dt {
	case DataTypeGzip:
		r, err := gzip.NewReader(br)
		return r, dt, err
	case DataTypeZip:
		zr := zipstream.NewReader(br)
		// Only the first member of an archive is read.
		if _, err := zr.Next(); err != nil {
			return nil, dt, pfx.Err(err)
		}
		return zr, dt, nil
	case DataTypeBZip2:
		return bzip2.NewReader(br), dt, nil
	case DataTypeXZ:
		r, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, dt, pfx.Err(err)
		}
		return r, dt, nil
	case DataTypeZ:
		r, err := zlib.NewReader(br)
		return r, dt, err
	case DataTypeLZW:
		return nil, dt, fmt.Errorf("%s input is not supported; recompress it with gzip", dt)
	}

	return br, dt, nil
}
