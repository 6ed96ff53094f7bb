// Package ebml decodes Extensible Binary Meta Language streams.
//
// The package knows nothing about Matroska. A caller supplies a Schema (a
// static tree of element descriptors) and Walker turns the byte stream into
// a tree of Nodes, skipping every element the schema does not describe.
//
// Element identifiers and sizes are variable-length integers (VINTs). The
// number of leading zero bits in the first byte gives the width:
//
//	1xxxxxxx                     width 1
//	01xxxxxx xxxxxxxx            width 2
//	...
//	00000001 xxxxxxxx ... (x7)   width 8
//
// Identifiers keep the marker bit; sizes have it cleared.
package ebml

import (
	"math/bits"

	"github.com/simonhull/mediaprobe/internal/binary"
	"github.com/simonhull/mediaprobe/internal/types"
)

// MaxVintWidth is the widest VINT EBML allows.
const MaxVintWidth = 8

// maxSizeBytes is the precision ceiling for sizes and unsigned leaves.
// Wider values keep only their low-order 6 bytes.
const maxSizeBytes = 6

// vintWidth returns the encoded width announced by the first byte of a VINT.
func vintWidth(first byte) (int, error) {
	if first == 0 {
		return 0, types.ErrMalformedVint
	}
	return bits.LeadingZeros8(first) + 1, nil
}

// readVint consumes one complete VINT and returns its raw bytes.
func readVint(tok *binary.Tokenizer) ([]byte, error) {
	first, err := tok.Peek(1)
	if err != nil {
		return nil, err
	}
	width, err := vintWidth(first[0])
	if err != nil {
		return nil, err
	}
	return tok.ReadFull(width)
}

// ReadID reads an element identifier, marker bit included.
func ReadID(tok *binary.Tokenizer) (id uint64, width int, err error) {
	buf, err := readVint(tok)
	if err != nil {
		return 0, 0, err
	}
	return bigEndian(buf), len(buf), nil
}

// ReadSize reads an element data size with its marker bit cleared.
//
// Sizes wider than 6 bytes keep only their low-order 6 bytes. The EBML
// "unknown size" (all value bits set) is not special-cased: an 8-byte one
// reads as 0xFFFFFFFFFFFF, so an unknown-size element runs past the end of
// the stream and its walk fails with types.ErrUnexpectedEndOfStream.
func ReadSize(tok *binary.Tokenizer) (size uint64, width int, err error) {
	buf, err := readVint(tok)
	if err != nil {
		return 0, 0, err
	}
	buf[0] &^= 0x80 >> (len(buf) - 1)
	return truncatedBigEndian(buf), len(buf), nil
}

// truncatedBigEndian decodes at most the low-order maxSizeBytes of buf.
func truncatedBigEndian(buf []byte) uint64 {
	if len(buf) > maxSizeBytes {
		buf = buf[len(buf)-maxSizeBytes:]
	}
	return bigEndian(buf)
}

func bigEndian(buf []byte) uint64 {
	var v uint64
	for _, b := range buf {
		v = v<<8 | uint64(b)
	}
	return v
}
