package ebml

import (
	"fmt"

	"github.com/simonhull/mediaprobe/internal/binary"
)

// Header is an element's identifier and declared payload length.
type Header struct {
	ID     uint64
	Size   uint64 // payload bytes following the header
	Offset int64  // position of the first identifier byte
	Width  int    // identifier width + size width
}

// DataOffset is the position of the first payload byte.
func (h Header) DataOffset() int64 {
	return h.Offset + int64(h.Width)
}

// End is the position just past the payload.
func (h Header) End() int64 {
	return h.DataOffset() + int64(h.Size)
}

func (h Header) String() string {
	return fmt.Sprintf("element 0x%X (%d bytes at %d)", h.ID, h.Size, h.Offset)
}

// ReadHeader reads one element header. The payload is not consumed.
func ReadHeader(tok *binary.Tokenizer) (Header, error) {
	offset := tok.Position()

	id, idWidth, err := ReadID(tok)
	if err != nil {
		return Header{}, err
	}
	size, sizeWidth, err := ReadSize(tok)
	if err != nil {
		return Header{}, err
	}

	return Header{
		ID:     id,
		Size:   size,
		Offset: offset,
		Width:  idWidth + sizeWidth,
	}, nil
}
