package binary

import (
	"context"
	"fmt"
)

// Tokenizer is a sequential cursor over a SafeReader.
//
// Reads are issued one at a time and each one checks the context first, so a
// caller can abandon a long walk by cancelling. A Tokenizer is not safe for
// concurrent use.
type Tokenizer struct {
	ctx    context.Context
	sr     *SafeReader
	offset int64
}

// NewTokenizer creates a Tokenizer positioned at offset.
func NewTokenizer(ctx context.Context, sr *SafeReader, offset int64) *Tokenizer {
	return &Tokenizer{
		ctx:    ctx,
		sr:     sr,
		offset: offset,
	}
}

// Position returns the absolute offset of the next byte to be read.
func (t *Tokenizer) Position() int64 {
	return t.offset
}

// Size returns the total stream size.
func (t *Tokenizer) Size() int64 {
	return t.sr.size
}

// Remaining returns the number of bytes between the cursor and the end.
func (t *Tokenizer) Remaining() int64 {
	return t.sr.size - t.offset
}

// Path returns the path of the underlying reader.
func (t *Tokenizer) Path() string {
	return t.sr.path
}

// Peek returns the next n bytes without consuming them.
func (t *Tokenizer) Peek(n int) ([]byte, error) {
	if err := t.ctx.Err(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("peek: negative length %d", n)
	}
	if int64(n) > t.Remaining() {
		return nil, &BoundsError{
			Path:   t.sr.path,
			What:   "peek",
			Offset: t.offset,
			Length: int64(n),
			Size:   t.sr.size,
		}
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if err := t.sr.ReadAt(buf, t.offset, "peek"); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadFull consumes exactly n bytes and returns them in a freshly allocated
// slice owned by the caller.
func (t *Tokenizer) ReadFull(n int) ([]byte, error) {
	buf, err := t.Peek(n)
	if err != nil {
		return nil, err
	}
	t.offset += int64(n)
	return buf, nil
}

// Skip consumes n bytes without returning them.
func (t *Tokenizer) Skip(n int64) error {
	if err := t.ctx.Err(); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("skip: negative length %d", n)
	}
	if n > t.Remaining() {
		return &BoundsError{
			Path:   t.sr.path,
			What:   "skip",
			Offset: t.offset,
			Length: n,
			Size:   t.sr.size,
		}
	}
	t.offset += n
	return nil
}

// Seek moves the cursor to an absolute offset inside the stream.
func (t *Tokenizer) Seek(offset int64) error {
	if offset < 0 || offset > t.sr.size {
		return &BoundsError{Path: t.sr.path, What: "seek", Offset: offset, Size: t.sr.size}
	}
	t.offset = offset
	return nil
}

// ReadUint8 reads one byte.
func (t *Tokenizer) ReadUint8() (uint8, error) {
	return readValue[uint8](t)
}

// ReadUint16 reads a big-endian uint16.
func (t *Tokenizer) ReadUint16() (uint16, error) {
	return readValue[uint16](t)
}

// ReadUint24 reads a big-endian 24-bit unsigned integer.
func (t *Tokenizer) ReadUint24() (uint32, error) {
	b, err := t.ReadFull(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// ReadUint32 reads a big-endian uint32.
func (t *Tokenizer) ReadUint32() (uint32, error) {
	return readValue[uint32](t)
}

// ReadUint64 reads a big-endian uint64.
func (t *Tokenizer) ReadUint64() (uint64, error) {
	return readValue[uint64](t)
}

// ReadString reads n bytes as a string, without any decoding.
func (t *Tokenizer) ReadString(n int) (string, error) {
	b, err := t.ReadFull(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readValue[T uint8 | uint16 | uint32 | uint64](t *Tokenizer) (T, error) {
	var zero T
	b, err := t.ReadFull(sizeOf[T]())
	if err != nil {
		return zero, err
	}
	return decode[T](b), nil
}
