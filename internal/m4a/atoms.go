// Package m4a reads metadata from MPEG-4 audio files (M4A, M4B).
//
// The atom tree is walked once, front to back. Container atoms are
// descended into; every other atom is handed to a handler that consumes or
// skips its payload. The handler collects the movie header, the track
// boxes, the iTunes item list (reported under the namespace "iTunes") and
// chapter markers.
package m4a

import (
	"fmt"
	"strings"

	"github.com/simonhull/mediaprobe/internal/binary"
	"github.com/simonhull/mediaprobe/internal/types"
)

// Atom is the header of an MP4 atom (box).
type Atom struct {
	Parent   *Atom
	Type     string // 4-character type code
	Size     int64  // total size including header
	Offset   int64  // position of the header in the file
	Extended bool   // 64-bit size follows the type
}

// HeaderSize is 16 for extended atoms, 8 otherwise.
func (a *Atom) HeaderSize() int64 {
	if a.Extended {
		return 16
	}
	return 8
}

// DataOffset returns the file offset where the payload starts.
func (a *Atom) DataOffset() int64 {
	return a.Offset + a.HeaderSize()
}

// PayloadSize returns the payload size, header excluded.
func (a *Atom) PayloadSize() int64 {
	return a.Size - a.HeaderSize()
}

// End returns the offset just past the atom.
func (a *Atom) End() int64 {
	return a.Offset + a.Size
}

// Path returns the dotted atom path, e.g. "moov.udta.meta.ilst.©nam".
func (a *Atom) Path() string {
	if a.Parent == nil {
		return printable(a.Type)
	}
	return a.Parent.Path() + "." + printable(a.Type)
}

// Within reports whether the atom is nested (at any depth) inside an atom
// of type t.
func (a *Atom) Within(t string) bool {
	for p := a.Parent; p != nil; p = p.Parent {
		if p.Type == t {
			return true
		}
	}
	return false
}

// printable renders the iTunes copyright sign (0xA9) as "©".
func printable(t string) string {
	return strings.ReplaceAll(t, "\xa9", "©")
}

// handler processes a non-container atom. The tokenizer is positioned at
// the payload; the handler may read any prefix of it.
type handler func(tok *binary.Tokenizer, a *Atom) error

// isContainer reports whether an atom holds only child atoms.
func isContainer(t string) bool {
	switch t {
	case "moov", "udta", "trak", "mdia", "minf", "stbl", "<id>", "ilst", "tref", "edts", "dinf":
		return true
	}
	return false
}

// readAtom reads one atom at the cursor and dispatches it. The cursor is
// left at the end of the atom.
//
//	[4] size [4] type
//	[8] extended size, when size == 1
//
// A size of 0 on a top-level mdat extends the atom to the end of the file.
func readAtom(tok *binary.Tokenizer, h handler, parent *Atom) (*Atom, error) {
	offset := tok.Position()
	size32, err := tok.ReadUint32()
	if err != nil {
		return nil, err
	}
	typ, err := tok.ReadString(4)
	if err != nil {
		return nil, err
	}

	a := &Atom{Parent: parent, Type: typ, Offset: offset, Size: int64(size32)}
	switch {
	case size32 == 1:
		size64, err := tok.ReadUint64()
		if err != nil {
			return nil, err
		}
		a.Extended = true
		a.Size = int64(size64)
	case size32 == 0 && typ == "mdat" && parent == nil:
		a.Size = tok.Size() - offset
	}

	if a.Size < a.HeaderSize() {
		return nil, &types.CorruptedFileError{
			Path:   tok.Path(),
			Offset: offset,
			Reason: fmt.Sprintf("atom %s: invalid size %d", a.Path(), a.Size),
		}
	}
	if a.End() > tok.Size() || (parent != nil && a.End() > parent.End()) {
		return nil, fmt.Errorf("atom %s at %d: size %d: %w", a.Path(), offset, a.Size, types.ErrUnexpectedEndOfStream)
	}

	if err := a.readData(tok, h); err != nil {
		return nil, err
	}

	if tok.Position() > a.End() {
		return nil, &types.CorruptedFileError{
			Path:   tok.Path(),
			Offset: offset,
			Reason: fmt.Sprintf("atom %s: payload overrun", a.Path()),
		}
	}
	if err := tok.Seek(a.End()); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Atom) readData(tok *binary.Tokenizer, h handler) error {
	switch {
	case isContainer(a.Type):
		return readAtoms(tok, h, a, a.PayloadSize())
	case a.Type == "meta":
		// ISO meta is a full box; QuickTime meta starts with its hdlr child.
		if a.PayloadSize() >= 8 {
			head, err := tok.Peek(8)
			if err != nil {
				return err
			}
			if string(head[4:8]) == "hdlr" {
				return readAtoms(tok, h, a, a.PayloadSize())
			}
		}
		if err := tok.Skip(min(4, a.PayloadSize())); err != nil {
			return err
		}
		return readAtoms(tok, h, a, a.PayloadSize()-min(4, a.PayloadSize()))
	default:
		return h(tok, a)
	}
}

// readAtoms reads consecutive child atoms filling size bytes.
func readAtoms(tok *binary.Tokenizer, h handler, parent *Atom, size int64) error {
	for size > 0 {
		// trailing bytes too short for a header, e.g. a 4-byte terminator
		if size < 8 {
			return tok.Skip(size)
		}
		a, err := readAtom(tok, h, parent)
		if err != nil {
			return err
		}
		size -= a.Size
	}
	return nil
}
