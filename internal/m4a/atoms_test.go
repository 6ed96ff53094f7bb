package m4a

import (
	"errors"
	"slices"
	"testing"

	binutil "github.com/simonhull/mediaprobe/internal/binary"
	"github.com/simonhull/mediaprobe/internal/types"
)

// collectPaths walks data and returns the path of every leaf atom.
func collectPaths(t *testing.T, data []byte) ([]string, error) {
	t.Helper()
	var paths []string
	tok := newTokenizer(t, data)
	err := readAtoms(tok, func(_ *binutil.Tokenizer, a *Atom) error {
		paths = append(paths, a.Path())
		return nil
	}, nil, int64(len(data)))
	return paths, err
}

func TestReadAtoms_Tree(t *testing.T) {
	data := append(ftyp("M4A "), atom("moov",
		mvhd(1000, 1000),
		atom("udta", atom("meta", full(0, 0), atom("ilst", textItem("\xa9nam", "x")))),
	)...)

	paths, err := collectPaths(t, data)
	if err != nil {
		t.Fatalf("readAtoms() error = %v", err)
	}
	want := []string{"ftyp", "moov.mvhd", "moov.udta.meta.ilst.©nam"}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %q, want %q", paths, want)
	}
}

func TestReadAtoms_QuickTimeMeta(t *testing.T) {
	data := atom("meta", hdlr("mdir"), atom("ilst", textItem("\xa9ART", "x")))

	paths, err := collectPaths(t, data)
	if err != nil {
		t.Fatalf("readAtoms() error = %v", err)
	}
	want := []string{"meta.hdlr", "meta.ilst.©ART"}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %q, want %q", paths, want)
	}
}

func TestReadAtom_Extended(t *testing.T) {
	payload := []byte("abcd")
	data := append(u32(1), "free"...)
	data = append(data, u64(uint64(16+len(payload)))...)
	data = append(data, payload...)

	tok := newTokenizer(t, data)
	var got []byte
	a, err := readAtom(tok, func(tok *binutil.Tokenizer, a *Atom) error {
		var err error
		got, err = tok.ReadFull(int(a.PayloadSize()))
		return err
	}, nil)
	if err != nil {
		t.Fatalf("readAtom() error = %v", err)
	}
	if !a.Extended || a.HeaderSize() != 16 || a.Size != 20 {
		t.Errorf("atom = %+v", a)
	}
	if string(got) != "abcd" {
		t.Errorf("payload = %q", got)
	}
	if tok.Position() != a.End() {
		t.Errorf("Position() = %d, want %d", tok.Position(), a.End())
	}
}

func TestReadAtom_OpenEndedMdat(t *testing.T) {
	data := append(u32(0), "mdat"...)
	data = append(data, make([]byte, 100)...)

	tok := newTokenizer(t, data)
	a, err := readAtom(tok, func(*binutil.Tokenizer, *Atom) error { return nil }, nil)
	if err != nil {
		t.Fatalf("readAtom() error = %v", err)
	}
	if a.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", a.Size, len(data))
	}
}

func TestReadAtom_Errors(t *testing.T) {
	noop := func(*binutil.Tokenizer, *Atom) error { return nil }

	tests := []struct {
		name      string
		data      []byte
		h         handler
		corrupted bool
	}{
		{
			name:      "size below header",
			data:      append(u32(4), "free"...),
			h:         noop,
			corrupted: true,
		},
		{
			name:      "zero size on non-mdat",
			data:      append(u32(0), "free"...),
			h:         noop,
			corrupted: true,
		},
		{
			name: "past end of file",
			data: append(u32(100), "free"...),
			h:    noop,
		},
		{
			name: "child past parent",
			data: atom("moov", append(u32(64), "trak"...)),
			h:    noop,
		},
		{
			name: "handler overrun",
			data: append(atom("free", []byte{1, 2}), 0, 0, 0, 0),
			h: func(tok *binutil.Tokenizer, _ *Atom) error {
				_, err := tok.ReadFull(6)
				return err
			},
			corrupted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAtom(newTokenizer(t, tt.data), tt.h, nil)
			if err == nil {
				t.Fatal("readAtom() expected error")
			}
			var corrupted *types.CorruptedFileError
			if tt.corrupted {
				if !errors.As(err, &corrupted) {
					t.Errorf("error = %v, want CorruptedFileError", err)
				}
				return
			}
			if !errors.Is(err, types.ErrUnexpectedEndOfStream) {
				t.Errorf("error = %v, want ErrUnexpectedEndOfStream", err)
			}
		})
	}
}

func TestReadAtoms_TrailingBytes(t *testing.T) {
	data := atom("udta", atom("free"), u32(0))

	paths, err := collectPaths(t, data)
	if err != nil {
		t.Fatalf("readAtoms() error = %v", err)
	}
	if !slices.Equal(paths, []string{"udta.free"}) {
		t.Errorf("paths = %q", paths)
	}
}

func TestAtom_Within(t *testing.T) {
	moov := &Atom{Type: "moov"}
	trak := &Atom{Type: "trak", Parent: moov}
	tkhd := &Atom{Type: "tkhd", Parent: trak}

	if !tkhd.Within("moov") || !tkhd.Within("trak") {
		t.Error("Within() = false for an ancestor")
	}
	if tkhd.Within("tkhd") || tkhd.Within("udta") {
		t.Error("Within() = true for a non-ancestor")
	}
	if got := tkhd.Path(); got != "moov.trak.tkhd" {
		t.Errorf("Path() = %q", got)
	}
}
