package mp3

import (
	"fmt"
	"strings"

	binutil "github.com/simonhull/mediaprobe/internal/binary"
)

// Xing header flags.
const (
	xingFrames   = 0x1
	xingBytes    = 0x2
	xingTOC      = 0x4
	xingVBRScale = 0x8
)

// xingHeader is the Xing or Info tag LAME-style encoders write into the
// first frame of a stream. The fields are present only when the matching
// flag is set.
type xingHeader struct {
	ID       string // "Xing" (VBR) or "Info" (CBR)
	LAME     string
	TOC      []byte
	Frames   uint32
	Bytes    uint32
	VBRScale uint32
	Flags    uint32
}

func (x *xingHeader) HasFrames() bool {
	return x.Flags&xingFrames != 0
}

func (x *xingHeader) HasVBRScale() bool {
	return x.Flags&xingVBRScale != 0
}

// CodecProfile returns "CBR" for an Info tag, or the LAME quality preset
// "V0".."V9" derived from the VBR scale.
func (x *xingHeader) CodecProfile() string {
	if x.ID == "Info" {
		return "CBR"
	}
	if x.HasVBRScale() && x.VBRScale <= 100 {
		return fmt.Sprintf("V%d", (100-x.VBRScale)/10)
	}
	return "VBR"
}

// Tool returns the encoder name, e.g. "LAME 3.99r".
func (x *xingHeader) Tool() string {
	if x.LAME == "" {
		return ""
	}
	v := strings.TrimSpace(strings.TrimRight(strings.TrimPrefix(x.LAME, "LAME"), "\x00"))
	return strings.TrimSpace("LAME " + v)
}

// readXing reads a Xing/Info tag at the cursor. It returns nil when the
// cursor is not on one.
//
//	[4] "Xing"|"Info" [4] flags
//	[4] frames [4] bytes [100] toc [4] vbr scale  (each if flagged)
//	[9] "LAME" + version                            (optional)
func readXing(tok *binutil.Tokenizer) (*xingHeader, error) {
	id, err := tok.Peek(4)
	if err != nil || (string(id) != "Xing" && string(id) != "Info") {
		return nil, nil
	}
	x := &xingHeader{ID: string(id)}
	if err := tok.Skip(4); err != nil {
		return nil, err
	}

	if x.Flags, err = tok.ReadUint32(); err != nil {
		return nil, fmt.Errorf("xing flags: %w", err)
	}
	if x.Flags&xingFrames != 0 {
		if x.Frames, err = tok.ReadUint32(); err != nil {
			return nil, fmt.Errorf("xing frames: %w", err)
		}
	}
	if x.Flags&xingBytes != 0 {
		if x.Bytes, err = tok.ReadUint32(); err != nil {
			return nil, fmt.Errorf("xing bytes: %w", err)
		}
	}
	if x.Flags&xingTOC != 0 {
		if x.TOC, err = tok.ReadFull(100); err != nil {
			return nil, fmt.Errorf("xing toc: %w", err)
		}
	}
	if x.Flags&xingVBRScale != 0 {
		if x.VBRScale, err = tok.ReadUint32(); err != nil {
			return nil, fmt.Errorf("xing vbr scale: %w", err)
		}
	}

	if tag, err := tok.Peek(4); err == nil && string(tag) == "LAME" {
		if x.LAME, err = tok.ReadString(9); err != nil {
			return nil, fmt.Errorf("lame version: %w", err)
		}
	}
	return x, nil
}

// vbriOffset is where a Fraunhofer VBRI header sits, from the frame start.
const vbriOffset = 4 + 32

// readVBRI reads the frame count of a VBRI header at the cursor, if any.
//
//	[4] "VBRI" [2] version [2] delay [2] quality [4] bytes [4] frames
func readVBRI(tok *binutil.Tokenizer) (frames uint32, ok bool) {
	b, err := tok.Peek(18)
	if err != nil || string(b[0:4]) != "VBRI" {
		return 0, false
	}
	return uint32(b[14])<<24 | uint32(b[15])<<16 | uint32(b[16])<<8 | uint32(b[17]), true
}
