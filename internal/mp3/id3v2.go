package mp3

import (
	"bytes"
	"cmp"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	binutil "github.com/simonhull/mediaprobe/internal/binary"
	"github.com/simonhull/mediaprobe/internal/types"
)

const tagHeaderSize = 10

// Tag header flags.
const (
	tagUnsync   = 0x80
	tagExtended = 0x40 // compression in v2.2
	tagFooter   = 0x10 // v2.4
)

// tagHeader is the 10-byte ID3v2 header:
//
//	"ID3" [1] major [1] revision [1] flags [4] synchsafe size
type tagHeader struct {
	Size     uint32
	Major    byte
	Revision byte
	Flags    byte
}

// TotalSize is the number of bytes the tag occupies, header and footer
// included.
func (h tagHeader) TotalSize() int64 {
	n := int64(tagHeaderSize) + int64(h.Size)
	if h.Major == 4 && h.Flags&tagFooter != 0 {
		n += tagHeaderSize
	}
	return n
}

// Namespace is the tag namespace the frames are reported under.
func (h tagHeader) Namespace() string {
	return fmt.Sprintf("ID3v2.%d", h.Major)
}

// hasTag reports whether an ID3v2 tag starts at the cursor.
func hasTag(tok *binutil.Tokenizer) bool {
	b, err := tok.Peek(3)
	return err == nil && string(b) == "ID3"
}

func readTagHeader(tok *binutil.Tokenizer) (tagHeader, error) {
	b, err := tok.ReadFull(tagHeaderSize)
	if err != nil {
		return tagHeader{}, err
	}
	if string(b[0:3]) != "ID3" {
		return tagHeader{}, errors.New("missing ID3 identifier")
	}
	h := tagHeader{
		Major:    b[3],
		Revision: b[4],
		Flags:    b[5],
		Size:     decodeSynchsafe(b[6:10]),
	}
	if h.Major < 2 || h.Major > 4 {
		return h, fmt.Errorf("ID3v2.%d: %w", h.Major, types.ErrUnsupportedMajorVersion)
	}
	return h, nil
}

// decodeSynchsafe decodes a synchsafe integer (7 bits per byte).
func decodeSynchsafe(b []byte) uint32 {
	var n uint32
	for _, c := range b {
		n = n<<7 | uint32(c&0x7F)
	}
	return n
}

// removeUnsync reverses unsynchronisation: every 0xFF 0x00 pair becomes 0xFF.
func removeUnsync(b []byte) []byte {
	if !bytes.Contains(b, []byte{0xFF, 0x00}) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}

// tagSink is what the tag reader reports into.
type tagSink interface {
	types.Sink
	AddChapter(ch types.Chapter)
	Warn(stage string, offset int64, format string, args ...any)
}

// tagReader decodes the frames of one ID3v2 tag.
type tagReader struct {
	sink   tagSink
	log    *slog.Logger
	dec    *frameDecoder
	header tagHeader
	offset int64 // absolute offset of the tag body, for warnings
}

// readID3v2 reads the tag at the cursor and reports its frames. The cursor
// is left just past the tag.
func readID3v2(tok *binutil.Tokenizer, sink tagSink, log *slog.Logger) (tagHeader, error) {
	start := tok.Position()
	h, err := readTagHeader(tok)
	if err != nil {
		return h, err
	}

	body, err := tok.ReadFull(int(h.Size))
	if err != nil {
		return h, fmt.Errorf("ID3v2.%d tag body: %w", h.Major, err)
	}
	if h.Major == 4 && h.Flags&tagFooter != 0 {
		if err := tok.Skip(tagHeaderSize); err != nil {
			return h, fmt.Errorf("ID3v2.4 footer: %w", err)
		}
	}

	r := &tagReader{
		sink:   sink,
		log:    log,
		header: h,
		offset: start + tagHeaderSize,
	}
	r.dec = &frameDecoder{
		major: h.Major,
		warn: func(format string, args ...any) {
			sink.Warn("metadata", start, format, args...)
		},
	}

	log.Debug("id3v2 tag", "version", h.Namespace(), "revision", h.Revision, "flags", h.Flags, "size", h.Size)

	// v2.4 unsynchronises per frame, so only earlier versions undo it here.
	if h.Flags&tagUnsync != 0 && h.Major < 4 {
		body = removeUnsync(body)
	}

	if h.Flags&tagExtended != 0 {
		if h.Major == 2 {
			sink.Warn("metadata", start, "ID3v2.2 compressed tag is not supported")
			return h, nil
		}
		if body, err = skipExtendedHeader(body, h.Major); err != nil {
			sink.Warn("metadata", r.offset, "%v", err)
			return h, nil
		}
	}

	chapters := r.readFrames(body)
	slices.SortStableFunc(chapters, func(a, b types.Chapter) int {
		return cmp.Compare(a.Start, b.Start)
	})
	for _, ch := range chapters {
		sink.AddChapter(ch)
	}
	return h, nil
}

func skipExtendedHeader(body []byte, major byte) ([]byte, error) {
	if len(body) < 4 {
		return nil, errors.New("extended header truncated")
	}
	var n int
	if major == 4 {
		n = int(decodeSynchsafe(body[0:4]))
	} else {
		// v2.3 size excludes the size field itself
		n = int(binary.BigEndian.Uint32(body[0:4])) + 4
	}
	if n > len(body) {
		return nil, fmt.Errorf("extended header of %d bytes overruns tag", n)
	}
	return body[n:], nil
}

// frame is one raw frame inside a tag body.
type frame struct {
	ID    string
	Data  []byte
	Flags uint16
}

// nextFrame splits the next frame off b. ok is false at padding or at
// the end of the frame area.
func (r *tagReader) nextFrame(b []byte) (f frame, rest []byte, ok bool) {
	headerLen, idLen := 10, 4
	if r.header.Major == 2 {
		headerLen, idLen = 6, 3
	}
	if len(b) < headerLen || b[0] == 0 {
		return frame{}, nil, false
	}

	f.ID = string(b[:idLen])
	if !validFrameID(f.ID) {
		r.sink.Warn("metadata", r.offset, "invalid ID3v2.%d frame id %q", r.header.Major, f.ID)
		return frame{}, nil, false
	}

	var size int
	switch r.header.Major {
	case 2:
		size = int(b[3])<<16 | int(b[4])<<8 | int(b[5])
	case 3:
		size = int(binary.BigEndian.Uint32(b[4:8]))
		f.Flags = binary.BigEndian.Uint16(b[8:10])
	default:
		size = int(decodeSynchsafe(b[4:8]))
		f.Flags = binary.BigEndian.Uint16(b[8:10])
	}

	b = b[headerLen:]
	if size > len(b) {
		r.sink.Warn("metadata", r.offset, "frame %s of %d bytes overruns tag (%d left)", f.ID, size, len(b))
		return frame{}, nil, false
	}
	f.Data = b[:size]
	return f, b[size:], true
}

func validFrameID(id string) bool {
	for i := range len(id) {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// readFrames reports every frame in b and returns the chapters found.
func (r *tagReader) readFrames(b []byte) []types.Chapter {
	var chapters []types.Chapter
	ns := r.header.Namespace()

	for {
		f, rest, ok := r.nextFrame(b)
		if !ok {
			return chapters
		}
		b = rest

		data, err := r.frameData(f)
		if err != nil {
			r.sink.Warn("metadata", r.offset, "frame %s: %v", f.ID, err)
			continue
		}

		if f.ID == "CHAP" {
			if ch, ok := r.chapter(data); ok {
				chapters = append(chapters, ch)
			}
			continue
		}
		if f.ID == "CTOC" {
			continue
		}

		value, err := r.dec.decode(f.ID, data)
		switch {
		case errors.Is(err, errUnsupportedFrame):
			r.log.Debug("unsupported id3v2 frame", "version", ns, "frame", f.ID, "size", len(data))
			continue
		case errors.Is(err, errEmptyFrame):
			r.sink.Warn("metadata", r.offset, "id3v2.%d header has empty tag type=%s", r.header.Major, f.ID)
			continue
		case err != nil:
			r.sink.Warn("metadata", r.offset, "frame %s: %v", f.ID, err)
			continue
		}
		r.sink.AddTag(ns, f.ID, value)
	}
}

// Frame format flags, v2.3 and v2.4.
const (
	v3Compressed = 0x0080
	v3Encrypted  = 0x0040
	v3Grouped    = 0x0020

	v4Grouped    = 0x0040
	v4Compressed = 0x0008
	v4Encrypted  = 0x0004
	v4Unsync     = 0x0002
	v4DataLength = 0x0001
)

// frameData strips the per-frame extras announced by the format flags.
func (r *tagReader) frameData(f frame) ([]byte, error) {
	data := f.Data
	var compressed bool

	switch r.header.Major {
	case 3:
		if f.Flags&v3Encrypted != 0 {
			return nil, errors.New("encrypted frame")
		}
		compressed = f.Flags&v3Compressed != 0
		if compressed {
			// decompressed size
			if len(data) < 4 {
				return nil, errors.New("compressed frame too short")
			}
			data = data[4:]
		}
		if f.Flags&v3Grouped != 0 && len(data) > 0 {
			data = data[1:]
		}
	case 4:
		if f.Flags&v4Encrypted != 0 {
			return nil, errors.New("encrypted frame")
		}
		if f.Flags&v4Grouped != 0 && len(data) > 0 {
			data = data[1:]
		}
		if f.Flags&v4DataLength != 0 {
			if len(data) < 4 {
				return nil, errors.New("data length indicator truncated")
			}
			data = data[4:]
		}
		if f.Flags&v4Unsync != 0 || r.header.Flags&tagUnsync != 0 {
			data = removeUnsync(data)
		}
		compressed = f.Flags&v4Compressed != 0
	}

	if compressed {
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decompress: %w", err)
		}
		defer zr.Close()
		if data, err = io.ReadAll(zr); err != nil {
			return nil, fmt.Errorf("decompress: %w", err)
		}
	}
	return data, nil
}

// chapter decodes a CHAP frame:
//
//	[latin1, NUL] element id
//	[4] start ms [4] end ms [4] start offset [4] end offset
//	[frames...]   embedded sub-frames, TIT2 gives the title
func (r *tagReader) chapter(b []byte) (types.Chapter, bool) {
	elementID, rest := latin1(b)
	if len(rest) < 16 {
		r.sink.Warn("metadata", r.offset, "CHAP %q truncated", elementID)
		return types.Chapter{}, false
	}
	ch := types.Chapter{
		Title: elementID,
		Start: time.Duration(binary.BigEndian.Uint32(rest[0:4])) * time.Millisecond,
		End:   time.Duration(binary.BigEndian.Uint32(rest[4:8])) * time.Millisecond,
	}

	sub := rest[16:]
	for {
		f, next, ok := r.nextFrame(sub)
		if !ok {
			break
		}
		sub = next
		if f.ID != "TIT2" && f.ID != "TT2" {
			continue
		}
		data, err := r.frameData(f)
		if err != nil {
			continue
		}
		if v, err := r.dec.decode(f.ID, data); err == nil {
			if title := types.TagText(v); title != "" {
				ch.Title = title
			}
		}
	}
	return ch, true
}
