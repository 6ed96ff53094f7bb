package mp3

import (
	"bytes"
	"context"
	"testing"

	binutil "github.com/simonhull/mediaprobe/internal/binary"
	"github.com/simonhull/mediaprobe/internal/types"
)

func newTokenizer(t testing.TB, data []byte) *binutil.Tokenizer {
	t.Helper()
	sr := binutil.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.mp3")
	return binutil.NewTokenizer(context.Background(), sr, 0)
}

func newCollector() *types.Collector {
	return types.NewCollector("test.mp3", types.FormatMP3, 0, types.ParseOptions{})
}

func synchsafe(n int) []byte {
	return []byte{byte(n>>21) & 0x7F, byte(n>>14) & 0x7F, byte(n>>7) & 0x7F, byte(n) & 0x7F}
}

func be32(n uint32) []byte {
	return []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
}

// id3Tag wraps frames in a tag header of the given major version.
func id3Tag(major, flags byte, frames ...[]byte) []byte {
	body := bytes.Join(frames, nil)
	out := []byte{'I', 'D', '3', major, 0, flags}
	out = append(out, synchsafe(len(body))...)
	return append(out, body...)
}

// id3Frame builds a frame header and body for the given major version.
func id3Frame(major byte, id string, body []byte) []byte {
	var out []byte
	switch major {
	case 2:
		n := len(body)
		out = append([]byte(id), byte(n>>16), byte(n>>8), byte(n))
	case 3:
		out = append([]byte(id), be32(uint32(len(body)))...)
		out = append(out, 0, 0)
	default:
		out = append([]byte(id), synchsafe(len(body))...)
		out = append(out, 0, 0)
	}
	return append(out, body...)
}

// text builds an ISO-8859-1 text frame body.
func text(s string) []byte {
	return append([]byte{encISO8859}, s...)
}

const (
	// MPEG 1 Layer 3, 128 kbit/s, 44.1 kHz, no CRC: 417-byte frames.
	stereoHeader = 0xFFFB9000
	monoHeader   = 0xFFFB90C0
	frameLen     = 417
)

// mpegFrame builds one silent frame with header h and payload placed at
// the given offset from the frame start.
func mpegFrame(h uint32, at int, payload []byte) []byte {
	f := make([]byte, frameLen)
	copy(f, be32(h))
	copy(f[at:], payload)
	return f
}

// xingPayload builds a Xing tag with frames, bytes and a VBR scale, plus a
// LAME version string.
func xingPayload(id string, frames, size, scale uint32) []byte {
	out := []byte(id)
	out = append(out, be32(xingFrames|xingBytes|xingVBRScale)...)
	out = append(out, be32(frames)...)
	out = append(out, be32(size)...)
	out = append(out, be32(scale)...)
	return append(out, "LAME3.99r"...)
}

// id3v1 builds a 128-byte ID3v1.1 tag.
func id3v1(title, artist string, year string, track byte) []byte {
	b := make([]byte, id3v1Size)
	copy(b, "TAG")
	copy(b[3:33], title)
	copy(b[33:63], artist)
	copy(b[93:97], year)
	b[126] = track
	b[127] = 17
	return b
}

func parseBytes(t *testing.T, data []byte) (*types.File, error) {
	t.Helper()
	p := &parser{}
	return p.Parse(context.Background(), bytes.NewReader(data), int64(len(data)), "test.mp3", types.ParseOptions{})
}
