package ebml

import (
	"bytes"
	"context"
	"testing"

	"github.com/simonhull/mediaprobe/internal/binary"
)

func newTokenizer(t testing.TB, data []byte) *binary.Tokenizer {
	t.Helper()
	sr := binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.mka")
	return binary.NewTokenizer(context.Background(), sr, 0)
}

// encodeSize encodes v as a size VINT of the given width.
func encodeSize(v uint64, width int) []byte {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	buf[0] |= 0x80 >> (width - 1)
	return buf
}

// idBytes returns the big-endian bytes of an element ID, marker included.
func idBytes(id uint64) []byte {
	switch {
	case id <= 0xFF:
		return []byte{byte(id)}
	case id <= 0xFFFF:
		return []byte{byte(id >> 8), byte(id)}
	case id <= 0xFFFFFF:
		return []byte{byte(id >> 16), byte(id >> 8), byte(id)}
	default:
		return []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	}
}

// el builds one element with the shortest size encoding.
func el(id uint64, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	width := 1
	for uint64(len(body)) >= (uint64(1)<<(7*width))-1 {
		width++
	}
	out := idBytes(id)
	out = append(out, encodeSize(uint64(len(body)), width)...)
	return append(out, body...)
}

func uintBytes(v uint64, n int) []byte {
	buf := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return buf
}

var testSchema = Schema{
	0x1A45DFA3: Master("header", Schema{
		0x4282: Leaf("docType", KindString),
		0x4286: Leaf("version", KindUInt),
	}),
	0x18538067: Master("segment", Schema{
		0x1549A966: Master("info", Schema{
			0x2AD7B1: Leaf("timecodeScale", KindUInt),
			0x4489:   Leaf("duration", KindFloat),
			0x7BA9:   Leaf("title", KindString),
		}),
		0x1654AE6B: Master("tracks", Schema{
			0xAE: MasterList("entries", Schema{
				0xD7:   Leaf("trackNumber", KindUInt),
				0x88:   Leaf("flagDefault", KindBool),
				0x73C5: Leaf("uid", KindUIDBool),
				0x63A2: Leaf("codecPrivate", KindBinary),
			}),
		}),
	}),
}
