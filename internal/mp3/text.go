package mp3

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ID3v2 text encodings, the first byte of every text-bearing frame body.
const (
	encISO8859  byte = 0x00
	encUTF16    byte = 0x01 // with BOM
	encUTF16BE  byte = 0x02 // v2.4 only
	encUTF8     byte = 0x03 // v2.4 only
	maxEncoding byte = encUTF8
)

func decoderFor(enc byte) *encoding.Decoder {
	switch enc {
	case encUTF16:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case encUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	case encUTF8:
		return nil
	default:
		return charmap.ISO8859_1.NewDecoder()
	}
}

// decodeText converts b from the given ID3v2 encoding to UTF-8.
// Undecodable input falls back to a byte-for-byte conversion.
func decodeText(b []byte, enc byte) string {
	if len(b) == 0 {
		return ""
	}
	dec := decoderFor(enc)
	if dec == nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	out, err := dec.Bytes(b)
	if err != nil {
		// UTF-16 without a BOM is read as big-endian.
		if enc == encUTF16 {
			if out, err = decoderFor(encUTF16BE).Bytes(b); err == nil {
				return string(out)
			}
		}
		return string(b)
	}
	return string(out)
}

// terminatorSize is the width of the string terminator for enc.
func terminatorSize(enc byte) int {
	if enc == encUTF16 || enc == encUTF16BE {
		return 2
	}
	return 1
}

// findZero returns the index of the first terminator in b, honouring the
// 2-byte alignment of UTF-16. It returns len(b) when there is none.
func findZero(b []byte, enc byte) int {
	if terminatorSize(enc) == 1 {
		if i := bytes.IndexByte(b, 0); i >= 0 {
			return i
		}
		return len(b)
	}
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return i
		}
	}
	return len(b)
}

// readString splits one terminated string off the front of b.
func readString(b []byte, enc byte) (string, []byte) {
	end := findZero(b, enc)
	s := decodeText(b[:end], enc)
	next := end + terminatorSize(enc)
	if next > len(b) {
		next = len(b)
	}
	return s, b[next:]
}

// latin1 splits one NUL-terminated ISO-8859-1 string off the front of b.
func latin1(b []byte) (string, []byte) {
	return readString(b, encISO8859)
}

func trimNulls(s string) string {
	return strings.TrimRight(s, "\x00")
}
