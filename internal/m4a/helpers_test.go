package m4a

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	binutil "github.com/simonhull/mediaprobe/internal/binary"
	"github.com/simonhull/mediaprobe/internal/types"
)

var testPNG = []byte{
	0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x40, // 64
	0x00, 0x00, 0x00, 0x20, // 32
	0x08, 0x02, 0x00, 0x00, 0x00,
}

func newTokenizer(t testing.TB, data []byte) *binutil.Tokenizer {
	t.Helper()
	sr := binutil.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.m4a")
	return binutil.NewTokenizer(context.Background(), sr, 0)
}

func parseBytes(t testing.TB, data []byte, opts types.ParseOptions) (*types.File, error) {
	t.Helper()
	return (&parser{}).Parse(context.Background(), bytes.NewReader(data), int64(len(data)), "test.m4a", opts)
}

func u16(n uint16) []byte {
	return binary.BigEndian.AppendUint16(nil, n)
}

func u32(n uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, n)
}

func u64(n uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, n)
}

// atom wraps the concatenated parts in an atom header.
func atom(typ string, parts ...[]byte) []byte {
	body := bytes.Join(parts, nil)
	out := u32(uint32(8 + len(body)))
	out = append(out, typ...)
	return append(out, body...)
}

// full builds a full box payload: version, flags, then the parts.
func full(version byte, flags uint32, parts ...[]byte) []byte {
	out := u32(flags)
	out[0] = version
	return append(out, bytes.Join(parts, nil)...)
}

// dataAtom builds an ilst data atom with the given type code.
func dataAtom(code uint32, value []byte) []byte {
	return atom("data", u32(code), u32(0), value)
}

func textItem(typ, value string) []byte {
	return atom(typ, dataAtom(dataUTF8, []byte(value)))
}

// esds builds an elementary stream descriptor for an AAC stream with the
// given average bitrate and AudioSpecificConfig.
func esds(avgBitrate uint32, asc ...byte) []byte {
	specific := append([]byte{tagDecoderSpecific, byte(len(asc))}, asc...)
	config := []byte{0x40, 0x15, 0, 0, 0}
	config = append(config, u32(avgBitrate)...) // max bitrate
	config = append(config, u32(avgBitrate)...)
	config = append(config, specific...)
	decoder := append([]byte{tagDecoderConfig, byte(len(config))}, config...)
	es := append([]byte{0, 1, 0}, decoder...)
	return append([]byte{tagESDescriptor, byte(len(es))}, es...)
}

// audioEntry builds an mp4a-style sample entry.
func audioEntry(format string, channels, bits uint16, rate uint32, children ...[]byte) []byte {
	body := make([]byte, 6)        // reserved
	body = append(body, u16(1)...) // data reference index
	body = append(body, u16(0)...) // version
	body = append(body, u16(0)...) // revision
	body = append(body, u32(0)...) // vendor
	body = append(body, u16(channels)...)
	body = append(body, u16(bits)...)
	body = append(body, u16(0)...) // compression id
	body = append(body, u16(0)...) // packet size
	body = append(body, u32(rate<<16)...)
	return atom(format, body, bytes.Join(children, nil))
}

func stsd(entry []byte) []byte {
	return atom("stsd", full(0, 0, u32(1), entry))
}

func tkhd(id uint32) []byte {
	return atom("tkhd", full(0, 1, u32(0), u32(0), u32(id), make([]byte, 8)))
}

func mdhd(timescale, duration uint32, lang uint16) []byte {
	return atom("mdhd", full(0, 0, u32(0), u32(0), u32(timescale), u32(duration), u16(lang), u16(0)))
}

func hdlr(handler string) []byte {
	return atom("hdlr", full(0, 0, u32(0), []byte(handler), make([]byte, 12)))
}

func mvhd(timescale, duration uint32) []byte {
	return atom("mvhd", full(0, 0, u32(0), u32(0), u32(timescale), u32(duration), make([]byte, 80)))
}

// packedEng is "eng" in the mdhd language packing.
const packedEng = ('e'-0x60)<<10 | ('n'-0x60)<<5 | ('g' - 0x60)

func ftyp(major string, compatible ...string) []byte {
	body := append([]byte(major), u32(0)...)
	for _, c := range compatible {
		body = append(body, c...)
	}
	return atom("ftyp", body)
}

// chapterSamples is the mdat payload of the test chapter track.
var chapterSamples = [][]byte{
	append(u16(5), "Intro"...),
	append(u16(7), "Chapter"...),
	append(u16(12), 0xFE, 0xFF, 0, 'O', 0, 'u', 0, 't', 0, 'r', 0, 'o'),
}

// movie builds a complete M4B with an AAC track, a QuickTime chapter
// track, a Nero chapter list and an iTunes item list.
func movie() []byte {
	head := ftyp("M4B ", "M4A ", "isom")
	build := func(sampleOffset uint32) []byte {
		audio := atom("trak",
			tkhd(1),
			atom("tref", atom("chap", u32(2))),
			atom("mdia",
				mdhd(44100, 44100*60, packedEng),
				hdlr("soun"),
				atom("minf", atom("stbl",
					stsd(audioEntry("mp4a", 2, 16, 44100, atom("esds", full(0, 0, esds(128000, 0x12, 0x10))))),
					atom("stsz", full(0, 0, u32(0), u32(1), u32(100))),
				)),
			),
		)
		var sizes []byte
		for _, s := range chapterSamples {
			sizes = append(sizes, u32(uint32(len(s)))...)
		}
		text := atom("trak",
			tkhd(2),
			atom("mdia",
				mdhd(1000, 60000, packedEng),
				hdlr("text"),
				atom("minf", atom("stbl",
					stsd(atom("text", make([]byte, 8))),
					atom("stts", full(0, 0, u32(3), u32(1), u32(10000), u32(1), u32(20000), u32(1), u32(30000))),
					atom("stsc", full(0, 0, u32(1), u32(1), u32(3), u32(1))),
					atom("stsz", full(0, 0, u32(0), u32(3), sizes)),
					atom("stco", full(0, 0, u32(1), u32(sampleOffset))),
				)),
			),
		)
		udta := atom("udta",
			atom("chpl", full(1, 0, u32(0), []byte{1}, u64(0), []byte{4}, []byte("Nero"))),
			atom("meta", full(0, 0),
				hdlr("mdir"),
				atom("ilst",
					textItem("\xa9nam", "Book"),
					textItem("\xa9ART", "Author"),
					textItem("\xa9alb", "Series"),
					atom("trkn", dataAtom(dataImplicit, []byte{0, 0, 0, 3, 0, 12, 0, 0})),
					atom("covr", dataAtom(dataPNG, testPNG)),
					atom("----",
						atom("mean", u32(0), []byte("com.apple.iTunes")),
						atom("name", u32(0), []byte("ASIN")),
						dataAtom(dataUTF8, []byte("B000")),
					),
				),
			),
		)
		return atom("moov", mvhd(1000, 60000), audio, text, udta)
	}
	moov := build(0)
	offset := uint32(len(head) + len(moov) + 8)
	moov = build(offset)

	out := append(head, moov...)
	return append(out, atom("mdat", bytes.Join(chapterSamples, nil))...)
}
