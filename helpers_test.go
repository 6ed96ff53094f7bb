package mediaprobe_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/at-wat/ebml-go"
	"github.com/bogem/id3v2/v2"
)

var testPNG = []byte{
	0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x10, // 16
	0x00, 0x00, 0x00, 0x10, // 16
	0x08, 0x02, 0x00, 0x00, 0x00,
}

// writeTemp writes data to a file in a per-test directory.
func writeTemp(tb testing.TB, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatal(err)
	}
	return path
}

// Fixture types for github.com/at-wat/ebml-go.
type webmDoc struct {
	Header  webmHeader  `ebml:"EBML"`
	Segment webmSegment `ebml:"Segment"`
}

type webmHeader struct {
	EBMLVersion     uint64
	EBMLReadVersion uint64
	EBMLDocType     string
}

type webmSegment struct {
	Info   webmInfo
	Tracks webmTracks
}

type webmInfo struct {
	TimecodeScale uint64
	Title         string
	Duration      float64
}

type webmTracks struct {
	TrackEntry []webmTrackEntry
}

type webmTrackEntry struct {
	TrackNumber uint64
	TrackType   uint64
	CodecID     string
	Audio       webmAudio
}

type webmAudio struct {
	SamplingFrequency float64
	Channels          uint64
}

// webmFile marshals a WebM document with one Opus track.
func webmFile(tb testing.TB) []byte {
	tb.Helper()
	doc := webmDoc{
		Header: webmHeader{EBMLVersion: 1, EBMLReadVersion: 1, EBMLDocType: "webm"},
		Segment: webmSegment{
			Info: webmInfo{TimecodeScale: 1_000_000, Title: "Clip", Duration: 90_000},
			Tracks: webmTracks{TrackEntry: []webmTrackEntry{
				{TrackNumber: 1, TrackType: 2, CodecID: "A_OPUS", Audio: webmAudio{SamplingFrequency: 48000, Channels: 2}},
			}},
		},
	}
	var buf bytes.Buffer
	if err := ebml.Marshal(&doc, &buf); err != nil {
		tb.Fatalf("ebml.Marshal() error = %v", err)
	}
	return buf.Bytes()
}

// MPEG-1 Layer III, 128 kbps, 44.1 kHz, stereo: 417-byte frames.
const (
	mpegHeader   = 0xFFFB9000
	mpegFrameLen = 417
)

// mp3File builds an ID3v2.4 tag, with a cover when picture is set, followed
// by count MPEG frames.
func mp3File(tb testing.TB, picture []byte, count int) []byte {
	tb.Helper()
	tag := id3v2.NewEmptyTag()
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle("Song")
	tag.SetArtist("Artist")
	if picture != nil {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/png",
			PictureType: id3v2.PTFrontCover,
			Picture:     picture,
		})
	}

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		tb.Fatal(err)
	}
	for range count {
		frame := make([]byte, mpegFrameLen)
		binary.BigEndian.PutUint32(frame, mpegHeader)
		buf.Write(frame)
	}
	return buf.Bytes()
}

func atom(typ string, parts ...[]byte) []byte {
	body := bytes.Join(parts, nil)
	out := binary.BigEndian.AppendUint32(nil, uint32(8+len(body)))
	out = append(out, typ...)
	return append(out, body...)
}

// m4bFile builds an M4B with a movie header and a title item.
func m4bFile() []byte {
	ftyp := atom("ftyp", []byte("M4B "), make([]byte, 4), []byte("M4A "))

	mvhd := make([]byte, 100)
	binary.BigEndian.PutUint32(mvhd[12:], 1000)  // timescale
	binary.BigEndian.PutUint32(mvhd[16:], 30000) // duration

	data := atom("data", []byte{0, 0, 0, 1}, make([]byte, 4), []byte("Audiobook"))
	ilst := atom("ilst", atom("\xa9nam", data))
	moov := atom("moov", atom("mvhd", mvhd), atom("udta", atom("meta", make([]byte, 4), ilst)))
	return append(ftyp, moov...)
}
