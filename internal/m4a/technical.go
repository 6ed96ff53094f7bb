package m4a

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// track collects the boxes of one trak atom.
type track struct {
	Codec      string // sample entry format, e.g. "mp4a"
	Handler    string // "soun", "vide", "text", ...
	Language   string
	Profile    string // AAC profile from esds
	ChapterIDs []uint32

	// sample tables, kept for text tracks only
	SampleDeltas []sttsEntry
	SampleSizes  []uint32
	ChunkOffsets []uint64
	ChunkRuns    []stscEntry

	Enabled       bool
	Duration      uint64
	AvgBitrate    uint32
	ID            uint32
	Timescale     uint32
	SampleRate    int
	Channels      int
	BitsPerSample int
}

type sttsEntry struct {
	Count, Delta uint32
}

type stscEntry struct {
	FirstChunk, SamplesPerChunk uint32
}

// Seconds returns the track duration from its media header.
func (t *track) Seconds() float64 {
	if t.Timescale == 0 {
		return 0
	}
	return float64(t.Duration) / float64(t.Timescale)
}

// fullBox splits the version byte and flags off a full box payload.
func fullBox(b []byte) (version byte, flags uint32, rest []byte, err error) {
	if len(b) < 4 {
		return 0, 0, nil, errors.New("full box header truncated")
	}
	return b[0], binary.BigEndian.Uint32(b) & 0xFFFFFF, b[4:], nil
}

// parseMediaHeader decodes mvhd and mdhd, which share the layout of their
// leading fields:
//
//	v0: [4] created [4] modified [4] timescale [4] duration
//	v1: [8] created [8] modified [4] timescale [8] duration
func parseMediaHeader(b []byte) (timescale uint32, duration uint64, rest []byte, err error) {
	version, _, b, err := fullBox(b)
	if err != nil {
		return 0, 0, nil, err
	}
	if version == 1 {
		if len(b) < 28 {
			return 0, 0, nil, errors.New("v1 header truncated")
		}
		return binary.BigEndian.Uint32(b[16:20]), binary.BigEndian.Uint64(b[20:28]), b[28:], nil
	}
	if len(b) < 16 {
		return 0, 0, nil, errors.New("v0 header truncated")
	}
	return binary.BigEndian.Uint32(b[8:12]), uint64(binary.BigEndian.Uint32(b[12:16])), b[16:], nil
}

// parseLanguage decodes the packed ISO-639-2/T code of mdhd: three 5-bit
// letters offset by 0x60.
func parseLanguage(packed uint16) string {
	if packed == 0 || packed == 0x7FFF {
		return ""
	}
	return string([]byte{
		byte(packed>>10&0x1F) + 0x60,
		byte(packed>>5&0x1F) + 0x60,
		byte(packed&0x1F) + 0x60,
	})
}

func (t *track) parseMdhd(b []byte) error {
	timescale, duration, rest, err := parseMediaHeader(b)
	if err != nil {
		return err
	}
	t.Timescale, t.Duration = timescale, duration
	if len(rest) >= 2 {
		t.Language = parseLanguage(binary.BigEndian.Uint16(rest))
	}
	return nil
}

// parseTkhd reads the track ID and the enabled flag (0x1).
//
//	v0: [4] created [4] modified [4] track id
//	v1: [8] created [8] modified [4] track id
func (t *track) parseTkhd(b []byte) error {
	version, flags, b, err := fullBox(b)
	if err != nil {
		return err
	}
	t.Enabled = flags&1 != 0
	off := 8
	if version == 1 {
		off = 16
	}
	if len(b) < off+4 {
		return errors.New("tkhd truncated")
	}
	t.ID = binary.BigEndian.Uint32(b[off:])
	return nil
}

// parseHdlr reads the handler type: [4] pre-defined [4] handler type.
func (t *track) parseHdlr(b []byte) error {
	_, _, b, err := fullBox(b)
	if err != nil {
		return err
	}
	if len(b) < 8 {
		return errors.New("hdlr truncated")
	}
	t.Handler = string(b[4:8])
	return nil
}

// parseStsd reads the first sample description.
//
//	[4] entry count
//	entry: [4] size [4] format [6] reserved [2] data reference index
//	audio: [2] version [2] revision [4] vendor [2] channels [2] sample size
//	       [2] compression id [2] packet size [4] sample rate (16.16)
//	       v1 adds 16 bytes, v2 adds 36; child boxes (esds, ...) follow
func (t *track) parseStsd(b []byte) error {
	_, _, b, err := fullBox(b)
	if err != nil {
		return err
	}
	if len(b) < 4 {
		return errors.New("stsd truncated")
	}
	if binary.BigEndian.Uint32(b) == 0 {
		return nil
	}
	b = b[4:]
	if len(b) < 16 {
		return errors.New("sample entry truncated")
	}
	size := int(binary.BigEndian.Uint32(b))
	if size < 16 || size > len(b) {
		return fmt.Errorf("sample entry size %d out of range", size)
	}
	t.Codec = string(b[4:8])
	entry := b[16:size]

	if t.Handler != "" && t.Handler != "soun" {
		return nil
	}
	if len(entry) < 20 {
		return errors.New("audio sample entry truncated")
	}

	version := binary.BigEndian.Uint16(entry[0:2])
	t.Channels = int(binary.BigEndian.Uint16(entry[8:10]))
	t.BitsPerSample = int(binary.BigEndian.Uint16(entry[10:12]))
	t.SampleRate = int(binary.BigEndian.Uint32(entry[16:20]) >> 16)

	children := entry[20:]
	switch version {
	case 1:
		children = skipBytes(children, 16)
	case 2:
		children = skipBytes(children, 36)
	}

	for len(children) >= 8 {
		n := int(binary.BigEndian.Uint32(children))
		if n < 8 || n > len(children) {
			break
		}
		if string(children[4:8]) == "esds" {
			t.parseEsds(children[8:n])
		}
		children = children[n:]
	}
	return nil
}

func skipBytes(b []byte, n int) []byte {
	if n > len(b) {
		return nil
	}
	return b[n:]
}

// parseEsds reads the AAC profile and the average bitrate from an
// elementary stream descriptor.
func (t *track) parseEsds(b []byte) {
	_, _, b, err := fullBox(b)
	if err != nil {
		return
	}
	d := parseESDescriptors(b)
	t.AvgBitrate = d.AvgBitrate
	if name, ok := aacProfiles[d.ObjectType]; ok {
		t.Profile = name
	}
}

// parseStts reads the time-to-sample table.
func (t *track) parseStts(b []byte) error {
	_, _, b, err := fullBox(b)
	if err != nil {
		return err
	}
	n, b, err := entryCount(b, 8)
	if err != nil {
		return err
	}
	t.SampleDeltas = make([]sttsEntry, n)
	for i := range n {
		t.SampleDeltas[i] = sttsEntry{
			Count: binary.BigEndian.Uint32(b[i*8:]),
			Delta: binary.BigEndian.Uint32(b[i*8+4:]),
		}
	}
	return nil
}

// parseStsz reads the sample sizes: [4] default size [4] count [4]...
func (t *track) parseStsz(b []byte) error {
	_, _, b, err := fullBox(b)
	if err != nil {
		return err
	}
	if len(b) < 4 {
		return errors.New("stsz truncated")
	}
	fixed := binary.BigEndian.Uint32(b)
	if fixed != 0 {
		if len(b) < 8 {
			return errors.New("stsz truncated")
		}
		count := int(binary.BigEndian.Uint32(b[4:]))
		t.SampleSizes = make([]uint32, min(count, maxTableEntries))
		for i := range t.SampleSizes {
			t.SampleSizes[i] = fixed
		}
		return nil
	}
	n, b, err := entryCount(b[4:], 4)
	if err != nil {
		return err
	}
	t.SampleSizes = make([]uint32, n)
	for i := range n {
		t.SampleSizes[i] = binary.BigEndian.Uint32(b[i*4:])
	}
	return nil
}

// parseStsc reads the sample-to-chunk table:
// [4] first chunk [4] samples per chunk [4] description index.
func (t *track) parseStsc(b []byte) error {
	_, _, b, err := fullBox(b)
	if err != nil {
		return err
	}
	n, b, err := entryCount(b, 12)
	if err != nil {
		return err
	}
	t.ChunkRuns = make([]stscEntry, n)
	for i := range n {
		t.ChunkRuns[i] = stscEntry{
			FirstChunk:      binary.BigEndian.Uint32(b[i*12:]),
			SamplesPerChunk: binary.BigEndian.Uint32(b[i*12+4:]),
		}
	}
	return nil
}

// parseChunkOffsets reads stco (32-bit) or co64 (64-bit) chunk offsets.
func (t *track) parseChunkOffsets(b []byte, wide bool) error {
	_, _, b, err := fullBox(b)
	if err != nil {
		return err
	}
	width := 4
	if wide {
		width = 8
	}
	n, b, err := entryCount(b, width)
	if err != nil {
		return err
	}
	t.ChunkOffsets = make([]uint64, n)
	for i := range n {
		if wide {
			t.ChunkOffsets[i] = binary.BigEndian.Uint64(b[i*8:])
		} else {
			t.ChunkOffsets[i] = uint64(binary.BigEndian.Uint32(b[i*4:]))
		}
	}
	return nil
}

// maxTableEntries bounds the sample tables read for chapter tracks.
const maxTableEntries = 1 << 16

// entryCount reads a table's entry count and checks that the entries fit.
func entryCount(b []byte, width int) (int, []byte, error) {
	if len(b) < 4 {
		return 0, nil, errors.New("entry count truncated")
	}
	n := int(binary.BigEndian.Uint32(b))
	b = b[4:]
	if n > maxTableEntries {
		return 0, nil, fmt.Errorf("%d table entries exceeds limit of %d", n, maxTableEntries)
	}
	if n*width > len(b) {
		return 0, nil, fmt.Errorf("%d entries of %d bytes overrun %d-byte table", n, width, len(b))
	}
	return n, b, nil
}

// parseChap reads the track IDs of a tref/chap reference.
func (t *track) parseChap(b []byte) {
	for len(b) >= 4 {
		t.ChapterIDs = append(t.ChapterIDs, binary.BigEndian.Uint32(b))
		b = b[4:]
	}
}

// brands formats the ftyp major and compatible brands, e.g. "M4A/isom/iso2".
//
//	[4] major brand [4] minor version [4]... compatible brands
func brands(b []byte) (major, container string) {
	if len(b) < 8 {
		return "", ""
	}
	major = strings.Trim(string(b[0:4]), " \x00")
	seen := map[string]bool{major: true}
	names := []string{major}
	for b = b[8:]; len(b) >= 4; b = b[4:] {
		brand := strings.Trim(string(b[0:4]), " \x00")
		if brand == "" || seen[brand] {
			continue
		}
		seen[brand] = true
		names = append(names, brand)
	}
	return major, strings.Join(names, "/")
}
