package m4a

import (
	"encoding/binary"
	"errors"
	"time"
	"unicode/utf16"

	"github.com/simonhull/mediaprobe/internal/types"
)

// parseChpl decodes a Nero chapter list (moov.udta.chpl):
//
//	[1] version [3] flags [4] reserved (version > 0) [1] count
//	entry: [8] start in 100 ns units [1] title length [n] title
func parseChpl(b []byte) ([]types.Chapter, error) {
	version, _, b, err := fullBox(b)
	if err != nil {
		return nil, err
	}
	if version > 0 {
		if len(b) < 4 {
			return nil, errors.New("chpl truncated")
		}
		b = b[4:]
	}
	if len(b) < 1 {
		return nil, errors.New("chpl count missing")
	}
	count := int(b[0])
	b = b[1:]

	chapters := make([]types.Chapter, 0, count)
	for range count {
		if len(b) < 9 {
			return chapters, errors.New("chpl entry truncated")
		}
		start := time.Duration(binary.BigEndian.Uint64(b)) * 100
		n := int(b[8])
		b = b[9:]
		if n > len(b) {
			return chapters, errors.New("chpl title truncated")
		}
		chapters = append(chapters, types.Chapter{Title: string(b[:n]), Start: start})
		b = b[n:]
	}
	return chapters, nil
}

// sampleTimes expands the time-to-sample table into sample start times.
func (t *track) sampleTimes() []time.Duration {
	if t.Timescale == 0 {
		return nil
	}
	var (
		times []time.Duration
		at    uint64
	)
	for _, e := range t.SampleDeltas {
		for range e.Count {
			if len(times) >= maxTableEntries {
				return times
			}
			times = append(times, time.Duration(at*uint64(time.Second)/uint64(t.Timescale)))
			at += uint64(e.Delta)
		}
	}
	return times
}

// sampleOffsets resolves the file offset of every sample from the chunk
// offsets, the sample-to-chunk runs and the sample sizes. Without a
// sample-to-chunk table each chunk holds one sample.
func (t *track) sampleOffsets() []int64 {
	runs := t.ChunkRuns
	if len(runs) == 0 {
		runs = []stscEntry{{FirstChunk: 1, SamplesPerChunk: 1}}
	}

	var offsets []int64
	sample := 0
	for chunk := range t.ChunkOffsets {
		perChunk := uint32(1)
		for _, r := range runs {
			if uint32(chunk+1) >= r.FirstChunk {
				perChunk = r.SamplesPerChunk
			}
		}
		off := int64(t.ChunkOffsets[chunk])
		for range perChunk {
			if sample >= len(t.SampleSizes) {
				return offsets
			}
			offsets = append(offsets, off)
			off += int64(t.SampleSizes[sample])
			sample++
		}
	}
	return offsets
}

// maxChapterSample bounds a single text sample.
const maxChapterSample = 4096

// decodeTextSample reads a QuickTime text sample: [2] length [n] text.
// The text is UTF-8 or, with a byte order mark, UTF-16.
func decodeTextSample(b []byte) string {
	if len(b) < 2 {
		return ""
	}
	n := int(binary.BigEndian.Uint16(b))
	if n > len(b)-2 {
		return ""
	}
	text := b[2 : 2+n]
	if len(text) >= 2 && (text[0] == 0xFE && text[1] == 0xFF || text[0] == 0xFF && text[1] == 0xFE) {
		order := binary.ByteOrder(binary.BigEndian)
		if text[0] == 0xFF {
			order = binary.LittleEndian
		}
		u := make([]uint16, (len(text)-2)/2)
		for i := range u {
			u[i] = order.Uint16(text[2+i*2:])
		}
		return string(utf16.Decode(u))
	}
	return string(text)
}

// closeChapters sets each chapter's end to the next chapter's start, and
// the last one's to the movie duration.
func closeChapters(chapters []types.Chapter, total time.Duration) {
	for i := range chapters {
		if i+1 < len(chapters) {
			chapters[i].End = chapters[i+1].Start
		} else if total > chapters[i].Start {
			chapters[i].End = total
		}
	}
}
