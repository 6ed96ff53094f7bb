// Package mp3 reads metadata from MPEG audio files.
//
// Leading ID3v2 tags (v2.2, v2.3 and v2.4) are decoded frame by frame and
// reported under the namespace "ID3v2.<major>". The first audio frame and
// its Xing/Info or VBRI header give the stream facts. A trailing ID3v1 tag
// is reported under "ID3v1".
package mp3

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/dhowden/tag"

	binutil "github.com/simonhull/mediaprobe/internal/binary"
	"github.com/simonhull/mediaprobe/internal/registry"
	"github.com/simonhull/mediaprobe/internal/types"
)

const id3v1Size = 128

// parser implements the registry.FormatParser interface
type parser struct{}

// Parse reads the ID3v2 tags, the first frame and the ID3v1 tag.
//
// A malformed ID3v2 tag or an unsupported major version aborts the parse
// with a *types.ParseError. Missing audio frames only produce a warning.
func (p *parser) Parse(ctx context.Context, r io.ReaderAt, size int64, path string, opts types.ParseOptions) (*types.File, error) {
	log := opts.Log().With("path", path)
	sr := binutil.NewSafeReader(r, size, path)
	tok := binutil.NewTokenizer(ctx, sr, 0)
	c := types.NewCollector(path, types.FormatMP3, size, opts)

	// Some writers prepend more than one tag.
	for hasTag(tok) {
		start := tok.Position()
		if _, err := readID3v2(tok, c, log); err != nil {
			return nil, c.Fail(start, err)
		}
	}

	audioEnd := size
	if hasID3v1(sr) {
		audioEnd -= id3v1Size
		readID3v1(r, size, c)
	}

	if err := readStream(tok, audioEnd, c, log); err != nil {
		if ctx.Err() != nil {
			return nil, c.Fail(tok.Position(), ctx.Err())
		}
		c.Warn("technical", tok.Position(), "%v", err)
	}

	return c.File(), nil
}

// readStream reports the facts of the first MPEG frame.
func readStream(tok *binutil.Tokenizer, audioEnd int64, sink types.Sink, log *slog.Logger) error {
	h, err := findFirstFrame(tok)
	if err != nil {
		return err
	}
	frameStart := tok.Position()
	log.Debug("first mpeg frame", "offset", frameStart, "codec", h.Codec(), "bitrate", h.Bitrate, "sampleRate", h.SampleRate)

	sink.SetFormat(types.FactContainer, "MPEG")
	sink.SetFormat(types.FactCodec, h.Codec())
	sink.SetFormat(types.FactSampleRate, h.SampleRate)
	sink.SetFormat(types.FactChannels, h.Channels())
	sink.SetFormat(types.FactLossless, false)

	audioBytes := audioEnd - frameStart
	spf := int64(h.SamplesPerFrame())

	var (
		frames  int64
		profile = "CBR"
	)

	if err := tok.Seek(frameStart + int64(h.SideInfoOffset())); err == nil {
		x, err := readXing(tok)
		if err != nil {
			return err
		}
		if x != nil {
			log.Debug("xing header", "id", x.ID, "flags", x.Flags, "frames", x.Frames, "lame", x.LAME)
			if x.HasFrames() {
				frames = int64(x.Frames)
			}
			if x.Flags&xingBytes != 0 && x.Bytes > 0 {
				audioBytes = int64(x.Bytes)
			}
			profile = x.CodecProfile()
			if tool := x.Tool(); tool != "" {
				sink.SetFormat(types.FactTool, tool)
			}
		}
	}
	if frames == 0 {
		if err := tok.Seek(frameStart + vbriOffset); err == nil {
			if n, ok := readVBRI(tok); ok {
				frames = int64(n)
				profile = "VBR"
			}
		}
	}
	sink.SetFormat(types.FactCodecProfile, profile)

	if frames > 0 {
		samples := frames * spf
		seconds := float64(samples) / float64(h.SampleRate)
		sink.SetFormat(types.FactSamples, samples)
		sink.SetFormat(types.FactDuration, seconds)
		if seconds > 0 {
			sink.SetFormat(types.FactBitrate, int(float64(audioBytes*8)/seconds))
		}
		return nil
	}

	// No frame count: assume a constant bitrate over the audio bytes.
	sink.SetFormat(types.FactBitrate, h.Bitrate)
	if audioBytes > 0 {
		sink.SetFormat(types.FactDuration, float64(audioBytes*8)/float64(h.Bitrate))
	}
	return nil
}

func hasID3v1(sr *binutil.SafeReader) bool {
	if sr.Size() < id3v1Size {
		return false
	}
	b := make([]byte, 3)
	if err := sr.ReadAt(b, sr.Size()-id3v1Size, "ID3v1 magic"); err != nil {
		return false
	}
	return string(b) == "TAG"
}

// readID3v1 reports the trailing ID3v1 tag.
func readID3v1(r io.ReaderAt, size int64, sink tagSink) {
	m, err := tag.ReadID3v1Tags(io.NewSectionReader(r, 0, size))
	if err != nil {
		if !errors.Is(err, tag.ErrNotID3v1) {
			sink.Warn("metadata", size-id3v1Size, "ID3v1: %v", err)
		}
		return
	}

	const ns = "ID3v1"
	for _, f := range []struct{ key, value string }{
		{"title", m.Title()},
		{"artist", m.Artist()},
		{"album", m.Album()},
		{"comment", m.Comment()},
		{"genre", m.Genre()},
	} {
		if f.value != "" {
			sink.AddTag(ns, f.key, f.value)
		}
	}
	if y := m.Year(); y > 0 {
		sink.AddTag(ns, "year", y)
	}
	if n, _ := m.Track(); n > 0 {
		sink.AddTag(ns, "track", n)
	}
}

// init registers the MP3 parser
func init() {
	registry.Register(types.FormatMP3, &parser{})
}
