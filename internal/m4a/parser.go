package m4a

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	binutil "github.com/simonhull/mediaprobe/internal/binary"
	"github.com/simonhull/mediaprobe/internal/registry"
	"github.com/simonhull/mediaprobe/internal/types"
)

// maxAtomPayload bounds the payload read for a single decoded atom.
const maxAtomPayload = 64 << 20

// parser implements the registry.FormatParser interface
type parser struct{}

// Parse walks the atom tree once and reports what it found.
//
// A structurally broken atom tree aborts the parse with a *types.ParseError.
// Undecodable leaf atoms only produce warnings.
func (p *parser) Parse(ctx context.Context, r io.ReaderAt, size int64, path string, opts types.ParseOptions) (*types.File, error) {
	sr := binutil.NewSafeReader(r, size, path)
	tok := binutil.NewTokenizer(ctx, sr, 0)
	c := types.NewCollector(path, types.FormatM4A, size, opts)

	w := &walker{
		sink:   c,
		log:    opts.Log().With("path", path),
		sr:     sr,
		tracks: make(map[*Atom]*track),
	}

	if err := readAtoms(tok, w.handle, nil, size); err != nil {
		// A truncated tail past a complete movie atom, e.g. a cut-off
		// mdat, leaves the metadata intact.
		if !errors.Is(err, types.ErrUnexpectedEndOfStream) || w.moovEnd == 0 || tok.Position() < w.moovEnd {
			return nil, c.Fail(tok.Position(), err)
		}
		c.Warn("structure", tok.Position(), "%v", err)
	}

	w.report()
	return c.File(), nil
}

// walker holds the state of one atom walk.
type walker struct {
	sink *types.Collector
	log  *slog.Logger
	sr   *binutil.SafeReader

	major     string
	container string
	moov      bool
	moovEnd   int64
	timescale uint32 // movie timescale from mvhd
	duration  uint64 // movie duration in timescale units
	mdatSize  int64

	tracks map[*Atom]*track
	order  []*track
	chpl   []types.Chapter
}

// trackOf returns the track an atom belongs to, creating it on first use.
func (w *walker) trackOf(a *Atom) *track {
	for p := a.Parent; p != nil; p = p.Parent {
		if p.Type != "trak" {
			continue
		}
		t, ok := w.tracks[p]
		if !ok {
			t = &track{}
			w.tracks[p] = t
			w.order = append(w.order, t)
		}
		return t
	}
	return nil
}

func (w *walker) handle(tok *binutil.Tokenizer, a *Atom) error {
	w.log.Debug("atom", "path", a.Path(), "offset", a.Offset, "size", a.Size)

	parent := ""
	if a.Parent != nil {
		parent = a.Parent.Type
	}

	switch {
	case a.Type == "mdat":
		w.mdatSize += a.PayloadSize()
		return nil
	case parent == "ilst":
		return w.payload(tok, a, w.item)
	}

	switch a.Type {
	case "ftyp":
		return w.payload(tok, a, func(_ *Atom, b []byte) error {
			w.major, w.container = brands(b)
			return nil
		})
	case "mvhd":
		w.moov = true
		if a.Parent != nil {
			w.moovEnd = a.Parent.End()
		}
		return w.payload(tok, a, func(_ *Atom, b []byte) error {
			var err error
			w.timescale, w.duration, _, err = parseMediaHeader(b)
			return err
		})
	case "chpl":
		if parent != "udta" {
			return nil
		}
		return w.payload(tok, a, func(_ *Atom, b []byte) error {
			chapters, err := parseChpl(b)
			w.chpl = chapters
			return err
		})
	}

	t := w.trackOf(a)
	if t == nil {
		return nil
	}
	var decode func(b []byte) error
	switch a.Type {
	case "tkhd":
		decode = t.parseTkhd
	case "mdhd":
		decode = t.parseMdhd
	case "hdlr":
		if parent == "mdia" {
			decode = t.parseHdlr
		}
	case "stsd":
		decode = t.parseStsd
	case "chap":
		if parent == "tref" {
			decode = func(b []byte) error { t.parseChap(b); return nil }
		}
	case "stts", "stsz", "stsc", "stco", "co64":
		// only text tracks need sample tables, for chapter titles
		if t.isText() {
			decode = t.tableDecoder(a.Type)
		}
	}
	if decode == nil {
		return nil
	}
	return w.payload(tok, a, func(_ *Atom, b []byte) error { return decode(b) })
}

// payload reads the atom payload and passes it to decode. Decode failures
// become warnings; read failures stop the walk.
func (w *walker) payload(tok *binutil.Tokenizer, a *Atom, decode func(a *Atom, b []byte) error) error {
	if a.PayloadSize() > maxAtomPayload {
		w.sink.Warn("structure", a.Offset, "atom %s: payload of %d bytes exceeds limit, skipped", a.Path(), a.PayloadSize())
		return nil
	}
	b, err := tok.ReadFull(int(a.PayloadSize()))
	if err != nil {
		return err
	}
	if err := decode(a, b); err != nil {
		w.sink.Warn(stageOf(a), a.Offset, "atom %s: %v", a.Path(), err)
	}
	return nil
}

func stageOf(a *Atom) string {
	if a.Within("ilst") || a.Type == "chpl" {
		return "metadata"
	}
	return "technical"
}

// item reports the values of one iTunes item.
func (w *walker) item(a *Atom, b []byte) error {
	item, err := parseItem(a.Type, b)
	for _, v := range item.Values {
		w.sink.AddTag(Namespace, item.Key, v.Value)
	}
	return err
}

func (t *track) isText() bool {
	return t.Handler == "text" || t.Handler == "sbtl"
}

func (t *track) tableDecoder(typ string) func([]byte) error {
	switch typ {
	case "stts":
		return t.parseStts
	case "stsz":
		return t.parseStsz
	case "stsc":
		return t.parseStsc
	case "stco":
		return func(b []byte) error { return t.parseChunkOffsets(b, false) }
	default:
		return func(b []byte) error { return t.parseChunkOffsets(b, true) }
	}
}

// audioTrack returns the first sound track.
func (w *walker) audioTrack() *track {
	for _, t := range w.order {
		if t.Handler == "soun" {
			return t
		}
	}
	return nil
}

// report emits the facts, streams and chapters gathered by the walk.
func (w *walker) report() {
	if w.major == "M4B" {
		w.sink.SetFormatType(types.FormatM4B)
	}
	if w.container != "" {
		w.sink.SetFormat(types.FactContainer, w.container)
	}
	if !w.moov {
		w.sink.Warn("structure", 0, "no moov atom")
		return
	}

	seconds := 0.0
	if w.timescale > 0 {
		seconds = float64(w.duration) / float64(w.timescale)
	}

	audio := w.audioTrack()
	if audio == nil {
		w.sink.Warn("technical", 0, "no audio track")
	} else {
		if seconds == 0 {
			seconds = audio.Seconds()
		}
		w.sink.SetFormat(types.FactCodec, codecName(audio.Codec))
		if audio.Profile != "" {
			w.sink.SetFormat(types.FactCodecProfile, audio.Profile)
		}
		w.sink.SetFormat(types.FactLossless, losslessCodecs[audio.Codec])
		if audio.SampleRate > 0 {
			w.sink.SetFormat(types.FactSampleRate, audio.SampleRate)
		}
		if audio.Channels > 0 {
			w.sink.SetFormat(types.FactChannels, audio.Channels)
		}
		if audio.BitsPerSample > 0 {
			w.sink.SetFormat(types.FactBitsPerSample, audio.BitsPerSample)
		}
		switch {
		case audio.AvgBitrate > 0:
			w.sink.SetFormat(types.FactBitrate, audio.AvgBitrate)
		case seconds > 0 && w.mdatSize > 0:
			w.sink.SetFormat(types.FactBitrate, int(float64(w.mdatSize*8)/seconds))
		}
	}
	if seconds > 0 {
		w.sink.SetFormat(types.FactDuration, seconds)
	}

	for _, t := range w.order {
		w.sink.AddStreamInfo(t.streamInfo())
	}

	total := time.Duration(seconds * float64(time.Second))
	chapters := w.textChapters(audio)
	if len(chapters) == 0 {
		chapters = w.chpl
	}
	closeChapters(chapters, total)
	for _, ch := range chapters {
		w.sink.AddChapter(ch)
	}
}

// textChapters reads QuickTime chapters from the text track the audio
// track references through tref/chap.
func (w *walker) textChapters(audio *track) []types.Chapter {
	if audio == nil || len(audio.ChapterIDs) == 0 {
		return nil
	}
	var text *track
	for _, t := range w.order {
		if t.ID == audio.ChapterIDs[0] {
			text = t
			break
		}
	}
	if text == nil {
		w.sink.Warn("metadata", 0, "chapter track %d not found", audio.ChapterIDs[0])
		return nil
	}

	times := text.sampleTimes()
	offsets := text.sampleOffsets()
	n := min(len(times), len(offsets))
	chapters := make([]types.Chapter, 0, n)
	for i := range n {
		size := min(int(text.SampleSizes[i]), maxChapterSample)
		b := make([]byte, size)
		if err := w.sr.ReadAt(b, offsets[i], "chapter sample"); err != nil {
			w.sink.Warn("metadata", offsets[i], "chapter %d: %v", i+1, err)
			break
		}
		chapters = append(chapters, types.Chapter{
			Title:    decodeTextSample(b),
			Language: text.Language,
			Start:    times[i],
		})
	}
	return chapters
}

func (t *track) streamInfo() types.StreamInfo {
	info := types.StreamInfo{
		CodecName:   codecName(t.Codec),
		Language:    t.Language,
		Number:      uint64(t.ID),
		FlagEnabled: t.Enabled,
	}
	switch t.Handler {
	case "soun":
		info.Type = types.TrackTypeAudio
		info.Audio = &types.AudioTrack{
			SamplingFrequency: float64(t.SampleRate),
			Channels:          uint64(t.Channels),
			BitDepth:          uint64(t.BitsPerSample),
		}
	case "vide":
		info.Type = types.TrackTypeVideo
	case "text", "sbtl":
		info.Type = types.TrackTypeSubtitle
	}
	return info
}

// init registers the M4A/M4B parser
func init() {
	p := &parser{}
	registry.Register(types.FormatM4A, p)
	registry.Register(types.FormatM4B, p)
}
