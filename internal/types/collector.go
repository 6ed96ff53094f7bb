package types

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// FormatFact names a container-level fact reported through Sink.SetFormat.
type FormatFact string

const (
	FactContainer     FormatFact = "container"        // string, e.g. "EBML/webm"
	FactDuration      FormatFact = "duration"         // float64 seconds
	FactCodec         FormatFact = "codec"            // string
	FactCodecProfile  FormatFact = "codecProfile"     // string, e.g. "V2" or "CBR"
	FactSampleRate    FormatFact = "sampleRate"       // number, Hz
	FactChannels      FormatFact = "numberOfChannels" // number
	FactBitrate       FormatFact = "bitrate"          // number, bits per second
	FactBitsPerSample FormatFact = "bitsPerSample"    // number
	FactLossless      FormatFact = "lossless"         // bool
	FactTool          FormatFact = "tool"             // string, encoder name/version
	FactSamples       FormatFact = "numberOfSamples"  // number
)

// Sink receives everything a format parser learns about a file.
//
// Parsers only report; storage, mapping to Tags and artwork limits belong to
// the Sink implementation.
type Sink interface {
	SetFormat(fact FormatFact, value any)
	AddStreamInfo(info StreamInfo)
	AddTag(namespace, key string, value any)
}

// Collector is the Sink that assembles a File.
type Collector struct {
	file *File
	opts ParseOptions
	log  *slog.Logger
}

// NewCollector creates a Collector for one file.
func NewCollector(path string, format Format, size int64, opts ParseOptions) *Collector {
	return &Collector{
		file: &File{
			Path:   path,
			Format: format,
			Size:   size,
		},
		opts: opts,
		log:  opts.Log(),
	}
}

// SetFormatType overrides the detected format, e.g. Matroska -> WebM.
func (c *Collector) SetFormatType(f Format) {
	c.file.Format = f
}

// Warn records a non-fatal issue.
func (c *Collector) Warn(stage string, offset int64, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.log.Debug("parse warning", "path", c.file.Path, "stage", stage, "offset", offset, "message", msg)
	c.file.Warnings = append(c.file.Warnings, Warning{
		Stage:   stage,
		Message: msg,
		Offset:  offset,
	})
}

// File returns the assembled result.
func (c *Collector) File() *File {
	return c.file
}

// Partial returns a shallow copy of what has been collected so far, marked
// Incomplete, for attaching to a ParseError.
func (c *Collector) Partial() *File {
	partial := *c.file
	partial.Incomplete = true
	return &partial
}

// Fail wraps err into a ParseError carrying the partial result.
func (c *Collector) Fail(offset int64, err error) error {
	return &ParseError{
		Err:     err,
		Partial: c.Partial(),
		Path:    c.file.Path,
		Format:  c.file.Format,
		Offset:  offset,
	}
}

// SetFormat implements Sink.
func (c *Collector) SetFormat(fact FormatFact, value any) {
	a := &c.file.Audio
	switch fact {
	case FactContainer:
		a.Container = TagText(value)
	case FactDuration:
		if sec, ok := number(value); ok {
			a.Duration = time.Duration(sec * float64(time.Second))
		}
	case FactCodec:
		a.Codec = TagText(value)
	case FactCodecProfile:
		a.CodecProfile = TagText(value)
		a.VBR = strings.HasPrefix(a.CodecProfile, "V")
	case FactSampleRate:
		a.SampleRate = intOf(value)
	case FactChannels:
		a.Channels = intOf(value)
	case FactBitrate:
		a.Bitrate = intOf(value)
	case FactBitsPerSample:
		a.BitDepth = intOf(value)
	case FactLossless:
		a.Lossless, _ = value.(bool)
	case FactTool:
		a.Tool = TagText(value)
	case FactSamples:
		if n, ok := number(value); ok {
			a.Samples = int64(n)
		}
	default:
		c.log.Debug("unknown format fact", "fact", string(fact), "value", value)
	}
}

// AddStreamInfo implements Sink.
func (c *Collector) AddStreamInfo(info StreamInfo) {
	c.file.Streams = append(c.file.Streams, info)
}

// AddChapter records a chapter marker. Index is assigned in arrival order.
func (c *Collector) AddChapter(ch Chapter) {
	ch.Index = len(c.file.Chapters) + 1
	c.file.Chapters = append(c.file.Chapters, ch)
}

// AddTag implements Sink.
func (c *Collector) AddTag(namespace, key string, value any) {
	if art, ok := value.(Artwork); ok {
		c.addArtwork(namespace, key, art)
		return
	}

	c.file.RawTags = append(c.file.RawTags, RawTag{Namespace: namespace, Key: key, Value: value})
	texts := valueStrings(value)
	c.file.Tags.Add(namespace+":"+key, texts...)

	if len(texts) > 0 {
		c.mapCommon(commonField(namespace, key), texts)
	}
}

func (c *Collector) addArtwork(namespace, key string, art Artwork) {
	if c.opts.SkipArtwork {
		return
	}
	if c.opts.MaxArtworkSize > 0 && len(art.Data) > c.opts.MaxArtworkSize {
		c.Warn("artwork", 0, "%s:%s picture of %d bytes exceeds limit of %d bytes",
			namespace, key, len(art.Data), c.opts.MaxArtworkSize)
		return
	}
	mimeType, width, height := SniffImage(art.Data)
	if art.MIMEType == "" {
		art.MIMEType = mimeType
	}
	if art.Width == 0 && art.Height == 0 {
		art.Width, art.Height = width, height
	}
	c.file.RawTags = append(c.file.RawTags, RawTag{Namespace: namespace, Key: key, Value: art})
	c.file.Artwork = append(c.file.Artwork, art)
}

// mapCommon copies a well-known tag into the standard Tags fields.
// The first value wins for single-valued fields.
func (c *Collector) mapCommon(field string, texts []string) {
	t := &c.file.Tags
	first := texts[0]

	setOnce := func(dst *string) {
		if *dst == "" {
			*dst = first
		}
	}

	switch field {
	case "title":
		setOnce(&t.Title)
	case "artist":
		setOnce(&t.Artist)
	case "album":
		setOnce(&t.Album)
	case "albumartist":
		setOnce(&t.AlbumArtist)
	case "comment":
		setOnce(&t.Comment)
	case "lyrics":
		setOnce(&t.Lyrics)
	case "encoder":
		setOnce(&t.Encoder)
	case "genre":
		t.Genres = append(t.Genres, texts...)
	case "composer":
		t.Composers = append(t.Composers, texts...)
	case "year":
		if t.Year == 0 {
			t.Year = parseYear(first)
		}
	case "date":
		setOnce(&t.Date)
		if t.Year == 0 {
			t.Year = parseYear(first)
		}
	case "track":
		if t.TrackNumber == 0 {
			t.TrackNumber, t.TrackTotal = parsePosition(first)
		}
	case "tracktotal":
		if t.TrackTotal == 0 {
			t.TrackTotal, _ = strconv.Atoi(strings.TrimSpace(first))
		}
	case "disk":
		if t.DiscNumber == 0 {
			t.DiscNumber, t.DiscTotal = parsePosition(first)
		}
	}
}

// commonKeys maps (namespace family, key) to a standard Tags field.
var commonKeys = map[string]map[string]string{
	"matroska": {
		"segment:title":       "title",
		"track:TITLE":         "title",
		"track:ARTIST":        "artist",
		"album:TITLE":         "album",
		"album:ARTIST":        "albumartist",
		"track:GENRE":         "genre",
		"album:GENRE":         "genre",
		"track:COMPOSER":      "composer",
		"track:COMMENT":       "comment",
		"album:COMMENT":       "comment",
		"track:LYRICS":        "lyrics",
		"track:ENCODER":       "encoder",
		"album:DATE_RELEASED": "date",
		"track:DATE_RELEASED": "date",
		"album:DATE_RECORDED": "date",
		"track:PART_NUMBER":   "track",
		"album:TOTAL_PARTS":   "tracktotal",
		"edition:PART_NUMBER": "disk",
	},
	"ID3v2": {
		"TIT2": "title", "TT2": "title",
		"TPE1": "artist", "TP1": "artist",
		"TALB": "album", "TAL": "album",
		"TPE2": "albumartist", "TP2": "albumartist",
		"TCON": "genre", "TCO": "genre",
		"TCOM": "composer", "TCM": "composer",
		"TRCK": "track", "TRK": "track",
		"TPOS": "disk", "TPA": "disk",
		"TYER": "year", "TYE": "year",
		"TDRC": "date",
		"COMM": "comment", "COM": "comment",
		"USLT": "lyrics", "ULT": "lyrics",
		"TSSE": "encoder", "TSS": "encoder",
	},
	"ID3v1": {
		"title":   "title",
		"artist":  "artist",
		"album":   "album",
		"comment": "comment",
		"genre":   "genre",
		"year":    "year",
		"track":   "track",
	},
	"iTunes": {
		"\xa9nam": "title",
		"\xa9ART": "artist",
		"\xa9alb": "album",
		"aART":    "albumartist",
		"\xa9gen": "genre",
		"\xa9wrt": "composer",
		"\xa9day": "date",
		"trkn":    "track",
		"disk":    "disk",
		"\xa9cmt": "comment",
		"\xa9lyr": "lyrics",
		"\xa9too": "encoder",
	},
}

func commonField(namespace, key string) string {
	family := namespace
	if strings.HasPrefix(namespace, "ID3v2") {
		family = "ID3v2"
	}
	return commonKeys[family][key]
}

// valueStrings flattens a tag value into text values.
func valueStrings(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return val
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	default:
		return []string{TagText(v)}
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func intOf(v any) int {
	n, _ := number(v)
	return int(n)
}

// parseYear extracts the year from "YYYY", "YYYY-MM-DD" and similar.
func parseYear(text string) int {
	if len(text) < 4 {
		return 0
	}
	year, err := strconv.Atoi(text[:4])
	if err != nil || year < 1000 || year > 9999 {
		return 0
	}
	return year
}

// parsePosition parses "N" or "N/Total".
func parsePosition(text string) (number, total int) {
	num, tot, _ := strings.Cut(text, "/")
	number, _ = strconv.Atoi(strings.TrimSpace(num))
	total, _ = strconv.Atoi(strings.TrimSpace(tot))
	return number, total
}
