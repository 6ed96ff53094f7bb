package matroska

import (
	"strings"
	"time"

	"github.com/simonhull/mediaprobe/internal/types"
)

// Namespace is the tag namespace for Matroska tags.
const Namespace = "matroska"

const defaultTimecodeScale = 1_000_000 // nanoseconds per tick

// targetTypes maps TargetTypeValue to its scope name.
var targetTypes = map[uint64]string{
	10: "shot",
	20: "scene",
	30: "track",
	40: "part",
	50: "album",
	60: "edition",
	70: "collection",
}

// chapterSink is implemented by sinks that also keep chapter markers.
type chapterSink interface {
	AddChapter(types.Chapter)
}

// project reports a document to the sink.
func project(doc *Document, sink types.Sink) {
	sink.SetFormat(types.FactContainer, "EBML/"+doc.Header.DocType)

	seg := doc.Segment
	if seg == nil {
		return
	}

	if info := seg.Info; info != nil {
		if info.Title != "" {
			sink.AddTag(Namespace, "segment:title", info.Title)
		}
		if info.HasDuration {
			sink.SetFormat(types.FactDuration, durationSeconds(info))
		}
		if app := info.WritingApp; app != "" {
			sink.SetFormat(types.FactTool, app)
		}
	}

	for _, t := range seg.Tracks {
		sink.AddStreamInfo(types.StreamInfo{
			Audio:         t.Audio,
			Video:         t.Video,
			CodecName:     codecName(t.CodecID),
			CodecSettings: t.CodecSettings,
			Language:      t.Language,
			Name:          t.Name,
			Type:          t.Type,
			Number:        t.Number,
			FlagDefault:   t.FlagDefault,
			FlagEnabled:   t.FlagEnabled,
			FlagLacing:    t.FlagLacing,
		})
	}

	if audio := selectAudioTrack(seg.Tracks); audio != nil {
		sink.SetFormat(types.FactCodec, strings.Replace(audio.CodecID, "A_", "", 1))
		if audio.Audio != nil {
			sink.SetFormat(types.FactSampleRate, audio.Audio.SamplingFrequency)
			sink.SetFormat(types.FactChannels, audio.Audio.Channels)
			if audio.Audio.BitDepth > 0 {
				sink.SetFormat(types.FactBitsPerSample, audio.Audio.BitDepth)
			}
		}
	}

	for _, tag := range seg.Tags {
		scope := targetTypeName(tag.Target)
		emitSimpleTags(sink, scope+":", tag.SimpleTags)
	}

	for _, f := range seg.Attachments {
		if !strings.HasPrefix(f.MimeType, "image/") {
			continue
		}
		sink.AddTag(Namespace, "picture", types.Artwork{
			MIMEType:    f.MimeType,
			Description: f.Description,
			Name:        f.Name,
			Data:        f.Data,
			Type:        artworkType(f.Name),
		})
	}

	if cs, ok := sink.(chapterSink); ok {
		if edition := defaultEdition(seg.Editions); edition != nil {
			for _, atom := range edition.Chapters {
				if atom.Hidden {
					continue
				}
				cs.AddChapter(types.Chapter{
					Title:    atom.Title,
					Language: atom.Language,
					Start:    time.Duration(atom.TimeStart),
					End:      time.Duration(atom.TimeEnd),
				})
			}
		}
	}
}

// durationSeconds converts the segment duration from ticks to seconds.
func durationSeconds(info *Info) float64 {
	scale := info.TimecodeScale
	if scale == 0 {
		scale = defaultTimecodeScale
	}
	return info.Duration * float64(scale) / 1e9
}

// codecName strips the A_ or V_ family prefix from a codec ID.
func codecName(codecID string) string {
	return strings.Replace(strings.Replace(codecID, "A_", "", 1), "V_", "", 1)
}

// selectAudioTrack picks the audio track a player would start with.
//
// Tracks are folded in stream order. A default track replaces a
// non-default pick; otherwise a lower non-zero track number replaces the
// pick. Returns nil when there are no audio tracks.
func selectAudioTrack(tracks []TrackEntry) *TrackEntry {
	var best *TrackEntry
	for i := range tracks {
		cur := &tracks[i]
		if cur.Type != types.TrackTypeAudio {
			continue
		}
		switch {
		case best == nil:
			best = cur
		case !best.FlagDefault && cur.FlagDefault:
			best = cur
		case cur.Number != 0 && cur.Number < best.Number:
			best = cur
		}
	}
	return best
}

// targetTypeName resolves the scope of a tag. The numeric TargetTypeValue
// wins, then the TargetType string, then "album".
func targetTypeName(t Target) string {
	if name, ok := targetTypes[t.TypeValue]; ok {
		return name
	}
	if t.Type != "" {
		return t.Type
	}
	return "album"
}

// emitSimpleTags reports simple tags as "<scope>:<NAME>". Nested tags are
// keyed under their parent, e.g. "track:ARTIST/SORT_WITH".
func emitSimpleTags(sink types.Sink, prefix string, tags []SimpleTag) {
	for _, st := range tags {
		key := prefix + st.Name
		sink.AddTag(Namespace, key, st.Value())
		if len(st.Children) > 0 {
			emitSimpleTags(sink, key+"/", st.Children)
		}
	}
}

// artworkType guesses the picture role from the attachment name, e.g.
// "cover.jpg" or "cover_land.png".
func artworkType(name string) types.ArtworkType {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "cover"):
		return types.ArtworkFrontCover
	case strings.HasPrefix(lower, "small_cover"):
		return types.ArtworkIcon
	case strings.HasPrefix(lower, "back"):
		return types.ArtworkBackCover
	default:
		return types.ArtworkOther
	}
}

// defaultEdition returns the edition flagged default, else the first one.
func defaultEdition(editions []Edition) *Edition {
	for i := range editions {
		if editions[i].Default {
			return &editions[i]
		}
	}
	if len(editions) > 0 {
		return &editions[0]
	}
	return nil
}
