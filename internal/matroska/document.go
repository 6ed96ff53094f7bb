package matroska

import (
	"github.com/simonhull/mediaprobe/internal/ebml"
	"github.com/simonhull/mediaprobe/internal/types"
)

// Document is the typed view of a walked Matroska file.
type Document struct {
	Segment *Segment
	Header  Header
}

// Header is the EBML header.
type Header struct {
	DocType            string
	EBMLVersion        uint64
	DocTypeVersion     uint64
	DocTypeReadVersion uint64
}

// Segment holds the top-level children of the Segment element.
type Segment struct {
	Info        *Info
	Tracks      []TrackEntry
	Tags        []Tag
	Attachments []AttachedFile
	Editions    []Edition
}

// Info is the segment information block.
type Info struct {
	Title         string
	MuxingApp     string
	WritingApp    string
	TimecodeScale uint64 // 0 when absent
	Duration      float64
	HasDuration   bool
}

// TrackEntry describes one track.
type TrackEntry struct {
	Audio         *types.AudioTrack
	Video         *types.VideoTrack
	CodecID       string
	CodecName     string
	CodecSettings string
	Language      string
	Name          string
	CodecPrivate  []byte
	Number        uint64
	Type          types.TrackType
	FlagDefault   bool
	FlagEnabled   bool
	FlagLacing    bool
}

// Tag is one Tag element: a target scope and its simple tags.
type Tag struct {
	Target     Target
	SimpleTags []SimpleTag
}

// Target is the scope a Tag applies to.
type Target struct {
	Type      string
	TypeValue uint64 // 0 when absent
}

// SimpleTag is a name with a string or binary value. Children refine it.
type SimpleTag struct {
	Name     string
	Language string
	String   string
	Binary   []byte
	Children []SimpleTag
}

// Value returns the string value if present, else the binary value.
func (s SimpleTag) Value() any {
	if s.String != "" || s.Binary == nil {
		return s.String
	}
	return s.Binary
}

// AttachedFile is one attachment.
type AttachedFile struct {
	Description string
	Name        string
	MimeType    string
	Data        []byte
}

// Edition is a chapter edition.
type Edition struct {
	Chapters []ChapterAtom
	Default  bool
	Hidden   bool
}

// ChapterAtom is one chapter. Times are in nanoseconds.
type ChapterAtom struct {
	Title     string
	Language  string
	TimeStart uint64
	TimeEnd   uint64
	Hidden    bool
}

// newDocument projects the walked tree onto typed records.
func newDocument(root *ebml.Node) *Document {
	doc := &Document{}

	if h := root.Child("ebml"); h != nil {
		doc.Header.DocType, _ = h.String("docType")
		doc.Header.EBMLVersion, _ = h.Uint("ebmlVersion")
		doc.Header.DocTypeVersion, _ = h.Uint("docTypeVersion")
		doc.Header.DocTypeReadVersion, _ = h.Uint("docTypeReadVersion")
	}

	seg := root.Child("segment")
	if seg == nil {
		return doc
	}

	doc.Segment = &Segment{
		Info: newInfo(seg.Child("info")),
	}
	for _, n := range seg.Child("tracks").Children("entries") {
		doc.Segment.Tracks = append(doc.Segment.Tracks, newTrackEntry(n))
	}
	for _, n := range seg.Child("tags").Children("tag") {
		doc.Segment.Tags = append(doc.Segment.Tags, newTag(n))
	}
	for _, n := range seg.Child("attachments").Children("attachedFiles") {
		doc.Segment.Attachments = append(doc.Segment.Attachments, newAttachedFile(n))
	}
	for _, n := range seg.Child("chapters").Children("editions") {
		doc.Segment.Editions = append(doc.Segment.Editions, newEdition(n))
	}

	return doc
}

func newInfo(n *ebml.Node) *Info {
	if n == nil {
		return nil
	}
	info := &Info{}
	info.Title, _ = n.String("title")
	info.MuxingApp, _ = n.String("muxingApp")
	info.WritingApp, _ = n.String("writingApp")
	info.TimecodeScale, _ = n.Uint("timecodeScale")
	info.Duration, info.HasDuration = n.Float("duration")
	return info
}

func newTrackEntry(n *ebml.Node) TrackEntry {
	var t TrackEntry
	t.CodecID, _ = n.String("codecID")
	t.CodecName, _ = n.String("codecName")
	t.CodecSettings, _ = n.String("codecSettings")
	t.Language, _ = n.String("language")
	t.Name, _ = n.String("name")
	t.CodecPrivate, _ = n.Bytes("codecPrivate")
	t.Number, _ = n.Uint("trackNumber")
	t.FlagDefault, _ = n.Bool("flagDefault")
	t.FlagEnabled, _ = n.Bool("flagEnabled")
	t.FlagLacing, _ = n.Bool("flagLacing")

	if typ, ok := n.Uint("trackType"); ok {
		t.Type = types.TrackType(typ)
	}

	if a := n.Child("audio"); a != nil {
		t.Audio = &types.AudioTrack{}
		t.Audio.SamplingFrequency, _ = a.Float("samplingFrequency")
		t.Audio.OutputSamplingFrequency, _ = a.Float("outputSamplingFrequency")
		t.Audio.Channels, _ = a.Uint("channels")
		t.Audio.BitDepth, _ = a.Uint("bitDepth")
	}

	if v := n.Child("video"); v != nil {
		t.Video = &types.VideoTrack{}
		t.Video.FlagInterlaced, _ = v.Bool("flagInterlaced")
		t.Video.PixelWidth, _ = v.Uint("pixelWidth")
		t.Video.PixelHeight, _ = v.Uint("pixelHeight")
		t.Video.DisplayWidth, _ = v.Uint("displayWidth")
		t.Video.DisplayHeight, _ = v.Uint("displayHeight")
	}

	return t
}

func newTag(n *ebml.Node) Tag {
	var tag Tag
	if target := n.Child("target"); target != nil {
		tag.Target.Type, _ = target.String("targetType")
		tag.Target.TypeValue, _ = target.Uint("targetTypeValue")
	}
	tag.SimpleTags = newSimpleTags(n.Children("simpleTags"))
	return tag
}

func newSimpleTags(nodes []*ebml.Node) []SimpleTag {
	var tags []SimpleTag
	for _, n := range nodes {
		var s SimpleTag
		s.Name, _ = n.String("name")
		s.Language, _ = n.String("language")
		s.String, _ = n.String("string")
		s.Binary, _ = n.Bytes("binary")
		s.Children = newSimpleTags(n.Children("simpleTags"))
		tags = append(tags, s)
	}
	return tags
}

func newAttachedFile(n *ebml.Node) AttachedFile {
	var f AttachedFile
	f.Description, _ = n.String("description")
	f.Name, _ = n.String("name")
	f.MimeType, _ = n.String("mimeType")
	f.Data, _ = n.Bytes("data")
	return f
}

func newEdition(n *ebml.Node) Edition {
	var e Edition
	e.Default, _ = n.Bool("flagDefault")
	e.Hidden, _ = n.Bool("flagHidden")
	for _, atom := range n.Children("chapters") {
		var c ChapterAtom
		c.TimeStart, _ = atom.Uint("timeStart")
		c.TimeEnd, _ = atom.Uint("timeEnd")
		c.Hidden, _ = atom.Bool("flagHidden")
		if display := atom.Child("display"); display != nil {
			c.Title, _ = display.String("string")
			c.Language, _ = display.String("language")
		}
		e.Chapters = append(e.Chapters, c)
	}
	return e
}
