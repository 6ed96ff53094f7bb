// Package matroska reads metadata from Matroska and WebM files.
//
// The file is walked once against DTD with the generic EBML walker. Media
// clusters are skipped. The resulting tree is projected onto typed records
// (Document) and then reported to a types.Sink: format facts, one stream
// per track, tags keyed "<scope>:<NAME>" and image attachments.
package matroska

import (
	"context"
	"io"

	"github.com/simonhull/mediaprobe/internal/binary"
	"github.com/simonhull/mediaprobe/internal/ebml"
	"github.com/simonhull/mediaprobe/internal/registry"
	"github.com/simonhull/mediaprobe/internal/types"
)

// parser implements the registry.FormatParser interface
type parser struct{}

// Parse walks the whole file and reports what it finds.
//
// Any decode failure aborts the walk. The returned *types.ParseError
// carries whatever the partial tree yielded, marked Incomplete.
func (p *parser) Parse(ctx context.Context, r io.ReaderAt, size int64, path string, opts types.ParseOptions) (*types.File, error) {
	log := opts.Log().With("path", path)
	sr := binary.NewSafeReader(r, size, path)
	tok := binary.NewTokenizer(ctx, sr, 0)
	walker := ebml.NewWalker(tok, log)

	c := types.NewCollector(path, types.FormatMatroska, size, opts)

	tree, walkErr := walker.Walk(DTD, size, nil)
	log.Debug("matroska walk finished", "padding", walker.Padding(), "position", walker.Position())

	doc := newDocument(tree)
	if doc.Header.DocType == "webm" {
		c.SetFormatType(types.FormatWebM)
	}

	project(doc, c)

	if walkErr != nil {
		return nil, c.Fail(walker.Position(), walkErr)
	}

	if doc.Segment == nil {
		c.Warn("metadata", 0, "no segment element")
	} else if selectAudioTrack(doc.Segment.Tracks) == nil {
		c.Warn("technical", 0, "no audio track")
	}

	return c.File(), nil
}

// init registers the Matroska parser
func init() {
	registry.Register(types.FormatMatroska, &parser{})
	registry.Register(types.FormatWebM, &parser{})
}
