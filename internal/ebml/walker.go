package ebml

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/simonhull/mediaprobe/internal/binary"
	"github.com/simonhull/mediaprobe/internal/types"
)

// Walker decodes container elements against a Schema.
//
// One Walker serves one parse; it is not safe for concurrent use.
type Walker struct {
	tok     *binary.Tokenizer
	log     *slog.Logger
	padding int64
}

// NewWalker creates a Walker reading from tok. A nil logger discards output.
func NewWalker(tok *binary.Tokenizer, log *slog.Logger) *Walker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Walker{tok: tok, log: log}
}

// Padding returns the payload bytes skipped so far: unknown elements, Void
// and CRC-32 included.
func (w *Walker) Padding() int64 {
	return w.padding
}

// Position returns the current stream position.
func (w *Walker) Position() int64 {
	return w.tok.Position()
}

// Walk consumes elements until the stream position reaches bound.
//
// Elements missing from schema are skipped. Containers are walked
// recursively with their own payload end as the bound; leaves are decoded
// by kind. path only labels diagnostics.
//
// An element whose declared end lies past bound fails with an error wrapping
// types.ErrUnexpectedEndOfStream. An overrunning container still has its
// children walked up to bound first, so the partial tree keeps them.
//
// On error Walk returns the entries decoded so far together with the error.
// Any decode error aborts the walk; nothing is substituted.
func (w *Walker) Walk(schema Schema, bound int64, path []string) (*Node, error) {
	node := newNode()

	for w.tok.Position() < bound {
		h, err := ReadHeader(w.tok)
		if err != nil {
			return node, err
		}

		desc, ok := schema[h.ID]

		var overrun error
		if h.End() > bound {
			name := fmt.Sprintf("0x%X", h.ID)
			if ok {
				name = desc.Name
			}
			overrun = fmt.Errorf("%s: %s ends at %d, past parent end %d: %w",
				strings.Join(append(slices.Clone(path), name), "/"), h, h.End(), bound, types.ErrUnexpectedEndOfStream)
		}

		if !ok {
			if overrun != nil {
				return node, overrun
			}
			w.log.Debug("skipping element",
				"path", strings.Join(path, "/"),
				"id", fmt.Sprintf("0x%X", h.ID),
				"size", h.Size)
			if err := w.tok.Skip(int64(h.Size)); err != nil {
				return node, err
			}
			w.padding += int64(h.Size)
			continue
		}

		if desc.IsContainer() {
			child, err := w.Walk(desc.Container, min(h.End(), bound), slices.Concat(path, []string{desc.Name}))
			if desc.Multiple {
				node.appendChild(desc.Name, child)
			} else {
				node.set(desc.Name, Value{Node: child, Shape: ShapeNode})
			}
			if err != nil {
				return node, err
			}
			if overrun != nil {
				return node, overrun
			}
			continue
		}

		if overrun != nil {
			return node, overrun
		}
		v, err := ReadLeaf(w.tok, desc.Kind, h.Size)
		if err != nil {
			return node, fmt.Errorf("%s/%s: %w", strings.Join(path, "/"), desc.Name, err)
		}
		node.set(desc.Name, v)
	}

	return node, nil
}
