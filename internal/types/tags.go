package types

import (
	"iter"
	"slices"
)

// Tags represents format-agnostic audio metadata.
//
// Well-known keys from every container are mapped onto the standard fields by
// the Collector. Every tag, mapped or not, is also available as text through
// All and Get, keyed "<namespace>:<key>" (e.g. "matroska:album:TITLE",
// "ID3v2.4:TIT2", "iTunes:©nam").
type Tags struct {
	raw         map[string][]string
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Comment     string
	Lyrics      string
	Date        string
	Encoder     string
	Genres      []string
	Composers   []string
	Year        int
	TrackNumber int
	TrackTotal  int
	DiscNumber  int
	DiscTotal   int
}

// All returns an iterator over all raw tags.
//
// The iterator yields key-value pairs where values are string slices
// (as tags can have multiple values).
//
// Example:
//
//	for key, values := range file.Tags.All() {
//		fmt.Printf("%s: %v\n", key, values)
//	}
//
// The returned iterator is read-only. Do not modify the returned slices.
func (t *Tags) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for key, values := range t.raw {
			if !yield(key, values) {
				return
			}
		}
	}
}

// Get retrieves a copy of all values for a tag key.
func (t *Tags) Get(key string) []string {
	values := t.raw[key]
	if values == nil {
		return nil
	}
	return slices.Clone(values)
}

// GetFirst retrieves the first value for a tag key, or "".
func (t *Tags) GetFirst(key string) string {
	if values := t.raw[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// GetBest tries multiple tag keys and returns the first non-empty value.
//
//	title := tags.GetBest("matroska:track:TITLE", "matroska:segment:title")
func (t *Tags) GetBest(candidates ...string) string {
	for _, key := range candidates {
		if value := t.GetFirst(key); value != "" {
			return value
		}
	}
	return ""
}

// Set replaces the values of a tag key. No values removes the key.
func (t *Tags) Set(key string, values ...string) {
	if len(values) == 0 {
		delete(t.raw, key)
		return
	}
	if t.raw == nil {
		t.raw = make(map[string][]string)
	}
	t.raw[key] = slices.Clone(values)
}

// Add appends values to a tag key.
func (t *Tags) Add(key string, values ...string) {
	if len(values) == 0 {
		return
	}
	if t.raw == nil {
		t.raw = make(map[string][]string)
	}
	t.raw[key] = append(t.raw[key], values...)
}

// Len returns the number of distinct raw tag keys.
func (t *Tags) Len() int {
	return len(t.raw)
}
