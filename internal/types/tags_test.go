package types

import (
	"slices"
		"testing"
)

func TestTags_All(t *testing.T) {
	tags := &Tags{}
	tags.Set("TITLE", "Test Song")
	tags.Set("ARTIST", "Test Artist")
	tags.Set("GENRE", "Rock", "Alternative")

	count := 0
	found := make(map[string]bool)
	for key, values := range tags.All() {
		count++
		found[key] = true
		switch key {
		case "TITLE":
			if len(values) != 1 || values[0] != "Test Song" {
				t.Errorf("TITLE values = %v, want [Test Song]", values)
			}
		case "ARTIST":
			if len(values) != 1 || values[0] != "Test Artist" {
				t.Errorf("ARTIST values = %v, want [Test Artist]", values)
			}
		case "GENRE":
			if len(values) != 2 || values[0] != "Rock" || values[1] != "Alternative" {
				t.Errorf("GENRE values = %v, want [Rock Alternative]", values)
			}
		}
	}

	if count != 3 {
		t.Errorf("All() yielded %d tags, want 3", count)
	}
}

func TestTags_All_NilRaw(t *testing.T) {
	tags := &Tags{}

	count := 0
	for range tags.All() {
		count++
	}

	if count != 0 {
		t.Errorf("All() on nil raw yielded %d tags, want 0", count)
	}
}

func TestTags_Get(t *testing.T) {
	tags := &Tags{}
	tags.Set("ARTIST", "Test Artist")
	tags.Set("GENRE", "Rock", "Pop")

	tests := []struct {
		key  string
		want []string
	}{
		{"ARTIST", []string{"Test Artist"}},
		{"GENRE", []string{"Rock", "Pop"}},
		{"NONEXISTENT", nil},
	}

	for _, tc := range tests {
		got := tags.Get(tc.key)
		if !slices.Equal(got, tc.want) {
			t.Errorf("Get(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestTags_Get_ReturnsClone(t *testing.T) {
	tags := &Tags{}
	tags.Set("GENRE", "Rock", "Pop")

	got := tags.Get("GENRE")
	got[0] = "Modified"

	original := tags.Get("GENRE")
	if original[0] != "Rock" {
		t.Error("Get() should return a clone, but modification affected original")
	}
}

func TestTags_Get_NilRaw(t *testing.T) {
	tags := &Tags{}
	got := tags.Get("ANYTHING")
	if got != nil {
		t.Errorf("Get() on nil raw = %v, want nil", got)
	}
}

func TestTags_GetFirst(t *testing.T) {
	tags := &Tags{}
	tags.Set("ARTIST", "Main Artist")
	tags.Set("GENRE", "Rock", "Pop")

	tests := []struct {
		key  string
		want string
	}{
		{"ARTIST", "Main Artist"},
		{"GENRE", "Rock"},
		{"NONEXISTENT", ""},
	}

	for _, tc := range tests {
		got := tags.GetFirst(tc.key)
		if got != tc.want {
			t.Errorf("GetFirst(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestTags_GetBest(t *testing.T) {
	tags := &Tags{}
	tags.Set("ID3v2.3:TPE1", "ID3 Artist")
	tags.Set("matroska:track:ARTIST", "Matroska Artist")

	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"first match", []string{"matroska:track:ARTIST", "ID3v2.3:TPE1"}, "Matroska Artist"},
		{"second match", []string{"iTunes:©ART", "ID3v2.3:TPE1"}, "ID3 Artist"},
		{"no match", []string{"iTunes:©ART", "matroska:track:PERFORMER"}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tags.GetBest(tc.candidates...)
			if got != tc.want {
				t.Errorf("GetBest(%v) = %q, want %q", tc.candidates, got, tc.want)
			}
		})
	}
}

func TestTags_Set(t *testing.T) {
	tags := &Tags{}

	// Set single value
	tags.Set("TITLE", "Test Song")
	if got := tags.GetFirst("TITLE"); got != "Test Song" {
		t.Errorf("after Set, GetFirst(TITLE) = %q, want %q", got, "Test Song")
	}

	// Set multiple values
	tags.Set("GENRE", "Rock", "Pop", "Alternative")
	if got := tags.Get("GENRE"); len(got) != 3 {
		t.Errorf("after Set with 3 values, Get(GENRE) = %v, want 3 values", got)
	}

	// Remove by setting empty
	tags.Set("TITLE")
	if got := tags.Get("TITLE"); got != nil {
		t.Errorf("after Set(), Get(TITLE) = %v, want nil", got)
	}
}

func TestTags_Set_ClonesValues(t *testing.T) {
	tags := &Tags{}
	values := []string{"Rock", "Pop"}
	tags.Set("GENRE", values...)

	values[0] = "Modified"

	got := tags.GetFirst("GENRE")
	if got != "Rock" {
		t.Error("Set() should clone values, but modification affected stored value")
	}
}

func TestTags_Add(t *testing.T) {
	tags := &Tags{}
	tags.Add("matroska:track:GENRE", "Rock")
	tags.Add("matroska:track:GENRE", "Pop", "Jazz")
	tags.Add("matroska:track:GENRE")

	want := []string{"Rock", "Pop", "Jazz"}
	if got := tags.Get("matroska:track:GENRE"); !slices.Equal(got, want) {
		t.Errorf("Get() = %v, want %v", got, want)
	}
	if tags.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tags.Len())
	}
}

func TestTags_Len(t *testing.T) {
	tags := &Tags{}
	if tags.Len() != 0 {
		t.Errorf("Len() on empty tags = %d, want 0", tags.Len())
	}

	tags.Set("a", "1")
	tags.Set("b", "2")
	tags.Set("a")
	if tags.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tags.Len())
	}
}
