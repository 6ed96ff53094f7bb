package mp3

import (
	"reflect"
	"testing"

	"github.com/simonhull/mediaprobe/internal/types"
)

func newDecoder(major byte) (*frameDecoder, *[]string) {
	var warnings []string
	return &frameDecoder{
		major: major,
		warn: func(format string, args ...any) {
			warnings = append(warnings, format)
		},
	}, &warnings
}

func TestDecode_TextFrames(t *testing.T) {
	tests := []struct {
		name  string
		major byte
		id    string
		body  []byte
		want  any
	}{
		{"v2.3 plain", 3, "TIT2", text("Hello\x00"), []string{"Hello"}},
		{"v2.3 slash split", 3, "TPE1", text("A / B"), []string{"A", "B"}},
		{"v2.3 other frame no split", 3, "TALB", text("A/B"), []string{"A/B"}},
		{"v2.4 null split", 4, "TCON", append([]byte{encUTF8}, "Rock\x00Pop"...), []string{"Rock", "Pop"}},
		{"v2.4 plain frame split", 4, "TALB", append([]byte{encUTF8}, "X\x00Y"...), []string{"X", "Y"}},
		{"track raw", 4, "TRCK", text("3/12"), "3/12"},
		{"v2.2 track raw", 2, "TRK", text("7"), "7"},
		{"podcast empty", 4, "PCST", []byte{0, 0, 0, 0}, 1},
		{"podcast text", 3, "PCST", text("x"), 0},
		{"function list", 4, "TIPL", append([]byte{encUTF8}, "producer\x00A,B\x00mixer\x00C"...),
			FunctionList{"producer": {"A", "B"}, "mixer": {"C"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, _ := newDecoder(tc.major)
			got, err := d.decode(tc.id, tc.body)
			if err != nil {
				t.Fatalf("decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("decode() = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestDecode_NullSeparatorWarning(t *testing.T) {
	d, warnings := newDecoder(3)
	got, err := d.decode("TPE1", text("A\x00B"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("decode() = %v", got)
	}
	if len(*warnings) != 1 {
		t.Errorf("warnings = %v, want one", *warnings)
	}
}

func TestDecode_UTF16(t *testing.T) {
	d, _ := newDecoder(3)
	// BOM (LE) + "Hé"
	body := []byte{encUTF16, 0xFF, 0xFE, 'H', 0x00, 0xE9, 0x00}
	got, err := d.decode("TIT2", body)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"Hé"}) {
		t.Errorf("decode() = %q", got)
	}
}

func TestDecode_Latin1(t *testing.T) {
	d, _ := newDecoder(3)
	got, err := d.decode("TIT2", []byte{encISO8859, 'C', 'a', 'f', 0xE9})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"Café"}) {
		t.Errorf("decode() = %q", got)
	}
}

func TestDecode_UserText(t *testing.T) {
	d, _ := newDecoder(4)
	got, err := d.decode("TXXX", append([]byte{encUTF8}, "Narrator\x00Jane\x00Joe"...))
	if err != nil {
		t.Fatal(err)
	}
	want := UserText{Description: "Narrator", Text: []string{"Jane", "Joe"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decode() = %#v, want %#v", got, want)
	}
	if s := want.String(); s != "Narrator=Jane; Joe" {
		t.Errorf("String() = %q", s)
	}
}

func TestDecode_Comment(t *testing.T) {
	d, _ := newDecoder(3)
	body := append([]byte{encISO8859}, "engshort\x00The comment\x00\x00"...)
	got, err := d.decode("COMM", body)
	if err != nil {
		t.Fatal(err)
	}
	want := Comment{Language: "eng", Description: "short", Text: "The comment"}
	if got != want {
		t.Errorf("decode() = %#v, want %#v", got, want)
	}
}

func TestDecode_Picture(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}

	t.Run("APIC", func(t *testing.T) {
		d, _ := newDecoder(3)
		body := append([]byte{encISO8859}, "PNG\x00"...)
		body = append(body, 3)
		body = append(body, "cover\x00"...)
		body = append(body, img...)

		got, err := d.decode("APIC", body)
		if err != nil {
			t.Fatal(err)
		}
		art := got.(types.Artwork)
		if art.MIMEType != "image/png" || art.Description != "cover" || art.Type != types.ArtworkFrontCover {
			t.Errorf("artwork = %+v", art)
		}
		if string(art.Data) != string(img) {
			t.Errorf("data = %x", art.Data)
		}
	})

	t.Run("PIC", func(t *testing.T) {
		d, _ := newDecoder(2)
		body := append([]byte{encISO8859}, "JPG"...)
		body = append(body, 4, 0)
		body = append(body, img...)

		got, err := d.decode("PIC", body)
		if err != nil {
			t.Fatal(err)
		}
		art := got.(types.Artwork)
		if art.MIMEType != "image/jpeg" || art.Type != types.ArtworkBackCover {
			t.Errorf("artwork = %+v", art)
		}
	})

	t.Run("UTF16 description", func(t *testing.T) {
		d, _ := newDecoder(3)
		body := append([]byte{encUTF16}, "image/png\x00"...)
		body = append(body, 0)
		body = append(body, 0xFF, 0xFE, 'a', 0, 0, 0)
		body = append(body, img...)

		got, err := d.decode("APIC", body)
		if err != nil {
			t.Fatal(err)
		}
		art := got.(types.Artwork)
		if art.Description != "a" || string(art.Data) != string(img) {
			t.Errorf("artwork = %+v", art)
		}
	})
}

func TestDecode_Misc(t *testing.T) {
	tests := []struct {
		name string
		id   string
		body []byte
		want any
	}{
		{"PCNT", "PCNT", []byte{0, 0, 1, 0}, uint32(256)},
		{"POPM", "POPM", append([]byte("a@b\x00"), 196, 0, 0, 0, 9), Popularimeter{Email: "a@b", Rating: 196, Counter: 9}},
		{"POPM no counter", "POPM", append([]byte("a@b\x00"), 5), Popularimeter{Email: "a@b", Rating: 5}},
		{"PRIV", "PRIV", []byte("owner\x00\x01\x02"), OwnedData{Owner: "owner", Data: []byte{1, 2}}},
		{"WOAR", "WOAR", []byte("https://example.com"), "https://example.com"},
		{"WXXX", "WXXX", append([]byte{encISO8859}, "home\x00https://example.com"...), UserURL{Description: "home", URL: "https://example.com"}},
		{"MCDI", "MCDI", []byte{1, 2, 3}, []byte{1, 2, 3}},
		{"GEOB", "GEOB", append([]byte{encISO8859}, "text/plain\x00a.txt\x00notes\x00hi"...),
			EncapsulatedObject{MIMEType: "text/plain", Filename: "a.txt", Description: "notes", Data: []byte("hi")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, _ := newDecoder(4)
			got, err := d.decode(tc.id, tc.body)
			if err != nil {
				t.Fatalf("decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("decode() = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestDecode_SyncedLyrics(t *testing.T) {
	d, _ := newDecoder(3)
	body := append([]byte{encISO8859}, "eng"...)
	body = append(body, 2, 1)
	body = append(body, "desc\x00"...)
	body = append(body, "one\x00"...)
	body = append(body, be32(1000)...)
	body = append(body, "two\x00"...)
	body = append(body, be32(2000)...)

	got, err := d.decode("SYLT", body)
	if err != nil {
		t.Fatal(err)
	}
	want := SyncedLyrics{
		Language:    "eng",
		Description: "desc",
		Lines:       []SyncedLine{{Text: "one", Time: 1000}, {Text: "two", Time: 2000}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decode() = %#v, want %#v", got, want)
	}
}

func TestDecode_Errors(t *testing.T) {
	d, _ := newDecoder(4)
	if _, err := d.decode("TIT2", nil); err != errEmptyFrame {
		t.Errorf("empty body: err = %v, want errEmptyFrame", err)
	}
	if _, err := d.decode("RVA2", []byte{1, 2}); err != errUnsupportedFrame {
		t.Errorf("RVA2: err = %v, want errUnsupportedFrame", err)
	}
	if _, err := d.decode("PCNT", []byte{1}); err == nil {
		t.Error("short PCNT: expected error")
	}
}

func TestFixPictureMIMEType(t *testing.T) {
	tests := map[string]string{
		"JPG":        "image/jpeg",
		"png":        "image/png",
		"Image/JPEG": "image/jpeg",
		"":           "",
	}
	for in, want := range tests {
		if got := fixPictureMIMEType(in); got != want {
			t.Errorf("fixPictureMIMEType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFindZero(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
		enc  byte
		want int
	}{
		{"latin1", []byte("ab\x00c"), encISO8859, 2},
		{"latin1 none", []byte("abc"), encISO8859, 3},
		{"utf16 aligned", []byte{'a', 0, 0, 0}, encUTF16, 2},
		{"utf16 skips odd zero pair", []byte{0, 'a', 0, 'b', 0, 0}, encUTF16BE, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := findZero(tc.b, tc.enc); got != tc.want {
				t.Errorf("findZero() = %d, want %d", got, tc.want)
			}
		})
	}
}
