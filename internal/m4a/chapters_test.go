package m4a

import (
	"testing"
	"time"

	"github.com/simonhull/mediaprobe/internal/types"
)

// chplEntry builds a Nero chapter entry.
func chplEntry(start time.Duration, title string) []byte {
	out := u64(uint64(start / 100))
	out = append(out, byte(len(title)))
	return append(out, title...)
}

func TestParseChpl(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    []types.Chapter
		wantErr bool
	}{
		{
			name: "version 1",
			payload: full(1, 0, u32(0), []byte{2},
				chplEntry(0, "Opening"),
				chplEntry(90*time.Second, "Part 2")),
			want: []types.Chapter{
				{Title: "Opening"},
				{Title: "Part 2", Start: 90 * time.Second},
			},
		},
		{
			name:    "version 0 has no reserved field",
			payload: full(0, 0, []byte{1}, chplEntry(time.Second, "")),
			want:    []types.Chapter{{Start: time.Second}},
		},
		{
			name:    "entry truncated",
			payload: full(1, 0, u32(0), []byte{2}, chplEntry(0, "One"), u32(0)),
			want:    []types.Chapter{{Title: "One"}},
			wantErr: true,
		},
		{
			name:    "title truncated",
			payload: full(1, 0, u32(0), []byte{1}, u64(0), []byte{10}, []byte("abc")),
			want:    []types.Chapter{},
			wantErr: true,
		},
		{
			name:    "count missing",
			payload: full(1, 0, u32(0)),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChpl(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseChpl() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d chapters, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chapter %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodeTextSample(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"utf-8", append(u16(6), "Ch\xc3\xa4p "...), "Chäp "},
		{"trailing modifier atoms", append(append(u16(2), "Hi"...), atom("encd", u32(0x100))...), "Hi"},
		{"utf-16 big endian", append(u16(6), 0xFE, 0xFF, 0, 'A', 0, 'B'), "AB"},
		{"utf-16 little endian", append(u16(6), 0xFF, 0xFE, 'A', 0, 'B', 0), "AB"},
		{"length past sample", append(u16(9), "abc"...), ""},
		{"short", []byte{0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeTextSample(tt.in); got != tt.want {
				t.Errorf("decodeTextSample() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrack_SampleTimes(t *testing.T) {
	tr := track{
		Timescale:    600,
		SampleDeltas: []sttsEntry{{Count: 2, Delta: 300}, {Count: 1, Delta: 1200}},
	}
	want := []time.Duration{0, 500 * time.Millisecond, time.Second}
	got := tr.sampleTimes()
	if len(got) != len(want) {
		t.Fatalf("sampleTimes() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d at %v, want %v", i, got[i], want[i])
		}
	}

	if (&track{}).sampleTimes() != nil {
		t.Error("sampleTimes() without timescale should be nil")
	}
}

func TestCloseChapters(t *testing.T) {
	chapters := []types.Chapter{
		{Start: 0},
		{Start: 10 * time.Second},
		{Start: 25 * time.Second},
	}
	closeChapters(chapters, 40*time.Second)

	for i, want := range []time.Duration{10 * time.Second, 25 * time.Second, 40 * time.Second} {
		if chapters[i].End != want {
			t.Errorf("chapter %d End = %v, want %v", i, chapters[i].End, want)
		}
	}

	// a total before the last start leaves its end unknown
	last := []types.Chapter{{Start: time.Minute}}
	closeChapters(last, time.Second)
	if last[0].End != 0 {
		t.Errorf("End = %v, want 0", last[0].End)
	}
}
