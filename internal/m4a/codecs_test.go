package m4a

import "testing"

func TestCodecName(t *testing.T) {
	tests := []struct {
		fourCC string
		want   string
	}{
		{"mp4a", "AAC"},
		{"alac", "ALAC"},
		{"fLaC", "FLAC"},
		{"ec-3", "E-AC-3"},
		{"Opus", "Opus"},
		{"xyz1", "xyz1"},
	}

	for _, tt := range tests {
		if got := codecName(tt.fourCC); got != tt.want {
			t.Errorf("codecName(%q) = %q, want %q", tt.fourCC, got, tt.want)
		}
	}
}

func TestParseESDescriptors(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		wantBitrate uint32
		wantType    uint8
	}{
		{"AAC-LC", esds(128000, 0x12, 0x10), 128000, 2},
		{"HE-AAC", esds(64000, 0x2B, 0x92, 0x08), 64000, 5},
		// object type 31 escapes to 32 + the next 6 bits: 42
		{"escaped type", esds(32000, 0xF9, 0x40), 32000, 42},
		{"no specific info", esds(96000), 96000, 0},
		{"wrong tag", []byte{0x04, 0x00}, 0, 0},
		{"empty", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parseESDescriptors(tt.data)
			if d.AvgBitrate != tt.wantBitrate || d.ObjectType != tt.wantType {
				t.Errorf("parseESDescriptors() = %+v, want bitrate %d type %d", d, tt.wantBitrate, tt.wantType)
			}
		})
	}
}

func TestParseESDescriptors_OptionalFields(t *testing.T) {
	// stream dependence and URL flags set
	inner := esds(48000, 0x12, 0x10)[2:]
	es := []byte{0, 1, 0xC0, 0, 7, 3, 'a', 'b', 'c'}
	es = append(es, inner[3:]...)
	data := append([]byte{tagESDescriptor, byte(len(es))}, es...)

	d := parseESDescriptors(data)
	if d.AvgBitrate != 48000 || d.ObjectType != 2 {
		t.Errorf("parseESDescriptors() = %+v", d)
	}
}
