package types

import "testing"

func TestSniffImage(t *testing.T) {
	png := []byte{
		0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R',
		0x00, 0x00, 0x02, 0x58, // 600
		0x00, 0x00, 0x01, 0x90, // 400
	}
	jpeg := []byte{
		0xFF, 0xD8,
		0xFF, 0xE0, 0x00, 0x04, 0x00, 0x00, // APP0, 2 payload bytes
		0xFF, 0xC0, 0x00, 0x11, 0x08,
		0x01, 0xF4, // height 500
		0x03, 0x20, // width 800
	}

	tests := []struct {
		name          string
		data          []byte
		mime          string
		width, height int
	}{
		{"png", png, "image/png", 600, 400},
		{"jpeg", jpeg, "image/jpeg", 800, 500},
		{"gif", []byte("GIF89a\x01\x00"), "image/gif", 0, 0},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp", 0, 0},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, "", 0, 0},
		{"short", []byte{0xFF}, "", 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mime, w, h := SniffImage(tc.data)
			if mime != tc.mime || w != tc.width || h != tc.height {
				t.Errorf("SniffImage() = %q %dx%d, want %q %dx%d", mime, w, h, tc.mime, tc.width, tc.height)
			}
		})
	}
}
