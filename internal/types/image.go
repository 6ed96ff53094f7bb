package types

// SniffImage detects the MIME type and dimensions of an embedded picture
// from its leading bytes. Unknown formats return "" and zero dimensions.
func SniffImage(data []byte) (mimeType string, width, height int) {
	mimeType = detectMIMEType(data)
	switch mimeType {
	case "image/jpeg":
		width, height = jpegDimensions(data)
	case "image/png":
		width, height = pngDimensions(data)
	}
	return mimeType, width, height
}

func detectMIMEType(data []byte) string {
	if len(data) < 4 {
		return ""
	}

	switch {
	case data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"
	case data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G':
		return "image/png"
	case data[0] == 'G' && data[1] == 'I' && data[2] == 'F':
		return "image/gif"
	case data[0] == 'B' && data[1] == 'M':
		return "image/bmp"
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	}
	return ""
}

// jpegDimensions walks the marker segments up to the first SOF marker.
func jpegDimensions(data []byte) (int, int) {
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return 0, 0
		}
		marker := data[i+1]
		length := int(data[i+2])<<8 | int(data[i+3])

		// SOF0..SOF15, except DHT (C4), JPG (C8) and DAC (CC)
		if marker >= 0xC0 && marker <= 0xCF && marker != 0xC4 && marker != 0xC8 && marker != 0xCC {
			if i+9 > len(data) {
				return 0, 0
			}
			height := int(data[i+5])<<8 | int(data[i+6])
			width := int(data[i+7])<<8 | int(data[i+8])
			return width, height
		}
		i += 2 + length
	}
	return 0, 0
}

// pngDimensions reads the IHDR chunk that follows the 8-byte signature.
func pngDimensions(data []byte) (int, int) {
	if len(data) < 24 || string(data[12:16]) != "IHDR" {
		return 0, 0
	}
	width := int(data[16])<<24 | int(data[17])<<16 | int(data[18])<<8 | int(data[19])
	height := int(data[20])<<24 | int(data[21])<<16 | int(data[22])<<8 | int(data[23])
	return width, height
}
