package m4a

import "encoding/binary"

// codecNames maps MP4 sample entry FourCC codes to codec names.
var codecNames = map[string]string{
	// AAC family
	"mp4a": "AAC",
	"mhm1": "xHE-AAC",
	"mhm2": "xHE-AAC v2",

	// Dolby family
	"ac-3": "AC-3",
	"ec-3": "E-AC-3",
	"ac-4": "AC-4",

	// Lossless
	"alac": "ALAC",
	"fLaC": "FLAC",

	// Other
	"Opus": "Opus",
	"mp3 ": "MP3",
	".mp3": "MP3",

	// Video and text, for stream listings
	"avc1": "AVC",
	"hvc1": "HEVC",
	"hev1": "HEVC",
	"text": "text",
	"tx3g": "timed text",
}

// losslessCodecs are the sample entries that carry lossless audio.
var losslessCodecs = map[string]bool{
	"alac": true,
	"fLaC": true,
}

// aacProfiles maps AAC audio object types to profile names.
var aacProfiles = map[uint8]string{
	1:  "AAC Main",
	2:  "AAC-LC",
	3:  "AAC-SSR",
	4:  "AAC-LTP",
	5:  "HE-AAC",
	6:  "AAC Scalable",
	29: "HE-AAC v2",
	42: "xHE-AAC",
}

// codecName converts a FourCC to a codec name, or returns it unchanged.
func codecName(fourCC string) string {
	if name, ok := codecNames[fourCC]; ok {
		return name
	}
	return fourCC
}

// esDescriptor holds the fields of an ES_Descriptor this package uses.
type esDescriptor struct {
	AvgBitrate uint32
	ObjectType uint8 // audio object type from the AudioSpecificConfig
}

// Descriptor tags.
const (
	tagESDescriptor    = 0x03
	tagDecoderConfig   = 0x04
	tagDecoderSpecific = 0x05
)

// parseESDescriptors walks an esds payload:
//
//	ES_Descriptor (0x03): [2] ES id [1] flags [optional fields]
//	  DecoderConfigDescriptor (0x04): [1] object type indication [1] stream
//	  type [3] buffer size [4] max bitrate [4] avg bitrate
//	    DecoderSpecificInfo (0x05): AudioSpecificConfig, 5-bit object type
//
// Descriptor sizes are 7 bits per byte, high bit set on all but the last.
func parseESDescriptors(data []byte) esDescriptor {
	var d esDescriptor
	pos := 0

	header := func() (tag byte, size int, ok bool) {
		if pos >= len(data) {
			return 0, 0, false
		}
		tag = data[pos]
		pos++
		for i := 0; i < 4; i++ {
			if pos >= len(data) {
				return 0, 0, false
			}
			b := data[pos]
			pos++
			size = size<<7 | int(b&0x7F)
			if b&0x80 == 0 {
				break
			}
		}
		return tag, size, true
	}

	tag, _, ok := header()
	if !ok || tag != tagESDescriptor || pos+3 > len(data) {
		return d
	}
	flags := data[pos+2]
	pos += 3
	if flags&0x80 != 0 { // stream dependence
		pos += 2
	}
	if flags&0x40 != 0 && pos < len(data) { // URL
		pos += 1 + int(data[pos])
	}
	if flags&0x20 != 0 { // OCR stream
		pos += 2
	}

	tag, _, ok = header()
	if !ok || tag != tagDecoderConfig || pos+13 > len(data) {
		return d
	}
	d.AvgBitrate = binary.BigEndian.Uint32(data[pos+9:])
	pos += 13

	tag, size, ok := header()
	if !ok || tag != tagDecoderSpecific || size < 1 || pos >= len(data) {
		return d
	}
	aot := data[pos] >> 3
	if aot == 31 && pos+1 < len(data) {
		aot = 32 + ((data[pos]&0x07)<<3 | data[pos+1]>>5)
	}
	d.ObjectType = aot
	return d
}
