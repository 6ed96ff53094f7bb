package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"

	binutil "github.com/simonhull/mediaprobe/internal/binary"
)

type mpegVersion int

const (
	mpegVersion1 mpegVersion = iota
	mpegVersion2
	mpegVersion2_5
)

func (v mpegVersion) String() string {
	switch v {
	case mpegVersion1:
		return "1"
	case mpegVersion2:
		return "2"
	default:
		return "2.5"
	}
}

// mpegVersionsByID maps the 2-bit version ID of a frame header to the
// MPEG audio version. 0x1 is reserved.
var mpegVersionsByID = map[uint32]mpegVersion{
	0x0: mpegVersion2_5,
	0x2: mpegVersion2,
	0x3: mpegVersion1,
}

type mpegLayer int

const (
	mpegLayer1 mpegLayer = iota + 1
	mpegLayer2
	mpegLayer3
)

// mpegLayersByIndex maps the 2-bit layer index to the layer. 0x0 is reserved.
var mpegLayersByIndex = map[uint32]mpegLayer{
	0x1: mpegLayer3,
	0x2: mpegLayer2,
	0x3: mpegLayer1,
}

// mpegBitrates is indexed by the 4-bit bitrate index. Values are in kbit/s.
var mpegBitrates = map[mpegVersion]map[mpegLayer][16]int{
	mpegVersion1: {
		mpegLayer1: {0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0},
		mpegLayer2: {0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0},
		mpegLayer3: {0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
	},
	mpegVersion2: {
		mpegLayer1: {0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0},
		mpegLayer2: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
		mpegLayer3: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
	},
	mpegVersion2_5: {
		mpegLayer1: {0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0},
		mpegLayer2: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
		mpegLayer3: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
	},
}

// mpegSamplingRates is indexed by the 2-bit sampling rate index, in Hz.
var mpegSamplingRates = map[mpegVersion][4]int{
	mpegVersion1:   {44100, 48000, 32000, 0},
	mpegVersion2:   {22050, 24000, 16000, 0},
	mpegVersion2_5: {11025, 12000, 8000, 0},
}

var mpegSamplesPerFrame = map[mpegVersion]map[mpegLayer]int{
	mpegVersion1:   {mpegLayer1: 384, mpegLayer2: 1152, mpegLayer3: 1152},
	mpegVersion2:   {mpegLayer1: 384, mpegLayer2: 1152, mpegLayer3: 576},
	mpegVersion2_5: {mpegLayer1: 384, mpegLayer2: 1152, mpegLayer3: 576},
}

const channelModeMono = 0x3

// frameHeader is a decoded 4-byte MPEG audio frame header.
type frameHeader struct {
	Version     mpegVersion
	Layer       mpegLayer
	Bitrate     int // bit/s
	SampleRate  int
	ChannelMode uint32
	Padding     bool
	Protected   bool // a 16-bit CRC follows the header
}

var (
	errNoSync       = errors.New("missing frame sync")
	errBadVersion   = errors.New("reserved MPEG version")
	errBadLayer     = errors.New("reserved MPEG layer")
	errBadBitrate   = errors.New("invalid bitrate index")
	errBadFrequency = errors.New("invalid sampling rate index")
)

func parseFrameHeader(b []byte) (frameHeader, error) {
	header := binary.BigEndian.Uint32(b)
	bits := func(start, n uint) uint32 {
		return (header << start) >> (32 - n)
	}

	if bits(0, 11) != 0x7FF {
		return frameHeader{}, errNoSync
	}
	version, ok := mpegVersionsByID[bits(11, 2)]
	if !ok {
		return frameHeader{}, errBadVersion
	}
	layer, ok := mpegLayersByIndex[bits(13, 2)]
	if !ok {
		return frameHeader{}, errBadLayer
	}
	bitrate := mpegBitrates[version][layer][bits(16, 4)]
	if bitrate == 0 {
		return frameHeader{}, errBadBitrate
	}
	rate := mpegSamplingRates[version][bits(20, 2)]
	if rate == 0 {
		return frameHeader{}, errBadFrequency
	}

	return frameHeader{
		Version:     version,
		Layer:       layer,
		Bitrate:     bitrate * 1000,
		SampleRate:  rate,
		Padding:     bits(22, 1) == 1,
		ChannelMode: bits(24, 2),
		Protected:   bits(15, 1) == 0,
	}, nil
}

func (h frameHeader) Channels() int {
	if h.ChannelMode == channelModeMono {
		return 1
	}
	return 2
}

func (h frameHeader) SamplesPerFrame() int {
	return mpegSamplesPerFrame[h.Version][h.Layer]
}

// Codec names the stream, e.g. "MPEG 1 Layer 3".
func (h frameHeader) Codec() string {
	return fmt.Sprintf("MPEG %s Layer %d", h.Version, h.Layer)
}

// FrameLength is the size of the whole frame in bytes, header included.
func (h frameHeader) FrameLength() int {
	pad := 0
	if h.Padding {
		pad = 1
	}
	if h.Layer == mpegLayer1 {
		return (12*h.Bitrate/h.SampleRate + pad) * 4
	}
	return h.SamplesPerFrame()/8*h.Bitrate/h.SampleRate + pad
}

// SideInfoOffset is where the Xing/Info header starts, relative to the
// frame start: after the header, the optional CRC and the side information.
func (h frameHeader) SideInfoOffset() int {
	off := 4
	mono := h.ChannelMode == channelModeMono
	switch {
	case h.Version == mpegVersion1 && mono:
		off += 17
	case h.Version == mpegVersion1:
		off += 32
	case mono:
		off += 9
	default:
		off += 17
	}
	if h.Protected {
		off += 2
	}
	return off
}

// maxSyncScan bounds the search for the first frame.
const maxSyncScan = 1 << 20

// findFirstFrame scans forward from the cursor for a frame header that is
// followed by a second valid header, and leaves the cursor on it.
func findFirstFrame(tok *binutil.Tokenizer) (frameHeader, error) {
	start := tok.Position()
	for tok.Position()-start < maxSyncScan {
		b, err := tok.Peek(4)
		if err != nil {
			return frameHeader{}, err
		}
		if b[0] != 0xFF {
			if err := tok.Skip(1); err != nil {
				return frameHeader{}, err
			}
			continue
		}

		h, err := parseFrameHeader(b)
		if err == nil && confirmFrame(tok, h) {
			return h, nil
		}
		if err := tok.Skip(1); err != nil {
			return frameHeader{}, err
		}
	}
	return frameHeader{}, fmt.Errorf("no MPEG frame sync in first %d bytes after offset %d", maxSyncScan, start)
}

// confirmFrame checks that another frame header follows h. A frame that
// ends the stream is accepted as is.
func confirmFrame(tok *binutil.Tokenizer, h frameHeader) bool {
	n := h.FrameLength()
	if int64(n)+4 > tok.Remaining() {
		return true
	}
	b, err := tok.Peek(n + 4)
	if err != nil {
		return false
	}
	next, err := parseFrameHeader(b[n:])
	return err == nil && next.Version == h.Version && next.Layer == h.Layer
}
