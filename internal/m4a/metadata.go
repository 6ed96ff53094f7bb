package m4a

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/simonhull/mediaprobe/internal/types"
)

// Namespace is the tag namespace iTunes items are reported under.
const Namespace = "iTunes"

// Well-known data atom type codes.
const (
	dataImplicit = 0
	dataUTF8     = 1
	dataUTF16    = 2
	dataJPEG     = 13
	dataPNG      = 14
	dataSigned   = 21
	dataUnsigned = 22
	dataFloat32  = 23
	dataFloat64  = 24
	dataBMP      = 27
)

// itemValue is one decoded data atom of an ilst item.
type itemValue struct {
	Value any
	Type  uint32
}

// ilstItem is one entry of the iTunes item list: the item atom type, or
// "----:<mean>:<name>" for freeform items, and its data values.
type ilstItem struct {
	Key    string
	Values []itemValue
}

// parseItem decodes the child atoms of an item atom:
//
//	mean, name: [4] version/flags, then a UTF-8 string (freeform only)
//	data:       [1] version [3] type code [4] locale, then the value
func parseItem(itemType string, b []byte) (ilstItem, error) {
	item := ilstItem{Key: itemType}
	var mean, name string

	for len(b) > 0 {
		if len(b) < 8 {
			return item, errors.New("child atom header truncated")
		}
		n := int(binary.BigEndian.Uint32(b))
		if n < 8 || n > len(b) {
			return item, fmt.Errorf("child atom size %d out of range", n)
		}
		typ, payload := string(b[4:8]), b[8:n]
		b = b[n:]

		switch typ {
		case "mean", "name":
			if len(payload) < 4 {
				return item, fmt.Errorf("%s atom truncated", typ)
			}
			if typ == "mean" {
				mean = string(payload[4:])
			} else {
				name = string(payload[4:])
			}
		case "data":
			if len(payload) < 8 {
				return item, errors.New("data atom truncated")
			}
			code := binary.BigEndian.Uint32(payload) & 0xFFFFFF
			v, err := decodeData(itemType, code, payload[8:])
			if err != nil {
				return item, err
			}
			item.Values = append(item.Values, itemValue{Value: v, Type: code})
		}
	}

	if itemType == "----" {
		item.Key = "----:" + mean + ":" + name
	}
	return item, nil
}

// decodeData converts a data atom value according to its type code.
func decodeData(itemType string, code uint32, b []byte) (any, error) {
	switch code {
	case dataUTF8:
		return strings.TrimRight(string(b), "\x00"), nil
	case dataUTF16:
		u := make([]uint16, len(b)/2)
		for i := range u {
			u[i] = binary.BigEndian.Uint16(b[i*2:])
		}
		return string(utf16.Decode(u)), nil
	case dataJPEG, dataPNG, dataBMP:
		return types.Artwork{
			MIMEType: pictureMIMEType(code),
			Data:     slices.Clone(b),
			Type:     types.ArtworkFrontCover,
		}, nil
	case dataSigned:
		return signedInt(b)
	case dataUnsigned:
		return unsignedInt(b)
	case dataFloat32:
		if len(b) != 4 {
			return nil, fmt.Errorf("float32 of %d bytes", len(b))
		}
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	case dataFloat64:
		if len(b) != 8 {
			return nil, fmt.Errorf("float64 of %d bytes", len(b))
		}
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	case dataImplicit:
		return decodeImplicit(itemType, b)
	}
	return slices.Clone(b), nil
}

func pictureMIMEType(code uint32) string {
	switch code {
	case dataJPEG:
		return "image/jpeg"
	case dataPNG:
		return "image/png"
	default:
		return "image/bmp"
	}
}

// decodeImplicit handles items whose type code is 0 and whose layout is
// fixed by the item type.
//
//	trkn, disk: [2] reserved [2] number [2] total ...
//	gnre:       [2] ID3v1 genre index + 1
func decodeImplicit(itemType string, b []byte) (any, error) {
	switch itemType {
	case "trkn", "disk":
		if len(b) < 6 {
			return nil, fmt.Errorf("%s pair of %d bytes", itemType, len(b))
		}
		n := binary.BigEndian.Uint16(b[2:4])
		total := binary.BigEndian.Uint16(b[4:6])
		if total == 0 {
			return fmt.Sprint(n), nil
		}
		return fmt.Sprintf("%d/%d", n, total), nil
	case "gnre":
		if len(b) < 2 {
			return nil, errors.New("gnre truncated")
		}
		return int(binary.BigEndian.Uint16(b)), nil
	}
	return slices.Clone(b), nil
}

func signedInt(b []byte) (any, error) {
	switch len(b) {
	case 1:
		return int(int8(b[0])), nil
	case 2:
		return int(int16(binary.BigEndian.Uint16(b))), nil
	case 3:
		v := int32(b[0])<<16 | int32(b[1])<<8 | int32(b[2])
		return int(v<<8) >> 8, nil
	case 4:
		return int(int32(binary.BigEndian.Uint32(b))), nil
	case 8:
		return int64(binary.BigEndian.Uint64(b)), nil
	}
	return nil, fmt.Errorf("signed integer of %d bytes", len(b))
}

func unsignedInt(b []byte) (any, error) {
	switch len(b) {
	case 1:
		return int(b[0]), nil
	case 2:
		return int(binary.BigEndian.Uint16(b)), nil
	case 3:
		return int(b[0])<<16 | int(b[1])<<8 | int(b[2]), nil
	case 4:
		return binary.BigEndian.Uint32(b), nil
	case 8:
		return binary.BigEndian.Uint64(b), nil
	}
	return nil, fmt.Errorf("unsigned integer of %d bytes", len(b))
}
