package ebml

import (
	"fmt"
	"math"

	"github.com/simonhull/mediaprobe/internal/binary"
	"github.com/simonhull/mediaprobe/internal/types"
)

// ReadLeaf decodes a leaf payload of the given length.
// The tokenizer advances by exactly length bytes on success.
func ReadLeaf(tok *binary.Tokenizer, kind Kind, length uint64) (Value, error) {
	v := Value{Kind: kind, Shape: ShapeLeaf}

	switch kind {
	case KindUInt:
		u, err := readUint(tok, length)
		if err != nil {
			return Value{}, err
		}
		v.Uint = u
	case KindBool, KindUIDBool:
		u, err := readUint(tok, length)
		if err != nil {
			return Value{}, err
		}
		v.Uint = u
		v.Bool = u == 1
	case KindString:
		s, err := tok.ReadString(int(length))
		if err != nil {
			return Value{}, err
		}
		v.Str = s
	case KindBinary:
		b, err := tok.ReadFull(int(length))
		if err != nil {
			return Value{}, err
		}
		v.Bytes = b
	case KindFloat:
		f, err := readFloat(tok, length)
		if err != nil {
			return Value{}, err
		}
		v.Float = f
	default:
		return Value{}, fmt.Errorf("ebml: no decoder for value kind %d", kind)
	}

	return v, nil
}

// readUint consumes length bytes and decodes at most the low 6 as big-endian.
func readUint(tok *binary.Tokenizer, length uint64) (uint64, error) {
	buf, err := tok.ReadFull(int(length))
	if err != nil {
		return 0, err
	}
	return truncatedBigEndian(buf), nil
}

// readFloat decodes an IEEE-754 payload.
//
// A 10-byte payload (80-bit extended precision) is consumed in full and its
// leading 8 bytes are read as a double.
func readFloat(tok *binary.Tokenizer, length uint64) (float64, error) {
	switch length {
	case 0:
		return 0, nil
	case 4:
		u, err := tok.ReadUint32()
		if err != nil {
			return 0, err
		}
		return float64(math.Float32frombits(u)), nil
	case 8, 10:
		buf, err := tok.ReadFull(int(length))
		if err != nil {
			return 0, err
		}
		return math.Float64frombits(bigEndian(buf[:8])), nil
	default:
		return 0, fmt.Errorf("%w: %d bytes", types.ErrInvalidFloatWidth, length)
	}
}
