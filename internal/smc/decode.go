package smc

import (
	"encoding/binary"
	"math"

	"codeberg.org/tessen/smcmon/internal/errors"
)

// Decode turns a raw SMC value into a float64 according to its type tag.
// This is the only place numeric semantics for the wire format live; every
// monitor reads through it. Unknown tags are rejected, never guessed at.
func Decode(key Key, v Value) (float64, error) {
	errFactory := errors.New()

	width := map[TypeTag]uint32{
		TypeFloat:  4,
		TypeUint8:  1,
		TypeUint16: 2,
		TypeUint32: 4,
		TypeInt16:  2,
		TypeSP78:   2,
	}[v.Type]

	if width == 0 {
		return 0, errFactory.WithData(ErrUnsupportedType, TypeContext{
			Key: key.String(),
			Tag: v.Type.String(),
		})
	}

	if v.Size < width {
		return 0, errFactory.WithData(ErrValueTruncated, TypeContext{
			Key: key.String(),
			Tag: v.Type.String(),
		})
	}

	switch v.Type {
	case TypeFloat:
		bits := binary.BigEndian.Uint32(v.Raw[:4])
		return float64(math.Float32frombits(bits)), nil
	case TypeUint8:
		return float64(v.Raw[0]), nil
	case TypeUint16:
		return float64(binary.BigEndian.Uint16(v.Raw[:2])), nil
	case TypeUint32:
		return float64(binary.BigEndian.Uint32(v.Raw[:4])), nil
	case TypeInt16:
		return float64(int16(binary.BigEndian.Uint16(v.Raw[:2]))), nil
	case TypeSP78:
		// Signed 8-bit integer part, unsigned fractional part in 1/256ths.
		return float64(int8(v.Raw[0])) + float64(v.Raw[1])/256.0, nil
	}

	// Unreachable: every tag in the width table has a decode arm.
	return 0, errFactory.WithData(ErrUnsupportedType, TypeContext{
		Key: key.String(),
		Tag: v.Type.String(),
	})
}
