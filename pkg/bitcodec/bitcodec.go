// Package bitcodec converts between unsigned integers and fixed-width bit sequences.
// Bits are held one per element ([]uint8 of 0s and 1s) in big-endian order: element 0
// is the most significant bit. The encoder and decoder in pkg/stego use this for the
// 24-bit length header and for expanding payload bytes into bits.
package bitcodec

import (
	"errors"
	"fmt"
)

// MaxWidth is the widest bit sequence that fits into a uint64
const MaxWidth = 64

var (
	// ErrOutOfRange is returned when a value does not fit in the requested width
	ErrOutOfRange = errors.New("value out of range for bit width")

	// ErrInvalidBit is returned when a bit sequence holds something other than 0 or 1
	ErrInvalidBit = errors.New("bit sequence contains a value other than 0 or 1")
)

// IntegerToBits returns value as a big-endian sequence of exactly width bits
func IntegerToBits(value uint64, width int) ([]uint8, error) {
	return AppendBits(make([]uint8, 0, max(width, 0)), value, width)
}

// AppendBits appends the width-bit big-endian representation of value to dst
func AppendBits(dst []uint8, value uint64, width int) ([]uint8, error) {
	if width < 1 || width > MaxWidth {
		return dst, fmt.Errorf("%w: width %d not in [1,%d]", ErrOutOfRange, width, MaxWidth)
	}
	if width < MaxWidth && value>>uint(width) != 0 {
		return dst, fmt.Errorf("%w: %d needs more than %d bits", ErrOutOfRange, value, width)
	}

	for i := 0; i < width; i++ {
		dst = append(dst, uint8(value>>uint(width-1-i))&1)
	}
	return dst, nil
}

// BitsToInteger reads bits as a big-endian unsigned integer
func BitsToInteger(bits []uint8) (uint64, error) {
	if len(bits) > MaxWidth {
		return 0, fmt.Errorf("%w: %d bits exceed %d", ErrOutOfRange, len(bits), MaxWidth)
	}

	var value uint64
	for i, b := range bits {
		if b > 1 {
			return 0, fmt.Errorf("%w: bit %d is %d", ErrInvalidBit, i, b)
		}
		value = value<<1 | uint64(b)
	}
	return value, nil
}

// BytesToBits expands every byte into 8 bits, most significant bit first
func BytesToBits(data []byte) []uint8 {
	bits := make([]uint8, 0, len(data)*8)
	for _, b := range data {
		for j := 7; j >= 0; j-- {
			bits = append(bits, (b>>uint(j))&1)
		}
	}
	return bits
}

// BitsToBytes packs consecutive groups of 8 bits into bytes.
// The number of bits must be a multiple of 8.
func BitsToBytes(bits []uint8) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("%w: %d bits is not a whole number of bytes", ErrOutOfRange, len(bits))
	}

	out := make([]byte, len(bits)/8)
	for i := range out {
		v, err := BitsToInteger(bits[i*8 : i*8+8])
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}
