package stego

import (
	"StegoPlane/pkg/bitcodec"
	"StegoPlane/pkg/models"
)

// ExtractBitPlane returns bit bitIdx of every sample in the grid's flatten order
func ExtractBitPlane(grid *models.PixelGrid, bitIdx int) ([]uint8, error) {
	if err := checkBitIndex(bitIdx); err != nil {
		return nil, err
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	plane := make([]uint8, len(grid.Pix))
	for i, p := range grid.Pix {
		plane[i] = (p >> uint(bitIdx)) & 1
	}
	return plane, nil
}

// ReadHeader decodes and validates the length header, returning the message length in bits
func ReadHeader(grid *models.PixelGrid, bitIdx int) (int, error) {
	plane, err := ExtractBitPlane(grid, bitIdx)
	if err != nil {
		return 0, err
	}
	return ParseHeader(plane)
}

// ParseHeader validates the length header at the start of an extracted bit-plane
func ParseHeader(plane []uint8) (int, error) {
	if len(plane) < HeaderBits {
		return 0, &CorruptHeaderError{MessageBits: -1, Capacity: len(plane)}
	}

	v, err := bitcodec.BitsToInteger(plane[:HeaderBits])
	if err != nil {
		return 0, err
	}
	messageBits := int(v)
	if messageBits%8 != 0 || HeaderBits+messageBits > len(plane) {
		return 0, &CorruptHeaderError{MessageBits: messageBits, Capacity: len(plane)}
	}
	return messageBits, nil
}

// Decode recovers the payload hidden in bit bitIdx of grid.
// Bits after the message are filler and are ignored.
func Decode(grid *models.PixelGrid, bitIdx int) ([]byte, error) {
	plane, err := ExtractBitPlane(grid, bitIdx)
	if err != nil {
		return nil, err
	}

	messageBits, err := ParseHeader(plane)
	if err != nil {
		return nil, err
	}

	return bitcodec.BitsToBytes(plane[HeaderBits : HeaderBits+messageBits])
}
