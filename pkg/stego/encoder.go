package stego

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"

	"StegoPlane/pkg/bitcodec"
	"StegoPlane/pkg/models"
)

const (
	// HeaderBits is the width of the length header. Changing it changes the wire format.
	HeaderBits = 24

	// MaxMessageBits is the largest payload bit length the header can express
	MaxMessageBits = 1<<HeaderBits - 1

	// MaxPayloadBytes is the largest payload that fits under MaxMessageBits
	MaxPayloadBytes = MaxMessageBits / 8
)

// Capacity returns how many payload bytes fit into one bit-plane of grid
func Capacity(grid *models.PixelGrid) int {
	n := (grid.Capacity() - HeaderBits) / 8
	if n < 0 {
		return 0
	}
	return min(n, MaxPayloadBytes)
}

// MessageBitstream returns the length header followed by the payload bits
func MessageBitstream(payload []byte) ([]uint8, error) {
	messageBits := 8 * len(payload)
	if messageBits > MaxMessageBits {
		return nil, &PayloadTooLargeError{Requested: HeaderBits + messageBits}
	}

	bits := make([]uint8, 0, HeaderBits+messageBits)
	bits, err := bitcodec.AppendBits(bits, uint64(messageBits), HeaderBits)
	if err != nil {
		return nil, err
	}
	for _, b := range payload {
		bits, err = bitcodec.AppendBits(bits, uint64(b), 8)
		if err != nil {
			return nil, err
		}
	}
	return bits, nil
}

// Encode hides payload in bit bitIdx of every sample of grid and returns the modified copy.
// The unused tail of the plane is filled with random bits from a generator private to this call.
func Encode(grid *models.PixelGrid, payload []byte, bitIdx int) (*models.PixelGrid, error) {
	return EncodeWithRand(grid, payload, bitIdx, newFillerRand())
}

// EncodeWithRand is Encode with a caller-supplied filler bit source
func EncodeWithRand(grid *models.PixelGrid, payload []byte, bitIdx int, rng *rand.Rand) (*models.PixelGrid, error) {
	if err := checkBitIndex(bitIdx); err != nil {
		return nil, err
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	requested := HeaderBits + 8*len(payload)
	if requested > grid.Capacity() {
		return nil, &PayloadTooLargeError{Requested: requested, Capacity: grid.Capacity()}
	}

	message, err := MessageBitstream(payload)
	if err != nil {
		if tooLarge, ok := err.(*PayloadTooLargeError); ok {
			tooLarge.Capacity = grid.Capacity()
		}
		return nil, err
	}

	stream := appendFiller(message, grid.Capacity()-len(message), rng)

	out := grid.Clone()
	mask := ^uint8(1 << uint(bitIdx))
	for i, p := range out.Pix {
		out.Pix[i] = (p & mask) | (stream[i] << uint(bitIdx))
	}
	return out, nil
}

// appendFiller appends n uniformly random bits to bits
func appendFiller(bits []uint8, n int, rng *rand.Rand) []uint8 {
	if cap(bits)-len(bits) < n {
		grown := make([]uint8, len(bits), len(bits)+n)
		copy(grown, bits)
		bits = grown
	}

	// draw 64 bits at a time
	for n > 0 {
		word := rng.Uint64()
		for j := 0; j < 64 && n > 0; j++ {
			bits = append(bits, uint8(word>>uint(j))&1)
			n--
		}
	}
	return bits
}

func newFillerRand() *rand.Rand {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// filler only has to look noisy, so fall back to the runtime generator
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(seed[:8]), binary.LittleEndian.Uint64(seed[8:])))
}
