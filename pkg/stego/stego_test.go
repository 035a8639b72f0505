package stego

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StegoPlane/pkg/models"
)

// makeTestGrid returns a grid filled with a deterministic pattern
func makeTestGrid(t *testing.T, w, h, c int) *models.PixelGrid {
	t.Helper()
	g, err := models.NewPixelGrid(w, h, c)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				g.Set(x, y, ch, uint8((x*17)^(y*31)+ch*43))
			}
		}
	}
	return g
}

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestRoundTripAllBitIndices(t *testing.T) {
	payloads := map[string][]byte{
		"empty":  {},
		"text":   []byte("Hello world!"),
		"binary": {0x00, 0xff, 0x80, 0x01, 0x7f},
		"long":   bytes.Repeat([]byte("a"), 300),
	}

	grid := makeTestGrid(t, 40, 30, 3)
	for name, payload := range payloads {
		for bitIdx := 0; bitIdx <= 7; bitIdx++ {
			encoded, err := Encode(grid, payload, bitIdx)
			require.NoError(t, err, "%s bit %d", name, bitIdx)

			decoded, err := Decode(encoded, bitIdx)
			require.NoError(t, err, "%s bit %d", name, bitIdx)
			if !bytes.Equal(payload, decoded) {
				t.Errorf("%s bit %d: decoded %v, want %v", name, bitIdx, decoded, payload)
			}
		}
	}
}

func TestEncodeBitIsolation(t *testing.T) {
	grid := makeTestGrid(t, 16, 16, 4)
	payload := []byte("isolation check")

	for bitIdx := 0; bitIdx <= 7; bitIdx++ {
		encoded, err := EncodeWithRand(grid, payload, bitIdx, seededRand(uint64(bitIdx)))
		require.NoError(t, err)
		require.True(t, encoded.SameShape(grid))

		mask := ^uint8(1 << uint(bitIdx))
		for i := range grid.Pix {
			if grid.Pix[i]&mask != encoded.Pix[i]&mask {
				t.Fatalf("bit %d: sample %d changed outside the plane: %08b -> %08b",
					bitIdx, i, grid.Pix[i], encoded.Pix[i])
			}
		}
	}
}

func TestEncodeDoesNotMutateInput(t *testing.T) {
	grid := makeTestGrid(t, 10, 10, 3)
	before := grid.Clone()

	_, err := Encode(grid, []byte("payload"), 3)
	require.NoError(t, err)
	if diff := cmp.Diff(before, grid); diff != "" {
		t.Errorf("input grid mutated (-before +after):\n%s", diff)
	}
}

func TestScenarioAB(t *testing.T) {
	grid := makeTestGrid(t, 10, 10, 3)
	require.Equal(t, 300, grid.Capacity())

	encoded, err := Encode(grid, []byte{0x41, 0x42}, 0)
	require.NoError(t, err)

	plane, err := ExtractBitPlane(encoded, 0)
	require.NoError(t, err)
	require.Len(t, plane, 300)

	header := bitString(plane[:24])
	assert.Equal(t, "000000000000000000010000", header)
	assert.Equal(t, "01000001", bitString(plane[24:32]))
	assert.Equal(t, "01000010", bitString(plane[32:40]))

	decoded, err := Decode(encoded, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x41, 0x42}, decoded)
}

func TestScenarioABIgnoresFiller(t *testing.T) {
	grid := makeTestGrid(t, 10, 10, 3)

	for seed := uint64(0); seed < 8; seed++ {
		encoded, err := EncodeWithRand(grid, []byte("AB"), 0, seededRand(seed))
		require.NoError(t, err)

		// scramble the filler region; the payload must survive
		for i := 40; i < len(encoded.Pix); i++ {
			encoded.Pix[i] ^= uint8(seed+uint64(i)) & 1
		}
		decoded, err := Decode(encoded, 0)
		require.NoError(t, err)
		assert.Equal(t, []byte("AB"), decoded)
	}
}

func TestFillerIsNotConstant(t *testing.T) {
	grid, err := models.NewPixelGrid(64, 64, 3)
	require.NoError(t, err)

	encoded, err := EncodeWithRand(grid, nil, 0, seededRand(42))
	require.NoError(t, err)

	plane, err := ExtractBitPlane(encoded, 0)
	require.NoError(t, err)

	ones := 0
	for _, b := range plane[HeaderBits:] {
		ones += int(b)
	}
	ratio := float64(ones) / float64(len(plane)-HeaderBits)
	assert.InDelta(t, 0.5, ratio, 0.05)
}

func TestEncodeDeterministicWithSameSeed(t *testing.T) {
	grid := makeTestGrid(t, 12, 12, 3)

	a, err := EncodeWithRand(grid, []byte("x"), 2, seededRand(7))
	require.NoError(t, err)
	b, err := EncodeWithRand(grid, []byte("x"), 2, seededRand(7))
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestEmptyPayload(t *testing.T) {
	grid := makeTestGrid(t, 5, 5, 1)

	encoded, err := Encode(grid, nil, 0)
	require.NoError(t, err)

	plane, err := ExtractBitPlane(encoded, 0)
	require.NoError(t, err)
	assert.Equal(t, make([]uint8, HeaderBits), plane[:HeaderBits])

	decoded, err := Decode(encoded, 0)
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)
}

func TestCapacityBoundary(t *testing.T) {
	// 8*10 + 24 = 104 samples
	grid := makeTestGrid(t, 13, 8, 1)
	require.Equal(t, 104, grid.Capacity())
	assert.Equal(t, 10, Capacity(grid))

	payload := bytes.Repeat([]byte{0xa5}, 10)
	encoded, err := Encode(grid, payload, 1)
	require.NoError(t, err)
	decoded, err := Decode(encoded, 1)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)

	_, err = Encode(grid, append(payload, 0x00), 1)
	require.ErrorIs(t, err, ErrPayloadTooLarge)

	var tooLarge *PayloadTooLargeError
	require.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, 112, tooLarge.Requested)
	assert.Equal(t, 104, tooLarge.Capacity)
	assert.Contains(t, err.Error(), "image holds 104")
}

func TestEncodeGridSmallerThanHeader(t *testing.T) {
	grid := makeTestGrid(t, 2, 2, 3)
	assert.Equal(t, 0, Capacity(grid))

	_, err := Encode(grid, nil, 0)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestInvalidBitIndex(t *testing.T) {
	grid := makeTestGrid(t, 10, 10, 3)

	for _, bitIdx := range []int{-1, 8, 42} {
		_, err := Encode(grid, []byte("x"), bitIdx)
		assert.ErrorIs(t, err, ErrInvalidBitIndex)

		_, err = Decode(grid, bitIdx)
		assert.ErrorIs(t, err, ErrInvalidBitIndex)
	}
}

func TestInvalidGrid(t *testing.T) {
	bad := &models.PixelGrid{Width: 3, Height: 3, Channels: 3, Pix: make([]uint8, 10)}

	_, err := Encode(bad, nil, 0)
	assert.ErrorIs(t, err, models.ErrInvalidGrid)

	_, err = Decode(bad, 0)
	assert.ErrorIs(t, err, models.ErrInvalidGrid)
}

func TestDecodeCorruptHeader(t *testing.T) {
	t.Run("length not a multiple of 8", func(t *testing.T) {
		grid, err := models.NewPixelGrid(10, 10, 3)
		require.NoError(t, err)
		// header value 5: low three bits non-zero
		grid.Pix[21] = 1
		grid.Pix[23] = 1

		_, err = Decode(grid, 0)
		require.ErrorIs(t, err, ErrCorruptHeader)

		var corrupt *CorruptHeaderError
		require.True(t, errors.As(err, &corrupt))
		assert.Equal(t, 5, corrupt.MessageBits)
		assert.Contains(t, err.Error(), "not divisible by 8")
	})

	t.Run("length beyond capacity", func(t *testing.T) {
		grid, err := models.NewPixelGrid(10, 10, 3)
		require.NoError(t, err)
		// every sample 0xff: header reads 2^24-1
		for i := range grid.Pix {
			grid.Pix[i] = 0xff
		}
		// clear low 3 header bits so the value is a multiple of 8
		grid.Pix[21], grid.Pix[22], grid.Pix[23] = 0xfe, 0xfe, 0xfe

		_, err = Decode(grid, 0)
		require.ErrorIs(t, err, ErrCorruptHeader)
		assert.Contains(t, err.Error(), "exceeds")
	})

	t.Run("image smaller than header", func(t *testing.T) {
		grid := makeTestGrid(t, 2, 2, 3)
		_, err := Decode(grid, 0)
		require.ErrorIs(t, err, ErrCorruptHeader)

		var corrupt *CorruptHeaderError
		require.True(t, errors.As(err, &corrupt))
		assert.Equal(t, -1, corrupt.MessageBits)
	})
}

func TestDecodeAllZeroPlane(t *testing.T) {
	grid, err := models.NewPixelGrid(10, 10, 3)
	require.NoError(t, err)

	// a zero header is a valid empty message, not a corrupt one
	decoded, err := Decode(grid, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, decoded)

	// plane 1 of an encoded zero grid stays zero
	encoded, err := Encode(grid, []byte("AB"), 0)
	require.NoError(t, err)
	decoded, err = Decode(encoded, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, decoded)
}

func TestReadHeader(t *testing.T) {
	grid := makeTestGrid(t, 10, 10, 3)
	encoded, err := Encode(grid, []byte("abc"), 6)
	require.NoError(t, err)

	n, err := ReadHeader(encoded, 6)
	require.NoError(t, err)
	assert.Equal(t, 24, n)
}

func TestMessageBitstream(t *testing.T) {
	bits, err := MessageBitstream([]byte("A"))
	require.NoError(t, err)
	assert.Equal(t, "000000000000000000001000"+"01000001", bitString(bits))
}

func TestMessageBitstreamHeaderLimit(t *testing.T) {
	_, err := MessageBitstream(make([]byte, MaxPayloadBytes+1))
	require.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Contains(t, err.Error(), "header limit")

	bits, err := MessageBitstream(make([]byte, MaxPayloadBytes))
	require.NoError(t, err)
	assert.Len(t, bits, HeaderBits+8*MaxPayloadBytes)
}

func bitString(bits []uint8) string {
	b := make([]byte, len(bits))
	for i, v := range bits {
		b[i] = '0' + v
	}
	return string(b)
}
