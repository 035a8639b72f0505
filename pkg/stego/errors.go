package stego

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBitIndex is returned when the bit-plane selector is outside [0,7]
	ErrInvalidBitIndex = errors.New("bit index must be in [0,7]")

	// ErrPayloadTooLarge is matched by *PayloadTooLargeError
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrCorruptHeader is matched by *CorruptHeaderError
	ErrCorruptHeader = errors.New("corrupt length header")
)

// PayloadTooLargeError reports the requested message size against what the image can carry.
// Both values are in bits and include the 24-bit header.
type PayloadTooLargeError struct {
	Requested int
	Capacity  int
}

func (e *PayloadTooLargeError) Error() string {
	if e.Requested-HeaderBits > MaxMessageBits {
		return fmt.Sprintf("payload too large: %d payload bits exceed the %d-bit header limit of %d",
			e.Requested-HeaderBits, HeaderBits, MaxMessageBits)
	}
	return fmt.Sprintf("payload too large: need %d bits (%d header + %d payload), image holds %d",
		e.Requested, HeaderBits, e.Requested-HeaderBits, e.Capacity)
}

func (e *PayloadTooLargeError) Is(target error) bool {
	return target == ErrPayloadTooLarge
}

// CorruptHeaderError carries the decoded length that failed validation.
// MessageBits is -1 when the image is too small to hold a header at all.
type CorruptHeaderError struct {
	MessageBits int
	Capacity    int
}

func (e *CorruptHeaderError) Error() string {
	switch {
	case e.MessageBits < 0:
		return fmt.Sprintf("corrupt length header: image holds %d bits, header needs %d", e.Capacity, HeaderBits)
	case e.MessageBits%8 != 0:
		return fmt.Sprintf("corrupt length header: message length %d is not divisible by 8", e.MessageBits)
	default:
		return fmt.Sprintf("corrupt length header: message length %d exceeds the %d bits left after the header",
			e.MessageBits, e.Capacity-HeaderBits)
	}
}

func (e *CorruptHeaderError) Is(target error) bool {
	return target == ErrCorruptHeader
}

func checkBitIndex(bitIdx int) error {
	if bitIdx < 0 || bitIdx > 7 {
		return fmt.Errorf("%w: got %d", ErrInvalidBitIndex, bitIdx)
	}
	return nil
}
