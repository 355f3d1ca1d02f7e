// Package leb128 implements the variable-length integer encoding used by
// the WebAssembly binary format: seven value bits per byte plus a
// continuation bit, least-significant group first.
//
// Decoding is parameterized by a maximum bit width so the same code path
// serves u8 through u64 (and their signed forms) with exact over-length
// detection: a width-N integer occupies at most ceil(N/7) bytes, and any
// encoding that needs more is rejected as malformed.
package leb128

import (
	"errors"

	"github.com/wippyai/wasm-decode/cursor"
)

// ErrOverflow is returned when an encoding exceeds the maximum byte count
// permitted for its declared bit width. Such input is malformed or
// adversarial; well-formed encoders never produce it.
var ErrOverflow = errors.New("leb128: value exceeds declared bit width")

// decode runs the shared accumulation loop. It returns the raw 64-bit
// accumulator, the total shift in bits, and the final byte read; the
// unsigned and signed decoders interpret the triple. The loop stops at the
// first byte with a clear continuation bit, or with ErrOverflow once the
// shift reaches width while the continuation bit is still set.
func decode(c *cursor.Cursor, width uint) (result uint64, shift uint, last byte, err error) {
	if width == 0 || width > 64 {
		panic("leb128: width must be in 1..64")
	}
	for {
		b, err := c.ReadByte()
		if err != nil {
			return 0, 0, 0, err
		}
		result |= uint64(b&0x7f) << shift
		shift += 7
		last = b
		if b&0x80 == 0 {
			return result, shift, last, nil
		}
		if shift >= width {
			return 0, 0, 0, ErrOverflow
		}
	}
}

// DecodeUint reads an unsigned integer of at most width bits (1..64) from
// c. The accumulator is returned as-is: high bits contributed by the final
// byte of a maximum-length encoding are not masked, matching the wire
// format's contract that the byte-count bound alone constrains the value.
// A width outside 1..64 panics.
func DecodeUint(c *cursor.Cursor, width uint) (uint64, error) {
	result, _, _, err := decode(c, width)
	return result, err
}

// DecodeInt reads a signed integer of at most width bits (1..64) from c.
// Sign extension uses the final byte's bit 6 rather than the accumulator's
// top bit, because only the low shift bits of the accumulator are
// meaningful. A width outside 1..64 panics.
func DecodeInt(c *cursor.Cursor, width uint) (int64, error) {
	result, shift, last, err := decode(c, width)
	if err != nil {
		return 0, err
	}
	if shift < 64 && last&0x40 != 0 {
		result |= ^uint64(0) << shift
	}
	return int64(result), nil
}

// AppendUint appends the unsigned encoding of v to dst and returns the
// extended slice.
func AppendUint(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}

// AppendInt appends the signed encoding of v to dst and returns the
// extended slice.
func AppendInt(dst []byte, v int64) []byte {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}

// MaxLen returns the maximum number of bytes a width-bit integer may
// occupy on the wire: ceil(width/7). A width outside 1..64 panics.
func MaxLen(width uint) int {
	if width == 0 || width > 64 {
		panic("leb128: width must be in 1..64")
	}
	return int((width + 6) / 7)
}
