package wasm

import "fmt"

// UnknownTagError is returned when a tag byte is not one of the values the
// grammar recognizes at that position: a value type outside the seven
// defined encodings, a limits flag above 0x07, or a global mutability byte
// other than 0x00/0x01. Unrecognized bytes always fail; nothing defaults.
type UnknownTagError struct {
	Tag byte
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown tag byte 0x%02x", e.Tag)
}

// ParseError wraps a decoding failure with the section being decoded and
// the byte offset, relative to the section payload, where it occurred.
type ParseError struct {
	Err     error
	Section string
	Offset  int
}

func (e *ParseError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("wasm: %s section at offset %d: %v", e.Section, e.Offset, e.Err)
	}
	return fmt.Sprintf("wasm: at offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
