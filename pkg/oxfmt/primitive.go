package oxfmt

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// Marshaler is implemented by anything that can append its oxfmt encoding
// to a Builder. Records, enums and the primitive wrappers below all
// implement it.
type Marshaler interface {
	MarshalOxfmt(b *Builder) error
}

// String encodes as UTF-8 bytes followed by a single zero byte.
type String string

// U8 encodes as one byte.
type U8 uint8

// U16 encodes as two little-endian bytes.
type U16 uint16

// U32 encodes as four little-endian bytes.
type U32 uint32

// U64 encodes as eight little-endian bytes.
type U64 uint64

// Uint128 is an unsigned 128-bit integer. It encodes as sixteen
// little-endian bytes: Lo first, then Hi.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

func (s String) MarshalOxfmt(b *Builder) error {
	if i := strings.IndexByte(string(s), 0); i >= 0 {
		return errorf(ErrEmbeddedNUL, "at index %d", i)
	}
	b.buf = append(b.buf, string(s)...)
	b.buf = append(b.buf, 0)
	return nil
}

func (v U8) MarshalOxfmt(b *Builder) error {
	b.buf = append(b.buf, uint8(v))
	return nil
}

func (v U16) MarshalOxfmt(b *Builder) error {
	b.buf = binary.LittleEndian.AppendUint16(b.buf, uint16(v))
	return nil
}

func (v U32) MarshalOxfmt(b *Builder) error {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(v))
	return nil
}

func (v U64) MarshalOxfmt(b *Builder) error {
	b.buf = binary.LittleEndian.AppendUint64(b.buf, uint64(v))
	return nil
}

func (v Uint128) MarshalOxfmt(b *Builder) error {
	b.buf = binary.LittleEndian.AppendUint64(b.buf, v.Lo)
	b.buf = binary.LittleEndian.AppendUint64(b.buf, v.Hi)
	return nil
}

func (v Uint128) String() string {
	if v.Hi == 0 {
		return strconv.FormatUint(v.Lo, 10)
	}
	return "0x" + strconv.FormatUint(v.Hi, 16) + padHex(v.Lo)
}

func padHex(v uint64) string {
	s := strconv.FormatUint(v, 16)
	for len(s) < 16 {
		s = "0" + s
	}
	return s
}

// StringOf, U8Of and friends adapt plain Go values for SequenceOf.
func StringOf(v string) Marshaler { return String(v) }
func U8Of(v uint8) Marshaler { return U8(v) }
func U16Of(v uint16) Marshaler { return U16(v) }
func U32Of(v uint32) Marshaler { return U32(v) }
func U64Of(v uint64) Marshaler { return U64(v) }
func U128Of(v Uint128) Marshaler { return v }

// appendUint writes the low width bytes of v little-endian.
func appendUint(buf []byte, v uint64, width int) []byte {
	for i := 0; i < width; i++ {
		buf = append(buf, byte(v>>(8*i)))
	}
	return buf
}
