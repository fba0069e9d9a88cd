package oxfmt

import (
	"bytes"
	"encoding/binary"
	"strings"
	"unicode/utf8"
)

// MaxZeroWidthElements caps sequence counts whose elements may encode to
// zero bytes. Such counts are not bounded by the remaining input, so
// without a cap a few bytes could demand unbounded work.
const MaxZeroWidthElements = 1 << 16

// Unmarshaler is implemented by record types the generic reader can
// rebuild. Structure describes the wire order of the fields; Construct
// takes the decoded values in that same order.
type Unmarshaler interface {
	Structure() Structure
	Construct(vs *Values) error
}

// Reader is a decode session over one buffer. It owns the cursor and the
// architecture tag; nested records read through the same Reader and so
// inherit the tag.
type Reader struct {
	buf     []byte
	off     int
	arch    Arch
	archSet bool
	path    []string
}

// NewReader starts a session at the beginning of buf. The architecture tag
// is unset until Init or SetArch.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Init validates the header, checks the version and captures the
// architecture tag, in that order.
func (r *Reader) Init(magic string, version uint16) error {
	if err := r.AssertHeader(magic); err != nil {
		return err
	}
	if err := r.AssertVersion(version); err != nil {
		return err
	}
	return r.ReadArch()
}

// AssertHeader consumes magic from the front of the buffer.
func (r *Reader) AssertHeader(magic string) error {
	rest := r.buf[r.off:]
	if !bytes.HasPrefix(rest, []byte(magic)) {
		if len(rest) < len(magic) && strings.HasPrefix(magic, string(rest)) {
			return r.fail(errorf(ErrTruncatedBuffer, "header needs %d bytes, have %d", len(magic), len(rest)))
		}
		return r.fail(errorf(ErrInvalidHeader, "want %q", magic))
	}
	r.off += len(magic)
	return nil
}

// AssertVersion reads the 16-bit version and compares it with want.
func (r *Reader) AssertVersion(want uint16) error {
	start := r.off
	got, err := r.ReadU16()
	if err != nil {
		return err
	}
	if got != want {
		r.off = start
		return r.fail(errorf(ErrVersionMismatch, "got %d, want %d", got, want))
	}
	return nil
}

// ReadArch reads the one-byte architecture tag into the session.
func (r *Reader) ReadArch() error {
	start := r.off
	tag, err := r.ReadU8()
	if err != nil {
		return err
	}
	if _, err := Arch(tag).SizeWidth(); err != nil {
		r.off = start
		return r.fail(err)
	}
	r.arch = Arch(tag)
	r.archSet = true
	return nil
}

// SetArch supplies the architecture tag for a session that has no header,
// such as a standalone nested record.
func (r *Reader) SetArch(a Arch) error {
	if _, err := a.SizeWidth(); err != nil {
		return r.fail(err)
	}
	r.arch = a
	r.archSet = true
	return nil
}

// Arch returns the session's architecture tag and whether it is set.
func (r *Reader) Arch() (Arch, bool) {
	return r.arch, r.archSet
}

// Offset returns the cursor position.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// ReadBytes returns the next n bytes without copying and advances past
// them.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, r.fail(errorf(ErrTruncatedBuffer, "need %d bytes, have %d", n, r.Remaining()))
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out, nil
}

// ReadString reads up to the next zero byte and advances past it. The
// terminator is not part of the result.
func (r *Reader) ReadString() (string, error) {
	rest := r.buf[r.off:]
	pos := bytes.IndexByte(rest, 0)
	if pos < 0 {
		return "", r.fail(errorf(ErrUnterminatedString, "%d bytes scanned", len(rest)))
	}
	if !utf8.Valid(rest[:pos]) {
		return "", r.fail(ErrInvalidUTF8)
	}
	s := string(rest[:pos])
	r.off += pos + 1
	return s, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	p, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (r *Reader) ReadU16() (uint16, error) {
	p, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(p), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	p, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(p), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	p, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(p), nil
}

func (r *Reader) ReadU128() (Uint128, error) {
	p, err := r.ReadBytes(16)
	if err != nil {
		return Uint128{}, err
	}
	return Uint128{
		Lo: binary.LittleEndian.Uint64(p[:8]),
		Hi: binary.LittleEndian.Uint64(p[8:]),
	}, nil
}

// ReadSize reads a count whose width is chosen by the session's
// architecture tag.
func (r *Reader) ReadSize() (int, error) {
	if !r.archSet {
		return 0, r.fail(ErrArchitectureNotSet)
	}
	start := r.off
	var v uint64
	switch r.arch {
	case Arch32:
		n, err := r.ReadU32()
		if err != nil {
			return 0, err
		}
		v = uint64(n)
	case Arch64:
		n, err := r.ReadU64()
		if err != nil {
			return 0, err
		}
		v = n
	default:
		return 0, r.fail(errorf(ErrInvalidArchitectureTag, "tag %d", uint8(r.arch)))
	}
	n, err := sizeToInt(v)
	if err != nil {
		r.off = start
		return 0, r.fail(err)
	}
	return n, nil
}

// ReadRecord decodes the fields of dst's structure and hands them to
// dst.Construct. No header is read; see Init.
func (r *Reader) ReadRecord(dst Unmarshaler) error {
	s := dst.Structure()
	items, err := r.ReadValues(s)
	if err != nil {
		return err
	}
	if err := dst.Construct(NewValues(s, items)); err != nil {
		return r.fail(err)
	}
	return nil
}

// ReadValues walks s in order and decodes one Value per field.
func (r *Reader) ReadValues(s Structure) ([]Value, error) {
	items := make([]Value, 0, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.PresentIf != nil && !f.PresentIf(items) {
			items = append(items, absentValue(f.Kind))
			continue
		}
		r.path = append(r.path, f.Name)
		v, err := r.readField(f)
		r.path = r.path[:len(r.path)-1]
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (r *Reader) readField(f *Field) (Value, error) {
	switch f.Kind {
	case KindString:
		s, err := r.ReadString()
		return StringValue(s), err
	case KindU8:
		n, err := r.ReadU8()
		return U8Value(n), err
	case KindU16:
		n, err := r.ReadU16()
		return U16Value(n), err
	case KindU32:
		n, err := r.ReadU32()
		return U32Value(n), err
	case KindU64:
		n, err := r.ReadU64()
		return U64Value(n), err
	case KindU128:
		n, err := r.ReadU128()
		return U128Value(n), err
	case KindRecord:
		if f.New == nil {
			return Value{}, r.fail(errorf(ErrTypeMismatch, "record field without constructor"))
		}
		rec := f.New()
		if err := r.ReadRecord(rec); err != nil {
			return Value{}, err
		}
		return RecordValue(rec), nil
	case KindSequence:
		return r.readSequence(f)
	default:
		return Value{}, r.fail(errorf(ErrTypeMismatch, "unknown field kind %d", uint8(f.Kind)))
	}
}

func (r *Reader) readSequence(f *Field) (Value, error) {
	if f.Elem == nil {
		return Value{}, r.fail(errorf(ErrTypeMismatch, "sequence field without element"))
	}
	start := r.off
	n, err := r.ReadSize()
	if err != nil {
		return Value{}, err
	}
	elem := f.Elem
	if least := elem.minSize(0); least > 0 {
		if n > r.Remaining()/least {
			r.off = start
			return Value{}, r.fail(errorf(ErrTruncatedBuffer, "%d elements of at least %d bytes, %d bytes left", n, least, r.Remaining()))
		}
	} else if n > MaxZeroWidthElements {
		r.off = start
		return Value{}, r.fail(errorf(ErrSizeOverflow, "%d zero-width elements", n))
	}

	if elem.Kind == KindU8 && elem.PresentIf == nil {
		p, err := r.ReadBytes(n)
		if err != nil {
			return Value{}, err
		}
		packed := make([]byte, n)
		copy(packed, p)
		return BytesValue(packed), nil
	}

	items := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		if elem.PresentIf != nil && !elem.PresentIf(items) {
			items = append(items, absentValue(elem.Kind))
			continue
		}
		v, err := r.readField(elem)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	return SequenceValue(items), nil
}

// fail attaches the cursor position and field path to err once.
func (r *Reader) fail(err error) error {
	if _, ok := err.(*DecodeError); ok {
		return err
	}
	return &DecodeError{Offset: r.off, Field: strings.Join(r.path, "."), Err: err}
}
