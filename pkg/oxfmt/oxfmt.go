package oxfmt

// Header identifies a top-level record type on the wire.
type Header struct {
	Magic   string
	Version uint16
}

// Framed is implemented by record types that are written with a header.
// Records without it can only appear nested or be decoded with
// DecodeNested.
type Framed interface {
	Header() Header
}

// Record is a type that can be both serialized and rebuilt.
type Record interface {
	Marshaler
	Unmarshaler
}

// Marshal serializes m. A Framed record is preceded by its header; any
// other value is written bare, with the native architecture governing
// sizes.
func Marshal(m Marshaler, opts ...BuilderOption) ([]byte, error) {
	var b *Builder
	if f, ok := m.(Framed); ok {
		h := f.Header()
		b = NewBuilder(h.Magic, h.Version, opts...)
	} else {
		b = NewBuilderNoMeta(opts...)
	}
	return b.Add(m).Build()
}

// Decode deserializes a top-level record of type T. The buffer must start
// with T's header and contain exactly one record. On failure the zero T
// is returned.
func Decode[T any, PT interface {
	*T
	Unmarshaler
	Framed
}](data []byte) (T, error) {
	var zero T
	rec := PT(new(T))
	h := rec.Header()
	r := NewReader(data)
	if err := r.Init(h.Magic, h.Version); err != nil {
		return zero, err
	}
	if err := r.ReadRecord(rec); err != nil {
		return zero, err
	}
	if r.Remaining() != 0 {
		return zero, r.fail(errorf(ErrTrailingBytes, "%d bytes", r.Remaining()))
	}
	return *rec, nil
}

// DecodeNested deserializes a record that was written without a header,
// reading sizes with the width selected by arch.
func DecodeNested[T any, PT interface {
	*T
	Unmarshaler
}](data []byte, arch Arch) (T, error) {
	var zero T
	rec := PT(new(T))
	r := NewReader(data)
	if err := r.SetArch(arch); err != nil {
		return zero, err
	}
	if err := r.ReadRecord(rec); err != nil {
		return zero, err
	}
	if r.Remaining() != 0 {
		return zero, r.fail(errorf(ErrTrailingBytes, "%d bytes", r.Remaining()))
	}
	return *rec, nil
}

// Inspect decodes the header and the raw field values of a top-level
// record without reconstructing it. Tools use it to dump buffers whose
// concrete type is only known by its structure.
func Inspect(data []byte, h Header, s Structure) (Arch, []Value, error) {
	r := NewReader(data)
	if err := r.Init(h.Magic, h.Version); err != nil {
		return 0, nil, err
	}
	items, err := r.ReadValues(s)
	if err != nil {
		return 0, nil, err
	}
	return r.arch, items, nil
}
