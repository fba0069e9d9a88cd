package oxfmt

// sequence encodes a count followed by each element in order.
type sequence[T any] struct {
	items []T
	elem  func(T) Marshaler
}

func (s sequence[T]) MarshalOxfmt(b *Builder) error {
	if err := b.addSize(len(s.items)); err != nil {
		return err
	}
	for _, item := range s.items {
		if err := s.elem(item).MarshalOxfmt(b); err != nil {
			return err
		}
	}
	return nil
}

// SequenceOf encodes items as a size value followed by the encoding elem
// produces for each item, in order.
func SequenceOf[T any](items []T, elem func(T) Marshaler) Marshaler {
	return sequence[T]{items: items, elem: elem}
}

// Bytes encodes p as a sequence of U8.
type Bytes []byte

func (p Bytes) MarshalOxfmt(b *Builder) error {
	if err := b.addSize(len(p)); err != nil {
		return err
	}
	b.buf = append(b.buf, p...)
	return nil
}

// BytesOf adapts a byte slice for SequenceOf.
func BytesOf(p []byte) Marshaler { return Bytes(p) }

type optional struct {
	m Marshaler
}

func (o optional) MarshalOxfmt(b *Builder) error {
	if o.m == nil {
		return nil
	}
	return o.m.MarshalOxfmt(b)
}

// Optional encodes m when it is non-nil and nothing otherwise. Absence
// leaves no trace on the wire, so the decoder must learn presence from an
// earlier discriminant (see Field.PresentIf).
func Optional(m Marshaler) Marshaler {
	return optional{m: m}
}

// OptionalOf encodes *p with elem when p is non-nil.
func OptionalOf[T any](p *T, elem func(T) Marshaler) Marshaler {
	if p == nil {
		return Optional(nil)
	}
	return Optional(elem(*p))
}

// CheckPresence returns ErrOptionalMismatch when an optional field's
// presence disagrees with what its discriminant demands. Generated
// encoders call it so that a buffer that would decode differently is
// never produced.
func CheckPresence(field string, present, want bool) error {
	if present == want {
		return nil
	}
	if want {
		return errorf(ErrOptionalMismatch, "%s must be set", field)
	}
	return errorf(ErrOptionalMismatch, "%s must be unset", field)
}

// Element decoders convert one decoded Value into a Go value. They are the
// building blocks for TakeSequence, TakeOptional and nested sequences.

func StringElem(v Value) (string, error) { return v.AsString() }
func U8Elem(v Value) (uint8, error) { return v.AsU8() }
func U16Elem(v Value) (uint16, error) { return v.AsU16() }
func U32Elem(v Value) (uint32, error) { return v.AsU32() }
func U64Elem(v Value) (uint64, error) { return v.AsU64() }
func U128Elem(v Value) (Uint128, error) { return v.AsU128() }

// BytesElem converts a sequence of U8 into a byte slice.
func BytesElem(v Value) ([]byte, error) {
	if err := v.expect(KindSequence); err != nil {
		return nil, err
	}
	if v.packed != nil {
		if len(v.packed) == 0 {
			return nil, nil
		}
		return v.packed, nil
	}
	items, err := v.AsSequence()
	if err != nil || len(items) == 0 {
		return nil, err
	}
	out := make([]byte, len(items))
	for i, item := range items {
		if out[i], err = item.AsU8(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// EnumElem narrows a one-byte value with parse.
func EnumElem[E any](parse func(uint8) (E, error)) func(Value) (E, error) {
	return func(v Value) (E, error) {
		raw, err := v.AsU8()
		if err != nil {
			var zero E
			return zero, err
		}
		return parse(raw)
	}
}

// RecordElem recovers a nested record of concrete type T.
func RecordElem[T any, PT interface {
	*T
	Unmarshaler
}](v Value) (T, error) {
	var zero T
	rec, err := v.AsRecord()
	if err != nil {
		return zero, err
	}
	p, ok := rec.(PT)
	if !ok || p == nil {
		return zero, errorf(ErrTypeMismatch, "expected record %T, got %T", zero, rec)
	}
	return *p, nil
}

// SequenceElem converts every element of a sequence with elem. An empty
// sequence yields a nil slice.
func SequenceElem[T any](elem func(Value) (T, error)) func(Value) ([]T, error) {
	return func(v Value) ([]T, error) {
		items, err := v.AsSequence()
		if err != nil || len(items) == 0 {
			return nil, err
		}
		out := make([]T, len(items))
		for i, item := range items {
			if out[i], err = elem(item); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}
