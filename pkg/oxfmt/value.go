package oxfmt

import "fmt"

// Value is one decoded field. It is a tagged union over the field kinds;
// the As* accessors check the tag and fail with ErrTypeMismatch rather
// than reinterpret the payload.
type Value struct {
	kind   Kind
	absent bool
	num    uint64
	wide   Uint128
	str    string
	rec    Unmarshaler
	seq    []Value
	packed []byte // a sequence of U8 kept as raw bytes
}

// Kind returns the tag of v.
func (v Value) Kind() Kind { return v.kind }

// Absent reports whether v stands for an optional field that was not
// present on the wire.
func (v Value) Absent() bool { return v.absent }

func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func U8Value(n uint8) Value { return Value{kind: KindU8, num: uint64(n)} }
func U16Value(n uint16) Value { return Value{kind: KindU16, num: uint64(n)} }
func U32Value(n uint32) Value { return Value{kind: KindU32, num: uint64(n)} }
func U64Value(n uint64) Value { return Value{kind: KindU64, num: n} }
func U128Value(n Uint128) Value { return Value{kind: KindU128, wide: n} }
func RecordValue(r Unmarshaler) Value { return Value{kind: KindRecord, rec: r} }
func SequenceValue(items []Value) Value { return Value{kind: KindSequence, seq: items} }
func BytesValue(p []byte) Value { return Value{kind: KindSequence, packed: p} }
func absentValue(kind Kind) Value { return Value{kind: kind, absent: true} }

func (v Value) expect(kind Kind) error {
	if v.kind != kind {
		return errorf(ErrTypeMismatch, "expected %s, got %s", kind, v.kind)
	}
	if v.absent {
		return errorf(ErrTypeMismatch, "expected %s, got absent value", kind)
	}
	return nil
}

func (v Value) AsString() (string, error) {
	if err := v.expect(KindString); err != nil {
		return "", err
	}
	return v.str, nil
}

func (v Value) AsU8() (uint8, error) {
	if err := v.expect(KindU8); err != nil {
		return 0, err
	}
	return uint8(v.num), nil
}

func (v Value) AsU16() (uint16, error) {
	if err := v.expect(KindU16); err != nil {
		return 0, err
	}
	return uint16(v.num), nil
}

func (v Value) AsU32() (uint32, error) {
	if err := v.expect(KindU32); err != nil {
		return 0, err
	}
	return uint32(v.num), nil
}

func (v Value) AsU64() (uint64, error) {
	if err := v.expect(KindU64); err != nil {
		return 0, err
	}
	return v.num, nil
}

func (v Value) AsU128() (Uint128, error) {
	if err := v.expect(KindU128); err != nil {
		return Uint128{}, err
	}
	return v.wide, nil
}

func (v Value) AsRecord() (Unmarshaler, error) {
	if err := v.expect(KindRecord); err != nil {
		return nil, err
	}
	return v.rec, nil
}

func (v Value) AsSequence() ([]Value, error) {
	if err := v.expect(KindSequence); err != nil {
		return nil, err
	}
	if v.packed != nil {
		items := make([]Value, len(v.packed))
		for i, c := range v.packed {
			items[i] = U8Value(c)
		}
		return items, nil
	}
	return v.seq, nil
}

func (v Value) String() string {
	if v.absent {
		return "<absent " + v.kind.String() + ">"
	}
	switch v.kind {
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindU128:
		return v.wide.String()
	case KindRecord:
		return fmt.Sprintf("%T", v.rec)
	case KindSequence:
		if v.packed != nil {
			return fmt.Sprintf("%d bytes", len(v.packed))
		}
		return fmt.Sprintf("%v", v.seq)
	default:
		return fmt.Sprintf("%d", v.num)
	}
}

// Values is the ordered list handed to a record's Construct. Values are
// taken from the front in field declaration order.
type Values struct {
	fields []Field
	items  []Value
	next   int
}

// NewValues pairs decoded items with the structure that produced them.
func NewValues(s Structure, items []Value) *Values {
	return &Values{fields: s.Fields, items: items}
}

// Next removes and returns the front value.
func (vs *Values) Next() (Value, error) {
	if vs.next >= len(vs.items) {
		return Value{}, errorf(ErrTypeMismatch, "record asked for field %d of %d", vs.next+1, len(vs.items))
	}
	v := vs.items[vs.next]
	vs.next++
	return v, nil
}

// Done fails unless every value has been taken. A leftover value means
// the structure and the reconstruction disagree on the field count.
func (vs *Values) Done() error {
	if vs.next != len(vs.items) {
		return errorf(ErrTypeMismatch, "%d of %d values left unconsumed", len(vs.items)-vs.next, len(vs.items))
	}
	return nil
}

// fieldName names the value that was most recently taken.
func (vs *Values) fieldName() string {
	i := vs.next - 1
	if i >= 0 && i < len(vs.fields) {
		return vs.fields[i].Name
	}
	return fmt.Sprintf("#%d", i)
}

func (vs *Values) wrap(err error) error {
	return fmt.Errorf("field %s: %w", vs.fieldName(), err)
}

func (vs *Values) TakeString() (string, error) {
	return take(vs, StringElem)
}

func (vs *Values) TakeU8() (uint8, error) {
	return take(vs, U8Elem)
}

func (vs *Values) TakeU16() (uint16, error) {
	return take(vs, U16Elem)
}

func (vs *Values) TakeU32() (uint32, error) {
	return take(vs, U32Elem)
}

func (vs *Values) TakeU64() (uint64, error) {
	return take(vs, U64Elem)
}

func (vs *Values) TakeU128() (Uint128, error) {
	return take(vs, U128Elem)
}

// TakeBytes takes a sequence of U8 as a byte slice.
func (vs *Values) TakeBytes() ([]byte, error) {
	return take(vs, BytesElem)
}

func take[T any](vs *Values, elem func(Value) (T, error)) (T, error) {
	v, err := vs.Next()
	if err != nil {
		var zero T
		return zero, err
	}
	out, err := elem(v)
	if err != nil {
		var zero T
		return zero, vs.wrap(err)
	}
	return out, nil
}

// TakeEnum takes a one-byte value and narrows it with parse, which must
// reject bytes outside the enum's declared set.
func TakeEnum[E any](vs *Values, parse func(uint8) (E, error)) (E, error) {
	return take(vs, EnumElem(parse))
}

// TakeRecord takes a nested record of type T.
func TakeRecord[T any, PT interface {
	*T
	Unmarshaler
}](vs *Values) (T, error) {
	return take(vs, RecordElem[T, PT])
}

// TakeSequence takes a sequence and converts every element with elem.
func TakeSequence[T any](vs *Values, elem func(Value) (T, error)) ([]T, error) {
	return take(vs, SequenceElem(elem))
}

// TakeOptional takes an optional field; an absent value yields nil.
func TakeOptional[T any](vs *Values, elem func(Value) (T, error)) (*T, error) {
	v, err := vs.Next()
	if err != nil {
		return nil, err
	}
	if v.absent {
		return nil, nil
	}
	out, err := elem(v)
	if err != nil {
		return nil, vs.wrap(err)
	}
	return &out, nil
}
