package oxfmtgen

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeKind classifies a field type for code generation.
type TypeKind int

const (
	TypeString TypeKind = iota
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeU128
	TypeEnum
	TypeRecord
	TypeBytes
	TypeSlice
	TypeOptional
)

// FieldType is the resolved type of a field. Name is set for enums and
// records, Elem for slices and optionals.
type FieldType struct {
	Kind TypeKind
	Name string
	Elem *FieldType
}

var primitives = map[TypeKind]struct {
	goType string
	wrap   string
}{
	TypeString: {"string", "String"},
	TypeU8:     {"uint8", "U8"},
	TypeU16:    {"uint16", "U16"},
	TypeU32:    {"uint32", "U32"},
	TypeU64:    {"uint64", "U64"},
	TypeU128:   {"oxfmt.Uint128", "U128"},
}

// GoType spells t as Go source.
func (t *FieldType) GoType() string {
	switch t.Kind {
	case TypeEnum, TypeRecord:
		return t.Name
	case TypeBytes:
		return "[]byte"
	case TypeSlice:
		return "[]" + t.Elem.GoType()
	case TypeOptional:
		return "*" + t.Elem.GoType()
	}
	return primitives[t.Kind].goType
}

// encode returns a Marshaler expression for the addressable value v.
func (t *FieldType) encode(v string) string {
	switch t.Kind {
	case TypeU128, TypeEnum:
		return v
	case TypeRecord:
		return "&" + v
	case TypeBytes:
		return "oxfmt.Bytes(" + v + ")"
	case TypeSlice:
		return "oxfmt.SequenceOf(" + v + ", " + t.Elem.encodeFunc() + ")"
	case TypeOptional:
		return "oxfmt.OptionalOf(" + v + ", " + t.Elem.encodeFunc() + ")"
	}
	return "oxfmt." + primitives[t.Kind].wrap + "(" + v + ")"
}

// encodeFunc returns a func(T) oxfmt.Marshaler for elements of type t.
func (t *FieldType) encodeFunc() string {
	switch t.Kind {
	case TypeEnum, TypeRecord, TypeSlice:
		return "func(v " + t.GoType() + ") oxfmt.Marshaler { return " + t.encode("v") + " }"
	case TypeBytes:
		return "oxfmt.BytesOf"
	}
	return "oxfmt." + primitives[t.Kind].wrap + "Of"
}

// decodeFunc returns a func(oxfmt.Value) (T, error) for elements of type t.
func (t *FieldType) decodeFunc() string {
	switch t.Kind {
	case TypeEnum:
		return "oxfmt.EnumElem(" + parseFunc(t.Name) + ")"
	case TypeRecord:
		return "oxfmt.RecordElem[" + t.Name + ", *" + t.Name + "]"
	case TypeBytes:
		return "oxfmt.BytesElem"
	case TypeSlice:
		return "oxfmt.SequenceElem(" + t.Elem.decodeFunc() + ")"
	}
	return "oxfmt." + primitives[t.Kind].wrap + "Elem"
}

// take returns the expression that takes the next value as type t.
func (t *FieldType) take() string {
	switch t.Kind {
	case TypeEnum:
		return "oxfmt.TakeEnum(vs, " + parseFunc(t.Name) + ")"
	case TypeRecord:
		return "oxfmt.TakeRecord[" + t.Name + "](vs)"
	case TypeBytes:
		return "vs.TakeBytes()"
	case TypeSlice:
		return "oxfmt.TakeSequence(vs, " + t.Elem.decodeFunc() + ")"
	case TypeOptional:
		return "oxfmt.TakeOptional(vs, " + t.Elem.decodeFunc() + ")"
	}
	return "vs.Take" + primitives[t.Kind].wrap + "()"
}

// descriptor returns the oxfmt.Field expression describing t.
func (t *FieldType) descriptor(name string) string {
	q := strconv.Quote(name)
	switch t.Kind {
	case TypeEnum:
		return "oxfmt.U8Field(" + q + ")"
	case TypeRecord:
		return "oxfmt.RecordField(" + q + ", func() oxfmt.Unmarshaler { return new(" + t.Name + ") })"
	case TypeBytes:
		return "oxfmt.SequenceField(" + q + `, oxfmt.U8Field(""))`
	case TypeSlice:
		return "oxfmt.SequenceField(" + q + ", " + t.Elem.descriptor("") + ")"
	case TypeOptional:
		return t.Elem.descriptor(name)
	}
	return "oxfmt." + primitives[t.Kind].wrap + "Field(" + q + ")"
}

func parseFunc(enum string) string {
	return "Parse" + enum
}

// descriptor includes the presence rule of an optional field.
func (f *Field) descriptor() string {
	d := f.Type.descriptor(f.Name)
	if f.When == nil {
		return d
	}
	vals := make([]string, len(f.When.Values))
	for i, v := range f.When.Values {
		vals[i] = "uint8(" + v + ")"
	}
	return fmt.Sprintf("%s.When(oxfmt.U8Equals(%d, %s))", d, f.When.Index, strings.Join(vals, ", "))
}

// presenceCheck is the encoder guard keeping an optional field in step
// with its discriminant.
func (f *Field) presenceCheck(record string) string {
	conds := make([]string, len(f.When.Values))
	for i, v := range f.When.Values {
		conds[i] = "m." + f.When.Field + " == " + v
	}
	return fmt.Sprintf("oxfmt.CheckPresence(%q, m.%s != nil, %s)",
		record+"."+f.Name, f.Name, strings.Join(conds, " || "))
}
