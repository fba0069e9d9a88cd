package oxfmt

// Kind tags how the next bytes of a buffer must be interpreted.
type Kind uint8

const (
	KindString Kind = iota
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindRecord
	KindSequence
)

var kindNames = [...]string{
	KindString:   "string",
	KindU8:       "u8",
	KindU16:      "u16",
	KindU32:      "u32",
	KindU64:      "u64",
	KindU128:     "u128",
	KindRecord:   "record",
	KindSequence: "sequence",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// width returns the fixed encoded size of an integer kind, or 0.
func (k Kind) width() int {
	switch k {
	case KindU8:
		return 1
	case KindU16:
		return 2
	case KindU32:
		return 4
	case KindU64:
		return 8
	case KindU128:
		return 16
	}
	return 0
}

// Field describes one field of a record. The wire carries no tags, so a
// Field only matters by its position in a Structure.
type Field struct {
	Name string
	Kind Kind

	// New returns an empty instance of the nested record type. Required for
	// KindRecord.
	New func() Unmarshaler

	// Elem describes each element of a KindSequence field.
	Elem *Field

	// PresentIf makes the field optional. It is evaluated against the
	// values already decoded for the enclosing record; when it reports
	// false the field occupies no bytes.
	PresentIf func(prior []Value) bool
}

// Structure is the ordered list of field descriptors of one record type.
// Its order is the wire order.
type Structure struct {
	Fields []Field
}

// StringField describes a string field.
func StringField(name string) Field { return Field{Name: name, Kind: KindString} }

// U8Field describes a one-byte field, including single-byte enums.
func U8Field(name string) Field { return Field{Name: name, Kind: KindU8} }

func U16Field(name string) Field { return Field{Name: name, Kind: KindU16} }
func U32Field(name string) Field { return Field{Name: name, Kind: KindU32} }
func U64Field(name string) Field { return Field{Name: name, Kind: KindU64} }
func U128Field(name string) Field { return Field{Name: name, Kind: KindU128} }

// RecordField describes a nested record whose instances come from newFn.
func RecordField(name string, newFn func() Unmarshaler) Field {
	return Field{Name: name, Kind: KindRecord, New: newFn}
}

// SequenceField describes a length-prefixed sequence of elem.
func SequenceField(name string, elem Field) Field {
	return Field{Name: name, Kind: KindSequence, Elem: &elem}
}

// When returns a copy of f that is only present when cond holds.
func (f Field) When(cond func(prior []Value) bool) Field {
	f.PresentIf = cond
	return f
}

// U8Equals reports whether the value decoded at index is a one-byte integer
// equal to one of want. It is the usual presence condition for a field
// guarded by an enum discriminant.
func U8Equals(index int, want ...uint8) func(prior []Value) bool {
	return func(prior []Value) bool {
		if index < 0 || index >= len(prior) {
			return false
		}
		v, err := prior[index].AsU8()
		if err != nil {
			return false
		}
		for _, w := range want {
			if v == w {
				return true
			}
		}
		return false
	}
}

// minSize returns the fewest bytes any encoding of f can occupy, which
// bounds how many elements a sequence count may claim.
func (f *Field) minSize(depth int) int {
	if f.PresentIf != nil {
		return 0
	}
	switch f.Kind {
	case KindString:
		return 1
	case KindSequence:
		// a size is at least 4 bytes whatever the arch
		return 4
	case KindRecord:
		if f.New == nil || depth > maxSchemaDepth {
			return 0
		}
		return f.New().Structure().minSize(depth + 1)
	default:
		return f.Kind.width()
	}
}

func (s Structure) minSize(depth int) int {
	total := 0
	for i := range s.Fields {
		total += s.Fields[i].minSize(depth)
	}
	return total
}

// maxSchemaDepth stops minSize from chasing self-referential record types.
const maxSchemaDepth = 16
