package oxfmt

// Fixture records, written the way oxfmtgen emits them.

type toggle uint8

const (
	toggleOff toggle = 0
	toggleOn  toggle = 1
)

func parseToggle(raw uint8) (toggle, error) {
	switch toggle(raw) {
	case toggleOff, toggleOn:
		return toggle(raw), nil
	}
	return 0, errorf(ErrInvalidDiscriminant, "toggle %d", raw)
}

func (t toggle) MarshalOxfmt(b *Builder) error {
	return U8(t).MarshalOxfmt(b)
}

type sample struct {
	ID    string
	Count uint8
	Tags  []string
}

func (*sample) Header() Header {
	return Header{Magic: "mcmodbuild", Version: 1}
}

func (m *sample) MarshalOxfmt(b *Builder) error {
	return b.Add(String(m.ID)).
		Add(U8(m.Count)).
		Add(SequenceOf(m.Tags, StringOf)).
		Err()
}

func (*sample) Structure() Structure {
	return Structure{Fields: []Field{
		StringField("ID"),
		U8Field("Count"),
		SequenceField("Tags", StringField("")),
	}}
}

func (m *sample) Construct(vs *Values) error {
	var err error
	if m.ID, err = vs.TakeString(); err != nil {
		return err
	}
	if m.Count, err = vs.TakeU8(); err != nil {
		return err
	}
	if m.Tags, err = TakeSequence(vs, StringElem); err != nil {
		return err
	}
	return vs.Done()
}

type child struct {
	Label string
	Flags []toggle
}

func (m *child) MarshalOxfmt(b *Builder) error {
	return b.Add(String(m.Label)).
		Add(SequenceOf(m.Flags, func(v toggle) Marshaler { return v })).
		Err()
}

func (*child) Structure() Structure {
	return Structure{Fields: []Field{
		StringField("Label"),
		SequenceField("Flags", U8Field("")),
	}}
}

func (m *child) Construct(vs *Values) error {
	var err error
	if m.Label, err = vs.TakeString(); err != nil {
		return err
	}
	if m.Flags, err = TakeSequence(vs, EnumElem(parseToggle)); err != nil {
		return err
	}
	return vs.Done()
}

type wide struct {
	Name     string
	Small    uint8
	Short    uint16
	Mid      uint32
	Long     uint64
	Huge     Uint128
	Mode     toggle
	Note     *string
	Child    child
	Children []child
	Matrix   [][]uint16
	Blob     []byte
}

func (*wide) Header() Header {
	return Header{Magic: "widefmt", Version: 7}
}

func (m *wide) MarshalOxfmt(b *Builder) error {
	if err := CheckPresence("wide.Note", m.Note != nil, m.Mode == toggleOn); err != nil {
		return err
	}
	return b.Add(String(m.Name)).
		Add(U8(m.Small)).
		Add(U16(m.Short)).
		Add(U32(m.Mid)).
		Add(U64(m.Long)).
		Add(m.Huge).
		Add(m.Mode).
		Add(OptionalOf(m.Note, StringOf)).
		Add(&m.Child).
		Add(SequenceOf(m.Children, func(v child) Marshaler { return &v })).
		Add(SequenceOf(m.Matrix, func(v []uint16) Marshaler { return SequenceOf(v, U16Of) })).
		Add(Bytes(m.Blob)).
		Err()
}

func (*wide) Structure() Structure {
	return Structure{Fields: []Field{
		StringField("Name"),
		U8Field("Small"),
		U16Field("Short"),
		U32Field("Mid"),
		U64Field("Long"),
		U128Field("Huge"),
		U8Field("Mode"),
		StringField("Note").When(U8Equals(6, uint8(toggleOn))),
		RecordField("Child", func() Unmarshaler { return new(child) }),
		SequenceField("Children", RecordField("", func() Unmarshaler { return new(child) })),
		SequenceField("Matrix", SequenceField("", U16Field(""))),
		SequenceField("Blob", U8Field("")),
	}}
}

func (m *wide) Construct(vs *Values) error {
	var err error
	if m.Name, err = vs.TakeString(); err != nil {
		return err
	}
	if m.Small, err = vs.TakeU8(); err != nil {
		return err
	}
	if m.Short, err = vs.TakeU16(); err != nil {
		return err
	}
	if m.Mid, err = vs.TakeU32(); err != nil {
		return err
	}
	if m.Long, err = vs.TakeU64(); err != nil {
		return err
	}
	if m.Huge, err = vs.TakeU128(); err != nil {
		return err
	}
	if m.Mode, err = TakeEnum(vs, parseToggle); err != nil {
		return err
	}
	if m.Note, err = TakeOptional(vs, StringElem); err != nil {
		return err
	}
	if m.Child, err = TakeRecord[child](vs); err != nil {
		return err
	}
	if m.Children, err = TakeSequence(vs, RecordElem[child, *child]); err != nil {
		return err
	}
	if m.Matrix, err = TakeSequence(vs, SequenceElem(U16Elem)); err != nil {
		return err
	}
	if m.Blob, err = vs.TakeBytes(); err != nil {
		return err
	}
	return vs.Done()
}

// drifted claims a string where its structure decodes a byte.
type drifted struct {
	ID string
}

func (*drifted) Header() Header { return Header{Magic: "drift", Version: 1} }

func (m *drifted) MarshalOxfmt(b *Builder) error {
	return b.Add(U8(1)).Err()
}

func (*drifted) Structure() Structure {
	return Structure{Fields: []Field{U8Field("ID")}}
}

func (m *drifted) Construct(vs *Values) error {
	var err error
	if m.ID, err = vs.TakeString(); err != nil {
		return err
	}
	return vs.Done()
}

// empty has no fields, so a sequence of it costs nothing per element.
type empty struct{}

func (*empty) MarshalOxfmt(b *Builder) error { return nil }
func (*empty) Structure() Structure { return Structure{} }
func (*empty) Construct(vs *Values) error { return vs.Done() }

type holder struct {
	Items []empty
}

func (*holder) Header() Header { return Header{Magic: "hold", Version: 1} }

func (m *holder) MarshalOxfmt(b *Builder) error {
	return b.Add(SequenceOf(m.Items, func(v empty) Marshaler { return &v })).Err()
}

func (*holder) Structure() Structure {
	return Structure{Fields: []Field{
		SequenceField("Items", RecordField("", func() Unmarshaler { return new(empty) })),
	}}
}

func (m *holder) Construct(vs *Values) error {
	var err error
	if m.Items, err = TakeSequence(vs, RecordElem[empty, *empty]); err != nil {
		return err
	}
	return vs.Done()
}
