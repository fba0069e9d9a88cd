package oxfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Init(t *testing.T) {
	r := NewReader(append([]byte("abc"), 0x07, 0x00, 0x01, 0xAA))
	require.NoError(t, r.Init("abc", 7))

	arch, ok := r.Arch()
	assert.True(t, ok)
	assert.Equal(t, Arch64, arch)
	assert.Equal(t, 6, r.Offset())
	assert.Equal(t, 1, r.Remaining())
}

func TestReader_InitOrder(t *testing.T) {
	// bad magic is reported before the version, the version before the tag
	r := NewReader(append([]byte("xyz"), 0x09, 0x00, 0x05))
	assert.ErrorIs(t, r.Init("abc", 1), ErrInvalidHeader)

	r = NewReader(append([]byte("abc"), 0x09, 0x00, 0x05))
	assert.ErrorIs(t, r.Init("abc", 1), ErrVersionMismatch)

	r = NewReader(append([]byte("abc"), 0x01, 0x00, 0x05))
	assert.ErrorIs(t, r.Init("abc", 1), ErrInvalidArchitectureTag)
}

func TestReader_ReadSizeWithoutArch(t *testing.T) {
	r := NewReader([]byte{0x01, 0x00, 0x00, 0x00})
	_, err := r.ReadSize()
	assert.ErrorIs(t, err, ErrArchitectureNotSet)

	_, err = r.ReadValues(Structure{Fields: []Field{SequenceField("s", U8Field(""))}})
	assert.ErrorIs(t, err, ErrArchitectureNotSet)
}

func TestReader_Primitives(t *testing.T) {
	buf := []byte{
		0x7F,
		0x34, 0x12,
		0x78, 0x56, 0x34, 0x12,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
		0x01, 0, 0, 0, 0, 0, 0, 0, 0x02, 0, 0, 0, 0, 0, 0, 0,
		'o', 'k', 0x00,
	}
	r := NewReader(buf)

	u8, err := r.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7F), u8)

	u16, err := r.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), u32)

	u64, err := r.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)

	u128, err := r.ReadU128()
	require.NoError(t, err)
	assert.Equal(t, Uint128{Lo: 1, Hi: 2}, u128)

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "ok", s)
	assert.Equal(t, 0, r.Remaining())

	_, err = r.ReadU8()
	assert.ErrorIs(t, err, ErrTruncatedBuffer)
}

func TestReader_ShortReads(t *testing.T) {
	testCases := []struct {
		name string
		read func(r *Reader) error
	}{
		{name: "u16", read: func(r *Reader) error { _, err := r.ReadU16(); return err }},
		{name: "u32", read: func(r *Reader) error { _, err := r.ReadU32(); return err }},
		{name: "u64", read: func(r *Reader) error { _, err := r.ReadU64(); return err }},
		{name: "u128", read: func(r *Reader) error { _, err := r.ReadU128(); return err }},
		{name: "negative bytes", read: func(r *Reader) error { _, err := r.ReadBytes(-1); return err }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReader([]byte{0x01})
			err := tc.read(r)
			assert.ErrorIs(t, err, ErrTruncatedBuffer)
			assert.Equal(t, 0, r.Offset(), "a failed read must not move the cursor")
		})
	}
}

func TestReader_OptionalField(t *testing.T) {
	s := Structure{Fields: []Field{
		U8Field("kind"),
		StringField("extra").When(U8Equals(0, 1, 2)),
		U8Field("tail"),
	}}

	t.Run("present", func(t *testing.T) {
		r := NewReader([]byte{0x02, 'e', 0x00, 0x09})
		items, err := r.ReadValues(s)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.False(t, items[1].Absent())
		extra, err := items[1].AsString()
		require.NoError(t, err)
		assert.Equal(t, "e", extra)
	})

	t.Run("absent", func(t *testing.T) {
		r := NewReader([]byte{0x00, 0x09})
		items, err := r.ReadValues(s)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.True(t, items[1].Absent())
		tail, err := items[2].AsU8()
		require.NoError(t, err)
		assert.Equal(t, uint8(9), tail)
	})
}

func TestReader_SequenceBound(t *testing.T) {
	s := Structure{Fields: []Field{SequenceField("pairs", SequenceField("", U32Field("")))}}

	// one claimed element needs at least four bytes, only three follow
	r := NewReader([]byte{0x01, 0, 0, 0, 0xAA, 0xBB, 0xCC})
	require.NoError(t, r.SetArch(Arch32))
	_, err := r.ReadValues(s)
	assert.ErrorIs(t, err, ErrTruncatedBuffer)
	assert.Equal(t, 0, r.Offset())
}

func TestReader_PackedBytesAreCopied(t *testing.T) {
	buf := []byte{0x02, 0, 0, 0, 0x10, 0x20}
	r := NewReader(buf)
	require.NoError(t, r.SetArch(Arch32))

	items, err := r.ReadValues(Structure{Fields: []Field{SequenceField("blob", U8Field(""))}})
	require.NoError(t, err)

	blob, err := BytesElem(items[0])
	require.NoError(t, err)
	buf[4] = 0xFF
	assert.Equal(t, []byte{0x10, 0x20}, blob)
}
