package oxfmt

import "encoding/binary"

// Builder accumulates the encoding of a record. The first failing Add is
// remembered; every later Add is a no-op and Build reports the failure, so
// a chain of Adds aborts as a whole.
type Builder struct {
	buf     []byte
	arch    Arch
	archSet bool
	err     error
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithArch makes the builder write size values with the width of a instead
// of the platform's native pointer width. The tag written into the header
// follows the same choice.
func WithArch(a Arch) BuilderOption {
	return func(b *Builder) {
		b.arch = a
		b.archSet = true
	}
}

// NewBuilder starts a top-level record: magic, little-endian version and the
// architecture tag are written before any field.
func NewBuilder(magic string, version uint16, opts ...BuilderOption) *Builder {
	b := newBuilder(opts)
	if b.err != nil {
		return b
	}
	b.buf = append(b.buf, magic...)
	b.buf = binary.LittleEndian.AppendUint16(b.buf, version)
	b.buf = append(b.buf, uint8(b.arch))
	return b
}

// NewBuilderNoMeta starts a nested record, which never repeats the header.
func NewBuilderNoMeta(opts ...BuilderOption) *Builder {
	return newBuilder(opts)
}

func newBuilder(opts []BuilderOption) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	if !b.archSet {
		b.arch, b.err = NativeArch()
	} else if _, err := b.arch.SizeWidth(); err != nil {
		b.err = err
	}
	return b
}

// Add appends the encoding of m and returns b for chaining.
func (b *Builder) Add(m Marshaler) *Builder {
	if b.err != nil {
		return b
	}
	if err := m.MarshalOxfmt(b); err != nil {
		b.err = err
	}
	return b
}

// Arch returns the architecture tag that governs size values in b.
func (b *Builder) Arch() Arch {
	return b.arch
}

// Len returns the number of bytes accumulated so far.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Err returns the first failure recorded by Add.
func (b *Builder) Err() error {
	return b.err
}

// Build returns the accumulated bytes. The builder must not be used
// afterwards.
func (b *Builder) Build() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := b.buf
	b.buf = nil
	return out, nil
}

// addSize writes a sequence count in the builder's size width.
func (b *Builder) addSize(n int) error {
	buf, err := appendSize(b.buf, b.arch, n)
	if err != nil {
		return err
	}
	b.buf = buf
	return nil
}
