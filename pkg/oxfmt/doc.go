// Package oxfmt implements a compact binary record format and the generic
// encoder/decoder pair behind it.
//
// A record type describes its fields once, through code generated by
// oxfmtgen, and the package takes care of the byte layout. Nothing on the
// wire names a field: encode order, the decode schema and reconstruction
// all follow the field declaration order of the Go struct.
//
// # Wire Format
//
// A top-level record starts with a header:
//
//	[Magic(N)][Version(2)][Arch(1)][Field1][Field2]...[FieldK]
//
// Nested records are written as the bare field list and inherit the
// architecture tag of the enclosing session.
//
// Field encodings:
//   - String: UTF-8 bytes followed by 0x00 (the text must not contain 0x00)
//   - U8, U16, U32, U64, U128: 1, 2, 4, 8 or 16 bytes, little-endian
//   - Sequence: a size value, then each element in order
//   - Record: the nested record's fields
//   - Optional: the inner encoding when present, nothing when absent
//
// Size values are 4 bytes when the architecture tag is 0 and 8 bytes when
// it is 1. The builder picks the tag from the platform's pointer width
// unless WithArch says otherwise, and the reader always honours the tag it
// finds, so buffers move between 32-bit and 64-bit hosts.
//
// # Optional Fields
//
// Absence is encoded as zero bytes, so an optional field can only be
// decoded when an earlier field of the same record decides whether it is
// present. Field.PresentIf carries that rule; oxfmtgen derives it from a
// `oxfmt:"when=Field:Const"` struct tag and makes the encoder reject values
// whose presence disagrees with the discriminant.
//
// # Usage
//
//	//go:generate go run github.com/ssargent/rilipak/cmd/oxfmtgen
//
//	//oxfmt:record header=mcmodbuild version=1
//	type ModBuild struct {
//	    ID      string
//	    Exclude []ExcludePair
//	}
//
//	data, err := oxfmt.Marshal(&build)
//	if err != nil {
//	    return err
//	}
//
//	build, err := oxfmt.Decode[ModBuild](data)
//	if err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Decoding returns on the first violated precondition and never yields a
// partially built record. Errors wrap one of the Err* sentinels and carry
// the offset and field path in a *DecodeError:
//
//	if errors.Is(err, oxfmt.ErrVersionMismatch) {
//	    // produced by a different release
//	}
//
// # Thread Safety
//
// Builders and Readers are single-use and not safe for concurrent use.
// Independent sessions share no state.
package oxfmt
