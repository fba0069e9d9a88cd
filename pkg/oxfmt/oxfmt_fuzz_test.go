//go:build fuzz
// +build fuzz

package oxfmt

import (
	"errors"
	"testing"
)

// FuzzDecode feeds arbitrary bytes to the decoder, which must fail cleanly
// rather than panic or over-allocate
func FuzzDecode(f *testing.F) {
	for _, arch := range []Arch{Arch32, Arch64} {
		in := fullWide()
		data, err := Marshal(&in, WithArch(arch))
		if err != nil {
			f.Fatal(err)
		}
		f.Add(data)
	}
	f.Add([]byte("widefmt"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		out, err := Decode[wide](data)
		if err != nil {
			var oe *Error
			if !errors.As(err, &oe) {
				t.Fatalf("error does not wrap a kind: %v", err)
			}
			return
		}

		// anything that decodes must re-encode to the same bytes
		again, err := Marshal(&out, WithArch(Arch(data[len("widefmt")+2])))
		if err != nil {
			t.Fatalf("re-encode failed: %v", err)
		}
		if string(again) != string(data) {
			t.Fatalf("re-encode differs: %x vs %x", again, data)
		}
	})
}

// FuzzRoundTrip encodes random field contents and decodes them back
func FuzzRoundTrip(f *testing.F) {
	f.Add("id", uint8(1), "tag")
	f.Add("", uint8(0), "")

	f.Fuzz(func(t *testing.T, id string, count uint8, tag string) {
		in := sample{ID: id, Count: count, Tags: []string{tag, tag}}
		data, err := Marshal(&in)
		if err != nil {
			if errors.Is(err, ErrEmbeddedNUL) {
				return
			}
			t.Fatalf("marshal failed: %v", err)
		}
		out, err := Decode[sample](data)
		if err != nil {
			// strings that are not valid utf-8 are rejected on the way in
			if errors.Is(err, ErrInvalidUTF8) {
				return
			}
			t.Fatalf("decode failed: %v", err)
		}
		if out.ID != in.ID || out.Count != in.Count || len(out.Tags) != 2 {
			t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
		}
	})
}
