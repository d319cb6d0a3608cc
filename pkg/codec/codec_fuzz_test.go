//go:build fuzz
// +build fuzz

package codec

import (
	"bytes"
	"testing"
)

// FuzzPackAscii_RoundTrip checks that packing never loses information
// beyond the documented trailing-space padding.
func FuzzPackAscii_RoundTrip(f *testing.F) {
	f.Add("")
	f.Add("A")
	f.Add("IPMI")
	f.Add("PART-NO.42")

	f.Fuzz(func(t *testing.T, s string) {
		packed, err := PackAscii(s)
		if err != nil {
			// Characters outside [0x20,0x60) are expected to fail.
			return
		}

		want := s
		if len(s)%4 == 3 {
			want += " "
		}
		if got := UnpackAscii(packed); got != want {
			t.Errorf("UnpackAscii(PackAscii(%q)) = %q, want %q", s, got, want)
		}
	})
}

// FuzzUnpackAscii checks that unpacking arbitrary bytes never panics and
// always yields characters inside the packed range.
func FuzzUnpackAscii(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x29, 0xDC, 0xA6})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		s := UnpackAscii(data)
		for i := 0; i < len(s); i++ {
			if s[i] < 0x20 || s[i] >= 0x60 {
				t.Fatalf("UnpackAscii(%x) produced out-of-range byte %#x", data, s[i])
			}
		}
		if len(s) != len(data)*8/6 {
			t.Errorf("UnpackAscii(%x) produced %d characters, want %d", data, len(s), len(data)*8/6)
		}
	})
}

// FuzzBCD_RoundTrip checks that any raw nibble sequence survives a
// decode/encode cycle, reserved nibbles included.
func FuzzBCD_RoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x12, 0x34})
	f.Add([]byte{0xAB, 0xCD, 0xEF})

	f.Fuzz(func(t *testing.T, data []byte) {
		enc, err := EncodeBCD(DecodeBCD(data))
		if err != nil {
			t.Fatalf("EncodeBCD(DecodeBCD(%x)) failed: %v", data, err)
		}
		if !bytes.Equal(enc, data) {
			t.Errorf("round trip mismatch: got %x, want %x", enc, data)
		}
	})
}
