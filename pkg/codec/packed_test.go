package codec

import (
	"bytes"
	"strings"
	"testing"
)

func TestPackAscii(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want []byte
	}{
		{
			name: "empty string",
			in:   "",
			want: []byte{},
		},
		{
			name: "single character",
			in:   "A",
			want: []byte{0x21},
		},
		{
			// The worked example from the IPMI platform management FRU
			// information storage definition.
			name: "IPMI",
			in:   "IPMI",
			want: []byte{0x29, 0xDC, 0xA6},
		},
		{
			name: "four characters pack into three bytes",
			in:   "ABCD",
			want: []byte{0xA1, 0x38, 0x92},
		},
		{
			name: "two characters",
			in:   "AB",
			want: []byte{0xA1, 0x08},
		},
		{
			name: "spaces are the zero code point",
			in:   "    ",
			want: []byte{0x00, 0x00, 0x00},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PackAscii(tc.in)
			if err != nil {
				t.Fatalf("PackAscii(%q) failed: %v", tc.in, err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("PackAscii(%q) = %x, want %x", tc.in, got, tc.want)
			}
		})
	}
}

func TestPackAscii_InvalidCharacters(t *testing.T) {
	for _, in := range []string{"abc", "café", "\x1f", "`"} {
		if _, err := PackAscii(in); err == nil {
			t.Errorf("PackAscii(%q) should fail, characters are outside [0x20,0x60)", in)
		}
	}
}

func TestPackAscii_ErrorPosition(t *testing.T) {
	_, err := PackAscii("ABc")
	if err == nil {
		t.Fatal("PackAscii(\"ABc\") should fail, 'c' is outside [0x20,0x60)")
	}
	if !strings.Contains(err.Error(), "position 2") {
		t.Errorf("PackAscii(\"ABc\") error = %q, want the failing position 2", err)
	}
}

func TestUnpackAscii(t *testing.T) {
	testCases := []struct {
		name string
		in   []byte
		want string
	}{
		{
			name: "empty data",
			in:   []byte{},
			want: "",
		},
		{
			name: "IPMI",
			in:   []byte{0x29, 0xDC, 0xA6},
			want: "IPMI",
		},
		{
			name: "trailing partial group is dropped",
			in:   []byte{0x21},
			want: "A",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := UnpackAscii(tc.in); got != tc.want {
				t.Errorf("UnpackAscii(%x) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// Packing pads a string whose length is 3 mod 4 with one trailing space,
// because the final 6-bit group spills into a byte that must be emitted.
func TestPackAscii_RoundTripPadding(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"A", "A"},
		{"AB", "AB"},
		{"ABC", "ABC "},
		{"ABCD", "ABCD"},
		{"ABCDEFG", "ABCDEFG "},
		{"PART-NO.42", "PART-NO.42"},
	}

	for _, tc := range testCases {
		packed, err := PackAscii(tc.in)
		if err != nil {
			t.Fatalf("PackAscii(%q) failed: %v", tc.in, err)
		}
		if got := UnpackAscii(packed); got != tc.want {
			t.Errorf("UnpackAscii(PackAscii(%q)) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
