package codec

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// BCD plus maps the hex nibbles 0xA-0xC to space, dash and dot. The
// nibbles 0xD-0xF have no assigned glyph; they decode to the circled
// letters so that invalid BCD data still round-trips to its original
// bytes.
var bcdFromHex = map[rune]rune{
	'a': ' ',
	'b': '-',
	'c': '.',
	'd': 0x24B9, // circled D
	'e': 0x24BA, // circled E
	'f': 0x24BB, // circled F
}

// bcdToHex inverts bcdFromHex and additionally maps the plain letters
// a-f and A-F onto the circled glyphs, so that typing a hex letter into a
// BCD field cannot silently pass as a nibble.
var bcdToHex = func() map[rune]rune {
	m := make(map[rune]rune, len(bcdFromHex)+12)
	for h, c := range bcdFromHex {
		m[c] = h
	}
	for i := rune(0); i < 6; i++ {
		m['a'+i] = 0x24B9 + i
		m['A'+i] = 0x24B9 + i
	}
	return m
}()

// DecodeBCD decodes BCD plus data into its character form, one character
// per nibble. It cannot fail: every nibble has a representation.
func DecodeBCD(data []byte) string {
	return strings.Map(func(r rune) rune {
		if c, ok := bcdFromHex[r]; ok {
			return c
		}
		return r
	}, hex.EncodeToString(data))
}

// EncodeBCD encodes a BCD plus character string back into bytes, two
// characters per byte. Characters without a nibble assignment (including
// the plain letters a-f) and odd-length strings are errors.
func EncodeBCD(s string) ([]byte, error) {
	mapped := strings.Map(func(r rune) rune {
		if h, ok := bcdToHex[r]; ok {
			return h
		}
		return r
	}, s)
	b, err := hex.DecodeString(mapped)
	if err != nil {
		return nil, fmt.Errorf("bcd: %q is not a valid BCD plus string: %w", s, err)
	}
	return b, nil
}
