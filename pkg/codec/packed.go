package codec

import (
	"fmt"
	"strings"
)

// PackAscii encodes s into packed ASCII: six bits per character, least
// significant bit first across byte boundaries. Characters outside the
// range [0x20,0x60) cannot be represented and yield an error; callers
// normally upper-case the input first so that lowercase letters fit.
func PackAscii(s string) ([]byte, error) {
	out := make([]byte, 0, (len(s)*6+7)/8)
	bits := 0
	pos := 0
	for _, r := range s {
		if r < 0x20 || r >= 0x60 {
			return nil, fmt.Errorf("packed ascii: character %q at position %d not in range [0x20,0x60)", r, pos)
		}
		c := byte(r - 0x20)
		if bits > 0 {
			out[len(out)-1] |= c << bits
			c >>= 8 - bits
		}
		if bits != 2 {
			// At bits==2 the remaining high bits of c are zero: the
			// character completed the third byte of a 4-character group.
			out = append(out, c)
		}
		bits = (bits + 6) % 8
		pos++
	}
	return out, nil
}

// UnpackAscii decodes packed ASCII data. Every complete 6-bit group yields
// one character; a trailing partial group (fewer than 6 bits) is dropped,
// which is the exact inverse of PackAscii for validly packed data.
func UnpackAscii(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data) * 8 / 6)
	bits := 0
	bitval := 0
	for _, b := range data {
		bitval |= int(b) << bits
		bits += 8
		for bits >= 6 {
			sb.WriteByte(byte(bitval&0x3f) + 0x20)
			bitval >>= 6
			bits -= 6
		}
	}
	return sb.String()
}
