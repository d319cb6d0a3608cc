package codec

import (
	"fmt"
	"strings"
)

// EncodeUCS2 encodes s as UCS-2LE, two bytes per character, low byte
// first. Characters at or above 0x10000 do not fit in a single 16-bit
// code unit and are a hard error; UCS-2 has no surrogate pairs.
func EncodeUCS2(s string) ([]byte, error) {
	out := make([]byte, 0, len(s)*2)
	pos := 0
	for _, r := range s {
		if r >= 0x10000 {
			return nil, fmt.Errorf("ucs2le: character %q at position %d not in range(65536)", r, pos)
		}
		out = append(out, byte(r), byte(r>>8))
		pos++
	}
	return out, nil
}

// DecodeUCS2 decodes UCS-2LE data. An odd-length buffer means the final
// character is truncated and is a hard error.
func DecodeUCS2(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", fmt.Errorf("ucs2le: truncated data, odd length %d", len(data))
	}
	var sb strings.Builder
	sb.Grow(len(data) / 2)
	for i := 0; i+1 < len(data); i += 2 {
		sb.WriteRune(rune(data[i]) | rune(data[i+1])<<8)
	}
	return sb.String(), nil
}
