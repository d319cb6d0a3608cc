package codec

import "fmt"

// Checksum returns the byte c such that sum(b) + c == 0 (mod 256). It is
// used both to produce the trailing checksum of an area and to report the
// expected value when validation fails.
func Checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return -sum
}

// SumsToZero reports whether the byte sum over b is zero modulo 256, i.e.
// whether the span ends with a valid checksum byte.
func SumsToZero(b []byte) bool {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return sum == 0
}

// Div8 returns n/8. Callers guarantee alignment structurally; an unaligned
// n is a programming error, not a data error, so Div8 panics on it.
func Div8(n int) int {
	if n%8 != 0 {
		panic(fmt.Sprintf("codec: length %d is not a multiple of 8", n))
	}
	return n / 8
}
