// Package codec provides the primitive byte-level codecs used by the FRU
// engines: the zero-sum checksum, the 8-byte alignment helper, and the
// three non-trivial string encodings of the IPMI FRU specification.
//
// # Checksum
//
// Every FRU area (including the common header) carries a trailing checksum
// byte chosen so that the byte sum over the whole area is zero modulo 256.
// Checksum returns that byte for a given prefix; validation is simply
// summing the full span and comparing against zero.
//
// # Packed ASCII
//
// Packed ASCII encodes the 64-character range [0x20,0x60) at six bits per
// character, four characters per three bytes, least significant bit first
// across byte boundaries. Strings whose length is not a multiple of four
// are padded with trailing spaces by the packing process itself, so
// Unpack(Pack(s)) returns s padded to a multiple of four characters.
//
// # BCD plus
//
// BCD plus stores two characters per byte using hex nibbles, with the
// nibbles 0xA-0xF remapped to space, '-', '.' and three circled reserved
// glyphs. The reserved glyphs make decoding of any raw nibble sequence
// unambiguous, so arbitrary bytes survive a decode/encode round trip.
//
// # UCS-2LE
//
// UCS-2LE stores one 16-bit code unit per character, low byte first. It is
// not UTF-16: surrogate pairs are never combined, and code points at or
// above 0x10000 cannot be encoded.
//
// All functions are pure and safe for concurrent use.
package codec
