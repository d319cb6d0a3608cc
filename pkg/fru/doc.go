// Package fru implements a bidirectional codec for the IPMI FRU binary
// inventory format: the common header with its offset table, the
// chassis/board/product info tables, the internal-use and multi-record
// areas, and the four string encodings selected by each field's
// type/length byte.
//
// Decode turns a byte buffer into a Tree, an ordered area-to-value
// mapping; Encode is its inverse. Both engines report recoverable
// findings through a Policy, which decides per diagnostic whether a
// forbidden-but-readable condition aborts the call. For compliant input,
// Decode and Encode round-trip bit-exactly, including each string's
// encoding tag.
//
// The layout itself lives in Spec, a fixed sequence of closed Area
// variants compiled once at startup and shared read-only by all calls.
package fru
