package fru

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Encoding identifies how a string value was decoded from, or will be
// encoded to, the wire. EncodingAuto defers the choice to the encoder,
// which picks latin1 or ucs2le from the effective language.
type Encoding int

const (
	EncodingAuto Encoding = iota
	EncodingHex
	EncodingBCD
	EncodingPacked
	EncodingLatin1
	EncodingUCS2
)

func (e Encoding) String() string {
	switch e {
	case EncodingAuto:
		return "auto"
	case EncodingHex:
		return "hex"
	case EncodingBCD:
		return "bcd"
	case EncodingPacked:
		return "packed"
	case EncodingLatin1:
		return "latin1"
	case EncodingUCS2:
		return "ucs2le"
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

// ParseEncoding is the inverse of Encoding.String.
func ParseEncoding(s string) (Encoding, error) {
	for _, e := range []Encoding{EncodingAuto, EncodingHex, EncodingBCD, EncodingPacked, EncodingLatin1, EncodingUCS2} {
		if e.String() == s {
			return e, nil
		}
	}
	return EncodingAuto, fmt.Errorf("unknown encoding %q", s)
}

// Value is a single field value inside an info table.
type Value interface {
	isValue()
}

// Int carries byte-enum fields and literal header byte overrides.
type Int int

// Date carries date fields; always UTC.
type Date time.Time

// String is a string field value tagged with its wire encoding.
// LangMismatch marks values whose encoding disagreed with what the
// language byte implied; they decoded fine, but a compliant writer would
// have chosen differently.
type String struct {
	Text         string
	Encoding     Encoding
	LangMismatch bool
}

// StringList carries OEM string lists.
type StringList []String

func (Int) isValue()        {}
func (Date) isValue()       {}
func (String) isValue()     {}
func (StringList) isValue() {}

// AreaValue is the decoded form of one area: either a structured Table or
// an opaque HexBlob.
type AreaValue interface {
	isAreaValue()
}

// TableEntry is one named field value; tables preserve insertion order
// because field order is meaningful when re-encoding.
type TableEntry struct {
	Name  string
	Value Value
}

// Table is an ordered name-to-value mapping for one info table (or the
// header's literal-byte overrides). Names are unique.
type Table struct {
	entries []TableEntry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Set inserts or replaces the value for name, preserving first-insertion
// order.
func (t *Table) Set(name string, v Value) *Table {
	for i := range t.entries {
		if t.entries[i].Name == name {
			t.entries[i].Value = v
			return t
		}
	}
	t.entries = append(t.entries, TableEntry{Name: name, Value: v})
	return t
}

// Get returns the value for name.
func (t *Table) Get(name string) (Value, bool) {
	for i := range t.entries {
		if t.entries[i].Name == name {
			return t.entries[i].Value, true
		}
	}
	return nil, false
}

// Entries returns the fields in insertion order. The slice is shared;
// callers must not modify it.
func (t *Table) Entries() []TableEntry {
	return t.entries
}

// Len returns the number of fields.
func (t *Table) Len() int {
	return len(t.entries)
}

func (*Table) isAreaValue() {}

// HexBlob is the textual form of an undecoded area: the literal prefix
// "hex:" followed by newline-separated runs of hex digits.
type HexBlob string

// NewHexBlob renders data as a hex blob with 64 hex digits per line.
func NewHexBlob(data []byte) HexBlob {
	enc := hex.EncodeToString(data)
	lines := []string{"hex:"}
	for len(enc) > 64 {
		lines = append(lines, enc[:64])
		enc = enc[64:]
	}
	lines = append(lines, enc)
	return HexBlob(strings.Join(lines, "\n"))
}

// Bytes parses the blob back into raw bytes. All whitespace is ignored;
// anything without the "hex:" prefix or with invalid digits is an error.
func (h HexBlob) Bytes() ([]byte, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(h))
	if !strings.HasPrefix(s, "hex:") {
		return nil, fmt.Errorf("only hex encoding (string starting with %q) supported", "hex:")
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "hex:"))
	if err != nil {
		return nil, fmt.Errorf("failed to interpret hex data: %w", err)
	}
	return b, nil
}

func (HexBlob) isAreaValue() {}

// AreaEntry is one named area value.
type AreaEntry struct {
	Name  string
	Value AreaValue
}

// Tree is the decode/encode boundary object: an ordered mapping from area
// name to area value. It is built fresh by every decode and read-only for
// every encode.
type Tree struct {
	entries []AreaEntry
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Set inserts or replaces the value for name, preserving first-insertion
// order.
func (t *Tree) Set(name string, v AreaValue) *Tree {
	for i := range t.entries {
		if t.entries[i].Name == name {
			t.entries[i].Value = v
			return t
		}
	}
	t.entries = append(t.entries, AreaEntry{Name: name, Value: v})
	return t
}

// Get returns the value for name.
func (t *Tree) Get(name string) (AreaValue, bool) {
	for i := range t.entries {
		if t.entries[i].Name == name {
			return t.entries[i].Value, true
		}
	}
	return nil, false
}

// Areas returns the areas in insertion order. The slice is shared;
// callers must not modify it.
func (t *Tree) Areas() []AreaEntry {
	return t.entries
}

// Len returns the number of areas.
func (t *Tree) Len() int {
	return len(t.entries)
}
