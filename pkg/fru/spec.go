package fru

import "time"

// Field is the closed set of entry kinds that can appear inside an info
// table. The decoder and encoder dispatch over it with exhaustive type
// switches; adding a kind means touching both engines.
type Field interface {
	Name() string
	isField()
}

// ByteField is a single-byte enumeration with an advisory value range.
// When Lang is set, the decoded value becomes the effective language for
// the remaining string fields of the same table.
type ByteField struct {
	FieldName string
	Min, Max  byte
	Default   byte
	Lang      bool
}

// DateField is the fixed 3-byte timestamp: minutes since the FRU epoch,
// little endian.
type DateField struct {
	FieldName string
}

// StringField is a variable-length string with a type/length prefix byte.
// UseLang switches text payloads to UCS-2LE when the table's effective
// language is not English; without it the field always decodes as 8-bit.
type StringField struct {
	FieldName string
	UseLang   bool
}

// OemListField is the variable-count trailing list of language-dependent
// strings, terminated by the end-of-table marker or the end of the
// predefined region.
type OemListField struct {
	FieldName string
}

func (f ByteField) Name() string    { return f.FieldName }
func (f DateField) Name() string    { return f.FieldName }
func (f StringField) Name() string  { return f.FieldName }
func (f OemListField) Name() string { return f.FieldName }

func (ByteField) isField()    {}
func (DateField) isField()    {}
func (StringField) isField()  {}
func (OemListField) isField() {}

// Area is the closed set of entries in the common header. LiteralByte
// entries occupy a header byte directly; the others are offset-addressed
// areas whose header byte holds offset/8, with zero meaning absent.
type Area interface {
	Name() string
	isArea()
}

// LiteralByte is a header byte with a fixed expected value. Mandatory
// escalates a mismatch from warning to decode error; Virtual bytes never
// surface in the value tree even when they mismatch.
type LiteralByte struct {
	AreaName  string
	Value     byte
	Mandatory bool
	Virtual   bool
}

// InternalArea is the internal-use area: a two-byte header followed by
// uninterpreted data, surfaced as a hex blob.
type InternalArea struct {
	AreaName string
}

// TableArea is an info table with a fixed sequence of predefined fields.
type TableArea struct {
	AreaName string
	Fields   []Field
}

// MultiArea is the multi-record area. Its content is not decoded; the
// remaining buffer is surfaced as a hex blob.
type MultiArea struct {
	AreaName string
}

func (a LiteralByte) Name() string  { return a.AreaName }
func (a InternalArea) Name() string { return a.AreaName }
func (a TableArea) Name() string    { return a.AreaName }
func (a MultiArea) Name() string    { return a.AreaName }

func (LiteralByte) isArea()  {}
func (InternalArea) isArea() {}
func (TableArea) isArea()    {}
func (MultiArea) isArea()    {}

// Epoch is the zero point of FRU date fields: 1996-01-01T00:00:00Z.
var Epoch = time.Unix(820454400, 0).UTC()

// EndMarker is the reserved type/length byte (type 3, length 1) that
// terminates the predefined-field region of an info table. It is never a
// valid one-character string.
const EndMarker byte = 0xC1

// Spec is the fixed FRU layout: the common header entries in wire order.
// The board and product tables disagree on whether the fru asset tag
// honors the language byte; the IPMI document itself is inconsistent
// here, so both widths are kept as the hardware expects them.
var Spec = []Area{
	LiteralByte{AreaName: "version", Value: 1, Mandatory: true, Virtual: true},
	InternalArea{AreaName: "internal"},
	TableArea{AreaName: "chassis", Fields: []Field{
		ByteField{FieldName: "type", Min: 1, Max: 32, Default: 2},
		StringField{FieldName: "partno"},
		StringField{FieldName: "serial"},
		OemListField{FieldName: "oem"},
	}},
	TableArea{AreaName: "board", Fields: []Field{
		ByteField{FieldName: "lang", Min: 0, Max: 136, Default: 0, Lang: true},
		DateField{FieldName: "date"},
		StringField{FieldName: "manufacturer", UseLang: true},
		StringField{FieldName: "product", UseLang: true},
		StringField{FieldName: "serial"},
		StringField{FieldName: "partno", UseLang: true},
		StringField{FieldName: "fru"},
		OemListField{FieldName: "oem"},
	}},
	TableArea{AreaName: "product", Fields: []Field{
		ByteField{FieldName: "lang", Min: 0, Max: 136, Default: 0, Lang: true},
		StringField{FieldName: "manufacturer", UseLang: true},
		StringField{FieldName: "name", UseLang: true},
		StringField{FieldName: "model", UseLang: true},
		StringField{FieldName: "version", UseLang: true},
		StringField{FieldName: "serial"},
		StringField{FieldName: "asset", UseLang: true},
		StringField{FieldName: "fru", UseLang: true},
		OemListField{FieldName: "oem"},
	}},
	MultiArea{AreaName: "multi"},
	LiteralByte{AreaName: "padding", Value: 0},
}

func init() {
	// The header is the spec entries plus one checksum byte and must be
	// 8-byte aligned like every other area.
	if (len(Spec)+1)%8 != 0 {
		panic("fru: header layout is not 8-byte aligned")
	}
}

// english reports whether a language byte selects 8-bit text. Codes 0 and
// 25 both mean English.
func english(lang int) bool {
	return lang == 0 || lang == 25
}
