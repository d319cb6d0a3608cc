package fru

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ssargent/frukit/pkg/codec"
)

// Encoder turns a value tree into FRU bytes. Validation failures are
// returned as EncodeError; advisory findings (out-of-range enum values,
// encoding/language mismatches) go to the policy as warnings and never
// stop the encode.
type Encoder struct {
	policy Policy
}

// NewEncoder returns an encoder reporting into policy. A nil policy means
// Strict.
func NewEncoder(policy Policy) *Encoder {
	if policy == nil {
		policy = Strict()
	}
	return &Encoder{policy: policy}
}

// Encode is shorthand for NewEncoder(policy).Encode(tree).
func Encode(tree *Tree, policy Policy) ([]byte, error) {
	return NewEncoder(policy).Encode(tree)
}

// encArea is an offset-addressed area with its reserved header slot.
type encArea struct {
	spec      Area
	headerPos int
}

// Encode assembles the header, emits the configured areas in declared
// order (caller order is irrelevant), patches their offset bytes, and
// finalizes the header checksum. Areas absent from the tree, or present
// but empty, are omitted with a zero offset byte.
func (e *Encoder) Encode(tree *Tree) ([]byte, error) {
	var headerCfg *Table
	if v, ok := tree.Get("header"); ok {
		t, ok := v.(*Table)
		if !ok {
			return nil, encodeErrorf("header: configuration must be a mapping")
		}
		headerCfg = t
	}

	out, pendings, err := e.prepareHeader(headerCfg)
	if err != nil {
		return nil, err
	}

	for _, p := range pendings {
		cfg, ok := tree.Get(p.spec.Name())
		if !ok {
			continue
		}
		var b []byte
		switch v := cfg.(type) {
		case *Table:
			if v.Len() == 0 {
				continue
			}
			spec, ok := p.spec.(TableArea)
			if !ok {
				return nil, encodeErrorf("%s: area does not take structured configuration", p.spec.Name())
			}
			b, err = e.encodeTable(spec, v)
		case HexBlob:
			if len(v) == 0 {
				continue
			}
			b, err = e.encodeAreaHex(p.spec, v)
		default:
			return nil, encodeErrorf("%s: unsupported area configuration type %T", p.spec.Name(), cfg)
		}
		if err != nil {
			return nil, err
		}
		if len(b) == 0 {
			continue
		}
		off := codec.Div8(len(out))
		if off > 255 {
			return nil, encodeErrorf("%s: area offset %d too high (%d is maximum)", p.spec.Name(), len(out), 255*8)
		}
		out[p.headerPos] = byte(off)
		out = append(out, b...)
	}

	var unknown []string
	for _, en := range tree.Areas() {
		if en.Name != "header" && !isSpecArea(en.Name) {
			unknown = append(unknown, en.Name)
		}
	}
	if len(unknown) > 0 {
		return nil, encodeErrorf("unknown configuration entries: %s", strings.Join(unknown, ", "))
	}

	out[len(Spec)] = codec.Checksum(out[:len(Spec)])
	return out, nil
}

// prepareHeader writes the literal bytes (with any valid overrides from
// the caller's header mapping), reserves zeroed offset and checksum
// slots, and returns the pending offset-addressed areas.
func (e *Encoder) prepareHeader(cfg *Table) ([]byte, []encArea, error) {
	out := make([]byte, 0, len(Spec)+1)
	var pendings []encArea
	known := make(map[string]bool)
	for i, spec := range Spec {
		switch s := spec.(type) {
		case LiteralByte:
			val := Int(s.Value)
			if !s.Virtual {
				known[s.AreaName] = true
				if cfg != nil {
					if v, ok := cfg.Get(s.AreaName); ok {
						iv, ok := v.(Int)
						if !ok || iv < 0 || iv > 255 {
							return nil, nil, encodeErrorf("header.%s: byte value must be integer in range(256)", s.AreaName)
						}
						val = iv
					}
				}
			}
			out = append(out, byte(val))
		default:
			pendings = append(pendings, encArea{spec: spec, headerPos: i})
			out = append(out, 0)
		}
	}
	out = append(out, 0) // checksum slot

	if cfg != nil {
		var unknown []string
		for _, en := range cfg.Entries() {
			if !known[en.Name] {
				unknown = append(unknown, en.Name)
			}
		}
		if len(unknown) > 0 {
			return nil, nil, encodeErrorf("header: unknown configuration entries: %s", strings.Join(unknown, ", "))
		}
	}
	return out, pendings, nil
}

// encodeTable emits version and length bytes, the fields in declared
// order, the end marker, zero padding up to alignment, and the trailing
// checksum. Missing fields encode as their defaults.
func (e *Encoder) encodeTable(spec TableArea, cfg *Table) ([]byte, error) {
	out := []byte{1, 0}
	lang := 0
	known := make(map[string]bool)
	for _, f := range spec.Fields {
		known[f.Name()] = true
		v, _ := cfg.Get(f.Name())
		b, newLang, err := e.encodeField(spec.AreaName, f, v, lang)
		if err != nil {
			return nil, err
		}
		lang = newLang
		out = append(out, b...)
	}

	var unknown []string
	for _, en := range cfg.Entries() {
		if !known[en.Name] {
			unknown = append(unknown, en.Name)
		}
	}
	if len(unknown) > 0 {
		return nil, encodeErrorf("%s: unknown configuration entries: %s", spec.AreaName, strings.Join(unknown, ", "))
	}

	out = append(out, EndMarker)
	for len(out)%8 != 7 {
		out = append(out, 0)
	}
	size := codec.Div8(len(out) + 1)
	if size > 255 {
		return nil, encodeErrorf("%s: table length %d too high (%d is maximum)", spec.AreaName, len(out)+1, 255*8)
	}
	out[1] = byte(size)
	out = append(out, codec.Checksum(out))
	return out, nil
}

// encodeField returns the field's wire bytes and the effective language
// for the fields after it.
func (e *Encoder) encodeField(area string, f Field, v Value, lang int) ([]byte, int, error) {
	switch f := f.(type) {
	case ByteField:
		val := Int(f.Default)
		switch v := v.(type) {
		case nil:
		case Int:
			val = v
		default:
			return nil, lang, encodeErrorf("%s.%s: only integers in range(256) allowed", area, f.FieldName)
		}
		if val < 0 || val > 255 {
			return nil, lang, encodeErrorf("%s.%s: only integers in range(256) allowed", area, f.FieldName)
		}
		if byte(val) < f.Min || byte(val) > f.Max {
			e.policy.Warning(fmt.Sprintf("%s.%s: value %d out of bounds (%d, %d)", area, f.FieldName, val, f.Min, f.Max))
		}
		if f.Lang {
			lang = int(val)
		}
		return []byte{byte(val)}, lang, nil

	case DateField:
		var minutes int
		switch v := v.(type) {
		case nil:
		case Date:
			minutes = int(math.Round(time.Time(v).Sub(Epoch).Seconds() / 60))
		case Int:
			minutes = int(v)
		default:
			return nil, lang, encodeErrorf("%s.%s: expected date (or integer), got %T", area, f.FieldName, v)
		}
		if minutes < 0 {
			return nil, lang, encodeErrorf("%s.%s: date too low (%s is minimum)", area, f.FieldName, Epoch.Format(time.RFC3339))
		}
		if minutes >= 1<<24 {
			max := Epoch.Add((1<<24)*time.Minute - time.Second)
			return nil, lang, encodeErrorf("%s.%s: date too high (%s is maximum)", area, f.FieldName, max.Format(time.RFC3339))
		}
		return []byte{byte(minutes), byte(minutes >> 8), byte(minutes >> 16)}, lang, nil

	case StringField:
		effective := 0
		if f.UseLang {
			effective = lang
		}
		b, err := e.encodeString(area, f.FieldName, v, effective)
		return b, lang, err

	case OemListField:
		var list StringList
		switch v := v.(type) {
		case nil:
		case StringList:
			list = v
		default:
			return nil, lang, encodeErrorf("%s.%s: expected list of strings, got %T", area, f.FieldName, v)
		}
		var out []byte
		for i, s := range list {
			b, err := e.encodeString(area, fmt.Sprintf("oem%d", i+1), s, lang)
			if err != nil {
				return nil, lang, err
			}
			out = append(out, b...)
		}
		return out, lang, nil
	}
	panic(fmt.Sprintf("fru: unknown field kind %T", f))
}

// encodeString picks the wire encoding (from the value's tag, or from the
// effective language when the tag is auto) and emits the type/length
// prefix plus payload.
func (e *Encoder) encodeString(area, name string, v Value, lang int) ([]byte, error) {
	var s String
	switch v := v.(type) {
	case nil:
	case String:
		s = v
	default:
		return nil, encodeErrorf("%s.%s: invalid type %T", area, name, v)
	}

	eng := english(lang)
	enc := s.Encoding
	switch {
	case enc == EncodingAuto:
		if eng {
			enc = EncodingLatin1
		} else {
			enc = EncodingUCS2
		}
	case enc == EncodingLatin1 && !eng:
		e.policy.Warning(fmt.Sprintf("%s.%s: encoding as latin1, but interpretation will be 16-bit unicode", area, name))
	case enc == EncodingUCS2 && eng:
		e.policy.Warning(fmt.Sprintf("%s.%s: encoding as 16-bit unicode, but interpretation will be latin1", area, name))
	}

	var (
		payload []byte
		typ     int
		err     error
	)
	switch enc {
	case EncodingHex:
		payload, err = hex.DecodeString(s.Text)
		typ = 0
	case EncodingBCD:
		payload, err = codec.EncodeBCD(s.Text)
		typ = 1
	case EncodingPacked:
		payload, err = codec.PackAscii(strings.ToUpper(s.Text))
		typ = 2
	case EncodingLatin1:
		payload, err = encodeLatin1(s.Text)
		typ = 3
	case EncodingUCS2:
		payload, err = codec.EncodeUCS2(s.Text)
		typ = 3
	default:
		return nil, encodeErrorf("%s.%s: invalid encoding (%s) specified", area, name, enc)
	}
	if err != nil {
		return nil, encodeErrorf("%s.%s: cannot encode string with encoding %s: %v", area, name, enc, err)
	}
	if len(payload) > 63 {
		return nil, encodeErrorf("%s.%s: too many encoded bytes (%d), 64-byte field limit exceeded", area, name, len(payload))
	}

	head := byte(typ<<6 | len(payload))
	if head == EndMarker {
		e.policy.Warning(fmt.Sprintf("%s.%s: single character string may be mis-interpreted as end of area", area, name))
	}
	return append([]byte{head}, payload...), nil
}

// encodeAreaHex validates a pre-encoded opaque area. The multi-record
// area is free-form; everything else must be aligned and carry a
// consistent version/length prefix.
func (e *Encoder) encodeAreaHex(spec Area, blob HexBlob) ([]byte, error) {
	name := spec.Name()
	b, err := blob.Bytes()
	if err != nil {
		return nil, encodeErrorf("%s: %v", name, err)
	}
	if len(b) == 0 {
		return nil, nil
	}
	if _, ok := spec.(MultiArea); !ok {
		if len(b)%8 != 0 {
			return nil, encodeErrorf("%s: hex data must be padded to multiples of 8 bytes", name)
		}
		if b[0] != 1 {
			e.policy.Warning(fmt.Sprintf("first byte of area %s should be 1, got %d", name, b[0]))
		}
		if len(b) != 8*int(b[1]) {
			return nil, encodeErrorf("%s: second byte must be equal to length/8, expected %d, got %d", name, codec.Div8(len(b)), b[1])
		}
		if _, isTable := spec.(TableArea); isTable && !codec.SumsToZero(b) {
			e.policy.Warning(fmt.Sprintf("%s: checksum mismatch, expected last byte %d, got %d", name, codec.Checksum(b[:len(b)-1]), b[len(b)-1]))
		}
	}
	return b, nil
}

func isSpecArea(name string) bool {
	for _, spec := range Spec {
		if _, ok := spec.(LiteralByte); ok {
			continue
		}
		if spec.Name() == name {
			return true
		}
	}
	return false
}

func encodeLatin1(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	pos := 0
	for _, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("latin1: character %q at position %d not in range(256)", r, pos)
		}
		out = append(out, byte(r))
		pos++
	}
	return out, nil
}
