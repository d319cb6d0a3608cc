package fru

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ssargent/frukit/pkg/codec"
)

// errEndOfTable signals that a string decoder hit the 0xC1 marker instead
// of a string; the table loop turns it into early termination.
var errEndOfTable = errors.New("end-of-table marker")

// Decoder turns raw FRU bytes into a value tree. It holds no state across
// calls; any number of decodes may run concurrently as long as each has a
// concurrency-safe (or private) policy.
type Decoder struct {
	policy Policy
}

// NewDecoder returns a decoder reporting into policy. A nil policy means
// Strict.
func NewDecoder(policy Policy) *Decoder {
	if policy == nil {
		policy = Strict()
	}
	return &Decoder{policy: policy}
}

// Decode is shorthand for NewDecoder(policy).Decode(data).
func Decode(data []byte, policy Policy) (*Tree, error) {
	return NewDecoder(policy).Decode(data)
}

// pendingArea is an offset-addressed area announced by the header.
type pendingArea struct {
	spec      Area
	headerPos int
	offset    int
}

// Decode performs a single left-to-right pass over data. Structural
// failures (short buffer, overlapping areas) abort unconditionally;
// everything else goes through the policy.
func (d *Decoder) Decode(data []byte) (*Tree, error) {
	header, areas, pos, err := d.decodeHeader(data)
	if err != nil {
		return nil, err
	}

	tree := NewTree()
	if header.Len() > 0 {
		tree.Set("header", header)
	}

	declared := make([]int, len(areas))
	for i, a := range areas {
		declared[i] = a.offset
	}
	sort.SliceStable(areas, func(i, j int) bool { return areas[i].offset < areas[j].offset })
	for i, a := range areas {
		if declared[i] != a.offset {
			d.policy.Warning("areas are not ordered as required by specification")
			break
		}
	}

	prev := "header"
	for _, a := range areas {
		name := a.spec.Name()
		if pos > a.offset {
			return nil, decodeErrorf("area %q overlaps area %q", name, prev)
		}
		if pos < a.offset {
			d.policy.Warning(fmt.Sprintf("ignoring gap of %d bytes between areas %s and %s", a.offset-pos, prev, name))
		}

		var (
			consumed int
			val      AreaValue
		)
		switch spec := a.spec.(type) {
		case TableArea:
			consumed, val, err = d.decodeTable(spec, data[a.offset:])
		case InternalArea:
			consumed, val, err = d.decodeInternal(spec, data[a.offset:])
		case MultiArea:
			consumed, val, err = d.decodeMulti(spec, data[a.offset:])
		default:
			panic(fmt.Sprintf("fru: area %q is not offset-addressed", name))
		}
		if err != nil {
			return nil, err
		}
		pos = a.offset + consumed
		if val != nil {
			tree.Set(name, val)
		}
		prev = name
	}

	nonzero := 0
	for _, b := range data[pos:] {
		if b != 0 {
			nonzero++
		}
	}
	if nonzero > 0 {
		d.policy.Warning(fmt.Sprintf("ignoring %d bytes after last area (%d are nonzero)", len(data)-pos, nonzero))
	} else if pos < len(data) {
		d.policy.Info(fmt.Sprintf("ignoring %d zero bytes after last area", len(data)-pos))
	}
	return tree, nil
}

func (d *Decoder) decodeHeader(data []byte) (*Table, []pendingArea, int, error) {
	checksumPos := len(Spec)
	if len(data) <= checksumPos {
		return nil, nil, 0, decodeErrorf("cannot decode base header, data too short")
	}
	if !codec.SumsToZero(data[:checksumPos+1]) {
		msg := fmt.Sprintf("base header has wrong checksum, expected %d, got %d",
			codec.Checksum(data[:checksumPos]), data[checksumPos])
		if err := d.policy.DecodeError(msg); err != nil {
			return nil, nil, 0, err
		}
	}

	header := NewTable()
	var areas []pendingArea
	for i, spec := range Spec {
		v := data[i]
		switch s := spec.(type) {
		case LiteralByte:
			if s.Value != v {
				msg := fmt.Sprintf("base header entry header.%s(%d) has wrong value, got %d, expected %d",
					s.AreaName, i, v, s.Value)
				if s.Mandatory {
					if err := d.policy.DecodeError(msg); err != nil {
						return nil, nil, 0, err
					}
				} else {
					d.policy.Warning(msg)
				}
				if !s.Virtual {
					header.Set(s.AreaName, Int(v))
				}
			}
		default:
			if v != 0 {
				areas = append(areas, pendingArea{spec: spec, headerPos: i, offset: int(v) * 8})
			}
		}
	}
	return header, areas, checksumPos + 1, nil
}

// decodeAreaLen validates the version/length prefix of an info table or
// internal-use area and returns the declared total length. Missing bytes
// are fatal regardless of policy; the decoder cannot synthesize them.
func (d *Decoder) decodeAreaLen(name string, data []byte) (int, error) {
	if len(data) < 2 {
		return 0, decodeErrorf("premature end of data when parsing table %s", name)
	}
	if data[0] != 1 {
		if err := d.policy.DecodeError(fmt.Sprintf("table %s has unknown/unsupported version %d", name, data[0])); err != nil {
			return 0, err
		}
	}
	l := int(data[1]) * 8
	if l == 0 {
		return 0, decodeErrorf("table %s declares zero length", name)
	}
	if len(data) < l {
		return 0, decodeErrorf("premature end of data when parsing table %s", name)
	}
	return l, nil
}

func (d *Decoder) decodeTable(spec TableArea, data []byte) (int, AreaValue, error) {
	l, err := d.decodeAreaLen(spec.AreaName, data)
	if err != nil {
		return 0, nil, err
	}
	area := data[:l]
	if !codec.SumsToZero(area) {
		msg := fmt.Sprintf("invalid check sum for table %s, got %d, expected %d",
			spec.AreaName, area[l-1], codec.Checksum(area[:l-1]))
		if err := d.policy.DecodeError(msg); err != nil {
			return 0, nil, err
		}
	}

	// The length byte covers padding, so the true end of the predefined
	// fields is found by scanning backward for the end marker.
	eot := l - 2
	for eot > 2 && area[eot] != EndMarker {
		if area[eot] != 0 {
			d.policy.Warning(fmt.Sprintf("table %s, padding at pos %d is nonzero", spec.AreaName, eot))
		}
		eot--
	}
	if l-eot > 9 {
		d.policy.Warning(fmt.Sprintf("table %s has %d padding bytes, it should be no more than 7", spec.AreaName, l-eot-2))
	}

	table, err := d.decodeTableFields(spec, area[2:eot])
	if err != nil {
		return 0, nil, err
	}
	return l, table, nil
}

// decodeTableFields walks the predefined-field region. The effective
// language starts at English and is updated by language byte fields as
// they decode, affecting only the fields after them.
func (d *Decoder) decodeTableFields(spec TableArea, region []byte) (*Table, error) {
	table := NewTable()
	lang := 0
	pos := 0
	early := false
	for _, f := range spec.Fields {
		if early {
			table.Set(f.Name(), defaultValue(f))
			continue
		}
		n, v, err := d.decodeField(spec.AreaName, f, region[pos:], lang)
		if errors.Is(err, errEndOfTable) {
			d.policy.Warning(fmt.Sprintf("table %s: end-of-table marker before field %s, remaining fields use defaults",
				spec.AreaName, f.Name()))
			pos += n
			early = true
			table.Set(f.Name(), defaultValue(f))
			continue
		}
		if err != nil {
			return nil, err
		}
		pos += n
		table.Set(f.Name(), v)
		if bf, ok := f.(ByteField); ok && bf.Lang {
			lang = int(v.(Int))
		}
	}
	if !early && pos != len(region) {
		msg := fmt.Sprintf("table %s: %d bytes of predefined region left undecoded", spec.AreaName, len(region)-pos)
		if err := d.policy.DecodeError(msg); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func (d *Decoder) decodeField(area string, f Field, data []byte, lang int) (int, Value, error) {
	switch f := f.(type) {
	case ByteField:
		if len(data) < 1 {
			return 0, nil, decodeErrorf("entry %s.%s overlaps the end-of-table marker", area, f.FieldName)
		}
		v := data[0]
		if v < f.Min || v > f.Max {
			d.policy.Warning(fmt.Sprintf("byte %s.%s has value %d out of bounds (%d, %d)", area, f.FieldName, v, f.Min, f.Max))
		}
		return 1, Int(v), nil
	case DateField:
		if len(data) < 3 {
			return 0, nil, decodeErrorf("entry %s.%s overlaps the end-of-table marker", area, f.FieldName)
		}
		minutes := int(data[0]) | int(data[1])<<8 | int(data[2])<<16
		return 3, Date(Epoch.Add(time.Duration(minutes) * time.Minute)), nil
	case StringField:
		return d.decodeString(area, f.FieldName, f.UseLang, data, lang)
	case OemListField:
		return d.decodeOemList(area, data, lang)
	}
	panic(fmt.Sprintf("fru: unknown field kind %T", f))
}

// decodeString decodes one type/length-prefixed string. A type-3 payload
// is Latin-1 for English (or language-independent) fields and UCS-2LE
// otherwise; an odd-length UCS-2 payload is salvaged as Latin-1 and
// flagged as a language mismatch.
func (d *Decoder) decodeString(area, name string, useLang bool, data []byte, lang int) (int, Value, error) {
	if len(data) == 0 {
		return 0, nil, decodeErrorf("entry %s.%s overlaps the end-of-table marker", area, name)
	}
	tl := data[0]
	if tl == EndMarker {
		return 1, nil, errEndOfTable
	}
	l := int(tl & 0x3F)
	typ := int(tl >> 6)
	if len(data) < l+1 {
		return 0, nil, decodeErrorf("entry %s.%s overlaps the end-of-table marker", area, name)
	}
	payload := data[1 : l+1]

	var s String
	if useLang && typ == 3 && !english(lang) {
		if l%2 != 0 {
			s = String{Text: decodeLatin1(payload), Encoding: EncodingLatin1, LangMismatch: true}
		} else {
			text, err := codec.DecodeUCS2(payload)
			if err != nil {
				return 0, nil, decodeErrorf("entry %s.%s: %v", area, name, err)
			}
			s = String{Text: text, Encoding: EncodingUCS2}
		}
	} else {
		switch typ {
		case 0:
			s = String{Text: hex.EncodeToString(payload), Encoding: EncodingHex}
		case 1:
			s = String{Text: codec.DecodeBCD(payload), Encoding: EncodingBCD}
		case 2:
			s = String{Text: codec.UnpackAscii(payload), Encoding: EncodingPacked}
		case 3:
			s = String{Text: decodeLatin1(payload), Encoding: EncodingLatin1}
		}
	}
	return l + 1, s, nil
}

// decodeOemList consumes numbered language-dependent strings until the
// end marker or the end of the region. An absorbed marker counts toward
// the consumed length but is not emitted as a list element.
func (d *Decoder) decodeOemList(area string, data []byte, lang int) (int, Value, error) {
	pos := 0
	out := StringList{}
	for pos < len(data) {
		n, v, err := d.decodeString(area, fmt.Sprintf("oem%d", len(out)+1), true, data[pos:], lang)
		if errors.Is(err, errEndOfTable) {
			pos += n
			break
		}
		if err != nil {
			return 0, nil, err
		}
		pos += n
		out = append(out, v.(String))
	}
	return pos, out, nil
}

func (d *Decoder) decodeInternal(spec InternalArea, data []byte) (int, AreaValue, error) {
	l, err := d.decodeAreaLen(spec.AreaName, data)
	if err != nil {
		return 0, nil, err
	}
	return l, NewHexBlob(data[:l]), nil
}

func (d *Decoder) decodeMulti(spec MultiArea, data []byte) (int, AreaValue, error) {
	d.policy.Warning("no decoding of multi-record data is performed, returning hexdump of remaining data")
	if len(data) == 0 {
		return 0, nil, nil
	}
	return len(data), NewHexBlob(data), nil
}

// defaultValue is what a field reports when the end-of-table marker cut
// its table short.
func defaultValue(f Field) Value {
	switch f := f.(type) {
	case ByteField:
		return Int(f.Default)
	case DateField:
		return Date(Epoch)
	case StringField:
		return String{Encoding: EncodingLatin1}
	case OemListField:
		return StringList{}
	}
	panic(fmt.Sprintf("fru: unknown field kind %T", f))
}

func decodeLatin1(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(rune(b))
	}
	return sb.String()
}
