package fruyml

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/frukit/pkg/fru"
)

func sampleTree() *fru.Tree {
	tree := fru.NewTree()
	tree.Set("internal", fru.NewHexBlob([]byte{1, 1, 0xDE, 0xAD, 0xBE, 0xEF, 0, 0}))
	tree.Set("chassis", fru.NewTable().
		Set("type", fru.Int(17)).
		Set("partno", fru.String{Text: "CHAS-PN", Encoding: fru.EncodingLatin1}).
		Set("serial", fru.String{Text: "12-4", Encoding: fru.EncodingBCD}).
		Set("oem", fru.StringList{{Text: "OEM DATA"}}))
	tree.Set("board", fru.NewTable().
		Set("lang", fru.Int(5)).
		Set("date", fru.Date(fru.Epoch.Add(123456*time.Minute))).
		Set("manufacturer", fru.String{Text: "Výrobce"}).
		Set("partno", fru.String{Text: "ABCD", Encoding: fru.EncodingPacked}))
	tree.Set("product", fru.NewTable().
		Set("name", fru.String{Text: "Widget"}).
		Set("model", fru.String{Text: "dead", Encoding: fru.EncodingHex}))
	return tree
}

func TestDump_Tags(t *testing.T) {
	out, err := Dump(sampleTree())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "type: 17")
	assert.Contains(t, text, "serial: !bcd 12-4")
	assert.Contains(t, text, "partno: !packed ABCD")
	assert.Contains(t, text, "model: !hex dead")
	assert.Contains(t, text, "name: Widget")
	wantDate := time.Time(fru.Date(fru.Epoch.Add(123456 * time.Minute))).Format(time.RFC3339)
	assert.Contains(t, text, "date: "+wantDate)
	// Language-conforming text stays untagged.
	assert.NotContains(t, text, "!latin1")
	assert.NotContains(t, text, "!ucs2le")
	// The blob renders as a literal block.
	assert.Contains(t, text, "internal: |-")
	assert.Contains(t, text, "hex:")
}

func TestDump_MismatchTagged(t *testing.T) {
	tree := fru.NewTree()
	tree.Set("board", fru.NewTable().
		Set("lang", fru.Int(5)).
		Set("manufacturer", fru.String{Text: "ABC", Encoding: fru.EncodingLatin1, LangMismatch: true}))
	out, err := Dump(tree)
	require.NoError(t, err)
	assert.Contains(t, string(out), "manufacturer: !latin1 ABC")
}

func TestLoad_Scalars(t *testing.T) {
	tree, err := Load([]byte(`
chassis:
  type: 17
  partno: PLAIN
  serial: !bcd 12-4
board:
  lang: 5
  date: 1996-03-26T17:36:00Z
  manufacturer: !latin1 ABC
  partno: !packed ABCD
  oem: []
`))
	require.NoError(t, err)

	c, ok := tree.Get("chassis")
	require.True(t, ok)
	typ, _ := c.(*fru.Table).Get("type")
	assert.Equal(t, fru.Int(17), typ)
	partno, _ := c.(*fru.Table).Get("partno")
	assert.Equal(t, fru.String{Text: "PLAIN", Encoding: fru.EncodingAuto}, partno)
	serial, _ := c.(*fru.Table).Get("serial")
	assert.Equal(t, fru.String{Text: "12-4", Encoding: fru.EncodingBCD}, serial)

	b, ok := tree.Get("board")
	require.True(t, ok)
	date, _ := b.(*fru.Table).Get("date")
	require.IsType(t, fru.Date{}, date)
	manufacturer, _ := b.(*fru.Table).Get("manufacturer")
	assert.Equal(t, fru.String{Text: "ABC", Encoding: fru.EncodingLatin1}, manufacturer)
	oem, _ := b.(*fru.Table).Get("oem")
	assert.Equal(t, fru.StringList{}, oem)
}

func TestLoad_HexBlob(t *testing.T) {
	tree, err := Load([]byte("internal: |-\n  hex:\n  0101deadbeef0000\n"))
	require.NoError(t, err)
	v, ok := tree.Get("internal")
	require.True(t, ok)
	b, err := v.(fru.HexBlob).Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 0xDE, 0xAD, 0xBE, 0xEF, 0, 0}, b)
}

func TestLoad_NullFieldSkipped(t *testing.T) {
	tree, err := Load([]byte("chassis:\n  type: 17\n  serial:\n"))
	require.NoError(t, err)
	c, _ := tree.Get("chassis")
	_, ok := c.(*fru.Table).Get("serial")
	assert.False(t, ok)
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty document", "", "empty yaml document"},
		{"top level sequence", "- a\n- b\n", "top level must be a mapping"},
		{"unknown tag", "chassis:\n  serial: !bogus x\n", "unknown string tag"},
		{"area sequence", "chassis:\n  - a\n", "expected field mapping or hex block"},
		{"bad yaml", "chassis: [\n", "invalid yaml"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

// Binary through YAML and back must reproduce the image bit for bit.
func TestYamlRoundTrip_BitExact(t *testing.T) {
	first, err := fru.Encode(sampleTree(), &fru.Collector{})
	require.NoError(t, err)

	decoded, err := fru.Decode(first, &fru.Collector{})
	require.NoError(t, err)

	text, err := Dump(decoded)
	require.NoError(t, err)

	loaded, err := Load(text)
	require.NoError(t, err)

	second, err := fru.Encode(loaded, &fru.Collector{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
