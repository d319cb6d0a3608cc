package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/frukit/pkg/fru"
)

func testImage(t *testing.T) []byte {
	t.Helper()
	tree := fru.NewTree()
	tree.Set("chassis", fru.NewTable().
		Set("type", fru.Int(17)).
		Set("serial", fru.String{Text: "SN123"}))
	data, err := fru.Encode(tree, &fru.Collector{})
	require.NoError(t, err)
	return data
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestDecodeToYaml(t *testing.T) {
	out, err := decodeToYaml(testImage(t), fru.Tolerant())
	require.NoError(t, err)
	assert.Contains(t, string(out), "serial: SN123")
}

func TestEncodeFromYaml(t *testing.T) {
	out, err := encodeFromYaml([]byte("chassis:\n  type: 17\n"), fru.Tolerant())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, byte(1), out[0])
}

func TestConvert_BinaryToYaml(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "image.bin")
	out := filepath.Join(dir, "image.yml")
	require.NoError(t, os.WriteFile(in, testImage(t), 0644))

	require.NoError(t, runCommand(t, "convert", in, out))

	text, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(text), "type: 17")
}

func TestConvert_YamlToBinary(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "image.yml")
	out := filepath.Join(dir, "image.bin")
	require.NoError(t, os.WriteFile(in, []byte("chassis:\n  type: 17\n  serial: SN123\n"), 0644))

	require.NoError(t, runCommand(t, "convert", in, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	tree, err := fru.Decode(data, &fru.Collector{})
	require.NoError(t, err)
	c, ok := tree.Get("chassis")
	require.True(t, ok)
	serial, _ := c.(*fru.Table).Get("serial")
	assert.Equal(t, fru.String{Text: "SN123", Encoding: fru.EncodingLatin1}, serial)
}

func TestConvert_RoundTripThroughFiles(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "image.bin")
	yml := filepath.Join(dir, "image.yml")
	back := filepath.Join(dir, "back.bin")
	img := testImage(t)
	require.NoError(t, os.WriteFile(bin, img, 0644))

	require.NoError(t, runCommand(t, "convert", bin, yml))
	require.NoError(t, runCommand(t, "convert", yml, back))

	got, err := os.ReadFile(back)
	require.NoError(t, err)
	assert.Equal(t, img, got)
}

func TestConvert_EmptyInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(in, nil, 0644))

	err := runCommand(t, "convert", in, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty input")
}

func TestDecode_StrictFlag(t *testing.T) {
	dir := t.TempDir()
	img := testImage(t)
	img[7] ^= 0xFF // corrupt the header checksum
	in := filepath.Join(dir, "bad.bin")
	out := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(in, img, 0644))

	err := runCommand(t, "decode", "--strict", in, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum")

	// Tolerant mode recovers. The flag value survives Execute calls in
	// this process, so it has to be reset explicitly.
	require.NoError(t, runCommand(t, "decode", "--strict=false", in, out))
}
