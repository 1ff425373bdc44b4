package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obj.names")
	require.NoError(t, os.WriteFile(path, []byte("person\r\n\r\ncar  \nbicycle"), 0o644))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"person", "car  ", "bicycle"}, lines)
}

func TestReadLines_KeepsLabelWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obj.names")
	require.NoError(t, os.WriteFile(path, []byte("traffic light \r\n \t\r\n\tstop sign\n"), 0o644))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"traffic light ", "\tstop sign"}, lines)
}

func TestReadLines_Missing(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestFindValue(t *testing.T) {
	lines := []string{
		"classes = 6",
		"train  = data/train.txt",
		"valid = data/test.txt",
		"names = data/obj.names",
		"backup = backup/",
	}

	assert.Equal(t, "data/test.txt", FindValue(lines, "test.txt"))
	assert.Equal(t, "data/obj.names", FindValue(lines, ".names"))
	assert.Equal(t, "", FindValue(lines, ".weights"))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, Exists(dir))
	assert.False(t, Exists(filepath.Join(dir, "missing")))
	assert.False(t, Exists(""))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "frame-001.png", BaseName("images/val/frame-001.png"))
	assert.Equal(t, "frame-001.png", BaseName("frame-001.png"))
}
