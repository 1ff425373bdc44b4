package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nvr-ai/go-iou/models/postprocess"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClassFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obj.names")
	require.NoError(t, os.WriteFile(path, []byte("person\n\ncar\ntruck\n"), 0o644))

	set, err := LoadClassFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"person", "car", "truck"}, set.Names())

	name, ok := set.Name(1)
	assert.True(t, ok)
	assert.Equal(t, "car", name)

	idx, ok := set.Index("truck")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = set.Name(3)
	assert.False(t, ok)
	_, ok = set.Name(-1)
	assert.False(t, ok)
}

func TestLoadClassFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obj.names")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o644))

	_, err := LoadClassFile(path)
	assert.True(t, errors.Is(err, ErrNoClasses))
}

func TestClassSetFilter(t *testing.T) {
	set := NewClassSet([]string{"person", "car"})
	input := []postprocess.Detection{
		{Class: 1, Score: 0.9},
		{Class: 7, Score: 0.8},
		{Class: 0, Score: 0.7},
	}

	kept := set.Filter(input)
	assert.Equal(t, []postprocess.Detection{input[0], input[2]}, kept)
	assert.Len(t, input, 3)
}
