package dataset

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvr-ai/go-iou/images"
	"github.com/nvr-ai/go-iou/models/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseLabel(t *testing.T) {
	size := image.Point{X: 640, Y: 480}

	tests := []struct {
		name   string
		line   string
		wantOK bool
		want   images.Rect
		center images.Point
		class  int
	}{
		{
			name:   "valid",
			line:   "1 0.5 0.5 0.25 0.5",
			wantOK: true,
			want:   images.Rect{X: 240, Y: 120, Width: 160, Height: 240},
			center: images.Point{X: 320, Y: 240},
			class:  1,
		},
		{
			name:   "truncates to pixels",
			line:   "0 0.7219 0.6458 0.0406 0.1813",
			wantOK: true,
			want:   images.Rect{X: 450, Y: 266, Width: 25, Height: 87},
			center: images.Point{X: 462, Y: 309},
			class:  0,
		},
		{name: "negative class", line: "-1 0.5 0.5 0.1 0.1"},
		{name: "zero width", line: "0 0.5 0.5 0 0.1"},
		{name: "too few values", line: "0 0.5 0.5 0.1"},
		{name: "too many values", line: "0 0.5 0.5 0.1 0.1 0.9"},
		{name: "not a number", line: "person 0.5 0.5 0.1 0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det, ok := ParseLabel(tt.line, size)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.want, det.Box)
			assert.Equal(t, tt.center, det.Center)
			assert.Equal(t, tt.class, det.Class)
			assert.Equal(t, float32(1), det.Score)
		})
	}
}

func TestLabelPath(t *testing.T) {
	assert.Equal(t, "data/img/a.txt", LabelPath("data/img/a.jpg", ".jpg"))
	assert.Equal(t, "data/img/a.txt", LabelPath("data/img/a.png", ".png"))
	assert.Equal(t, "", LabelPath("data/img/a.png", ".jpg"))
	assert.Equal(t, "", LabelPath("data/img/a.png", ""))
}

func TestReadLabels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	writeFile(t, path, "0 0.5 0.5 0.2 0.2\n\n7 0.1 0.1 0 0.2\n2 0.25 0.25 0.1 0.1\r\n")

	boxes, err := ReadLabels(path, image.Point{X: 100, Y: 100})
	require.NoError(t, err)
	require.Len(t, boxes, 2)
	assert.Equal(t, 0, boxes[0].Class)
	assert.Equal(t, 2, boxes[1].Class)

	boxes, err = ReadLabels(filepath.Join(dir, "missing.txt"), image.Point{X: 100, Y: 100})
	assert.NoError(t, err)
	assert.Empty(t, boxes)
}

func TestParseMeta(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "obj.data")
	writeFile(t, path, "classes = 2\ntrain = data/train.txt\nvalid = data/test.txt\nnames = data/obj.names\nbackup = backup/\n")

	meta, err := ParseMeta(path)
	require.NoError(t, err)
	assert.Equal(t, "data/test.txt", meta.TestList)
	assert.Equal(t, "data/obj.names", meta.NamesFile)

	writeFile(t, path, "classes = 2\nnames = data/obj.names\n")
	_, err = ParseMeta(path)
	assert.ErrorContains(t, err, "test.txt")

	writeFile(t, path, "valid = data/test.txt\n")
	_, err = ParseMeta(path)
	assert.ErrorContains(t, err, ".names")
}

// fixture lays out a darknet test set under a temp dir.
func fixture(t *testing.T, entries ...string) Config {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "obj.names"), "person\ncar\n")
	writeFile(t, filepath.Join(dir, "test.txt"), strings.Join(entries, "\n")+"\n")
	writeFile(t, filepath.Join(dir, "obj.data"), strings.Join([]string{
		"classes = 2",
		"valid = " + filepath.Join(dir, "test.txt"),
		"names = " + filepath.Join(dir, "obj.names"),
	}, "\n"))

	root := filepath.Join(dir, "images")
	writeFile(t, filepath.Join(root, "data/a.txt"), "1 0.5 0.5 0.25 0.5\n")

	return Config{
		ImageRoot:     root,
		ImageFileType: ".jpg",
		MetaDataFile:  filepath.Join(dir, "obj.data"),
	}
}

func fakeReader(t *testing.T) ImageReader {
	t.Helper()
	return func(path string) gocv.Mat {
		if strings.Contains(path, "broken") {
			return gocv.NewMat()
		}
		return gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	}
}

func TestLoad(t *testing.T) {
	cfg := fixture(t, "data/a.jpg", "data/broken.jpg", "data/b.jpg")

	ds, err := Load(cfg, fakeReader(t), nil)
	require.NoError(t, err)
	defer ds.Close()

	require.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"person", "car"}, ds.Classes.Names())

	a := ds.Records[0]
	assert.Equal(t, "a.jpg", a.Identity)
	assert.Equal(t, cfg.ImageRoot+"/data/a.jpg", a.Path)
	assert.Equal(t, image.Point{X: 640, Y: 480}, a.Size())
	require.Len(t, a.GroundTruth, 1)
	assert.Equal(t, images.Rect{X: 240, Y: 120, Width: 160, Height: 240}, a.GroundTruth[0].Box)
	assert.Nil(t, a.Predicted)

	b := ds.Records[1]
	assert.Equal(t, "b.jpg", b.Identity)
	assert.Empty(t, b.GroundTruth)
}

func TestLoad_NoImages(t *testing.T) {
	cfg := fixture(t, "data/broken.jpg")

	_, err := Load(cfg, fakeReader(t), nil)
	assert.True(t, errors.Is(err, ErrNoImages))
}

func TestLoad_MissingFiles(t *testing.T) {
	cfg := fixture(t, "data/a.jpg")

	bad := cfg
	bad.ImageRoot = ""
	_, err := Load(bad, fakeReader(t), nil)
	assert.Error(t, err)

	bad = cfg
	bad.MetaDataFile = filepath.Join(t.TempDir(), "missing.data")
	_, err = Load(bad, fakeReader(t), nil)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(cfg.MetaDataFile), "obj.names"), nil, 0o644))
	_, err = Load(cfg, fakeReader(t), nil)
	assert.True(t, errors.Is(err, model.ErrNoClasses))
}
