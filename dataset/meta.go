package dataset

import (
	"github.com/nvr-ai/go-iou/util"
	"github.com/pkg/errors"
)

// Markers identifying the values of a darknet .data file.
const (
	testListMarker  = "test.txt"
	namesFileMarker = ".names"
)

// Meta holds the paths named by a darknet .data file.
type Meta struct {
	// TestList is the file listing one image path per line.
	TestList string
	// NamesFile is the class names file.
	NamesFile string
}

// ParseMeta reads a darknet .data file such as
//
//	classes = 3
//	train = data/train.txt
//	valid = data/test.txt
//	names = data/obj.names
//
// The test list is the first value containing "test.txt" and the names file
// the first value containing ".names". Paths are returned as written.
func ParseMeta(path string) (Meta, error) {
	lines, err := util.ReadLines(path)
	if err != nil {
		return Meta{}, err
	}

	meta := Meta{
		TestList:  util.FindValue(lines, testListMarker),
		NamesFile: util.FindValue(lines, namesFileMarker),
	}
	if meta.TestList == "" {
		return Meta{}, errors.Errorf("%s: no %q entry", path, testListMarker)
	}
	if meta.NamesFile == "" {
		return Meta{}, errors.Errorf("%s: no %q entry", path, namesFileMarker)
	}
	return meta, nil
}
