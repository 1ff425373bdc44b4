package model

import (
	"github.com/nvr-ai/go-iou/models/postprocess"
	"github.com/nvr-ai/go-iou/util"
	"github.com/pkg/errors"
)

// ErrNoClasses is returned when a class file contains no names.
var ErrNoClasses = errors.New("no class names")

// OutputClass represents one detection label.
type OutputClass struct {
	// The integer index returned by the model.
	Index int
	// The human-readable label.
	Name string
}

// ClassSet maps class indices to names. It is built once and read-only
// afterwards.
type ClassSet struct {
	Classes   []OutputClass
	nameToIdx map[string]int
}

// NewClassSet indexes names in order, starting at 0.
func NewClassSet(names []string) *ClassSet {
	s := &ClassSet{
		Classes:   make([]OutputClass, len(names)),
		nameToIdx: make(map[string]int, len(names)),
	}
	for i, name := range names {
		s.Classes[i] = OutputClass{Index: i, Name: name}
		s.nameToIdx[name] = i
	}
	return s
}

// LoadClassFile reads a darknet .names file with one class name per line.
// Blank lines do not consume an index.
func LoadClassFile(path string) (*ClassSet, error) {
	names, err := util.ReadLines(path)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.Wrapf(ErrNoClasses, "class file %s", path)
	}
	return NewClassSet(names), nil
}

// Len returns the number of registered classes.
func (s *ClassSet) Len() int {
	return len(s.Classes)
}

// Name returns the class name for an index.
func (s *ClassSet) Name(idx int) (string, bool) {
	if idx < 0 || idx >= len(s.Classes) {
		return "", false
	}
	return s.Classes[idx].Name, true
}

// Index returns the class index for a name.
func (s *ClassSet) Index(name string) (int, bool) {
	idx, ok := s.nameToIdx[name]
	return idx, ok
}

// Names returns the class names in index order.
func (s *ClassSet) Names() []string {
	names := make([]string, len(s.Classes))
	for i, c := range s.Classes {
		names[i] = c.Name
	}
	return names
}

// Filter drops detections whose class is not registered. Order is kept.
func (s *ClassSet) Filter(detections []postprocess.Detection) []postprocess.Detection {
	kept := make([]postprocess.Detection, 0, len(detections))
	for _, d := range detections {
		if _, ok := s.Name(d.Class); ok {
			kept = append(kept, d)
		}
	}
	return kept
}
