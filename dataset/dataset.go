// Package dataset - Darknet test sets: image list, ground-truth labels and
// class names.
package dataset

import (
	"image"
	"strings"

	"github.com/nvr-ai/go-iou/models/model"
	"github.com/nvr-ai/go-iou/models/postprocess"
	"github.com/nvr-ai/go-iou/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// ErrNoImages is returned when a test list yields no readable image.
var ErrNoImages = errors.New("no images")

// Config locates a darknet test set.
type Config struct {
	// ImageRoot is prepended to every test list entry.
	ImageRoot string `json:"image_root" yaml:"image_root"`
	// ImageFileType is the image suffix replaced by ".txt" to find labels.
	ImageFileType string `json:"image_filetype" yaml:"image_filetype"`
	// MetaDataFile is the darknet .data file.
	MetaDataFile string `json:"meta_data_file" yaml:"meta_data_file"`
}

// Record is one test image with its ground truth.
//
// GroundTruth is loaded once and not modified afterwards. Predicted is
// replaced every time the image is evaluated.
type Record struct {
	Identity    string
	Path        string
	LabelPath   string
	Width       int
	Height      int
	GroundTruth []postprocess.Detection
	Predicted   []postprocess.Detection
	Image       gocv.Mat
}

// Size returns the image size in pixels.
func (r *Record) Size() image.Point {
	return image.Point{X: r.Width, Y: r.Height}
}

// ImageReader decodes the image at path. An empty Mat means the image could
// not be read.
type ImageReader func(path string) gocv.Mat

// ReadColor decodes an image as 3-channel BGR.
func ReadColor(path string) gocv.Mat {
	return gocv.IMRead(path, gocv.IMReadColor)
}

// Dataset is a loaded test set.
type Dataset struct {
	Meta    Meta
	Classes *model.ClassSet
	Records []*Record
}

// Load reads the meta file, class names, test list, images and labels.
//
// Entries whose image cannot be decoded are skipped with a warning. Load
// fails with ErrNoImages when nothing is left.
//
// Arguments:
//   - cfg: The dataset location.
//   - read: The image decoder. Nil uses ReadColor.
//   - log: The logger.
//
// Returns:
//   - *Dataset: The dataset. The caller must Close it.
//   - error: An error if any required file is missing or no image loads.
func Load(cfg Config, read ImageReader, log *zap.Logger) (*Dataset, error) {
	if read == nil {
		read = ReadColor
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ImageRoot == "" {
		return nil, errors.New("image root cannot be empty")
	}

	meta, err := ParseMeta(cfg.MetaDataFile)
	if err != nil {
		return nil, err
	}

	classes, err := model.LoadClassFile(meta.NamesFile)
	if err != nil {
		return nil, err
	}
	log.Info("classes loaded", zap.String("file", meta.NamesFile), zap.Strings("classes", classes.Names()))

	entries, err := util.ReadLines(meta.TestList)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Meta: meta, Classes: classes}
	for _, entry := range entries {
		rec, err := loadRecord(cfg, entry, read)
		if err != nil {
			ds.Close()
			return nil, err
		}
		if rec == nil {
			log.Warn("skipping unreadable image", zap.String("entry", entry))
			continue
		}

		log.Debug("image loaded",
			zap.String("name", rec.Identity),
			zap.Int("width", rec.Width),
			zap.Int("height", rec.Height),
			zap.Int("labels", len(rec.GroundTruth)),
		)
		ds.Records = append(ds.Records, rec)
	}

	if len(ds.Records) == 0 {
		return nil, errors.Wrapf(ErrNoImages, "test list %s", meta.TestList)
	}

	log.Info("test images loaded", zap.Int("images", len(ds.Records)))
	return ds, nil
}

// loadRecord returns nil, nil when the image cannot be decoded.
func loadRecord(cfg Config, entry string, read ImageReader) (*Record, error) {
	path := strings.TrimRight(cfg.ImageRoot, "/") + "/" + entry

	img := read(path)
	if img.Empty() {
		img.Close()
		return nil, nil
	}

	rec := &Record{
		Identity:  util.BaseName(entry),
		Path:      path,
		LabelPath: LabelPath(path, cfg.ImageFileType),
		Width:     img.Cols(),
		Height:    img.Rows(),
		Image:     img,
	}

	truth, err := ReadLabels(rec.LabelPath, rec.Size())
	if err != nil {
		img.Close()
		return nil, err
	}
	rec.GroundTruth = truth

	return rec, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Close releases the decoded images.
func (d *Dataset) Close() error {
	for _, r := range d.Records {
		r.Image.Close()
	}
	return nil
}
