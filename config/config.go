// Package config - YAML configuration with environment overrides.
package config

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nvr-ai/go-iou/dataset"
	"github.com/nvr-ai/go-iou/inference"
	"github.com/nvr-ai/go-iou/inference/detectors"
	"github.com/nvr-ai/go-iou/inference/providers"
	"github.com/nvr-ai/go-iou/models/postprocess"
	"github.com/nvr-ai/go-iou/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables read by the tool.
const (
	// EnvConfig names the config file when no flag is given.
	EnvConfig = "IOU_CONFIG"
	// EnvONNXLibrary overrides yolo.onnx_library.
	EnvONNXLibrary = "ONNXRUNTIME_LIB"
)

// ErrInvalid is returned when the configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root of the YAML file.
type Config struct {
	IoU  IoU  `yaml:"iou"`
	YOLO YOLO `yaml:"yolo"`
}

// IoU locates the test set.
type IoU struct {
	ImageRoot     string `yaml:"image_root"`
	ImageFileType string `yaml:"image_filetype"`
	MetaDataFile  string `yaml:"meta_data_file"`
}

// YOLO describes the detector and its thresholds.
type YOLO struct {
	Backend       string  `yaml:"backend"`
	WeightsFile   string  `yaml:"weights_file"`
	CfgFile       string  `yaml:"cfg_file"`
	NetWidth      int     `yaml:"net_width"`
	NetHeight     int     `yaml:"net_height"`
	ConfidenceThr float32 `yaml:"confidence_thr"`
	NMSThr        float32 `yaml:"nms_thr"`
	Provider      string  `yaml:"provider"`
	ONNXLibrary   string  `yaml:"onnx_library"`
}

// Default returns the values used for keys missing from the file.
func Default() Config {
	return Config{
		YOLO: YOLO{
			Backend:       string(inference.EngineDNN),
			NetWidth:      416,
			NetHeight:     416,
			ConfidenceThr: 0.5,
			NMSThr:        0.4,
			Provider:      string(providers.CPUProviderBackend),
		},
	}
}

// LoadEnv loads .env files into the environment. Missing files are ignored
// and variables already set are kept.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if !util.Exists(f) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "load %s", f)
		}
	}
	return nil
}

// ResolvePath returns flag when set, otherwise $IOU_CONFIG.
func ResolvePath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env, nil
	}
	return "", errors.Errorf("no config file: pass -c or set %s", EnvConfig)
}

// Load reads, overrides from the environment and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	return &cfg, nil
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if lib := os.Getenv(EnvONNXLibrary); lib != "" {
		c.YOLO.ONNXLibrary = lib
	}
}

// Validate reports every problem at once, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	requirePath := func(key, path string) {
		switch {
		case path == "":
			add("%s is required", key)
		case !util.Exists(path):
			add("%s: invalid path %s", key, path)
		}
	}

	requirePath("iou.image_root", c.IoU.ImageRoot)
	requirePath("iou.meta_data_file", c.IoU.MetaDataFile)
	if c.IoU.ImageFileType == "" {
		add("iou.image_filetype is required")
	}

	engine, err := inference.ParseEngineType(c.YOLO.Backend)
	if err != nil {
		add("yolo.backend: %v", err)
	}
	requirePath("yolo.weights_file", c.YOLO.WeightsFile)
	if engine == inference.EngineDNN {
		requirePath("yolo.cfg_file", c.YOLO.CfgFile)
	}
	if engine == inference.EngineONNX {
		if err := (providers.Config{Backend: providers.Backend(c.YOLO.Provider)}).Validate(); err != nil {
			add("yolo.provider: %v", err)
		}
	}

	if c.YOLO.NetWidth <= 0 || c.YOLO.NetHeight <= 0 {
		add("yolo.net_width and yolo.net_height must be positive, got %dx%d", c.YOLO.NetWidth, c.YOLO.NetHeight)
	}
	if c.YOLO.ConfidenceThr < 0 || c.YOLO.ConfidenceThr > 1 {
		add("yolo.confidence_thr must be in [0, 1], got %v", c.YOLO.ConfidenceThr)
	}
	if c.YOLO.NMSThr < 0 || c.YOLO.NMSThr > 1 {
		add("yolo.nms_thr must be in [0, 1], got %v", c.YOLO.NMSThr)
	}

	if len(problems) > 0 {
		return errors.Wrap(ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Dataset returns the dataset location.
func (c *Config) Dataset() dataset.Config {
	return dataset.Config{
		ImageRoot:     c.IoU.ImageRoot,
		ImageFileType: c.IoU.ImageFileType,
		MetaDataFile:  c.IoU.MetaDataFile,
	}
}

// Detector returns the engine configuration.
func (c *Config) Detector() detectors.Config {
	return detectors.Config{
		Engine:            inference.EngineType(c.YOLO.Backend),
		WeightsFile:       c.YOLO.WeightsFile,
		CfgFile:           c.YOLO.CfgFile,
		InputShape:        image.Point{X: c.YOLO.NetWidth, Y: c.YOLO.NetHeight},
		Provider:          providers.Config{Backend: providers.Backend(c.YOLO.Provider)},
		SharedLibraryPath: c.YOLO.ONNXLibrary,
	}
}

// NMS returns the suppression settings. Suppression is class-agnostic.
func (c *Config) NMS() postprocess.NMSConfig {
	return postprocess.NMSConfig{
		ConfidenceThreshold: c.YOLO.ConfidenceThr,
		IoUThreshold:        c.YOLO.NMSThr,
	}
}
