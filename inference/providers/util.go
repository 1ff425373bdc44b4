package providers

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
)

// GetSharedLibPath returns the path to the onnxruntime shared library.
//
// A non-empty override wins; otherwise a platform default under
// ./third_party is used.
//
// Arguments:
//   - override: An explicit library path, usually from configuration.
//
// Returns:
//   - string: The path to the shared library.
//   - error: An error if the platform is unsupported or the file is missing.
func GetSharedLibPath(override string) (string, error) {
	path := override
	if path == "" {
		var err error
		if path, err = defaultSharedLibPath(runtime.GOOS, runtime.GOARCH); err != nil {
			return "", err
		}
	}

	if _, err := os.Stat(path); err != nil {
		return "", errors.Wrapf(err, "ONNX Runtime library not found at %s", path)
	}
	return path, nil
}

func defaultSharedLibPath(goos, goarch string) (string, error) {
	switch goos {
	case "windows":
		if goarch == "amd64" {
			return "./third_party/onnxruntime.dll", nil
		}
	case "darwin":
		return "./third_party/libonnxruntime.1.23.0.dylib", nil
	case "linux":
		if goarch == "arm64" {
			return "./third_party/onnxruntime_arm64.so", nil
		}
		return "./third_party/onnxruntime.so", nil
	}
	return "", errors.Errorf("no onnxruntime library for %s/%s", goos, goarch)
}
