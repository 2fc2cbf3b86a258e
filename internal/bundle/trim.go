package bundle

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DefaultMarker is the signature that starts a bundle container.
const DefaultMarker = "UnityFS"

var (
	// ErrMarkerNotFound means the file does not contain the marker.
	ErrMarkerNotFound = errors.New("bundle: marker not found")
	// ErrAlreadyTrimmed means the file already starts with the marker.
	ErrAlreadyTrimmed = errors.New("bundle: already starts with marker")
)

// Trim copies in to out, dropping every byte before the first occurrence of
// marker. It returns the number of bytes dropped.
func Trim(in, out string, marker []byte) (int, error) {
	data, err := os.ReadFile(in)
	if err != nil {
		return 0, errors.Wrapf(err, "trim: read %s", in)
	}

	idx := bytes.Index(data, marker)
	switch {
	case idx < 0:
		return 0, ErrMarkerNotFound
	case idx == 0:
		return 0, ErrAlreadyTrimmed
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return 0, errors.Wrapf(err, "trim: mkdir for %s", out)
	}
	if err := os.WriteFile(out, data[idx:], 0644); err != nil {
		return 0, errors.Wrapf(err, "trim: write %s", out)
	}
	return idx, nil
}

// TrimTarget returns the output path for in under outDir. A non-empty ext
// replaces the input extension.
func TrimTarget(in, outDir, ext string) string {
	base := filepath.Base(in)
	if ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ext
	}
	return filepath.Join(outDir, base)
}
