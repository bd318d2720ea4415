package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoManifest is returned when a directory holds no manifest file.
var ErrNoManifest = errors.New("no manifest (.csv) file found")

// Bundle is the file set a caller supplies: one manifest plus candidate assets.
type Bundle struct {
	ManifestPath string
	Files        []File
}

// Images returns the assets that take part in correlation, preserving order.
func (b Bundle) Images() []File {
	out := make([]File, 0, len(b.Files))
	for _, f := range b.Files {
		if f.IsImage() {
			out = append(out, f)
		}
	}
	return out
}

// LoadDir scans dir (non-recursively) for a manifest and its assets. When
// manifestPath is empty the single .csv file in dir is used. Hidden files and
// the manifest itself are excluded from the asset list. Files are returned in
// lexical name order.
func LoadDir(dir, manifestPath string) (Bundle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Bundle{}, fmt.Errorf("read asset directory: %w", err)
	}

	var manifests []string
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".csv") {
			manifests = append(manifests, filepath.Join(dir, name))
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if manifestPath == "" {
		switch len(manifests) {
		case 0:
			return Bundle{}, fmt.Errorf("%s: %w", dir, ErrNoManifest)
		case 1:
			manifestPath = manifests[0]
		default:
			return Bundle{}, fmt.Errorf("%s: multiple manifest files found; pass one explicitly", dir)
		}
	}

	bundle := Bundle{ManifestPath: manifestPath, Files: make([]File, 0, len(names))}
	for _, name := range names {
		file, err := FromPath(filepath.Join(dir, name))
		if err != nil {
			return Bundle{}, err
		}
		bundle.Files = append(bundle.Files, file)
	}
	return bundle, nil
}
