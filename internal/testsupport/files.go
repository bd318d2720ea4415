package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// PNGHeader is enough of a PNG signature for content sniffing.
var PNGHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteAssetDir creates a directory holding manifest.csv with the given text
// plus one PNG per image name, and returns the directory path.
func WriteAssetDir(t testing.TB, manifestText string, images ...string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "drop")
	WriteFile(t, filepath.Join(dir, "manifest.csv"), []byte(manifestText))
	for _, name := range images {
		WriteFile(t, filepath.Join(dir, name), PNGHeader)
	}
	return dir
}
