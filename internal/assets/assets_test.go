package assets_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"mintforge/internal/assets"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestClassify(t *testing.T) {
	tests := []struct {
		contentType string
		name        string
		want        assets.Kind
	}{
		{"image/png", "a.bin", assets.KindImage},
		{"image/svg+xml; charset=utf-8", "a", assets.KindImage},
		{"video/mp4", "clip", assets.KindVideo},
		{"audio/mpeg", "song", assets.KindAudio},
		{"", "photo.JPG", assets.KindImage},
		{"application/octet-stream", "clip.mp4", assets.KindVideo},
		{"text/csv", "manifest.csv", assets.KindOther},
		{"", "notes", assets.KindOther},
	}
	for _, tt := range tests {
		if got := assets.Classify(tt.contentType, tt.name); got != tt.want {
			t.Errorf("Classify(%q, %q) = %q, want %q", tt.contentType, tt.name, got, tt.want)
		}
	}
}

func TestNewFileSniffsContentAndReopens(t *testing.T) {
	file := assets.NewFile("mystery", "", pngHeader)
	if file.ContentType != "image/png" {
		t.Fatalf("expected sniffed image/png, got %q", file.ContentType)
	}
	if !file.IsImage() {
		t.Fatalf("expected image kind, got %q", file.Kind)
	}
	for i := 0; i < 2; i++ {
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		if len(data) != len(pngHeader) {
			t.Fatalf("read %d bytes, want %d", len(data), len(pngHeader))
		}
	}
}

func TestStem(t *testing.T) {
	file := assets.NewFile("art/Cool NFT 1.final.png", "image/png", nil)
	if got := file.Stem(); got != "Cool NFT 1.final" {
		t.Fatalf("Stem = %q", got)
	}
	if got := file.Ext(); got != ".png" {
		t.Fatalf("Ext = %q", got)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("manifest.csv", []byte("name\nA\n"))
	write("2.png", pngHeader)
	write("1.png", pngHeader)
	write("clip.mp4", []byte("not really"))
	write(".DS_Store", []byte{0})
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	bundle, err := assets.LoadDir(dir, "")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if filepath.Base(bundle.ManifestPath) != "manifest.csv" {
		t.Fatalf("unexpected manifest path %q", bundle.ManifestPath)
	}
	if len(bundle.Files) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(bundle.Files))
	}
	if bundle.Files[0].Name != "1.png" || bundle.Files[1].Name != "2.png" {
		t.Fatalf("expected lexical order, got %q %q", bundle.Files[0].Name, bundle.Files[1].Name)
	}
	images := bundle.Images()
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
}

func TestLoadDirRequiresManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "1.png"), pngHeader, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := assets.LoadDir(dir, ""); !errors.Is(err, assets.ErrNoManifest) {
		t.Fatalf("expected ErrNoManifest, got %v", err)
	}
}
