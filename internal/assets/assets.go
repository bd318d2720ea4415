package assets

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Kind is the coarse content classification of an asset.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindOther Kind = "other"
)

// sniffLen is the number of leading bytes inspected when no type is known.
const sniffLen = 512

// File is one caller-owned asset. The pipeline only reads it.
type File struct {
	Name        string
	ContentType string
	Kind        Kind
	Size        int64
	open        func() (io.ReadCloser, error)
}

// Open returns a fresh reader over the asset payload.
func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("asset %q has no payload", f.Name)
	}
	return f.open()
}

// Stem returns the file name without directory or extension.
func (f File) Stem() string {
	base := filepath.Base(f.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ext returns the lowercased extension including the dot.
func (f File) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// IsImage reports whether the asset takes part in correlation.
func (f File) IsImage() bool {
	return f.Kind == KindImage
}

// NewFile wraps an in-memory payload. An empty contentType is inferred.
func NewFile(name, contentType string, data []byte) File {
	payload := append([]byte(nil), data...)
	if strings.TrimSpace(contentType) == "" {
		contentType = detectContentType(name, payload)
	}
	return File{
		Name:        name,
		ContentType: contentType,
		Kind:        Classify(contentType, name),
		Size:        int64(len(payload)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(payload)), nil
		},
	}
}

// FromPath describes a file on disk. The payload is read on Open.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat asset: %w", err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("asset %q is a directory", path)
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		head, err := readHead(path)
		if err != nil {
			return File{}, err
		}
		contentType = http.DetectContentType(head)
	}
	return File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Kind:        Classify(contentType, path),
		Size:        info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// Classify maps a content type, falling back to the name's extension, to a Kind.
func Classify(contentType, name string) Kind {
	if kind := kindFromMIME(contentType); kind != KindOther {
		return kind
	}
	ext := strings.ToLower(filepath.Ext(name))
	if kind := kindFromMIME(mime.TypeByExtension(ext)); kind != KindOther {
		return kind
	}
	if kind, ok := mediaExtensions[ext]; ok {
		return kind
	}
	return KindOther
}

// mediaExtensions covers formats missing from minimal system MIME tables.
var mediaExtensions = map[string]Kind{
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".gif":  KindImage,
	".webp": KindImage,
	".svg":  KindImage,
	".avif": KindImage,
	".mp4":  KindVideo,
	".m4v":  KindVideo,
	".mov":  KindVideo,
	".webm": KindVideo,
	".mp3":  KindAudio,
	".m4a":  KindAudio,
	".wav":  KindAudio,
	".ogg":  KindAudio,
	".flac": KindAudio,
}

func kindFromMIME(contentType string) Kind {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	major, _, _ := strings.Cut(mediaType, "/")
	switch major {
	case "image":
		return KindImage
	case "video":
		return KindVideo
	case "audio":
		return KindAudio
	default:
		return KindOther
	}
}

func detectContentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	return http.DetectContentType(head)
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read asset header: %w", err)
	}
	return buf[:n], nil
}
