// Package storage keeps uploaded files in a public bucket: a directory on
// disk whose contents are served read-only under a public base URL.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxSize caps uploads at 2 MiB
const DefaultMaxSize int64 = 2 << 20

var (
	ErrTooLarge    = errors.New("file is too large")
	ErrNotImage    = errors.New("file is not a supported image")
	ErrEmptyFile   = errors.New("file is empty")
	ErrInvalidPath = errors.New("invalid storage path")
)

// imageTypes are the upload types the bucket accepts. Vector formats are
// excluded since they can carry script.
var imageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// Bucket is a public file bucket rooted at a directory
type Bucket struct {
	dir     string
	baseURL string
	maxSize int64
}

// NewBucket creates the bucket directory if needed. A non-positive maxSize
// uses DefaultMaxSize.
func NewBucket(dir, publicBaseURL string, maxSize int64) (*Bucket, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create bucket directory: %w", err)
	}
	return &Bucket{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		maxSize: maxSize,
	}, nil
}

// MaxSize is the largest upload the bucket accepts, in bytes
func (b *Bucket) MaxSize() int64 { return b.maxSize }

// Upload stores an image under prefix with a random name and returns its
// public URL. The content type is sniffed from the bytes; the client's file
// name only contributes a fallback extension.
func (b *Bucket) Upload(ctx context.Context, prefix, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !validPrefix(prefix) {
		return "", ErrInvalidPath
	}

	data, err := io.ReadAll(io.LimitReader(r, b.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if int64(len(data)) > b.maxSize {
		return "", fmt.Errorf("%w (max %d bytes)", ErrTooLarge, b.maxSize)
	}

	mtype := mimetype.Detect(data)
	if !isImage(mtype) {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mtype.String())
	}

	ext := mtype.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	name := uuid.NewString() + ext

	dir := filepath.Join(b.dir, filepath.FromSlash(prefix))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := writeFile(filepath.Join(dir, name), data); err != nil {
		return "", err
	}

	return b.baseURL + "/" + path.Join(prefix, name), nil
}

// Delete removes the file behind a URL previously returned by Upload. URLs
// outside the bucket are ignored.
func (b *Bucket) Delete(ctx context.Context, publicURL string) error {
	rel, ok := strings.CutPrefix(publicURL, b.baseURL+"/")
	if !ok || rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(b.dir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", rel, err)
	}
	return nil
}

// Handler serves the bucket's files. Directory listings are disabled.
func (b *Bucket) Handler() http.Handler {
	fs := http.FileServer(http.Dir(b.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")
		fs.ServeHTTP(w, r)
	})
}

func isImage(m *mimetype.MIME) bool {
	return mimetype.EqualsAny(m.String(), imageTypes...)
}

func validPrefix(prefix string) bool {
	if prefix == "" || strings.HasPrefix(prefix, "/") {
		return false
	}
	for _, part := range strings.Split(prefix, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

func writeFile(name string, data []byte) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	return f.Close()
}
