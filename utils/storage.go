package utils

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	UploadPrefix = "portfolio/"
	BackupPrefix = "backups/"
)

type StoredObject struct {
	Name    string    `json:"name"`
	URL     string    `json:"url,omitempty"`
	Size    int64     `json:"size"`
	Created time.Time `json:"created"`
}

// ObjectStore is where uploaded images and backups end up.
type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context, prefix string) ([]StoredObject, error)
}

// UploadObjectName builds a unique object name for an uploaded file.
func UploadObjectName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".bin"
	}
	base := GenerateSlug(strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)))
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s%s-%d-%s%s", UploadPrefix, base, time.Now().UTC().Unix(), uuid.New().String()[:8], ext)
}

// BackupObjectName names a backup written at t.
func BackupObjectName(t time.Time) string {
	return fmt.Sprintf("%sbackup-%d.json", BackupPrefix, t.UnixMilli())
}

// UploadNameFromFilename maps a bare filename from a URL path back to its
// object name, rejecting anything that tries to leave the upload prefix.
func UploadNameFromFilename(filename string) (string, error) {
	clean := path.Base(path.Clean("/" + filename))
	if clean == "/" || clean == "." || clean != filename {
		return "", fmt.Errorf("invalid filename")
	}
	return UploadPrefix + clean, nil
}
