// Package ingest turns local image files into self-contained data URIs so
// a photo row carries its own pixels and the gallery needs no blob store.
package ingest

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"

	"github.com/keepsakehq/keepsake/internal/errors"
)

// MaxFileSize caps ingested images at 20 MiB. Data URIs are stored inline
// in sqlite; anything larger belongs in a real object store.
const MaxFileSize = 20 << 20

// Result is an encoded image ready to store as a photo URL.
type Result struct {
	URI         string
	ContentType string
	Size        int
}

// Encode wraps raw image bytes in a base64 data URI. The content type is
// sniffed from the bytes themselves, never trusted from a file extension.
func Encode(data []byte) Result {
	contentType := http.DetectContentType(data)
	return Result{
		URI:         fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)),
		ContentType: contentType,
		Size:        len(data),
	}
}

// FromFile reads and encodes a local image file.
func FromFile(path string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, errors.NewInvalidRequest(fmt.Sprintf("file not found: %s", path))
		}
		return Result{}, errors.NewInternal(err)
	}
	if info.IsDir() {
		return Result{}, errors.NewInvalidRequest(fmt.Sprintf("not a file: %s", path))
	}
	if info.Size() > MaxFileSize {
		return Result{}, errors.NewInvalidRequest(fmt.Sprintf("file exceeds %d bytes: %s", MaxFileSize, path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errors.NewInternal(err)
	}
	return Encode(data), nil
}
