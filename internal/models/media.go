package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedMedia is returned when a source document is not one of the
// formats the model gateway accepts.
var ErrUnsupportedMedia = errors.New("unsupported media kind")

// MediaKind identifies the payload format of a source document handed to
// the model gateway.
type MediaKind string

const (
	MediaJPEG MediaKind = "image/jpeg"
	MediaPNG  MediaKind = "image/png"
	MediaGIF  MediaKind = "image/gif"
	MediaWebP MediaKind = "image/webp"
	MediaPDF  MediaKind = "application/pdf"
)

// MediaKindForFile maps a file name to its media kind. Allowed extensions
// are png, jpg, jpeg, gif, webp and pdf; anything else fails with
// ErrUnsupportedMedia.
func MediaKindForFile(name string) (MediaKind, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".jpg", ".jpeg":
		return MediaJPEG, nil
	case ".png":
		return MediaPNG, nil
	case ".gif":
		return MediaGIF, nil
	case ".webp":
		return MediaWebP, nil
	case ".pdf":
		return MediaPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMedia, ext)
	}
}

// Valid reports whether k is one of the supported media kinds.
func (k MediaKind) Valid() bool {
	switch k {
	case MediaJPEG, MediaPNG, MediaGIF, MediaWebP, MediaPDF:
		return true
	}
	return false
}
