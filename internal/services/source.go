package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"paperform/internal/models"
)

// Source is a resolved input document: the bytes handed to the pipeline
// plus the temp file they were spooled to.
type Source struct {
	Bytes []byte
	Kind  models.MediaKind
	Path  string
	Name  string
}

// Cleanup removes the spooled temp file.
func (s *Source) Cleanup() {
	if s.Path != "" {
		os.Remove(s.Path)
	}
}

// SourceService turns uploads and page URLs into pipeline sources.
type SourceService struct {
	uploadDir  string
	screenshot *ScreenshotService
}

func NewSourceService(uploadDir string, screenshot *ScreenshotService) *SourceService {
	return &SourceService{uploadDir: uploadDir, screenshot: screenshot}
}

// FromUpload validates and spools an uploaded file. The extension is
// checked before any bytes are read so unsupported types are rejected
// without touching disk.
func (s *SourceService) FromUpload(reader io.Reader, filename string) (*Source, error) {
	kind, err := models.MediaKindForFile(filename)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", filename, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("upload %s is empty", filename)
	}

	path, err := s.store(data, filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	src := &Source{Bytes: data, Kind: kind, Path: path, Name: filename}
	if kind == models.MediaPDF {
		if err := probePDF(path); err != nil {
			src.Cleanup()
			return nil, err
		}
	}
	return src, nil
}

// FromURL captures a full-page screenshot of the given page and spools
// it as a PNG source.
func (s *SourceService) FromURL(ctx context.Context, pageURL string) (*Source, error) {
	shot, err := s.screenshot.Capture(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("screenshot %s: %w", pageURL, err)
	}

	path, err := s.store(shot, ".png")
	if err != nil {
		return nil, err
	}
	return &Source{Bytes: shot, Kind: models.MediaPNG, Path: path, Name: pageURL}, nil
}

func (s *SourceService) store(data []byte, ext string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(s.uploadDir, uuid.NewString()+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return path, nil
}

// probePDF confirms the file parses as a PDF with at least one page, so
// broken documents fail here instead of deep inside a model call.
func probePDF(path string) error {
	f, r, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("%w: unreadable pdf: %v", models.ErrUnsupportedMedia, err)
	}
	defer f.Close()
	if r.NumPage() == 0 {
		return fmt.Errorf("%w: pdf has no pages", models.ErrUnsupportedMedia)
	}
	return nil
}
