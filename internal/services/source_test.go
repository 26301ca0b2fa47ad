package services

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"paperform/internal/models"
)

func TestFromUpload(t *testing.T) {
	dir := t.TempDir()
	svc := NewSourceService(dir, nil)

	payload := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	src, err := svc.FromUpload(bytes.NewReader(payload), "intake.png")
	if err != nil {
		t.Fatalf("FromUpload returned error: %v", err)
	}

	if src.Kind != models.MediaPNG {
		t.Errorf("Expected PNG kind, got %q", src.Kind)
	}
	if !bytes.Equal(src.Bytes, payload) {
		t.Error("source bytes should match the upload")
	}
	if src.Name != "intake.png" {
		t.Errorf("Expected the original name, got %q", src.Name)
	}
	if filepath.Ext(src.Path) != ".png" {
		t.Errorf("Expected the stored file to keep its extension, got %q", src.Path)
	}

	stored, err := os.ReadFile(src.Path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(stored, payload) {
		t.Error("stored file should match the upload")
	}

	src.Cleanup()
	if _, err := os.Stat(src.Path); !os.IsNotExist(err) {
		t.Errorf("Cleanup should remove the stored file, stat err: %v", err)
	}
}

func TestFromUploadRejectsExtension(t *testing.T) {
	dir := t.TempDir()
	svc := NewSourceService(dir, nil)

	for _, name := range []string{"tool.exe", "notes.txt", "portrait.bmp"} {
		if _, err := svc.FromUpload(strings.NewReader("payload"), name); !errors.Is(err, models.ErrUnsupportedMedia) {
			t.Errorf("FromUpload(%q) = %v, want ErrUnsupportedMedia", name, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected uploads should never be stored, found %d entries", len(entries))
	}
}

func TestFromUploadEmpty(t *testing.T) {
	svc := NewSourceService(t.TempDir(), nil)

	_, err := svc.FromUpload(bytes.NewReader(nil), "blank.jpg")
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("Expected empty upload error, got %v", err)
	}
}

func TestFromUploadBrokenPDF(t *testing.T) {
	dir := t.TempDir()
	svc := NewSourceService(dir, nil)

	_, err := svc.FromUpload(strings.NewReader("this is not a pdf"), "scan.pdf")
	if !errors.Is(err, models.ErrUnsupportedMedia) {
		t.Fatalf("Expected broken pdf to be rejected, got %v", err)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatalf("read upload dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("broken pdf should be cleaned up, found %d entries", len(entries))
	}
}
