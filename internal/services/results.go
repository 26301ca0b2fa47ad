package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"paperform/internal/models"
)

// ResultSink persists built schemas as JSON files. A nil sink discards
// results, so persistence stays optional for callers.
type ResultSink struct {
	dir string
}

// NewResultSink returns a sink writing into dir, or nil when dir is empty.
func NewResultSink(dir string) *ResultSink {
	if dir == "" {
		return nil
	}
	return &ResultSink{dir: dir}
}

// Save writes the schema to a fresh file and returns its path.
func (s *ResultSink) Save(questions []models.Question) (string, error) {
	if s == nil {
		return "", nil
	}

	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	path := filepath.Join(s.dir, uuid.NewString()+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return path, nil
}
