package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"paperform/internal/models"
)

func TestResultSinkSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	sink := NewResultSink(dir)

	questions := []models.Question{
		{Type: models.QuestionHeader, Title: "Intake"},
		{Type: models.QuestionTextShort, Title: "Name", Required: true},
	}
	path, err := sink.Save(questions)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if filepath.Dir(path) != dir || !strings.HasSuffix(path, ".json") {
		t.Errorf("unexpected result path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	var loaded []models.Question
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("result file is not valid JSON: %v", err)
	}
	if len(loaded) != 2 || loaded[1].Title != "Name" {
		t.Errorf("unexpected result contents: %+v", loaded)
	}
}

func TestResultSinkDisabled(t *testing.T) {
	sink := NewResultSink("")
	if sink != nil {
		t.Fatal("Expected a nil sink for an empty dir")
	}

	path, err := sink.Save([]models.Question{{Type: models.QuestionHeader, Title: "H"}})
	if err != nil || path != "" {
		t.Fatalf("nil sink should discard results, got path=%q err=%v", path, err)
	}
}
