package api

import (
	"testing"

	"paperform/internal/models"
)

func TestJobManagerLifecycle(t *testing.T) {
	m := NewJobManager()

	jobID, snapshot := m.CreateJob([]string{"a.png", "b.pdf"})
	if jobID == "" || snapshot.Status != JobStatusPending {
		t.Fatalf("unexpected created job: %+v", snapshot)
	}
	if len(snapshot.Files) != 2 || snapshot.Files[1].Name != "b.pdf" {
		t.Fatalf("unexpected files: %+v", snapshot.Files)
	}

	m.MarkProcessing(jobID)
	m.MarkFileStarted(jobID, 0)
	m.UpdateFileProgress(jobID, 0, "extract", "Detecting form fields", 10, 100)

	job, ok := m.GetJob(jobID)
	if !ok {
		t.Fatal("Expected job to exist")
	}
	if job.Status != JobStatusProcessing {
		t.Errorf("Expected processing status, got %q", job.Status)
	}
	file := job.Files[0]
	if file.Status != FileStatusProcessing || file.Step != "extract" || file.Percent != 10 {
		t.Errorf("unexpected file progress: %+v", file)
	}

	result := ConversionResult{
		Name:      "a.png",
		Status:    FileStatusComplete,
		Questions: []models.Question{{Type: models.QuestionTextShort, Title: "Name"}},
	}
	m.MarkFileComplete(jobID, 0, result)
	m.MarkFileError(jobID, 1, "unreadable pdf", ConversionResult{Name: "b.pdf"})
	m.MarkCompleted(jobID)

	job, _ = m.GetJob(jobID)
	if job.Status != JobStatusComplete {
		t.Errorf("Expected complete status, got %q", job.Status)
	}
	if len(job.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(job.Results))
	}
	if job.Results[0].Status != FileStatusComplete || len(job.Results[0].Questions) != 1 {
		t.Errorf("unexpected first result: %+v", job.Results[0])
	}
	if job.Results[1].Status != FileStatusError || job.Results[1].Message != "unreadable pdf" {
		t.Errorf("unexpected second result: %+v", job.Results[1])
	}
	if job.Files[1].Error != "unreadable pdf" || job.Files[1].Percent != 100 {
		t.Errorf("unexpected errored file: %+v", job.Files[1])
	}
}

func TestJobManagerCloneIsolation(t *testing.T) {
	m := NewJobManager()
	jobID, snapshot := m.CreateJob([]string{"a.png"})

	snapshot.Status = "tampered"
	snapshot.Files[0].Name = "tampered"

	job, _ := m.GetJob(jobID)
	if job.Status != JobStatusPending || job.Files[0].Name != "a.png" {
		t.Errorf("snapshot mutation leaked into the manager: %+v", job)
	}
}

func TestJobManagerMarkFailed(t *testing.T) {
	m := NewJobManager()
	jobID, _ := m.CreateJob([]string{"a.png"})

	m.MarkFailed(jobID, "  browser crashed  ")

	job, _ := m.GetJob(jobID)
	if job.Status != JobStatusFailed || job.Error != "browser crashed" {
		t.Errorf("unexpected failed job: %+v", job)
	}
}

func TestJobManagerUnknownJob(t *testing.T) {
	m := NewJobManager()

	if _, ok := m.GetJob("missing"); ok {
		t.Error("Expected missing job lookup to fail")
	}
	// Updates against unknown ids are silently dropped.
	m.MarkProcessing("missing")
	m.UpdateFileProgress("missing", 0, "extract", "x", 1, 100)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		current int
		total   int
		want    int
	}{
		{0, 100, 0},
		{10, 100, 10},
		{55, 100, 55},
		{100, 100, 100},
		{150, 100, 100},
		{-5, 100, 0},
		{3, 4, 75},
		{7, 0, 7},
		{200, 0, 100},
		{-1, 0, 0},
	}
	for _, tt := range tests {
		if got := percent(tt.current, tt.total); got != tt.want {
			t.Errorf("percent(%d, %d) = %d, want %d", tt.current, tt.total, got, tt.want)
		}
	}
}
