package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"paperform/internal/gateway"
	"paperform/internal/models"
	"paperform/internal/services"
)

const maxMultipartMemory = 8 << 20 // 8 MB

type Server struct {
	mux       *http.ServeMux
	converter *services.ConverterService
	sources   *services.SourceService
	results   *services.ResultSink
	jobs      *JobManager
}

func NewServer(
	converter *services.ConverterService,
	sources *services.SourceService,
	results *services.ResultSink,
) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		converter: converter,
		sources:   sources,
		results:   results,
		jobs:      NewJobManager(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/image", s.handleConvertImage)
	s.mux.HandleFunc("/link", s.handleConvertLink)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/jobs", s.handleJobs)
	s.mux.HandleFunc("/jobs/", s.handleJobStatus)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "form-converter",
	})
}

func (s *Server) handleConvertImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	if form := r.MultipartForm; form != nil {
		defer form.RemoveAll()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "no file selected")
		return
	}

	src, err := s.sources.FromUpload(file, header.Filename)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	defer src.Cleanup()

	s.convert(r.Context(), w, src)
}

func (s *Server) handleConvertLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	pageURL := strings.TrimSpace(payload.URL)
	if pageURL == "" {
		writeError(w, http.StatusBadRequest, "no url provided")
		return
	}
	parsed, err := url.Parse(pageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		writeError(w, http.StatusBadRequest, "url must be absolute http or https")
		return
	}

	src, err := s.sources.FromURL(r.Context(), pageURL)
	if err != nil {
		log.Printf("capture %s: %v", pageURL, err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	defer src.Cleanup()

	s.convert(r.Context(), w, src)
}

// convert runs the pipeline for a resolved source and writes the response
// envelope. A form with no detectable fields is a successful conversion
// with empty results, not an error.
func (s *Server) convert(ctx context.Context, w http.ResponseWriter, src *services.Source) {
	questions, err := s.converter.Convert(ctx, src.Bytes, src.Kind)
	if err != nil {
		if errors.Is(err, services.ErrExtractionEmpty) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"results": []models.Question{},
				"message": "No form fields detected",
			})
			return
		}
		log.Printf("convert %s: %v", src.Name, err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	if path, err := s.results.Save(questions); err != nil {
		log.Printf("persist result for %s: %v", src.Name, err)
	} else if path != "" {
		log.Printf("saved conversion result to %s", path)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"results": questions,
		"message": "Form converted successfully",
	})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/jobs" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	s.handleCreateConversionJob(w, r)
}

func (s *Server) handleCreateConversionJob(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	form := r.MultipartForm
	if form == nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	fileNames := make([]string, len(files))
	for i, file := range files {
		fileNames[i] = file.Filename
	}

	fileHeaders := append([]*multipart.FileHeader(nil), files...)
	jobID, snapshot := s.jobs.CreateJob(fileNames)

	go s.runConversionJob(context.Background(), jobID, fileHeaders, form)

	writeJSON(w, http.StatusAccepted, snapshot)
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/jobs/")
	jobID = strings.Trim(jobID, "/")
	if jobID == "" {
		http.NotFound(w, r)
		return
	}

	job, ok := s.jobs.GetJob(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (s *Server) runConversionJob(ctx context.Context, jobID string, files []*multipart.FileHeader, form *multipart.Form) {
	defer func() {
		if form != nil {
			_ = form.RemoveAll()
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	s.jobs.MarkProcessing(jobID)
	for idx, file := range files {
		s.jobs.MarkFileStarted(jobID, idx)
		progress := func(step, message string, current, total int) {
			s.jobs.UpdateFileProgress(jobID, idx, step, message, current, total)
		}
		result, err := s.convertUpload(ctx, file, progress)
		if err != nil {
			s.jobs.MarkFileError(jobID, idx, err.Error(), result)
			continue
		}
		s.jobs.MarkFileComplete(jobID, idx, result)
	}
	s.jobs.MarkCompleted(jobID)
}

func (s *Server) convertUpload(ctx context.Context, file *multipart.FileHeader, progress services.ProgressCallback) (ConversionResult, error) {
	result := ConversionResult{
		Name:   file.Filename,
		Status: FileStatusError,
	}

	reader, err := file.Open()
	if err != nil {
		result.Message = err.Error()
		return result, fmt.Errorf("open file %s: %w", file.Filename, err)
	}
	defer reader.Close()

	if progress != nil {
		progress("resolve", "Storing upload", 5, 100)
	}
	src, err := s.sources.FromUpload(reader, file.Filename)
	if err != nil {
		result.Message = err.Error()
		return result, fmt.Errorf("resolve upload %s: %w", file.Filename, err)
	}
	defer src.Cleanup()

	questions, err := s.converter.ConvertWithProgress(ctx, src.Bytes, src.Kind, progress)
	if err != nil {
		if errors.Is(err, services.ErrExtractionEmpty) {
			result.Status = FileStatusComplete
			result.Message = "No form fields detected"
			result.Questions = []models.Question{}
			return result, nil
		}
		result.Message = err.Error()
		return result, fmt.Errorf("convert %s: %w", file.Filename, err)
	}

	if path, err := s.results.Save(questions); err != nil {
		log.Printf("persist result for %s: %v", file.Filename, err)
	} else if path != "" {
		log.Printf("saved conversion result to %s", path)
	}

	result.Status = FileStatusComplete
	result.Questions = questions
	return result, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrUnsupportedMedia):
		return http.StatusBadRequest
	case errors.Is(err, gateway.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
