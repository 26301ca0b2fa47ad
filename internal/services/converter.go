package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"paperform/internal/gateway"
	"paperform/internal/models"
	"paperform/internal/prompts"
)

var (
	// ErrExtractionParse is returned when the analysis stage output cannot
	// be read as a field specification list.
	ErrExtractionParse = errors.New("field extraction returned unusable output")
	// ErrExtractionEmpty is returned when the model answered properly but
	// detected no fields. Callers decide whether that is fatal.
	ErrExtractionEmpty = errors.New("no form fields detected")
	// ErrSchemaParse is returned when the builder stage output is not a
	// JSON question array.
	ErrSchemaParse = errors.New("schema builder returned unusable output")
)

// ProgressCallback is called during long conversions to report step progress.
type ProgressCallback func(step, message string, current, total int)

// ConverterService runs the two-stage form conversion pipeline: field
// extraction from the source document, then schema building from the
// extracted specifications. Stages are sequential and stateless; each one
// is bounded by its own timeout on top of the caller's deadline.
type ConverterService struct {
	gateway      gateway.Gateway
	stageTimeout time.Duration
}

func NewConverterService(gw gateway.Gateway, stageTimeout time.Duration) *ConverterService {
	if stageTimeout <= 0 {
		stageTimeout = 2 * time.Minute
	}
	return &ConverterService{gateway: gw, stageTimeout: stageTimeout}
}

type fieldEnvelope struct {
	Fields []models.FieldSpec `json:"fields"`
}

// ExtractFields runs the analysis stage against the source document and
// returns the detected fields in reading order.
func (s *ConverterService) ExtractFields(ctx context.Context, src []byte, kind models.MediaKind) ([]models.FieldSpec, error) {
	ctx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	raw, err := s.gateway.Generate(ctx, prompts.Analyzer(), &gateway.Attachment{Bytes: src, Kind: kind})
	if err != nil {
		return nil, fmt.Errorf("analyze form: %w", err)
	}

	cleaned := Sanitize(raw, PayloadJSON)
	var envelope fieldEnvelope
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal field specs. Raw response:\n%s\n", raw)
		return nil, fmt.Errorf("%w: %v", ErrExtractionParse, err)
	}
	if envelope.Fields == nil {
		return nil, fmt.Errorf("%w: response carries no fields array", ErrExtractionParse)
	}
	if len(envelope.Fields) == 0 {
		return nil, ErrExtractionEmpty
	}

	for i := range envelope.Fields {
		field := &envelope.Fields[i]
		field.Kind = models.InputKind(strings.ToLower(strings.TrimSpace(string(field.Kind))))
		if strings.TrimSpace(field.SuggestedLabel) == "" {
			return nil, fmt.Errorf("%w: field %d has no suggested label", ErrExtractionParse, i)
		}
	}

	return envelope.Fields, nil
}

// BuildSchema runs the builder stage over extracted field specifications
// and validates the returned question sequence. Validation never repairs:
// a schema that violates the catalog rules is returned as an error
// carrying every violation.
func (s *ConverterService) BuildSchema(ctx context.Context, fields []models.FieldSpec) ([]models.Question, error) {
	specJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal field specs: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	raw, err := s.gateway.Generate(ctx, prompts.Builder(string(specJSON)), nil)
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}

	cleaned := Sanitize(raw, PayloadJSON)
	var questions []models.Question
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal question schema. Raw response:\n%s\n", raw)
		return nil, fmt.Errorf("%w: %v", ErrSchemaParse, err)
	}

	if err := models.ValidateQuestions(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Convert runs both stages and returns the built schema.
func (s *ConverterService) Convert(ctx context.Context, src []byte, kind models.MediaKind) ([]models.Question, error) {
	return s.ConvertWithProgress(ctx, src, kind, nil)
}

// ConvertWithProgress runs both stages, reporting step progress along the way.
func (s *ConverterService) ConvertWithProgress(ctx context.Context, src []byte, kind models.MediaKind, progress ProgressCallback) ([]models.Question, error) {
	if progress != nil {
		progress("extract", "Detecting form fields", 10, 100)
	}
	fields, err := s.ExtractFields(ctx, src, kind)
	if err != nil {
		return nil, err
	}

	if progress != nil {
		progress("build", fmt.Sprintf("Building schema from %d fields", len(fields)), 55, 100)
	}
	return s.BuildSchema(ctx, fields)
}
