// Package gateway sends multimodal generation requests to a remote model
// provider. Implementations never retry and never stream; the caller's
// context carries the deadline for every call.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"paperform/internal/models"
)

var (
	// ErrTimeout is returned when the provider does not answer within the
	// caller's deadline.
	ErrTimeout = errors.New("model gateway: request timed out")
	// ErrUnavailable is returned on transport or authentication failure.
	ErrUnavailable = errors.New("model gateway: provider unavailable")
	// ErrMalformedResponse is returned when the provider answers but the
	// response envelope carries no usable text.
	ErrMalformedResponse = errors.New("model gateway: malformed provider response")
)

// Attachment is a binary document forwarded to the model alongside the
// prompt text.
type Attachment struct {
	Bytes []byte
	Kind  models.MediaKind
}

// Gateway is the surface the conversion stages need from a multimodal
// model provider: one prompt, an optional attachment, raw text back.
type Gateway interface {
	Generate(ctx context.Context, prompt string, att *Attachment) (string, error)
}

// validate rejects unsupported attachment kinds before any network call.
func (a *Attachment) validate() error {
	if a == nil {
		return nil
	}
	if !a.Kind.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnsupportedMedia, string(a.Kind))
	}
	return nil
}

// classify maps provider call failures onto the gateway error taxonomy.
// Caller-initiated cancellation passes through untouched so it stays
// distinguishable from provider trouble.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
