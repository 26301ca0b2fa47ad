package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// VertexGateway serves generation through a Vertex AI Gemini model.
// Attachments travel as inline blob parts ahead of the prompt text.
type VertexGateway struct {
	client *genai.Client
	model  string
}

func NewVertexGateway(ctx context.Context, projectID, region, model string) (*VertexGateway, error) {
	if projectID == "" || region == "" {
		return nil, errors.New("vertex provider requires a project id and region")
	}
	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}
	return &VertexGateway{client: client, model: model}, nil
}

func (g *VertexGateway) Generate(ctx context.Context, prompt string, att *Attachment) (string, error) {
	if err := att.validate(); err != nil {
		return "", err
	}

	model := g.client.GenerativeModel(g.model)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.0),
	}

	parts := make([]genai.Part, 0, 2)
	if att != nil {
		parts = append(parts, genai.Blob{MIMEType: string(att.Kind), Data: att.Bytes})
	}
	parts = append(parts, genai.Text(prompt))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", classify(err)
	}
	text := candidateText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: no text parts", ErrMalformedResponse)
	}
	return text, nil
}

func (g *VertexGateway) Close() error {
	return g.client.Close()
}

// candidateText concatenates the text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
