package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGateway serves generation through an OpenAI-compatible chat
// completion endpoint. Attachments travel inline as base64 data URLs.
type OpenAIGateway struct {
	client *openai.Client
	model  string
}

func NewOpenAIGateway(apiKey, model, endpoint string) (*OpenAIGateway, error) {
	if apiKey == "" {
		return nil, errors.New("openai provider requires an API key")
	}
	cfg := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		cfg.BaseURL = endpoint
	}
	return &OpenAIGateway{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (g *OpenAIGateway) Generate(ctx context.Context, prompt string, att *Attachment) (string, error) {
	if err := att.validate(); err != nil {
		return "", err
	}

	message := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if att == nil {
		message.Content = prompt
	} else {
		message.MultiContent = []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: dataURL(att),
				},
			},
			{
				Type: openai.ChatMessagePartTypeText,
				Text: prompt,
			},
		}
	}

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    []openai.ChatCompletionMessage{message},
		Temperature: 0.2,
		MaxTokens:   4096,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: empty message content", ErrMalformedResponse)
	}
	return content, nil
}

func dataURL(att *Attachment) string {
	return "data:" + string(att.Kind) + ";base64," + base64.StdEncoding.EncodeToString(att.Bytes)
}
