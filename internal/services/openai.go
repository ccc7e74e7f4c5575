package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"mathtutor-backend/internal/models"
)

// OpenAIService answers through any OpenAI-compatible chat completions API.
type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(apiKey, model, baseURL string) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (s *OpenAIService) GenerateReply(ctx context.Context, contents []models.Turn) (string, error) {
	if len(contents) == 0 {
		return "", errors.New("no contents to send")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: toOpenAIMessages(contents),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("OpenAI response: %w", ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(turns []models.Turn) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		msg := openai.ChatCompletionMessage{Role: openAIRole(t.Role)}
		if hasInlineData(t.Parts) {
			msg.MultiContent = toOpenAIParts(t.Parts)
		} else {
			msg.Content = joinText(t.Parts)
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func openAIRole(role string) string {
	if role == models.RoleModel {
		return openai.ChatMessageRoleAssistant
	}
	return openai.ChatMessageRoleUser
}

func hasInlineData(parts []models.Part) bool {
	for _, p := range parts {
		if p.InlineData != nil {
			return true
		}
	}
	return false
}

func joinText(parts []models.Part) string {
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// toOpenAIParts turns inline blobs into data URLs next to the text parts.
func toOpenAIParts(parts []models.Part) []openai.ChatMessagePart {
	out := make([]openai.ChatMessagePart, 0, len(parts))
	for _, p := range parts {
		if p.InlineData != nil {
			url := "data:" + p.InlineData.MimeType + ";base64," + base64.StdEncoding.EncodeToString(p.InlineData.Data)
			out = append(out, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: url},
			})
		}
		if p.Text != "" {
			out = append(out, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: p.Text,
			})
		}
	}
	return out
}
