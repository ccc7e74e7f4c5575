package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"mathtutor-backend/internal/logging"
	"mathtutor-backend/internal/models"
)

type GeminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// ErrLastTurnNotUser means the conversation does not end with a user turn.
// The chat session would send such a turn as role user, so it is refused.
var ErrLastTurnNotUser = errors.New("last turn must have role user")

// NewGeminiService creates the Gemini client. Extra options (endpoint, HTTP
// client) are appended after the API key.
func NewGeminiService(apiKey, modelName string, opts ...option.ClientOption) (*GeminiService, error) {
	ctx := context.Background()
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// GenerateReply sends the whole conversation in one generateContent call and
// returns the concatenated answer text. The last turn goes out as the new
// message, every earlier turn as chat history, so the last turn must be a
// user turn.
func (s *GeminiService) GenerateReply(ctx context.Context, contents []models.Turn) (string, error) {
	if len(contents) == 0 {
		return "", errors.New("no contents to send")
	}
	if role := contents[len(contents)-1].Role; role != models.RoleUser {
		return "", fmt.Errorf("Gemini request: %w (got %q)", ErrLastTurnNotUser, role)
	}

	history := toGenaiContents(contents)
	last := history[len(history)-1]

	cs := s.model.StartChat()
	cs.History = history[:len(history)-1]

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	log := logging.GetLogger()
	for i, cand := range resp.Candidates {
		log.Debugf("Gemini Candidate %d: FinishReason=%s, TokenCount=%d", i, cand.FinishReason, cand.TokenCount)
		if cand.FinishReason != genai.FinishReasonStop {
			log.Warnf("Gemini stopped due to %s", cand.FinishReason)
		}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("Gemini response: %w", ErrEmptyResponse)
	}
	return text, nil
}

// Helper functions

func toGenaiContents(turns []models.Turn) []*genai.Content {
	out := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		out = append(out, &genai.Content{
			Role:  t.Role,
			Parts: toGenaiParts(t.Parts),
		})
	}
	return out
}

func toGenaiParts(parts []models.Part) []genai.Part {
	out := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.InlineData != nil {
			out = append(out, genai.Blob{MIMEType: p.InlineData.MimeType, Data: p.InlineData.Data})
		}
		if p.Text != "" {
			out = append(out, genai.Text(p.Text))
		}
	}
	return out
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
