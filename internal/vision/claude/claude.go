package claude

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/folio/internal/vision"
)

// maxTokens leaves room for a short title and nothing else.
const maxTokens = 64

type Suggester struct {
	client *anthropic.Client
	model  string
}

func NewSuggester(apiKey, model string) *Suggester {
	return &Suggester{client: anthropic.NewClient(apiKey), model: model}
}

// newSuggesterWithBaseURL points the client at a different API root (tests).
func newSuggesterWithBaseURL(apiKey, model, baseURL string) *Suggester {
	return &Suggester{client: anthropic.NewClient(apiKey, anthropic.WithBaseURL(baseURL)), model: model}
}

func (s *Suggester) SuggestTitle(ctx context.Context, r io.Reader, mimeType string) (string, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := s.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(s.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{{
			Role: anthropic.RoleUser,
			Content: []anthropic.MessageContent{
				anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
					anthropic.MessagesContentSourceTypeBase64,
					normaliseMIME(mimeType),
					base64.StdEncoding.EncodeToString(imageData),
				)),
				anthropic.NewTextMessageContent(vision.TitlePrompt),
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	return vision.ParseTitle(resp.GetFirstContentText()), nil
}

// normaliseMIME maps browser MIME types to the values the Anthropic API accepts.
// The Anthropic API accepts only jpeg, png, gif, and webp. Unknown types are
// coerced to jpeg.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
