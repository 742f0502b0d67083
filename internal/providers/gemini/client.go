package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"voxtype/internal/domain"
)

// DefaultPrompt instructs the model to emit an English transcript and nothing
// else, translating any non-English speech.
const DefaultPrompt = "Generate a transcript of the speech. Do not include any other text. " +
	"Output only in grammatically correct english. " +
	"IF YOU HEAR ANYTHING ELSE THAN ENGLISH, TRANSLATE IT TO ENGLISH."

const defaultModel = "gemini-2.5-flash"

// Config controls Gemini request settings.
type Config struct {
	Model  string
	Prompt string
}

// Client performs single transcription requests against the Gemini API. A new
// API client is built per call because the credential changes between retries.
type Client struct {
	cfg    Config
	logger *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, logger: logger}
}

// Generate uploads the WAV clip and asks the model for a transcript.
func (c *Client) Generate(ctx context.Context, apiKey string, audioPath string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", structured(err))
	}

	file, err := client.Files.UploadFromPath(ctx, audioPath, &genai.UploadFileConfig{
		MIMEType: "audio/wav",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", structured(err))
	}

	parts := []*genai.Part{
		genai.NewPartFromText(c.cfg.Prompt),
		genai.NewPartFromURI(file.URI, file.MIMEType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	response, err := client.Models.GenerateContent(ctx, c.cfg.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate transcript: %w", structured(err))
	}

	text := extractText(response)
	c.logger.Debug("gemini response received", zap.Int("length", len(text)))
	return text, nil
}

func extractText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 {
		return ""
	}
	candidate := response.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// structured converts an SDK error into a domain.APIError when it carries an
// HTTP-level status, so retry classification does not depend on error text.
func structured(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &domain.APIError{
			StatusCode: apiErr.Code,
			Status:     apiErr.Status,
			Message:    apiErr.Message,
		}
	}
	return err
}

