package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fjacquet/treasury-docs/internal/logging"
	"fjacquet/treasury-docs/internal/models"
)

// GeminiClient implements ModelClient against the Google Gemini API.
type GeminiClient struct {
	model  *genai.GenerativeModel
	client *genai.Client
	logger logging.Logger
}

// NewGeminiClient creates a Gemini-backed model client. The API key
// comes from configuration (GEMINI_API_KEY); modelName selects the
// generative model, e.g. "gemini-2.0-flash".
func NewGeminiClient(ctx context.Context, apiKey, modelName string, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not set")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{
		model:  client.GenerativeModel(modelName),
		client: client,
		logger: logger,
	}, nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Classify prompts the model for a category and subcategory.
func (c *GeminiClient) Classify(ctx context.Context, req ModelRequest) (ModelResponse, error) {
	prompt := fmt.Sprintf(`Classify the following public finance transaction:
Description: %s
Amount: %s
Account: %s

Assign exactly one of the following categories:
%s

Respond in this format:
Category: [Selected Category Name]
Subcategory: [Short subcategory label]`,
		req.Description,
		req.Amount.StringFixed(2),
		req.AccountSummary,
		strings.Join(categoryNames(), ", "))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ModelResponse{}, fmt.Errorf("gemini api error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ModelResponse{}, fmt.Errorf("empty response from gemini api")
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	parsed := parseModelResponse(text)

	c.logger.Debug("Gemini classification response",
		logging.Field{Key: "category", Value: parsed.Category},
		logging.Field{Key: "subcategory", Value: parsed.Subcategory})
	return parsed, nil
}

// parseModelResponse extracts the labeled lines from the model output.
func parseModelResponse(text string) ModelResponse {
	var resp ModelResponse
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Category:"):
			resp.Category = strings.TrimSpace(strings.TrimPrefix(line, "Category:"))
		case strings.HasPrefix(line, "Subcategory:"):
			resp.Subcategory = strings.TrimSpace(strings.TrimPrefix(line, "Subcategory:"))
		}
	}
	return resp
}

func categoryNames() []string {
	return []string{
		string(models.CategoryOperating),
		string(models.CategoryCapital),
		string(models.CategoryVendor),
		string(models.CategoryPersonnel),
		string(models.CategoryAdministrative),
		string(models.CategoryInterest),
		string(models.CategoryPrincipalRepayment),
		string(models.CategoryOther),
	}
}
