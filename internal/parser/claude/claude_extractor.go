package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sdsposter/internal/config"
	"sdsposter/internal/domain"
	"sdsposter/internal/parser"
	"sdsposter/internal/port"
)

const (
	providerName = "claude"
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"

	// toolName is the forced tool whose input carries the structured record.
	toolName = "record_hazard_summary"
)

func init() {
	parser.RegisterProvider(providerName, func(cfg *config.ParserConfig) (port.Extractor, error) {
		return NewExtractor(cfg), nil
	})
}

// Extractor implements port.Extractor using the Anthropic Messages API. The
// schema is enforced through a forced tool call.
type Extractor struct {
	model           string
	endpoint        string
	maxOutputTokens int
	client          *http.Client
}

// NewExtractor creates a Claude-based extractor from the parser config.
func NewExtractor(cfg *config.ParserConfig) *Extractor {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	return newExtractor(cfg, endpoint)
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom API endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ParserConfig, endpoint string) *Extractor {
	return newExtractor(cfg, endpoint)
}

func newExtractor(cfg *config.ParserConfig, endpoint string) *Extractor {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}
	return &Extractor{
		model:           model,
		endpoint:        endpoint,
		maxOutputTokens: maxTokens,
		client:          &http.Client{Timeout: timeout},
	}
}

// Model returns the model name requests are sent to.
func (e *Extractor) Model() string {
	return e.model
}

func (e *Extractor) Extract(ctx context.Context, req port.ExtractionRequest, credential string) (*domain.HazardRecord, error) {
	if credential == "" {
		return nil, domain.NewMissingCredentialError()
	}

	record, err := e.extract(ctx, req, credential)
	if err != nil {
		return nil, domain.NewExtractionError(providerName, err)
	}
	return record, nil
}

func (e *Extractor) extract(ctx context.Context, req port.ExtractionRequest, credential string) (*domain.HazardRecord, error) {
	contentBlocks, err := buildContentBlocks(req)
	if err != nil {
		return nil, fmt.Errorf("building content blocks: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":       e.model,
		"max_tokens":  e.maxOutputTokens,
		"temperature": req.Temperature,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
		},
	}
	if req.SystemInstruction != "" {
		reqBody["system"] = req.SystemInstruction
	}
	if req.Schema != nil {
		reqBody["tools"] = []map[string]interface{}{
			{
				"name":         toolName,
				"description":  "Record the trilingual hazard summary of the safety data sheet.",
				"input_schema": req.Schema.JSONSchema(),
			},
		}
		reqBody["tool_choice"] = map[string]interface{}{"type": "tool", "name": toolName}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", credential)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, errorMessage(respBody))
		// 529 is Anthropic's "overloaded"; it is as retryable as a 429.
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 529 {
			retryAfter := parser.ParseRetryAfterHeader(resp.Header.Get("Retry-After"), time.Now())
			return nil, parser.NewRateLimitError(providerName, baseErr, retryAfter)
		}
		return nil, baseErr
	}

	text, err := responseText(respBody)
	if err != nil {
		return nil, err
	}
	return parser.DecodeHazardRecord(text)
}

func buildContentBlocks(req port.ExtractionRequest) ([]map[string]interface{}, error) {
	encoded := base64.StdEncoding.EncodeToString(req.Document.Bytes)
	var blocks []map[string]interface{}

	switch req.Document.MIMEType {
	case "application/pdf":
		blocks = append(blocks, map[string]interface{}{
			"type": "document",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": "application/pdf",
				"data":       encoded,
			},
		})
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		blocks = append(blocks, map[string]interface{}{
			"type": "image",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": req.Document.MIMEType,
				"data":       encoded,
			},
		})
	default:
		return nil, fmt.Errorf("unsupported content type for extraction: %s", req.Document.MIMEType)
	}

	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": req.Prompt,
	})

	return blocks, nil
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type  string          `json:"type"`
		Text  string          `json:"text"`
		Name  string          `json:"name"`
		Input json.RawMessage `json:"input"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorMessage(body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Type + ": " + apiErr.Error.Message
	}
	return parser.Truncate(string(body), 500)
}

// responseText returns the forced tool input as JSON text, falling back to
// the concatenated text blocks when the model answered in prose.
func responseText(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", errors.New("empty response from API")
	}

	if resp.StopReason == "max_tokens" {
		return "", errors.New("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	var text strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "tool_use":
			if block.Name == toolName && len(block.Input) > 0 {
				return string(block.Input), nil
			}
		case "text":
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}
