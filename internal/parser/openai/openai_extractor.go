package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"sdsposter/internal/config"
	"sdsposter/internal/domain"
	"sdsposter/internal/parser"
	"sdsposter/internal/port"
)

const (
	providerName = "openai"
	apiURL       = "https://api.openai.com/v1/chat/completions"
	defaultModel = "gpt-4o"
)

func init() {
	parser.RegisterProvider(providerName, func(cfg *config.ParserConfig) (port.Extractor, error) {
		return NewExtractor(cfg), nil
	})
}

// Extractor implements port.Extractor using the OpenAI Chat Completions API.
type Extractor struct {
	model           string
	endpoint        string
	maxOutputTokens int
	client          *http.Client
}

// NewExtractor creates an OpenAI-based extractor from the parser config.
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

	messages := make([]map[string]interface{}, 0, 2)
	if req.SystemInstruction != "" {
		messages = append(messages, map[string]interface{}{
			"role":    "system",
			"content": req.SystemInstruction,
		})
	}
	messages = append(messages, map[string]interface{}{
		"role":    "user",
		"content": contentBlocks,
	})

	reqBody := map[string]interface{}{
		"model":                 e.model,
		"max_completion_tokens": e.maxOutputTokens,
		"temperature":           req.Temperature,
		"messages":              messages,
		"response_format":       responseFormat(req),
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
	httpReq.Header.Set("Authorization", "Bearer "+credential)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, errorMessage(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
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

// responseFormat asks for JSON constrained by the request schema. strict is
// off because strict mode requires every property to be listed as required.
func responseFormat(req port.ExtractionRequest) map[string]interface{} {
	if req.Schema == nil {
		return map[string]interface{}{"type": "json_object"}
	}
	return map[string]interface{}{
		"type": "json_schema",
		"json_schema": map[string]interface{}{
			"name":   "hazard_record",
			"strict": false,
			"schema": req.Schema.JSONSchema(),
		},
	}
}

func buildContentBlocks(req port.ExtractionRequest) ([]map[string]interface{}, error) {
	mimeType := req.Document.MIMEType
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(req.Document.Bytes))
	var blocks []map[string]interface{}

	switch mimeType {
	case "application/pdf":
		blocks = append(blocks, map[string]interface{}{
			"type": "file",
			"file": map[string]interface{}{
				"filename":  "sds.pdf",
				"file_data": dataURI,
			},
		})
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		blocks = append(blocks, map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]interface{}{
				"url": dataURI,
			},
		})
	default:
		return nil, fmt.Errorf("unsupported content type for extraction: %s", mimeType)
	}

	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": req.Prompt,
	})

	return blocks, nil
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func errorMessage(body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return parser.Truncate(string(body), 500)
}

func responseText(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from API: no choices")
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "length" {
		return "", errors.New("output truncated (finish_reason: length): response exceeded output token limit")
	}
	if choice.Message.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", parser.Truncate(choice.Message.Refusal, 200))
	}
	return choice.Message.Content, nil
}
