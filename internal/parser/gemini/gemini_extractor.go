package gemini

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
	providerName = "gemini"
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel = "gemini-2.5-pro"
)

func init() {
	parser.RegisterProvider(providerName, func(cfg *config.ParserConfig) (port.Extractor, error) {
		return NewExtractor(cfg), nil
	})
}

// Extractor implements port.Extractor using Google's Gemini generateContent API.
type Extractor struct {
	model           string
	endpoint        string
	maxOutputTokens int
	client          *http.Client
}

// NewExtractor creates a Gemini-based extractor. cfg.Endpoint, when set,
// replaces the public API URL.
func NewExtractor(cfg *config.ParserConfig) *Extractor {
	return newExtractor(cfg, cfg.Endpoint)
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
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
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
	if !supportedMIMEType(req.Document.MIMEType) {
		return nil, fmt.Errorf("unsupported content type for extraction: %s", req.Document.MIMEType)
	}

	bodyBytes, err := json.Marshal(e.buildBody(req))
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", credential)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, errorMessage(respBody))
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

func (e *Extractor) buildBody(req port.ExtractionRequest) map[string]interface{} {
	generationConfig := map[string]interface{}{
		"responseMimeType": "application/json",
		"temperature":      req.Temperature,
		"maxOutputTokens":  e.maxOutputTokens,
	}
	if req.Schema != nil {
		generationConfig["responseSchema"] = req.Schema.Gemini()
	}

	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"inline_data": map[string]interface{}{
							"mime_type": req.Document.MIMEType,
							"data":      base64.StdEncoding.EncodeToString(req.Document.Bytes),
						},
					},
					{
						"text": req.Prompt,
					},
				},
			},
		},
		"generationConfig": generationConfig,
	}
	if req.SystemInstruction != "" {
		body["systemInstruction"] = map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": req.SystemInstruction},
			},
		}
	}
	return body
}

func supportedMIMEType(mimeType string) bool {
	switch mimeType {
	case "application/pdf", "image/jpeg", "image/png", "image/webp", "image/heic", "image/heif":
		return true
	default:
		return false
	}
}

// apiResponse models the Gemini generateContent response.
type apiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// apiError models the error envelope returned with non-200 statuses.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func errorMessage(body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		if apiErr.Error.Status != "" {
			return apiErr.Error.Status + ": " + apiErr.Error.Message
		}
		return apiErr.Error.Message
	}
	return parser.Truncate(string(body), 500)
}

func responseText(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("empty response from API: no candidates")
	}

	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case "MAX_TOKENS":
		return "", errors.New("output truncated (finishReason: MAX_TOKENS): response exceeded output token limit")
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT":
		return "", fmt.Errorf("response withheld (finishReason: %s)", candidate.FinishReason)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
