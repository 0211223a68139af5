package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdsposter/internal/config"
	"sdsposter/internal/domain"
	"sdsposter/internal/parser"
	"sdsposter/internal/parser/claude"
)

func newTestExtractor(serverURL string) *claude.Extractor {
	cfg := &config.ParserConfig{
		Provider:    "claude",
		TimeoutSecs: 30,
	}
	return claude.NewExtractorWithEndpoint(cfg, serverURL)
}

func toolUseResponse(input string) string {
	return `{"content":[{"type":"tool_use","id":"toolu_01","name":"record_hazard_summary","input":` + input + `}],"stop_reason":"tool_use"}`
}

func TestExtractor_Extract_ToolUse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anthropic-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		assert.Equal(t, 0.1, reqBody["temperature"])
		assert.Contains(t, reqBody["system"], "GHS-04")

		tools := reqBody["tools"].([]interface{})
		assert.Len(t, tools, 1)
		tool := tools[0].(map[string]interface{})
		assert.Equal(t, "record_hazard_summary", tool["name"])
		assert.Equal(t, "object", tool["input_schema"].(map[string]interface{})["type"])

		choice := reqBody["tool_choice"].(map[string]interface{})
		assert.Equal(t, "tool", choice["type"])

		messages := reqBody["messages"].([]interface{})
		blocks := messages[0].(map[string]interface{})["content"].([]interface{})
		assert.Equal(t, "document", blocks[0].(map[string]interface{})["type"])

		_, _ = w.Write([]byte(toolUseResponse(`{"firstAid":{"eyes":{"ja":"水で洗う","en":"Rinse with water","vi":"Rửa bằng nước"}}}`)))
	}))
	defer server.Close()

	record, err := newTestExtractor(server.URL).Extract(context.Background(), parser.BuildRequest([]byte("%PDF"), "application/pdf"), "anthropic-key")

	require.NoError(t, err)
	assert.Equal(t, "Rinse with water", record.FirstAid.Eyes.EN)
}

func TestExtractor_Extract_TextFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"` + "```json\\n{\\\"disposal\\\":{\\\"method\\\":{\\\"en\\\":\\\"Incinerate\\\"}}}\\n```" + `"}],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	record, err := newTestExtractor(server.URL).Extract(context.Background(), parser.BuildRequest([]byte("img"), "image/png"), "k")

	require.NoError(t, err)
	assert.Equal(t, "Incinerate", record.Disposal.Method.EN)
}

func TestExtractor_Extract_Overloaded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "4")
		w.WriteHeader(529)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), parser.BuildRequest([]byte("x"), "application/pdf"), "k")

	assert.ErrorIs(t, err, domain.ErrExtraction)
	rl, ok := parser.AsRateLimit(err)
	require.True(t, ok)
	assert.Equal(t, "claude", rl.Provider)
	assert.Contains(t, err.Error(), "overloaded_error: Overloaded")
}

func TestExtractor_Extract_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`},
		{"empty content", http.StatusOK, `{"content":[],"stop_reason":"end_turn"}`},
		{"max tokens", http.StatusOK, `{"content":[{"type":"text","text":"{"}],"stop_reason":"max_tokens"}`},
		{"schema mismatch", http.StatusOK, toolUseResponse(`{"hazards":{"ghsPictograms":[7]}}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestExtractor(server.URL).Extract(context.Background(), parser.BuildRequest([]byte("x"), "application/pdf"), "k")

			assert.ErrorIs(t, err, domain.ErrExtraction)
		})
	}
}

func TestExtractor_Extract_MissingCredential(t *testing.T) {
	_, err := newTestExtractor("http://127.0.0.1:0").Extract(context.Background(), parser.BuildRequest([]byte("x"), "application/pdf"), "")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
