package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"sdsposter/internal/domain"
	"sdsposter/internal/schema"
)

// ErrEmptyOutput is returned when the backend produced no text.
var ErrEmptyOutput = errors.New("empty output from model")

// DecodeHazardRecord parses model output into a raw record. Markdown code
// fences around the JSON are tolerated; the document must conform to the
// HazardRecord schema. Errors never quote the output, which carries document
// text.
func DecodeHazardRecord(text string) (*domain.HazardRecord, error) {
	text = strings.TrimSpace(text)
	if stripped := StripCodeFences(text); stripped != "" {
		text = stripped
	}
	if text == "" {
		return nil, ErrEmptyOutput
	}

	raw := []byte(text)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("parsing LLM JSON output: invalid JSON (%d bytes)", len(raw))
	}
	if err := schema.ValidateHazardRecord(raw); err != nil {
		return nil, err
	}

	var record domain.HazardRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("parsing LLM JSON output (%d bytes): %w", len(raw), err)
	}
	return &record, nil
}

// StripCodeFences removes a surrounding ``` or ```json fence. It returns ""
// when content is not fenced.
func StripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Truncate shortens s to at most maxLen bytes without splitting a rune.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	n := maxLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
