package port

import (
	"context"

	"sdsposter/internal/domain"
	"sdsposter/internal/schema"
)

// Document is an uploaded safety data sheet held in memory. Its bytes are
// never written to durable storage.
type Document struct {
	Bytes    []byte
	MIMEType string
}

// ExtractionRequest is the full, backend-neutral description of one
// extraction call.
type ExtractionRequest struct {
	Document          Document
	SystemInstruction string
	Prompt            string
	Schema            *schema.Schema
	Temperature       float64
}

// Extractor turns a document into a raw hazard record using an LLM backend.
// An empty credential fails with *domain.ConfigurationError before any
// network traffic; every backend failure is a *domain.ExtractionError.
// The returned record is raw: text fields may be empty.
type Extractor interface {
	Extract(ctx context.Context, req ExtractionRequest, credential string) (*domain.HazardRecord, error)
}
