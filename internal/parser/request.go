package parser

import (
	"sync"

	"sdsposter/internal/port"
	"sdsposter/internal/schema"
)

// Temperature keeps the backend close to deterministic.
const Temperature = 0.1

var (
	systemInstructionOnce sync.Once
	systemInstruction     string
)

// BuildRequest assembles the extraction request for one document. It does no
// I/O and never fails; MIME type support is checked by the backend.
func BuildRequest(documentBytes []byte, mimeType string) port.ExtractionRequest {
	systemInstructionOnce.Do(func() {
		systemInstruction = BuildSystemInstruction()
	})
	return port.ExtractionRequest{
		Document: port.Document{
			Bytes:    documentBytes,
			MIMEType: mimeType,
		},
		SystemInstruction: systemInstruction,
		Prompt:            UserPrompt,
		Schema:            schema.HazardRecord(),
		Temperature:       Temperature,
	}
}
