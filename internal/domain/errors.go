package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrTooManyPages        = errors.New("document exceeds maximum allowed page count")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrUnknownPictogram    = errors.New("unknown pictogram code")
	ErrNoCurrentRecord     = errors.New("no hazard record for this session")
	ErrStaleExtraction     = errors.New("extraction superseded by a newer upload")
	ErrMissingSession      = errors.New("missing session id")

	ErrConfiguration = errors.New("configuration error")
	ErrExtraction    = errors.New("extraction failed")
)

// ConfigurationError reports a precondition the caller has to fix before an
// extraction can run, such as a missing API key.
type ConfigurationError struct {
	Setting string
}

// NewMissingCredentialError returns the error raised when no API key is available.
func NewMissingCredentialError() *ConfigurationError {
	return &ConfigurationError{Setting: "extraction API key"}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Setting)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ExtractionError wraps any failure of the extraction backend: transport
// errors, rejected credentials, exhausted quota, or output that is not
// conformant JSON.
type ExtractionError struct {
	Provider string
	Err      error
}

// NewExtractionError wraps err as an ExtractionError for the named provider.
func NewExtractionError(provider string, err error) *ExtractionError {
	return &ExtractionError{Provider: provider, Err: err}
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s extraction failed", e.Provider)
	}
	return fmt.Sprintf("%s extraction failed: %v", e.Provider, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}
