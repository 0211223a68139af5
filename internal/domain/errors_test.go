package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"sdsposter/internal/domain"
)

func TestConfigurationError_IsSentinel(t *testing.T) {
	err := fmt.Errorf("extract: %w", domain.NewMissingCredentialError())

	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.NotErrorIs(t, err, domain.ErrExtraction)

	var cfgErr *domain.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "extraction API key is not configured", cfgErr.Error())
}

func TestExtractionError_WrapsCause(t *testing.T) {
	cause := errors.New("API key not valid")
	err := domain.NewExtractionError("gemini", cause)

	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrConfiguration)
	assert.Equal(t, "gemini extraction failed: API key not valid", err.Error())
	assert.Equal(t, "gemini extraction failed", domain.NewExtractionError("gemini", nil).Error())
}
