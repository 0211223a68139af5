package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sdsposter/internal/domain"
	"sdsposter/internal/port"
)

// MockExtractor is a mock implementation of port.Extractor.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, req port.ExtractionRequest, credential string) (*domain.HazardRecord, error) {
	args := m.Called(ctx, req, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HazardRecord), args.Error(1)
}
