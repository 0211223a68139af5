package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sdsposter/internal/domain"
	"sdsposter/internal/service"
)

// MockPictogramService is a mock implementation of service.PictogramService.
type MockPictogramService struct {
	mock.Mock
}

func (m *MockPictogramService) List(ctx context.Context) ([]service.PictogramView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.PictogramView), args.Error(1)
}

func (m *MockPictogramService) Overrides(ctx context.Context) (domain.PictogramOverrides, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.PictogramOverrides), args.Error(1)
}

func (m *MockPictogramService) SetOverride(ctx context.Context, input service.PictogramUploadInput) (*service.PictogramView, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PictogramView), args.Error(1)
}

func (m *MockPictogramService) DeleteOverride(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}
