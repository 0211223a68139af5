package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sdsposter/internal/domain"
)

// MockPictogramOverrideRepo is a mock implementation of port.PictogramOverrideRepository.
type MockPictogramOverrideRepo struct {
	mock.Mock
}

func (m *MockPictogramOverrideRepo) Upsert(ctx context.Context, override *domain.PictogramOverride) (*domain.PictogramOverride, error) {
	args := m.Called(ctx, override)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PictogramOverride), args.Error(1)
}

func (m *MockPictogramOverrideRepo) GetByCode(ctx context.Context, code domain.PictogramCode) (*domain.PictogramOverride, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PictogramOverride), args.Error(1)
}

func (m *MockPictogramOverrideRepo) List(ctx context.Context) ([]domain.PictogramOverride, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PictogramOverride), args.Error(1)
}

func (m *MockPictogramOverrideRepo) Delete(ctx context.Context, code domain.PictogramCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}
