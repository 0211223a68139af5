package port

import (
	"context"

	"sdsposter/internal/domain"
)

// PictogramOverrideRepository persists the custom pictogram table. There is
// at most one override per code.
type PictogramOverrideRepository interface {
	Upsert(ctx context.Context, override *domain.PictogramOverride) (previous *domain.PictogramOverride, err error)
	GetByCode(ctx context.Context, code domain.PictogramCode) (*domain.PictogramOverride, error)
	List(ctx context.Context) ([]domain.PictogramOverride, error)
	Delete(ctx context.Context, code domain.PictogramCode) error
}
