package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"sdsposter/internal/domain"
	"sdsposter/internal/port"
)

type pictogramOverrideRepo struct {
	db *sqlx.DB
}

// NewPictogramOverrideRepo creates a new PostgreSQL-backed PictogramOverrideRepository.
func NewPictogramOverrideRepo(db *sqlx.DB) port.PictogramOverrideRepository {
	return &pictogramOverrideRepo{db: db}
}

// Upsert replaces the override for override.Code and returns the row it
// replaced, if any. The old row is read under FOR UPDATE so concurrent
// uploads for the same code each see the object they displaced.
func (r *pictogramOverrideRepo) Upsert(ctx context.Context, override *domain.PictogramOverride) (*domain.PictogramOverride, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("pictogramOverrideRepo.Upsert begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var previous *domain.PictogramOverride
	var existing domain.PictogramOverride
	err = tx.GetContext(ctx, &existing,
		"SELECT * FROM pictogram_overrides WHERE code = $1 FOR UPDATE", override.Code)
	switch {
	case err == nil:
		previous = &existing
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, fmt.Errorf("pictogramOverrideRepo.Upsert select: %w", err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO pictogram_overrides (code, s3_bucket, s3_key, content_type, file_size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (code) DO UPDATE SET
			s3_bucket = EXCLUDED.s3_bucket,
			s3_key = EXCLUDED.s3_key,
			content_type = EXCLUDED.content_type,
			file_size = EXCLUDED.file_size,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at`

	err = tx.QueryRowxContext(ctx, query,
		override.Code, override.S3Bucket, override.S3Key, override.ContentType, override.FileSize, now,
	).Scan(&override.CreatedAt, &override.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("pictogramOverrideRepo.Upsert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("pictogramOverrideRepo.Upsert commit: %w", err)
	}
	return previous, nil
}

func (r *pictogramOverrideRepo) GetByCode(ctx context.Context, code domain.PictogramCode) (*domain.PictogramOverride, error) {
	var override domain.PictogramOverride
	err := r.db.GetContext(ctx, &override, "SELECT * FROM pictogram_overrides WHERE code = $1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("pictogramOverrideRepo.GetByCode: %w", err)
	}
	return &override, nil
}

func (r *pictogramOverrideRepo) List(ctx context.Context) ([]domain.PictogramOverride, error) {
	var overrides []domain.PictogramOverride
	err := r.db.SelectContext(ctx, &overrides, "SELECT * FROM pictogram_overrides ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("pictogramOverrideRepo.List: %w", err)
	}
	return overrides, nil
}

func (r *pictogramOverrideRepo) Delete(ctx context.Context, code domain.PictogramCode) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM pictogram_overrides WHERE code = $1", code)
	if err != nil {
		return fmt.Errorf("pictogramOverrideRepo.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pictogramOverrideRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
