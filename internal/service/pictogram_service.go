package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"sdsposter/internal/config"
	"sdsposter/internal/domain"
	"sdsposter/internal/port"
)

const (
	overridesCacheKey  = "overrides"
	imageCacheControl  = "public, max-age=31536000, immutable"
	maxOverridesMaxAge = 5 * time.Minute
)

// PictogramUploadInput is the DTO for a custom pictogram upload.
type PictogramUploadInput struct {
	Code string
	Body io.Reader
}

// PictogramView describes one of the nine pictograms together with the
// image that is currently in effect for it.
type PictogramView struct {
	Code        domain.PictogramCode   `json:"code"`
	Label       string                 `json:"label"`
	LabelJA     string                 `json:"label_ja"`
	DefaultURL  string                 `json:"default_url"`
	OverrideURL string                 `json:"override_url,omitempty"`
	ImageURL    string                 `json:"image_url"`
	Source      domain.PictogramSource `json:"source"`
	UpdatedAt   *time.Time             `json:"updated_at,omitempty"`
}

// PictogramService manages the custom pictogram table.
type PictogramService interface {
	List(ctx context.Context) ([]PictogramView, error)
	Overrides(ctx context.Context) (domain.PictogramOverrides, error)
	SetOverride(ctx context.Context, input PictogramUploadInput) (*PictogramView, error)
	DeleteOverride(ctx context.Context, code string) error
}

type pictogramService struct {
	repo      port.PictogramOverrideRepository
	storage   port.ObjectStorage
	s3Cfg     *config.S3Config
	uploadCfg *config.UploadConfig
	cache     *gocache.Cache
}

// NewPictogramService creates a new PictogramService implementation. The
// resolved override table is cached for at most half the presign expiry so
// cached URLs never outlive their signatures.
func NewPictogramService(
	repo port.PictogramOverrideRepository,
	storage port.ObjectStorage,
	s3Cfg *config.S3Config,
	uploadCfg *config.UploadConfig,
) PictogramService {
	ttl := time.Duration(s3Cfg.PresignExpiry) * time.Second / 2
	if ttl <= 0 || ttl > maxOverridesMaxAge {
		ttl = maxOverridesMaxAge
	}
	return &pictogramService{
		repo:      repo,
		storage:   storage,
		s3Cfg:     s3Cfg,
		uploadCfg: uploadCfg,
		cache:     gocache.New(ttl, 2*ttl),
	}
}

func (s *pictogramService) List(ctx context.Context) ([]PictogramView, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pictogram overrides: %w", err)
	}
	byCode := make(map[domain.PictogramCode]domain.PictogramOverride, len(rows))
	for _, row := range rows {
		byCode[row.Code] = row
	}

	overrides, err := s.Overrides(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]PictogramView, 0, len(domain.Pictograms()))
	for _, p := range domain.Pictograms() {
		view := newPictogramView(p, overrides)
		if row, ok := byCode[p.Code]; ok {
			updated := row.UpdatedAt
			view.UpdatedAt = &updated
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *pictogramService) Overrides(ctx context.Context) (domain.PictogramOverrides, error) {
	if v, ok := s.cache.Get(overridesCacheKey); ok {
		return v.(domain.PictogramOverrides), nil
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pictogram overrides: %w", err)
	}

	overrides := make(domain.PictogramOverrides, len(rows))
	for _, row := range rows {
		url, err := s.storage.GetPresignedURL(ctx, row.S3Bucket, row.S3Key, s.s3Cfg.PresignExpiry)
		if err != nil {
			log.Printf("pictogramService.Overrides: presigning %s failed, using default image: %v", row.Code, err)
			continue
		}
		overrides[row.Code] = url
	}

	s.cache.SetDefault(overridesCacheKey, overrides)
	return overrides, nil
}

func (s *pictogramService) SetOverride(ctx context.Context, input PictogramUploadInput) (*PictogramView, error) {
	code, err := domain.ParsePictogramCode(input.Code)
	if err != nil {
		return nil, err
	}

	maxBytes := s.uploadCfg.MaxImageSize()
	data, err := io.ReadAll(io.LimitReader(input.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading pictogram image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, domain.ErrUnsupportedFileType
	}

	contentType, ext, ok := detectPictogramImage(data)
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	key := fmt.Sprintf("%s/%s/%s%s", s.s3Cfg.KeyPrefix, code, uuid.New(), ext)
	log.Printf("pictogramService.SetOverride: uploading %s image (%s, %d bytes)", code, contentType, len(data))

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:       s.s3Cfg.Bucket,
		Key:          key,
		Body:         bytes.NewReader(data),
		ContentType:  contentType,
		CacheControl: imageCacheControl,
		Size:         int64(len(data)),
	})
	if err != nil {
		log.Printf("pictogramService.SetOverride: S3 upload failed for %s: %v", code, err)
		return nil, domain.ErrUploadFailed
	}

	override := &domain.PictogramOverride{
		Code:        code,
		S3Bucket:    s.s3Cfg.Bucket,
		S3Key:       key,
		ContentType: contentType,
		FileSize:    int64(len(data)),
	}
	previous, err := s.repo.Upsert(ctx, override)
	if err != nil {
		log.Printf("pictogramService.SetOverride: saving override for %s failed: %v", code, err)
		if delErr := s.storage.Delete(ctx, s.s3Cfg.Bucket, key); delErr != nil {
			log.Printf("pictogramService.SetOverride: cleanup of %s failed: %v", key, delErr)
		}
		return nil, fmt.Errorf("saving pictogram override: %w", err)
	}
	s.cache.Delete(overridesCacheKey)

	if previous != nil && previous.S3Key != key {
		if err := s.storage.Delete(ctx, previous.S3Bucket, previous.S3Key); err != nil {
			log.Printf("pictogramService.SetOverride: deleting replaced image %s failed: %v", previous.S3Key, err)
		}
	}

	url, err := s.storage.GetPresignedURL(ctx, override.S3Bucket, override.S3Key, s.s3Cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning pictogram image: %w", err)
	}

	p, _ := domain.LookupPictogram(code)
	view := newPictogramView(p, domain.PictogramOverrides{code: url})
	if !override.UpdatedAt.IsZero() {
		updated := override.UpdatedAt
		view.UpdatedAt = &updated
	}
	return &view, nil
}

func (s *pictogramService) DeleteOverride(ctx context.Context, rawCode string) error {
	code, err := domain.ParsePictogramCode(rawCode)
	if err != nil {
		return err
	}

	existing, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	log.Printf("pictogramService.DeleteOverride: removing custom image for %s", code)
	if err := s.repo.Delete(ctx, code); err != nil {
		return fmt.Errorf("deleting pictogram override: %w", err)
	}
	s.cache.Delete(overridesCacheKey)

	if err := s.storage.Delete(ctx, existing.S3Bucket, existing.S3Key); err != nil {
		log.Printf("pictogramService.DeleteOverride: failed to delete %s from S3: %v", existing.S3Key, err)
	}
	return nil
}

func newPictogramView(p domain.Pictogram, overrides domain.PictogramOverrides) PictogramView {
	view := PictogramView{
		Code:        p.Code,
		Label:       p.Label,
		LabelJA:     p.LabelJA,
		DefaultURL:  p.DefaultURL,
		OverrideURL: overrides[p.Code],
	}
	view.ImageURL, view.Source, _ = domain.PictogramImage(p.Code, overrides)
	return view
}

func detectPictogramImage(data []byte) (contentType, ext string, ok bool) {
	detected := mimetype.Detect(data)
	for mt, e := range domain.AllowedPictogramImageTypes {
		if detected.Is(mt) {
			return mt, e, true
		}
	}
	return "", "", false
}
