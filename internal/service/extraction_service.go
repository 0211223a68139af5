package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"sdsposter/internal/config"
	"sdsposter/internal/domain"
	"sdsposter/internal/parser"
	"sdsposter/internal/port"
	"sdsposter/internal/session"
)

// ExtractionInput is the DTO for one SDS upload.
type ExtractionInput struct {
	SessionID  string
	Credential string
	FileName   string
	Body       io.Reader
}

// ExtractionResult is a session's current hazard record, ready to render.
type ExtractionResult struct {
	SessionID  string                     `json:"session_id"`
	Generation uint64                     `json:"generation"`
	Record     domain.HazardRecord        `json:"record"`
	Pictograms []domain.ResolvedPictogram `json:"pictograms"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

// ExtractionService runs extractions and owns each session's current record.
type ExtractionService interface {
	Extract(ctx context.Context, input ExtractionInput) (*ExtractionResult, error)
	Current(ctx context.Context, sessionID string) (*ExtractionResult, error)
	Reset(ctx context.Context, sessionID string) error
}

type extractionService struct {
	extractor     port.Extractor
	sessions      *session.Store
	pictograms    PictogramService
	parserCfg     *config.ParserConfig
	extractionCfg *config.ExtractionConfig
	uploadCfg     *config.UploadConfig
}

// NewExtractionService creates a new ExtractionService implementation.
// pictograms may be nil, in which case only default images are used.
func NewExtractionService(
	extractor port.Extractor,
	sessions *session.Store,
	pictograms PictogramService,
	parserCfg *config.ParserConfig,
	extractionCfg *config.ExtractionConfig,
	uploadCfg *config.UploadConfig,
) ExtractionService {
	return &extractionService{
		extractor:     extractor,
		sessions:      sessions,
		pictograms:    pictograms,
		parserCfg:     parserCfg,
		extractionCfg: extractionCfg,
		uploadCfg:     uploadCfg,
	}
}

func (s *extractionService) Extract(ctx context.Context, input ExtractionInput) (*ExtractionResult, error) {
	if input.SessionID == "" {
		return nil, domain.ErrMissingSession
	}

	credential := input.Credential
	if credential == "" {
		credential = s.parserCfg.APIKey
	}
	if credential == "" {
		return nil, domain.NewMissingCredentialError()
	}

	data, mimeType, err := s.readDocument(input.Body)
	if err != nil {
		return nil, err
	}
	if mimeType == "application/pdf" {
		if err := s.checkPageCount(data); err != nil {
			return nil, err
		}
	}

	log.Printf("extractionService.Extract: session %s extracting file %s (%s, %d bytes)",
		input.SessionID, fileTag(input.FileName), mimeType, len(data))

	req := parser.BuildRequest(data, mimeType)
	ticket := s.sessions.Begin(input.SessionID)

	started := time.Now()
	raw, err := s.extractWithRetry(ctx, req, credential)
	if err != nil {
		log.Printf("extractionService.Extract: session %s extraction failed after %s: %v",
			input.SessionID, time.Since(started).Round(time.Millisecond), err)
		return nil, err
	}

	record := domain.AssembleRecord(raw)
	if !s.sessions.Commit(ticket, record) {
		log.Printf("extractionService.Extract: session %s generation %d superseded, discarding result",
			input.SessionID, ticket.Generation)
		return nil, domain.ErrStaleExtraction
	}

	log.Printf("extractionService.Extract: session %s generation %d committed in %s",
		input.SessionID, ticket.Generation, time.Since(started).Round(time.Millisecond))

	return &ExtractionResult{
		SessionID:  input.SessionID,
		Generation: ticket.Generation,
		Record:     record,
		Pictograms: domain.ResolvePictograms(record.Hazards.GHSPictograms, s.overrides(ctx)),
		UpdatedAt:  time.Now(),
	}, nil
}

func (s *extractionService) Current(ctx context.Context, sessionID string) (*ExtractionResult, error) {
	if sessionID == "" {
		return nil, domain.ErrMissingSession
	}
	snap, ok := s.sessions.Current(sessionID)
	if !ok {
		return nil, domain.ErrNoCurrentRecord
	}
	return &ExtractionResult{
		SessionID:  sessionID,
		Generation: snap.Generation,
		Record:     snap.Record,
		Pictograms: domain.ResolvePictograms(snap.Record.Hazards.GHSPictograms, s.overrides(ctx)),
		UpdatedAt:  snap.UpdatedAt,
	}, nil
}

func (s *extractionService) Reset(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrMissingSession
	}
	log.Printf("extractionService.Reset: clearing session %s", sessionID)
	s.sessions.Reset(sessionID)
	return nil
}

// readDocument reads the whole upload into memory and identifies its type
// from content. The declared type of the upload is not trusted.
func (s *extractionService) readDocument(body io.Reader) ([]byte, string, error) {
	if body == nil {
		return nil, "", domain.ErrUnsupportedFileType
	}
	maxBytes := s.uploadCfg.MaxFileSize()
	data, err := io.ReadAll(io.LimitReader(body, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading document: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", domain.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, "", domain.ErrUnsupportedFileType
	}

	detected := mimetype.Detect(data)
	for mt := range domain.AllowedDocumentTypes {
		if detected.Is(mt) {
			return data, mt, nil
		}
	}
	log.Printf("extractionService.readDocument: rejected content type %s", detected.String())
	return nil, "", domain.ErrUnsupportedFileType
}

func (s *extractionService) checkPageCount(data []byte) error {
	if s.extractionCfg.MaxPages <= 0 {
		return nil
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("%w: unreadable PDF: %v", domain.ErrUnsupportedFileType, err)
	}
	if pages > s.extractionCfg.MaxPages {
		return fmt.Errorf("%w: %d pages, limit is %d", domain.ErrTooManyPages, pages, s.extractionCfg.MaxPages)
	}
	return nil
}

// extractWithRetry calls the backend under the extraction deadline. Only
// rate-limit responses are retried; every other failure is returned as is.
func (s *extractionService) extractWithRetry(ctx context.Context, req port.ExtractionRequest, credential string) (*domain.HazardRecord, error) {
	if s.extractionCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.extractionCfg.Timeout)
		defer cancel()
	}

	var record *domain.HazardRecord
	err := retry.Do(
		func() error {
			var err error
			record, err = s.extractor.Extract(ctx, req, credential)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(s.extractionCfg.MaxRetries)+1),
		retry.Delay(s.extractionCfg.RetryDelay),
		retry.RetryIf(func(err error) bool {
			_, limited := parser.AsRateLimit(err)
			return limited
		}),
		retry.DelayType(s.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("extractionService.extractWithRetry: attempt %d rate limited, retrying: %v", n+1, err)
		}),
	)
	if err != nil {
		if errors.Is(err, domain.ErrExtraction) || errors.Is(err, domain.ErrConfiguration) {
			return nil, err
		}
		// deadline hit while waiting between attempts
		return nil, domain.NewExtractionError(s.parserCfg.Provider, err)
	}
	return record, nil
}

// retryDelay honours the backend's Retry-After, capped by max_retry_delay.
func (s *extractionService) retryDelay(n uint, err error, cfg *retry.Config) time.Duration {
	delay := retry.BackOffDelay(n, err, cfg)
	if rl, ok := parser.AsRateLimit(err); ok && rl.RetryAfter > 0 {
		delay = rl.RetryAfter
	}
	if limit := s.extractionCfg.MaxRetryDelay; limit > 0 && delay > limit {
		delay = limit
	}
	return delay
}

// fileTag identifies an upload in logs without exposing its name, which
// often carries the product name.
func fileTag(name string) string {
	if name == "" {
		return "-"
	}
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:4])
}

func (s *extractionService) overrides(ctx context.Context) domain.PictogramOverrides {
	if s.pictograms == nil {
		return nil
	}
	overrides, err := s.pictograms.Overrides(ctx)
	if err != nil {
		log.Printf("extractionService.overrides: falling back to default pictograms: %v", err)
		return nil
	}
	return overrides
}
