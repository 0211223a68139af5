package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"sdsposter/internal/config"
	"sdsposter/internal/parser"
	"sdsposter/internal/port"
	"sdsposter/internal/service"
	"sdsposter/internal/session"
)

type extractOptions struct {
	format   string
	key      string
	provider string
	model    string
	timeout  time.Duration

	// newExtractor is swapped in tests.
	newExtractor func(cfg *config.ParserConfig) (port.Extractor, error)
}

func runExtract(ctx context.Context, out io.Writer, path string, opts *extractOptions) error {
	if opts.format != "json" && opts.format != "yaml" {
		return fmt.Errorf("unknown format %q (want json or yaml)", opts.format)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.provider != "" {
		cfg.Parser.Provider = opts.provider
	}
	if opts.model != "" {
		cfg.Parser.DefaultModel = opts.model
	}
	if opts.timeout > 0 {
		cfg.Extraction.Timeout = opts.timeout
	}

	newExtractor := opts.newExtractor
	if newExtractor == nil {
		newExtractor = parser.NewExtractor
	}
	extractor, err := newExtractor(&cfg.Parser)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()

	svc := service.NewExtractionService(
		extractor,
		session.NewStore(time.Hour, time.Hour),
		nil,
		&cfg.Parser,
		&cfg.Extraction,
		&cfg.Upload,
	)

	log.Printf("extract: %s via %s", filepath.Base(path), cfg.Parser.Provider)
	result, err := svc.Extract(ctx, service.ExtractionInput{
		SessionID:  uuid.New().String(),
		Credential: opts.key,
		FileName:   filepath.Base(path),
		Body:       f,
	})
	if err != nil {
		return err
	}

	return writeResult(out, opts.format, result)
}

func writeResult(out io.Writer, format string, result *service.ExtractionResult) error {
	doc := struct {
		Record     interface{} `json:"record" yaml:"record"`
		Pictograms interface{} `json:"pictograms" yaml:"pictograms"`
	}{result.Record, result.Pictograms}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
}
