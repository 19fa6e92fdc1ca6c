// Package extraction selects the configured bill reader and wraps it with logging.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/spendwise/internal/bill"
	"github.com/MrJamesThe3rd/spendwise/internal/bill/azure"
	"github.com/MrJamesThe3rd/spendwise/internal/bill/gemini"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
)

const (
	ProviderGemini = "gemini"
	ProviderAzure  = "azure"
)

//go:generate mockgen -source=extraction.go -destination=extractor_mock.go -package=extraction

// Extractor reads the fields of a photographed bill.
type Extractor interface {
	Extract(ctx context.Context, img bill.Image) (bill.Fields, error)
}

// New builds the provider named in cfg. Missing credentials are not an error here;
// the provider reports bill.ErrNotConfigured on first use so the app still starts.
func New(cfg config.Extraction) (Extractor, string, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		return gemini.New(gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
			Timeout: cfg.Timeout,
		}), ProviderGemini, nil
	case ProviderAzure:
		return azure.New(azure.Config{
			Endpoint:   cfg.Azure.Endpoint,
			APIKey:     cfg.Azure.APIKey,
			Deployment: cfg.Azure.Deployment,
			APIVersion: cfg.Azure.APIVersion,
			Timeout:    cfg.Timeout,
		}), ProviderAzure, nil
	default:
		return nil, "", fmt.Errorf("unsupported extraction provider: %s", cfg.Provider)
	}
}

type Service struct {
	extractor Extractor
	provider  string
}

func NewService(extractor Extractor, provider string) *Service {
	return &Service{extractor: extractor, provider: provider}
}

func (s *Service) Provider() string {
	return s.provider
}

// Extract calls the provider once. Failures are returned as-is so the caller can fall back to manual entry.
func (s *Service) Extract(ctx context.Context, img bill.Image) (bill.Fields, error) {
	start := time.Now()

	fields, err := s.extractor.Extract(ctx, img)
	if err != nil {
		slog.Error("bill extraction failed",
			"provider", s.provider,
			"bytes", len(img.Data),
			"duration", time.Since(start),
			"error", err,
		)

		return bill.Fields{}, fmt.Errorf("extract bill: %w", err)
	}

	slog.Info("bill extracted",
		"provider", s.provider,
		"bytes", len(img.Data),
		"duration", time.Since(start),
		"category", fields.Category,
	)

	return fields, nil
}
