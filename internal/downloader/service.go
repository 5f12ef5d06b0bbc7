package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vm-affekt/fbdl/internal/logging"
	"go.uber.org/zap"
)

// Extractor resolves a video link into the extraction API's JSON payload.
type Extractor interface {
	AutoLink(ctx context.Context, videoURL string) (json.RawMessage, error)
}

// Service is the relay between clients and the extraction API. It holds no per-request state.
type Service struct {
	extractor Extractor
}

func New(extractor Extractor) *Service {
	return &Service{
		extractor: extractor,
	}
}

func (s *Service) FetchLinks(ctx context.Context, link string) (json.RawMessage, error) {
	ctx = logging.NewContextS(ctx, zap.String("video_link", link))
	log := logging.FromContextS(ctx)

	// Clients validate before calling, but the relay does not trust them.
	if err := ValidateLink(link); err != nil {
		return nil, err
	}

	start := time.Now()
	log.Info("Requesting download links from extraction API...")
	payload, err := s.extractor.AutoLink(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("failed to get download links: %w", err)
	}
	log.Infow("Got download links",
		"payload_size", len(payload),
		"elapsed", time.Since(start),
	)
	return payload, nil
}
