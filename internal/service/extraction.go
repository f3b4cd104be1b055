package service

import (
	"context"
	"errors"

	"lobby-tracker/internal/api"
	"lobby-tracker/internal/constants"
	"lobby-tracker/internal/domain"
	"lobby-tracker/internal/extraction"

	"github.com/rs/zerolog"
)

// VisionAPI is the slice of the vision client the extraction service needs.
type VisionAPI interface {
	ExtractResults(ctx context.Context, images []api.ImageFile, opts api.ExtractOptions) ([]byte, error)
}

type ExtractionService struct {
	vision VisionAPI
	logger zerolog.Logger
}

func NewExtractionService(vision VisionAPI, logger zerolog.Logger) *ExtractionService {
	return &ExtractionService{vision: vision, logger: logger}
}

// ExtractResults runs a screenshot batch through the vision service and
// parses the payload. A timed-out call is "nothing extracted", not an
// error: a partial read must never be reconciled.
func (s *ExtractionService) ExtractResults(ctx context.Context, images []api.ImageFile, opts api.ExtractOptions) ([]domain.ExtractionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	payload, err := s.vision.ExtractResults(ctx, images, opts)
	if err != nil {
		if isTimeout(err) {
			s.logger.Warn().Err(err).Int("image_count", len(images)).Msg("extraction timed out, treating as empty result")
			return nil, nil
		}
		s.logger.Error().Err(err).Int("image_count", len(images)).Msg("extraction call failed")
		return nil, err
	}

	results := extraction.Parse(payload)
	s.logger.Info().
		Int("image_count", len(images)).
		Int("team_count", len(results)).
		Msg("screenshots extracted")
	return results, nil
}

// isTimeout covers both context deadlines and transport-level timeouts.
// fasthttp's ErrTimeout implements only Timeout(), not the full net.Error.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
