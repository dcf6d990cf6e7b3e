package summary

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/inference"
	"github.com/nijaru/yt-summary/models"
)

const (
	tooShortMessage       = "Transcript is too short or low-signal to generate a meaningful summary."
	noSummarizableMessage = "Unable to generate summary. Video may be music-only or contain very little speech."
)

type Config struct {
	ChunkSize     int
	MinWords      int
	MinChunkWords int
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:     DefaultChunkSize,
		MinWords:      50,
		MinChunkWords: 30,
	}
}

type Service struct {
	summarizer inference.Summarizer
	config     Config
	logger     *logrus.Logger
}

func NewService(summarizer inference.Summarizer, config Config, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		summarizer: summarizer,
		config:     config,
		logger:     logger,
	}
}

// Summarize condenses a transcript. Each chunk of at least MinChunkWords
// words is summarized in order, the partial summaries are joined, and the
// joined text is summarized once more with the same budget.
func (s *Service) Summarize(ctx context.Context, text string, tier string) (*models.Summary, error) {
	const op = "SummaryService.Summarize"

	if models.WordCount(text) < s.config.MinWords {
		return nil, errors.TranscriptTooShort(op, nil, tooShortMessage)
	}

	resolved, budget := ResolveTier(tier)
	logger := s.logger.WithFields(logrus.Fields{
		"op":   op,
		"tier": resolved,
	})

	chunks := SplitWords(text, s.config.ChunkSize)
	partials := make([]string, 0, len(chunks))
	skipped := 0

	for i, chunk := range chunks {
		if models.WordCount(chunk) < s.config.MinChunkWords {
			skipped++
			logger.WithFields(logrus.Fields{
				"chunk": i + 1,
				"total": len(chunks),
			}).Debug("Skipping short chunk")
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, errors.Timeout(op, err, "Summary creation cancelled")
		}

		logger.WithFields(logrus.Fields{
			"chunk": i + 1,
			"total": len(chunks),
		}).Debug("Processing chunk")

		partial, err := s.summarizer.Summarize(ctx, chunk, budget.MaxLength, budget.MinLength)
		if err != nil {
			return nil, errors.Internal(op, err, "Failed to summarize chunk")
		}
		partials = append(partials, partial)
	}

	if len(partials) == 0 {
		return nil, errors.NoSummarizableContent(op, nil, noSummarizableMessage)
	}

	final, err := s.combineSummaries(ctx, partials, budget)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to combine summaries")
	}

	logger.WithFields(logrus.Fields{
		"chunks":  len(chunks),
		"skipped": skipped,
	}).Info("Summary created")

	return &models.Summary{
		Text:          final,
		Tier:          string(resolved),
		MaxLength:     budget.MaxLength,
		MinLength:     budget.MinLength,
		ChunkCount:    len(chunks),
		SkippedChunks: skipped,
	}, nil
}

func (s *Service) combineSummaries(ctx context.Context, partials []string, budget Budget) (string, error) {
	combined := strings.Join(partials, " ")
	return s.summarizer.Summarize(ctx, combined, budget.MaxLength, budget.MinLength)
}
