package transcript

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/inference"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/services/captions"
	"github.com/nijaru/yt-summary/validation"
)

const englishLanguage = "en"

type CaptionFetcher interface {
	Fetch(ctx context.Context, videoID, preferred string) (*captions.Result, error)
	FetchLanguages(ctx context.Context, videoID string, languages ...string) (*captions.Result, error)
}

type AudioTranscriber interface {
	Transcribe(ctx context.Context, url string) (string, error)
}

// Options selects how a transcript is acquired. Language is the preferred
// caption language; Translate switches to caption-only acquisition followed
// by translation to English.
type Options struct {
	Language  string
	Translate bool
}

type Service struct {
	captions          CaptionFetcher
	audio             AudioTranscriber
	translator        inference.Translator
	secondaryLanguage string
	logger            *logrus.Logger
}

func NewService(
	captionFetcher CaptionFetcher,
	audio AudioTranscriber,
	translator inference.Translator,
	secondaryLanguage string,
	logger *logrus.Logger,
) *Service {
	if secondaryLanguage == "" {
		secondaryLanguage = englishLanguage
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		captions:          captionFetcher,
		audio:             audio,
		translator:        translator,
		secondaryLanguage: secondaryLanguage,
		logger:            logger,
	}
}

// Acquire returns the transcript of the video at url. The URL is resolved
// before any network call.
func (s *Service) Acquire(ctx context.Context, url string, opts Options) (*models.Transcript, error) {
	videoID, err := validation.ResolveVideoID(url)
	if err != nil {
		return nil, err
	}

	if opts.Translate {
		return s.acquireTranslated(ctx, videoID, opts.Language)
	}
	return s.acquire(ctx, url, videoID, opts.Language)
}

func (s *Service) acquire(ctx context.Context, url, videoID, language string) (*models.Transcript, error) {
	const op = "TranscriptService.Acquire"
	logger := s.logger.WithFields(logrus.Fields{
		"op":       op,
		"video_id": videoID,
	})

	result, captionErr := s.captions.Fetch(ctx, videoID, language)
	if captionErr == nil && strings.TrimSpace(result.Text) == "" {
		captionErr = errors.CaptionsUnavailable(op, nil, "Captions are empty")
	}
	if captionErr == nil {
		logger.WithField("source", models.SourceCaptions).Info("Transcript acquired")
		return &models.Transcript{
			VideoID:  videoID,
			Text:     result.Text,
			Source:   models.SourceCaptions,
			Language: result.Language,
		}, nil
	}

	switch {
	case errors.IsCaptionsTransport(captionErr):
		logger.WithError(captionErr).Warn("Caption request failed, falling back to audio")
	case errors.IsCaptionsUnavailable(captionErr):
		logger.WithError(captionErr).Info("No captions, falling back to audio")
	default:
		return nil, captionErr
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Timeout(op, err, "Transcript acquisition cancelled")
	}

	text, audioErr := s.audio.Transcribe(ctx, url)
	if audioErr != nil {
		if errors.Is(audioErr, errors.KindTimeout) {
			return nil, audioErr
		}
		logger.WithError(audioErr).Error("Audio fallback failed")
		message := fmt.Sprintf("%s (captions: %s)", messageOf(audioErr), messageOf(captionErr))
		return nil, errors.TranscriptUnavailable(op, audioErr, message)
	}

	logger.WithField("source", models.SourceAudio).Info("Transcript acquired")
	return &models.Transcript{
		VideoID:        videoID,
		Text:           text,
		Source:         models.SourceAudio,
		FallbackReason: messageOf(captionErr),
	}, nil
}

func (s *Service) acquireTranslated(ctx context.Context, videoID, language string) (*models.Transcript, error) {
	const op = "TranscriptService.AcquireTranslated"
	logger := s.logger.WithFields(logrus.Fields{
		"op":       op,
		"video_id": videoID,
	})

	languages := []string{s.secondaryLanguage}
	if language = strings.TrimSpace(language); language != "" && !strings.EqualFold(language, s.secondaryLanguage) {
		languages = []string{language, s.secondaryLanguage}
	}

	result, err := s.captions.FetchLanguages(ctx, videoID, languages...)
	if err == nil && strings.TrimSpace(result.Text) == "" {
		err = errors.CaptionsUnavailable(op, nil, "Captions are empty")
	}
	if err != nil {
		return nil, errors.TranscriptUnavailable(op, err, fmt.Sprintf("No captions to translate (%s)", messageOf(err)))
	}

	if strings.EqualFold(result.Language, englishLanguage) {
		return &models.Transcript{
			VideoID:  videoID,
			Text:     result.Text,
			Source:   models.SourceCaptions,
			Language: result.Language,
		}, nil
	}

	logger.WithField("language", result.Language).Info("Translating captions")
	translated, err := s.translator.Translate(ctx, result.Text, result.Language)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to translate captions")
	}

	return &models.Transcript{
		VideoID:  videoID,
		Text:     strings.TrimSpace(translated),
		Source:   models.SourceTranslated,
		Language: englishLanguage,
	}, nil
}

func messageOf(err error) string {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
