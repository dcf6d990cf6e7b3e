package captions

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/errors"
)

// Client is the part of *youtube.Client used to read caption tracks.
type Client interface {
	GetVideoContext(ctx context.Context, id string) (*youtube.Video, error)
	GetTranscriptCtx(ctx context.Context, video *youtube.Video, lang string) (youtube.VideoTranscript, error)
}

type Result struct {
	Text     string
	Language string
}

type Service struct {
	client          Client
	defaultLanguage string
	logger          *logrus.Logger
}

func NewService(client Client, defaultLanguage string, logger *logrus.Logger) *Service {
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		client:          client,
		defaultLanguage: defaultLanguage,
		logger:          logger,
	}
}

// Fetch returns the full caption text for videoID. The preferred language is
// tried first, then the default language. Absent captions fail with
// CaptionsUnavailable; network and protocol failures fail with
// CaptionsTransport.
func (s *Service) Fetch(ctx context.Context, videoID, preferred string) (*Result, error) {
	return s.FetchLanguages(ctx, videoID, s.Languages(preferred)...)
}

// FetchLanguages tries each language in order and returns the first track
// found.
func (s *Service) FetchLanguages(ctx context.Context, videoID string, languages ...string) (*Result, error) {
	const op = "CaptionService.Fetch"
	logger := s.logger.WithFields(logrus.Fields{
		"op":       op,
		"video_id": videoID,
	})

	video, err := s.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, classify(op, err)
	}

	var lastErr error
	for _, lang := range languages {
		transcript, err := s.client.GetTranscriptCtx(ctx, video, lang)
		if err != nil {
			classified := classify(op, err)
			if errors.IsCaptionsTransport(classified) {
				return nil, classified
			}
			logger.WithFields(logrus.Fields{
				"language": lang,
				"error":    err,
			}).Debug("No captions in language")
			lastErr = classified
			continue
		}

		logger.WithFields(logrus.Fields{
			"language": lang,
			"segments": len(transcript),
		}).Info("Captions fetched")
		return &Result{Text: JoinSegments(transcript), Language: lang}, nil
	}

	if lastErr == nil {
		lastErr = errors.CaptionsUnavailable(op, nil, "No captions available")
	}
	return nil, lastErr
}

// Languages returns the languages Fetch tries for a preference.
func (s *Service) Languages(preferred string) []string {
	preferred = strings.TrimSpace(preferred)
	if preferred == "" || strings.EqualFold(preferred, s.defaultLanguage) {
		return []string{s.defaultLanguage}
	}
	return []string{preferred, s.defaultLanguage}
}

// JoinSegments concatenates caption text in order, one space between
// segments, with surrounding whitespace removed.
func JoinSegments(transcript youtube.VideoTranscript) string {
	parts := make([]string, 0, len(transcript))
	for _, segment := range transcript {
		parts = append(parts, segment.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func classify(op string, err error) error {
	if isAbsent(err) {
		return errors.CaptionsUnavailable(op, err, "Captions are disabled or unavailable for this video")
	}
	return errors.CaptionsTransport(op, err, "Caption request failed")
}

func isAbsent(err error) bool {
	switch {
	case stderrors.Is(err, youtube.ErrTranscriptDisabled),
		stderrors.Is(err, youtube.ErrLoginRequired),
		stderrors.Is(err, youtube.ErrVideoPrivate),
		stderrors.Is(err, youtube.ErrNotPlayableInEmbed):
		return true
	}

	var statusErr *youtube.ErrPlayabiltyStatus
	if stderrors.As(err, &statusErr) {
		return true
	}

	// innertube answers 400/404 for a language the video has no track in
	var codeErr youtube.ErrUnexpectedStatusCode
	if stderrors.As(err, &codeErr) {
		return int(codeErr) == http.StatusBadRequest || int(codeErr) == http.StatusNotFound
	}
	return false
}
