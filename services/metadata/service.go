package metadata

import (
	"context"

	"github.com/kkdai/youtube/v2"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/validation"
)

// Client is the part of *youtube.Client that reads video details without
// downloading media.
type Client interface {
	GetVideoContext(ctx context.Context, id string) (*youtube.Video, error)
}

type Service struct {
	client Client
	logger *logrus.Logger
}

func NewService(client Client, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{client: client, logger: logger}
}

// Fetch looks up display metadata for url.
func (s *Service) Fetch(ctx context.Context, url string) (*models.Metadata, error) {
	const op = "MetadataService.Fetch"

	videoID, err := validation.ResolveVideoID(url)
	if err != nil {
		return nil, err
	}

	video, err := s.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, errors.Internal(op, err, models.PreviewUnavailable)
	}

	metadata := &models.Metadata{
		VideoID:         videoID,
		Title:           video.Title,
		Channel:         video.Author,
		DurationSeconds: int(video.Duration.Seconds()),
	}
	metadata.ThumbnailURL = largestThumbnail(video.Thumbnails)
	return metadata, nil
}

// largestThumbnail returns the widest thumbnail URL. Ties go to the later
// entry, which kkdai lists in increasing size.
func largestThumbnail(thumbnails youtube.Thumbnails) string {
	var best *youtube.Thumbnail
	for i := range thumbnails {
		if best == nil || thumbnails[i].Width >= best.Width {
			best = &thumbnails[i]
		}
	}
	if best == nil {
		return ""
	}
	return best.URL
}

// Preview never fails. Any lookup error is logged and reported as an
// unavailable preview.
func (s *Service) Preview(ctx context.Context, url string) *models.PreviewResponse {
	metadata, err := s.Fetch(ctx, url)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"op":    "MetadataService.Preview",
			"url":   url,
			"error": err,
		}).Warn("Video preview unavailable")
		return models.NewPreviewResponse(nil)
	}
	return models.NewPreviewResponse(metadata)
}
