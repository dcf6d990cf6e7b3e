package audio

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/inference"
)

const (
	ArtifactName = "audio.mp3"

	extractionFailedMessage = "Audio could not be extracted from the video."
	emptyTranscriptMessage  = "Audio transcription produced no usable text (music/silent video)."
)

// Downloader fetches the best audio stream of url and leaves an mp3 inside
// dir.
type Downloader interface {
	Download(ctx context.Context, url, dir string) error
}

type Service struct {
	downloader  Downloader
	transcriber inference.Transcriber
	tempRoot    string
	logger      *logrus.Logger
}

func NewService(downloader Downloader, transcriber inference.Transcriber, tempRoot string, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		downloader:  downloader,
		transcriber: transcriber,
		tempRoot:    tempRoot,
		logger:      logger,
	}
}

// Transcribe downloads the audio of url into a private temporary directory,
// runs speech-to-text on it and returns the stripped text. The directory is
// removed before Transcribe returns.
func (s *Service) Transcribe(ctx context.Context, url string) (string, error) {
	const op = "AudioService.Transcribe"
	logger := s.logger.WithFields(logrus.Fields{
		"op":  op,
		"url": url,
	})

	dir, err := os.MkdirTemp(s.tempRoot, "audio-*")
	if err != nil {
		return "", errors.Internal(op, err, "Failed to create temporary directory")
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.WithError(err).Warn("Failed to remove temporary audio directory")
		}
	}()

	logger.Info("Downloading audio")
	if err := s.downloader.Download(ctx, url, dir); err != nil {
		if ctx.Err() != nil {
			return "", errors.Timeout(op, ctx.Err(), "Audio download cancelled")
		}
		return "", errors.AudioExtractionFailed(op, err, extractionFailedMessage)
	}

	audioPath, err := findArtifact(dir)
	if err != nil {
		return "", errors.AudioExtractionFailed(op, err, extractionFailedMessage)
	}
	if audioPath == "" {
		return "", errors.AudioExtractionFailed(op, nil, extractionFailedMessage)
	}

	logger.WithField("file", filepath.Base(audioPath)).Info("Transcribing audio")
	text, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return "", errors.Internal(op, err, "Speech-to-text failed")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.EmptyTranscription(op, nil, emptyTranscriptMessage)
	}
	return text, nil
}

// findArtifact returns the first .mp3 in dir by name, or "" if there is none.
func findArtifact(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".mp3") {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", nil
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}
