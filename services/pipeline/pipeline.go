// Package pipeline runs a video URL through transcript acquisition and
// summarization under one deadline.
package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/services/transcript"
)

const timeoutMessage = "Processing took too long. Try a shorter video."

type TranscriptSource interface {
	Acquire(ctx context.Context, url string, opts transcript.Options) (*models.Transcript, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string, tier string) (*models.Summary, error)
}

type Request struct {
	URL       string
	Tier      string
	Language  string
	Translate bool
}

type Result struct {
	Transcript *models.Transcript
	Summary    *models.Summary
}

type Pipeline struct {
	transcripts TranscriptSource
	summaries   Summarizer
	timeout     time.Duration
	logger      *logrus.Logger
}

func New(transcripts TranscriptSource, summaries Summarizer, timeout time.Duration, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Pipeline{
		transcripts: transcripts,
		summaries:   summaries,
		timeout:     timeout,
		logger:      logger,
	}
}

// Run acquires the transcript for req.URL and summarizes it. Exceeding the
// pipeline timeout at any stage yields a single Timeout error.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	const op = "Pipeline.Run"

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	logger := p.logger.WithFields(logrus.Fields{
		"op":  op,
		"url": req.URL,
	})

	t, err := p.transcripts.Acquire(ctx, req.URL, transcript.Options{
		Language:  req.Language,
		Translate: req.Translate,
	})
	if err != nil {
		return nil, p.checkTimeout(ctx, op, err)
	}

	s, err := p.summaries.Summarize(ctx, t.Text, req.Tier)
	if err != nil {
		return nil, p.checkTimeout(ctx, op, err)
	}

	logger.WithFields(logrus.Fields{
		"video_id": t.VideoID,
		"source":   t.Source,
		"tier":     s.Tier,
		"duration": time.Since(start),
	}).Info("Pipeline completed")

	return &Result{Transcript: t, Summary: s}, nil
}

func (p *Pipeline) checkTimeout(ctx context.Context, op string, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) || stderrors.Is(err, context.DeadlineExceeded) {
		if errors.KindOf(err) == errors.KindTimeout {
			return err
		}
		return errors.Timeout(op, err, timeoutMessage)
	}
	return err
}
