package inference

import (
	"context"
	"strings"

	"github.com/nijaru/yt-summary/scripts"
)

type scriptSummarizer struct {
	runner *scripts.ScriptRunner
	model  string
}

func (s *scriptSummarizer) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	result, err := s.runner.Summarize(ctx, text, s.model, maxLength, minLength)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Summary), nil
}

type scriptTranscriber struct {
	runner *scripts.ScriptRunner
	model  string
}

func (s *scriptTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	result, err := s.runner.Transcribe(ctx, audioPath, s.model)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

type scriptTranslator struct {
	runner *scripts.ScriptRunner
	model  string
}

func (s *scriptTranslator) Translate(ctx context.Context, text, sourceLang string) (string, error) {
	result, err := s.runner.Translate(ctx, text, s.model, sourceLang)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Translation), nil
}
