// Package inference holds the model backends used by the pipeline:
// summarization, speech-to-text and translation.
package inference

import "context"

// Summarizer condenses text within a token budget using deterministic
// decoding.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Translator translates text into English in a single call.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang string) (string, error)
}
