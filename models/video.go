package models

import (
	"fmt"
	"strings"
)

type Source string

const (
	SourceCaptions   Source = "captions"
	SourceAudio      Source = "audio"
	SourceTranslated Source = "translated"
)

// Transcript is the plain text spoken content of one video, built fresh for
// each request.
type Transcript struct {
	VideoID  string `json:"video_id"`
	Text     string `json:"text"`
	Source   Source `json:"source"`
	Language string `json:"language,omitempty"`
	// FallbackReason is set when captions were skipped in favour of audio.
	FallbackReason string `json:"fallback_reason,omitempty"`
}

func (t *Transcript) WordCount() int { return WordCount(t.Text) }

// Summary is the terminal artifact of a summarization run.
type Summary struct {
	Text          string `json:"text"`
	Tier          string `json:"tier"`
	MaxLength     int    `json:"max_length"`
	MinLength     int    `json:"min_length"`
	ChunkCount    int    `json:"chunk_count"`
	SkippedChunks int    `json:"skipped_chunks"`
}

func (s *Summary) WordCount() int { return WordCount(s.Text) }

// Metadata is display-only information about a video.
type Metadata struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	Channel         string `json:"channel"`
	ThumbnailURL    string `json:"thumbnail_url"`
	DurationSeconds int    `json:"duration_seconds"`
}

func WordCount(text string) int {
	return len(strings.Fields(text))
}

// FormatDuration renders seconds as m:ss. Non-positive durations render as
// an empty string.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
