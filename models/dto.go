package models

// SummarizeRequest is the body accepted by the summarize endpoint, either as
// JSON or as form fields of the same names.
type SummarizeRequest struct {
	URL       string `json:"url"`
	Tier      string `json:"tier,omitempty"`
	Language  string `json:"language,omitempty"`
	Translate bool   `json:"translate,omitempty"`
}

type TextBlock struct {
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
	Filename  string `json:"filename"`
}

type SummarizeResponse struct {
	VideoID        string    `json:"video_id"`
	Source         Source    `json:"source"`
	FallbackReason string    `json:"fallback_reason,omitempty"`
	Tier           string    `json:"tier"`
	MaxLength      int       `json:"max_length"`
	MinLength      int       `json:"min_length"`
	ChunkCount     int       `json:"chunk_count"`
	SkippedChunks  int       `json:"skipped_chunks"`
	Summary        TextBlock `json:"summary"`
	Transcript     TextBlock `json:"transcript"`
}

const (
	SummaryFilename    = "youtube_summary.txt"
	TranscriptFilename = "youtube_transcript.txt"
)

func NewSummarizeResponse(t *Transcript, s *Summary) *SummarizeResponse {
	return &SummarizeResponse{
		VideoID:        t.VideoID,
		Source:         t.Source,
		FallbackReason: t.FallbackReason,
		Tier:           s.Tier,
		MaxLength:      s.MaxLength,
		MinLength:      s.MinLength,
		ChunkCount:     s.ChunkCount,
		SkippedChunks:  s.SkippedChunks,
		Summary: TextBlock{
			Text:      s.Text,
			WordCount: s.WordCount(),
			Filename:  SummaryFilename,
		},
		Transcript: TextBlock{
			Text:      t.Text,
			WordCount: t.WordCount(),
			Filename:  TranscriptFilename,
		},
	}
}

// PreviewResponse is returned by the metadata endpoint. A failed lookup is
// reported with Available false and a warning, never as an error.
type PreviewResponse struct {
	Available    bool   `json:"available"`
	Warning      string `json:"warning,omitempty"`
	VideoID      string `json:"video_id,omitempty"`
	Title        string `json:"title,omitempty"`
	Channel      string `json:"channel,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Duration     int    `json:"duration_seconds,omitempty"`
	DurationText string `json:"duration_text,omitempty"`
}

const PreviewUnavailable = "Unable to load video preview."

func NewPreviewResponse(m *Metadata) *PreviewResponse {
	if m == nil {
		return &PreviewResponse{Available: false, Warning: PreviewUnavailable}
	}
	return &PreviewResponse{
		Available:    true,
		VideoID:      m.VideoID,
		Title:        m.Title,
		Channel:      m.Channel,
		ThumbnailURL: m.ThumbnailURL,
		Duration:     m.DurationSeconds,
		DurationText: FormatDuration(m.DurationSeconds),
	}
}

// ExportRequest carries text the client already holds back for download.
type ExportRequest struct {
	Text string `json:"text"`
}
