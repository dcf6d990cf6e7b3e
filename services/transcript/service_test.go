package transcript

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/services/captions"
)

const videoURL = "https://www.youtube.com/watch?v=abc123"

type fakeCaptions struct {
	tracks map[string]string
	err    error
	calls  [][]string
}

func (f *fakeCaptions) Fetch(ctx context.Context, videoID, preferred string) (*captions.Result, error) {
	languages := []string{"en"}
	if preferred != "" && preferred != "en" {
		languages = []string{preferred, "en"}
	}
	return f.FetchLanguages(ctx, videoID, languages...)
}

func (f *fakeCaptions) FetchLanguages(_ context.Context, _ string, languages ...string) (*captions.Result, error) {
	f.calls = append(f.calls, languages)
	if f.err != nil {
		return nil, f.err
	}
	for _, lang := range languages {
		if text, ok := f.tracks[lang]; ok {
			return &captions.Result{Text: text, Language: lang}, nil
		}
	}
	return nil, errors.CaptionsUnavailable("fake", nil, "No captions available")
}

type fakeAudio struct {
	text  string
	err   error
	calls []string
}

func (f *fakeAudio) Transcribe(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	return f.text, f.err
}

type fakeTranslator struct {
	calls []string
	err   error
}

func (f *fakeTranslator) Translate(_ context.Context, text, sourceLang string) (string, error) {
	f.calls = append(f.calls, sourceLang)
	if f.err != nil {
		return "", f.err
	}
	return " translated: " + text + " ", nil
}

func newService(c *fakeCaptions, a *fakeAudio, tr *fakeTranslator) *Service {
	logger, _ := test.NewNullLogger()
	return NewService(c, a, tr, "", logger)
}

func TestAcquireInvalidURLMakesNoCalls(t *testing.T) {
	c, a, tr := &fakeCaptions{}, &fakeAudio{}, &fakeTranslator{}

	_, err := newService(c, a, tr).Acquire(context.Background(), "not a url", Options{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidURL(err))
	assert.Empty(t, c.calls)
	assert.Empty(t, a.calls)
}

func TestAcquireUsesCaptions(t *testing.T) {
	c := &fakeCaptions{tracks: map[string]string{"en": "hello world"}}
	a := &fakeAudio{}

	transcript, err := newService(c, a, &fakeTranslator{}).Acquire(context.Background(), videoURL, Options{})
	require.NoError(t, err)
	assert.Equal(t, "abc123", transcript.VideoID)
	assert.Equal(t, "hello world", transcript.Text)
	assert.Equal(t, "captions", string(transcript.Source))
	assert.Empty(t, a.calls)
}

func TestAcquirePreferredLanguageFallsBackToEnglish(t *testing.T) {
	c := &fakeCaptions{tracks: map[string]string{"en": "english text"}}

	transcript, err := newService(c, &fakeAudio{}, &fakeTranslator{}).Acquire(context.Background(), videoURL, Options{Language: "de"})
	require.NoError(t, err)
	assert.Equal(t, "en", transcript.Language)
	assert.Equal(t, [][]string{{"de", "en"}}, c.calls)
}

func TestAcquireFallsBackToAudioOnce(t *testing.T) {
	tests := []struct {
		name     string
		captions *fakeCaptions
	}{
		{
			name:     "captions unavailable",
			captions: &fakeCaptions{},
		},
		{
			name:     "captions transport error",
			captions: &fakeCaptions{err: errors.CaptionsTransport("fake", fmt.Errorf("connection reset"), "Caption request failed")},
		},
		{
			name:     "whitespace captions",
			captions: &fakeCaptions{tracks: map[string]string{"en": "   \n "}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &fakeAudio{text: "spoken words"}

			transcript, err := newService(tt.captions, a, &fakeTranslator{}).Acquire(context.Background(), videoURL, Options{})
			require.NoError(t, err)
			assert.Equal(t, "spoken words", transcript.Text)
			assert.Equal(t, "audio", string(transcript.Source))
			assert.NotEmpty(t, transcript.FallbackReason)
			assert.Equal(t, []string{videoURL}, a.calls)
			assert.Len(t, tt.captions.calls, 1)
		})
	}
}

func TestAcquireBothPathsFail(t *testing.T) {
	c := &fakeCaptions{}
	a := &fakeAudio{err: errors.EmptyTranscription("fake", nil, "Audio transcription produced no usable text (music/silent video).")}

	_, err := newService(c, a, &fakeTranslator{}).Acquire(context.Background(), videoURL, Options{})
	require.Error(t, err)
	assert.Equal(t, errors.KindTranscriptUnavailable, errors.KindOf(err))
	assert.True(t, errors.Is(err, errors.KindEmptyTranscription))
	assert.Contains(t, err.Error(), "No captions available")
	assert.Len(t, a.calls, 1)
}

func TestAcquireAudioTimeoutPropagates(t *testing.T) {
	a := &fakeAudio{err: errors.Timeout("fake", context.DeadlineExceeded, "Audio download cancelled")}

	_, err := newService(&fakeCaptions{}, a, &fakeTranslator{}).Acquire(context.Background(), videoURL, Options{})
	assert.Equal(t, errors.KindTimeout, errors.KindOf(err))
}

func TestAcquireTranslated(t *testing.T) {
	tests := []struct {
		name          string
		tracks        map[string]string
		language      string
		wantSource    string
		wantLanguages []string
		translations  int
	}{
		{
			name:          "requested language is translated",
			tracks:        map[string]string{"fr": "bonjour", "en": "hello"},
			language:      "fr",
			wantSource:    "translated",
			wantLanguages: []string{"fr", "en"},
			translations:  1,
		},
		{
			name:          "secondary english is used as is",
			tracks:        map[string]string{"en": "hello"},
			language:      "fr",
			wantSource:    "captions",
			wantLanguages: []string{"fr", "en"},
			translations:  0,
		},
		{
			name:          "no language requests secondary only",
			tracks:        map[string]string{"en": "hello"},
			wantSource:    "captions",
			wantLanguages: []string{"en"},
			translations:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeCaptions{tracks: tt.tracks}
			a := &fakeAudio{}
			tr := &fakeTranslator{}

			transcript, err := newService(c, a, tr).Acquire(context.Background(), videoURL, Options{Language: tt.language, Translate: true})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, string(transcript.Source))
			assert.Equal(t, "en", transcript.Language)
			assert.Equal(t, [][]string{tt.wantLanguages}, c.calls)
			assert.Len(t, tr.calls, tt.translations)
			assert.Empty(t, a.calls)
		})
	}
}

func TestAcquireTranslatedTrimsOutput(t *testing.T) {
	c := &fakeCaptions{tracks: map[string]string{"fr": "bonjour"}}

	transcript, err := newService(c, &fakeAudio{}, &fakeTranslator{}).Acquire(context.Background(), videoURL, Options{Language: "fr", Translate: true})
	require.NoError(t, err)
	assert.Equal(t, "translated: bonjour", transcript.Text)
}

func TestAcquireTranslatedNoCaptionsNeverUsesAudio(t *testing.T) {
	a := &fakeAudio{text: "spoken"}

	_, err := newService(&fakeCaptions{}, a, &fakeTranslator{}).Acquire(context.Background(), videoURL, Options{Language: "fr", Translate: true})
	require.Error(t, err)
	assert.Equal(t, errors.KindTranscriptUnavailable, errors.KindOf(err))
	assert.Empty(t, a.calls)
}

func TestAcquireTranslationFailurePropagates(t *testing.T) {
	c := &fakeCaptions{tracks: map[string]string{"fr": "bonjour"}}
	tr := &fakeTranslator{err: fmt.Errorf("model down")}

	_, err := newService(c, &fakeAudio{}, tr).Acquire(context.Background(), videoURL, Options{Language: "fr", Translate: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model down")
}
