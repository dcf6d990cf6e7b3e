package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// HTTPClient is the subset of *http.Client the backends need.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type generationParameters struct {
	MaxLength int  `json:"max_length,omitempty"`
	MinLength int  `json:"min_length,omitempty"`
	DoSample  bool `json:"do_sample"`
}

type inferenceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters *generationParameters `json:"parameters,omitempty"`
}

type summaryOutput struct {
	SummaryText string `json:"summary_text"`
}

type translationOutput struct {
	TranslationText string `json:"translation_text"`
}

type transcriptionOutput struct {
	Text string `json:"text"`
}

type apiError struct {
	Error string `json:"error"`
}

// HTTPSummarizer calls a Hugging Face Inference compatible summarization
// endpoint at {endpoint}/models/{model}.
type HTTPSummarizer struct {
	client   HTTPClient
	endpoint string
	model    string
	token    string
}

func NewHTTPSummarizer(client HTTPClient, endpoint, model, token string) *HTTPSummarizer {
	return &HTTPSummarizer{client: client, endpoint: endpoint, model: model, token: token}
}

func (s *HTTPSummarizer) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	body := inferenceRequest{
		Inputs: text,
		Parameters: &generationParameters{
			MaxLength: maxLength,
			MinLength: minLength,
			DoSample:  false,
		},
	}

	var out []summaryOutput
	if err := postJSON(ctx, s.client, modelURL(s.endpoint, s.model), s.token, body, &out); err != nil {
		return "", errors.Wrap(err, "summarize")
	}
	if len(out) == 0 {
		return "", errors.New("summarize: empty response")
	}
	return strings.TrimSpace(out[0].SummaryText), nil
}

// HTTPTranslator calls a Hugging Face Inference compatible translation
// endpoint. The model is expected to target English.
type HTTPTranslator struct {
	client   HTTPClient
	endpoint string
	model    string
	token    string
}

func NewHTTPTranslator(client HTTPClient, endpoint, model, token string) *HTTPTranslator {
	return &HTTPTranslator{client: client, endpoint: endpoint, model: model, token: token}
}

func (t *HTTPTranslator) Translate(ctx context.Context, text, sourceLang string) (string, error) {
	var out []translationOutput
	if err := postJSON(ctx, t.client, modelURL(t.endpoint, t.model), t.token, inferenceRequest{Inputs: text}, &out); err != nil {
		return "", errors.Wrapf(err, "translate from %s", sourceLang)
	}
	if len(out) == 0 {
		return "", errors.New("translate: empty response")
	}
	return strings.TrimSpace(out[0].TranslationText), nil
}

// HTTPTranscriber posts audio to an OpenAI compatible
// /v1/audio/transcriptions endpoint, as served by whisper servers.
type HTTPTranscriber struct {
	client   HTTPClient
	endpoint string
	model    string
	token    string
}

func NewHTTPTranscriber(client HTTPClient, endpoint, model, token string) *HTTPTranscriber {
	return &HTTPTranscriber{client: client, endpoint: endpoint, model: model, token: token}
}

func (t *HTTPTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", errors.Wrap(err, "open audio")
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", errors.Wrap(err, "create form file")
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", errors.Wrap(err, "copy audio")
	}
	if err := mw.WriteField("model", t.model); err != nil {
		return "", errors.Wrap(err, "write model field")
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return "", errors.Wrap(err, "write response format field")
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "close multipart")
	}

	url := strings.TrimRight(t.endpoint, "/") + "/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	setAuth(req, t.token)

	var out transcriptionOutput
	if err := do(t.client, req, &out); err != nil {
		return "", errors.Wrap(err, "transcribe")
	}
	return out.Text, nil
}

func modelURL(endpoint, model string) string {
	return strings.TrimRight(endpoint, "/") + "/models/" + model
}

func setAuth(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func postJSON(ctx context.Context, client HTTPClient, url, token string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	setAuth(req, token)
	return do(client, req, out)
}

func do(client HTTPClient, req *http.Request, out interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("model server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("model server returned %d", resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
