package inference

import (
	"context"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/scripts"
)

type lazy[T any] struct {
	once  sync.Once
	value T
	err   error
	done  atomic.Bool
}

func (l *lazy[T]) get(init func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.value, l.err = init()
		l.done.Store(true)
	})
	return l.value, l.err
}

func (l *lazy[T]) loaded() bool {
	return l.done.Load() && l.err == nil
}

// Registry owns the process-wide model backends. Each backend is built on
// first use and reused by every later caller; a failed build is remembered
// and returned to all callers.
type Registry struct {
	cfg    config.ModelsConfig
	logger *logrus.Logger
	client *http.Client

	newSummarizer  func() (Summarizer, error)
	newTranscriber func() (Transcriber, error)
	newTranslator  func() (Translator, error)

	summarizer  lazy[Summarizer]
	transcriber lazy[Transcriber]
	translator  lazy[Translator]
}

type RegistryOption func(*Registry)

func WithLogger(logger *logrus.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithHTTPClient(client *http.Client) RegistryOption {
	return func(r *Registry) {
		r.client = client
	}
}

func WithSummarizerFactory(f func() (Summarizer, error)) RegistryOption {
	return func(r *Registry) {
		r.newSummarizer = f
	}
}

func WithTranscriberFactory(f func() (Transcriber, error)) RegistryOption {
	return func(r *Registry) {
		r.newTranscriber = f
	}
}

func WithTranslatorFactory(f func() (Translator, error)) RegistryOption {
	return func(r *Registry) {
		r.newTranslator = f
	}
}

func NewRegistry(cfg config.ModelsConfig, opts ...RegistryOption) *Registry {
	r := &Registry{
		cfg:    cfg,
		logger: logrus.StandardLogger(),
		client: &http.Client{Timeout: cfg.RequestTimeout},
	}
	r.newSummarizer = r.buildSummarizer
	r.newTranscriber = r.buildTranscriber
	r.newTranslator = r.buildTranslator

	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	s, err := r.summarizer.get(load(r, "summarizer", r.newSummarizer))
	if err != nil {
		return "", errors.Wrap(err, "summarization backend unavailable")
	}
	return s.Summarize(ctx, text, maxLength, minLength)
}

func (r *Registry) Transcribe(ctx context.Context, audioPath string) (string, error) {
	t, err := r.transcriber.get(load(r, "transcriber", r.newTranscriber))
	if err != nil {
		return "", errors.Wrap(err, "speech-to-text backend unavailable")
	}
	return t.Transcribe(ctx, audioPath)
}

func (r *Registry) Translate(ctx context.Context, text, sourceLang string) (string, error) {
	t, err := r.translator.get(load(r, "translator", r.newTranslator))
	if err != nil {
		return "", errors.Wrap(err, "translation backend unavailable")
	}
	return t.Translate(ctx, text, sourceLang)
}

// Status reports which backends have been initialized successfully.
func (r *Registry) Status() map[string]bool {
	return map[string]bool{
		"summarizer":  r.summarizer.loaded(),
		"transcriber": r.transcriber.loaded(),
		"translator":  r.translator.loaded(),
	}
}

// Close releases backend resources. It is meant to be called once at
// shutdown.
func (r *Registry) Close() error {
	var firstErr error
	closeIfLoaded := func(loaded bool, v interface{}) {
		if !loaded {
			return
		}
		if c, ok := v.(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	closeIfLoaded(r.summarizer.loaded(), r.summarizer.value)
	closeIfLoaded(r.transcriber.loaded(), r.transcriber.value)
	closeIfLoaded(r.translator.loaded(), r.translator.value)

	if r.client != nil {
		r.client.CloseIdleConnections()
	}
	return firstErr
}

func load[T any](r *Registry, name string, build func() (T, error)) func() (T, error) {
	return func() (T, error) {
		logger := r.logger.WithFields(logrus.Fields{
			"backend": name,
			"kind":    r.cfg.Backend,
		})
		logger.Info("Initializing model backend")
		v, err := build()
		if err != nil {
			logger.WithError(err).Error("Model backend initialization failed")
			return v, err
		}
		logger.Info("Model backend ready")
		return v, nil
	}
}

func (r *Registry) buildSummarizer() (Summarizer, error) {
	if r.cfg.Backend == config.BackendScript {
		runner, err := r.scriptRunner(scripts.SummarizeScript)
		if err != nil {
			return nil, err
		}
		return &scriptSummarizer{runner: runner, model: r.cfg.SummaryModel}, nil
	}
	return NewHTTPSummarizer(r.client, r.cfg.Endpoint, r.cfg.SummaryModel, r.cfg.APIToken), nil
}

func (r *Registry) buildTranscriber() (Transcriber, error) {
	if r.cfg.Backend == config.BackendScript {
		runner, err := r.scriptRunner(scripts.TranscribeScript)
		if err != nil {
			return nil, err
		}
		return &scriptTranscriber{runner: runner, model: r.cfg.TranscribeModel}, nil
	}
	return NewHTTPTranscriber(r.client, r.cfg.TranscribeEndpoint, r.cfg.TranscribeModel, r.cfg.APIToken), nil
}

func (r *Registry) buildTranslator() (Translator, error) {
	if r.cfg.Backend == config.BackendScript {
		runner, err := r.scriptRunner(scripts.TranslateScript)
		if err != nil {
			return nil, err
		}
		return &scriptTranslator{runner: runner, model: r.cfg.TranslateModel}, nil
	}
	return NewHTTPTranslator(r.client, r.cfg.Endpoint, r.cfg.TranslateModel, r.cfg.APIToken), nil
}

func (r *Registry) scriptRunner(script string) (*scripts.ScriptRunner, error) {
	cfg := scripts.Config{
		Launcher:    r.cfg.PythonPath,
		ScriptsPath: r.cfg.ScriptsPath,
		Timeout:     r.cfg.RequestTimeout,
		Environment: r.cfg.Environment,
		Required:    []string{script},
	}
	if cfg.Launcher == "uv" {
		cfg.LauncherArgs = []string{"run"}
	}
	return scripts.NewScriptRunner(cfg, r.logger)
}
