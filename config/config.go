package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	BackendHTTP   = "http"
	BackendScript = "script"

	DownloaderYTDLP  = "ytdlp"
	DownloaderNative = "native"
)

type Config struct {
	// Server settings
	ServerPort   string        `json:"server_port" yaml:"server_port"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	Debug        bool          `json:"debug" yaml:"debug"`

	// Application paths
	LogDir  string `json:"log_dir" yaml:"log_dir"`
	TempDir string `json:"temp_dir" yaml:"temp_dir"`

	LogLevel  string `json:"log_level" yaml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format"`

	Version string `json:"version" yaml:"version"`

	// Request and shutdown timeouts
	RequestTimeout  time.Duration `json:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`

	Middleware MiddlewareConfig `json:"middleware" yaml:"middleware"`
	CORS       CORSConfig       `json:"cors" yaml:"cors"`
	RateLimit  RateLimitConfig  `json:"rate_limit" yaml:"rate_limit"`
	Video      VideoConfig      `json:"video" yaml:"video"`
	Captions   CaptionsConfig   `json:"captions" yaml:"captions"`
	Summary    SummaryConfig    `json:"summary" yaml:"summary"`
	Models     ModelsConfig     `json:"models" yaml:"models"`
}

type MiddlewareConfig struct {
	EnableRecover   bool `json:"enable_recover" yaml:"enable_recover"`
	EnableRequestID bool `json:"enable_request_id" yaml:"enable_request_id"`
	EnableLogger    bool `json:"enable_logger" yaml:"enable_logger"`
	EnableTimeout   bool `json:"enable_timeout" yaml:"enable_timeout"`
	EnableCORS      bool `json:"enable_cors" yaml:"enable_cors"`
	EnableRateLimit bool `json:"enable_rate_limit" yaml:"enable_rate_limit"`
}

type CORSConfig struct {
	Enabled          bool     `json:"enabled" yaml:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `json:"exposed_headers" yaml:"exposed_headers"`
	AllowCredentials bool     `json:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `json:"max_age" yaml:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `json:"enabled" yaml:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute" yaml:"requests_per_minute"`
	BurstSize         int  `json:"burst_size" yaml:"burst_size"`
}

// VideoConfig covers everything that touches the video itself: the overall
// processing deadline and how audio is pulled when captions are missing.
type VideoConfig struct {
	ProcessTimeout      time.Duration `json:"process_timeout" yaml:"process_timeout"`
	AudioDownloader     string        `json:"audio_downloader" yaml:"audio_downloader"`
	FFmpegPath          string        `json:"ffmpeg_path" yaml:"ffmpeg_path"`
	AllowNonYouTubeURLs bool          `json:"allow_non_youtube_urls" yaml:"allow_non_youtube_urls"`
}

type CaptionsConfig struct {
	DefaultLanguage   string        `json:"default_language" yaml:"default_language"`
	SecondaryLanguage string        `json:"secondary_language" yaml:"secondary_language"`
	HTTPTimeout       time.Duration `json:"http_timeout" yaml:"http_timeout"`
}

type SummaryConfig struct {
	ChunkSize     int    `json:"chunk_size" yaml:"chunk_size"`
	MinWords      int    `json:"min_words" yaml:"min_words"`
	MinChunkWords int    `json:"min_chunk_words" yaml:"min_chunk_words"`
	DefaultTier   string `json:"default_tier" yaml:"default_tier"`
}

type ModelsConfig struct {
	Backend            string        `json:"backend" yaml:"backend"`
	Endpoint           string        `json:"endpoint" yaml:"endpoint"`
	TranscribeEndpoint string        `json:"transcribe_endpoint" yaml:"transcribe_endpoint"`
	APIToken           string        `json:"-" yaml:"api_token"`
	SummaryModel       string        `json:"summary_model" yaml:"summary_model"`
	TranscribeModel    string        `json:"transcribe_model" yaml:"transcribe_model"`
	TranslateModel     string        `json:"translate_model" yaml:"translate_model"`
	RequestTimeout     time.Duration `json:"request_timeout" yaml:"request_timeout"`
	PythonPath         string        `json:"python_path" yaml:"python_path"`
	ScriptsPath        string        `json:"scripts_path" yaml:"scripts_path"`
	Environment        []string      `json:"environment" yaml:"environment"`
}

func defaultDevConfig() MiddlewareConfig {
	return MiddlewareConfig{
		EnableRecover:   true,
		EnableRequestID: true,
		EnableLogger:    true,
		EnableTimeout:   false,
		EnableCORS:      true,
		EnableRateLimit: false,
	}
}

func defaultProdConfig() MiddlewareConfig {
	return MiddlewareConfig{
		EnableRecover:   true,
		EnableRequestID: true,
		EnableLogger:    true,
		EnableTimeout:   true,
		EnableCORS:      true,
		EnableRateLimit: true,
	}
}

// Defaults returns the configuration used before any file or environment
// overrides are applied.
func Defaults() *Config {
	return &Config{
		ServerPort:      "8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    16 * time.Minute,
		IdleTimeout:     60 * time.Second,
		LogDir:          "/var/log/yt-summary",
		TempDir:         os.TempDir(),
		LogLevel:        "info",
		LogFormat:       "text",
		Version:         "1.0.0",
		RequestTimeout:  20 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		Middleware:      defaultDevConfig(),
		CORS: CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         86400,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 30,
			BurstSize:         5,
		},
		Video: VideoConfig{
			ProcessTimeout:  15 * time.Minute,
			AudioDownloader: DownloaderYTDLP,
			FFmpegPath:      "ffmpeg",
		},
		Captions: CaptionsConfig{
			DefaultLanguage:   "en",
			SecondaryLanguage: "en",
			HTTPTimeout:       30 * time.Second,
		},
		Summary: SummaryConfig{
			ChunkSize:     800,
			MinWords:      50,
			MinChunkWords: 30,
			DefaultTier:   "medium",
		},
		Models: ModelsConfig{
			Backend:            BackendHTTP,
			Endpoint:           "http://localhost:8000",
			TranscribeEndpoint: "http://localhost:8001",
			SummaryModel:       "facebook/bart-large-cnn",
			TranscribeModel:    "base",
			TranslateModel:     "Helsinki-NLP/opus-mt-mul-en",
			RequestTimeout:     5 * time.Minute,
			PythonPath:         "uv",
			ScriptsPath:        "./scripts",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, an optional .env file and finally the process environment.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
		logrus.WithFields(logrus.Fields{
			"file":  envFile,
			"error": err,
		}).Warn("Failed to load env file, continuing with process environment")
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.ReadTimeout = getEnvAsDuration("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getEnvAsDuration("WRITE_TIMEOUT", c.WriteTimeout)
	c.IdleTimeout = getEnvAsDuration("IDLE_TIMEOUT", c.IdleTimeout)
	c.Debug = getEnvAsBool("DEBUG", c.Debug)

	c.LogDir = getEnv("LOG_DIR", c.LogDir)
	c.TempDir = getEnv("TEMP_DIR", c.TempDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.Version = getEnv("VERSION", c.Version)

	c.RequestTimeout = getEnvAsDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)

	if os.Getenv("ENV") == "production" {
		c.Middleware = defaultProdConfig()
	}

	c.CORS.Enabled = getEnvAsBool("CORS_ENABLED", c.CORS.Enabled)
	c.CORS.AllowedOrigins = getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)
	c.CORS.AllowedMethods = getEnvAsStringSlice("CORS_ALLOWED_METHODS", c.CORS.AllowedMethods)
	c.CORS.AllowedHeaders = getEnvAsStringSlice("CORS_ALLOWED_HEADERS", c.CORS.AllowedHeaders)
	c.CORS.ExposedHeaders = getEnvAsStringSlice("CORS_EXPOSED_HEADERS", c.CORS.ExposedHeaders)
	c.CORS.AllowCredentials = getEnvAsBool("CORS_ALLOW_CREDENTIALS", c.CORS.AllowCredentials)
	c.CORS.MaxAge = getEnvAsInt("CORS_MAX_AGE", c.CORS.MaxAge)

	c.RateLimit.Enabled = getEnvAsBool("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.RequestsPerMinute = getEnvAsInt("RATE_LIMIT_RPM", c.RateLimit.RequestsPerMinute)
	c.RateLimit.BurstSize = getEnvAsInt("RATE_LIMIT_BURST", c.RateLimit.BurstSize)

	c.Video.ProcessTimeout = getEnvAsDuration("VIDEO_PROCESS_TIMEOUT", c.Video.ProcessTimeout)
	c.Video.AudioDownloader = getEnv("AUDIO_DOWNLOADER", c.Video.AudioDownloader)
	c.Video.FFmpegPath = getEnv("FFMPEG_PATH", c.Video.FFmpegPath)
	c.Video.AllowNonYouTubeURLs = getEnvAsBool("ALLOW_NON_YOUTUBE_URLS", c.Video.AllowNonYouTubeURLs)

	c.Captions.DefaultLanguage = getEnv("CAPTIONS_DEFAULT_LANGUAGE", c.Captions.DefaultLanguage)
	c.Captions.SecondaryLanguage = getEnv("CAPTIONS_SECONDARY_LANGUAGE", c.Captions.SecondaryLanguage)
	c.Captions.HTTPTimeout = getEnvAsDuration("CAPTIONS_HTTP_TIMEOUT", c.Captions.HTTPTimeout)

	c.Summary.ChunkSize = getEnvAsInt("SUMMARY_CHUNK_SIZE", c.Summary.ChunkSize)
	c.Summary.MinWords = getEnvAsInt("SUMMARY_MIN_WORDS", c.Summary.MinWords)
	c.Summary.MinChunkWords = getEnvAsInt("SUMMARY_MIN_CHUNK_WORDS", c.Summary.MinChunkWords)
	c.Summary.DefaultTier = getEnv("SUMMARY_DEFAULT_TIER", c.Summary.DefaultTier)

	c.Models.Backend = getEnv("MODEL_BACKEND", c.Models.Backend)
	c.Models.Endpoint = getEnv("MODEL_ENDPOINT", c.Models.Endpoint)
	c.Models.TranscribeEndpoint = getEnv("TRANSCRIBE_ENDPOINT", c.Models.TranscribeEndpoint)
	c.Models.APIToken = getEnv("MODEL_API_TOKEN", c.Models.APIToken)
	c.Models.SummaryModel = getEnv("SUMMARY_MODEL", c.Models.SummaryModel)
	c.Models.TranscribeModel = getEnv("WHISPER_MODEL", c.Models.TranscribeModel)
	c.Models.TranslateModel = getEnv("TRANSLATE_MODEL", c.Models.TranslateModel)
	c.Models.RequestTimeout = getEnvAsDuration("MODEL_REQUEST_TIMEOUT", c.Models.RequestTimeout)
	c.Models.PythonPath = getEnv("PYTHON_PATH", c.Models.PythonPath)
	c.Models.ScriptsPath = getEnv("SCRIPTS_PATH", c.Models.ScriptsPath)
	c.Models.Environment = getEnvAsStringSlice("SCRIPTS_ENVIRONMENT", c.Models.Environment)
}

func (c *Config) Validate() error {
	if err := validateTimeouts(c); err != nil {
		return err
	}
	if err := validateServices(c); err != nil {
		return err
	}
	return validatePaths(c)
}

func validatePaths(c *Config) error {
	paths := []struct {
		path string
		name string
	}{
		{c.LogDir, "log directory"},
		{c.TempDir, "temp directory"},
	}

	for _, p := range paths {
		if p.path == "" {
			return errors.Errorf("%s is required", p.name)
		}
		if err := os.MkdirAll(p.path, 0755); err != nil {
			return errors.Wrapf(err, "failed to create %s", p.name)
		}
	}

	return nil
}

func validateTimeouts(c *Config) error {
	if c.ReadTimeout <= 0 {
		return errors.New("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return errors.New("write timeout must be positive")
	}
	if c.Video.ProcessTimeout <= 0 {
		return errors.New("video process timeout must be positive")
	}
	// the pipeline deadline has to expire while the response can still be written
	if c.WriteTimeout <= c.Video.ProcessTimeout {
		return errors.Errorf("write timeout %s must exceed video process timeout %s", c.WriteTimeout, c.Video.ProcessTimeout)
	}
	if c.Middleware.EnableTimeout && c.RequestTimeout < c.Video.ProcessTimeout {
		return errors.Errorf("request timeout %s must not be shorter than video process timeout %s", c.RequestTimeout, c.Video.ProcessTimeout)
	}
	return nil
}

func validateServices(c *Config) error {
	if c.ServerPort == "" {
		return errors.New("server port is required")
	}
	switch c.Models.Backend {
	case BackendHTTP, BackendScript:
	default:
		return errors.Errorf("unknown model backend %q", c.Models.Backend)
	}
	switch c.Video.AudioDownloader {
	case DownloaderYTDLP, DownloaderNative:
	default:
		return errors.Errorf("unknown audio downloader %q", c.Video.AudioDownloader)
	}
	if c.Summary.ChunkSize <= 0 {
		return errors.New("summary chunk size must be positive")
	}
	if c.Summary.MinWords < 0 || c.Summary.MinChunkWords < 0 {
		return errors.New("summary word thresholds cannot be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid boolean, using default")
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return parts
		}
	}
	return defaultValue
}
