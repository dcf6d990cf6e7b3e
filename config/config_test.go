package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setPaths(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("TEMP_DIR", filepath.Join(dir, "tmp"))
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	setPaths(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Summary.ChunkSize != 800 {
		t.Errorf("expected chunk size 800, got %d", cfg.Summary.ChunkSize)
	}
	if cfg.Summary.MinWords != 50 {
		t.Errorf("expected min words 50, got %d", cfg.Summary.MinWords)
	}
	if cfg.Summary.MinChunkWords != 30 {
		t.Errorf("expected min chunk words 30, got %d", cfg.Summary.MinChunkWords)
	}
	if cfg.Models.SummaryModel != "facebook/bart-large-cnn" {
		t.Errorf("expected facebook/bart-large-cnn, got %s", cfg.Models.SummaryModel)
	}
	if cfg.Models.TranscribeModel != "base" {
		t.Errorf("expected base, got %s", cfg.Models.TranscribeModel)
	}
	if cfg.WriteTimeout <= cfg.Video.ProcessTimeout {
		t.Errorf("expected write timeout %s to exceed process timeout %s", cfg.WriteTimeout, cfg.Video.ProcessTimeout)
	}
	if cfg.Captions.DefaultLanguage != "en" {
		t.Errorf("expected en, got %s", cfg.Captions.DefaultLanguage)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	setPaths(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("READ_TIMEOUT", "10s")
	t.Setenv("VIDEO_PROCESS_TIMEOUT", "5m")
	t.Setenv("RATE_LIMIT_RPM", "12")
	t.Setenv("MODEL_BACKEND", "script")
	t.Setenv("AUDIO_DOWNLOADER", "native")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("expected 9090, got %s", cfg.ServerPort)
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Errorf("expected 10s, got %s", cfg.ReadTimeout)
	}
	if cfg.Video.ProcessTimeout != 5*time.Minute {
		t.Errorf("expected 5m, got %s", cfg.Video.ProcessTimeout)
	}
	if cfg.RateLimit.RequestsPerMinute != 12 {
		t.Errorf("expected 12, got %d", cfg.RateLimit.RequestsPerMinute)
	}
	if cfg.Models.Backend != BackendScript {
		t.Errorf("expected script backend, got %s", cfg.Models.Backend)
	}
	if cfg.Video.AudioDownloader != DownloaderNative {
		t.Errorf("expected native downloader, got %s", cfg.Video.AudioDownloader)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadInvalidValuesKeepDefaults(t *testing.T) {
	setPaths(t)
	t.Setenv("READ_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_RPM", "many")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Errorf("expected default 15s, got %s", cfg.ReadTimeout)
	}
	if cfg.RateLimit.RequestsPerMinute != 30 {
		t.Errorf("expected default 30, got %d", cfg.RateLimit.RequestsPerMinute)
	}
}

func TestLoadYAMLFileThenEnv(t *testing.T) {
	dir := setPaths(t)
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server_port: "7000"
summary:
  chunk_size: 500
models:
  summary_model: sshleifer/distilbart-cnn-12-6
video:
  process_timeout: 90s
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerPort != "7001" {
		t.Errorf("expected env to win over file, got %s", cfg.ServerPort)
	}
	if cfg.Summary.ChunkSize != 500 {
		t.Errorf("expected 500, got %d", cfg.Summary.ChunkSize)
	}
	if cfg.Summary.MinChunkWords != 30 {
		t.Errorf("expected untouched default 30, got %d", cfg.Summary.MinChunkWords)
	}
	if cfg.Models.SummaryModel != "sshleifer/distilbart-cnn-12-6" {
		t.Errorf("unexpected summary model %s", cfg.Models.SummaryModel)
	}
	if cfg.Video.ProcessTimeout != 90*time.Second {
		t.Errorf("expected 90s, got %s", cfg.Video.ProcessTimeout)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := setPaths(t)
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("SUMMARY_DEFAULT_TIER=short\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", envPath)
	t.Cleanup(func() { os.Unsetenv("SUMMARY_DEFAULT_TIER") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Summary.DefaultTier != "short" {
		t.Errorf("expected short, got %s", cfg.Summary.DefaultTier)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Models.Backend = "grpc" },
			wantErr: true,
		},
		{
			name:    "unknown downloader",
			mutate:  func(c *Config) { c.Video.AudioDownloader = "wget" },
			wantErr: true,
		},
		{
			name:    "zero chunk size",
			mutate:  func(c *Config) { c.Summary.ChunkSize = 0 },
			wantErr: true,
		},
		{
			name:    "zero process timeout",
			mutate:  func(c *Config) { c.Video.ProcessTimeout = 0 },
			wantErr: true,
		},
		{
			name: "write timeout equal to process timeout",
			mutate: func(c *Config) {
				c.WriteTimeout = 15 * time.Minute
				c.Video.ProcessTimeout = 15 * time.Minute
			},
			wantErr: true,
		},
		{
			name:    "process timeout raised past write timeout",
			mutate:  func(c *Config) { c.Video.ProcessTimeout = 30 * time.Minute },
			wantErr: true,
		},
		{
			name: "request timeout shorter than process timeout",
			mutate: func(c *Config) {
				c.Middleware.EnableTimeout = true
				c.RequestTimeout = 5 * time.Minute
			},
			wantErr: true,
		},
		{
			name: "short request timeout without timeout middleware",
			mutate: func(c *Config) {
				c.Middleware.EnableTimeout = false
				c.RequestTimeout = 5 * time.Minute
			},
			wantErr: false,
		},
		{
			name:    "production middleware defaults",
			mutate:  func(c *Config) { c.Middleware = defaultProdConfig() },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			dir := t.TempDir()
			cfg.LogDir = filepath.Join(dir, "logs")
			cfg.TempDir = filepath.Join(dir, "tmp")
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
