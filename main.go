package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kkdai/youtube/v2"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/handlers/api"
	"github.com/nijaru/yt-summary/inference"
	"github.com/nijaru/yt-summary/logger"
	"github.com/nijaru/yt-summary/services/audio"
	"github.com/nijaru/yt-summary/services/captions"
	"github.com/nijaru/yt-summary/services/metadata"
	"github.com/nijaru/yt-summary/services/pipeline"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/services/transcript"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, logFile, err := logger.New(logger.Options{
		Dir:    cfg.LogDir,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Debug:  cfg.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logFile.Close()

	ytClient := &youtube.Client{
		HTTPClient: &http.Client{Timeout: cfg.Captions.HTTPTimeout},
	}

	registry := inference.NewRegistry(cfg.Models, inference.WithLogger(logr))

	server := api.NewServer(cfg,
		api.WithLogger(logr),
		api.WithServices(newPipeline(cfg, ytClient, registry, logr), metadata.NewService(ytClient, logr)),
		api.WithModelStatus(registry),
	)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-shutdownChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logr.WithError(err).Error("Server shutdown error")
		}
		if err := registry.Close(); err != nil {
			logr.WithError(err).Error("Model registry shutdown error")
		}
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		logr.WithError(err).Fatal("Server error")
	}
	<-done
}

func newPipeline(cfg *config.Config, ytClient *youtube.Client, registry *inference.Registry, logr *logrus.Logger) *pipeline.Pipeline {
	var downloader audio.Downloader
	switch cfg.Video.AudioDownloader {
	case config.DownloaderNative:
		downloader = audio.NewNativeDownloader(ytClient, cfg.Video.FFmpegPath)
	default:
		downloader = audio.NewYTDLPDownloader()
	}

	transcripts := transcript.NewService(
		captions.NewService(ytClient, cfg.Captions.DefaultLanguage, logr),
		audio.NewService(downloader, registry, cfg.TempDir, logr),
		registry,
		cfg.Captions.SecondaryLanguage,
		logr,
	)

	summaries := summary.NewService(registry, summary.Config{
		ChunkSize:     cfg.Summary.ChunkSize,
		MinWords:      cfg.Summary.MinWords,
		MinChunkWords: cfg.Summary.MinChunkWords,
	}, logr)

	return pipeline.New(transcripts, summaries, cfg.Video.ProcessTimeout, logr)
}
