package audio

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"

	"github.com/nijaru/yt-summary/validation"
)

// StreamClient is the part of *youtube.Client needed to pull a stream.
type StreamClient interface {
	GetVideoContext(ctx context.Context, id string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

var execCommand = exec.CommandContext

// NativeDownloader streams the best audio format with the Go YouTube client
// and transcodes it to mp3 with ffmpeg.
type NativeDownloader struct {
	client     StreamClient
	ffmpegPath string
}

func NewNativeDownloader(client StreamClient, ffmpegPath string) *NativeDownloader {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &NativeDownloader{client: client, ffmpegPath: ffmpegPath}
}

func (d *NativeDownloader) Download(ctx context.Context, url, dir string) error {
	videoID, err := validation.ResolveVideoID(url)
	if err != nil {
		return err
	}

	video, err := d.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return errors.Wrap(err, "get video")
	}

	format := BestAudioFormat(video.Formats)
	if format == nil {
		return errors.New("no audio format available")
	}

	rawPath := filepath.Join(dir, "source"+extensionFor(format.MimeType))
	if err := d.downloadStream(ctx, video, format, rawPath); err != nil {
		return err
	}

	return d.transcode(ctx, rawPath, filepath.Join(dir, ArtifactName))
}

func (d *NativeDownloader) downloadStream(ctx context.Context, video *youtube.Video, format *youtube.Format, outputPath string) error {
	stream, _, err := d.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return errors.Wrap(err, "get stream")
	}
	defer stream.Close()

	file, err := os.Create(outputPath)
	if err != nil {
		return errors.Wrap(err, "create file")
	}
	defer file.Close()

	if _, err := io.Copy(file, stream); err != nil {
		return errors.Wrap(err, "write stream")
	}
	return nil
}

func (d *NativeDownloader) transcode(ctx context.Context, input, output string) error {
	cmd := execCommand(ctx, d.ffmpegPath,
		"-hide_banner",
		"-loglevel", "error",
		"-i", input,
		"-vn",
		"-acodec", "libmp3lame",
		"-y",
		output,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "ffmpeg: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// BestAudioFormat picks the highest bitrate audio-only format, preferring
// mp4/m4a containers.
func BestAudioFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.Contains(f.MimeType, "audio") || !strings.Contains(f.MimeType, "mp4") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	if best != nil {
		return best
	}

	for i := range formats {
		f := &formats[i]
		if !strings.Contains(f.MimeType, "audio") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}

func extensionFor(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "webm"):
		return ".webm"
	case strings.Contains(mimeType, "mp4"):
		return ".m4a"
	default:
		return ".audio"
	}
}
