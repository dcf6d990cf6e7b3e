package audio

import (
	"context"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"
	"github.com/pkg/errors"
)

// YTDLPDownloader shells out to yt-dlp, picking bestaudio and converting it
// to mp3 with ffmpeg. Both binaries are resolved from PATH.
type YTDLPDownloader struct{}

func NewYTDLPDownloader() *YTDLPDownloader {
	return &YTDLPDownloader{}
}

func (d *YTDLPDownloader) command(dir string) *ytdlp.Command {
	return ytdlp.New().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat("mp3").
		NoPlaylist().
		Quiet().
		NoProgress().
		Output(filepath.Join(dir, "audio.%(ext)s"))
}

func (d *YTDLPDownloader) Download(ctx context.Context, url, dir string) error {
	if _, err := d.command(dir).Run(ctx, url); err != nil {
		return errors.Wrap(err, "yt-dlp")
	}
	return nil
}
