package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"

	"github.com/ytget/likedl/internal/model"
)

// Download defaults
const (
	AudioFormatSelector     = "bestaudio/best"
	AudioCodecMP3           = "mp3"
	OutputExtTemplate       = ".%(ext)s"
	DefaultProgressInterval = 250 * time.Millisecond
	DefaultRetryDelay       = 2 * time.Second
)

// YTDLPDownloader downloads single videos and extracts MP3 audio through
// yt-dlp (via github.com/lrstanley/go-ytdlp).
type YTDLPDownloader struct {
	executable       string
	audioQuality     string
	progressInterval time.Duration
	retries          int
	retryDelay       time.Duration
	log              *logrus.Logger
}

// DownloaderOptions configures a YTDLPDownloader
type DownloaderOptions struct {
	Executable       string
	AudioQuality     string
	ProgressInterval time.Duration
	Retries          int
}

// NewYTDLPDownloader creates a new downloader
func NewYTDLPDownloader(opts DownloaderOptions, log *logrus.Logger) *YTDLPDownloader {
	interval := opts.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	return &YTDLPDownloader{
		executable:       opts.Executable,
		audioQuality:     opts.AudioQuality,
		progressInterval: interval,
		retries:          retries,
		retryDelay:       DefaultRetryDelay,
		log:              log,
	}
}

// Download fetches the video id and writes outputStem.mp3. onBytes receives
// transfer updates; total is 0 when yt-dlp does not know the size.
func (d *YTDLPDownloader) Download(ctx context.Context, id, outputStem string, creds model.Credentials, onBytes func(downloaded, total int64)) error {
	dl := d.buildCommand(outputStem, creds)

	if onBytes != nil {
		dl.ProgressFunc(d.progressInterval, func(update ytdlp.ProgressUpdate) {
			onBytes(int64(update.DownloadedBytes), int64(update.TotalBytes))
		})
	}

	return d.downloadWithRetry(ctx, dl, id)
}

// buildCommand configures yt-dlp for audio extraction into outputStem
func (d *YTDLPDownloader) buildCommand(outputStem string, creds model.Credentials) *ytdlp.Command {
	dl := ytdlp.New().
		Format(AudioFormatSelector).
		ExtractAudio().
		AudioFormat(AudioCodecMP3).
		NoPlaylist().
		ForceOverwrites().
		Output(outputStem + OutputExtTemplate)

	if d.executable != "" {
		dl.SetExecutable(d.executable)
	}
	if d.audioQuality != "" {
		dl.AudioQuality(d.audioQuality)
	}

	switch {
	case creds.CookieFile != "":
		dl.Cookies(creds.CookieFile)
	case creds.CookiesFromBrowser != "":
		dl.CookiesFromBrowser(creds.CookiesFromBrowser)
	}

	return dl
}

// downloadWithRetry runs the command, retrying up to d.retries extra times
func (d *YTDLPDownloader) downloadWithRetry(ctx context.Context, dl *ytdlp.Command, id string) error {
	videoURL := fmt.Sprintf(model.VideoURLTemplate, id)
	var lastErr error

	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(d.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			d.log.WithFields(logrus.Fields{"id": id, "attempt": attempt + 1}).Info("Retrying download")
		}

		_, err := dl.Run(ctx, videoURL)
		if err == nil {
			return nil
		}

		lastErr = err
		d.log.WithFields(logrus.Fields{"id": id, "attempt": attempt + 1}).WithError(err).Warn("Download attempt failed")

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return lastErr
}
