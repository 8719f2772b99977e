package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/ytget/likedl/internal/config"
	"github.com/ytget/likedl/internal/download"
	"github.com/ytget/likedl/internal/fetch"
	"github.com/ytget/likedl/internal/logger"
	"github.com/ytget/likedl/internal/manifest"
	"github.com/ytget/likedl/internal/model"
	"github.com/ytget/likedl/internal/platform"
	"github.com/ytget/likedl/internal/probe"
	"github.com/ytget/likedl/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppName     = "likedl"
	FlagVersion = "version"
)

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := config.NewFlagSet(AppName)
	flags.BoolP(FlagVersion, "v", false, "Print version and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}
	if showVersion, _ := flags.GetBool(FlagVersion); showVersion {
		fmt.Printf("%s v%s\n", AppName, version)
		return ExitOK
	}

	settings, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}

	log, closer, err := logger.New(logger.Options{Level: settings.GetLogLevel(), File: settings.GetLogFile()}, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, logging to stderr\n", err)
	}
	defer closer.Close()

	log.WithFields(logrus.Fields{
		"version": version,
		"config":  settings.ConfigFileUsed(),
		"backend": settings.GetBackend(),
		"dir":     settings.GetDownloadDirectory(),
	}).Info("Starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create downloads directory: %v\n", err)
		return ExitFailure
	}

	store := manifest.NewStore(downloadsDir)
	if err := store.Load(); err != nil {
		log.WithError(err).Error("Failed to load manifest")
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, manifest.ErrMalformed) {
			fmt.Fprintf(os.Stderr, "fix or remove %s to continue\n", store.Path())
		}
		return ExitFailure
	}
	log.WithField("downloaded", store.Count()).Info("Loaded manifest")

	creds := settings.Credentials()
	fetcher := fetch.NewService(newEnumerator(settings, log), creds, log)
	batch := download.NewService(
		newDownloader(settings, log),
		newVerifier(settings, log),
		downloadsDir,
		creds,
		settings.GetProgressInterval(),
		log,
	)

	var selector ui.Selector = ui.NewSurveySelector()
	if settings.GetDownloadAll() {
		selector = ui.AllSelector{}
	}

	var failed int
	app := ui.NewApp(fetcher, batch, store, selector, os.Stdout, os.Stdin, ui.Options{
		Source:      settings.GetSource(),
		Credentials: creds,
		Interactive: !settings.GetDownloadAll(),
		OnBatchDone: func(summary *model.BatchSummary) {
			failed = summary.Failed
			afterBatch(settings, summary, log)
		},
	}, log)

	if err := app.Run(ctx); err != nil {
		log.WithError(err).Error("Session failed")
		return ExitFailure
	}
	if settings.GetDownloadAll() && failed > 0 {
		return ExitFailure
	}
	return ExitOK
}

// newEnumerator selects the playlist backend
func newEnumerator(settings *config.Settings, log *logrus.Logger) fetch.Enumerator {
	if settings.GetBackend() == config.BackendNative {
		return platform.NewNativeEnumerator(settings.GetFetchTimeout(), log)
	}
	return platform.NewYTDLPEnumerator(settings.GetYTDLPPath(), settings.GetFetchTimeout(), log)
}

func newDownloader(settings *config.Settings, log *logrus.Logger) download.ItemDownloader {
	return platform.NewYTDLPDownloader(platform.DownloaderOptions{
		Executable:       settings.GetYTDLPPath(),
		AudioQuality:     settings.GetAudioQuality(),
		ProgressInterval: settings.GetProgressInterval(),
		Retries:          settings.GetRetries(),
	}, log)
}

// newVerifier returns nil when verification is disabled
func newVerifier(settings *config.Settings, log *logrus.Logger) download.Verifier {
	if !settings.GetVerifyAudio() {
		return nil
	}
	return probe.NewService(settings.GetFFprobePath(), log)
}

// afterBatch exports the playlist and reveals the directory when enabled
func afterBatch(settings *config.Settings, summary *model.BatchSummary, log *logrus.Logger) {
	dir := settings.GetDownloadDirectory()

	if settings.GetExportPlaylist() {
		path := filepath.Join(dir, platform.LatestPlaylistName)
		entries := playlistEntries(summary)
		if err := platform.WritePlaylist(path, entries); err != nil {
			log.WithError(err).Warn("Failed to write playlist")
		} else if len(entries) > 0 {
			log.WithFields(logrus.Fields{"path": path, "tracks": len(entries)}).Info("Wrote playlist")
		}
	}

	if settings.GetRevealOnComplete() && summary.Succeeded > 0 {
		if err := platform.OpenDirectory(dir); err != nil {
			log.WithError(err).Warn("Failed to open downloads directory")
		}
	}
}

// playlistEntries lists the files a batch produced, in batch order
func playlistEntries(summary *model.BatchSummary) []platform.PlaylistEntry {
	results := summary.SucceededResults()
	entries := make([]platform.PlaylistEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, platform.PlaylistEntry{
			Path:     r.Path,
			Title:    r.Item.Channel + platform.ArtistSeparator + r.Item.Title,
			Duration: r.Item.Duration,
		})
	}
	return entries
}
