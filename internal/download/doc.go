package download

// Package download implements the batch download loop. Selected items are
// downloaded one at a time through an ItemDownloader (yt-dlp via
// github.com/lrstanley/go-ytdlp in production), staged in a hidden directory,
// optionally verified, moved into place and recorded in the manifest. Progress
// is reported to the caller as model.ProgressEvent values.
