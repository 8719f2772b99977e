package config

import (
	"github.com/spf13/pflag"
)

// Command line flag names
const (
	FlagDir      = "dir"
	FlagSource   = "source"
	FlagBackend  = "backend"
	FlagBrowser  = "browser"
	FlagCookies  = "cookies"
	FlagYTDLP    = "ytdlp"
	FlagFFprobe  = "ffprobe"
	FlagVerify   = "verify"
	FlagQuality  = "quality"
	FlagRetries  = "retries"
	FlagM3U      = "m3u"
	FlagReveal   = "reveal"
	FlagLogLevel = "log-level"
	FlagLogFile  = "log-file"
	FlagAll      = "all"
	FlagConfig   = "config"
)

// flagNames maps settings keys to the flags overriding them
var flagNames = map[string]string{
	KeyDownloadDir:        FlagDir,
	KeySource:             FlagSource,
	KeyBackend:            FlagBackend,
	KeyCookiesFromBrowser: FlagBrowser,
	KeyCookieFile:         FlagCookies,
	KeyYTDLPPath:          FlagYTDLP,
	KeyFFprobePath:        FlagFFprobe,
	KeyVerifyAudio:        FlagVerify,
	KeyAudioQuality:       FlagQuality,
	KeyRetries:            FlagRetries,
	KeyExportPlaylist:     FlagM3U,
	KeyRevealOnComplete:   FlagReveal,
	KeyLogLevel:           FlagLogLevel,
	KeyLogFile:            FlagLogFile,
	KeyDownloadAll:        FlagAll,
}

// NewFlagSet declares the command line flags understood by Load
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false

	fs.StringP(FlagDir, "d", DefaultDownloadDir, "Directory for MP3 files and the manifest")
	fs.String(FlagSource, DefaultSource, "Playlist URL to fetch")
	fs.String(FlagBackend, DefaultBackend, "Playlist backend: ytdlp or native (public playlists only)")
	fs.StringP(FlagBrowser, "b", DefaultCookiesFromBrowser, "Browser to read cookies from, 'none' to disable")
	fs.String(FlagCookies, "", "Netscape cookie file, takes precedence over --browser")
	fs.String(FlagYTDLP, DefaultYTDLPPath, "yt-dlp executable")
	fs.String(FlagFFprobe, DefaultFFprobePath, "ffprobe executable")
	fs.Bool(FlagVerify, DefaultVerifyAudio, "Check finished files with ffprobe")
	fs.String(FlagQuality, "", "yt-dlp audio quality (0 best to 10 worst, or a bitrate like 192K)")
	fs.Int(FlagRetries, DefaultRetries, "Extra attempts per item (max 5)")
	fs.Bool(FlagM3U, DefaultExportPlaylist, "Write latest.m3u8 after each batch")
	fs.Bool(FlagReveal, DefaultRevealOnComplete, "Open the downloads directory after each batch")
	fs.String(FlagLogLevel, DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.String(FlagLogFile, "", "Log file (default <dir>/likedl.log)")
	fs.BoolP(FlagAll, "a", false, "Download every new item without prompting")
	fs.StringP(FlagConfig, "c", "", "Config file (default ./likedl.{json,yaml} or ~/.config/likedl/)")

	return fs
}
