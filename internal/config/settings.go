package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ytget/likedl/internal/model"
	"github.com/ytget/likedl/internal/platform"
)

// Enumeration backends
const (
	BackendYTDLP  = "ytdlp"
	BackendNative = "native"
)

// Settings keys
const (
	KeyDownloadDir        = "downloads_dir"
	KeySource             = "source"
	KeyBackend            = "backend"
	KeyCookiesFromBrowser = "cookies_from_browser"
	KeyCookieFile         = "cookie_file"
	KeyYTDLPPath          = "ytdlp_path"
	KeyFFprobePath        = "ffprobe_path"
	KeyVerifyAudio        = "verify_audio"
	KeyAudioQuality       = "audio_quality"
	KeyRetries            = "retries"
	KeyProgressInterval   = "progress_interval"
	KeyFetchTimeout       = "fetch_timeout"
	KeyExportPlaylist     = "export_playlist"
	KeyRevealOnComplete   = "reveal_on_complete"
	KeyLogLevel           = "log_level"
	KeyLogFile            = "log_file"
	KeyDownloadAll        = "download_all"
)

// Default values
const (
	DefaultDownloadDir        = "downloads"
	DefaultSource             = "https://www.youtube.com/playlist?list=LL"
	DefaultBackend            = BackendYTDLP
	DefaultCookiesFromBrowser = "chrome"
	DefaultYTDLPPath          = "yt-dlp"
	DefaultFFprobePath        = "ffprobe"
	DefaultVerifyAudio        = true
	DefaultRetries            = 0
	MaxRetries                = 5
	DefaultProgressInterval   = 250 * time.Millisecond
	DefaultFetchTimeout       = 5 * time.Minute
	DefaultExportPlaylist     = true
	DefaultRevealOnComplete   = false
	DefaultLogLevel           = "info"
	DefaultLogFileName        = "likedl.log"
)

// Config file lookup
const (
	ConfigName  = "likedl"
	EnvPrefix   = "LIKEDL"
	DotEnvFile  = ".env"
	UserConfDir = ".config/likedl"
)

// NoBrowser disables reading cookies from a browser
const NoBrowser = "none"

// Settings is the resolved configuration: flags over environment over the
// config file over defaults
type Settings struct {
	v *viper.Viper
}

// Load resolves settings. flags may be nil; when it carries a non-empty
// --config value that file must exist.
func Load(flags *pflag.FlagSet) (*Settings, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	if err := readConfigFile(v, flags); err != nil {
		return nil, err
	}

	s := &Settings{v: v}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadDotEnv exports variables from path unless they are already set
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDownloadDir, DefaultDownloadDir)
	v.SetDefault(KeySource, DefaultSource)
	v.SetDefault(KeyBackend, DefaultBackend)
	v.SetDefault(KeyCookiesFromBrowser, DefaultCookiesFromBrowser)
	v.SetDefault(KeyCookieFile, "")
	v.SetDefault(KeyYTDLPPath, DefaultYTDLPPath)
	v.SetDefault(KeyFFprobePath, DefaultFFprobePath)
	v.SetDefault(KeyVerifyAudio, DefaultVerifyAudio)
	v.SetDefault(KeyAudioQuality, "")
	v.SetDefault(KeyRetries, DefaultRetries)
	v.SetDefault(KeyProgressInterval, DefaultProgressInterval)
	v.SetDefault(KeyFetchTimeout, DefaultFetchTimeout)
	v.SetDefault(KeyExportPlaylist, DefaultExportPlaylist)
	v.SetDefault(KeyRevealOnComplete, DefaultRevealOnComplete)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyDownloadAll, false)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for key, name := range flagNames {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func readConfigFile(v *viper.Viper, flags *pflag.FlagSet) error {
	explicit := ""
	if flags != nil {
		explicit, _ = flags.GetString(FlagConfig)
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", explicit, err)
		}
		return nil
	}

	v.SetConfigName(ConfigName)
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, UserConfDir))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Validate checks values that cannot be corrected silently
func (s *Settings) Validate() error {
	var errs []error

	if strings.TrimSpace(s.GetSource()) == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeySource))
	}
	switch s.GetBackend() {
	case BackendYTDLP, BackendNative:
	default:
		errs = append(errs, fmt.Errorf("unknown %s %q (want %s or %s)", KeyBackend, s.GetBackend(), BackendYTDLP, BackendNative))
	}
	if strings.TrimSpace(s.GetDownloadDirectory()) == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyDownloadDir))
	}
	if s.v.GetDuration(KeyProgressInterval) <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyProgressInterval))
	}
	if s.v.GetDuration(KeyFetchTimeout) <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyFetchTimeout))
	}
	if _, err := logrus.ParseLevel(s.GetLogLevel()); err != nil {
		errs = append(errs, fmt.Errorf("invalid %s: %w", KeyLogLevel, err))
	}
	if file := s.GetCookieFile(); file != "" {
		if _, err := os.Stat(file); err != nil {
			errs = append(errs, fmt.Errorf("cookie file: %w", err))
		}
	}
	if s.GetBackend() == BackendYTDLP && s.Credentials().IsZero() && platform.IsLikedSource(s.GetSource()) {
		errs = append(errs, fmt.Errorf("liked videos require credentials: set %s or %s", KeyCookieFile, KeyCookiesFromBrowser))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// ConfigFileUsed returns the config file that was read, if any
func (s *Settings) ConfigFileUsed() string {
	return s.v.ConfigFileUsed()
}

// GetDownloadDirectory returns the directory for finished files and the manifest
func (s *Settings) GetDownloadDirectory() string {
	return s.v.GetString(KeyDownloadDir)
}

// GetSource returns the playlist URL to enumerate
func (s *Settings) GetSource() string {
	return s.v.GetString(KeySource)
}

// GetBackend returns the enumeration backend
func (s *Settings) GetBackend() string {
	return strings.ToLower(strings.TrimSpace(s.v.GetString(KeyBackend)))
}

// GetCookiesFromBrowser returns the browser to read cookies from, or an
// empty string when disabled
func (s *Settings) GetCookiesFromBrowser() string {
	browser := strings.TrimSpace(s.v.GetString(KeyCookiesFromBrowser))
	if strings.EqualFold(browser, NoBrowser) {
		return ""
	}
	return browser
}

// GetCookieFile returns the Netscape cookie file path
func (s *Settings) GetCookieFile() string {
	return strings.TrimSpace(s.v.GetString(KeyCookieFile))
}

// Credentials returns the cookie source handed to yt-dlp. A cookie file takes
// precedence over browser cookies.
func (s *Settings) Credentials() model.Credentials {
	if file := s.GetCookieFile(); file != "" {
		return model.Credentials{CookieFile: file}
	}
	return model.Credentials{CookiesFromBrowser: s.GetCookiesFromBrowser()}
}

// GetYTDLPPath returns the yt-dlp executable
func (s *Settings) GetYTDLPPath() string {
	return s.v.GetString(KeyYTDLPPath)
}

// GetFFprobePath returns the ffprobe executable
func (s *Settings) GetFFprobePath() string {
	return s.v.GetString(KeyFFprobePath)
}

// GetVerifyAudio returns whether finished files are checked with ffprobe
func (s *Settings) GetVerifyAudio() bool {
	return s.v.GetBool(KeyVerifyAudio)
}

// GetAudioQuality returns the yt-dlp --audio-quality value, empty for default
func (s *Settings) GetAudioQuality() string {
	return s.v.GetString(KeyAudioQuality)
}

// GetRetries returns the number of extra attempts per item, clamped to 0..MaxRetries
func (s *Settings) GetRetries() int {
	retries := s.v.GetInt(KeyRetries)
	if retries < 0 {
		return 0
	}
	if retries > MaxRetries {
		return MaxRetries
	}
	return retries
}

// GetProgressInterval returns the minimum gap between progress events
func (s *Settings) GetProgressInterval() time.Duration {
	if d := s.v.GetDuration(KeyProgressInterval); d > 0 {
		return d
	}
	return DefaultProgressInterval
}

// GetFetchTimeout returns the time limit for enumerating the playlist
func (s *Settings) GetFetchTimeout() time.Duration {
	if d := s.v.GetDuration(KeyFetchTimeout); d > 0 {
		return d
	}
	return DefaultFetchTimeout
}

// GetExportPlaylist returns whether an M3U playlist is written after a batch
func (s *Settings) GetExportPlaylist() bool {
	return s.v.GetBool(KeyExportPlaylist)
}

// GetRevealOnComplete returns whether the downloads directory is opened after a batch
func (s *Settings) GetRevealOnComplete() bool {
	return s.v.GetBool(KeyRevealOnComplete)
}

// GetLogLevel returns the logrus level name
func (s *Settings) GetLogLevel() string {
	return strings.ToLower(s.v.GetString(KeyLogLevel))
}

// GetLogFile returns the log file path, by default inside the downloads directory
func (s *Settings) GetLogFile() string {
	if file := s.v.GetString(KeyLogFile); file != "" {
		return file
	}
	return filepath.Join(s.GetDownloadDirectory(), DefaultLogFileName)
}

// GetDownloadAll returns whether every new item is downloaded without prompting
func (s *Settings) GetDownloadAll() bool {
	return s.v.GetBool(KeyDownloadAll)
}
