package platform

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Filename constants
const (
	AudioExtension  = ".mp3"
	MaxFileNameLen  = 200
	MaxFileStemLen  = MaxFileNameLen - len(AudioExtension)
	IllegalChars    = `<>:"/\|?*`
	EdgeTrimChars   = ".- "
	ArtistSeparator = " - "
)

// SanitizeFilename builds a filesystem-safe MP3 file name from artist and
// title. The result is never empty, at most MaxFileNameLen characters long,
// and its stem never starts or ends with '.', '-' or a space.
func SanitizeFilename(artist, title string) string {
	raw := artist + ArtistSeparator + title

	raw = strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(IllegalChars, r) {
			return -1
		}
		return r
	}, raw)

	raw = strings.Join(strings.Fields(raw), " ")
	raw = strings.Trim(raw, EdgeTrimChars)

	if utf8.RuneCountInString(raw) > MaxFileStemLen {
		raw = string([]rune(raw)[:MaxFileStemLen])
		raw = strings.TrimRight(raw, EdgeTrimChars)
	}

	if raw == "" {
		raw = randomToken()
	}

	return raw + AudioExtension
}

// randomToken returns 32 lowercase hex characters
func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidateID rejects identifiers that cannot be used as a file name stem
func ValidateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid identifier %q", id)
	}
	return nil
}
