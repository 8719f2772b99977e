package fetch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSource is returned when no playlist source is configured
var ErrNoSource = errors.New("no playlist source configured")

// ErrNoCredentials is returned when the liked collection is requested
// without a cookie file or browser to read cookies from
var ErrNoCredentials = errors.New("liked videos require credentials: set a cookie file or a browser")

// EntryError describes an entry that could not be turned into an item
type EntryError struct {
	Position int // 1-based position in the playlist
	Reason   string
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d: %s", e.Position, e.Reason)
}

// PartialError is returned together with the usable items when some
// entries had to be skipped
type PartialError struct {
	Skipped []*EntryError
}

func (e *PartialError) Error() string {
	parts := make([]string, 0, len(e.Skipped))
	for _, s := range e.Skipped {
		parts = append(parts, s.Error())
	}
	return fmt.Sprintf("%d entries skipped: %s", len(e.Skipped), strings.Join(parts, "; "))
}

// Unwrap exposes the individual entry errors to errors.Is / errors.As
func (e *PartialError) Unwrap() []error {
	errs := make([]error, 0, len(e.Skipped))
	for _, s := range e.Skipped {
		errs = append(errs, s)
	}
	return errs
}

// IsPartial reports whether err only signals skipped entries
func IsPartial(err error) bool {
	var partial *PartialError
	return errors.As(err, &partial)
}
