package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ytget/likedl/internal/model"
	"github.com/ytget/likedl/internal/platform"
)

// Default values
const (
	DefaultTitle   = "Unknown"
	DefaultChannel = "Unknown"
)

// LiveProgressParser extracts (current, total) from a collaborator log line
type LiveProgressParser func(line string) (current, total int, ok bool)

// Service fetches the item list from an Enumerator
type Service struct {
	enumerator Enumerator
	creds      model.Credentials
	parse      LiveProgressParser
	log        *logrus.Logger
}

// NewService creates a fetch service that hands creds to the enumerator
func NewService(enumerator Enumerator, creds model.Credentials, log *logrus.Logger) *Service {
	return &Service{
		enumerator: enumerator,
		creds:      creds,
		parse:      platform.ParseItemProgress,
		log:        log,
	}
}

// Fetch lists the items of source. When some entries lack an identifier the
// usable items are returned together with a *PartialError; any other error
// means no items are available.
func (s *Service) Fetch(ctx context.Context, source string, onProgress ProgressFunc) ([]model.Item, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrNoSource
	}
	if s.creds.IsZero() && platform.IsLikedSource(source) {
		return nil, ErrNoCredentials
	}

	logSink := func(line string) {
		if onProgress == nil {
			return
		}
		if current, total, ok := s.parse(line); ok {
			onProgress(current, total)
		}
	}

	entries, err := s.enumerator.Enumerate(ctx, source, s.creds, logSink)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", source, err)
	}

	items, skipped := s.mapEntries(entries)

	s.log.WithFields(logrus.Fields{
		"source":  source,
		"items":   len(items),
		"skipped": len(skipped),
	}).Info("Fetched playlist")

	if len(skipped) > 0 {
		return items, &PartialError{Skipped: skipped}
	}
	return items, nil
}

// mapEntries converts raw entries into items, applying field defaults
func (s *Service) mapEntries(entries []model.RawEntry) ([]model.Item, []*EntryError) {
	items := make([]model.Item, 0, len(entries))
	var skipped []*EntryError

	for i, entry := range entries {
		item, err := toItem(entry)
		if err != nil {
			entryErr := &EntryError{Position: i + 1, Reason: err.Error()}
			s.log.WithFields(logrus.Fields{
				"position": entryErr.Position,
				"title":    valueOr(entry.Title, ""),
			}).Warn("Skipping unusable playlist entry")
			skipped = append(skipped, entryErr)
			continue
		}
		items = append(items, item)
	}

	return items, skipped
}

// toItem maps one raw entry; the identifier is the only mandatory field
func toItem(entry model.RawEntry) (model.Item, error) {
	id := strings.TrimSpace(valueOr(entry.ID, ""))
	if id == "" {
		return model.Item{}, fmt.Errorf("missing identifier")
	}
	if err := platform.ValidateID(id); err != nil {
		return model.Item{}, err
	}

	channel := valueOr(entry.Uploader, "")
	if channel == "" {
		channel = valueOr(entry.Channel, DefaultChannel)
	}

	return model.Item{
		ID:       id,
		Title:    valueOr(entry.Title, DefaultTitle),
		Channel:  channel,
		Duration: seconds(entry.Duration),
	}, nil
}

// valueOr dereferences s, falling back when it is nil or empty
func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// seconds converts an optional duration, unknown or negative becomes 0
func seconds(d *float64) int {
	if d == nil || *d <= 0 {
		return 0
	}
	return int(*d)
}
