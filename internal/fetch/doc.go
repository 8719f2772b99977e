package fetch

// Package fetch enumerates the liked-video collection through a media tool
// adapter and turns raw entries into typed items. Progress is reported as
// plain (current, total) pairs; the log format stays in the adapter.
