package platform

// Package platform contains OS integration and external tooling glue:
// filesystem helpers, filename sanitizing, yt-dlp adapters for playlist
// enumeration and audio downloads, playlist export and OS reveal.
