package ui

// Package ui contains the terminal user interface: a loading screen while the
// playlist is fetched, a browse screen listing new items for selection and a
// download screen fed by batch events. Screens receive their dependencies
// explicitly; the background worker talks to the foreground only through a
// Dispatcher.
