package model

// Package model defines domain data structures shared by the fetch, download
// and UI layers: items, download results, batch progress events and status
// enums. Values are plain data with explicit state transitions.
