// Package app is the composition root for sqsnav.
//
// Open loads the TOML config and prefs, points log/slog at the log file (the
// TUI owns the terminal), opens the preference store and builds the SQS
// gateway. The CLI subcommands use Open directly; Run additionally builds the
// tree synchronizer, starts the store watcher and the attribute poller, and
// hands everything to the UI.
//
// # Polling
//
// The attribute poller reads every bookmarked queue's attributes on a fixed
// cadence (config poll_seconds, zero disables it) with bounded concurrency,
// and writes only to state.Store. Failed rounds back off exponentially up to
// maxBackoff; partial results from a failed round are still recorded.
//
// # Errors
//
// Config, log file and store failures are fatal and returned from Open.
// Watcher setup failures are logged and the UI runs without live reload.
// Poll failures are logged and surfaced through the snapshot.
package app
