// Package logtail reads the tail of sqsnav's log file for the Logs view.
//
// Read uses a ring buffer so only the last N lines are kept in memory, in
// chronological order, however large the file grows. ParseLine splits the
// key=value records written by slog's text handler so the UI can color the
// level and dim the timestamp; Filter narrows entries by minimum level and a
// case-insensitive substring.
package logtail
