// Package cli wires the sqsnav cobra commands. The root command starts the
// TUI; subcommands script the same operations (listing, sending, bookmarks
// and message files) against the same store and gateway.
package cli
