// Package ui provides the terminal interface for sqsnav.
//
// The interface is a Bubble Tea program with two views:
//
//   - Tree view: bookmarked queues with their Send and Subscriptions groups
//     on the left, details for the selected node on the right
//   - Logs view: the tail of sqsnav's own log file, filterable by level
//     and search text
//
// All bookmark and mark changes go through tree.Synchronizer, which writes
// the store before patching the tree. Remote calls (list, send, attributes,
// caller identity) run as tea.Cmds with a bounded context and report back as
// messages handled in actions.go. Dialogs implement Modal and emit their
// result as a message, so the Model stays the only place state changes.
//
// External edits to the store directory arrive on Options.Reloads and cause
// a full tree rebuild. Expand state is keyed by node identity rather than
// NodeID so it survives rebuilds.
package ui
