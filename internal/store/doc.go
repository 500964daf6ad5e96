// Package store persists sqsnav's bookmarks, message-file associations and
// view toggles.
//
// The data lives in a diskv directory (default ~/.local/share/sqsnav/store)
// under three keys, each a JSON document:
//
//   - queues: ordered list of {region, queueId} bookmarks
//   - message-files: ordered list of {region, queueId, path} associations
//   - view: favorites, hidden marks, filter string and the two view toggles
//
// Mutations are idempotent. Adding something already present or removing
// something absent returns changed=false without touching disk or notifying
// subscribers. A real change is written before the method returns; if the
// write fails the in-memory copy is left as it was.
//
// Watch lets several sqsnav processes share one store: it reloads on
// external writes and reports only reloads that changed something.
package store
