// Package state holds the latest queue attribute snapshot shared between the
// background attribute poller and the UI.
//
// The poller is the single writer; the UI reads copies through Snapshot on
// its own tick. A failed round keeps the last good numbers and records the
// error and the count of consecutive failures, so the UI can keep showing
// message counts while flagging that they may be stale.
//
// The zero Store is ready to use.
package state
