// Package tree projects the preference store into the navigation tree shown
// by sqsnav and keeps the two in step.
//
// Every bookmarked queue becomes a fixed sub-tree:
//
//	orders                 (Queue)
//	├── Send               (SendGroup)
//	│   ├── Adhoc          (AdhocSend)
//	│   └── msg.json ...   (FileSend, one per message-file association)
//	└── Subscriptions      (SubscriptionGroup)
//
// Nodes live in an arena keyed by NodeID; a node's Parent is a lookup key,
// never an owner. The Synchronizer is the only writer: it persists through
// the store first, patches the tree on success and fires one change
// notification per action. Visibility filtering is done at read time and
// applies to roots only.
package tree
