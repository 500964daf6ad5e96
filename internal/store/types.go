package store

import "slices"

// QueueBookmark is a user-saved reference to a queue in a region.
type QueueBookmark struct {
	Region  string `json:"region"`
	QueueID string `json:"queueId"`
}

// MessageFile links a queue to a local file whose contents are sent as a message body.
type MessageFile struct {
	Region  string `json:"region"`
	QueueID string `json:"queueId"`
	Path    string `json:"path"`
}

// NodeRef identifies a markable tree node: a queue when Path is empty, a
// message file otherwise.
type NodeRef struct {
	Region  string `json:"region"`
	QueueID string `json:"queueId"`
	Path    string `json:"path,omitempty"`
}

// QueueRef returns the ref of the queue a message-file ref belongs to.
func (r NodeRef) QueueRef() NodeRef {
	return NodeRef{Region: r.Region, QueueID: r.QueueID}
}

// ViewState holds the persisted view toggles.
type ViewState struct {
	Favorites         []NodeRef `json:"favorites"`
	Hidden            []NodeRef `json:"hidden"`
	Filter            string    `json:"filter"`
	ShowOnlyFavorites bool      `json:"showOnlyFavorites"`
	ShowHidden        bool      `json:"showHidden"`
}

func (v ViewState) clone() ViewState {
	out := v
	out.Favorites = cloneSlice(v.Favorites)
	out.Hidden = cloneSlice(v.Hidden)
	return out
}

// EventKind describes which persisted list changed.
type EventKind int

const (
	// EventQueues fires when a bookmark is added or removed.
	EventQueues EventKind = iota
	// EventMessageFiles fires when a message-file association changes.
	EventMessageFiles
	// EventView fires when favorites, hidden marks or toggles change.
	EventView
	// EventReloaded fires when the store was re-read from disk and differed
	// from the in-memory copy. Consumers should rebuild everything.
	EventReloaded
)

func (k EventKind) String() string {
	switch k {
	case EventQueues:
		return "queues"
	case EventMessageFiles:
		return "message-files"
	case EventView:
		return "view"
	case EventReloaded:
		return "reloaded"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after a mutation has been persisted.
type Event struct {
	Kind EventKind
}

func (v ViewState) equal(o ViewState) bool {
	return v.Filter == o.Filter &&
		v.ShowOnlyFavorites == o.ShowOnlyFavorites &&
		v.ShowHidden == o.ShowHidden &&
		slices.Equal(v.Favorites, o.Favorites) &&
		slices.Equal(v.Hidden, o.Hidden)
}

func cloneSlice[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
