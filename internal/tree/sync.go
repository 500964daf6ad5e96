package tree

import (
	"fmt"

	"github.com/five82/sqsnav/internal/store"
)

// Synchronizer keeps the display tree and the preference store in lock-step.
// Each user action persists through the store first and patches the tree only
// when the store accepted it, then fires a single change notification.
// The tree is rebuilt from scratch only by Load.
type Synchronizer struct {
	store     *store.Store
	tree      *Tree
	listeners []func()
}

// NewSynchronizer builds the tree from the store's current contents.
func NewSynchronizer(s *store.Store) *Synchronizer {
	sy := &Synchronizer{store: s}
	sy.build()
	return sy
}

// OnChange registers fn to run after every mutating action.
func (sy *Synchronizer) OnChange(fn func()) {
	if fn != nil {
		sy.listeners = append(sy.listeners, fn)
	}
}

func (sy *Synchronizer) changed() {
	for _, fn := range sy.listeners {
		fn()
	}
}

// Tree exposes the current tree for reads. Callers must not hold on to it
// across Load, which replaces it.
func (sy *Synchronizer) Tree() *Tree {
	return sy.tree
}

// Store returns the backing preference store.
func (sy *Synchronizer) Store() *store.Store {
	return sy.store
}

// Load rebuilds the tree from the store and notifies listeners.
func (sy *Synchronizer) Load() {
	sy.build()
	sy.changed()
}

func (sy *Synchronizer) build() {
	t := New()
	for _, q := range sy.store.Queues() {
		sy.addQueueNode(t, q.Region, q.QueueID)
	}
	sy.tree = t
}

func (sy *Synchronizer) addQueueNode(t *Tree, region, queueID string) (NodeID, bool) {
	var paths []string
	for _, f := range sy.store.MessageFilesFor(region, queueID) {
		paths = append(paths, f.Path)
	}
	id, added := t.AddQueueNode(region, queueID, paths)
	if added {
		sy.applyMarks(t, id)
	}
	return id, added
}

func (sy *Synchronizer) applyMarks(t *Tree, id NodeID) {
	t.Walk(id, func(n Node, _ int) {
		if !n.Markable() {
			return
		}
		ref := n.Ref()
		t.setMarks(n.ID, sy.store.IsFavorite(ref), sy.store.IsHidden(ref))
	})
}

// AddQueue bookmarks a queue and adds its node. Adding an existing queue is a no-op.
func (sy *Synchronizer) AddQueue(region, queueID string) (NodeID, error) {
	storeChanged, err := sy.store.AddQueue(region, queueID)
	if err != nil {
		return 0, fmt.Errorf("add queue %s: %w", queueID, err)
	}
	id, added := sy.addQueueNode(sy.tree, region, queueID)
	if storeChanged || added {
		sy.changed()
	}
	return id, nil
}

// RemoveQueue drops the bookmark and its node. Removing an unknown queue is a no-op.
func (sy *Synchronizer) RemoveQueue(region, queueID string) error {
	storeChanged, err := sy.store.RemoveQueue(region, queueID)
	if err != nil {
		return fmt.Errorf("remove queue %s: %w", queueID, err)
	}
	removed := sy.tree.RemoveQueueNode(region, queueID)
	if storeChanged || removed {
		sy.changed()
	}
	return nil
}

// AddMessageFile associates path with the queue owning sendGroup and adds a
// FileSend node under it.
func (sy *Synchronizer) AddMessageFile(sendGroup NodeID, path string) (NodeID, error) {
	group, ok := sy.tree.Node(sendGroup)
	if !ok {
		return 0, ErrNotFound
	}
	if group.Role != RoleSendGroup {
		return 0, ErrWrongRole
	}
	storeChanged, err := sy.store.AddMessageFile(group.Region, group.QueueID, path)
	if err != nil {
		return 0, fmt.Errorf("attach %s: %w", path, err)
	}
	id, added, err := sy.tree.AddMessageFileNode(sendGroup, path)
	if err != nil {
		return 0, err
	}
	if added {
		sy.applyMarks(sy.tree, id)
	}
	if storeChanged || added {
		sy.changed()
	}
	return id, nil
}

// RemoveMessageFile detaches a FileSend node and forgets its association and
// marks. The tree is left alone when the store rejects the change. Unknown
// or parentless nodes are ignored, so detaching twice is safe.
func (sy *Synchronizer) RemoveMessageFile(fileSend NodeID) error {
	n, ok := sy.tree.Node(fileSend)
	if !ok || n.Parent == 0 {
		return nil
	}
	if n.Role != RoleFileSend {
		return ErrWrongRole
	}
	storeChanged, err := sy.store.RemoveMessageFile(n.Region, n.QueueID, n.FilePath)
	if err != nil {
		return fmt.Errorf("detach %s: %w", n.FilePath, err)
	}
	removed := sy.tree.RemoveMessageFileNode(fileSend)
	if storeChanged || removed {
		sy.changed()
	}
	return nil
}

// SetFavorite marks a Queue or FileSend node as favorite.
func (sy *Synchronizer) SetFavorite(id NodeID, on bool) error {
	return sy.mark(id, func(n Node) (bool, error) {
		changed, err := sy.store.SetFavorite(n.Ref(), on)
		if err == nil {
			sy.tree.setMarks(id, on, n.Hidden)
		}
		return changed, err
	})
}

// SetHidden marks a Queue or FileSend node as hidden.
func (sy *Synchronizer) SetHidden(id NodeID, on bool) error {
	return sy.mark(id, func(n Node) (bool, error) {
		changed, err := sy.store.SetHidden(n.Ref(), on)
		if err == nil {
			sy.tree.setMarks(id, n.Favorite, on)
		}
		return changed, err
	})
}

func (sy *Synchronizer) mark(id NodeID, apply func(Node) (bool, error)) error {
	n, ok := sy.tree.Node(id)
	if !ok {
		return ErrNotFound
	}
	if !n.Markable() {
		return ErrWrongRole
	}
	changed, err := apply(n)
	if err != nil {
		return fmt.Errorf("mark %s: %w", n.Label, err)
	}
	if changed {
		sy.changed()
	}
	return nil
}

// SetFilter stores the filter string used by Visible.
func (sy *Synchronizer) SetFilter(filter string) error {
	return sy.toggle(sy.store.SetFilter(filter))
}

// SetShowOnlyFavorites stores the show-only-favorites toggle.
func (sy *Synchronizer) SetShowOnlyFavorites(on bool) error {
	return sy.toggle(sy.store.SetShowOnlyFavorites(on))
}

// SetShowHidden stores the show-hidden toggle.
func (sy *Synchronizer) SetShowHidden(on bool) error {
	return sy.toggle(sy.store.SetShowHidden(on))
}

func (sy *Synchronizer) toggle(changed bool, err error) error {
	if err != nil {
		return fmt.Errorf("update view: %w", err)
	}
	if changed {
		sy.changed()
	}
	return nil
}

// Visible returns the roots that pass the stored view toggles.
func (sy *Synchronizer) Visible() []NodeID {
	return Visible(sy.tree, sy.store.View())
}
