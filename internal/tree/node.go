package tree

import (
	"slices"
	"strings"

	"github.com/five82/sqsnav/internal/store"
)

// Role tags what a display node stands for.
type Role int

const (
	RoleQueue Role = iota
	RoleSendGroup
	RoleAdhocSend
	RoleFileSend
	RoleSubscriptionGroup
)

func (r Role) String() string {
	switch r {
	case RoleQueue:
		return "queue"
	case RoleSendGroup:
		return "send-group"
	case RoleAdhocSend:
		return "adhoc-send"
	case RoleFileSend:
		return "file-send"
	case RoleSubscriptionGroup:
		return "subscription-group"
	default:
		return "unknown"
	}
}

// Fixed labels of the structural nodes under every queue.
const (
	LabelSendGroup         = "Send"
	LabelAdhocSend         = "Adhoc"
	LabelSubscriptionGroup = "Subscriptions"
)

// NodeID addresses a node in the arena. The zero value means "no node".
type NodeID uint64

// Node is one entry of the navigation tree. Parent is a lookup key, not an
// owner: nodes are owned by the arena and reachable from the root sequence.
type Node struct {
	ID       NodeID
	Label    string
	Role     Role
	Region   string
	QueueID  string
	FilePath string
	Children []NodeID
	Parent   NodeID
	Favorite bool
	Hidden   bool
}

// Ref returns the store identity used for favorite and hidden marks.
func (n Node) Ref() store.NodeRef {
	ref := store.NodeRef{Region: n.Region, QueueID: n.QueueID}
	if n.Role == RoleFileSend {
		ref.Path = n.FilePath
	}
	return ref
}

// Markable reports whether favorite and hidden marks apply to the node.
func (n Node) Markable() bool {
	return n.Role == RoleQueue || n.Role == RoleFileSend
}

// Tree is an arena of nodes plus the ordered root sequence.
type Tree struct {
	nodes map[NodeID]*Node
	roots []NodeID
	next  NodeID
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{nodes: make(map[NodeID]*Node)}
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Roots returns a copy of the root sequence.
func (t *Tree) Roots() []NodeID {
	return slices.Clone(t.roots)
}

// Node returns a copy of the node with the given id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, false
	}
	out := *n
	out.Children = slices.Clone(n.Children)
	return out, true
}

// Children returns the child ids of a node, nil when the node is unknown.
func (t *Tree) Children(id NodeID) []NodeID {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return slices.Clone(n.Children)
}

// FindQueue returns the Queue node for (region, queueID).
func (t *Tree) FindQueue(region, queueID string) (NodeID, bool) {
	for _, id := range t.roots {
		n := t.nodes[id]
		if n.Role == RoleQueue && n.Region == region && n.QueueID == queueID {
			return id, true
		}
	}
	return 0, false
}

// SendGroup returns the SendGroup child of a Queue node.
func (t *Tree) SendGroup(queue NodeID) (NodeID, bool) {
	return t.childWithRole(queue, RoleSendGroup)
}

// SubscriptionGroup returns the SubscriptionGroup child of a Queue node.
func (t *Tree) SubscriptionGroup(queue NodeID) (NodeID, bool) {
	return t.childWithRole(queue, RoleSubscriptionGroup)
}

func (t *Tree) childWithRole(id NodeID, role Role) (NodeID, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return 0, false
	}
	for _, c := range n.Children {
		if t.nodes[c].Role == role {
			return c, true
		}
	}
	return 0, false
}

// QueueOf walks parents up to the owning Queue node.
func (t *Tree) QueueOf(id NodeID) (NodeID, bool) {
	for id != 0 {
		n, ok := t.nodes[id]
		if !ok {
			return 0, false
		}
		if n.Role == RoleQueue {
			return id, true
		}
		id = n.Parent
	}
	return 0, false
}

// AnyFavorite reports whether the node or any descendant is a favorite.
func (t *Tree) AnyFavorite(id NodeID) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	if n.Favorite {
		return true
	}
	for _, c := range n.Children {
		if t.AnyFavorite(c) {
			return true
		}
	}
	return false
}

// Walk visits id and its descendants depth-first in child order.
func (t *Tree) Walk(id NodeID, fn func(n Node, depth int)) {
	t.walk(id, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(Node, int)) {
	n, ok := t.Node(id)
	if !ok {
		return
	}
	fn(n, depth)
	for _, c := range n.Children {
		t.walk(c, depth+1, fn)
	}
}

func (t *Tree) alloc(n Node, parent NodeID) NodeID {
	t.next++
	n.ID = t.next
	n.Parent = parent
	t.nodes[n.ID] = &n
	if p, ok := t.nodes[parent]; ok {
		p.Children = append(p.Children, n.ID)
	}
	return n.ID
}

func (t *Tree) free(id NodeID) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	for _, c := range n.Children {
		t.free(c)
	}
	delete(t.nodes, id)
}

// AddQueueNode appends the fixed sub-tree for a queue to the roots:
// Queue → [Send → [Adhoc, file...], Subscriptions]. It is a no-op returning
// the existing id when the queue is already present.
func (t *Tree) AddQueueNode(region, queueID string, files []string) (NodeID, bool) {
	if id, ok := t.FindQueue(region, queueID); ok {
		return id, false
	}

	queue := t.alloc(Node{
		Label:   QueueLabel(queueID),
		Role:    RoleQueue,
		Region:  region,
		QueueID: queueID,
	}, 0)
	t.roots = append(t.roots, queue)

	send := t.alloc(Node{Label: LabelSendGroup, Role: RoleSendGroup, Region: region, QueueID: queueID}, queue)
	t.alloc(Node{Label: LabelAdhocSend, Role: RoleAdhocSend, Region: region, QueueID: queueID}, send)
	for _, path := range files {
		_, _, _ = t.AddMessageFileNode(send, path)
	}
	t.alloc(Node{Label: LabelSubscriptionGroup, Role: RoleSubscriptionGroup, Region: region, QueueID: queueID}, queue)

	return queue, true
}

// RemoveQueueNode removes the first matching Queue node from the roots and
// frees its sub-tree.
func (t *Tree) RemoveQueueNode(region, queueID string) bool {
	for i, id := range t.roots {
		n := t.nodes[id]
		if n.Role == RoleQueue && n.Region == region && n.QueueID == queueID {
			t.roots = slices.Delete(t.roots, i, i+1)
			t.free(id)
			return true
		}
	}
	return false
}

// AddMessageFileNode appends a FileSend child to a SendGroup. It is a no-op
// returning the existing id when a child with the same path exists.
func (t *Tree) AddMessageFileNode(sendGroup NodeID, path string) (NodeID, bool, error) {
	group, ok := t.nodes[sendGroup]
	if !ok {
		return 0, false, ErrNotFound
	}
	if group.Role != RoleSendGroup {
		return 0, false, ErrWrongRole
	}
	for _, c := range group.Children {
		if n := t.nodes[c]; n.Role == RoleFileSend && n.FilePath == path {
			return c, false, nil
		}
	}
	id := t.alloc(Node{
		Label:    FileLabel(path),
		Role:     RoleFileSend,
		Region:   group.Region,
		QueueID:  group.QueueID,
		FilePath: path,
	}, sendGroup)
	return id, true, nil
}

// RemoveMessageFileNode detaches a FileSend node from its parent. Nodes
// without a parent are left alone.
func (t *Tree) RemoveMessageFileNode(id NodeID) bool {
	n, ok := t.nodes[id]
	if !ok || n.Parent == 0 {
		return false
	}
	if p, ok := t.nodes[n.Parent]; ok {
		p.Children = slices.DeleteFunc(p.Children, func(c NodeID) bool { return c == id })
	}
	t.free(id)
	return true
}

func (t *Tree) setMarks(id NodeID, favorite, hidden bool) {
	if n, ok := t.nodes[id]; ok {
		n.Favorite = favorite
		n.Hidden = hidden
	}
}

// QueueLabel returns the part of a queue identifier after its last ':' or '/',
// so ARNs and queue URLs both display as the queue name. Identifiers without
// a separator, or ending in one, are returned whole.
func QueueLabel(queueID string) string {
	i := strings.LastIndexAny(queueID, ":/")
	if i < 0 || i == len(queueID)-1 {
		return queueID
	}
	return queueID[i+1:]
}

// FileLabel returns the final '/'-separated segment of path, or path itself
// when there is no such segment.
func FileLabel(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 || i == len(path)-1 {
		return path
	}
	return path[i+1:]
}
