package ui

import (
	"strings"

	"github.com/five82/sqsnav/internal/tree"
)

// row is one line of the tree pane.
type row struct {
	node       tree.Node
	depth      int
	expandable bool
	expanded   bool
}

// nodeKey identifies a node across rebuilds, where NodeIDs are reassigned.
func nodeKey(n tree.Node) string {
	return strings.Join([]string{n.Role.String(), n.Region, n.QueueID, n.FilePath}, "\x00")
}

// buildRows flattens the visible roots and every expanded descendant in
// display order.
func buildRows(t *tree.Tree, visible []tree.NodeID, expanded map[string]bool) []row {
	var rows []row
	var walk func(id tree.NodeID, depth int)
	walk = func(id tree.NodeID, depth int) {
		n, ok := t.Node(id)
		if !ok {
			return
		}
		r := row{
			node:       n,
			depth:      depth,
			expandable: len(n.Children) > 0,
			expanded:   expanded[nodeKey(n)],
		}
		rows = append(rows, r)
		if !r.expandable || !r.expanded {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, id := range visible {
		walk(id, 0)
	}
	return rows
}

// rowIndex returns the index of the row with the given key, or -1.
func rowIndex(rows []row, key string) int {
	for i, r := range rows {
		if nodeKey(r.node) == key {
			return i
		}
	}
	return -1
}

// parentIndex returns the index of the closest row above i with a smaller depth.
func parentIndex(rows []row, i int) int {
	if i <= 0 || i >= len(rows) {
		return -1
	}
	for j := i - 1; j >= 0; j-- {
		if rows[j].depth < rows[i].depth {
			return j
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
