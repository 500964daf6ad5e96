package tree

import (
	"strings"

	"github.com/five82/sqsnav/internal/store"
)

// Visible returns the subset of roots that pass the view toggles, in root
// order. Only roots are filtered; the children of a visible root are shown
// as they are. The filter string matches case-insensitively against the
// label, region and queue identifier.
func Visible(t *Tree, view store.ViewState) []NodeID {
	needle := strings.ToLower(strings.TrimSpace(view.Filter))

	var out []NodeID
	for _, id := range t.roots {
		n := t.nodes[id]
		if needle != "" && !matches(n, needle) {
			continue
		}
		if view.ShowOnlyFavorites && !t.AnyFavorite(id) {
			continue
		}
		if !view.ShowHidden && n.Hidden {
			continue
		}
		out = append(out, id)
	}
	return out
}

func matches(n *Node, needle string) bool {
	for _, field := range []string{n.Label, n.Region, n.QueueID} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
