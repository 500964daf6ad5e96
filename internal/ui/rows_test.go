package ui

import (
	"testing"

	"github.com/five82/sqsnav/internal/tree"
)

func sampleTree() (*tree.Tree, tree.NodeID, tree.NodeID) {
	tr := tree.New()
	a, _ := tr.AddQueueNode("us-east-1", "https://sqs.us-east-1.amazonaws.com/1/orders", []string{"/m/a.json"})
	b, _ := tr.AddQueueNode("us-east-1", "https://sqs.us-east-1.amazonaws.com/1/payments", nil)
	return tr, a, b
}

func labels(rows []row) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.node.Label)
	}
	return out
}

func TestBuildRows_CollapsedShowsRootsOnly(t *testing.T) {
	tr, a, b := sampleTree()
	rows := buildRows(tr, []tree.NodeID{a, b}, nil)
	got := labels(rows)
	if len(got) != 2 || got[0] != "orders" || got[1] != "payments" {
		t.Fatalf("rows = %v, want [orders payments]", got)
	}
	if !rows[0].expandable || rows[0].expanded {
		t.Fatalf("root row should be expandable and collapsed")
	}
}

func TestBuildRows_ExpandedDescendants(t *testing.T) {
	tr, a, b := sampleTree()
	qa, _ := tr.Node(a)
	send, _ := tr.SendGroup(a)
	sn, _ := tr.Node(send)
	expanded := map[string]bool{nodeKey(qa): true, nodeKey(sn): true}

	rows := buildRows(tr, []tree.NodeID{a, b}, expanded)
	want := []string{"orders", "Send", "Adhoc", "a.json", "Subscriptions", "payments"}
	got := labels(rows)
	if len(got) != len(want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rows = %v, want %v", got, want)
		}
	}
	if rows[2].depth != 2 || rows[4].depth != 1 {
		t.Fatalf("depths = %d, %d; want 2, 1", rows[2].depth, rows[4].depth)
	}
	if rows[4].expandable {
		t.Fatalf("empty Subscriptions group should not be expandable")
	}
	if got := parentIndex(rows, 3); got != 1 {
		t.Fatalf("parentIndex(a.json) = %d, want 1", got)
	}
	if got := parentIndex(rows, 0); got != -1 {
		t.Fatalf("parentIndex(root) = %d, want -1", got)
	}
}

func TestBuildRows_OnlyVisibleRoots(t *testing.T) {
	tr, _, b := sampleTree()
	rows := buildRows(tr, []tree.NodeID{b}, nil)
	if got := labels(rows); len(got) != 1 || got[0] != "payments" {
		t.Fatalf("rows = %v, want [payments]", got)
	}
}

func TestRowIndex(t *testing.T) {
	tr, a, b := sampleTree()
	rows := buildRows(tr, []tree.NodeID{a, b}, nil)
	nb, _ := tr.Node(b)
	if got := rowIndex(rows, nodeKey(nb)); got != 1 {
		t.Fatalf("rowIndex = %d, want 1", got)
	}
	if got := rowIndex(rows, "missing"); got != -1 {
		t.Fatalf("rowIndex(missing) = %d, want -1", got)
	}
}

func TestClamp(t *testing.T) {
	if clamp(5, 0, 3) != 3 || clamp(-1, 0, 3) != 0 || clamp(2, 0, -1) != 0 {
		t.Fatalf("clamp returned unexpected values")
	}
}
