package tree

import (
	"reflect"
	"testing"

	"github.com/five82/sqsnav/internal/store"
)

func threeRoots(t *testing.T) (*Tree, NodeID, NodeID, NodeID) {
	t.Helper()
	tr := New()
	r1, _ := tr.AddQueueNode("us-east-1", "orders", nil)
	r2, _ := tr.AddQueueNode("us-east-1", "payments", nil)
	r3, _ := tr.AddQueueNode("eu-west-1", "Audit-Events", nil)
	tr.setMarks(r1, true, false)
	tr.setMarks(r2, false, true)
	return tr, r1, r2, r3
}

func TestVisible_FavoritesAndHidden(t *testing.T) {
	tr, r1, r2, r3 := threeRoots(t)

	got := Visible(tr, store.ViewState{ShowOnlyFavorites: true})
	if !reflect.DeepEqual(got, []NodeID{r1}) {
		t.Fatalf("Visible(only favorites) = %v, want [%d]", got, r1)
	}

	got = Visible(tr, store.ViewState{ShowHidden: true})
	if !reflect.DeepEqual(got, []NodeID{r1, r2, r3}) {
		t.Fatalf("Visible(show hidden) = %v, want [%d %d %d]", got, r1, r2, r3)
	}

	got = Visible(tr, store.ViewState{})
	if !reflect.DeepEqual(got, []NodeID{r1, r3}) {
		t.Fatalf("Visible(default) = %v, want [%d %d]", got, r1, r3)
	}
}

func TestVisible_FavoriteDescendantKeepsRoot(t *testing.T) {
	tr := New()
	q, _ := tr.AddQueueNode("r", "q", []string{"/m.json"})
	send, _ := tr.SendGroup(q)
	file := tr.Children(send)[1]
	tr.setMarks(file, true, false)

	got := Visible(tr, store.ViewState{ShowOnlyFavorites: true})
	if !reflect.DeepEqual(got, []NodeID{q}) {
		t.Fatalf("Visible = %v, want [%d]", got, q)
	}
}

func TestVisible_FilterIsCaseInsensitive(t *testing.T) {
	tr, r1, _, r3 := threeRoots(t)

	cases := []struct {
		filter string
		want   []NodeID
	}{
		{"ORDERS", []NodeID{r1}},
		{"audit", []NodeID{r3}},
		{"eu-WEST", []NodeID{r3}},
		{"   ", []NodeID{r1, r3}},
		{"nothing-matches", nil},
	}
	for _, tc := range cases {
		got := Visible(tr, store.ViewState{Filter: tc.filter})
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Visible(filter=%q) = %v, want %v", tc.filter, got, tc.want)
		}
	}
}

func TestVisible_ChildrenNotFiltered(t *testing.T) {
	tr := New()
	q, _ := tr.AddQueueNode("r", "orders", []string{"/secret.json"})
	send, _ := tr.SendGroup(q)
	file := tr.Children(send)[1]
	tr.setMarks(file, false, true)

	got := Visible(tr, store.ViewState{Filter: "orders"})
	if !reflect.DeepEqual(got, []NodeID{q}) {
		t.Fatalf("Visible = %v, want [%d]", got, q)
	}
	if len(tr.Children(send)) != 2 {
		t.Fatalf("hidden child should still be present under a visible root")
	}
}
