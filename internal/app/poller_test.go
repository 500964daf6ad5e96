package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/five82/sqsnav/internal/sqs"
	"github.com/five82/sqsnav/internal/state"
	"github.com/five82/sqsnav/internal/store"
)

func TestCalculateBackoff(t *testing.T) {
	base := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures", 2, 2 * time.Minute},
		{"three failures", 3, 4 * time.Minute},
		{"four failures capped", 4, maxBackoff}, // Would be 8m, capped
		{"many failures capped", 40, maxBackoff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, base)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, base, got, tt.want)
			}
		})
	}
}

type fakeGateway struct {
	mu    sync.Mutex
	attrs map[string]map[string]string
	fail  map[string]error
	calls int
}

func (f *fakeGateway) ListQueues(context.Context, string, string) ([]string, error) {
	return nil, nil
}

func (f *fakeGateway) Send(context.Context, string, string, string) (sqs.SendResult, error) {
	return sqs.SendResult{}, nil
}

func (f *fakeGateway) Attributes(_ context.Context, _ string, queueURL string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.fail[queueURL]; err != nil {
		return nil, err
	}
	return f.attrs[queueURL], nil
}

func (f *fakeGateway) WhoAmI(context.Context, string) (sqs.Identity, error) {
	return sqs.Identity{}, nil
}

func TestRefresh_RecordsStatsPerQueue(t *testing.T) {
	gw := &fakeGateway{attrs: map[string]map[string]string{
		"qa": {sqs.AttrVisibleMessages: "4"},
		"qb": {sqs.AttrVisibleMessages: "0"},
	}}
	queues := func() []store.QueueBookmark {
		return []store.QueueBookmark{{Region: "r", QueueID: "qa"}, {Region: "r", QueueID: "qb"}}
	}
	var stats state.Store

	if err := refresh(context.Background(), &stats, gw, queues); err != nil {
		t.Fatalf("refresh returned error: %v", err)
	}
	snap := stats.Snapshot()
	if st, _ := snap.Stats("r", "qa"); st.Messages != 4 {
		t.Fatalf("qa messages = %d, want 4", st.Messages)
	}
	if st, _ := snap.Stats("r", "qb"); st.Messages != 0 {
		t.Fatalf("qb messages = %d, want 0", st.Messages)
	}
	if gw.calls != 2 {
		t.Fatalf("Attributes calls = %d, want 2", gw.calls)
	}
}

func TestRefresh_PartialFailureKeepsGoodResults(t *testing.T) {
	boom := errors.New("boom")
	gw := &fakeGateway{
		attrs: map[string]map[string]string{"qa": {sqs.AttrVisibleMessages: "1"}},
		fail:  map[string]error{"qb": boom},
	}
	queues := func() []store.QueueBookmark {
		return []store.QueueBookmark{{Region: "r", QueueID: "qa"}, {Region: "r", QueueID: "qb"}}
	}
	var stats state.Store

	err := refresh(context.Background(), &stats, gw, queues)
	if !errors.Is(err, boom) {
		t.Fatalf("refresh error = %v, want boom", err)
	}
	snap := stats.Snapshot()
	if snap.ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", snap.ConsecutiveFailures)
	}
	if st, ok := snap.Stats("r", "qa"); !ok || st.Messages != 1 {
		t.Fatalf("qa stats = %#v ok=%v, want 1 message", st, ok)
	}
}

func TestRefresh_NoQueues(t *testing.T) {
	var stats state.Store
	if err := refresh(context.Background(), &stats, &fakeGateway{}, func() []store.QueueBookmark { return nil }); err != nil {
		t.Fatalf("refresh returned error: %v", err)
	}
	if stats.Snapshot().LastUpdated.IsZero() {
		t.Fatalf("LastUpdated should be set after a round")
	}
}
