package state

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var (
	keyA = QueueKey{Region: "us-east-1", QueueID: "https://sqs.us-east-1.amazonaws.com/1/a"}
	keyB = QueueKey{Region: "us-east-1", QueueID: "https://sqs.us-east-1.amazonaws.com/1/b"}
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Update(map[QueueKey]QueueStats{
		keyA: {Attributes: map[string]string{"ApproximateNumberOfMessages": "3"}, Messages: 3},
	}, nil)

	snap := s.Snapshot()
	st, ok := snap.Stats(keyA.Region, keyA.QueueID)
	if !ok || st.Messages != 3 {
		t.Fatalf("stats = %#v (ok=%v), want 3 messages", st, ok)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	st.Attributes["ApproximateNumberOfMessages"] = "999"
	snap.Queues[keyB] = QueueStats{}
	snap2 := s.Snapshot()
	if got := snap2.Queues[keyA].Attributes["ApproximateNumberOfMessages"]; got != "3" {
		t.Fatalf("Snapshot should clone attributes; got %q want 3", got)
	}
	if _, ok := snap2.Queues[keyB]; ok {
		t.Fatalf("Snapshot should clone the queue map")
	}
}

func TestStore_SuccessReplacesQueues(t *testing.T) {
	var s Store
	s.Update(map[QueueKey]QueueStats{keyA: {Messages: 1}, keyB: {Messages: 2}}, nil)
	s.Update(map[QueueKey]QueueStats{keyB: {Messages: 5}}, nil)

	snap := s.Snapshot()
	if _, ok := snap.Queues[keyA]; ok {
		t.Fatalf("queue a should be dropped after a full successful round")
	}
	if snap.Queues[keyB].Messages != 5 {
		t.Fatalf("queue b messages = %d, want 5", snap.Queues[keyB].Messages)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(map[QueueKey]QueueStats{keyA: {Messages: 1}, keyB: {Messages: 2}}, nil)

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(map[QueueKey]QueueStats{keyB: {Messages: 7}}, origErr)

	snap := s.Snapshot()
	if snap.Queues[keyA].Messages != 1 {
		t.Fatalf("queue a changed on error: got %d want 1", snap.Queues[keyA].Messages)
	}
	if snap.Queues[keyB].Messages != 7 {
		t.Fatalf("partial result not merged: got %d want 7", snap.Queues[keyB].Messages)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsDegraded() {
		t.Fatalf("fresh store should have no failures")
	}

	s.Update(nil, errors.New("one"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsDegraded() {
		t.Fatalf("after one failure: %d failures, degraded=%v", snap.ConsecutiveFailures, snap.IsDegraded())
	}

	s.Update(nil, errors.New("two"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsDegraded() {
		t.Fatalf("after two failures: %d failures, degraded=%v", snap.ConsecutiveFailures, snap.IsDegraded())
	}

	s.Update(nil, nil)
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsDegraded() {
		t.Fatalf("success should reset failures, got %d", snap.ConsecutiveFailures)
	}
}

func TestStore_Put(t *testing.T) {
	var s Store
	s.Put(keyA, QueueStats{Messages: 4})
	if st, ok := s.Snapshot().Stats(keyA.Region, keyA.QueueID); !ok || st.Messages != 4 {
		t.Fatalf("Put not visible in snapshot: %#v ok=%v", st, ok)
	}
}
