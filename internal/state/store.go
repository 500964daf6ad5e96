package state

import (
	"fmt"
	"maps"
	"sync"
	"time"
)

// QueueKey identifies a bookmarked queue.
type QueueKey struct {
	Region  string
	QueueID string
}

// QueueStats is the latest attribute read for one queue.
type QueueStats struct {
	Attributes map[string]string
	// Messages is ApproximateNumberOfMessages, -1 when unknown.
	Messages  int
	UpdatedAt time.Time
}

// Snapshot represents the latest attribute data available to the UI.
type Snapshot struct {
	Queues              map[QueueKey]QueueStats
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// Stats returns the stats for a queue.
func (s Snapshot) Stats(region, queueID string) (QueueStats, bool) {
	st, ok := s.Queues[QueueKey{Region: region, QueueID: queueID}]
	return st, ok
}

// IsDegraded returns true when polling has failed several times in a row.
func (s Snapshot) IsDegraded() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the result of one poll round. Successful entries in stats
// are always merged. When err is nil the round replaced everything, so queues
// missing from stats are dropped; when err is non-nil the previous data for
// failed queues is kept and the error is recorded.
func (s *Store) Update(stats map[QueueKey]QueueStats, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if err != nil {
		if s.snapshot.Queues == nil {
			s.snapshot.Queues = make(map[QueueKey]QueueStats, len(stats))
		}
		for k, v := range stats {
			s.snapshot.Queues[k] = cloneStats(v)
		}
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = now
		s.snapshot.ConsecutiveFailures++
		return
	}

	next := make(map[QueueKey]QueueStats, len(stats))
	for k, v := range stats {
		next[k] = cloneStats(v)
	}
	s.snapshot.Queues = next
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = now
	s.snapshot.ConsecutiveFailures = 0
}

// Put stores the stats of a single queue read outside the poll loop.
func (s *Store) Put(key QueueKey, stats QueueStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Queues == nil {
		s.snapshot.Queues = make(map[QueueKey]QueueStats)
	}
	s.snapshot.Queues[key] = cloneStats(stats)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Queues = make(map[QueueKey]QueueStats, len(s.snapshot.Queues))
	for k, v := range s.snapshot.Queues {
		snap.Queues[k] = cloneStats(v)
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneStats(st QueueStats) QueueStats {
	st.Attributes = maps.Clone(st.Attributes)
	return st
}
